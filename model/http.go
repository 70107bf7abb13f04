package model

type ParseRequestBody struct {
	Text      string `json:"text"`
	Transpose int    `json:"transpose"`
	// Format is "plain" or "html"; empty means plain.
	Format string `json:"format"`
}

type ParseResponse struct {
	ID        string   `json:"id,omitempty"`
	Formatted string   `json:"formatted"`
	Key       string   `json:"key,omitempty"`
	Bars      int      `json:"bars"`
	Sections  []string `json:"sections,omitempty"`
}

type ChordRequestBody struct {
	Symbol    string `json:"symbol"`
	Transpose int    `json:"transpose"`
}

type ChordResponse struct {
	Symbol      string   `json:"symbol"`
	HTML        string   `json:"html"`
	Quality     string   `json:"quality"`
	Alterations []string `json:"alterations"`
}

type ErrorResponse struct {
	Error  string `json:"detail"`
	Line   int    `json:"line,omitempty"`
	Column int    `json:"column,omitempty"`
}
