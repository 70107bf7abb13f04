package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/jsphweid/leadsheet/chord"
	"github.com/jsphweid/leadsheet/config"
	"github.com/jsphweid/leadsheet/metrics"
	"github.com/jsphweid/leadsheet/model"
	"github.com/jsphweid/leadsheet/parser"
	"github.com/jsphweid/leadsheet/store"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/spf13/cobra"
)

const maxBodyBytes = 1 << 20

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves the parser over HTTP",
	Long: `Serves POST /parse, POST /chord, POST /songs, GET /songs/{id}, GET /last
and GET /metrics. The last parsed song is kept on disk.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := loadConfig()
		if err != nil {
			return err
		}
		return serve(cmd.Context(), c)
	},
}

// Server holds the state behind the HTTP handlers. Songs created through
// POST /songs live in memory only.
type Server struct {
	metrics *metrics.Metrics
	store   *store.Store
	logger  *slog.Logger

	mu    sync.RWMutex
	songs map[uuid.UUID]model.Song
}

func NewServer(st *store.Store, m *metrics.Metrics, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		metrics: m,
		store:   st,
		logger:  logger,
		songs:   make(map[uuid.UUID]model.Song),
	}
}

// Router wires the handlers. allowedOrigins empty allows any origin.
func (s *Server) Router(allowedOrigins []string) http.Handler {
	router := mux.NewRouter().StrictSlash(true)
	router.HandleFunc("/parse", s.HandleParse).Methods(http.MethodPost)
	router.HandleFunc("/chord", s.HandleChord).Methods(http.MethodPost)
	router.HandleFunc("/songs", s.HandleCreateSong).Methods(http.MethodPost)
	router.HandleFunc("/songs/{id}", s.HandleGetSong).Methods(http.MethodGet)
	router.HandleFunc("/last", s.HandleLast).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.HandlerFor(s.metrics.Registry, promhttp.HandlerOpts{}))

	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	return cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Content-Type"},
	}).Handler(router)
}

func (s *Server) HandleParse(w http.ResponseWriter, r *http.Request) {
	var input model.ParseRequestBody
	if !s.decode(w, r, &input) {
		return
	}
	song, ok := s.parseSong(w, r, input.Text)
	if !ok {
		return
	}
	s.store.Save(song)
	s.respondSong(w, uuid.Nil, song, input.Transpose, input.Format)
}

func (s *Server) HandleChord(w http.ResponseWriter, r *http.Request) {
	var input model.ChordRequestBody
	if !s.decode(w, r, &input) {
		return
	}
	start := time.Now()
	c, err := parser.ParseChord(input.Symbol)
	s.metrics.ObserveParse("chord", start, err)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if input.Transpose != 0 {
		c = c.Transpose(input.Transpose, c.Tonic.Direction())
	}
	res := model.ChordResponse{
		Symbol:      c.String(),
		HTML:        c.Print(chord.HTML{}),
		Quality:     string(c.ID()),
		Alterations: make([]string, 0, len(c.Alterations)),
	}
	for _, a := range c.Alterations {
		res.Alterations = append(res.Alterations, a.String())
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) HandleCreateSong(w http.ResponseWriter, r *http.Request) {
	var input model.ParseRequestBody
	if !s.decode(w, r, &input) {
		return
	}
	song, ok := s.parseSong(w, r, input.Text)
	if !ok {
		return
	}
	id := uuid.New()
	s.mu.Lock()
	s.songs[id] = song
	s.mu.Unlock()
	s.logger.Info("song created", "id", id, "title", song.Title, "bars", len(song.Bars))
	s.respondSong(w, id, song, input.Transpose, input.Format)
}

// HandleGetSong returns a stored song. The query parameters transpose and
// format apply as in POST /parse.
func (s *Server) HandleGetSong(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeJSON(w, http.StatusBadRequest, model.ErrorResponse{Error: "malformed song id"})
		return
	}
	s.mu.RLock()
	song, ok := s.songs[id]
	s.mu.RUnlock()
	if !ok {
		writeJSON(w, http.StatusNotFound, model.ErrorResponse{Error: "no such song"})
		return
	}
	halfSteps, ok := queryTranspose(w, r)
	if !ok {
		return
	}
	s.respondSong(w, id, song, halfSteps, r.URL.Query().Get("format"))
}

// HandleLast returns the song most recently sent to POST /parse, which
// survives restarts through the store.
func (s *Server) HandleLast(w http.ResponseWriter, r *http.Request) {
	song, err := s.store.Load()
	if errors.Is(err, os.ErrNotExist) {
		writeJSON(w, http.StatusNotFound, model.ErrorResponse{Error: "no song has been parsed yet"})
		return
	}
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	halfSteps, ok := queryTranspose(w, r)
	if !ok {
		return
	}
	s.respondSong(w, uuid.Nil, song, halfSteps, r.URL.Query().Get("format"))
}

func (s *Server) parseSong(w http.ResponseWriter, r *http.Request, text string) (model.Song, bool) {
	start := time.Now()
	song, err := parser.ParseSong(text)
	s.metrics.ObserveParse("song", start, err)
	if err != nil {
		s.fail(w, r, err)
		return model.Song{}, false
	}
	s.metrics.ObserveSong(len(song.Bars))
	return song, true
}

func (s *Server) respondSong(w http.ResponseWriter, id uuid.UUID, song model.Song, halfSteps int, format string) {
	if halfSteps != 0 {
		song = song.Transpose(halfSteps)
	}
	res := model.ParseResponse{
		Bars:     len(song.Bars),
		Sections: song.Sections(),
	}
	if id != uuid.Nil {
		res.ID = id.String()
	}
	if song.Key != nil {
		res.Key = song.Key.String()
	}
	switch format {
	case "", "plain":
		res.Formatted = song.Format()
	case "html":
		res.Formatted = song.FormatWith(chord.HTML{})
	default:
		writeJSON(w, http.StatusBadRequest, model.ErrorResponse{Error: fmt.Sprintf("unknown format %q", format)})
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, model.ErrorResponse{Error: "malformed request body: " + err.Error()})
		return false
	}
	return true
}

// fail maps parser errors to 400 with their position; anything else is a 500.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	var pe *parser.ParseError
	var ve *parser.ValidationError
	switch {
	case errors.As(err, &pe):
		writeJSON(w, http.StatusBadRequest, model.ErrorResponse{Error: pe.Error(), Line: pe.Line, Column: pe.Column})
	case errors.As(err, &ve):
		writeJSON(w, http.StatusBadRequest, model.ErrorResponse{Error: ve.Error(), Line: ve.Line, Column: ve.Column})
	default:
		s.internalError(w, r, err)
	}
}

func (s *Server) internalError(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Error("request failed", "path", r.URL.Path, "error", err)
	metrics.CaptureError(err, map[string]string{"route": r.URL.Path})
	writeJSON(w, http.StatusInternalServerError, model.ErrorResponse{Error: "internal error"})
}

func queryTranspose(w http.ResponseWriter, r *http.Request) (int, bool) {
	v := r.URL.Query().Get("transpose")
	if v == "" {
		return 0, true
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, model.ErrorResponse{Error: "transpose must be an integer"})
		return 0, false
	}
	return n, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to write response", "error", err)
	}
}

func serve(ctx context.Context, c *config.Config) error {
	if err := metrics.InitSentry(c.Server.SentryDSN, "leadsheet"); err != nil {
		return fmt.Errorf("failed to init sentry: %w", err)
	}
	defer metrics.Flush()

	st := store.New(c.Store.Path, c.Store.Debounce, slog.Default())
	defer func() {
		if err := st.Flush(); err != nil {
			slog.Error("failed to save last song", "error", err)
		}
	}()

	srv := &http.Server{
		Addr:              c.Server.Addr,
		Handler:           NewServer(st, metrics.New(), slog.Default()).Router(c.Server.AllowedOrigins),
		ReadHeaderTimeout: 10 * time.Second,
	}

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errs := make(chan error, 1)
	go func() {
		slog.Info("listening", "addr", c.Server.Addr, "store", c.Store.Path)
		errs <- srv.ListenAndServe()
	}()

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
	}
	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
