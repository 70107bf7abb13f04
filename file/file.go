package file

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

var leadsheetExtensions = map[string]bool{
	".leadsheet": true,
	".txt":       true,
}

func IsLeadsheet(path string) bool {
	return leadsheetExtensions[strings.ToLower(filepath.Ext(path))]
}

// GatherLeadsheetPaths walks root for leadsheet files, in lexical order. A
// maxNum above zero stops after that many.
func GatherLeadsheetPaths(root string, maxNum int) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if IsLeadsheet(path) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)
	if maxNum > 0 && len(paths) > maxNum {
		paths = paths[:maxNum]
	}
	return paths, nil
}

// CreateFileNumMap numbers paths in order.
func CreateFileNumMap(paths []string) map[uint32]string {
	res := make(map[uint32]string)
	for i, v := range paths {
		res[uint32(i)] = v
	}
	return res
}
