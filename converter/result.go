package converter

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/samber/lo"
)

// FileResult describes one converted statement.
type FileResult struct {
	Original     string `json:"original"`
	Output       string `json:"output"`
	Transactions int    `json:"transactions"`
}

// Result is the payload returned by a successful conversion.
//
// A single statement fills File and Transactions. Several statements fill
// Files, and the server adds a Combined spreadsheet and a Zip of everything.
// The content of every produced file is in FileData, base64 encoded.
type Result struct {
	Multiple bool `json:"multiple"`

	File         string `json:"file,omitempty"`
	Transactions int    `json:"transactions,omitempty"`

	Files             []FileResult `json:"files,omitempty"`
	TotalTransactions int          `json:"total_transactions,omitempty"`
	Combined          string       `json:"combined,omitempty"`
	Zip               string       `json:"zip,omitempty"`

	FileData map[string]string `json:"file_data"`
}

// Total returns the number of transactions extracted.
func (r *Result) Total() int {
	if r.Multiple {
		return r.TotalTransactions
	}
	return r.Transactions
}

// Downloads returns the names of the downloadable files in display order.
func (r *Result) Downloads() []string {
	if !r.Multiple {
		if r.File == "" {
			return nil
		}
		return []string{r.File}
	}
	names := make([]string, 0, len(r.Files)+2)
	for _, f := range r.Files {
		names = append(names, f.Output)
	}
	for _, n := range []string{r.Combined, r.Zip} {
		if n != "" {
			names = append(names, n)
		}
	}
	return names
}

// Content returns the decoded content of the file called name.
func (r *Result) Content(name string) ([]byte, error) {
	data, ok := r.FileData[name]
	if !ok {
		return nil, fmt.Errorf("no content for %q in the conversion result", name)
	}
	content, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, fmt.Errorf("cannot decode %q: %w", name, err)
	}
	return content, nil
}

// Save writes the file called name into dir and returns its path.
//
// Only the base of name is used, so a result cannot write outside dir.
func (r *Result) Save(dir, name string) (string, error) {
	content, err := r.Content(name)
	if err != nil {
		return "", err
	}
	base := filepath.Base(filepath.Clean("/" + strings.ReplaceAll(name, `\`, "/")))
	if base == "/" || base == "." {
		return "", fmt.Errorf("invalid file name %q", name)
	}
	path := filepath.Join(dir, base)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return "", fmt.Errorf("cannot save %q: %w", base, err)
	}
	log.WithField("file", path).Info("saved")
	return path, nil
}

// SaveAll writes every downloadable file into dir, creating it if needed.
//
// Files present in FileData but not listed as downloads are written last, in
// name order.
func (r *Result) SaveAll(dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("cannot create output directory: %w", err)
	}
	names := r.Downloads()
	extra := lo.Filter(lo.Keys(r.FileData), func(name string, _ int) bool { return !lo.Contains(names, name) })
	sort.Strings(extra)
	names = append(names, extra...)

	paths := make([]string, 0, len(names))
	for _, name := range names {
		p, err := r.Save(dir, name)
		if err != nil {
			return paths, err
		}
		paths = append(paths, p)
	}
	return paths, nil
}
