package converter

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/samber/lo"
)

// File is a statement selected for conversion.
type File struct {
	Name string // base name, used to detect duplicates
	Size int64
	Path string // where the content is read from
}

// Selection is the ordered list of statements to convert.
//
// Only PDF files are kept, and a file whose name is already selected is
// ignored, whatever its path.
type Selection struct {
	files []File
}

// NewSelection returns a selection made of files.
func NewSelection(files ...File) *Selection {
	s := new(Selection)
	s.Add(files...)
	return s
}

// isPDF reports whether name has a .pdf extension.
func isPDF(name string) bool { return strings.HasSuffix(strings.ToLower(name), ".pdf") }

// Add appends files to the selection and returns how many were actually added.
func (s *Selection) Add(files ...File) int {
	added := 0
	for _, f := range lo.Filter(files, func(f File, _ int) bool { return isPDF(f.Name) }) {
		if s.Contains(f.Name) {
			continue
		}
		s.files = append(s.files, f)
		added++
	}
	return added
}

// AddPaths adds the files found at paths.
func (s *Selection) AddPaths(paths ...string) (int, error) {
	files := make([]File, 0, len(paths))
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return 0, fmt.Errorf("cannot select %q: %w", p, err)
		}
		if info.IsDir() {
			return 0, fmt.Errorf("cannot select %q: is a directory", p)
		}
		if !isPDF(p) {
			log.WithField("file", p).Warn("not a PDF, skipped")
			continue
		}
		files = append(files, File{Name: filepath.Base(p), Size: info.Size(), Path: p})
	}
	return s.Add(files...), nil
}

// Contains reports whether a file with this name is selected.
func (s *Selection) Contains(name string) bool {
	return lo.ContainsBy(s.files, func(f File) bool { return f.Name == name })
}

// Remove removes the i-th file. Out of range indexes are ignored.
func (s *Selection) Remove(i int) {
	if i < 0 || i >= len(s.files) {
		return
	}
	s.files = append(s.files[:i:i], s.files[i+1:]...)
}

// Files returns a copy of the selected files.
func (s *Selection) Files() []File { return append([]File(nil), s.files...) }

// Len returns the number of selected files.
func (s *Selection) Len() int { return len(s.files) }

// Empty reports whether nothing is selected, in which case there is nothing to convert.
func (s *Selection) Empty() bool { return len(s.files) == 0 }

var sizeUnits = []string{"Bytes", "KB", "MB", "GB"}

// FormatSize returns a human readable size: "0 Bytes", "1.5 KB", "2.25 MB".
func FormatSize(bytes int64) string {
	if bytes <= 0 {
		return "0 Bytes"
	}
	const k = 1024
	i := int(math.Floor(math.Log(float64(bytes)) / math.Log(k)))
	i = min(i, len(sizeUnits)-1)
	v := math.Round(float64(bytes)/math.Pow(k, float64(i))*100) / 100
	return fmt.Sprintf("%v %s", v, sizeUnits[i])
}
