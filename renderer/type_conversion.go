package renderer

import (
	"path/filepath"

	"github.com/etnz/oneshot/converter"
)

// Conversion is the view of a conversion result.
type Conversion struct {
	Multiple  bool                   `json:"multiple"`
	Total     int                    `json:"total"`
	Files     []converter.FileResult `json:"files,omitempty"`
	Downloads []Download             `json:"downloads"`
}

// Download is a file produced by the conversion.
type Download struct {
	Name string `json:"name"`
	Path string `json:"path,omitempty"` // where it was saved, if it was
}

// NewConversion creates the view of res. saved are the paths written by
// Result.SaveAll, matched to the downloads by base name.
func NewConversion(res *converter.Result, saved []string) *Conversion {
	paths := make(map[string]string, len(saved))
	for _, p := range saved {
		paths[filepath.Base(p)] = p
	}
	c := &Conversion{Multiple: res.Multiple, Total: res.Total()}
	if res.Multiple {
		c.Files = res.Files
	}
	for _, name := range res.Downloads() {
		c.Downloads = append(c.Downloads, Download{Name: name, Path: paths[filepath.Base(name)]})
	}
	return c
}
