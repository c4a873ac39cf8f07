/*
PURPOSE:
  Renderer registry. Every report format implements Renderer and writes
  one file into the output directory.

REQUIREMENTS:
  User-specified:
  - Write comparison data as JSON and CSV, plus text and HTML reports.

  Implementation-discovered:
  - Users want to pick a subset of reports from config or flags.
  - A failing renderer should not stop the others.

ARCHITECTURE INTEGRATION:
  - Called by: internal/pipeline
  - Consumes: internal/dataset.Dataset

ERROR HANDLING:
  - Unknown renderer names are an error before anything is written.
  - Per-renderer failures are logged and joined into the returned error.

USAGE:
  written, err := output.WriteAll(cfg.OutputDir, cfg.Renderers, ds)

RELATED FILES:
  - internal/output/json.go
  - internal/output/csv.go
  - internal/output/text.go
  - internal/output/markdown.go
  - internal/output/html.go
*/

package output

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/daryltucker/format-bench/internal/dataset"
)

// Renderer writes one report from a dataset.
type Renderer interface {
	// Name is the identifier used in config and flags.
	Name() string
	// Filename is the file written inside the output directory.
	Filename() string
	Render(w io.Writer, ds *dataset.Dataset) error
}

// Options tune the human-readable renderers.
type Options struct {
	Title string
}

// DefaultTitle is the report title when none is configured.
const DefaultTitle = "3D Format Comparison"

// Registry returns every renderer in output order.
func Registry(opts Options) []Renderer {
	if opts.Title == "" {
		opts.Title = DefaultTitle
	}
	return []Renderer{
		JSONRenderer{},
		RecordsJSONLRenderer{},
		RecordsCSVRenderer{},
		SummaryCSVRenderer{},
		TextRenderer{Title: opts.Title},
		MarkdownRenderer{Title: opts.Title},
		HTMLRenderer{Title: opts.Title},
	}
}

// Names returns the names of every registered renderer.
func Names() []string {
	var names []string
	for _, r := range Registry(Options{}) {
		names = append(names, r.Name())
	}
	return names
}

// Select returns the named renderers in registry order. An empty list
// selects all of them.
func Select(names []string, opts Options) ([]Renderer, error) {
	all := Registry(opts)
	if len(names) == 0 {
		return all, nil
	}

	want := make(map[string]bool, len(names))
	for _, n := range names {
		want[n] = true
	}
	var out []Renderer
	for _, r := range all {
		if want[r.Name()] {
			out = append(out, r)
			delete(want, r.Name())
		}
	}
	for _, n := range names {
		if want[n] {
			return nil, fmt.Errorf("unknown renderer %q (available: %v)", n, Names())
		}
	}
	return out, nil
}

// WriteAll renders each renderer into dir and returns the paths written.
func WriteAll(dir string, renderers []Renderer, ds *dataset.Dataset) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	var written []string
	var errs []error
	for _, r := range renderers {
		path := filepath.Join(dir, r.Filename())
		if err := writeFile(path, r, ds); err != nil {
			Logger.Error("Failed to write report", "renderer", r.Name(), "path", path, "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", r.Name(), err))
			continue
		}
		Logger.Debug("Wrote report", "renderer", r.Name(), "path", path)
		written = append(written, path)
	}
	return written, errors.Join(errs...)
}

// writeFile overwrites path with the rendered output.
func writeFile(path string, r Renderer, ds *dataset.Dataset) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := r.Render(f, ds); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
