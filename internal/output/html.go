package output

import (
	"bytes"
	"io"

	"github.com/gomarkdown/markdown"
	mdhtml "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"github.com/daryltucker/format-bench/internal/dataset"
)

const reportCSS = `body { font-family: sans-serif; max-width: 72em; margin: 2em auto; color: #222; }
table { border-collapse: collapse; margin: 1em 0; }
th, td { border: 1px solid #ccc; padding: 0.3em 0.6em; text-align: right; }
th:first-child, td:first-child { text-align: left; }
th { background: #f3f3f3; }
code { background: #f6f6f6; padding: 0 0.2em; }
`

// HTMLRenderer writes report.html, a standalone page rendered from the
// Markdown report.
type HTMLRenderer struct {
	Title string
}

func (HTMLRenderer) Name() string     { return "html" }
func (HTMLRenderer) Filename() string { return "report.html" }

func (r HTMLRenderer) Render(w io.Writer, ds *dataset.Dataset) error {
	title := r.Title
	if title == "" {
		title = DefaultTitle
	}

	var md bytes.Buffer
	writeMarkdown(&md, title, ds)

	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	renderer := mdhtml.NewRenderer(mdhtml.RendererOptions{
		Title: title,
		// Input text is escaped in the Markdown; raw HTML is never emitted.
		Flags: mdhtml.CommonFlags | mdhtml.CompletePage | mdhtml.SkipHTML,
		Head:  []byte("<style>\n" + reportCSS + "</style>\n"),
	})
	_, err := w.Write(markdown.ToHTML(md.Bytes(), p, renderer))
	return err
}
