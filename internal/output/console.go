/*
PURPOSE:
  Terminal output for the CLI: the run summary, validation results and
  the model listing.

REQUIREMENTS:
  User-specified:
  - "Sane" CLI output. Not spammy.
  - Show the best format per metric after a run.

  Implementation-discovered:
  - Colors only when stdout is a terminal; pipes and tests get plain text.

ARCHITECTURE INTEGRATION:
  - Called by: internal/cli
  - Consumes: internal/dataset.Dataset, internal/ingest.Result

ERROR HANDLING:
  - Write errors are ignored (terminal output is best effort).

USAGE:
  c := output.NewConsole(os.Stdout)
  c.Summary(ds, written)

RELATED FILES:
  - internal/cli/run.go
  - internal/cli/validate.go
*/

package output

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/muesli/termenv"

	"github.com/daryltucker/format-bench/internal/dataset"
	"github.com/daryltucker/format-bench/internal/engine"
	"github.com/daryltucker/format-bench/internal/ingest"
	"github.com/daryltucker/format-bench/internal/model"
)

// Console styles CLI output for the terminal it writes to.
type Console struct {
	out *termenv.Output
}

// NewConsole detects the color profile of w. Pass termenv.WithProfile to force one.
func NewConsole(w io.Writer, opts ...termenv.OutputOption) *Console {
	return &Console{out: termenv.NewOutput(w, opts...)}
}

func (c *Console) bold(s string) string {
	return c.out.String(s).Bold().String()
}

func (c *Console) good(s string) string {
	return c.out.String(s).Foreground(c.out.Color("2")).String()
}

func (c *Console) warn(s string) string {
	return c.out.String(s).Foreground(c.out.Color("3")).String()
}

func (c *Console) bad(s string) string {
	return c.out.String(s).Foreground(c.out.Color("1")).String()
}

func (c *Console) faint(s string) string {
	return c.out.String(s).Faint().String()
}

// styled is one table cell; style applies to the text only, never to padding.
type styled struct {
	text  string
	style func(string) string
}

func plain(s string) styled { return styled{text: s} }

// table lays out rows in columns two spaces apart. Widths come from the
// unstyled text so escape sequences do not shift columns.
func (c *Console) table(indent string, rows [][]styled) {
	var widths []int
	for _, r := range rows {
		for i, cl := range r {
			if i == len(widths) {
				widths = append(widths, 0)
			}
			widths[i] = max(widths[i], utf8.RuneCountInString(cl.text))
		}
	}
	for _, r := range rows {
		var b strings.Builder
		b.WriteString(indent)
		for i, cl := range r {
			text := cl.text
			if cl.style != nil {
				text = cl.style(text)
			}
			b.WriteString(text)
			if i < len(r)-1 {
				b.WriteString(strings.Repeat(" ", widths[i]-utf8.RuneCountInString(cl.text)+2))
			}
		}
		fmt.Fprintln(c.out, b.String())
	}
}

// Summary prints the headline results of a run and the files written.
func (c *Console) Summary(ds *dataset.Dataset, written []string) {
	md := ds.Metadata
	fmt.Fprintf(c.out, "%s %s\n", c.bold("format-bench"), c.faint(md.Source))
	fmt.Fprintf(c.out, "%s records, %s models\n\n", printer.Sprintf("%d", md.RecordCount), printer.Sprintf("%d", md.ModelCount))

	var rows [][]styled
	for _, r := range ds.Rankings {
		best, ok := r.Best()
		if !ok {
			rows = append(rows, []styled{plain(label(r.Metric)), {text: "no data", style: c.faint}})
			continue
		}
		rows = append(rows, []styled{
			plain(label(r.Metric)),
			{text: best.Format.DisplayName(), style: c.good},
			plain(number(best.Value, precision(r.Metric))),
		})
	}
	c.table("  ", rows)

	c.quality(md.SkippedFields, md.MalformedFields, md.DroppedRecords, md.IdentityConflicts)

	if len(written) > 0 {
		fmt.Fprintln(c.out)
		for _, p := range written {
			fmt.Fprintf(c.out, "  %s %s\n", c.faint("wrote"), p)
		}
	}
}

func (c *Console) quality(skipped, malformed, dropped, conflicts int) {
	if skipped == 0 && dropped == 0 && conflicts == 0 {
		return
	}
	fmt.Fprintln(c.out)
	if skipped > 0 {
		fmt.Fprintln(c.out, c.warn(fmt.Sprintf("%d fields skipped (%d malformed)", skipped, malformed)))
	}
	if conflicts > 0 {
		fmt.Fprintln(c.out, c.warn(fmt.Sprintf("%d conflicting face/texture counts replaced by the first value", conflicts)))
	}
	if dropped > 0 {
		fmt.Fprintln(c.out, c.bad(fmt.Sprintf("%d records dropped", dropped)))
	}
}

// Validation prints the outcome of loading a file without aggregating it.
func (c *Console) Validation(res *ingest.Result) {
	fmt.Fprintf(c.out, "%s %s (%s)\n", c.bold("validate"), res.Source, res.Kind)
	fmt.Fprintf(c.out, "%d records, %d models\n", len(res.Records), len(res.Models()))

	r := res.Report
	fmt.Fprintf(c.out, "%d numeric fields: %d blank, %d placeholder, %d malformed\n", r.Fields, r.Blanks, r.Placeholders, r.Malformed)
	for _, m := range model.Metrics {
		if n := r.SkippedByMetric[m]; n > 0 {
			fmt.Fprintf(c.out, "  %s: %d missing\n", m, n)
		}
	}
	if len(r.UnknownFields) > 0 {
		fmt.Fprintln(c.out, c.faint(fmt.Sprintf("ignored fields: %v", r.UnknownFields)))
	}

	for _, e := range res.Errors {
		fmt.Fprintln(c.out, c.bad(e.Error()))
	}
	c.quality(r.Skipped, r.Malformed, r.Dropped, r.Conflicts)
	if len(res.Errors) == 0 {
		fmt.Fprintln(c.out, c.good("ok"))
	}
}

// Models lists every model with its face count, size bucket and formats.
func (c *Console) Models(agg *engine.Result) {
	rows := [][]styled{{plain("MODEL"), plain("FACES (k)"), plain("TEXTURES"), plain("BUCKET"), plain("FORMATS")}}
	for _, g := range agg.Models {
		bucket := agg.Bucket(g.FaceCount())
		if bucket == "" {
			bucket = "-"
		}
		formats := make([]string, len(g.Rows))
		for i, r := range g.Rows {
			formats[i] = r.Record.Format.DisplayName()
		}
		rows = append(rows, []styled{
			{text: g.ModelID, style: c.bold},
			plain(count(g.FaceCount())),
			plain(count(g.TextureCount())),
			plain(bucket),
			plain(strings.Join(formats, ", ")),
		})
	}
	c.table("", rows)
}

// Metrics lists the metric catalogue with units and directionality.
func (c *Console) Metrics(s engine.Settings) {
	rows := [][]styled{{plain("METRIC"), plain("LABEL"), plain("UNIT"), plain("DIRECTION")}}
	for _, m := range model.Metrics {
		unit := m.Unit()
		if unit == "" {
			unit = "-"
		}
		kind := directionNote(s.Direction(m))
		if m.Derived() {
			kind += ", derived"
		}
		rows = append(rows, []styled{plain(string(m)), plain(m.Label()), plain(unit), plain(kind)})
	}
	c.table("", rows)
}
