package output

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/daryltucker/format-bench/internal/dataset"
	"github.com/daryltucker/format-bench/internal/model"
)

// MarkdownRenderer writes report.md. The HTML report is rendered from the
// same document.
type MarkdownRenderer struct {
	Title string
}

func (MarkdownRenderer) Name() string     { return "markdown" }
func (MarkdownRenderer) Filename() string { return "report.md" }

func (r MarkdownRenderer) Render(w io.Writer, ds *dataset.Dataset) error {
	bw := bufio.NewWriter(w)
	writeMarkdown(bw, r.Title, ds)
	return bw.Flush()
}

// mdEscaper backslash-escapes text taken from the input (model ids, sources,
// parse errors) so it renders literally. Pipes are left to cell.
var mdEscaper = strings.NewReplacer(
	`\`, `\\`,
	"`", "\\`",
	"*", `\*`,
	"_", `\_`,
	"[", `\[`,
	"]", `\]`,
	"<", `\<`,
	">", `\>`,
	"&", `\&`,
	"#", `\#`,
)

func mdText(s string) string {
	return mdEscaper.Replace(s)
}

// cell escapes pipes so a value cannot break a table row.
func cell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

func row(w io.Writer, cells ...string) {
	for i := range cells {
		cells[i] = cell(cells[i])
	}
	fmt.Fprintf(w, "| %s |\n", strings.Join(cells, " | "))
}

func tableHeader(w io.Writer, cells ...string) {
	row(w, cells...)
	seps := make([]string, len(cells))
	for i := range seps {
		seps[i] = "---"
	}
	fmt.Fprintf(w, "|%s|\n", strings.Join(seps, "|"))
}

func writeMarkdown(w io.Writer, title string, ds *dataset.Dataset) {
	if title == "" {
		title = DefaultTitle
	}
	md := ds.Metadata

	fmt.Fprintf(w, "# %s\n\n", mdText(title))
	fmt.Fprintf(w, "Source %s (%s), generated %s.\n\n", mdText(md.Source), md.SourceFormat, md.GeneratedAt.Format("2006-01-02 15:04 MST"))
	fmt.Fprintf(w, "- Records: %s across %s models\n", printer.Sprintf("%d", md.RecordCount), printer.Sprintf("%d", md.ModelCount))
	fmt.Fprintf(w, "- Skipped fields: %d (malformed %d)\n", md.SkippedFields, md.MalformedFields)
	fmt.Fprintf(w, "- Dropped records: %d\n\n", md.DroppedRecords)

	fmt.Fprintf(w, "## Recommendations\n\n")
	tableHeader(w, "Metric", "Direction", "Best format", "Mean", "Ranking")
	for _, r := range ds.Rankings {
		best, ok := r.Best()
		if !ok {
			row(w, label(r.Metric), directionNote(r.Direction), "N/A", "N/A", "")
			continue
		}
		var order []string
		for _, e := range r.Entries {
			order = append(order, e.Format.DisplayName())
		}
		row(w, label(r.Metric), directionNote(r.Direction), "**"+best.Format.DisplayName()+"**",
			number(best.Value, precision(r.Metric)), strings.Join(order, " > "))
	}

	fmt.Fprintf(w, "\n## Format statistics\n")
	for _, f := range ds.Formats {
		fmt.Fprintf(w, "\n### %s (%d records)\n\n", f.Format.DisplayName(), f.Records)
		tableHeader(w, "Metric", "n", "Mean", "Median", "Min", "Max", "Std dev")
		for _, m := range model.Metrics {
			s := f.Metric(m)
			if s.Samples == 0 {
				continue
			}
			row(w, label(m), fmt.Sprint(s.Samples), value(m, s.Mean), value(m, s.Median),
				value(m, s.Min), value(m, s.Max), value(m, s.StdDev))
		}
	}

	fmt.Fprintf(w, "\n## Per-model results\n")
	for _, m := range ds.Models {
		bucket := m.Bucket
		if bucket == "" {
			bucket = "unbucketed"
		}
		fmt.Fprintf(w, "\n### %s\n\n", mdText(m.ModelID))
		fmt.Fprintf(w, "%sk faces, %s textures, %s.\n\n", count(m.FaceCount), count(m.TextureCount), mdText(bucket))
		tableHeader(w, "Format", "Raw", "Compressed", "Ratio", "Texture", "Peak memory", "Import", "Load", "Load memory")
		for _, r := range m.Rows {
			row(w,
				r.Record.Format.DisplayName(),
				withUnit(model.RawSize, r.Value(model.RawSize)),
				withUnit(model.CompressedSize, r.Value(model.CompressedSize)),
				value(model.CompressionRatio, r.Value(model.CompressionRatio)),
				withUnit(model.TextureSize, r.Value(model.TextureSize)),
				withUnit(model.PeakMemory, r.Value(model.PeakMemory)),
				withUnit(model.ImportTime, r.Value(model.ImportTime)),
				withUnit(model.LoadTime, r.Value(model.LoadTime)),
				withUnit(model.LoadMemory, r.Value(model.LoadMemory)),
			)
		}
	}

	fmt.Fprintf(w, "\n## Size buckets\n")
	for i, b := range ds.Buckets {
		fmt.Fprintf(w, "\n### %s (%s)\n\n", mdText(b.Name), bucketLabel(ds.BucketBounds, i))
		if len(b.Formats) == 0 {
			fmt.Fprintf(w, "No models.\n")
			continue
		}
		fmt.Fprintf(w, "Models: %s\n\n", mdText(strings.Join(b.Models, ", ")))
		tableHeader(w, "Format", "Records", "Avg raw", "Avg peak memory", "Avg import", "Avg ratio")
		for _, f := range b.Formats {
			row(w, f.Format.DisplayName(), fmt.Sprint(f.Records),
				withUnit(model.RawSize, f.Mean(model.RawSize)),
				withUnit(model.PeakMemory, f.Mean(model.PeakMemory)),
				withUnit(model.ImportTime, f.Mean(model.ImportTime)),
				value(model.CompressionRatio, f.Mean(model.CompressionRatio)))
		}
	}

	fmt.Fprintf(w, "\n## Memory efficiency\n\n")
	if lb, ok := ds.Leaderboard(model.MemoryPerMB); ok && len(lb.Entries) > 0 {
		tableHeader(w, "#", "Model", "Format", "Peak MB per raw MB")
		for i, p := range lb.Entries {
			if i == leaderboardDepth {
				break
			}
			row(w, fmt.Sprint(i+1), mdText(p.ModelID), p.Format.DisplayName(), number(p.Value, precision(lb.Metric)))
		}
	} else {
		fmt.Fprintf(w, "No data.\n")
	}

	if len(ds.HeadToHead) > 0 {
		fmt.Fprintf(w, "\n## Head to head\n")
		for _, h := range ds.HeadToHead {
			fmt.Fprintf(w, "\n### %s: %s vs %s\n\n", mdText(h.ModelID), h.A.DisplayName(), h.B.DisplayName())
			tableHeader(w, "Metric", h.A.DisplayName(), h.B.DisplayName(), "Difference")
			for _, d := range h.Deltas {
				if !d.A.Valid() && !d.B.Valid() {
					continue
				}
				row(w, label(d.Metric), value(d.Metric, d.A), value(d.Metric, d.B), delta(d.Metric, d.Diff))
			}
		}
	}

	fmt.Fprintf(w, "\n## Correlations\n\n")
	tableHeader(w, "Metric A", "Metric B", "r", "Strength", "n")
	for _, c := range ds.Correlations {
		r, ok := c.R.Get()
		if !ok {
			continue
		}
		row(w, c.A.Label(), c.B.Label(), number(r, 3), correlationStrength(r), fmt.Sprint(c.Samples))
	}

	if len(ds.ParseErrors) > 0 {
		fmt.Fprintf(w, "\n## Dropped records\n\n")
		for _, e := range ds.ParseErrors {
			fmt.Fprintf(w, "- %s\n", mdText(e.Error()))
		}
	}
}
