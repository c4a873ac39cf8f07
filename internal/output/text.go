/*
PURPOSE:
  Plain-text comparison report (report.txt).

REQUIREMENTS:
  User-specified:
  - A readable summary: best format per criterion, per-format statistics,
    size-bucket analysis, memory efficiency, correlations, glTF vs GLB.

  Implementation-discovered:
  - Large numbers (MB, ms, face counts) are unreadable without grouping.
  - Missing values print as N/A, never 0.

ARCHITECTURE INTEGRATION:
  - Called by: WriteAll (renderer.go)
  - Consumes: internal/dataset.Dataset

ERROR HANDLING:
  - Returns the first write error.

IMPLEMENTATION RULES:
  - Iterate the dataset in its own order; never re-sort.

RELATED FILES:
  - internal/output/format.go
  - internal/output/markdown.go
*/

package output

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/daryltucker/format-bench/internal/dataset"
	"github.com/daryltucker/format-bench/internal/model"
)

// leaderboardDepth is how many records each leaderboard section shows.
const leaderboardDepth = 5

// TextRenderer writes report.txt.
type TextRenderer struct {
	Title string
}

func (TextRenderer) Name() string     { return "text" }
func (TextRenderer) Filename() string { return "report.txt" }

func (t TextRenderer) Render(w io.Writer, ds *dataset.Dataset) error {
	bw := bufio.NewWriter(w)
	tw := tabwriter.NewWriter(bw, 0, 0, 2, ' ', 0)

	heading := func(s string, ch string) {
		fmt.Fprintf(tw, "\n%s\n%s\n", s, strings.Repeat(ch, len(s)))
	}

	title := t.Title
	if title == "" {
		title = DefaultTitle
	}
	fmt.Fprintf(tw, "%s\n%s\n", title, strings.Repeat("=", len(title)))

	md := ds.Metadata
	fmt.Fprintf(tw, "Source:\t%s (%s)\n", md.Source, md.SourceFormat)
	fmt.Fprintf(tw, "Generated:\t%s\n", md.GeneratedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(tw, "Records:\t%s across %s models\n", printer.Sprintf("%d", md.RecordCount), printer.Sprintf("%d", md.ModelCount))
	fmt.Fprintf(tw, "Skipped fields:\t%d (malformed %d)\n", md.SkippedFields, md.MalformedFields)
	fmt.Fprintf(tw, "Dropped records:\t%d\n", md.DroppedRecords)
	tw.Flush()

	heading("Recommendations", "-")
	for _, r := range ds.Rankings {
		best, ok := r.Best()
		if !ok {
			fmt.Fprintf(tw, "%s\t(%s)\tno data\n", label(r.Metric), directionNote(r.Direction))
			continue
		}
		fmt.Fprintf(tw, "%s\t(%s)\t%s\t%s\n", label(r.Metric), directionNote(r.Direction), best.Format.DisplayName(), number(best.Value, precision(r.Metric)))
	}
	tw.Flush()

	heading("Format rankings (best to worst, by mean)", "-")
	for _, r := range ds.Rankings {
		var parts []string
		for _, e := range r.Entries {
			parts = append(parts, fmt.Sprintf("%s %s", e.Format.DisplayName(), number(e.Value, precision(r.Metric))))
		}
		if len(parts) == 0 {
			parts = []string{"no data"}
		}
		fmt.Fprintf(tw, "%s\t%s\n", label(r.Metric), strings.Join(parts, " > "))
	}
	tw.Flush()

	heading("Format statistics", "-")
	for _, f := range ds.Formats {
		fmt.Fprintf(tw, "\n%s (%d records)\n", f.Format.DisplayName(), f.Records)
		fmt.Fprintf(tw, "  metric\tn\tmean\tmedian\tmin\tmax\tstddev\n")
		for _, m := range model.Metrics {
			s := f.Metric(m)
			if s.Samples == 0 {
				continue
			}
			fmt.Fprintf(tw, "  %s\t%d\t%s\t%s\t%s\t%s\t%s\n", label(m), s.Samples,
				value(m, s.Mean), value(m, s.Median), value(m, s.Min), value(m, s.Max), value(m, s.StdDev))
		}
		tw.Flush()
	}

	heading("Per-model results", "-")
	for _, m := range ds.Models {
		bucket := m.Bucket
		if bucket == "" {
			bucket = "unbucketed"
		}
		fmt.Fprintf(tw, "\n%s (%sk faces, %s textures, %s)\n", m.ModelID, count(m.FaceCount), count(m.TextureCount), bucket)
		fmt.Fprintf(tw, "  format\traw\tcompressed\tratio\ttexture\tpeak mem\timport\tload\tload mem\n")
		for _, r := range m.Rows {
			fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
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
		tw.Flush()
	}

	heading("Size buckets", "-")
	for i, b := range ds.Buckets {
		fmt.Fprintf(tw, "\n%s (%s): %d models\n", b.Name, bucketLabel(ds.BucketBounds, i), len(b.Models))
		if len(b.Formats) == 0 {
			continue
		}
		fmt.Fprintf(tw, "  format\trecords\tavg raw\tavg peak mem\tavg import\tavg ratio\n")
		for _, f := range b.Formats {
			fmt.Fprintf(tw, "  %s\t%d\t%s\t%s\t%s\t%s\n", f.Format.DisplayName(), f.Records,
				withUnit(model.RawSize, f.Mean(model.RawSize)),
				withUnit(model.PeakMemory, f.Mean(model.PeakMemory)),
				withUnit(model.ImportTime, f.Mean(model.ImportTime)),
				value(model.CompressionRatio, f.Mean(model.CompressionRatio)))
		}
		tw.Flush()
	}
	if md.UnbucketedRecords > 0 {
		fmt.Fprintf(tw, "\n%d records without a face count were not bucketed.\n", md.UnbucketedRecords)
	}

	heading("Memory efficiency (peak MB per raw MB)", "-")
	if lb, ok := ds.Leaderboard(model.MemoryPerMB); ok && len(lb.Entries) > 0 {
		for i, p := range lb.Entries {
			if i == leaderboardDepth {
				break
			}
			fmt.Fprintf(tw, "%d.\t%s\t%s\t%s\n", i+1, p.ModelID, p.Format.DisplayName(), number(p.Value, precision(lb.Metric)))
		}
	} else {
		fmt.Fprintln(tw, "no data")
	}
	tw.Flush()

	if len(ds.HeadToHead) > 0 {
		heading("Head to head", "-")
		for _, h := range ds.HeadToHead {
			fmt.Fprintf(tw, "\n%s: %s vs %s\n", h.ModelID, h.A.DisplayName(), h.B.DisplayName())
			for _, d := range h.Deltas {
				if !d.A.Valid() && !d.B.Valid() {
					continue
				}
				fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\n", label(d.Metric), value(d.Metric, d.A), value(d.Metric, d.B), delta(d.Metric, d.Diff))
			}
			tw.Flush()
		}
	}

	heading("Correlations (Pearson r)", "-")
	shown := 0
	for _, c := range ds.Correlations {
		r, ok := c.R.Get()
		if !ok {
			continue
		}
		shown++
		fmt.Fprintf(tw, "%s vs %s\t%s\t%s\tn=%d\n", c.A.Label(), c.B.Label(), number(r, 3), correlationStrength(r), c.Samples)
	}
	if shown == 0 {
		fmt.Fprintln(tw, "not enough data")
	}
	tw.Flush()

	if len(ds.ParseErrors) > 0 {
		heading("Dropped records", "-")
		for _, e := range ds.ParseErrors {
			fmt.Fprintf(tw, "%s\n", e.Error())
		}
		tw.Flush()
	}

	return bw.Flush()
}

// delta formats a signed difference, "N/A" when undefined.
func delta(m model.Metric, v model.Optional[float64]) string {
	f, ok := v.Get()
	if !ok {
		return "N/A"
	}
	s := number(f, precision(m))
	if f > 0 {
		s = "+" + s
	}
	return s
}
