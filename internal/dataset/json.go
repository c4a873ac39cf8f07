package dataset

import (
	"encoding/json"

	"github.com/daryltucker/format-bench/internal/engine"
	"github.com/daryltucker/format-bench/internal/model"
)

// MarshalJSON writes the dataset with a fixed key order:
// metadata, by_model, rankings, correlations, formats, size_buckets,
// leaderboards, head_to_head.
func (d *Dataset) MarshalJSON() ([]byte, error) {
	doc := newObject().
		add("metadata", d.Metadata).
		add("by_model", d.byModel()).
		add("rankings", d.rankings()).
		add("correlations", d.correlations()).
		add("formats", d.formats()).
		add("size_buckets", d.sizeBuckets()).
		add("leaderboards", d.leaderboards()).
		add("head_to_head", d.headToHead())
	return json.Marshal(doc)
}

// measurements lists every per-format metric of a row in declared order.
// Face and texture counts live on the model.
func measurements(r engine.Row) *object {
	o := newObject()
	for _, m := range model.Metrics {
		if m == model.FaceCount || m == model.TextureCount {
			continue
		}
		o.add(string(m), r.Value(m))
	}
	return o
}

func (d *Dataset) byModel() *object {
	out := newObject()
	for _, m := range d.Models {
		formats := newObject()
		for _, r := range m.Rows {
			formats.add(r.Record.Format.String(), measurements(r))
		}
		rankings := newObject()
		for _, r := range m.Rankings {
			rankings.add(string(r.Metric), r.Formats())
		}
		bucket := any(nil)
		if m.Bucket != "" {
			bucket = m.Bucket
		}
		out.add(m.ModelID, newObject().
			add("face_count_k", m.FaceCount).
			add("texture_count", m.TextureCount).
			add("size_bucket", bucket).
			add("formats", formats).
			add("rankings", rankings))
	}
	return out
}

type rankJSON struct {
	Rank    int          `json:"rank"`
	Format  model.Format `json:"format"`
	Value   float64      `json:"value"`
	Samples int          `json:"samples"`
}

func (d *Dataset) rankings() *object {
	out := newObject()
	for _, r := range d.Rankings {
		entries := make([]rankJSON, len(r.Entries))
		for i, e := range r.Entries {
			entries[i] = rankJSON{Rank: i + 1, Format: e.Format, Value: e.Value, Samples: e.Samples}
		}
		out.add(string(r.Metric), newObject().
			add("direction", r.Direction.String()).
			add("order", r.Formats()).
			add("entries", entries))
	}
	return out
}

type correlationJSON struct {
	A       model.Metric            `json:"metric_a"`
	B       model.Metric            `json:"metric_b"`
	R       model.Optional[float64] `json:"r"`
	Samples int                     `json:"samples"`
}

func (d *Dataset) correlations() []correlationJSON {
	out := make([]correlationJSON, len(d.Correlations))
	for i, c := range d.Correlations {
		out[i] = correlationJSON{A: c.A, B: c.B, R: c.R, Samples: c.Samples}
	}
	return out
}

type summaryJSON struct {
	Samples int                     `json:"samples"`
	Mean    model.Optional[float64] `json:"mean"`
	Median  model.Optional[float64] `json:"median"`
	Min     model.Optional[float64] `json:"min"`
	Max     model.Optional[float64] `json:"max"`
	StdDev  model.Optional[float64] `json:"stddev"`
}

func (d *Dataset) formats() *object {
	out := newObject()
	for _, f := range d.Formats {
		metrics := newObject()
		for _, m := range model.Metrics {
			s := f.Metric(m)
			metrics.add(string(m), summaryJSON(s))
		}
		out.add(f.Format.String(), newObject().
			add("records", f.Records).
			add("metrics", metrics))
	}
	return out
}

func (d *Dataset) sizeBuckets() []*object {
	out := make([]*object, 0, len(d.Buckets))
	for i, b := range d.Buckets {
		var upper any
		if i < len(d.BucketBounds) && d.BucketBounds[i].MaxFaceCountK > 0 {
			upper = d.BucketBounds[i].MaxFaceCountK
		}
		models := b.Models
		if models == nil {
			models = []string{}
		}
		formats := newObject()
		for _, f := range b.Formats {
			means := newObject()
			for _, m := range model.Metrics {
				means.add(string(m), f.Mean(m))
			}
			formats.add(f.Format.String(), newObject().
				add("records", f.Records).
				add("means", means))
		}
		out = append(out, newObject().
			add("name", b.Name).
			add("max_face_count_k", upper).
			add("models", models).
			add("formats", formats))
	}
	return out
}

type placingJSON struct {
	Rank    int          `json:"rank"`
	ModelID string       `json:"model_id"`
	Format  model.Format `json:"format"`
	Value   float64      `json:"value"`
}

func (d *Dataset) leaderboards() *object {
	out := newObject()
	for _, lb := range d.Leaderboards {
		entries := make([]placingJSON, len(lb.Entries))
		for i, p := range lb.Entries {
			entries[i] = placingJSON{Rank: i + 1, ModelID: p.ModelID, Format: p.Format, Value: p.Value}
		}
		out.add(string(lb.Metric), entries)
	}
	return out
}

type deltaJSON struct {
	A     model.Optional[float64] `json:"a"`
	B     model.Optional[float64] `json:"b"`
	Diff  model.Optional[float64] `json:"diff"`
	Ratio model.Optional[float64] `json:"ratio"`
}

func (d *Dataset) headToHead() []*object {
	out := make([]*object, 0, len(d.HeadToHead))
	for _, h := range d.HeadToHead {
		deltas := newObject()
		for _, dl := range h.Deltas {
			deltas.add(string(dl.Metric), deltaJSON{A: dl.A, B: dl.B, Diff: dl.Diff, Ratio: dl.Ratio})
		}
		out = append(out, newObject().
			add("model_id", h.ModelID).
			add("a", h.A).
			add("b", h.B).
			add("metrics", deltas))
	}
	return out
}
