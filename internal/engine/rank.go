package engine

import (
	"cmp"
	"slices"

	"github.com/daryltucker/format-bench/internal/model"
)

// RankEntry is one format's place in a ranking.
type RankEntry struct {
	Format model.Format
	// Value is the format mean for global rankings and the record value for
	// per-model rankings.
	Value   float64
	Samples int
}

// Ranking orders formats best to worst on one metric.
type Ranking struct {
	Metric    model.Metric
	Direction Direction
	Entries   []RankEntry
}

// Best returns the head of the ranking.
func (r Ranking) Best() (RankEntry, bool) {
	if len(r.Entries) == 0 {
		return RankEntry{}, false
	}
	return r.Entries[0], true
}

// Formats returns the ranked formats in order.
func (r Ranking) Formats() []model.Format {
	out := make([]model.Format, len(r.Entries))
	for i, e := range r.Entries {
		out[i] = e.Format
	}
	return out
}

// sortEntries orders entries by direction. Ties keep declared format order.
func sortEntries(entries []RankEntry, d Direction) {
	slices.SortStableFunc(entries, func(a, b RankEntry) int {
		if c := d.compare(a.Value, b.Value); c != 0 {
			return c
		}
		return cmp.Compare(a.Format.Index(), b.Format.Index())
	})
}

// rankFormats ranks formats by their mean over defined values. Formats with
// no defined value are left out.
func rankFormats(rows []Row, m model.Metric, d Direction) Ranking {
	r := Ranking{Metric: m, Direction: d}
	for _, f := range model.Formats {
		values := defined(rowsOf(rows, f), m)
		if len(values) == 0 {
			continue
		}
		r.Entries = append(r.Entries, RankEntry{Format: f, Value: Mean(values), Samples: len(values)})
	}
	sortEntries(r.Entries, d)
	return r
}

// rankRecords ranks the formats of a single model by their record value.
func rankRecords(rows []Row, m model.Metric, d Direction) Ranking {
	r := Ranking{Metric: m, Direction: d}
	for _, row := range rows {
		if v, ok := row.Value(m).Get(); ok {
			r.Entries = append(r.Entries, RankEntry{Format: row.Record.Format, Value: v, Samples: 1})
		}
	}
	sortEntries(r.Entries, d)
	return r
}

// Placing is one record on a leaderboard.
type Placing struct {
	ModelID string
	Format  model.Format
	Value   float64
}

// Leaderboard ranks every record with a defined value on one metric.
type Leaderboard struct {
	Metric    model.Metric
	Direction Direction
	Entries   []Placing
}

// leaderboard sorts records by direction, breaking ties by model id and then
// declared format order.
func leaderboard(rows []Row, m model.Metric, d Direction) Leaderboard {
	lb := Leaderboard{Metric: m, Direction: d}
	for _, row := range rows {
		if v, ok := row.Value(m).Get(); ok {
			lb.Entries = append(lb.Entries, Placing{ModelID: row.Record.ModelID, Format: row.Record.Format, Value: v})
		}
	}
	slices.SortFunc(lb.Entries, func(a, b Placing) int {
		if c := d.compare(a.Value, b.Value); c != 0 {
			return c
		}
		if c := cmp.Compare(a.ModelID, b.ModelID); c != 0 {
			return c
		}
		return cmp.Compare(a.Format.Index(), b.Format.Index())
	})
	return lb
}
