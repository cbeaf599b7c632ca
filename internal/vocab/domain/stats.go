package domain

import (
	"cmp"
	"slices"
)

const (
	statsTopSize             = 5
	statsMinAccuracyAttempts = 3
)

type EntryStats struct {
	ID           string    `json:"id"`
	Text         string    `json:"text"`
	Type         EntryType `json:"type"`
	TimesDrawn   int       `json:"timesDrawn"`
	TimesCorrect int       `json:"timesCorrect"`
	TimesWrong   int       `json:"timesWrong"`
}

func (s EntryStats) Accuracy() int {
	return percent(s.TimesCorrect, s.TimesDrawn)
}

type StatsSummary struct {
	TotalDrawn    int
	TotalCorrect  int
	TotalWrong    int
	Accuracy      int
	MostDrawn     []EntryStats
	MostCorrect   []EntryStats
	MostWrong     []EntryStats
	BestAccuracy  []EntryStats
	WorstAccuracy []EntryStats
}

// Summarize aggregates per-entry statistics, accuracy rankings only consider entries drawn at least three times.
func Summarize(stats []EntryStats) StatsSummary {
	var summary StatsSummary
	for _, s := range stats {
		summary.TotalDrawn += s.TimesDrawn
		summary.TotalCorrect += s.TimesCorrect
		summary.TotalWrong += s.TimesWrong
	}
	summary.Accuracy = percent(summary.TotalCorrect, summary.TotalDrawn)

	summary.MostDrawn = topBy(stats, func(s EntryStats) float64 { return float64(s.TimesDrawn) }, true)
	summary.MostCorrect = topBy(stats, func(s EntryStats) float64 { return float64(s.TimesCorrect) }, true)
	summary.MostWrong = topBy(stats, func(s EntryStats) float64 { return float64(s.TimesWrong) }, true)

	attempted := make([]EntryStats, 0, len(stats))
	for _, s := range stats {
		if s.TimesDrawn >= statsMinAccuracyAttempts {
			attempted = append(attempted, s)
		}
	}
	summary.BestAccuracy = topBy(attempted, accuracyRatio, true)
	summary.WorstAccuracy = topBy(attempted, accuracyRatio, false)
	return summary
}

func accuracyRatio(s EntryStats) float64 {
	if s.TimesDrawn == 0 {
		return 0
	}
	return float64(s.TimesCorrect) / float64(s.TimesDrawn)
}

func topBy(stats []EntryStats, key func(EntryStats) float64, desc bool) []EntryStats {
	sorted := slices.Clone(stats)
	slices.SortStableFunc(sorted, func(a, b EntryStats) int {
		if desc {
			return cmp.Compare(key(b), key(a))
		}
		return cmp.Compare(key(a), key(b))
	})
	return sorted[:min(len(sorted), statsTopSize)]
}
