/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package game

import "sort"

// ScoreboardEntry is one row of the round results. Time and Difference are
// nil for participants who have not buzzed this round.
type ScoreboardEntry struct {
	Name       string `json:"name"`
	Time       *int64 `json:"time"`
	Difference *int64 `json:"difference"`
}

// BuildScoreboard ranks participants by click time. Rows without a time
// keep their input order and go after every timed row.
func BuildScoreboard(participants []*Participant) []ScoreboardEntry {
	entries := make([]ScoreboardEntry, 0, len(participants))

	var fastest *int64
	for _, p := range participants {
		if p.ClickTime != nil && (fastest == nil || *p.ClickTime < *fastest) {
			fastest = p.ClickTime
		}
	}

	for _, p := range participants {
		e := ScoreboardEntry{Name: p.Name}
		if p.ClickTime != nil {
			t := *p.ClickTime
			d := t - *fastest
			e.Time = &t
			e.Difference = &d
		}
		entries = append(entries, e)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i].Time, entries[j].Time
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return *a < *b
		}
	})

	return entries
}
