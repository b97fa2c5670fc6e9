package domain

import (
	"math"
	"sort"
)

// Stats holds the derived totals of a session. They are never stored.
type Stats struct {
	Attempts int `json:"attempts"`
	Makes    int `json:"makes"`
	Accuracy int `json:"accuracy"`
}

// Summarize totals attempts and makes across putts.
func Summarize(putts []PuttRecord) Stats {
	var st Stats
	for _, p := range putts {
		st.Attempts += p.Attempts
		st.Makes += p.Makes
	}
	st.Accuracy = Accuracy(st.Makes, st.Attempts)
	return st
}

// Accuracy returns round(100 * makes / attempts), or 0 when attempts is 0.
func Accuracy(makes, attempts int) int {
	if attempts <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(makes) / float64(attempts)))
}

// SortPutts orders putts by distance ascending, then by id.
func SortPutts(putts []PuttRecord) {
	sort.Slice(putts, func(i, j int) bool {
		if putts[i].DistanceM != putts[j].DistanceM {
			return putts[i].DistanceM < putts[j].DistanceM
		}
		return putts[i].ID < putts[j].ID
	})
}
