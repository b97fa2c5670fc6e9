package domain_test

import (
	"testing"

	"github.com/eeturonkko/putter/internal/domain"
)

func TestSummarize(t *testing.T) {
	tests := []struct {
		name  string
		putts []domain.PuttRecord
		want  domain.Stats
	}{
		{"empty", nil, domain.Stats{}},
		{
			"two distances",
			[]domain.PuttRecord{{Attempts: 10, Makes: 7}, {Attempts: 5, Makes: 5}},
			domain.Stats{Attempts: 15, Makes: 12, Accuracy: 80},
		},
		{
			"zero attempts",
			[]domain.PuttRecord{{Attempts: 0, Makes: 0}},
			domain.Stats{},
		},
		{
			"rounds half up",
			[]domain.PuttRecord{{Attempts: 8, Makes: 5}},
			domain.Stats{Attempts: 8, Makes: 5, Accuracy: 63},
		},
		{
			"rounds down",
			[]domain.PuttRecord{{Attempts: 3, Makes: 1}},
			domain.Stats{Attempts: 3, Makes: 1, Accuracy: 33},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := domain.Summarize(tc.putts)
			if got != tc.want {
				t.Errorf("Summarize() = %+v; want %+v", got, tc.want)
			}
		})
	}
}

func TestSortPutts(t *testing.T) {
	putts := []domain.PuttRecord{
		{ID: 1, DistanceM: 10},
		{ID: 2, DistanceM: 3},
		{ID: 3, DistanceM: 7},
		{ID: 4, DistanceM: 3},
	}
	domain.SortPutts(putts)

	wantIDs := []int64{2, 4, 3, 1}
	for i, p := range putts {
		if p.ID != wantIDs[i] {
			t.Fatalf("position %d: got id %d; want %d", i, p.ID, wantIDs[i])
		}
	}
}

func TestNormalizeCount(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"12", 12},
		{"1a2b", 12},
		{" 7 ", 7},
		{"-5", 5},
		{"3.9", 39},
		{"abc", 0},
		{"007", 7},
		{"99999999999", 2147483647},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			if got := domain.NormalizeCount(tc.in); got != tc.want {
				t.Errorf("NormalizeCount(%q) = %d; want %d", tc.in, got, tc.want)
			}
		})
	}
}
