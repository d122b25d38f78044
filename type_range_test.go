package savetrack

import (
	"slices"
	"testing"
	"time"
)

func TestRange_Days(t *testing.T) {
	r := NewRange(NewDate(2024, time.March, 1), NewDate(2024, time.February, 28))

	got := slices.Collect(r.Days())
	want := []Date{NewDate(2024, 2, 28), NewDate(2024, 2, 29), NewDate(2024, 3, 1)}
	if !slices.Equal(got, want) {
		t.Errorf("Range.Days() = %v, want %v", got, want)
	}
	if got, want := r.Len(), 3; got != want {
		t.Errorf("Range.Len() = %d, want %d", got, want)
	}
}

func TestLastDays(t *testing.T) {
	today := NewDate(2025, time.October, 16)
	r := LastDays(today, 7)

	if got, want := r.From, NewDate(2025, time.October, 10); got != want {
		t.Errorf("LastDays().From = %v, want %v", got, want)
	}
	for _, tt := range []struct {
		day  Date
		want bool
	}{
		{today, true},
		{NewDate(2025, time.October, 10), true},
		{NewDate(2025, time.October, 9), false},
		{NewDate(2025, time.October, 17), false},
	} {
		if got := r.Contains(tt.day); got != tt.want {
			t.Errorf("%v.Contains(%v) = %v, want %v", r, tt.day, got, tt.want)
		}
	}
}
