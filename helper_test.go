package savetrack

import (
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// testNow is a Thursday, at noon.
var testNow = time.Date(2025, time.October, 16, 12, 0, 0, 0, time.UTC)

var testToday = DateOf(testNow)

// dec is a helper for test to create exact amounts from const
func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// daysAgo returns testNow shifted back by n days.
func daysAgo(n int) time.Time { return testNow.AddDate(0, 0, -n) }

// entry is a helper for test to create an entry n days before testNow.
func entry(n int, amount string, category uuid.UUID) Entry {
	return NewEntry(dec(amount), category, "", daysAgo(n), testNow)
}

// entriesDaysAgo returns one 1.00 entry for each of the given days ago.
func entriesDaysAgo(days ...int) []Entry {
	entries := make([]Entry, 0, len(days))
	for _, n := range days {
		entries = append(entries, entry(n, "1.00", OtherID))
	}
	return entries
}

func ptr[T any](v T) *T { return &v }

// fixedClock returns a clock stuck at t.
func fixedClock(t *time.Time) func() time.Time { return func() time.Time { return *t } }

// cmpOpts compares decimals by value and treats nil and empty alike.
var cmpOpts = []cmp.Option{
	cmp.Comparer(func(a, b decimal.Decimal) bool { return a.Equal(b) }),
	cmpopts.EquateEmpty(),
}
