package savetrack

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Percent is a ratio expressed in percents (50 means one half).
type Percent float64

func (p Percent) Equal(q Percent) bool {
	// it has to be compared with some precision
	const precision = 0.0001
	diff := p - q
	if diff < 0 {
		diff = -diff
	}
	return diff < precision
}

func (p Percent) String() string {
	return fmt.Sprintf("%.2f%%", float64(p))
}

// SignedString formats growth figures; zero is rendered as "-".
func (p Percent) SignedString() string {
	res := fmt.Sprintf("%+.2f%%", float64(p))
	if res == "+0.00%" || res == "-0.00%" {
		return "-"
	}
	return res
}

// Growth returns the relative change from previous to current. It is zero
// when there is no previous amount to compare to.
func Growth(current, previous decimal.Decimal) Percent {
	if previous.IsZero() {
		return 0
	}
	return Percent(percentOf(current.Sub(previous), previous).InexactFloat64())
}
