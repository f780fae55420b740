package timeoff

import (
	"github.com/dayflow/hr-engine/generic"
	"github.com/shopspring/decimal"
)

// MinimumAllocation is the smallest explicit allocation a request may carry.
var MinimumAllocation = decimal.NewFromFloat(0.5)

// MaximumAllocation is the largest day count the ledger columns hold.
var MaximumAllocation = decimal.RequireFromString("99999999.99")

// CalculateDays returns the inclusive number of calendar days from start to
// end (Jan 1 - Jan 3 is 3). Weekends and holidays are counted.
func CalculateDays(start, end generic.Date) (decimal.Decimal, error) {
	if end.Before(start) {
		return decimal.Zero, &generic.InvalidRangeError{Start: start, End: end}
	}
	return decimal.NewFromInt(int64(generic.DaysBetween(start, end) + 1)), nil
}

// resolveAllocation validates an explicit allocation or computes it from
// the date span when none was supplied.
func resolveAllocation(start, end generic.Date, explicit *decimal.Decimal) (decimal.Decimal, error) {
	days, err := CalculateDays(start, end)
	if err != nil {
		return decimal.Zero, err
	}
	if explicit == nil {
		return days, nil
	}
	if explicit.LessThan(MinimumAllocation) || explicit.GreaterThan(MaximumAllocation) {
		return decimal.Zero, &generic.InvalidAllocationError{
			Requested: *explicit,
			Minimum:   MinimumAllocation,
			Maximum:   MaximumAllocation,
		}
	}
	return *explicit, nil
}
