package wage

import "github.com/shopspring/decimal"

var recessHours = Hours(Recess)

// ApplyRecess deducts the daily recess from a raw split and prices the rest.
//
// On a normal day the recess comes out of regular hours and overtime is left
// alone. On the rest day there are no regular hours, so it comes out of
// overtime. Neither figure goes below zero.
func ApplyRecess(split Split, restDay bool, rate decimal.Decimal) Shift {
	regular := Hours(split.Regular)
	overtime := Hours(split.Overtime)

	if restDay {
		regular = decimal.Zero
		overtime = deductRecess(overtime)
	} else {
		regular = deductRecess(regular)
	}

	return Shift{
		RawHours:      Hours(split.Raw),
		RegularHours:  regular,
		OvertimeHours: overtime,
		RegularWage:   regular.Mul(rate),
		OvertimeWage:  overtime.Mul(rate).Mul(OvertimeMultiplier),
	}
}

func deductRecess(h decimal.Decimal) decimal.Decimal {
	return decimal.Max(decimal.Zero, h.Sub(recessHours))
}
