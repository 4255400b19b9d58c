package utils

import "time"

// RentalDays returns the number of whole days in the half-open interval
// [start, end). A booking of Dec 10 to Dec 12 is 2 days; Dec 12 is free for
// the next renter.
func RentalDays(start, end time.Time) int64 {
	return int64(end.Sub(start).Hours() / 24)
}

// RentalCostCents charges per whole day at the listing's daily rate. Tiered
// or currency-aware pricing is the checkout service's problem, not ours.
func RentalCostCents(start, end time.Time, pricePerDayCents int64) int64 {
	days := RentalDays(start, end)
	if days < 0 {
		days = 0
	}
	return days * pricePerDayCents
}
