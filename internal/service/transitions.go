package service

import "fleetbook/internal/db"

// allowedTransitions is the booking status graph. Canceled and completed
// are terminal; everything not listed is illegal, including self-loops.
var allowedTransitions = map[db.BookingStatus][]db.BookingStatus{
	db.BookingPending:   {db.BookingApproved, db.BookingCanceled},
	db.BookingApproved:  {db.BookingCanceled, db.BookingCompleted},
	db.BookingCanceled:  {},
	db.BookingCompleted: {},
}

// CanTransition reports whether from -> to is a legal status change.
func CanTransition(from, to db.BookingStatus) bool {
	for _, s := range allowedTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}
