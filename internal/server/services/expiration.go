package services

import "time"

// reservationCutoffHour is the local hour at which reservations roll over.
// A reservation made before 17:00 expires at 17:00 the same day; one made
// at or after 17:00 expires at 17:00 the next day.
const reservationCutoffHour = 17

// ExpirationFor returns the expiration timestamp for a reservation made at
// reservedAt, in reservedAt's location.
func ExpirationFor(reservedAt time.Time) time.Time {
	day := reservedAt
	if reservedAt.Hour() >= reservationCutoffHour {
		day = reservedAt.AddDate(0, 0, 1)
	}
	return time.Date(day.Year(), day.Month(), day.Day(),
		reservationCutoffHour, 0, 0, 0, reservedAt.Location())
}
