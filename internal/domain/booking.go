package domain

import (
	"fmt"
	"time"
)

// DateRange is a closed interval of calendar days; both endpoints are
// booked nights. Times are normalized to midnight UTC.
type DateRange struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

func NewDateRange(from, to time.Time) (DateRange, error) {
	f, t := midnightUTC(from), midnightUTC(to)
	if t.Before(f) {
		return DateRange{}, fmt.Errorf("date range ends before it starts: %w", ErrInvalid)
	}
	return DateRange{From: f, To: t}, nil
}

func midnightUTC(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Overlaps uses inclusive endpoints: two ranges intersect iff
// from1 <= to2 && from2 <= to1.
func (r DateRange) Overlaps(o DateRange) bool {
	return !r.From.After(o.To) && !o.From.After(r.To)
}

// Days counts calendar days in the closed interval, so a same-day stay is 1.
func (r DateRange) Days() int {
	return int(r.To.Sub(r.From)/(24*time.Hour)) + 1
}

type People struct {
	Adults   int `json:"adults"`
	Children int `json:"children"`
}

type Booking struct {
	ID          string    `json:"id"`
	HotelID     string    `json:"hotel_id"`
	RoomID      string    `json:"room_id"`
	UserID      string    `json:"user_id"`
	Range       DateRange `json:"range"`
	Days        int       `json:"days"`
	RoomNumbers []int     `json:"room_numbers"`
	People      People    `json:"people"`
	NumOfPeople int       `json:"num_of_people"`
	Location    string    `json:"location"`
	Amount      int64     `json:"amount"`
	Paid        bool      `json:"paid"`
	ChargeRef   string    `json:"charge_ref,omitempty"`
	BookedOn    time.Time `json:"booked_on"`
}

// NumbersFree reports whether none of numbers is reserved by a booking in
// bookings whose range overlaps rng. This is the ledger's conflict check;
// bookings is expected to hold one room's bookings.
func NumbersFree(bookings []Booking, numbers []int, rng DateRange) bool {
	for _, b := range bookings {
		if !b.Range.Overlaps(rng) {
			continue
		}
		for _, taken := range b.RoomNumbers {
			for _, n := range numbers {
				if n == taken {
					return false
				}
			}
		}
	}
	return true
}

// FreeNumbers returns the members of roomNumbers not reserved by any booking
// overlapping rng, preserving input order.
func FreeNumbers(roomNumbers []int, bookings []Booking, rng DateRange) []int {
	reserved := make(map[int]bool)
	for _, b := range bookings {
		if !b.Range.Overlaps(rng) {
			continue
		}
		for _, n := range b.RoomNumbers {
			reserved[n] = true
		}
	}
	var free []int
	for _, n := range roomNumbers {
		if !reserved[n] {
			free = append(free, n)
		}
	}
	return free
}
