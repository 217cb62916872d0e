package domain

import (
	"fmt"
	"time"
)

type Hotel struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Location    string `json:"location"`
	Image       string `json:"image,omitempty"`
	ManagerID   string `json:"manager_id"`
	Ratings     *int   `json:"ratings,omitempty"`
	TotalRooms  int    `json:"total_rooms"`
	// RoomsMap is the per-hotel room-number registry: number -> room name.
	// It is the uniqueness source of truth for numbering; every number
	// offered by a child Room must appear here mapped to that room's name.
	RoomsMap map[int]string `json:"rooms_map"`
	RoomIDs  []string       `json:"room_ids"`
	AddedOn  time.Time      `json:"added_on"`
}

type Room struct {
	ID          string    `json:"id"`
	HotelID     string    `json:"hotel_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Occupancy   int       `json:"occupancy"`
	Price       int64     `json:"price"`
	Others      []string  `json:"others,omitempty"`
	RoomNumbers []int     `json:"room_numbers"`
	BookingIDs  []string  `json:"booking_ids"`
	AddedOn     time.Time `json:"added_on"`
}

// NumberConflicts returns the subset of nums already bound in the registry
// to a room other than roomName. Pure query; the map is not touched.
func (h *Hotel) NumberConflicts(nums []int, roomName string) []int {
	var taken []int
	for _, n := range nums {
		if owner, ok := h.RoomsMap[n]; ok && owner != roomName {
			taken = append(taken, n)
		}
	}
	return taken
}

// AssignNumbers binds every number in nums to roomName. If any number is
// already bound to a different room the map is left unchanged and
// ErrConflict is returned.
func (h *Hotel) AssignNumbers(nums []int, roomName string) error {
	if taken := h.NumberConflicts(nums, roomName); len(taken) > 0 {
		return fmt.Errorf("room numbers %v already assigned: %w", taken, ErrConflict)
	}
	if h.RoomsMap == nil {
		h.RoomsMap = make(map[int]string, len(nums))
	}
	for _, n := range nums {
		h.RoomsMap[n] = roomName
	}
	return nil
}

// ReleaseNumbers removes the given keys from the registry. Idempotent.
func (h *Hotel) ReleaseNumbers(nums []int) {
	for _, n := range nums {
		delete(h.RoomsMap, n)
	}
}

func (h *Hotel) AttachRoom(id string) {
	h.RoomIDs = append(h.RoomIDs, id)
}

func (h *Hotel) DetachRoom(id string) {
	for i, r := range h.RoomIDs {
		if r == id {
			h.RoomIDs = append(h.RoomIDs[:i], h.RoomIDs[i+1:]...)
			return
		}
	}
}

// HasNumber reports whether the room itself offers number n.
func (r *Room) HasNumber(n int) bool {
	for _, rn := range r.RoomNumbers {
		if rn == n {
			return true
		}
	}
	return false
}

func (r *Room) AttachBooking(id string) {
	r.BookingIDs = append(r.BookingIDs, id)
}

func (r *Room) DetachBooking(id string) {
	for i, b := range r.BookingIDs {
		if b == id {
			r.BookingIDs = append(r.BookingIDs[:i], r.BookingIDs[i+1:]...)
			return
		}
	}
}
