package domain

import "context"

type UserStore interface {
	CreateUser(ctx context.Context, u User) error
	GetUser(ctx context.Context, id string) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
	UpdateUser(ctx context.Context, u User) error
}

type InventoryStore interface {
	// Hotels. CreateHotel fails with ErrConflict when the manager already
	// runs a hotel; DeleteHotel cascades to rooms and their bookings.
	CreateHotel(ctx context.Context, h Hotel) error
	GetHotel(ctx context.Context, id string) (Hotel, error)
	ListHotels(ctx context.Context, q HotelsQuery) (HotelsPage, error)
	UpdateHotel(ctx context.Context, h Hotel) error
	DeleteHotel(ctx context.Context, id string) (Hotel, error)

	// Rooms. The write paths hold the owning hotel row exclusively for the
	// whole check-then-write sequence so the RoomsMap registry invariant
	// survives concurrent mutations.
	AddRoom(ctx context.Context, r Room) error
	GetRoom(ctx context.Context, id string) (Room, error)
	ListRooms(ctx context.Context, hotelID string) ([]Room, error)
	UpdateRoom(ctx context.Context, r Room) (Room, error)
	DeleteRoom(ctx context.Context, id string) (Room, error)
}

type BookingStore interface {
	// CreateBooking performs the ledger conflict check and the write under
	// one exclusive room lock; overlapping reservations of any shared
	// number fail with ErrConflict.
	CreateBooking(ctx context.Context, b Booking) error
	GetBooking(ctx context.Context, id string) (Booking, error)
	ListRoomBookings(ctx context.Context, roomID string) ([]Booking, error)
	ListUserBookings(ctx context.Context, userID string) ([]Booking, error)
	// DeleteBooking removes the booking and its reference from the owning
	// room, returning the prior state for confirmation display.
	DeleteBooking(ctx context.Context, id string) (Booking, error)
	MarkPaid(ctx context.Context, id string, amount int64, chargeRef string) error
}

type Store interface {
	UserStore
	InventoryStore
	BookingStore
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

// PaymentGateway executes the actual card charge; the booking flow only
// records its result.
type PaymentGateway interface {
	Charge(ctx context.Context, req ChargeRequest) (ChargeResult, error)
}

type ChargeRequest struct {
	Amount      int64
	Currency    string
	Source      string
	Description string
}

type ChargeResult struct {
	Ref    string
	Amount int64
	Paid   bool
}

// EventPublisher fans booking lifecycle events out to interested consumers.
type EventPublisher interface {
	Publish(ctx context.Context, key string, v any) error
}

// Read models & queries

// RoomAvailability pairs a room with the concrete numbers free for the
// queried range.
type RoomAvailability struct {
	Room        Room  `json:"room"`
	RoomNumbers []int `json:"room_numbers"`
}

type HotelsQuery struct {
	Q        *string
	Location *string
	Limit    int
}

type HotelsPage struct {
	Items []Hotel `json:"items"`
}
