package app_test

import (
	"context"
	"fmt"

	"stayhub/internal/domain"
)

// memStore is an in-memory domain.Store with the same observable semantics
// as the MySQL store: conflict checks happen atomically with the write
// (trivially so here, single-goroutine tests).
type memStore struct {
	users    map[string]domain.User
	hotels   map[string]domain.Hotel
	rooms    map[string]domain.Room
	bookings map[string]domain.Booking

	roomOrder    []string
	bookingOrder []string
}

func newMemStore() *memStore {
	return &memStore{
		users:    map[string]domain.User{},
		hotels:   map[string]domain.Hotel{},
		rooms:    map[string]domain.Room{},
		bookings: map[string]domain.Booking{},
	}
}

// ---- users ----

func (m *memStore) CreateUser(_ context.Context, u domain.User) error {
	for _, x := range m.users {
		if x.Email == u.Email {
			return fmt.Errorf("email %s taken: %w", u.Email, domain.ErrConflict)
		}
	}
	m.users[u.ID] = u
	return nil
}

func (m *memStore) GetUser(_ context.Context, id string) (domain.User, error) {
	u, ok := m.users[id]
	if !ok {
		return domain.User{}, fmt.Errorf("user %s: %w", id, domain.ErrNotFound)
	}
	return u, nil
}

func (m *memStore) GetUserByEmail(_ context.Context, email string) (domain.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return domain.User{}, fmt.Errorf("user %s: %w", email, domain.ErrNotFound)
}

func (m *memStore) UpdateUser(_ context.Context, u domain.User) error {
	if _, ok := m.users[u.ID]; !ok {
		return fmt.Errorf("user %s: %w", u.ID, domain.ErrNotFound)
	}
	m.users[u.ID] = u
	return nil
}

// ---- hotels ----

func (m *memStore) CreateHotel(_ context.Context, h domain.Hotel) error {
	for _, x := range m.hotels {
		if x.ManagerID == h.ManagerID {
			return fmt.Errorf("manager %s already runs a hotel: %w", h.ManagerID, domain.ErrConflict)
		}
	}
	m.hotels[h.ID] = h
	return nil
}

func (m *memStore) GetHotel(_ context.Context, id string) (domain.Hotel, error) {
	h, ok := m.hotels[id]
	if !ok {
		return domain.Hotel{}, fmt.Errorf("hotel %s: %w", id, domain.ErrNotFound)
	}
	return h, nil
}

func (m *memStore) ListHotels(_ context.Context, q domain.HotelsQuery) (domain.HotelsPage, error) {
	var out []domain.Hotel
	for _, h := range m.hotels {
		out = append(out, h)
		if q.Limit > 0 && len(out) == q.Limit {
			break
		}
	}
	return domain.HotelsPage{Items: out}, nil
}

func (m *memStore) UpdateHotel(_ context.Context, h domain.Hotel) error {
	if _, ok := m.hotels[h.ID]; !ok {
		return fmt.Errorf("hotel %s: %w", h.ID, domain.ErrNotFound)
	}
	m.hotels[h.ID] = h
	return nil
}

func (m *memStore) DeleteHotel(_ context.Context, id string) (domain.Hotel, error) {
	h, ok := m.hotels[id]
	if !ok {
		return domain.Hotel{}, fmt.Errorf("hotel %s: %w", id, domain.ErrNotFound)
	}
	for rid, r := range m.rooms {
		if r.HotelID != id {
			continue
		}
		for _, bid := range r.BookingIDs {
			delete(m.bookings, bid)
		}
		delete(m.rooms, rid)
	}
	delete(m.hotels, id)
	return h, nil
}

// ---- rooms ----

func (m *memStore) AddRoom(_ context.Context, r domain.Room) error {
	h, ok := m.hotels[r.HotelID]
	if !ok {
		return fmt.Errorf("hotel %s: %w", r.HotelID, domain.ErrNotFound)
	}
	for _, x := range m.rooms {
		if x.HotelID == r.HotelID && x.Name == r.Name {
			return fmt.Errorf("room name %q taken: %w", r.Name, domain.ErrConflict)
		}
	}
	if err := h.AssignNumbers(r.RoomNumbers, r.Name); err != nil {
		return err
	}
	h.AttachRoom(r.ID)
	m.hotels[h.ID] = h
	m.rooms[r.ID] = r
	m.roomOrder = append(m.roomOrder, r.ID)
	return nil
}

func (m *memStore) GetRoom(_ context.Context, id string) (domain.Room, error) {
	r, ok := m.rooms[id]
	if !ok {
		return domain.Room{}, fmt.Errorf("room %s: %w", id, domain.ErrNotFound)
	}
	return r, nil
}

func (m *memStore) ListRooms(_ context.Context, hotelID string) ([]domain.Room, error) {
	var out []domain.Room
	for _, id := range m.roomOrder {
		if r, ok := m.rooms[id]; ok && r.HotelID == hotelID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memStore) UpdateRoom(_ context.Context, in domain.Room) (domain.Room, error) {
	old, ok := m.rooms[in.ID]
	if !ok {
		return domain.Room{}, fmt.Errorf("room %s: %w", in.ID, domain.ErrNotFound)
	}
	h := m.hotels[old.HotelID]
	for _, x := range m.rooms {
		if x.HotelID == old.HotelID && x.ID != old.ID && x.Name == in.Name {
			return domain.Room{}, fmt.Errorf("room name %q taken: %w", in.Name, domain.ErrConflict)
		}
	}

	// work on a copy so a conflict leaves the registry untouched
	next := domain.Hotel{RoomsMap: make(map[int]string, len(h.RoomsMap))}
	for k, v := range h.RoomsMap {
		next.RoomsMap[k] = v
	}
	next.ReleaseNumbers(old.RoomNumbers)
	if err := next.AssignNumbers(in.RoomNumbers, in.Name); err != nil {
		return domain.Room{}, err
	}
	h.RoomsMap = next.RoomsMap
	m.hotels[h.ID] = h

	old.Name = in.Name
	old.Description = in.Description
	old.Occupancy = in.Occupancy
	old.Price = in.Price
	old.Others = in.Others
	old.RoomNumbers = in.RoomNumbers
	m.rooms[old.ID] = old
	return old, nil
}

func (m *memStore) DeleteRoom(_ context.Context, id string) (domain.Room, error) {
	r, ok := m.rooms[id]
	if !ok {
		return domain.Room{}, fmt.Errorf("room %s: %w", id, domain.ErrNotFound)
	}
	h := m.hotels[r.HotelID]
	h.ReleaseNumbers(r.RoomNumbers)
	h.DetachRoom(id)
	m.hotels[h.ID] = h
	for _, bid := range r.BookingIDs {
		delete(m.bookings, bid)
	}
	delete(m.rooms, id)
	return r, nil
}

// ---- bookings ----

func (m *memStore) CreateBooking(ctx context.Context, b domain.Booking) error {
	r, ok := m.rooms[b.RoomID]
	if !ok {
		return fmt.Errorf("room %s: %w", b.RoomID, domain.ErrNotFound)
	}
	existing, _ := m.ListRoomBookings(ctx, b.RoomID)
	if !domain.NumbersFree(existing, b.RoomNumbers, b.Range) {
		return fmt.Errorf("numbers %v taken for %s..%s: %w",
			b.RoomNumbers, b.Range.From.Format("2006-01-02"), b.Range.To.Format("2006-01-02"), domain.ErrConflict)
	}
	r.AttachBooking(b.ID)
	m.rooms[r.ID] = r
	m.bookings[b.ID] = b
	m.bookingOrder = append(m.bookingOrder, b.ID)
	return nil
}

func (m *memStore) GetBooking(_ context.Context, id string) (domain.Booking, error) {
	b, ok := m.bookings[id]
	if !ok {
		return domain.Booking{}, fmt.Errorf("booking %s: %w", id, domain.ErrNotFound)
	}
	return b, nil
}

func (m *memStore) ListRoomBookings(_ context.Context, roomID string) ([]domain.Booking, error) {
	var out []domain.Booking
	for _, id := range m.bookingOrder {
		if b, ok := m.bookings[id]; ok && b.RoomID == roomID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *memStore) ListUserBookings(_ context.Context, userID string) ([]domain.Booking, error) {
	var out []domain.Booking
	for _, id := range m.bookingOrder {
		if b, ok := m.bookings[id]; ok && b.UserID == userID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *memStore) DeleteBooking(_ context.Context, id string) (domain.Booking, error) {
	b, ok := m.bookings[id]
	if !ok {
		return domain.Booking{}, fmt.Errorf("booking %s: %w", id, domain.ErrNotFound)
	}
	if r, ok := m.rooms[b.RoomID]; ok {
		r.DetachBooking(id)
		m.rooms[r.ID] = r
	}
	delete(m.bookings, id)
	return b, nil
}

func (m *memStore) MarkPaid(_ context.Context, id string, amount int64, chargeRef string) error {
	b, ok := m.bookings[id]
	if !ok {
		return fmt.Errorf("booking %s: %w", id, domain.ErrNotFound)
	}
	b.Paid = true
	b.Amount = amount
	b.ChargeRef = chargeRef
	m.bookings[id] = b
	return nil
}
