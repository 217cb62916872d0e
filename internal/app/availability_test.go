package app_test

import (
	"context"
	"reflect"
	"testing"
	"time"

	"stayhub/internal/app"
	"stayhub/internal/domain"
)

// ---- shared helpers for the app test package ----

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func mkRange(t *testing.T, from, to string) domain.DateRange {
	t.Helper()
	r, err := domain.NewDateRange(day(from), day(to))
	if err != nil {
		t.Fatalf("range: %v", err)
	}
	return r
}

// seedHotelRoom stores a manager, a hotel and one room, returning their ids.
func seedHotelRoom(t *testing.T, m *memStore, roomName string, occupancy int, numbers []int) (hotelID, roomID string) {
	t.Helper()
	ctx := context.Background()
	mgr := domain.User{ID: "mgr-1", Email: "mgr@example.com", IsManager: true}
	if _, err := m.GetUser(ctx, mgr.ID); err != nil {
		if err := m.CreateUser(ctx, mgr); err != nil {
			t.Fatalf("seed user: %v", err)
		}
	}
	h := domain.Hotel{
		ID:        "hotel-1",
		Name:      "Grand Plaza",
		Location:  "Lisbon",
		ManagerID: mgr.ID,
		RoomsMap:  map[int]string{},
	}
	if _, err := m.GetHotel(ctx, h.ID); err != nil {
		if err := m.CreateHotel(ctx, h); err != nil {
			t.Fatalf("seed hotel: %v", err)
		}
	}
	r := domain.Room{
		ID:          "room-" + roomName,
		HotelID:     h.ID,
		Name:        roomName,
		Occupancy:   occupancy,
		Price:       100,
		RoomNumbers: numbers,
	}
	if err := m.AddRoom(ctx, r); err != nil {
		t.Fatalf("seed room: %v", err)
	}
	return h.ID, r.ID
}

func TestFindAvailable_ExcludesBookedNumbers(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	hotelID, roomID := seedHotelRoom(t, store, "Deluxe", 2, []int{101, 102})

	svc := app.NewAvailabilityService(store)
	bookings := app.NewBookingService(store, nil, nil)

	if _, err := bookings.Create(ctx, app.CreateBookingInput{
		HotelID: hotelID, RoomID: roomID, UserID: "u1",
		From: day("2024-01-01"), To: day("2024-01-03"),
		RoomNumbers: []int{101},
		People:      domain.People{Adults: 2},
	}); err != nil {
		t.Fatalf("create booking: %v", err)
	}

	// Overlapping range: 101 excluded, 102 remains.
	got, err := svc.FindAvailable(ctx, hotelID, mkRange(t, "2024-01-02", "2024-01-04"), 1)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(got) != 1 || !reflect.DeepEqual(got[0].RoomNumbers, []int{102}) {
		t.Fatalf("availability = %+v, want only 102", got)
	}

	// Disjoint range: both numbers back.
	got, err = svc.FindAvailable(ctx, hotelID, mkRange(t, "2024-01-04", "2024-01-05"), 1)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(got) != 1 || !reflect.DeepEqual(got[0].RoomNumbers, []int{101, 102}) {
		t.Fatalf("availability = %+v, want 101 and 102", got)
	}
}

func TestFindAvailable_OccupancyFilterAndFullRooms(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	hotelID, roomID := seedHotelRoom(t, store, "Single", 1, []int{201})
	if err := store.AddRoom(ctx, domain.Room{
		ID: "room-Family", HotelID: hotelID, Name: "Family", Occupancy: 4, RoomNumbers: []int{301},
	}); err != nil {
		t.Fatalf("second room: %v", err)
	}

	svc := app.NewAvailabilityService(store)

	// Occupancy 2 filters out the single room entirely.
	got, err := svc.FindAvailable(ctx, hotelID, mkRange(t, "2024-03-01", "2024-03-02"), 2)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(got) != 1 || got[0].Room.Name != "Family" {
		t.Fatalf("availability = %+v, want only Family", got)
	}

	// Book the single room's only number; it must drop out even at occupancy 1.
	if err := store.CreateBooking(ctx, domain.Booking{
		ID: "b1", RoomID: roomID, HotelID: hotelID,
		Range: mkRange(t, "2024-03-01", "2024-03-03"), RoomNumbers: []int{201},
	}); err != nil {
		t.Fatalf("book: %v", err)
	}
	got, err = svc.FindAvailable(ctx, hotelID, mkRange(t, "2024-03-02", "2024-03-02"), 1)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(got) != 1 || got[0].Room.Name != "Family" {
		t.Fatalf("availability = %+v, fully booked room should be omitted", got)
	}
}

func TestFindAvailable_UnknownHotel(t *testing.T) {
	svc := app.NewAvailabilityService(newMemStore())
	_, err := svc.FindAvailable(context.Background(), "nope", mkRange(t, "2024-01-01", "2024-01-02"), 1)
	if err == nil {
		t.Fatal("expected error for unknown hotel")
	}
}
