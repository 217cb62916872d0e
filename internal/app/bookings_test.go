package app_test

import (
	"context"
	"errors"
	"testing"

	"stayhub/internal/app"
	"stayhub/internal/domain"
)

type fakeGateway struct {
	result domain.ChargeResult
	err    error
	calls  int
	last   domain.ChargeRequest
}

func (g *fakeGateway) Charge(_ context.Context, req domain.ChargeRequest) (domain.ChargeResult, error) {
	g.calls++
	g.last = req
	return g.result, g.err
}

type recordingPublisher struct {
	keys []string
}

func (p *recordingPublisher) Publish(_ context.Context, key string, _ any) error {
	p.keys = append(p.keys, key)
	return nil
}

func TestCreateBooking_StampsDerivedFields(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	hotelID, roomID := seedHotelRoom(t, store, "Deluxe", 2, []int{101, 102})
	events := &recordingPublisher{}
	svc := app.NewBookingService(store, nil, events)

	b, err := svc.Create(ctx, app.CreateBookingInput{
		HotelID: hotelID, RoomID: roomID, UserID: "u1",
		From: day("2024-01-30"), To: day("2024-02-02"),
		RoomNumbers: []int{101},
		People:      domain.People{Adults: 2, Children: 1},
		Amount:      400,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if b.Days != 4 {
		t.Fatalf("days = %d, want 4 (month boundary)", b.Days)
	}
	if b.NumOfPeople != 3 {
		t.Fatalf("numOfPeople = %d, want 3", b.NumOfPeople)
	}
	if b.Location != "Lisbon" {
		t.Fatalf("location = %q, want hotel location", b.Location)
	}
	room, _ := store.GetRoom(ctx, roomID)
	if len(room.BookingIDs) != 1 || room.BookingIDs[0] != b.ID {
		t.Fatalf("room booking refs = %v", room.BookingIDs)
	}
	if len(events.keys) != 1 || events.keys[0] != "booking.created" {
		t.Fatalf("events = %v", events.keys)
	}
}

func TestCreateBooking_OverlapConflict(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	hotelID, roomID := seedHotelRoom(t, store, "Deluxe", 2, []int{101, 102})
	svc := app.NewBookingService(store, nil, nil)

	mk := func(from, to string, nums []int) error {
		_, err := svc.Create(ctx, app.CreateBookingInput{
			HotelID: hotelID, RoomID: roomID, UserID: "u1",
			From: day(from), To: day(to), RoomNumbers: nums,
			People: domain.People{Adults: 1},
		})
		return err
	}

	if err := mk("2024-01-01", "2024-01-03", []int{101}); err != nil {
		t.Fatalf("first booking: %v", err)
	}
	// Overlapping-but-not-identical range on the same number must conflict.
	if err := mk("2024-01-03", "2024-01-05", []int{101}); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("overlap err = %v, want ErrConflict", err)
	}
	// Same range on the other number is fine.
	if err := mk("2024-01-01", "2024-01-03", []int{102}); err != nil {
		t.Fatalf("second number: %v", err)
	}
	// Disjoint range on the first number is fine.
	if err := mk("2024-01-04", "2024-01-06", []int{101}); err != nil {
		t.Fatalf("disjoint range: %v", err)
	}
}

func TestCreateBooking_NotFoundVsInvalid(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	hotelID, roomID := seedHotelRoom(t, store, "Deluxe", 2, []int{101})
	svc := app.NewBookingService(store, nil, nil)

	base := app.CreateBookingInput{
		HotelID: hotelID, RoomID: roomID, UserID: "u1",
		From: day("2024-01-01"), To: day("2024-01-02"), RoomNumbers: []int{101},
	}

	in := base
	in.HotelID = "missing"
	if _, err := svc.Create(ctx, in); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("missing hotel err = %v, want ErrNotFound", err)
	}
	in = base
	in.RoomID = "missing"
	if _, err := svc.Create(ctx, in); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("missing room err = %v, want ErrNotFound", err)
	}
	in = base
	in.RoomNumbers = []int{999}
	if _, err := svc.Create(ctx, in); !errors.Is(err, domain.ErrInvalid) {
		t.Fatalf("foreign number err = %v, want ErrInvalid", err)
	}
	in = base
	in.From, in.To = day("2024-01-05"), day("2024-01-01")
	if _, err := svc.Create(ctx, in); !errors.Is(err, domain.ErrInvalid) {
		t.Fatalf("inverted range err = %v, want ErrInvalid", err)
	}
}

func TestCancelBooking_FreesNumbersAndIsNotRepeatable(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	hotelID, roomID := seedHotelRoom(t, store, "Deluxe", 2, []int{101})
	events := &recordingPublisher{}
	svc := app.NewBookingService(store, nil, events)
	avail := app.NewAvailabilityService(store)

	b, err := svc.Create(ctx, app.CreateBookingInput{
		HotelID: hotelID, RoomID: roomID, UserID: "u1",
		From: day("2024-01-01"), To: day("2024-01-03"), RoomNumbers: []int{101},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	prior, err := svc.Cancel(ctx, b.ID)
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if prior.ID != b.ID {
		t.Fatalf("cancel returned %s, want prior booking %s", prior.ID, b.ID)
	}
	if _, err := svc.Cancel(ctx, b.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("second cancel err = %v, want ErrNotFound", err)
	}

	got, err := avail.FindAvailable(ctx, hotelID, mkRange(t, "2024-01-01", "2024-01-03"), 1)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(got) != 1 || len(got[0].RoomNumbers) != 1 {
		t.Fatalf("number not freed after cancel: %+v", got)
	}
	room, _ := store.GetRoom(ctx, roomID)
	if len(room.BookingIDs) != 0 {
		t.Fatalf("room still references booking: %v", room.BookingIDs)
	}
	if len(events.keys) != 2 || events.keys[1] != "booking.cancelled" {
		t.Fatalf("events = %v", events.keys)
	}
}

func TestConfirmPayment(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	hotelID, roomID := seedHotelRoom(t, store, "Deluxe", 2, []int{101})
	gw := &fakeGateway{result: domain.ChargeResult{Ref: "ch_123", Amount: 300, Paid: true}}
	svc := app.NewBookingService(store, gw, nil)

	b, err := svc.Create(ctx, app.CreateBookingInput{
		HotelID: hotelID, RoomID: roomID, UserID: "u1",
		From: day("2024-01-01"), To: day("2024-01-03"), RoomNumbers: []int{101},
		Amount: 300,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	paid, err := svc.ConfirmPayment(ctx, b.ID, "tok_visa")
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if !paid.Paid || paid.ChargeRef != "ch_123" || paid.Amount != 300 {
		t.Fatalf("paid booking = %+v", paid)
	}
	if gw.calls != 1 || gw.last.Amount != 300 || gw.last.Source != "tok_visa" {
		t.Fatalf("gateway call = %+v (calls %d)", gw.last, gw.calls)
	}

	// Second confirmation must refuse, not double-charge.
	if _, err := svc.ConfirmPayment(ctx, b.ID, "tok_visa"); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("double pay err = %v, want ErrConflict", err)
	}
	if gw.calls != 1 {
		t.Fatalf("gateway called %d times, want 1", gw.calls)
	}

	if _, err := svc.ConfirmPayment(ctx, "missing", "tok_visa"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("missing booking err = %v, want ErrNotFound", err)
	}
}
