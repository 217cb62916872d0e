package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"stayhub/internal/domain"
)

// BookingService drives a booking through its lifecycle: create, cancel,
// payment confirmation. Conflict checks live in the store so they run under
// the same lock as the write.
type BookingService struct {
	store  domain.Store
	pay    domain.PaymentGateway
	events domain.EventPublisher
}

func NewBookingService(store domain.Store, pay domain.PaymentGateway, events domain.EventPublisher) *BookingService {
	return &BookingService{store: store, pay: pay, events: events}
}

type CreateBookingInput struct {
	HotelID     string
	RoomID      string
	UserID      string
	From        time.Time
	To          time.Time
	RoomNumbers []int
	People      domain.People
	Amount      int64
	Paid        bool
}

func (s *BookingService) Create(ctx context.Context, in CreateBookingInput) (domain.Booking, error) {
	rng, err := domain.NewDateRange(in.From, in.To)
	if err != nil {
		return domain.Booking{}, err
	}
	if len(in.RoomNumbers) == 0 {
		return domain.Booking{}, fmt.Errorf("no room numbers requested: %w", domain.ErrInvalid)
	}

	hotel, err := s.store.GetHotel(ctx, in.HotelID)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("hotel %s: %w", in.HotelID, err)
	}
	room, err := s.store.GetRoom(ctx, in.RoomID)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("room %s: %w", in.RoomID, err)
	}
	if room.HotelID != hotel.ID {
		return domain.Booking{}, fmt.Errorf("room %s does not belong to hotel %s: %w", in.RoomID, in.HotelID, domain.ErrInvalid)
	}
	for _, n := range in.RoomNumbers {
		if !room.HasNumber(n) {
			return domain.Booking{}, fmt.Errorf("room %s has no number %d: %w", in.RoomID, n, domain.ErrInvalid)
		}
	}

	b := domain.Booking{
		ID:          uuid.NewString(),
		HotelID:     hotel.ID,
		RoomID:      room.ID,
		UserID:      in.UserID,
		Range:       rng,
		Days:        rng.Days(),
		RoomNumbers: in.RoomNumbers,
		People:      in.People,
		NumOfPeople: in.People.Adults + in.People.Children,
		Location:    hotel.Location,
		Amount:      in.Amount,
		Paid:        in.Paid,
		BookedOn:    time.Now().UTC(),
	}
	// The store runs the ledger check and the write under one room lock;
	// a lost race still comes back as ErrConflict.
	if err := s.store.CreateBooking(ctx, b); err != nil {
		return domain.Booking{}, err
	}
	s.publish(ctx, "booking.created", b)
	return b, nil
}

// Cancel removes the booking and its reference from the owning room,
// returning the prior state. A second cancel of the same id fails with
// ErrNotFound.
func (s *BookingService) Cancel(ctx context.Context, id string) (domain.Booking, error) {
	b, err := s.store.DeleteBooking(ctx, id)
	if err != nil {
		return domain.Booking{}, err
	}
	s.publish(ctx, "booking.cancelled", b)
	return b, nil
}

// ConfirmPayment charges the card through the external gateway and records
// the confirmed amount and reference on the booking.
func (s *BookingService) ConfirmPayment(ctx context.Context, id, source string) (domain.Booking, error) {
	b, err := s.store.GetBooking(ctx, id)
	if err != nil {
		return domain.Booking{}, err
	}
	if b.Paid {
		return domain.Booking{}, fmt.Errorf("booking %s is already paid: %w", id, domain.ErrConflict)
	}
	if s.pay == nil {
		return domain.Booking{}, fmt.Errorf("payment gateway is not configured")
	}

	res, err := s.pay.Charge(ctx, domain.ChargeRequest{
		Amount:      b.Amount,
		Currency:    "usd",
		Source:      source,
		Description: fmt.Sprintf("stay at %s, %s nights x%d", b.Location, b.Range.From.Format("2006-01-02"), b.Days),
	})
	if err != nil {
		return domain.Booking{}, fmt.Errorf("charge booking %s: %w", id, err)
	}
	if !res.Paid {
		return domain.Booking{}, fmt.Errorf("charge %s was not captured", res.Ref)
	}
	if err := s.store.MarkPaid(ctx, id, res.Amount, res.Ref); err != nil {
		return domain.Booking{}, fmt.Errorf("record payment for %s: %w", id, err)
	}

	b.Paid = true
	b.Amount = res.Amount
	b.ChargeRef = res.Ref
	s.publish(ctx, "booking.paid", b)
	return b, nil
}

func (s *BookingService) ListForUser(ctx context.Context, userID string) ([]domain.Booking, error) {
	return s.store.ListUserBookings(ctx, userID)
}

// publish is best-effort: a broker outage must not fail the booking.
func (s *BookingService) publish(ctx context.Context, key string, b domain.Booking) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, key, b); err != nil {
		log.Warn().Err(err).Str("event", key).Str("booking", b.ID).Msg("publish booking event failed")
	}
}
