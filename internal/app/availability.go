package app

import (
	"context"
	"fmt"

	"stayhub/internal/domain"
)

// AvailabilityService answers "which rooms, and which of their numbers, are
// free for this range and party size". It only reads; the conflict-freedom
// of what it reports is enforced by the store's booking writes.
type AvailabilityService struct {
	store domain.Store
}

func NewAvailabilityService(store domain.Store) *AvailabilityService {
	return &AvailabilityService{store: store}
}

// FindAvailable returns, in store order, every room of the hotel whose
// occupancy covers minOccupancy and which has at least one number not
// reserved by a booking overlapping rng.
func (s *AvailabilityService) FindAvailable(ctx context.Context, hotelID string, rng domain.DateRange, minOccupancy int) ([]domain.RoomAvailability, error) {
	if _, err := s.store.GetHotel(ctx, hotelID); err != nil {
		return nil, fmt.Errorf("load hotel %s: %w", hotelID, err)
	}
	rooms, err := s.store.ListRooms(ctx, hotelID)
	if err != nil {
		return nil, fmt.Errorf("list rooms of %s: %w", hotelID, err)
	}

	var out []domain.RoomAvailability
	for _, r := range rooms {
		if r.Occupancy < minOccupancy {
			continue
		}
		bookings, err := s.store.ListRoomBookings(ctx, r.ID)
		if err != nil {
			return nil, fmt.Errorf("list bookings of room %s: %w", r.ID, err)
		}
		free := domain.FreeNumbers(r.RoomNumbers, bookings, rng)
		if len(free) == 0 {
			continue
		}
		out = append(out, domain.RoomAvailability{Room: r, RoomNumbers: free})
	}
	return out, nil
}
