package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"stayhub/internal/domain"
)

// RoomService owns room CRUD. The store keeps the hotel's room-number
// registry consistent under lock; this layer validates inputs and keeps the
// hotel cache fresh.
type RoomService struct {
	store domain.Store
	cache domain.Cache
}

func NewRoomService(store domain.Store, cache domain.Cache) *RoomService {
	return &RoomService{store: store, cache: cache}
}

type AddRoomInput struct {
	HotelID     string
	Name        string
	Description string
	Occupancy   int
	Price       int64
	Others      []string
	RoomNumbers []int
}

func (s *RoomService) Add(ctx context.Context, in AddRoomInput) (domain.Room, error) {
	if in.Name == "" || in.Occupancy <= 0 || len(in.RoomNumbers) == 0 {
		return domain.Room{}, fmt.Errorf("name, occupancy and room numbers are required: %w", domain.ErrInvalid)
	}
	if _, err := s.store.GetHotel(ctx, in.HotelID); err != nil {
		return domain.Room{}, fmt.Errorf("hotel %s: %w", in.HotelID, err)
	}

	r := domain.Room{
		ID:          uuid.NewString(),
		HotelID:     in.HotelID,
		Name:        in.Name,
		Description: in.Description,
		Occupancy:   in.Occupancy,
		Price:       in.Price,
		Others:      in.Others,
		RoomNumbers: in.RoomNumbers,
		AddedOn:     time.Now().UTC(),
	}
	// Duplicate room name and duplicate number assignment both surface as
	// ErrConflict from the store.
	if err := s.store.AddRoom(ctx, r); err != nil {
		return domain.Room{}, err
	}
	s.invalidate(ctx, in.HotelID)
	return r, nil
}

type UpdateRoomInput struct {
	ID          string
	Name        string
	Description string
	Occupancy   int
	Price       int64
	Others      []string
	RoomNumbers []int
}

func (s *RoomService) Update(ctx context.Context, in UpdateRoomInput) (domain.Room, error) {
	if in.ID == "" {
		return domain.Room{}, fmt.Errorf("room id is required: %w", domain.ErrInvalid)
	}
	if in.Name == "" || in.Occupancy <= 0 || len(in.RoomNumbers) == 0 {
		return domain.Room{}, fmt.Errorf("name, occupancy and room numbers are required: %w", domain.ErrInvalid)
	}
	r, err := s.store.UpdateRoom(ctx, domain.Room{
		ID:          in.ID,
		Name:        in.Name,
		Description: in.Description,
		Occupancy:   in.Occupancy,
		Price:       in.Price,
		Others:      in.Others,
		RoomNumbers: in.RoomNumbers,
	})
	if err != nil {
		return domain.Room{}, err
	}
	s.invalidate(ctx, r.HotelID)
	return r, nil
}

// Delete removes the room, releases its numbers from the hotel registry and
// cascades to the room's bookings.
func (s *RoomService) Delete(ctx context.Context, id string) (domain.Room, error) {
	r, err := s.store.DeleteRoom(ctx, id)
	if err != nil {
		return domain.Room{}, err
	}
	s.invalidate(ctx, r.HotelID)
	return r, nil
}

func (s *RoomService) Get(ctx context.Context, id string) (domain.Room, error) {
	return s.store.GetRoom(ctx, id)
}

func (s *RoomService) invalidate(ctx context.Context, hotelID string) {
	if s.cache == nil {
		return
	}
	_ = s.cache.Del(ctx, hotelKey(hotelID))
}
