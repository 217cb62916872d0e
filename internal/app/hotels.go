package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"stayhub/internal/domain"
)

func hotelKey(id string) string { return fmt.Sprintf("hotel:%s", id) }

// HotelService owns hotel CRUD plus the cache-aside read path for single
// hotels. Every write path evicts the hotel's cache entry so readers never
// see a stale rooms map.
type HotelService struct {
	store    domain.Store
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewHotelService(store domain.Store, cache domain.Cache, ttl time.Duration) *HotelService {
	return &HotelService{store: store, cache: cache, cacheTTL: ttl}
}

func (s *HotelService) Get(ctx context.Context, id string) (domain.Hotel, error) {
	key := hotelKey(id)
	var h domain.Hotel
	if s.cache != nil {
		if ok, _ := s.cache.Get(ctx, key, &h); ok {
			return h, nil
		}
	}
	h, err := s.store.GetHotel(ctx, id)
	if err != nil {
		return domain.Hotel{}, err
	}
	if s.cache != nil {
		_ = s.cache.Set(ctx, key, h, int(s.cacheTTL.Seconds()))
	}
	return h, nil
}

func (s *HotelService) List(ctx context.Context, q domain.HotelsQuery) (domain.HotelsPage, error) {
	if q.Limit <= 0 {
		q.Limit = 50
	}
	return s.store.ListHotels(ctx, q)
}

type AddHotelInput struct {
	Name        string
	Description string
	Location    string
	Image       string
	TotalRooms  int
	ManagerID   string
}

func (s *HotelService) Add(ctx context.Context, in AddHotelInput) (domain.Hotel, error) {
	if in.Name == "" || in.Location == "" || in.ManagerID == "" {
		return domain.Hotel{}, fmt.Errorf("name, location and manager are required: %w", domain.ErrInvalid)
	}
	mgr, err := s.store.GetUser(ctx, in.ManagerID)
	if err != nil {
		return domain.Hotel{}, fmt.Errorf("manager %s: %w", in.ManagerID, err)
	}
	if !mgr.IsManager {
		return domain.Hotel{}, fmt.Errorf("user %s is not a manager: %w", in.ManagerID, domain.ErrUnauthorized)
	}

	h := domain.Hotel{
		ID:          uuid.NewString(),
		Name:        in.Name,
		Description: in.Description,
		Location:    in.Location,
		Image:       in.Image,
		ManagerID:   in.ManagerID,
		TotalRooms:  in.TotalRooms,
		RoomsMap:    map[int]string{},
		AddedOn:     time.Now().UTC(),
	}
	// One hotel per manager; the store enforces it under lock.
	if err := s.store.CreateHotel(ctx, h); err != nil {
		return domain.Hotel{}, err
	}
	return h, nil
}

type UpdateHotelInput struct {
	ID          string
	Name        string
	Description string
	Location    string
	Image       string
	Ratings     *int
	TotalRooms  int
}

func (s *HotelService) Update(ctx context.Context, in UpdateHotelInput) (domain.Hotel, error) {
	if in.ID == "" {
		return domain.Hotel{}, fmt.Errorf("hotel id is required: %w", domain.ErrInvalid)
	}
	if in.Name == "" || in.Location == "" {
		return domain.Hotel{}, fmt.Errorf("name and location are required: %w", domain.ErrInvalid)
	}
	h, err := s.store.GetHotel(ctx, in.ID)
	if err != nil {
		return domain.Hotel{}, err
	}
	h.Name = in.Name
	h.Description = in.Description
	h.Location = in.Location
	h.Image = in.Image
	h.TotalRooms = in.TotalRooms
	if in.Ratings != nil {
		h.Ratings = in.Ratings
	}
	if err := s.store.UpdateHotel(ctx, h); err != nil {
		return domain.Hotel{}, err
	}
	s.invalidate(ctx, h.ID)
	return h, nil
}

// Delete removes the hotel and cascades to its rooms and their bookings.
func (s *HotelService) Delete(ctx context.Context, id string) (domain.Hotel, error) {
	h, err := s.store.DeleteHotel(ctx, id)
	if err != nil {
		return domain.Hotel{}, err
	}
	s.invalidate(ctx, id)
	return h, nil
}

func (s *HotelService) invalidate(ctx context.Context, id string) {
	if s.cache == nil {
		return
	}
	_ = s.cache.Del(ctx, hotelKey(id))
}
