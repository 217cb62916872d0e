package main

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"stayhub/internal/adapters/observability"
	redisad "stayhub/internal/adapters/redis"
	"stayhub/internal/app"
	"stayhub/internal/auth"
	"stayhub/internal/shared"
	mysqlrepo "stayhub/internal/storage/mysql"
)

type roomFixture struct {
	Name      string
	Occupancy int
	Price     int64
	Numbers   []int
	Others    []string
}

type hotelFixture struct {
	Name        string
	Description string
	Location    string
	Rooms       []roomFixture
}

var fixtures = []hotelFixture{
	{
		Name: "Grand Plaza", Description: "City-centre landmark", Location: "Lisbon",
		Rooms: []roomFixture{
			{Name: "Deluxe", Occupancy: 2, Price: 12000, Numbers: []int{101, 102, 103}, Others: []string{"sea view"}},
			{Name: "Family Suite", Occupancy: 4, Price: 21000, Numbers: []int{201, 202}},
		},
	},
	{
		Name: "Harbour Light", Description: "Quiet waterfront stay", Location: "Porto",
		Rooms: []roomFixture{
			{Name: "Standard", Occupancy: 2, Price: 8000, Numbers: []int{1, 2, 3, 4}},
			{Name: "Penthouse", Occupancy: 6, Price: 45000, Numbers: []int{10}, Others: []string{"terrace"}},
		},
	},
	{
		Name: "Alpine Rest", Description: "Mountain lodge", Location: "Innsbruck",
		Rooms: []roomFixture{
			{Name: "Cabin", Occupancy: 3, Price: 15000, Numbers: []int{11, 12, 13}},
		},
	},
}

func main() {
	ctx := context.Background()
	cfg := shared.Load()

	observability.SetupGlobal(cfg.AppEnv)
	log.Info().Int("workers", cfg.SeedWorkers).Int("hotels", len(fixtures)).Msg("seed starting")

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("db ping ok")

	repo := mysqlrepo.New(db)
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	issuer := auth.NewIssuer(cfg.JWTSecret, cfg.AccessTTL, cfg.RefreshTTL)

	users := app.NewUserService(repo, issuer)
	hotels := app.NewHotelService(repo, cache, cfg.CacheTTL)
	rooms := app.NewRoomService(repo, cache)

	sem := semaphore.NewWeighted(int64(cfg.SeedWorkers))
	var wg sync.WaitGroup

	for i, f := range fixtures {
		i, f := i, f

		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, int64(1)); err != nil {
			log.Fatal().Err(err).Msg("semaphore acquire failed")
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			defer sem.Release(int64(1))

			if err := seedHotel(ctx, users, hotels, rooms, i, f); err != nil {
				log.Warn().Str("hotel", f.Name).Err(err).Msg("seed failed")
				return
			}
			log.Info().Str("hotel", f.Name).Msg("seed ok")
		}()
	}

	wg.Wait()
	log.Info().Msg("seeding completed")
}

func seedHotel(ctx context.Context, users *app.UserService, hotels *app.HotelService, rooms *app.RoomService, i int, f hotelFixture) error {
	mgr, err := users.Register(ctx, app.RegisterInput{
		Name:     fmt.Sprintf("Manager %d", i+1),
		Username: fmt.Sprintf("manager%d", i+1),
		Email:    fmt.Sprintf("manager%d@stayhub.local", i+1),
		Password: "changeme",
	})
	if err != nil {
		return fmt.Errorf("register manager: %w", err)
	}
	if _, err := users.MakeManager(ctx, mgr.ID); err != nil {
		return fmt.Errorf("promote manager: %w", err)
	}

	total := 0
	for _, r := range f.Rooms {
		total += len(r.Numbers)
	}
	h, err := hotels.Add(ctx, app.AddHotelInput{
		Name:        f.Name,
		Description: f.Description,
		Location:    f.Location,
		TotalRooms:  total,
		ManagerID:   mgr.ID,
	})
	if err != nil {
		return fmt.Errorf("add hotel: %w", err)
	}

	for _, r := range f.Rooms {
		if _, err := rooms.Add(ctx, app.AddRoomInput{
			HotelID:     h.ID,
			Name:        r.Name,
			Occupancy:   r.Occupancy,
			Price:       r.Price,
			Others:      r.Others,
			RoomNumbers: r.Numbers,
		}); err != nil {
			return fmt.Errorf("add room %s: %w", r.Name, err)
		}
	}
	return nil
}
