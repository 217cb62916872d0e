package main

import (
	"database/sql"
	"net/http"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	"stayhub/internal/adapters/events"
	server "stayhub/internal/adapters/http_server"
	"stayhub/internal/adapters/observability"
	"stayhub/internal/adapters/payment"
	redisad "stayhub/internal/adapters/redis"
	"stayhub/internal/app"
	"stayhub/internal/auth"
	"stayhub/internal/domain"
	"stayhub/internal/shared"
	mysqlrepo "stayhub/internal/storage/mysql"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	observability.SetupGlobal(cfg.AppEnv)

	observability.Serve()

	// db
	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("database connection ok")

	// deps
	repo := mysqlrepo.New(db)
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	issuer := auth.NewIssuer(cfg.JWTSecret, cfg.AccessTTL, cfg.RefreshTTL)

	var pay domain.PaymentGateway
	if cfg.PayKey != "" {
		cl, err := payment.New(cfg.PayBase, cfg.PayKey, 5)
		if err != nil {
			log.Fatal().Err(err).Msg("payment client init failed")
		}
		pay = cl
	}

	var pub domain.EventPublisher
	if cfg.AMQPURL != "" {
		p, err := events.NewPublisher(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			log.Fatal().Err(err).Msg("event publisher init failed")
		}
		defer p.Close()
		pub = p
	}

	handlers := &server.Handlers{
		Users:    app.NewUserService(repo, issuer),
		Hotels:   app.NewHotelService(repo, cache, cfg.CacheTTL),
		Rooms:    app.NewRoomService(repo, cache),
		Avail:    app.NewAvailabilityService(repo),
		Bookings: app.NewBookingService(repo, pay, pub),
		Store:    repo,
		Issuer:   issuer,
	}

	// http
	srv := server.New()
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(handlers)

	log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux()}

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
}
