package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/carepoint/scheduling-stock-service/internal/api"
	"github.com/carepoint/scheduling-stock-service/internal/booking"
	"github.com/carepoint/scheduling-stock-service/internal/clock"
	"github.com/carepoint/scheduling-stock-service/internal/config"
	"github.com/carepoint/scheduling-stock-service/internal/db"
	"github.com/carepoint/scheduling-stock-service/internal/directory"
	"github.com/carepoint/scheduling-stock-service/internal/events"
	"github.com/carepoint/scheduling-stock-service/internal/inventory"
	"github.com/carepoint/scheduling-stock-service/internal/lock"
	redisclient "github.com/carepoint/scheduling-stock-service/internal/redis"
)

const version = "1.0.0"

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("api-server starting up")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	log.Printf("running in env=%s http_port=%s storage=%s", cfg.Env, cfg.HTTPPort, cfg.StorageDriver)

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var (
		pgPool        *pgxpool.Pool
		rdb           *redis.Client
		bookingRepo   booking.Repository
		inventoryRepo inventory.Repository
		directoryRepo directory.Repository
	)

	switch cfg.StorageDriver {
	case config.DriverPostgres:
		pgCtx, cancelPg := context.WithTimeout(rootCtx, 10*time.Second)
		pgPool, err = db.ConnectPostgres(pgCtx, cfg.PostgresDSN)
		cancelPg()
		if err != nil {
			log.Fatalf("postgres connection error: %v", err)
		}
		defer pgPool.Close()
		log.Println("connected to Postgres")

		bookingRepo = booking.NewPgRepository(pgPool)
		inventoryRepo = inventory.NewPgRepository(pgPool)
		directoryRepo = directory.NewPgRepository(pgPool)

	case config.DriverMemory:
		memBooking := booking.NewMemRepository()
		memInventory := inventory.NewMemRepository()
		seedMemory(rootCtx, memBooking, memInventory)
		bookingRepo = memBooking
		inventoryRepo = memInventory
		directoryRepo = directory.NewMemRepository(memBooking)
		log.Println("using in-memory storage with demo data")
	}

	var locker lock.Locker
	if cfg.RedisAddr != "" {
		rdb, err = redisclient.NewRedisClient(rootCtx, cfg.RedisAddr, cfg.RedisUsername, cfg.RedisPassword)
		if err != nil {
			log.Fatalf("redis connection error: %v", err)
		}
		defer func() {
			if err := rdb.Close(); err != nil {
				log.Printf("error closing redis: %v", err)
			}
		}()
		log.Println("connected to Redis")

		locker = redisclient.NewRedisKeyLocker(rdb, cfg.LockTTL)
	} else {
		locker = lock.NewKeyMutex()
		log.Println("no Redis configured, using in-process locks")
	}

	publisher := events.NewNopPublisher()
	if len(cfg.KafkaBrokers) > 0 {
		publisher = events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, "api-server")
		log.Printf("publishing events to kafka topic=%s", cfg.KafkaTopic)
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			log.Printf("error closing event publisher: %v", err)
		}
	}()

	clk := clock.System()
	bookingSvc := booking.NewService(bookingRepo, locker, clk, publisher)
	inventorySvc := inventory.NewService(inventoryRepo, publisher)
	directorySvc := directory.NewService(directoryRepo)

	router := api.NewRouter(api.RouterConfig{
		Booking:   bookingSvc,
		Inventory: inventorySvc,
		Directory: directorySvc,
		Clock:     clk,
		PgPool:    pgPool,
		Redis:     rdb,
		Env:       cfg.Env,
		Version:   version,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Printf("listening on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http server error: %v", err)
		}
	}()

	<-rootCtx.Done()

	log.Println("shutting down api-server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("http shutdown error: %v", err)
	}
}

// seedMemory gives the in-memory deployment a handful of doctors, patients,
// and medicines so every endpoint can be exercised without Postgres.
func seedMemory(ctx context.Context, repo *booking.MemRepository, inv *inventory.MemRepository) {
	specialties := []string{"Cardiology", "Dermatology", "General Practice", "Pediatrics"}

	for i := 0; i < 4; i++ {
		spec := specialties[i]
		repo.PutDoctor(booking.Doctor{
			ID:        uuid.New(),
			FullName:  gofakeit.Name(),
			Specialty: &spec,
			Available: true,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		})
	}

	for i := 0; i < 10; i++ {
		email := gofakeit.Email()
		repo.PutPatient(booking.Patient{
			ID:        uuid.New(),
			FullName:  gofakeit.Name(),
			Email:     &email,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		})
	}

	categories := []string{"Analgesic", "Antibiotic", "Antihistamine", "Vitamin"}

	for i := 0; i < 12; i++ {
		_, err := inv.CreateMedicine(ctx,
			gofakeit.BeerName(),
			categories[i%len(categories)],
			gofakeit.Price(0.5, 200),
			gofakeit.Number(5, 120),
		)
		if err != nil {
			log.Printf("seed medicine: %v", err)
		}
	}
}
