package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/carepoint/scheduling-stock-service/internal/config"
	"github.com/carepoint/scheduling-stock-service/internal/db"
	"github.com/carepoint/scheduling-stock-service/internal/events"
	"github.com/carepoint/scheduling-stock-service/internal/inventory"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("stock-worker starting up")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	log.Printf("running stock worker in env=%s interval=%s threshold=%d",
		cfg.Env, cfg.WorkerInterval, cfg.LowStockThreshold)

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pgCtx, cancelPg := context.WithTimeout(rootCtx, 10*time.Second)
	pgPool, err := db.ConnectPostgres(pgCtx, cfg.PostgresDSN)
	cancelPg()
	if err != nil {
		log.Fatalf("postgres connection error: %v", err)
	}
	defer pgPool.Close()
	log.Println("connected to Postgres")

	publisher := events.NewNopPublisher()
	if len(cfg.KafkaBrokers) > 0 {
		publisher = events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, "stock-worker")
		log.Printf("publishing events to kafka topic=%s", cfg.KafkaTopic)
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			log.Printf("error closing event publisher: %v", err)
		}
	}()

	repo := inventory.NewPgRepository(pgPool)
	svc := inventory.NewService(repo, publisher)

	// Run once at startup
	runOnce(rootCtx, svc, publisher, cfg.LowStockThreshold)

	ticker := time.NewTicker(cfg.WorkerInterval)
	defer ticker.Stop()

	for {
		select {
		case <-rootCtx.Done():
			log.Println("shutdown signal received, stopping stock worker")
			return
		case <-ticker.C:
			runOnce(rootCtx, svc, publisher, cfg.LowStockThreshold)
		}
	}
}

func runOnce(ctx context.Context, svc *inventory.Service, publisher events.Publisher, threshold int) {
	runCtx, cancel := context.WithTimeout(ctx, 20*time.Second)
	defer cancel()

	start := time.Now()

	low, err := svc.LowStock(runCtx, threshold)
	if err != nil {
		log.Printf("low stock scan error: %v", err)
		return
	}

	for _, m := range low {
		log.Printf("low stock: medicine=%s name=%q quantity=%d threshold=%d", m.ID, m.Name, m.Quantity, threshold)
		publisher.Publish(runCtx, events.TypeStockLow, m.ID.String(), m)
	}

	log.Printf("stock scan complete in %s, %d medicines below threshold", time.Since(start), len(low))
}
