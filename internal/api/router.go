package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/carepoint/scheduling-stock-service/internal/booking"
	"github.com/carepoint/scheduling-stock-service/internal/clock"
	"github.com/carepoint/scheduling-stock-service/internal/directory"
	"github.com/carepoint/scheduling-stock-service/internal/inventory"
)

type RouterConfig struct {
	Booking   *booking.Service
	Inventory *inventory.Service
	Directory *directory.Service
	Clock     clock.Clock
	PgPool    *pgxpool.Pool
	Redis     *redis.Client
	Env       string
	Version   string
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware)

	// Health endpoints
	health := NewHealthHandler(cfg.PgPool, cfg.Redis, cfg.Env, cfg.Version)
	r.Get("/health/live", health.Liveness)
	r.Get("/health/ready", health.Readiness)

	// Appointment endpoints
	r.Post("/appointments", bookAppointmentHandler(cfg.Booking, cfg.Clock))
	r.Get("/appointments", listAppointmentsHandler(cfg.Booking))
	r.Patch("/appointments/{id}", updateAppointmentHandler(cfg.Booking))
	r.Delete("/appointments/{id}", deleteAppointmentHandler(cfg.Booking))

	// Directory endpoints
	r.Get("/doctors", listDoctorsHandler(cfg.Directory))
	r.Get("/doctors/{id}/availability", checkAvailabilityHandler(cfg.Booking))
	r.Get("/patients", listPatientsHandler(cfg.Directory))

	// Medicine endpoints
	r.Post("/medicines", addMedicineHandler(cfg.Inventory))
	r.Get("/medicines", searchMedicinesHandler(cfg.Inventory))
	r.Put("/medicines/{id}/stock", setStockHandler(cfg.Inventory))
	r.Post("/medicines/{id}/sales", recordSaleHandler(cfg.Inventory))

	return r
}
