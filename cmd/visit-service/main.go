package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/kalathilrainu/vista-project/internal/config"
	"github.com/kalathilrainu/vista-project/internal/httpapi"
	"github.com/kalathilrainu/vista-project/internal/store/postgres"
	"github.com/kalathilrainu/vista-project/internal/telemetry"
)

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("env file: %v", err)
	}

	cfg := config.Load()
	shutdownTelemetry := telemetry.Setup(telemetry.Options{
		ServiceName: "visit-service",
		Endpoint:    cfg.OTLPEndpoint,
		Insecure:    cfg.OTLPInsecure,
	})
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTelemetry(ctx)
	}()

	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer pool.Close()

	visitStore := postgres.NewStore(pool, postgres.Options{
		LockTTL: cfg.LockTTL,
	})
	handler := httpapi.NewHandler(visitStore, httpapi.Options{
		MobileStrictStaff: cfg.MobileStrictStaff,
	})
	limiter := httpapi.NewRateLimiter(httpapi.RateLimitConfig{
		IPPerMinute:     cfg.RateLimitPerMinute,
		IPBurst:         cfg.RateLimitBurst,
		OfficePerMinute: cfg.OfficeRateLimitPerMinute,
		OfficeBurst:     cfg.OfficeRateLimitBurst,
	})

	routes := httpapi.AuthMiddleware(visitStore, handler.Routes())
	otelHandler := otelhttp.NewHandler(httpapi.LoggingMiddleware(limiter.Middleware(routes)), "visit-service")
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      otelHandler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("visit-service listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
