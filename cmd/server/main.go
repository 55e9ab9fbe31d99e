// HTTP server - обмены, баланс, модерация
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	api "github.com/glkeru/rewear/internal/api"
	db "github.com/glkeru/rewear/internal/db"
	interf "github.com/glkeru/rewear/internal/interfaces"
	services "github.com/glkeru/rewear/internal/services"
	tracer "github.com/glkeru/rewear/observability/otel"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

func main() {
	// log
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	// config
	port := os.Getenv("REWEAR_PORT")
	if port == "" {
		panic("env REWEAR_PORT is not set")
	}
	secret := os.Getenv("REWEAR_JWT_SECRET")
	if secret == "" {
		panic("env REWEAR_JWT_SECRET is not set")
	}

	// tracing
	shutdown := tracer.InitTracer(context.Background())
	defer shutdown()

	// database
	var storage interf.Storage
	dt, err := db.NewSwapDB(logger)
	if err != nil {
		logger.Error(err.Error())
		panic(err)
	}
	storage = dt

	// cache
	var redis interf.CacheStorage
	redis, err = db.NewCacheService()
	if err != nil {
		logger.Error(err.Error())
		redis = nil
	}

	// audit
	var audit interf.AuditStorage
	audit, err = db.NewAuditDB()
	if err != nil {
		logger.Error(err.Error())
		audit = nil
	}

	// services
	settlement := services.NewSettlementService(logger, storage, redis, audit)
	moderation := services.NewModerationService(logger, storage)

	// api handlers
	r := api.NewHandler(settlement, moderation, []byte(secret), logger)
	root := http.NewServeMux()
	root.Handle("/metrics", promhttp.Handler())
	root.Handle("/", otelhttp.NewHandler(r, "rewear"))

	srv := &http.Server{
		Handler:      root,
		Addr:         ":" + port,
		WriteTimeout: 10 * time.Second,
		ReadTimeout:  10 * time.Second,
	}
	go srv.ListenAndServe()

	// shutdown
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
	<-interrupt
	timeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err = srv.Shutdown(timeout)
	if err != nil {
		logger.Error("shutdown error", zap.Error(err))
	}
}
