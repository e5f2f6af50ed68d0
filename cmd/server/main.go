package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"github.com/shopfront-demo/shopfront/internal/config"
	"github.com/shopfront-demo/shopfront/internal/es"
	"github.com/shopfront-demo/shopfront/internal/handlers"
	"github.com/shopfront-demo/shopfront/internal/logging"
	authmw "github.com/shopfront-demo/shopfront/internal/middleware/auth"
	"github.com/shopfront-demo/shopfront/internal/mykafka"
	"github.com/shopfront-demo/shopfront/internal/service/token"
	"github.com/shopfront-demo/shopfront/internal/store"
	httpserver "github.com/shopfront-demo/shopfront/internal/transport/http"
)

func main() {
	configuration, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(configuration.LOG_LEVEL)
	slog.SetDefault(logger)

	db, err := config.InitDB(configuration)
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}

	st := store.New(db)
	if err := st.Seed(context.Background()); err != nil {
		log.Fatalf("seed error: %v", err)
	}

	prod := mykafka.NewProducer([]string{configuration.KAFKA_ADDRESS})

	ttl := token.DefaultTTL
	if configuration.TOKEN_TTL != "" {
		if parsed, err := time.ParseDuration(configuration.TOKEN_TTL); err == nil {
			ttl = parsed
		} else {
			logger.Warn("invalid TOKEN_TTL, using default", "value", configuration.TOKEN_TTL)
		}
	}
	tokens := &token.TokenService{Secret: []byte(configuration.JWT_SECRET), TTL: ttl}

	var searchHandler *handlers.SearchHandler
	if configuration.ES_URL != "" {
		esClient, err := es.NewClient(configuration)
		if err != nil {
			log.Fatalf("elasticsearch error: %v", err)
		}
		searchHandler = &handlers.SearchHandler{ES: esClient, Index: "products"}
	}

	e := echo.New()
	e.HideBanner = true
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID())
	e.Use(logging.RequestLogger(logger))
	e.Use(middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(rateLimit(configuration.RATE_LIMIT))))
	e.HTTPErrorHandler = httpserver.ErrorHandler(logger)

	deps := httpserver.Deps{
		AuthHandler:    &handlers.AuthHandler{Store: st, Tokens: tokens, Producer: prod},
		ProductHandler: &handlers.ProductHandler{Store: st, Producer: prod},
		CartHandler:    &handlers.CartHandler{Store: st, Producer: prod},
		SearchHandler:  searchHandler,
		Gate:           &authmw.Gate{Tokens: tokens},
	}
	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         ":" + configuration.PORT,
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("http server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("db close error: %v", err)
		}
	}

	if err := prod.Close(); err != nil {
		log.Printf("kafka close error: %v", err)
	}

	logger.Info("shutdown complete")
}

// rateLimit is the only admission control: excess requests are rejected
// outright, never queued.
func rateLimit(raw string) rate.Limit {
	if raw == "" {
		return rate.Limit(50)
	}
	if v, err := strconv.Atoi(raw); err == nil && v > 0 {
		return rate.Limit(v)
	}
	return rate.Limit(50)
}
