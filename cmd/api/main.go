package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/eventify/booking/internal/adapters/crdb"
	mongoadapter "github.com/eventify/booking/internal/adapters/mongo"
	redisadapter "github.com/eventify/booking/internal/adapters/redis"
	"github.com/eventify/booking/internal/auth"
	"github.com/eventify/booking/internal/booking"
	"github.com/eventify/booking/internal/config"
	"github.com/eventify/booking/internal/gateway"
	httphandler "github.com/eventify/booking/internal/http"
	"github.com/eventify/booking/internal/observability"
	"github.com/eventify/booking/internal/rateLimit"
	"github.com/jackc/pgx/v5/pgxpool"
	redisclient "github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	shutdown, err := observability.SetupOTel(context.Background(), cfg)
	if err != nil {
		log.Fatalf("failed to setup otel: %v", err)
	}
	defer shutdown()

	logger := observability.NewLogger()

	pool, err := pgxpool.New(context.Background(), cfg.CRDBDSN)
	if err != nil {
		log.Fatalf("failed to connect to crdb: %v", err)
	}
	defer pool.Close()
	repo := crdb.NewRepository(pool)

	mongoClient, err := mongo.Connect(context.Background(), options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatalf("failed to connect to mongo: %v", err)
	}
	defer mongoClient.Disconnect(context.Background())
	mongoDB := mongoClient.Database("eventify")
	catalog := mongoadapter.NewCatalogRepository(mongoDB, logger)
	audit := mongoadapter.NewAuditLogger(mongoDB, logger)

	redisClient := redisclient.NewClient(&redisclient.Options{Addr: cfg.RedisAddr})
	cache := redisadapter.NewCache(redisClient)
	cachedCatalog := redisadapter.NewCachedCatalog(catalog, cache, 30*time.Second)
	rl := rateLimit.NewRateLimiter(cache)

	verifier := auth.NewClient(cfg.AuthURL, redisClient, cfg.GatewayTimeout, logger)
	gw := gateway.NewClient(cfg.RazorpayAPIURL, cfg.RazorpayKeyID, cfg.RazorpayKeySecret, cfg.GatewayTimeout, logger)

	svc := booking.NewService(cachedCatalog, gw, repo, audit, logger, cfg.Currency, cfg.VerifyGatewayAmount)
	handlers := httphandler.NewHandlers(svc, logger)

	r := httphandler.SetupRouter(handlers, logger, rl, verifier)

	srv := &http.Server{
		Addr:    ":8080",
		Handler: r,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutdown Server ...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}
	logger.Info("Server exiting")
}
