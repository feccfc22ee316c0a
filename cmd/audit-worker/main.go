package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	mongoadapter "github.com/eventify/booking/internal/adapters/mongo"
	"github.com/eventify/booking/internal/adapters/rabbit"
	"github.com/eventify/booking/internal/config"
	"github.com/eventify/booking/internal/observability"
	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const auditQueue = "booking.audit.q"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	shutdownOtel, err := observability.SetupOTel(context.Background(), cfg)
	if err != nil {
		log.Fatalf("failed to setup otel: %v", err)
	}
	defer shutdownOtel()

	logger := observability.NewLogger()

	mongoClient, err := mongo.Connect(context.Background(), options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatalf("failed to connect to mongo: %v", err)
	}
	defer mongoClient.Disconnect(context.Background())
	audit := mongoadapter.NewAuditLogger(mongoClient.Database("eventify"), logger)

	conn, err := amqp.Dial(cfg.RabbitURL)
	if err != nil {
		log.Fatalf("failed to connect to rabbitmq: %v", err)
	}
	defer conn.Close()
	consumer, err := rabbit.NewConsumer(conn, auditQueue, "#")
	if err != nil {
		log.Fatalf("failed to create consumer: %v", err)
	}

	worker := NewAuditWorker(consumer, audit, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		if err := worker.Run(ctx); err != nil {
			logger.Error("audit worker stopped", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	logger.Info("Shutdown audit worker")
}

// AuditWorker copies every booking event into the mongo audit trail so
// reconciliation has a record independent of the tickets table.
type AuditWorker struct {
	consumer *rabbit.Consumer
	audit    *mongoadapter.AuditLogger
	logger   observability.Logger
}

func NewAuditWorker(consumer *rabbit.Consumer, audit *mongoadapter.AuditLogger, logger observability.Logger) *AuditWorker {
	return &AuditWorker{consumer: consumer, audit: audit, logger: logger}
}

func (w *AuditWorker) Run(ctx context.Context) error {
	deliveries, err := w.consumer.Consume()
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-deliveries:
			if !ok {
				return fmt.Errorf("delivery channel closed")
			}
			if err := w.processWithRetry(ctx, d); err != nil {
				w.logger.Error("failed to record audit event after retries", err)
				d.Nack(false, true)
				continue
			}
			d.Ack(false)
		}
	}
}

func (w *AuditWorker) processWithRetry(ctx context.Context, d amqp.Delivery) error {
	var data map[string]interface{}
	if err := json.Unmarshal(d.Body, &data); err != nil {
		// Malformed payloads are recorded raw rather than retried forever.
		data = map[string]interface{}{"raw": string(d.Body)}
	}

	userID := uuid.Nil
	if s, ok := data["user_id"].(string); ok {
		if parsed, err := uuid.Parse(s); err == nil {
			userID = parsed
		}
	} else if s, ok := data["purchaser_id"].(string); ok {
		if parsed, err := uuid.Parse(s); err == nil {
			userID = parsed
		}
	}

	maxRetries := 3
	var lastErr error
	for i := 0; i < maxRetries; i++ {
		if lastErr = w.audit.LogEvent(ctx, d.RoutingKey, userID, data); lastErr == nil {
			return nil
		}
		backoff := time.Duration(1<<i) * time.Second
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
	}
	return fmt.Errorf("failed after %d retries: %w", maxRetries, lastErr)
}
