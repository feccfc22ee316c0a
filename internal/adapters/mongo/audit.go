package mongo

import (
	"context"
	"time"

	"github.com/eventify/booking/internal/observability"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// AuditLogger keeps the trail behind payment verification: rejected
// signatures and amount mismatches are recorded for investigation, issued
// tickets for reconciliation.
type AuditLogger struct {
	coll   *mongo.Collection
	logger observability.Logger
}

func NewAuditLogger(db *mongo.Database, logger observability.Logger) *AuditLogger {
	return &AuditLogger{
		coll:   db.Collection("audit_logs"),
		logger: logger,
	}
}

type AuditLog struct {
	ID        uuid.UUID `bson:"_id"`
	Action    string    `bson:"action"`
	UserID    uuid.UUID `bson:"user_id"`
	Timestamp time.Time `bson:"timestamp"`
	Data      bson.M    `bson:"data"`
}

func (a *AuditLogger) LogEvent(ctx context.Context, action string, userID uuid.UUID, data map[string]interface{}) error {
	log := AuditLog{
		ID:        uuid.New(),
		Action:    action,
		UserID:    userID,
		Timestamp: time.Now().UTC(),
		Data:      bson.M(data),
	}
	_, err := a.coll.InsertOne(ctx, log)
	if err != nil {
		a.logger.Error("failed to insert audit log", err)
		return err
	}
	return nil
}

func (a *AuditLogger) LogSecurityEvent(ctx context.Context, action string, userID uuid.UUID, gatewayOrderID, gatewayPaymentID string) error {
	return a.LogEvent(ctx, action, userID, map[string]interface{}{
		"gateway_order_id":   gatewayOrderID,
		"gateway_payment_id": gatewayPaymentID,
	})
}
