package crdb

import (
	"context"
	"encoding/json"

	"github.com/eventify/booking/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// IssueTicket commits the ticket and its ticket.issued outbox record in one
// serializable transaction. The payment id doubles as the outbox dedupe key.
func (r *Repository) IssueTicket(ctx context.Context, t domain.Ticket) error {
	return r.WithTx(ctx, func(tx pgx.Tx) error {
		if err := r.InsertTicket(ctx, tx, t); err != nil {
			return err
		}
		payload, err := json.Marshal(map[string]interface{}{
			"ticket_id":          t.ID,
			"concert_event_id":   t.ConcertEventID,
			"tier":               t.Tier,
			"amount":             t.Amount,
			"currency":           t.Currency,
			"purchaser_id":       t.PurchaserID,
			"gateway_payment_id": t.GatewayPaymentID,
		})
		if err != nil {
			return err
		}
		return r.InsertOutbox(ctx, tx, OutboxRecord{
			ID:            uuid.New(),
			AggregateType: "ticket",
			AggregateID:   t.ID,
			EventType:     "ticket.issued",
			Payload:       payload,
			DedupeKey:     t.GatewayPaymentID,
		})
	})
}

// JoinEvent records RSVP membership and, on first join only, an outbox
// record. Replays commit nothing and report joined=false.
func (r *Repository) JoinEvent(ctx context.Context, eventID, userID uuid.UUID) (bool, error) {
	var joined bool
	err := r.WithTx(ctx, func(tx pgx.Tx) error {
		inserted, err := r.JoinAttendees(ctx, tx, eventID, userID)
		if err != nil {
			return err
		}
		joined = inserted
		if !inserted {
			return nil
		}
		payload, err := json.Marshal(map[string]interface{}{
			"event_id": eventID,
			"user_id":  userID,
		})
		if err != nil {
			return err
		}
		return r.InsertOutbox(ctx, tx, OutboxRecord{
			ID:            uuid.New(),
			AggregateType: "personal_event",
			AggregateID:   eventID,
			EventType:     "rsvp.joined",
			Payload:       payload,
			DedupeKey:     eventID.String() + ":" + userID.String(),
		})
	})
	if err != nil {
		return false, err
	}
	return joined, nil
}
