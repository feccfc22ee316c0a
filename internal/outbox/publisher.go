// Package outbox drains the transactional outbox into the rabbit topic
// exchange. Rows are written in the same transaction as the state they
// describe, so nothing is announced that was not committed.
package outbox

import (
	"context"
	"time"

	"github.com/eventify/booking/internal/adapters/crdb"
	"github.com/eventify/booking/internal/adapters/rabbit"
	"github.com/eventify/booking/internal/observability"
	amqp "github.com/rabbitmq/amqp091-go"
)

type Publisher struct {
	repo      *crdb.Repository
	rabbitPub *rabbit.Publisher
	logger    observability.Logger
	interval  time.Duration
	batchSize int
}

func NewPublisher(repo *crdb.Repository, rabbitPub *rabbit.Publisher, logger observability.Logger) *Publisher {
	return &Publisher{
		repo:      repo,
		rabbitPub: rabbitPub,
		logger:    logger,
		interval:  5 * time.Second,
		batchSize: 50,
	}
}

func (p *Publisher) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.drain(ctx)
		}
	}
}

func (p *Publisher) drain(ctx context.Context) {
	records, err := p.repo.GetUnpublishedOutbox(ctx, p.batchSize)
	if err != nil {
		p.logger.Error("failed to read outbox", err)
		return
	}

	for _, rec := range records {
		observability.OutboxLag.Set(time.Since(rec.CreatedAt).Seconds())

		msg := amqp.Publishing{
			MessageId:   rec.DedupeKey,
			ContentType: "application/json",
			Body:        rec.Payload,
		}
		if err := p.rabbitPub.Publish(ctx, rec.EventType, msg); err != nil {
			observability.RabbitPublishRetries.Inc()
			p.logger.WithField("outbox_id", rec.ID).Error("failed to publish outbox record", err)
			continue
		}
		if err := p.repo.MarkPublished(ctx, rec.ID, time.Now().UTC(), rec.DedupeKey); err != nil {
			p.logger.WithField("outbox_id", rec.ID).Error("failed to mark outbox record published", err)
		}
	}
}
