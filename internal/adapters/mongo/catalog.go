// Package mongo reads the event catalog owned by the event CRUD
// collaborator. The booking core never writes event metadata or pricing.
package mongo

import (
	"context"

	"github.com/eventify/booking/internal/domain"
	"github.com/eventify/booking/internal/observability"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type CatalogRepository struct {
	concerts *mongo.Collection
	personal *mongo.Collection
	logger   observability.Logger
}

func NewCatalogRepository(db *mongo.Database, logger observability.Logger) *CatalogRepository {
	return &CatalogRepository{
		concerts: db.Collection("concert_events"),
		personal: db.Collection("personal_events"),
		logger:   logger,
	}
}

type pricingDoc struct {
	Gold     int64 `bson:"gold"`
	Platinum int64 `bson:"platinum"`
	Diamond  int64 `bson:"diamond"`
}

type concertEventDoc struct {
	ID          uuid.UUID  `bson:"_id"`
	Name        string     `bson:"name"`
	Location    string     `bson:"location"`
	Description string     `bson:"description"`
	OwnerID     uuid.UUID  `bson:"owner_id"`
	Pricing     pricingDoc `bson:"pricing"`
}

type personalEventDoc struct {
	ID          uuid.UUID `bson:"_id"`
	Name        string    `bson:"name"`
	Location    string    `bson:"location"`
	Time        string    `bson:"time"`
	Description string    `bson:"description"`
	OwnerID     uuid.UUID `bson:"owner_id"`
}

func (c *CatalogRepository) ConcertEvent(ctx context.Context, id uuid.UUID) (*domain.ConcertEvent, error) {
	var doc concertEventDoc
	err := c.concerts.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		c.logger.Error("failed to get concert event", err)
		return nil, err
	}
	return &domain.ConcertEvent{
		ID:          doc.ID,
		Name:        doc.Name,
		Location:    doc.Location,
		Description: doc.Description,
		OwnerID:     doc.OwnerID,
		Pricing: domain.Pricing{
			Gold:     doc.Pricing.Gold,
			Platinum: doc.Pricing.Platinum,
			Diamond:  doc.Pricing.Diamond,
		},
	}, nil
}

func (c *CatalogRepository) PersonalEvent(ctx context.Context, id uuid.UUID) (*domain.PersonalEvent, error) {
	var doc personalEventDoc
	err := c.personal.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		c.logger.Error("failed to get personal event", err)
		return nil, err
	}
	return &domain.PersonalEvent{
		ID:          doc.ID,
		Name:        doc.Name,
		Location:    doc.Location,
		Time:        doc.Time,
		Description: doc.Description,
		OwnerID:     doc.OwnerID,
	}, nil
}

// SeedConcertEvent inserts a catalog document. Only tests and fixtures use
// this; production writes belong to the event CRUD service.
func (c *CatalogRepository) SeedConcertEvent(ctx context.Context, ev domain.ConcertEvent) error {
	doc := concertEventDoc{
		ID:          ev.ID,
		Name:        ev.Name,
		Location:    ev.Location,
		Description: ev.Description,
		OwnerID:     ev.OwnerID,
		Pricing: pricingDoc{
			Gold:     ev.Pricing.Gold,
			Platinum: ev.Pricing.Platinum,
			Diamond:  ev.Pricing.Diamond,
		},
	}
	_, err := c.concerts.InsertOne(ctx, doc)
	return err
}

func (c *CatalogRepository) SeedPersonalEvent(ctx context.Context, ev domain.PersonalEvent) error {
	doc := personalEventDoc{
		ID:          ev.ID,
		Name:        ev.Name,
		Location:    ev.Location,
		Time:        ev.Time,
		Description: ev.Description,
		OwnerID:     ev.OwnerID,
	}
	_, err := c.personal.InsertOne(ctx, doc)
	return err
}
