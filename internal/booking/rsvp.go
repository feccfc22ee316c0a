package booking

import (
	"context"

	"github.com/eventify/booking/internal/auth"
	"github.com/eventify/booking/internal/domain"
	"github.com/eventify/booking/internal/observability"
	"github.com/google/uuid"
)

// JoinResult reports the ledger state after a join.
type JoinResult struct {
	EventID   uuid.UUID
	Joined    bool // false on an idempotent replay
	Attendees int
}

// Join adds the caller to a personal event's attendee set. Joining is
// one-way and idempotent: a repeat join is a no-op that returns the
// unchanged count, and concurrent joins for the same pair converge to a
// single membership row.
func (s *Service) Join(ctx context.Context, caller auth.Identity, eventID uuid.UUID) (JoinResult, error) {
	if caller.UserID == uuid.Nil {
		return JoinResult{}, domain.ErrUnauthenticated
	}

	if _, err := s.catalog.PersonalEvent(ctx, eventID); err != nil {
		return JoinResult{}, err
	}

	joined, err := s.store.JoinEvent(ctx, eventID, caller.UserID)
	if err != nil {
		return JoinResult{}, err
	}
	count, err := s.store.CountAttendees(ctx, eventID)
	if err != nil {
		return JoinResult{}, err
	}

	observability.RSVPJoins.Inc()
	if joined {
		s.logger.WithField("event_id", eventID).WithField("user_id", caller.UserID).Info("rsvp joined")
	}
	return JoinResult{EventID: eventID, Joined: joined, Attendees: count}, nil
}
