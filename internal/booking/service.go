// Package booking is the payment-settlement core: it turns a tier
// selection into a gateway order, and a signed gateway callback into a
// durable, non-duplicated ticket.
package booking

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/eventify/booking/internal/auth"
	"github.com/eventify/booking/internal/domain"
	"github.com/eventify/booking/internal/observability"
	"github.com/google/uuid"
)

// Catalog reads events owned by the event CRUD collaborator.
type Catalog interface {
	ConcertEvent(ctx context.Context, id uuid.UUID) (*domain.ConcertEvent, error)
	PersonalEvent(ctx context.Context, id uuid.UUID) (*domain.PersonalEvent, error)
}

// Gateway is the external payment collaborator.
type Gateway interface {
	CreateOrder(ctx context.Context, amount int64, currency string) (domain.OrderHandle, error)
	PaymentAmount(ctx context.Context, paymentID string) (int64, error)
	VerifySignature(orderID, paymentID, signature string) bool
}

// Store is the durable side: tickets keyed by the unique gateway payment
// id, and the RSVP membership set.
type Store interface {
	IssueTicket(ctx context.Context, t domain.Ticket) error
	TicketByPaymentID(ctx context.Context, gatewayPaymentID string) (*domain.Ticket, error)
	TicketByID(ctx context.Context, id uuid.UUID) (*domain.Ticket, error)
	JoinEvent(ctx context.Context, eventID, userID uuid.UUID) (bool, error)
	CountAttendees(ctx context.Context, eventID uuid.UUID) (int, error)
}

// Auditor records security-relevant verification failures.
type Auditor interface {
	LogSecurityEvent(ctx context.Context, action string, userID uuid.UUID, gatewayOrderID, gatewayPaymentID string) error
}

type Service struct {
	catalog             Catalog
	gateway             Gateway
	store               Store
	audit               Auditor
	logger              observability.Logger
	currency            string
	verifyGatewayAmount bool
}

func NewService(catalog Catalog, gw Gateway, store Store, audit Auditor, logger observability.Logger, currency string, verifyGatewayAmount bool) *Service {
	return &Service{
		catalog:             catalog,
		gateway:             gw,
		store:               store,
		audit:               audit,
		logger:              logger,
		currency:            currency,
		verifyGatewayAmount: verifyGatewayAmount,
	}
}

// CreateOrder derives the charge amount from the stored pricing and asks
// the gateway for an order handle over exactly that amount. The handle is
// echoed verbatim; the client never supplies an amount. Nothing durable is
// written, so a failed or timed-out call is safe to retry.
func (s *Service) CreateOrder(ctx context.Context, caller auth.Identity, concertID uuid.UUID, tier domain.Tier) (domain.OrderHandle, error) {
	if caller.UserID == uuid.Nil {
		return domain.OrderHandle{}, domain.ErrUnauthenticated
	}

	ev, err := s.catalog.ConcertEvent(ctx, concertID)
	if err != nil {
		return domain.OrderHandle{}, err
	}
	amount, err := ev.Pricing.Amount(tier)
	if err != nil {
		return domain.OrderHandle{}, err
	}

	handle, err := s.gateway.CreateOrder(ctx, amount, s.currency)
	if err != nil {
		return domain.OrderHandle{}, err
	}

	observability.OrdersCreated.Inc()
	s.logger.WithField("concert_event_id", concertID).
		WithField("gateway_order_id", handle.GatewayOrderID).
		Info("gateway order created")
	return handle, nil
}

// VerifyPayment is the only path to ticket creation. Order of checks:
// signature, amount, then the payment-id idempotency guard. A replayed
// callback returns the existing ticket with created=false.
func (s *Service) VerifyPayment(ctx context.Context, caller auth.Identity, cb domain.PaymentCallback, intent domain.BookingIntent) (domain.Ticket, bool, error) {
	if caller.UserID == uuid.Nil {
		return domain.Ticket{}, false, domain.ErrUnauthenticated
	}

	if !s.gateway.VerifySignature(cb.GatewayOrderID, cb.GatewayPaymentID, cb.Signature) {
		observability.PaymentsVerified.WithLabelValues("signature_invalid").Inc()
		s.audit.LogSecurityEvent(ctx, "payment.signature_invalid", caller.UserID, cb.GatewayOrderID, cb.GatewayPaymentID)
		s.logger.WithField("gateway_order_id", cb.GatewayOrderID).Warn("payment callback signature rejected")
		return domain.Ticket{}, false, domain.ErrSignatureInvalid
	}

	ev, err := s.catalog.ConcertEvent(ctx, intent.ConcertEventID)
	if err != nil {
		return domain.Ticket{}, false, err
	}
	expected, err := ev.Pricing.Amount(intent.Tier)
	if err != nil {
		return domain.Ticket{}, false, err
	}
	if intent.Amount != expected {
		observability.PaymentsVerified.WithLabelValues("amount_mismatch").Inc()
		s.audit.LogSecurityEvent(ctx, "payment.amount_mismatch", caller.UserID, cb.GatewayOrderID, cb.GatewayPaymentID)
		s.logger.WithField("claimed", intent.Amount).WithField("expected", expected).
			Warn("payment amount rejected")
		return domain.Ticket{}, false, domain.ErrAmountMismatch
	}

	if s.verifyGatewayAmount {
		// Nothing is committed yet, so a gateway failure here leaves the
		// callback safe to replay.
		authorized, err := s.gateway.PaymentAmount(ctx, cb.GatewayPaymentID)
		if err != nil {
			return domain.Ticket{}, false, err
		}
		if authorized != expected {
			observability.PaymentsVerified.WithLabelValues("amount_mismatch").Inc()
			s.audit.LogSecurityEvent(ctx, "payment.amount_mismatch", caller.UserID, cb.GatewayOrderID, cb.GatewayPaymentID)
			return domain.Ticket{}, false, domain.ErrAmountMismatch
		}
	}

	if existing, err := s.store.TicketByPaymentID(ctx, cb.GatewayPaymentID); err == nil {
		observability.PaymentsVerified.WithLabelValues("duplicate").Inc()
		return *existing, false, nil
	} else if !errors.Is(err, domain.ErrNotFound) {
		return domain.Ticket{}, false, err
	}

	ticket := domain.NewTicket(*ev, intent, caller.UserID, cb.GatewayOrderID, cb.GatewayPaymentID, s.currency)
	err = s.store.IssueTicket(ctx, ticket)
	if errors.Is(err, domain.ErrDuplicatePayment) {
		// Lost the unique-index race to a concurrent verifier; the winner's
		// ticket is the outcome for everyone.
		winner, werr := s.store.TicketByPaymentID(ctx, cb.GatewayPaymentID)
		if werr != nil {
			return domain.Ticket{}, false, werr
		}
		observability.PaymentsVerified.WithLabelValues("duplicate").Inc()
		return *winner, false, nil
	}
	if err != nil {
		return domain.Ticket{}, false, err
	}

	observability.PaymentsVerified.WithLabelValues("issued").Inc()
	s.logger.WithField("ticket_id", ticket.ID).
		WithField("gateway_payment_id", ticket.GatewayPaymentID).
		Info("ticket issued")
	return ticket, true, nil
}

// Ticket returns a committed ticket to its purchaser.
func (s *Service) Ticket(ctx context.Context, caller auth.Identity, id uuid.UUID) (domain.Ticket, error) {
	if caller.UserID == uuid.Nil {
		return domain.Ticket{}, domain.ErrUnauthenticated
	}
	t, err := s.store.TicketByID(ctx, id)
	if err != nil {
		return domain.Ticket{}, err
	}
	if t.PurchaserID != caller.UserID {
		return domain.Ticket{}, domain.ErrForbidden
	}
	return *t, nil
}

// Receipt regenerates the proof of purchase from the committed record.
func (s *Service) Receipt(ctx context.Context, caller auth.Identity, id uuid.UUID) (string, error) {
	t, err := s.Ticket(ctx, caller, id)
	if err != nil {
		return "", err
	}
	return domain.FormatReceipt(t), nil
}
