package domain

import (
	"time"

	"github.com/google/uuid"
)

// Tier is one of the fixed ticket categories of a concert event.
type Tier string

const (
	TierGold     Tier = "gold"
	TierPlatinum Tier = "platinum"
	TierDiamond  Tier = "diamond"
)

// ParseTier validates a client-supplied tier name.
func ParseTier(s string) (Tier, error) {
	switch Tier(s) {
	case TierGold, TierPlatinum, TierDiamond:
		return Tier(s), nil
	}
	return "", ErrInvalidTier
}

// Pricing holds the per-tier price of a concert event in minor currency
// units (paise).
type Pricing struct {
	Gold     int64
	Platinum int64
	Diamond  int64
}

type ConcertEvent struct {
	ID          uuid.UUID
	Name        string
	Location    string
	Description string
	OwnerID     uuid.UUID
	Pricing     Pricing
}

type PersonalEvent struct {
	ID          uuid.UUID
	Name        string
	Location    string
	Time        string
	Description string
	OwnerID     uuid.UUID
}

// OrderHandle is the gateway's short-lived intent to charge a specific
// amount. It is never persisted; losing it before payment is harmless.
type OrderHandle struct {
	GatewayOrderID string
	Amount         int64
	Currency       string
	CreatedAt      time.Time
}

// Contact is the purchaser-supplied detail printed on the receipt.
type Contact struct {
	Name    string
	Address string
}

// BookingIntent is the client's claim about what it paid for. Every field
// is re-validated against the catalog and the gateway before a ticket is
// committed.
type BookingIntent struct {
	ConcertEventID uuid.UUID
	Tier           Tier
	Amount         int64
	Contact        Contact
}

// PaymentCallback is the signed confirmation produced by the gateway's
// checkout, delivered out of the server's control flow.
type PaymentCallback struct {
	GatewayOrderID   string
	GatewayPaymentID string
	Signature        string
}

// Ticket is the durable proof that a payment was verified. GatewayPaymentID
// is unique across all tickets; pricing is snapshotted at issuance.
type Ticket struct {
	ID               uuid.UUID
	ConcertEventID   uuid.UUID
	EventName        string
	Tier             Tier
	Amount           int64
	Currency         string
	PurchaserID      uuid.UUID
	HolderName       string
	HolderAddress    string
	GatewayOrderID   string
	GatewayPaymentID string
	IssuedAt         time.Time
}

func NewTicket(event ConcertEvent, intent BookingIntent, purchaserID uuid.UUID, gatewayOrderID, gatewayPaymentID, currency string) Ticket {
	return Ticket{
		ID:               uuid.New(),
		ConcertEventID:   event.ID,
		EventName:        event.Name,
		Tier:             intent.Tier,
		Amount:           intent.Amount,
		Currency:         currency,
		PurchaserID:      purchaserID,
		HolderName:       intent.Contact.Name,
		HolderAddress:    intent.Contact.Address,
		GatewayOrderID:   gatewayOrderID,
		GatewayPaymentID: gatewayPaymentID,
		IssuedAt:         time.Now().UTC(),
	}
}
