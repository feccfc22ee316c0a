package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

func sampleTicket() Ticket {
	return Ticket{
		ID:               uuid.New(),
		ConcertEventID:   uuid.New(),
		EventName:        "Rock Concert 2026",
		Tier:             TierGold,
		Amount:           50000,
		Currency:         "INR",
		PurchaserID:      uuid.New(),
		HolderName:       "Asha Rao",
		HolderAddress:    "12 MG Road, Bengaluru",
		GatewayOrderID:   "order_abc",
		GatewayPaymentID: "pay_xyz",
		IssuedAt:         time.Date(2026, 3, 14, 18, 30, 0, 0, time.UTC),
	}
}

func TestFormatReceipt(t *testing.T) {
	got := FormatReceipt(sampleTicket())

	for _, want := range []string{
		"EVENTIFY RECEIPT",
		"Event: Rock Concert 2026",
		"Date: 14 Mar 2026",
		"Customer: Asha Rao",
		"Ticket: GOLD",
		"Amount Paid: ₹500.00",
		"Payment Ref: pay_xyz",
		"Please show this receipt at the venue.",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("receipt missing %q:\n%s", want, got)
		}
	}
}

func TestFormatReceiptDeterministic(t *testing.T) {
	ticket := sampleTicket()
	if FormatReceipt(ticket) != FormatReceipt(ticket) {
		t.Error("expected identical receipts for the same ticket")
	}
}

func TestFormatReceiptDefaults(t *testing.T) {
	ticket := sampleTicket()
	ticket.HolderName = ""
	ticket.EventName = ""

	got := FormatReceipt(ticket)
	if !strings.Contains(got, "Customer: Guest") {
		t.Errorf("expected Guest default, got:\n%s", got)
	}
	if !strings.Contains(got, ticket.ConcertEventID.String()) {
		t.Errorf("expected event id fallback, got:\n%s", got)
	}
}

func TestFormatAmount(t *testing.T) {
	if got := FormatAmount(50000, "INR"); got != "₹500.00" {
		t.Errorf("got %q", got)
	}
	if got := FormatAmount(99, "INR"); got != "₹0.99" {
		t.Errorf("got %q", got)
	}
	if got := FormatAmount(150, "USD"); got != "USD 1.50" {
		t.Errorf("got %q", got)
	}
}
