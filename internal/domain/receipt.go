package domain

import (
	"fmt"
	"strings"
)

// FormatReceipt renders the plain-text proof of purchase for a committed
// ticket. It is deterministic for a given ticket and can be regenerated at
// any time after issuance.
func FormatReceipt(t Ticket) string {
	name := t.HolderName
	if name == "" {
		name = "Guest"
	}
	event := t.EventName
	if event == "" {
		event = t.ConcertEventID.String()
	}

	var b strings.Builder
	b.WriteString("EVENTIFY RECEIPT\n")
	b.WriteString("----------------\n")
	fmt.Fprintf(&b, "Event: %s\n", event)
	fmt.Fprintf(&b, "Date: %s\n", t.IssuedAt.UTC().Format("02 Jan 2006"))
	fmt.Fprintf(&b, "Customer: %s\n", name)
	fmt.Fprintf(&b, "Ticket: %s\n", strings.ToUpper(string(t.Tier)))
	fmt.Fprintf(&b, "Amount Paid: %s\n", FormatAmount(t.Amount, t.Currency))
	fmt.Fprintf(&b, "Payment Ref: %s\n", t.GatewayPaymentID)
	b.WriteString("----------------\n")
	b.WriteString("Thank you for booking with Eventify!\n")
	b.WriteString("Please show this receipt at the venue.\n")
	return b.String()
}

// FormatAmount renders a minor-unit amount in its major unit, e.g. 50000
// paise as "₹500.00".
func FormatAmount(minor int64, currency string) string {
	symbol := currency + " "
	if currency == "INR" {
		symbol = "₹"
	}
	return fmt.Sprintf("%s%d.%02d", symbol, minor/100, minor%100)
}
