package booking_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/eventify/booking/internal/auth"
	"github.com/eventify/booking/internal/booking"
	"github.com/eventify/booking/internal/domain"
	"github.com/eventify/booking/internal/gateway"
	"github.com/eventify/booking/internal/observability"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const testSecret = "test_secret"

type fakeCatalog struct {
	concerts map[uuid.UUID]domain.ConcertEvent
	personal map[uuid.UUID]domain.PersonalEvent
}

func (f *fakeCatalog) ConcertEvent(_ context.Context, id uuid.UUID) (*domain.ConcertEvent, error) {
	ev, ok := f.concerts[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &ev, nil
}

func (f *fakeCatalog) PersonalEvent(_ context.Context, id uuid.UUID) (*domain.PersonalEvent, error) {
	ev, ok := f.personal[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &ev, nil
}

type fakeGateway struct {
	mu         sync.Mutex
	orders     int
	down       bool
	authorized map[string]int64
}

func (f *fakeGateway) CreateOrder(_ context.Context, amount int64, currency string) (domain.OrderHandle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.down {
		return domain.OrderHandle{}, domain.ErrGatewayUnavailable
	}
	f.orders++
	return domain.OrderHandle{
		GatewayOrderID: fmt.Sprintf("order_%d", f.orders),
		Amount:         amount,
		Currency:       currency,
	}, nil
}

func (f *fakeGateway) PaymentAmount(_ context.Context, paymentID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.down {
		return 0, domain.ErrGatewayUnavailable
	}
	amount, ok := f.authorized[paymentID]
	if !ok {
		return 0, domain.ErrGatewayUnavailable
	}
	return amount, nil
}

func (f *fakeGateway) VerifySignature(orderID, paymentID, signature string) bool {
	return gateway.VerifySignature(testSecret, orderID, paymentID, signature)
}

// fakeStore mirrors the crdb repository's atomicity: the payment-id map is
// the unique index, the attendee map the unique pair.
type fakeStore struct {
	mu        sync.Mutex
	byPayment map[string]domain.Ticket
	byID      map[uuid.UUID]domain.Ticket
	attendees map[uuid.UUID]map[uuid.UUID]bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		byPayment: map[string]domain.Ticket{},
		byID:      map[uuid.UUID]domain.Ticket{},
		attendees: map[uuid.UUID]map[uuid.UUID]bool{},
	}
}

func (f *fakeStore) IssueTicket(_ context.Context, t domain.Ticket) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byPayment[t.GatewayPaymentID]; ok {
		return domain.ErrDuplicatePayment
	}
	f.byPayment[t.GatewayPaymentID] = t
	f.byID[t.ID] = t
	return nil
}

func (f *fakeStore) TicketByPaymentID(_ context.Context, paymentID string) (*domain.Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.byPayment[paymentID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &t, nil
}

func (f *fakeStore) TicketByID(_ context.Context, id uuid.UUID) (*domain.Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &t, nil
}

func (f *fakeStore) JoinEvent(_ context.Context, eventID, userID uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	members, ok := f.attendees[eventID]
	if !ok {
		members = map[uuid.UUID]bool{}
		f.attendees[eventID] = members
	}
	if members[userID] {
		return false, nil
	}
	members[userID] = true
	return true, nil
}

func (f *fakeStore) CountAttendees(_ context.Context, eventID uuid.UUID) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.attendees[eventID]), nil
}

type fakeAudit struct {
	mu      sync.Mutex
	actions []string
}

func (f *fakeAudit) LogSecurityEvent(_ context.Context, action string, _ uuid.UUID, _, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.actions = append(f.actions, action)
	return nil
}

type fixture struct {
	svc     *booking.Service
	catalog *fakeCatalog
	gw      *fakeGateway
	store   *fakeStore
	audit   *fakeAudit
	concert domain.ConcertEvent
	caller  auth.Identity
}

func newFixture(t *testing.T, verifyGatewayAmount bool) *fixture {
	t.Helper()
	concert := domain.ConcertEvent{
		ID:       uuid.New(),
		Name:     "Rock Concert 2026",
		Location: "Madison Square Garden",
		OwnerID:  uuid.New(),
		Pricing:  domain.Pricing{Gold: 500, Platinum: 1000, Diamond: 2000},
	}
	catalog := &fakeCatalog{
		concerts: map[uuid.UUID]domain.ConcertEvent{concert.ID: concert},
		personal: map[uuid.UUID]domain.PersonalEvent{},
	}
	gw := &fakeGateway{authorized: map[string]int64{}}
	store := newFakeStore()
	audit := &fakeAudit{}
	svc := booking.NewService(catalog, gw, store, audit, observability.NewLogger(), "INR", verifyGatewayAmount)
	return &fixture{
		svc:     svc,
		catalog: catalog,
		gw:      gw,
		store:   store,
		audit:   audit,
		concert: concert,
		caller:  auth.Identity{UserID: uuid.New(), Name: "Asha", Email: "asha@example.com"},
	}
}

func (f *fixture) callback(orderID, paymentID string) domain.PaymentCallback {
	return domain.PaymentCallback{
		GatewayOrderID:   orderID,
		GatewayPaymentID: paymentID,
		Signature:        gateway.Sign(testSecret, orderID, paymentID),
	}
}

func (f *fixture) intent(amount int64) domain.BookingIntent {
	return domain.BookingIntent{
		ConcertEventID: f.concert.ID,
		Tier:           domain.TierGold,
		Amount:         amount,
		Contact:        domain.Contact{Name: "Asha Rao", Address: "12 MG Road"},
	}
}

func TestCreateOrderEchoesGatewayAmount(t *testing.T) {
	f := newFixture(t, false)

	handle, err := f.svc.CreateOrder(context.Background(), f.caller, f.concert.ID, domain.TierGold)
	if err != nil {
		t.Fatal(err)
	}
	if handle.Amount != 500 || handle.Currency != "INR" {
		t.Errorf("expected 500 INR, got %d %s", handle.Amount, handle.Currency)
	}
	if handle.GatewayOrderID == "" {
		t.Error("expected a gateway order id")
	}
}

func TestCreateOrderErrors(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()

	if _, err := f.svc.CreateOrder(ctx, f.caller, uuid.New(), domain.TierGold); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := f.svc.CreateOrder(ctx, auth.Identity{}, f.concert.ID, domain.TierGold); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Errorf("expected ErrUnauthenticated, got %v", err)
	}

	f.gw.down = true
	if _, err := f.svc.CreateOrder(ctx, f.caller, f.concert.ID, domain.TierGold); !errors.Is(err, domain.ErrGatewayUnavailable) {
		t.Errorf("expected ErrGatewayUnavailable, got %v", err)
	}
}

func TestCreateOrderInvalidPricing(t *testing.T) {
	f := newFixture(t, false)
	broken := domain.ConcertEvent{ID: uuid.New(), Name: "Broken", Pricing: domain.Pricing{Gold: 0, Platinum: 1, Diamond: 1}}
	f.catalog.concerts[broken.ID] = broken

	if _, err := f.svc.CreateOrder(context.Background(), f.caller, broken.ID, domain.TierGold); !errors.Is(err, domain.ErrInvalidPricing) {
		t.Errorf("expected ErrInvalidPricing, got %v", err)
	}
}

func TestVerifyPaymentIssuesOnce(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	cb := f.callback("order_1", "pay_1")

	ticket, created, err := f.svc.VerifyPayment(ctx, f.caller, cb, f.intent(500))
	if err != nil {
		t.Fatal(err)
	}
	if !created {
		t.Error("expected first verification to create the ticket")
	}
	if ticket.Tier != domain.TierGold || ticket.Amount != 500 {
		t.Errorf("unexpected ticket %+v", ticket)
	}
	if ticket.PurchaserID != f.caller.UserID {
		t.Error("ticket not attributed to the caller")
	}

	// Identical replay resolves to the same ticket, no second record.
	replay, created, err := f.svc.VerifyPayment(ctx, f.caller, cb, f.intent(500))
	if err != nil {
		t.Fatal(err)
	}
	if created {
		t.Error("expected replay to return the existing ticket")
	}
	if replay.ID != ticket.ID {
		t.Errorf("replay returned a different ticket: %s vs %s", replay.ID, ticket.ID)
	}
	if len(f.store.byPayment) != 1 {
		t.Errorf("expected exactly one ticket, got %d", len(f.store.byPayment))
	}
}

func TestVerifyPaymentRejectsTamperedSignature(t *testing.T) {
	f := newFixture(t, false)
	cb := f.callback("order_1", "pay_1")
	cb.Signature = gateway.Sign("wrong_secret", "order_1", "pay_1")

	_, _, err := f.svc.VerifyPayment(context.Background(), f.caller, cb, f.intent(500))
	if !errors.Is(err, domain.ErrSignatureInvalid) {
		t.Fatalf("expected ErrSignatureInvalid, got %v", err)
	}
	if len(f.store.byPayment) != 0 {
		t.Error("expected no ticket after signature rejection")
	}
	if len(f.audit.actions) != 1 || f.audit.actions[0] != "payment.signature_invalid" {
		t.Errorf("expected a signature audit entry, got %v", f.audit.actions)
	}
}

func TestVerifyPaymentRejectsAmountMismatch(t *testing.T) {
	f := newFixture(t, false)

	_, _, err := f.svc.VerifyPayment(context.Background(), f.caller, f.callback("order_1", "pay_1"), f.intent(600))
	if !errors.Is(err, domain.ErrAmountMismatch) {
		t.Fatalf("expected ErrAmountMismatch, got %v", err)
	}
	if len(f.store.byPayment) != 0 {
		t.Error("expected no ticket after amount rejection")
	}
}

func TestVerifyPaymentChecksGatewayAuthorizedAmount(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	// Gateway authorized a different amount than the catalog price.
	f.gw.authorized["pay_1"] = 600
	_, _, err := f.svc.VerifyPayment(ctx, f.caller, f.callback("order_1", "pay_1"), f.intent(500))
	if !errors.Is(err, domain.ErrAmountMismatch) {
		t.Fatalf("expected ErrAmountMismatch, got %v", err)
	}

	f.gw.authorized["pay_2"] = 500
	_, created, err := f.svc.VerifyPayment(ctx, f.caller, f.callback("order_2", "pay_2"), f.intent(500))
	if err != nil || !created {
		t.Fatalf("expected issue with matching authorized amount, got created=%v err=%v", created, err)
	}

	// Fetch failure before commit keeps the callback replayable.
	f.gw.down = true
	_, _, err = f.svc.VerifyPayment(ctx, f.caller, f.callback("order_3", "pay_3"), f.intent(500))
	if !errors.Is(err, domain.ErrGatewayUnavailable) {
		t.Fatalf("expected ErrGatewayUnavailable, got %v", err)
	}
}

func TestVerifyPaymentConcurrentCallbacks(t *testing.T) {
	f := newFixture(t, false)
	cb := f.callback("order_1", "pay_1")

	const n = 16
	ids := make([]uuid.UUID, n)
	var g errgroup.Group
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			ticket, _, err := f.svc.VerifyPayment(context.Background(), f.caller, cb, f.intent(500))
			if err != nil {
				return err
			}
			ids[i] = ticket.ID
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatal(err)
	}

	if len(f.store.byPayment) != 1 {
		t.Fatalf("expected exactly one ticket, got %d", len(f.store.byPayment))
	}
	for i := 1; i < n; i++ {
		if ids[i] != ids[0] {
			t.Fatalf("caller %d observed ticket %s, caller 0 observed %s", i, ids[i], ids[0])
		}
	}
}

func TestTicketAndReceiptOwnership(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()

	ticket, _, err := f.svc.VerifyPayment(ctx, f.caller, f.callback("order_1", "pay_1"), f.intent(500))
	if err != nil {
		t.Fatal(err)
	}

	receipt, err := f.svc.Receipt(ctx, f.caller, ticket.ID)
	if err != nil {
		t.Fatal(err)
	}
	if receipt == "" {
		t.Error("expected a receipt")
	}

	stranger := auth.Identity{UserID: uuid.New()}
	if _, err := f.svc.Ticket(ctx, stranger, ticket.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("expected ErrForbidden for non-purchaser, got %v", err)
	}
	if _, err := f.svc.Ticket(ctx, f.caller, uuid.New()); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
