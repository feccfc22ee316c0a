package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/eventify/booking/internal/auth"
	"github.com/eventify/booking/internal/booking"
	"github.com/eventify/booking/internal/domain"
	"github.com/eventify/booking/internal/observability"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type Handlers struct {
	svc    *booking.Service
	logger observability.Logger
}

func NewHandlers(svc *booking.Service, logger observability.Logger) *Handlers {
	return &Handlers{svc: svc, logger: logger}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidTier), errors.Is(err, domain.ErrInvalidPricing),
		errors.Is(err, domain.ErrSignatureInvalid), errors.Is(err, domain.ErrAmountMismatch):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrUnauthenticated):
		status = http.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, domain.ErrGatewayUnavailable):
		status = http.StatusBadGateway
	case errors.Is(err, domain.ErrSerializationFailure):
		status = http.StatusConflict
	}
	writeJSON(w, status, map[string]string{"message": err.Error()})
}

type ticketResponse struct {
	ID               uuid.UUID `json:"id"`
	ConcertEventID   uuid.UUID `json:"concert_event_id"`
	EventName        string    `json:"event_name"`
	Tier             string    `json:"tier"`
	Amount           int64     `json:"amount"`
	Currency         string    `json:"currency"`
	HolderName       string    `json:"holder_name"`
	HolderAddress    string    `json:"holder_address"`
	GatewayOrderID   string    `json:"gateway_order_id"`
	GatewayPaymentID string    `json:"gateway_payment_id"`
	IssuedAt         string    `json:"issued_at"`
}

func toTicketResponse(t domain.Ticket) ticketResponse {
	return ticketResponse{
		ID:               t.ID,
		ConcertEventID:   t.ConcertEventID,
		EventName:        t.EventName,
		Tier:             string(t.Tier),
		Amount:           t.Amount,
		Currency:         t.Currency,
		HolderName:       t.HolderName,
		HolderAddress:    t.HolderAddress,
		GatewayOrderID:   t.GatewayOrderID,
		GatewayPaymentID: t.GatewayPaymentID,
		IssuedAt:         t.IssuedAt.Format(time.RFC3339),
	}
}

func (h *Handlers) CreateOrder(w http.ResponseWriter, r *http.Request) {
	caller, err := auth.FromContext(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	var req struct {
		ConcertEventID uuid.UUID `json:"concert_event_id"`
		Tier           string    `json:"tier"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	tier, err := domain.ParseTier(req.Tier)
	if err != nil {
		writeError(w, err)
		return
	}

	handle, err := h.svc.CreateOrder(r.Context(), caller, req.ConcertEventID, tier)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"gateway_order_id": handle.GatewayOrderID,
		"amount":           handle.Amount,
		"currency":         handle.Currency,
	})
}

func (h *Handlers) VerifyPayment(w http.ResponseWriter, r *http.Request) {
	caller, err := auth.FromContext(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	var req struct {
		RazorpayOrderID   string    `json:"razorpay_order_id"`
		RazorpayPaymentID string    `json:"razorpay_payment_id"`
		RazorpaySignature string    `json:"razorpay_signature"`
		ConcertEventID    uuid.UUID `json:"concert_event_id"`
		Tier              string    `json:"tier"`
		Amount            int64     `json:"amount"`
		Contact           struct {
			Name    string `json:"name"`
			Address string `json:"address"`
		} `json:"contact"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	tier, err := domain.ParseTier(req.Tier)
	if err != nil {
		writeError(w, err)
		return
	}

	cb := domain.PaymentCallback{
		GatewayOrderID:   req.RazorpayOrderID,
		GatewayPaymentID: req.RazorpayPaymentID,
		Signature:        req.RazorpaySignature,
	}
	intent := domain.BookingIntent{
		ConcertEventID: req.ConcertEventID,
		Tier:           tier,
		Amount:         req.Amount,
		Contact:        domain.Contact{Name: req.Contact.Name, Address: req.Contact.Address},
	}

	ticket, created, err := h.svc.VerifyPayment(r.Context(), caller, cb, intent)
	if err != nil {
		writeError(w, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, status, toTicketResponse(ticket))
}

func (h *Handlers) RSVP(w http.ResponseWriter, r *http.Request) {
	caller, err := auth.FromContext(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	eventID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	result, err := h.svc.Join(r.Context(), caller, eventID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"event_id":  result.EventID,
		"joined":    result.Joined,
		"attendees": result.Attendees,
	})
}

func (h *Handlers) GetTicket(w http.ResponseWriter, r *http.Request) {
	caller, err := auth.FromContext(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	ticket, err := h.svc.Ticket(r.Context(), caller, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTicketResponse(ticket))
}

func (h *Handlers) GetReceipt(w http.ResponseWriter, r *http.Request) {
	caller, err := auth.FromContext(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	receipt, err := h.svc.Receipt(r.Context(), caller, id)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(receipt))
}

func (h *Handlers) Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func (h *Handlers) Readyz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Ready"))
}
