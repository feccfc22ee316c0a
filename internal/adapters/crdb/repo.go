package crdb

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/eventify/booking/internal/domain"
	"github.com/eventify/booking/internal/observability"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	SerializationFailureCode = "40001"
	UniqueViolationCode      = "23505"
)

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) WithTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	start := time.Now()
	defer func() {
		observability.DBTxDuration.Observe(time.Since(start).Seconds())
	}()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, "SET TRANSACTION ISOLATION LEVEL SERIALIZABLE")
	if err != nil {
		return err
	}

	err = fn(tx)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == SerializationFailureCode {
			return domain.ErrSerializationFailure
		}
		return err
	}

	return tx.Commit(ctx)
}

// InsertTicket commits a ticket. The unique index on gateway_payment_id is
// the at-most-once guard: losing the race to a concurrent verifier surfaces
// ErrDuplicatePayment and the caller returns the winner's ticket instead.
func (r *Repository) InsertTicket(ctx context.Context, tx pgx.Tx, t domain.Ticket) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO tickets (id, concert_event_id, event_name, tier, amount, currency,
			purchaser_id, holder_name, holder_address, gateway_order_id, gateway_payment_id, issued_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`, t.ID, t.ConcertEventID, t.EventName, string(t.Tier), t.Amount, t.Currency,
		t.PurchaserID, t.HolderName, t.HolderAddress, t.GatewayOrderID, t.GatewayPaymentID, t.IssuedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == UniqueViolationCode {
			return domain.ErrDuplicatePayment
		}
		return err
	}
	return nil
}

func (r *Repository) scanTicket(row pgx.Row) (*domain.Ticket, error) {
	var t domain.Ticket
	var tier string
	err := row.Scan(&t.ID, &t.ConcertEventID, &t.EventName, &tier, &t.Amount, &t.Currency,
		&t.PurchaserID, &t.HolderName, &t.HolderAddress, &t.GatewayOrderID, &t.GatewayPaymentID, &t.IssuedAt)
	if err == pgx.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	t.Tier = domain.Tier(tier)
	return &t, nil
}

const ticketColumns = `id, concert_event_id, event_name, tier, amount, currency,
	purchaser_id, holder_name, holder_address, gateway_order_id, gateway_payment_id, issued_at`

func (r *Repository) TicketByPaymentID(ctx context.Context, gatewayPaymentID string) (*domain.Ticket, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+ticketColumns+` FROM tickets WHERE gateway_payment_id = $1
	`, gatewayPaymentID)
	return r.scanTicket(row)
}

func (r *Repository) TicketByID(ctx context.Context, id uuid.UUID) (*domain.Ticket, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+ticketColumns+` FROM tickets WHERE id = $1
	`, id)
	return r.scanTicket(row)
}

// JoinAttendees records one RSVP membership. The insert is a single atomic
// upsert on the (event_id, user_id) pair; a replayed join reports
// inserted=false and changes nothing.
func (r *Repository) JoinAttendees(ctx context.Context, tx pgx.Tx, eventID, userID uuid.UUID) (bool, error) {
	result, err := tx.Exec(ctx, `
		INSERT INTO personal_event_attendees (event_id, user_id, joined_at)
		VALUES ($1, $2, now())
		ON CONFLICT (event_id, user_id) DO NOTHING
	`, eventID, userID)
	if err != nil {
		return false, err
	}
	return result.RowsAffected() > 0, nil
}

func (r *Repository) CountAttendees(ctx context.Context, eventID uuid.UUID) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `
		SELECT count(*) FROM personal_event_attendees WHERE event_id = $1
	`, eventID).Scan(&n)
	return n, err
}

func (r *Repository) ListAttendees(ctx context.Context, eventID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT user_id FROM personal_event_attendees WHERE event_id = $1 ORDER BY joined_at
	`, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		users = append(users, id)
	}
	return users, rows.Err()
}
