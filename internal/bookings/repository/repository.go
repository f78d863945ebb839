package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"marketplace_backend/internal/bookings/domain"
	"marketplace_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ── Domain Models ─────────────────────────────────────────────────────────────

// Booking is the database model for a booking. Client contact fields are
// a snapshot taken at acceptance time, not a live reference.
type Booking struct {
	ID              uuid.UUID  `db:"id"`
	QuoteID         uuid.UUID  `db:"quote_id"`
	VendorID        uuid.UUID  `db:"vendor_id"`
	InquiryID       *uuid.UUID `db:"inquiry_id"`
	ClientUserID    *uuid.UUID `db:"client_user_id"`
	ClientName      string     `db:"client_name"`
	ClientEmail     string     `db:"client_email"`
	ClientPhone     *string    `db:"client_phone"`
	EventDate       *time.Time `db:"event_date"`
	EventLocation   *string    `db:"event_location"`
	GuestCount      *int       `db:"guest_count"`
	SpecialRequests *string    `db:"special_requests"`
	PaymentMode     string     `db:"payment_mode"`
	TotalCents      int64      `db:"total_cents"`
	DepositCents    *int64     `db:"deposit_cents"`
	BalanceCents    *int64     `db:"balance_cents"`
	BalanceDue      *time.Time `db:"balance_due"`
	Status          string     `db:"status"`
	CreatedAt       time.Time  `db:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at"`
}

// BookingEvent is one entry in a booking's append-only status timeline.
type BookingEvent struct {
	ID        uuid.UUID `db:"id"`
	BookingID uuid.UUID `db:"booking_id"`
	OldStatus *string   `db:"old_status"`
	NewStatus string    `db:"new_status"`
	Note      *string   `db:"note"`
	CreatedAt time.Time `db:"created_at"`
}

// ConvertParams carries everything the conversion transaction writes.
// The booking fields are fully computed by the service before the
// transaction starts; the repository only persists them atomically.
type ConvertParams struct {
	Booking       Booking
	QuoteID       uuid.UUID
	InquiryID     *uuid.UUID
	VendorID      uuid.UUID
	InquiryStatus string // status the linked inquiry moves to
}

// ListParams contains parameters for listing bookings
type ListParams struct {
	VendorID     *uuid.UUID
	ClientUserID *uuid.UUID
	Status       *string
	Page         int
	PageSize     int
}

// ListResult contains the paginated result of listing bookings
type ListResult struct {
	Items      []Booking
	Total      int
	Page       int
	PageSize   int
	TotalPages int
}

const bookingNotFoundMsg = "booking not found"

const bookingColumns = `id, quote_id, vendor_id, inquiry_id, client_user_id,
			client_name, client_email, client_phone,
			event_date, event_location, guest_count, special_requests,
			payment_mode, total_cents, deposit_cents, balance_cents, balance_due,
			status, created_at, updated_at`

// ── Repository ────────────────────────────────────────────────────────────────

// Repository provides database operations for bookings
// ErrQuoteNotSent is returned when the guarded status update finds the
// quote no longer Sent. The guard cannot tell why (a racing acceptance,
// decline or cancellation all look the same); the service re-reads the
// quote and classifies the reason.
var ErrQuoteNotSent = apperr.Conflict("quote has already been accepted")

type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new bookings repository
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ConvertQuote runs the acceptance transaction: the quote moves to
// Accepted, the linked inquiry follows, the booking row is inserted and
// the vendor's acceptance counter is bumped. All four writes commit
// together or not at all.
//
// Two attempts racing on the same quote are serialized by the guarded
// quote update and the unique constraint on bookings.quote_id: exactly
// one caller commits, the other gets a conflict.
func (r *Repository) ConvertQuote(ctx context.Context, params ConvertParams) (*Booking, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	now := time.Now()

	result, err := tx.Exec(ctx, `
		UPDATE quotes SET status = 'Accepted', accepted_at = $2, updated_at = $2
		WHERE id = $1 AND status = 'Sent'`,
		params.QuoteID, now,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to accept quote: %w", err)
	}
	if result.RowsAffected() == 0 {
		return nil, ErrQuoteNotSent
	}

	if params.InquiryID != nil {
		if _, err := tx.Exec(ctx, `
			UPDATE inquiries SET status = $2, updated_at = $3
			WHERE id = $1`,
			*params.InquiryID, params.InquiryStatus, now,
		); err != nil {
			return nil, fmt.Errorf("failed to update linked inquiry: %w", err)
		}
	}

	booking := params.Booking
	booking.CreatedAt = now
	booking.UpdatedAt = now

	if _, err := tx.Exec(ctx, `
		INSERT INTO bookings (
			id, quote_id, vendor_id, inquiry_id, client_user_id,
			client_name, client_email, client_phone,
			event_date, event_location, guest_count, special_requests,
			payment_mode, total_cents, deposit_cents, balance_cents, balance_due,
			status, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)`,
		booking.ID, booking.QuoteID, booking.VendorID, booking.InquiryID, booking.ClientUserID,
		booking.ClientName, booking.ClientEmail, booking.ClientPhone,
		booking.EventDate, booking.EventLocation, booking.GuestCount, booking.SpecialRequests,
		booking.PaymentMode, booking.TotalCents, booking.DepositCents, booking.BalanceCents, booking.BalanceDue,
		booking.Status, booking.CreatedAt, booking.UpdatedAt,
	); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, apperr.Conflict("a booking already exists for this quote")
		}
		return nil, fmt.Errorf("failed to insert booking: %w", err)
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO booking_events (id, booking_id, old_status, new_status, created_at)
		VALUES ($1, $2, NULL, $3, $4)`,
		uuid.New(), booking.ID, booking.Status, now,
	); err != nil {
		return nil, fmt.Errorf("failed to record booking timeline: %w", err)
	}

	if _, err := tx.Exec(ctx, `
		UPDATE vendors SET accepted_count = accepted_count + 1, updated_at = $2
		WHERE id = $1`,
		params.VendorID, now,
	); err != nil {
		return nil, fmt.Errorf("failed to increment vendor acceptance counter: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit conversion: %w", err)
	}
	return &booking, nil
}

// GetByID retrieves a booking by its ID, restricted by the caller's row filter.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID, vendorID, clientID *uuid.UUID) (*Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE id = $1
			AND ($2::uuid IS NULL OR vendor_id = $2)
			AND ($3::uuid IS NULL OR client_user_id = $3)`

	b, err := r.scanBooking(r.pool.QueryRow(ctx, query, id, vendorID, clientID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound(bookingNotFoundMsg)
		}
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return b, nil
}

// List retrieves bookings with row filtering and pagination
func (r *Repository) List(ctx context.Context, params ListParams) (*ListResult, error) {
	baseQuery := `
		FROM bookings
		WHERE ($1::uuid IS NULL OR vendor_id = $1)
			AND ($2::uuid IS NULL OR client_user_id = $2)
			AND ($3::text IS NULL OR status = $3)`
	args := []interface{}{params.VendorID, params.ClientUserID, params.Status}

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) "+baseQuery, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count bookings: %w", err)
	}

	totalPages := (total + params.PageSize - 1) / params.PageSize
	offset := (params.Page - 1) * params.PageSize

	selectQuery := `
		SELECT ` + bookingColumns + baseQuery + `
		ORDER BY created_at DESC
		LIMIT $4 OFFSET $5`
	args = append(args, params.PageSize, offset)

	rows, err := r.pool.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	defer rows.Close()

	var items []Booking
	for rows.Next() {
		b, err := r.scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		items = append(items, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate bookings: %w", err)
	}

	return &ListResult{
		Items:      items,
		Total:      total,
		Page:       params.Page,
		PageSize:   params.PageSize,
		TotalPages: totalPages,
	}, nil
}

// UpdateStatus moves a booking between states and appends the change to
// the timeline. The update is guarded on the current status.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to domain.Status, note *string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	result, err := tx.Exec(ctx, `
		UPDATE bookings SET status = $3, updated_at = $4
		WHERE id = $1 AND status = $2`,
		id, string(from), string(to), time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to update booking status: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.Conflict("booking is no longer in status " + string(from))
	}

	oldStatus := string(from)
	if _, err := tx.Exec(ctx, `
		INSERT INTO booking_events (id, booking_id, old_status, new_status, note, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		uuid.New(), id, oldStatus, string(to), note, time.Now(),
	); err != nil {
		return fmt.Errorf("failed to record booking timeline: %w", err)
	}

	return tx.Commit(ctx)
}

// ListEvents returns a booking's status timeline, oldest first.
func (r *Repository) ListEvents(ctx context.Context, bookingID uuid.UUID) ([]BookingEvent, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, booking_id, old_status, new_status, note, created_at
		FROM booking_events
		WHERE booking_id = $1
		ORDER BY created_at ASC`, bookingID)
	if err != nil {
		return nil, fmt.Errorf("failed to query booking events: %w", err)
	}
	defer rows.Close()

	var events []BookingEvent
	for rows.Next() {
		var e BookingEvent
		if err := rows.Scan(&e.ID, &e.BookingID, &e.OldStatus, &e.NewStatus, &e.Note, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan booking event: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate booking events: %w", err)
	}
	return events, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *Repository) scanBooking(row rowScanner) (*Booking, error) {
	var b Booking
	err := row.Scan(
		&b.ID, &b.QuoteID, &b.VendorID, &b.InquiryID, &b.ClientUserID,
		&b.ClientName, &b.ClientEmail, &b.ClientPhone,
		&b.EventDate, &b.EventLocation, &b.GuestCount, &b.SpecialRequests,
		&b.PaymentMode, &b.TotalCents, &b.DepositCents, &b.BalanceCents, &b.BalanceDue,
		&b.Status, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}
