package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"marketplace_backend/internal/inquiries/domain"
	"marketplace_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ── Domain Models ─────────────────────────────────────────────────────────────

// Inquiry is the database model for a client's inquiry to a vendor.
type Inquiry struct {
	ID             uuid.UUID  `db:"id"`
	VendorID       uuid.UUID  `db:"vendor_id"`
	ServiceID      *uuid.UUID `db:"service_id"`
	ClientUserID   *uuid.UUID `db:"client_user_id"`
	ContactName    string     `db:"contact_name"`
	ContactEmail   string     `db:"contact_email"`
	ContactPhone   *string    `db:"contact_phone"`
	EventDate      *time.Time `db:"event_date"`
	EventLocation  *string    `db:"event_location"`
	GuestCount     *int       `db:"guest_count"`
	BudgetMinCents *int64     `db:"budget_min_cents"`
	BudgetMaxCents *int64     `db:"budget_max_cents"`
	Message        string     `db:"message"`
	Status         string     `db:"status"`
	CreatedAt      time.Time  `db:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at"`
}

// Message is an entry in an inquiry's append-only message thread.
type Message struct {
	ID         uuid.UUID `db:"id"`
	InquiryID  uuid.UUID `db:"inquiry_id"`
	AuthorRole string    `db:"author_role"`
	Body       string    `db:"body"`
	CreatedAt  time.Time `db:"created_at"`
}

// ListParams contains parameters for listing inquiries. VendorID and
// ClientUserID are row filters produced by the access scope; nil means
// no restriction on that axis.
type ListParams struct {
	VendorID     *uuid.UUID
	ClientUserID *uuid.UUID
	Status       *string
	Page         int
	PageSize     int
}

// ListResult contains the paginated result of listing inquiries
type ListResult struct {
	Items      []Inquiry
	Total      int
	Page       int
	PageSize   int
	TotalPages int
}

const inquiryNotFoundMsg = "inquiry not found"

// ── Repository ────────────────────────────────────────────────────────────────

// Repository provides database operations for inquiries
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new inquiries repository
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts a new inquiry.
func (r *Repository) Create(ctx context.Context, inq *Inquiry) error {
	query := `
		INSERT INTO inquiries (
			id, vendor_id, service_id, client_user_id, contact_name, contact_email,
			contact_phone, event_date, event_location, guest_count,
			budget_min_cents, budget_max_cents, message, status, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`

	if _, err := r.pool.Exec(ctx, query,
		inq.ID, inq.VendorID, inq.ServiceID, inq.ClientUserID, inq.ContactName, inq.ContactEmail,
		inq.ContactPhone, inq.EventDate, inq.EventLocation, inq.GuestCount,
		inq.BudgetMinCents, inq.BudgetMaxCents, inq.Message, inq.Status, inq.CreatedAt, inq.UpdatedAt,
	); err != nil {
		return fmt.Errorf("failed to insert inquiry: %w", err)
	}
	return nil
}

// GetByID retrieves an inquiry by ID, restricted by the caller's row filter.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID, vendorID, clientID *uuid.UUID) (*Inquiry, error) {
	var inq Inquiry
	query := `
		SELECT id, vendor_id, service_id, client_user_id, contact_name, contact_email,
			contact_phone, event_date, event_location, guest_count,
			budget_min_cents, budget_max_cents, message, status, created_at, updated_at
		FROM inquiries
		WHERE id = $1
			AND ($2::uuid IS NULL OR vendor_id = $2)
			AND ($3::uuid IS NULL OR client_user_id = $3)`

	err := r.pool.QueryRow(ctx, query, id, vendorID, clientID).Scan(
		&inq.ID, &inq.VendorID, &inq.ServiceID, &inq.ClientUserID, &inq.ContactName, &inq.ContactEmail,
		&inq.ContactPhone, &inq.EventDate, &inq.EventLocation, &inq.GuestCount,
		&inq.BudgetMinCents, &inq.BudgetMaxCents, &inq.Message, &inq.Status, &inq.CreatedAt, &inq.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound(inquiryNotFoundMsg)
		}
		return nil, fmt.Errorf("failed to get inquiry: %w", err)
	}
	return &inq, nil
}

// List retrieves inquiries with row filtering and pagination.
func (r *Repository) List(ctx context.Context, params ListParams) (*ListResult, error) {
	baseQuery := `
		FROM inquiries
		WHERE ($1::uuid IS NULL OR vendor_id = $1)
			AND ($2::uuid IS NULL OR client_user_id = $2)
			AND ($3::text IS NULL OR status = $3)`
	args := []interface{}{params.VendorID, params.ClientUserID, params.Status}

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) "+baseQuery, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count inquiries: %w", err)
	}

	totalPages := (total + params.PageSize - 1) / params.PageSize
	offset := (params.Page - 1) * params.PageSize

	selectQuery := `
		SELECT id, vendor_id, service_id, client_user_id, contact_name, contact_email,
			contact_phone, event_date, event_location, guest_count,
			budget_min_cents, budget_max_cents, message, status, created_at, updated_at
		` + baseQuery + `
		ORDER BY created_at DESC
		LIMIT $4 OFFSET $5`
	args = append(args, params.PageSize, offset)

	rows, err := r.pool.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list inquiries: %w", err)
	}
	defer rows.Close()

	var items []Inquiry
	for rows.Next() {
		var inq Inquiry
		if err := rows.Scan(
			&inq.ID, &inq.VendorID, &inq.ServiceID, &inq.ClientUserID, &inq.ContactName, &inq.ContactEmail,
			&inq.ContactPhone, &inq.EventDate, &inq.EventLocation, &inq.GuestCount,
			&inq.BudgetMinCents, &inq.BudgetMaxCents, &inq.Message, &inq.Status, &inq.CreatedAt, &inq.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan inquiry: %w", err)
		}
		items = append(items, inq)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate inquiries: %w", err)
	}

	return &ListResult{
		Items:      items,
		Total:      total,
		Page:       params.Page,
		PageSize:   params.PageSize,
		TotalPages: totalPages,
	}, nil
}

// UpdateStatus moves an inquiry from one status to another. The update is
// guarded on the current status so concurrent writers cannot skip states.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to domain.Status) error {
	query := `UPDATE inquiries SET status = $3, updated_at = $4 WHERE id = $1 AND status = $2`
	result, err := r.pool.Exec(ctx, query, id, string(from), string(to), time.Now())
	if err != nil {
		return fmt.Errorf("failed to update inquiry status: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.Conflict("inquiry is no longer in status " + string(from))
	}
	return nil
}

// Archive moves any non-archived inquiry to Archived. Inquiries are never
// deleted; the row remains as an audit trail.
func (r *Repository) Archive(ctx context.Context, id uuid.UUID, vendorID, clientID *uuid.UUID) error {
	query := `
		UPDATE inquiries SET status = $4, updated_at = $5
		WHERE id = $1 AND status <> $4
			AND ($2::uuid IS NULL OR vendor_id = $2)
			AND ($3::uuid IS NULL OR client_user_id = $3)`
	result, err := r.pool.Exec(ctx, query, id, vendorID, clientID, string(domain.StatusArchived), time.Now())
	if err != nil {
		return fmt.Errorf("failed to archive inquiry: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(inquiryNotFoundMsg)
	}
	return nil
}

// AddMessage appends a message to the inquiry's thread.
func (r *Repository) AddMessage(ctx context.Context, msg *Message) error {
	query := `
		INSERT INTO inquiry_messages (id, inquiry_id, author_role, body, created_at)
		VALUES ($1, $2, $3, $4, $5)`

	if _, err := r.pool.Exec(ctx, query,
		msg.ID, msg.InquiryID, msg.AuthorRole, msg.Body, msg.CreatedAt,
	); err != nil {
		return fmt.Errorf("failed to insert inquiry message: %w", err)
	}
	return nil
}

// ListMessages returns the inquiry's message thread, oldest first.
func (r *Repository) ListMessages(ctx context.Context, inquiryID uuid.UUID) ([]Message, error) {
	query := `
		SELECT id, inquiry_id, author_role, body, created_at
		FROM inquiry_messages WHERE inquiry_id = $1
		ORDER BY created_at ASC`

	rows, err := r.pool.Query(ctx, query, inquiryID)
	if err != nil {
		return nil, fmt.Errorf("failed to query inquiry messages: %w", err)
	}
	defer rows.Close()

	var items []Message
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.InquiryID, &m.AuthorRole, &m.Body, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan inquiry message: %w", err)
		}
		items = append(items, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate inquiry messages: %w", err)
	}
	return items, nil
}
