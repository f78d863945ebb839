package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"marketplace_backend/internal/quotes/domain"
	"marketplace_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ── Domain Models ─────────────────────────────────────────────────────────────

// Quote is the database model for a quote header
type Quote struct {
	ID                  uuid.UUID  `db:"id"`
	VendorID            uuid.UUID  `db:"vendor_id"`
	InquiryID           *uuid.UUID `db:"inquiry_id"`
	QuoteNumber         string     `db:"quote_number"`
	Status              string     `db:"status"`
	SubtotalCents       int64      `db:"subtotal_cents"`
	TaxCents            int64      `db:"tax_cents"`
	DiscountCents       int64      `db:"discount_cents"`
	TotalCents          int64      `db:"total_cents"`
	AllowedPaymentModes []string   `db:"allowed_payment_modes"`
	DepositPercentage   int        `db:"deposit_percentage"`
	ValidUntil          *time.Time `db:"valid_until"`
	Notes               *string    `db:"notes"`
	AcceptedAt          *time.Time `db:"accepted_at"`
	CreatedAt           time.Time  `db:"created_at"`
	UpdatedAt           time.Time  `db:"updated_at"`
}

// QuoteItem is the database model for a quote line item
type QuoteItem struct {
	ID             uuid.UUID `db:"id"`
	QuoteID        uuid.UUID `db:"quote_id"`
	Name           string    `db:"name"`
	Quantity       float64   `db:"quantity"`
	UnitPriceCents int64     `db:"unit_price_cents"`
	TotalCents     int64     `db:"total_cents"`
	SortOrder      int       `db:"sort_order"`
	CreatedAt      time.Time `db:"created_at"`
}

// ListParams contains parameters for listing quotes. VendorID and
// ClientUserID are row filters produced by the access scope.
type ListParams struct {
	VendorID     *uuid.UUID
	ClientUserID *uuid.UUID
	InquiryID    *uuid.UUID
	Status       *string
	Page         int
	PageSize     int
}

// ListResult contains the paginated result of listing quotes
type ListResult struct {
	Items      []Quote
	Total      int
	Page       int
	PageSize   int
	TotalPages int
}

const quoteNotFoundMsg = "quote not found"

const quoteColumns = `id, vendor_id, inquiry_id, quote_number, status,
		subtotal_cents, tax_cents, discount_cents, total_cents,
		allowed_payment_modes, deposit_percentage, valid_until, notes,
		accepted_at, created_at, updated_at`

// clientVisible restricts quotes for client callers: a client sees a quote
// only through the inquiry they originated, and never while it is a draft.
const clientVisible = `($%d::uuid IS NULL OR (status <> 'Draft' AND inquiry_id IN (
			SELECT id FROM inquiries WHERE client_user_id = $%d)))`

// ── Repository ────────────────────────────────────────────────────────────────

// Repository provides database operations for quotes
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new quotes repository
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// NextQuoteNumber atomically generates the next quote number for a vendor
func (r *Repository) NextQuoteNumber(ctx context.Context, vendorID uuid.UUID) (string, error) {
	var nextNum int
	query := `
		INSERT INTO quote_counters (vendor_id, last_number)
		VALUES ($1, 1)
		ON CONFLICT (vendor_id) DO UPDATE SET last_number = quote_counters.last_number + 1
		RETURNING last_number`

	if err := r.pool.QueryRow(ctx, query, vendorID).Scan(&nextNum); err != nil {
		return "", fmt.Errorf("failed to generate quote number: %w", err)
	}

	year := time.Now().Year()
	return fmt.Sprintf("QUO-%d-%04d", year, nextNum), nil
}

// CreateWithItems inserts a quote and its line items in a single transaction
func (r *Repository) CreateWithItems(ctx context.Context, quote *Quote, items []QuoteItem) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	quoteQuery := `
		INSERT INTO quotes (
			id, vendor_id, inquiry_id, quote_number, status,
			subtotal_cents, tax_cents, discount_cents, total_cents,
			allowed_payment_modes, deposit_percentage, valid_until, notes,
			accepted_at, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`

	if _, err := tx.Exec(ctx, quoteQuery,
		quote.ID, quote.VendorID, quote.InquiryID, quote.QuoteNumber, quote.Status,
		quote.SubtotalCents, quote.TaxCents, quote.DiscountCents, quote.TotalCents,
		quote.AllowedPaymentModes, quote.DepositPercentage, quote.ValidUntil, quote.Notes,
		quote.AcceptedAt, quote.CreatedAt, quote.UpdatedAt,
	); err != nil {
		return fmt.Errorf("failed to insert quote: %w", err)
	}

	if err := r.insertItems(ctx, tx, items); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// UpdateWithItems updates a draft quote and optionally replaces its line items
func (r *Repository) UpdateWithItems(ctx context.Context, quote *Quote, items []QuoteItem, replaceItems bool) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	updateQuery := `
		UPDATE quotes SET
			subtotal_cents = $2, tax_cents = $3, discount_cents = $4, total_cents = $5,
			allowed_payment_modes = $6, deposit_percentage = $7, valid_until = $8,
			notes = $9, updated_at = $10
		WHERE id = $1 AND vendor_id = $11`

	result, err := tx.Exec(ctx, updateQuery,
		quote.ID, quote.SubtotalCents, quote.TaxCents, quote.DiscountCents, quote.TotalCents,
		quote.AllowedPaymentModes, quote.DepositPercentage, quote.ValidUntil,
		quote.Notes, quote.UpdatedAt, quote.VendorID,
	)
	if err != nil {
		return fmt.Errorf("failed to update quote: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(quoteNotFoundMsg)
	}

	if replaceItems {
		if _, err := tx.Exec(ctx, `DELETE FROM quote_items WHERE quote_id = $1`, quote.ID); err != nil {
			return fmt.Errorf("failed to delete old quote items: %w", err)
		}
		if err := r.insertItems(ctx, tx, items); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *Repository) insertItems(ctx context.Context, tx pgx.Tx, items []QuoteItem) error {
	itemQuery := `
		INSERT INTO quote_items (
			id, quote_id, name, quantity, unit_price_cents, total_cents, sort_order, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	for _, item := range items {
		if _, err := tx.Exec(ctx, itemQuery,
			item.ID, item.QuoteID, item.Name, item.Quantity,
			item.UnitPriceCents, item.TotalCents, item.SortOrder, item.CreatedAt,
		); err != nil {
			return fmt.Errorf("failed to insert quote item: %w", err)
		}
	}
	return nil
}

// GetByID retrieves a quote by its ID, restricted by the caller's row filter.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID, vendorID, clientID *uuid.UUID) (*Quote, error) {
	query := `
		SELECT ` + quoteColumns + `
		FROM quotes
		WHERE id = $1
			AND ($2::uuid IS NULL OR vendor_id = $2)
			AND ` + fmt.Sprintf(clientVisible, 3, 3)

	q, err := r.scanQuote(r.pool.QueryRow(ctx, query, id, vendorID, clientID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound(quoteNotFoundMsg)
		}
		return nil, fmt.Errorf("failed to get quote: %w", err)
	}
	return q, nil
}

// GetItemsByQuoteID retrieves all items for a quote
func (r *Repository) GetItemsByQuoteID(ctx context.Context, quoteID uuid.UUID) ([]QuoteItem, error) {
	query := `
		SELECT id, quote_id, name, quantity, unit_price_cents, total_cents, sort_order, created_at
		FROM quote_items WHERE quote_id = $1
		ORDER BY sort_order ASC`

	rows, err := r.pool.Query(ctx, query, quoteID)
	if err != nil {
		return nil, fmt.Errorf("failed to query quote items: %w", err)
	}
	defer rows.Close()

	var items []QuoteItem
	for rows.Next() {
		var it QuoteItem
		if err := rows.Scan(
			&it.ID, &it.QuoteID, &it.Name, &it.Quantity,
			&it.UnitPriceCents, &it.TotalCents, &it.SortOrder, &it.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan quote item: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate quote items: %w", err)
	}
	return items, nil
}

// List retrieves quotes with row filtering and pagination
func (r *Repository) List(ctx context.Context, params ListParams) (*ListResult, error) {
	baseQuery := `
		FROM quotes
		WHERE ($1::uuid IS NULL OR vendor_id = $1)
			AND ` + fmt.Sprintf(clientVisible, 2, 2) + `
			AND ($3::uuid IS NULL OR inquiry_id = $3)
			AND ($4::text IS NULL OR status = $4)`
	args := []interface{}{params.VendorID, params.ClientUserID, params.InquiryID, params.Status}

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) "+baseQuery, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count quotes: %w", err)
	}

	totalPages := (total + params.PageSize - 1) / params.PageSize
	offset := (params.Page - 1) * params.PageSize

	selectQuery := `
		SELECT ` + quoteColumns + baseQuery + `
		ORDER BY created_at DESC
		LIMIT $5 OFFSET $6`
	args = append(args, params.PageSize, offset)

	rows, err := r.pool.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list quotes: %w", err)
	}
	defer rows.Close()

	var items []Quote
	for rows.Next() {
		q, err := r.scanQuote(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan quote: %w", err)
		}
		items = append(items, *q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate quotes: %w", err)
	}

	return &ListResult{
		Items:      items,
		Total:      total,
		Page:       params.Page,
		PageSize:   params.PageSize,
		TotalPages: totalPages,
	}, nil
}

// UpdateStatus moves a quote from one status to another. The update is
// guarded on the current status so concurrent writers cannot skip states.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to domain.Status) error {
	query := `UPDATE quotes SET status = $3, updated_at = $4 WHERE id = $1 AND status = $2`
	result, err := r.pool.Exec(ctx, query, id, string(from), string(to), time.Now())
	if err != nil {
		return fmt.Errorf("failed to update quote status: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.Conflict("quote is no longer in status " + string(from))
	}
	return nil
}

// MarkExpired records lazy expiry for a quote still stored as Sent.
// Losing the guard race means someone else already moved the quote on,
// which is fine; the acceptance check has already rejected the caller.
func (r *Repository) MarkExpired(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE quotes SET status = $2, updated_at = $3 WHERE id = $1 AND status = $4`
	if _, err := r.pool.Exec(ctx, query, id, string(domain.StatusExpired), time.Now(), string(domain.StatusSent)); err != nil {
		return fmt.Errorf("failed to mark quote expired: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *Repository) scanQuote(row rowScanner) (*Quote, error) {
	var q Quote
	err := row.Scan(
		&q.ID, &q.VendorID, &q.InquiryID, &q.QuoteNumber, &q.Status,
		&q.SubtotalCents, &q.TaxCents, &q.DiscountCents, &q.TotalCents,
		&q.AllowedPaymentModes, &q.DepositPercentage, &q.ValidUntil, &q.Notes,
		&q.AcceptedAt, &q.CreatedAt, &q.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &q, nil
}
