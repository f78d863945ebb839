package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"marketplace_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ── Domain Models ─────────────────────────────────────────────────────────────

// Vendor is the database model for a vendor (service provider).
type Vendor struct {
	ID             uuid.UUID `db:"id"`
	Name           string    `db:"name"`
	ContactEmail   string    `db:"contact_email"`
	ContactPhone   *string   `db:"contact_phone"`
	City           *string   `db:"city"`
	Published      bool      `db:"published"`
	QuoteSentCount int       `db:"quote_sent_count"`
	AcceptedCount  int       `db:"accepted_count"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

// Service is the database model for a service listing offered by a vendor.
type Service struct {
	ID             uuid.UUID `db:"id"`
	VendorID       uuid.UUID `db:"vendor_id"`
	Title          string    `db:"title"`
	Category       string    `db:"category"`
	BasePriceCents int64     `db:"base_price_cents"`
	Published      bool      `db:"published"`
	CreatedAt      time.Time `db:"created_at"`
}

const vendorNotFoundMsg = "vendor not found"

// ── Repository ────────────────────────────────────────────────────────────────

// Repository provides database operations for vendors and their listings.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new vendors repository
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// GetByID retrieves a vendor by its ID.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Vendor, error) {
	var v Vendor
	query := `
		SELECT id, name, contact_email, contact_phone, city, published,
			quote_sent_count, accepted_count, created_at, updated_at
		FROM vendors WHERE id = $1`

	err := r.pool.QueryRow(ctx, query, id).Scan(
		&v.ID, &v.Name, &v.ContactEmail, &v.ContactPhone, &v.City, &v.Published,
		&v.QuoteSentCount, &v.AcceptedCount, &v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound(vendorNotFoundMsg)
		}
		return nil, fmt.Errorf("failed to get vendor: %w", err)
	}
	return &v, nil
}

// GetServiceByID retrieves a service listing by its ID.
func (r *Repository) GetServiceByID(ctx context.Context, id uuid.UUID) (*Service, error) {
	var s Service
	query := `
		SELECT id, vendor_id, title, category, base_price_cents, published, created_at
		FROM services WHERE id = $1`

	err := r.pool.QueryRow(ctx, query, id).Scan(
		&s.ID, &s.VendorID, &s.Title, &s.Category, &s.BasePriceCents, &s.Published, &s.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("service not found")
		}
		return nil, fmt.Errorf("failed to get service: %w", err)
	}
	return &s, nil
}

// ListServices retrieves a vendor's service listings.
func (r *Repository) ListServices(ctx context.Context, vendorID uuid.UUID) ([]Service, error) {
	query := `
		SELECT id, vendor_id, title, category, base_price_cents, published, created_at
		FROM services WHERE vendor_id = $1
		ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, vendorID)
	if err != nil {
		return nil, fmt.Errorf("failed to query services: %w", err)
	}
	defer rows.Close()

	var items []Service
	for rows.Next() {
		var s Service
		if err := rows.Scan(
			&s.ID, &s.VendorID, &s.Title, &s.Category, &s.BasePriceCents, &s.Published, &s.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan service: %w", err)
		}
		items = append(items, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate services: %w", err)
	}
	return items, nil
}

// IncrementQuoteSent atomically bumps the vendor's sent-quote counter.
func (r *Repository) IncrementQuoteSent(ctx context.Context, vendorID uuid.UUID) error {
	query := `UPDATE vendors SET quote_sent_count = quote_sent_count + 1, updated_at = $2 WHERE id = $1`
	result, err := r.pool.Exec(ctx, query, vendorID, time.Now())
	if err != nil {
		return fmt.Errorf("failed to increment quote sent count: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(vendorNotFoundMsg)
	}
	return nil
}

// Create inserts a new vendor profile.
func (r *Repository) Create(ctx context.Context, v *Vendor) error {
	query := `
		INSERT INTO vendors (
			id, name, contact_email, contact_phone, city, published,
			quote_sent_count, accepted_count, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	if _, err := r.pool.Exec(ctx, query,
		v.ID, v.Name, v.ContactEmail, v.ContactPhone, v.City, v.Published,
		v.QuoteSentCount, v.AcceptedCount, v.CreatedAt, v.UpdatedAt,
	); err != nil {
		return fmt.Errorf("failed to insert vendor: %w", err)
	}
	return nil
}

// Publish marks the vendor as visible on the public marketplace.
func (r *Repository) Publish(ctx context.Context, vendorID uuid.UUID) error {
	query := `UPDATE vendors SET published = TRUE, updated_at = $2 WHERE id = $1`
	result, err := r.pool.Exec(ctx, query, vendorID, time.Now())
	if err != nil {
		return fmt.Errorf("failed to publish vendor: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(vendorNotFoundMsg)
	}
	return nil
}

// CreateService inserts a new service listing for a vendor.
func (r *Repository) CreateService(ctx context.Context, s *Service) error {
	query := `
		INSERT INTO services (
			id, vendor_id, title, category, base_price_cents, published, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)`

	if _, err := r.pool.Exec(ctx, query,
		s.ID, s.VendorID, s.Title, s.Category, s.BasePriceCents, s.Published, s.CreatedAt,
	); err != nil {
		return fmt.Errorf("failed to insert service: %w", err)
	}
	return nil
}
