package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/ecocolecta/pickup-system/internal/core/domain"
	"github.com/ecocolecta/pickup-system/internal/core/ports"
)

// AssociationRepository provides association reads and the profile update path.
type AssociationRepository struct {
	db DB
}

func NewAssociationRepository(db DB) *AssociationRepository {
	return &AssociationRepository{db: db}
}

func (r *AssociationRepository) FindByID(ctx context.Context, id int64) (*domain.Association, error) {
	var a domain.Association
	err := r.db.QueryRow(ctx, `
		SELECT id, name, phone, address, city, description, logo_url, verified, created_at
		FROM associations WHERE id = $1`, id,
	).Scan(&a.ID, &a.Name, &a.Phone, &a.Address, &a.City, &a.Description, &a.LogoURL, &a.Verified, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, fmt.Errorf("find association: %w", err)
	}
	return &a, nil
}

func (r *AssociationRepository) ListVerified(ctx context.Context) ([]ports.AssociationSummary, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, name, phone, city
		FROM associations WHERE verified ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list associations: %w", err)
	}
	defer rows.Close()

	out := []ports.AssociationSummary{}
	for rows.Next() {
		var s ports.AssociationSummary
		if err := rows.Scan(&s.ID, &s.Name, &s.Phone, &s.City); err != nil {
			return nil, fmt.Errorf("scan association: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// UpdateProfile applies the non-nil fields only. COALESCE keeps the stored
// value where the caller sent nothing.
func (r *AssociationRepository) UpdateProfile(ctx context.Context, id int64, in ports.UpdateAssociationInput) (*domain.Association, error) {
	var a domain.Association
	err := r.db.QueryRow(ctx, `
		UPDATE associations SET
			name        = COALESCE($2, name),
			phone       = COALESCE($3, phone),
			address     = COALESCE($4, address),
			description = COALESCE($5, description)
		WHERE id = $1
		RETURNING id, name, phone, address, city, description, logo_url, verified, created_at`,
		id, in.Name, in.Phone, in.Address, in.Description,
	).Scan(&a.ID, &a.Name, &a.Phone, &a.Address, &a.City, &a.Description, &a.LogoURL, &a.Verified, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, fmt.Errorf("update association: %w", err)
	}
	return &a, nil
}

// RecyclerRepository provides recycler reads scoped by owning association.
type RecyclerRepository struct {
	db DB
}

func NewRecyclerRepository(db DB) *RecyclerRepository {
	return &RecyclerRepository{db: db}
}

func (r *RecyclerRepository) ListByAssociation(ctx context.Context, associationID int64) ([]*domain.Recycler, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, name, phone, city, association_id, status, created_at
		FROM recyclers WHERE association_id = $1 ORDER BY name`, associationID)
	if err != nil {
		return nil, fmt.Errorf("list recyclers: %w", err)
	}
	defer rows.Close()

	out := []*domain.Recycler{}
	for rows.Next() {
		var rec domain.Recycler
		if err := rows.Scan(&rec.ID, &rec.Name, &rec.Phone, &rec.City, &rec.AssociationID, &rec.Status, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan recycler: %w", err)
		}
		out = append(out, &rec)
	}
	return out, rows.Err()
}

func (r *RecyclerRepository) UpdateStatus(ctx context.Context, recyclerID int64, status domain.RecyclerStatus) (*domain.Recycler, error) {
	var rec domain.Recycler
	err := r.db.QueryRow(ctx, `
		UPDATE recyclers SET status = $2 WHERE id = $1
		RETURNING id, name, phone, city, association_id, status, created_at`,
		recyclerID, status,
	).Scan(&rec.ID, &rec.Name, &rec.Phone, &rec.City, &rec.AssociationID, &rec.Status, &rec.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, fmt.Errorf("update recycler status: %w", err)
	}
	return &rec, nil
}

func (r *RecyclerRepository) CountByStatus(ctx context.Context, associationID int64) (map[domain.RecyclerStatus]int64, error) {
	rows, err := r.db.Query(ctx, `
		SELECT status, count(*) FROM recyclers
		WHERE association_id = $1 GROUP BY status`, associationID)
	if err != nil {
		return nil, fmt.Errorf("count recyclers: %w", err)
	}
	defer rows.Close()

	out := map[domain.RecyclerStatus]int64{}
	for rows.Next() {
		var status domain.RecyclerStatus
		var n int64
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("scan recycler count: %w", err)
		}
		out[status] = n
	}
	return out, rows.Err()
}

// CityRepository lists the registration city catalog.
type CityRepository struct {
	db DB
}

func NewCityRepository(db DB) *CityRepository {
	return &CityRepository{db: db}
}

func (r *CityRepository) List(ctx context.Context) ([]domain.City, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name FROM cities ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list cities: %w", err)
	}
	defer rows.Close()

	out := []domain.City{}
	for rows.Next() {
		var c domain.City
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("scan city: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
