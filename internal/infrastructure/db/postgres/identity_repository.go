package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ecocolecta/pickup-system/internal/core/domain"
)

// uniqueViolation is the Postgres SQLSTATE for a unique-constraint failure.
const uniqueViolation = "23505"

// IdentityRepository persists identities and their paired profiles.
type IdentityRepository struct {
	db DB
}

func NewIdentityRepository(db DB) *IdentityRepository {
	return &IdentityRepository{db: db}
}

const identityColumns = "id, email, password_hash, role, profile_id, created_at, updated_at"

func scanIdentity(row pgx.Row) (*domain.Identity, error) {
	var ident domain.Identity
	err := row.Scan(&ident.ID, &ident.Email, &ident.PasswordHash, &ident.Role, &ident.ProfileID, &ident.CreatedAt, &ident.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrIdentityNotFound
		}
		return nil, fmt.Errorf("scan identity: %w", err)
	}
	return &ident, nil
}

func (r *IdentityRepository) FindByEmail(ctx context.Context, email string) (*domain.Identity, error) {
	row := r.db.QueryRow(ctx,
		"SELECT "+identityColumns+" FROM identities WHERE email = $1", email)
	return scanIdentity(row)
}

func (r *IdentityRepository) FindByID(ctx context.Context, id int64) (*domain.Identity, error) {
	row := r.db.QueryRow(ctx,
		"SELECT "+identityColumns+" FROM identities WHERE id = $1", id)
	return scanIdentity(row)
}

// Register inserts the profile and the identity referencing it inside one
// transaction. A duplicate email rolls the profile back with it: no orphans.
func (r *IdentityRepository) Register(ctx context.Context, identity *domain.Identity, profile domain.Profile) (*domain.Identity, domain.Profile, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, nil, fmt.Errorf("begin register tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	createdProfile, err := insertProfile(ctx, tx, profile)
	if err != nil {
		return nil, nil, err
	}

	created := *identity
	created.Role = createdProfile.Role()
	created.ProfileID = createdProfile.ProfileID()

	err = tx.QueryRow(ctx, `
		INSERT INTO identities (email, password_hash, role, profile_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`,
		created.Email, created.PasswordHash, created.Role, created.ProfileID, created.CreatedAt, created.UpdatedAt,
	).Scan(&created.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, nil, domain.ErrDuplicateEmail
		}
		return nil, nil, fmt.Errorf("insert identity: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, fmt.Errorf("commit register tx: %w", err)
	}
	return &created, createdProfile, nil
}

// insertProfile writes the concrete profile row and returns it with its id.
func insertProfile(ctx context.Context, tx pgx.Tx, profile domain.Profile) (domain.Profile, error) {
	switch p := profile.(type) {
	case *domain.Citizen:
		created := *p
		err := tx.QueryRow(ctx, `
			INSERT INTO citizens (name, phone, address, city, location_notes)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id, created_at`,
			p.Name, p.Phone, p.Address, p.City, p.LocationNotes,
		).Scan(&created.ID, &created.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("insert citizen: %w", err)
		}
		return &created, nil
	case *domain.Association:
		created := *p
		err := tx.QueryRow(ctx, `
			INSERT INTO associations (name, phone, address, city, description, logo_url, verified)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id, created_at`,
			p.Name, p.Phone, p.Address, p.City, p.Description, p.LogoURL, p.Verified,
		).Scan(&created.ID, &created.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("insert association: %w", err)
		}
		return &created, nil
	case *domain.Recycler:
		created := *p
		err := tx.QueryRow(ctx, `
			INSERT INTO recyclers (name, phone, city, association_id, status)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id, created_at`,
			p.Name, p.Phone, p.City, p.AssociationID, p.Status,
		).Scan(&created.ID, &created.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("insert recycler: %w", err)
		}
		return &created, nil
	default:
		return nil, fmt.Errorf("unsupported profile type %T", profile)
	}
}

// ResolveProfile loads the profile row referenced by the identity.
func (r *IdentityRepository) ResolveProfile(ctx context.Context, identity *domain.Identity) (domain.Profile, error) {
	switch identity.Role {
	case domain.RoleCitizen:
		var c domain.Citizen
		err := r.db.QueryRow(ctx, `
			SELECT id, name, phone, address, city, location_notes, created_at
			FROM citizens WHERE id = $1`, identity.ProfileID,
		).Scan(&c.ID, &c.Name, &c.Phone, &c.Address, &c.City, &c.LocationNotes, &c.CreatedAt)
		if err != nil {
			return nil, resolveErr(err)
		}
		return &c, nil
	case domain.RoleAssociation:
		var a domain.Association
		err := r.db.QueryRow(ctx, `
			SELECT id, name, phone, address, city, description, logo_url, verified, created_at
			FROM associations WHERE id = $1`, identity.ProfileID,
		).Scan(&a.ID, &a.Name, &a.Phone, &a.Address, &a.City, &a.Description, &a.LogoURL, &a.Verified, &a.CreatedAt)
		if err != nil {
			return nil, resolveErr(err)
		}
		return &a, nil
	case domain.RoleRecycler:
		var rec domain.Recycler
		err := r.db.QueryRow(ctx, `
			SELECT id, name, phone, city, association_id, status, created_at
			FROM recyclers WHERE id = $1`, identity.ProfileID,
		).Scan(&rec.ID, &rec.Name, &rec.Phone, &rec.City, &rec.AssociationID, &rec.Status, &rec.CreatedAt)
		if err != nil {
			return nil, resolveErr(err)
		}
		return &rec, nil
	default:
		return nil, domain.ErrIdentityNotFound
	}
}

func resolveErr(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrIdentityNotFound
	}
	return fmt.Errorf("resolve profile: %w", err)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
