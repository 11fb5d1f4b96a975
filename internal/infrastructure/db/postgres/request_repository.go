package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/ecocolecta/pickup-system/internal/core/domain"
	"github.com/ecocolecta/pickup-system/internal/core/ports"
)

// RequestRepository persists pickup requests and performs the guarded
// lifecycle mutations.
type RequestRepository struct {
	db DB
}

func NewRequestRepository(db DB) *RequestRepository {
	return &RequestRepository{db: db}
}

const requestColumns = `r.id, r.citizen_id, r.association_id, r.recycler_id, r.address, r.city,
	r.references_note, r.materials, r.comments, r.request_date, r.collection_date,
	r.status, r.created_at, r.updated_at`

func scanRequest(row pgx.Row) (*domain.PickupRequest, error) {
	var req domain.PickupRequest
	err := row.Scan(
		&req.ID, &req.CitizenID, &req.AssociationID, &req.RecyclerID, &req.Address, &req.City,
		&req.References, &req.Materials, &req.Comments, &req.RequestDate, &req.CollectionDate,
		&req.Status, &req.CreatedAt, &req.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRequestNotFound
		}
		return nil, fmt.Errorf("scan request: %w", err)
	}
	return &req, nil
}

func (r *RequestRepository) Create(ctx context.Context, req *domain.PickupRequest) (*domain.PickupRequest, error) {
	created := *req
	err := r.db.QueryRow(ctx, `
		INSERT INTO pickup_requests
			(citizen_id, association_id, address, city, references_note, materials, comments, request_date, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10)
		RETURNING id`,
		req.CitizenID, req.AssociationID, req.Address, req.City, req.References,
		req.Materials, req.Comments, req.RequestDate, req.Status, req.CreatedAt,
	).Scan(&created.ID)
	if err != nil {
		return nil, fmt.Errorf("insert request: %w", err)
	}
	return &created, nil
}

// ListByCitizen returns the citizen's requests newest first, each with the
// association contact card and, once assigned, the recycler contact.
func (r *RequestRepository) ListByCitizen(ctx context.Context, citizenID int64) ([]ports.CitizenRequestView, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+requestColumns+`,
			a.id, a.name, a.phone,
			rec.id, rec.name, rec.phone
		FROM pickup_requests r
		JOIN associations a ON a.id = r.association_id
		LEFT JOIN recyclers rec ON rec.id = r.recycler_id
		WHERE r.citizen_id = $1
		ORDER BY r.created_at DESC`, citizenID)
	if err != nil {
		return nil, fmt.Errorf("list citizen requests: %w", err)
	}
	defer rows.Close()

	out := []ports.CitizenRequestView{}
	for rows.Next() {
		var v ports.CitizenRequestView
		var recID *int64
		var recName, recPhone *string
		err := rows.Scan(
			&v.Request.ID, &v.Request.CitizenID, &v.Request.AssociationID, &v.Request.RecyclerID,
			&v.Request.Address, &v.Request.City, &v.Request.References, &v.Request.Materials,
			&v.Request.Comments, &v.Request.RequestDate, &v.Request.CollectionDate,
			&v.Request.Status, &v.Request.CreatedAt, &v.Request.UpdatedAt,
			&v.Association.ID, &v.Association.Name, &v.Association.Phone,
			&recID, &recName, &recPhone,
		)
		if err != nil {
			return nil, fmt.Errorf("scan citizen request: %w", err)
		}
		if recID != nil {
			v.Recycler = &ports.RecyclerSummary{ID: *recID, Name: *recName, Phone: *recPhone}
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// FindForCitizen fetches one request inside the citizen's ownership scope.
func (r *RequestRepository) FindForCitizen(ctx context.Context, requestID, citizenID int64) (*ports.CitizenRequestView, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+requestColumns+`,
			a.id, a.name, a.phone,
			rec.id, rec.name, rec.phone
		FROM pickup_requests r
		JOIN associations a ON a.id = r.association_id
		LEFT JOIN recyclers rec ON rec.id = r.recycler_id
		WHERE r.id = $1 AND r.citizen_id = $2`, requestID, citizenID)

	var v ports.CitizenRequestView
	var recID *int64
	var recName, recPhone *string
	err := row.Scan(
		&v.Request.ID, &v.Request.CitizenID, &v.Request.AssociationID, &v.Request.RecyclerID,
		&v.Request.Address, &v.Request.City, &v.Request.References, &v.Request.Materials,
		&v.Request.Comments, &v.Request.RequestDate, &v.Request.CollectionDate,
		&v.Request.Status, &v.Request.CreatedAt, &v.Request.UpdatedAt,
		&v.Association.ID, &v.Association.Name, &v.Association.Phone,
		&recID, &recName, &recPhone,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRequestNotFound
		}
		return nil, fmt.Errorf("find citizen request: %w", err)
	}
	if recID != nil {
		v.Recycler = &ports.RecyclerSummary{ID: *recID, Name: *recName, Phone: *recPhone}
	}
	return &v, nil
}

// ListByAssociation returns the association's requests newest first with
// requester and assigned-worker summaries.
func (r *RequestRepository) ListByAssociation(ctx context.Context, associationID int64) ([]ports.AssociationRequestView, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+requestColumns+`,
			c.id, c.name, c.phone, c.address,
			rec.id, rec.name, rec.phone, rec.status
		FROM pickup_requests r
		JOIN citizens c ON c.id = r.citizen_id
		LEFT JOIN recyclers rec ON rec.id = r.recycler_id
		WHERE r.association_id = $1
		ORDER BY r.created_at DESC`, associationID)
	if err != nil {
		return nil, fmt.Errorf("list association requests: %w", err)
	}
	defer rows.Close()

	out := []ports.AssociationRequestView{}
	for rows.Next() {
		var v ports.AssociationRequestView
		var recID *int64
		var recName, recPhone *string
		var recStatus *domain.RecyclerStatus
		err := rows.Scan(
			&v.Request.ID, &v.Request.CitizenID, &v.Request.AssociationID, &v.Request.RecyclerID,
			&v.Request.Address, &v.Request.City, &v.Request.References, &v.Request.Materials,
			&v.Request.Comments, &v.Request.RequestDate, &v.Request.CollectionDate,
			&v.Request.Status, &v.Request.CreatedAt, &v.Request.UpdatedAt,
			&v.Citizen.ID, &v.Citizen.Name, &v.Citizen.Phone, &v.Citizen.Address,
			&recID, &recName, &recPhone, &recStatus,
		)
		if err != nil {
			return nil, fmt.Errorf("scan association request: %w", err)
		}
		if recID != nil {
			v.Recycler = &ports.RecyclerSummary{ID: *recID, Name: *recName, Phone: *recPhone, Status: *recStatus}
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (r *RequestRepository) listByRecycler(ctx context.Context, recyclerID int64, where, order string) ([]ports.RecyclerAssignmentView, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+requestColumns+`,
			c.id, c.name, c.phone, c.address
		FROM pickup_requests r
		JOIN citizens c ON c.id = r.citizen_id
		WHERE r.recycler_id = $1 AND `+where+`
		ORDER BY `+order, recyclerID)
	if err != nil {
		return nil, fmt.Errorf("list recycler assignments: %w", err)
	}
	defer rows.Close()

	out := []ports.RecyclerAssignmentView{}
	for rows.Next() {
		var v ports.RecyclerAssignmentView
		err := rows.Scan(
			&v.Request.ID, &v.Request.CitizenID, &v.Request.AssociationID, &v.Request.RecyclerID,
			&v.Request.Address, &v.Request.City, &v.Request.References, &v.Request.Materials,
			&v.Request.Comments, &v.Request.RequestDate, &v.Request.CollectionDate,
			&v.Request.Status, &v.Request.CreatedAt, &v.Request.UpdatedAt,
			&v.Citizen.ID, &v.Citizen.Name, &v.Citizen.Phone, &v.Citizen.Address,
		)
		if err != nil {
			return nil, fmt.Errorf("scan recycler assignment: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (r *RequestRepository) ListActiveByRecycler(ctx context.Context, recyclerID int64) ([]ports.RecyclerAssignmentView, error) {
	return r.listByRecycler(ctx, recyclerID,
		"r.status IN ('assigned', 'in_progress')", "r.collection_date ASC")
}

func (r *RequestRepository) ListHistoryByRecycler(ctx context.Context, recyclerID int64) ([]ports.RecyclerAssignmentView, error) {
	return r.listByRecycler(ctx, recyclerID,
		"r.status = 'completed'", "r.collection_date DESC")
}

// Assign runs the availability-check-then-assign sequence as one transaction
// with both rows locked. Two concurrent calls against the same recycler
// serialize on the recycler row; the loser re-reads a request that is no
// longer pending (or a recycler that is no longer the winner's) and fails
// without mutating anything.
func (r *RequestRepository) Assign(ctx context.Context, requestID, associationID, recyclerID int64, collectionDate time.Time) (*domain.PickupRequest, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, fmt.Errorf("begin assign tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// Lock order: recycler first, then request. All assign calls take the
	// same order, so two racing assigns cannot deadlock.
	var recyclerStatus domain.RecyclerStatus
	err = tx.QueryRow(ctx, `
		SELECT status FROM recyclers
		WHERE id = $1 AND association_id = $2
		FOR UPDATE`, recyclerID, associationID,
	).Scan(&recyclerStatus)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, fmt.Errorf("lock recycler: %w", err)
	}

	var requestStatus domain.RequestStatus
	err = tx.QueryRow(ctx, `
		SELECT status FROM pickup_requests
		WHERE id = $1 AND association_id = $2
		FOR UPDATE`, requestID, associationID,
	).Scan(&requestStatus)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRequestNotFound
		}
		return nil, fmt.Errorf("lock request: %w", err)
	}

	if recyclerStatus != domain.RecyclerAvailable {
		return nil, domain.ErrRecyclerUnavailable
	}
	if requestStatus != domain.StatusPending {
		return nil, domain.ErrRequestNotPending
	}

	row := tx.QueryRow(ctx, `
		UPDATE pickup_requests r SET
			recycler_id = $2,
			collection_date = $3,
			status = 'assigned',
			updated_at = now()
		WHERE r.id = $1
		RETURNING `+requestColumns,
		requestID, recyclerID, collectionDate)
	assigned, err := scanRequest(row)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit assign tx: %w", err)
	}
	return assigned, nil
}

// Advance moves an owned assignment one legal step forward under a row lock.
func (r *RequestRepository) Advance(ctx context.Context, requestID, recyclerID int64, next domain.RequestStatus, comments *string) (*domain.PickupRequest, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, fmt.Errorf("begin advance tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var current domain.RequestStatus
	err = tx.QueryRow(ctx, `
		SELECT status FROM pickup_requests
		WHERE id = $1 AND recycler_id = $2
		FOR UPDATE`, requestID, recyclerID,
	).Scan(&current)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRequestNotFound
		}
		return nil, fmt.Errorf("lock request: %w", err)
	}

	if !current.CanTransitionTo(next) {
		return nil, domain.ErrInvalidTransition
	}

	row := tx.QueryRow(ctx, `
		UPDATE pickup_requests r SET
			status = $2,
			comments = COALESCE($3, comments),
			updated_at = now()
		WHERE r.id = $1
		RETURNING `+requestColumns,
		requestID, next, comments)
	advanced, err := scanRequest(row)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit advance tx: %w", err)
	}
	return advanced, nil
}

func (r *RequestRepository) CancelByCitizen(ctx context.Context, requestID, citizenID int64) (*domain.PickupRequest, error) {
	return r.cancel(ctx, requestID, "citizen_id", citizenID)
}

func (r *RequestRepository) CancelByAssociation(ctx context.Context, requestID, associationID int64) (*domain.PickupRequest, error) {
	return r.cancel(ctx, requestID, "association_id", associationID)
}

// cancel moves a not-yet-finalized request to cancelled within the given
// ownership column. The assignment stamp is cleared with it: a cancelled
// row never keeps a recycler or a collection date. ownerColumn is one of
// the two constants above, never caller input.
func (r *RequestRepository) cancel(ctx context.Context, requestID int64, ownerColumn string, ownerID int64) (*domain.PickupRequest, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, fmt.Errorf("begin cancel tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var current domain.RequestStatus
	err = tx.QueryRow(ctx, `
		SELECT status FROM pickup_requests
		WHERE id = $1 AND `+ownerColumn+` = $2
		FOR UPDATE`, requestID, ownerID,
	).Scan(&current)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRequestNotFound
		}
		return nil, fmt.Errorf("lock request: %w", err)
	}

	if !current.CanTransitionTo(domain.StatusCancelled) {
		return nil, domain.ErrRequestFinalized
	}

	row := tx.QueryRow(ctx, `
		UPDATE pickup_requests r SET
			status = 'cancelled',
			recycler_id = NULL,
			collection_date = NULL,
			updated_at = now()
		WHERE r.id = $1
		RETURNING `+requestColumns, requestID)
	cancelled, err := scanRequest(row)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit cancel tx: %w", err)
	}
	return cancelled, nil
}

func (r *RequestRepository) CountByStatus(ctx context.Context, associationID int64) (map[domain.RequestStatus]int64, error) {
	rows, err := r.db.Query(ctx, `
		SELECT status, count(*) FROM pickup_requests
		WHERE association_id = $1 GROUP BY status`, associationID)
	if err != nil {
		return nil, fmt.Errorf("count requests: %w", err)
	}
	defer rows.Close()

	out := map[domain.RequestStatus]int64{}
	for rows.Next() {
		var status domain.RequestStatus
		var n int64
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("scan request count: %w", err)
		}
		out[status] = n
	}
	return out, rows.Err()
}

// MonthlyCounts buckets request creations by calendar month, chronologically.
func (r *RequestRepository) MonthlyCounts(ctx context.Context, associationID int64, since time.Time) ([]ports.MonthlyCount, error) {
	rows, err := r.db.Query(ctx, `
		SELECT EXTRACT(YEAR FROM created_at)::int, EXTRACT(MONTH FROM created_at)::int, count(*)
		FROM pickup_requests
		WHERE association_id = $1 AND created_at >= $2
		GROUP BY 1, 2
		ORDER BY 1, 2`, associationID, since)
	if err != nil {
		return nil, fmt.Errorf("monthly counts: %w", err)
	}
	defer rows.Close()

	out := []ports.MonthlyCount{}
	for rows.Next() {
		var m ports.MonthlyCount
		if err := rows.Scan(&m.Year, &m.Month, &m.Total); err != nil {
			return nil, fmt.Errorf("scan monthly count: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
