package domain

import (
	"errors"
	"time"
)

// RequestStatus represents the lifecycle state of a pickup request.
type RequestStatus string

const (
	StatusPending    RequestStatus = "pending"
	StatusAssigned   RequestStatus = "assigned"
	StatusInProgress RequestStatus = "in_progress"
	StatusCompleted  RequestStatus = "completed"
	StatusCancelled  RequestStatus = "cancelled"
)

// validTransitions defines the allowed state machine transitions.
// Cancellation branches off pending and assigned only; in_progress work
// must run to completion, and terminal states are immutable.
var validTransitions = map[RequestStatus][]RequestStatus{
	StatusPending:    {StatusAssigned, StatusCancelled},
	StatusAssigned:   {StatusInProgress, StatusCancelled},
	StatusInProgress: {StatusCompleted},
}

var (
	ErrRequestNotFound     = errors.New("request not found")
	ErrInvalidTransition   = errors.New("invalid status transition")
	ErrRequestNotPending   = errors.New("request already assigned or completed")
	ErrRequestFinalized    = errors.New("request already completed or cancelled")
	ErrRecyclerUnavailable = errors.New("recycler not available")
)

// CanTransitionTo reports whether a transition from the current status to next is valid.
func (s RequestStatus) CanTransitionTo(next RequestStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Terminal reports whether the status admits no further transitions.
func (s RequestStatus) Terminal() bool {
	return len(validTransitions[s]) == 0
}

// ValidRequestStatus reports whether s is a member of the status domain.
func ValidRequestStatus(s RequestStatus) bool {
	switch s {
	case StatusPending, StatusAssigned, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// PickupRequest is the core aggregate: a collection work item created by a
// citizen, targeted at an association, and worked by one of its recyclers.
//
// Invariants maintained by the lifecycle engine:
//   - RecyclerID non-nil implies status in {assigned, in_progress, completed}.
//   - CollectionDate non-nil implies RecyclerID non-nil.
//   - AssociationID is fixed at creation and never reassigned.
type PickupRequest struct {
	ID             int64          `json:"id"`
	CitizenID      int64          `json:"citizen_id"`
	AssociationID  int64          `json:"association_id"`
	RecyclerID     *int64         `json:"recycler_id,omitempty"`
	Address        string         `json:"address"`
	City           string         `json:"city"`
	References     string         `json:"references,omitempty"`
	Materials      string         `json:"materials"`
	Comments       string         `json:"comments,omitempty"`
	RequestDate    time.Time      `json:"request_date"`
	CollectionDate *time.Time     `json:"collection_date,omitempty"`
	Status         RequestStatus  `json:"status"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// StatusChange records a single lifecycle transition for the audit trail.
type StatusChange struct {
	RequestID int64
	From      RequestStatus
	To        RequestStatus
	ActorRole string
	ActorID   int64
	Notes     string
	ChangedAt time.Time
}
