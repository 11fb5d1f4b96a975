package ports

import (
	"time"

	"github.com/ecocolecta/pickup-system/internal/core/domain"
)

// Summary DTOs name exactly the fields each read path embeds, so the JSON
// contract never leaks columns a caller was not meant to see.

// CitizenSummary is the requester view embedded in association and recycler
// request listings.
type CitizenSummary struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address"`
}

// AssociationSummary is the contact card shown to citizens.
type AssociationSummary struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
	City  string `json:"city,omitempty"`
}

// RecyclerSummary is the worker view embedded in request listings.
type RecyclerSummary struct {
	ID     int64                 `json:"id"`
	Name   string                `json:"name"`
	Phone  string                `json:"phone"`
	Status domain.RecyclerStatus `json:"status,omitempty"`
}

// CitizenRequestView is a request as seen by its requester: the request plus
// the association contact and, once assigned, the recycler contact.
type CitizenRequestView struct {
	Request     domain.PickupRequest `json:"request"`
	Association AssociationSummary   `json:"association"`
	Recycler    *RecyclerSummary     `json:"recycler,omitempty"`
}

// AssociationRequestView is a request as seen by the target association:
// the request plus requester and assigned-worker summaries.
type AssociationRequestView struct {
	Request  domain.PickupRequest `json:"request"`
	Citizen  CitizenSummary       `json:"citizen"`
	Recycler *RecyclerSummary     `json:"recycler,omitempty"`
}

// RecyclerAssignmentView is a request as seen by the assigned recycler:
// the request plus the requester contact needed to perform the pickup.
type RecyclerAssignmentView struct {
	Request domain.PickupRequest `json:"request"`
	Citizen CitizenSummary       `json:"citizen"`
}

// MonthlyCount is one bucket of the trailing-six-month request histogram.
type MonthlyCount struct {
	Year  int   `json:"year"`
	Month int   `json:"month"`
	Total int64 `json:"total"`
}

// AssociationStats is the read-side snapshot computed for an association.
type AssociationStats struct {
	RecyclersByStatus map[domain.RecyclerStatus]int64 `json:"recyclers_by_status"`
	RequestsByStatus  map[domain.RequestStatus]int64  `json:"requests_by_status"`
	RequestsByMonth   []MonthlyCount                  `json:"requests_by_month"`
	TotalRecyclers    int64                           `json:"total_recyclers"`
	TotalRequests     int64                           `json:"total_requests"`
}

// Caller identifies an authenticated actor: resolved once by the auth
// middleware and passed explicitly to every role-scoped operation.
type Caller struct {
	IdentityID int64
	Role       string
	ProfileID  int64
}

// AuthResult is returned by registration and login.
type AuthResult struct {
	Identity *domain.Identity
	Profile  domain.Profile
	Token    string
	// ExpiresAt is when the issued token stops being accepted.
	ExpiresAt time.Time
}
