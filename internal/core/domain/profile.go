package domain

import (
	"errors"
	"time"
)

var ErrProfileNotFound = errors.New("profile not found")

// RecyclerStatus is the availability flag a recycler manages for itself.
type RecyclerStatus string

const (
	RecyclerAvailable RecyclerStatus = "available"
	RecyclerEnRoute   RecyclerStatus = "en_route"
	RecyclerInactive  RecyclerStatus = "inactive"
)

// ValidRecyclerStatus reports whether s is a member of the availability domain.
func ValidRecyclerStatus(s RecyclerStatus) bool {
	switch s {
	case RecyclerAvailable, RecyclerEnRoute, RecyclerInactive:
		return true
	}
	return false
}

// Profile is the sum type over the three role-specific profile records.
// It is resolved once at authentication and passed explicitly through the
// call chain; callers switch on the concrete type, never on a role string.
type Profile interface {
	ProfileID() int64
	Role() string
}

// Citizen is the requester profile.
type Citizen struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Phone         string    `json:"phone,omitempty"`
	Address       string    `json:"address"`
	City          string    `json:"city"`
	LocationNotes string    `json:"location_notes,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

func (c *Citizen) ProfileID() int64 { return c.ID }
func (c *Citizen) Role() string     { return RoleCitizen }

// Association is a collection organization. Verified gates visibility to
// citizens browsing associations.
type Association struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Phone       string    `json:"phone"`
	Address     string    `json:"address,omitempty"`
	City        string    `json:"city"`
	Description string    `json:"description,omitempty"`
	LogoURL     string    `json:"logo_url,omitempty"`
	Verified    bool      `json:"verified"`
	CreatedAt   time.Time `json:"created_at"`
}

func (a *Association) ProfileID() int64 { return a.ID }
func (a *Association) Role() string     { return RoleAssociation }

// Recycler is a field worker employed by exactly one association.
// AssociationID is required and immutable.
type Recycler struct {
	ID            int64          `json:"id"`
	Name          string         `json:"name"`
	Phone         string         `json:"phone"`
	City          string         `json:"city"`
	AssociationID int64          `json:"association_id"`
	Status        RecyclerStatus `json:"status"`
	CreatedAt     time.Time      `json:"created_at"`
}

func (r *Recycler) ProfileID() int64 { return r.ID }
func (r *Recycler) Role() string     { return RoleRecycler }

// City is a catalog entry offered to users at registration time.
type City struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
