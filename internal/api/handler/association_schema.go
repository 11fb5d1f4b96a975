package handler

// assignRequest binds a pending request to one of the association's recyclers.
type assignRequest struct {
	RequestID      int64  `json:"request_id" validate:"required,gt=0"`
	RecyclerID     int64  `json:"recycler_id" validate:"required,gt=0"`
	CollectionDate string `json:"collection_date" validate:"required"`
}

// registerRecyclerRequest creates a worker account owned by the calling
// association. No token is issued; the recycler logs in on their own.
type registerRecyclerRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name" validate:"required"`
	Phone    string `json:"phone" validate:"required"`
	City     string `json:"city" validate:"required"`
}

// updateProfileRequest is a partial update: absent fields stay unchanged.
type updateProfileRequest struct {
	Name        *string `json:"name"`
	Phone       *string `json:"phone"`
	Address     *string `json:"address"`
	Description *string `json:"description"`
}
