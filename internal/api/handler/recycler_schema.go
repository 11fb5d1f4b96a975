package handler

// advanceRequest moves an assignment forward (in_progress or completed).
// Comments, when present, replace the request comments with field notes.
type advanceRequest struct {
	Status   string  `json:"status" validate:"required,oneof=in_progress completed"`
	Comments *string `json:"comments"`
}

// availabilityRequest sets the recycler's own availability flag.
type availabilityRequest struct {
	Status string `json:"status" validate:"required,oneof=available en_route inactive"`
}
