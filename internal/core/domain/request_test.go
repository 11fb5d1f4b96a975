package domain

import "testing"

func TestCanTransitionTo(t *testing.T) {
	cases := []struct {
		from    RequestStatus
		to      RequestStatus
		allowed bool
	}{
		{StatusPending, StatusAssigned, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusInProgress, false},
		{StatusPending, StatusCompleted, false},
		{StatusAssigned, StatusInProgress, true},
		{StatusAssigned, StatusCancelled, true},
		{StatusAssigned, StatusCompleted, false},
		{StatusAssigned, StatusPending, false},
		{StatusInProgress, StatusCompleted, true},
		{StatusInProgress, StatusCancelled, false},
		{StatusInProgress, StatusPending, false},
		{StatusCompleted, StatusCancelled, false},
		{StatusCompleted, StatusPending, false},
		{StatusCancelled, StatusAssigned, false},
		{StatusCancelled, StatusPending, false},
	}

	for _, tc := range cases {
		if got := tc.from.CanTransitionTo(tc.to); got != tc.allowed {
			t.Errorf("%s -> %s: got %v, want %v", tc.from, tc.to, got, tc.allowed)
		}
	}
}

func TestTerminal(t *testing.T) {
	terminal := map[RequestStatus]bool{
		StatusPending:    false,
		StatusAssigned:   false,
		StatusInProgress: false,
		StatusCompleted:  true,
		StatusCancelled:  true,
	}
	for status, want := range terminal {
		if got := status.Terminal(); got != want {
			t.Errorf("%s.Terminal() = %v, want %v", status, got, want)
		}
	}
}

func TestValidRequestStatus(t *testing.T) {
	for _, s := range []RequestStatus{StatusPending, StatusAssigned, StatusInProgress, StatusCompleted, StatusCancelled} {
		if !ValidRequestStatus(s) {
			t.Errorf("expected %s to be valid", s)
		}
	}
	for _, s := range []RequestStatus{"", "delivered", "PENDING", "archived"} {
		if ValidRequestStatus(s) {
			t.Errorf("expected %q to be invalid", s)
		}
	}
}

func TestValidRole(t *testing.T) {
	for _, r := range []string{RoleCitizen, RoleRecycler, RoleAssociation} {
		if !ValidRole(r) {
			t.Errorf("expected %s to be valid", r)
		}
	}
	for _, r := range []string{"", "admin", "Citizen"} {
		if ValidRole(r) {
			t.Errorf("expected %q to be invalid", r)
		}
	}
}

func TestValidRecyclerStatus(t *testing.T) {
	for _, s := range []RecyclerStatus{RecyclerAvailable, RecyclerEnRoute, RecyclerInactive} {
		if !ValidRecyclerStatus(s) {
			t.Errorf("expected %s to be valid", s)
		}
	}
	if ValidRecyclerStatus("busy") {
		t.Error("expected busy to be invalid")
	}
}

func TestValidationErrorMessage(t *testing.T) {
	err := &ValidationError{Fields: map[string]string{
		"email":    "email is required",
		"password": "password must be at least 8 characters",
	}}
	want := "email: email is required; password: password must be at least 8 characters"
	if err.Error() != want {
		t.Errorf("unexpected message: %q", err.Error())
	}

	empty := &ValidationError{}
	if empty.Error() != "validation failed" {
		t.Errorf("unexpected empty message: %q", empty.Error())
	}
}
