package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ecocolecta/pickup-system/internal/core/domain"
	"github.com/ecocolecta/pickup-system/internal/core/ports"
)

type stubCitizenService struct {
	listRequestsFn     func(ctx context.Context, citizenID int64) ([]ports.CitizenRequestView, error)
	getRequestFn       func(ctx context.Context, citizenID, requestID int64) (*ports.CitizenRequestView, error)
	createRequestFn    func(ctx context.Context, citizenID int64, in ports.CreateRequestInput) (*domain.PickupRequest, error)
	cancelRequestFn    func(ctx context.Context, citizenID, requestID int64) (*domain.PickupRequest, error)
	listAssociationsFn func(ctx context.Context) ([]ports.AssociationSummary, error)
}

func (s *stubCitizenService) ListRequests(ctx context.Context, citizenID int64) ([]ports.CitizenRequestView, error) {
	return s.listRequestsFn(ctx, citizenID)
}

func (s *stubCitizenService) GetRequest(ctx context.Context, citizenID, requestID int64) (*ports.CitizenRequestView, error) {
	return s.getRequestFn(ctx, citizenID, requestID)
}

func (s *stubCitizenService) CreateRequest(ctx context.Context, citizenID int64, in ports.CreateRequestInput) (*domain.PickupRequest, error) {
	return s.createRequestFn(ctx, citizenID, in)
}

func (s *stubCitizenService) CancelRequest(ctx context.Context, citizenID, requestID int64) (*domain.PickupRequest, error) {
	return s.cancelRequestFn(ctx, citizenID, requestID)
}

func (s *stubCitizenService) ListAssociations(ctx context.Context) ([]ports.AssociationSummary, error) {
	return s.listAssociationsFn(ctx)
}

func citizenCaller(c echo.Context) {
	c.Set("caller", ports.Caller{IdentityID: 7, Role: domain.RoleCitizen, ProfileID: 5})
}

func TestCitizenHandler_CreateRequest(t *testing.T) {
	stub := &stubCitizenService{
		createRequestFn: func(_ context.Context, citizenID int64, in ports.CreateRequestInput) (*domain.PickupRequest, error) {
			if citizenID != 5 {
				t.Fatalf("caller profile must be used, got %d", citizenID)
			}
			want := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
			if !in.RequestDate.Equal(want) {
				t.Fatalf("unexpected request date: %v", in.RequestDate)
			}
			return &domain.PickupRequest{ID: 42, CitizenID: citizenID, Status: domain.StatusPending}, nil
		},
	}
	h := NewCitizenHandler(stub)

	body := `{"association_id":2,"address":"Calle 1 #23","city":"Bogota","materials":"cardboard","request_date":"2026-09-01"}`
	c, rec := newTestContext(t, http.MethodPost, "/citizen/requests", body)
	citizenCaller(c)

	if err := h.CreateRequest(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
}

func TestCitizenHandler_CreateRequest_BadDate(t *testing.T) {
	stub := &stubCitizenService{
		createRequestFn: func(context.Context, int64, ports.CreateRequestInput) (*domain.PickupRequest, error) {
			t.Fatal("service must not be called")
			return nil, nil
		},
	}
	h := NewCitizenHandler(stub)

	body := `{"association_id":2,"address":"x","city":"Bogota","materials":"cardboard","request_date":"01/09/2026"}`
	c, _ := newTestContext(t, http.MethodPost, "/citizen/requests", body)
	citizenCaller(c)

	err := h.CreateRequest(c)
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, ok := ve.Fields["request_date"]; !ok {
		t.Fatalf("expected request_date error, got %+v", ve.Fields)
	}
}

func TestCitizenHandler_GetRequest_GarbageID(t *testing.T) {
	// A non-numeric id must behave like a missing row, not a bad request.
	h := NewCitizenHandler(&stubCitizenService{})

	c, _ := newTestContext(t, http.MethodGet, "/citizen/requests/abc", "")
	citizenCaller(c)
	c.SetParamNames("id")
	c.SetParamValues("abc")

	err := h.GetRequest(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %v", err)
	}
}

func TestCitizenHandler_NoCaller(t *testing.T) {
	h := NewCitizenHandler(&stubCitizenService{})
	c, _ := newTestContext(t, http.MethodGet, "/citizen/requests", "")

	err := h.ListRequests(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}
