package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/iho/gobudget/internal/adapter/http/dto"
	"github.com/iho/gobudget/internal/domain"
	"github.com/iho/gobudget/internal/usecase"
)

type debtServiceStub struct {
	addPaymentFn func(ctx context.Context, input usecase.AddPaymentInput) (*domain.Debt, error)
	addChargeFn  func(ctx context.Context, input usecase.AddChargeInput) (*domain.Debt, error)
	getFn        func(ctx context.Context, a, b string) (*domain.Debt, error)
	listFn       func(ctx context.Context, uid string) ([]*domain.Debt, error)
}

func (s *debtServiceStub) AddPayment(ctx context.Context, input usecase.AddPaymentInput) (*domain.Debt, error) {
	return s.addPaymentFn(ctx, input)
}

func (s *debtServiceStub) AddCharge(ctx context.Context, input usecase.AddChargeInput) (*domain.Debt, error) {
	return s.addChargeFn(ctx, input)
}

func (s *debtServiceStub) GetDebt(ctx context.Context, a, b string) (*domain.Debt, error) {
	return s.getFn(ctx, a, b)
}

func (s *debtServiceStub) ListDebts(ctx context.Context, uid string) ([]*domain.Debt, error) {
	return s.listFn(ctx, uid)
}

func TestDebtHandler_AddCharge(t *testing.T) {
	handler := NewDebtHandler(&debtServiceStub{
		addChargeFn: func(ctx context.Context, input usecase.AddChargeInput) (*domain.Debt, error) {
			if input.DebtorUID != "bob" || input.CreditorUID != "alice" {
				t.Fatalf("unexpected charge input: %+v", input)
			}
			return &domain.Debt{
				U1:        "alice",
				U2:        "bob",
				Balance:   domain.MustParseMoney("-30.00"),
				UpdatedAt: time.Now(),
			}, nil
		},
	})

	body, _ := json.Marshal(dto.AddChargeRequest{
		DebtorUID:   "bob",
		CreditorUID: "alice",
		Amount:      domain.MustParseMoney("30.00"),
	})
	req := httptest.NewRequest(http.MethodPost, "/debts/charges", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.AddCharge(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp dto.DebtResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.UID != "bob" || resp.OtherUID != "alice" {
		t.Fatalf("expected debtor's view, got %+v", resp)
	}
	if !resp.Owed.Equal(domain.MustParseMoney("30.00")) {
		t.Fatalf("expected bob to owe 30.00, got %s", resp.Owed)
	}
}

func TestDebtHandler_AddCharge_SelfDebt(t *testing.T) {
	handler := NewDebtHandler(&debtServiceStub{
		addChargeFn: func(ctx context.Context, input usecase.AddChargeInput) (*domain.Debt, error) {
			return nil, domain.ErrSelfDebt
		},
	})

	body, _ := json.Marshal(dto.AddChargeRequest{
		DebtorUID:   "alice",
		CreditorUID: "alice",
		Amount:      domain.MustParseMoney("10.00"),
	})
	req := httptest.NewRequest(http.MethodPost, "/debts/charges", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.AddCharge(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestDebtHandler_AddPayment(t *testing.T) {
	handler := NewDebtHandler(&debtServiceStub{
		addPaymentFn: func(ctx context.Context, input usecase.AddPaymentInput) (*domain.Debt, error) {
			if input.FromUID != "bob" || input.ToUID != "alice" {
				t.Fatalf("unexpected payment input: %+v", input)
			}
			return &domain.Debt{
				U1:        "alice",
				U2:        "bob",
				Balance:   domain.MustParseMoney("-20.00"),
				UpdatedAt: time.Now(),
			}, nil
		},
	})

	body, _ := json.Marshal(dto.AddPaymentRequest{
		FromUID: "bob",
		ToUID:   "alice",
		Amount:  domain.MustParseMoney("10.00"),
	})
	req := httptest.NewRequest(http.MethodPost, "/debts/payments", bytes.NewReader(body))
	req = withUser(req, &domain.User{ID: "bob", GroupID: "household-2"})
	rec := httptest.NewRecorder()

	handler.AddPayment(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp dto.DebtResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp.Owed.Equal(domain.MustParseMoney("20.00")) {
		t.Fatalf("expected bob to still owe 20.00, got %s", resp.Owed)
	}
}

func TestDebtHandler_AddPayment_NotAParty(t *testing.T) {
	handler := NewDebtHandler(&debtServiceStub{
		addPaymentFn: func(ctx context.Context, input usecase.AddPaymentInput) (*domain.Debt, error) {
			t.Fatal("AddPayment should not be called by a non-party")
			return nil, nil
		},
	})

	body, _ := json.Marshal(dto.AddPaymentRequest{
		FromUID: "bob",
		ToUID:   "alice",
		Amount:  domain.MustParseMoney("10.00"),
	})
	req := httptest.NewRequest(http.MethodPost, "/debts/payments", bytes.NewReader(body))
	req = withUser(req, &domain.User{ID: "carol", GroupID: "household-3"})
	rec := httptest.NewRecorder()

	handler.AddPayment(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestDebtHandler_Get(t *testing.T) {
	handler := NewDebtHandler(&debtServiceStub{
		getFn: func(ctx context.Context, a, b string) (*domain.Debt, error) {
			return &domain.Debt{
				U1:      "alice",
				U2:      "bob",
				Balance: domain.MustParseMoney("-15.00"),
			}, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/users/alice/debts/bob", nil)
	req = setChiURLParams(req, map[string]string{"uid": "alice", "other": "bob"})
	rec := httptest.NewRecorder()

	handler.Get(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp dto.DebtResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.UID != "alice" || resp.OtherUID != "bob" {
		t.Fatalf("expected alice's view, got %+v", resp)
	}
	if !resp.Owed.Equal(domain.MustParseMoney("-15.00")) {
		t.Fatalf("expected bob to owe alice 15.00, got %s", resp.Owed)
	}
}

func TestDebtHandler_List(t *testing.T) {
	handler := NewDebtHandler(&debtServiceStub{
		listFn: func(ctx context.Context, uid string) ([]*domain.Debt, error) {
			if uid != "bob" {
				t.Fatalf("expected uid bob, got %q", uid)
			}
			return []*domain.Debt{
				{U1: "alice", U2: "bob", Balance: domain.MustParseMoney("-20.00")},
				{U1: "bob", U2: "carol", Balance: domain.MustParseMoney("5.00")},
			}, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/users/bob/debts/", nil)
	req = setChiURLParams(req, map[string]string{"uid": "bob"})
	req = withUser(req, &domain.User{ID: "bob", GroupID: "household-2"})
	rec := httptest.NewRecorder()

	handler.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp []*dto.DebtResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp) != 2 {
		t.Fatalf("expected 2 debts, got %d", len(resp))
	}
	if !resp[0].Owed.Equal(domain.MustParseMoney("20.00")) {
		t.Fatalf("expected bob owes alice 20.00, got %s", resp[0].Owed)
	}
	if !resp[1].Owed.Equal(domain.MustParseMoney("5.00")) {
		t.Fatalf("expected bob owes carol 5.00, got %s", resp[1].Owed)
	}
}

func TestDebtHandler_List_OtherUsersDebts(t *testing.T) {
	handler := NewDebtHandler(&debtServiceStub{
		listFn: func(ctx context.Context, uid string) ([]*domain.Debt, error) {
			t.Fatal("ListDebts should not be called for another user's debts")
			return nil, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/users/alice/debts/", nil)
	req = setChiURLParams(req, map[string]string{"uid": "alice"})
	req = withUser(req, &domain.User{ID: "carol", GroupID: "household-3"})
	rec := httptest.NewRecorder()

	handler.List(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}
