package wallet

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	pkgerrors "github.com/matrknhash/marketplace-backend/pkg/errors"
)

type stubWalletRepo struct {
	balance    decimal.Decimal
	balanceErr error
	debitRows  int64
	debitErr   error
	creditRows int64
	creditErr  error

	debited  []decimal.Decimal
	credited []decimal.Decimal
}

func (s *stubWalletRepo) WithTx(tx *gorm.DB) Repository {
	return s
}

func (s *stubWalletRepo) Balance(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error) {
	if s.balanceErr != nil {
		return decimal.Zero, s.balanceErr
	}
	return s.balance, nil
}

func (s *stubWalletRepo) Debit(ctx context.Context, userID uuid.UUID, amount decimal.Decimal) (int64, error) {
	s.debited = append(s.debited, amount)
	return s.debitRows, s.debitErr
}

func (s *stubWalletRepo) Credit(ctx context.Context, userID uuid.UUID, amount decimal.Decimal) (int64, error) {
	s.credited = append(s.credited, amount)
	return s.creditRows, s.creditErr
}

func TestServiceDebitSuccess(t *testing.T) {
	repo := &stubWalletRepo{debitRows: 1}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	if err := svc.Debit(context.Background(), nil, uuid.New(), decimal.NewFromInt(250)); err != nil {
		t.Fatalf("debit: %v", err)
	}
	if len(repo.debited) != 1 || !repo.debited[0].Equal(decimal.NewFromInt(250)) {
		t.Fatalf("unexpected debits %v", repo.debited)
	}
}

func TestServiceDebitInsufficientFunds(t *testing.T) {
	repo := &stubWalletRepo{debitRows: 0, balance: decimal.NewFromInt(100)}
	svc, _ := NewService(repo)

	err := svc.Debit(context.Background(), nil, uuid.New(), decimal.NewFromInt(250))
	domainErr := pkgerrors.As(err)
	if domainErr == nil || domainErr.Code() != pkgerrors.CodeInsufficientFunds {
		t.Fatalf("expected insufficient funds, got %v", err)
	}
	details, ok := domainErr.Details().(map[string]string)
	if !ok {
		t.Fatalf("expected balance details, got %v", domainErr.Details())
	}
	if details["balance"] != "100.00" || details["required"] != "250.00" {
		t.Fatalf("unexpected details %v", details)
	}
}

func TestServiceDebitUnknownUser(t *testing.T) {
	repo := &stubWalletRepo{debitRows: 0, balanceErr: gorm.ErrRecordNotFound}
	svc, _ := NewService(repo)

	err := svc.Debit(context.Background(), nil, uuid.New(), decimal.NewFromInt(10))
	domainErr := pkgerrors.As(err)
	if domainErr == nil || domainErr.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestServiceDebitRejectsNegativeAmount(t *testing.T) {
	repo := &stubWalletRepo{}
	svc, _ := NewService(repo)

	err := svc.Debit(context.Background(), nil, uuid.New(), decimal.NewFromInt(-5))
	domainErr := pkgerrors.As(err)
	if domainErr == nil || domainErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(repo.debited) != 0 {
		t.Fatal("repository should not be touched")
	}
}

func TestServiceCredit(t *testing.T) {
	repo := &stubWalletRepo{creditRows: 1}
	svc, _ := NewService(repo)

	if err := svc.Credit(context.Background(), nil, uuid.New(), decimal.NewFromInt(75)); err != nil {
		t.Fatalf("credit: %v", err)
	}

	repo.creditRows = 0
	err := svc.Credit(context.Background(), nil, uuid.New(), decimal.NewFromInt(75))
	domainErr := pkgerrors.As(err)
	if domainErr == nil || domainErr.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for missing user, got %v", err)
	}
}

func TestServiceBalanceValidation(t *testing.T) {
	svc, _ := NewService(&stubWalletRepo{balance: decimal.NewFromInt(42)})

	if _, err := svc.Balance(context.Background(), uuid.Nil); err == nil {
		t.Fatal("expected validation error for nil user id")
	}

	balance, err := svc.Balance(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if !balance.Equal(decimal.NewFromInt(42)) {
		t.Fatalf("balance = %s", balance)
	}
}
