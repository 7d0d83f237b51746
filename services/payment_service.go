package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	PaymentResultSuccess = "success"
	PaymentResultFailed  = "failed"
)

type ChargeRequest struct {
	OrderNumber string
	Amount      decimal.Decimal
	CardHolder  string
	CardNumber  string
	ExpireMonth string
	ExpireYear  string
	CVC         string
}

type PaymentResult struct {
	Success   bool   `json:"success"`
	Status    string `json:"status"`
	PaymentID string `json:"payment_id,omitempty"`
	Message   string `json:"message"`
}

type PaymentGateway interface {
	Charge(ctx context.Context, req ChargeRequest) (PaymentResult, error)
}

// TestPaymentGateway approves only the configured test card number.
// No money moves.
type TestPaymentGateway struct {
	testCard string
	now      func() time.Time
}

func NewTestPaymentGateway(testCard string) *TestPaymentGateway {
	return &TestPaymentGateway{testCard: testCard, now: time.Now}
}

func (g *TestPaymentGateway) Charge(ctx context.Context, req ChargeRequest) (PaymentResult, error) {
	if err := ctx.Err(); err != nil {
		return PaymentResult{}, err
	}

	card := strings.ReplaceAll(req.CardNumber, " ", "")
	if card != g.testCard {
		return PaymentResult{
			Success: false,
			Status:  PaymentResultFailed,
			Message: "invalid card details",
		}, nil
	}

	return PaymentResult{
		Success:   true,
		Status:    PaymentResultSuccess,
		PaymentID: fmt.Sprintf("TEST_%d", g.now().UnixNano()),
		Message:   "payment approved",
	}, nil
}
