// internal/services/payment_service.go
package services

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/paymentintent"
	"gorm.io/gorm"

	"github.com/clipcoin/clipcoin-backend/internal/config"
)

// PaymentService handles fiat credit-pack purchases through Stripe. A
// confirmed purchase funds the ledger through AddCredits; the off-ledger
// charge itself is Stripe's record, not a ledger entry.
type PaymentService struct {
	db     *gorm.DB
	config *config.Config
	ledger *LedgerService
}

func NewPaymentService(db *gorm.DB, config *config.Config, ledger *LedgerService) *PaymentService {
	stripe.Key = config.Payment.StripeSecretKey

	return &PaymentService{
		db:     db,
		config: config,
		ledger: ledger,
	}
}

// CreditPack is a purchasable bundle of view credits.
type CreditPack struct {
	ID         string `json:"id"`
	Credits    int64  `json:"credits"`
	PriceCents int64  `json:"priceCents"`
}

type CreateCreditIntentRequest struct {
	PackID string `json:"packId" validate:"required"`
}

type CreditIntentResponse struct {
	ClientSecret string `json:"clientSecret"`
	PaymentID    string `json:"paymentId"`
	Credits      int64  `json:"credits"`
	AmountCents  int64  `json:"amountCents"`
}

type ConfirmCreditPurchaseRequest struct {
	PaymentIntentID string `json:"paymentIntentId" validate:"required"`
}

type CreditPurchaseResult struct {
	CreditsAdded int64 `json:"creditsAdded"`
	ViewCredits  int64 `json:"viewCredits"`
}

// CreditPacks lists the purchasable bundles. Prices scale linearly off the
// configured per-credit price, with a small bulk bonus on the larger packs.
func (s *PaymentService) CreditPacks() []CreditPack {
	unit := s.config.Payment.CreditPriceCents
	return []CreditPack{
		{ID: "starter", Credits: 10, PriceCents: 10 * unit},
		{ID: "standard", Credits: 55, PriceCents: 50 * unit},
		{ID: "plus", Credits: 120, PriceCents: 100 * unit},
	}
}

func (s *PaymentService) findPack(packID string) (*CreditPack, error) {
	for _, pack := range s.CreditPacks() {
		if pack.ID == packID {
			return &pack, nil
		}
	}
	return nil, fmt.Errorf("unknown credit pack: %s", packID)
}

// CreateCreditIntent opens a Stripe PaymentIntent for a credit pack. The
// pack and wallet ride along as metadata so confirmation can credit the
// right account without trusting the client.
func (s *PaymentService) CreateCreditIntent(userID uuid.UUID, walletAddress string, req *CreateCreditIntentRequest) (*CreditIntentResponse, error) {
	pack, err := s.findPack(req.PackID)
	if err != nil {
		return nil, err
	}

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(pack.PriceCents),
		Currency: stripe.String("usd"),
	}
	params.AddMetadata("user_id", userID.String())
	params.AddMetadata("wallet_address", walletAddress)
	params.AddMetadata("pack_id", pack.ID)
	params.AddMetadata("credits", fmt.Sprintf("%d", pack.Credits))

	pi, err := paymentintent.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create payment intent: %w", err)
	}

	return &CreditIntentResponse{
		ClientSecret: pi.ClientSecret,
		PaymentID:    pi.ID,
		Credits:      pack.Credits,
		AmountCents:  pack.PriceCents,
	}, nil
}

// ConfirmCreditPurchase verifies the PaymentIntent with Stripe and, on
// success, credits the wallet recorded in the intent's metadata.
func (s *PaymentService) ConfirmCreditPurchase(req *ConfirmCreditPurchaseRequest) (*CreditPurchaseResult, error) {
	pi, err := paymentintent.Get(req.PaymentIntentID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get payment intent: %w", err)
	}

	if pi.Status != stripe.PaymentIntentStatusSucceeded {
		return nil, fmt.Errorf("payment not completed: %s", pi.Status)
	}

	wallet := pi.Metadata["wallet_address"]
	packID := pi.Metadata["pack_id"]
	pack, err := s.findPack(packID)
	if err != nil {
		return nil, err
	}

	user, err := s.ledger.AddCredits(wallet, pack.Credits)
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"wallet":  wallet,
		"pack_id": packID,
		"credits": pack.Credits,
		"stripe":  pi.ID,
	}).Info("Credit purchase confirmed")

	return &CreditPurchaseResult{
		CreditsAdded: pack.Credits,
		ViewCredits:  user.ViewCredits,
	}, nil
}
