package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/yourusername/grocery-price-ledger/internal/domain/entity"
	"github.com/yourusername/grocery-price-ledger/internal/domain/repository"
	"go.uber.org/zap"
)

// Submission outcomes reported to the SubmissionObserver
const (
	OutcomeRecorded = "recorded"
	OutcomeSkipped  = "skipped"
	OutcomeInvalid  = "invalid"
	OutcomeNotFound = "not_found"
	OutcomeFailed   = "failed"
)

// PriceSubmission one price observation to record
type PriceSubmission struct {
	ProductID  string
	StoreID    string
	Amount     float64 // 0 records a skipped observation
	ObservedAt time.Time
}

// SubmissionObserver receives gateway outcomes, e.g. for metrics
type SubmissionObserver interface {
	ObserveSubmission(outcome string)
	ObserveHistoryLoad()
}

// PriceUseCase price submission gateway between a ledger and the data service
type PriceUseCase interface {
	// History fetches the product's price history and loads it into ledger
	History(ctx context.Context, ledger *Ledger, productID string) error

	// Submit validates, creates the record upstream and prepends it to ledger.
	// Upstream errors are returned unchanged and leave ledger untouched.
	Submit(ctx context.Context, ledger *Ledger, sub PriceSubmission) (*entity.PriceRecord, error)

	// SubmitAmount same as Submit for an already parsed amount
	SubmitAmount(ctx context.Context, ledger *Ledger, productID, storeID string, amount decimal.Decimal, observedAt time.Time) (*entity.PriceRecord, error)

	// Skip records that the user declined to report a price
	Skip(ctx context.Context, ledger *Ledger, productID, storeID string, observedAt time.Time) (*entity.PriceRecord, error)
}

type priceUseCase struct {
	priceRepo repository.PriceRepository
	observer  SubmissionObserver
	log       *zap.Logger
}

// NewPriceUseCase gateway over priceRepo; observer and log may be nil
func NewPriceUseCase(priceRepo repository.PriceRepository, observer SubmissionObserver, log *zap.Logger) PriceUseCase {
	if observer == nil {
		observer = noopObserver{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &priceUseCase{
		priceRepo: priceRepo,
		observer:  observer,
		log:       log,
	}
}

// History loads the history of productID into ledger
func (u *priceUseCase) History(ctx context.Context, ledger *Ledger, productID string) error {
	records, err := u.priceRepo.ListByProduct(ctx, productID)
	if err != nil {
		return err
	}
	ledger.Load(records)
	u.observer.ObserveHistoryLoad()
	return nil
}

// Submit validates the float amount and records it
func (u *priceUseCase) Submit(ctx context.Context, ledger *Ledger, sub PriceSubmission) (*entity.PriceRecord, error) {
	if math.IsNaN(sub.Amount) || math.IsInf(sub.Amount, 0) {
		return nil, u.invalid(sub.ProductID, fmt.Errorf("%w: amount must be a finite number", ErrInvalidAmount))
	}
	if sub.Amount < 0 {
		return nil, u.invalid(sub.ProductID, fmt.Errorf("%w: amount must not be negative", ErrInvalidAmount))
	}
	return u.SubmitAmount(ctx, ledger, sub.ProductID, sub.StoreID, decimal.NewFromFloat(sub.Amount), sub.ObservedAt)
}

// SubmitAmount records amount for productID at storeID
func (u *priceUseCase) SubmitAmount(ctx context.Context, ledger *Ledger, productID, storeID string, amount decimal.Decimal, observedAt time.Time) (*entity.PriceRecord, error) {
	switch {
	case strings.TrimSpace(productID) == "":
		return nil, u.invalid(productID, fmt.Errorf("%w: product id is required", ErrMissingReference))
	case strings.TrimSpace(storeID) == "":
		return nil, u.invalid(productID, fmt.Errorf("%w: store id is required", ErrMissingReference))
	case amount.IsNegative():
		return nil, u.invalid(productID, fmt.Errorf("%w: amount must not be negative", ErrInvalidAmount))
	case observedAt.IsZero():
		return nil, u.invalid(productID, fmt.Errorf("%w: observation time is required", ErrValidation))
	}

	created, err := u.priceRepo.Create(ctx, entity.PriceRecord{
		ProductID:  productID,
		StoreID:    storeID,
		Amount:     amount,
		ObservedAt: observedAt,
	})
	if err == nil && created == nil {
		err = repository.Upstream("create price", errors.New("data service returned no record"))
	}
	if err != nil {
		outcome := OutcomeFailed
		if errors.Is(err, repository.ErrNotFound) {
			outcome = OutcomeNotFound
		}
		u.observer.ObserveSubmission(outcome)
		u.log.Warn("price submission failed",
			zap.String("product_id", productID),
			zap.String("store_id", storeID),
			zap.Error(err))
		return nil, err
	}

	ledger.Prepend(*created)

	outcome := OutcomeRecorded
	if created.IsSkipped() {
		outcome = OutcomeSkipped
	}
	u.observer.ObserveSubmission(outcome)
	u.log.Info("price recorded",
		zap.String("price_id", created.ID),
		zap.String("product_id", productID),
		zap.String("store_id", storeID),
		zap.String("amount", created.Amount.StringFixed(2)),
		zap.Bool("skipped", created.IsSkipped()))

	return created, nil
}

// Skip records a zero amount
func (u *priceUseCase) Skip(ctx context.Context, ledger *Ledger, productID, storeID string, observedAt time.Time) (*entity.PriceRecord, error) {
	return u.SubmitAmount(ctx, ledger, productID, storeID, decimal.Zero, observedAt)
}

func (u *priceUseCase) invalid(productID string, err error) error {
	u.observer.ObserveSubmission(OutcomeInvalid)
	u.log.Debug("price submission rejected", zap.String("product_id", productID), zap.Error(err))
	return err
}

type noopObserver struct{}

func (noopObserver) ObserveSubmission(string) {}
func (noopObserver) ObserveHistoryLoad()      {}
