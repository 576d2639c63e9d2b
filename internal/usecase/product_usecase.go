package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/yourusername/grocery-price-ledger/internal/domain/entity"
	"github.com/yourusername/grocery-price-ledger/internal/domain/repository"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ShareFormatter renders the share sheet of a product
type ShareFormatter interface {
	ShareTitle(productName string) string
	ShareText(productName string, latest *entity.PriceRecord) string
}

// ProductUseCase product detail flows: open, category, price entry, share
type ProductUseCase interface {
	// Open fetches the product, the stores and the price history
	Open(ctx context.Context, productID string) (*ProductSession, error)

	// ReloadPrices re-fetches stores and price history into the session
	ReloadPrices(ctx context.Context, session *ProductSession) error

	// SaveCategory replaces the generic product category with the selected one
	SaveCategory(ctx context.Context, session *ProductSession) error

	// SubmitPrice records amount at storeID, observed now
	SubmitPrice(ctx context.Context, session *ProductSession, storeID string, amount float64) (*entity.PriceRecord, error)

	// SubmitPriceInput parses raw user input and records it
	SubmitPriceInput(ctx context.Context, session *ProductSession, storeID, input string) (*entity.PriceRecord, error)

	// SkipPrice records that no price was reported at storeID
	SkipPrice(ctx context.Context, session *ProductSession, storeID string) (*entity.PriceRecord, error)

	// Share title and message for the share sheet
	Share(session *ProductSession) (title, message string)

	// SuggestCategory asks the configured suggester for a category
	SuggestCategory(ctx context.Context, session *ProductSession) (string, error)
}

type productUseCase struct {
	productRepo repository.ProductRepository
	storeRepo   repository.StoreRepository
	prices      PriceUseCase
	formatter   ShareFormatter
	suggester   repository.CategorySuggester
	log         *zap.Logger
	now         func() time.Time
}

// NewProductUseCase suggester and log may be nil
func NewProductUseCase(
	productRepo repository.ProductRepository,
	storeRepo repository.StoreRepository,
	prices PriceUseCase,
	formatter ShareFormatter,
	suggester repository.CategorySuggester,
	log *zap.Logger,
) ProductUseCase {
	if log == nil {
		log = zap.NewNop()
	}
	return &productUseCase{
		productRepo: productRepo,
		storeRepo:   storeRepo,
		prices:      prices,
		formatter:   formatter,
		suggester:   suggester,
		log:         log,
		now:         time.Now,
	}
}

// Open the product fetch and the price fetch run concurrently. Only a product
// failure fails the open; store and price failures leave those lists empty.
func (u *productUseCase) Open(ctx context.Context, productID string) (*ProductSession, error) {
	if strings.TrimSpace(productID) == "" {
		return nil, fmt.Errorf("%w: product id is required", ErrMissingReference)
	}

	var (
		product *entity.Product
		stores  []entity.Store
		ledger  = NewLedger()
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := u.productRepo.GetByID(gctx, productID)
		if err != nil {
			return err
		}
		product = p
		return nil
	})
	g.Go(func() error {
		stores = u.fetchPriceData(gctx, ledger, productID)
		return nil
	})

	if err := g.Wait(); err != nil {
		u.log.Warn("failed to open product", zap.String("product_id", productID), zap.Error(err))
		return nil, err
	}

	return newProductSession(*product, stores, ledger), nil
}

func (u *productUseCase) fetchPriceData(ctx context.Context, ledger *Ledger, productID string) []entity.Store {
	stores, err := u.storeRepo.GetAll(ctx)
	if err != nil {
		u.log.Warn("failed to fetch stores", zap.Error(err))
		stores = nil
	}

	if err := u.prices.History(ctx, ledger, productID); err != nil {
		u.log.Warn("failed to fetch price history", zap.String("product_id", productID), zap.Error(err))
	}
	return stores
}

// ReloadPrices re-fetch after an outside change; on price failure the ledger keeps its content
func (u *productUseCase) ReloadPrices(ctx context.Context, session *ProductSession) error {
	productID := session.ProductID()

	stores, err := u.storeRepo.GetAll(ctx)
	if err != nil {
		return err
	}
	if err := u.prices.History(ctx, session.Ledger(), productID); err != nil {
		return err
	}
	session.setStores(stores)
	return nil
}

// SaveCategory whole-value replace of the generic product category
func (u *productUseCase) SaveCategory(ctx context.Context, session *ProductSession) error {
	if !session.beginSave() {
		return ErrSaveInFlight
	}
	defer session.endSave()

	product := session.Product()
	genericID := product.GenericProductID
	if product.GenericProduct != nil && product.GenericProduct.ID != "" {
		genericID = product.GenericProduct.ID
	}
	if product.GenericProduct == nil || genericID == "" {
		return ErrNoGenericProduct
	}

	category := session.SelectedCategory()
	if category != "" && !entity.IsKnownCategory(category) {
		return fmt.Errorf("%w: %q", ErrUnknownCategory, category)
	}

	if err := u.productRepo.UpdateGenericProductCategory(ctx, genericID, category); err != nil {
		u.log.Warn("failed to update category",
			zap.String("product_id", product.ID),
			zap.String("generic_product_id", genericID),
			zap.Error(err))
		return err
	}

	session.applyCategory(category)
	u.log.Info("category updated",
		zap.String("product_id", product.ID),
		zap.String("category", category))
	return nil
}

func (u *productUseCase) SubmitPrice(ctx context.Context, session *ProductSession, storeID string, amount float64) (*entity.PriceRecord, error) {
	if !session.beginSubmit() {
		return nil, ErrSubmissionInFlight
	}
	defer session.endSubmit()

	return u.prices.Submit(ctx, session.Ledger(), PriceSubmission{
		ProductID:  session.ProductID(),
		StoreID:    storeID,
		Amount:     amount,
		ObservedAt: u.now(),
	})
}

func (u *productUseCase) SubmitPriceInput(ctx context.Context, session *ProductSession, storeID, input string) (*entity.PriceRecord, error) {
	amount, err := ParseAmount(input)
	if err != nil {
		return nil, err
	}

	if !session.beginSubmit() {
		return nil, ErrSubmissionInFlight
	}
	defer session.endSubmit()

	return u.prices.SubmitAmount(ctx, session.Ledger(), session.ProductID(), storeID, amount, u.now())
}

func (u *productUseCase) SkipPrice(ctx context.Context, session *ProductSession, storeID string) (*entity.PriceRecord, error) {
	if !session.beginSubmit() {
		return nil, ErrSubmissionInFlight
	}
	defer session.endSubmit()

	return u.prices.Skip(ctx, session.Ledger(), session.ProductID(), storeID, u.now())
}

// Share uses the latest record by observation time, not the ledger front
func (u *productUseCase) Share(session *ProductSession) (string, string) {
	product := session.Product()

	var latest *entity.PriceRecord
	if record, ok := session.Ledger().Latest(); ok {
		latest = &record
	}
	return u.formatter.ShareTitle(product.Name), u.formatter.ShareText(product.Name, latest)
}

func (u *productUseCase) SuggestCategory(ctx context.Context, session *ProductSession) (string, error) {
	if u.suggester == nil {
		return "", ErrSuggestionsDisabled
	}

	product := session.Product()
	category, err := u.suggester.SuggestCategory(ctx, product, entity.Categories)
	if err != nil {
		return "", err
	}
	if !entity.IsKnownCategory(category) {
		return "", fmt.Errorf("suggester returned unknown category %q", category)
	}
	return category, nil
}
