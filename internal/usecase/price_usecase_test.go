package usecase

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/yourusername/grocery-price-ledger/internal/domain/entity"
	"github.com/yourusername/grocery-price-ledger/internal/domain/repository"
	"github.com/yourusername/grocery-price-ledger/internal/presenter"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func seededLedger() *Ledger {
	ledger := NewLedger()
	ledger.Load([]entity.PriceRecord{
		record("a", "5.00", day(1)),
		record("b", "4.50", day(3)),
	})
	return ledger
}

func TestSubmitPrependsRecord(t *testing.T) {
	repo := &fakePriceRepo{}
	observer := newCountingObserver()
	gateway := NewPriceUseCase(repo, observer, nil)
	ledger := seededLedger()

	created, err := gateway.Submit(context.Background(), ledger, PriceSubmission{
		ProductID:  "p1",
		StoreID:    "s2",
		Amount:     12.50,
		ObservedAt: day(4),
	})
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	if ledger.Len() != 3 {
		t.Fatalf("ledger length = %d, want 3", ledger.Len())
	}
	front, _ := ledger.Front()
	if front.ID != created.ID || !front.Amount.Equal(decimal.RequireFromString("12.5")) {
		t.Errorf("front = %+v, want the returned record %+v", front, created)
	}
	if front.Store == nil || front.Store.ID != "s2" {
		t.Errorf("returned record should carry its joined store, got %+v", front.Store)
	}
	if observer.outcomes[OutcomeRecorded] != 1 {
		t.Errorf("recorded outcomes = %d, want 1", observer.outcomes[OutcomeRecorded])
	}
}

func TestSubmitRejectsInvalidAmounts(t *testing.T) {
	tests := []struct {
		name string
		sub  PriceSubmission
		kind error
	}{
		{name: "negative", sub: PriceSubmission{ProductID: "p1", StoreID: "s1", Amount: -1, ObservedAt: day(4)}, kind: ErrInvalidAmount},
		{name: "nan", sub: PriceSubmission{ProductID: "p1", StoreID: "s1", Amount: math.NaN(), ObservedAt: day(4)}, kind: ErrInvalidAmount},
		{name: "inf", sub: PriceSubmission{ProductID: "p1", StoreID: "s1", Amount: math.Inf(1), ObservedAt: day(4)}, kind: ErrInvalidAmount},
		{name: "no store", sub: PriceSubmission{ProductID: "p1", Amount: 1, ObservedAt: day(4)}, kind: ErrMissingReference},
		{name: "no product", sub: PriceSubmission{StoreID: "s1", Amount: 1, ObservedAt: day(4)}, kind: ErrMissingReference},
		{name: "no time", sub: PriceSubmission{ProductID: "p1", StoreID: "s1", Amount: 1}, kind: ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakePriceRepo{}
			observer := newCountingObserver()
			gateway := NewPriceUseCase(repo, observer, nil)
			ledger := seededLedger()
			before := ledger.Records()

			created, err := gateway.Submit(context.Background(), ledger, tt.sub)
			if !errors.Is(err, ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
			if !errors.Is(err, tt.kind) {
				t.Errorf("expected %v, got %v", tt.kind, err)
			}
			if tt.kind == ErrValidation && (errors.Is(err, ErrInvalidAmount) || errors.Is(err, ErrMissingReference)) {
				t.Errorf("missing time reported as %v", err)
			}
			if created != nil {
				t.Errorf("expected no record, got %+v", created)
			}
			if len(repo.created) != 0 {
				t.Errorf("data service must not be called, got %d creates", len(repo.created))
			}
			assertLedgerUnchanged(t, ledger, before)
			if observer.outcomes[OutcomeInvalid] != 1 {
				t.Errorf("invalid outcomes = %d, want 1", observer.outcomes[OutcomeInvalid])
			}
		})
	}
}

func TestSkipStoresZero(t *testing.T) {
	repo := &fakePriceRepo{}
	observer := newCountingObserver()
	gateway := NewPriceUseCase(repo, observer, nil)
	ledger := NewLedger()

	created, err := gateway.Skip(context.Background(), ledger, "p1", "s1", day(5))
	if err != nil {
		t.Fatalf("Skip failed: %v", err)
	}
	if !created.IsSkipped() {
		t.Fatalf("amount = %s, want 0", created.Amount)
	}
	if observer.outcomes[OutcomeSkipped] != 1 {
		t.Errorf("skipped outcomes = %d, want 1", observer.outcomes[OutcomeSkipped])
	}

	// a reloaded ledger still formats zero as a price
	reloaded := NewLedger()
	reloaded.Load(ledger.Records())
	latest, ok := reloaded.Latest()
	if !ok {
		t.Fatal("expected the skipped record")
	}

	formatter, err := presenter.NewPriceFormatter("pt-BR", time.UTC, "")
	if err != nil {
		t.Fatal(err)
	}
	if got := formatter.Currency(latest.Amount); got != "R$ 0,00" {
		t.Errorf("currency = %q, want R$ 0,00", got)
	}
	if got := formatter.PriceSegment(&latest); got != "Preço: R$ 0,00 em 05/01/2024" {
		t.Errorf("segment = %q", got)
	}
}

func TestSubmitPropagatesUpstreamErrors(t *testing.T) {
	upstream := repository.Upstream("create price", errors.New("connection reset"))

	tests := []struct {
		name    string
		err     error
		outcome string
	}{
		{name: "not found", err: repository.ErrNotFound, outcome: OutcomeNotFound},
		{name: "upstream", err: upstream, outcome: OutcomeFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakePriceRepo{createErr: tt.err}
			observer := newCountingObserver()
			gateway := NewPriceUseCase(repo, observer, nil)
			ledger := seededLedger()
			before := ledger.Records()

			_, err := gateway.Submit(context.Background(), ledger, PriceSubmission{
				ProductID: "p1", StoreID: "s1", Amount: 3, ObservedAt: day(4),
			})
			if err != tt.err {
				t.Fatalf("error = %v, want the data service error unchanged", err)
			}
			assertLedgerUnchanged(t, ledger, before)
			if observer.outcomes[tt.outcome] != 1 {
				t.Errorf("%s outcomes = %d, want 1", tt.outcome, observer.outcomes[tt.outcome])
			}
		})
	}
}

func TestSubmitMissingRecordIsUpstream(t *testing.T) {
	gateway := NewPriceUseCase(&fakePriceRepo{nilRecord: true}, nil, nil)
	ledger := seededLedger()

	_, err := gateway.Submit(context.Background(), ledger, PriceSubmission{
		ProductID: "p1", StoreID: "s1", Amount: 3, ObservedAt: day(4),
	})

	var upstream *repository.UpstreamError
	if !errors.As(err, &upstream) {
		t.Fatalf("expected UpstreamError, got %v", err)
	}
	if ledger.Len() != 2 {
		t.Errorf("ledger length = %d, want 2", ledger.Len())
	}
}

func TestHistoryLoads(t *testing.T) {
	repo := &fakePriceRepo{history: []entity.PriceRecord{
		record("a", "5.00", day(1)),
		record("b", "4.50", day(3)),
		record("c", "6.00", day(2)),
	}}
	observer := newCountingObserver()
	gateway := NewPriceUseCase(repo, observer, nil)
	ledger := NewLedger()
	ledger.Prepend(record("stale", "1.00", day(9)))

	if err := gateway.History(context.Background(), ledger, "p1"); err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if ledger.Len() != 3 {
		t.Fatalf("ledger length = %d, want 3", ledger.Len())
	}
	if latest, _ := ledger.Latest(); latest.ID != "b" {
		t.Errorf("latest = %q, want b", latest.ID)
	}
	if observer.loads != 1 {
		t.Errorf("history loads = %d, want 1", observer.loads)
	}

	repo.listErr = repository.ErrNotFound
	if err := gateway.History(context.Background(), ledger, "p1"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if ledger.Len() != 3 {
		t.Errorf("failed fetch must keep the ledger, length = %d", ledger.Len())
	}
}

func assertLedgerUnchanged(t *testing.T, ledger *Ledger, before []entity.PriceRecord) {
	t.Helper()
	after := ledger.Records()
	if len(after) != len(before) {
		t.Fatalf("ledger length changed from %d to %d", len(before), len(after))
	}
	for i := range before {
		if after[i].ID != before[i].ID {
			t.Fatalf("ledger changed at %d: %q -> %q", i, before[i].ID, after[i].ID)
		}
	}
}

func TestSubmitLogsOutcome(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	gateway := NewPriceUseCase(&fakePriceRepo{}, nil, zap.New(core))

	if _, err := gateway.Skip(context.Background(), NewLedger(), "p1", "s1", day(2)); err != nil {
		t.Fatal(err)
	}

	entries := logs.FilterMessage("price recorded").All()
	if len(entries) != 1 {
		t.Fatalf("got %d log entries, want 1", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["skipped"] != true || fields["amount"] != "0.00" {
		t.Errorf("unexpected fields %v", fields)
	}
}
