package engine

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Keyron-info/HiranoKoumuten-PJ-sub000/internal/application/audit"
	"github.com/Keyron-info/HiranoKoumuten-PJ-sub000/internal/application/ledger"
	"github.com/Keyron-info/HiranoKoumuten-PJ-sub000/internal/domain/apperr"
	"github.com/Keyron-info/HiranoKoumuten-PJ-sub000/internal/domain/entity"
)

// fakeInvoices is an in-memory InvoiceRepository with the same
// version-conditioned write semantics as the sqlite implementation
type fakeInvoices struct {
	store map[string]*entity.Invoice
}

func newFakeInvoices() *fakeInvoices {
	return &fakeInvoices{store: make(map[string]*entity.Invoice)}
}

func (f *fakeInvoices) Create(ctx context.Context, inv *entity.Invoice) error {
	clone := *inv
	f.store[inv.ID] = &clone
	return nil
}

func (f *fakeInvoices) GetByID(ctx context.Context, id string) (*entity.Invoice, error) {
	inv, ok := f.store[id]
	if !ok {
		return nil, apperr.NotFound("invoice", id)
	}
	clone := *inv
	return &clone, nil
}

func (f *fakeInvoices) ApplyTransition(ctx context.Context, inv *entity.Invoice, expectedVersion int64) error {
	stored, ok := f.store[inv.ID]
	if !ok {
		return apperr.NotFound("invoice", inv.ID)
	}
	if stored.Version != expectedVersion {
		return apperr.Conflict("invoice %s was modified concurrently (expected version %d)", inv.ID, expectedVersion)
	}
	clone := *inv
	clone.Version = expectedVersion + 1
	f.store[inv.ID] = &clone
	inv.Version = clone.Version
	return nil
}

type fakeSites struct {
	store map[string]*entity.Site
}

func newFakeSites() *fakeSites {
	return &fakeSites{store: make(map[string]*entity.Site)}
}

func (f *fakeSites) Create(ctx context.Context, site *entity.Site) error {
	f.store[site.ID] = site
	return nil
}

func (f *fakeSites) GetByID(ctx context.Context, id string) (*entity.Site, error) {
	site, ok := f.store[id]
	if !ok {
		return nil, apperr.NotFound("site", id)
	}
	return site, nil
}

type fakeAudit struct {
	entries []*entity.HistoryEntry
	nextID  int64
}

func (f *fakeAudit) Append(ctx context.Context, e *entity.HistoryEntry) error {
	f.nextID++
	e.ID = f.nextID
	clone := *e
	f.entries = append(f.entries, &clone)
	return nil
}

func (f *fakeAudit) GetByInvoiceID(ctx context.Context, invoiceID string) ([]*entity.HistoryEntry, error) {
	var out []*entity.HistoryEntry
	for _, e := range f.entries {
		if e.InvoiceID == invoiceID {
			out = append(out, e)
		}
	}
	return out, nil
}

type fakeCorrections struct {
	entries []*entity.Correction
	nextID  int64
}

func (f *fakeCorrections) CreateBatch(ctx context.Context, entries []*entity.Correction) error {
	for _, e := range entries {
		f.nextID++
		e.ID = f.nextID
		clone := *e
		f.entries = append(f.entries, &clone)
	}
	return nil
}

func (f *fakeCorrections) SupersedeUnacknowledged(ctx context.Context, invoiceID string, at time.Time) error {
	for _, e := range f.entries {
		if e.InvoiceID == invoiceID && e.SupersededAt == nil && !e.ApprovedByPartner {
			t := at
			e.SupersededAt = &t
		}
	}
	return nil
}

func (f *fakeCorrections) AcknowledgeOutstanding(ctx context.Context, invoiceID string) error {
	for _, e := range f.entries {
		if e.InvoiceID == invoiceID && e.SupersededAt == nil {
			e.ApprovedByPartner = true
		}
	}
	return nil
}

func (f *fakeCorrections) GetLatestBatch(ctx context.Context, invoiceID string) ([]*entity.Correction, error) {
	var latestBatch string
	for _, e := range f.entries {
		if e.InvoiceID == invoiceID && e.SupersededAt == nil {
			latestBatch = e.BatchID
		}
	}
	if latestBatch == "" {
		return nil, nil
	}
	var out []*entity.Correction
	for _, e := range f.entries {
		if e.BatchID == latestBatch {
			out = append(out, e)
		}
	}
	return out, nil
}

type fakeGate struct {
	open bool
	err  error
}

func (f *fakeGate) IsPeriodOpen(ctx context.Context, companyID string, date time.Time) (bool, error) {
	return f.open, f.err
}

// fakeTx runs the function directly; the fakes have no transactional state
type fakeTx struct{}

func (fakeTx) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type testEnv struct {
	engine      Engine
	invoices    *fakeInvoices
	sites       *fakeSites
	audit       *fakeAudit
	corrections *fakeCorrections
	gate        *fakeGate
}

func newTestEnv() *testEnv {
	logger := zap.NewNop()
	env := &testEnv{
		invoices:    newFakeInvoices(),
		sites:       newFakeSites(),
		audit:       &fakeAudit{},
		corrections: &fakeCorrections{},
		gate:        &fakeGate{open: true},
	}
	env.engine = New(Deps{
		Invoices:   env.invoices,
		Sites:      env.sites,
		Trail:      audit.NewTrail(env.audit, logger),
		Ledger:     ledger.NewLedger(env.corrections, logger),
		Gate:       env.gate,
		Tx:         fakeTx{},
		Dispatcher: nil,
		Logger:     logger,
	})
	return env
}
