package reconcile

import (
	"golang.org/x/sync/errgroup"

	"spotinfo/internal/models"
)

// Request selects what the engine reports.
type Request struct {
	Region             string
	InstanceTypeFilter *string
	ShowPrice          bool
}

// PriceSource yields the price records to merge.
type PriceSource interface {
	PriceRecords(obs Observer) ([]models.PriceRecord, error)
}

// PriceRecords reconciles the price document.
func (d *PriceDocument) PriceRecords(obs Observer) ([]models.PriceRecord, error) {
	if d == nil {
		return nil, NewError(ErrInvalidInput, DocumentPrice, "", "document is nil", nil)
	}
	return ReconcilePrices(d, obs), nil
}

// StaticPrices is a PriceSource over records obtained elsewhere.
type StaticPrices []models.PriceRecord

func (s StaticPrices) PriceRecords(obs Observer) ([]models.PriceRecord, error) {
	observerOrNop(obs).RecordsBuilt(SourcePrice, len(s))
	return s, nil
}

// Engine reconciles the advisor and price sources into display rows.
type Engine struct {
	observer Observer
}

// Option configures an Engine.
type Option func(*Engine)

// WithObserver attaches diagnostics to the engine.
func WithObserver(obs Observer) Option {
	return func(e *Engine) {
		e.observer = obs
	}
}

// NewEngine creates an engine. Without options diagnostics are discarded.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{observer: NopObserver{}}
	for _, opt := range opts {
		opt(e)
	}
	e.observer = observerOrNop(e.observer)
	return e
}

// Run reconciles both documents and returns the ordered rows for the request.
func (e *Engine) Run(req Request, advisor *AdvisorDocument, prices *PriceDocument) ([]models.Row, error) {
	return e.run(req, advisor, prices)
}

// RunWithPrices is Run with price records that did not come from the price document.
func (e *Engine) RunWithPrices(req Request, advisor *AdvisorDocument, prices []models.PriceRecord) ([]models.Row, error) {
	return e.run(req, advisor, StaticPrices(prices))
}

func (e *Engine) run(req Request, advisor *AdvisorDocument, prices PriceSource) ([]models.Row, error) {
	if req.Region == "" {
		return nil, NewError(ErrInvalidInput, DocumentAdvisor, "", "region is required", nil)
	}

	idx, err := e.Build(advisor, prices)
	if err != nil {
		return nil, err
	}
	return e.Rows(idx, req), nil
}

// Build runs the spec index, advisor and price reconcilers concurrently and
// merges their output.
func (e *Engine) Build(advisor *AdvisorDocument, prices PriceSource) (Index, error) {
	if advisor == nil {
		return nil, NewError(ErrInvalidInput, DocumentAdvisor, "", "document is nil", nil)
	}
	if prices == nil {
		return nil, NewError(ErrInvalidInput, DocumentPrice, "", "price source is nil", nil)
	}

	var (
		specs          map[string]models.InstanceSpec
		advisorRecords []models.AdvisorRecord
		priceRecords   []models.PriceRecord
		g              errgroup.Group
	)

	g.Go(func() error {
		specs = BuildSpecIndex(advisor, e.observer)
		return nil
	})
	g.Go(func() error {
		advisorRecords = ReconcileAdvisor(advisor, e.observer)
		return nil
	})
	g.Go(func() error {
		var err error
		priceRecords, err = prices.PriceRecords(e.observer)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return Merge(specs, advisorRecords, priceRecords), nil
}

// Rows selects and renders the index for a request.
func (e *Engine) Rows(idx Index, req Request) []models.Row {
	selected := Select(idx, req.Region, req.InstanceTypeFilter)

	rows := make([]models.Row, 0, len(selected))
	for _, rec := range selected {
		rows = append(rows, models.NewRow(rec, req.ShowPrice))
	}

	e.observer.RowsSelected(req.Region, len(rows))
	return rows
}
