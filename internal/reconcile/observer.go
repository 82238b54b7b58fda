package reconcile

import (
	"go.uber.org/zap"
)

// Source names used when reporting to an Observer.
const (
	SourceSpecs   = "specs"
	SourceAdvisor = "advisor"
	SourcePrice   = "price"
)

// Observer receives diagnostics while the engine runs. It never influences the
// engine's output. Implementations must be safe for concurrent use because the
// reconcilers run in parallel.
//
//go:generate mockery --name=Observer --output=./mocks
type Observer interface {
	// RecordsBuilt is called once per reconciler with the number of records it produced.
	RecordsBuilt(source string, count int)
	// EntrySkipped is called for every PartialEntryMalformed problem.
	EntrySkipped(source string, err *Error)
	// RowsSelected is called with the number of rows handed to the renderer.
	RowsSelected(region string, count int)
}

// NopObserver discards everything.
type NopObserver struct{}

func (NopObserver) RecordsBuilt(string, int)     {}
func (NopObserver) EntrySkipped(string, *Error) {}
func (NopObserver) RowsSelected(string, int)     {}

// LogObserver writes diagnostics to a zap logger.
type LogObserver struct {
	logger *zap.Logger
}

// NewLogObserver creates an observer that logs at debug level.
func NewLogObserver(logger *zap.Logger) *LogObserver {
	return &LogObserver{logger: logger}
}

func (o *LogObserver) RecordsBuilt(source string, count int) {
	o.logger.Debug("records built", zap.String("source", source), zap.Int("count", count))
}

func (o *LogObserver) EntrySkipped(source string, err *Error) {
	o.logger.Debug("entry skipped",
		zap.String("source", source),
		zap.String("path", err.Path),
		zap.String("reason", err.Message))
}

func (o *LogObserver) RowsSelected(region string, count int) {
	o.logger.Debug("rows selected", zap.String("region", region), zap.Int("count", count))
}

// MultiObserver fans out to several observers.
type MultiObserver []Observer

func (m MultiObserver) RecordsBuilt(source string, count int) {
	for _, o := range m {
		o.RecordsBuilt(source, count)
	}
}

func (m MultiObserver) EntrySkipped(source string, err *Error) {
	for _, o := range m {
		o.EntrySkipped(source, err)
	}
}

func (m MultiObserver) RowsSelected(region string, count int) {
	for _, o := range m {
		o.RowsSelected(region, count)
	}
}

func observerOrNop(obs Observer) Observer {
	if obs == nil {
		return NopObserver{}
	}
	return obs
}
