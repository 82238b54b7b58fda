package reconcile_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"spotinfo/internal/reconcile"
	"spotinfo/internal/reconcile/mocks"
)

const (
	singleAdvisor = `{
  "spot_advisor": {"us-east-1": {"Linux": {"m5.large": {"r": 2, "s": 30}, "m5.metal": {"r": "x"}}}},
  "instance_types": {"m5.large": {"cores": 2, "ram_gb": 8}}
}`
	singlePrice = `{"config": {"regions": [{"region": "us-east-1", "instanceTypes": [
  {"type": "generalCurrentGen.m5", "sizes": [{"size": "large", "valueColumns": [{"name": "linux", "prices": {"USD": "0.0456"}}]}]}
]}]}}`
)

func parseDocuments(t *testing.T) (*reconcile.AdvisorDocument, *reconcile.PriceDocument) {
	t.Helper()
	advisor, err := reconcile.ParseAdvisorDocument([]byte(singleAdvisor))
	require.NoError(t, err)
	prices, err := reconcile.ParsePriceDocument([]byte(singlePrice))
	require.NoError(t, err)
	return advisor, prices
}

func TestEngine_ReportsToObserver(t *testing.T) {
	advisor, prices := parseDocuments(t)

	obs := mocks.NewObserver(t)
	obs.On("RecordsBuilt", reconcile.SourceSpecs, 1).Return().Once()
	obs.On("RecordsBuilt", reconcile.SourceAdvisor, 2).Return().Once()
	obs.On("RecordsBuilt", reconcile.SourcePrice, 1).Return().Once()
	obs.On("EntrySkipped", reconcile.SourceAdvisor, mock.MatchedBy(func(err *reconcile.Error) bool {
		return err.Category == reconcile.ErrPartialEntryMalformed && err.Path == "spot_advisor.us-east-1.Linux.m5.metal.r"
	})).Return().Once()
	obs.On("RowsSelected", "us-east-1", 2).Return().Once()

	rows, err := reconcile.NewEngine(reconcile.WithObserver(obs)).Run(reconcile.Request{Region: "us-east-1"}, advisor, prices)

	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestLogObserver(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	advisor, prices := parseDocuments(t)

	_, err := reconcile.NewEngine(reconcile.WithObserver(reconcile.NewLogObserver(zap.New(core)))).
		Run(reconcile.Request{Region: "us-east-1"}, advisor, prices)
	require.NoError(t, err)

	assert.Equal(t, 3, logs.FilterMessage("records built").Len())
	assert.Equal(t, 1, logs.FilterMessage("rows selected").Len())

	skipped := logs.FilterMessage("entry skipped").All()
	require.Len(t, skipped, 1)
	assert.Equal(t, "spot_advisor.us-east-1.Linux.m5.metal.r", skipped[0].ContextMap()["path"])
}
