package metrics

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spotinfo/internal/providers/feed"
	"spotinfo/internal/reconcile"
)

var (
	_ reconcile.Observer = (*Collector)(nil)
	_ feed.FetchObserver = (*Collector)(nil)
)

func TestCollector_AsEngineObserver(t *testing.T) {
	c := NewCollector()
	var obs reconcile.Observer = c

	obs.RowsSelected("eu-west-1", 5)

	assert.Equal(t, 5.0, testutil.ToFloat64(c.RowsSelectedGauge.WithLabelValues("eu-west-1")))
}

func TestCollector_Observer(t *testing.T) {
	c := NewCollector()

	c.RecordsBuilt(reconcile.SourceAdvisor, 4)
	c.RecordsBuilt(reconcile.SourcePrice, 7)
	c.EntrySkipped(reconcile.SourcePrice, reconcile.NewError(reconcile.ErrPartialEntryMalformed, reconcile.DocumentPrice, "config.regions[0]", "bad", nil))
	c.EntrySkipped(reconcile.SourcePrice, nil)
	c.RowsSelected("us-east-1", 3)
	c.RowsSelected("us-east-1", 2)

	assert.Equal(t, 4.0, testutil.ToFloat64(c.RecordsTotal.WithLabelValues(reconcile.SourceAdvisor)))
	assert.Equal(t, 7.0, testutil.ToFloat64(c.RecordsTotal.WithLabelValues(reconcile.SourcePrice)))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.SkippedEntriesTotal.WithLabelValues(reconcile.SourcePrice)))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.RowsSelectedGauge.WithLabelValues("us-east-1")))
}

func TestCollector_ObserveFetch(t *testing.T) {
	c := NewCollector()

	c.ObserveFetch("advisor", 120*time.Millisecond, nil)
	c.ObserveFetch("price", time.Second, errors.New("boom"))

	assert.Equal(t, 2, testutil.CollectAndCount(c.FetchDuration))
	expected := `
# HELP spotinfo_records_total Number of records produced per source.
# TYPE spotinfo_records_total counter
spotinfo_records_total{source="specs"} 3
`
	c.RecordsBuilt(reconcile.SourceSpecs, 3)
	require.NoError(t, testutil.CollectAndCompare(c.RecordsTotal, strings.NewReader(expected)))
}

func TestCollector_CollectorsAreIndependent(t *testing.T) {
	a := NewCollector()
	b := NewCollector()

	a.RecordsBuilt(reconcile.SourceSpecs, 5)

	assert.Equal(t, 5.0, testutil.ToFloat64(a.RecordsTotal.WithLabelValues(reconcile.SourceSpecs)))
	assert.Equal(t, 0, testutil.CollectAndCount(b.RecordsTotal))
}

func TestCollector_WriteTextfile(t *testing.T) {
	c := NewCollector()
	c.RecordsBuilt(reconcile.SourceAdvisor, 4)
	c.RowsSelected("eu-west-1", 1)
	c.MarkRun(time.Unix(1760788800, 0))

	path := filepath.Join(t.TempDir(), "spotinfo.prom")
	require.NoError(t, c.WriteTextfile(path))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(content)
	assert.Contains(t, text, `spotinfo_records_total{source="advisor"} 4`)
	assert.Contains(t, text, `spotinfo_rows_selected{region="eu-west-1"} 1`)
	assert.Contains(t, text, "spotinfo_last_run_timestamp_seconds 1.7607888e+09")
}

func TestCollector_WriteTextfileError(t *testing.T) {
	err := NewCollector().WriteTextfile(filepath.Join(t.TempDir(), "missing", "dir", "spotinfo.prom"))

	assert.ErrorContains(t, err, "failed to write metrics")
}
