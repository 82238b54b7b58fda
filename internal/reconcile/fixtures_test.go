package reconcile

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

const advisorFixture = `{
  "spot_advisor": {
    "us-east-1": {
      "Linux": {
        "m5.large":  {"r": 2, "s": 30},
        "m5.xlarge": {"r": 0, "s": 55},
        "c5.large":  {"r": 4, "s": 70}
      },
      "Windows": {
        "m5.large": {"r": 1, "s": 10}
      }
    },
    "eu-west-1": {
      "Linux": {
        "m5.large": {"r": 1, "s": 40}
      }
    },
    "ap-south-1": {
      "Windows": {
        "t3.micro": {"r": 0, "s": 5}
      }
    }
  },
  "instance_types": {
    "m5.large":  {"cores": 2, "ram_gb": 8, "emr": true},
    "m5.xlarge": {"cores": 4, "ram_gb": 16, "emr": true},
    "c5.large":  {"cores": 2, "ram_gb": 4}
  }
}`

const priceFixture = `{
  "vers": 0.01,
  "config": {
    "rate": "perhr",
    "valueColumns": ["linux", "mswin"],
    "currencies": ["USD"],
    "regions": [
      {
        "region": "us-east-1",
        "footnotes": {},
        "instanceTypes": [
          {
            "type": "generalCurrentGen.m5",
            "sizes": [
              {"size": "large", "valueColumns": [
                {"name": "linux", "prices": {"USD": "0.0456"}},
                {"name": "mswin", "prices": {"USD": "0.1376"}}
              ]},
              {"size": "xlarge", "valueColumns": [
                {"name": "linux", "prices": {"USD": "0.0912"}}
              ]}
            ]
          },
          {
            "type": "storageCurrentGen.i3",
            "sizes": [
              {"size": "large", "valueColumns": [
                {"name": "linux", "prices": {"USD": "0.0468"}},
                {"name": "mswin", "prices": {"USD": "N*"}}
              ]}
            ]
          }
        ]
      },
      {
        "region": "eu-west-1",
        "instanceTypes": [
          {
            "type": "generalCurrentGen.m5",
            "sizes": [
              {"size": "large", "valueColumns": [
                {"name": "linux", "prices": {"USD": "0.0390"}}
              ]}
            ]
          }
        ]
      }
    ]
  }
}`

func mustAdvisor(t *testing.T, data string) *AdvisorDocument {
	t.Helper()
	doc, err := ParseAdvisorDocument([]byte(data))
	require.NoError(t, err)
	return doc
}

func mustPrice(t *testing.T, data string) *PriceDocument {
	t.Helper()
	doc, err := ParsePriceDocument([]byte(data))
	require.NoError(t, err)
	return doc
}

func strPtr(s string) *string { return &s }

// recordingObserver collects everything it is told; safe for the concurrent reconcilers.
type recordingObserver struct {
	mu      sync.Mutex
	built   map[string]int
	skipped []*Error
	rows    map[string]int
}

func newRecordingObserver() *recordingObserver {
	return &recordingObserver{built: map[string]int{}, rows: map[string]int{}}
}

func (o *recordingObserver) RecordsBuilt(source string, count int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.built[source] = count
}

func (o *recordingObserver) EntrySkipped(_ string, err *Error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.skipped = append(o.skipped, err)
}

func (o *recordingObserver) RowsSelected(region string, count int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.rows[region] = count
}

func (o *recordingObserver) skippedPaths() []string {
	paths := make([]string, 0, len(o.skipped))
	for _, err := range o.skipped {
		paths = append(paths, err.Path)
	}
	return paths
}
