package feed

import (
	"context"
	"net/http"
	"time"
)

// HTTPClient allows mocking http.Client in tests
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// FetchObserver is told how long each document retrieval took.
type FetchObserver interface {
	ObserveFetch(document string, elapsed time.Duration, err error)
}

// DocumentFetcherAPI retrieves the two public spot documents.
//
//go:generate mockery --name=DocumentFetcherAPI --output=./mocks
type DocumentFetcherAPI interface {
	FetchAdvisorData(ctx context.Context) ([]byte, error)
	FetchPriceData(ctx context.Context) ([]byte, error)
}
