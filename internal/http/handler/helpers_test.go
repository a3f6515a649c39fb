package handler_test

import (
	"time"

	"github.com/bull/iris-search/internal/backend"
)

func newBackendClient(url string) *backend.Client {
	return backend.NewClient(url, time.Second, nil)
}
