package web

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vbonduro/roombook/internal/query"
	"github.com/vbonduro/roombook/internal/service"
)

func TestViewURLs(t *testing.T) {
	fetch, retry := viewURLs("/rooms", false)
	assert.Equal(t, "/rooms", fetch)
	assert.Equal(t, "/rooms?phase=loading&retry=1", retry)

	fetch, retry = viewURLs("/rooms/7", true)
	assert.Equal(t, "/rooms/7?retry=1", fetch)
	assert.Equal(t, "/rooms/7?phase=loading&retry=1", retry)
}

func TestStateStatus(t *testing.T) {
	tests := []struct {
		name  string
		state query.State[int]
		want  int
	}{
		{"loading", query.Loading[int](), http.StatusOK},
		{"success", query.Succeeded(3), http.StatusOK},
		{"not found", query.Failed[int](service.ErrNotFound), http.StatusNotFound},
		{"unavailable", query.Failed[int](service.ErrStoreUnavailable), http.StatusServiceUnavailable},
		{"unknown error", query.Failed[int](errors.New("boom")), http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stateStatus(tt.state))
		})
	}
}

func TestRequestFlags(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/rooms?phase=loading&retry=1", nil)
	assert.True(t, isRetry(r))
	assert.True(t, isLoadingPhase(r))
	assert.False(t, isHTMX(r))

	r = httptest.NewRequest(http.MethodGet, "/rooms?retry=true", nil)
	r.Header.Set("HX-Request", "true")
	assert.False(t, isRetry(r))
	assert.False(t, isLoadingPhase(r))
	assert.True(t, isHTMX(r))
}

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "180", formatPrice(180))
	assert.Equal(t, "240.5", formatPrice(240.5))
	assert.Equal(t, "0.99", formatPrice(0.99))
}
