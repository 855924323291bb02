package controllers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

type stubPinger struct {
	err error
}

func (s stubPinger) Ping(ctx context.Context) error {
	return s.err
}

func TestLivez(t *testing.T) {
	t.Parallel()

	resp := httptest.NewRecorder()
	Livez().ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/livez", nil))

	requireStatus(t, resp.Code, http.StatusOK)
}

func TestReadyzAllHealthy(t *testing.T) {
	t.Parallel()

	handler := Readyz(stubPinger{}, stubPinger{}, testLogger())

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	requireStatus(t, resp.Code, http.StatusOK)
}

func TestReadyzDatabaseDown(t *testing.T) {
	t.Parallel()

	handler := Readyz(stubPinger{err: errors.New("connection refused")}, stubPinger{}, testLogger())

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	requireStatus(t, resp.Code, http.StatusServiceUnavailable)
}

func TestReadyzRedisDown(t *testing.T) {
	t.Parallel()

	handler := Readyz(stubPinger{}, stubPinger{err: errors.New("connection refused")}, testLogger())

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	requireStatus(t, resp.Code, http.StatusServiceUnavailable)
}
