package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"hitcounter/pkg/logger"
)

type mockPinger struct {
	err      error
	deadline bool
}

func (m *mockPinger) Ping(ctx context.Context, _ *readpref.ReadPref) error {
	_, m.deadline = ctx.Deadline()
	return m.err
}

func serveHealth(t *testing.T, db *mockPinger, path string) HealthResponse {
	t.Helper()
	router := httprouter.New()
	NewHealthHandler(db, logger.Discard()).RegisterRoutes(router)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

	var body HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	if db.err != nil && path == "/ready" {
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	} else {
		assert.Equal(t, http.StatusOK, rec.Code)
	}
	return body
}

func TestHealth(t *testing.T) {
	body := serveHealth(t, &mockPinger{err: errors.New("down")}, "/health")
	assert.Equal(t, "ok", body.Status)
	assert.Empty(t, body.Database)
}

func TestReady(t *testing.T) {
	db := &mockPinger{}
	body := serveHealth(t, db, "/ready")

	assert.Equal(t, "ready", body.Status)
	assert.Equal(t, "ok", body.Database)
	assert.True(t, db.deadline, "ping must be bounded")
}

func TestReady_DatabaseDown(t *testing.T) {
	body := serveHealth(t, &mockPinger{err: errors.New("server selection timeout")}, "/ready")

	assert.Equal(t, "unavailable", body.Status)
	assert.Equal(t, "error", body.Database)
}
