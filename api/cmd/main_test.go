package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baechuer/ewm-service/internal/config"
)

func TestNewApp(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	t.Run("should_correctly_wire_dependencies", func(t *testing.T) {
		cfg := &config.Config{HTTPAddr: ":8081", StatsAppName: "ewm-main-service"}

		app, err := NewApp(cfg, db)
		require.NoError(t, err)
		defer app.Close()

		assert.Equal(t, cfg.HTTPAddr, app.Server.Addr)
		assert.NotNil(t, app.Server.Handler)
		assert.Nil(t, app.Publisher)
		assert.Nil(t, app.Redis)

		rr := httptest.NewRecorder()
		app.Server.Handler.ServeHTTP(rr, httptest.NewRequest("GET", "/healthz", nil))
		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("admin_gate_uses_redis_when_configured", func(t *testing.T) {
		mr := miniredis.RunT(t)
		cfg := &config.Config{
			HTTPAddr:       ":8081",
			JWTSecret:      "test-secret",
			RedisURL:       "redis://" + mr.Addr() + "/0",
			StatsServerURL: "http://127.0.0.1:1",
			StatsTimeout:   time.Second,
		}

		app, err := NewApp(cfg, db)
		require.NoError(t, err)
		defer app.Close()
		require.NotNil(t, app.Redis)

		rr := httptest.NewRecorder()
		app.Server.Handler.ServeHTTP(rr, httptest.NewRequest("GET", "/admin/events", nil))
		assert.Equal(t, http.StatusUnauthorized, rr.Code)

		rr = httptest.NewRecorder()
		app.Server.Handler.ServeHTTP(rr, httptest.NewRequest("GET", "/readyz", nil))
		assert.Equal(t, http.StatusOK, rr.Code)

		mr.Close()
		rr = httptest.NewRecorder()
		app.Server.Handler.ServeHTTP(rr, httptest.NewRequest("GET", "/readyz", nil))
		assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	})

	t.Run("unreachable_redis_fails", func(t *testing.T) {
		cfg := &config.Config{RedisURL: "redis://127.0.0.1:1/0"}
		_, err := NewApp(cfg, db)
		assert.Error(t, err)
	})
}

func TestApp_Run_StopsOnCancel(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	app, err := NewApp(&config.Config{HTTPAddr: "127.0.0.1:0"}, db)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestSysClock_Now(t *testing.T) {
	assert.Equal(t, "UTC", sysClock{}.Now().Location().String())
}
