package main

import (
	"bytes"
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EpicMandM/dewi-reservations/internal/app"
	"github.com/EpicMandM/dewi-reservations/internal/config"
	"github.com/EpicMandM/dewi-reservations/internal/logger"
)

func TestGetEnvOrDefault_UsesEnvVar(t *testing.T) {
	t.Setenv("TEST_KEY_XYZ", "from_env")
	assert.Equal(t, "from_env", getEnvOrDefault("TEST_KEY_XYZ", "fallback"))
}

func TestGetEnvOrDefault_UsesDefault(t *testing.T) {
	_ = os.Unsetenv("TEST_KEY_XYZ")
	assert.Equal(t, "fallback", getEnvOrDefault("TEST_KEY_XYZ", "fallback"))
}

func TestGetEnvOrDefault_EmptyEnvUsesDefault(t *testing.T) {
	t.Setenv("TEST_KEY_XYZ", "")
	assert.Equal(t, "fallback", getEnvOrDefault("TEST_KEY_XYZ", "fallback"))
}

func setRequiredEnv(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("ENV_FILE", filepath.Join(dir, "missing.env"))
	t.Setenv("CONFIG_PATH", filepath.Join(dir, "missing.toml"))
	t.Setenv("EMAIL", "player@example.com")
	t.Setenv("PASSWORD", "s3cret")
	t.Setenv("CLUB", "tcamsterdam")
	t.Setenv("HOST", "")
	t.Setenv("PORT", "")
}

func TestInitialize_Success(t *testing.T) {
	setRequiredEnv(t)
	var buf bytes.Buffer
	a := &App{ctx: context.Background(), logger: logger.NewWithWriter(&buf)}

	require.NoError(t, a.initialize())
	require.NotNil(t, a.server)
	assert.Equal(t, "127.0.0.1:8080", a.server.Addr)
	assert.Equal(t, "Europe/Amsterdam", a.featureCfg.Calendar.Timezone)
	assert.Contains(t, buf.String(), "Configuration loaded")
	assert.Contains(t, buf.String(), "club=tcamsterdam")
	assert.Contains(t, buf.String(), "https://tcamsterdam.dewi-online.nl")
	assert.NotContains(t, buf.String(), "s3cret")
}

func TestInitialize_MissingRequiredKey(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("EMAIL", "")
	var buf bytes.Buffer
	a := &App{ctx: context.Background(), logger: logger.NewWithWriter(&buf)}

	err := a.initialize()
	var missing *config.MissingError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "EMAIL", missing.Key)
	assert.Nil(t, a.server)
}

func TestRun_ConfigErrorNeverBinds(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PORT", "not-a-port")
	a := &App{ctx: context.Background(), logger: logger.Nop()}

	err := a.run()
	var invalid *config.InvalidError
	require.ErrorAs(t, err, &invalid)
	assert.Nil(t, a.server)
}

func TestInitialize_BadFeatureConfig(t *testing.T) {
	setRequiredEnv(t)
	path := filepath.Join(t.TempDir(), "feature.toml")
	require.NoError(t, os.WriteFile(path, []byte("[calendar]\ntimezone = \"Nowhere/Else\"\n"), 0o600))
	t.Setenv("CONFIG_PATH", path)
	a := &App{ctx: context.Background(), logger: logger.Nop()}

	require.Error(t, a.initialize())
	assert.Nil(t, a.server)
}

func TestServe_GracefulShutdown(t *testing.T) {
	cfg := &config.Config{Email: "e", Password: "p", Club: "c", Host: "127.0.0.1", Port: 8080}
	application, err := app.New(cfg, nil, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	a := &App{ctx: ctx, logger: logger.Nop(), server: application.Server()}

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- a.serve(ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/unknown")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestServe_ListenerFailure(t *testing.T) {
	a := &App{ctx: context.Background(), logger: logger.Nop(), server: &http.Server{}}

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	require.NoError(t, ln.Close())

	err = a.serve(ln)
	require.Error(t, err)
	assert.False(t, errors.Is(err, http.ErrServerClosed))
}
