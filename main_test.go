package main

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bhom/cqdauth/internal/bootstrap"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCmd(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()

	// Isolate from the developer's environment
	for _, key := range []string{
		"CQD_USERNAME", "CQD_PASSWORD", "CQD_API_URL", "CQD_TLS_PROTOCOLS",
		"CQD_API_AUTH_MODE", "CQD_TIMEOUT", "LOG_LEVEL",
		"SERVER_ALLOW_ENDPOINT_OVERRIDE", "SERVER_TRUSTED_PROXIES", "RATE_LIMIT_PER_MINUTE",
	} {
		t.Setenv(key, "")
	}
	t.Setenv("LOG_FORMAT", "json")

	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)

	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestTokenCmd_PrintsToken(t *testing.T) {
	var body string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		body = string(b)
		_, _ = w.Write([]byte(`{"key":"cli-token"}`))
	}))
	defer server.Close()

	stdout, _, err := runCmd(t, "token", "-u", "alice", "-p", "pw", "--endpoint", server.URL)
	require.NoError(t, err)

	assert.Equal(t, "cli-token\n", stdout)
	assert.Equal(t, `{"username":"alice","password":"pw"}`, body)
}

func TestTokenCmd_FallbackPrintsRawAndWarns(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("maintenance window"))
	}))
	defer server.Close()

	stdout, stderr, err := runCmd(t, "token", "--endpoint", server.URL, "--tls-protocols", "tls1.2")
	require.NoError(t, err)

	assert.Equal(t, "maintenance window\n", stdout)
	assert.Contains(t, stderr, "unexpected login response shape")
}

func TestTokenCmd_TransportFailure(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	stdout, _, err := runCmd(t, "token", "--endpoint", url)
	require.Error(t, err)
	assert.Empty(t, stdout)
}

func TestTokenCmd_InvalidTLSProtocols(t *testing.T) {
	_, _, err := runCmd(t, "token", "--tls-protocols", "sslv2")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CQD_TLS_PROTOCOLS")
}

func TestGetCmd(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"key":"abc"}`))
	})
	mux.HandleFunc("/api/epds", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer abc" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`[{"category":"` + r.URL.Query().Get("category") + `"}]`))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	stdout, _, err := runCmd(
		t,
		"get", server.URL+"/api/epds",
		"--endpoint", server.URL+"/login",
		"-q", "category=Steel",
	)
	require.NoError(t, err)
	assert.Equal(t, `[{"category":"Steel"}]`, stdout)
}

func TestGetCmd_NoTokenIsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("denied"))
	}))
	defer server.Close()

	_, _, err := runCmd(t, "get", server.URL+"/api/epds", "--endpoint", server.URL)
	require.Error(t, err)
	assert.ErrorIs(t, err, errNoToken)
}

func TestParseParams(t *testing.T) {
	got, err := parseParams([]string{"a=1", "b=x=y", "c="})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"a": "1", "b": "x=y", "c": ""}, got)

	_, err = parseParams([]string{"novalue"})
	assert.Error(t, err)

	_, err = parseParams([]string{"=v"})
	assert.Error(t, err)
}

// captureServe replaces the blocking server run with one that records the app.
func captureServe(t *testing.T) **bootstrap.Application {
	t.Helper()

	var captured *bootstrap.Application
	orig := runApp
	runApp = func(app *bootstrap.Application) { captured = app }
	t.Cleanup(func() { runApp = orig })
	return &captured
}

func TestServeCmd_AddrFlagOverridesEnv(t *testing.T) {
	t.Setenv("SERVER_ADDR", "127.0.0.1:7000")
	t.Setenv("METRICS_ENABLED", "false")
	captured := captureServe(t)

	_, _, err := runCmd(t, "serve", "--addr", "127.0.0.1:9999")
	require.NoError(t, err)
	require.NotNil(t, *captured)
	assert.Equal(t, "127.0.0.1:9999", (*captured).Server.Addr)
}

func TestServeCmd_AddrFromEnv(t *testing.T) {
	t.Setenv("SERVER_ADDR", "127.0.0.1:7000")
	t.Setenv("METRICS_ENABLED", "false")
	captured := captureServe(t)

	_, _, err := runCmd(t, "serve")
	require.NoError(t, err)
	require.NotNil(t, *captured)
	assert.Equal(t, "127.0.0.1:7000", (*captured).Server.Addr)
}

func TestServeCmd_InvalidConfig(t *testing.T) {
	t.Setenv("METRICS_ENABLED", "false")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("CQD_TLS_PROTOCOLS", "tls9")
	captured := captureServe(t)

	cmd := newRootCmd()
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"serve", "--addr", "127.0.0.1:0"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CQD_TLS_PROTOCOLS")
	assert.Nil(t, *captured, "server must not start")
}

func TestVersionCmd(t *testing.T) {
	stdout, _, err := runCmd(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stdout, "cqdauth version "))
}
