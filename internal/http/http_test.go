package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/PrLayt0n/FiLeaked/internal/config"
	fingerprintDomain "github.com/PrLayt0n/FiLeaked/internal/fingerprint/domain"
	fingerprintHTTP "github.com/PrLayt0n/FiLeaked/internal/fingerprint/http"
	usecaseMocks "github.com/PrLayt0n/FiLeaked/internal/fingerprint/usecase/mocks"
	"github.com/PrLayt0n/FiLeaked/internal/metrics"
)

const testAPIToken = "s3cr3t-api-token"

// TestMain sets Gin to test mode for all tests in this package.
func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig() *config.Config {
	return &config.Config{
		APIToken:                testAPIToken,
		MaxUploadBytes:          1 << 20,
		RateLimitEnabled:        true,
		RateLimitRequestsPerSec: 100,
		RateLimitBurst:          100,
		MetricsNamespace:        "test_app",
	}
}

// createTestServer returns a server with routes installed over a mock use case.
func createTestServer(t *testing.T) (*Server, *usecaseMocks.MockFingerprintUseCase) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	mockUseCase := &usecaseMocks.MockFingerprintUseCase{}
	handler := fingerprintHTTP.NewFingerprintHandler(mockUseCase, 1<<20, discardLogger())

	server := NewServer("localhost", 0, discardLogger())
	server.SetupRouter(ctx, testConfig(), handler, nil)
	return server, mockUseCase
}

func scanRequest(t *testing.T, token string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "leak.txt")
	require.NoError(t, err)
	_, err = part.Write([]byte("leaked"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/v1/scan", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func TestHealthHandler(t *testing.T) {
	server, _ := createTestServer(t)

	w := httptest.NewRecorder()
	server.GetHandler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, w.Body.String())
}

func TestReadinessHandler(t *testing.T) {
	t.Run("Success_ReadyAfterSetup", func(t *testing.T) {
		server, _ := createTestServer(t)

		w := httptest.NewRecorder()
		server.GetHandler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"status":"ready"}`, w.Body.String())
	})

	t.Run("Error_NotReadyWithoutRouter", func(t *testing.T) {
		server := NewServer("localhost", 0, discardLogger())

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/ready", nil)
		server.readinessHandler(c)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.JSONEq(t, `{"status":"not_ready"}`, w.Body.String())
	})

	t.Run("Error_NotReadyAfterShutdown", func(t *testing.T) {
		server, _ := createTestServer(t)
		require.NoError(t, server.Shutdown(context.Background()))

		w := httptest.NewRecorder()
		server.GetHandler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}

func TestRouter_Authentication(t *testing.T) {
	t.Run("Success_ValidToken", func(t *testing.T) {
		server, mockUseCase := createTestServer(t)
		mockUseCase.On("Identify", mock.Anything, []byte("leaked"), fingerprintDomain.TXT).
			Return(nil, fingerprintDomain.ErrFingerprintNotFound).
			Once()

		w := httptest.NewRecorder()
		server.GetHandler().ServeHTTP(w, scanRequest(t, testAPIToken))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"status":"not_found"}`, w.Body.String())
		mockUseCase.AssertExpectations(t)
	})

	t.Run("Error_MissingToken", func(t *testing.T) {
		server, _ := createTestServer(t)

		w := httptest.NewRecorder()
		server.GetHandler().ServeHTTP(w, scanRequest(t, ""))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Error_WrongToken", func(t *testing.T) {
		server, _ := createTestServer(t)

		w := httptest.NewRecorder()
		server.GetHandler().ServeHTTP(w, scanRequest(t, "guess"))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestRouter_NotFoundEndpoint(t *testing.T) {
	server, _ := createTestServer(t)

	w := httptest.NewRecorder()
	server.GetHandler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nonexistent", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouter_NoMetricsEndpoint(t *testing.T) {
	server, _ := createTestServer(t)

	w := httptest.NewRecorder()
	server.GetHandler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouter_RequestIDHeader(t *testing.T) {
	server, _ := createTestServer(t)

	w := httptest.NewRecorder()
	server.GetHandler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	requestID := w.Header().Get("X-Request-Id")
	require.NotEmpty(t, requestID)
	parsed, err := uuid.Parse(requestID)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), parsed.Version())
}

func TestServer_StartWithoutRouter(t *testing.T) {
	server := NewServer("localhost", 0, discardLogger())
	assert.Error(t, server.Start(context.Background()))
}

func TestServer_ShutdownGracefully(t *testing.T) {
	server, _ := createTestServer(t)

	errChan := make(chan error, 1)
	go func() {
		errChan <- server.Start(context.Background())
	}()

	time.Sleep(100 * time.Millisecond)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, server.Shutdown(shutdownCtx))

	select {
	case err := <-errChan:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestMetricsServer_Endpoints(t *testing.T) {
	provider, err := metrics.NewProvider("test_app")
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, provider.Shutdown(context.Background()))
	}()

	metricsServer := NewMetricsServer("localhost", 0, discardLogger(), provider)
	require.NotNil(t, metricsServer)

	w := httptest.NewRecorder()
	metricsServer.GetHandler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")

	w = httptest.NewRecorder()
	metricsServer.GetHandler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
}
