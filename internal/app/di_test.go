package app

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PrLayt0n/FiLeaked/internal/config"
	fingerprintDomain "github.com/PrLayt0n/FiLeaked/internal/fingerprint/domain"
	fingerprintService "github.com/PrLayt0n/FiLeaked/internal/fingerprint/service"
	"github.com/PrLayt0n/FiLeaked/internal/metrics"
)

const testAPIToken = "container-test-token"

func testConfig() *config.Config {
	return &config.Config{
		ServerHost:              "localhost",
		ServerPort:              0,
		LogLevel:                "error",
		MasterSecret:            "correct horse battery staple",
		AEADAlgorithm:           string(fingerprintDomain.AESGCM),
		APIToken:                testAPIToken,
		MaxUploadBytes:          1 << 20,
		DistributeWorkers:       2,
		RateLimitEnabled:        true,
		RateLimitRequestsPerSec: 100,
		RateLimitBurst:          100,
		MetricsEnabled:          true,
		MetricsNamespace:        "fileaked_test",
		MetricsPort:             0,
	}
}

func newContainer(t *testing.T, cfg *config.Config) *Container {
	t.Helper()
	container := NewContainer(cfg)
	t.Cleanup(func() {
		assert.NoError(t, container.Shutdown(context.Background()))
	})
	return container
}

func TestNewContainer(t *testing.T) {
	cfg := testConfig()
	container := newContainer(t, cfg)

	assert.Same(t, cfg, container.Config())
	assert.NotNil(t, container.Logger())
	assert.Same(t, container.Logger(), container.Logger())
	assert.Same(t, container.CodecRegistry(), container.CodecRegistry())
}

func TestContainer_TokenCodec(t *testing.T) {
	t.Run("Success_PlainSecret", func(t *testing.T) {
		container := newContainer(t, testConfig())

		codec, err := container.TokenCodec()
		require.NoError(t, err)

		token, err := codec.Encode([]byte("3:4"))
		require.NoError(t, err)
		plain, err := codec.Decode(token)
		require.NoError(t, err)
		assert.Equal(t, []byte("3:4"), plain)

		again, err := container.TokenCodec()
		require.NoError(t, err)
		assert.Same(t, codec, again)
	})

	t.Run("Success_KMSWrappedSecret", func(t *testing.T) {
		key := make([]byte, 32)
		_, err := rand.Read(key)
		require.NoError(t, err)
		keyURI := "base64key://" + base64.URLEncoding.EncodeToString(key)

		wrapped, err := fingerprintService.WrapMasterSecret(
			context.Background(),
			fingerprintService.NewKMSService(),
			keyURI,
			[]byte("correct horse battery staple"),
		)
		require.NoError(t, err)

		cfg := testConfig()
		cfg.MasterSecret = wrapped
		cfg.KMSProvider = "localsecrets"
		cfg.KMSKeyURI = keyURI

		wrappedCodec, err := newContainer(t, cfg).TokenCodec()
		require.NoError(t, err)
		plainCodec, err := newContainer(t, testConfig()).TokenCodec()
		require.NoError(t, err)

		token, err := plainCodec.Encode([]byte("7"))
		require.NoError(t, err)
		got, err := wrappedCodec.Decode(token)
		require.NoError(t, err)
		assert.Equal(t, []byte("7"), got)
	})

	t.Run("Error_MissingSecretIsSticky", func(t *testing.T) {
		cfg := testConfig()
		cfg.MasterSecret = ""
		container := newContainer(t, cfg)

		_, err := container.TokenCodec()
		assert.ErrorIs(t, err, fingerprintDomain.ErrInvalidMasterSecret)

		_, err = container.TokenCodec()
		assert.ErrorIs(t, err, fingerprintDomain.ErrInvalidMasterSecret)

		_, err = container.HTTPServer()
		assert.ErrorIs(t, err, fingerprintDomain.ErrInvalidMasterSecret)
	})

	t.Run("Error_UnsupportedAlgorithm", func(t *testing.T) {
		cfg := testConfig()
		cfg.AEADAlgorithm = "rot13"

		_, err := newContainer(t, cfg).TokenCodec()
		assert.ErrorIs(t, err, fingerprintDomain.ErrUnsupportedAlgorithm)
	})
}

func TestContainer_Metrics(t *testing.T) {
	t.Run("Success_Enabled", func(t *testing.T) {
		container := newContainer(t, testConfig())

		provider, err := container.MetricsProvider()
		require.NoError(t, err)
		assert.NotNil(t, provider)

		server, err := container.MetricsServer()
		require.NoError(t, err)
		assert.NotNil(t, server)
	})

	t.Run("Success_DisabledUsesNoOp", func(t *testing.T) {
		cfg := testConfig()
		cfg.MetricsEnabled = false
		container := newContainer(t, cfg)

		provider, err := container.MetricsProvider()
		require.NoError(t, err)
		assert.Nil(t, provider)

		bm, err := container.BusinessMetrics()
		require.NoError(t, err)
		assert.IsType(t, metrics.NoOpBusinessMetrics{}, bm)

		server, err := container.MetricsServer()
		require.NoError(t, err)
		assert.Nil(t, server)
	})
}

func postFile(t *testing.T, handler http.Handler, path, filename string, content []byte, fields map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	part, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+testAPIToken)

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func TestContainer_HTTPServerEndToEnd(t *testing.T) {
	gin.SetMode(gin.TestMode)
	container := newContainer(t, testConfig())

	server, err := container.HTTPServer()
	require.NoError(t, err)
	handler := server.GetHandler()

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = postFile(t, handler, "/v1/fingerprints", "memo.txt", []byte("Quarterly numbers.\n"),
		map[string]string{"distribution_id": "8", "copy_id": "21"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Header().Get("Content-Disposition"), "memo_21.txt")
	marked := w.Body.Bytes()

	w = postFile(t, handler, "/v1/scan", "leak.txt", marked, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "found", resp["status"])
	assert.Equal(t, "8:21", resp["identifier"])
	assert.Equal(t, "zero-width", resp["channel"])

	w = postFile(t, handler, "/v1/scan", "clean.txt", []byte("Quarterly numbers.\n"), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"not_found"}`, w.Body.String())
}

func TestContainer_ShutdownIdempotent(t *testing.T) {
	container := NewContainer(testConfig())
	_, err := container.TokenCodec()
	require.NoError(t, err)

	assert.NoError(t, container.Shutdown(context.Background()))
	assert.NoError(t, container.Shutdown(context.Background()))
}
