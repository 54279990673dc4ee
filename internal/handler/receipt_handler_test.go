package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recscan/internal/config"
	"recscan/internal/handler"
	"recscan/internal/service"
	"recscan/internal/validator"
)

// fallbackOnlyService builds a service with no completion backend, so every
// request goes through the deterministic regex path.
func fallbackOnlyService() *service.AnalyzeService {
	validatorCfg := config.ValidatorConfig{SuspectRatio: 0.75, MinTokenRatio: 1.0 / 3.0, AmountTolerance: 0.01}
	extractorCfg := config.ExtractorConfig{TimeoutSecs: 5, MaxRetries: 2, RetryDelayMs: 1}
	return service.NewAnalyzeService(nil, validator.New(validatorCfg), nil, extractorCfg, validatorCfg)
}

func setupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := handler.NewReceiptHandler(fallbackOnlyService())
	r := gin.New()
	r.POST("/analyze-receipt", h.Analyze)
	r.POST("/export", h.Export)
	return r
}

func postJSON(t *testing.T, r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAnalyzeEndpoint_Success(t *testing.T) {
	r := setupRouter()
	w := postJSON(t, r, "/analyze-receipt", `{"text": "CAFE ONE\n2 Coffee 3.50\n1 Muffin 2.00\nTotal: 9.00"}`)

	require.Equal(t, http.StatusOK, w.Code)

	var resp handler.AnalyzeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	require.NotNil(t, resp.Data)
	assert.Equal(t, "CAFE ONE", resp.Data.MerchantName)
	assert.Len(t, resp.Data.Items, 2)
	assert.Equal(t, 9.0, resp.Data.TotalAmount)
	assert.Equal(t, service.FallbackModelLabel, resp.ProcessingInfo.ModelUsed)
	assert.NotEmpty(t, resp.ProcessingInfo.Timestamp)
	assert.NotNil(t, resp.ProcessingInfo.ProcessingNotes)
}

func TestAnalyzeEndpoint_EmptyText(t *testing.T) {
	r := setupRouter()
	w := postJSON(t, r, "/analyze-receipt", `{"text": "   "}`)

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var resp handler.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "No text provided to analyze", resp.Error)
}

func TestAnalyzeEndpoint_InvalidBody(t *testing.T) {
	r := setupRouter()
	w := postJSON(t, r, "/analyze-receipt", `{"text": `)

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var resp handler.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
}

func TestAnalyzeEndpoint_OllamaConfigModelAccepted(t *testing.T) {
	r := setupRouter()
	w := postJSON(t, r, "/analyze-receipt", `{"text": "MART\nBananas 1.20", "ollama_config": {"model": "llava"}}`)

	// no backend is configured, so the override is simply carried through
	require.Equal(t, http.StatusOK, w.Code)
}

func TestExportEndpoint_CSV(t *testing.T) {
	r := setupRouter()
	w := postJSON(t, r, "/export?format=csv", `{"text": "CAFE ONE\n2 Coffee 3.50\nTotal: 7.00"}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment")
	assert.Contains(t, w.Header().Get("Content-Disposition"), ".csv")
	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")

	body := w.Body.String()
	assert.True(t, strings.HasPrefix(body, "\xEF\xBB\xBF"))
	assert.Contains(t, body, "Coffee")
	assert.Contains(t, body, "TOTAL")
}

func TestExportEndpoint_XLSX(t *testing.T) {
	r := setupRouter()
	w := postJSON(t, r, "/export?format=xlsx", `{"text": "CAFE ONE\n2 Coffee 3.50\nTotal: 7.00"}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), ".xlsx")
	assert.NotZero(t, w.Body.Len())
}

func TestExportEndpoint_UnsupportedFormat(t *testing.T) {
	r := setupRouter()
	w := postJSON(t, r, "/export?format=pdf", `{"text": "CAFE ONE\n2 Coffee 3.50"}`)

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
}
