package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"recscan/internal/export"
	"recscan/internal/service"
)

// analyzeRequest is the request body for both the analyze and export
// endpoints. ollama_config is accepted for backwards compatibility with
// existing clients; the core only honors its model selection.
type analyzeRequest struct {
	Text         string        `json:"text"`
	Image        string        `json:"image"`
	Model        string        `json:"model"`
	OllamaConfig *ollamaConfig `json:"ollama_config"`
}

type ollamaConfig struct {
	Model string `json:"model"`
}

func (r *analyzeRequest) modelOverride() string {
	if r.Model != "" {
		return r.Model
	}
	if r.OllamaConfig != nil {
		return r.OllamaConfig.Model
	}
	return ""
}

// ReceiptHandler handles receipt analysis endpoints.
type ReceiptHandler struct {
	svc *service.AnalyzeService
}

// NewReceiptHandler creates a new ReceiptHandler.
func NewReceiptHandler(svc *service.AnalyzeService) *ReceiptHandler {
	return &ReceiptHandler{svc: svc}
}

// Analyze handles POST /api/v1/receipts/analyze (and the legacy
// POST /analyze-receipt alias).
func (h *ReceiptHandler) Analyze(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusUnprocessableEntity, "invalid request body: "+err.Error())
		return
	}

	result, err := h.svc.Analyze(c.Request.Context(), service.AnalyzeInput{
		Text:        req.Text,
		ImageBase64: req.Image,
		Model:       req.modelOverride(),
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondRecord(c, result.Record, ProcessingInfo{
		ModelUsed:       result.ModelUsed,
		Timestamp:       time.Now().UTC().Format(time.RFC3339),
		ProcessingNotes: result.Record.Provenance.Notes,
	})
}

// Export handles POST /api/v1/receipts/export?format=csv|xlsx. It runs the
// same pipeline as Analyze and streams the record as a downloadable file.
func (h *ReceiptHandler) Export(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusUnprocessableEntity, "invalid request body: "+err.Error())
		return
	}

	result, err := h.svc.Analyze(c.Request.Context(), service.AnalyzeInput{
		Text:        req.Text,
		ImageBase64: req.Image,
		Model:       req.modelOverride(),
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	format := c.DefaultQuery("format", "csv")
	switch format {
	case "csv":
		c.Header("Content-Disposition", "attachment; filename="+export.BuildFilename(result.Record.MerchantName, "csv"))
		c.Header("Content-Type", "text/csv; charset=utf-8")
		if err := export.WriteCSV(c.Writer, result.Record); err != nil {
			HandleError(c, err)
		}
	case "xlsx":
		c.Header("Content-Disposition", "attachment; filename="+export.BuildFilename(result.Record.MerchantName, "xlsx"))
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		if err := export.WriteXLSX(c.Writer, result.Record); err != nil {
			HandleError(c, err)
		}
	default:
		RespondError(c, http.StatusUnprocessableEntity, "unsupported export format; allowed: csv, xlsx")
	}
}
