package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"recscan/internal/domain"
)

// AnalyzeResponse is the success envelope for analysis responses.
type AnalyzeResponse struct {
	Success        bool                  `json:"success"`
	Data           *domain.ReceiptRecord `json:"data"`
	ProcessingInfo ProcessingInfo        `json:"processing_info"`
}

// ProcessingInfo carries observability metadata alongside a record.
type ProcessingInfo struct {
	ModelUsed       string   `json:"model_used"`
	Timestamp       string   `json:"timestamp"`
	ProcessingNotes []string `json:"processing_notes"`
}

// ErrorResponse is the failure envelope.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// RespondRecord sends a 200 success response with a record and its
// processing metadata.
func RespondRecord(c *gin.Context, record *domain.ReceiptRecord, info ProcessingInfo) {
	if info.ProcessingNotes == nil {
		info.ProcessingNotes = []string{}
	}
	c.JSON(http.StatusOK, AnalyzeResponse{Success: true, Data: record, ProcessingInfo: info})
}

// RespondError sends an error response with the given status code.
func RespondError(c *gin.Context, status int, msg string) {
	c.JSON(status, ErrorResponse{Success: false, Error: msg})
}

// MapDomainError translates pipeline errors to HTTP status codes and
// user-facing messages. Fallback-recoverable conditions never reach this
// point; only empty input and total pipeline exhaustion do.
func MapDomainError(err error) (status int, msg string) {
	switch {
	case errors.Is(err, domain.ErrEmptyInput):
		return http.StatusUnprocessableEntity, "No text provided to analyze"
	case errors.Is(err, domain.ErrBackendUnavailable):
		return http.StatusServiceUnavailable, "extraction backend unavailable and no text available for fallback"
	default:
		return http.StatusInternalServerError, err.Error()
	}
}

// HandleError maps a pipeline error and sends the appropriate response.
func HandleError(c *gin.Context, err error) {
	status, msg := MapDomainError(err)
	if status >= 500 {
		requestID, _ := c.Get("request_id")
		log.Printf("[%s] analysis error: %v", requestID, err)
	}
	RespondError(c, status, msg)
}
