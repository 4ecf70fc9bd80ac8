package api

import (
	"errors"
	"net/http"
	"strconv"

	"receipt-api/internal/database"
	"receipt-api/internal/middleware"
	"receipt-api/internal/response"
	"receipt-api/internal/services"
	"receipt-api/pkg/logging"

	"github.com/gin-gonic/gin"
)

// ParseReceiptRequest carries a base64 receipt as read from the app bundle
type ParseReceiptRequest struct {
	ReceiptData string `json:"receipt_data" binding:"required"`
}

// EntitlementsRequest asks what a receipt unlocks for one product
type EntitlementsRequest struct {
	ReceiptData string `json:"receipt_data" binding:"required"`
	ProductID   string `json:"product_id" binding:"required"`
}

// ReceiptHandler serves the receipt routes
type ReceiptHandler struct {
	service *services.ReceiptService
}

// NewReceiptHandler creates a receipt handler
func NewReceiptHandler(service *services.ReceiptService) *ReceiptHandler {
	return &ReceiptHandler{service: service}
}

// ParseReceipt decodes, stores and returns a receipt
// @Router /api/receipts/parse [post]
func (h *ReceiptHandler) ParseReceipt(c *gin.Context) {
	var req ParseReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorJSON(c, http.StatusBadRequest, "Invalid request format: "+err.Error())
		return
	}

	app := middleware.CurrentApp(c)
	result, err := h.service.ParseReceipt(c.Request.Context(), app, req.ReceiptData)
	if err != nil {
		writeReceiptError(c, err)
		return
	}
	response.SuccessJSON(c, result)
}

// HasTransactions reports whether a receipt holds in-app purchases
// @Router /api/receipts/has-transactions [post]
func (h *ReceiptHandler) HasTransactions(c *gin.Context) {
	var req ParseReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorJSON(c, http.StatusBadRequest, "Invalid request format: "+err.Error())
		return
	}

	has, err := h.service.HasTransactions(req.ReceiptData)
	if err != nil {
		writeReceiptError(c, err)
		return
	}
	response.SuccessJSON(c, gin.H{"has_transactions": has})
}

// Entitlements evaluates a receipt for a product
// @Router /api/receipts/entitlements [post]
func (h *ReceiptHandler) Entitlements(c *gin.Context) {
	var req EntitlementsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorJSON(c, http.StatusBadRequest, "Invalid request format: "+err.Error())
		return
	}

	result, err := h.service.Entitlements(c.Request.Context(), middleware.CurrentApp(c), req.ReceiptData, req.ProductID)
	if err != nil {
		writeReceiptError(c, err)
		return
	}
	response.SuccessJSON(c, result)
}

// GetReceipt returns a stored receipt of the calling app
// @Router /api/receipts/{id} [get]
func (h *ReceiptHandler) GetReceipt(c *gin.Context) {
	record, err := h.service.GetRecord(c.Request.Context(), middleware.CurrentApp(c), c.Param("id"))
	if err != nil {
		writeReceiptError(c, err)
		return
	}
	response.SuccessJSON(c, record)
}

// ListReceipts returns the latest stored receipts of the calling app
// @Router /api/receipts [get]
func (h *ReceiptHandler) ListReceipts(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	records, err := h.service.ListRecords(c.Request.Context(), middleware.CurrentApp(c), limit)
	if err != nil {
		writeReceiptError(c, err)
		return
	}
	response.SuccessJSON(c, records)
}

func writeReceiptError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrEmptyReceipt), errors.Is(err, services.ErrInvalidBase64):
		status = http.StatusBadRequest
	case errors.Is(err, services.ErrReceiptTooLarge):
		status = http.StatusRequestEntityTooLarge
	case errors.Is(err, services.ErrInvalidReceipt):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, services.ErrBundleMismatch):
		status = http.StatusForbidden
	case errors.Is(err, database.ErrReceiptNotFound):
		status = http.StatusNotFound
	}

	if status == http.StatusInternalServerError {
		logging.Errorf("Receipt request failed - path: %s, error: %v", c.FullPath(), err)
		response.ErrorJSON(c, status, "Internal server error")
		return
	}
	response.ErrorJSON(c, status, err.Error())
}
