package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/daybook/personal_manager_app/internal/apperrors"
	portssvc "github.com/daybook/personal_manager_app/internal/core/ports/services"
	"github.com/daybook/personal_manager_app/internal/core/services"
	"github.com/daybook/personal_manager_app/internal/dto"
	"github.com/daybook/personal_manager_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// ledgerHandler handles HTTP requests related to ledger entries, payments and reports.
type ledgerHandler struct {
	ledgerService portssvc.LedgerSvcFacade
}

// newLedgerHandler creates a new ledgerHandler.
func newLedgerHandler(ledgerService portssvc.LedgerSvcFacade) *ledgerHandler {
	return &ledgerHandler{
		ledgerService: ledgerService,
	}
}

func (h *ledgerHandler) createLedgerEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	createReq := dto.CreateLedgerEntryRequest{}
	if err := c.ShouldBindJSON(&createReq); err != nil {
		logger.Error("Failed to bind JSON for CreateLedgerEntry", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Creator user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	entry, err := h.ledgerService.CreateLedgerEntry(c.Request.Context(), createReq, creatorUserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error creating ledger entry", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to create ledger entry in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create ledger entry"})
		}
		return
	}

	logger.Info("Ledger entry created successfully", slog.String("ledger_id", entry.LedgerID))
	c.JSON(http.StatusCreated, dto.ToLedgerEntryResponse(entry, time.Now().UTC()))
}

func (h *ledgerHandler) getLedgerEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	ledgerID := c.Param("ledgerID")

	userID, _ := middleware.GetUserIDFromContext(c)
	entry, err := h.ledgerService.GetLedgerEntryByID(c.Request.Context(), ledgerID, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Ledger entry not found", slog.String("ledger_id", ledgerID))
			c.JSON(http.StatusNotFound, gin.H{"error": "Ledger entry not found"})
			return
		}
		logger.Error("Failed to get ledger entry from service", slog.String("error", err.Error()), slog.String("ledger_id", ledgerID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve ledger entry"})
		return
	}

	c.JSON(http.StatusOK, dto.ToLedgerEntryResponse(entry, time.Now().UTC()))
}

func (h *ledgerHandler) listLedgerEntries(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	params := dto.ListLedgerEntriesParams{}
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Error("Failed to bind query params for ListLedgerEntries", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}

	userID, _ := middleware.GetUserIDFromContext(c)
	resp, err := h.ledgerService.ListLedgerEntries(c.Request.Context(), userID, params)
	if err != nil {
		logger.Error("Failed to list ledger entries", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list ledger entries"})
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *ledgerHandler) listOverdueEntries(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, _ := middleware.GetUserIDFromContext(c)
	entries, err := h.ledgerService.ListOverdueEntries(c.Request.Context(), userID)
	if err != nil {
		logger.Error("Failed to list overdue ledger entries", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list overdue entries"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"entries": dto.ToListLedgerEntryResponse(entries, time.Now().UTC())})
}

func (h *ledgerHandler) listPayments(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	ledgerID := c.Param("ledgerID")

	userID, _ := middleware.GetUserIDFromContext(c)
	payments, err := h.ledgerService.ListPayments(c.Request.Context(), ledgerID, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Ledger entry not found for payments", slog.String("ledger_id", ledgerID))
			c.JSON(http.StatusNotFound, gin.H{"error": "Ledger entry not found"})
			return
		}
		logger.Error("Failed to list payments", slog.String("error", err.Error()), slog.String("ledger_id", ledgerID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list payments"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"payments": dto.ToPaymentRecordResponses(payments)})
}

func (h *ledgerHandler) recordPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	ledgerID := c.Param("ledgerID")

	paymentReq := dto.RecordPaymentRequest{}
	if err := c.ShouldBindJSON(&paymentReq); err != nil {
		logger.Error("Failed to bind JSON for RecordPayment", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	userID, _ := middleware.GetUserIDFromContext(c)
	entry, err := h.ledgerService.RecordPayment(c.Request.Context(), ledgerID, paymentReq, userID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			logger.Warn("Ledger entry not found for payment", slog.String("ledger_id", ledgerID))
			c.JSON(http.StatusNotFound, gin.H{"error": "Ledger entry not found"})
		case errors.Is(err, services.ErrPaymentExceedsRemaining), errors.Is(err, services.ErrEntryNotOpen):
			logger.Warn("Payment rejected", slog.String("error", err.Error()), slog.String("ledger_id", ledgerID))
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrValidation):
			logger.Warn("Validation error recording payment", slog.String("error", err.Error()), slog.String("ledger_id", ledgerID))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to record payment in service", slog.String("error", err.Error()), slog.String("ledger_id", ledgerID))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record payment"})
		}
		return
	}

	logger.Info("Payment recorded", slog.String("ledger_id", ledgerID), slog.String("status", string(entry.Status)))
	c.JSON(http.StatusOK, dto.ToLedgerEntryResponse(entry, time.Now().UTC()))
}

func (h *ledgerHandler) cancelLedgerEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	ledgerID := c.Param("ledgerID")

	userID, _ := middleware.GetUserIDFromContext(c)
	entry, err := h.ledgerService.CancelLedgerEntry(c.Request.Context(), ledgerID, userID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			logger.Warn("Ledger entry not found for cancel", slog.String("ledger_id", ledgerID))
			c.JSON(http.StatusNotFound, gin.H{"error": "Ledger entry not found"})
		case errors.Is(err, services.ErrEntryNotOpen):
			logger.Warn("Cannot cancel settled ledger entry", slog.String("ledger_id", ledgerID))
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to cancel ledger entry in service", slog.String("error", err.Error()), slog.String("ledger_id", ledgerID))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to cancel ledger entry"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToLedgerEntryResponse(entry, time.Now().UTC()))
}

func (h *ledgerHandler) getAgingReport(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, _ := middleware.GetUserIDFromContext(c)
	report, err := h.ledgerService.GetAgingReport(c.Request.Context(), userID)
	if err != nil {
		logger.Error("Failed to build aging report", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build aging report"})
		return
	}

	c.JSON(http.StatusOK, report)
}

func (h *ledgerHandler) getCashFlowProjection(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	params := dto.CashFlowParams{}
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Error("Failed to bind query params for CashFlowProjection", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}

	userID, _ := middleware.GetUserIDFromContext(c)
	projection, err := h.ledgerService.GetCashFlowProjection(c.Request.Context(), userID, params.HorizonDays)
	if err != nil {
		logger.Error("Failed to build cash flow projection", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build cash flow projection"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"projection": projection})
}

func (h *ledgerHandler) listCounterpartySummaries(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, _ := middleware.GetUserIDFromContext(c)
	summaries, err := h.ledgerService.ListCounterpartySummaries(c.Request.Context(), userID)
	if err != nil {
		logger.Error("Failed to list counterparty summaries", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list counterparty summaries"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"counterparties": summaries})
}

func (h *ledgerHandler) getCounterpartyBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	counterparty := c.Param("counterparty")

	userID, _ := middleware.GetUserIDFromContext(c)
	balance, err := h.ledgerService.GetCounterpartyBalance(c.Request.Context(), userID, counterparty, time.Now().UTC())
	if err != nil {
		logger.Error("Failed to get counterparty balance", slog.String("error", err.Error()), slog.String("counterparty", counterparty))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get counterparty balance"})
		return
	}

	c.JSON(http.StatusOK, balance)
}

// registerLedgerRoutes registers ledger specific routes
func registerLedgerRoutes(group *gin.RouterGroup, ledgerService portssvc.LedgerSvcFacade) {
	h := newLedgerHandler(ledgerService)

	ledger := group.Group("/ledger")
	{
		ledger.POST("", h.createLedgerEntry)
		ledger.GET("", h.listLedgerEntries)
		ledger.GET("/overdue", h.listOverdueEntries)
		ledger.GET("/aging", h.getAgingReport)
		ledger.GET("/cashflow", h.getCashFlowProjection)
		ledger.GET("/counterparties", h.listCounterpartySummaries)
		ledger.GET("/counterparties/:counterparty", h.getCounterpartyBalance)
		ledger.GET("/:ledgerID", h.getLedgerEntry)
		ledger.GET("/:ledgerID/payments", h.listPayments)
		ledger.POST("/:ledgerID/payments", h.recordPayment)
		ledger.POST("/:ledgerID/cancel", h.cancelLedgerEntry)
	}
}
