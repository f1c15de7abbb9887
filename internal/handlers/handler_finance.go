package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/daybook/personal_manager_app/internal/apperrors"
	portssvc "github.com/daybook/personal_manager_app/internal/core/ports/services"
	"github.com/daybook/personal_manager_app/internal/core/services"
	"github.com/daybook/personal_manager_app/internal/dto"
	"github.com/daybook/personal_manager_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// financeHandler handles HTTP requests related to obligations and installments.
type financeHandler struct {
	obligationService portssvc.ObligationSvcFacade
}

// newFinanceHandler creates a new financeHandler.
func newFinanceHandler(obligationService portssvc.ObligationSvcFacade) *financeHandler {
	return &financeHandler{
		obligationService: obligationService,
	}
}

func (h *financeHandler) createObligation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	createReq := dto.CreateObligationRequest{}
	if err := c.ShouldBindJSON(&createReq); err != nil {
		logger.Error("Failed to bind JSON for CreateObligation", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Creator user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	resp, err := h.obligationService.CreateObligation(c.Request.Context(), createReq, creatorUserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error creating obligation", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to create obligation in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create obligation"})
		}
		return
	}

	logger.Info("Obligation created successfully", slog.String("obligation_id", resp.Obligation.ObligationID))
	c.JSON(http.StatusCreated, resp)
}

func (h *financeHandler) getObligation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	obligationID := c.Param("obligationID")

	userID, _ := middleware.GetUserIDFromContext(c)
	resp, err := h.obligationService.GetObligationByID(c.Request.Context(), obligationID, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Obligation not found", slog.String("obligation_id", obligationID))
			c.JSON(http.StatusNotFound, gin.H{"error": "Obligation not found"})
			return
		}
		logger.Error("Failed to get obligation from service", slog.String("error", err.Error()), slog.String("obligation_id", obligationID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve obligation"})
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *financeHandler) listObligations(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	params := dto.ListObligationsParams{}
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Error("Failed to bind query params for ListObligations", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}

	userID, _ := middleware.GetUserIDFromContext(c)
	resp, err := h.obligationService.ListObligations(c.Request.Context(), userID, params)
	if err != nil {
		logger.Error("Failed to list obligations", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list obligations"})
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *financeHandler) recalculateSchedule(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	obligationID := c.Param("obligationID")

	recalcReq := dto.RecalculateObligationRequest{}
	if err := c.ShouldBindJSON(&recalcReq); err != nil {
		logger.Error("Failed to bind JSON for RecalculateSchedule", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	userID, _ := middleware.GetUserIDFromContext(c)
	resp, err := h.obligationService.RecalculateSchedule(c.Request.Context(), obligationID, recalcReq, userID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			logger.Warn("Obligation not found for recalculation", slog.String("obligation_id", obligationID))
			c.JSON(http.StatusNotFound, gin.H{"error": "Obligation not found"})
		case errors.Is(err, services.ErrAmountBelowPaid),
			errors.Is(err, services.ErrCountBelowCompleted),
			errors.Is(err, services.ErrStartDateConflict):
			logger.Warn("Schedule recalculation conflict", slog.String("error", err.Error()), slog.String("obligation_id", obligationID))
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrValidation):
			logger.Warn("Validation error recalculating schedule", slog.String("error", err.Error()), slog.String("obligation_id", obligationID))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to recalculate schedule in service", slog.String("error", err.Error()), slog.String("obligation_id", obligationID))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to recalculate schedule"})
		}
		return
	}

	logger.Info("Schedule recalculated", slog.String("obligation_id", obligationID))
	c.JSON(http.StatusOK, resp)
}

func (h *financeHandler) settleInstallment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	obligationID := c.Param("obligationID")
	installmentID := c.Param("installmentID")

	userID, _ := middleware.GetUserIDFromContext(c)
	installment, err := h.obligationService.SettleInstallment(c.Request.Context(), obligationID, installmentID, userID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			logger.Warn("Installment not found for settlement", slog.String("obligation_id", obligationID), slog.String("installment_id", installmentID))
			c.JSON(http.StatusNotFound, gin.H{"error": "Installment not found"})
		case errors.Is(err, services.ErrInstallmentAlreadySettled),
			errors.Is(err, services.ErrSettleOutOfOrder):
			logger.Warn("Installment cannot be settled", slog.String("error", err.Error()), slog.String("installment_id", installmentID))
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to settle installment in service", slog.String("error", err.Error()), slog.String("installment_id", installmentID))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to settle installment"})
		}
		return
	}

	logger.Info("Installment settled", slog.String("installment_id", installmentID))
	c.JSON(http.StatusOK, dto.ToInstallmentResponse(installment))
}

func (h *financeHandler) closeObligation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	obligationID := c.Param("obligationID")

	userID, _ := middleware.GetUserIDFromContext(c)
	if err := h.obligationService.CloseObligation(c.Request.Context(), obligationID, userID); err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			logger.Warn("Obligation not found for close", slog.String("obligation_id", obligationID))
			c.JSON(http.StatusNotFound, gin.H{"error": "Obligation not found"})
		case errors.Is(err, services.ErrObligationHasPending):
			logger.Warn("Obligation still has pending installments", slog.String("obligation_id", obligationID))
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to close obligation in service", slog.String("error", err.Error()), slog.String("obligation_id", obligationID))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to close obligation"})
		}
		return
	}

	logger.Info("Obligation closed", slog.String("obligation_id", obligationID))
	c.Status(http.StatusNoContent)
}

// registerFinanceRoutes registers obligation specific routes
func registerFinanceRoutes(group *gin.RouterGroup, obligationService portssvc.ObligationSvcFacade) {
	h := newFinanceHandler(obligationService)

	obligations := group.Group("/obligations")
	{
		obligations.POST("", h.createObligation)
		obligations.GET("", h.listObligations)
		obligations.GET("/:obligationID", h.getObligation)
		obligations.PUT("/:obligationID", h.recalculateSchedule)
		obligations.POST("/:obligationID/close", h.closeObligation)
		obligations.POST("/:obligationID/installments/:installmentID/settle", h.settleInstallment)
	}
}
