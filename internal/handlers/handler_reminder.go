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

// reminderHandler handles HTTP requests related to reminders.
type reminderHandler struct {
	reminderService portssvc.ReminderSvcFacade
}

// newReminderHandler creates a new reminderHandler.
func newReminderHandler(reminderService portssvc.ReminderSvcFacade) *reminderHandler {
	return &reminderHandler{
		reminderService: reminderService,
	}
}

func (h *reminderHandler) createReminder(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	createReq := dto.CreateReminderRequest{}
	if err := c.ShouldBindJSON(&createReq); err != nil {
		logger.Error("Failed to bind JSON for CreateReminder", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Creator user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	reminder, err := h.reminderService.CreateReminder(c.Request.Context(), createReq, creatorUserID)
	if err != nil {
		if errors.Is(err, services.ErrMissingRecurrenceCfg) || errors.Is(err, services.ErrMissingLinkTarget) {
			logger.Warn("Validation error creating reminder", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to create reminder in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create reminder"})
		}
		return
	}

	logger.Info("Reminder created successfully", slog.String("reminder_id", reminder.ReminderID))
	c.JSON(http.StatusCreated, dto.ToReminderResponse(reminder, time.Now().UTC()))
}

func (h *reminderHandler) getReminder(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	reminderID := c.Param("reminderID")

	userID, _ := middleware.GetUserIDFromContext(c)
	reminder, err := h.reminderService.GetReminderByID(c.Request.Context(), reminderID, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Reminder not found", slog.String("reminder_id", reminderID))
			c.JSON(http.StatusNotFound, gin.H{"error": "Reminder not found"})
			return
		}
		logger.Error("Failed to get reminder from service", slog.String("error", err.Error()), slog.String("reminder_id", reminderID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve reminder"})
		return
	}

	c.JSON(http.StatusOK, dto.ToReminderResponse(reminder, time.Now().UTC()))
}

func (h *reminderHandler) listReminders(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	params := dto.ListRemindersParams{}
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Error("Failed to bind query params for ListReminders", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}

	userID, _ := middleware.GetUserIDFromContext(c)
	resp, err := h.reminderService.ListReminders(c.Request.Context(), userID, params)
	if err != nil {
		logger.Error("Failed to list reminders", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list reminders"})
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *reminderHandler) listDueReminders(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, _ := middleware.GetUserIDFromContext(c)
	reminders, err := h.reminderService.ListDueReminders(c.Request.Context(), userID)
	if err != nil {
		logger.Error("Failed to list due reminders", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list due reminders"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"reminders": dto.ToListReminderResponse(reminders, time.Now().UTC())})
}

func (h *reminderHandler) updateReminder(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	reminderID := c.Param("reminderID")

	updateReq := dto.UpdateReminderRequest{}
	if err := c.ShouldBindJSON(&updateReq); err != nil {
		logger.Error("Failed to bind JSON for UpdateReminder", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	userID, _ := middleware.GetUserIDFromContext(c)
	reminder, err := h.reminderService.UpdateReminder(c.Request.Context(), reminderID, updateReq, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Reminder not found for update", slog.String("reminder_id", reminderID))
			c.JSON(http.StatusNotFound, gin.H{"error": "Reminder not found"})
			return
		}
		logger.Error("Failed to update reminder in service", slog.String("error", err.Error()), slog.String("reminder_id", reminderID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update reminder"})
		return
	}

	c.JSON(http.StatusOK, dto.ToReminderResponse(reminder, time.Now().UTC()))
}

func (h *reminderHandler) snoozeReminder(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	reminderID := c.Param("reminderID")

	snoozeReq := dto.SnoozeReminderRequest{}
	if err := c.ShouldBindJSON(&snoozeReq); err != nil {
		logger.Error("Failed to bind JSON for SnoozeReminder", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	userID, _ := middleware.GetUserIDFromContext(c)
	reminder, err := h.reminderService.SnoozeReminder(c.Request.Context(), reminderID, snoozeReq, userID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			logger.Warn("Reminder not found for snooze", slog.String("reminder_id", reminderID))
			c.JSON(http.StatusNotFound, gin.H{"error": "Reminder not found"})
		case errors.Is(err, services.ErrReminderDismissed):
			logger.Warn("Cannot snooze dismissed reminder", slog.String("reminder_id", reminderID))
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrValidation):
			logger.Warn("Validation error snoozing reminder", slog.String("error", err.Error()), slog.String("reminder_id", reminderID))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to snooze reminder in service", slog.String("error", err.Error()), slog.String("reminder_id", reminderID))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to snooze reminder"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToReminderResponse(reminder, time.Now().UTC()))
}

func (h *reminderHandler) dismissReminder(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	reminderID := c.Param("reminderID")

	userID, _ := middleware.GetUserIDFromContext(c)
	reminder, err := h.reminderService.DismissReminder(c.Request.Context(), reminderID, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Reminder not found for dismiss", slog.String("reminder_id", reminderID))
			c.JSON(http.StatusNotFound, gin.H{"error": "Reminder not found"})
			return
		}
		logger.Error("Failed to dismiss reminder in service", slog.String("error", err.Error()), slog.String("reminder_id", reminderID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to dismiss reminder"})
		return
	}

	c.JSON(http.StatusOK, dto.ToReminderResponse(reminder, time.Now().UTC()))
}

func (h *reminderHandler) deleteReminder(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	reminderID := c.Param("reminderID")

	userID, _ := middleware.GetUserIDFromContext(c)
	if err := h.reminderService.DeleteReminder(c.Request.Context(), reminderID, userID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Reminder not found for deletion", slog.String("reminder_id", reminderID))
			c.JSON(http.StatusNotFound, gin.H{"error": "Reminder not found"})
			return
		}
		logger.Error("Failed to delete reminder in service", slog.String("error", err.Error()), slog.String("reminder_id", reminderID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete reminder"})
		return
	}

	c.Status(http.StatusNoContent)
}

// registerReminderRoutes registers reminder specific routes
func registerReminderRoutes(group *gin.RouterGroup, reminderService portssvc.ReminderSvcFacade) {
	h := newReminderHandler(reminderService)

	reminders := group.Group("/reminders")
	{
		reminders.POST("", h.createReminder)
		reminders.GET("", h.listReminders)
		reminders.GET("/due", h.listDueReminders)
		reminders.GET("/:reminderID", h.getReminder)
		reminders.PUT("/:reminderID", h.updateReminder)
		reminders.POST("/:reminderID/snooze", h.snoozeReminder)
		reminders.POST("/:reminderID/dismiss", h.dismissReminder)
		reminders.DELETE("/:reminderID", h.deleteReminder)
	}
}
