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

// taskHandler handles HTTP requests related to tasks.
type taskHandler struct {
	taskService portssvc.TaskSvcFacade
}

// newTaskHandler creates a new taskHandler.
func newTaskHandler(taskService portssvc.TaskSvcFacade) *taskHandler {
	return &taskHandler{
		taskService: taskService,
	}
}

func (h *taskHandler) createTask(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	createReq := dto.CreateTaskRequest{}
	if err := c.ShouldBindJSON(&createReq); err != nil {
		logger.Error("Failed to bind JSON for CreateTask", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Creator user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	task, err := h.taskService.CreateTask(c.Request.Context(), createReq, creatorUserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error creating task", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to create task in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create task"})
		}
		return
	}

	logger.Info("Task created successfully", slog.String("task_id", task.TaskID))
	c.JSON(http.StatusCreated, dto.ToTaskResponse(task, time.Now().UTC()))
}

func (h *taskHandler) getTask(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	taskID := c.Param("taskID")

	userID, _ := middleware.GetUserIDFromContext(c)
	task, err := h.taskService.GetTaskByID(c.Request.Context(), taskID, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Task not found", slog.String("task_id", taskID))
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
			return
		}
		logger.Error("Failed to get task from service", slog.String("error", err.Error()), slog.String("task_id", taskID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve task"})
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskResponse(task, time.Now().UTC()))
}

func (h *taskHandler) listTasks(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	params := dto.ListTasksParams{}
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Error("Failed to bind query params for ListTasks", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}

	userID, _ := middleware.GetUserIDFromContext(c)
	resp, err := h.taskService.ListTasks(c.Request.Context(), userID, params)
	if err != nil {
		logger.Error("Failed to list tasks", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list tasks"})
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *taskHandler) listDueTasks(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, _ := middleware.GetUserIDFromContext(c)
	tasks, err := h.taskService.ListDueTasks(c.Request.Context(), userID)
	if err != nil {
		logger.Error("Failed to list due tasks", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list due tasks"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"tasks": dto.ToListTaskResponse(tasks, time.Now().UTC())})
}

func (h *taskHandler) updateTask(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	taskID := c.Param("taskID")

	updateReq := dto.UpdateTaskRequest{}
	if err := c.ShouldBindJSON(&updateReq); err != nil {
		logger.Error("Failed to bind JSON for UpdateTask", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	userID, _ := middleware.GetUserIDFromContext(c)
	task, err := h.taskService.UpdateTask(c.Request.Context(), taskID, updateReq, userID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			logger.Warn("Task not found for update", slog.String("task_id", taskID))
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		case errors.Is(err, apperrors.ErrValidation):
			logger.Warn("Validation error updating task", slog.String("error", err.Error()), slog.String("task_id", taskID))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to update task in service", slog.String("error", err.Error()), slog.String("task_id", taskID))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update task"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskResponse(task, time.Now().UTC()))
}

func (h *taskHandler) completeTask(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	taskID := c.Param("taskID")

	userID, _ := middleware.GetUserIDFromContext(c)
	completed, successor, err := h.taskService.CompleteTask(c.Request.Context(), taskID, userID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			logger.Warn("Task not found for completion", slog.String("task_id", taskID))
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		case errors.Is(err, services.ErrTaskAlreadyCompleted), errors.Is(err, services.ErrTaskCancelled):
			logger.Warn("Task cannot be completed", slog.String("error", err.Error()), slog.String("task_id", taskID))
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to complete task in service", slog.String("error", err.Error()), slog.String("task_id", taskID))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to complete task"})
		}
		return
	}

	now := time.Now().UTC()
	resp := gin.H{"task": dto.ToTaskResponse(completed, now)}
	if successor != nil {
		resp["nextOccurrence"] = dto.ToTaskResponse(successor, now)
	}

	logger.Info("Task completed", slog.String("task_id", taskID), slog.Bool("spawned_successor", successor != nil))
	c.JSON(http.StatusOK, resp)
}

func (h *taskHandler) deleteTask(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	taskID := c.Param("taskID")

	userID, _ := middleware.GetUserIDFromContext(c)
	if err := h.taskService.DeleteTask(c.Request.Context(), taskID, userID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Task not found for deletion", slog.String("task_id", taskID))
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
			return
		}
		logger.Error("Failed to delete task in service", slog.String("error", err.Error()), slog.String("task_id", taskID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete task"})
		return
	}

	c.Status(http.StatusNoContent)
}

// registerTaskRoutes registers task specific routes
func registerTaskRoutes(group *gin.RouterGroup, taskService portssvc.TaskSvcFacade) {
	h := newTaskHandler(taskService)

	tasks := group.Group("/tasks")
	{
		tasks.POST("", h.createTask)
		tasks.GET("", h.listTasks)
		tasks.GET("/due", h.listDueTasks)
		tasks.GET("/:taskID", h.getTask)
		tasks.PUT("/:taskID", h.updateTask)
		tasks.POST("/:taskID/complete", h.completeTask)
		tasks.DELETE("/:taskID", h.deleteTask)
	}
}
