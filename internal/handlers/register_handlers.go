package handlers

import (
	portssvc "github.com/daybook/personal_manager_app/internal/core/ports/services"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	services *portssvc.ServiceContainer,
) {
	registerCustomValidators()

	// Add health check route
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	setupAPIV1Routes(r, services)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	service *portssvc.ServiceContainer,
) {
	v1 := r.Group("/api/v1")

	registerTaskRoutes(v1, service.Task)
	registerReminderRoutes(v1, service.Reminder)
	registerFinanceRoutes(v1, service.Obligation)
	registerLedgerRoutes(v1, service.Ledger)
}

// registerCustomValidators installs the binding validators shared by the DTOs.
// "weekdays" accepts a list of weekday indexes, 0=Monday through 6=Sunday.
func registerCustomValidators() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	_ = v.RegisterValidation("weekdays", func(fl validator.FieldLevel) bool {
		days, ok := fl.Field().Interface().([]int)
		if !ok {
			return false
		}
		for _, d := range days {
			if d < 0 || d > 6 {
				return false
			}
		}
		return true
	})
}
