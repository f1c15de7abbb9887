package services

import (
	portsrepo "github.com/daybook/personal_manager_app/internal/core/ports/repositories"
	portssvc "github.com/daybook/personal_manager_app/internal/core/ports/services"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Task = NewTaskService(repos.TaskRepo)
	container.Obligation = NewInstallmentService(repos.ObligationRepo)
	container.Ledger = NewLedgerService(repos.LedgerRepo)

	// Reminders resolve linked tasks and obligations through the repositories
	// directly, the read side is enough.
	container.Reminder = NewReminderService(repos.ReminderRepo, repos.TaskRepo, repos.ObligationRepo)

	return container
}
