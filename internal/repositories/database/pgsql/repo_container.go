package pgsql

import (
	portsrepo "github.com/daybook/personal_manager_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	taskRepo := newPgxTaskRepository(dbPool)
	reminderRepo := newPgxReminderRepository(dbPool)
	obligationRepo := newPgxObligationRepository(dbPool)
	ledgerRepo := newPgxLedgerRepository(dbPool)

	return portsrepo.RepositoryProvider{
		TaskRepo:       taskRepo,
		ReminderRepo:   reminderRepo,
		ObligationRepo: obligationRepo,
		LedgerRepo:     ledgerRepo,
	}
}
