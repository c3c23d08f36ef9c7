package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/turtacn/TimebarKeeper/internal/application/scheduling"
	"github.com/turtacn/TimebarKeeper/internal/infrastructure/database/postgres"
	"github.com/turtacn/TimebarKeeper/internal/infrastructure/database/postgres/repositories"
	"github.com/turtacn/TimebarKeeper/internal/infrastructure/monitoring/logging"
)

// newSchedulingService opens a database connection and wires a minimal
// scheduling engine: no cache, no event publishing, no distributed locks.
// The returned cleanup closes the pool.
func newSchedulingService(opts *RootOptions) (scheduling.Service, logging.Logger, func(), error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, nil, nil, err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return nil, nil, nil, err
	}

	conn, err := postgres.NewConnection(pgConfig(cfg), logger)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("postgres connection: %w", err)
	}

	store := repositories.NewStore(conn, logger)
	svc := scheduling.NewService(store, scheduling.NewReconciler(logger), nil, nil, nil, logger,
		scheduling.WithDefaultReminderOffsets(cfg.Scheduler.DefaultReminderOffsets))
	return svc, logger, func() { _ = conn.Close() }, nil
}

// newRecalcCommand creates `tbk recalc --case --org`: re-reads a case and
// reconciles its reminders, exactly as a recalc API call would.
func newRecalcCommand(opts *RootOptions) *cobra.Command {
	var caseID, orgID int64

	cmd := &cobra.Command{
		Use:   "recalc",
		Short: "Recalculate timebar reminders for one case",
		RunE: func(cmd *cobra.Command, args []string) error {
			if caseID <= 0 {
				return fmt.Errorf("--case is required")
			}

			svc, _, cleanup, err := newSchedulingService(opts)
			if err != nil {
				return err
			}
			defer cleanup()

			result, err := svc.RecalculateCase(cmd.Context(), caseID, orgID)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), result)
		},
	}

	cmd.Flags().Int64Var(&caseID, "case", 0, "case ID to reconcile")
	cmd.Flags().Int64Var(&orgID, "org", 0, "organization ID (for event attribution)")
	return cmd
}

//Personal.AI order the ending
