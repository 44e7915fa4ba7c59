package migrations

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/yasinhessnawi1/Jobboard_Backend/internal/constants"
)

// RequiredTables lists the tables the API cannot start without, in
// dependency order.
func RequiredTables() []string {
	return []string{
		constants.TableUsers,
		constants.TableJobs,
		constants.TableJobApplications,
	}
}

// VerifyTables checks that every required table exists.
func (m *Migrator) VerifyTables(ctx context.Context) error {
	var missing []string
	for _, table := range RequiredTables() {
		exists, err := m.tableExists(ctx, table)
		if err != nil {
			return fmt.Errorf("failed to check if table %s exists: %w", table, err)
		}
		if !exists {
			log.Warn().Str("table", table).Msg("Required table is missing")
			missing = append(missing, table)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing tables: %v", missing)
	}
	return nil
}

// tableExists checks if a table exists in the current schema.
func (m *Migrator) tableExists(ctx context.Context, tableName string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM information_schema.tables
			WHERE table_schema = current_schema() AND table_name = $1
		)
	`
	var exists bool
	if err := m.db.GetContext(ctx, &exists, query, tableName); err != nil {
		return false, err
	}
	return exists, nil
}
