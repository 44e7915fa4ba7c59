package database

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/yasinhessnawi1/Jobboard_Backend/internal/utils"
)

// ErrNoRowsAffected is returned when an update matched no record.
var ErrNoRowsAffected = errors.New("no rows affected")

// Table represents a database table with common methods
type Table interface {
	TableName() string
}

// Columns restricts which columns a partial update may write.
type Columns map[string]bool

// UpdateColumns writes fields to the record with the given id in a single
// UPDATE, also bumping updated_at. Keys are applied in sorted order so the
// generated SQL is stable. A key outside allowed is rejected before any SQL
// runs. A nil value writes NULL.
func UpdateColumns(ctx context.Context, q Querier, model Table, id int64, fields map[string]interface{}, allowed Columns) error {
	if len(fields) == 0 {
		return errors.New("no fields to update")
	}

	keys := make([]string, 0, len(fields))
	for key := range fields {
		if !allowed[key] {
			return fmt.Errorf("column %q cannot be updated in %s", key, model.TableName())
		}
		keys = append(keys, key)
	}
	slices.Sort(keys)

	sets := make([]string, 0, len(keys)+1)
	args := make([]interface{}, 0, len(keys)+1)
	for i, key := range keys {
		sets = append(sets, fmt.Sprintf("%s = $%d", key, i+1))
		args = append(args, fields[key])
	}
	sets = append(sets, "updated_at = NOW()")
	args = append(args, id)

	query := fmt.Sprintf(
		"UPDATE %s SET %s WHERE id = $%d",
		model.TableName(),
		strings.Join(sets, ", "),
		len(args),
	)

	start := time.Now()
	result, err := q.ExecContext(ctx, query, args...)
	utils.LogDBQuery(query, args, time.Since(start), err)
	if err != nil {
		return fmt.Errorf("failed to update record in %s: %w", model.TableName(), err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error getting rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("record with ID %d in %s: %w", id, model.TableName(), ErrNoRowsAffected)
	}

	return nil
}

// Count gets the count of records in a table matching all conditions
func Count(ctx context.Context, q Querier, model Table, conditions map[string]interface{}) (int64, error) {
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s", model.TableName())

	keys := make([]string, 0, len(conditions))
	for key := range conditions {
		keys = append(keys, key)
	}
	slices.Sort(keys)

	where := make([]string, 0, len(keys))
	params := make([]interface{}, 0, len(keys))
	for i, key := range keys {
		where = append(where, fmt.Sprintf("%s = $%d", key, i+1))
		params = append(params, conditions[key])
	}

	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}

	start := time.Now()
	var count int64
	err := q.GetContext(ctx, &count, query, params...)
	utils.LogDBQuery(query, params, time.Since(start), err)
	if err != nil {
		return 0, fmt.Errorf("failed to count records in %s: %w", model.TableName(), err)
	}

	return count, nil
}
