package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/fieldreport/internal/ports/secondary"
)

// TechnicianRepository implements secondary.TechnicianRepository with SQLite.
type TechnicianRepository struct {
	db *sql.DB
}

// NewTechnicianRepository creates a new SQLite technician repository.
func NewTechnicianRepository(db *sql.DB) *TechnicianRepository {
	return &TechnicianRepository{db: db}
}

// Create inserts a technician. Returns false on a duplicate name.
func (r *TechnicianRepository) Create(ctx context.Context, name string) (bool, error) {
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, "INSERT INTO technicians (name) VALUES (?)", name)
		return err
	})
	if isConstraintViolation(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to create technician: %w", err)
	}
	return true, nil
}

// Delete removes a technician by name.
func (r *TechnicianRepository) Delete(ctx context.Context, name string) (bool, error) {
	var deleted bool
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, "DELETE FROM technicians WHERE name = ?", name)
		if err != nil {
			return fmt.Errorf("failed to delete technician: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to read affected rows: %w", err)
		}
		deleted = n > 0
		return nil
	})
	return deleted, err
}

// List retrieves all technicians ordered by name.
func (r *TechnicianRepository) List(ctx context.Context) ([]*secondary.TechnicianRecord, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, name FROM technicians ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("failed to list technicians: %w", err)
	}
	defer rows.Close()

	var technicians []*secondary.TechnicianRecord
	for rows.Next() {
		var t secondary.TechnicianRecord
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, fmt.Errorf("failed to scan technician: %w", err)
		}
		technicians = append(technicians, &t)
	}
	return technicians, rows.Err()
}

var _ secondary.TechnicianRepository = (*TechnicianRepository)(nil)
