package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/fieldreport/internal/ports/secondary"
)

// UserRepository implements secondary.UserRepository with SQLite.
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new SQLite user repository.
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a user for a client. Returns false when the client does not
// exist or the user is already registered for it.
func (r *UserRepository) Create(ctx context.Context, record *secondary.UserRecord) (bool, error) {
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, "INSERT INTO users (name, client_name) VALUES (?, ?)",
			record.Name, record.ClientName)
		return err
	})
	if isConstraintViolation(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to create user: %w", err)
	}
	return true, nil
}

// Delete removes a user from a client.
func (r *UserRepository) Delete(ctx context.Context, name, clientName string) (bool, error) {
	var deleted bool
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, "DELETE FROM users WHERE name = ? AND client_name = ?", name, clientName)
		if err != nil {
			return fmt.Errorf("failed to delete user: %w", err)
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

// ListByClient retrieves a client's users ordered by name.
func (r *UserRepository) ListByClient(ctx context.Context, clientName string) ([]*secondary.UserRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, name, client_name FROM users WHERE client_name = ? ORDER BY name", clientName)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []*secondary.UserRecord
	for rows.Next() {
		var u secondary.UserRecord
		if err := rows.Scan(&u.ID, &u.Name, &u.ClientName); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, &u)
	}
	return users, rows.Err()
}

var _ secondary.UserRepository = (*UserRepository)(nil)
