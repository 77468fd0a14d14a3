package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/fieldreport/internal/ports/secondary"
)

// ClientRepository implements secondary.ClientRepository with SQLite.
type ClientRepository struct {
	db *sql.DB
}

// NewClientRepository creates a new SQLite client repository.
func NewClientRepository(db *sql.DB) *ClientRepository {
	return &ClientRepository{db: db}
}

// Create inserts a client. Returns false when the name already exists.
func (r *ClientRepository) Create(ctx context.Context, record *secondary.ClientRecord) (bool, error) {
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, "INSERT INTO clients (name, email) VALUES (?, ?)", record.Name, record.Email)
		return err
	})
	if isConstraintViolation(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to create client: %w", err)
	}
	return true, nil
}

// Delete removes a client and its users in one transaction.
// Returns false when no client had that name.
func (r *ClientRepository) Delete(ctx context.Context, name string) (bool, error) {
	var deleted bool
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM users WHERE client_name = ?", name); err != nil {
			return fmt.Errorf("failed to delete client users: %w", err)
		}
		res, err := tx.ExecContext(ctx, "DELETE FROM clients WHERE name = ?", name)
		if err != nil {
			return fmt.Errorf("failed to delete client: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to read affected rows: %w", err)
		}
		deleted = n > 0
		return nil
	})
	if err != nil {
		return false, err
	}
	return deleted, nil
}

// List retrieves all clients ordered by name.
func (r *ClientRepository) List(ctx context.Context) ([]*secondary.ClientRecord, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT name, email FROM clients ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	defer rows.Close()

	var clients []*secondary.ClientRecord
	for rows.Next() {
		var c secondary.ClientRecord
		if err := rows.Scan(&c.Name, &c.Email); err != nil {
			return nil, fmt.Errorf("failed to scan client: %w", err)
		}
		clients = append(clients, &c)
	}
	return clients, rows.Err()
}

// GetEmail returns the client's email, or "" when the client is unknown.
func (r *ClientRepository) GetEmail(ctx context.Context, name string) (string, error) {
	var email string
	err := r.db.QueryRowContext(ctx, "SELECT email FROM clients WHERE name = ?", name).Scan(&email)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get client email: %w", err)
	}
	return email, nil
}

var _ secondary.ClientRepository = (*ClientRepository)(nil)
