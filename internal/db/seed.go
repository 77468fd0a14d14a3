package db

import (
	"context"
	"database/sql"
	"fmt"
)

// DefaultTechnicians are inserted when the technicians table is empty.
var DefaultTechnicians = []string{"Francisco Alfaro", "David Quezada"}

// DefaultClients are inserted, with their users, when the clients table is empty.
var DefaultClients = []struct {
	Name  string
	Email string
	Users []string
}{
	{"Intermar", "contacto@intermar.cl", []string{"Raimundo Chico", "Raimundo Grande", "Usuario ejemplo"}},
	{"Las200", "admin@las200.cl", []string{"Nieves Vallejos", "Jennifer No se cuanto", "Benjamin Practicas"}},
}

// SeedDefaults populates each directory table once, only while it is empty.
func SeedDefaults(ctx context.Context, database *sql.DB) error {
	tx, err := database.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin seed transaction: %w", err)
	}
	defer tx.Rollback()

	empty, err := tableEmpty(ctx, tx, "technicians")
	if err != nil {
		return err
	}
	if empty {
		for _, name := range DefaultTechnicians {
			if _, err := tx.ExecContext(ctx, "INSERT OR IGNORE INTO technicians (name) VALUES (?)", name); err != nil {
				return fmt.Errorf("seed technicians: %w", err)
			}
		}
	}

	empty, err = tableEmpty(ctx, tx, "clients")
	if err != nil {
		return err
	}
	if empty {
		for _, c := range DefaultClients {
			if _, err := tx.ExecContext(ctx, "INSERT OR IGNORE INTO clients (name, email) VALUES (?, ?)", c.Name, c.Email); err != nil {
				return fmt.Errorf("seed clients: %w", err)
			}
		}
	}

	empty, err = tableEmpty(ctx, tx, "users")
	if err != nil {
		return err
	}
	if empty {
		for _, c := range DefaultClients {
			for _, u := range c.Users {
				// Skip users whose client was deleted before the users table emptied.
				if _, err := tx.ExecContext(ctx,
					"INSERT OR IGNORE INTO users (name, client_name) SELECT ?, name FROM clients WHERE name = ?",
					u, c.Name,
				); err != nil {
					return fmt.Errorf("seed users: %w", err)
				}
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit seed: %w", err)
	}
	return nil
}

func tableEmpty(ctx context.Context, tx *sql.Tx, table string) (bool, error) {
	var count int
	if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to count %s: %w", table, err)
	}
	return count == 0, nil
}
