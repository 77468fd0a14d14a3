package sqlite_test

import (
	"context"
	"testing"

	"github.com/example/fieldreport/internal/adapters/sqlite"
	"github.com/example/fieldreport/internal/ports/secondary"
)

func TestClientRepository_CreateDuplicate(t *testing.T) {
	ctx := context.Background()
	repo := sqlite.NewClientRepository(setupTestDB(t))

	ok, err := repo.Create(ctx, &secondary.ClientRecord{Name: "Intermar", Email: "contacto@intermar.cl"})
	if err != nil || !ok {
		t.Fatalf("first Create = %v, %v", ok, err)
	}
	ok, err = repo.Create(ctx, &secondary.ClientRecord{Name: "Intermar", Email: "otro@intermar.cl"})
	if err != nil {
		t.Fatalf("duplicate Create returned error: %v", err)
	}
	if ok {
		t.Error("expected duplicate client to be rejected")
	}

	email, err := repo.GetEmail(ctx, "Intermar")
	if err != nil || email != "contacto@intermar.cl" {
		t.Errorf("GetEmail = %q, %v", email, err)
	}
}

func TestClientRepository_GetEmail_Unknown(t *testing.T) {
	repo := sqlite.NewClientRepository(setupTestDB(t))

	email, err := repo.GetEmail(context.Background(), "Nadie")
	if err != nil {
		t.Fatalf("GetEmail failed: %v", err)
	}
	if email != "" {
		t.Errorf("expected empty email, got %q", email)
	}
}

func TestClientRepository_DeleteCascadesUsers(t *testing.T) {
	ctx := context.Background()
	database := setupTestDB(t)
	seedClient(t, database, "Intermar", "contacto@intermar.cl", "Raimundo Chico", "Raimundo Grande")
	seedClient(t, database, "Las200", "admin@las200.cl", "Nieves Vallejos")
	repo := sqlite.NewClientRepository(database)

	deleted, err := repo.Delete(ctx, "Intermar")
	if err != nil || !deleted {
		t.Fatalf("Delete = %v, %v", deleted, err)
	}
	if n := countRows(t, database, "SELECT COUNT(*) FROM users WHERE client_name = ?", "Intermar"); n != 0 {
		t.Errorf("expected Intermar users removed, %d left", n)
	}
	if n := countRows(t, database, "SELECT COUNT(*) FROM users"); n != 1 {
		t.Errorf("expected other client's users kept, got %d", n)
	}

	deleted, err = repo.Delete(ctx, "Intermar")
	if err != nil {
		t.Fatalf("second Delete failed: %v", err)
	}
	if deleted {
		t.Error("expected second delete to report nothing removed")
	}
}

func TestClientRepository_List(t *testing.T) {
	database := setupTestDB(t)
	seedClient(t, database, "Las200", "admin@las200.cl")
	seedClient(t, database, "Intermar", "contacto@intermar.cl")

	clients, err := sqlite.NewClientRepository(database).List(context.Background())
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(clients) != 2 || clients[0].Name != "Intermar" {
		t.Errorf("expected clients ordered by name, got %+v", clients)
	}
}

func TestTechnicianRepository(t *testing.T) {
	ctx := context.Background()
	repo := sqlite.NewTechnicianRepository(setupTestDB(t))

	tests := []struct {
		name string
		want bool
	}{
		{"David Quezada", true},
		{"Francisco Alfaro", true},
		{"David Quezada", false},
	}
	for _, tt := range tests {
		ok, err := repo.Create(ctx, tt.name)
		if err != nil {
			t.Fatalf("Create(%q) failed: %v", tt.name, err)
		}
		if ok != tt.want {
			t.Errorf("Create(%q) = %v, want %v", tt.name, ok, tt.want)
		}
	}

	list, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(list) != 2 || list[0].Name != "David Quezada" {
		t.Errorf("unexpected technicians: %+v", list)
	}

	if deleted, _ := repo.Delete(ctx, "David Quezada"); !deleted {
		t.Error("expected delete to succeed")
	}
	if deleted, _ := repo.Delete(ctx, "David Quezada"); deleted {
		t.Error("expected second delete to report false")
	}
}

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	database := setupTestDB(t)
	seedClient(t, database, "Intermar", "contacto@intermar.cl")
	repo := sqlite.NewUserRepository(database)

	tests := []struct {
		name   string
		user   secondary.UserRecord
		wantOK bool
	}{
		{"new user", secondary.UserRecord{Name: "Ana", ClientName: "Intermar"}, true},
		{"duplicate per client", secondary.UserRecord{Name: "Ana", ClientName: "Intermar"}, false},
		{"unknown client", secondary.UserRecord{Name: "Ana", ClientName: "Nadie"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, err := repo.Create(ctx, &tt.user)
			if err != nil {
				t.Fatalf("Create failed: %v", err)
			}
			if ok != tt.wantOK {
				t.Errorf("Create = %v, want %v", ok, tt.wantOK)
			}
		})
	}

	users, err := repo.ListByClient(ctx, "Intermar")
	if err != nil || len(users) != 1 || users[0].Name != "Ana" {
		t.Fatalf("ListByClient = %+v, %v", users, err)
	}

	if deleted, _ := repo.Delete(ctx, "Ana", "Intermar"); !deleted {
		t.Error("expected delete to succeed")
	}
	if deleted, _ := repo.Delete(ctx, "Ana", "Intermar"); deleted {
		t.Error("expected second delete to report false")
	}
}
