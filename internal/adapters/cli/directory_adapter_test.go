package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/example/fieldreport/internal/ports/primary"
)

// mockDirectoryService implements primary.DirectoryService for testing
type mockDirectoryService struct {
	added   bool
	deleted bool
	err     error

	clients     []*primary.Client
	technicians []*primary.Technician
	users       []*primary.User
}

func (m *mockDirectoryService) AddClient(ctx context.Context, name, email string) (bool, error) {
	return m.added, m.err
}
func (m *mockDirectoryService) DeleteClient(ctx context.Context, name string) (bool, error) {
	return m.deleted, m.err
}
func (m *mockDirectoryService) ListClients(ctx context.Context) ([]*primary.Client, error) {
	return m.clients, m.err
}
func (m *mockDirectoryService) AddTechnician(ctx context.Context, name string) (bool, error) {
	return m.added, m.err
}
func (m *mockDirectoryService) DeleteTechnician(ctx context.Context, name string) (bool, error) {
	return m.deleted, m.err
}
func (m *mockDirectoryService) ListTechnicians(ctx context.Context) ([]*primary.Technician, error) {
	return m.technicians, m.err
}
func (m *mockDirectoryService) AddUser(ctx context.Context, name, clientName string) (bool, error) {
	return m.added, m.err
}
func (m *mockDirectoryService) DeleteUser(ctx context.Context, name, clientName string) (bool, error) {
	return m.deleted, m.err
}
func (m *mockDirectoryService) ListUsers(ctx context.Context, clientName string) ([]*primary.User, error) {
	return m.users, m.err
}

func TestDirectoryAdapter_AddClient(t *testing.T) {
	out := &bytes.Buffer{}
	adapter := NewDirectoryAdapter(&mockDirectoryService{added: true}, out)

	if err := adapter.AddClient(context.Background(), "Intermar", "a@b.cl"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out.String(), "✓ Added client Intermar") {
		t.Errorf("unexpected output: %s", out.String())
	}

	adapter = NewDirectoryAdapter(&mockDirectoryService{added: false}, out)
	if err := adapter.AddClient(context.Background(), "Intermar", ""); err == nil || !strings.Contains(err.Error(), "already exists") {
		t.Errorf("expected duplicate error, got %v", err)
	}
}

func TestDirectoryAdapter_Deletes(t *testing.T) {
	adapter := NewDirectoryAdapter(&mockDirectoryService{deleted: false}, &bytes.Buffer{})
	ctx := context.Background()

	if err := adapter.DeleteClient(ctx, "Nadie"); err == nil {
		t.Error("expected not found for client")
	}
	if err := adapter.DeleteTechnician(ctx, "Nadie"); err == nil {
		t.Error("expected not found for technician")
	}
	if err := adapter.DeleteUser(ctx, "Nadie", "Intermar"); err == nil {
		t.Error("expected not found for user")
	}

	out := &bytes.Buffer{}
	adapter = NewDirectoryAdapter(&mockDirectoryService{deleted: true}, out)
	if err := adapter.DeleteClient(ctx, "Intermar"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out.String(), "Deleted client Intermar and its users") {
		t.Errorf("unexpected output: %s", out.String())
	}
}

func TestDirectoryAdapter_ServiceError(t *testing.T) {
	svcErr := errors.New("database is locked")
	adapter := NewDirectoryAdapter(&mockDirectoryService{err: svcErr}, &bytes.Buffer{})

	if err := adapter.AddUser(context.Background(), "Ana", "Intermar"); !errors.Is(err, svcErr) {
		t.Errorf("expected service error, got %v", err)
	}
	if _, err := adapter.ListClients(context.Background()); !errors.Is(err, svcErr) {
		t.Errorf("expected wrapped service error, got %v", err)
	}
}

func TestDirectoryAdapter_Lists(t *testing.T) {
	out := &bytes.Buffer{}
	adapter := NewDirectoryAdapter(&mockDirectoryService{
		clients:     []*primary.Client{{Name: "Intermar", Email: "a@b.cl"}, {Name: "Las200"}},
		technicians: []*primary.Technician{{Name: "David Quezada"}},
		users:       []*primary.User{{Name: "Raimundo Chico", ClientName: "Intermar"}},
	}, out)
	ctx := context.Background()

	adapter.ListClients(ctx)
	adapter.ListTechnicians(ctx)
	adapter.ListUsers(ctx, "Intermar")

	output := out.String()
	for _, want := range []string{"a@b.cl", "Las200", "David Quezada", "Users of Intermar:", "Raimundo Chico"} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q: %s", want, output)
		}
	}
}

func TestDirectoryAdapter_EmptyLists(t *testing.T) {
	out := &bytes.Buffer{}
	adapter := NewDirectoryAdapter(&mockDirectoryService{}, out)
	ctx := context.Background()

	adapter.ListClients(ctx)
	adapter.ListTechnicians(ctx)
	adapter.ListUsers(ctx, "Intermar")

	output := out.String()
	for _, want := range []string{"No clients found.", "No technicians found.", "No users found for Intermar."} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q: %s", want, output)
		}
	}
}
