package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/example/fieldreport/internal/ports/primary"
)

// DirectoryAdapter translates client, technician and user commands to DirectoryService calls.
type DirectoryAdapter struct {
	service primary.DirectoryService
	out     io.Writer
}

// NewDirectoryAdapter creates a new DirectoryAdapter with the given service.
func NewDirectoryAdapter(service primary.DirectoryService, out io.Writer) *DirectoryAdapter {
	return &DirectoryAdapter{
		service: service,
		out:     out,
	}
}

// AddClient registers a client.
func (a *DirectoryAdapter) AddClient(ctx context.Context, name, email string) error {
	ok, err := a.service.AddClient(ctx, name, email)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("client %q already exists", name)
	}
	fmt.Fprintf(a.out, "✓ Added client %s\n", name)
	return nil
}

// DeleteClient removes a client and its users.
func (a *DirectoryAdapter) DeleteClient(ctx context.Context, name string) error {
	ok, err := a.service.DeleteClient(ctx, name)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("client %q not found", name)
	}
	fmt.Fprintf(a.out, "✓ Deleted client %s and its users\n", name)
	return nil
}

// ListClients lists every client with its delivery address.
func (a *DirectoryAdapter) ListClients(ctx context.Context) ([]*primary.Client, error) {
	clients, err := a.service.ListClients(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	if len(clients) == 0 {
		fmt.Fprintln(a.out, "No clients found.")
		return clients, nil
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "NAME\tEMAIL")
	fmt.Fprintln(w, "----\t-----")
	for _, c := range clients {
		email := c.Email
		if email == "" {
			email = "-"
		}
		fmt.Fprintf(w, "%s\t%s\n", c.Name, email)
	}
	w.Flush()
	return clients, nil
}

// AddTechnician registers a technician.
func (a *DirectoryAdapter) AddTechnician(ctx context.Context, name string) error {
	ok, err := a.service.AddTechnician(ctx, name)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("technician %q already exists", name)
	}
	fmt.Fprintf(a.out, "✓ Added technician %s\n", name)
	return nil
}

// DeleteTechnician removes a technician.
func (a *DirectoryAdapter) DeleteTechnician(ctx context.Context, name string) error {
	ok, err := a.service.DeleteTechnician(ctx, name)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("technician %q not found", name)
	}
	fmt.Fprintf(a.out, "✓ Deleted technician %s\n", name)
	return nil
}

// ListTechnicians lists every technician.
func (a *DirectoryAdapter) ListTechnicians(ctx context.Context) ([]*primary.Technician, error) {
	technicians, err := a.service.ListTechnicians(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list technicians: %w", err)
	}
	if len(technicians) == 0 {
		fmt.Fprintln(a.out, "No technicians found.")
		return technicians, nil
	}
	for _, t := range technicians {
		fmt.Fprintf(a.out, "  - %s\n", t.Name)
	}
	return technicians, nil
}

// AddUser registers a site user under a client.
func (a *DirectoryAdapter) AddUser(ctx context.Context, name, clientName string) error {
	ok, err := a.service.AddUser(ctx, name, clientName)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("cannot add %q: unknown client %q or duplicate user", name, clientName)
	}
	fmt.Fprintf(a.out, "✓ Added user %s to %s\n", name, clientName)
	return nil
}

// DeleteUser removes a site user from a client.
func (a *DirectoryAdapter) DeleteUser(ctx context.Context, name, clientName string) error {
	ok, err := a.service.DeleteUser(ctx, name, clientName)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("user %q not found for client %q", name, clientName)
	}
	fmt.Fprintf(a.out, "✓ Deleted user %s from %s\n", name, clientName)
	return nil
}

// ListUsers lists the site users of a client.
func (a *DirectoryAdapter) ListUsers(ctx context.Context, clientName string) ([]*primary.User, error) {
	users, err := a.service.ListUsers(ctx, clientName)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	if len(users) == 0 {
		fmt.Fprintf(a.out, "No users found for %s.\n", clientName)
		return users, nil
	}
	fmt.Fprintf(a.out, "Users of %s:\n", clientName)
	for _, u := range users {
		fmt.Fprintf(a.out, "  - %s\n", u.Name)
	}
	return users, nil
}
