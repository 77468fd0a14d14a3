package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/example/fieldreport/internal/ports/primary"
	"github.com/example/fieldreport/internal/ports/secondary"
)

// DirectoryServiceImpl implements the DirectoryService interface.
type DirectoryServiceImpl struct {
	clientRepo     secondary.ClientRepository
	technicianRepo secondary.TechnicianRepository
	userRepo       secondary.UserRepository
}

// NewDirectoryService creates a new DirectoryService with injected dependencies.
func NewDirectoryService(
	clientRepo secondary.ClientRepository,
	technicianRepo secondary.TechnicianRepository,
	userRepo secondary.UserRepository,
) *DirectoryServiceImpl {
	return &DirectoryServiceImpl{
		clientRepo:     clientRepo,
		technicianRepo: technicianRepo,
		userRepo:       userRepo,
	}
}

// AddClient registers a client. Returns false if the name is taken.
func (s *DirectoryServiceImpl) AddClient(ctx context.Context, name, email string) (bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return false, fmt.Errorf("%w: client name is required", ErrInvalidInput)
	}
	return s.clientRepo.Create(ctx, &secondary.ClientRecord{Name: name, Email: strings.TrimSpace(email)})
}

// DeleteClient removes a client together with its users.
func (s *DirectoryServiceImpl) DeleteClient(ctx context.Context, name string) (bool, error) {
	return s.clientRepo.Delete(ctx, strings.TrimSpace(name))
}

// ListClients retrieves all clients.
func (s *DirectoryServiceImpl) ListClients(ctx context.Context) ([]*primary.Client, error) {
	records, err := s.clientRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	clients := make([]*primary.Client, len(records))
	for i, r := range records {
		clients[i] = &primary.Client{Name: r.Name, Email: r.Email}
	}
	return clients, nil
}

// AddTechnician registers a technician. Returns false if the name is taken.
func (s *DirectoryServiceImpl) AddTechnician(ctx context.Context, name string) (bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return false, fmt.Errorf("%w: technician name is required", ErrInvalidInput)
	}
	return s.technicianRepo.Create(ctx, name)
}

// DeleteTechnician removes a technician. Past visits keep the name.
func (s *DirectoryServiceImpl) DeleteTechnician(ctx context.Context, name string) (bool, error) {
	return s.technicianRepo.Delete(ctx, strings.TrimSpace(name))
}

// ListTechnicians retrieves all technicians.
func (s *DirectoryServiceImpl) ListTechnicians(ctx context.Context) ([]*primary.Technician, error) {
	records, err := s.technicianRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	technicians := make([]*primary.Technician, len(records))
	for i, r := range records {
		technicians[i] = &primary.Technician{Name: r.Name}
	}
	return technicians, nil
}

// AddUser registers a site user for a client. Returns false if the client is
// unknown or already has a user with that name.
func (s *DirectoryServiceImpl) AddUser(ctx context.Context, name, clientName string) (bool, error) {
	name, clientName = strings.TrimSpace(name), strings.TrimSpace(clientName)
	if name == "" || clientName == "" {
		return false, fmt.Errorf("%w: user and client names are required", ErrInvalidInput)
	}
	return s.userRepo.Create(ctx, &secondary.UserRecord{Name: name, ClientName: clientName})
}

// DeleteUser removes a site user from a client.
func (s *DirectoryServiceImpl) DeleteUser(ctx context.Context, name, clientName string) (bool, error) {
	return s.userRepo.Delete(ctx, strings.TrimSpace(name), strings.TrimSpace(clientName))
}

// ListUsers retrieves the users of a client.
func (s *DirectoryServiceImpl) ListUsers(ctx context.Context, clientName string) ([]*primary.User, error) {
	records, err := s.userRepo.ListByClient(ctx, clientName)
	if err != nil {
		return nil, err
	}
	users := make([]*primary.User, len(records))
	for i, r := range records {
		users[i] = &primary.User{Name: r.Name, ClientName: r.ClientName}
	}
	return users, nil
}

// Ensure DirectoryServiceImpl implements the interface
var _ primary.DirectoryService = (*DirectoryServiceImpl)(nil)
