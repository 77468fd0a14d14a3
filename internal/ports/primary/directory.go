package primary

import "context"

// DirectoryService defines the primary port for clients, technicians and site users.
// Add and delete operations report duplicates and misses as false, not as errors.
type DirectoryService interface {
	AddClient(ctx context.Context, name, email string) (bool, error)
	DeleteClient(ctx context.Context, name string) (bool, error)
	ListClients(ctx context.Context) ([]*Client, error)

	AddTechnician(ctx context.Context, name string) (bool, error)
	DeleteTechnician(ctx context.Context, name string) (bool, error)
	ListTechnicians(ctx context.Context) ([]*Technician, error)

	AddUser(ctx context.Context, name, clientName string) (bool, error)
	DeleteUser(ctx context.Context, name, clientName string) (bool, error)
	ListUsers(ctx context.Context, clientName string) ([]*User, error)
}

// Client represents a client at the port boundary.
type Client struct {
	Name  string `json:"nombre"`
	Email string `json:"email"`
}

// Technician represents a technician at the port boundary.
type Technician struct {
	Name string `json:"nombre"`
}

// User represents a site user at the port boundary.
type User struct {
	Name       string `json:"nombre"`
	ClientName string `json:"cliente"`
}
