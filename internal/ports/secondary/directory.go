package secondary

import "context"

// ClientRepository defines the secondary port for client persistence.
// Writes that would violate a unique key return false instead of an error.
type ClientRepository interface {
	// Create inserts a client. Returns false if the name already exists.
	Create(ctx context.Context, client *ClientRecord) (bool, error)

	// Delete removes a client and, before it, all of its users.
	// Returns false if no client had that name.
	Delete(ctx context.Context, name string) (bool, error)

	// List retrieves all clients ordered by name.
	List(ctx context.Context) ([]*ClientRecord, error)

	// GetEmail returns the delivery address of a client, or "" if unknown.
	GetEmail(ctx context.Context, name string) (string, error)
}

// ClientRecord represents a client as stored in persistence.
type ClientRecord struct {
	Name  string
	Email string
}

// TechnicianRepository defines the secondary port for technician persistence.
type TechnicianRepository interface {
	// Create inserts a technician. Returns false if the name already exists.
	Create(ctx context.Context, name string) (bool, error)

	// Delete removes a technician. Returns false if none matched.
	Delete(ctx context.Context, name string) (bool, error)

	// List retrieves all technicians ordered by name.
	List(ctx context.Context) ([]*TechnicianRecord, error)
}

// TechnicianRecord represents a technician as stored in persistence.
type TechnicianRecord struct {
	ID   int64
	Name string
}

// UserRepository defines the secondary port for site-user persistence.
type UserRepository interface {
	// Create inserts a user for a client. Returns false on a constraint violation.
	Create(ctx context.Context, user *UserRecord) (bool, error)

	// Delete removes a user of a client. Returns false if none matched.
	Delete(ctx context.Context, name, clientName string) (bool, error)

	// ListByClient retrieves the users of a client ordered by name.
	ListByClient(ctx context.Context, clientName string) ([]*UserRecord, error)
}

// UserRecord represents a site user as stored in persistence.
type UserRecord struct {
	ID         int64
	Name       string
	ClientName string
}
