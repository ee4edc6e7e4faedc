package registration

import "context"

// Repository describes registration persistence needs from use cases.
type Repository interface {
	Create(ctx context.Context, item Registration) error
	GetByID(ctx context.Context, registrationID string) (Registration, bool, error)
	FindLatestByContact(ctx context.Context, email, phone string) (Registration, bool, error)
}
