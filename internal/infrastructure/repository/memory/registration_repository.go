package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/riskibarqy/league-auction/internal/domain/registration"
)

type RegistrationRepository struct {
	mu    sync.RWMutex
	items []registration.Registration
}

func NewRegistrationRepository(items []registration.Registration) *RegistrationRepository {
	return &RegistrationRepository{items: append([]registration.Registration(nil), items...)}
}

func (r *RegistrationRepository) Create(_ context.Context, item registration.Registration) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items = append(r.items, item)
	return nil
}

func (r *RegistrationRepository) GetByID(_ context.Context, registrationID string) (registration.Registration, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, item := range r.items {
		if item.ID == registrationID {
			return item, true, nil
		}
	}
	return registration.Registration{}, false, nil
}

func (r *RegistrationRepository) FindLatestByContact(_ context.Context, email, phone string) (registration.Registration, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	email = strings.ToLower(strings.TrimSpace(email))
	phone = registration.NormalizePhone(phone)

	var (
		latest registration.Registration
		found  bool
	)
	for _, item := range r.items {
		matched := (email != "" && strings.EqualFold(item.Form.Email, email)) ||
			(phone != "" && registration.NormalizePhone(item.Form.Phone) == phone)
		if !matched {
			continue
		}
		if !found || item.CreatedAt.After(latest.CreatedAt) {
			latest = item
			found = true
		}
	}
	return latest, found, nil
}
