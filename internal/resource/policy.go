package resource

import "backoffice/internal/domain/models"

// Policy is the typed extension point for per-resource cross-cutting behavior
// (derived fields, audit side effects, notifications). Before hooks may
// transform the payload or veto the operation; After hooks are fire-and-forget.
type Policy interface {
	BeforeCreate(data map[string]any, user models.AdminUser) (map[string]any, error)
	AfterCreate(item map[string]any, user models.AdminUser)
	BeforeUpdate(data, existing map[string]any, user models.AdminUser) (map[string]any, error)
	AfterUpdate(item map[string]any, user models.AdminUser)
	BeforeDelete(existing map[string]any, user models.AdminUser) error
	AfterDelete(id string, user models.AdminUser)
}

// BasePolicy is a no-op Policy for embedding; resources override only the
// extension points they need.
type BasePolicy struct{}

func (BasePolicy) BeforeCreate(data map[string]any, _ models.AdminUser) (map[string]any, error) {
	return data, nil
}

func (BasePolicy) AfterCreate(map[string]any, models.AdminUser) {}

func (BasePolicy) BeforeUpdate(data, _ map[string]any, _ models.AdminUser) (map[string]any, error) {
	return data, nil
}

func (BasePolicy) AfterUpdate(map[string]any, models.AdminUser) {}

func (BasePolicy) BeforeDelete(map[string]any, models.AdminUser) error { return nil }

func (BasePolicy) AfterDelete(string, models.AdminUser) {}
