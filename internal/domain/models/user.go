package models

// AdminUser is the resolved identity attached to an authenticated request.
// Roles come from the session token; Permissions are re-derived server-side on
// every verification and never trusted from the wire.
type AdminUser struct {
	ID          int64    `json:"id"`
	Email       string   `json:"email"`
	Name        string   `json:"name"`
	Roles       []string `json:"roles"`
	Permissions []string `json:"permissions"`
}

// HasRole reports direct role membership.
func (u AdminUser) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}
