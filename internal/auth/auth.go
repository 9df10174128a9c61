package auth

import (
	"database/sql"
	"errors"
	"sort"
	"strconv"
	"time"

	"backoffice/internal/domain"
	"backoffice/internal/domain/models"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// RoleAdmin grants every permission without an explicit grant.
const RoleAdmin = "admin"

// Permission names used by the route layer.
const (
	PermOrdersRead     = "orders.read"
	PermOrdersWrite    = "orders.write"
	PermOrdersManage   = "orders.manage"
	PermResourcesRead  = "resources.read"
	PermResourcesWrite = "resources.write"
)

// rolePermissions is the server-side grant table. Permissions are always
// resolved from here, never read back from a token.
var rolePermissions = map[string][]string{
	"manager": {PermOrdersRead, PermOrdersWrite, PermOrdersManage, PermResourcesRead, PermResourcesWrite},
	"support": {PermOrdersRead, PermOrdersWrite, PermResourcesRead},
	"viewer":  {PermOrdersRead, PermResourcesRead},
}

// CredentialStore is the slice of user storage the guard needs.
type CredentialStore interface {
	FindByEmail(email string) (models.AdminUser, string, error)
}

// Guard issues and verifies session tokens and answers permission questions.
type Guard struct {
	Secret          []byte
	SessionDuration time.Duration
	Users           CredentialStore
}

type sessionClaims struct {
	Email string   `json:"email"`
	Roles []string `json:"roles"`
	jwt.RegisteredClaims
}

// Login checks credentials and returns the user plus a fresh session token.
func (g Guard) Login(email, password string) (models.AdminUser, string, error) {
	user, hash, err := g.Users.FindByEmail(email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || domain.IsNotFound(err) {
			return models.AdminUser{}, "", domain.UnauthorizedError{Msg: "invalid email or password"}
		}
		return models.AdminUser{}, "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return models.AdminUser{}, "", domain.UnauthorizedError{Msg: "invalid email or password"}
	}

	user.Permissions = PermissionsForRoles(user.Roles)
	token, err := g.GenerateToken(user)
	if err != nil {
		return models.AdminUser{}, "", err
	}
	return user, token, nil
}

// GenerateToken encodes identity and roles into a signed HS256 token.
func (g Guard) GenerateToken(user models.AdminUser) (string, error) {
	now := time.Now()
	claims := sessionClaims{
		Email: user.Email,
		Roles: user.Roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(user.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(g.SessionDuration)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(g.Secret)
}

// VerifyToken decodes a session token. Identity and roles are trusted from the
// signed claims; permissions are re-derived server-side on every call. Expired
// or malformed tokens fail regardless of payload.
func (g Guard) VerifyToken(token string) (models.AdminUser, error) {
	var claims sessionClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return g.Secret, nil
	})
	if err != nil || !parsed.Valid {
		return models.AdminUser{}, domain.UnauthorizedError{Msg: "invalid or expired session", Err: err}
	}

	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || id <= 0 {
		return models.AdminUser{}, domain.UnauthorizedError{Msg: "invalid or expired session"}
	}

	return models.AdminUser{
		ID:          id,
		Email:       claims.Email,
		Roles:       claims.Roles,
		Permissions: PermissionsForRoles(claims.Roles),
	}, nil
}

// HasPermission is true for an explicit grant or the blanket admin role.
func HasPermission(user models.AdminUser, permission string) bool {
	if user.HasRole(RoleAdmin) {
		return true
	}
	for _, p := range user.Permissions {
		if p == permission {
			return true
		}
	}
	return false
}

// PermissionsForRoles flattens the grant table for a role set.
func PermissionsForRoles(roles []string) []string {
	seen := map[string]struct{}{}
	for _, role := range roles {
		for _, p := range rolePermissions[role] {
			seen[p] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for p := range seen {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// HashPassword wraps bcrypt for registration.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
