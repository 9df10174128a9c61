package handlers

import (
	"net/http"
	"regexp"
	"strings"

	"backoffice/internal/auth"
	"backoffice/internal/domain"
	"backoffice/internal/http/middleware"
	"backoffice/internal/repositories"

	"github.com/gin-gonic/gin"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// AuthHandler owns the session endpoints. Sessions live entirely in a signed
// cookie; there is no server-side session store.
type AuthHandler struct {
	Guard      auth.Guard
	Users      repositories.UserRepository
	CookieName string
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// POST /api/auth/login
func (h AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		RespondDomainError(c, domain.NewValidationError("email", "email and password are required"))
		return
	}

	user, token, err := h.Guard.Login(strings.TrimSpace(req.Email), req.Password)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	h.setSessionCookie(c, token, int(h.Guard.SessionDuration.Seconds()))
	respond(c, http.StatusOK, gin.H{"user": user})
}

// POST /api/auth/logout
func (h AuthHandler) Logout(c *gin.Context) {
	h.setSessionCookie(c, "", -1)
	respond(c, http.StatusOK, gin.H{"loggedOut": true})
}

// GET /api/auth/me
func (h AuthHandler) Me(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "authentication required")
		return
	}
	respond(c, http.StatusOK, gin.H{"user": user})
}

type registerRequest struct {
	Name     string   `json:"name"`
	Email    string   `json:"email"`
	Password string   `json:"password"`
	Roles    []string `json:"roles"`
}

// POST /api/auth/register
func (h AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	var fields []domain.FieldError
	if strings.TrimSpace(req.Name) == "" {
		fields = append(fields, domain.FieldError{Field: "name", Message: "name is required"})
	}
	if !emailPattern.MatchString(req.Email) {
		fields = append(fields, domain.FieldError{Field: "email", Message: "email must be a valid address"})
	}
	if len(req.Password) < 8 {
		fields = append(fields, domain.FieldError{Field: "password", Message: "password must be at least 8 characters"})
	}
	if len(fields) > 0 {
		RespondDomainError(c, domain.ValidationError{Fields: fields})
		return
	}

	exists, err := h.Users.EmailExists(req.Email)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	if exists {
		RespondDomainError(c, domain.ConflictError{Resource: "user", Msg: "email is already registered"})
		return
	}

	roles := req.Roles
	if len(roles) == 0 {
		roles = []string{"viewer"}
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	id, err := h.Users.Create(strings.TrimSpace(req.Name), req.Email, hash, roles)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	respond(c, http.StatusCreated, gin.H{"user": gin.H{
		"id":    id,
		"name":  strings.TrimSpace(req.Name),
		"email": req.Email,
		"roles": roles,
	}})
}

func (h AuthHandler) setSessionCookie(c *gin.Context, token string, maxAge int) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(h.CookieName, token, maxAge, "/", "", true, true)
}
