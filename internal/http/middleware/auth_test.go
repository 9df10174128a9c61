package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"backoffice/internal/auth"
	"backoffice/internal/domain/models"

	"github.com/gin-gonic/gin"
)

const testCookie = "bo_session"

func testRouter(guard auth.Guard) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", WithAuth(guard, testCookie), func(c *gin.Context) {
		user, _ := CurrentUser(c)
		c.JSON(http.StatusOK, gin.H{"email": user.Email})
	})
	r.POST("/manage", WithAuth(guard, testCookie), RequirePermission(auth.PermOrdersManage), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func request(r *gin.Engine, method, path, token string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: testCookie, Value: token})
	}
	r.ServeHTTP(w, req)
	return w
}

func TestWithAuth_MissingCookie(t *testing.T) {
	guard := auth.Guard{Secret: []byte("secret"), SessionDuration: time.Hour}
	if w := request(testRouter(guard), http.MethodGet, "/me", ""); w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestWithAuth_ValidSessionReachesHandler(t *testing.T) {
	guard := auth.Guard{Secret: []byte("secret"), SessionDuration: time.Hour}
	token, err := guard.GenerateToken(models.AdminUser{ID: 7, Email: "ops@example.com", Roles: []string{"manager"}})
	if err != nil {
		t.Fatalf("token: %v", err)
	}

	w := request(testRouter(guard), http.MethodGet, "/me", token)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (%s)", w.Code, w.Body.String())
	}
}

func TestWithAuth_WrongSecretRejected(t *testing.T) {
	issuer := auth.Guard{Secret: []byte("other-secret"), SessionDuration: time.Hour}
	token, err := issuer.GenerateToken(models.AdminUser{ID: 7, Email: "ops@example.com", Roles: []string{"manager"}})
	if err != nil {
		t.Fatalf("token: %v", err)
	}

	guard := auth.Guard{Secret: []byte("secret"), SessionDuration: time.Hour}
	if w := request(testRouter(guard), http.MethodGet, "/me", token); w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestRequirePermission_ViewerForbidden(t *testing.T) {
	guard := auth.Guard{Secret: []byte("secret"), SessionDuration: time.Hour}
	token, err := guard.GenerateToken(models.AdminUser{ID: 8, Email: "view@example.com", Roles: []string{"viewer"}})
	if err != nil {
		t.Fatalf("token: %v", err)
	}

	if w := request(testRouter(guard), http.MethodPost, "/manage", token); w.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", w.Code)
	}
}

func TestRequirePermission_AdminBlanket(t *testing.T) {
	guard := auth.Guard{Secret: []byte("secret"), SessionDuration: time.Hour}
	token, err := guard.GenerateToken(models.AdminUser{ID: 1, Email: "root@example.com", Roles: []string{"admin"}})
	if err != nil {
		t.Fatalf("token: %v", err)
	}

	if w := request(testRouter(guard), http.MethodPost, "/manage", token); w.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", w.Code)
	}
}
