package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"campuspay/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAuthService struct {
	validations int
	claims      *models.UserClaims
}

func (s *stubAuthService) Register(context.Context, string, string, string) (*models.Account, error) {
	return nil, nil
}

func (s *stubAuthService) Login(context.Context, string, string) (string, error) {
	return "", nil
}

func (s *stubAuthService) Logout(context.Context, uint) error {
	return nil
}

func (s *stubAuthService) ValidateToken(context.Context, string) (*models.UserClaims, error) {
	s.validations++
	return s.claims, nil
}

// newAdminApp mirrors the route wiring: the admin group hangs off the
// already-authenticated /api group with only AdminOnly on top.
func newAdminApp(svc *stubAuthService) *fiber.App {
	app := fiber.New()
	api := app.Group("/api")
	protected := api.Use(NewAuthMiddleware(svc).Handler)
	admin := protected.Group("/admin", AdminOnly)
	admin.Get("/users", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func adminRequest() *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/api/admin/users", nil)
	req.Header.Set("Authorization", "Bearer token")
	return req
}

func TestAdminRoute_ValidatesTokenOnce(t *testing.T) {
	svc := &stubAuthService{claims: &models.UserClaims{UserID: 1, Role: models.RoleAdmin}}
	app := newAdminApp(svc)

	resp, err := app.Test(adminRequest())
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, svc.validations, "one token validation per request")
}

func TestAdminRoute_ForbidsStudents(t *testing.T) {
	svc := &stubAuthService{claims: &models.UserClaims{UserID: 2, Role: models.RoleStudent}}
	app := newAdminApp(svc)

	resp, err := app.Test(adminRequest())
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestAuthMiddleware_RejectsMissingBearer(t *testing.T) {
	svc := &stubAuthService{}
	app := newAdminApp(svc)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/admin/users", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Zero(t, svc.validations)
}
