package http_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/crm-motorenting/internal/domain/access"
	apphttp "github.com/jhoicas/crm-motorenting/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/crm-motorenting/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testIssuer    = "crm-test"
	testExpMin    = 60
)

// buildTestApp app mínima: AuthMiddleware + RequireOperation(op) + handler que devuelve la identidad.
func buildTestApp(op access.Operation) *fiber.App {
	app := fiber.New()
	policy := access.NewPolicy(access.Options{})
	app.Get("/protected",
		apphttp.AuthMiddleware(testJWTSecret),
		apphttp.RequireOperation(policy, op),
		func(c *fiber.Ctx) error {
			return c.JSON(fiber.Map{
				"ok":     true,
				"userId": apphttp.GetUserID(c),
				"role":   apphttp.GetRole(c).String(),
			})
		},
	)
	return app
}

func bearer(t *testing.T, userID int64, role string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, pkgjwt.Identity{UserID: userID, Email: "u@crm.co", Role: role}, testIssuer, testExpMin)
	require.NoError(t, err)
	return "Bearer " + tok
}

func doRequest(t *testing.T, app *fiber.App, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func errorCode(t *testing.T, resp *http.Response) string {
	t.Helper()
	var body struct {
		Code string `json:"code"`
	}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &body), string(raw))
	return body.Code
}

// ──────────────────────────────────────────────────────────────────────────────
// AuthMiddleware
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthMiddleware_Rechazos(t *testing.T) {
	noRole, err := pkgjwt.Generate(testJWTSecret, pkgjwt.Identity{UserID: 5, Email: "u@crm.co"}, testIssuer, testExpMin)
	require.NoError(t, err)
	otherSecret, err := pkgjwt.Generate("otro-secreto", pkgjwt.Identity{UserID: 5, Role: "ADMIN"}, testIssuer, testExpMin)
	require.NoError(t, err)

	cases := []struct {
		name   string
		header string
		code   string
	}{
		{"sin cabecera", "", "MISSING_TOKEN"},
		{"sin Bearer", "Token abc", "INVALID_TOKEN"},
		{"firma de otro secreto", "Bearer " + otherSecret, "INVALID_TOKEN"},
		{"token basura", "Bearer abc.def.ghi", "INVALID_TOKEN"},
		{"sin rol", "Bearer " + noRole, "MISSING_ROLE"},
		{"rol desconocido", bearer(t, 5, "BODEGUERO"), "INVALID_ROLE"},
	}
	app := buildTestApp(access.OpListUsers)
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := doRequest(t, app, tc.header)
			defer resp.Body.Close()
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
			assert.Equal(t, tc.code, errorCode(t, resp))
		})
	}
}

func TestAuthMiddleware_CargaIdentidad(t *testing.T) {
	app := buildTestApp(access.OpListUsers)
	resp := doRequest(t, app, bearer(t, 9, "coordinador"))
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, true, body["ok"])
	assert.EqualValues(t, 9, body["userId"])
	assert.Equal(t, "COORDINADOR", body["role"])
}

// ──────────────────────────────────────────────────────────────────────────────
// RequireOperation
// ──────────────────────────────────────────────────────────────────────────────

func TestRequireOperation(t *testing.T) {
	cases := []struct {
		op     access.Operation
		role   string
		status int
	}{
		{access.OpListUsers, "ASESOR", http.StatusForbidden},
		{access.OpListUsers, "COORDINADOR", http.StatusOK},
		{access.OpManageUsers, "COORDINADOR", http.StatusForbidden},
		{access.OpManageUsers, "ADMIN", http.StatusOK},
		{access.OpImportCustomers, "ASESOR", http.StatusForbidden},
		{access.OpImportCustomers, "SUPER_ADMIN", http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(string(tc.op)+"/"+tc.role, func(t *testing.T) {
			resp := doRequest(t, buildTestApp(tc.op), bearer(t, 1, tc.role))
			defer resp.Body.Close()
			assert.Equal(t, tc.status, resp.StatusCode)
			if tc.status == http.StatusForbidden {
				assert.Equal(t, "FORBIDDEN", errorCode(t, resp))
			}
		})
	}
}
