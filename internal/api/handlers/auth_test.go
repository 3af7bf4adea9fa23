package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/kanbanlab/goban/internal/api/dto"
	"github.com/kanbanlab/goban/internal/api/handlers"
	"github.com/kanbanlab/goban/internal/auth"
	"github.com/kanbanlab/goban/internal/repository"
	"github.com/kanbanlab/goban/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupAuthTestRouter(t *testing.T) (*chi.Mux, *testutil.TestSetup) {
	tc := testutil.NewTestContext(t)

	authService := auth.NewService(repository.NewUserRepository(tc.DB), tc.JWTService)
	handler := handlers.NewAuthHandler(authService)

	r := chi.NewRouter()
	r.Post("/auth/register", handler.Register)
	r.Post("/auth/login", handler.Login)

	return r, tc
}

func TestAuthHandler_Register(t *testing.T) {
	router, tc := setupAuthTestRouter(t)
	defer tc.Cleanup()

	tests := []struct {
		name        string
		body        map[string]interface{}
		wantStatus  int
		wantMessage string
	}{
		{
			name: "valid registration",
			body: map[string]interface{}{
				"username": "john",
				"email":    "john@example.com",
				"password": "secret123",
			},
			wantStatus: http.StatusCreated,
		},
		{
			name: "missing username",
			body: map[string]interface{}{
				"email":    "nobody@example.com",
				"password": "secret123",
			},
			wantStatus:  http.StatusBadRequest,
			wantMessage: "Invalid request body",
		},
		{
			name: "missing email",
			body: map[string]interface{}{
				"username": "nobody",
				"password": "secret123",
			},
			wantStatus:  http.StatusBadRequest,
			wantMessage: "Invalid request body",
		},
		{
			name: "missing password",
			body: map[string]interface{}{
				"username": "nobody",
				"email":    "nobody@example.com",
			},
			wantStatus:  http.StatusBadRequest,
			wantMessage: "Invalid request body",
		},
		{
			name: "malformed email",
			body: map[string]interface{}{
				"username": "nobody",
				"email":    "not-an-email",
				"password": "secret123",
			},
			wantStatus:  http.StatusBadRequest,
			wantMessage: "Invalid request body",
		},
		{
			name: "duplicate username",
			body: map[string]interface{}{
				"username": "john",
				"email":    "john2@example.com",
				"password": "secret123",
			},
			wantStatus:  http.StatusConflict,
			wantMessage: "User already exists",
		},
		{
			name: "duplicate email",
			body: map[string]interface{}{
				"username": "john2",
				"email":    "john@example.com",
				"password": "secret123",
			},
			wantStatus:  http.StatusConflict,
			wantMessage: "User already exists",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.UnauthenticatedRequest(t, "POST", "/auth/register", tt.body)
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)

			if tt.wantStatus == http.StatusCreated {
				var resp dto.TokenResponse
				testutil.ParseJSONResponse(t, rr, &resp)
				assert.NotEmpty(t, resp.Token)
				return
			}

			var errResp dto.ErrorResponse
			testutil.ParseJSONResponse(t, rr, &errResp)
			assert.Equal(t, tt.wantStatus, errResp.Status)
			assert.Equal(t, tt.wantMessage, errResp.Message)
		})
	}
}

func TestAuthHandler_RegisterTokenIsUsable(t *testing.T) {
	router, tc := setupAuthTestRouter(t)
	defer tc.Cleanup()

	req := testutil.UnauthenticatedRequest(t, "POST", "/auth/register", map[string]interface{}{
		"username": "fresh",
		"email":    "fresh@example.com",
		"password": "secret123",
	})
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusCreated, rr.Code)

	var resp dto.TokenResponse
	testutil.ParseJSONResponse(t, rr, &resp)

	claims, err := tc.JWTService.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.NotZero(t, claims.UserID)
}

func TestAuthHandler_Login(t *testing.T) {
	router, tc := setupAuthTestRouter(t)
	defer tc.Cleanup()

	user := tc.User

	t.Run("login by username", func(t *testing.T) {
		req := testutil.UnauthenticatedRequest(t, "POST", "/auth/login", map[string]interface{}{
			"username": user.Name,
			"password": testutil.TestPassword,
		})
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var resp dto.TokenResponse
		testutil.ParseJSONResponse(t, rr, &resp)
		assert.NotEmpty(t, resp.Token)
	})

	t.Run("login by email", func(t *testing.T) {
		req := testutil.UnauthenticatedRequest(t, "POST", "/auth/login", map[string]interface{}{
			"email":    user.Email,
			"password": testutil.TestPassword,
		})
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("username outranks email when both are sent", func(t *testing.T) {
		register := testutil.UnauthenticatedRequest(t, "POST", "/auth/register", map[string]interface{}{
			"username": "eve",
			"email":    "eve@example.com",
			"password": "a-different-password",
		})
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, register)
		require.Equal(t, http.StatusCreated, rr.Code)

		// The password belongs to the username's account, not the email's.
		req := testutil.UnauthenticatedRequest(t, "POST", "/auth/login", map[string]interface{}{
			"username": user.Name,
			"email":    "eve@example.com",
			"password": testutil.TestPassword,
		})
		rr = httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("wrong password and unknown user are indistinguishable", func(t *testing.T) {
		wrongPassword := testutil.UnauthenticatedRequest(t, "POST", "/auth/login", map[string]interface{}{
			"username": user.Name,
			"password": "not-the-password",
		})
		rr1 := httptest.NewRecorder()
		router.ServeHTTP(rr1, wrongPassword)

		unknownUser := testutil.UnauthenticatedRequest(t, "POST", "/auth/login", map[string]interface{}{
			"username": "ghost",
			"password": testutil.TestPassword,
		})
		rr2 := httptest.NewRecorder()
		router.ServeHTTP(rr2, unknownUser)

		assert.Equal(t, http.StatusUnauthorized, rr1.Code)
		assert.Equal(t, http.StatusUnauthorized, rr2.Code)
		assert.Equal(t, rr1.Body.String(), rr2.Body.String())

		var errResp dto.ErrorResponse
		testutil.ParseJSONResponse(t, rr1, &errResp)
		assert.Equal(t, "Wrong username or password", errResp.Message)
	})

	t.Run("missing password", func(t *testing.T) {
		req := testutil.UnauthenticatedRequest(t, "POST", "/auth/login", map[string]interface{}{
			"username": user.Name,
		})
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)

		var errResp dto.ErrorResponse
		testutil.ParseJSONResponse(t, rr, &errResp)
		assert.Equal(t, "Invalid request body", errResp.Message)
	})

	t.Run("missing both identifiers", func(t *testing.T) {
		req := testutil.UnauthenticatedRequest(t, "POST", "/auth/login", map[string]interface{}{
			"password": testutil.TestPassword,
		})
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}
