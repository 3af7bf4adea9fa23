package handlers_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/kanbanlab/goban/internal/api/dto"
	"github.com/kanbanlab/goban/internal/api/handlers"
	"github.com/kanbanlab/goban/internal/api/middleware"
	"github.com/kanbanlab/goban/internal/database/models"
	"github.com/kanbanlab/goban/internal/perms"
	"github.com/kanbanlab/goban/internal/repository"
	"github.com/kanbanlab/goban/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupBoardTestRouter(t *testing.T) (*chi.Mux, *testutil.TestSetup) {
	tc := testutil.NewTestContext(t)

	boardRepo := repository.NewBoardRepository(tc.DB)
	permsService := perms.NewService(
		repository.NewGrantRepository(tc.DB),
		boardRepo,
		repository.NewUserRepository(tc.DB),
	)
	handler := handlers.NewBoardHandler(boardRepo, permsService)

	r := chi.NewRouter()
	r.Use(middleware.Auth(tc.JWTService))
	r.Route("/boards", func(r chi.Router) {
		r.Get("/", handler.List)
		r.Post("/", handler.Create)
		r.Get("/{boardId}", handler.Get)
		r.Patch("/{boardId}", handler.Update)
		r.Delete("/{boardId}", handler.Delete)
	})

	return r, tc
}

func TestBoardHandler_Create(t *testing.T) {
	router, tc := setupBoardTestRouter(t)
	defer tc.Cleanup()

	tests := []struct {
		name       string
		body       map[string]interface{}
		wantStatus int
	}{
		{
			name: "create private board",
			body: map[string]interface{}{
				"name":       "Sprint",
				"visibility": "private",
			},
			wantStatus: http.StatusCreated,
		},
		{
			name: "create public board",
			body: map[string]interface{}{
				"name":       "Roadmap",
				"visibility": "public",
			},
			wantStatus: http.StatusCreated,
		},
		{
			name: "missing name",
			body: map[string]interface{}{
				"visibility": "private",
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "missing visibility",
			body: map[string]interface{}{
				"name": "Sprint",
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "unknown visibility",
			body: map[string]interface{}{
				"name":       "Sprint",
				"visibility": "secret",
			},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.AuthenticatedRequest(t, "POST", "/boards", tt.body, tc.Token)
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)

			if tt.wantStatus == http.StatusCreated {
				var resp handlers.BoardResponse
				testutil.ParseJSONResponse(t, rr, &resp)
				assert.NotZero(t, resp.ID)
				assert.Equal(t, tt.body["name"], resp.Name)
				assert.Equal(t, tt.body["visibility"], resp.Visibility)
				assert.NotNil(t, resp.Columns)
				assert.Empty(t, resp.Columns)
				assert.Equal(t, fmt.Sprintf("/boards/%d", resp.ID), rr.Header().Get("Location"))
				return
			}

			var errResp dto.ErrorResponse
			testutil.ParseJSONResponse(t, rr, &errResp)
			assert.Equal(t, "Invalid request body", errResp.Message)
		})
	}

	t.Run("fresh board serializes columns as an empty array", func(t *testing.T) {
		req := testutil.AuthenticatedRequest(t, "POST", "/boards", map[string]interface{}{
			"name":       "Empty",
			"visibility": "private",
		}, tc.Token)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		require.Equal(t, http.StatusCreated, rr.Code)
		assert.Contains(t, rr.Body.String(), `"columns":[]`)
	})

	t.Run("creator receives the full grant set", func(t *testing.T) {
		req := testutil.AuthenticatedRequest(t, "POST", "/boards", map[string]interface{}{
			"name":       "Granted",
			"visibility": "private",
		}, tc.Token)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		require.Equal(t, http.StatusCreated, rr.Code)

		var resp handlers.BoardResponse
		testutil.ParseJSONResponse(t, rr, &resp)

		var count int64
		tc.DB.Model(&models.UserBoardPermission{}).
			Where("board_id = ? AND user_id = ?", resp.ID, tc.User.ID).
			Count(&count)
		assert.Equal(t, int64(len(models.Capabilities())), count)
	})
}

func TestBoardHandler_Get(t *testing.T) {
	router, tc := setupBoardTestRouter(t)
	defer tc.Cleanup()

	board := testutil.CreateTestBoard(t, tc.DB, tc.User, models.VisibilityPrivate)
	column := testutil.CreateTestColumn(t, tc.DB, board.ID, "To do")
	testutil.CreateTestTask(t, tc.DB, board.ID, column.ID, "Write docs")

	stranger := testutil.CreateTestUser(t, tc.DB)
	strangerToken := testutil.GenerateTestToken(t, tc.JWTService, stranger)

	t.Run("owner gets the nested dump", func(t *testing.T) {
		req := testutil.AuthenticatedRequest(t, "GET", fmt.Sprintf("/boards/%d", board.ID), nil, tc.Token)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var resp handlers.BoardResponse
		testutil.ParseJSONResponse(t, rr, &resp)
		assert.Equal(t, board.ID, resp.ID)
		require.Len(t, resp.Columns, 1)
		assert.Equal(t, "To do", resp.Columns[0].Name)
		require.Len(t, resp.Columns[0].Tasks, 1)
		assert.Equal(t, "Write docs", resp.Columns[0].Tasks[0].Name)
	})

	t.Run("stranger is forbidden on a private board", func(t *testing.T) {
		req := testutil.AuthenticatedRequest(t, "GET", fmt.Sprintf("/boards/%d", board.ID), nil, strangerToken)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusForbidden, rr.Code)

		var errResp dto.ErrorResponse
		testutil.ParseJSONResponse(t, rr, &errResp)
		assert.Equal(t, "No permission to retrieve the board", errResp.Message)
	})

	t.Run("anyone may read a public board", func(t *testing.T) {
		public := testutil.CreateTestBoard(t, tc.DB, tc.User, models.VisibilityPublic)

		req := testutil.AuthenticatedRequest(t, "GET", fmt.Sprintf("/boards/%d", public.ID), nil, strangerToken)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("missing board is NotFound even for strangers", func(t *testing.T) {
		req := testutil.AuthenticatedRequest(t, "GET", "/boards/424242", nil, strangerToken)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)

		var errResp dto.ErrorResponse
		testutil.ParseJSONResponse(t, rr, &errResp)
		assert.Equal(t, "Board with id 424242 does not exist", errResp.Message)
	})

	t.Run("non-numeric id", func(t *testing.T) {
		req := testutil.AuthenticatedRequest(t, "GET", "/boards/abc", nil, tc.Token)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)

		var errResp dto.ErrorResponse
		testutil.ParseJSONResponse(t, rr, &errResp)
		assert.Equal(t, "Invalid board ID", errResp.Message)
	})
}

func TestBoardHandler_List(t *testing.T) {
	router, tc := setupBoardTestRouter(t)
	defer tc.Cleanup()

	other := testutil.CreateTestUser(t, tc.DB)

	mine1 := testutil.CreateTestBoard(t, tc.DB, tc.User, models.VisibilityPrivate)
	mine2 := testutil.CreateTestBoard(t, tc.DB, tc.User, models.VisibilityPrivate)
	testutil.CreateTestBoard(t, tc.DB, other, models.VisibilityPrivate)
	theirsPublic := testutil.CreateTestBoard(t, tc.DB, other, models.VisibilityPublic)

	t.Run("lists own and public boards", func(t *testing.T) {
		req := testutil.AuthenticatedRequest(t, "GET", "/boards", nil, tc.Token)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var resp handlers.BoardListResponse
		testutil.ParseJSONResponse(t, rr, &resp)
		require.Len(t, resp.Boards, 3)
		assert.Equal(t, mine1.ID, resp.Boards[0].ID)
		assert.Equal(t, mine2.ID, resp.Boards[1].ID)
		assert.Equal(t, theirsPublic.ID, resp.Boards[2].ID)
	})

	t.Run("list items carry the nested dump", func(t *testing.T) {
		column := testutil.CreateTestColumn(t, tc.DB, mine1.ID, "Doing")
		testutil.CreateTestTask(t, tc.DB, mine1.ID, column.ID, "Ship it")

		req := testutil.AuthenticatedRequest(t, "GET", "/boards", nil, tc.Token)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		var resp handlers.BoardListResponse
		testutil.ParseJSONResponse(t, rr, &resp)
		require.Len(t, resp.Boards, 3)
		require.Len(t, resp.Boards[0].Columns, 1)
		require.Len(t, resp.Boards[0].Columns[0].Tasks, 1)
	})

	t.Run("offset and limit page through", func(t *testing.T) {
		req := testutil.AuthenticatedRequest(t, "GET", "/boards?offset=1&limit=1", nil, tc.Token)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var resp handlers.BoardListResponse
		testutil.ParseJSONResponse(t, rr, &resp)
		require.Len(t, resp.Boards, 1)
		assert.Equal(t, mine2.ID, resp.Boards[0].ID)
	})

	t.Run("malformed pagination", func(t *testing.T) {
		for _, query := range []string{"?limit=0", "?limit=1001", "?offset=-1", "?limit=abc"} {
			req := testutil.AuthenticatedRequest(t, "GET", "/boards"+query, nil, tc.Token)
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			assert.Equal(t, http.StatusBadRequest, rr.Code, "query %s", query)

			var errResp dto.ErrorResponse
			testutil.ParseJSONResponse(t, rr, &errResp)
			assert.Equal(t, "Invalid pagination parameters", errResp.Message)
		}
	})
}

func TestBoardHandler_Update(t *testing.T) {
	router, tc := setupBoardTestRouter(t)
	defer tc.Cleanup()

	board := testutil.CreateTestBoard(t, tc.DB, tc.User, models.VisibilityPrivate)

	member := testutil.CreateTestUser(t, tc.DB)
	memberToken := testutil.GenerateTestToken(t, tc.JWTService, member)

	t.Run("renames without touching visibility", func(t *testing.T) {
		req := testutil.AuthenticatedRequest(t, "PATCH", fmt.Sprintf("/boards/%d", board.ID),
			map[string]interface{}{"name": "Renamed"}, tc.Token)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var resp handlers.BoardResponse
		testutil.ParseJSONResponse(t, rr, &resp)
		assert.Equal(t, "Renamed", resp.Name)
		assert.Equal(t, "private", resp.Visibility)
	})

	t.Run("flips visibility alone", func(t *testing.T) {
		req := testutil.AuthenticatedRequest(t, "PATCH", fmt.Sprintf("/boards/%d", board.ID),
			map[string]interface{}{"visibility": "public"}, tc.Token)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var resp handlers.BoardResponse
		testutil.ParseJSONResponse(t, rr, &resp)
		assert.Equal(t, "Renamed", resp.Name)
		assert.Equal(t, "public", resp.Visibility)
	})

	t.Run("empty name is rejected", func(t *testing.T) {
		req := testutil.AuthenticatedRequest(t, "PATCH", fmt.Sprintf("/boards/%d", board.ID),
			map[string]interface{}{"name": ""}, tc.Token)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("needs BOARD_EDIT", func(t *testing.T) {
		req := testutil.AuthenticatedRequest(t, "PATCH", fmt.Sprintf("/boards/%d", board.ID),
			map[string]interface{}{"name": "Hijacked"}, memberToken)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusForbidden, rr.Code)

		var errResp dto.ErrorResponse
		testutil.ParseJSONResponse(t, rr, &errResp)
		assert.Equal(t, "No permission to modify the board", errResp.Message)

		testutil.GrantCapabilities(t, tc.DB, board.ID, member.ID, models.CapabilityBoardEdit)

		rr = httptest.NewRecorder()
		router.ServeHTTP(rr, testutil.AuthenticatedRequest(t, "PATCH", fmt.Sprintf("/boards/%d", board.ID),
			map[string]interface{}{"name": "Allowed now"}, memberToken))
		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("missing board", func(t *testing.T) {
		req := testutil.AuthenticatedRequest(t, "PATCH", "/boards/424242",
			map[string]interface{}{"name": "Ghost"}, tc.Token)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestBoardHandler_Delete(t *testing.T) {
	router, tc := setupBoardTestRouter(t)
	defer tc.Cleanup()

	board := testutil.CreateTestBoard(t, tc.DB, tc.User, models.VisibilityPrivate)
	column := testutil.CreateTestColumn(t, tc.DB, board.ID, "To do")
	testutil.CreateTestTask(t, tc.DB, board.ID, column.ID, "Doomed")

	stranger := testutil.CreateTestUser(t, tc.DB)
	strangerToken := testutil.GenerateTestToken(t, tc.JWTService, stranger)

	t.Run("needs BOARD_DELETE", func(t *testing.T) {
		req := testutil.AuthenticatedRequest(t, "DELETE", fmt.Sprintf("/boards/%d", board.ID), nil, strangerToken)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusForbidden, rr.Code)

		var errResp dto.ErrorResponse
		testutil.ParseJSONResponse(t, rr, &errResp)
		assert.Equal(t, "No permission to delete the board", errResp.Message)
	})

	t.Run("cascades to columns, tasks and grants", func(t *testing.T) {
		req := testutil.AuthenticatedRequest(t, "DELETE", fmt.Sprintf("/boards/%d", board.ID), nil, tc.Token)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNoContent, rr.Code)

		var columns, tasks, grants int64
		tc.DB.Model(&models.Column{}).Where("board_id = ?", board.ID).Count(&columns)
		tc.DB.Model(&models.Task{}).Where("board_id = ?", board.ID).Count(&tasks)
		tc.DB.Model(&models.UserBoardPermission{}).Where("board_id = ?", board.ID).Count(&grants)
		assert.Zero(t, columns)
		assert.Zero(t, tasks)
		assert.Zero(t, grants)

		rr = httptest.NewRecorder()
		router.ServeHTTP(rr, testutil.AuthenticatedRequest(t, "GET", fmt.Sprintf("/boards/%d", board.ID), nil, tc.Token))
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("missing board", func(t *testing.T) {
		req := testutil.AuthenticatedRequest(t, "DELETE", "/boards/424242", nil, tc.Token)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestBoardHandler_Unauthorized(t *testing.T) {
	router, tc := setupBoardTestRouter(t)
	defer tc.Cleanup()

	req := testutil.UnauthenticatedRequest(t, "GET", "/boards", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	var errResp dto.ErrorResponse
	testutil.ParseJSONResponse(t, rr, &errResp)
	assert.Equal(t, "No valid token present", errResp.Message)
}
