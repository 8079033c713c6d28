package api_test

import (
	"appointments-system/api"
	"appointments-system/logger"
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	fixedNow     = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	userColumns  = []string{"id", "name", "username", "preferred_timezone"}
	getUserQuery = regexp.QuoteMeta(`SELECT id, name, username, COALESCE(preferred_timezone, '') FROM users WHERE id = $1`)
)

func setupAPI(t *testing.T) (*api.API, sqlmock.Sqlmock) {
	t.Helper()
	db, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	a := api.NewAPI(db, logger.NewWithWriter(io.Discard, "test", slog.LevelError),
		api.WithClock(func() time.Time { return fixedNow }))
	a.RegisterRoutes()
	return a, dbMock
}

func serve(a *api.API, method, path, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	a.Router().ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) api.Response {
	t.Helper()
	var res api.Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&res))
	assert.Equal(t, rec.Code, res.Status)
	return res
}

func TestHealth(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		a, _ := setupAPI(t)

		rec := serve(a, http.MethodGet, "/api/health", "")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "OK", rec.Body.String())
	})

	t.Run("database down", func(t *testing.T) {
		db, dbMock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
		require.NoError(t, err)
		t.Cleanup(func() { _ = db.Close() })
		dbMock.ExpectPing().WillReturnError(assert.AnError)

		a := api.NewAPI(db, logger.NewWithWriter(io.Discard, "test", slog.LevelError))
		a.RegisterRoutes()

		rec := serve(a, http.MethodGet, "/api/health", "")

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		require.NoError(t, dbMock.ExpectationsWereMet())
	})
}

func TestUsersAPI(t *testing.T) {
	t.Parallel()

	t.Run("create user", func(t *testing.T) {
		t.Parallel()
		a, dbMock := setupAPI(t)

		insertQuery := regexp.QuoteMeta(`INSERT INTO users (id, name, username, preferred_timezone, created_at) VALUES ($1, $2, $3, $4, $5)`)
		dbMock.ExpectExec(insertQuery).
			WithArgs(sqlmock.AnyArg(), "Budi", "budi", "Asia/Jakarta", sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(1, 1))

		rec := serve(a, http.MethodPost, "/api/users", `{"name":" Budi ","username":"budi","preferred_timezone":"Asia/Jakarta"}`)

		require.NoError(t, dbMock.ExpectationsWereMet())
		assert.Equal(t, http.StatusCreated, rec.Code)

		res := decode(t, rec)
		created, ok := res.Response.(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "Budi", created["name"])
		assert.Equal(t, "budi", created["username"])
		assert.Equal(t, "Asia/Jakarta", created["preferred_timezone"])
		assert.NotEmpty(t, created["id"])
	})

	t.Run("create user invalid body", func(t *testing.T) {
		t.Parallel()
		a, _ := setupAPI(t)

		rec := serve(a, http.MethodPost, "/api/users", "invalid json")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("create user validation error", func(t *testing.T) {
		t.Parallel()
		a, _ := setupAPI(t)

		tests := []struct {
			name  string
			body  string
			field string
		}{
			{"missing name", `{"name":"","username":"budi","preferred_timezone":"Asia/Jakarta"}`, "name"},
			{"missing username", `{"name":"Budi","username":"  ","preferred_timezone":"Asia/Jakarta"}`, "username"},
			{"missing timezone", `{"name":"Budi","username":"budi"}`, "preferred_timezone"},
			{"unknown timezone", `{"name":"Budi","username":"budi","preferred_timezone":"Mars/Olympus"}`, "preferred_timezone"},
			{"local timezone", `{"name":"Budi","username":"budi","preferred_timezone":"Local"}`, "preferred_timezone"},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				rec := serve(a, http.MethodPost, "/api/users", tt.body)

				assert.Equal(t, http.StatusBadRequest, rec.Code)
				res := decode(t, rec)
				assert.Contains(t, res.Response, tt.field)
			})
		}
	})

	t.Run("create user username taken", func(t *testing.T) {
		t.Parallel()
		a, dbMock := setupAPI(t)

		dbMock.ExpectExec(`INSERT INTO users`).
			WillReturnError(&pq.Error{Code: "23505"})

		rec := serve(a, http.MethodPost, "/api/users", `{"name":"Budi","username":"budi","preferred_timezone":"Asia/Jakarta"}`)

		require.NoError(t, dbMock.ExpectationsWereMet())
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("create user db error", func(t *testing.T) {
		t.Parallel()
		a, dbMock := setupAPI(t)

		dbMock.ExpectExec(`INSERT INTO users`).
			WillReturnError(assert.AnError)

		rec := serve(a, http.MethodPost, "/api/users", `{"name":"Budi","username":"budi","preferred_timezone":"Asia/Jakarta"}`)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		res := decode(t, rec)
		assert.Equal(t, "internal server error", res.Response)
	})

	t.Run("get user", func(t *testing.T) {
		t.Parallel()
		a, dbMock := setupAPI(t)

		userID := uuid.New()
		dbMock.ExpectQuery(getUserQuery).
			WithArgs(userID).
			WillReturnRows(sqlmock.NewRows(userColumns).
				AddRow(userID.String(), "Bob", "bob", "America/Los_Angeles"))

		rec := serve(a, http.MethodGet, "/api/users/"+userID.String(), "")

		require.NoError(t, dbMock.ExpectationsWereMet())
		assert.Equal(t, http.StatusOK, rec.Code)

		res := decode(t, rec)
		u, ok := res.Response.(map[string]any)
		require.True(t, ok)
		assert.Equal(t, userID.String(), u["id"])
		assert.Equal(t, "Bob", u["name"])
		assert.Equal(t, "America/Los_Angeles", u["preferred_timezone"])
	})

	t.Run("get user not found", func(t *testing.T) {
		t.Parallel()
		a, dbMock := setupAPI(t)

		userID := uuid.New()
		dbMock.ExpectQuery(getUserQuery).
			WithArgs(userID).
			WillReturnRows(sqlmock.NewRows(userColumns))

		rec := serve(a, http.MethodGet, "/api/users/"+userID.String(), "")

		require.NoError(t, dbMock.ExpectationsWereMet())
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("get user invalid id", func(t *testing.T) {
		t.Parallel()
		a, _ := setupAPI(t)

		rec := serve(a, http.MethodGet, "/api/users/not-a-uuid", "")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("get users", func(t *testing.T) {
		t.Parallel()
		a, dbMock := setupAPI(t)

		selectQuery := regexp.QuoteMeta(`SELECT id, name, username, COALESCE(preferred_timezone, '') FROM users ORDER BY name`)
		dbMock.ExpectQuery(selectQuery).
			WillReturnRows(sqlmock.NewRows(userColumns).
				AddRow(uuid.NewString(), "Alice", "alice", "Europe/London").
				AddRow(uuid.NewString(), "Bob", "bob", ""))

		rec := serve(a, http.MethodGet, "/api/users", "")

		require.NoError(t, dbMock.ExpectationsWereMet())
		assert.Equal(t, http.StatusOK, rec.Code)

		res := decode(t, rec)
		respMap, ok := res.Response.(map[string]any)
		require.True(t, ok)
		users, ok := respMap["users"].([]any)
		require.True(t, ok)
		assert.Len(t, users, 2)
	})

	t.Run("get users empty", func(t *testing.T) {
		t.Parallel()
		a, dbMock := setupAPI(t)

		dbMock.ExpectQuery(`SELECT (.+) FROM users ORDER BY name`).
			WillReturnRows(sqlmock.NewRows(userColumns))

		rec := serve(a, http.MethodGet, "/api/users", "")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"status":200,"response":{"users":[]}}`, rec.Body.String())
	})
}
