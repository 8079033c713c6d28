package api

import (
	"appointments-system/user"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type createUserRequest struct {
	Name     string `json:"name" validate:"required,max=128"`
	Username string `json:"username" validate:"required,max=64"`
	Timezone string `json:"preferred_timezone" validate:"required,timezone"`
}

func (a *API) createUser(w http.ResponseWriter, r *http.Request) {
	var payload createUserRequest

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		a.Response(w, http.StatusBadRequest, "invalid request body")
		return
	}
	payload.Name = strings.TrimSpace(payload.Name)
	payload.Username = strings.TrimSpace(payload.Username)
	payload.Timezone = strings.TrimSpace(payload.Timezone)

	if err := a.validate.Struct(payload); err != nil {
		a.Response(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	userAccessor := user.NewAccessor(a.db)

	created, err := userAccessor.InsertUser(r.Context(), user.User{
		Name:     payload.Name,
		Username: payload.Username,
		Timezone: payload.Timezone,
	})
	if err != nil {
		if errors.Is(err, user.ErrUsernameTaken) {
			a.Response(w, http.StatusConflict, err.Error())
			return
		}
		a.internalError(w, r, "insert user", err)
		return
	}
	a.log.Info("user registered", "user_id", created.ID, "timezone", created.Timezone)
	a.Response(w, http.StatusCreated, created)
}

func (a *API) getUser(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if id == "" {
		a.Response(w, http.StatusBadRequest, "user ID is required")
		return
	}

	parsedID, err := uuid.Parse(id)
	if err != nil {
		a.Response(w, http.StatusBadRequest, "invalid user ID")
		return
	}

	userAccessor := user.NewAccessor(a.db)
	u, err := userAccessor.GetUser(r.Context(), parsedID)
	if err != nil {
		a.internalError(w, r, "get user", err)
		return
	}
	if u == nil {
		a.Response(w, http.StatusNotFound, "user not found")
		return
	}

	a.Response(w, http.StatusOK, u)
}

type getUsersResponse struct {
	Users []user.User `json:"users"`
}

func (a *API) getUsers(w http.ResponseWriter, r *http.Request) {
	userAccessor := user.NewAccessor(a.db)
	users, err := userAccessor.GetUsers(r.Context())
	if err != nil {
		a.internalError(w, r, "get users", err)
		return
	}
	response := getUsersResponse{
		Users: users,
	}
	a.Response(w, http.StatusOK, response)
}

// internalError logs err with the request route and hides it from the client.
func (a *API) internalError(w http.ResponseWriter, r *http.Request, op string, err error) {
	a.log.Error(op, "method", r.Method, "path", r.URL.Path, "error", err)
	a.Response(w, http.StatusInternalServerError, "internal server error")
}
