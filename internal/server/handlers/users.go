package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/iudanet/fortress/internal/models"
	"github.com/iudanet/fortress/internal/server/directory"
	"github.com/iudanet/fortress/internal/validation"
	"github.com/iudanet/fortress/pkg/api"
)

// UserHandler serves the /users CRUD endpoints.
type UserHandler struct {
	logger    *slog.Logger
	directory *directory.Directory
}

// NewUserHandler creates the users handler.
func NewUserHandler(logger *slog.Logger, dir *directory.Directory) *UserHandler {
	return &UserHandler{
		logger:    logger,
		directory: dir,
	}
}

// List handles GET /users?length=&offset=.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	length, err := optionalIntQuery(r, "length")
	if err != nil {
		sendError(h.logger, w, http.StatusBadRequest, err.Error())
		return
	}
	offset, err := optionalIntQuery(r, "offset")
	if err != nil {
		sendError(h.logger, w, http.StatusBadRequest, err.Error())
		return
	}

	users := h.directory.List(length, offset)
	sendJSON(h.logger, w, userResponses(users), http.StatusOK)
}

// Get handles GET /users/{id}.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	user, err := h.directory.GetByID(id)
	if err != nil {
		sendDomainError(h.logger, w, err)
		return
	}
	sendJSON(h.logger, w, userResponse(user), http.StatusOK)
}

// Create handles POST /users.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req api.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(h.logger, w, http.StatusBadRequest, "invalid request body")
		return
	}

	input, err := createInput(req)
	if err != nil {
		sendError(h.logger, w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.directory.Create(r.Context(), input)
	if err != nil {
		sendDomainError(h.logger, w, err)
		return
	}
	sendJSON(h.logger, w, userResponse(user), http.StatusCreated)
}

// Replace handles PUT /users/{id}: full update, all present fields applied.
func (h *UserHandler) Replace(w http.ResponseWriter, r *http.Request) {
	h.applyUpdate(w, r, h.directory.Replace)
}

// Patch handles PATCH /users/{id}: partial update, only present fields applied.
func (h *UserHandler) Patch(w http.ResponseWriter, r *http.Request) {
	h.applyUpdate(w, r, h.directory.Patch)
}

// Delete handles DELETE /users/{id}.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	if err := h.directory.Delete(r.Context(), id); err != nil {
		sendDomainError(h.logger, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// applyUpdate is the shared body of Replace and Patch; the two differ only
// in which directory operation they call.
func (h *UserHandler) applyUpdate(
	w http.ResponseWriter,
	r *http.Request,
	apply func(ctx context.Context, id int, upd directory.Update, callerRole models.Role, callerID int) (models.User, error),
) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	info, ok := GetAuthInfo(r.Context())
	if !ok {
		sendUnauthorized(h.logger, w, "not authenticated")
		return
	}

	var req api.UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(h.logger, w, http.StatusBadRequest, "invalid request body")
		return
	}

	upd, err := updateInput(req)
	if err != nil {
		sendError(h.logger, w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := apply(r.Context(), id, upd, info.Role, info.UserID)
	if err != nil {
		sendDomainError(h.logger, w, err)
		return
	}
	sendJSON(h.logger, w, userResponse(user), http.StatusOK)
}

// pathID parses the {id} path segment; a non-numeric id is a 400.
func (h *UserHandler) pathID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		sendError(h.logger, w, http.StatusBadRequest, "invalid user id")
		return 0, false
	}
	return id, true
}

// optionalIntQuery parses an optional integer query parameter.
func optionalIntQuery(r *http.Request, name string) (*int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid %s parameter %q", name, raw)
	}
	return &v, nil
}

// createInput validates a create request and fills in the defaults
// (gender "male", role "user").
func createInput(req api.CreateUserRequest) (directory.CreateInput, error) {
	if err := validation.ValidateName(req.Name); err != nil {
		return directory.CreateInput{}, err
	}
	if err := validation.ValidateAge(req.Age); err != nil {
		return directory.CreateInput{}, err
	}
	if err := validation.ValidateEmail(req.Email); err != nil {
		return directory.CreateInput{}, err
	}
	if err := validation.ValidatePassword(req.Password); err != nil {
		return directory.CreateInput{}, err
	}

	gender := models.GenderMale
	if req.Gender != "" {
		var err error
		gender, err = models.ParseGender(req.Gender)
		if err != nil {
			return directory.CreateInput{}, err
		}
	}

	role := models.RoleUser
	if req.Role != "" {
		var err error
		role, err = models.ParseRole(req.Role)
		if err != nil {
			return directory.CreateInput{}, err
		}
	}

	return directory.CreateInput{
		Name:     req.Name,
		Age:      req.Age,
		Gender:   gender,
		Email:    req.Email,
		Password: req.Password,
		Role:     role,
	}, nil
}

// updateInput validates the present fields of an update request.
func updateInput(req api.UpdateUserRequest) (directory.Update, error) {
	upd := directory.Update{
		Name:     req.Name,
		Age:      req.Age,
		Email:    req.Email,
		Password: req.Password,
	}

	if req.Name != nil {
		if err := validation.ValidateName(*req.Name); err != nil {
			return directory.Update{}, err
		}
	}
	if req.Age != nil {
		if err := validation.ValidateAge(*req.Age); err != nil {
			return directory.Update{}, err
		}
	}
	if req.Email != nil {
		if err := validation.ValidateEmail(*req.Email); err != nil {
			return directory.Update{}, err
		}
	}
	if req.Password != nil {
		if err := validation.ValidatePassword(*req.Password); err != nil {
			return directory.Update{}, err
		}
	}
	if req.Gender != nil {
		gender, err := models.ParseGender(*req.Gender)
		if err != nil {
			return directory.Update{}, err
		}
		upd.Gender = &gender
	}
	if req.Role != nil {
		role, err := models.ParseRole(*req.Role)
		if err != nil {
			return directory.Update{}, err
		}
		upd.Role = &role
	}

	return upd, nil
}
