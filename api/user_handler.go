package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/quillhub/quillhub-backend/authz"
	"github.com/quillhub/quillhub-backend/database"
	"github.com/quillhub/quillhub-backend/errs"
	"github.com/quillhub/quillhub-backend/models"
)

type userHandler struct {
	responder Responder
	logger    zerolog.Logger
	userRepo  *database.UserRepo
	blogRepo  *database.BlogRepo
	tokenRepo *database.TokenRepo
}

func newUserHandler(userRepo *database.UserRepo, blogRepo *database.BlogRepo, tokenRepo *database.TokenRepo) userHandler {
	logger := log.With().Str("handlerName", "userHandler").Logger()

	return userHandler{
		responder: NewResponder(logger),
		logger:    logger,
		userRepo:  userRepo,
		blogRepo:  blogRepo,
		tokenRepo: tokenRepo,
	}
}

// DefaultBlogTitle is the title given to the blog provisioned for a new
// user.
func DefaultBlogTitle(username string) string {
	return fmt.Sprintf("%s's Blog", username)
}

type registerRequest struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirm"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type authResponse struct {
	User    *models.User `json:"user"`
	Token   string       `json:"token"`
	Message string       `json:"message"`
}

// register creates a user, provisions their blog, and issues a token in one
// response.
func (h userHandler) register() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.logger.Error().Err(err).Msg("Failed to decode registration request body")
			h.responder.WriteError(w, errs.NewBadRequestError("malformed request body"))
			return
		}

		fieldErrors := map[string]string{}
		if req.Username == "" {
			fieldErrors["username"] = "this field is required"
		}
		if req.Email == "" {
			fieldErrors["email"] = "this field is required"
		}
		if req.Password == "" {
			fieldErrors["password"] = "this field is required"
		} else if len(req.Password) < 8 {
			fieldErrors["password"] = "password must be at least 8 characters"
		}
		if req.Password != req.PasswordConfirm {
			fieldErrors["password_confirm"] = "passwords do not match"
		}

		if len(fieldErrors) == 0 {
			existing, err := h.userRepo.FindByUsername(req.Username)
			if err != nil {
				h.responder.WriteError(w, wrapDatabaseError("find user", "user", err))
				return
			}
			if existing != nil {
				fieldErrors["username"] = "a user with that username already exists"
			}

			existing, err = h.userRepo.FindByEmail(req.Email)
			if err != nil {
				h.responder.WriteError(w, wrapDatabaseError("find user", "user", err))
				return
			}
			if existing != nil {
				fieldErrors["email"] = "a user with that email already exists"
			}
		}

		if len(fieldErrors) > 0 {
			h.responder.WriteError(w, errs.NewValidationError(fieldErrors))
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			h.responder.WriteError(w, errs.NewInternalError("failed to hash password"))
			return
		}

		user := models.User{
			Username:     req.Username,
			Email:        req.Email,
			PasswordHash: string(hash),
			FirstName:    req.FirstName,
			LastName:     req.LastName,
			IsActive:     true,
		}
		if err := h.userRepo.Add(&user); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create user", "user", err))
			return
		}

		// Every new user gets a blog
		blog := models.Blog{
			UserID: user.ID,
			Title:  DefaultBlogTitle(user.Username),
		}
		if err := h.blogRepo.Add(&blog); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create blog", "blog", err))
			return
		}

		token, err := h.tokenRepo.GetOrCreate(user.ID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("issue auth token", "auth_token", err))
			return
		}

		h.responder.WriteJSONStatus(w, http.StatusCreated, authResponse{
			User:    &user,
			Token:   token.Key,
			Message: "User registered successfully",
		})
	}
}

// login verifies credentials and returns the user's token, reusing an
// existing one when present.
func (h userHandler) login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.logger.Error().Err(err).Msg("Failed to decode login request body")
			h.responder.WriteError(w, errs.NewBadRequestError("malformed request body"))
			return
		}

		if req.Username == "" || req.Password == "" {
			h.responder.WriteError(w, errs.NewInvalidCredentialsError())
			return
		}

		user, err := h.userRepo.FindByUsername(req.Username)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find user", "user", err))
			return
		}
		if user == nil {
			h.responder.WriteError(w, errs.NewInvalidCredentialsError())
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
			h.responder.WriteError(w, errs.NewInvalidCredentialsError())
			return
		}

		if !user.IsActive {
			h.responder.WriteError(w, errs.NewInactiveAccountError())
			return
		}

		token, err := h.tokenRepo.GetOrCreate(user.ID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("issue auth token", "auth_token", err))
			return
		}

		h.responder.WriteJSON(w, authResponse{
			User:    user,
			Token:   token.Key,
			Message: "Login successful",
		})
	}
}

// listUsers returns the principal themselves, or every user for superusers.
func (h userHandler) listUsers() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal := ctxGetUser(r.Context())
		if principal == nil {
			h.responder.WriteError(w, errs.Unauthorized)
			return
		}

		var users []*models.User
		if principal.IsSuperuser {
			all, err := h.userRepo.FindAll()
			if err != nil {
				h.responder.WriteError(w, wrapDatabaseError("find users", "users", err))
				return
			}
			users = all
		} else {
			users = []*models.User{principal}
		}

		p := parsePage(r)
		start := p.offset()
		if start > len(users) {
			start = len(users)
		}
		end := start + p.size
		if end > len(users) {
			end = len(users)
		}

		h.responder.WriteJSON(w, newPaginatedResponse(r, p, int64(len(users)), users[start:end]))
	}
}

// getUser returns a single account. Principals may read their own record,
// superusers anyone's.
func (h userHandler) getUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal := ctxGetUser(r.Context())

		userID, err := uuid.Parse(chi.URLParam(r, "userID"))
		if err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("invalid userID"))
			return
		}

		user, err := h.userRepo.FindByID(userID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find user", "user", err))
			return
		}
		if user == nil {
			h.responder.WriteError(w, errs.NewNotFound("user"))
			return
		}

		if !authz.Allowed(principal, authz.ActionRead, authz.KindUser, user) {
			h.responder.WriteError(w, errs.NewForbiddenError("you may only view your own account"))
			return
		}

		h.responder.WriteJSON(w, user)
	}
}
