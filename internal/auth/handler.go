package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/mail"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/arnav/expense-tracker/internal/models"
)

// MinPasswordLength is enforced server-side, not only in the client form.
const MinPasswordLength = 6

// UserStore defines the interface for user persistence.
type UserStore interface {
	CreateUser(ctx context.Context, name, email, hashedPw string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

// Handler holds auth-related HTTP handlers.
type Handler struct {
	users  UserStore
	tokens *TokenManager
	log    *logrus.Logger
}

func NewHandler(users UserStore, tokens *TokenManager, log *logrus.Logger) *Handler {
	return &Handler{users: users, tokens: tokens, log: log}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}

// Register creates a new user and returns a signed token for it.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	if req.Name == "" || req.Email == "" || req.Password == "" {
		writeMessage(w, http.StatusBadRequest, "name, email, and password are required")
		return
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid email address")
		return
	}
	if len(req.Password) < MinPasswordLength {
		writeMessage(w, http.StatusBadRequest, "password must be at least 6 characters")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "internal error")
		return
	}

	user, err := h.users.CreateUser(r.Context(), req.Name, req.Email, string(hashed))
	if err != nil {
		if errors.Is(err, models.ErrDuplicateEmail) {
			writeMessage(w, http.StatusBadRequest, models.ErrDuplicateEmail.Error())
			return
		}
		h.log.WithError(err).Error("create user")
		writeMessage(w, http.StatusInternalServerError, "registration failed")
		return
	}

	token, err := h.tokens.Issue(user.ID)
	if err != nil {
		h.log.WithError(err).Error("issue token")
		writeMessage(w, http.StatusInternalServerError, "registration failed")
		return
	}

	writeJSON(w, http.StatusCreated, models.TokenResponse{Token: token})
}

// Login verifies credentials and returns a signed token. Unknown email and
// wrong password produce the identical response.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.users.GetUserByEmail(r.Context(), strings.TrimSpace(req.Email))
	if err != nil || user == nil {
		if err != nil && !errors.Is(err, models.ErrNotFound) {
			h.log.WithError(err).Error("get user by email")
		}
		writeMessage(w, http.StatusUnauthorized, models.ErrInvalidCredentials.Error())
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		writeMessage(w, http.StatusUnauthorized, models.ErrInvalidCredentials.Error())
		return
	}

	token, err := h.tokens.Issue(user.ID)
	if err != nil {
		h.log.WithError(err).Error("issue token")
		writeMessage(w, http.StatusInternalServerError, "login failed")
		return
	}

	writeJSON(w, http.StatusOK, models.TokenResponse{Token: token})
}

// Me returns the authenticated caller's profile. A token that outlives its
// user decodes fine but resolves to nothing here.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	userID := UserID(r.Context())

	user, err := h.users.GetUserByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			writeMessage(w, http.StatusNotFound, "user not found")
			return
		}
		h.log.WithError(err).Error("get user by id")
		writeMessage(w, http.StatusInternalServerError, "database error")
		return
	}

	writeJSON(w, http.StatusOK, user)
}
