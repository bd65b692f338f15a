package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/arnav/expense-tracker/internal/models"
)

// fakeUserStore keeps users in a map keyed by email.
type fakeUserStore struct {
	byEmail map[string]*models.User
	nextID  int
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{byEmail: make(map[string]*models.User)}
}

func (s *fakeUserStore) CreateUser(_ context.Context, name, email, hashedPw string) (*models.User, error) {
	if _, exists := s.byEmail[email]; exists {
		return nil, models.ErrDuplicateEmail
	}
	s.nextID++
	u := &models.User{
		ID:        fmt.Sprintf("user-%d", s.nextID),
		Name:      name,
		Email:     email,
		Password:  hashedPw,
		CreatedAt: time.Now(),
	}
	s.byEmail[email] = u
	return u, nil
}

func (s *fakeUserStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	u, ok := s.byEmail[email]
	if !ok {
		return nil, models.ErrNotFound
	}
	return u, nil
}

func (s *fakeUserStore) GetUserByID(_ context.Context, id string) (*models.User, error) {
	for _, u := range s.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, models.ErrNotFound
}

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

func newTestHandler() (*Handler, *fakeUserStore, *TokenManager) {
	users := newFakeUserStore()
	tokens := NewTokenManager("test-secret", time.Hour)
	return NewHandler(users, tokens, testLogger()), users, tokens
}

func postJSON(handler http.HandlerFunc, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestRegisterReturnsUsableToken(t *testing.T) {
	h, users, tokens := newTestHandler()

	rec := postJSON(h.Register, `{"name":"Asha","email":"asha@example.com","password":"secret1"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp models.TokenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)

	userID, err := tokens.Verify(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, users.byEmail["asha@example.com"].ID, userID)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	h, _, _ := newTestHandler()

	rec := postJSON(h.Register, `{"name":"Asha","email":"asha@example.com","password":"secret1"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = postJSON(h.Register, `{"name":"Other","email":"asha@example.com","password":"secret2"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "email already registered")
}

func TestRegisterValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing name", `{"email":"a@example.com","password":"secret1"}`},
		{"missing email", `{"name":"A","password":"secret1"}`},
		{"missing password", `{"name":"A","email":"a@example.com"}`},
		{"malformed email", `{"name":"A","email":"not-an-email","password":"secret1"}`},
		{"short password", `{"name":"A","email":"a@example.com","password":"12345"}`},
		{"bad json", `{`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _, _ := newTestHandler()
			rec := postJSON(h.Register, tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestRegisterStoresHashedPassword(t *testing.T) {
	h, users, _ := newTestHandler()

	rec := postJSON(h.Register, `{"name":"Asha","email":"asha@example.com","password":"secret1"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	stored := users.byEmail["asha@example.com"].Password
	assert.NotEqual(t, "secret1", stored)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored), []byte("secret1")))
}

func TestLoginSuccess(t *testing.T) {
	h, _, tokens := newTestHandler()

	rec := postJSON(h.Register, `{"name":"Asha","email":"asha@example.com","password":"secret1"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = postJSON(h.Login, `{"email":"asha@example.com","password":"secret1"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.TokenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	_, err := tokens.Verify(resp.Token)
	assert.NoError(t, err)
}

func TestMe(t *testing.T) {
	h, users, _ := newTestHandler()

	rec := postJSON(h.Register, `{"name":"Asha","email":"asha@example.com","password":"secret1"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	userID := users.byEmail["asha@example.com"].ID

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(WithUserID(req.Context(), userID))
	rec = httptest.NewRecorder()
	h.Me(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var got models.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "Asha", got.Name)
	assert.Equal(t, "asha@example.com", got.Email)
	assert.NotContains(t, rec.Body.String(), "secret1")
}

func TestMeUnknownUser(t *testing.T) {
	h, _, _ := newTestHandler()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(WithUserID(req.Context(), "ghost"))
	rec := httptest.NewRecorder()
	h.Me(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	h, _, _ := newTestHandler()

	rec := postJSON(h.Register, `{"name":"Asha","email":"asha@example.com","password":"secret1"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	wrongPassword := postJSON(h.Login, `{"email":"asha@example.com","password":"wrong-pw"}`)
	unknownEmail := postJSON(h.Login, `{"email":"nobody@example.com","password":"secret1"}`)

	assert.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
	assert.Equal(t, http.StatusUnauthorized, unknownEmail.Code)
	assert.Equal(t, wrongPassword.Body.String(), unknownEmail.Body.String(),
		"wrong password and unknown email must produce identical responses")
}
