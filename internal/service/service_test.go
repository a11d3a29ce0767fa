package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naveenspark/mbadmin/internal/storage"
	"github.com/naveenspark/mbadmin/pkg/client"
	"github.com/naveenspark/mbadmin/pkg/domain"
)

func newTestServices(t *testing.T, h http.HandlerFunc) (*AuthService, *UserService, *CredentialStore, *client.Client) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	creds := NewCredentialStore(storage.NewMemory())
	c := client.New(srv.URL, client.WithCredentials(creds))
	return NewAuthService(c, creds, c.SessionInvalidated(), zerolog.Nop()), NewUserService(c), creds, c
}

func TestLogin(t *testing.T) {
	auth, _, _, _ := newTestServices(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/login", r.URL.Path)
		var req domain.LoginRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req.Password != "secret1" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"message":"Invalid credentials"}`)) //nolint:errcheck
			return
		}
		json.NewEncoder(w).Encode(domain.AuthResponse{ //nolint:errcheck
			Success:     true,
			AccessToken: "tok",
			UserData:    domain.UserData{ID: 1, Email: req.Email},
		})
	})

	resp, err := auth.Login(context.Background(), "ada@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "tok", resp.AccessToken)
	assert.Equal(t, "ada@example.com", resp.UserData.Email)

	_, err = auth.Login(context.Background(), "ada@example.com", "nope")
	require.Error(t, err)
	assert.True(t, client.IsUnauthorized(err))
	assert.Equal(t, "Invalid credentials", client.Message(err))
}

func TestStoreAndClearAuthData(t *testing.T) {
	auth, _, creds, c := newTestServices(t, func(w http.ResponseWriter, _ *http.Request) {})
	fired := 0
	c.SessionInvalidated().Subscribe(func() { fired++ })

	require.NoError(t, auth.StoreAuthData("tok", domain.UserData{ID: 3, FirstName: "Ada"}))
	assert.True(t, auth.IsAuthenticated())
	assert.Equal(t, "tok", creds.Token())

	user, err := auth.GetStoredUserData()
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "Ada", user.FirstName)

	require.NoError(t, auth.Logout())
	assert.False(t, auth.IsAuthenticated())
	user, err = auth.GetStoredUserData()
	require.NoError(t, err)
	assert.Nil(t, user)
	assert.Equal(t, 1, fired)
}

func TestGatewayUnauthorizedClearsStoredCredentials(t *testing.T) {
	auth, users, _, _ := newTestServices(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	require.NoError(t, auth.StoreAuthData("stale", domain.UserData{ID: 1}))

	_, err := users.GetUsers(context.Background())
	assert.True(t, client.IsUnauthorized(err))
	assert.False(t, auth.IsAuthenticated())
}

func TestGetUsers_Envelope(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{"bare list", `[{"id":1},{"id":2}]`, 2},
		{"envelope", `{"success":true,"message":"ok","data":[{"id":1}]}`, 1},
		{"null data", `{"success":true,"data":null}`, 0},
		{"not a list", `{"success":true,"data":{"id":1}}`, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, users, _, _ := newTestServices(t, func(w http.ResponseWriter, _ *http.Request) {
				w.Write([]byte(tt.body)) //nolint:errcheck
			})
			got, err := users.GetUsers(context.Background())
			require.NoError(t, err)
			assert.Len(t, got, tt.want)
		})
	}
}

func TestGetUser(t *testing.T) {
	_, users, _, _ := newTestServices(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users/42", r.URL.Path)
		w.Write([]byte(`{"data":{"id":42,"firstName":"Ada","createdDate":"2024-03-01T10:00:00Z"}}`)) //nolint:errcheck
	})
	u, err := users.GetUser(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, 42, u.ID)
	assert.Equal(t, 2024, u.CreatedDate.Year())
}

func TestCreateUser_WrapsFailureWithCode(t *testing.T) {
	_, users, _, _ := newTestServices(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"message":"Email already exists","code":"DUPLICATE"}`)) //nolint:errcheck
	})
	_, err := users.CreateUser(context.Background(), domain.CreateUserRequest{Email: "a@b.co"})
	var coded *CodedError
	require.True(t, errors.As(err, &coded))
	assert.Equal(t, "409", coded.Code)
	assert.Equal(t, "Email already exists", coded.Message)
	assert.True(t, client.IsStatus(err, http.StatusConflict))
}

func TestCreateUser_TransportFailure(t *testing.T) {
	creds := NewCredentialStore(storage.NewMemory())
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()
	users := NewUserService(client.New(url, client.WithCredentials(creds)))

	_, err := users.CreateUser(context.Background(), domain.CreateUserRequest{})
	var coded *CodedError
	require.True(t, errors.As(err, &coded))
	assert.Empty(t, coded.Code)
	assert.True(t, client.IsTransport(err))
}

func TestUpdateUser_SendsOnlyPresentFields(t *testing.T) {
	_, users, _, _ := newTestServices(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, map[string]any{"lastName": "Byron"}, body)
		w.Write([]byte(`{"id":5,"lastName":"Byron","createdDate":"2024-03-01T10:00:00Z"}`)) //nolint:errcheck
	})
	u, err := users.UpdateUser(context.Background(), 5, domain.UpdateUserRequest{LastName: domain.Some("Byron")})
	require.NoError(t, err)
	assert.Equal(t, "Byron", u.LastName)
}

func TestDeleteUser_PropagatesFailureUnchanged(t *testing.T) {
	_, users, _, _ := newTestServices(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message":"User not found"}`)) //nolint:errcheck
	})
	err := users.DeleteUser(context.Background(), 9)
	var apiErr *client.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "User not found", apiErr.Message)
}

func TestTokenExpiry(t *testing.T) {
	exp := time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC)
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "1",
		"exp": exp.Unix(),
	}).SignedString([]byte("irrelevant"))
	require.NoError(t, err)

	got, ok := TokenExpiry(tok)
	require.True(t, ok)
	assert.True(t, got.Equal(exp))

	_, ok = TokenExpiry("not-a-jwt")
	assert.False(t, ok)
	_, ok = TokenExpiry("")
	assert.False(t, ok)
}
