package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/tidwall/gjson"

	"github.com/naveenspark/mbadmin/pkg/client"
	"github.com/naveenspark/mbadmin/pkg/domain"
)

// CodedError is returned by CreateUser. Code carries the HTTP status of the
// failed request, or the backend's error code when there was no status.
type CodedError struct {
	Code    string
	Message string
	Err     error
}

func (e *CodedError) Error() string {
	if e.Code == "" {
		return e.Message
	}
	return fmt.Sprintf("%s (code %s)", e.Message, e.Code)
}

func (e *CodedError) Unwrap() error { return e.Err }

// UserService is the typed wrapper around /users.
type UserService struct {
	gw Gateway
}

// NewUserService creates a UserService.
func NewUserService(gw Gateway) *UserService {
	return &UserService{gw: gw}
}

// GetUsers lists every user. A payload that is not a list yields no users.
func (s *UserService) GetUsers(ctx context.Context) ([]domain.User, error) {
	var raw json.RawMessage
	if err := s.gw.Get(ctx, "/users", &raw); err != nil {
		return nil, err
	}
	payload := unwrapData(raw)
	if !payload.IsArray() {
		return []domain.User{}, nil
	}
	var users []domain.User
	if err := json.Unmarshal([]byte(payload.Raw), &users); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}
	return users, nil
}

// GetUser fetches one user.
func (s *UserService) GetUser(ctx context.Context, id int) (*domain.User, error) {
	var raw json.RawMessage
	if err := s.gw.Get(ctx, userPath(id), &raw); err != nil {
		return nil, err
	}
	return decodeUser(raw)
}

// CreateUser creates a user. Failures come back as *CodedError wrapping the
// gateway error.
func (s *UserService) CreateUser(ctx context.Context, req domain.CreateUserRequest) (*domain.User, error) {
	var raw json.RawMessage
	if err := s.gw.Post(ctx, "/users", req, &raw); err != nil {
		return nil, codedError(err)
	}
	return decodeUser(raw)
}

// UpdateUser applies a partial update.
func (s *UserService) UpdateUser(ctx context.Context, id int, req domain.UpdateUserRequest) (*domain.User, error) {
	var raw json.RawMessage
	if err := s.gw.Put(ctx, userPath(id), req, &raw); err != nil {
		return nil, err
	}
	return decodeUser(raw)
}

// DeleteUser removes a user.
func (s *UserService) DeleteUser(ctx context.Context, id int) error {
	return s.gw.Delete(ctx, userPath(id), nil)
}

func userPath(id int) string {
	return "/users/" + strconv.Itoa(id)
}

// unwrapData accepts both {"success":..,"data":X} and a bare X.
func unwrapData(raw []byte) gjson.Result {
	res := gjson.ParseBytes(raw)
	if res.IsObject() {
		if data := res.Get("data"); data.Exists() && data.Type != gjson.Null {
			return data
		}
	}
	return res
}

func decodeUser(raw []byte) (*domain.User, error) {
	payload := unwrapData(raw)
	if !payload.IsObject() {
		return nil, fmt.Errorf("decode user: unexpected payload %q", payload.Raw)
	}
	var u domain.User
	if err := json.Unmarshal([]byte(payload.Raw), &u); err != nil {
		return nil, fmt.Errorf("decode user: %w", err)
	}
	return &u, nil
}

func codedError(err error) *CodedError {
	ce := &CodedError{Message: client.Message(err), Err: err}
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		ce.Code = apiErr.Code
		if apiErr.StatusCode != 0 {
			ce.Code = strconv.Itoa(apiErr.StatusCode)
		}
	}
	if ce.Message == "" {
		ce.Message = "Failed to create user"
	}
	return ce
}
