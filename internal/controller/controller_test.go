package controller

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naveenspark/mbadmin/internal/service"
	"github.com/naveenspark/mbadmin/internal/storage"
	"github.com/naveenspark/mbadmin/internal/store"
	"github.com/naveenspark/mbadmin/pkg/client"
	"github.com/naveenspark/mbadmin/pkg/domain"
)

type toast struct {
	severity string
	title    string
	message  string
}

type recorder struct{ toasts []toast }

func (r *recorder) Success(title, message string) string {
	r.toasts = append(r.toasts, toast{"success", title, message})
	return ""
}

func (r *recorder) Error(title, message string) string {
	r.toasts = append(r.toasts, toast{"error", title, message})
	return ""
}

type fakeUsers struct {
	users   []domain.User
	err     error
	created *domain.CreateUserRequest
	updated *domain.UpdateUserRequest
	deleted int
}

func (f *fakeUsers) GetUsers(context.Context) ([]domain.User, error) { return f.users, f.err }

func (f *fakeUsers) GetUser(_ context.Context, id int) (*domain.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &domain.User{ID: id}, nil
}

func (f *fakeUsers) CreateUser(_ context.Context, req domain.CreateUserRequest) (*domain.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.created = &req
	return &domain.User{ID: 99, Email: req.Email}, nil
}

func (f *fakeUsers) UpdateUser(_ context.Context, id int, req domain.UpdateUserRequest) (*domain.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.updated = &req
	return &domain.User{ID: id}, nil
}

func (f *fakeUsers) DeleteUser(_ context.Context, id int) error {
	if f.err != nil {
		return f.err
	}
	f.deleted = id
	return nil
}

var now = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func validCreate() domain.CreateUserRequest {
	return domain.CreateUserRequest{
		FirstName:      "Ada",
		LastName:       "Lovelace",
		Email:          "ada@example.com",
		Password:       "secret1",
		ICNumber:       900101145678,
		ICTypeID:       1,
		GenderID:       2,
		RecordStatusID: 1,
	}
}

func TestAnalyticsTrailingWindows(t *testing.T) {
	svc := &fakeUsers{users: []domain.User{
		{ID: 1, CreatedDate: now.Add(-time.Hour)},
		{ID: 2, CreatedDate: now.AddDate(0, 0, -40)},
	}}
	c := NewUserController(svc, &recorder{}, WithNow(func() time.Time { return now }))

	a, err := c.GetUserAnalytics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, a.TotalUsers)
	assert.Equal(t, 1, a.NewUsersLast7Days)
	assert.Equal(t, 1, a.NewUsersLast30Days)
}

func TestAnalyze(t *testing.T) {
	users := []domain.User{
		{GenderID: 2, IsVerified: true, CreatedDate: now.AddDate(0, 0, -7)},
		{GenderID: 1, CreatedDate: now.AddDate(0, 0, -8)},
		{GenderID: 2, IsVerified: true, CreatedDate: now.AddDate(0, 0, -30)},
		{GenderID: 7, CreatedDate: now.AddDate(0, 0, -31)},
		{GenderID: 1},
	}
	a := Analyze(users, now)
	assert.Equal(t, 5, a.TotalUsers)
	assert.Equal(t, 2, a.VerifiedUsers)
	assert.Equal(t, 3, a.UnverifiedUsers)
	assert.Equal(t, []domain.GenderCount{{GenderID: 2, Count: 2}, {GenderID: 1, Count: 2}, {GenderID: 7, Count: 1}}, a.GenderDistribution)
	assert.Equal(t, 1, a.NewUsersLast7Days, "the 7-day boundary is inclusive")
	assert.Equal(t, 3, a.NewUsersLast30Days)
}

func TestAnalyzeEmpty(t *testing.T) {
	a := Analyze(nil, now)
	assert.Equal(t, 0, a.TotalUsers)
	assert.NotNil(t, a.GenderDistribution)
	assert.Empty(t, a.GenderDistribution)
}

func TestRecentUsers(t *testing.T) {
	users := make([]domain.User, 8)
	for i := range users {
		users[i] = domain.User{ID: i + 1, CreatedDate: now.AddDate(0, 0, -i*3%8)}
	}
	got := RecentUsers(users, 0)
	require.Len(t, got, DefaultRecentLimit)
	for i := 1; i < len(got); i++ {
		assert.False(t, got[i].CreatedDate.After(got[i-1].CreatedDate), "not descending at %d", i)
	}
	assert.Equal(t, 1, users[0].ID, "input must not be reordered")

	assert.Len(t, RecentUsers(users[:2], 5), 2)
	assert.Len(t, RecentUsers(users, 3), 3)
}

func TestRecentUsersUndatedLast(t *testing.T) {
	users := []domain.User{
		{ID: 1},
		{ID: 2, CreatedDate: now.AddDate(-30, 0, 0)},
		{ID: 3, CreatedDate: now},
		{ID: 4},
	}
	got := RecentUsers(users, 4)
	ids := make([]int, len(got))
	for i, u := range got {
		ids[i] = u.ID
	}
	assert.Equal(t, []int{3, 2, 1, 4}, ids)
}

func TestGetRecentUsersReportsFailure(t *testing.T) {
	rec := &recorder{}
	want := &client.APIError{StatusCode: 500, Message: "db down"}
	c := NewUserController(&fakeUsers{err: want}, rec)

	_, err := c.GetRecentUsers(context.Background(), 5)
	assert.Same(t, want, err)
	require.Len(t, rec.toasts, 1)
	assert.Equal(t, toast{"error", "Failed to fetch recent users", "db down"}, rec.toasts[0])
}

func TestFailuresNotifyAndPropagate(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("")
	tests := []struct {
		name  string
		call  func(c *UserController) error
		title string
		msg   string
	}{
		{"list", func(c *UserController) error { _, err := c.GetUsers(ctx); return err }, "Failed to fetch users", "Unable to load users"},
		{"get", func(c *UserController) error { _, err := c.GetUser(ctx, 1); return err }, "Failed to fetch user", "Unable to load user details"},
		{"create", func(c *UserController) error { _, err := c.CreateUser(ctx, validCreate()); return err }, "Failed to create user", "Unable to create user"},
		{"update", func(c *UserController) error {
			_, err := c.UpdateUser(ctx, 1, domain.UpdateUserRequest{FirstName: domain.Some("A")})
			return err
		}, "Failed to update user", "Unable to update user"},
		{"delete", func(c *UserController) error { return c.DeleteUser(ctx, 1) }, "Failed to delete user", "Unable to delete user"},
		{"analytics", func(c *UserController) error { _, err := c.GetUserAnalytics(ctx); return err }, "Failed to fetch analytics", "Unable to load analytics"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recorder{}
			c := NewUserController(&fakeUsers{err: boom}, rec)
			err := tt.call(c)
			assert.Same(t, boom, err)
			require.Len(t, rec.toasts, 1)
			assert.Equal(t, toast{"error", tt.title, tt.msg}, rec.toasts[0])
		})
	}
}

func TestCRUDSuccessToasts(t *testing.T) {
	ctx := context.Background()
	rec := &recorder{}
	svc := &fakeUsers{}
	c := NewUserController(svc, rec)

	u, err := c.CreateUser(ctx, validCreate())
	require.NoError(t, err)
	assert.Equal(t, 99, u.ID)
	_, err = c.UpdateUser(ctx, 4, domain.UpdateUserRequest{LastName: domain.Some("Byron")})
	require.NoError(t, err)
	require.NoError(t, c.DeleteUser(ctx, 4))

	assert.Equal(t, 4, svc.deleted)
	assert.Equal(t, []toast{
		{"success", "User Created", "User has been successfully created"},
		{"success", "User Updated", "User has been successfully updated"},
		{"success", "User Deleted", "User has been successfully deleted"},
	}, rec.toasts)
}

func TestCreateRejectsInvalidDataBeforeNetwork(t *testing.T) {
	rec := &recorder{}
	svc := &fakeUsers{}
	c := NewUserController(svc, rec)

	req := validCreate()
	req.Email = "not-an-email"
	req.Password = "123"
	_, err := c.CreateUser(context.Background(), req)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{MsgInvalidEmail, MsgPasswordTooShort}, verr.Violations)
	assert.Nil(t, svc.created, "service must not be called")
	require.Len(t, rec.toasts, 1)
	assert.Equal(t, "error", rec.toasts[0].severity)
}

func TestValidateUserData(t *testing.T) {
	tests := []struct {
		name string
		req  domain.UpdateUserRequest
		want []string
	}{
		{"empty partial", domain.UpdateUserRequest{}, nil},
		{"blank first name", domain.UpdateUserRequest{FirstName: domain.Some("  ")}, []string{MsgFirstNameRequired}},
		{"blank last name", domain.UpdateUserRequest{LastName: domain.Some("")}, []string{MsgLastNameRequired}},
		{"bad email", domain.UpdateUserRequest{Email: domain.Some("a@b")}, []string{MsgInvalidEmail}},
		{"email with space", domain.UpdateUserRequest{Email: domain.Some("a b@c.de")}, []string{MsgInvalidEmail}},
		{"good email", domain.UpdateUserRequest{Email: domain.Some("a@b.de")}, nil},
		{"short password", domain.UpdateUserRequest{Password: domain.Some("12345")}, []string{MsgPasswordTooShort}},
		{"six char password", domain.UpdateUserRequest{Password: domain.Some("123456")}, nil},
		{"short multibyte password", domain.UpdateUserRequest{Password: domain.Some("ééééé")}, []string{MsgPasswordTooShort}},
		{"six multibyte chars", domain.UpdateUserRequest{Password: domain.Some("пароль")}, nil},
		{"small ic", domain.UpdateUserRequest{ICNumber: domain.Some(int64(99999999999))}, []string{MsgInvalidICNumber}},
		{"ic bound", domain.UpdateUserRequest{ICNumber: domain.Some(int64(MinICNumber))}, nil},
		{"full valid create", validCreate().Partial(), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidateUserData(tt.req))
		})
	}
}

func TestValidateLogin(t *testing.T) {
	assert.Empty(t, ValidateLogin("ada@example.com", "x"))
	assert.Equal(t, []string{MsgInvalidEmail, MsgPasswordRequired}, ValidateLogin("ada", ""))
}

func TestFormatUserForDisplay(t *testing.T) {
	d := FormatUserForDisplay(domain.User{
		FirstName:   "Ada",
		LastName:    "Lovelace",
		CreatedDate: time.Date(2024, 3, 9, 8, 0, 0, 0, time.UTC),
	})
	assert.Equal(t, "Ada Lovelace", d.FullName)
	assert.Equal(t, "Mar 9, 2024", d.FormattedCreatedDate)
	assert.Equal(t, "Ada", d.FirstName)

	assert.Empty(t, FormatUserForDisplay(domain.User{}).FormattedCreatedDate)
}

type fakeLoginAuth struct {
	creds *service.CredentialStore
	err   error
}

func (f *fakeLoginAuth) Login(_ context.Context, email, _ string) (*domain.AuthResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &domain.AuthResponse{AccessToken: "tok", UserData: domain.UserData{ID: 1, Email: email}}, nil
}

func (f *fakeLoginAuth) Logout() error { return f.creds.Clear() }
func (f *fakeLoginAuth) GetStoredToken() (string, error) { return f.creds.GetStoredToken() }
func (f *fakeLoginAuth) GetStoredUserData() (*domain.UserData, error) {
	return f.creds.GetStoredUserData()
}
func (f *fakeLoginAuth) StoreAuthData(token string, user domain.UserData) error {
	return f.creds.StoreAuthData(token, user)
}

func newAuthController(t *testing.T, loginErr error) (*AuthController, *store.Session, *recorder) {
	t.Helper()
	kv := storage.NewMemory()
	auth := &fakeLoginAuth{creds: service.NewCredentialStore(kv), err: loginErr}
	session := store.NewSession(auth, kv, nil, zerolog.Nop())
	rec := &recorder{}
	return NewAuthController(session, rec, zerolog.Nop()), session, rec
}

func TestAuthControllerLogin(t *testing.T) {
	c, session, rec := newAuthController(t, nil)
	assert.True(t, c.Login(context.Background(), "ada@example.com", "secret1"))
	assert.True(t, c.CheckAuthStatus())
	assert.False(t, session.State().Loading)
	require.NotNil(t, c.CurrentUser())
	assert.Equal(t, "ada@example.com", c.CurrentUser().Email)
	assert.Equal(t, []toast{{"success", "Login Successful", "Welcome back!"}}, rec.toasts)

	require.NoError(t, c.Logout())
	assert.False(t, c.CheckAuthStatus())
	assert.Nil(t, c.CurrentUser())
	assert.Equal(t, "Logged Out", rec.toasts[1].title)
}

func TestAuthControllerLoginFailure(t *testing.T) {
	c, session, rec := newAuthController(t, &client.APIError{StatusCode: 401, Message: "Invalid email or password"})
	assert.False(t, c.Login(context.Background(), "ada@example.com", "bad"))
	assert.False(t, session.State().Loading)
	assert.Equal(t, "Invalid email or password", session.State().Error)
	assert.Equal(t, []toast{{"error", "Login Failed", "Invalid email or password"}}, rec.toasts)

	c.ClearError()
	assert.Empty(t, session.State().Error)
}
