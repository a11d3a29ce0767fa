package controller

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/naveenspark/mbadmin/pkg/domain"
)

// DateFormat is how creation dates are shown.
const DateFormat = "Jan 2, 2006"

// DefaultRecentLimit applies when GetRecentUsers gets a limit below 1.
const DefaultRecentLimit = 5

// UserService is the user resource as the controller needs it.
type UserService interface {
	GetUsers(ctx context.Context) ([]domain.User, error)
	GetUser(ctx context.Context, id int) (*domain.User, error)
	CreateUser(ctx context.Context, req domain.CreateUserRequest) (*domain.User, error)
	UpdateUser(ctx context.Context, id int, req domain.UpdateUserRequest) (*domain.User, error)
	DeleteUser(ctx context.Context, id int) error
}

// UserOption configures a UserController.
type UserOption func(*UserController)

// WithNow replaces the wall clock used for the trailing-window analytics.
func WithNow(now func() time.Time) UserOption {
	return func(c *UserController) { c.now = now }
}

// WithLogger sets the controller logger.
func WithLogger(l zerolog.Logger) UserOption {
	return func(c *UserController) { c.log = l.With().Str("component", "users").Logger() }
}

// UserController drives the user screens.
type UserController struct {
	users  UserService
	notify Notifier
	now    func() time.Time
	log    zerolog.Logger
}

// NewUserController creates a UserController.
func NewUserController(users UserService, n Notifier, opts ...UserOption) *UserController {
	c := &UserController{
		users:  users,
		notify: n,
		now:    time.Now,
		log:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *UserController) GetUsers(ctx context.Context) ([]domain.User, error) {
	users, err := c.users.GetUsers(ctx)
	if err != nil {
		return nil, report(c.notify, c.log, "Failed to fetch users", "Unable to load users", err)
	}
	if users == nil {
		users = []domain.User{}
	}
	return users, nil
}

func (c *UserController) GetUser(ctx context.Context, id int) (*domain.User, error) {
	u, err := c.users.GetUser(ctx, id)
	if err != nil {
		return nil, report(c.notify, c.log, "Failed to fetch user", "Unable to load user details", err)
	}
	return u, nil
}

// CreateUser validates req and creates the user.
func (c *UserController) CreateUser(ctx context.Context, req domain.CreateUserRequest) (*domain.User, error) {
	if err := c.validate(req.Partial()); err != nil {
		return nil, err
	}
	u, err := c.users.CreateUser(ctx, req)
	if err != nil {
		return nil, report(c.notify, c.log, "Failed to create user", "Unable to create user", err)
	}
	c.notify.Success("User Created", "User has been successfully created")
	return u, nil
}

// UpdateUser validates the present fields of req and applies the update.
func (c *UserController) UpdateUser(ctx context.Context, id int, req domain.UpdateUserRequest) (*domain.User, error) {
	if err := c.validate(req); err != nil {
		return nil, err
	}
	u, err := c.users.UpdateUser(ctx, id, req)
	if err != nil {
		return nil, report(c.notify, c.log, "Failed to update user", "Unable to update user", err)
	}
	c.notify.Success("User Updated", "User has been successfully updated")
	return u, nil
}

func (c *UserController) DeleteUser(ctx context.Context, id int) error {
	if err := c.users.DeleteUser(ctx, id); err != nil {
		return report(c.notify, c.log, "Failed to delete user", "Unable to delete user", err)
	}
	c.notify.Success("User Deleted", "User has been successfully deleted")
	return nil
}

func (c *UserController) validate(req domain.UpdateUserRequest) error {
	violations := ValidateUserData(req)
	if len(violations) == 0 {
		return nil
	}
	c.notify.Error("Invalid user data", strings.Join(violations, "\n"))
	return &ValidationError{Violations: violations}
}

// GetUserAnalytics fetches every user and derives the dashboard statistics.
func (c *UserController) GetUserAnalytics(ctx context.Context) (*domain.UserAnalytics, error) {
	users, err := c.users.GetUsers(ctx)
	if err != nil {
		return nil, report(c.notify, c.log, "Failed to fetch analytics", "Unable to load analytics", err)
	}
	a := Analyze(users, c.now())
	return &a, nil
}

// Analyze computes the statistics over users relative to now. Gender buckets
// appear in order of first occurrence.
func Analyze(users []domain.User, now time.Time) domain.UserAnalytics {
	a := domain.UserAnalytics{
		TotalUsers:         len(users),
		GenderDistribution: []domain.GenderCount{},
	}
	weekAgo := now.AddDate(0, 0, -7)
	monthAgo := now.AddDate(0, 0, -30)
	for _, u := range users {
		if u.IsVerified {
			a.VerifiedUsers++
		}
		i := slices.IndexFunc(a.GenderDistribution, func(g domain.GenderCount) bool { return g.GenderID == u.GenderID })
		if i < 0 {
			a.GenderDistribution = append(a.GenderDistribution, domain.GenderCount{GenderID: u.GenderID, Count: 1})
		} else {
			a.GenderDistribution[i].Count++
		}
		if u.CreatedDate.IsZero() {
			continue
		}
		if !u.CreatedDate.Before(weekAgo) {
			a.NewUsersLast7Days++
		}
		if !u.CreatedDate.Before(monthAgo) {
			a.NewUsersLast30Days++
		}
	}
	a.UnverifiedUsers = a.TotalUsers - a.VerifiedUsers
	return a
}

// GetRecentUsers returns up to limit users, newest first.
func (c *UserController) GetRecentUsers(ctx context.Context, limit int) ([]domain.User, error) {
	users, err := c.users.GetUsers(ctx)
	if err != nil {
		return nil, report(c.notify, c.log, "Failed to fetch recent users", "Unable to load recent users", err)
	}
	return RecentUsers(users, limit), nil
}

// RecentUsers sorts a copy of users by creation date, newest first, and
// keeps at most limit of them.
func RecentUsers(users []domain.User, limit int) []domain.User {
	if limit < 1 {
		limit = DefaultRecentLimit
	}
	sorted := slices.Clone(users)
	slices.SortStableFunc(sorted, func(a, b domain.User) int {
		return b.CreatedDate.Compare(a.CreatedDate)
	})
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}

// FormatUserForDisplay adds the full name and a formatted creation date.
func FormatUserForDisplay(u domain.User) domain.DisplayUser {
	d := domain.DisplayUser{
		User:     u,
		FullName: u.FullName(),
	}
	if !u.CreatedDate.IsZero() {
		d.FormattedCreatedDate = u.CreatedDate.Format(DateFormat)
	}
	return d
}
