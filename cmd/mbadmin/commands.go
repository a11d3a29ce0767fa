package main

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/naveenspark/mbadmin/internal/controller"
	"github.com/naveenspark/mbadmin/internal/table"
	"github.com/naveenspark/mbadmin/pkg/domain"
)

func newLoginCmd(c *cli) *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if email == "" || password == "" {
				if err := promptLogin(&email, &password); err != nil {
					return err
				}
			}
			if violations := controller.ValidateLogin(email, password); len(violations) > 0 {
				return fmt.Errorf("%s", strings.Join(violations, "; "))
			}

			a, err := c.wireCLI(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.Close() //nolint:errcheck

			if !a.auth.Login(cmd.Context(), strings.TrimSpace(email), password) {
				return errLoginFailed
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s\n", a.auth.CurrentUser().DisplayName())
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email (prompted when empty)")
	cmd.Flags().StringVar(&password, "password", "", "account password (prompted when empty)")
	return cmd
}

func promptLogin(email, password *string) error {
	return huh.NewForm(huh.NewGroup(
		huh.NewInput().Title("Email").Value(email),
		huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(password),
	)).Run()
}

func newLogoutCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := c.wireCLI(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.Close() //nolint:errcheck

			if !a.auth.CheckAuthStatus() {
				fmt.Fprintln(cmd.OutOrStdout(), "Already logged out.")
				return nil
			}
			if err := a.auth.Logout(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
			return nil
		},
	}
}

func newStatusCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show who is signed in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := c.wireCLI(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.Close() //nolint:errcheck

			st := a.session.State()
			w := cmd.OutOrStdout()
			if !st.Authenticated {
				printSignedOut(w)
				return nil
			}
			printField(w, "User", st.User.DisplayName())
			printField(w, "Email", st.User.Email)
			printField(w, "Backend", c.cfg.APIURL)
			if !st.ExpiresAt.IsZero() {
				printField(w, "Expires", st.ExpiresAt.Local().Format(time.RFC1123))
			}
			return nil
		},
	}
}

func newUsersCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "List, show and delete users",
	}
	cmd.AddCommand(newUsersListCmd(c), newUsersShowCmd(c), newUsersDeleteCmd(c))
	return cmd
}

// signedIn wires the app and fails unless a session is present.
func (c *cli) signedIn(cmd *cobra.Command) (*app, error) {
	a, err := c.wireCLI(cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}
	if !a.auth.CheckAuthStatus() {
		a.Close() //nolint:errcheck
		printSignedOut(cmd.ErrOrStderr())
		return nil, errNotSignedIn
	}
	return a, nil
}

type listOptions struct {
	search   string
	sortKey  string
	desc     bool
	page     int
	pageSize int
	json     bool
}

func newUsersListCmd(c *cli) *cobra.Command {
	var opts listOptions
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print users as a table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := c.signedIn(cmd)
			if err != nil {
				return err
			}
			defer a.Close() //nolint:errcheck

			users, err := a.users.GetUsers(cmd.Context())
			if err != nil {
				return err
			}
			size := opts.pageSize
			if size < 1 {
				size = c.cfg.PageSize
			}
			page, err := queryUsers(users, opts, size)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if opts.json {
				rows := make([]domain.DisplayUser, len(page.Rows))
				for i, u := range page.Rows {
					rows[i] = controller.FormatUserForDisplay(u)
				}
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(rows)
			}
			fmt.Fprintln(w, renderUserTable(controller.UserColumns(), page.Rows))
			fmt.Fprintln(w, dimText.Render(page.Summary()+"  "+page.Indicator()))
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVarP(&opts.search, "search", "s", "", "case-insensitive search across all columns")
	f.StringVar(&opts.sortKey, "sort", "", "sort column: id, name, email, gender, verified, status, created")
	f.BoolVar(&opts.desc, "desc", false, "sort descending")
	f.IntVarP(&opts.page, "page", "p", 1, "page number")
	f.IntVar(&opts.pageSize, "page-size", 0, "rows per page (default from config)")
	f.BoolVar(&opts.json, "json", false, "print the page as JSON")
	return cmd
}

// queryUsers runs search, sort and pagination the same way the dashboard does.
func queryUsers(users []domain.User, opts listOptions, size int) (table.Page[domain.User], error) {
	t := table.New(controller.UserColumns(), size)
	t.SetRows(users)
	t.SetQuery(opts.search)
	if opts.sortKey != "" {
		if !t.ToggleSort(opts.sortKey) {
			return table.Page[domain.User]{}, fmt.Errorf("cannot sort by %q", opts.sortKey)
		}
		if opts.desc {
			t.ToggleSort(opts.sortKey)
		}
	}
	t.SetPage(opts.page)
	return t.View(), nil
}

func parseID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid user id %q", s)
	}
	return id, nil
}

func newUsersShowCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			a, err := c.signedIn(cmd)
			if err != nil {
				return err
			}
			defer a.Close() //nolint:errcheck

			u, err := a.users.GetUser(cmd.Context(), id)
			if err != nil {
				return err
			}
			d := controller.FormatUserForDisplay(*u)
			w := cmd.OutOrStdout()
			printField(w, "ID", strconv.Itoa(u.ID))
			printField(w, "Name", d.FullName)
			printField(w, "Email", u.Email)
			printField(w, "Gender", domain.GenderLabel(u.GenderID))
			printField(w, "Verified", strconv.FormatBool(u.IsVerified))
			printField(w, "IC type", domain.ICTypeLabel(u.ICTypeID))
			if u.ICNumber != 0 {
				printField(w, "IC number", strconv.FormatInt(u.ICNumber, 10))
			}
			printField(w, "Status", domain.RecordStatusLabel(u.RecordStatusID))
			printField(w, "Created", d.FormattedCreatedDate)
			if u.Avatar != nil && *u.Avatar != "" {
				printField(w, "Avatar", *u.Avatar)
			}
			return nil
		},
	}
}

func newUsersDeleteCmd(c *cli) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if !yes {
				confirmed := false
				err := huh.NewConfirm().
					Title(fmt.Sprintf("Delete user %d?", id)).
					Description("This cannot be undone.").
					Affirmative("Delete").
					Negative("Cancel").
					Value(&confirmed).
					Run()
				if err != nil {
					return err
				}
				if !confirmed {
					fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
					return nil
				}
			}

			a, err := c.signedIn(cmd)
			if err != nil {
				return err
			}
			defer a.Close() //nolint:errcheck
			return a.users.DeleteUser(cmd.Context(), id)
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func newStatsCmd(c *cli) *cobra.Command {
	var asJSON bool
	var recent int
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print user analytics and recent sign-ups",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := c.signedIn(cmd)
			if err != nil {
				return err
			}
			defer a.Close() //nolint:errcheck

			analytics, err := a.users.GetUserAnalytics(cmd.Context())
			if err != nil {
				return err
			}
			latest, err := a.users.GetRecentUsers(cmd.Context(), recent)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(struct {
					*domain.UserAnalytics
					RecentUsers []domain.User `json:"recentUsers"`
				}{analytics, latest})
			}
			printAnalytics(w, analytics)
			fmt.Fprintln(w)
			fmt.Fprintln(w, headerText.Render("Recent users"))
			fmt.Fprintln(w, renderUserTable(recentColumns(), latest))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	cmd.Flags().IntVar(&recent, "recent", controller.DefaultRecentLimit, "number of recent users")
	return cmd
}

// recentColumns trims the manifest to what the recent list shows.
func recentColumns() []table.Column[domain.User] {
	var cols []table.Column[domain.User]
	for _, col := range controller.UserColumns() {
		switch col.Key {
		case "name", "email", "verified", "created":
			cols = append(cols, col)
		}
	}
	return cols
}
