package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/naveenspark/mbadmin/internal/config"
	"github.com/naveenspark/mbadmin/internal/notify"
	"github.com/naveenspark/mbadmin/internal/tui"
)

var (
	errNotSignedIn = errors.New("not signed in")
	errLoginFailed = errors.New("login failed")
)

// cli holds what the persistent flags resolve to.
type cli struct {
	v       *viper.Viper
	cfgFile string
	verbose bool
	cfg     *config.Config
}

func newRootCmd() *cobra.Command {
	c := &cli{v: config.NewViper()}

	root := &cobra.Command{
		Use:   "mbadmin",
		Short: "Admin dashboard for managing users",
		Long: `mbadmin signs in to the admin backend and manages its users.
Run without arguments for the interactive dashboard.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			cfg, err := config.Load(c.v, c.cfgFile)
			if err != nil {
				return err
			}
			c.cfg = cfg
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.runTUI(cmd.Context())
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&c.cfgFile, "config", "", "config file (default ./config.yaml or ~/.mbadmin/config.yaml)")
	flags.String("api-url", "", "backend base URL")
	flags.String("storage", "", "session storage: file, sqlite or memory")
	flags.String("log-level", "", "log level: debug, info, warn, error")
	flags.BoolVarP(&c.verbose, "verbose", "v", false, "log to stderr instead of the log file")
	c.v.BindPFlag(config.KeyAPIURL, flags.Lookup("api-url"))         //nolint:errcheck
	c.v.BindPFlag(config.KeyStorageBackend, flags.Lookup("storage")) //nolint:errcheck
	c.v.BindPFlag(config.KeyLogLevel, flags.Lookup("log-level"))     //nolint:errcheck

	root.AddCommand(
		newLoginCmd(c),
		newLogoutCmd(c),
		newStatusCmd(c),
		newUsersCmd(c),
		newStatsCmd(c),
		newVersionCmd(),
	)
	return root
}

// wireCLI wires the app for a one-shot command. Notifications are printed
// to w as they arrive.
func (c *cli) wireCLI(w io.Writer) (*app, error) {
	return wire(c.cfg, wireOptions{console: c.verbose, queue: printingQueue(w)})
}

// printingQueue prints each notification once, when it is added.
func printingQueue(w io.Writer) *notify.Queue {
	var mu sync.Mutex
	seen := make(map[string]bool)
	return notify.New(notify.WithOnChange(func(list []notify.Notification) {
		mu.Lock()
		defer mu.Unlock()
		for _, n := range list {
			if seen[n.ID] {
				continue
			}
			seen[n.ID] = true
			fmt.Fprintln(w, formatNotification(n))
		}
	}))
}

func (c *cli) runTUI(ctx context.Context) error {
	a, err := wire(c.cfg, wireOptions{console: false})
	if err != nil {
		return err
	}
	defer a.Close() //nolint:errcheck

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var metricsURL string
	if c.cfg.MetricsAddr != "" {
		addr, err := serveMetrics(ctx, c.cfg.MetricsAddr, a.registry, a.log)
		if err != nil {
			a.log.Warn().Err(err).Msg("metrics disabled")
		} else {
			metricsURL = "http://" + addr + "/metrics"
		}
	}

	app := tui.NewApp(tui.Deps{
		Auth:       a.auth,
		Users:      a.users,
		Session:    a.session,
		Prefs:      a.prefs,
		PageSize:   c.cfg.PageSize,
		APIURL:     c.cfg.APIURL,
		MetricsURL: metricsURL,
	})
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui error: %w", err)
	}
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "mbadmin "+version)
		},
	}
}
