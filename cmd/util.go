// Package cmd provides CLI commands for the polybites tool.
package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/polybites/polybites-cli/client"
	"github.com/polybites/polybites-cli/config"
	"github.com/polybites/polybites-cli/credentials"
	pberrors "github.com/polybites/polybites-cli/pkg/errors"
	"github.com/polybites/polybites-cli/pkg/logging"
	"github.com/polybites/polybites-cli/pkg/observability"
	"github.com/polybites/polybites-cli/pkg/prefs"
)

// Deps holds the shared dependencies for commands. Tests inject fakes here;
// production commands use DefaultDeps.
type Deps struct {
	Config  *config.CLIConfig
	Client  *client.Client
	Logger  logging.Logger
	Metrics *observability.BrowserMetrics

	LoadConfig  func() (*config.CLIConfig, error)
	NewClient   func(cfg *config.CLIConfig, log logging.Logger) *client.Client
	LoadSession func() (*credentials.Session, error)
	SaveSession func(*credentials.Session) error
	DropSession func() error
	OpenPrefs   func() (*prefs.Store, error)

	// OutputFormat overrides the configured format when non-empty.
	OutputFormat string
}

// Process-wide metrics. Registering twice on the default registerer panics,
// so every Deps built here shares one set.
var (
	defaultMetricsOnce sync.Once
	defaultMetrics     *observability.BrowserMetrics
)

func sharedMetrics() *observability.BrowserMetrics {
	defaultMetricsOnce.Do(func() {
		defaultMetrics = observability.DefaultBrowserMetrics()
	})
	return defaultMetrics
}

// DefaultDeps returns the production dependency wiring.
func DefaultDeps() *Deps {
	return &Deps{
		Metrics:    sharedMetrics(),
		LoadConfig: config.LoadConfig,
		NewClient: func(cfg *config.CLIConfig, log logging.Logger) *client.Client {
			opts := client.DefaultOptions()
			opts.Timeout = cfg.Timeout
			opts.Logger = log
			return client.New(cfg.APIBaseURL, opts)
		},
		LoadSession: func() (*credentials.Session, error) {
			store, err := credentials.NewStore()
			if err != nil {
				return nil, err
			}
			return store.Active()
		},
		SaveSession: func(session *credentials.Session) error {
			store, err := credentials.NewStore()
			if err != nil {
				return err
			}
			return store.Save(session)
		},
		DropSession: func() error {
			store, err := credentials.NewStore()
			if err != nil {
				return err
			}
			return store.Delete()
		},
		OpenPrefs: func() (*prefs.Store, error) {
			dir, err := config.ConfigDir()
			if err != nil {
				return nil, err
			}
			return prefs.NewStore(dir), nil
		},
	}
}

// init loads configuration and builds the shared client if not already done.
func (d *Deps) init() error {
	if d.Config == nil {
		cfg, err := d.LoadConfig()
		if err != nil {
			return fmt.Errorf("loading configuration: %w", err)
		}
		d.Config = cfg
	}
	if d.Logger == nil {
		level := logging.LevelWarn
		if d.Config.Debug {
			level = logging.LevelDebug
		}
		d.Logger = logging.NewLogger(&logging.Config{Level: level, Component: "polybites"})
	}
	if d.Client == nil {
		d.Client = d.NewClient(d.Config, d.Logger)
	}
	return nil
}

// viewer returns the signed-in session, or nil when signed out. Errors other
// than "not signed in" surface to the caller.
func (d *Deps) viewer() (*credentials.Session, error) {
	session, err := d.LoadSession()
	if err != nil {
		if pberrors.IsSignInRequired(err) ||
			err == credentials.ErrNoSession || err == credentials.ErrExpiredSession {
			return nil, nil
		}
		return nil, err
	}
	return session, nil
}

// requireViewer returns the signed-in session or ErrSignInRequired.
func (d *Deps) requireViewer() (*credentials.Session, error) {
	session, err := d.viewer()
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, fmt.Errorf("%w: run 'polybites auth login' first", pberrors.ErrSignInRequired)
	}
	return session, nil
}

// format resolves the effective output format for one invocation.
func (d *Deps) format() config.OutputFormat {
	if d.OutputFormat != "" {
		return config.OutputFormat(d.OutputFormat)
	}
	if d.Config != nil {
		return d.Config.OutputFormat
	}
	return config.OutputFormatText
}

// outputJSON writes v as indented JSON.
func outputJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputYAML writes v as YAML.
func outputYAML(w io.Writer, v interface{}) error {
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(v)
}

// kindFromArg maps the review-kind positional argument to the API collection.
func kindFromArg(arg string) (client.ReviewKind, error) {
	switch strings.ToLower(strings.TrimSpace(arg)) {
	case "food":
		return client.KindFoodReviews, nil
	case "restaurant":
		return client.KindGeneralReviews, nil
	default:
		return "", fmt.Errorf("%w: review kind must be 'food' or 'restaurant', got %q", pberrors.ErrValidation, arg)
	}
}

// formatRating renders an average rating like "4.3/5", or "-" when there are
// no reviews.
func formatRating(rating float64, reviewCount int) string {
	if reviewCount == 0 {
		return "-"
	}
	return fmt.Sprintf("%.1f/5", rating)
}

// truncate shortens s to max runes with an ellipsis.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}

// registerOutputFlag adds the per-command output format flag.
func registerOutputFlag(cmd *cobra.Command, target *string) {
	cmd.Flags().StringVarP(target, "output", "o", "", "output format: text, json, yaml")
}
