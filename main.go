// Package main provides the polybites CLI entry point.
// polybites is the command-line interface for the PolyBites restaurant
// review service.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/polybites/polybites-cli/cmd"
	"github.com/polybites/polybites-cli/config"
	"github.com/polybites/polybites-cli/pkg/buildinfo"
)

// Global flags.
var (
	apiBaseURL   string
	timeout      time.Duration
	outputFormat string
	debug        bool
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "polybites",
	Short: "PolyBites CLI - browse restaurants and reviews",
	Long: `polybites is the command-line interface for the PolyBites restaurant
review service.

Browse restaurants and menus, read and sort reviews, like the good ones,
and post your own.

COMMON WORKFLOWS:
  Find a restaurant:  polybites restaurants --sort rating_desc
  Read the menu:      polybites menu <restaurant-id> --sort value_desc
  Read reviews:       polybites reviews food <food-id> --sort recent
  Post a review:      polybites auth login  →  polybites review add food <id> ...

DISCOVERY:
  polybites <command> --help   Subcommands, flags, and examples`,
}

// Version command flags.
var versionOutputJSON bool

// versionCmd prints version information.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long: `Print the version, commit hash, and build time of the polybites CLI.

Examples:
  polybites version
  polybites version --output-json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		info := buildinfo.Get()
		out := cmd.OutOrStdout()

		if versionOutputJSON {
			return outputJSON(out, info)
		}

		fmt.Fprintf(out, "polybites version %s\n", info.Version)
		fmt.Fprintf(out, "  commit:     %s\n", info.Commit)
		fmt.Fprintf(out, "  built:      %s\n", info.BuildTime)
		fmt.Fprintf(out, "  go:         %s\n", info.GoVersion)
		return nil
	},
}

// configCmd manages CLI configuration.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage CLI configuration",
	Long:  `View and modify the polybites CLI configuration settings.`,
}

// configShowCmd displays current configuration.
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("loading configuration: %w", err)
		}

		configPath, _ := config.ConfigPath()
		out := cmd.OutOrStdout()

		fmt.Fprintln(out, "Current configuration:")
		fmt.Fprintf(out, "  Config file:    %s\n", configPath)
		fmt.Fprintf(out, "  API base URL:   %s\n", cfg.APIBaseURL)
		fmt.Fprintf(out, "  Timeout:        %s\n", cfg.Timeout)
		fmt.Fprintf(out, "  Output format:  %s\n", cfg.OutputFormat)
		fmt.Fprintf(out, "  Page size:      %d\n", cfg.PageSize)
		fmt.Fprintf(out, "  Debug:          %t\n", cfg.Debug)
		return nil
	},
}

// configInitCmd initializes configuration.
var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration file",
	Long:  `Create a new configuration file with default values if one doesn't exist.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, err := config.ConfigPath()
		if err != nil {
			return fmt.Errorf("getting config path: %w", err)
		}
		out := cmd.OutOrStdout()

		if _, err := os.Stat(configPath); err == nil {
			fmt.Fprintf(out, "Configuration file already exists: %s\n", configPath)
			fmt.Fprintln(out, "Use 'polybites config show' to view current settings.")
			return nil
		}

		defaultCfg := config.DefaultConfig()
		if err := config.SaveConfig(defaultCfg); err != nil {
			return fmt.Errorf("saving configuration: %w", err)
		}

		fmt.Fprintf(out, "Created configuration file: %s\n", configPath)
		return nil
	},
}

// configSetCmd sets a configuration value.
var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value in the config file.

Available keys:
  api_base_url   - PolyBites API base URL
  timeout        - Request timeout (e.g., 30s, 1m)
  output_format  - Default output format (text, json, yaml)
  page_size      - Reviews per page
  debug          - Enable debug mode (true/false)

Examples:
  polybites config set output_format json
  polybites config set timeout 1m`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]

		currentCfg, err := config.LoadConfig()
		if err != nil {
			currentCfg = config.DefaultConfig()
		}

		switch key {
		case "api_base_url":
			currentCfg.APIBaseURL = value
		case "timeout":
			duration, err := time.ParseDuration(value)
			if err != nil {
				return fmt.Errorf("invalid timeout value: %w", err)
			}
			currentCfg.Timeout = duration
		case "output_format":
			format := config.OutputFormat(value)
			if !format.IsValid() {
				return fmt.Errorf("invalid output format: %s (must be text, json, or yaml)", value)
			}
			currentCfg.OutputFormat = format
		case "page_size":
			size, err := parsePositiveInt(value)
			if err != nil {
				return fmt.Errorf("invalid page size: %w", err)
			}
			currentCfg.PageSize = size
		case "debug":
			switch value {
			case "true", "1":
				currentCfg.Debug = true
			case "false", "0":
				currentCfg.Debug = false
			default:
				return fmt.Errorf("invalid debug value: %s (must be true or false)", value)
			}
		default:
			return fmt.Errorf("unknown configuration key: %s", key)
		}

		if err := config.SaveConfig(currentCfg); err != nil {
			return fmt.Errorf("saving configuration: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s\n", key, value)
		return nil
	},
}

// completionCmd generates shell completion scripts.
var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion scripts",
	Long: `Generate shell completion scripts for polybites.

To load completions:

Bash:
  $ source <(polybites completion bash)

Zsh:
  $ polybites completion zsh > "${fpath[1]}/_polybites"

Fish:
  $ polybites completion fish | source

PowerShell:
  PS> polybites completion powershell | Out-String | Invoke-Expression
`,
	DisableFlagsInUseLine: true,
	ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		switch args[0] {
		case "bash":
			return rootCmd.GenBashCompletion(os.Stdout)
		case "zsh":
			return rootCmd.GenZshCompletion(os.Stdout)
		case "fish":
			return rootCmd.GenFishCompletion(os.Stdout, true)
		case "powershell":
			return rootCmd.GenPowerShellCompletionWithDesc(os.Stdout)
		}
		return nil
	},
}

func parsePositiveInt(value string) (int, error) {
	var n int
	if _, err := fmt.Sscanf(value, "%d", &n); err != nil {
		return 0, err
	}
	if n <= 0 {
		return 0, fmt.Errorf("must be positive, got %d", n)
	}
	return n, nil
}

// outputJSON mirrors the cmd package helper for the commands kept here.
func outputJSON(out io.Writer, v interface{}) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	// Global flags. Commands read these through the deps' config overrides.
	rootCmd.PersistentFlags().StringVar(&apiBaseURL, "api-url", "", "PolyBites API base URL")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 0, "request timeout (e.g., 30s, 1m)")
	rootCmd.PersistentFlags().StringVar(&outputFormat, "output-default", "", "default output format: text, json, yaml")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	rootCmd.PersistentPreRunE = func(c *cobra.Command, args []string) error {
		// version/help/completion run without config.
		if c.Name() == "version" || c.Name() == "help" || c.Name() == "completion" {
			return nil
		}
		applyGlobalOverrides()
		return nil
	}

	rootCmd.AddGroup(
		&cobra.Group{ID: "browse", Title: "Browsing:"},
		&cobra.Group{ID: "write", Title: "Writing:"},
		&cobra.Group{ID: "setup", Title: "Setup:"},
	)

	// Browsing
	restaurantsCmd := cmd.NewRestaurantsCommand(appDeps)
	restaurantsCmd.GroupID = "browse"
	rootCmd.AddCommand(restaurantsCmd)

	menuCmd := cmd.NewMenuCommand(appDeps)
	menuCmd.GroupID = "browse"
	rootCmd.AddCommand(menuCmd)

	reviewsCmd := cmd.NewReviewsCommand(appDeps)
	reviewsCmd.GroupID = "browse"
	rootCmd.AddCommand(reviewsCmd)

	browseCmd := cmd.NewBrowseCommand(appDeps)
	browseCmd.GroupID = "browse"
	rootCmd.AddCommand(browseCmd)

	// Writing
	reviewCmd := cmd.NewReviewCommand(appDeps)
	reviewCmd.GroupID = "write"
	rootCmd.AddCommand(reviewCmd)

	likeCmd := cmd.NewLikeCommand(appDeps)
	likeCmd.GroupID = "write"
	rootCmd.AddCommand(likeCmd)

	contactCmd := cmd.NewContactCommand(appDeps)
	contactCmd.GroupID = "write"
	rootCmd.AddCommand(contactCmd)

	// Setup
	authCmd := cmd.NewAuthCommand(appDeps)
	authCmd.GroupID = "setup"
	rootCmd.AddCommand(authCmd)

	configCmd.GroupID = "setup"
	rootCmd.AddCommand(configCmd)

	completionCmd.GroupID = "setup"
	rootCmd.AddCommand(completionCmd)

	versionCmd.GroupID = "setup"
	versionCmd.Flags().BoolVar(&versionOutputJSON, "output-json", false, "Output as JSON")
	rootCmd.AddCommand(versionCmd)

	// Config subcommands.
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configSetCmd)
}

// appDeps is the shared dependency wiring for all commands.
var appDeps = cmd.DefaultDeps()

// applyGlobalOverrides layers the global flags onto the loaded config.
func applyGlobalOverrides() {
	base := appDeps.LoadConfig
	appDeps.LoadConfig = func() (*config.CLIConfig, error) {
		cfg, err := base()
		if err != nil {
			return nil, err
		}
		if apiBaseURL != "" {
			cfg.APIBaseURL = apiBaseURL
		}
		if timeout != 0 {
			cfg.Timeout = timeout
		}
		if outputFormat != "" {
			cfg.OutputFormat = config.OutputFormat(outputFormat)
		}
		if debug {
			cfg.Debug = true
		}
		return cfg, nil
	}
}

func main() {
	// Set up signal handling for graceful shutdown.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		fmt.Println("\nInterrupted.")
		cancel()
		os.Exit(0)
	}()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
