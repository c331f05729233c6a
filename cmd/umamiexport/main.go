// main.go - Visitor-count export tool for Umami-compatible analytics servers
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"umamiexport/internal/auth"
	"umamiexport/internal/config"
	"umamiexport/internal/export"
	"umamiexport/internal/logging"
	"umamiexport/internal/timeframe"
	"umamiexport/internal/umami"
)

// version is set at build time via -ldflags
var version = "dev"

// Command defines the interface for all command implementations
type Command interface {
	// Name returns the command name
	Name() string
	// Description returns the command description
	Description() string
	// Execute runs the command with the given config and args
	Execute(ctx context.Context, cfg *config.Config, logger *slog.Logger, args []string) error
}

// The set of available commands
var commands = []Command{
	&ExportCommand{},
	&VerifyCommand{},
	&VersionCommand{},
	&HelpCommand{},
}

func main() {
	// A .env file is optional; ignore a missing one
	godotenv.Load()

	// Set up signal handling
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sig := <-sigChan
		fmt.Fprintf(os.Stderr, "Received signal: %v, aborting...\n", sig)
		cancel()
	}()

	cmdName, args := parseArgs()

	cmd := findCommand(cmdName)
	if cmd == nil {
		showUsageAndExit()
	}

	cfg := config.GetConfig()
	logger := logging.New(cfg)

	if err := cmd.Execute(ctx, cfg, logger, args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// exportFlags holds the per-run settings shared by export and verify.
// Flag defaults come from the environment-backed config, so an explicit
// flag always wins over an environment variable.
type exportFlags struct {
	baseURL   string
	websiteID string
	shareID   string
	username  string
	password  string
	token     string
	startAt   string
	endAt     string
	tz        string
	limit     int
	out       string
}

func bindExportFlags(fs *flag.FlagSet, cfg *config.Config) *exportFlags {
	f := &exportFlags{}
	fs.StringVar(&f.baseURL, "base-url", cfg.BaseURL, "analytics server base URL (required)")
	fs.StringVar(&f.websiteID, "website-id", cfg.WebsiteID, "website ID to export")
	fs.StringVar(&f.shareID, "share-id", cfg.ShareID, "public share ID")
	fs.StringVar(&f.username, "username", cfg.Username, "login username")
	fs.StringVar(&f.password, "password", cfg.Password, "login password")
	fs.StringVar(&f.token, "token", cfg.Token, "API bearer token")
	fs.StringVar(&f.startAt, "start-at", cfg.StartAt, "window start: epoch ms or YYYY-MM-DD (default: 30 days before end)")
	fs.StringVar(&f.endAt, "end-at", cfg.EndAt, "window end: epoch ms or YYYY-MM-DD (default: now)")
	fs.StringVar(&f.tz, "tz", cfg.Timezone, "timezone for date parsing")
	fs.IntVar(&f.limit, "limit", cfg.Limit, "rows per metrics page")
	fs.StringVar(&f.out, "out", cfg.OutputPath, "output file path (default: stdout)")
	return f
}

// ExportCommand runs the full export pipeline
type ExportCommand struct{}

func (c *ExportCommand) Name() string { return "export" }

func (c *ExportCommand) Description() string {
	return "Exports per-path visitor totals as JSON"
}

func (c *ExportCommand) Execute(ctx context.Context, cfg *config.Config, logger *slog.Logger, args []string) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	f := bindExportFlags(fs, cfg)
	if err := fs.Parse(args); err != nil {
		return err
	}

	if f.baseURL == "" {
		return fmt.Errorf("base URL is required (flag -base-url or UMAMI_EXPORT_BASE_URL)")
	}

	window, err := timeframe.NewParser().Parse(timeframe.ParserParams{
		StartAt: f.startAt,
		EndAt:   f.endAt,
		Tz:      f.tz,
	})
	if err != nil {
		return err
	}

	client := umami.NewClient(f.baseURL)
	totals, err := export.Run(ctx, client, logger, export.Params{
		Auth: auth.Inputs{
			ShareID:  f.shareID,
			Username: f.username,
			Password: f.password,
			Token:    f.token,
		},
		WebsiteID: f.websiteID,
		Window:    window,
		Limit:     f.limit,
	})
	if err != nil {
		return err
	}

	return export.WriteTotals(totals, f.out)
}

// VerifyCommand resolves auth and performs the credential exchange without
// exporting anything, so a cron setup can be checked cheaply
type VerifyCommand struct{}

func (c *VerifyCommand) Name() string { return "verify" }

func (c *VerifyCommand) Description() string {
	return "Checks credentials and reports the effective website ID"
}

func (c *VerifyCommand) Execute(ctx context.Context, cfg *config.Config, logger *slog.Logger, args []string) error {
	fs := flag.NewFlagSet("verify", flag.ContinueOnError)
	f := bindExportFlags(fs, cfg)
	if err := fs.Parse(args); err != nil {
		return err
	}

	if f.baseURL == "" {
		return fmt.Errorf("base URL is required (flag -base-url or UMAMI_EXPORT_BASE_URL)")
	}

	spec, err := auth.Resolve(auth.Inputs{
		ShareID:  f.shareID,
		Username: f.username,
		Password: f.password,
		Token:    f.token,
	})
	if err != nil {
		return err
	}

	client := umami.NewClient(f.baseURL)
	creds, err := auth.Exchange(ctx, client, logger, spec, f.websiteID)
	if err != nil {
		return err
	}

	fmt.Printf("auth mode: %s\nwebsite ID: %s\n", spec.Mode, creds.WebsiteID)
	return nil
}

// VersionCommand prints the build version
type VersionCommand struct{}

func (c *VersionCommand) Name() string        { return "version" }
func (c *VersionCommand) Description() string { return "Prints the version" }

func (c *VersionCommand) Execute(ctx context.Context, cfg *config.Config, logger *slog.Logger, args []string) error {
	fmt.Println(version)
	return nil
}

// HelpCommand implements a command to show usage information
type HelpCommand struct{}

func (c *HelpCommand) Name() string        { return "help" }
func (c *HelpCommand) Description() string { return "Shows usage information" }

func (c *HelpCommand) Execute(ctx context.Context, cfg *config.Config, logger *slog.Logger, args []string) error {
	printUsage()
	return nil
}

// Helper functions

// parseArgs parses the command name and arguments
func parseArgs() (string, []string) {
	args := os.Args[1:]
	if len(args) == 0 {
		return "help", []string{}
	}
	return args[0], args[1:]
}

// findCommand finds a command by name
func findCommand(name string) Command {
	for _, cmd := range commands {
		if cmd.Name() == name {
			return cmd
		}
	}
	return nil
}

func printUsage() {
	fmt.Println("Usage: umamiexport [command] [flags...]")
	fmt.Println("Available commands:")

	for _, cmd := range commands {
		fmt.Printf("  %s: %s\n", cmd.Name(), cmd.Description())
	}
}

// showUsageAndExit shows usage information and exits
func showUsageAndExit() {
	printUsage()
	os.Exit(1)
}
