package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hpungsan/gauge/internal/config"
	"github.com/hpungsan/gauge/internal/mcp"
	"github.com/hpungsan/gauge/internal/ops"
)

// Version is set via -ldflags at build time.
var Version = "dev"

// cliCommands contains known CLI subcommands.
var cliCommands = map[string]bool{
	"length": true, "weight": true, "units": true,
	"repl": true, "serve": true,
	"help": true,
}

// isCLIMode determines if we should run CLI vs MCP server.
func isCLIMode() bool {
	if len(os.Args) < 2 {
		return false // No args → MCP server
	}
	arg := os.Args[1]
	if cliCommands[arg] {
		return true
	}
	if arg == "--help" || arg == "-h" || arg == "--version" || arg == "-v" {
		return true
	}
	return false // Default → MCP server
}

// isHelpOrVersion returns true if the user is requesting help or version info.
func isHelpOrVersion() bool {
	if len(os.Args) < 2 {
		return false
	}
	arg := os.Args[1]
	return arg == "--help" || arg == "-h" || arg == "--version" || arg == "-v" || arg == "help"
}

// isTerminal returns true if stdin is a terminal (not piped).
func isTerminal() bool {
	stat, _ := os.Stdin.Stat()
	return (stat.Mode() & os.ModeCharDevice) != 0
}

// printBanner displays a friendly banner when run interactively without args.
func printBanner() {
	fmt.Println(`
    __ _  __ _ _   _  __ _  ___
   / _' |/ _' | | | |/ _' |/ _ \
  | (_| | (_| | |_| | (_| |  __/
   \__, |\__,_|\__,_|\__, |\___|
   |___/             |___/

  Length and weight calculator

  Usage: gauge <command> [options]
         gauge length "4' 3 7/8\" + 2.5 CM"
         gauge repl
         gauge --help

  MCP server mode requires piped input.`)
}

func main() {
	// No args + interactive terminal → show banner and exit
	if len(os.Args) < 2 && isTerminal() {
		printBanner()
		return
	}

	// Handle --help/--version before opening a session
	if isHelpOrVersion() {
		app := newCLIApp(nil, config.DefaultConfig())
		if err := app.Run(os.Args); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to load config: %v\n", err)
		os.Exit(1)
	}

	session, err := ops.NewSession()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to open session: %v\n", err)
		os.Exit(1)
	}
	defer session.Close()

	// CLI mode: known subcommand
	if isCLIMode() {
		app := newCLIApp(session.DB, cfg)
		if err := app.Run(os.Args); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			session.Close()
			os.Exit(1)
		}
		return
	}

	// Unknown argument + terminal → show error (don't start MCP server)
	if len(os.Args) >= 2 && isTerminal() {
		fmt.Fprintf(os.Stderr, "error: unknown command %q\n", os.Args[1])
		fmt.Fprintf(os.Stderr, "Run 'gauge --help' for usage.\n")
		os.Exit(1)
	}

	warnUnknownDisabled(cfg)

	// MCP server mode (default)
	if err := mcp.Run(session.DB, cfg, Version); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		session.Close()
		os.Exit(1)
	}
}

// loadConfig reads ~/.gauge/config.json merged with the nearest repo config.
func loadConfig() (*config.Config, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("could not determine home directory: %w", err)
	}
	cwd, err := os.Getwd()
	if err != nil {
		cwd = ""
	}
	return config.LoadWithRepo(filepath.Join(homeDir, ".gauge"), cwd)
}

// warnUnknownDisabled reports disabled tool or type names that match nothing.
func warnUnknownDisabled(cfg *config.Config) {
	if unknown := mcp.ValidateDisabledTools(cfg.DisabledTools); len(unknown) > 0 {
		fmt.Fprintf(os.Stderr, "warning: unknown disabled_tools: %s\n", strings.Join(unknown, ", "))
	}
	if unknown := mcp.ValidateDisabledTypes(cfg.DisabledTypes); len(unknown) > 0 {
		fmt.Fprintf(os.Stderr, "warning: unknown disabled_types: %s\n", strings.Join(unknown, ", "))
	}
}
