package main

import (
	"bufio"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/hpungsan/gauge/internal/config"
	"github.com/hpungsan/gauge/internal/convert"
	"github.com/hpungsan/gauge/internal/errors"
	"github.com/hpungsan/gauge/internal/ops"
	"github.com/hpungsan/gauge/internal/web"
)

// newCLIApp creates the CLI application with all commands.
func newCLIApp(db *sql.DB, cfg *config.Config) *cli.App {
	app := &cli.App{
		Name:    "gauge",
		Usage:   "Length and weight calculator",
		Version: Version,
		Commands: []*cli.Command{
			calculateCmd(db, convert.DomainLength, `4' 3 7/8" + 2.5 CM`),
			calculateCmd(db, convert.DomainWeight, "5 LB 8 OZ - 1/2 KG"),
			unitsCmd(),
			replCmd(db, cfg),
			serveCmd(db, cfg),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// calculateCmd creates the length and weight commands.
func calculateCmd(db *sql.DB, domain convert.Domain, example string) *cli.Command {
	return &cli.Command{
		Name:      string(domain),
		Usage:     fmt.Sprintf("Evaluate a %s expression, e.g. %s (reads stdin when no argument is given)", domain, example),
		ArgsUsage: "<expression>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "explain", Aliases: []string{"e"}, Usage: "Include the output of each rewrite pass"},
		},
		Action: func(c *cli.Context) error {
			expression := strings.Join(c.Args().Slice(), " ")
			if expression == "" && stdinHasData() {
				text, err := readStdin()
				if err != nil {
					return outputError(errors.NewInternal(err))
				}
				expression = text
			}

			output, err := ops.Calculate(c.Context, db, ops.CalculateInput{
				Domain:     string(domain),
				Expression: expression,
				Explain:    c.Bool("explain"),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// unitsCmd creates the units command.
func unitsCmd() *cli.Command {
	return &cli.Command{
		Name:  "units",
		Usage: "List recognized unit symbols",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "domain", Aliases: []string{"d"}, Usage: "Only list one domain: length|weight"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.Units(ops.UnitsInput{Domain: c.String("domain")})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// replCmd creates the repl command.
func replCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "repl",
		Usage: "Interactive calculator with session history",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "domain", Aliases: []string{"d"}, Value: cfg.DefaultDomain, Usage: "Starting domain: length|weight"},
		},
		Action: func(c *cli.Context) error {
			domain, err := ops.ValidateDomain(c.String("domain"))
			if err != nil {
				return outputError(err)
			}
			return runREPL(c.Context, db, domain, os.Stdin, c.App.Writer, isTerminal())
		},
	}
}

// serveCmd creates the serve command.
func serveCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the web calculator",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "bind", Value: cfg.WebBind, Usage: "Address to bind"},
			&cli.IntFlag{Name: "port", Aliases: []string{"p"}, Value: cfg.WebPort, Usage: "Port to listen on"},
		},
		Action: func(c *cli.Context) error {
			port := c.Int("port")
			if port <= 0 || port > 65535 {
				return outputError(errors.NewInvalidRequest("port must be between 1 and 65535"))
			}
			srv := web.NewServer(db, cfg, Version, c.String("bind"), port)
			return web.Run(srv)
		},
	}
}

const replHelp = `Type an expression to evaluate it. Commands:
  :length   switch to the length calculator
  :weight   switch to the weight calculator
  :history  show the last calculations
  :clear    clear the history
  :help     show this message
  :quit     exit`

// runREPL reads one expression per line until EOF or :quit.
// A prompt is printed only when interactive is true.
func runREPL(ctx context.Context, db *sql.DB, domain convert.Domain, in io.Reader, out io.Writer, interactive bool) error {
	if interactive {
		fmt.Fprintf(out, "gauge %s (:help for commands)\n", Version)
	}

	scanner := bufio.NewScanner(in)
	for {
		if interactive {
			fmt.Fprintf(out, "%s> ", domain)
		}
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())

		switch strings.ToLower(line) {
		case ":quit", ":q", ":exit":
			return nil
		case ":help", ":h", "?":
			fmt.Fprintln(out, replHelp)
			continue
		case ":length":
			domain = convert.DomainLength
			continue
		case ":weight":
			domain = convert.DomainWeight
			continue
		case ":history":
			hist, err := ops.History(ctx, db, ops.HistoryInput{Domain: string(domain)})
			if err != nil {
				printREPLError(out, err)
				continue
			}
			if len(hist.Entries) == 0 {
				fmt.Fprintln(out, "(no history)")
			}
			for _, e := range hist.Entries {
				fmt.Fprintf(out, "%s = %s\n", e.Equation, e.Result)
			}
			continue
		case ":clear":
			res, err := ops.ClearHistory(ctx, db, ops.HistoryInput{Domain: string(domain)})
			if err != nil {
				printREPLError(out, err)
				continue
			}
			fmt.Fprintf(out, "cleared %d\n", res.Cleared)
			continue
		}

		if strings.HasPrefix(line, ":") {
			fmt.Fprintf(out, "unknown command %s (:help for commands)\n", line)
			continue
		}

		output, err := ops.Calculate(ctx, db, ops.CalculateInput{Domain: string(domain), Expression: line})
		if err != nil {
			printREPLError(out, err)
			continue
		}
		if output.NoOp {
			continue
		}
		printResult(out, output.Result)
	}

	if err := scanner.Err(); err != nil {
		return outputError(errors.NewInternal(err))
	}
	return nil
}

// printResult writes the compound rendering followed by every display unit.
func printResult(out io.Writer, res *convert.Result) {
	fmt.Fprintf(out, "= %s\n", res.Formatted)

	conv, err := convert.For(res.Domain)
	if err != nil {
		return
	}
	names := conv.Targets()
	width := 0
	for _, name := range names {
		width = max(width, len(name))
	}
	for _, name := range names {
		fmt.Fprintf(out, "  %-*s  %s\n", width, name, res.Display[name])
	}
}

func printREPLError(out io.Writer, err error) {
	calcErr := errors.As(err)
	fmt.Fprintf(out, "error: [%s] %s\n", calcErr.Code, calcErr.Message)
}

// outputJSON outputs a value as formatted JSON to stdout.
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	calcErr := errors.As(err)
	return cli.Exit(fmt.Sprintf("[%s] %s", calcErr.Code, calcErr.Message), 1)
}

// stdinHasData returns true if stdin has piped data (not a terminal).
func stdinHasData() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}

// readStdin reads all content from stdin.
func readStdin() (string, error) {
	data, err := io.ReadAll(io.LimitReader(os.Stdin, maxStdinBytes))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// maxStdinBytes bounds a piped expression.
const maxStdinBytes = 64 * 1024
