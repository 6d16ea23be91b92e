package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime"

	"github.com/Rushan4218/restrowtl/internal/config"
	"github.com/Rushan4218/restrowtl/internal/logging"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

// options holds the global flags shared by every command.
type options struct {
	configPath string
	outDir     string
	font       string
	dryRun     bool
	quiet      bool
}

func main() {
	opts, args, err := parseArgs(os.Args[1:])
	if err != nil {
		fatal("%v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logging.WithContext(ctx, logging.NewFromEnv())

	cmd := "generate"
	if len(args) > 0 {
		cmd, args = args[0], args[1:]
	}

	switch cmd {
	case "generate", "gen":
		generateCmd(ctx, opts)
	case "list", "-l", "--list":
		listCmd(opts)
	case "history":
		historyCmd(ctx, args, opts)
	case "watch":
		watchCmd(ctx, opts)
	case "help", "-h", "--help":
		printUsage()
	case "version", "-V", "--version":
		printVersion()
	default:
		msg := fmt.Sprintf("unknown command %q", cmd)
		if s := suggestCommand(cmd); s != "" {
			msg += fmt.Sprintf("\nDid you mean %q?", s)
		}
		fatal("%s\nRun 'pwaicons help' for usage.", msg)
	}
}

// parseArgs strips the global flags from args and returns the rest in
// order.
func parseArgs(args []string) (options, []string, error) {
	var opts options
	rest := make([]string, 0, len(args))

	value := func(i int, flag, what string) (string, error) {
		if i+1 >= len(args) {
			return "", fmt.Errorf("%s requires %s", flag, what)
		}
		return args[i+1], nil
	}

	for i := 0; i < len(args); i++ {
		var err error
		switch a := args[i]; a {
		case "--config", "-c":
			opts.configPath, err = value(i, a, "a file path")
			i++
		case "--out", "-o":
			opts.outDir, err = value(i, a, "a directory")
			i++
		case "--font", "-f":
			opts.font, err = value(i, a, "a font path")
			i++
		case "--dry-run", "-n":
			opts.dryRun = true
		case "--quiet", "-q":
			opts.quiet = true
		default:
			rest = append(rest, a)
		}
		if err != nil {
			return opts, nil, err
		}
	}
	return opts, rest, nil
}

// loadConfig loads the config file and applies CLI overrides. The
// returned path is "" when built-in defaults are used.
func loadConfig(opts options) (config.Config, string, error) {
	cfg, path, err := config.Load(opts.configPath)
	if err != nil {
		return cfg, "", err
	}
	applyOverrides(&cfg, opts)
	if err := cfg.Validate(); err != nil {
		return cfg, path, err
	}
	return cfg, path, nil
}

func applyOverrides(cfg *config.Config, opts options) {
	if opts.outDir != "" {
		cfg.OutputDir = opts.outDir
	}
	if opts.font != "" {
		cfg.Font = opts.font
	}
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

// exitOnCancel exits quietly when err is an interrupt.
func exitOnCancel(err error) {
	if errors.Is(err, context.Canceled) {
		fmt.Fprintln(os.Stderr, "Interrupted.")
		os.Exit(130)
	}
}

func printVersion() {
	fmt.Printf("pwaicons %s (%s) %s/%s\n", version, buildDate, runtime.GOOS, runtime.GOARCH)
}

func printUsage() {
	fmt.Printf("pwaicons %s - Generate PWA icons, favicons and a web app manifest\n", version)
	fmt.Println(`
Usage:
  pwaicons [options] [generate]
  pwaicons [options] list
  pwaicons [options] watch
  pwaicons history [count]
  pwaicons history clean <days>
  pwaicons history clear

Options:
  --config, -c <path>    Path to pwaicons.json
  --out, -o <dir>        Output directory (default: public/icons)
  --font, -f <path>      TrueType font, or builtin:gobold
  --dry-run, -n          Print what would be written without writing
  --quiet, -q            Suppress progress output

Commands:
  generate               Render every icon (default)
  list                   Show the planned files without rendering
  watch                  Regenerate when the config or font file changes
  history [count]        Show the last generation runs (default: 10)
  history clean <days>   Keep only runs from the last N days
  history clear          Delete all history
  version, -V            Show version and build date
  help, -h, --help       Show this help message

Config resolution:
  1. --config <path>                         (explicit)
  2. pwaicons.json next to binary            (portable)
  3. ~/.config/pwaicons/pwaicons.json        (user default)
  Without a file the built-in RestroHub defaults are used.

Environment:
  PWAICONS_LOG_LEVEL     debug, info, warn, error (default: warn)
  PWAICONS_LOG_FORMAT    console, json (default: console)

Examples:
  pwaicons                         Write icons to public/icons
  pwaicons -o dist/icons -n        Preview output into dist/icons
  pwaicons -f builtin:gobold       Use the embedded Go Bold font
  pwaicons history 5               Show the last five runs`)
}
