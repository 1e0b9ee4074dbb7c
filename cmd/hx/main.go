package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/vanderheijden86/histscope/internal/history"
	"github.com/vanderheijden86/histscope/internal/scope"
	"github.com/vanderheijden86/histscope/pkg/config"
	"github.com/vanderheijden86/histscope/pkg/debug"
	"github.com/vanderheijden86/histscope/pkg/session"
	"github.com/vanderheijden86/histscope/pkg/ui"
	"github.com/vanderheijden86/histscope/pkg/version"
	"github.com/vanderheijden86/histscope/pkg/watcher"
)

func main() {
	help := flag.Bool("help", false, "Show help")
	versionFlag := flag.Bool("version", false, "Show version")
	dbPath := flag.String("db", "", "Path to the history database (default: nushell history.sqlite3)")
	scopeFlag := flag.String("scope", "", "Starting scope: session, directory, machine, everywhere")
	noPreview := flag.Bool("no-preview", false, "Start with the preview pane hidden")
	noColor := flag.Bool("no-color", false, "Disable colored output")
	noWatch := flag.Bool("no-watch", false, "Disable live change notifications")
	flag.Parse()

	if *help {
		fmt.Println("Usage: hx [options] [initial query]")
		fmt.Println("\nInteractive fuzzy search over shell command history.")
		fmt.Println("Keys: ctrl+r cycle scope, ctrl+l reload, ctrl+p preview, ctrl+y copy.")
		flag.PrintDefaults()
		os.Exit(0)
	}

	if *versionFlag {
		fmt.Printf("hx %s\n", version.Version)
		os.Exit(0)
	}

	if err := run(*dbPath, *scopeFlag, flag.Arg(0), *noPreview, *noColor, *noWatch); err != nil {
		fmt.Fprintf(os.Stderr, "hx: %v\n", err)
		os.Exit(1)
	}
}

func run(dbPath, scopeName, initialQuery string, noPreview, noColor, noWatch bool) error {
	// The picker reads keys from stdin and draws on stderr; both must be
	// terminals. stdout stays free for the selected command, so it may be
	// a pipe.
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return fmt.Errorf("stdin is not a terminal")
	}
	if !term.IsTerminal(int(os.Stderr.Fd())) {
		return fmt.Errorf("stderr is not a terminal")
	}

	cfg, cfgErr := config.Load()
	if cfgErr != nil {
		// Non-fatal: continue with defaults.
		debug.Log("config load failed: %v", cfgErr)
		cfg = config.DefaultConfig()
	}

	if dbPath == "" {
		dbPath = cfg.HistoryPath
	}
	if dbPath == "" {
		p, err := history.DefaultPath()
		if err != nil {
			return fmt.Errorf("locating history database: %w", err)
		}
		dbPath = p
	}

	store, err := history.Open(dbPath)
	if err != nil {
		return fmt.Errorf("opening history database: %w", err)
	}
	defer store.Close()

	initial := startingScope(scopeName, cfg)

	var changed <-chan struct{}
	if !noWatch {
		w, werr := watcher.New(dbPath)
		if werr == nil && w.Start() == nil {
			defer w.Stop()
			changed = w.Changed()
		} else if werr != nil {
			debug.Log("watcher unavailable: %v", werr)
		}
	}

	theme := ui.DefaultTheme(lipgloss.NewRenderer(os.Stderr))
	if noColor || cfg.UI.NoColor {
		theme = ui.PlainTheme(lipgloss.NewRenderer(os.Stderr))
	}

	ctrl := session.New(session.Options{
		Store:   store,
		Env:     scope.CurrentEnv(),
		Prompt:  cfg.UI.Prompt,
		Preview: cfg.PreviewEnabled() && !noPreview,
		Theme:   theme,
		Changed: changed,
	})

	res, err := ctrl.Run(initial, initialQuery)
	if err != nil {
		return err
	}

	if cfg.RememberScopeEnabled() {
		if serr := config.SaveState(config.State{LastScope: res.LastScope.String()}); serr != nil {
			debug.Log("saving state: %v", serr)
		}
	}

	// The selected command is the program's only stdout output, so a
	// shell binding can splice it straight into the line editor. An
	// abort prints nothing and still exits zero.
	if res.Selected {
		fmt.Println(res.Text)
	}
	return nil
}

// startingScope resolves the initial scope: an explicit --scope wins, then
// the remembered scope from the previous run, then the configured default.
func startingScope(flagValue string, cfg config.Config) scope.Scope {
	if flagValue != "" {
		if s, err := scope.Parse(flagValue); err == nil {
			return s
		}
		fmt.Fprintf(os.Stderr, "hx: unknown scope %q, using default\n", flagValue)
	}

	if cfg.RememberScopeEnabled() {
		if st := config.LoadState(); st.LastScope != "" {
			if s, err := scope.Parse(st.LastScope); err == nil {
				return s
			}
		}
	}

	if s, err := scope.Parse(cfg.DefaultScope); err == nil {
		return s
	}
	return scope.Default
}
