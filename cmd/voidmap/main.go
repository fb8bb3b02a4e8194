// voidmap is a spatial outline editor for the terminal. Trees are placed
// anywhere on the screen with the mouse, grown and folded from the
// keyboard, and kept in a single encrypted file that only one process may
// hold open at a time.
//
// Usage:
//
//	voidmap [flags] <key-hint> [store-path]
//
// The key hint derives the encryption key. When it is omitted and stdin is
// a terminal it is prompted for without echo.
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/csheth/voidmap/internal/config"
	"github.com/csheth/voidmap/internal/importer"
	"github.com/csheth/voidmap/internal/logring"
	"github.com/csheth/voidmap/internal/store"
	"github.com/csheth/voidmap/internal/tui"
	"github.com/csheth/voidmap/internal/vault"
)

// envLogFile names a JSON log file, like --log-file.
const envLogFile = "VOIDMAP_LOGFILE"

// usageError is reported with the flag defaults and exit status 2.
type usageError struct{ msg string }

func (e *usageError) Error() string { return e.msg }
func (e *usageError) ExitCode() int { return 2 }

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "voidmap: %v\n", err)
		var coder interface{ ExitCode() int }
		if errors.As(err, &coder) {
			os.Exit(coder.ExitCode())
		}
		os.Exit(1)
	}
}

func run() error {
	var (
		configPath  string
		logFile     string
		importPDF   string
		noAltScreen bool
	)
	flagSet := pflag.NewFlagSet("voidmap", pflag.ContinueOnError)
	flagSet.StringVar(&configPath, "config", "", "YAML configuration file (default: $"+config.EnvPath+")")
	flagSet.StringVar(&logFile, "log-file", "", "append JSON log records to this file (default: $"+envLogFile+")")
	flagSet.StringVar(&importPDF, "import-pdf", "", "graft an outline of this PDF below the existing trees")
	flagSet.BoolVar(&noAltScreen, "no-alt-screen", false, "draw in the main screen buffer")
	flagSet.BoolP("help", "h", false, "show help")

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			printHelp(flagSet)
			return nil
		}
		return &usageError{msg: err.Error()}
	}
	if help, _ := flagSet.GetBool("help"); help {
		printHelp(flagSet)
		return nil
	}
	args := flagSet.Args()
	if len(args) > 2 {
		return &usageError{msg: fmt.Sprintf("unexpected argument: %s", args[2])}
	}

	cfg, err := config.Resolve(configPath)
	if err != nil {
		return err
	}
	level, err := cfg.Level()
	if err != nil {
		return err
	}

	ring := logring.NewRing(cfg.LogLines)
	handlers := logring.Fanout{logring.NewHandler(ring, level)}
	if logFile == "" {
		logFile = os.Getenv(envLogFile)
	}
	if logFile == "" {
		logFile = cfg.LogFile
	}
	if logFile != "" {
		fileHandler, closeLog, err := logring.OpenFile(config.ExpandPath(logFile), level)
		if err != nil {
			return err
		}
		defer closeLog()
		handlers = append(handlers, fileHandler)
	}
	logger := slog.New(handlers)
	slog.SetDefault(logger)

	hint, err := keyHint(args)
	if err != nil {
		return err
	}
	path := cfg.StorePath
	if len(args) == 2 {
		path = config.ExpandPath(args[1])
	}

	st, err := store.Open(path)
	if err != nil {
		if errors.Is(err, store.ErrLocked) {
			return fmt.Errorf("%s is open in another voidmap", path)
		}
		return err
	}
	defer st.Close()

	screen, err := st.Load(hint)
	if err != nil {
		if errors.Is(err, vault.ErrDecryptionFailed) {
			return fmt.Errorf("couldn't decrypt %s: wrong key hint or corrupted store", path)
		}
		return err
	}
	screen.SetLogger(logger)
	logger.Info("loaded", "path", path, "anchors", screen.Len())

	if importPDF != "" {
		doc, err := importer.FromPDF(importPDF)
		if err != nil {
			return err
		}
		at := importer.Below(screen)
		if _, err := doc.Graft(screen, at); err != nil {
			return err
		}
		logger.Info("imported pdf", "title", doc.Title, "items", len(doc.Items), "at", at.String())
	}

	opts := []tea.ProgramOption{tea.WithMouseCellMotion()}
	if !noAltScreen {
		opts = append(opts, tea.WithAltScreen())
	}
	program := tea.NewProgram(tui.New(tui.Config{
		Screen: screen,
		Ring:   ring,
		Logger: logger,
		Keys:   cfg.Keys,
		Saver:  st,
	}), opts...)
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("program error: %w", err)
	}

	wrote, err := st.Save(hint, screen)
	if err != nil {
		return err
	}
	logger.Info("exit", "saved", wrote)
	return nil
}

// keyHint takes the hint from the first argument or prompts for it.
func keyHint(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	stdin := int(os.Stdin.Fd())
	if !term.IsTerminal(stdin) {
		return "", &usageError{msg: "a key hint is required when stdin is not a terminal"}
	}
	fmt.Fprint(os.Stderr, "Key hint: ")
	hint, err := term.ReadPassword(stdin)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("reading key hint: %w", err)
	}
	return string(hint), nil
}

func printHelp(flagSet *pflag.FlagSet) {
	fmt.Fprintf(os.Stderr, `voidmap: a spatial outline editor for the terminal.

Click empty space to place a tree, click a label to select it, then use
Tab to add a child, Enter to fold, Delete to prune and type to edit.
Everything is encrypted with a key derived from the key hint and written
back to the store on exit.

Usage:
  voidmap [flags] <key-hint> [store-path]

The store path defaults to store_path from the configuration (~/.void.db).

Flags:
`)
	flagSet.SetOutput(os.Stderr)
	flagSet.PrintDefaults()
}
