// ABOUTME: Entry point for the parley terminal messenger
// ABOUTME: `run` starts the interactive shell; `init` writes a starter config

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/fatih/color"

	"github.com/parley-im/parley/internal/access"
	"github.com/parley-im/parley/internal/auth"
	"github.com/parley-im/parley/internal/chat"
	"github.com/parley-im/parley/internal/config"
	"github.com/parley-im/parley/internal/directory"
	"github.com/parley-im/parley/internal/message"
	"github.com/parley-im/parley/internal/shell"
	"github.com/parley-im/parley/internal/store"
)

// Version is set by goreleaser at build time.
var version = "dev"

const banner = `
                     _
 _ __   __ _ _ __ __| | ___ _   _
| '_ \ / _' | '__/ _' |/ _ \ | | |
| |_) | (_| | |  | (_| |  __/ |_| |
| .__/ \__,_|_|   \__,_|\___|\__, |
|_|                          |___/
`

// getConfigPath returns the path to the parley config file.
// Priority: PARLEY_CONFIG env var > XDG_CONFIG_HOME/parley/parley.yaml > ~/.config/parley/parley.yaml
func getConfigPath() string {
	if envPath := os.Getenv("PARLEY_CONFIG"); envPath != "" {
		return envPath
	}

	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "parley.yaml" // fallback
		}
		configDir = filepath.Join(homeDir, ".config")
	}

	return filepath.Join(configDir, "parley", "parley.yaml")
}

// getPrefsPath returns the path to the optional shell preferences file.
func getPrefsPath() string {
	return filepath.Join(filepath.Dir(getConfigPath()), "shell.toml")
}

// getDataPath returns the default data directory for the message database.
// Priority: XDG_DATA_HOME/parley > ~/.local/share/parley
func getDataPath() string {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "data" // fallback
		}
		dataDir = filepath.Join(homeDir, ".local", "share")
	}

	return filepath.Join(dataDir, "parley")
}

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: parley <command>")
		fmt.Println()
		fmt.Println("Commands:")
		fmt.Println("  run     Start the interactive messenger shell")
		fmt.Println("  init    Create a new config file")
		fmt.Println("  version Print the version")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var err error
	switch os.Args[1] {
	case "run":
		err = runShell(ctx)
	case "init":
		err = runInit()
	case "version":
		fmt.Println(version)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		os.Exit(1)
	}

	if err != nil {
		color.Red("Error: %v", err)
		os.Exit(1)
	}
}

func runShell(ctx context.Context) error {
	cfg, err := config.Load(getConfigPath())
	if err != nil {
		return fmt.Errorf("loading config (run `parley init` first?): %w", err)
	}

	setupLogging(cfg.Logging)

	// Store-open failure at startup is the one fatal path
	st, err := store.NewSQLiteStore(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer st.Close()

	prefs, err := shell.LoadPrefs(getPrefsPath())
	if err != nil {
		return fmt.Errorf("loading shell prefs: %w", err)
	}

	logger := slog.Default()
	guard := access.New(st)
	dir := directory.New(st, logger)
	verifier := auth.NewJWTVerifier([]byte(cfg.Auth.SessionSecret))
	authp := auth.NewProvider(dir, verifier, cfg.Auth.SessionTTL, logger)
	chats := chat.New(st, guard, chat.MemberPolicy(cfg.Chats.MemberManagement), logger)
	messages := message.New(st, guard, cfg.Chats.PageSize, logger)

	fmt.Print(banner)
	sh := shell.New(os.Stdin, os.Stdout, authp, dir, chats, messages, prefs, logger)
	if err := sh.Run(ctx); err != nil && err != context.Canceled {
		return err
	}

	fmt.Println("Bye!")
	return nil
}

func runInit() error {
	configPath := getConfigPath()
	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("config already exists at %s", configPath)
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	content := fmt.Sprintf(`database:
  path: %s

auth:
  session_secret: ${PARLEY_SESSION_SECRET}
  session_ttl: 12h

chats:
  # "open" lets any user manage any chat's members (legacy behavior);
  # "owner" restricts member management to the chat creator.
  member_management: open
  page_size: 10

logging:
  level: info
  format: text
`, filepath.Join(getDataPath(), "parley.db"))

	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	green := color.New(color.FgGreen)
	green.Printf("Wrote %s\n", configPath)
	fmt.Println("Set PARLEY_SESSION_SECRET before running `parley run`.")
	return nil
}

// setupLogging installs the default slog logger per config.
func setupLogging(cfg config.LoggingConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	slog.SetDefault(slog.New(handler))
}
