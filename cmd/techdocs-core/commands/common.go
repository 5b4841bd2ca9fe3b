package commands

import (
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"git.home.luguber.info/inful/techdocs-core/internal/config"
	ferrors "git.home.luguber.info/inful/techdocs-core/internal/foundation/errors"
)

// defaultEnvFile is read when present; a missing default file is not an error.
const defaultEnvFile = ".env"

// Global is passed to every command's Run.
type Global struct {
	Logger *slog.Logger
	Stdout io.Writer
}

// CLI definition & global flags.
type CLI struct {
	Verbose bool   `short:"v" help:"Enable verbose logging"`
	EnvFile string `name:"env-file" default:".env" help:"Dotenv file layered under the process environment"`

	Compose ComposeCmd `cmd:"" help:"Compose an mkdocs configuration and print the result"`
	Watch   WatchCmd   `cmd:"" help:"Re-compose whenever the mkdocs configuration changes"`
	Preview PreviewCmd `cmd:"" help:"Render one markdown file with the composed extension set"`
	Version VersionCmd `cmd:"" help:"Show version and exit"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}

// Env returns the process environment layered over the env file. It is
// re-read on every call so watch mode picks up edits.
func (c *CLI) Env() (config.Env, error) {
	if c.EnvFile == "" {
		return config.OSEnv, nil
	}
	fileEnv, err := config.LoadEnvFile(c.EnvFile)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && c.EnvFile == defaultEnvFile {
			return config.OSEnv, nil
		}
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "failed to load env file").
			WithContext("path", c.EnvFile).
			Build()
	}
	return config.LayeredEnv{config.OSEnv, fileEnv}, nil
}

func (g *Global) stdout() io.Writer {
	if g == nil || g.Stdout == nil {
		return os.Stdout
	}
	return g.Stdout
}

func (g *Global) logger() *slog.Logger {
	if g == nil || g.Logger == nil {
		return slog.Default()
	}
	return g.Logger
}
