package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/gin-gonic/gin"
	"github.com/go-kit/log"
	"github.com/mattn/go-isatty"

	"github.com/goliatone/go-accountform"
	"github.com/goliatone/go-accountform/internal/logging"
	"github.com/goliatone/go-accountform/pkg/config"
	"github.com/goliatone/go-accountform/pkg/form"
	"github.com/goliatone/go-accountform/pkg/prompt"
	"github.com/goliatone/go-accountform/pkg/web"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// errInvalid marks a check that found validation errors.
var errInvalid = errors.New("form is invalid")

// CLI is the top-level command structure for accountform.
type CLI struct {
	Version kong.VersionFlag `help:"Show version." short:"V"`
	Config  string           `help:"Config file layered over the defaults." type:"path" short:"c"`
	EnvFile string           `help:"Dotenv file loaded before environment overrides." default:".env" name:"env-file"`

	Serve  ServeCmd  `cmd:"" help:"Serve the account form over HTTP."`
	Prompt PromptCmd `cmd:"" help:"Fill in the account form from the terminal."`
	Check  CheckCmd  `cmd:"" help:"Validate values without submitting them."`
}

// ServeCmd runs the HTML front-end.
type ServeCmd struct {
	Listen string `help:"Listen address (overrides config)."`
}

// Run executes the serve command.
func (c *ServeCmd) Run(cli *CLI) error {
	cfg, err := loadConfig(cli)
	if err != nil {
		return fmt.Errorf("serve: %w", err)
	}
	if c.Listen != "" {
		cfg.Web.Listen = c.Listen
	}
	logger, err := newLogger(cfg, os.Stderr)
	if err != nil {
		return fmt.Errorf("serve: %w", err)
	}

	gin.SetMode(gin.ReleaseMode)
	handler, err := accountform.NewHandler(cfg, logger)
	if err != nil {
		return fmt.Errorf("serve: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := &web.Server{
		Addr:            cfg.Web.Listen,
		Handler:         handler,
		ShutdownTimeout: cfg.Web.ShutdownTimeout,
		Logger:          logger,
	}
	return srv.Run(ctx)
}

// PromptCmd runs the terminal front-end.
type PromptCmd struct{}

// Run executes the prompt command.
func (c *PromptCmd) Run(cli *CLI) error {
	if !isInteractive(os.Stdin) || !isInteractive(os.Stdout) {
		return errors.New("prompt: a terminal is required")
	}
	cfg, err := loadConfig(cli)
	if err != nil {
		return fmt.Errorf("prompt: %w", err)
	}
	logger, err := newLogger(cfg, os.Stderr)
	if err != nil {
		return fmt.Errorf("prompt: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	flow, err := prompt.NewFlow(
		prompt.NewSurveyDriver(os.Stdout),
		accountform.NewController(cfg, logger),
		prompt.WithHeading(cfg.Page.Heading),
		prompt.WithLogger(logger),
	)
	if err != nil {
		return err
	}
	outcome, err := flow.Run(ctx)
	if errors.Is(err, prompt.ErrAborted) {
		return nil
	}
	if err != nil {
		return err
	}
	if !outcome.Succeeded() {
		return errInvalid
	}
	return nil
}

// CheckCmd validates values offline.
type CheckCmd struct {
	Name string `help:"Full name." required:""`
	Age  string `help:"Age in years." required:""`
	File string `help:"Path to the profile picture." type:"path"`
}

// Run executes the check command.
func (c *CheckCmd) Run() error {
	return c.check(os.Stdout)
}

func (c *CheckCmd) check(w io.Writer) error {
	state := form.State{Name: c.Name, Age: c.Age}
	var fileErr error
	if c.File != "" {
		state.File, fileErr = form.AttachmentFromPath(c.File)
	}

	result := form.Validate(state)
	if result.Valid() {
		_, _ = fmt.Fprintln(w, "ok")
		return nil
	}
	for _, field := range result.Fields() {
		msg := result.Message(field)
		if field == form.FieldFile && fileErr != nil {
			msg = fileErr.Error()
		}
		_, _ = fmt.Fprintf(w, "%s: %s\n", field, msg)
	}
	return errInvalid
}

func loadConfig(cli *CLI) (*config.Config, error) {
	if err := config.LoadEnvFile(cli.EnvFile); err != nil {
		return nil, err
	}
	paths := append([]string{}, config.DefaultPaths...)
	if cli.Config != "" {
		paths = append(paths, cli.Config)
	}
	cfg, err := config.LoadLayered(paths...)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(cfg *config.Config, w io.Writer) (log.Logger, error) {
	return logging.New(w, logging.Options{
		Level:     cfg.Log.Level,
		Format:    logging.Format(cfg.Log.Format),
		Component: "accountform",
	})
}

func isInteractive(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func exitCode(err error) int {
	if errors.Is(err, errInvalid) {
		return 1
	}
	return 2
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("accountform"),
		kong.Description("Collect, validate and submit the account form."),
		kong.Vars{"version": version + " " + commit + " " + date},
	)
	ctx.Bind(&cli)
	err := ctx.Run()
	if err != nil {
		if !errors.Is(err, errInvalid) {
			fmt.Fprintf(os.Stderr, "error: %s\n", err)
		}
		os.Exit(exitCode(err))
	}
}
