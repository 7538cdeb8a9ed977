package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"staybook/internal/booking/bootstrap"
	"staybook/internal/session"
	"staybook/pkg/config"
	"staybook/pkg/logger"
)

const ServiceName = "staybook"

type env struct {
	cfg     *config.Config
	stack   *bootstrap.Stack
	session *session.Session
}

func main() {
	e := &env{}
	app := &cli.App{
		Name:  ServiceName,
		Usage: "search hotels and book rooms from the terminal",
		Before: func(c *cli.Context) error {
			return e.setup(c)
		},
		After: func(c *cli.Context) error {
			e.teardown(c)
			return nil
		},
		Commands: commands(e),
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// setup reads configuration like the gateway does, but logs to stderr so
// stdout stays machine readable.
func (e *env) setup(c *cli.Context) error {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to read .env: %w", err)
	}
	cfg := config.FromEnv(ServiceName)
	cfg.Log = logger.New(logger.Config{
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Output:  os.Stderr,
		Service: ServiceName,
	})
	if err := cfg.Validate(); err != nil {
		return err
	}

	stack, err := bootstrap.Build(c.Context, cfg, ServiceName)
	if err != nil {
		return err
	}
	e.cfg, e.stack = cfg, stack
	e.session = session.New(stack.Service, cfg.LocationDebounce, cfg.Log)
	return nil
}

func (e *env) teardown(c *cli.Context) {
	if e.session != nil {
		e.session.Close()
	}
	if e.stack != nil {
		e.stack.Close(c.Context, e.cfg)
	}
}
