package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/jonwraymond/designops/observe"
	"github.com/jonwraymond/designops/secret"
)

const (
	serviceName = "designops"
	version     = "0.1.0"
)

type cli struct {
	stdout, stderr io.Writer

	envFile         string
	logLevel        string
	traceExporter   string
	metricsExporter string

	// base reads the process environment; lookup layers the env file on top.
	base   secret.LookupFunc
	lookup secret.LookupFunc
}

// newRootCmd builds the command tree. A nil lookup reads the process
// environment.
func newRootCmd(stdout, stderr io.Writer, lookup secret.LookupFunc) *cobra.Command {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	c := &cli{stdout: stdout, stderr: stderr, base: lookup, lookup: lookup}

	root := &cobra.Command{
		Use:           serviceName,
		Short:         "Secret resolution and scene specification tooling",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return c.loadEnvFile()
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	flags := root.PersistentFlags()
	flags.StringVar(&c.envFile, "env-file", "", "dotenv file read before the environment is consulted")
	flags.StringVar(&c.logLevel, "log-level", "warn", "log level: debug|info|warn|error")
	flags.StringVar(&c.traceExporter, "trace-exporter", "none", "trace exporter: otlp|stdout|none")
	flags.StringVar(&c.metricsExporter, "metrics-exporter", "none", "metrics exporter: otlp|prometheus|stdout|none")

	root.AddCommand(c.secretCmd(), c.sceneCmd())
	return root
}

// loadEnvFile layers the dotenv file under the process environment:
// variables already set keep their values.
func (c *cli) loadEnvFile() error {
	if c.envFile == "" {
		return nil
	}
	vals, err := godotenv.Read(c.envFile)
	if err != nil {
		return fmt.Errorf("read env file: %w", err)
	}
	base := c.base
	c.lookup = func(key string) (string, bool) {
		if v, ok := base(key); ok {
			return v, true
		}
		v, ok := vals[key]
		return v, ok
	}
	return nil
}

// telemetry builds the middleware for backend calls and a shutdown func.
func (c *cli) telemetry(ctx context.Context) (*observe.Middleware, func(context.Context) error, error) {
	obs, err := observe.NewObserver(ctx, observe.Config{
		ServiceName: serviceName,
		Version:     version,
		Tracing: observe.TracingConfig{
			Enabled:   c.traceExporter != "" && c.traceExporter != "none",
			Exporter:  c.traceExporter,
			SamplePct: 1,
		},
		Metrics: observe.MetricsConfig{
			Enabled:  c.metricsExporter != "" && c.metricsExporter != "none",
			Exporter: c.metricsExporter,
		},
		Logging: observe.LoggingConfig{Enabled: true, Level: c.logLevel},
		Writer:  c.stderr,
	})
	if err != nil {
		return nil, nil, err
	}
	mw, err := observe.MiddlewareFromObserver(obs)
	if err != nil {
		return nil, nil, errors.Join(err, obs.Shutdown(ctx))
	}
	return mw, obs.Shutdown, nil
}
