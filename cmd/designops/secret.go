package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/jonwraymond/designops/health"
	"github.com/jonwraymond/designops/secret"
)

var errUnhealthy = errors.New("secret backend unhealthy")

func (c *cli) secretCmd() *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "secret",
		Short: "Resolve and store secrets",
	}
	cmd.PersistentFlags().BoolVar(&strict, "strict", false, "return backend failures instead of falling back to the environment")

	withResolver := func(run func(ctx context.Context, r *secret.Resolver, args []string) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			r, done, err := c.resolver(ctx, strict)
			if err != nil {
				return err
			}
			defer done()
			return run(ctx, r, args)
		}
	}

	var reveal bool
	var def string
	get := &cobra.Command{
		Use:   "get NAME",
		Short: "Resolve a secret (masked unless --reveal)",
		Args:  cobra.ExactArgs(1),
		RunE: withResolver(func(ctx context.Context, r *secret.Resolver, args []string) error {
			v, err := r.Get(ctx, args[0])
			if err != nil {
				return err
			}
			if v == "" {
				if def == "" {
					return fmt.Errorf("secret %q not found", args[0])
				}
				v = def
			}
			if !reveal {
				v = secret.Mask(v)
			}
			fmt.Fprintln(c.stdout, v)
			return nil
		}),
	}
	get.Flags().BoolVar(&reveal, "reveal", false, "print the value unmasked")
	get.Flags().StringVar(&def, "default", "", "value printed when the secret is not found")

	set := &cobra.Command{
		Use:   "set NAME VALUE",
		Short: "Store a secret in the backend",
		Args:  cobra.ExactArgs(2),
		RunE: withResolver(func(ctx context.Context, r *secret.Resolver, args []string) error {
			if err := r.Set(ctx, args[0], args[1]); err != nil {
				return err
			}
			color.New(color.FgGreen).Fprintf(c.stdout, "stored %s in %s\n", args[0], r.ProviderName())
			return nil
		}),
	}

	provider := &cobra.Command{
		Use:   "provider",
		Short: "Show the secret backend selected from the environment",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			cfg, err := secret.ConfigFromEnv(c.lookup)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.stdout, "provider: %s\n", cfg.Kind)
			switch cfg.Kind {
			case secret.KindAWS:
				fmt.Fprintf(c.stdout, "region: %s\n", cfg.AWSRegion)
			case secret.KindAzure:
				fmt.Fprintf(c.stdout, "vault: %s\n", cfg.AzureVaultURL)
			case secret.KindGCP:
				fmt.Fprintf(c.stdout, "project: %s\n", cfg.GCPProjectID)
			case secret.KindEnv:
				color.New(color.FgYellow).Fprintln(c.stdout, "warning: production-grade secret storage is not configured")
			}
			return nil
		},
	}

	var asJSON bool
	var timeout time.Duration
	check := &cobra.Command{
		Use:   "health",
		Short: "Check that the secret backend is reachable",
		Args:  cobra.NoArgs,
		RunE: withResolver(func(ctx context.Context, r *secret.Resolver, _ []string) error {
			agg := health.NewAggregator(health.AggregatorConfig{Timeout: timeout})
			agg.Register(secret.HealthCheckName, secret.NewHealthChecker(r))
			report := agg.CheckAll(ctx)

			if asJSON {
				enc := json.NewEncoder(c.stdout)
				enc.SetIndent("", "  ")
				if err := enc.Encode(report); err != nil {
					return err
				}
			} else {
				printReport(c, report)
			}
			if report.Status == health.StatusUnhealthy {
				return errUnhealthy
			}
			return nil
		}),
	}
	check.Flags().BoolVar(&asJSON, "json", false, "print the report as JSON")
	check.Flags().DurationVar(&timeout, "timeout", 10*time.Second, "overall check timeout")

	render := &cobra.Command{
		Use:   "render FILE",
		Short: "Expand secretref: references in a dotenv file",
		Args:  cobra.ExactArgs(1),
		RunE: withResolver(func(ctx context.Context, r *secret.Resolver, args []string) error {
			vals, err := godotenv.Read(args[0])
			if err != nil {
				return err
			}
			expanded, err := r.ExpandMap(ctx, vals)
			if err != nil {
				return err
			}
			out, err := godotenv.Marshal(expanded)
			if err != nil {
				return err
			}
			fmt.Fprintln(c.stdout, out)
			return nil
		}),
	}

	cmd.AddCommand(get, set, provider, check, render)
	return cmd
}

// resolver builds a Resolver from the environment with telemetry attached.
func (c *cli) resolver(ctx context.Context, strict bool) (*secret.Resolver, func(), error) {
	cfg, err := secret.ConfigFromEnv(c.lookup)
	if err != nil {
		return nil, nil, err
	}
	if strict {
		cfg.FailurePolicy = secret.PolicyStrict
	}

	mw, shutdown, err := c.telemetry(ctx)
	if err != nil {
		return nil, nil, err
	}
	r, err := secret.New(ctx, cfg, secret.WithMiddleware(mw))
	if err != nil {
		_ = shutdown(ctx)
		return nil, nil, err
	}
	return r, func() {
		_ = r.Close()
		_ = shutdown(context.WithoutCancel(ctx))
	}, nil
}

func printReport(c *cli, report health.Report) {
	for name, res := range report.Checks {
		statusColor(res.Status).Fprintf(c.stdout, "%s: %s", name, res.Status)
		if res.Message != "" {
			fmt.Fprintf(c.stdout, " (%s)", res.Message)
		}
		fmt.Fprintln(c.stdout)
		if res.Error != nil {
			fmt.Fprintf(c.stdout, "  error: %v\n", res.Error)
		}
	}
	statusColor(report.Status).Fprintf(c.stdout, "overall: %s\n", report.Status)
}

func statusColor(s health.Status) *color.Color {
	switch s {
	case health.StatusHealthy:
		return color.New(color.FgGreen)
	case health.StatusDegraded:
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgRed, color.Bold)
	}
}
