package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"apply-autofill/internal/di"
	"apply-autofill/internal/domain/entity"
	"apply-autofill/internal/infrastructure/config"
	"apply-autofill/internal/infrastructure/env"
)

const (
	exitFailure = 1
	exitAborted = 2
)

// flagKeys maps command-line flags onto configuration keys.
var flagKeys = map[string]string{
	"url":           "app.url",
	"profile":       "profile.path",
	"headless":      "browser.headless",
	"max-attempts":  "flow.max_attempts",
	"operator":      "operator.mode",
	"operator-addr": "operator.addr",
}

func newRootCmd() *cobra.Command {
	v := viper.New()
	config.SetDefaults(v)
	var cfgFile string

	cmd := &cobra.Command{
		Use:           "autofill",
		Short:         "Fill a multi-page job application from a YAML profile.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, v, cfgFile)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&cfgFile, "config", "c", "", "config file (default is ./config.yaml)")
	flags.String("url", "", "application start URL")
	flags.String("profile", "profile.yaml", "applicant profile YAML")
	flags.Bool("headless", false, "run the browser without a window")
	flags.Int("max-attempts", 10, "page passes before the operator is asked")
	flags.String("operator", config.OperatorConsole, "operator surface: console or http")
	flags.String("operator-addr", "127.0.0.1:8089", "listen address for the http operator")

	return cmd
}

// loadConfig layers dotenv files, the config file, AUTOFILL_* variables and
// explicitly set flags, in increasing precedence.
func loadConfig(cmd *cobra.Command, v *viper.Viper, cfgFile string) (*config.Config, error) {
	if _, err := env.NewEnvService("."); err != nil {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	if err := config.Bind(v, cfgFile); err != nil {
		return nil, err
	}
	for flag, key := range flagKeys {
		if err := v.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
			return nil, fmt.Errorf("failed to bind flag %s: %w", flag, err)
		}
	}
	return config.NewConfigFromViper(v)
}

func run(ctx context.Context, cfg *config.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	container, err := di.NewContainer(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}
	defer container.Close()

	if container.OperatorAddr != "" {
		fmt.Printf("Operator console: http://%s/escalation\n", container.OperatorAddr)
	}
	container.Logger.Info("Flow started", "url", cfg.App.URL, "profile", cfg.Profile.Path)

	result, err := container.Runner.Run(ctx, cfg.App.URL)
	if result != nil {
		printResult(result)
	}
	if err != nil {
		container.Logger.Error("Flow failed", "error", err)
		return err
	}
	container.Logger.Info("Flow completed", "run_id", result.RunID, "attempts", result.Attempts)
	return nil
}

func printResult(r *entity.FlowResult) {
	switch {
	case r.Submitted:
		color.New(color.FgGreen, color.Bold).Println("\nApplication submitted.")
	case r.Aborted:
		color.New(color.FgYellow, color.Bold).Println("\nAborted by operator.")
	default:
		color.New(color.FgRed, color.Bold).Println("\nApplication not submitted.")
	}
	fmt.Printf("run %s: %d attempts, %d escalations, last page %s\n",
		r.RunID, r.Attempts, r.Escalations, r.LastPageKind)
}

func exitCode(err error) int {
	fmt.Fprintln(os.Stderr, "Error:", err)
	if errors.Is(err, entity.ErrAborted) {
		return exitAborted
	}
	return exitFailure
}
