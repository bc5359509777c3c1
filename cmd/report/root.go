package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	app "github.com/okian/cfinsight/internal/app"
	"github.com/okian/cfinsight/internal/config"
	model "github.com/okian/cfinsight/internal/domain/model"
	"github.com/okian/cfinsight/pkg/logger"
)

// analyzer is the slice of the service the commands use.
type analyzer interface {
	Analyze(ctx context.Context, handle string) (app.Report, error)
	Compare(ctx context.Context, a, b string) (app.HeadToHead, error)
	Coach(ctx context.Context, sessionID, handle string) (string, error)
	ProblemURL(sub model.Submission) string
}

type builder func(ctx context.Context) (analyzer, error)

// buildService loads configuration the same way the server does. Logs go
// to stderr so stdout carries only the report.
func buildService(ctx context.Context) (analyzer, error) {
	if err := logger.InitWithWriter(os.Stderr); err != nil {
		return nil, err
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := logger.SetFormat(cfg.LogFormat); err != nil {
		return nil, err
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		return nil, err
	}
	return app.FromConfig(ctx, cfg, logger.Get())
}

func newRootCmd(build builder) *cobra.Command {
	root := &cobra.Command{
		Use:           "report",
		Short:         "Codeforces analytics in the terminal",
		Long:          "report fetches a handle's profile and submissions and prints the same figures the dashboard shows.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.AddCommand(newProfileCmd(build))
	root.AddCommand(newCompareCmd(build))
	root.AddCommand(newCoachCmd(build))
	return root
}
