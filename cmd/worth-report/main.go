// Command worth-report prints one leaderboard or the community summary
// and exits. It talks to the platform directly; no server is needed.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/okian/worthboard/internal/adapters/circle"
	service "github.com/okian/worthboard/internal/app"
	"github.com/okian/worthboard/internal/config"
	"github.com/okian/worthboard/pkg/logger"
)

const (
	tokenEnv = "CIRCLE_HEADLESS_TOKEN"
	emailEnv = "CIRCLE_EMAIL"
)

type globals struct {
	cfgFile    string
	token      string
	email      string
	jsonOutput bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	g := &globals{}
	root := &cobra.Command{
		Use:           "worth-report",
		Short:         "Rank community posts, people and events by worth",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&g.cfgFile, "config", "", "config file (default: $WORTHBOARD_CONFIG)")
	root.PersistentFlags().StringVar(&g.token, "token", os.Getenv(tokenEnv), "headless pre-token (default: $"+tokenEnv+")")
	root.PersistentFlags().StringVar(&g.email, "email", os.Getenv(emailEnv), "member email (default: $"+emailEnv+")")
	root.PersistentFlags().BoolVar(&g.jsonOutput, "json", false, "output as JSON")

	root.AddCommand(postsCmd(g))
	root.AddCommand(peopleCmd(g))
	root.AddCommand(eventsCmd(g))
	root.AddCommand(statsCmd(g))
	root.AddCommand(quickCmd(g))

	return root
}

// session is what every subcommand needs once setup is done.
type session struct {
	cfg  *config.Config
	svc  *service.Service
	cred circle.Credential
}

// connect loads config, initializes logging to stderr and authenticates.
func connect(ctx context.Context, g *globals) (*session, error) {
	if g.cfgFile != "" {
		if err := os.Setenv("WORTHBOARD_CONFIG", g.cfgFile); err != nil {
			return nil, err
		}
	}
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, err
	}
	if err := logger.Init(logger.WithFormat(cfg.LogFormat), logger.WithOutput(os.Stderr)); err != nil {
		return nil, err
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		_ = logger.SetLevelString("info")
	}
	if g.token == "" || g.email == "" {
		return nil, errors.New("--token and --email are required")
	}

	svc := service.FromConfig(cfg, logger.Get())
	cred, err := svc.Authenticate(ctx, g.token, g.email)
	if err != nil {
		return nil, fmt.Errorf("authenticate: %w", err)
	}
	return &session{cfg: cfg, svc: svc, cred: cred}, nil
}
