// Package root holds the habitquest cobra commands.
package root

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/forgo/habitquest/internal/app"
	"github.com/forgo/habitquest/internal/config"
	"github.com/forgo/habitquest/internal/service"
	"github.com/forgo/habitquest/internal/ui"
)

const Version = "0.1.0"

var (
	configPath string
	ownerFlag  string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:           "habitquest",
	Short:         "HabitQuest: habit tracking with levels, streaks and achievements",
	Long:          "HabitQuest tracks daily habits and scores them with XP, streak multipliers and achievements. It runs as an HTTP service or straight from the terminal.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	rootCmd.Version = Version
	rootCmd.SetVersionTemplate("{{.Name}} v{{.Version}}\n")

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default $HABITQUEST_CONFIG)")
	rootCmd.PersistentFlags().StringVarP(&ownerFlag, "owner", "o", "", "Player id (default auth.default_owner)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log at debug level")

	rootCmd.AddCommand(
		newServeCmd(),
		newHabitCmd(),
		newToggleCmd(),
		newStatusCmd(),
		newAchievementsCmd(),
		newChallengesCmd(),
		newAPIKeyCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, ui.Bad.Render(ui.IconError+" "+err.Error()))
		os.Exit(1)
	}
}

// loadConfig reads and validates configuration
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// session is one player's controller for a single terminal command
type session struct {
	app        *app.App
	controller *service.Controller
}

// openSession builds the app without starting background work and loads
// the player's controller. Terminal commands log warnings only unless
// --verbose is set.
func openSession(ctx context.Context) (*session, func(), error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	logger, err := app.NewLogger(cfg.Log)
	if err != nil {
		return nil, nil, err
	}
	logger.SetLevel(logrus.WarnLevel)
	if verbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	owner := ownerFlag
	if owner == "" {
		owner = cfg.Auth.DefaultOwner
	}
	c, err := a.Registry.Get(ctx, owner)
	if err != nil {
		a.Close()
		return nil, nil, err
	}

	cleanup := func() {
		if err := c.Flush(context.Background()); err != nil {
			logger.WithError(err).Warn("cache flush failed")
		}
		a.Close()
	}
	return &session{app: a, controller: c}, cleanup, nil
}

// printNotices writes the notices a command produced
func printNotices(cmd *cobra.Command, notices []service.Notice) {
	for _, n := range notices {
		fmt.Fprintln(cmd.OutOrStdout(), ui.Notice(string(n.Kind), n.Message))
	}
}
