package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/careops/bookd/app"
	"github.com/careops/bookd/config"
	"github.com/careops/bookd/infra/logger"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "bookd",
	Short: "Reservation assignment service",
	Long: `bookd assigns incoming reservation requests to providers slot by slot,
publishing placements, metrics and notifications as cycles complete.`,
	RunE: run,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "config.yaml", "configuration file")
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := logger.New("main")
	log.Infof("starting with config %s", cfgPath)

	svc, err := app.New(cfg)
	if err != nil {
		return fmt.Errorf("build service: %w", err)
	}
	defer func() {
		if cerr := svc.Close(); cerr != nil {
			log.Errorf("service close: %v", cerr)
		}
	}()
	return svc.Run(ctx)
}
