package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/careops/bookd/app/plugins"
	"github.com/careops/bookd/config"
	"github.com/careops/bookd/core/assign"
	"github.com/careops/bookd/core/factory"
	"github.com/careops/bookd/core/slotplan"
	"github.com/careops/bookd/infra/logger"
	"github.com/careops/bookd/intake"
	"github.com/careops/bookd/pkg/export"
)

var solveFormat string

var solveCmd = &cobra.Command{
	Use:   "solve [cycle file]",
	Short: "Assign one reservation cycle from a JSON file",
	Long: `Solve reads a cycle file holding the same JSON payload the intake
endpoint accepts, assigns it against the configured providers and writes the
placements to stdout.`,
	Args: cobra.ExactArgs(1),
	RunE: runSolve,
}

func init() {
	solveCmd.Flags().StringVarP(&solveFormat, "format", "f", "json", "output format: json or csv")
	rootCmd.AddCommand(solveCmd)
}

func runSolve(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logg := logger.New("solve-command")
	providers, categories, err := cfg.Roster()
	if err != nil {
		return err
	}
	plan, err := slotplan.New(cfg.Slots)
	if err != nil {
		return fmt.Errorf("slot plan: %w", err)
	}

	assigner, err := plugins.NewAssigner(cfg.AssignerModule())
	if err != nil {
		return fmt.Errorf("assigner: %w", err)
	}
	var fallback assign.Assigner
	if cfg.Assign.Fallback && cfg.Assign.Strategy != assign.StrategyGreedy {
		if fallback, err = plugins.NewAssigner(factory.ModuleConfig{Type: assign.StrategyGreedy}); err != nil {
			return fmt.Errorf("fallback assigner: %w", err)
		}
	}
	manager, err := assign.NewManager(providers, categories, assigner, fallback, nil, nil, logg)
	if err != nil {
		return fmt.Errorf("assignment manager: %w", err)
	}
	defer func() {
		if err := manager.Close(); err != nil {
			logg.Errorf("manager close: %v", err)
		}
	}()

	raw, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read cycle file: %w", err)
	}
	var req intake.CycleRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return fmt.Errorf("parse cycle file: %w", err)
	}
	if err := req.Validate(); err != nil {
		return fmt.Errorf("invalid cycle: %w", err)
	}
	cycle, err := req.ToModel(plan)
	if err != nil {
		return fmt.Errorf("invalid cycle: %w", err)
	}

	res, err := manager.Process(ctx, cycle)
	if err != nil {
		return err
	}
	logg.Infof("cycle %s solved with %s: %d placed, %d unassigned",
		res.CycleID, res.Strategy, res.Placed(), len(res.Unassigned))

	rows := export.FromResult(cycle, res)
	switch solveFormat {
	case "json":
		return export.WriteJSON(cmd.OutOrStdout(), rows)
	case "csv":
		return export.WriteCSV(cmd.OutOrStdout(), rows)
	default:
		return fmt.Errorf("unknown format %q", solveFormat)
	}
}
