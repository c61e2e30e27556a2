package plugins

import (
	"github.com/careops/bookd/config"
	"github.com/careops/bookd/core/assign"
	"github.com/careops/bookd/core/assign/logging"
	"github.com/careops/bookd/core/factory"
	corenotify "github.com/careops/bookd/core/notify"
	infranotify "github.com/careops/bookd/infra/notify"
)

func init() {
	_ = RegisterAssigner(assign.StrategyILP, func(conf map[string]any) (assign.Assigner, error) {
		var ac assign.Config
		if err := factory.Decode(conf, &ac); err != nil {
			return nil, err
		}
		ac.SetDefaults()
		return assign.NewILPAssigner(ac.SolverTimeout(), ac.Tolerance), nil
	})
	_ = RegisterAssigner(assign.StrategyGreedy, func(map[string]any) (assign.Assigner, error) {
		return assign.NewGreedyAssigner(), nil
	})

	_ = RegisterLogStore("jsonl", func(conf map[string]any) (logging.LogStore, error) {
		lc, err := decodeLogging(conf)
		if err != nil {
			return nil, err
		}
		return logging.NewJSONLStore(lc.Path)
	})
	_ = RegisterLogStore("rotating", func(conf map[string]any) (logging.LogStore, error) {
		lc, err := decodeLogging(conf)
		if err != nil {
			return nil, err
		}
		return logging.NewRotatingJSONLStore(lc.Path, lc.MaxSizeMB, lc.MaxBackups, lc.MaxAgeDays)
	})
	_ = RegisterLogStore("sqlite", func(conf map[string]any) (logging.LogStore, error) {
		lc, err := decodeLogging(conf)
		if err != nil {
			return nil, err
		}
		return logging.NewSQLiteStore(lc.Path)
	})

	_ = RegisterNotifier("nop", func(map[string]any) (corenotify.Notifier, error) {
		return corenotify.NopNotifier{}, nil
	})
	_ = RegisterNotifier("mock", func(map[string]any) (corenotify.Notifier, error) {
		return infranotify.NewMockNotifier(), nil
	})
	_ = RegisterNotifier("mqtt", func(conf map[string]any) (corenotify.Notifier, error) {
		var nc infranotify.Config
		if err := factory.Decode(conf, &nc); err != nil {
			return nil, err
		}
		return infranotify.NewPahoNotifier(nc)
	})
}

func decodeLogging(conf map[string]any) (config.LoggingConfig, error) {
	var lc config.LoggingConfig
	if err := factory.Decode(conf, &lc); err != nil {
		return lc, err
	}
	lc.SetDefaults()
	return lc, nil
}
