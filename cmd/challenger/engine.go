package main

import (
	"fmt"
	"os"

	"github.com/bezalel6/computer-chess/pkg/bank"
	"github.com/bezalel6/computer-chess/pkg/config"
	"github.com/bezalel6/computer-chess/pkg/detector"
	"github.com/bezalel6/computer-chess/pkg/evaluation"
	"github.com/bezalel6/computer-chess/pkg/logging"
	"github.com/bezalel6/computer-chess/pkg/metrics"
	"github.com/bezalel6/computer-chess/pkg/selector"
	"github.com/bezalel6/computer-chess/pkg/session"
	"github.com/bezalel6/computer-chess/pkg/uci"
)

// startEvaluator launches the move evaluator. Tests replace it.
var startEvaluator = func(cfg config.EngineConf, logger logging.Logger) (evaluation.Evaluator, func() error, error) {
	pool, err := uci.NewPool(cfg.Path, cfg.PoolSize,
		uci.WithHash(cfg.Hash),
		uci.WithThreads(cfg.Threads),
		uci.WithLogger(logger),
	)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("engine pool started",
		logging.StringField("path", cfg.Path),
		logging.IntField("size", pool.Size()),
	)
	return pool, pool.Close, nil
}

func (a *app) aggregator(ev evaluation.Evaluator, rec metrics.Recorder) *evaluation.Aggregator {
	return evaluation.NewAggregator(ev,
		evaluation.WithBatchWidth(a.cfg.Engine.BatchWidth),
		evaluation.WithThinkTime(a.cfg.Engine.ThinkTime.Duration),
		evaluation.WithCallTimeout(a.cfg.Engine.CallTimeout.Duration),
		evaluation.WithLogger(a.logger),
		evaluation.WithMetrics(rec),
	)
}

// catalogue loads the bank with the configured overrides, a single
// file or every catalogue file of a directory.
func (a *app) catalogue() (*bank.Bank, error) {
	b := bank.New()
	path := a.cfg.Generation.Catalogue
	if path == "" {
		return b, nil
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalogue: %w", err)
	}
	if info.IsDir() {
		err = b.LoadDir(path)
	} else {
		err = b.LoadFile(path)
	}
	if err != nil {
		return nil, err
	}
	a.logger.Debug("catalogue loaded",
		logging.StringField("path", path),
		logging.IntField("sources", len(b.Sources())),
	)
	return b, nil
}

// detectors returns the enabled detectors, legacy ones included
// when configured.
func (a *app) detectors(b *bank.Bank) []detector.Detector {
	ds := detector.Catalogue()
	if a.cfg.Generation.IncludeLegacy {
		ds = append(ds, detector.Legacy()...)
	}
	return b.Detectors(ds)
}

func (a *app) selector(b *bank.Bank) *selector.Selector {
	g := a.cfg.Generation
	opts := []selector.Option{
		selector.WithDetectors(a.detectors(b)),
		selector.WithBounds(g.MinChallenges, g.MaxChallenges),
	}
	if g.Seed != 0 {
		opts = append(opts, selector.WithSeed(g.Seed))
	}
	return session.NewSelector(b, opts...)
}

// sessionOptions are the options every session of a command shares.
func (a *app) sessionOptions(b *bank.Bank, rec metrics.Recorder) []session.Option {
	return []session.Option{
		session.WithSelector(a.selector(b)),
		session.WithBank(b),
		session.WithCeiling(a.cfg.Generation.Ceiling.Duration),
		session.WithLogger(a.logger),
		session.WithMetrics(rec),
	}
}
