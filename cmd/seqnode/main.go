// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"
	"gopkg.in/cheggaaa/pb.v1"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/sequencer/api"
	"github.com/vechain/sequencer/cmd/seqnode/httpserver"
	"github.com/vechain/sequencer/cmd/seqnode/solo"
	"github.com/vechain/sequencer/health"
	"github.com/vechain/sequencer/log"
	"github.com/vechain/sequencer/metrics"
	"github.com/vechain/sequencer/seq"
)

var (
	version   string
	gitCommit string
	gitTag    string
	logger    = log.WithContext("pkg", "seqnode")
)

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta)
}

func main() {
	app := cli.App{
		Version:   fullVersion(),
		Name:      "seqnode",
		Usage:     "Standalone node of the sequencer staking ledger",
		Copyright: "2025 VeChain Foundation <https://vechain.org/>",
		Flags: []cli.Flag{
			genesisFlag,
			dataDirFlag,
			persistFlag,
			cacheFlag,
			apiAddrFlag,
			apiCorsFlag,
			apiTimeoutFlag,
			apiLogsLimitFlag,
			apiSlowQueriesThresholdFlag,
			enableAPILogsFlag,
			pprofFlag,
			verbosityFlag,
			jsonLogsFlag,
			enableMetricsFlag,
			metricsAddrFlag,
			blockIntervalFlag,
			blocksFlag,
			pointsFlag,
			hashRandomnessFlag,
		},
		Action: defaultAction,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func defaultAction(ctx *cli.Context) error {
	exitSignal := handleExitSignal()
	defer func() { logger.Info("exited") }()

	if err := initLogger(ctx); err != nil {
		return err
	}
	gene, err := selectGenesis(ctx)
	if err != nil {
		return err
	}

	metricsURL := ""
	if ctx.Bool(enableMetricsFlag.Name) {
		metrics.InitializePrometheusMetrics()
		url, closeFunc, err := httpserver.StartMetricsServer(ctx.String(metricsAddrFlag.Name))
		if err != nil {
			return err
		}
		defer func() { logger.Info("stopping metrics server..."); closeFunc() }()
		metricsURL = url
	}

	n, err := openNode(ctx, gene)
	if err != nil {
		return err
	}
	defer n.Close()

	// subscribed before genesis so its events get indexed too
	indexer := solo.NewIndexer(n.ledger, n.eventDB)
	if err := initGenesis(gene, n); err != nil {
		return err
	}

	blockInterval := time.Duration(ctx.Uint64(blockIntervalFlag.Name)) * time.Second
	nodeHealth := health.New(3 * blockInterval)
	apiHandler, apiCloser := api.New(n.ledger, n.groups, n.eventDB, nodeHealth, api.Options{
		AllowedOrigins:       ctx.String(apiCorsFlag.Name),
		PprofOn:              ctx.Bool(pprofFlag.Name),
		EnableReqLogger:      ctx.Bool(enableAPILogsFlag.Name),
		EnableMetrics:        ctx.Bool(enableMetricsFlag.Name),
		SlowQueriesThreshold: time.Duration(ctx.Uint64(apiSlowQueriesThresholdFlag.Name)) * time.Millisecond,
		LogsLimit:            ctx.Uint64(apiLogsLimitFlag.Name),
	})
	defer func() { logger.Info("closing subscriptions..."); apiCloser() }()

	apiURL, srvCloser, err := httpserver.StartAPIServer(
		ctx.String(apiAddrFlag.Name),
		apiHandler,
		time.Duration(ctx.Uint64(apiTimeoutFlag.Name))*time.Millisecond,
	)
	if err != nil {
		return err
	}
	defer func() { logger.Info("stopping API server..."); srvCloser() }()

	printStartupMessage(gene, n, apiURL, metricsURL)

	blocks := ctx.Uint64(blocksFlag.Name)
	opts := solo.Options{
		BlockInterval:  blockInterval,
		PointsPerBlock: seq.RewardPoint(ctx.Uint(pointsFlag.Name)),
		Blocks:         uint32(blocks),
		OnPacked:       func(b solo.Block) { nodeHealth.NewHead(b.Number, b.ID) },
	}
	if blocks > 0 {
		opts.BlockInterval = time.Millisecond
		bar := pb.New64(int64(blocks)).SetMaxWidth(90).Start()
		defer func() { bar.NotPrint = true }()
		opts.OnPacked = func(b solo.Block) {
			nodeHealth.NewHead(b.Number, b.ID)
			bar.Increment()
		}
	}
	if opts.BlockInterval <= 0 {
		return fmt.Errorf("invalid %s", blockIntervalFlag.Name)
	}

	runCtx, cancel := context.WithCancel(exitSignal)
	defer cancel()
	eg, egCtx := errgroup.WithContext(runCtx)
	eg.Go(func() error {
		return indexer.Run(egCtx)
	})
	if blocks == 0 {
		eg.Go(func() error {
			solo.WatchClock(egCtx, blockInterval)
			return nil
		})
	}
	eg.Go(func() error {
		// the indexer stops once the requested blocks are packed
		defer cancel()
		return solo.New(n.ledger, n.groups, n.head, opts).Run(egCtx)
	})
	return eg.Wait()
}

func handleExitSignal() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		exitSignalCh := make(chan os.Signal, 1)
		signal.Notify(exitSignalCh, os.Interrupt, syscall.SIGTERM)

		sig := <-exitSignalCh
		logger.Info("exit signal received", "signal", sig)
		cancel()
	}()
	return ctx
}
