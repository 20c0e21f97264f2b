// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/bounty/api"
	"github.com/vechain/bounty/api/admin"
	"github.com/vechain/bounty/cmd/bounty/httpserver"
	"github.com/vechain/bounty/co"
	"github.com/vechain/bounty/eventdb"
	"github.com/vechain/bounty/log"
	"github.com/vechain/bounty/lvldb"
	"github.com/vechain/bounty/metrics"
	"github.com/vechain/bounty/runtime"
	"github.com/vechain/bounty/state"
)

const apiBodyLimit = 200 * 1024

var (
	version   string
	gitCommit string
	gitTag    string
	logger    = log.WithContext("pkg", "main")
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
		Name:      "Bounty",
		Usage:     "Crowd-funded bounty node",
		Copyright: "2018 VeChain Foundation <https://vechain.org/>",
		Flags: []cli.Flag{
			dataDirFlag,
			persistFlag,
			genesisFlag,
			feeRecipientFlag,
			cacheFlag,
			apiAddrFlag,
			apiCorsFlag,
			apiBacktraceLimitFlag,
			apiEventsLimitFlag,
			apiSlowQueriesThresholdFlag,
			enableAPILogsFlag,
			verbosityFlag,
			jsonLogsFlag,
			enableMetricsFlag,
			metricsAddrFlag,
			enableAdminFlag,
			adminAddrFlag,
			ntpCheckFlag,
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

	logLevel := initLogger(ctx)
	if ctx.Bool(enableMetricsFlag.Name) {
		metrics.InitializePrometheusMetrics()
	}

	gen, solo, err := loadGenesis(ctx)
	if err != nil {
		return err
	}

	cacheMB := normalizeCacheSize(int(ctx.Uint64(cacheFlag.Name)))
	logger.Debug("cache size(MB)", "size", cacheMB)

	var (
		mainDB      *lvldb.LevelDB
		eventDB     *eventdb.EventDB
		instanceDir string
	)
	if ctx.Bool(persistFlag.Name) {
		if instanceDir, err = makeInstanceDir(ctx, gen); err != nil {
			return err
		}
		if mainDB, err = openMainDB(instanceDir, cacheMB); err != nil {
			return err
		}
		if eventDB, err = openEventDB(instanceDir); err != nil {
			mainDB.Close()
			return err
		}
	} else {
		instanceDir = "Memory"
		if mainDB, err = lvldb.NewMem(); err != nil {
			return errors.Wrap(err, "open main database")
		}
		if eventDB, err = eventdb.NewMem(); err != nil {
			mainDB.Close()
			return errors.Wrap(err, "open event database")
		}
	}
	defer func() { logger.Info("closing main database..."); mainDB.Close() }()
	defer func() { logger.Info("closing event database..."); eventDB.Close() }()

	stater := state.NewStater(mainDB, stateCacheEntries(cacheMB))
	if _, err := gen.Apply(stater); err != nil {
		return errors.WithMessage(err, "apply genesis")
	}

	rt := runtime.New(runtime.Config{
		Stater:  stater,
		EventDB: eventDB,
		Factory: gen.FactoryAddress(),
	})

	apiLogs := &atomic.Bool{}
	apiLogs.Store(ctx.Bool(enableAPILogsFlag.Name))
	opts := api.Options{
		AllowedOrigins:       ctx.String(apiCorsFlag.Name),
		BacktraceLimit:       ctx.Uint64(apiBacktraceLimitFlag.Name),
		EventsLimit:          ctx.Uint64(apiEventsLimitFlag.Name),
		EnableReqLogger:      apiLogs,
		SlowQueriesThreshold: time.Duration(ctx.Uint64(apiSlowQueriesThresholdFlag.Name)) * time.Millisecond,
		EnableMetrics:        ctx.Bool(enableMetricsFlag.Name),
	}
	if solo {
		if faucet, ok := gen.Faucet(); ok {
			opts.Faucet = &faucet
		}
	}
	apiHandler, apiCloser := api.New(rt, opts)
	defer func() { logger.Info("closing API..."); apiCloser() }()

	apiURL, srvCloser, err := httpserver.StartAPIServer(ctx.String(apiAddrFlag.Name), apiHandler, apiBodyLimit)
	if err != nil {
		return err
	}
	defer func() { logger.Info("stopping API server..."); srvCloser() }()

	var metricsURL string
	if ctx.Bool(enableMetricsFlag.Name) {
		url, closeFunc, err := httpserver.StartMetricsServer(ctx.String(metricsAddrFlag.Name))
		if err != nil {
			return errors.WithMessage(err, "start metrics server")
		}
		defer func() { logger.Info("stopping metrics server..."); closeFunc() }()
		metricsURL = url
	}

	var adminURL string
	if ctx.Bool(enableAdminFlag.Name) {
		url, closeFunc, err := admin.New(logLevel, apiLogs, eventDB).Start(ctx.String(adminAddrFlag.Name))
		if err != nil {
			return errors.WithMessage(err, "start admin server")
		}
		defer func() { logger.Info("stopping admin server..."); closeFunc() }()
		adminURL = url
	}

	printStartupMessage(gen, solo, instanceDir, apiURL, metricsURL, adminURL)

	var goes co.Goes
	if ctx.Bool(ntpCheckFlag.Name) {
		goes.Go(func(stopCtx context.Context) error {
			ticker := time.NewTicker(10 * time.Minute)
			defer ticker.Stop()
			for {
				checkClockOffset()
				select {
				case <-stopCtx.Done():
					return nil
				case <-ticker.C:
				}
			}
		})
	}
	<-exitSignal.Done()
	return goes.Stop()
}
