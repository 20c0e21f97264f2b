// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"os/user"
	"path/filepath"
	"runtime"
	"syscall"
	"time"

	"github.com/beevik/ntp"
	"github.com/elastic/gosigar"
	"github.com/ethereum/go-ethereum/common"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/bounty/eventdb"
	"github.com/vechain/bounty/genesis"
	"github.com/vechain/bounty/log"
	"github.com/vechain/bounty/lvldb"
	"github.com/vechain/bounty/thor"
)

// maxClockOffset is the drift from network time tolerated before warning.
const maxClockOffset = 5 * time.Second

func initLogger(ctx *cli.Context) *slog.LevelVar {
	logLevel := new(slog.LevelVar)
	logLevel.Set(log.FromLegacyLevel(int(ctx.Uint64(verbosityFlag.Name))))

	var handler slog.Handler
	if ctx.Bool(jsonLogsFlag.Name) {
		handler = log.JSONHandlerWithLevel(os.Stderr, logLevel)
	} else {
		useColor := (isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())) && os.Getenv("TERM") != "dumb"
		handler = log.NewTerminalHandlerWithLevel(os.Stderr, logLevel, useColor)
	}
	log.SetHandler(handler)
	return logLevel
}

func defaultDataDir() string {
	if home := homeDir(); home != "" {
		switch runtime.GOOS {
		case "darwin":
			return filepath.Join(home, "Library", "Application Support", "org.vechain.bounty")
		case "windows":
			return filepath.Join(home, "AppData", "Roaming", "org.vechain.bounty")
		default:
			return filepath.Join(home, ".org.vechain.bounty")
		}
	}
	return ""
}

func homeDir() string {
	if home := os.Getenv("HOME"); home != "" {
		return home
	}
	if usr, err := user.Current(); err == nil {
		return usr.HomeDir
	}
	return ""
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

// loadGenesis selects the genesis. Solo mode, which runs the dev genesis, reports true.
func loadGenesis(ctx *cli.Context) (*genesis.Genesis, bool, error) {
	var (
		gen  *genesis.Genesis
		solo bool
	)
	if path := ctx.String(genesisFlag.Name); path != "" {
		var err error
		if gen, err = genesis.Load(path); err != nil {
			return nil, false, err
		}
	} else {
		gen, solo = genesis.NewDevnet(), true
	}

	if str := ctx.String(feeRecipientFlag.Name); str != "" {
		addr, err := thor.ParseAddress(str)
		if err != nil {
			return nil, false, errors.WithMessage(err, feeRecipientFlag.Name)
		}
		gen.FeeRecipient = &addr
	}
	return gen, solo, nil
}

func makeInstanceDir(ctx *cli.Context, gen *genesis.Genesis) (string, error) {
	dataDir := ctx.String(dataDirFlag.Name)
	if dataDir == "" {
		return "", fmt.Errorf("unable to infer default data dir, use -%s to specify", dataDirFlag.Name)
	}
	name := gen.Name
	if name == "" {
		name = "custom"
	}
	factory := gen.FactoryAddress()
	instanceDir := filepath.Join(dataDir, fmt.Sprintf("instance-%s-%x", name, factory.Bytes()[16:]))
	if err := os.MkdirAll(instanceDir, 0o700); err != nil {
		return "", errors.Wrapf(err, "create data dir [%v]", instanceDir)
	}
	return instanceDir, nil
}

// normalizeCacheSize limits the cache to half of the physical memory.
func normalizeCacheSize(sizeMB int) int {
	if sizeMB < 128 {
		sizeMB = 128
	}

	var mem gosigar.Mem
	if err := mem.Get(); err != nil {
		logger.Warn("failed to get total mem:", "err", err)
	} else {
		limitMB := int(mem.Total / 1024 / 1024 / 2)
		if sizeMB > limitMB {
			sizeMB = limitMB
			logger.Warn("cache size(MB) limited", "limit", limitMB)
		}
	}
	return sizeMB
}

// stateCacheEntries converts a cache budget into a number of cached state entries.
func stateCacheEntries(cacheMB int) int {
	// entries are small rlp values, 256 bytes on average
	return cacheMB * 1024 * 1024 / 2 / 256
}

func openMainDB(instanceDir string, cacheMB int) (*lvldb.LevelDB, error) {
	dir := filepath.Join(instanceDir, "main.db")
	db, err := lvldb.New(dir, lvldb.Options{
		CacheSize:              cacheMB / 2,
		OpenFilesCacheCapacity: 512,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "open main database [%v]", dir)
	}
	return db, nil
}

func openEventDB(instanceDir string) (*eventdb.EventDB, error) {
	dir := filepath.Join(instanceDir, "events.db")
	db, err := eventdb.New(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "open event database [%v]", dir)
	}
	return db, nil
}

func checkClockOffset() {
	resp, err := ntp.Query("pool.ntp.org")
	if err != nil {
		logger.Debug("failed to access NTP", "err", err)
		return
	}
	offset := resp.ClockOffset
	if offset < 0 {
		offset = -offset
	}
	if offset > maxClockOffset {
		logger.Warn("clock offset detected", "offset", common.PrettyDuration(resp.ClockOffset))
	}
}

func printStartupMessage(gen *genesis.Genesis, solo bool, instanceDir, apiURL, metricsURL, adminURL string) {
	mode := "node"
	if solo {
		mode = "solo"
	}
	feeRecipient := "none"
	if gen.FeeRecipient != nil {
		feeRecipient = gen.FeeRecipient.String()
	}
	if metricsURL == "" {
		metricsURL = "Disabled"
	}
	if adminURL == "" {
		adminURL = "Disabled"
	}
	fmt.Printf(`Starting %v
    Mode          [ %v %v ]
    Factory       [ %v ]
    Fee recipient [ %v ]
    Instance dir  [ %v ]
    API portal    [ %v ]
    Metrics       [ %v ]
    Admin         [ %v ]
`,
		fullVersion(),
		mode, gen.Name,
		gen.FactoryAddress(),
		feeRecipient,
		instanceDir,
		apiURL,
		metricsURL,
		adminURL)

	if solo {
		fmt.Println("    Dev accounts (faucet is the first):")
		for _, acc := range gen.Accounts {
			fmt.Printf("        %v\n", acc.Address)
		}
	}
}
