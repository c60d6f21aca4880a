// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"
	"io"
	"math"
	"os"
	"os/user"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/elastic/gosigar"
	"github.com/ethereum/go-ethereum/common/fdlimit"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/sequencer/cmd/seqnode/solo"
	"github.com/vechain/sequencer/eventdb"
	"github.com/vechain/sequencer/genesis"
	"github.com/vechain/sequencer/grouping"
	"github.com/vechain/sequencer/log"
	"github.com/vechain/sequencer/lvldb"
	"github.com/vechain/sequencer/seq"
	"github.com/vechain/sequencer/staking"
	"github.com/vechain/sequencer/state"
	"github.com/vechain/sequencer/vrf"
)

func initLogger(ctx *cli.Context) error {
	lvl := ctx.Int(verbosityFlag.Name)
	if lvl < 0 || lvl > 5 {
		return errors.Errorf("invalid %s %d, 0-5 expected", verbosityFlag.Name, lvl)
	}
	var output io.Writer = os.Stderr
	if ctx.Bool(jsonLogsFlag.Name) {
		log.SetDefault(log.NewJSONHandler(output, log.FromVerbosity(lvl)))
		return nil
	}
	useColor := (isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())) && os.Getenv("TERM") != "dumb"
	log.SetDefault(log.NewTerminalHandler(output, log.FromVerbosity(lvl), useColor))
	return nil
}

func selectGenesis(ctx *cli.Context) (*genesis.Genesis, error) {
	path := ctx.String(genesisFlag.Name)
	if path == "" {
		return genesis.NewDevnet(), nil
	}
	gene, err := genesis.Load(path)
	if err != nil {
		return nil, errors.WithMessage(err, "load genesis")
	}
	return gene, nil
}

// copy from go-ethereum
func defaultDataDir() string {
	if home := homeDir(); home != "" {
		switch runtime.GOOS {
		case "darwin":
			return filepath.Join(home, "Library", "Application Support", "org.vechain.sequencer")
		case "windows":
			return filepath.Join(home, "AppData", "Roaming", "org.vechain.sequencer")
		default:
			return filepath.Join(home, ".org.vechain.sequencer")
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

func makeInstanceDir(ctx *cli.Context, gene *genesis.Genesis) (string, error) {
	dataDir := ctx.String(dataDirFlag.Name)
	if dataDir == "" {
		return "", errors.Errorf("unable to infer default data dir, use -%s to specify", dataDirFlag.Name)
	}
	instanceDir := filepath.Join(dataDir, fmt.Sprintf("instance-%x", gene.ID().Bytes()[24:]))
	if err := os.MkdirAll(instanceDir, 0700); err != nil {
		return "", errors.Wrapf(err, "create instance dir [%v]", instanceDir)
	}
	return instanceDir, nil
}

func openMainDB(ctx *cli.Context, instanceDir string) (*lvldb.LevelDB, error) {
	cacheMB := normalizeCacheSize(ctx.Int(cacheFlag.Name))
	logger.Debug("cache size(MB)", "size", cacheMB)

	// Ensure Go's GC ignores the database cache for trigger percentage
	gogc := math.Max(20, math.Min(100, 100/(float64(cacheMB)/1024)))
	logger.Debug("sanitize Go's GC trigger", "percent", int(gogc))
	debug.SetGCPercent(int(gogc))

	fdCache, err := suggestFDCache()
	if err != nil {
		return nil, err
	}
	logger.Debug("fd cache", "n", fdCache)

	dir := filepath.Join(instanceDir, "main.db")
	db, err := lvldb.New(dir, lvldb.Options{
		CacheSize:              cacheMB,
		OpenFilesCacheCapacity: fdCache,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "open main database [%v]", dir)
	}
	return db, nil
}

func normalizeCacheSize(sizeMB int) int {
	if sizeMB < 128 {
		sizeMB = 128
	}

	var mem gosigar.Mem
	if err := mem.Get(); err != nil {
		logger.Warn("failed to get total mem:", "err", err)
	} else {
		// limit to 1/2 os physical ram
		limitMB := int(mem.Total / 1024 / 1024 / 2)
		if sizeMB > limitMB {
			sizeMB = limitMB
			logger.Warn("cache size(MB) limited", "limit", limitMB)
		}
	}
	return sizeMB
}

func suggestFDCache() (int, error) {
	limit, err := fdlimit.Current()
	if err != nil {
		return 0, errors.Wrap(err, "get fd limit")
	}
	if limit <= 1024 {
		logger.Warn("low fd limit, increase it if possible", "limit", limit)
	}

	n := limit / 2
	if n > 5120 {
		return 5120, nil
	}
	return n, nil
}

// node holds the databases and the ledger of a running instance.
type node struct {
	instanceDir string
	mainDB      *lvldb.LevelDB
	eventDB     *eventdb.EventDB
	vrfKey      *vrf.PrivateKey
	ledger      *staking.Ledger
	groups      *grouping.Grouping
	head        *solo.Head
}

func openNode(ctx *cli.Context, gene *genesis.Genesis) (n *node, err error) {
	n = &node{instanceDir: "Memory"}
	defer func() {
		if err != nil {
			n.Close()
		}
	}()

	if ctx.Bool(persistFlag.Name) {
		if n.instanceDir, err = makeInstanceDir(ctx, gene); err != nil {
			return nil, err
		}
		if n.mainDB, err = openMainDB(ctx, n.instanceDir); err != nil {
			return nil, err
		}
		dir := filepath.Join(n.instanceDir, "events.db")
		if n.eventDB, err = eventdb.New(dir); err != nil {
			return nil, errors.Wrapf(err, "open event database [%v]", dir)
		}
		var generated bool
		file := filepath.Join(n.instanceDir, "vrf.key")
		if n.vrfKey, generated, err = vrf.LoadOrGenerateKey(file); err != nil {
			return nil, errors.Wrapf(err, "load vrf key [%v]", file)
		}
		if generated {
			logger.Info("generated vrf key", "file", file)
		}
	} else {
		if n.mainDB, err = lvldb.NewMem(); err != nil {
			return nil, errors.Wrap(err, "open main database")
		}
		if n.eventDB, err = eventdb.NewMem(); err != nil {
			return nil, errors.Wrap(err, "open event database")
		}
		if n.vrfKey, err = vrf.GenerateKey(); err != nil {
			return nil, err
		}
	}

	var rand grouping.Randomness = grouping.NewVRFRandomness(n.vrfKey)
	if ctx.Bool(hashRandomnessFlag.Name) {
		rand = grouping.HashRandomness{}
	}
	n.ledger, err = staking.New(n.mainDB, gene.StakingParams(), staking.WithGrouping(
		func(st *state.State, emit func(seq.Event), parent func() seq.Bytes32) staking.Grouping {
			n.groups = grouping.New(st, gene.GroupingParams(), rand, parent, emit)
			return n.groups
		}))
	if err != nil {
		return nil, errors.WithMessage(err, "open ledger")
	}
	n.head = solo.NewHead(n.mainDB)
	return n, nil
}

func (n *node) Close() {
	if n.ledger != nil {
		n.ledger.Close()
	}
	if n.eventDB != nil {
		logger.Info("closing event database...")
		if err := n.eventDB.Close(); err != nil {
			logger.Warn("failed to close event database", "err", err)
		}
	}
	if n.mainDB != nil {
		logger.Info("closing main database...")
		if err := n.mainDB.Close(); err != nil {
			logger.Warn("failed to close main database", "err", err)
		}
	}
}

// initGenesis builds the genesis state on first start.
func initGenesis(gene *genesis.Genesis, n *node) error {
	if _, ok, err := n.head.Get(); err != nil || ok {
		return err
	}
	if err := gene.Build(n.ledger, n.groups); err != nil {
		return errors.WithMessage(err, "build genesis")
	}
	if err := n.head.Set(solo.Block{Number: 0, ID: gene.ID()}); err != nil {
		return err
	}
	return n.ledger.Commit()
}

func printStartupMessage(gene *genesis.Genesis, n *node, apiURL, metricsURL string) {
	head, _, err := n.head.Get()
	if err != nil {
		logger.Warn("failed to get head", "err", err)
	}
	round, err := n.ledger.Round()
	if err != nil {
		logger.Warn("failed to get round", "err", err)
	}

	info := fmt.Sprintf(`Starting %v
    Network      [ %v %v ]
    Head block   [ %v #%v ]
    Round        [ %v first #%v length %v ]
    VRF key      [ 0x%x ]
    Instance dir [ %v ]
    API portal   [ %v ]
`,
		"seqnode "+fullVersion(),
		gene.ID(), gene.Name,
		head.ID, head.Number,
		round.Current, round.First, round.Length,
		n.vrfKey.PublicKey(),
		n.instanceDir,
		apiURL)
	if metricsURL != "" {
		info += fmt.Sprintf("    Metrics      [ %v ]\n", metricsURL)
	}
	if gene.Name == genesis.DevnetName {
		var rows []string
		for _, a := range genesis.DevAccounts() {
			rows = append(rows, fmt.Sprintf("    %v", a.Address))
		}
		info += "    Dev accounts\n" + strings.Join(rows, "\n") + "\n"
	}
	fmt.Print(info)
}
