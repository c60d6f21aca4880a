// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/sequencer/cmd/seqnode/solo"
	"github.com/vechain/sequencer/genesis"
)

func newContext(t *testing.T, dataDir string, persist bool) *cli.Context {
	set := flag.NewFlagSet("test", flag.ContinueOnError)
	set.String(dataDirFlag.Name, dataDir, "")
	set.Bool(persistFlag.Name, persist, "")
	set.Int(cacheFlag.Name, 128, "")
	set.Bool(hashRandomnessFlag.Name, false, "")
	set.String(genesisFlag.Name, "", "")
	return cli.NewContext(nil, set, nil)
}

func TestNormalizeCacheSize(t *testing.T) {
	assert.Equal(t, 128, normalizeCacheSize(1))
	assert.LessOrEqual(t, normalizeCacheSize(1<<30), 1<<30)
}

func TestSelectGenesis(t *testing.T) {
	gene, err := selectGenesis(newContext(t, "", false))
	require.NoError(t, err)
	assert.Equal(t, genesis.DevnetName, gene.Name)
}

func TestMemoryNode(t *testing.T) {
	gene := genesis.NewDevnet()
	n, err := openNode(newContext(t, "", false), gene)
	require.NoError(t, err)
	defer n.Close()
	assert.Equal(t, "Memory", n.instanceDir)

	require.NoError(t, initGenesis(gene, n))
	head, ok, err := n.head.Get()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, solo.Block{Number: 0, ID: gene.ID()}, head)

	// already built
	require.NoError(t, initGenesis(gene, n))
	total, err := n.ledger.Total()
	require.NoError(t, err)
	assert.Equal(t, uint64(2000), total)
}

func TestPersistentNode(t *testing.T) {
	dataDir := t.TempDir()
	gene := genesis.NewDevnet()

	n, err := openNode(newContext(t, dataDir, true), gene)
	require.NoError(t, err)
	require.NoError(t, initGenesis(gene, n))
	b, err := solo.New(n.ledger, n.groups, n.head, solo.Options{}).Pack()
	require.NoError(t, err)
	key := n.vrfKey.Bytes()
	n.Close()

	_, err = os.Stat(filepath.Join(n.instanceDir, "vrf.key"))
	require.NoError(t, err)

	// reopened with the same key and head
	n, err = openNode(newContext(t, dataDir, true), gene)
	require.NoError(t, err)
	defer n.Close()
	assert.Equal(t, key, n.vrfKey.Bytes())
	require.NoError(t, initGenesis(gene, n))
	head, _, err := n.head.Get()
	require.NoError(t, err)
	assert.Equal(t, b, head)
}
