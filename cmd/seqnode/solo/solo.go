// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package solo packs blocks on a single node: it drives the round machinery of the ledger
// and credits block authorship points to the sequencers whose turn it is.
package solo

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/vechain/sequencer/grouping"
	"github.com/vechain/sequencer/log"
	"github.com/vechain/sequencer/metrics"
	"github.com/vechain/sequencer/seq"
	"github.com/vechain/sequencer/staking"
)

var logger = log.WithContext("pkg", "solo")

var (
	metricPackedBlocks  = metrics.LazyLoadCounter("solo_packed_blocks_count")
	metricPackDuration  = metrics.LazyLoadHistogram("solo_pack_duration_ms", metrics.Bucket10s)
	metricAwardFailures = metrics.LazyLoadCounter("solo_award_failures_count")
)

// DefaultPointsPerBlock is credited to each author of a block.
const DefaultPointsPerBlock seq.RewardPoint = 20

type Options struct {
	BlockInterval  time.Duration
	PointsPerBlock seq.RewardPoint
	// Blocks stops Run once that many blocks are packed. Zero packs until the context ends.
	Blocks uint32
	// OnPacked is called after each block is committed.
	OnPacked func(Block)
}

// Solo mode is the standalone block producer.
type Solo struct {
	ledger  *staking.Ledger
	groups  *grouping.Grouping
	head    *Head
	options Options
}

// New returns Solo instance
func New(ledger *staking.Ledger, groups *grouping.Grouping, head *Head, options Options) *Solo {
	if options.PointsPerBlock == 0 {
		options.PointsPerBlock = DefaultPointsPerBlock
	}
	return &Solo{ledger, groups, head, options}
}

// Run packs a block every BlockInterval until ctx is done or the block count is reached.
func (s *Solo) Run(ctx context.Context) error {
	logger.Info("prepared to pack block", "interval", s.options.BlockInterval)

	var packed uint32
	ticker := time.NewTicker(s.options.BlockInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			logger.Info("stopping interval packing service......")
			return nil
		case <-ticker.C:
			b, err := s.Pack()
			if err != nil {
				return errors.Wrap(err, "pack block")
			}
			if s.options.OnPacked != nil {
				s.options.OnPacked(b)
			}
			packed++
			if s.options.Blocks > 0 && packed >= s.options.Blocks {
				return nil
			}
		}
	}
}

// Pack packs and commits the block on top of the head.
func (s *Solo) Pack() (Block, error) {
	start := time.Now()

	parent, ok, err := s.head.Get()
	if err != nil {
		return Block{}, err
	}
	if !ok {
		return Block{}, errors.New("no head block, genesis not built")
	}
	number := parent.Number + 1

	if err := s.ledger.OnInitialize(number, parent.ID); err != nil {
		return Block{}, errors.Wrapf(err, "initialize block %d", number)
	}

	authors, err := s.Authors(number)
	if err != nil {
		return Block{}, err
	}
	for _, author := range authors {
		if err := s.ledger.AwardPoints(author, s.options.PointsPerBlock); err != nil {
			metricAwardFailures().Add(1)
			logger.Warn("failed to award points", "block", number, "author", author, "err", err)
		}
	}

	b := Block{Number: number, ID: NewBlockID(parent.ID, number, authors)}
	// the head goes first: a crash before the commit skips a number instead of replaying it
	if err := s.head.Set(b); err != nil {
		return Block{}, err
	}
	if err := s.ledger.Commit(); err != nil {
		return Block{}, errors.Wrapf(err, "commit block %d", number)
	}

	metricPackedBlocks().Add(1)
	metricPackDuration().Observe(time.Since(start).Milliseconds())
	logger.Debug("📦 new block packed", "number", number, "id", b.ID.AbbrevString(), "authors", len(authors))
	return b, nil
}

// Authors returns the sequencers authoring block number: the member whose turn it is in
// every group, or a single selected candidate in turn when no group is formed yet.
func (s *Solo) Authors(number seq.BlockNumber) ([]seq.Address, error) {
	var groups [][]seq.Address
	if err := s.ledger.Read(func() (err error) {
		groups, err = s.groups.Groups()
		return
	}); err != nil {
		return nil, err
	}

	var authors []seq.Address
	for _, group := range groups {
		if len(group) > 0 {
			authors = append(authors, group[int(number)%len(group)])
		}
	}
	if len(authors) > 0 {
		return authors, nil
	}

	selected, err := s.ledger.SelectedCandidates()
	if err != nil {
		return nil, err
	}
	if len(selected) == 0 {
		return nil, nil
	}
	return []seq.Address{selected[int(number)%len(selected)]}, nil
}
