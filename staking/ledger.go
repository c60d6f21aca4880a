// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package staking is the sequencer staking ledger. Candidates bond the asset and lock native
// tokens, delegators back them, and every round the best backed candidates are selected and
// later paid from the round reward.
package staking

import (
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/event"
	"github.com/pkg/errors"

	"github.com/vechain/sequencer/balances"
	"github.com/vechain/sequencer/kv"
	"github.com/vechain/sequencer/log"
	"github.com/vechain/sequencer/seq"
	"github.com/vechain/sequencer/state"
)

var logger = log.WithContext("pkg", "staking")

// AssetName names the asset stakes are denominated in.
const AssetName = "btc"

// Grouping assigns the selected sequencers of a round to groups.
type Grouping interface {
	TriggerGroup(candidates []seq.Address, startingBlock seq.BlockNumber, round seq.RoundIndex) error
	TotalSelected() (uint32, error)
}

// GroupingFactory builds the grouping over the ledger's state. Events passed to emit are
// recorded with the ones of the ledger call in progress, and parent returns the parent id of
// the block being processed. Both are only valid inside ledger calls.
type GroupingFactory func(st *state.State, emit func(seq.Event), parent func() seq.Bytes32) Grouping

// Hooks are the pluggable policies of the ledger. A nil hook falls back to its default.
// Hooks run inside ledger calls and must not call the Ledger's exported methods.
type Hooks struct {
	// OnNewRound runs when a round starts. Default: nothing.
	OnNewRound func(round seq.RoundIndex) error
	// PayoutSequencerReward pays a sequencer. Default: native transfer from the staking account.
	PayoutSequencerReward func(round seq.RoundIndex, account seq.Address, amount uint64) error
	// OnSequencerPayout runs after a sequencer got paid. Default: nothing.
	OnSequencerPayout func(round seq.RoundIndex, account seq.Address, amount uint64) error
	// OnInactiveSequencer handles a sequencer notified as inactive. Default: take it offline.
	OnInactiveSequencer func(account seq.Address, round seq.RoundIndex) error
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithGrouping sets the grouping collaborator.
func WithGrouping(f GroupingFactory) Option {
	return func(l *Ledger) { l.newGrouping = f }
}

// WithHooks overrides the default hooks.
func WithHooks(h Hooks) Option {
	return func(l *Ledger) { l.hooks = h }
}

// Record is an event with its position in the chain.
type Record struct {
	Block seq.BlockNumber
	// Index is the position of the event within the block.
	Index uint32
	Event seq.Event
}

// Ledger is the staking state machine. All calls are serialized, and a call that fails
// leaves neither state changes nor events behind.
type Ledger struct {
	mu sync.Mutex

	db      kv.Store
	st      *state.State
	s       *storage
	params  Params
	native  *balances.Native
	asset   *balances.Asset
	account seq.Address

	newGrouping GroupingFactory
	grouping    Grouping
	hooks       Hooks

	block   seq.BlockNumber
	parent  seq.Bytes32
	depth   int
	events  []seq.Event
	pending []*Record

	feed  event.Feed
	scope event.SubscriptionScope
}

// New opens the ledger over db.
func New(db kv.Store, params Params, opts ...Option) (*Ledger, error) {
	if err := params.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid params")
	}
	st := state.New(db)
	l := &Ledger{
		db:      db,
		st:      st,
		s:       newStorage(st),
		params:  params,
		native:  balances.NewNative(st),
		asset:   balances.NewAsset(st, AssetName),
		account: seq.StakingAccount(),
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.newGrouping == nil {
		return nil, errors.New("grouping not configured")
	}
	l.grouping = l.newGrouping(st, l.emit, func() seq.Bytes32 { return l.parent })

	round, err := l.s.getRound()
	if err != nil {
		return nil, err
	}
	metricRound().Set(int64(round.Current))
	return l, nil
}

// Params returns the static parameters.
func (l *Ledger) Params() Params {
	return l.params
}

// Account returns the account holding the staked asset and the reward pot.
func (l *Ledger) Account() seq.Address {
	return l.account
}

// Block returns the number and parent id of the block being processed.
func (l *Ledger) Block() (seq.BlockNumber, seq.Bytes32) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.block, l.parent
}

func (l *Ledger) emit(ev seq.Event) {
	l.events = append(l.events, ev)
}

// call runs fn atomically. When fn fails every change it made is reverted and its events dropped.
func (l *Ledger) call(name string, fn func() error) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.callLocked(name, fn)
}

func (l *Ledger) callLocked(name string, fn func() error) error {
	rev := l.st.NewCheckpoint()
	base := len(l.events)
	l.depth++
	err := fn()
	l.depth--
	if err != nil {
		l.st.RevertTo(rev)
		l.events = l.events[:base]
		if IsLedgerError(err) {
			metricCalls().AddWithLabel(1, map[string]string{"call": name, "status": "rejected"})
			logger.Debug("call rejected", "call", name, "error", err)
		} else {
			metricCalls().AddWithLabel(1, map[string]string{"call": name, "status": "error"})
			logger.Warn("call failed", "call", name, "error", err)
		}
		return err
	}
	metricCalls().AddWithLabel(1, map[string]string{"call": name, "status": "ok"})
	if l.depth == 0 {
		for _, ev := range l.events {
			l.pending = append(l.pending, &Record{Block: l.block, Index: uint32(len(l.pending)), Event: ev})
		}
		l.events = l.events[:0]
	}
	return nil
}

// Execute runs fn with exclusive access to the ledger state, atomically. It lets collaborators
// sharing the state, like the grouping, run their own calls and reads.
func (l *Ledger) Execute(name string, fn func() error) error {
	return l.call(name, fn)
}

// Read runs fn with shared access to the ledger state, for reads of collaborators sharing it.
func (l *Ledger) Read(fn func() error) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return fn()
}

// Commit writes the changes of the block to the store and publishes its events.
func (l *Ledger) Commit() error {
	l.mu.Lock()
	stage := l.st.Stage()
	batch := l.db.NewBatch()
	if err := stage.Commit(batch); err != nil {
		l.mu.Unlock()
		return errors.Wrap(err, "stage state")
	}
	if err := batch.Write(); err != nil {
		l.mu.Unlock()
		return errors.Wrap(err, "write state")
	}
	l.st.Reset()
	records := l.pending
	l.pending = nil
	block := l.block
	l.mu.Unlock()

	logger.Debug("block committed", "block", block, "changes", stage.Len(), "events", len(records))
	for _, r := range records {
		l.feed.Send(r)
	}
	return nil
}

// SubscribeEvents delivers the events of every committed block to ch.
func (l *Ledger) SubscribeEvents(ch chan *Record) event.Subscription {
	return l.scope.Track(l.feed.Subscribe(ch))
}

// Close unsubscribes every subscriber.
func (l *Ledger) Close() {
	l.scope.Close()
}

// OnInitialize runs the round machinery at the start of block now.
func (l *Ledger) OnInitialize(now seq.BlockNumber, parent seq.Bytes32) error {
	start := time.Now()
	defer func() { metricBlockDuration().Observe(time.Since(start).Milliseconds()) }()

	l.mu.Lock()
	defer l.mu.Unlock()
	l.block = now
	l.parent = parent
	return l.callLocked("on_initialize", func() error {
		return l.onInitialize(now)
	})
}

// AwardPoints credits points to a sequencer for the current round.
func (l *Ledger) AwardPoints(sequencer seq.Address, points seq.RewardPoint) error {
	return l.call("award_points", func() error {
		return l.awardPoints(sequencer, points)
	})
}

func (l *Ledger) awardPoints(sequencer seq.Address, points seq.RewardPoint) error {
	round, err := l.s.getRound()
	if err != nil {
		return err
	}
	key := roundAccountKey{round.Current, sequencer}
	pts, _, err := l.s.awardedPts.Get(key)
	if err != nil {
		return errors.Wrap(err, "get awarded points")
	}
	if err := l.s.awardedPts.Set(key, seq.SaturatingAdd32(pts, points)); err != nil {
		return errors.Wrap(err, "set awarded points")
	}
	total, err := l.s.getPoints(round.Current)
	if err != nil {
		return err
	}
	return errors.Wrap(l.s.points.Set(roundKey(round.Current), seq.SaturatingAdd32(total, points)), "set points")
}
