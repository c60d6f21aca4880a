// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"encoding/binary"
	"sort"

	"github.com/pkg/errors"

	"github.com/vechain/sequencer/seq"
	"github.com/vechain/sequencer/state"
)

type roundKey seq.RoundIndex

func (r roundKey) Bytes() []byte {
	return binary.BigEndian.AppendUint32(nil, uint32(r))
}

type roundAccountKey struct {
	round   seq.RoundIndex
	account seq.Address
}

func (k roundAccountKey) Bytes() []byte {
	return append(binary.BigEndian.AppendUint32(nil, k.round), k.account[:]...)
}

// storage is the typed layout of the ledger in the state.
type storage struct {
	candidateInfo     *state.Mapping[seq.Address, CandidateMetadata]
	topDelegations    *state.Mapping[seq.Address, Delegations]
	bottomDelegations *state.Mapping[seq.Address, Delegations]
	delegatorState    *state.Mapping[seq.Address, Delegator]
	scheduledRequests *state.Mapping[seq.Address, []ScheduledRequest]

	candidatePool *state.Raw[[]Bond]
	selected      *state.Raw[[]seq.Address]
	round         *state.Raw[RoundInfo]
	total         *state.Raw[uint64]
	commission    *state.Raw[seq.Perbill]
	markOffline   *state.Raw[bool]

	atStake        *state.Mapping[roundAccountKey, Snapshot]
	atStakeIndex   *state.Mapping[roundKey, []seq.Address]
	delayedPayouts *state.Mapping[roundKey, DelayedPayout]
	points         *state.Mapping[roundKey, seq.RewardPoint]
	awardedPts     *state.Mapping[roundAccountKey, seq.RewardPoint]
}

func newStorage(st *state.State) *storage {
	return &storage{
		candidateInfo:     state.NewMapping[seq.Address, CandidateMetadata](st, "candidate-info/"),
		topDelegations:    state.NewMapping[seq.Address, Delegations](st, "top-delegations/"),
		bottomDelegations: state.NewMapping[seq.Address, Delegations](st, "bottom-delegations/"),
		delegatorState:    state.NewMapping[seq.Address, Delegator](st, "delegator/"),
		scheduledRequests: state.NewMapping[seq.Address, []ScheduledRequest](st, "delegation-requests/"),

		candidatePool: state.NewRaw[[]Bond](st, "candidate-pool"),
		selected:      state.NewRaw[[]seq.Address](st, "selected"),
		round:         state.NewRaw[RoundInfo](st, "round"),
		total:         state.NewRaw[uint64](st, "total"),
		commission:    state.NewRaw[seq.Perbill](st, "commission"),
		markOffline:   state.NewRaw[bool](st, "enable-marking-offline"),

		atStake:        state.NewMapping[roundAccountKey, Snapshot](st, "at-stake/"),
		atStakeIndex:   state.NewMapping[roundKey, []seq.Address](st, "at-stake-index/"),
		delayedPayouts: state.NewMapping[roundKey, DelayedPayout](st, "delayed-payouts/"),
		points:         state.NewMapping[roundKey, seq.RewardPoint](st, "points/"),
		awardedPts:     state.NewMapping[roundAccountKey, seq.RewardPoint](st, "awarded-pts/"),
	}
}

func (s *storage) getCandidate(addr seq.Address) (*CandidateMetadata, error) {
	c, ok, err := s.candidateInfo.Get(addr)
	if err != nil {
		return nil, errors.Wrap(err, "get candidate info")
	}
	if !ok {
		return nil, nil
	}
	return &c, nil
}

// mustCandidate loads a candidate that is known to exist.
func (s *storage) mustCandidate(addr seq.Address) (*CandidateMetadata, error) {
	c, err := s.getCandidate(addr)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrCandidateDNE
	}
	return c, nil
}

func (s *storage) setCandidate(addr seq.Address, c *CandidateMetadata) error {
	return errors.Wrap(s.candidateInfo.Set(addr, *c), "set candidate info")
}

func (s *storage) isCandidate(addr seq.Address) (bool, error) {
	ok, err := s.candidateInfo.Has(addr)
	return ok, errors.Wrap(err, "has candidate info")
}

// top loads the top delegations of an existing candidate.
func (s *storage) top(candidate seq.Address) (*Delegations, error) {
	d, ok, err := s.topDelegations.Get(candidate)
	if err != nil {
		return nil, errors.Wrap(err, "get top delegations")
	}
	if !ok {
		panic("top delegations missing for candidate " + candidate.String())
	}
	return &d, nil
}

// bottom loads the bottom delegations of an existing candidate.
func (s *storage) bottom(candidate seq.Address) (*Delegations, error) {
	d, ok, err := s.bottomDelegations.Get(candidate)
	if err != nil {
		return nil, errors.Wrap(err, "get bottom delegations")
	}
	if !ok {
		panic("bottom delegations missing for candidate " + candidate.String())
	}
	return &d, nil
}

func (s *storage) setTop(candidate seq.Address, d *Delegations) error {
	return errors.Wrap(s.topDelegations.Set(candidate, *d), "set top delegations")
}

func (s *storage) setBottom(candidate seq.Address, d *Delegations) error {
	return errors.Wrap(s.bottomDelegations.Set(candidate, *d), "set bottom delegations")
}

func (s *storage) getDelegator(addr seq.Address) (*Delegator, error) {
	d, ok, err := s.delegatorState.Get(addr)
	if err != nil {
		return nil, errors.Wrap(err, "get delegator")
	}
	if !ok {
		return nil, nil
	}
	return &d, nil
}

func (s *storage) setDelegator(d *Delegator) error {
	return errors.Wrap(s.delegatorState.Set(d.ID, *d), "set delegator")
}

func (s *storage) isDelegator(addr seq.Address) (bool, error) {
	ok, err := s.delegatorState.Has(addr)
	return ok, errors.Wrap(err, "has delegator")
}

func (s *storage) requests(candidate seq.Address) ([]ScheduledRequest, error) {
	r, _, err := s.scheduledRequests.Get(candidate)
	return r, errors.Wrap(err, "get scheduled requests")
}

func (s *storage) setRequests(candidate seq.Address, r []ScheduledRequest) error {
	if len(r) == 0 {
		s.scheduledRequests.Delete(candidate)
		return nil
	}
	return errors.Wrap(s.scheduledRequests.Set(candidate, r), "set scheduled requests")
}

func (s *storage) pool(capacity uint32) (*BondedSet, error) {
	bonds, err := s.candidatePool.Get()
	if err != nil {
		return nil, errors.Wrap(err, "get candidate pool")
	}
	return newBondedSetFrom(bonds, capacity), nil
}

func (s *storage) setPool(set *BondedSet) error {
	return errors.Wrap(s.candidatePool.Set(set.Bonds()), "set candidate pool")
}

func (s *storage) getRound() (RoundInfo, error) {
	r, err := s.round.Get()
	return r, errors.Wrap(err, "get round")
}

func (s *storage) getTotal() (uint64, error) {
	t, err := s.total.Get()
	return t, errors.Wrap(err, "get total")
}

func (s *storage) setTotal(t uint64) error {
	if err := s.total.Set(t); err != nil {
		return errors.Wrap(err, "set total")
	}
	metricTotalLocked().Set(int64(t))
	return nil
}

func (s *storage) addTotal(delta uint64) error {
	t, err := s.getTotal()
	if err != nil {
		return err
	}
	return s.setTotal(seq.SaturatingAdd(t, delta))
}

func (s *storage) subTotal(delta uint64) (uint64, error) {
	t, err := s.getTotal()
	if err != nil {
		return 0, err
	}
	t = seq.SaturatingSub(t, delta)
	return t, s.setTotal(t)
}

// atStakeAccounts lists the accounts with a snapshot for the round, ordered by address.
func (s *storage) atStakeAccounts(round seq.RoundIndex) ([]seq.Address, error) {
	accounts, _, err := s.atStakeIndex.Get(roundKey(round))
	return accounts, errors.Wrap(err, "get at-stake index")
}

func (s *storage) getAtStake(round seq.RoundIndex, account seq.Address) (*Snapshot, error) {
	snap, ok, err := s.atStake.Get(roundAccountKey{round, account})
	if err != nil {
		return nil, errors.Wrap(err, "get at-stake")
	}
	if !ok {
		return nil, nil
	}
	return &snap, nil
}

func (s *storage) putAtStake(round seq.RoundIndex, account seq.Address, snap *Snapshot) error {
	accounts, err := s.atStakeAccounts(round)
	if err != nil {
		return err
	}
	i := sort.Search(len(accounts), func(i int) bool { return accounts[i].Compare(account) >= 0 })
	if i == len(accounts) || accounts[i] != account {
		accounts = append(accounts, seq.Address{})
		copy(accounts[i+1:], accounts[i:])
		accounts[i] = account
		if err := s.atStakeIndex.Set(roundKey(round), accounts); err != nil {
			return errors.Wrap(err, "set at-stake index")
		}
	}
	return errors.Wrap(s.atStake.Set(roundAccountKey{round, account}, *snap), "set at-stake")
}

// takeAtStake removes and returns the snapshot with the lowest address of the round.
func (s *storage) takeAtStake(round seq.RoundIndex) (seq.Address, *Snapshot, error) {
	accounts, err := s.atStakeAccounts(round)
	if err != nil || len(accounts) == 0 {
		return seq.Address{}, nil, err
	}
	account := accounts[0]
	if len(accounts) == 1 {
		s.atStakeIndex.Delete(roundKey(round))
	} else if err := s.atStakeIndex.Set(roundKey(round), accounts[1:]); err != nil {
		return seq.Address{}, nil, errors.Wrap(err, "set at-stake index")
	}
	snap, err := s.getAtStake(round, account)
	if err != nil {
		return seq.Address{}, nil, err
	}
	if snap == nil {
		panic("at-stake index out of sync for " + account.String())
	}
	s.atStake.Delete(roundAccountKey{round, account})
	return account, snap, nil
}

func (s *storage) getPoints(round seq.RoundIndex) (seq.RewardPoint, error) {
	p, _, err := s.points.Get(roundKey(round))
	return p, errors.Wrap(err, "get points")
}

func (s *storage) getAwardedPts(round seq.RoundIndex, account seq.Address) (seq.RewardPoint, error) {
	p, _, err := s.awardedPts.Get(roundAccountKey{round, account})
	return p, errors.Wrap(err, "get awarded points")
}

func (s *storage) getDelayedPayout(round seq.RoundIndex) (*DelayedPayout, error) {
	p, ok, err := s.delayedPayouts.Get(roundKey(round))
	if err != nil {
		return nil, errors.Wrap(err, "get delayed payout")
	}
	if !ok {
		return nil, nil
	}
	return &p, nil
}
