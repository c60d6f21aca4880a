// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package seq

// Fixed identifiers of the staking module.
var (
	// StakingPalletID seeds the account that holds bonded assets and issues rewards.
	StakingPalletID = [8]byte{'s', 'e', 'q', 'c', 'r', 's', 't', 'k'}
	// SequencerLockID names the native currency lock placed on candidates.
	SequencerLockID = [8]byte{'s', 'e', 'q', 'u', 'e', 'n', 'c', 'r'}
)

// ModuleAccount derives the system account of a module from its 8 byte id.
func ModuleAccount(id [8]byte) Address {
	h := Blake2b([]byte("modl"), id[:])
	return BytesToAddress(h[:AddressLength])
}

// StakingAccount returns the account holding staked assets and the reward pot.
func StakingAccount() Address {
	return ModuleAccount(StakingPalletID)
}
