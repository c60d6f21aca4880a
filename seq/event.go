// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package seq

// Event is a notification emitted by a successful state transition.
type Event interface {
	// Kind is the stable name of the event, e.g. "DelegationKicked".
	Kind() string
	// Accounts lists the accounts the event is about, used for indexing.
	Accounts() []Address
}
