// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"crypto/ecdsa"
	"sync"

	"github.com/ethereum/go-ethereum/crypto"

	"github.com/vechain/sequencer/seq"
	"github.com/vechain/sequencer/staking"
)

// DevAccount is a well known development account.
type DevAccount struct {
	Address    seq.Address
	PrivateKey *ecdsa.PrivateKey
}

var devKeys = []string{
	"dce1443bd2ef0c2631adc1c67e5c93f13dc23a41c18b536effbbdcbcdb96fb65",
	"321d6443bc6177273b5abf54210fe806d451d6b7973bccc2384ef78bbcd0bf51",
	"2d7c882bad2a01105e36dda3646693bc1aaaa45b0ed63fb0ce23c060294f3af2",
	"593537225b037191d322c3b1df585fb1e5100811b71a6f7fc7e29cca1333483e",
	"ca7b25fc980c759df5f3ce17a3d881d6e19a38e651fc4315fc08917edab41058",
	"88d2d80b12b92feaa0da6d62309463d20408157723f2d7e799b6a74ead9a673b",
	"fbb9e7ba5fe9969a71c6599052237b91adeb1e5fc0c96727b66e56ff5d02f9d0",
	"547fb081e73dc2e22b4aae5c60e2970b008ac4fc3073aebc27d41ace9c4f53e9",
	"c8c53657e41a8d669349fc287f57457bd746cb1fcfc38cf94d235deb2cfca81b",
	"87e0eba9c86c494d98353800571089f316740b0cb84c9a7cdf2fe5c9997c7966",
}

// DevAccounts returns the development accounts.
var DevAccounts = sync.OnceValue(func() []DevAccount {
	accs := make([]DevAccount, 0, len(devKeys))
	for _, hex := range devKeys {
		pk, err := crypto.HexToECDSA(hex)
		if err != nil {
			panic(err)
		}
		accs = append(accs, DevAccount{seq.Address(crypto.PubkeyToAddress(pk.PublicKey)), pk})
	}
	return accs
})

// DevnetName names the development network genesis.
const DevnetName = "devnet"

// devCandidates is how many dev accounts join the candidates, the rest delegate.
const devCandidates = 6

// NewDevnet returns the genesis of a local development network: six candidates competing
// for five seats, backed by the four remaining dev accounts, with a funded reward pot.
func NewDevnet() *Genesis {
	accs := DevAccounts()
	gen := &Genesis{
		Name:           DevnetName,
		Group:          GroupMetric{Size: 5, Number: 1},
		Commission:     seq.PerbillFromPercent(20),
		BlocksPerRound: 20,
		MarkingOffline: true,
	}
	for _, acc := range accs {
		gen.Accounts = append(gen.Accounts, Account{
			Address: acc.Address,
			Native:  10_000 * staking.POPS,
			Asset:   1_000_000,
		})
	}
	gen.Accounts = append(gen.Accounts, Account{Address: seq.StakingAccount(), Native: 1_000 * staking.POPS})

	for i, acc := range accs {
		if i < devCandidates {
			gen.Candidates = append(gen.Candidates, acc.Address)
			continue
		}
		// each delegator backs two neighbouring candidates
		for _, c := range []int{(i - devCandidates) % devCandidates, (i - devCandidates + 1) % devCandidates} {
			gen.Delegations = append(gen.Delegations, Delegation{
				Delegator: acc.Address,
				Candidate: accs[c].Address,
				Amount:    uint64(100 * (i - devCandidates + 1)),
			})
		}
	}
	return gen
}
