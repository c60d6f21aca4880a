// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solo

import (
	"encoding/binary"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/vechain/sequencer/kv"
	"github.com/vechain/sequencer/seq"
)

var (
	chainBucket = kv.Bucket("chain/")
	headKey     = []byte("head")
)

// Block identifies a packed block.
type Block struct {
	Number seq.BlockNumber
	ID     seq.Bytes32
}

// NewBlockID derives the id of block number from its parent and authors.
func NewBlockID(parent seq.Bytes32, number seq.BlockNumber, authors []seq.Address) seq.Bytes32 {
	var num [4]byte
	binary.BigEndian.PutUint32(num[:], number)
	data := [][]byte{parent[:], num[:]}
	for _, a := range authors {
		data = append(data, a.Bytes())
	}
	return seq.Blake2b(data...)
}

// Head is the latest packed block, kept in its own bucket of the ledger store.
type Head struct {
	store kv.GetPutter
}

func NewHead(store kv.GetPutter) *Head {
	return &Head{chainBucket.NewGetPutter(store)}
}

// Get returns the head block. ok is false before the first block is stored.
func (h *Head) Get() (b Block, ok bool, err error) {
	data, err := h.store.Get(headKey)
	if err != nil {
		if h.store.IsNotFound(err) {
			return Block{}, false, nil
		}
		return Block{}, false, errors.Wrap(err, "get head")
	}
	if err := rlp.DecodeBytes(data, &b); err != nil {
		return Block{}, false, errors.Wrap(err, "decode head")
	}
	return b, true, nil
}

func (h *Head) Set(b Block) error {
	data, err := rlp.EncodeToBytes(&b)
	if err != nil {
		return err
	}
	return errors.Wrap(h.store.Put(headKey, data), "put head")
}
