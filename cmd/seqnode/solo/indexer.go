// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solo

import (
	"context"

	"github.com/pkg/errors"

	"github.com/vechain/sequencer/eventdb"
	"github.com/vechain/sequencer/staking"
)

const indexerBuffer = 1000

// Indexer writes the events of committed blocks to the event db.
type Indexer struct {
	db      *eventdb.EventDB
	records chan *staking.Record
	unsub   func()
	errc    <-chan error
}

// NewIndexer subscribes to ledger events. Subscribe before the first commit to index everything.
func NewIndexer(ledger *staking.Ledger, db *eventdb.EventDB) *Indexer {
	records := make(chan *staking.Record, indexerBuffer)
	sub := ledger.SubscribeEvents(records)
	return &Indexer{db, records, sub.Unsubscribe, sub.Err()}
}

// Run indexes events until ctx is done or the subscription ends.
func (i *Indexer) Run(ctx context.Context) error {
	defer i.unsub()
	for {
		select {
		case <-ctx.Done():
			return i.flush(nil)
		case err := <-i.errc:
			if ferr := i.flush(nil); ferr != nil {
				return ferr
			}
			return err
		case r := <-i.records:
			if err := i.flush(r); err != nil {
				return err
			}
		}
	}
}

// flush inserts first and every record already queued behind it.
func (i *Indexer) flush(first *staking.Record) error {
	var batch []*staking.Record
	if first != nil {
		batch = append(batch, first)
	}
	for {
		select {
		case r := <-i.records:
			batch = append(batch, r)
		default:
			if err := i.db.Insert(batch); err != nil {
				return errors.Wrap(err, "index events")
			}
			return nil
		}
	}
}
