// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package eventdb indexes committed ledger events in SQLite for history queries.
package eventdb

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/vechain/sequencer/log"
	"github.com/vechain/sequencer/seq"
	"github.com/vechain/sequencer/staking"
)

var logger = log.WithContext("pkg", "eventdb")

const (
	insertEventQuery   = "INSERT OR REPLACE INTO event(blockNumber, eventIndex, kind, accounts, data) VALUES (?, ?, ?, ?, ?)"
	insertAccountQuery = "INSERT OR IGNORE INTO event_account(blockNumber, eventIndex, account) VALUES (?, ?, ?)"
)

// EventDB is the event index.
type EventDB struct {
	path          string
	db            *sql.DB
	stmts         *stmtCache
	driverVersion string
}

// New creates or opens the event index at path.
func New(path string) (edb *EventDB, err error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.Wrap(err, "open sqlite")
	}
	defer func() {
		if edb == nil {
			db.Close()
		}
	}()
	// a single connection keeps an in-memory database alive and shared
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		return nil, errors.Wrap(err, "create schema")
	}

	driverVer, _, _ := sqlite3.Version()
	logger.Debug("event db opened", "path", path, "sqlite", driverVer)
	return &EventDB{
		path:          path,
		db:            db,
		stmts:         newStmtCache(db),
		driverVersion: driverVer,
	}, nil
}

// NewMem creates an event index in memory.
func NewMem() (*EventDB, error) {
	return New(":memory:")
}

// Close closes the index.
func (db *EventDB) Close() error {
	db.stmts.Clear()
	return db.db.Close()
}

// Path returns the file backing the index.
func (db *EventDB) Path() string {
	return db.path
}

func (db *EventDB) execInTx(proc func(*sql.Tx) error) error {
	tx, err := db.db.Begin()
	if err != nil {
		return err
	}
	if err := proc(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// Insert indexes records. Records already indexed are replaced.
func (db *EventDB) Insert(records []*staking.Record) error {
	if len(records) == 0 {
		return nil
	}
	insertEvent, err := db.stmts.Prepare(insertEventQuery)
	if err != nil {
		return errors.Wrap(err, "prepare insert event")
	}
	insertAccount, err := db.stmts.Prepare(insertAccountQuery)
	if err != nil {
		return errors.Wrap(err, "prepare insert account")
	}

	err = db.execInTx(func(tx *sql.Tx) error {
		evStmt, accStmt := tx.Stmt(insertEvent), tx.Stmt(insertAccount)
		for _, r := range records {
			data, err := json.Marshal(r.Event)
			if err != nil {
				return errors.Wrapf(err, "encode %s", r.Event.Kind())
			}
			accounts := r.Event.Accounts()
			if _, err := evStmt.Exec(r.Block, r.Index, r.Event.Kind(), packAccounts(accounts), data); err != nil {
				return err
			}
			for _, a := range accounts {
				if _, err := accStmt.Exec(r.Block, r.Index, a.Bytes()); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return errors.Wrap(err, "insert events")
	}
	metricInsertedEvents().Add(int64(len(records)))
	return nil
}

// NewestBlock returns the highest indexed block, zero when the index is empty.
func (db *EventDB) NewestBlock(ctx context.Context) (seq.BlockNumber, error) {
	var n sql.NullInt64
	if err := db.db.QueryRowContext(ctx, "SELECT MAX(blockNumber) FROM event").Scan(&n); err != nil {
		return 0, err
	}
	return seq.BlockNumber(n.Int64), nil
}

// Filter queries events.
func (db *EventDB) Filter(ctx context.Context, filter *Filter) ([]*Event, error) {
	start := time.Now()
	defer func() { metricQueryDuration().Observe(time.Since(start).Milliseconds()) }()

	if filter == nil {
		filter = &Filter{}
	}
	metricsHandleFilter(filter)

	var (
		args []any
		stmt strings.Builder
	)
	stmt.WriteString("SELECT blockNumber, eventIndex, kind, accounts, data FROM event WHERE 1")
	if filter.Range != nil {
		args = append(args, filter.Range.From)
		stmt.WriteString(" AND blockNumber >= ?")
		if filter.Range.To >= filter.Range.From {
			args = append(args, filter.Range.To)
			stmt.WriteString(" AND blockNumber <= ?")
		}
	}
	if len(filter.Kinds) > 0 {
		stmt.WriteString(" AND kind IN (?" + strings.Repeat(", ?", len(filter.Kinds)-1) + ")")
		for _, k := range filter.Kinds {
			args = append(args, k)
		}
	}
	if filter.Account != nil {
		args = append(args, filter.Account.Bytes())
		stmt.WriteString(" AND EXISTS (SELECT 1 FROM event_account a" +
			" WHERE a.blockNumber = event.blockNumber AND a.eventIndex = event.eventIndex AND a.account = ?)")
	}
	if filter.Order == DESC {
		stmt.WriteString(" ORDER BY blockNumber DESC, eventIndex DESC")
	} else {
		stmt.WriteString(" ORDER BY blockNumber ASC, eventIndex ASC")
	}
	if filter.Options != nil {
		stmt.WriteString(" LIMIT ?, ?")
		args = append(args, filter.Options.Offset, filter.Options.Limit)
	}
	return db.queryEvents(ctx, stmt.String(), args...)
}

func (db *EventDB) queryEvents(ctx context.Context, query string, args ...any) ([]*Event, error) {
	rows, err := db.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]*Event, 0)
	for rows.Next() {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		var (
			ev       Event
			accounts []byte
			data     []byte
		)
		if err := rows.Scan(&ev.Block, &ev.Index, &ev.Kind, &accounts, &data); err != nil {
			return nil, err
		}
		ev.Accounts = unpackAccounts(accounts)
		ev.Data = data
		events = append(events, &ev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}
