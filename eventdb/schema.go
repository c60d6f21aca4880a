// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package eventdb

// event rows hold the encoded event, event_account rows index the accounts it is about.
const schema = `
CREATE TABLE IF NOT EXISTS event (
	blockNumber INTEGER NOT NULL,
	eventIndex INTEGER NOT NULL,
	kind TEXT NOT NULL,
	accounts BLOB,
	data BLOB,
	PRIMARY KEY (blockNumber, eventIndex)
);

CREATE INDEX IF NOT EXISTS kindIndex ON event(kind);

CREATE TABLE IF NOT EXISTS event_account (
	blockNumber INTEGER NOT NULL,
	eventIndex INTEGER NOT NULL,
	account BLOB(20) NOT NULL,
	PRIMARY KEY (blockNumber, eventIndex, account)
);

CREATE INDEX IF NOT EXISTS accountIndex ON event_account(account);
`
