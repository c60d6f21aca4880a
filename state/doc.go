// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package state manages the ledger storage items.
// It follows the flow as bellow:
//
//	        o
//	        |
//	[ revertable state ]
//	        |
//	 [ stacked map ] -> [ journal ] -> [ playback(staging) ] -> [ kv batch ]
//	        |
//	 [ read-only kv ]
//
// Values are RLP encoded. A zero length value marks a deleted item.
package state
