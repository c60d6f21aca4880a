// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package kv

import (
	"sync"

	"github.com/syndtr/goleveldb/leveldb/util"
)

// Bucket provides logical bucket for kv store.
type Bucket string

func (b Bucket) key(buf *buf, key []byte) []byte {
	buf.k = append(append(buf.k[:0], b...), key...)
	return buf.k
}

// NewGetter creates a bucket getter from the source getter.
func (b Bucket) NewGetter(src Getter) Getter {
	return &struct {
		GetFunc
		HasFunc
		IsNotFoundFunc
	}{
		func(key []byte) ([]byte, error) {
			buf := bufPool.Get().(*buf)
			defer bufPool.Put(buf)
			return src.Get(b.key(buf, key))
		},
		func(key []byte) (bool, error) {
			buf := bufPool.Get().(*buf)
			defer bufPool.Put(buf)
			return src.Has(b.key(buf, key))
		},
		src.IsNotFound,
	}
}

// NewPutter creates a bucket putter from the source putter.
func (b Bucket) NewPutter(src Putter) Putter {
	return &struct {
		PutFunc
		DeleteFunc
	}{
		func(key, val []byte) error {
			buf := bufPool.Get().(*buf)
			defer bufPool.Put(buf)
			return src.Put(b.key(buf, key), val)
		},
		func(key []byte) error {
			buf := bufPool.Get().(*buf)
			defer bufPool.Put(buf)
			return src.Delete(b.key(buf, key))
		},
	}
}

// NewGetPutter creates a bucket view reading and writing through src.
func (b Bucket) NewGetPutter(src GetPutter) GetPutter {
	return &struct {
		Getter
		Putter
	}{b.NewGetter(src), b.NewPutter(src)}
}

// Iterate iterates keys of the bucket within r. Keys yielded have the bucket prefix stripped.
func (b Bucket) Iterate(src Store, r Range) Iterator {
	start := append([]byte(b), r.Start...)
	var limit []byte
	if len(r.Limit) == 0 {
		limit = util.BytesPrefix([]byte(b)).Limit
	} else {
		limit = append([]byte(b), r.Limit...)
	}
	return &bucketIter{src.Iterate(Range{Start: start, Limit: limit}), len(b)}
}

type bucketIter struct {
	Iterator
	n int
}

func (i *bucketIter) Key() []byte { return i.Iterator.Key()[i.n:] }

type buf struct {
	k []byte
}

var bufPool = sync.Pool{
	New: func() any {
		return &buf{}
	},
}
