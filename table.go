// Copyright (c) 2014 Utkan Güngördü <utkan@freeconsole.org>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program. If not, see <http://www.gnu.org/licenses/>.

// Package cuckoo implements a general-purpose associative container
// using two-choice bucketized cuckoo hashing: an open-addressed hash
// table whose buckets are bucketized into cells, giving worst-case
// O(bucket size) lookup and expected amortized O(1) insertion. Every
// live key resides in one of exactly two candidate buckets; insertion
// that finds both candidates full runs a bounded breadth-first
// eviction search before falling back to a full rehash.
//
// Table is not safe for concurrent use. Wrap it with an external mutex
// if it must be shared across goroutines.
package cuckoo

import (
	"iter"

	"github.com/pkg/errors"
)

// Table is a generic map[K]V equivalent backed by a bucketized cuckoo
// hash table. The zero Table is not usable; construct one with New.
type Table[K any, V any] struct {
	store cellStore[K, V]
	hash  Hasher[K]
	equal EqualFunc[K]
	n     int

	cycleBudget int
}

// New constructs a Table using hash to digest keys and equal to
// compare them. hash and equal must agree: keys considered equal by
// equal must produce the same digest under hash. Options override the
// defaults (DefaultBuckets buckets, DefaultBucketSize cells/bucket,
// DefaultCycleBudget displacement steps); an invalid combination
// reports ErrInvalidConfig and New returns a nil table.
func New[K any, V any](hash Hasher[K], equal EqualFunc[K], opts ...Option) (*Table[K, V], error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if err := o.validate(); err != nil {
		return nil, err
	}

	return &Table[K, V]{
		store:       newCellStore[K, V](o.buckets, o.bucketSize),
		hash:        hash,
		equal:       equal,
		cycleBudget: o.cycleBudget,
	}, nil
}

// Len returns the number of live entries.
func (t *Table[K, V]) Len() int { return t.n }

// Empty reports whether the table has no live entries.
func (t *Table[K, V]) Empty() bool { return t.n == 0 }

// candidates returns the two candidate bucket indices for k under the
// table's current bucket count. bucketsFor splits the digest across
// the two halves of the bucket space, so it takes half the bucket
// count, not the bucket count itself.
func (t *Table[K, V]) candidates(k K) (b1, b2 int) {
	return bucketsFor(t.hash(k), t.store.m/2)
}

// scanBucket returns the cell index within bucket bi holding a key
// equal to k, or -1 if none is found.
func (t *Table[K, V]) scanBucket(bi int, k K) int {
	lo, hi := t.store.bucketRange(bi)
	for i := lo; i < hi; i++ {
		c := &t.store.cells[i]
		if c.occupied && t.equal(c.key, k) {
			return i
		}
	}
	return -1
}

// Contains reports whether k is present.
func (t *Table[K, V]) Contains(k K) bool {
	_, ok := t.Get(k)
	return ok
}

// Get returns the value stored for k, or false if k is absent.
func (t *Table[K, V]) Get(k K) (V, bool) {
	b1, b2 := t.candidates(k)
	if i := t.scanBucket(b1, k); i >= 0 {
		return t.store.cells[i].val, true
	}
	if i := t.scanBucket(b2, k); i >= 0 {
		return t.store.cells[i].val, true
	}
	var zero V
	return zero, false
}

// GetErr is Get's error-returning form, reporting ErrNotFound instead
// of a boolean.
func (t *Table[K, V]) GetErr(k K) (V, error) {
	v, ok := t.Get(k)
	if !ok {
		var zero V
		return zero, ErrNotFound
	}
	return v, nil
}

// upsertBucket scans bucket bi for a key equal to k; if found, it
// overwrites the value and reports true. Otherwise it looks for the
// first empty cell and, if one exists, stores (k, v) there, increments
// n, and reports true. It reports false only when the bucket has
// neither a matching key nor an empty cell.
func (t *Table[K, V]) upsertBucket(bi int, k K, v V) (done bool) {
	lo, hi := t.store.bucketRange(bi)
	empty := -1
	for i := lo; i < hi; i++ {
		c := &t.store.cells[i]
		if !c.occupied {
			if empty < 0 {
				empty = i
			}
			continue
		}
		if t.equal(c.key, k) {
			c.val = v
			return true
		}
	}
	if empty < 0 {
		return false
	}
	t.store.cells[empty] = cell[K, V]{occupied: true, key: k, val: v}
	t.n++
	return true
}

// tryPut attempts a single insert-or-update of (k, v) against the
// table's current capacity: update-in-place takes precedence over
// insert-into-empty, tried in b1 then b2 (spec's tie-break, preserving
// "no two occupied cells hold equal keys"). If both candidate buckets
// are full, it hands off to the displacement engine. It never
// retries or rehashes itself -- that's Put's job.
func (t *Table[K, V]) tryPut(k K, v V) error {
	b1, b2 := t.candidates(k)
	// A key already living in b2 is updated there, so an empty cell in
	// b1 cannot receive a second copy of it.
	if i := t.scanBucket(b2, k); i >= 0 {
		t.store.cells[i].val = v
		return nil
	}
	if t.upsertBucket(b1, k, v) {
		return nil
	}
	if t.upsertBucket(b2, k, v) {
		return nil
	}
	return t.displace(b1, b2, k, v)
}

// Put inserts k with value v, or updates the value if k is already
// present. It never fails under sufficient memory: when both of k's
// candidate buckets are full and the bounded displacement search
// cannot make room, Put rehashes the table (doubling capacity, and
// cascading if one doubling is not enough) and retries, repeating
// rehash and retry until the pair is placed or rehash fails. A failed
// attempt leaves the table unmodified, so the pair is stored once.
func (t *Table[K, V]) Put(k K, v V) error {
	for {
		err := t.tryPut(k, v)
		if err == nil {
			return nil
		}
		if !errors.Is(err, errCycleBudgetExhausted) {
			return err
		}
		if err := t.rehash(); err != nil {
			return err
		}
	}
}

// Update inserts or updates every (key, value) pair produced by seq,
// equivalent to calling Put for each pair in order.
func (t *Table[K, V]) Update(seq iter.Seq2[K, V]) error {
	for k, v := range seq {
		if err := t.Put(k, v); err != nil {
			return err
		}
	}
	return nil
}

// Erase removes k if present and reports whether it was found.
func (t *Table[K, V]) Erase(k K) bool {
	b1, b2 := t.candidates(k)
	if i := t.scanBucket(b1, k); i >= 0 {
		t.store.cells[i] = cell[K, V]{}
		t.n--
		return true
	}
	if i := t.scanBucket(b2, k); i >= 0 {
		t.store.cells[i] = cell[K, V]{}
		t.n--
		return true
	}
	return false
}

// Remove removes k if present and returns its value, or ErrNotFound.
// Ownership of the value passes back to the caller.
func (t *Table[K, V]) Remove(k K) (V, error) {
	b1, b2 := t.candidates(k)
	if i := t.scanBucket(b1, k); i >= 0 {
		v := t.store.cells[i].val
		t.store.cells[i] = cell[K, V]{}
		t.n--
		return v, nil
	}
	if i := t.scanBucket(b2, k); i >= 0 {
		v := t.store.cells[i].val
		t.store.cells[i] = cell[K, V]{}
		t.n--
		return v, nil
	}
	var zero V
	return zero, ErrNotFound
}

// Iterate returns a lazy, unordered sequence over every live (key,
// value) pair. It is finite and not restartable across mutation: any
// Put or Erase invalidates an in-progress Iterate.
func (t *Table[K, V]) Iterate() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for i := range t.store.cells {
			c := &t.store.cells[i]
			if !c.occupied {
				continue
			}
			if !yield(c.key, c.val) {
				return
			}
		}
	}
}

// Keys returns a lazy sequence over every live key. See Iterate for
// its invalidation rules.
func (t *Table[K, V]) Keys() iter.Seq[K] {
	return func(yield func(K) bool) {
		for k := range t.Iterate() {
			if !yield(k) {
				return
			}
		}
	}
}

// Values returns a lazy sequence over every live value. See Iterate
// for its invalidation rules.
func (t *Table[K, V]) Values() iter.Seq[V] {
	return func(yield func(V) bool) {
		for _, v := range t.Iterate() {
			if !yield(v) {
				return
			}
		}
	}
}

// Equal reports whether t and other have the same length and every
// pair in t is present in other with an equal value, per valueEqual.
// valueEqual is typically reflect.DeepEqual or a type-specific ==.
func (t *Table[K, V]) Equal(other *Table[K, V], valueEqual func(a, b V) bool) bool {
	if t.Len() != other.Len() {
		return false
	}
	for k, v := range t.Iterate() {
		ov, ok := other.Get(k)
		if !ok || !valueEqual(v, ov) {
			return false
		}
	}
	return true
}
