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

package cuckoo

// rehash doubles the bucket count and reinserts every live entry,
// cascading to a further doubling if one doubling isn't enough to
// place everything (spec permits and expects this as a correctness
// fallback). It gives up with ErrCapacityExhausted only once doubling
// would exceed maxBuckets, which under a sound hash/equality contract
// should never happen at realistic occupancy.
func (t *Table[K, V]) rehash() error {
	newM := t.store.m
	for {
		newM *= 2
		if newM > maxBuckets {
			return ErrCapacityExhausted
		}
		if t.rehashTo(newM) {
			return nil
		}
	}
}

// rehashTo attempts one rehash into a table with newM buckets. It
// leaves t untouched and reports false if any existing entry's
// reinsertion exhausts the displacement budget; otherwise it replaces
// t's storage with the new table and reports true.
func (t *Table[K, V]) rehashTo(newM int) bool {
	fresh := &Table[K, V]{
		store:       newCellStore[K, V](newM, t.store.b),
		hash:        t.hash,
		equal:       t.equal,
		cycleBudget: t.cycleBudget,
	}

	for i := range t.store.cells {
		c := &t.store.cells[i]
		if !c.occupied {
			continue
		}
		// tryPut, not Put: a rehash reinsertion that itself runs out
		// of displacement budget aborts this attempt rather than
		// recursively rehashing fresh.
		if err := fresh.tryPut(c.key, c.val); err != nil {
			return false
		}
	}

	*t = *fresh
	return true
}
