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

import "github.com/pkg/errors"

// Sentinel errors returned by table operations. Callers should compare
// against these with errors.Is rather than matching on message text;
// wrapErr attaches call-site context while preserving the sentinel.
var (
	// ErrNotFound is returned by GetErr and Remove when the key is absent.
	ErrNotFound = errors.New("cuckoo: key not found")

	// ErrInvalidConfig is returned by New when the bucket count is not a
	// positive even number, the bucket size is non-positive, or the cycle
	// budget is non-positive.
	ErrInvalidConfig = errors.New("cuckoo: invalid configuration")

	// ErrCapacityExhausted is returned when repeated doubling during
	// rehash still cannot place the pending entry. This indicates a
	// broken hash/equality contract (distinct keys sharing a digest far
	// more often than chance allows) rather than ordinary load.
	ErrCapacityExhausted = errors.New("cuckoo: capacity exhausted")
)

func wrapErr(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}
