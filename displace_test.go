package cuckoo

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestDisplacementFillsBucketsNearCapacity exercises the eviction search
// directly by filling a small table close to capacity, relying on
// displacement (not rehash) to place most of the keys.
func TestDisplacementFillsBucketsNearCapacity(t *testing.T) {
	tbl, err := New[int, int](IntHasher(), intEqual, WithBuckets(16), WithBucketSize(4))
	require.NoError(t, err)

	const n = 50 // ~78% of 64 cells
	for i := 0; i < n; i++ {
		require.NoError(t, tbl.Put(i, i*2))
	}
	assert.Equal(t, n, tbl.Len())
	for i := 0; i < n; i++ {
		v, ok := tbl.Get(i)
		require.True(t, ok, "missing key %d", i)
		assert.Equal(t, i*2, v)
	}
}

// TestTinyCycleBudgetStillConverges forces the displacement search to
// exhaust its budget quickly and fall back to rehash repeatedly; the
// table must still end up correct.
func TestTinyCycleBudgetStillConverges(t *testing.T) {
	tbl, err := New[int, int](IntHasher(), intEqual,
		WithBuckets(8), WithBucketSize(4), WithCycleBudget(2))
	require.NoError(t, err)

	const n = 300
	for i := 0; i < n; i++ {
		require.NoError(t, tbl.Put(i, i))
	}
	assert.Equal(t, n, tbl.Len())
	for i := 0; i < n; i++ {
		v, ok := tbl.Get(i)
		require.True(t, ok, "missing key %d", i)
		assert.Equal(t, i, v)
	}
}

// TestRehashPreservesAllEntries inserts enough random keys to force
// several rehashes and checks nothing is lost or duplicated.
func TestRehashPreservesAllEntries(t *testing.T) {
	tbl, err := New[int, int](IntHasher(), intEqual, WithBuckets(4), WithBucketSize(4))
	require.NoError(t, err)

	r := rand.New(rand.NewSource(1))
	want := make(map[int]int)
	for len(want) < 5000 {
		k := r.Int()
		want[k] = k + 1
	}

	for k, v := range want {
		require.NoError(t, tbl.Put(k, v))
	}
	assert.Equal(t, len(want), tbl.Len())

	for k, v := range want {
		got, ok := tbl.Get(k)
		require.True(t, ok)
		assert.Equal(t, v, got)
	}

	seen := 0
	for k, v := range tbl.Iterate() {
		wantV, ok := want[k]
		require.True(t, ok)
		assert.Equal(t, wantV, v)
		seen++
	}
	assert.Equal(t, len(want), seen)
}

func BenchmarkCuckooPut(b *testing.B) {
	tbl, err := New[int, int](IntHasher(), intEqual)
	require.NoError(b, err)

	keys := make([]int, b.N)
	for i := range keys {
		keys[i] = rand.Int()
	}

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = tbl.Put(keys[i], keys[i])
	}
}

func BenchmarkCuckooGet(b *testing.B) {
	tbl, err := New[int, int](IntHasher(), intEqual)
	require.NoError(b, err)

	const n = 100000
	keys := make([]int, n)
	for i := range keys {
		keys[i] = rand.Int()
		_ = tbl.Put(keys[i], keys[i])
	}

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		tbl.Get(keys[i%n])
	}
}

func BenchmarkMapPut(b *testing.B) {
	m := make(map[int]int)
	keys := make([]int, b.N)
	for i := range keys {
		keys[i] = rand.Int()
	}

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		m[keys[i]] = keys[i]
	}
}
