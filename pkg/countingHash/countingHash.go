// Package countingHash is a count-min sketch over canonical k-mers.
package countingHash

import (
	"errors"
	"fmt"
	"sort"

	math2 "github.com/liserjrqlxue/goUtil/math"
	"github.com/will-rowe/ntHash"
)

const (
	// MaxCount is where 8-bit counters saturate
	MaxCount = 255

	// Canonical hashes a k-mer and its reverse complement to the same value
	Canonical = true
)

var (
	ErrKSize      = errors.New("k must be positive")
	ErrTableCount = errors.New("need at least one table")
)

type CountingHash struct {
	k      uint
	sizes  []uint64
	tables [][]uint8
}

// New builds nTables counter tables sized to the nTables largest primes below tableSize.
func New(k uint, tableSize uint64, nTables int) (*CountingHash, error) {
	if k == 0 {
		return nil, ErrKSize
	}
	if nTables < 1 {
		return nil, ErrTableCount
	}
	var sizes, err = PrimesBelow(tableSize, nTables)
	if err != nil {
		return nil, err
	}
	var ch = &CountingHash{
		k:      k,
		sizes:  sizes,
		tables: make([][]uint8, nTables),
	}
	for i, size := range sizes {
		ch.tables[i] = make([]uint8, size)
	}
	return ch, nil
}

func (ch *CountingHash) K() uint {
	return ch.k
}

func (ch *CountingHash) TableSizes() []uint64 {
	return ch.sizes
}

// OccupiedSlots counts non-zero slots in the first table
func (ch *CountingHash) OccupiedSlots() int {
	var n = 0
	for _, c := range ch.tables[0] {
		if c > 0 {
			n++
		}
	}
	return n
}

// hashes returns one hash per k-mer, in k-mer start order.
// Sequences shorter than k have no k-mers.
func (ch *CountingHash) hashes(seq []byte) ([]uint64, error) {
	if uint(len(seq)) < ch.k {
		return nil, nil
	}
	hasher, err := ntHash.New(&seq, ch.k)
	if err != nil {
		return nil, fmt.Errorf("hash %q: %w", seq, err)
	}
	var hvs = make([]uint64, 0, len(seq)-int(ch.k)+1)
	for hv := range hasher.Hash(Canonical) {
		hvs = append(hvs, hv)
	}
	return hvs, nil
}

func (ch *CountingHash) count(hv uint64) uint8 {
	var c uint8 = MaxCount
	for i, size := range ch.sizes {
		if v := ch.tables[i][hv%size]; v < c {
			c = v
		}
	}
	return c
}

func (ch *CountingHash) increment(hv uint64) {
	for i, size := range ch.sizes {
		var slot = hv % size
		if ch.tables[i][slot] < MaxCount {
			ch.tables[i][slot]++
		}
	}
}

// Consume adds every k-mer of seq and returns how many were added.
func (ch *CountingHash) Consume(seq []byte) (int, error) {
	var hvs, err = ch.hashes(seq)
	if err != nil {
		return 0, err
	}
	for _, hv := range hvs {
		ch.increment(hv)
	}
	return len(hvs), nil
}

// Get returns the count of a single k-mer.
func (ch *CountingHash) Get(kmer []byte) (uint8, error) {
	if uint(len(kmer)) != ch.k {
		return 0, fmt.Errorf("k-mer %q: length %d != k %d", kmer, len(kmer), ch.k)
	}
	var hvs, err = ch.hashes(kmer)
	if err != nil {
		return 0, err
	}
	return ch.count(hvs[0]), nil
}

// KmerCounts returns the count of each k-mer of seq, indexed by k-mer start.
func (ch *CountingHash) KmerCounts(seq []byte) ([]uint8, error) {
	var hvs, err = ch.hashes(seq)
	if err != nil {
		return nil, err
	}
	var counts = make([]uint8, len(hvs))
	for i, hv := range hvs {
		counts[i] = ch.count(hv)
	}
	return counts, nil
}

// MedianCount summarises the k-mer counts of seq.
// The median is the upper middle value for an even number of k-mers.
func (ch *CountingHash) MedianCount(seq []byte) (median int, mean, sd float64, err error) {
	counts, err := ch.KmerCounts(seq)
	if err != nil || len(counts) == 0 {
		return 0, 0, 0, err
	}
	var values = make([]float64, len(counts))
	for i, c := range counts {
		values[i] = float64(c)
	}
	mean, sd = math2.MeanStdDev(values)
	if len(values) == 1 {
		sd = 0
	}
	sort.Float64s(values)
	median = int(values[len(values)/2])
	return median, mean, sd, nil
}

// SpectralErrorPositions returns the read positions where a trusted stretch of
// k-mers (count > cutoff) turns untrusted.
func (ch *CountingHash) SpectralErrorPositions(seq []byte, cutoff int) ([]int, error) {
	var counts, err = ch.KmerCounts(seq)
	if err != nil {
		return nil, err
	}
	return ErrorPositions(counts, int(ch.k), cutoff), nil
}

// ErrorPositions walks k-mer counts left to right.
// Untrusted k-mers before the first trusted one report the base just before it;
// afterwards each trusted->untrusted step at k-mer j reports base j+k-1.
func ErrorPositions(counts []uint8, k, cutoff int) []int {
	var (
		posns = []int{}
		i     = 0
	)
	for i < len(counts) && int(counts[i]) <= cutoff {
		i++
	}
	if i == len(counts) {
		return posns
	}
	if i > 0 {
		posns = append(posns, i-1)
	}
	for i++; i < len(counts); i++ {
		if int(counts[i]) > cutoff {
			continue
		}
		posns = append(posns, i+k-1)
		for i+1 < len(counts) && int(counts[i+1]) <= cutoff {
			i++
		}
	}
	return posns
}
