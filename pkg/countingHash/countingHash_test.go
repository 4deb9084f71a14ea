package countingHash

import (
	"math/rand"
	"reflect"
	"testing"

	"github.com/liserjrqlxue/DNA/pkg/util"
)

func randomSeq(r *rand.Rand, n int) []byte {
	var (
		nt  = []byte("ACGT")
		seq = make([]byte, n)
	)
	for i := range seq {
		seq[i] = nt[r.Intn(4)]
	}
	return seq
}

func newTestHash(t *testing.T, k uint) *CountingHash {
	t.Helper()
	ch, err := New(k, 100003, 4)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return ch
}

func TestPrimesBelow(t *testing.T) {
	got, err := PrimesBelow(30, 4)
	if err != nil {
		t.Fatalf("PrimesBelow: %v", err)
	}
	if want := []uint64{29, 23, 19, 17}; !reflect.DeepEqual(got, want) {
		t.Errorf("PrimesBelow(30, 4) = %v; want %v", got, want)
	}

	if _, err := PrimesBelow(10, 5); err == nil {
		t.Error("Expected an error when too few primes exist, but got nil")
	}
}

func TestNew(t *testing.T) {
	if _, err := New(0, 1000, 4); err != ErrKSize {
		t.Errorf("New(k=0) error = %v; want %v", err, ErrKSize)
	}
	if _, err := New(20, 1000, 0); err != ErrTableCount {
		t.Errorf("New(nTables=0) error = %v; want %v", err, ErrTableCount)
	}

	ch := newTestHash(t, 20)
	if len(ch.TableSizes()) != 4 {
		t.Errorf("TableSizes() has %d tables; want 4", len(ch.TableSizes()))
	}
	if ch.K() != 20 {
		t.Errorf("K() = %d; want 20", ch.K())
	}
	if ch.OccupiedSlots() != 0 {
		t.Errorf("OccupiedSlots() = %d on an empty hash", ch.OccupiedSlots())
	}
}

func TestConsumeAndGet(t *testing.T) {
	var (
		r   = rand.New(rand.NewSource(1))
		seq = randomSeq(r, 60)
		ch  = newTestHash(t, 11)
	)

	for i := 0; i < 3; i++ {
		n, err := ch.Consume(seq)
		if err != nil {
			t.Fatalf("Consume: %v", err)
		}
		if n != 50 {
			t.Fatalf("Consume added %d k-mers; want 50", n)
		}
	}

	t.Run("forward k-mer", func(t *testing.T) {
		c, err := ch.Get(seq[5:16])
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if c != 3 {
			t.Errorf("Get = %d; want 3", c)
		}
	})

	t.Run("reverse complement k-mer", func(t *testing.T) {
		rc := []byte(util.ReverseComplement(string(seq[5:16])))
		c, err := ch.Get(rc)
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if c != 3 {
			t.Errorf("Get(rc) = %d; want 3", c)
		}
	})

	t.Run("wrong length", func(t *testing.T) {
		if _, err := ch.Get(seq[:5]); err == nil {
			t.Error("Expected an error for a short k-mer, but got nil")
		}
	})

	if ch.OccupiedSlots() == 0 {
		t.Error("OccupiedSlots() = 0 after Consume")
	}
}

func TestSaturation(t *testing.T) {
	var (
		r   = rand.New(rand.NewSource(2))
		seq = randomSeq(r, 11)
		ch  = newTestHash(t, 11)
	)
	for i := 0; i < MaxCount+20; i++ {
		if _, err := ch.Consume(seq); err != nil {
			t.Fatalf("Consume: %v", err)
		}
	}
	c, err := ch.Get(seq)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if c != MaxCount {
		t.Errorf("Get = %d; want saturation at %d", c, MaxCount)
	}
}

func TestMedianCount(t *testing.T) {
	var (
		r   = rand.New(rand.NewSource(3))
		seq = randomSeq(r, 40)
		ch  = newTestHash(t, 11)
	)

	t.Run("shorter than k", func(t *testing.T) {
		med, mean, sd, err := ch.MedianCount(seq[:5])
		if err != nil || med != 0 || mean != 0 || sd != 0 {
			t.Errorf("MedianCount(short) = %d, %f, %f, %v; want zeros", med, mean, sd, err)
		}
	})

	for i := 0; i < 4; i++ {
		if _, err := ch.Consume(seq); err != nil {
			t.Fatalf("Consume: %v", err)
		}
	}
	t.Run("uniform coverage", func(t *testing.T) {
		med, mean, _, err := ch.MedianCount(seq)
		if err != nil {
			t.Fatalf("MedianCount: %v", err)
		}
		if med != 4 || mean != 4 {
			t.Errorf("MedianCount = %d, %f; want 4, 4", med, mean)
		}
	})

	t.Run("unseen sequence", func(t *testing.T) {
		med, _, _, err := ch.MedianCount(randomSeq(r, 40))
		if err != nil {
			t.Fatalf("MedianCount: %v", err)
		}
		if med != 0 {
			t.Errorf("MedianCount(unseen) = %d; want 0", med)
		}
	})
}

func TestErrorPositions(t *testing.T) {
	var tests = []struct {
		name   string
		counts []uint8
		k      int
		want   []int
	}{
		{"empty", nil, 5, []int{}},
		{"all trusted", []uint8{9, 9, 9, 9}, 5, []int{}},
		{"all untrusted", []uint8{1, 0, 2, 3}, 5, []int{}},
		{"leading error", []uint8{0, 1, 9, 9, 9}, 5, []int{1}},
		{"single interior error", []uint8{9, 9, 1, 1, 1, 9, 9}, 5, []int{6}},
		{"two interior errors", []uint8{9, 0, 9, 9, 0, 0, 9}, 3, []int{3, 6}},
		{"trailing error", []uint8{9, 9, 9, 2}, 5, []int{7}},
		{"leading and interior", []uint8{2, 9, 2, 9}, 4, []int{0, 5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ErrorPositions(tt.counts, tt.k, 3); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ErrorPositions(%v) = %v; want %v", tt.counts, got, tt.want)
			}
		})
	}
}

func TestSpectralErrorPositions(t *testing.T) {
	var (
		r   = rand.New(rand.NewSource(4))
		seq = randomSeq(r, 60)
		ch  = newTestHash(t, 11)
	)
	for i := 0; i < 5; i++ {
		if _, err := ch.Consume(seq); err != nil {
			t.Fatalf("Consume: %v", err)
		}
	}

	var tests = []struct {
		name string
		pos  []int
	}{
		{"clean", nil},
		{"interior mismatch", []int{30}},
		{"early mismatch", []int{3}},
		{"last base", []int{59}},
		{"two mismatches", []int{20, 45}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var mut = append([]byte(nil), seq...)
			for _, p := range tt.pos {
				mut[p] = mutate(mut[p])
			}
			got, err := ch.SpectralErrorPositions(mut, 3)
			if err != nil {
				t.Fatalf("SpectralErrorPositions: %v", err)
			}
			var want = tt.pos
			if want == nil {
				want = []int{}
			}
			if !reflect.DeepEqual(got, want) {
				t.Errorf("SpectralErrorPositions = %v; want %v", got, want)
			}
		})
	}
}

func mutate(b byte) byte {
	switch b {
	case 'A':
		return 'C'
	case 'C':
		return 'G'
	case 'G':
		return 'T'
	default:
		return 'A'
	}
}
