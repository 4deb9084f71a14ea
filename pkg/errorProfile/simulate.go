package errorProfile

import (
	"fmt"
	"io"
	"math/rand"
	"strings"

	"github.com/liserjrqlxue/DNA/pkg/util"
)

var nucleotides = []byte("ACGT")

// SimConfig describes synthetic shotgun reads sampled from a circular reference.
type SimConfig struct {
	RefLen   int
	NumReads int
	ReadLen  int

	// ErrorPositions get a substitution with probability ErrorRate in each read
	ErrorPositions []int
	ErrorRate      float64
	// RevComp sequences half of the reads from the reverse strand
	RevComp bool
	Seed    int64
}

func randomNt(r *rand.Rand, n int) []byte {
	var s = make([]byte, n)
	for i := range s {
		s[i] = nucleotides[r.Intn(4)]
	}
	return s
}

// substitute returns a base different from b
func substitute(r *rand.Rand, b byte) byte {
	var i = strings.IndexByte(string(nucleotides), b)
	if i < 0 {
		return nucleotides[r.Intn(4)]
	}
	return nucleotides[(i+1+r.Intn(3))%4]
}

// Simulate returns the reference and reads; error positions are in read coordinates.
func Simulate(cfg SimConfig) (ref []byte, reads []Record, err error) {
	if cfg.ReadLen > cfg.RefLen || cfg.ReadLen < 1 {
		return nil, nil, fmt.Errorf("read length %d must be in [1, %d]", cfg.ReadLen, cfg.RefLen)
	}
	for _, pos := range cfg.ErrorPositions {
		if pos < 0 || pos >= cfg.ReadLen {
			return nil, nil, fmt.Errorf("error position %d outside read length %d", pos, cfg.ReadLen)
		}
	}

	var r = rand.New(rand.NewSource(cfg.Seed))
	ref = randomNt(r, cfg.RefLen)
	var circular = append(append([]byte(nil), ref...), ref[:cfg.ReadLen]...)

	reads = make([]Record, cfg.NumReads)
	for i := range reads {
		var (
			start = r.Intn(cfg.RefLen)
			read  = append([]byte(nil), circular[start:start+cfg.ReadLen]...)
		)
		if cfg.RevComp && r.Intn(2) == 1 {
			read = []byte(util.ReverseComplement(string(read)))
		}
		for _, pos := range cfg.ErrorPositions {
			if r.Float64() < cfg.ErrorRate {
				read[pos] = substitute(r, read[pos])
			}
		}
		reads[i] = Record{
			ID:  fmt.Sprintf("read_%d", i),
			Seq: read,
		}
	}
	return ref, reads, nil
}

// WriteFastq writes records with a constant quality string.
func WriteFastq(w io.Writer, reads []Record) error {
	for _, read := range reads {
		if _, err := fmt.Fprintf(w, "@%s\n%s\n+\n%s\n", read.ID, read.Seq, strings.Repeat("I", len(read.Seq))); err != nil {
			return err
		}
	}
	return nil
}

func WriteFasta(w io.Writer, name string, seq []byte) error {
	_, err := fmt.Fprintf(w, ">%s\n%s\n", name, seq)
	return err
}
