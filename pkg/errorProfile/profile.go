// Package errorProfile estimates a per-position sequencing error profile from
// k-mer abundance: reads train a counting hash until their median k-mer
// abundance saturates, after which low-abundance positions are tallied as errors.
package errorProfile

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
)

var ErrInsufficientReads = errors.New("not enough reads to get a good result")

// Counter is the k-mer abundance table a Profile trains and queries.
type Counter interface {
	MedianCount(seq []byte) (median int, mean, sd float64, err error)
	Consume(seq []byte) (int, error)
	SpectralErrorPositions(seq []byte, cutoff int) ([]int, error)
}

type Profile struct {
	Params
	Counter Counter
	Open    func(path string) (RecordReader, error)

	// ErrorsPerRead receives one "<id> <p1,p2,...>" line per checked read
	ErrorsPerRead io.Writer

	// Positions[i] counts errors flagged at read position i
	Positions []int
	// Lengths of checked reads
	Lengths []int

	Total      int
	NConsumed  int
	NChecked   int
	BpConsumed int
}

func NewProfile(params Params, counter Counter) *Profile {
	return &Profile{
		Params:    params,
		Counter:   counter,
		Open:      OpenRecords,
		Positions: make([]int, params.MaxSeqLen),
	}
}

// Sufficient reports whether enough reads were checked relative to those consumed.
// A run that checked no read is never sufficient.
func (p *Profile) Sufficient() bool {
	if p.NChecked == 0 {
		return false
	}
	return p.NChecked >= p.NConsumed || p.NChecked > p.MaxChecked
}

// Scan runs every file in order until the input is exhausted or an exit condition holds.
func (p *Profile) Scan(ctx context.Context, files []string) error {
	for _, path := range files {
		slog.Info("opening", "file", path)
		reader, err := p.Open(path)
		if err != nil {
			return err
		}
		stop, err := p.ScanReader(ctx, reader)
		if cerr := reader.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
		if err != nil {
			return fmt.Errorf("scan %s: %w", path, err)
		}
		if stop {
			break
		}
	}
	return nil
}

// ScanReader consumes records from reader and reports whether scanning should stop.
// The read ceiling is checked on every record; sufficiency only every CheckExit records.
func (p *Profile) ScanReader(ctx context.Context, reader RecordReader) (stop bool, err error) {
	var record *Record
	for {
		if err = ctx.Err(); err != nil {
			return true, err
		}
		record, err = reader.Read()
		if err == io.EOF {
			return false, nil
		}
		if err != nil {
			return true, err
		}

		p.Total++
		if p.Total >= p.MaxReads {
			slog.Info("read ceiling reached", "total", p.Total)
			return true, nil
		}
		if p.Total%p.CheckExit == 0 {
			slog.Info("...", "total", p.Total, "consumed", p.NConsumed, "checked", p.NChecked)
			if p.Sufficient() {
				return true, nil
			}
		}

		if err = p.Add(record); err != nil {
			return true, err
		}
	}
}

// Add trains on an unsaturated read or tallies the error positions of a saturated one.
func (p *Profile) Add(record *Record) error {
	var seq = bytes.Map(acgt, record.Seq)

	median, _, _, err := p.Counter.MedianCount(seq)
	if err != nil {
		return fmt.Errorf("read %s: %w", record.ID, err)
	}

	if median < p.Coverage {
		if _, err = p.Counter.Consume(seq); err != nil {
			return fmt.Errorf("read %s: %w", record.ID, err)
		}
		p.NConsumed++
		p.BpConsumed += len(seq)
		return nil
	}

	posns, err := p.Counter.SpectralErrorPositions(seq, p.Cutoff)
	if err != nil {
		return fmt.Errorf("read %s: %w", record.ID, err)
	}
	p.Lengths = append(p.Lengths, len(seq))

	if p.ErrorsPerRead != nil {
		if _, err = fmt.Fprintf(p.ErrorsPerRead, "%s %s\n", record.ID, joinInts(posns, ",")); err != nil {
			return err
		}
	}

	for _, pos := range posns {
		if pos >= 0 && pos < len(p.Positions) {
			p.Positions[pos]++
		}
	}
	p.NChecked++
	return nil
}

// acgt upper-cases a base and turns N and other ambiguity codes into A
func acgt(r rune) rune {
	switch r {
	case 'A', 'C', 'G', 'T':
		return r
	case 'a', 'c', 'g', 't':
		return r - 'a' + 'A'
	default:
		return 'A'
	}
}

func joinInts(values []int, sep string) string {
	var s = make([]string, len(values))
	for i, v := range values {
		s[i] = strconv.Itoa(v)
	}
	return strings.Join(s, sep)
}
