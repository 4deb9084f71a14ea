package errorProfile

import (
	"fmt"

	"github.com/shenwei356/bio/seq"
	"github.com/shenwei356/bio/seqio/fastx"
)

type Record struct {
	ID  string
	Seq []byte
}

// RecordReader yields records until io.EOF.
type RecordReader interface {
	Read() (*Record, error)
	Close() error
}

type fastxReader struct {
	reader *fastx.Reader
}

// OpenRecords opens a FASTA or FASTQ file, plain or gzipped.
func OpenRecords(path string) (RecordReader, error) {
	var reader, err = fastx.NewReader(seq.DNAredundant, path, fastx.DefaultIDRegexp)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return &fastxReader{reader: reader}, nil
}

func (r *fastxReader) Read() (*Record, error) {
	var record, err = r.reader.Read()
	if err != nil {
		return nil, err
	}
	// fastx reuses its buffers between reads
	return &Record{
		ID:  string(record.ID),
		Seq: append([]byte(nil), record.Seq.Seq...),
	}, nil
}

func (r *fastxReader) Close() error {
	r.reader.Close()
	return nil
}
