package errorProfile

import (
	"errors"
	"os"
	"regexp"

	gzip "github.com/klauspost/pgzip"
	"github.com/liserjrqlxue/goUtil/osUtil"
)

var gz = regexp.MustCompile(`\.gz$`)

// PerReadWriter is the --errors-per-read output, gzipped when its path ends in .gz
type PerReadWriter struct {
	file *os.File
	gw   *gzip.Writer
}

func CreatePerRead(path string) *PerReadWriter {
	var w = &PerReadWriter{file: osUtil.Create(path)}
	if gz.MatchString(path) {
		w.gw = gzip.NewWriter(w.file)
	}
	return w
}

func (w *PerReadWriter) Write(p []byte) (int, error) {
	if w.gw != nil {
		return w.gw.Write(p)
	}
	return w.file.Write(p)
}

func (w *PerReadWriter) Close() error {
	var err error
	if w.gw != nil {
		err = w.gw.Close()
	}
	return errors.Join(err, w.file.Close())
}
