package errorProfile

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	gzip "github.com/klauspost/pgzip"
	"github.com/xuri/excelize/v2"
)

var testBins = []Bin{
	{Position: 0, Count: 1, Fraction: 0.5},
	{Position: 1, Count: 0, Fraction: 0},
	{Position: 2, Count: 2, Fraction: 1},
}

func TestCreatePerRead(t *testing.T) {
	var dir = t.TempDir()

	t.Run("plain", func(t *testing.T) {
		var path = filepath.Join(dir, "errors.txt")
		var w = CreatePerRead(path)
		if _, err := w.Write([]byte("read_0 1,2\n")); err != nil {
			t.Fatalf("Write: %v", err)
		}
		if err := w.Close(); err != nil {
			t.Fatalf("Close: %v", err)
		}
		content, err := os.ReadFile(path)
		if err != nil || string(content) != "read_0 1,2\n" {
			t.Errorf("content = %q, %v", content, err)
		}
	})

	t.Run("gzip", func(t *testing.T) {
		var path = filepath.Join(dir, "errors.txt.gz")
		var w = CreatePerRead(path)
		if _, err := w.Write([]byte("read_0 5\n")); err != nil {
			t.Fatalf("Write: %v", err)
		}
		if err := w.Close(); err != nil {
			t.Fatalf("Close: %v", err)
		}
		file, err := os.Open(path)
		if err != nil {
			t.Fatalf("Open: %v", err)
		}
		defer file.Close()
		gr, err := gzip.NewReader(file)
		if err != nil {
			t.Fatalf("gzip.NewReader: %v", err)
		}
		defer gr.Close()
		content, err := io.ReadAll(gr)
		if err != nil || string(content) != "read_0 5\n" {
			t.Errorf("content = %q, %v", content, err)
		}
	})
}

func TestWriteXlsx(t *testing.T) {
	var (
		path    = filepath.Join(t.TempDir(), "profile.xlsx")
		summary = Summary{Total: 10, NConsumed: 4, NChecked: 6, Sufficient: true, Output: "x.errhist"}
	)
	if err := WriteXlsx(path, testBins, summary); err != nil {
		t.Fatalf("WriteXlsx: %v", err)
	}

	xlsx, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	defer xlsx.Close()

	rows, err := xlsx.GetRows(histogramSheet)
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != len(testBins)+1 {
		t.Fatalf("%s has %d rows; want %d", histogramSheet, len(rows), len(testBins)+1)
	}
	if rows[0][0] != "position" || rows[3][1] != "2" {
		t.Errorf("unexpected rows: %v", rows)
	}

	rows, err = xlsx.GetRows(summarySheet)
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != len(summary.Rows()) || rows[2][0] != "n checked" || rows[2][1] != "6" {
		t.Errorf("unexpected summary rows: %v", rows)
	}
}

func TestPlotHTML(t *testing.T) {
	var path = filepath.Join(t.TempDir(), "profile.html")
	PlotHTML(path, testBins, Summary{NChecked: 6})
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read %s: %v", path, err)
	}
	if !bytes.Contains(content, []byte("Error Fraction by Position")) {
		t.Error("html chart lacks its title")
	}
}

func TestPlotPNG(t *testing.T) {
	var path = filepath.Join(t.TempDir(), "profile.png")
	if err := PlotPNG(path, testBins); err != nil {
		t.Fatalf("PlotPNG: %v", err)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read %s: %v", path, err)
	}
	if !bytes.HasPrefix(content, []byte("\x89PNG")) {
		t.Error("output is not a PNG")
	}
}
