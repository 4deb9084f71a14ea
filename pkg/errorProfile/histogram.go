package errorProfile

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/liserjrqlxue/goUtil/fmtUtil"
	math2 "github.com/liserjrqlxue/goUtil/math"
	"github.com/liserjrqlxue/goUtil/osUtil"
	"github.com/liserjrqlxue/goUtil/simpleUtil"
)

type Bin struct {
	Position int
	Count    int
	// Fraction is Count over the number of checked reads covering Position
	Fraction float64
}

// MaxLength is the longest checked read, capped at MaxSeqLen.
func (p *Profile) MaxLength() int {
	var maxLength = 0
	for _, l := range p.Lengths {
		maxLength = max(maxLength, l)
	}
	return min(maxLength, len(p.Positions))
}

// LengthCounts returns, for each position n < MaxLength, how many checked reads
// have length >= n+1.
func (p *Profile) LengthCounts() []int {
	var (
		maxLength = p.MaxLength()
		counts    = make([]int, maxLength+1)
	)
	for _, l := range p.Lengths {
		counts[min(l, maxLength)]++
	}
	// suffix sums: counts[n] = #reads with length >= n
	for n := maxLength - 1; n >= 0; n-- {
		counts[n] += counts[n+1]
	}
	return counts[1:]
}

func (p *Profile) Histogram() []Bin {
	var (
		lengthCounts = p.LengthCounts()
		bins         = make([]Bin, len(lengthCounts))
	)
	for n, denominator := range lengthCounts {
		bins[n] = Bin{
			Position: n,
			Count:    p.Positions[n],
		}
		if denominator > 0 {
			bins[n].Fraction = math2.DivisionInt(p.Positions[n], denominator)
		}
	}
	return bins
}

// ErrorRate is the percentage of checked bases flagged as errors.
func (p *Profile) ErrorRate() float64 {
	var errs, bases int
	for _, c := range p.Positions {
		errs += c
	}
	for _, l := range p.Lengths {
		bases += l
	}
	if bases == 0 {
		return 0
	}
	return math2.DivisionInt(100*errs, bases)
}

// WriteHistogram writes bins to path with title [position error_count error_fraction], "-" for stdout
func WriteHistogram(path string, bins []Bin) {
	out := osUtil.Create(path)
	fmtUtil.Fprintln(out, "position error_count error_fraction")
	for _, bin := range bins {
		fmtUtil.Fprintf(out, "%d %d %s\n", bin.Position, bin.Count, FormatFraction(bin.Fraction))
	}
	if path == "-" {
		return
	}
	simpleUtil.CheckErr(out.Close())
}

// FormatFraction prints the shortest decimal form, keeping ".0" on whole numbers
func FormatFraction(f float64) string {
	var s = strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

type Summary struct {
	Total      int
	NConsumed  int
	NChecked   int
	BpConsumed int
	// BpPerCoverage is BpConsumed over the coverage threshold
	BpPerCoverage float64
	ErrorRate     float64
	MaxLength     int
	Sufficient    bool
	Output        string
}

func (p *Profile) Summary(output string) Summary {
	var s = Summary{
		Total:      p.Total,
		NConsumed:  p.NConsumed,
		NChecked:   p.NChecked,
		BpConsumed: p.BpConsumed,
		ErrorRate:  p.ErrorRate(),
		MaxLength:  p.MaxLength(),
		Sufficient: p.Sufficient(),
		Output:     output,
	}
	if p.Coverage > 0 {
		s.BpPerCoverage = float64(p.BpConsumed) / float64(p.Coverage)
	}
	return s
}

func (s Summary) Log() {
	slog.Info(
		"Summary",
		"total sequences", s.Total,
		"n consumed", s.NConsumed,
		"n checked", s.NChecked,
		"bp consumed", s.BpConsumed,
		"bp/coverage", s.BpPerCoverage,
		"error rate", fmt.Sprintf("%.2f%%", s.ErrorRate),
	)
	slog.Info("Error histogram is in " + s.Output)
}

// Rows is the summary as name/value pairs, in report order.
func (s Summary) Rows() [][]any {
	return [][]any{
		{"total sequences", s.Total},
		{"n consumed", s.NConsumed},
		{"n checked", s.NChecked},
		{"bp consumed", s.BpConsumed},
		{"bp consumed / coverage", s.BpPerCoverage},
		{"error rate %", s.ErrorRate},
		{"max read length", s.MaxLength},
		{"sufficient", s.Sufficient},
		{"histogram", s.Output},
	}
}

func (s Summary) Markdown() string {
	var sb strings.Builder
	sb.WriteString("### calcErrorProfile\n")
	for _, row := range s.Rows() {
		fmt.Fprintf(&sb, "> %s: <font color=\"info\">%v</font>\n", row[0], row[1])
	}
	if !s.Sufficient {
		sb.WriteString("> <font color=\"warning\">" + ErrInsufficientReads.Error() + "</font>\n")
	}
	return sb.String()
}
