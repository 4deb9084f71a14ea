package errorProfile

import (
	"fmt"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
	"github.com/liserjrqlxue/goUtil/osUtil"
	"github.com/liserjrqlxue/goUtil/simpleUtil"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

func GenerateLineItems(vs []float64) []opts.LineData {
	var items = make([]opts.LineData, 0, len(vs))
	for _, v := range vs {
		items = append(items, opts.LineData{Value: v})
	}
	return items
}

// PlotHTML renders error fraction by position as an echarts line chart.
func PlotHTML(path string, bins []Bin, summary Summary) {
	var (
		line      = charts.NewLine()
		xaxis     = make([]int, len(bins))
		fractions = make([]float64, len(bins))
		output    = osUtil.Create(path)
	)
	defer simpleUtil.DeferClose(output)

	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Theme: types.ThemeWesteros}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Error Fraction by Position",
			Subtitle: fmt.Sprintf("%d reads checked, error rate %.2f%%", summary.NChecked, summary.ErrorRate),
		}))

	for i, bin := range bins {
		xaxis[i] = bin.Position
		fractions[i] = bin.Fraction
	}
	line.SetXAxis(xaxis).
		AddSeries("error_fraction", GenerateLineItems(fractions))
	simpleUtil.CheckErr(line.Render(output))
}

// PlotPNG draws the same profile with gonum/plot.
func PlotPNG(path string, bins []Bin) error {
	var (
		p      = plot.New()
		points = make(plotter.XYs, len(bins))
	)
	p.Title.Text = "Error Fraction by Position"
	p.X.Label.Text = "position"
	p.Y.Label.Text = "error fraction"

	for i, bin := range bins {
		points[i] = plotter.XY{X: float64(bin.Position), Y: bin.Fraction}
	}
	line, err := plotter.NewLine(points)
	if err != nil {
		return err
	}
	line.Color = plotutil.Color(0)
	line.Width = vg.Points(1)
	p.Add(line)
	return p.Save(16*vg.Inch, 9*vg.Inch, path)
}
