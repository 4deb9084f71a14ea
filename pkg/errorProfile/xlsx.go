package errorProfile

import (
	"github.com/liserjrqlxue/goUtil/simpleUtil"
	"github.com/xuri/excelize/v2"
)

const (
	histogramSheet = "ErrorHistogram"
	summarySheet   = "Summary"
)

func SetRow(xlsx *excelize.File, sheet string, col, row int, value []interface{}) {
	simpleUtil.CheckErr(
		xlsx.SetSheetRow(
			sheet,
			simpleUtil.HandleError(excelize.CoordinatesToCellName(col, row)),
			&value,
		),
	)
}

// WriteXlsx saves the histogram and run summary as two sheets of one workbook.
func WriteXlsx(path string, bins []Bin, summary Summary) error {
	var xlsx = excelize.NewFile()
	defer simpleUtil.DeferClose(xlsx)

	if err := xlsx.SetSheetName("Sheet1", histogramSheet); err != nil {
		return err
	}
	SetRow(xlsx, histogramSheet, 1, 1, []interface{}{"position", "error_count", "error_fraction"})
	for i, bin := range bins {
		SetRow(xlsx, histogramSheet, 1, i+2, []interface{}{bin.Position, bin.Count, bin.Fraction})
	}

	if _, err := xlsx.NewSheet(summarySheet); err != nil {
		return err
	}
	for i, row := range summary.Rows() {
		SetRow(xlsx, summarySheet, 1, i+1, row)
	}
	return xlsx.SaveAs(path)
}
