package services

import (
	"fmt"
	"io"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
	"github.com/yeremiapane/dinein-backend/utils"
)

// WriteDailyRevenuePDF renders the daily revenue table as an A4 PDF.
func WriteDailyRevenuePDF(w io.Writer, restaurantName string, from, to time.Time, rows []DailyRevenue) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Daily revenue", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 10, restaurantName+" - Daily revenue", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	period := fmt.Sprintf("Period: %s to %s", from.Format("2006-01-02"), to.Format("2006-01-02"))
	pdf.CellFormat(0, 6, period, "", 1, "L", false, 0, "")
	pdf.Ln(4)

	widths := []float64{35, 20, 45, 45, 45}
	headers := []string{"Date", "Orders", "Revenue", "Average", "Cash"}
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	total := decimal.Zero
	count := 0
	for _, r := range rows {
		cells := []string{
			r.Date,
			fmt.Sprint(r.OrderCount),
			utils.FormatCurrencyIDR(r.Revenue),
			utils.FormatCurrencyIDR(r.AverageOrderValue),
			utils.FormatCurrencyIDR(r.PaymentMethods["cash"]),
		}
		for i, c := range cells {
			align := "R"
			if i == 0 {
				align = "L"
			}
			pdf.CellFormat(widths[i], 7, c, "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
		total = total.Add(r.Revenue)
		count += r.OrderCount
	}

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(widths[0], 7, "Total", "1", 0, "L", false, 0, "")
	pdf.CellFormat(widths[1], 7, fmt.Sprint(count), "1", 0, "R", false, 0, "")
	pdf.CellFormat(widths[2], 7, utils.FormatCurrencyIDR(total), "1", 0, "R", false, 0, "")
	pdf.CellFormat(widths[3]+widths[4], 7, "", "1", 1, "R", false, 0, "")

	return pdf.Output(w)
}
