package pdf

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jung-kurt/gofpdf"

	"salescrm/internal/services"
)

// Generator is an interface so handlers can be tested with a mock.
type Generator interface {
	GenerateLeaderboard(period string, rows []services.RepresentativeStats, generatedAt time.Time) (string, error)
	GenerateCategoryReport(rows []services.CategoryStats, generatedAt time.Time) (string, error)
}

// ReportGenerator renders tabular PDF reports into RootDir.
type ReportGenerator struct {
	RootDir string // storage root, e.g. "./files"
}

func NewReportGenerator(rootDir string) *ReportGenerator {
	return &ReportGenerator{RootDir: filepath.Clean(rootDir)}
}

func (g *ReportGenerator) GenerateLeaderboard(period string, rows []services.RepresentativeStats, generatedAt time.Time) (string, error) {
	filename := fmt.Sprintf("leaderboard_%s_%s.pdf", period, generatedAt.Format("20060102"))
	absPath, err := g.ensureTarget(filename)
	if err != nil {
		return "", err
	}

	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetTitle("Sales Leaderboard", false)
	pdf.SetAuthor("SalesCRM", false)
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, "Sales Leaderboard", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	sub := fmt.Sprintf("Period: %s    Generated: %s", period, generatedAt.Format("02.01.2006 15:04"))
	pdf.CellFormat(0, 7, sub, "", 1, "C", false, 0, "")
	g.hr(pdf)
	pdf.Ln(3)

	headers := []string{"Rank", "Name", "Score", "Leads", "Completed", "Rate", "Trend", "Target"}
	widths := []float64{15, 70, 25, 25, 30, 25, 35, 30}

	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetFillColor(235, 235, 235)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 8, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	for _, r := range rows {
		pdf.CellFormat(widths[0], 7, fmt.Sprintf("%d", r.Rank), "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[1], 7, r.Name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[2], 7, fmt.Sprintf("%d", r.Score), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[3], 7, fmt.Sprintf("%d", r.TotalLeads), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[4], 7, fmt.Sprintf("%d", r.Completed), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[5], 7, fmt.Sprintf("%.0f%%", r.Rate*100), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[6], 7, fmt.Sprintf("%s %s", r.Trend, r.TrendValue), "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[7], 7, fmt.Sprintf("%.0f", r.SalesTarget), "1", 1, "R", false, 0, "")
	}

	pdf.AliasNbPages("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont("Helvetica", "", 9)
		pdf.CellFormat(0, 8, fmt.Sprintf("Page %d/{nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	if err := pdf.OutputFileAndClose(absPath); err != nil {
		return "", err
	}
	return absPath, nil
}

func (g *ReportGenerator) GenerateCategoryReport(rows []services.CategoryStats, generatedAt time.Time) (string, error) {
	filename := fmt.Sprintf("categories_%s.pdf", generatedAt.Format("20060102"))
	absPath, err := g.ensureTarget(filename)
	if err != nil {
		return "", err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Category Performance", false)
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, "Category Performance", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 7, "Generated: "+generatedAt.Format("02.01.2006 15:04"), "", 1, "C", false, 0, "")
	g.hr(pdf)
	pdf.Ln(3)

	headers := []string{"Category", "Leads", "Completed", "Rate"}
	widths := []float64{80, 30, 30, 30}

	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetFillColor(235, 235, 235)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 8, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	for _, r := range rows {
		pdf.CellFormat(widths[0], 7, r.Name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[1], 7, fmt.Sprintf("%d", r.TotalLeads), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[2], 7, fmt.Sprintf("%d", r.Completed), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[3], 7, fmt.Sprintf("%.0f%%", r.Rate*100), "1", 1, "R", false, 0, "")
	}

	if err := pdf.OutputFileAndClose(absPath); err != nil {
		return "", err
	}
	return absPath, nil
}

func (g *ReportGenerator) ensureTarget(filename string) (string, error) {
	if err := os.MkdirAll(g.RootDir, 0o755); err != nil {
		return "", fmt.Errorf("create files dir: %w", err)
	}
	filename = filepath.Base(filename)
	return filepath.Join(g.RootDir, filename), nil
}

func (g *ReportGenerator) hr(pdf *gofpdf.Fpdf) {
	w, _ := pdf.GetPageSize()
	y := pdf.GetY() + 1.5
	pdf.SetLineWidth(0.2)
	pdf.Line(15, y, w-15, y)
	pdf.SetY(y + 2)
}
