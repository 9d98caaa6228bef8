package export

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"

	"github.com/sadopc/sheetr/internal/domain"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	footerStyle = lipgloss.NewStyle().Faint(true)
	headerCell  = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cell        = lipgloss.NewStyle().Padding(0, 1)
	numberCell  = cell.Align(lipgloss.Right)
)

// Paginate splits rows into pages of at most size rows. A size of zero or
// less puts everything on one page.
func Paginate(rows []domain.ReportRow, size int) [][]domain.ReportRow {
	if len(rows) == 0 {
		return nil
	}
	if size <= 0 || size >= len(rows) {
		return [][]domain.ReportRow{rows}
	}
	pages := make([][]domain.ReportRow, 0, (len(rows)+size-1)/size)
	for start := 0; start < len(rows); start += size {
		end := min(start+size, len(rows))
		pages = append(pages, rows[start:end])
	}
	return pages
}

// TotalCost sums row costs, rounded to cents.
func TotalCost(rows []domain.ReportRow) float64 {
	var total float64
	for _, r := range rows {
		total += r.Cost
	}
	return math.Round(total*100) / 100
}

// Money formats an amount with thousands separators and two decimals.
func Money(v float64) string {
	return humanize.FormatFloat("#,###.##", v)
}

// WriteDocument renders the rows as a paginated text document. Pages are
// separated by form feeds; the grand total follows the last page.
func WriteDocument(w io.Writer, title string, rows []domain.ReportRow, pageSize int, generated time.Time) error {
	pages := Paginate(rows, pageSize)

	var b strings.Builder
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")
	b.WriteString(footerStyle.Render("Generated " + generated.Format("2006-01-02 15:04")))
	b.WriteString("\n\n")

	if len(pages) == 0 {
		b.WriteString("No report rows.\n")
	}
	for i, page := range pages {
		if i > 0 {
			b.WriteString("\f\n")
		}
		b.WriteString(renderPage(page))
		b.WriteString("\n")
		b.WriteString(footerStyle.Render(fmt.Sprintf("Page %d of %d", i+1, len(pages))))
		b.WriteString("\n")
	}
	b.WriteString(fmt.Sprintf("\nTotal cost: %s\n", Money(TotalCost(rows))))

	_, err := io.WriteString(w, b.String())
	return err
}

// ToDocument writes the paginated document to path.
func ToDocument(rows []domain.ReportRow, path string, pageSize int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create document: %w", err)
	}
	defer f.Close()

	if err := WriteDocument(f, "Project cost report", rows, pageSize, time.Now()); err != nil {
		return fmt.Errorf("write document: %w", err)
	}
	return nil
}

func renderPage(rows []domain.ReportRow) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(header...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerCell
			case col >= 5:
				return numberCell
			default:
				return cell
			}
		})
	for _, r := range rows {
		t.Row(
			r.Project,
			r.EmployeeName,
			r.Role,
			formatDate(r.StartDate),
			formatDate(r.EndDate),
			Money(r.Rate),
			Money(r.Cost),
		)
	}
	return t.String()
}
