package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sadopc/sheetr/internal/domain"
)

func sampleRows() []domain.ReportRow {
	start := time.Date(2024, 1, 8, 0, 0, 0, 0, time.Local)
	end := time.Date(2024, 4, 26, 0, 0, 0, 0, time.Local)
	return []domain.ReportRow{
		{Project: "Website Redesign", EmployeeName: "Sarah Chen", Role: "Project Manager",
			StartDate: start, EndDate: end, Rate: 85, Cost: 0},
		{Project: "Website Redesign", EmployeeName: "Priya Nair", Role: "Frontend Developer",
			StartDate: start, EndDate: end, Rate: 85, Cost: 595},
		{Project: "Mobile Banking App", EmployeeName: "Marcus Webb", Role: "Backend Developer",
			StartDate: start, EndDate: end, Rate: 85, Cost: 1020.5},
	}
}

// ============================================================
// CSV
// ============================================================

func TestToCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.csv")

	if err := ToCSV(sampleRows(), path); err != nil {
		t.Fatalf("ToCSV: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 4 {
		t.Fatalf("expected 4 rows (1 header + 3 data), got %d", len(records))
	}

	expectedHeader := []string{"Project", "Employee", "Role", "Start", "End", "Rate", "Cost"}
	for i, h := range expectedHeader {
		if records[0][i] != h {
			t.Fatalf("header[%d] = %q, want %q", i, records[0][i], h)
		}
	}

	row := records[2]
	if row[1] != "Priya Nair" {
		t.Fatalf("Employee = %q, want Priya Nair", row[1])
	}
	if row[3] != "2024-01-08" || row[4] != "2024-04-26" {
		t.Fatalf("dates = %q %q", row[3], row[4])
	}
	if row[5] != "85.00" || row[6] != "595.00" {
		t.Fatalf("rate/cost = %q %q", row[5], row[6])
	}
}

func TestToCSVEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")

	if err := ToCSV(nil, path); err != nil {
		t.Fatal(err)
	}

	f, _ := os.Open(path)
	defer f.Close()
	records, _ := csv.NewReader(f).ReadAll()
	if len(records) != 1 {
		t.Fatalf("expected 1 row (header only), got %d", len(records))
	}
}

func TestToCSVBadPath(t *testing.T) {
	if err := ToCSV(nil, "/nonexistent/dir/file.csv"); err == nil {
		t.Fatal("expected error for bad path")
	}
}

func TestToCSVSpecialCharacters(t *testing.T) {
	rows := []domain.ReportRow{{Project: `Project "Special", Inc`, EmployeeName: "A"}}
	path := filepath.Join(t.TempDir(), "special.csv")

	if err := ToCSV(rows, path); err != nil {
		t.Fatal(err)
	}

	f, _ := os.Open(path)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("CSV should be valid even with special chars: %v", err)
	}
	if records[1][0] != `Project "Special", Inc` {
		t.Fatalf("project name mangled: %q", records[1][0])
	}
	if records[1][3] != "" {
		t.Fatalf("zero start date should be blank, got %q", records[1][3])
	}
}

// ============================================================
// JSON
// ============================================================

func TestToJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.json")

	if err := ToJSON(sampleRows(), path); err != nil {
		t.Fatalf("ToJSON: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	var result jsonExport
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if result.Count != 3 || len(result.Rows) != 3 {
		t.Fatalf("count = %d rows = %d, want 3", result.Count, len(result.Rows))
	}
	if result.TotalCost != 1615.5 {
		t.Fatalf("total cost = %v, want 1615.5", result.TotalCost)
	}
	if _, err := time.Parse(time.RFC3339, result.ExportedAt); err != nil {
		t.Fatalf("exported_at is not valid RFC3339: %q", result.ExportedAt)
	}

	r := result.Rows[2]
	if r.EmployeeName != "Marcus Webb" || r.Role != "Backend Developer" || r.Cost != 1020.5 {
		t.Fatalf("unexpected row: %+v", r)
	}
	if r.StartDate != "2024-01-08" {
		t.Fatalf("start_date = %q", r.StartDate)
	}
}

func TestToJSONEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.json")

	if err := ToJSON(nil, path); err != nil {
		t.Fatal(err)
	}

	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), `"rows": []`) {
		t.Fatalf("empty export should carry an empty rows array:\n%s", data)
	}
}

func TestToJSONBadPath(t *testing.T) {
	if err := ToJSON(nil, "/nonexistent/dir/file.json"); err == nil {
		t.Fatal("expected error for bad path")
	}
}

// ============================================================
// Paginated document
// ============================================================

func TestPaginate(t *testing.T) {
	rows := make([]domain.ReportRow, 7)

	tests := []struct {
		size  int
		pages []int
	}{
		{3, []int{3, 3, 1}},
		{7, []int{7}},
		{10, []int{7}},
		{0, []int{7}},
		{-1, []int{7}},
		{1, []int{1, 1, 1, 1, 1, 1, 1}},
	}
	for _, tt := range tests {
		pages := Paginate(rows, tt.size)
		if len(pages) != len(tt.pages) {
			t.Fatalf("size %d: %d pages, want %d", tt.size, len(pages), len(tt.pages))
		}
		for i, n := range tt.pages {
			if len(pages[i]) != n {
				t.Fatalf("size %d page %d: %d rows, want %d", tt.size, i, len(pages[i]), n)
			}
		}
	}

	if Paginate(nil, 5) != nil {
		t.Fatal("no rows should give no pages")
	}
}

func TestMoney(t *testing.T) {
	tests := []struct {
		v    float64
		want string
	}{
		{0, "0.00"},
		{85, "85.00"},
		{1020.5, "1,020.50"},
		{1234567.891, "1,234,567.89"},
	}
	for _, tt := range tests {
		if got := Money(tt.v); got != tt.want {
			t.Errorf("Money(%v) = %q, want %q", tt.v, got, tt.want)
		}
	}
}

func TestWriteDocument(t *testing.T) {
	var buf bytes.Buffer
	generated := time.Date(2024, 5, 1, 9, 30, 0, 0, time.Local)

	if err := WriteDocument(&buf, "Cost report", sampleRows(), 2, generated); err != nil {
		t.Fatal(err)
	}
	out := buf.String()

	for _, want := range []string{
		"Cost report",
		"Generated 2024-05-01 09:30",
		"Priya Nair",
		"Marcus Webb",
		"1,020.50",
		"Page 1 of 2",
		"Page 2 of 2",
		"Total cost: 1,615.50",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("document missing %q:\n%s", want, out)
		}
	}
	if strings.Count(out, "\f") != 1 {
		t.Fatalf("expected one page break, got %d", strings.Count(out, "\f"))
	}
}

func TestWriteDocumentEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteDocument(&buf, "Empty", nil, 10, time.Now()); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "No report rows.") {
		t.Fatalf("unexpected output:\n%s", buf.String())
	}
}

func TestToDocumentBadPath(t *testing.T) {
	if err := ToDocument(sampleRows(), "/nonexistent/dir/report.txt", 10); err == nil {
		t.Fatal("expected error for bad path")
	}
}
