package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/sadopc/sheetr/internal/domain"
)

const dateLayout = "2006-01-02"

var header = []string{"Project", "Employee", "Role", "Start", "End", "Rate", "Cost"}

func ToCSV(rows []domain.ReportRow, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write(header); err != nil {
		return err
	}

	for _, r := range rows {
		record := []string{
			r.Project,
			r.EmployeeName,
			r.Role,
			formatDate(r.StartDate),
			formatDate(r.EndDate),
			strconv.FormatFloat(r.Rate, 'f', 2, 64),
			strconv.FormatFloat(r.Cost, 'f', 2, 64),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}
