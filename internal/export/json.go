package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/sadopc/sheetr/internal/domain"
)

type jsonExport struct {
	ExportedAt string    `json:"exported_at"`
	Count      int       `json:"count"`
	TotalCost  float64   `json:"total_cost"`
	Rows       []jsonRow `json:"rows"`
}

type jsonRow struct {
	Project      string  `json:"project"`
	EmployeeName string  `json:"employee_name"`
	Role         string  `json:"role,omitempty"`
	StartDate    string  `json:"start_date,omitempty"`
	EndDate      string  `json:"end_date,omitempty"`
	Rate         float64 `json:"rate"`
	Cost         float64 `json:"cost"`
}

func ToJSON(rows []domain.ReportRow, path string) error {
	export := jsonExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Count:      len(rows),
		TotalCost:  TotalCost(rows),
		Rows:       make([]jsonRow, 0, len(rows)),
	}

	for _, r := range rows {
		export.Rows = append(export.Rows, jsonRow{
			Project:      r.Project,
			EmployeeName: r.EmployeeName,
			Role:         r.Role,
			StartDate:    formatDate(r.StartDate),
			EndDate:      formatDate(r.EndDate),
			Rate:         r.Rate,
			Cost:         r.Cost,
		})
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}
