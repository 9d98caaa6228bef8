// Package fixture is the demo data set the dashboard ships with.
package fixture

import (
	"time"

	"github.com/sadopc/sheetr/internal/domain"
)

const hour = int64(3600)

type Data struct {
	Users    []domain.User
	Projects []domain.Project
	Tasks    []domain.Task
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

// Load returns a fresh copy of the demo data.
func Load() Data {
	return Data{
		Users:    users(),
		Projects: projects(),
		Tasks:    tasks(),
	}
}

func users() []domain.User {
	return []domain.User{
		{ID: "u1", Name: "Sarah Chen", Role: "Project Manager", Avatar: "avatars/sarah.png"},
		{ID: "u2", Name: "Marcus Webb", Role: "Backend Developer", Avatar: "avatars/marcus.png"},
		{ID: "u3", Name: "Priya Nair", Role: "Frontend Developer", Avatar: "avatars/priya.png"},
		{ID: "u4", Name: "Tom Okafor", Role: "UI Designer", Avatar: "avatars/tom.png"},
		{ID: "u5", Name: "Elena Rossi", Role: "QA Engineer", Avatar: "avatars/elena.png"},
	}
}

func projects() []domain.Project {
	return []domain.Project{
		{
			ID:          "p1",
			Name:        "Website Redesign",
			Description: "Refresh the marketing site and migrate the CMS.",
			Client:      "Northwind Traders",
			StartDate:   day(2024, time.January, 8),
			EndDate:     day(2024, time.April, 26),
			TeamIDs:     []string{"u1", "u3", "u4"},
		},
		{
			ID:          "p2",
			Name:        "Mobile Banking App",
			Description: "Native account overview and transfers.",
			Client:      "Contoso Bank",
			StartDate:   day(2024, time.February, 5),
			EndDate:     day(2024, time.July, 31),
			TeamIDs:     []string{"u1", "u2", "u3", "u5"},
		},
		{
			ID:          "p3",
			Name:        "Data Pipeline",
			Description: "Nightly ingestion of partner sales feeds.",
			Client:      "Fabrikam",
			StartDate:   day(2024, time.March, 1),
			EndDate:     day(2024, time.May, 31),
			TeamIDs:     []string{"u2", "u5"},
		},
	}
}

func tasks() []domain.Task {
	created := day(2024, time.March, 1)
	return []domain.Task{
		{ID: "t1", ProjectID: "p1", Title: "Homepage wireframes", AssigneeID: "u4",
			EstimatedTime: 4 * hour, TimeSpent: 5 * hour, Completed: true,
			DueDate: day(2024, time.March, 15), CreatedAt: created},
		{ID: "t2", ProjectID: "p1", Title: "CMS content migration", AssigneeID: "u3",
			EstimatedTime: 8 * hour, TimeSpent: 0,
			DueDate: day(2024, time.April, 12), CreatedAt: created},
		{ID: "t3", ProjectID: "p1", Title: "Responsive navigation", AssigneeID: "u3",
			EstimatedTime: 6 * hour, TimeSpent: 7 * hour,
			DueDate: day(2024, time.March, 22), CreatedAt: created},
		{ID: "t4", ProjectID: "p2", Title: "Transfer API", AssigneeID: "u2",
			EstimatedTime: 12 * hour, TimeSpent: 9 * hour,
			DueDate: day(2024, time.April, 5), CreatedAt: created},
		{ID: "t5", ProjectID: "p2", Title: "Account overview screen", AssigneeID: "u3",
			EstimatedTime: 10 * hour, TimeSpent: 10 * hour,
			DueDate: day(2024, time.April, 19), CreatedAt: created},
		{ID: "t6", ProjectID: "p2", Title: "Regression test plan", AssigneeID: "u5",
			EstimatedTime: 5 * hour, TimeSpent: 4 * hour, Completed: true,
			DueDate: day(2024, time.March, 29), CreatedAt: created},
		{ID: "t7", ProjectID: "p2", Title: "Sprint planning", AssigneeID: "u1",
			EstimatedTime: 2 * hour, TimeSpent: 2 * hour, Completed: true,
			DueDate: day(2024, time.March, 8), CreatedAt: created},
		{ID: "t8", ProjectID: "p3", Title: "Feed schema mapping", AssigneeID: "u2",
			EstimatedTime: 6 * hour, TimeSpent: 3 * hour,
			DueDate: day(2024, time.April, 1), CreatedAt: created},
		{ID: "t9", ProjectID: "p3", Title: "Load testing", AssigneeID: "",
			EstimatedTime: 4 * hour, TimeSpent: 0,
			DueDate: day(2024, time.May, 10), CreatedAt: created},
	}
}
