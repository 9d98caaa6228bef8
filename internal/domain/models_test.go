package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateDuration_Negative(t *testing.T) {
	err := ValidateDuration("estimated time", -1)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNegativeDuration)
	assert.Contains(t, err.Error(), "estimated time")
}

func TestValidateDuration_ZeroAllowed(t *testing.T) {
	assert.NoError(t, ValidateDuration("time spent", 0))
}

func TestTaskValidate(t *testing.T) {
	assert.NoError(t, Task{EstimatedTime: 3600, TimeSpent: 7200}.Validate())
	assert.ErrorIs(t, Task{TimeSpent: -5}.Validate(), ErrNegativeDuration)
}

func TestAssigneeName_Placeholders(t *testing.T) {
	users := UserIndex([]User{{ID: "u1", Name: "Ada"}})

	assert.Equal(t, "Ada", AssigneeName(Task{AssigneeID: "u1"}, users))
	assert.Equal(t, UnassignedName, AssigneeName(Task{}, users))
	assert.Equal(t, UnassignedName, AssigneeName(Task{AssigneeID: "ghost"}, users))
}

func TestProjectName_Unknown(t *testing.T) {
	projects := ProjectIndex([]Project{{ID: "p1", Name: "Website"}})
	assert.Equal(t, "Website", ProjectName("p1", projects))
	assert.Equal(t, UnknownProjectName, ProjectName("p9", projects))
}

func TestStatusLabel(t *testing.T) {
	assert.Equal(t, "Not Started", StatusNotStarted.Label())
	assert.Equal(t, "Delayed", StatusDelayed.Label())
	assert.Len(t, Statuses, 4)
}
