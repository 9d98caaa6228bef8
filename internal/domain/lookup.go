package domain

// UserIndex maps user IDs to users.
func UserIndex(users []User) map[string]User {
	idx := make(map[string]User, len(users))
	for _, u := range users {
		idx[u.ID] = u
	}
	return idx
}

// ProjectIndex maps project IDs to projects.
func ProjectIndex(projects []Project) map[string]Project {
	idx := make(map[string]Project, len(projects))
	for _, p := range projects {
		idx[p.ID] = p
	}
	return idx
}

// AssigneeName resolves a task's assignee, falling back to the unassigned
// placeholder for empty or dangling IDs.
func AssigneeName(t Task, users map[string]User) string {
	if u, ok := users[t.AssigneeID]; ok && !t.Unassigned() {
		return u.Name
	}
	return UnassignedName
}

// ProjectName resolves a project ID, falling back to the unknown placeholder.
func ProjectName(id string, projects map[string]Project) string {
	if p, ok := projects[id]; ok {
		return p.Name
	}
	return UnknownProjectName
}
