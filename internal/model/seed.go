package model

import "time"

func person(name, initials string) *Person {
	return &Person{Name: name, Initials: initials}
}

func daysAgo(now time.Time, d int) time.Time  { return now.Add(-time.Duration(d) * 24 * time.Hour) }
func hoursAgo(now time.Time, h int) time.Time { return now.Add(-time.Duration(h) * time.Hour) }
func inDays(now time.Time, d int) *time.Time {
	t := now.Add(time.Duration(d) * 24 * time.Hour)
	return &t
}

// SeedTasks returns the built-in development task set shown on the
// tasks screen. Tasks are not persisted anywhere; the set is rebuilt
// on every start with timestamps relative to now.
func SeedTasks(now time.Time) []Task {
	return []Task{
		{
			ID:          "TASK-001",
			Title:       "Implement user authentication API",
			Description: "Create JWT-based auth system with refresh tokens",
			Status:      TaskStatusInProgress,
			Priority:    PriorityHigh,
			Project:     "IssueLane Core",
			Assignee:    person("Sarah Chen", "SC"),
			CreatedAt:   daysAgo(now, 3),
			UpdatedAt:   hoursAgo(now, 2),
			DueDate:     inDays(now, 2),
			Progress:    65, EstimatedHours: 16, LoggedHours: 10,
		},
		{
			ID:          "TASK-002",
			Title:       "Design dashboard analytics charts",
			Description: "Create reusable chart components for data visualization",
			Status:      TaskStatusToDo,
			Priority:    PriorityMedium,
			Project:     "IssueLane Core",
			Assignee:    person("John Doe", "JD"),
			CreatedAt:   daysAgo(now, 5),
			UpdatedAt:   daysAgo(now, 1),
			DueDate:     inDays(now, 5),
			Progress:    0, EstimatedHours: 12, LoggedHours: 0,
		},
		{
			ID:          "TASK-003",
			Title:       "Fix responsive layout on mobile",
			Description: "Resolve CSS issues on iPhone and Android devices",
			Status:      TaskStatusCompleted,
			Priority:    PriorityHigh,
			Project:     "IssueLane Core",
			Assignee:    person("Emma Wilson", "EW"),
			CreatedAt:   daysAgo(now, 7),
			UpdatedAt:   hoursAgo(now, 3),
			Progress:    100, EstimatedHours: 8, LoggedHours: 6,
		},
		{
			ID:          "TASK-004",
			Title:       "Write documentation for API endpoints",
			Description: "Document all REST endpoints with examples",
			Status:      TaskStatusToDo,
			Priority:    PriorityLow,
			Project:     "IssueLane Docs",
			Assignee:    person("Alex Kim", "AK"),
			CreatedAt:   daysAgo(now, 2),
			UpdatedAt:   hoursAgo(now, 5),
			DueDate:     inDays(now, 7),
			Progress:    0, EstimatedHours: 6, LoggedHours: 0,
		},
		{
			ID:          "TASK-005",
			Title:       "Optimize database queries",
			Description: "Improve query performance for dashboard stats",
			Status:      TaskStatusInReview,
			Priority:    PriorityMedium,
			Project:     "IssueLane Core",
			Assignee:    person("Mike Ross", "MR"),
			CreatedAt:   daysAgo(now, 4),
			UpdatedAt:   hoursAgo(now, 1),
			DueDate:     inDays(now, 3),
			Progress:    90, EstimatedHours: 10, LoggedHours: 9,
		},
		{
			ID:          "TASK-006",
			Title:       "Setup CI/CD pipeline",
			Description: "Configure GitHub Actions for automated testing and deployment",
			Status:      TaskStatusInProgress,
			Priority:    PriorityHigh,
			Project:     "IssueLane Infrastructure",
			Assignee:    person("James Lee", "JL"),
			CreatedAt:   daysAgo(now, 7),
			UpdatedAt:   hoursAgo(now, 6),
			DueDate:     inDays(now, 1),
			Progress:    40, EstimatedHours: 20, LoggedHours: 8,
		},
		{
			ID:          "TASK-007",
			Title:       "Implement email notifications",
			Description: "Add SMTP integration for ticket updates",
			Status:      TaskStatusToDo,
			Priority:    PriorityMedium,
			Project:     "IssueLane Core",
			Assignee:    person("Sarah Chen", "SC"),
			CreatedAt:   daysAgo(now, 2),
			UpdatedAt:   daysAgo(now, 1),
			DueDate:     inDays(now, 7),
			Progress:    0, EstimatedHours: 8, LoggedHours: 0,
		},
		{
			ID:          "TASK-008",
			Title:       "Security audit and fixes",
			Description: "Review code for vulnerabilities and apply patches",
			Status:      TaskStatusInReview,
			Priority:    PriorityUrgent,
			Project:     "IssueLane Core",
			Assignee:    person("John Doe", "JD"),
			CreatedAt:   daysAgo(now, 3),
			UpdatedAt:   now.Add(-30 * time.Minute),
			DueDate:     inDays(now, 0),
			Progress:    85, EstimatedHours: 24, LoggedHours: 20,
		},
	}
}
