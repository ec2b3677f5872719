package notifier

// Notifier delivers outbound email about achievement workflow events. All
// calls are best-effort: callers log failures and never propagate them.
type Notifier interface {
	AchievementApproved(email, name, title string) error
	AchievementRejected(email, name, title, reason string) error
	AchievementSubmitted(email, facultyName, studentName, title string) error
}
