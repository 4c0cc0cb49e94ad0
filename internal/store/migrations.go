package store

// migration holds a single schema migration with its target version and SQL.
type migration struct {
	version int
	sql     string
}

// migrations is the ordered list of schema migrations.
// Each migration's version must be sequential starting from 1.
var migrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS profile_cache (
	id         INTEGER PRIMARY KEY CHECK(id = 1),
	data       TEXT NOT NULL,
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS notifications (
	id         TEXT PRIMARY KEY,
	title      TEXT NOT NULL,
	message    TEXT NOT NULL,
	category   TEXT NOT NULL DEFAULT '',
	unread     INTEGER NOT NULL DEFAULT 1 CHECK(unread IN (0, 1)),
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_notifications_unread ON notifications(unread);
CREATE INDEX IF NOT EXISTS idx_notifications_created ON notifications(created_at);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
	{
		version: 2,
		sql: `
INSERT OR IGNORE INTO notifications (id, title, message, category, unread, created_at) VALUES
	('n-01', 'New ticket assigned', 'TASK-006 has been assigned to you by Sarah Chen', 'ticket', 1, datetime('now', '-2 minutes')),
	('n-02', 'Task completed', 'Mike Ross resolved #2041 - API timeout fix', 'task', 1, datetime('now', '-15 minutes')),
	('n-03', 'System update scheduled', 'Scheduled maintenance tonight at 2 AM EST', 'system', 0, datetime('now', '-30 minutes')),
	('n-04', 'You were mentioned', 'Sarah Chen mentioned you in TASK-004 comments', 'mention', 1, datetime('now', '-45 minutes')),
	('n-05', 'Deadline approaching', 'TASK-002 is due tomorrow - Design dashboard charts', 'task', 0, datetime('now', '-1 hours')),
	('n-06', 'New comment on your ticket', 'John Doe commented on #2038 - Database connection issue', 'ticket', 1, datetime('now', '-2 hours')),
	('n-07', 'Build failed', 'Production deployment failed - Check logs', 'system', 1, datetime('now', '-3 hours')),
	('n-08', 'Task moved to review', 'Alex Kim moved TASK-007 to In Review', 'task', 0, datetime('now', '-4 hours')),
	('n-09', 'New team member', 'Emma Wilson joined the IssueLane Core project', 'system', 0, datetime('now', '-5 hours')),
	('n-10', 'Priority changed', 'TASK-005 priority changed to Urgent by Mike Ross', 'task', 1, datetime('now', '-6 hours')),
	('n-11', 'Ticket reopened', '#2032 reopened by customer - Login issue persists', 'ticket', 1, datetime('now', '-8 hours')),
	('n-12', 'Sprint started', 'Sprint 24 started - 12 tasks assigned to you', 'system', 0, datetime('now', '-10 hours'));

INSERT INTO schema_version (version) VALUES (2);
`,
	},
}
