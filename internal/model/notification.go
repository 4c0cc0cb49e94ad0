package model

import "time"

// NotificationCategory classifies what a notification is about.
type NotificationCategory string

const (
	NotificationTicket  NotificationCategory = "ticket"
	NotificationTask    NotificationCategory = "task"
	NotificationSystem  NotificationCategory = "system"
	NotificationMention NotificationCategory = "mention"
)

// Notification is a client-local alert shown in the notifications
// panel. No backend entity backs it; the seed set ships with the app
// and only the read flag changes.
type Notification struct {
	ID        string               `json:"id"`
	Title     string               `json:"title"`
	Message   string               `json:"message"`
	Category  NotificationCategory `json:"category,omitempty"`
	Unread    bool                 `json:"unread"`
	CreatedAt time.Time            `json:"created_at"`
}
