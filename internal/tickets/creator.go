package tickets

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/issuelane/issuelane/internal/backend"
	"github.com/issuelane/issuelane/internal/model"
)

// defaultAssignee is the placeholder written when no assignee was
// picked; assignment happens later through triage, not at creation.
const defaultAssignee = "Unassigned"

// ProfileSource resolves the signed-in user, the ticket's creator.
type ProfileSource interface {
	CurrentUser() *model.UserProfile
}

// Progress receives the user-visible message for each create stage.
type Progress func(message string)

// AttachmentFile is a file the user picked for upload.
type AttachmentFile struct {
	Name     string
	MimeType string
	Data     []byte
}

// Draft holds the new-ticket form's values.
type Draft struct {
	Title       string
	Description string
	IssueType   string
	Priority    model.Priority
	Assignee    string
	Deadline    *time.Time
	Attachment  *AttachmentFile
}

// Result reports a completed create. Warning is non-empty when the
// attachment upload failed and the ticket was created without it.
type Result struct {
	TicketID string
	Warning  string
}

// Creator runs the sequential ticket-creation flow against the
// backend: optional attachment upload, file row insert, ticket row
// insert. The file row must exist before the ticket row that
// references it.
type Creator struct {
	client   *backend.Client
	profiles ProfileSource
	bucket   string
}

// NewCreator builds a ticket creator writing attachments to bucket.
func NewCreator(client *backend.Client, profiles ProfileSource, bucket string) *Creator {
	return &Creator{client: client, profiles: profiles, bucket: bucket}
}

// insertedFile carries back the new files row's id.
type insertedFile struct {
	FileID int64 `json:"file_id"`
}

// insertedTicket carries back the new tickets row's id.
type insertedTicket struct {
	TicketID int64 `json:"ticket_id"`
}

// Create runs the flow. Each stage reports progress and gates the
// next; the attachment block alone is non-fatal — its failure turns
// into a warning and the ticket is created without a file reference.
func (c *Creator) Create(ctx context.Context, draft Draft, report Progress) (*Result, error) {
	if report == nil {
		report = func(string) {}
	}

	user := c.profiles.CurrentUser()
	if user == nil {
		return nil, fmt.Errorf("no signed-in user; sign in before creating tickets")
	}

	result := &Result{}

	var fileID *int64
	if draft.Attachment != nil {
		report("Uploading attachment...")
		id, err := c.uploadAttachment(ctx, draft.Attachment)
		if err != nil {
			// The ticket still gets created, just without the file.
			result.Warning = fmt.Sprintf("attachment upload failed: %v", err)
		} else {
			fileID = &id
		}
	}

	report("Creating ticket...")
	assignee := draft.Assignee
	if assignee == "" {
		assignee = defaultAssignee
	}

	row := map[string]interface{}{
		"title":       draft.Title,
		"description": draft.Description,
		"issue_type":  draft.IssueType,
		"priority":    string(draft.Priority),
		"status":      string(model.TicketStatusOpen),
		"assignee":    assignee,
		"created_by":  user.UserID,
		"file_id":     fileID,
	}
	if draft.Deadline != nil {
		row["deadline"] = draft.Deadline.Format("2006-01-02")
	} else {
		row["deadline"] = nil
	}

	var inserted insertedTicket
	err := c.client.From("tickets").
		Select("ticket_id").
		Insert(ctx, row, &inserted)
	if err != nil {
		return nil, fmt.Errorf("creating ticket: %w", err)
	}

	result.TicketID = fmt.Sprintf("#%d", inserted.TicketID)
	return result, nil
}

// uploadAttachment stores the file bytes under a randomized key,
// resolves the public URL, and inserts the files row, returning its
// id for the ticket row to reference.
func (c *Creator) uploadAttachment(ctx context.Context, att *AttachmentFile) (int64, error) {
	key := fmt.Sprintf("%s-%s", uuid.NewString(), att.Name)

	if err := c.client.Upload(ctx, c.bucket, key, att.MimeType, bytes.NewReader(att.Data)); err != nil {
		return 0, fmt.Errorf("uploading %s: %w", att.Name, err)
	}

	url := c.client.PublicURL(c.bucket, key)

	var inserted insertedFile
	err := c.client.From("files").
		Select("file_id").
		Insert(ctx, map[string]interface{}{
			"file_url":  url,
			"file_type": att.MimeType,
		}, &inserted)
	if err != nil {
		return 0, fmt.Errorf("recording file row: %w", err)
	}

	return inserted.FileID, nil
}
