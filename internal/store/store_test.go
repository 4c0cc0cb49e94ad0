package store_test

import (
	"context"
	"testing"

	"github.com/issuelane/issuelane/internal/model"
	"github.com/issuelane/issuelane/tests/testutil"
)

func TestGetProfileEmpty(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	profile, err := s.GetProfile(ctx)
	if err != nil {
		t.Fatalf("GetProfile: %v", err)
	}
	if profile != nil {
		t.Errorf("expected nil profile on fresh store, got %+v", profile)
	}
}

func TestSaveAndGetProfile(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	want := model.UserProfile{
		AuthUserID: "auth-123",
		UserID:     7,
		Username:   "ana.reyes",
		Email:      "ana@example.com",
		FirstName:  "Ana",
		LastName:   "Reyes",
		Assignment: &model.Assignment{
			RoleID:          2,
			RoleName:        "Agent",
			DesignationID:   4,
			DesignationName: "IT Support",
		},
	}
	if err := s.SaveProfile(ctx, want); err != nil {
		t.Fatalf("SaveProfile: %v", err)
	}

	got, err := s.GetProfile(ctx)
	if err != nil {
		t.Fatalf("GetProfile: %v", err)
	}
	if got == nil {
		t.Fatal("expected cached profile, got nil")
	}
	if got.AuthUserID != want.AuthUserID || got.UserID != want.UserID ||
		got.Username != want.Username || got.Email != want.Email {
		t.Errorf("profile roundtrip mismatch:\n got: %+v\nwant: %+v", *got, want)
	}
	if got.DisplayName() != "Ana Reyes" {
		t.Errorf("DisplayName = %q, want %q", got.DisplayName(), "Ana Reyes")
	}
	if got.Assignment == nil || *got.Assignment != *want.Assignment {
		t.Errorf("assignment roundtrip mismatch: got %+v", got.Assignment)
	}
}

func TestSaveProfileReplacesPrevious(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	first := model.UserProfile{AuthUserID: "auth-1", Username: "first"}
	second := model.UserProfile{AuthUserID: "auth-2", Username: "second"}

	if err := s.SaveProfile(ctx, first); err != nil {
		t.Fatalf("SaveProfile first: %v", err)
	}
	if err := s.SaveProfile(ctx, second); err != nil {
		t.Fatalf("SaveProfile second: %v", err)
	}

	got, err := s.GetProfile(ctx)
	if err != nil {
		t.Fatalf("GetProfile: %v", err)
	}
	if got == nil || got.AuthUserID != "auth-2" {
		t.Errorf("expected the second profile to win, got %+v", got)
	}
}

func TestClearProfile(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	if err := s.SaveProfile(ctx, model.UserProfile{AuthUserID: "auth-1"}); err != nil {
		t.Fatalf("SaveProfile: %v", err)
	}
	if err := s.ClearProfile(ctx); err != nil {
		t.Fatalf("ClearProfile: %v", err)
	}

	got, err := s.GetProfile(ctx)
	if err != nil {
		t.Fatalf("GetProfile: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil profile after clear, got %+v", got)
	}
}

func TestClearProfileOnEmptyStore(t *testing.T) {
	s := testutil.NewTestStore(t)

	if err := s.ClearProfile(context.Background()); err != nil {
		t.Errorf("ClearProfile on empty store: %v", err)
	}
}

func TestNotificationsSeededNewestFirst(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	notifications, err := s.GetNotifications(ctx)
	if err != nil {
		t.Fatalf("GetNotifications: %v", err)
	}
	if len(notifications) != 12 {
		t.Fatalf("expected 12 seeded notifications, got %d", len(notifications))
	}

	if notifications[0].ID != "n-01" {
		t.Errorf("expected newest notification first, got %s", notifications[0].ID)
	}
	for i := 1; i < len(notifications); i++ {
		if notifications[i].CreatedAt.After(notifications[i-1].CreatedAt) {
			t.Errorf("notifications out of order at index %d: %s after %s",
				i, notifications[i].ID, notifications[i-1].ID)
		}
	}
}

func TestNotificationCategories(t *testing.T) {
	s := testutil.NewTestStore(t)

	notifications, err := s.GetNotifications(context.Background())
	if err != nil {
		t.Fatalf("GetNotifications: %v", err)
	}

	valid := map[model.NotificationCategory]bool{
		model.NotificationTicket:  true,
		model.NotificationTask:    true,
		model.NotificationMention: true,
		model.NotificationSystem:  true,
	}
	for _, n := range notifications {
		if !valid[n.Category] {
			t.Errorf("notification %s has unexpected category %q", n.ID, n.Category)
		}
	}
}

func TestCountUnreadNotifications(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	count, err := s.CountUnreadNotifications(ctx)
	if err != nil {
		t.Fatalf("CountUnreadNotifications: %v", err)
	}

	notifications, err := s.GetNotifications(ctx)
	if err != nil {
		t.Fatalf("GetNotifications: %v", err)
	}
	unread := 0
	for _, n := range notifications {
		if n.Unread {
			unread++
		}
	}
	if count != unread {
		t.Errorf("unread count %d does not match %d unread rows", count, unread)
	}
	if count == 0 {
		t.Error("expected seed data to include unread notifications")
	}
}

func TestMarkNotificationRead(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	before, err := s.CountUnreadNotifications(ctx)
	if err != nil {
		t.Fatalf("CountUnreadNotifications: %v", err)
	}

	if err := s.MarkNotificationRead(ctx, "n-01"); err != nil {
		t.Fatalf("MarkNotificationRead: %v", err)
	}

	after, err := s.CountUnreadNotifications(ctx)
	if err != nil {
		t.Fatalf("CountUnreadNotifications: %v", err)
	}
	if after != before-1 {
		t.Errorf("expected unread count to drop from %d to %d, got %d", before, before-1, after)
	}

	notifications, err := s.GetNotifications(ctx)
	if err != nil {
		t.Fatalf("GetNotifications: %v", err)
	}
	for _, n := range notifications {
		if n.ID == "n-01" && n.Unread {
			t.Error("n-01 still unread after MarkNotificationRead")
		}
	}
}

func TestMarkNotificationReadIsIdempotent(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	if err := s.MarkNotificationRead(ctx, "n-01"); err != nil {
		t.Fatalf("MarkNotificationRead: %v", err)
	}
	before, err := s.CountUnreadNotifications(ctx)
	if err != nil {
		t.Fatalf("CountUnreadNotifications: %v", err)
	}

	if err := s.MarkNotificationRead(ctx, "n-01"); err != nil {
		t.Fatalf("MarkNotificationRead again: %v", err)
	}
	after, err := s.CountUnreadNotifications(ctx)
	if err != nil {
		t.Fatalf("CountUnreadNotifications: %v", err)
	}
	if after != before {
		t.Errorf("re-marking a read notification changed the count: %d -> %d", before, after)
	}
}

func TestMarkNotificationReadUnknownID(t *testing.T) {
	s := testutil.NewTestStore(t)

	if err := s.MarkNotificationRead(context.Background(), "no-such-id"); err != nil {
		t.Errorf("marking an unknown notification should be a no-op, got %v", err)
	}
}

func TestMarkAllNotificationsRead(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	if err := s.MarkAllNotificationsRead(ctx); err != nil {
		t.Fatalf("MarkAllNotificationsRead: %v", err)
	}

	count, err := s.CountUnreadNotifications(ctx)
	if err != nil {
		t.Fatalf("CountUnreadNotifications: %v", err)
	}
	if count != 0 {
		t.Errorf("expected 0 unread after marking all read, got %d", count)
	}
}
