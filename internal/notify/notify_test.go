package notify

import (
	"context"
	"testing"

	gormsqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(gormsqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&Notification{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func TestPushAndList_NewestFirst(t *testing.T) {
	repo := NewRepo(openTestDB(t))
	ctx := context.Background()

	if err := repo.Push(ctx, 1, KindAnalysis, "Analysis complete", "REAL (90% confidence)"); err != nil {
		t.Fatalf("push: %v", err)
	}
	if err := repo.Push(ctx, 1, KindReport, "Report generated", "Your detailed analysis report is ready."); err != nil {
		t.Fatalf("push: %v", err)
	}
	if err := repo.Push(ctx, 2, KindAnalysis, "Analysis complete", "FAKE (61% confidence)"); err != nil {
		t.Fatalf("push: %v", err)
	}

	notes, err := repo.List(ctx, 1, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(notes) != 2 {
		t.Fatalf("expected 2 notifications for user 1, got %d", len(notes))
	}
	if notes[0].Kind != KindReport || notes[1].Kind != KindAnalysis {
		t.Fatalf("expected newest first, got %s then %s", notes[0].Kind, notes[1].Kind)
	}
}

func TestMarkRead_OwnerScoped(t *testing.T) {
	repo := NewRepo(openTestDB(t))
	ctx := context.Background()

	if err := repo.Push(ctx, 3, KindAnalysis, "Analysis complete", "x"); err != nil {
		t.Fatalf("push: %v", err)
	}
	notes, err := repo.List(ctx, 3, 1)
	if err != nil || len(notes) != 1 {
		t.Fatalf("list: %v (%d)", err, len(notes))
	}

	// another user cannot mark it read
	if err := repo.MarkRead(ctx, 4, notes[0].ID); err != nil {
		t.Fatalf("foreign mark read: %v", err)
	}
	after, _ := repo.List(ctx, 3, 1)
	if after[0].Read {
		t.Fatalf("expected notification to stay unread")
	}

	if err := repo.MarkRead(ctx, 3, notes[0].ID); err != nil {
		t.Fatalf("mark read: %v", err)
	}
	after, _ = repo.List(ctx, 3, 1)
	if !after[0].Read {
		t.Fatalf("expected notification to be read")
	}
}
