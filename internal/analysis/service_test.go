package analysis

import (
	"context"
	"errors"
	"testing"

	gormsqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/truthcheck/truthcheck/internal/detect"
	"github.com/truthcheck/truthcheck/internal/notify"
)

type recordingPublisher struct {
	published []string
	fail      bool
}

func (p *recordingPublisher) PublishJob(_ context.Context, jobID string) error {
	if p.fail {
		return errors.New("broker down")
	}
	p.published = append(p.published, jobID)
	return nil
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(gormsqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&Job{}, &notify.Notification{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func newTestService(t *testing.T, db *gorm.DB, pub Publisher) *Service {
	t.Helper()
	reg := detect.NewRegistry()
	reg.Register("mock", func() (detect.Detector, error) {
		return detect.NewMockDetector(0), nil
	})
	return NewService(NewRepo(db), reg, "mock", NewMemoryGuard(), pub, notify.NewRepo(db))
}

func TestSubmit_RejectsEmptyRequest(t *testing.T) {
	db := openTestDB(t)
	pub := &recordingPublisher{}
	svc := newTestService(t, db, pub)

	_, err := svc.Submit(context.Background(), 101, detect.Request{Text: "  "})
	if !errors.Is(err, detect.ErrEmptyRequest) {
		t.Fatalf("expected ErrEmptyRequest, got %v", err)
	}
	if len(pub.published) != 0 {
		t.Fatalf("expected nothing published")
	}
	var cnt int64
	if err := db.Model(&Job{}).Where("user_id = ?", uint64(101)).Count(&cnt).Error; err != nil {
		t.Fatalf("count jobs: %v", err)
	}
	if cnt != 0 {
		t.Fatalf("expected no job row, got %d", cnt)
	}
}

func TestSubmit_BusyGuardHolds(t *testing.T) {
	db := openTestDB(t)
	pub := &recordingPublisher{}
	svc := newTestService(t, db, pub)

	job, err := svc.Submit(context.Background(), 102, detect.Request{Text: "first"})
	if err != nil {
		t.Fatalf("first submit: %v", err)
	}
	if job.Status != JobQueued {
		t.Fatalf("expected queued, got %s", job.Status)
	}

	if _, err := svc.Submit(context.Background(), 102, detect.Request{Text: "second"}); !errors.Is(err, ErrBusy) {
		t.Fatalf("expected ErrBusy, got %v", err)
	}

	// a different user is not blocked
	if _, err := svc.Submit(context.Background(), 103, detect.Request{Text: "other"}); err != nil {
		t.Fatalf("other user submit: %v", err)
	}

	// completing the job frees the guard
	if err := svc.Run(context.Background(), job.ID); err != nil {
		t.Fatalf("run: %v", err)
	}
	if _, err := svc.Submit(context.Background(), 102, detect.Request{Text: "third"}); err != nil {
		t.Fatalf("submit after completion: %v", err)
	}
}

func TestRun_ProducesResultAndNotification(t *testing.T) {
	db := openTestDB(t)
	pub := &recordingPublisher{}
	svc := newTestService(t, db, pub)

	job, err := svc.Submit(context.Background(), 104, detect.Request{FileRef: "photo.jpg", FileSize: 2048, MimeType: "image/jpeg"})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if len(pub.published) != 1 || pub.published[0] != job.ID {
		t.Fatalf("expected job %s published, got %v", job.ID, pub.published)
	}

	if err := svc.Run(context.Background(), job.ID); err != nil {
		t.Fatalf("run: %v", err)
	}

	got, err := svc.Get(context.Background(), 104, job.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != JobSucceeded {
		t.Fatalf("expected succeeded, got %s", got.Status)
	}
	if got.Confidence == nil || *got.Confidence < 60 || *got.Confidence > 100 {
		t.Fatalf("confidence out of range: %v", got.Confidence)
	}
	if got.IsReal == nil {
		t.Fatalf("expected verdict to be set")
	}
	if got.Explanation == nil || *got.Explanation != detect.Explanation {
		t.Fatalf("unexpected explanation: %v", got.Explanation)
	}

	notes, err := notify.NewRepo(db).List(context.Background(), 104, 10)
	if err != nil {
		t.Fatalf("list notifications: %v", err)
	}
	if len(notes) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(notes))
	}
	if notes[0].Kind != notify.KindAnalysis || notes[0].Title != "Analysis complete" {
		t.Fatalf("unexpected notification: %+v", notes[0])
	}
}

func TestSubmit_PublishFailureReleasesGuard(t *testing.T) {
	db := openTestDB(t)
	pub := &recordingPublisher{fail: true}
	svc := newTestService(t, db, pub)

	if _, err := svc.Submit(context.Background(), 105, detect.Request{Text: "x"}); err == nil {
		t.Fatalf("expected publish failure to surface")
	}

	// guard must not stay held after a failed enqueue
	pub.fail = false
	if _, err := svc.Submit(context.Background(), 105, detect.Request{Text: "retry"}); err != nil {
		t.Fatalf("expected retry to be accepted, got %v", err)
	}
}

func TestGet_HidesOtherUsersJobs(t *testing.T) {
	db := openTestDB(t)
	svc := newTestService(t, db, &recordingPublisher{})

	job, err := svc.Submit(context.Background(), 106, detect.Request{Text: "mine"})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := svc.Get(context.Background(), 107, job.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected record not found for foreign user, got %v", err)
	}
}

func TestGenerateReport(t *testing.T) {
	db := openTestDB(t)
	svc := newTestService(t, db, &recordingPublisher{})

	job, err := svc.Submit(context.Background(), 108, detect.Request{Text: "content"})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	// no result yet
	if err := svc.GenerateReport(context.Background(), 108, job.ID); !errors.Is(err, ErrReportUnavailable) {
		t.Fatalf("expected ErrReportUnavailable, got %v", err)
	}

	if err := svc.Run(context.Background(), job.ID); err != nil {
		t.Fatalf("run: %v", err)
	}

	// one notification per invocation
	if err := svc.GenerateReport(context.Background(), 108, job.ID); err != nil {
		t.Fatalf("report: %v", err)
	}
	if err := svc.GenerateReport(context.Background(), 108, job.ID); err != nil {
		t.Fatalf("report again: %v", err)
	}

	notes, err := notify.NewRepo(db).List(context.Background(), 108, 10)
	if err != nil {
		t.Fatalf("list notifications: %v", err)
	}
	reports := 0
	for _, n := range notes {
		if n.Kind == notify.KindReport {
			reports++
		}
	}
	if reports != 2 {
		t.Fatalf("expected 2 report notifications, got %d", reports)
	}
}
