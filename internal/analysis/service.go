package analysis

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/truthcheck/truthcheck/internal/common"
	"github.com/truthcheck/truthcheck/internal/detect"
	"github.com/truthcheck/truthcheck/internal/notify"
)

var (
	// ErrBusy means the user already has a queued or running analysis.
	ErrBusy = errors.New("analysis: another analysis is already pending")
	// ErrReportUnavailable means the job has no verdict to report on.
	ErrReportUnavailable = errors.New("analysis: job has no result to report")
)

type Publisher interface {
	PublishJob(ctx context.Context, jobID string) error
}

type Notifier interface {
	Push(ctx context.Context, userID uint64, kind notify.Kind, title, body string) error
}

type Service struct {
	repo     *Repo
	registry *detect.Registry
	detector string
	guard    Guard
	pub      Publisher
	notifier Notifier
}

func NewService(repo *Repo, registry *detect.Registry, detector string, guard Guard, pub Publisher, notifier Notifier) *Service {
	if detector == "" {
		detector = "mock"
	}
	return &Service{
		repo:     repo,
		registry: registry,
		detector: detector,
		guard:    guard,
		pub:      pub,
		notifier: notifier,
	}
}

// Submit validates the request, takes the per-user busy flag, persists a
// queued job and enqueues it. Once accepted the job always reaches a
// terminal state; there is no user-facing cancel.
func (s *Service) Submit(ctx context.Context, userID uint64, req detect.Request) (*Job, error) {
	if req.Empty() {
		return nil, detect.ErrEmptyRequest
	}

	acquired, err := s.guard.Acquire(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !acquired {
		return nil, ErrBusy
	}

	jobID, err := common.NewULID()
	if err != nil {
		_ = s.guard.Release(ctx, userID)
		return nil, err
	}

	job := &Job{
		ID:     jobID,
		UserID: userID,
		Status: JobQueued,
	}
	if req.FileRef != "" {
		job.ContentKind = ContentFile
		job.FileName = req.FileRef
		job.FileSize = req.FileSize
		job.MimeType = req.MimeType
	} else {
		job.ContentKind = ContentText
		job.TextBody = req.Text
	}

	if err := s.repo.CreateJob(ctx, job); err != nil {
		_ = s.guard.Release(ctx, userID)
		return nil, err
	}

	if err := s.pub.PublishJob(ctx, job.ID); err != nil {
		_ = s.repo.MarkJobFailed(ctx, job.ID, "enqueue failed")
		_ = s.guard.Release(ctx, userID)
		return nil, err
	}
	return job, nil
}

// Run executes a queued job: it invokes the detector (which carries the
// simulated latency), records the terminal state, releases the busy flag and
// surfaces the outcome notification.
func (s *Service) Run(ctx context.Context, jobID string) error {
	_ = s.repo.UpdateJobStatusRunning(ctx, jobID)

	job, err := s.repo.GetJobByID(ctx, jobID)
	if err != nil {
		return err
	}

	detector, err := s.registry.Get(s.detector)
	if err != nil {
		s.finishFailed(ctx, job, err)
		return err
	}

	res, err := detector.Detect(ctx, detect.Request{
		FileRef:  job.FileName,
		FileSize: job.FileSize,
		MimeType: job.MimeType,
		Text:     job.TextBody,
	})
	if err != nil {
		s.finishFailed(ctx, job, err)
		return err
	}

	if err := s.repo.MarkJobSucceeded(ctx, jobID, res); err != nil {
		_ = s.guard.Release(ctx, job.UserID)
		return err
	}
	_ = s.guard.Release(ctx, job.UserID)

	p := Present(res)
	body := fmt.Sprintf("%s (%d%% confidence)", p.VerdictLabel, res.Confidence)
	if err := s.notifier.Push(ctx, job.UserID, notify.KindAnalysis, "Analysis complete", body); err != nil {
		return err
	}
	return nil
}

func (s *Service) finishFailed(ctx context.Context, job *Job, cause error) {
	_ = s.repo.MarkJobFailed(ctx, job.ID, cause.Error())
	_ = s.guard.Release(ctx, job.UserID)
}

// Get returns the job only to its owner; anything else is not found.
func (s *Service) Get(ctx context.Context, userID uint64, jobID string) (*Job, error) {
	job, err := s.repo.GetJobByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job.UserID != userID {
		return nil, gorm.ErrRecordNotFound
	}
	return job, nil
}

// GenerateReport is a stub: it produces no file, only the "Report generated"
// notification, exactly once per invocation. It succeeds only on an owned,
// succeeded job.
func (s *Service) GenerateReport(ctx context.Context, userID uint64, jobID string) error {
	job, err := s.Get(ctx, userID, jobID)
	if err != nil {
		return err
	}
	if job.Status != JobSucceeded {
		return ErrReportUnavailable
	}
	return s.notifier.Push(ctx, userID, notify.KindReport, "Report generated",
		"Your detailed analysis report is ready.")
}
