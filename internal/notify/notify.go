// Package notify persists user-facing notifications (the server-side
// counterpart of the product's toasts).
package notify

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type Kind string

const (
	KindAnalysis Kind = "analysis"
	KindReport   Kind = "report"
)

type Notification struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    uint64    `gorm:"index;not null" json:"-"`
	Kind      Kind      `gorm:"type:varchar(16);not null" json:"kind"`
	Title     string    `gorm:"type:varchar(128);not null" json:"title"`
	Body      string    `gorm:"type:text" json:"body"`
	Read      bool      `gorm:"not null;default:false" json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

func (Notification) TableName() string { return "notifications" }

type Repo struct {
	db *gorm.DB
}

func NewRepo(db *gorm.DB) *Repo {
	return &Repo{db: db}
}

func (r *Repo) Push(ctx context.Context, userID uint64, kind Kind, title, body string) error {
	return r.db.WithContext(ctx).Create(&Notification{
		UserID: userID,
		Kind:   kind,
		Title:  title,
		Body:   body,
	}).Error
}

// List returns the newest notifications first.
func (r *Repo) List(ctx context.Context, userID uint64, limit int) ([]Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	var out []Notification
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id DESC").
		Limit(limit).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// MarkRead is owner-scoped; unknown ids are a no-op.
func (r *Repo) MarkRead(ctx context.Context, userID uint64, id uint64) error {
	return r.db.WithContext(ctx).Model(&Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("read", true).Error
}
