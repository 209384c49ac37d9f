package chat

import "time"

type Session struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"-"`
	SessionID string    `gorm:"type:varchar(26);uniqueIndex;not null" json:"session_id"`
	UserID    uint64    `gorm:"index;not null" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Session) TableName() string { return "chat_sessions" }

// Message rows are append-only; the autoincrement id keeps message ids
// unique and increasing within a session.
type Message struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	SessionID string    `gorm:"type:varchar(26);not null;index:idx_chat_msg_user_session_id,priority:2" json:"session_id"`
	UserID    uint64    `gorm:"not null;index:idx_chat_msg_user_session_id,priority:1" json:"-"`
	IsBot     bool      `gorm:"not null" json:"is_bot"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

func (Message) TableName() string { return "chat_messages" }
