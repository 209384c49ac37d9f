package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/truthcheck/truthcheck/internal/chat"
	"github.com/truthcheck/truthcheck/internal/common"
	"github.com/truthcheck/truthcheck/internal/faq"
)

func (h *Handler) CreateChatSession(c *gin.Context) {
	uid, okk := userIDFromContext(c)
	if !okk {
		common.Fail(c, http.StatusUnauthorized, 40101, "unauthorized")
		return
	}

	sess, err := h.ChatSvc.CreateSession(c.Request.Context(), uid)
	if err != nil {
		common.Fail(c, http.StatusInternalServerError, 50001, "failed to create session")
		return
	}

	common.OK(c, gin.H{"session_id": sess.SessionID})
}

type sendMessageReq struct {
	SessionID string `json:"session_id" binding:"required"`
	Message   string `json:"message" binding:"required"`
}

func (h *Handler) SendChatMessage(c *gin.Context) {
	uid, okk := userIDFromContext(c)
	if !okk {
		common.Fail(c, http.StatusUnauthorized, 40101, "unauthorized")
		return
	}

	var req sendMessageReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, 10001, "invalid json")
		return
	}

	reply, msgID, err := h.ChatSvc.SendMessage(c.Request.Context(), uid, req.SessionID, req.Message)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			common.Fail(c, http.StatusNotFound, 40004, "session not found")
		case errors.Is(err, chat.ErrEmptyMessage):
			common.Fail(c, http.StatusBadRequest, 10040, "message is empty")
		default:
			common.Fail(c, http.StatusInternalServerError, 50001, "failed to send message")
		}
		return
	}

	common.OK(c, gin.H{
		"session_id": req.SessionID,
		"reply":      reply,
		"message_id": msgID,
	})
}

func (h *Handler) ListChatMessages(c *gin.Context) {
	uid, okk := userIDFromContext(c)
	if !okk {
		common.Fail(c, http.StatusUnauthorized, 40101, "unauthorized")
		return
	}

	sessionID := c.Param("session_id")

	limit, _ := strconv.Atoi(c.Query("limit"))
	var beforeID uint64
	if v := c.Query("before_id"); v != "" {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			beforeID = n
		}
	}

	msgs, err := h.ChatSvc.ListMessages(c.Request.Context(), uid, sessionID, limit, beforeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			common.Fail(c, http.StatusNotFound, 40004, "session not found")
			return
		}
		common.Fail(c, http.StatusInternalServerError, 50002, "failed to list messages")
		return
	}

	var nextBeforeID uint64
	if len(msgs) > 0 {
		nextBeforeID = msgs[len(msgs)-1].ID
	}

	common.OK(c, gin.H{
		"messages":       msgs,
		"next_before_id": nextBeforeID,
	})
}

// ListFAQ returns the quick-question shortcuts shown in the widget.
func (h *Handler) ListFAQ(c *gin.Context) {
	common.OK(c, gin.H{"questions": faq.QuickQuestions})
}
