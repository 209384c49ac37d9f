package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/truthcheck/truthcheck/internal/common"
)

func (h *Handler) ListNotifications(c *gin.Context) {
	uid, okk := userIDFromContext(c)
	if !okk {
		common.Fail(c, http.StatusUnauthorized, 40101, "unauthorized")
		return
	}

	limit, _ := strconv.Atoi(c.Query("limit"))
	notes, err := h.Notify.List(c.Request.Context(), uid, limit)
	if err != nil {
		common.Fail(c, http.StatusInternalServerError, 50002, "failed to list notifications")
		return
	}
	common.OK(c, gin.H{"notifications": notes})
}

func (h *Handler) MarkNotificationRead(c *gin.Context) {
	uid, okk := userIDFromContext(c)
	if !okk {
		common.Fail(c, http.StatusUnauthorized, 40101, "unauthorized")
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		common.Fail(c, http.StatusBadRequest, 10004, "invalid notification id")
		return
	}
	if err := h.Notify.MarkRead(c.Request.Context(), uid, id); err != nil {
		common.Fail(c, http.StatusInternalServerError, 50001, "internal error")
		return
	}
	common.OK(c, gin.H{"read": true})
}
