package handlers

import (
	"errors"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/truthcheck/truthcheck/internal/analysis"
	"github.com/truthcheck/truthcheck/internal/common"
	"github.com/truthcheck/truthcheck/internal/detect"
	"github.com/truthcheck/truthcheck/internal/httpapi/middleware"
)

func userIDFromContext(c *gin.Context) (uint64, bool) {
	v, ok := c.Get(middleware.UserIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint64)
	return id, ok
}

const (
	maxImageSize = 10 << 20  // 10MB
	maxVideoSize = 100 << 20 // 100MB
)

var imageExts = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".gif": true}
var videoExts = map[string]bool{".mp4": true, ".avi": true, ".mov": true}

func checkUpload(name string, size int64) (msg string, ok bool) {
	ext := strings.ToLower(filepath.Ext(name))
	switch {
	case imageExts[ext]:
		if size > maxImageSize {
			return "Images must be 10MB or smaller.", false
		}
	case videoExts[ext]:
		if size > maxVideoSize {
			return "Videos must be 100MB or smaller.", false
		}
	default:
		return "Supported formats: JPG, PNG, GIF, MP4, AVI, MOV.", false
	}
	return "", true
}

type createAnalysisReq struct {
	Text string `json:"text"`
}

// CreateAnalysis accepts either a multipart upload (field "file") or pasted
// text. The uploaded bytes are never stored or decoded; only the reference
// (name, size, type) travels with the job.
func (h *Handler) CreateAnalysis(c *gin.Context) {
	uid, okk := userIDFromContext(c)
	if !okk {
		common.Fail(c, http.StatusUnauthorized, 40101, "unauthorized")
		return
	}

	var req detect.Request
	if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		fh, err := c.FormFile("file")
		if err == nil {
			if msg, ok := checkUpload(fh.Filename, fh.Size); !ok {
				common.Fail(c, http.StatusBadRequest, 10031, msg)
				return
			}
			req.FileRef = fh.Filename
			req.FileSize = fh.Size
			req.MimeType = fh.Header.Get("Content-Type")
		} else {
			req.Text = c.PostForm("text")
		}
	} else {
		var body createAnalysisReq
		if err := c.ShouldBindJSON(&body); err != nil {
			common.Fail(c, http.StatusBadRequest, 10001, "invalid json")
			return
		}
		req.Text = body.Text
	}

	job, err := h.AnalysisSvc.Submit(c.Request.Context(), uid, req)
	if err != nil {
		switch {
		case errors.Is(err, detect.ErrEmptyRequest):
			common.Fail(c, http.StatusBadRequest, 10030, "Please upload a file or paste some text to analyze.")
		case errors.Is(err, analysis.ErrBusy):
			common.Fail(c, http.StatusConflict, 10032, "An analysis is already in progress. Please wait for it to finish.")
		default:
			common.Fail(c, http.StatusInternalServerError, 50001, "internal error")
		}
		return
	}

	common.OK(c, gin.H{
		"job_id": job.ID,
		"status": job.Status,
	})
}

func (h *Handler) GetAnalysis(c *gin.Context) {
	uid, okk := userIDFromContext(c)
	if !okk {
		common.Fail(c, http.StatusUnauthorized, 40101, "unauthorized")
		return
	}
	jobID := c.Param("job_id")
	if jobID == "" {
		common.Fail(c, http.StatusBadRequest, 10002, "job_id required")
		return
	}

	j, err := h.AnalysisSvc.Get(c.Request.Context(), uid, jobID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			common.Fail(c, http.StatusNotFound, 40402, "analysis not found")
			return
		}
		common.Fail(c, http.StatusInternalServerError, 50001, "internal error")
		return
	}

	resp := gin.H{
		"job_id":       j.ID,
		"status":       j.Status,
		"content_kind": j.ContentKind,
		"created_at":   j.CreatedAt,
		"updated_at":   j.UpdatedAt,
	}
	if j.Status == analysis.JobSucceeded && j.IsReal != nil && j.Confidence != nil {
		res := detect.Result{IsReal: *j.IsReal, Confidence: *j.Confidence}
		if j.Explanation != nil {
			res.Explanation = *j.Explanation
		}
		resp["result"] = res
		resp["presentation"] = analysis.Present(res)
	}
	if j.Status == analysis.JobFailed && j.Error != nil {
		resp["error"] = *j.Error
	}

	common.OK(c, resp)
}

// ListAnalyses is the History tab: always empty, results are reachable only
// by job id.
func (h *Handler) ListAnalyses(c *gin.Context) {
	if _, okk := userIDFromContext(c); !okk {
		common.Fail(c, http.StatusUnauthorized, 40101, "unauthorized")
		return
	}
	common.OK(c, gin.H{"analyses": []any{}})
}

func (h *Handler) GenerateReport(c *gin.Context) {
	uid, okk := userIDFromContext(c)
	if !okk {
		common.Fail(c, http.StatusUnauthorized, 40101, "unauthorized")
		return
	}
	jobID := c.Param("job_id")

	if err := h.AnalysisSvc.GenerateReport(c.Request.Context(), uid, jobID); err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			common.Fail(c, http.StatusNotFound, 40402, "analysis not found")
		case errors.Is(err, analysis.ErrReportUnavailable):
			common.Fail(c, http.StatusConflict, 10033, "The analysis has no result to report on yet.")
		default:
			common.Fail(c, http.StatusInternalServerError, 50001, "internal error")
		}
		return
	}
	common.OK(c, gin.H{"message": "Report generated"})
}
