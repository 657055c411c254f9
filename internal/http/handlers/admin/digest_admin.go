package admin

import (
	"time"

	"github.com/newsportal/internal/http/response"
	"github.com/newsportal/internal/queue"

	"github.com/gin-gonic/gin"
)

// RunDigestRequest starts a digest run by hand. WindowDays <= 0 uses the configured window.
type RunDigestRequest struct {
	WindowDays int  `json:"window_days"`
	Async      bool `json:"async"`
}

// RunDigest sends the digest now, or enqueues it when async is requested and the queue is up.
func (h *Handler) RunDigest(c *gin.Context) {
	var req RunDigestRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, response.CodeBadRequest, "error.bad_request", err)
			return
		}
	}
	windowDays := req.WindowDays
	if windowDays <= 0 {
		windowDays = h.Config.Digest.WindowDays
	}

	if req.Async {
		if h.QueueClient == nil || !h.QueueClient.Enabled() {
			respondError(c, response.CodeInternal, "error.queue_unavailable", nil)
			return
		}
		if err := h.QueueClient.EnqueueWeeklyDigest(queue.WeeklyDigestPayload{WindowDays: windowDays}); err != nil {
			respondError(c, response.CodeInternal, "error.queue_unavailable", err)
			return
		}
		requestLog(c).Infow("admin_digest_enqueued", "admin_id", currentAdminID(c), "window_days", windowDays)
		response.Success(c, gin.H{"queued": true, "window_days": windowDays})
		return
	}

	result, err := h.DigestService.RunWindow(c.Request.Context(), time.Now(), windowDays)
	if err != nil {
		respondError(c, response.CodeInternal, "error.digest_failed", err)
		return
	}
	requestLog(c).Infow("admin_digest_completed",
		"admin_id", currentAdminID(c),
		"sent", result.Sent,
		"failed", result.Failed,
	)
	response.Success(c, gin.H{"queued": false, "window_days": windowDays, "result": result})
}
