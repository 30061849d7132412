package schedulerequest

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Dilshan-Pathirana/HMS-Dilshan-sub004/internal/domain"
	"github.com/Dilshan-Pathirana/HMS-Dilshan-sub004/internal/shared/apperror"
	"github.com/Dilshan-Pathirana/HMS-Dilshan-sub004/internal/shared/response"
)

type Handler struct {
	service Service
	rdb     *redis.Client
	logger  *zap.Logger
}

func NewHandler(service Service, rdb *redis.Client, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("schedulerequest.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("schedulerequest.handler")
	}
	return &Handler{service: service, rdb: rdb, logger: l}
}

func getActorID(c *gin.Context) string {
	actorID := c.GetString("employee_id")
	if actorID == "" {
		actorID = c.GetString("user_id_validated")
	}
	return actorID
}

// resolveBranchScope returns the branch the request operates on. A
// branch_id query override is honored only for roles with cross-branch
// privilege; everyone else stays pinned to the branch in their token.
func resolveBranchScope(c *gin.Context) (string, bool) {
	branchID := c.GetString("branch_id")
	requested := c.Query("branch_id")
	if requested == "" || requested == branchID {
		return branchID, true
	}
	if domain.RoleID(c.GetInt("role_as")).CanCrossBranches() {
		return requested, true
	}
	return "", false
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("schedule request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.String("message", httpErr.Message),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

// releaseIdempotency frees the middleware's lock; cacheResult stores the
// response so a retried Idempotency-Key replays it instead of re-running.
func (h *Handler) releaseIdempotency(c *gin.Context) {
	if h.rdb == nil {
		return
	}
	if lk, ok := c.Get("idempotency_lock_key"); ok {
		if key, ok := lk.(string); ok && key != "" {
			_ = h.rdb.Del(c.Request.Context(), key).Err()
		}
	}
}

func (h *Handler) cacheResult(c *gin.Context, result any) {
	if h.rdb == nil {
		return
	}
	if ck, ok := c.Get("idempotency_cache_key"); ok {
		if key, ok := ck.(string); ok && key != "" {
			if payload, err := json.Marshal(result); err == nil {
				_ = h.rdb.Set(c.Request.Context(), key, payload, 24*time.Hour).Err()
			}
		}
	}
}

func (h *Handler) Submit(c *gin.Context) {
	defer h.releaseIdempotency(c)

	branchID := c.GetString("branch_id")
	actorID := getActorID(c)

	var req SubmitScheduleRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", err.Error())
		return
	}

	resp, err := h.service.Submit(c.Request.Context(), branchID, actorID, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	h.cacheResult(c, resp)
	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) GetMyRequests(c *gin.Context) {
	branchID := c.GetString("branch_id")
	actorID := getActorID(c)

	resp, err := h.service.GetMyRequests(c.Request.Context(), branchID, actorID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetIncomingSwaps(c *gin.Context) {
	branchID := c.GetString("branch_id")
	actorID := getActorID(c)

	resp, err := h.service.GetIncomingSwaps(c.Request.Context(), branchID, actorID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) PeerRespond(c *gin.Context) {
	defer h.releaseIdempotency(c)

	branchID := c.GetString("branch_id")
	actorID := getActorID(c)
	id := c.Param("id")

	var req PeerResponseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", err.Error())
		return
	}

	resp, err := h.service.RespondAsPeer(c.Request.Context(), branchID, actorID, id, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	h.cacheResult(c, resp)
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetBranchQueue(c *gin.Context) {
	branchID, ok := resolveBranchScope(c)
	if !ok {
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Branch scope not permitted", nil)
		return
	}

	var status *Status
	if raw := c.Query("status"); raw != "" {
		parsed, err := ParseStatus(raw)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid status filter", err.Error())
			return
		}
		status = &parsed
	}

	resp, err := h.service.GetBranchQueue(c.Request.Context(), branchID, status)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) AdminRespond(c *gin.Context) {
	defer h.releaseIdempotency(c)

	branchID := c.GetString("branch_id")
	actorID := getActorID(c)
	id := c.Param("id")

	var req AdminResponseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", err.Error())
		return
	}

	resp, err := h.service.RespondAsAdmin(c.Request.Context(), branchID, actorID, id, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	h.cacheResult(c, resp)
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Withdraw(c *gin.Context) {
	defer h.releaseIdempotency(c)

	branchID := c.GetString("branch_id")
	actorID := getActorID(c)
	id := c.Param("id")

	resp, err := h.service.Withdraw(c.Request.Context(), branchID, actorID, id)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	h.cacheResult(c, resp)
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetPendingCounts(c *gin.Context) {
	branchID, ok := resolveBranchScope(c)
	if !ok {
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Branch scope not permitted", nil)
		return
	}

	resp, err := h.service.GetPendingCounts(c.Request.Context(), branchID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}
