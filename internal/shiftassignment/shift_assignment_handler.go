package shiftassignment

import (
	"net/http"
	"time"

	"github.com/Dilshan-Pathirana/HMS-Dilshan-sub004/internal/shared/apperror"
	"github.com/Dilshan-Pathirana/HMS-Dilshan-sub004/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("shiftassignment.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("shiftassignment.handler")
	}
	return &Handler{service: service, logger: l}
}

func getActorID(c *gin.Context) string {
	actorID := c.GetString("employee_id")
	if actorID == "" {
		actorID = c.GetString("user_id_validated")
	}
	return actorID
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("shift assignment request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) Assign(c *gin.Context) {
	branchID := c.GetString("branch_id")
	actorID := getActorID(c)

	var req AssignShiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http assign shift validation failed", zap.Error(err))
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", err.Error())
		return
	}

	resp, err := h.service.Assign(c.Request.Context(), branchID, actorID, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) GetBranchRoster(c *gin.Context) {
	branchID := c.GetString("branch_id")

	// Default to the current week when no range is given.
	now := time.Now().UTC()
	from := c.DefaultQuery("from", now.Format("2006-01-02"))
	to := c.DefaultQuery("to", now.AddDate(0, 0, 7).Format("2006-01-02"))

	resp, err := h.service.GetBranchRoster(c.Request.Context(), branchID, from, to)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Cancel(c *gin.Context) {
	branchID := c.GetString("branch_id")
	employeeID := c.Param("employeeId")
	shiftDate := c.Param("date")

	if err := h.service.Cancel(c.Request.Context(), branchID, employeeID, shiftDate); err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"cancelled": true}, nil)
}

func (h *Handler) GetMySchedule(c *gin.Context) {
	branchID := c.GetString("branch_id")
	employeeID := getActorID(c)

	resp, err := h.service.GetMySchedule(c.Request.Context(), branchID, employeeID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}
