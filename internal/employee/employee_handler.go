package employee

import (
	"net/http"

	"github.com/Dilshan-Pathirana/HMS-Dilshan-sub004/internal/shared/apperror"
	"github.com/Dilshan-Pathirana/HMS-Dilshan-sub004/internal/shared/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// GetColleagues lists the branch staff a caller may pick as an
// interchange peer.
func (h *Handler) GetColleagues(c *gin.Context) {
	branchID := c.GetString("branch_id")

	resp, err := h.service.GetColleagues(c.Request.Context(), branchID)
	if err != nil {
		httpErr := apperror.ToHTTP(err)
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}
