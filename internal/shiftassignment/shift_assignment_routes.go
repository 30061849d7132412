package shiftassignment

import (
	"github.com/Dilshan-Pathirana/HMS-Dilshan-sub004/internal/middleware"
	"github.com/Dilshan-Pathirana/HMS-Dilshan-sub004/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
) {
	shifts := r.Group("/shifts")
	shifts.Use(middleware.AuthMiddleware())
	{
		shifts.GET("/mine", handler.GetMySchedule)
		shifts.GET("/roster", middleware.RBACAuthorize(rbacService, "shift", "read"), handler.GetBranchRoster)
		shifts.POST("", middleware.RBACAuthorize(rbacService, "shift", "assign"), handler.Assign)
		shifts.DELETE("/:employeeId/:date", middleware.RBACAuthorize(rbacService, "shift", "assign"), handler.Cancel)
	}
}
