package audit

import (
	"github.com/gin-gonic/gin"

	"github.com/Dilshan-Pathirana/HMS-Dilshan-sub004/internal/middleware"
	"github.com/Dilshan-Pathirana/HMS-Dilshan-sub004/internal/rbac"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
) {
	logs := r.Group("/branch/audit-logs")
	logs.Use(middleware.AuthMiddleware())
	{
		logs.GET("", middleware.RBACAuthorize(rbacService, "audit", "read"), handler.List)
	}
}
