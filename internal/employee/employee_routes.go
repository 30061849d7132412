package employee

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
	employees := r.Group("/employees")
	employees.Use(middleware.AuthMiddleware())
	{
		employees.GET("/colleagues", middleware.RBACAuthorize(rbacService, "employee", "read"), handler.GetColleagues)
	}
}
