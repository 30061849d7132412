package schedulerequest

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Dilshan-Pathirana/HMS-Dilshan-sub004/internal/middleware"
	"github.com/Dilshan-Pathirana/HMS-Dilshan-sub004/internal/rbac"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
	rdb *redis.Client,
) {
	requests := r.Group("/schedule-requests")
	requests.Use(middleware.AuthMiddleware(), middleware.ExtractUserID(), middleware.ContextLogger(zap.L()))
	{
		requests.POST("",
			middleware.RBACAuthorize(rbacService, "schedule_request", "create"),
			middleware.Idempotency(rdb),
			handler.Submit,
		)
		requests.GET("/mine", handler.GetMyRequests)
		requests.GET("/incoming-swaps", handler.GetIncomingSwaps)
		requests.POST("/:id/peer-response",
			middleware.Idempotency(rdb),
			handler.PeerRespond,
		)
		requests.POST("/:id/withdraw",
			middleware.Idempotency(rdb),
			handler.Withdraw,
		)
	}

	branch := r.Group("/branch/schedule-requests")
	branch.Use(middleware.AuthMiddleware(), middleware.ExtractUserID(), middleware.ContextLogger(zap.L()))
	{
		branch.GET("",
			middleware.RBACAuthorize(rbacService, "schedule_request", "approve"),
			handler.GetBranchQueue,
		)
		branch.GET("/pending-count",
			middleware.RBACAuthorize(rbacService, "schedule_request", "approve"),
			handler.GetPendingCounts,
		)
		branch.POST("/:id/respond",
			middleware.RBACAuthorize(rbacService, "schedule_request", "approve"),
			middleware.Idempotency(rdb),
			handler.AdminRespond,
		)
	}
}
