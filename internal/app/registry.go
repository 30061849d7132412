package app

import (
	"database/sql"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/Dilshan-Pathirana/HMS-Dilshan-sub004/internal/audit"
	"github.com/Dilshan-Pathirana/HMS-Dilshan-sub004/internal/employee"
	"github.com/Dilshan-Pathirana/HMS-Dilshan-sub004/internal/leave"
	"github.com/Dilshan-Pathirana/HMS-Dilshan-sub004/internal/messaging/kafka"
	"github.com/Dilshan-Pathirana/HMS-Dilshan-sub004/internal/rbac"
	"github.com/Dilshan-Pathirana/HMS-Dilshan-sub004/internal/rbac/infra"
	"github.com/Dilshan-Pathirana/HMS-Dilshan-sub004/internal/schedulerequest"
	"github.com/Dilshan-Pathirana/HMS-Dilshan-sub004/internal/shared/counter"
	"github.com/Dilshan-Pathirana/HMS-Dilshan-sub004/internal/shiftassignment"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	// --- Repositories ---
	rbacRepo := rbac.NewRepository(gormDB)
	employeeRepo := employee.NewRepository(gormDB)
	leaveRepo := leave.NewRepository(gormDB)
	shiftRepo := shiftassignment.NewRepository(gormDB)
	scheduleRepo := schedulerequest.NewRepository(gormDB)
	auditRepo := audit.NewRepository(gormDB)
	counterRepo := counter.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- RBAC Core ---
	enforcer, err := infra.NewEnforcer()
	if err != nil {
		return err
	}
	rbacService := rbac.NewService(rbacRepo, enforcer)

	// --- Services ---
	employeeService := employee.NewService(employeeRepo)
	leaveService := leave.NewService(db, leaveRepo)
	shiftService := shiftassignment.NewService(db, shiftRepo)
	scheduleService := schedulerequest.NewService(
		db, scheduleRepo, employeeRepo, leaveRepo, shiftRepo,
		outboxRepo, counterRepo, rdb,
	)
	auditService := audit.NewService(auditRepo)

	// --- Handlers ---
	employeeHandler := employee.NewHandler(employeeService)
	leaveHandler := leave.NewHandler(leaveService)
	shiftHandler := shiftassignment.NewHandler(shiftService)
	scheduleHandler := schedulerequest.NewHandler(scheduleService, rdb)
	auditHandler := audit.NewHandler(auditService)
	rbacHandler := rbac.NewHandler(rbacService, rbacRepo)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		employee.RegisterRoutes(api, employeeHandler, rbacService)
		leave.RegisterRoutes(api, leaveHandler, rbacService)
		shiftassignment.RegisterRoutes(api, shiftHandler, rbacService)
		schedulerequest.RegisterRoutes(api, scheduleHandler, rbacService, rdb)
		audit.RegisterRoutes(api, auditHandler, rbacService)
		rbac.RegisterRoutes(api, rbacHandler, rbacService)
	}

	return nil
}
