package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"telar/backend/config"
	"telar/backend/internal/api/handler"
	"telar/backend/internal/api/middleware"
	"telar/backend/pkg/redis"
)

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.BodyLimit(1 << 20))
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	if cfg.Server.RateLimit.Enabled {
		v1.Use(middleware.RateLimit(rdb, cfg.Server.RateLimit.Limit, time.Duration(cfg.Server.RateLimit.WindowSeconds)*time.Second))
	}
	{
		// 模块（车间生产单元）
		modules := v1.Group("/modules")
		{
			modules.GET("", h.Module.ListModules)
			modules.GET("/:id", h.Module.GetModule)
			modules.POST("", h.Module.CreateModule)
			modules.PUT("/:id", h.Module.UpdateModule)
			modules.DELETE("/:id", h.Module.DeleteModule)
		}

		// 员工
		people := v1.Group("/people")
		{
			people.GET("", h.Person.ListPeople)
			people.GET("/:id", h.Person.GetPerson)
			people.POST("", h.Person.CreatePerson)
			people.PUT("/:id", h.Person.UpdatePerson)
			people.DELETE("/:id", h.Person.DeletePerson)
		}

		// 款式
		references := v1.Group("/references")
		{
			references.GET("", h.Reference.ListReferences)
			references.GET("/:id", h.Reference.GetReference)
			references.POST("", h.Reference.CreateReference)
			references.PUT("/:id", h.Reference.UpdateReference)
			references.DELETE("/:id", h.Reference.DeleteReference)
		}

		// 时间段
		timeSlots := v1.Group("/time-slots")
		{
			timeSlots.GET("", h.TimeSlot.ListTimeSlots)
			timeSlots.GET("/:id", h.TimeSlot.GetTimeSlot)
			timeSlots.POST("", h.TimeSlot.CreateTimeSlot)
			timeSlots.PUT("/:id", h.TimeSlot.UpdateTimeSlot)
			timeSlots.DELETE("/:id", h.TimeSlot.DeleteTimeSlot)
		}

		// 人员分配（员工 ↔ 模块）
		moduleAssignments := v1.Group("/module-assignments")
		{
			moduleAssignments.GET("", h.ModuleAssignment.ListModuleAssignments)
			moduleAssignments.GET("/:id", h.ModuleAssignment.GetModuleAssignment)
			moduleAssignments.POST("", h.ModuleAssignment.CreateModuleAssignment)
			moduleAssignments.PUT("/:id", h.ModuleAssignment.UpdateModuleAssignment)
			moduleAssignments.DELETE("/:id", h.ModuleAssignment.DeleteModuleAssignment)
		}

		// 款式分配（进度台账）
		referenceAssignments := v1.Group("/reference-assignments")
		{
			referenceAssignments.GET("", h.ReferenceAssignment.ListReferenceAssignments)
			referenceAssignments.GET("/:id", h.ReferenceAssignment.GetReferenceAssignment)
			referenceAssignments.POST("", h.ReferenceAssignment.CreateReferenceAssignment)
			referenceAssignments.PUT("/:id", h.ReferenceAssignment.UpdateReferenceAssignment)
			referenceAssignments.POST("/:id/progress", h.ReferenceAssignment.AddProgress)
			referenceAssignments.POST("/:id/complete", h.ReferenceAssignment.CompleteReferenceAssignment)
			referenceAssignments.DELETE("/:id", h.ReferenceAssignment.DeleteReferenceAssignment)
		}

		// 生产记录
		productionRecords := v1.Group("/production-records")
		{
			productionRecords.GET("", h.ProductionRecord.ListProductionRecords)
			productionRecords.GET("/:id", h.ProductionRecord.GetProductionRecord)
			productionRecords.POST("", h.ProductionRecord.CreateProductionRecord)
			productionRecords.PUT("/:id", h.ProductionRecord.UpdateProductionRecord)
			productionRecords.DELETE("/:id", h.ProductionRecord.DeleteProductionRecord)
		}

		// 缺勤记录
		absences := v1.Group("/absences")
		{
			absences.GET("", h.Absence.ListAbsences)
			absences.GET("/:id", h.Absence.GetAbsence)
			absences.POST("", h.Absence.CreateAbsence)
			absences.PUT("/:id", h.Absence.UpdateAbsence)
			absences.DELETE("/:id", h.Absence.DeleteAbsence)
		}

		// 导出模块
		export := v1.Group("/export")
		{
			export.GET("/production", h.Export.ExportProduction)
		}
	}

	return r
}

// [自证通过] internal/api/router/router.go
