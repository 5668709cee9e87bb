package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jfuerlinger/DrugManagement/config"
	"github.com/jfuerlinger/DrugManagement/internal/api/handler"
	"github.com/jfuerlinger/DrugManagement/internal/api/middleware"
	"github.com/jfuerlinger/DrugManagement/pkg/redis"
)

// Setup 初始化并返回 Gin 路由引擎
// rdb 可为 nil，此时预约接口使用进程内限流
func Setup(cfg *config.Config, h *handler.Handler, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(middleware.RequestID())
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(cfg.Server.MaxBodyBytes))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		status := gin.H{"status": "ok"}
		if rdb != nil {
			if err := rdb.Ping(c.Request.Context()); err != nil {
				status["redis"] = "unavailable"
			} else {
				status["redis"] = "ok"
			}
		}
		c.JSON(http.StatusOK, status)
	})

	bookingLimit := middleware.RateLimit(rdb, cfg.RateLimit.BookingPerMinute, time.Minute, logger)

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 预约模块
		v1.GET("/slots", h.Slot.ListSlots)
		bookings := v1.Group("/bookings")
		{
			bookings.POST("", bookingLimit, h.Slot.BookSlot)
			bookings.GET("/:id", h.Slot.GetBooking)
			bookings.GET("/:id/ics", h.Slot.GetBookingCalendar)
		}

		// 药品库存
		drugs := v1.Group("/drugs")
		{
			drugs.GET("", h.Drug.ListDrugs)
			drugs.GET("/:id", h.Drug.GetDrug)
			drugs.POST("", h.Drug.CreateDrug)
			drugs.PUT("/:id", h.Drug.UpdateDrug)
			drugs.DELETE("/:id", h.Drug.DeleteDrug)
		}

		// 药品主数据
		metadata := v1.Group("/drug-metadata")
		{
			metadata.GET("", h.DrugMetadata.ListDrugMetadata)
			metadata.GET("/:id", h.DrugMetadata.GetDrugMetadata)
			metadata.POST("", h.DrugMetadata.CreateDrugMetadata)
			metadata.PUT("/:id", h.DrugMetadata.UpdateDrugMetadata)
			metadata.DELETE("/:id", h.DrugMetadata.DeleteDrugMetadata)
		}

		// 包装规格
		sizes := v1.Group("/package-sizes")
		{
			sizes.GET("", h.PackageSize.ListPackageSizes)
			sizes.GET("/:id", h.PackageSize.GetPackageSize)
			sizes.POST("", h.PackageSize.CreatePackageSize)
			sizes.PUT("/:id", h.PackageSize.UpdatePackageSize)
			sizes.DELETE("/:id", h.PackageSize.DeletePackageSize)
		}

		// 人员
		persons := v1.Group("/persons")
		{
			persons.GET("", h.Person.ListPersons)
			persons.GET("/:id", h.Person.GetPerson)
			persons.POST("", h.Person.CreatePerson)
			persons.PUT("/:id", h.Person.UpdatePerson)
			persons.DELETE("/:id", h.Person.DeletePerson)
		}

		// 药店
		shops := v1.Group("/shops")
		{
			shops.GET("", h.Shop.ListShops)
			shops.GET("/:id", h.Shop.GetShop)
			shops.POST("", h.Shop.CreateShop)
			shops.PUT("/:id", h.Shop.UpdateShop)
			shops.DELETE("/:id", h.Shop.DeleteShop)
		}

		// 报表
		reports := v1.Group("/reports/drugs")
		{
			reports.POST("/generate", h.Report.GenerateDrugReport)
			reports.GET("/status/:id", h.Report.GetDrugReportStatus)
			reports.GET("/download/:id", h.Report.DownloadDrugReport)
		}

		// 运维管理
		management := v1.Group("/management")
		{
			management.PATCH("/tables", h.Management.MigrateTables)
			management.POST("/data", h.Management.SeedData)
			management.DELETE("/data", h.Management.ClearData)
		}
	}

	return r
}
