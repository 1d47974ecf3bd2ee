package apis

import (
	"github.com/Lounwb/Stockin/controllers"
	"github.com/Lounwb/Stockin/core"
	"github.com/Lounwb/Stockin/pkg/barcode"
	"github.com/Lounwb/Stockin/pkg/config"
	"github.com/Lounwb/Stockin/pkg/database"
	"github.com/Lounwb/Stockin/pkg/middleware"
	"github.com/Lounwb/Stockin/pkg/platforms"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, repo *database.Repository, registry *platforms.Registry, fetcher *core.PriceFetcher, barcodeClient *barcode.Client) {
	// 创建控制器实例
	authController := &controllers.AuthController{}
	itemController := controllers.NewItemController(repo)
	priceController := controllers.NewPriceController(repo, fetcher)
	productController := controllers.NewProductController(registry, barcodeClient)

	// 物品图片静态服务
	r.Static("/uploads", config.GlobalConfig.UploadDir)

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Stockin API is running",
		})
	})

	// 添加认证中间件
	r.Use(middleware.AuthMiddleware())

	// 认证路由
	auth := r.Group("/api/v1/auth")
	{
		auth.POST("/login", authController.Login) // 用户登录
	}

	// API版本组
	v1 := r.Group("/api/v1")
	{
		// 用户信息路由
		user := v1.Group("/user")
		{
			user.GET("/profile", authController.GetProfile) // 获取用户信息
		}

		// 物品管理路由
		items := v1.Group("/items")
		{
			items.GET("", itemController.ListItems)                      // 获取物品列表
			items.POST("", itemController.CreateItem)                    // 新建物品
			items.POST("/upload-image", itemController.UploadImage)      // 上传物品图片
			items.GET("/:id", itemController.GetItem)                    // 获取单个物品
			items.PUT("/:id", itemController.UpdateItem)                 // 更新物品
			items.DELETE("/:id", itemController.DeleteItem)              // 删除物品
			items.POST("/:id/quantity", itemController.ChangeQuantity)   // 调整库存数量
			items.GET("/:id/price-stats", priceController.GetPriceStats) // 价格历史与统计
		}

		// 价格抓取路由
		prices := v1.Group("/prices")
		{
			prices.POST("/stats", priceController.QueryPriceStats) // 价格统计查询
			prices.POST("/fetch", priceController.TriggerFetch)    // 手动触发价格抓取
		}

		// 商品查询路由
		products := v1.Group("/products")
		{
			products.POST("/search", productController.SearchProducts) // 跨平台商品搜索
			products.GET("/barcode", productController.LookupBarcode)  // 条码查询
			products.POST("/barcode", productController.LookupBarcode) // 条码查询
		}
	}

	// 未匹配路由
	r.NoRoute(func(c *gin.Context) {
		c.JSON(404, gin.H{"error": "API endpoint not found"})
	})
}
