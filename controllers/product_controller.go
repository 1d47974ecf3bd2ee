package controllers

import (
	"net/http"

	"github.com/Lounwb/Stockin/pkg/barcode"
	"github.com/Lounwb/Stockin/pkg/platforms"
	"github.com/Lounwb/Stockin/pkg/platforms/types"
	"github.com/Lounwb/Stockin/pkg/redis"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type ProductController struct {
	registry      *platforms.Registry
	barcodeClient *barcode.Client
}

// NewProductController 创建商品控制器
func NewProductController(registry *platforms.Registry, barcodeClient *barcode.Client) *ProductController {
	return &ProductController{
		registry:      registry,
		barcodeClient: barcodeClient,
	}
}

// SearchRequest 商品搜索请求结构
type SearchRequest struct {
	Name    string `json:"name"`
	Barcode string `json:"barcode"`
}

// SearchProducts 按名称或条码搜索三个平台的候选商品
func (pc *ProductController) SearchProducts(ctx *gin.Context) {
	var req SearchRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error": "请求参数格式错误",
		})
		return
	}

	if req.Name == "" && req.Barcode == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error": "name和barcode至少提供一个",
		})
		return
	}

	// 搜索结果带价格，只做短时缓存
	cacheKey := redis.CacheKeySearch + ":" + req.Name + ":" + req.Barcode
	if redis.GlobalRedisClient != nil {
		var cached platforms.SearchResult
		if err := redis.GlobalRedisClient.GetCache(cacheKey, &cached); err == nil {
			ctx.JSON(http.StatusOK, cached)
			return
		}
	}

	result := pc.registry.Searcher().Search(ctx.Request.Context(), types.SearchQuery{
		Name:    req.Name,
		Barcode: req.Barcode,
	})

	if redis.GlobalRedisClient != nil {
		if err := redis.GlobalRedisClient.SetCache(cacheKey, result, redis.CacheExpirationSearch); err != nil {
			logrus.Warnf("写入搜索缓存失败: %v", err)
		}
	}

	ctx.JSON(http.StatusOK, result)
}

// LookupBarcode 按条码查询商品信息
// GET用query参数，POST用JSON body
func (pc *ProductController) LookupBarcode(ctx *gin.Context) {
	code := ctx.Query("barcode")
	if code == "" && ctx.Request.Method == http.MethodPost {
		var req struct {
			Barcode string `json:"barcode"`
		}
		if err := ctx.ShouldBindJSON(&req); err == nil {
			code = req.Barcode
		}
	}

	if code == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error": "barcode不能为空",
		})
		return
	}

	// 条码到商品信息基本不变，优先走缓存
	cacheKey := redis.CacheKeyBarcode + ":" + code
	if redis.GlobalRedisClient != nil {
		var cached barcode.Product
		if err := redis.GlobalRedisClient.GetCache(cacheKey, &cached); err == nil {
			ctx.JSON(http.StatusOK, gin.H{"product": cached})
			return
		}
	}

	if !pc.barcodeClient.Configured() {
		ctx.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "条码查询服务未配置",
		})
		return
	}

	product, err := pc.barcodeClient.Lookup(ctx.Request.Context(), code)
	if err != nil {
		logrus.Errorf("条码查询失败: %v", err)
		ctx.JSON(http.StatusBadGateway, gin.H{
			"error": "条码查询失败",
		})
		return
	}

	if product == nil {
		ctx.JSON(http.StatusOK, gin.H{"product": nil})
		return
	}

	if redis.GlobalRedisClient != nil {
		if err := redis.GlobalRedisClient.SetCache(cacheKey, product, redis.CacheExpirationBarcode); err != nil {
			logrus.Warnf("写入条码缓存失败: %v", err)
		}
	}

	ctx.JSON(http.StatusOK, gin.H{"product": product})
}
