package controllers

import (
	"errors"
	"net/http"

	"github.com/Lounwb/Stockin/core"
	"github.com/Lounwb/Stockin/pkg/database"
	"github.com/Lounwb/Stockin/pkg/middleware"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type PriceController struct {
	repo    *database.Repository
	fetcher *core.PriceFetcher
}

// NewPriceController 创建价格控制器
func NewPriceController(repo *database.Repository, fetcher *core.PriceFetcher) *PriceController {
	return &PriceController{
		repo:    repo,
		fetcher: fetcher,
	}
}

// GetPriceStats 获取物品的价格历史和各平台统计
// range可选all或1y，默认all
func (p *PriceController) GetPriceStats(ctx *gin.Context) {
	itemID := ctx.Param("id")

	priceRange, err := core.ParseRange(ctx.Query("range"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	// 归属校验：只能查自己的物品
	userID := middleware.GetCurrentUser(ctx)
	if _, err := p.repo.GetItem(userID, itemID); err != nil {
		if errors.Is(err, database.ErrItemNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{
				"error": "物品不存在",
			})
			return
		}
		logrus.Errorf("查询物品失败: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"error": "查询物品失败",
		})
		return
	}

	result, err := core.GetPriceStats(p.repo, itemID, priceRange)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrMissingItemID):
			ctx.JSON(http.StatusBadRequest, gin.H{
				"error": err.Error(),
			})
		case errors.Is(err, core.ErrUpstreamUnavailable):
			logrus.Errorf("价格统计查询失败: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{
				"error": "价格记录读取失败",
			})
		default:
			logrus.Errorf("价格统计查询失败: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{
				"error": "价格统计查询失败",
			})
		}
		return
	}

	ctx.JSON(http.StatusOK, result)
}

// PriceStatsRequest 价格统计请求结构
type PriceStatsRequest struct {
	ItemID string `json:"item_id"`
	Range  string `json:"range"`
}

// QueryPriceStats 价格统计查询，POST方式
// body为{item_id, range}，缺少item_id返回400
func (p *PriceController) QueryPriceStats(ctx *gin.Context) {
	var req PriceStatsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error": "请求参数格式错误",
		})
		return
	}

	priceRange, err := core.ParseRange(req.Range)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	if req.ItemID != "" {
		userID := middleware.GetCurrentUser(ctx)
		if _, err := p.repo.GetItem(userID, req.ItemID); err != nil {
			if errors.Is(err, database.ErrItemNotFound) {
				ctx.JSON(http.StatusNotFound, gin.H{
					"error": "物品不存在",
				})
				return
			}
			logrus.Errorf("查询物品失败: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{
				"error": "查询物品失败",
			})
			return
		}
	}

	result, err := core.GetPriceStats(p.repo, req.ItemID, priceRange)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrMissingItemID):
			ctx.JSON(http.StatusBadRequest, gin.H{
				"error": err.Error(),
			})
		case errors.Is(err, core.ErrUpstreamUnavailable):
			logrus.Errorf("价格统计查询失败: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{
				"error": "价格记录读取失败",
			})
		default:
			logrus.Errorf("价格统计查询失败: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{
				"error": "价格统计查询失败",
			})
		}
		return
	}

	ctx.JSON(http.StatusOK, result)
}

// TriggerFetch 手动触发一轮价格抓取
func (p *PriceController) TriggerFetch(ctx *gin.Context) {
	if p.fetcher == nil {
		ctx.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "价格抓取器未初始化",
		})
		return
	}

	summary, err := p.fetcher.FetchAll(ctx.Request.Context())
	if err != nil {
		logrus.Errorf("价格抓取失败: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"error": "价格抓取失败",
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "价格抓取完成",
		"data":    summary,
	})
}
