package controllers

import (
	"errors"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/Lounwb/Stockin/models"
	"github.com/Lounwb/Stockin/pkg/config"
	"github.com/Lounwb/Stockin/pkg/database"
	"github.com/Lounwb/Stockin/pkg/middleware"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type ItemController struct {
	repo *database.Repository
}

// NewItemController 创建物品控制器
func NewItemController(repo *database.Repository) *ItemController {
	return &ItemController{repo: repo}
}

// ItemRequest 物品创建/更新请求结构
type ItemRequest struct {
	Name     string `json:"name" binding:"required"`
	Spec     string `json:"spec"`
	Barcode  string `json:"barcode"`
	ImageURL string `json:"image_url"`
	JDSku    string `json:"jd_sku"`
	TmallSku string `json:"tmall_sku"`
	PddSku   string `json:"pdd_sku"`
	Quantity int    `json:"quantity"`
	Unit     string `json:"unit"`
}

// ListItems 获取当前用户的物品列表
func (ic *ItemController) ListItems(ctx *gin.Context) {
	userID := middleware.GetCurrentUser(ctx)

	items, err := ic.repo.ListItems(userID)
	if err != nil {
		logrus.Errorf("查询物品列表失败: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"error": "查询物品列表失败",
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"data": items,
	})
}

// GetItem 获取单个物品
func (ic *ItemController) GetItem(ctx *gin.Context) {
	userID := middleware.GetCurrentUser(ctx)
	id := ctx.Param("id")

	item, err := ic.repo.GetItem(userID, id)
	if err != nil {
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

	ctx.JSON(http.StatusOK, gin.H{
		"data": item,
	})
}

// CreateItem 新建物品
func (ic *ItemController) CreateItem(ctx *gin.Context) {
	var req ItemRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		logrus.Warnf("物品参数错误: %v", err)
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error": "请求参数格式错误",
		})
		return
	}

	if req.Quantity < 0 {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error": "库存数量不能为负数",
		})
		return
	}

	item := &models.Item{
		ID:        uuid.New().String(),
		UserID:    middleware.GetCurrentUser(ctx),
		Name:      req.Name,
		Spec:      req.Spec,
		Barcode:   req.Barcode,
		ImageURL:  req.ImageURL,
		JDSku:     req.JDSku,
		TmallSku:  req.TmallSku,
		PddSku:    req.PddSku,
		Quantity:  req.Quantity,
		Unit:      req.Unit,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := ic.repo.CreateItem(item); err != nil {
		logrus.Errorf("创建物品失败: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"error": "创建物品失败",
		})
		return
	}

	logrus.Infof("创建物品成功: %s %s", item.ID, item.Name)

	ctx.JSON(http.StatusOK, gin.H{
		"message": "物品创建成功",
		"data":    item,
	})
}

// UpdateItem 更新物品
func (ic *ItemController) UpdateItem(ctx *gin.Context) {
	var req ItemRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		logrus.Warnf("物品参数错误: %v", err)
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error": "请求参数格式错误",
		})
		return
	}

	if req.Quantity < 0 {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error": "库存数量不能为负数",
		})
		return
	}

	item := &models.Item{
		ID:       ctx.Param("id"),
		UserID:   middleware.GetCurrentUser(ctx),
		Name:     req.Name,
		Spec:     req.Spec,
		Barcode:  req.Barcode,
		ImageURL: req.ImageURL,
		JDSku:    req.JDSku,
		TmallSku: req.TmallSku,
		PddSku:   req.PddSku,
		Quantity: req.Quantity,
		Unit:     req.Unit,
	}

	if err := ic.repo.UpdateItem(item); err != nil {
		if errors.Is(err, database.ErrItemNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{
				"error": "物品不存在",
			})
			return
		}
		logrus.Errorf("更新物品失败: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"error": "更新物品失败",
		})
		return
	}

	updated, err := ic.repo.GetItem(item.UserID, item.ID)
	if err != nil {
		logrus.Errorf("读取更新后的物品失败: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"error": "读取物品失败",
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "物品更新成功",
		"data":    updated,
	})
}

// DeleteItem 删除物品及其价格历史
func (ic *ItemController) DeleteItem(ctx *gin.Context) {
	userID := middleware.GetCurrentUser(ctx)
	id := ctx.Param("id")

	if err := ic.repo.DeleteItem(userID, id); err != nil {
		if errors.Is(err, database.ErrItemNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{
				"error": "物品不存在",
			})
			return
		}
		logrus.Errorf("删除物品失败: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"error": "删除物品失败",
		})
		return
	}

	logrus.Infof("删除物品成功: %s", id)

	ctx.JSON(http.StatusOK, gin.H{
		"message": "物品删除成功",
	})
}

// ChangeQuantity 调整库存数量
func (ic *ItemController) ChangeQuantity(ctx *gin.Context) {
	var req struct {
		Delta int `json:"delta" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error": "请求参数格式错误",
		})
		return
	}

	userID := middleware.GetCurrentUser(ctx)
	id := ctx.Param("id")

	item, err := ic.repo.ChangeItemQuantity(userID, id, req.Delta)
	if err != nil {
		if errors.Is(err, database.ErrItemNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{
				"error": "物品不存在",
			})
			return
		}
		logrus.Errorf("调整库存失败: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"error": "调整库存失败",
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "库存调整成功",
		"data":    item,
	})
}

// 允许上传的图片扩展名
var allowedImageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// UploadImage 上传物品图片，保存到本地目录并返回访问路径
func (ic *ItemController) UploadImage(ctx *gin.Context) {
	file, err := ctx.FormFile("file")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error": "缺少上传文件",
		})
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedImageExts[ext] {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error": "不支持的图片格式",
		})
		return
	}

	filename := uuid.New().String() + ext
	dst := filepath.Join(config.GlobalConfig.UploadDir, filename)
	if err := ctx.SaveUploadedFile(file, dst); err != nil {
		logrus.Errorf("保存上传图片失败: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"error": "保存图片失败",
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"url": "/uploads/" + filename,
		},
	})
}
