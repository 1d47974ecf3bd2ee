package database

import (
	"errors"
	"time"

	"github.com/Lounwb/Stockin/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrItemNotFound 物品不存在或不属于当前用户
var ErrItemNotFound = errors.New("物品不存在")

// Repository 基于GORM的存储实现
type Repository struct {
	db *gorm.DB
}

// NewRepository 创建存储实例
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ========== 物品 ==========

// ListItems 取出用户的全部物品，按创建时间倒序
func (r *Repository) ListItems(userID string) ([]models.Item, error) {
	var items []models.Item
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&items).Error
	return items, err
}

// GetItem 取单个物品，带归属校验
func (r *Repository) GetItem(userID, id string) (*models.Item, error) {
	var item models.Item
	err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrItemNotFound
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// CreateItem 新建物品
func (r *Repository) CreateItem(item *models.Item) error {
	return r.db.Create(item).Error
}

// UpdateItem 更新物品，带归属校验
func (r *Repository) UpdateItem(item *models.Item) error {
	res := r.db.Model(&models.Item{}).
		Where("id = ? AND user_id = ?", item.ID, item.UserID).
		Updates(map[string]interface{}{
			"name":       item.Name,
			"spec":       item.Spec,
			"barcode":    item.Barcode,
			"image_url":  item.ImageURL,
			"jd_sku":     item.JDSku,
			"tmall_sku":  item.TmallSku,
			"pdd_sku":    item.PddSku,
			"quantity":   item.Quantity,
			"unit":       item.Unit,
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrItemNotFound
	}
	return nil
}

// DeleteItem 删除物品及其价格历史
func (r *Repository) DeleteItem(userID, id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND user_id = ?", id, userID).Delete(&models.Item{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrItemNotFound
		}
		return tx.Where("item_id = ?", id).Delete(&models.PriceObservation{}).Error
	})
}

// ChangeItemQuantity 原子调整库存数量，下限为0
func (r *Repository) ChangeItemQuantity(userID, id string, delta int) (*models.Item, error) {
	var item models.Item
	err := r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Item{}).
			Where("id = ? AND user_id = ?", id, userID).
			Updates(map[string]interface{}{
				"quantity":   gorm.Expr("GREATEST(quantity + ?, 0)", delta),
				"updated_at": time.Now(),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrItemNotFound
		}
		return tx.Where("id = ?", id).First(&item).Error
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// ListItemsWithSku 列出至少绑定了一个平台SKU的物品，价格抓取用
func (r *Repository) ListItemsWithSku() ([]models.Item, error) {
	var items []models.Item
	err := r.db.Where("jd_sku <> '' OR tmall_sku <> '' OR pdd_sku <> ''").
		Find(&items).Error
	return items, err
}

// ========== 价格历史 ==========

// ListPriceObservations 按日期升序取出某物品的全部价格记录
func (r *Repository) ListPriceObservations(itemID string) ([]models.PriceObservation, error) {
	var obs []models.PriceObservation
	err := r.db.Where("item_id = ?", itemID).
		Order("recorded_at ASC").
		Find(&obs).Error
	return obs, err
}

// UpsertPriceObservation 写入价格快照
// (item_id, platform, recorded_at)冲突时覆盖price，保证每天每平台至多一条
func (r *Repository) UpsertPriceObservation(obs *models.PriceObservation) error {
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "item_id"},
			{Name: "platform"},
			{Name: "recorded_at"},
		},
		DoUpdates: clause.AssignmentColumns([]string{"price"}),
	}).Create(obs).Error
}
