package models

import (
	"time"
)

// Item 物品信息 - 家庭库存中的一件物品
type Item struct {
	ID       string `json:"id" gorm:"primaryKey;size:36"`
	UserID   string `json:"user_id" gorm:"size:64;index;not null"`
	Name     string `json:"name" gorm:"size:128;not null"`
	Spec     string `json:"spec" gorm:"size:128"`      // 规格，如 500ml、12支装
	Barcode  string `json:"barcode" gorm:"size:64"`    // 商品条形码
	ImageURL string `json:"image_url" gorm:"size:512"` // 物品图片地址

	// ========== 平台SKU绑定 ==========
	// 绑定后每日价格抓取会为对应平台写入价格记录
	JDSku    string `json:"jd_sku" gorm:"column:jd_sku;size:64"`
	TmallSku string `json:"tmall_sku" gorm:"size:64"`
	PddSku   string `json:"pdd_sku" gorm:"size:64"`

	Quantity int    `json:"quantity" gorm:"default:0"` // 库存数量
	Unit     string `json:"unit" gorm:"size:16"`       // 数量单位，如 瓶、盒

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Item) TableName() string {
	return "items"
}

// PlatformSku 返回物品在指定平台绑定的SKU，未绑定返回空串
func (i *Item) PlatformSku(p Platform) string {
	switch p {
	case PlatformJD:
		return i.JDSku
	case PlatformTmall:
		return i.TmallSku
	case PlatformPDD:
		return i.PddSku
	}
	return ""
}

// HasBoundSku 是否至少绑定了一个平台SKU
func (i *Item) HasBoundSku() bool {
	return i.JDSku != "" || i.TmallSku != "" || i.PddSku != ""
}
