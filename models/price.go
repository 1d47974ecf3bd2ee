package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Platform 电商平台，固定的闭合集合
type Platform string

const (
	PlatformJD    Platform = "jd"    // 京东
	PlatformTmall Platform = "tmall" // 天猫
	PlatformPDD   Platform = "pdd"   // 拼多多
)

// AllPlatforms 全部支持的平台
var AllPlatforms = []Platform{PlatformJD, PlatformTmall, PlatformPDD}

// Valid 平台取值是否合法
func (p Platform) Valid() bool {
	switch p {
	case PlatformJD, PlatformTmall, PlatformPDD:
		return true
	}
	return false
}

// PriceObservation 价格快照 - 一个物品在一个平台某天记录的价格
// (item_id, platform, recorded_at) 唯一，同天重复写入覆盖旧值
type PriceObservation struct {
	ID         uint            `json:"id" gorm:"primaryKey;autoIncrement"`
	ItemID     string          `json:"item_id" gorm:"size:36;not null;uniqueIndex:uk_item_platform_date"`
	Platform   Platform        `json:"platform" gorm:"size:16;not null;uniqueIndex:uk_item_platform_date"`
	Price      decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"`
	RecordedAt time.Time       `json:"recorded_at" gorm:"type:date;not null;uniqueIndex:uk_item_platform_date"`
	CreatedAt  time.Time       `json:"created_at"`
}

func (PriceObservation) TableName() string {
	return "item_price_history"
}

// HistoryPoint 价格历史中的一个日期点
// 当天没有记录的平台保持为空，空与0元是不同含义
type HistoryPoint struct {
	Date  string           `json:"date"` // YYYY-MM-DD
	JD    *decimal.Decimal `json:"jd,omitempty"`
	Tmall *decimal.Decimal `json:"tmall,omitempty"`
	PDD   *decimal.Decimal `json:"pdd,omitempty"`
}

// SetValue 写入指定平台当天的价格
func (h *HistoryPoint) SetValue(p Platform, price decimal.Decimal) {
	v := price
	switch p {
	case PlatformJD:
		h.JD = &v
	case PlatformTmall:
		h.Tmall = &v
	case PlatformPDD:
		h.PDD = &v
	}
}

// Value 读取指定平台当天的价格，没有记录返回nil
func (h *HistoryPoint) Value(p Platform) *decimal.Decimal {
	switch p {
	case PlatformJD:
		return h.JD
	case PlatformTmall:
		return h.Tmall
	case PlatformPDD:
		return h.PDD
	}
	return nil
}

// PlatformStats 单平台价格统计，平台无数据时字段为null
type PlatformStats struct {
	Max   *decimal.Decimal `json:"max"`
	Min   *decimal.Decimal `json:"min"`
	Avg1y *decimal.Decimal `json:"avg1y"` // 最近365天均价
}

// PriceStats 三个平台各自的价格统计
type PriceStats struct {
	JD    PlatformStats `json:"jd"`
	Tmall PlatformStats `json:"tmall"`
	PDD   PlatformStats `json:"pdd"`
}

// ForPlatform 取指定平台的统计项
func (s *PriceStats) ForPlatform(p Platform) *PlatformStats {
	switch p {
	case PlatformJD:
		return &s.JD
	case PlatformTmall:
		return &s.Tmall
	case PlatformPDD:
		return &s.PDD
	}
	return nil
}

// PriceStatsResult 价格查询结果，每次请求即时计算，不做缓存
type PriceStatsResult struct {
	History []HistoryPoint `json:"history"`
	Stats   PriceStats     `json:"stats"`
}
