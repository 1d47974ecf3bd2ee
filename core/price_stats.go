package core

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/Lounwb/Stockin/models"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// PriceRange 价格查询区间
type PriceRange string

const (
	RangeAll     PriceRange = "all" // 全部历史
	RangeOneYear PriceRange = "1y"  // 最近365天
)

// 滚动均价窗口长度（按日历天计算）
const trailingWindowDays = 365

var (
	// ErrMissingItemID 调用方未提供物品ID，在任何I/O之前拒绝
	ErrMissingItemID = errors.New("item_id不能为空")
	// ErrUpstreamUnavailable 价格记录读取失败
	ErrUpstreamUnavailable = errors.New("价格记录读取失败")
)

// ObservationStore 价格快照的只读来源
type ObservationStore interface {
	// ListPriceObservations 取出某物品的全部价格记录，顺序不做要求
	ListPriceObservations(itemID string) ([]models.PriceObservation, error)
}

// ParseRange 解析请求中的区间参数，空串按全部历史处理
func ParseRange(s string) (PriceRange, error) {
	switch s {
	case "", string(RangeAll):
		return RangeAll, nil
	case string(RangeOneYear):
		return RangeOneYear, nil
	}
	return "", fmt.Errorf("不支持的区间参数: %s", s)
}

// dateOnly 截断到日期，丢弃时分秒和时区差异
func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// trailingCutoff 按日历日回退365天得到窗口起点，与当天时刻无关
func trailingCutoff(now time.Time) time.Time {
	return dateOnly(now).AddDate(0, 0, -trailingWindowDays)
}

// sanitizeObservations 丢弃平台未知或价格非正的脏数据，保留可用部分
// 统计视图宁可缺一条数据也不整体失败
func sanitizeObservations(obs []models.PriceObservation) []models.PriceObservation {
	clean := make([]models.PriceObservation, 0, len(obs))
	for i := range obs {
		o := obs[i]
		if !o.Platform.Valid() {
			logrus.Warnf("跳过未知平台的价格记录: item=%s platform=%s", o.ItemID, o.Platform)
			continue
		}
		if !o.Price.IsPositive() {
			logrus.Warnf("跳过非正价格的记录: item=%s platform=%s price=%s", o.ItemID, o.Platform, o.Price)
			continue
		}
		clean = append(clean, o)
	}
	return clean
}

// FilterObservationsByRange 按区间过滤观测
// all原样返回；1y保留recorded_at在最近365天内的记录，边界日包含
func FilterObservationsByRange(obs []models.PriceObservation, r PriceRange, now time.Time) []models.PriceObservation {
	if r != RangeOneYear {
		return obs
	}
	cutoff := trailingCutoff(now)
	filtered := make([]models.PriceObservation, 0, len(obs))
	for i := range obs {
		if !dateOnly(obs[i].RecordedAt).Before(cutoff) {
			filtered = append(filtered, obs[i])
		}
	}
	return filtered
}

// BuildPriceHistory 把观测列表折叠成按日期的稀疏序列
// 每个出现过的日期一条，当天没记录的平台保持为空，不向前补值
// 同一(平台,日期)出现重复时按输入顺序后者覆盖前者
func BuildPriceHistory(obs []models.PriceObservation) []models.HistoryPoint {
	points := make(map[string]*models.HistoryPoint)
	for i := range obs {
		o := obs[i]
		date := dateOnly(o.RecordedAt).Format("2006-01-02")
		pt, ok := points[date]
		if !ok {
			pt = &models.HistoryPoint{Date: date}
			points[date] = pt
		}
		pt.SetValue(o.Platform, o.Price)
	}

	history := make([]models.HistoryPoint, 0, len(points))
	for _, pt := range points {
		history = append(history, *pt)
	}
	// ISO日期串的字典序即时间序
	sort.Slice(history, func(i, j int) bool {
		return history[i].Date < history[j].Date
	})
	return history
}

// ComputePriceStats 计算各平台的最高价、最低价和最近365天均价
// max/min基于调用方区间过滤后的集合；avg1y固定取全量历史中
// 最近365天内的记录做简单算术平均，与请求区间无关
// 求和使用decimal避免货币累加的二进制浮点误差
func ComputePriceStats(ranged, all []models.PriceObservation, now time.Time) models.PriceStats {
	var stats models.PriceStats
	cutoff := trailingCutoff(now)

	for _, platform := range models.AllPlatforms {
		ps := stats.ForPlatform(platform)

		for i := range ranged {
			o := ranged[i]
			if o.Platform != platform {
				continue
			}
			if ps.Max == nil || o.Price.GreaterThan(*ps.Max) {
				v := o.Price
				ps.Max = &v
			}
			if ps.Min == nil || o.Price.LessThan(*ps.Min) {
				v := o.Price
				ps.Min = &v
			}
		}

		sum := decimal.Zero
		count := 0
		for i := range all {
			o := all[i]
			if o.Platform != platform {
				continue
			}
			if dateOnly(o.RecordedAt).Before(cutoff) {
				continue
			}
			sum = sum.Add(o.Price)
			count++
		}
		if count > 0 {
			avg := sum.DivRound(decimal.NewFromInt(int64(count)), 2)
			ps.Avg1y = &avg
		}
	}

	return stats
}

// GetPriceStats 价格统计查询入口
// 拉取物品全部观测后：历史走区间过滤+按日投影，统计基于同一份数据计算
// 存储读取失败原样上抛，不在本层重试
func GetPriceStats(store ObservationStore, itemID string, r PriceRange) (*models.PriceStatsResult, error) {
	return getPriceStatsAt(store, itemID, r, time.Now())
}

func getPriceStatsAt(store ObservationStore, itemID string, r PriceRange, now time.Time) (*models.PriceStatsResult, error) {
	if itemID == "" {
		return nil, ErrMissingItemID
	}

	obs, err := store.ListPriceObservations(itemID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}

	clean := sanitizeObservations(obs)
	ranged := FilterObservationsByRange(clean, r, now)

	return &models.PriceStatsResult{
		History: BuildPriceHistory(ranged),
		Stats:   ComputePriceStats(ranged, clean, now),
	}, nil
}
