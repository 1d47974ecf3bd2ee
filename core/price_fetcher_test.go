package core

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/Lounwb/Stockin/models"
	"github.com/Lounwb/Stockin/pkg/platforms/types"

	"github.com/shopspring/decimal"
)

// fakeLister 固定返回一组物品
type fakeLister struct {
	items []models.Item
	err   error
}

func (f *fakeLister) ListItemsWithSku() ([]models.Item, error) {
	return f.items, f.err
}

// fakeWriter 记录写入的价格快照
type fakeWriter struct {
	saved []models.PriceObservation
	err   error
}

func (f *fakeWriter) UpsertPriceObservation(obs *models.PriceObservation) error {
	if f.err != nil {
		return f.err
	}
	f.saved = append(f.saved, *obs)
	return nil
}

// fakeSource 单平台假数据源
type fakeSource struct {
	price decimal.Decimal
	err   error
}

func (f *fakeSource) FetchPrice(ctx context.Context, sku string) (decimal.Decimal, error) {
	if f.err != nil {
		return decimal.Zero, f.err
	}
	return f.price, nil
}

// fakeProvider 按平台返回假数据源
type fakeProvider struct {
	sources map[models.Platform]types.PriceSource
}

func (f *fakeProvider) Source(p models.Platform) (types.PriceSource, bool) {
	s, ok := f.sources[p]
	return s, ok
}

func TestFetchAll(t *testing.T) {
	lister := &fakeLister{items: []models.Item{
		{ID: "item-1", Name: "牛奶", JDSku: "100001"},
		{ID: "item-2", Name: "纸巾", TmallSku: "t-200", PddSku: "p-300"},
	}}
	writer := &fakeWriter{}
	provider := &fakeProvider{sources: map[models.Platform]types.PriceSource{
		models.PlatformJD:    &fakeSource{price: decimal.RequireFromString("59.90")},
		models.PlatformTmall: &fakeSource{err: types.ErrNotSupported},
		models.PlatformPDD:   &fakeSource{err: fmt.Errorf("timeout")},
	}}

	fetcher := NewPriceFetcher(lister, writer, provider, time.Hour)
	summary, err := fetcher.FetchAll(context.Background())
	if err != nil {
		t.Fatalf("抓取失败: %v", err)
	}

	// item-1绑定jd，item-2绑定tmall和pdd，共3个组合
	if summary.ItemsChecked != 3 {
		t.Errorf("检查组合数错误: 期望 3, 实际 %d", summary.ItemsChecked)
	}
	// 只有jd抓取成功
	if summary.PricesSaved != 1 {
		t.Errorf("写入条数错误: 期望 1, 实际 %d", summary.PricesSaved)
	}
	// 平台未接入不算失败，pdd的超时算
	if summary.Failures != 1 {
		t.Errorf("失败次数错误: 期望 1, 实际 %d", summary.Failures)
	}

	if len(writer.saved) != 1 {
		t.Fatalf("存储写入条数错误: %d", len(writer.saved))
	}
	saved := writer.saved[0]
	if saved.ItemID != "item-1" || saved.Platform != models.PlatformJD {
		t.Errorf("写入记录错误: %+v", saved)
	}
	if !saved.Price.Equal(decimal.RequireFromString("59.90")) {
		t.Errorf("写入价格错误: %s", saved.Price)
	}

	// 记录日期应是今天
	today := time.Now().Format("2006-01-02")
	if saved.RecordedAt.Format("2006-01-02") != today {
		t.Errorf("记录日期应是今天: %s", saved.RecordedAt)
	}
}

func TestFetchAllListError(t *testing.T) {
	lister := &fakeLister{err: fmt.Errorf("db down")}
	fetcher := NewPriceFetcher(lister, &fakeWriter{}, &fakeProvider{}, time.Hour)

	if _, err := fetcher.FetchAll(context.Background()); err == nil {
		t.Fatal("物品查询失败时应返回错误")
	}
}

func TestFetcherStartStop(t *testing.T) {
	fetcher := NewPriceFetcher(&fakeLister{}, &fakeWriter{}, &fakeProvider{}, time.Hour)

	if err := fetcher.Start(); err != nil {
		t.Fatalf("启动失败: %v", err)
	}
	if !fetcher.IsRunning() {
		t.Error("启动后应处于运行状态")
	}
	if err := fetcher.Start(); err == nil {
		t.Error("重复启动应返回错误")
	}

	fetcher.Stop()
	if fetcher.IsRunning() {
		t.Error("停止后不应处于运行状态")
	}
	// 重复停止不应panic
	fetcher.Stop()
}
