package core

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Lounwb/Stockin/models"
	"github.com/Lounwb/Stockin/pkg/platforms"
	"github.com/Lounwb/Stockin/pkg/platforms/types"
	"github.com/Lounwb/Stockin/pkg/telegram"

	"github.com/sirupsen/logrus"
)

// ObservationWriter 价格快照写入，(item, platform, date)冲突时覆盖当天旧值
type ObservationWriter interface {
	UpsertPriceObservation(obs *models.PriceObservation) error
}

// ItemLister 列出绑定了平台SKU的物品
type ItemLister interface {
	ListItemsWithSku() ([]models.Item, error)
}

// FetchSummary 一轮价格抓取的结果汇总
type FetchSummary struct {
	ItemsChecked int `json:"items_checked"` // 检查的(物品,平台)组合数
	PricesSaved  int `json:"prices_saved"`  // 成功写入的价格条数
	Failures     int `json:"failures"`      // 抓取或写入失败数，不含平台未接入
}

// PriceFetcher 定时价格抓取器
// 周期性为绑定了SKU的物品抓取各平台当前价格并按天落库
type PriceFetcher struct {
	items    ItemLister
	store    ObservationWriter
	sources  platforms.SourceProvider
	interval time.Duration

	ctx     context.Context
	cancel  context.CancelFunc
	running bool
	mu      sync.Mutex
}

// NewPriceFetcher 创建价格抓取器
func NewPriceFetcher(items ItemLister, store ObservationWriter, sources platforms.SourceProvider, interval time.Duration) *PriceFetcher {
	ctx, cancel := context.WithCancel(context.Background())

	return &PriceFetcher{
		items:    items,
		store:    store,
		sources:  sources,
		interval: interval,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start 启动定时抓取
func (f *PriceFetcher) Start() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.running {
		return fmt.Errorf("价格抓取器已在运行")
	}
	f.running = true

	go func() {
		logrus.Infof("价格抓取器已启动，间隔 %s", f.interval)
		ticker := time.NewTicker(f.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				summary, err := f.FetchAll(f.ctx)
				if err != nil {
					logrus.Errorf("价格抓取失败: %v", err)
					continue
				}
				f.notify(summary)
			case <-f.ctx.Done():
				logrus.Info("价格抓取器已停止")
				return
			}
		}
	}()

	return nil
}

// Stop 停止定时抓取
func (f *PriceFetcher) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.running {
		return
	}
	f.cancel()
	f.running = false
}

// IsRunning 抓取器是否在运行
func (f *PriceFetcher) IsRunning() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.running
}

// FetchAll 为所有绑定SKU的物品抓取一轮价格
// 每个(物品,平台)写入一条当天记录，同天重复抓取覆盖旧值
func (f *PriceFetcher) FetchAll(ctx context.Context) (*FetchSummary, error) {
	items, err := f.items.ListItemsWithSku()
	if err != nil {
		return nil, fmt.Errorf("查询待抓取物品失败: %v", err)
	}

	summary := &FetchSummary{}
	today := time.Now()

	for i := range items {
		item := items[i]
		for _, platform := range models.AllPlatforms {
			sku := item.PlatformSku(platform)
			if sku == "" {
				continue
			}
			summary.ItemsChecked++

			source, ok := f.sources.Source(platform)
			if !ok {
				continue
			}

			price, err := source.FetchPrice(ctx, sku)
			if err != nil {
				if errors.Is(err, types.ErrNotSupported) {
					continue
				}
				logrus.Warnf("抓取价格失败: item=%s platform=%s sku=%s err=%v", item.ID, platform, sku, err)
				summary.Failures++
				continue
			}

			obs := &models.PriceObservation{
				ItemID:     item.ID,
				Platform:   platform,
				Price:      price,
				RecordedAt: today,
			}
			if err := f.store.UpsertPriceObservation(obs); err != nil {
				logrus.Errorf("写入价格记录失败: item=%s platform=%s err=%v", item.ID, platform, err)
				summary.Failures++
				continue
			}
			summary.PricesSaved++
		}
	}

	logrus.Infof("价格抓取完成: 检查%d项, 写入%d条, 失败%d次",
		summary.ItemsChecked, summary.PricesSaved, summary.Failures)
	return summary, nil
}

// notify 推送抓取汇总到Telegram，未配置时跳过
func (f *PriceFetcher) notify(summary *FetchSummary) {
	if telegram.GlobalTelegramClient == nil {
		return
	}
	text := fmt.Sprintf("价格抓取完成\n检查: %d项\n写入: %d条\n失败: %d次",
		summary.ItemsChecked, summary.PricesSaved, summary.Failures)
	if err := telegram.GlobalTelegramClient.SendMessage(text); err != nil {
		logrus.Warnf("发送抓取汇总通知失败: %v", err)
	}
}
