package types

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

// ErrNotSupported 平台暂无可用的公开价格接口
var ErrNotSupported = errors.New("该平台暂不支持价格抓取")

// Candidate 商品搜索返回的候选项
type Candidate struct {
	Sku   string           `json:"sku"`
	Title string           `json:"title"`
	Price *decimal.Decimal `json:"price"`
	URL   string           `json:"url,omitempty"`
}

// SearchQuery 商品搜索条件，名称和条码至少提供一个
type SearchQuery struct {
	Name    string `json:"name,omitempty"`
	Barcode string `json:"barcode,omitempty"`
}

// PriceSource 单个平台的实时价格数据源
type PriceSource interface {
	// FetchPrice 查询SKU当前价格
	FetchPrice(ctx context.Context, sku string) (decimal.Decimal, error)
}
