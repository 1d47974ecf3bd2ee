package pdd

import (
	"context"

	"github.com/Lounwb/Stockin/pkg/platforms/types"

	"github.com/shopspring/decimal"
)

// Client 拼多多价格客户端
// 拼多多开放平台需要商家资质，价格抓取待接入后补充
type Client struct{}

// NewClient 创建拼多多价格客户端
func NewClient() *Client {
	return &Client{}
}

// FetchPrice 查询SKU当前价格
func (c *Client) FetchPrice(ctx context.Context, sku string) (decimal.Decimal, error) {
	return decimal.Zero, types.ErrNotSupported
}
