package tmall

import (
	"context"

	"github.com/Lounwb/Stockin/pkg/platforms/types"

	"github.com/shopspring/decimal"
)

// Client 天猫价格客户端
// 天猫没有免key的公开价格接口，抓取逻辑待开放平台接入后补充
type Client struct{}

// NewClient 创建天猫价格客户端
func NewClient() *Client {
	return &Client{}
}

// FetchPrice 查询SKU当前价格
func (c *Client) FetchPrice(ctx context.Context, sku string) (decimal.Decimal, error) {
	return decimal.Zero, types.ErrNotSupported
}
