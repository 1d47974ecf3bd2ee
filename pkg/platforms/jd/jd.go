package jd

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"
)

// 京东公开价格接口，无需key
const defaultPriceURL = "https://p.3.cn/prices/mgets"

// 移动端UA，接口对桌面UA限流更严
const mobileUA = "Mozilla/5.0 (iPhone; CPU iPhone OS 16_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/16.0 Mobile/15E148 Safari/604.1"

// Client 京东价格客户端
type Client struct {
	http     *resty.Client
	priceURL string
}

// priceEntry p.3.cn返回的单条价格，p为现价，op为原价
type priceEntry struct {
	ID string `json:"id"`
	P  string `json:"p"`
	Op string `json:"op"`
}

// NewClient 创建京东价格客户端
func NewClient() *Client {
	client := resty.New()
	client.SetTimeout(10 * time.Second)
	client.SetHeader("User-Agent", mobileUA)
	client.SetHeader("Referer", "https://item.m.jd.com/")

	return &Client{
		http:     client,
		priceURL: defaultPriceURL,
	}
}

// SetPriceURL 覆盖价格接口地址，测试用
func (c *Client) SetPriceURL(url string) {
	c.priceURL = url
}

// FetchPrice 查询SKU当前价格
// skuIds参数要求J_前缀，入参带不带均可
func (c *Client) FetchPrice(ctx context.Context, sku string) (decimal.Decimal, error) {
	cleanSku := strings.TrimPrefix(sku, "J_")
	if cleanSku == "" {
		return decimal.Zero, fmt.Errorf("京东SKU不能为空")
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("skuIds", "J_"+cleanSku).
		Get(c.priceURL)
	if err != nil {
		return decimal.Zero, fmt.Errorf("请求京东价格接口失败: %v", err)
	}
	if resp.StatusCode() != 200 {
		return decimal.Zero, fmt.Errorf("京东价格接口返回状态码 %d", resp.StatusCode())
	}

	var entries []priceEntry
	if err := json.Unmarshal(resp.Body(), &entries); err != nil {
		return decimal.Zero, fmt.Errorf("解析京东价格响应失败: %v", err)
	}
	if len(entries) == 0 || entries[0].P == "" {
		return decimal.Zero, fmt.Errorf("京东未返回SKU %s 的价格", cleanSku)
	}

	price, err := decimal.NewFromString(entries[0].P)
	if err != nil {
		return decimal.Zero, fmt.Errorf("京东价格格式错误: %s", entries[0].P)
	}
	// p为-1表示商品下架或无价格
	if !price.IsPositive() {
		return decimal.Zero, fmt.Errorf("京东SKU %s 当前无有效价格", cleanSku)
	}

	return price, nil
}
