package barcode

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// mxnzp条码开放接口
const lookupURL = "https://www.mxnzp.com/api/barcode/goods/details"

// Product 条码查询归一化后的商品信息
type Product struct {
	Name     string `json:"name"`
	Barcode  string `json:"barcode"`
	Price    string `json:"price"`
	Brand    string `json:"brand"`
	Supplier string `json:"supplier"`
	Standard string `json:"standard"` // 规格
}

// mxnzpItem 接口返回的原始条目
type mxnzpItem struct {
	GoodsName string `json:"goodsName"`
	Barcode   string `json:"barcode"`
	Price     string `json:"price"`
	Brand     string `json:"brand"`
	Supplier  string `json:"supplier"`
	Standard  string `json:"standard"`
}

// mxnzpResponse data字段可能是单个对象也可能是数组，需要兼容
type mxnzpResponse struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

// Client mxnzp条码查询客户端
type Client struct {
	http      *resty.Client
	appID     string
	appSecret string
	baseURL   string
}

// NewClient 创建条码查询客户端
func NewClient(appID, appSecret string) *Client {
	client := resty.New()
	client.SetTimeout(10 * time.Second)

	return &Client{
		http:      client,
		appID:     appID,
		appSecret: appSecret,
		baseURL:   lookupURL,
	}
}

// SetBaseURL 覆盖接口地址，测试用
func (c *Client) SetBaseURL(url string) {
	c.baseURL = url
}

// Configured 是否已配置接口凭据
func (c *Client) Configured() bool {
	return c.appID != "" && c.appSecret != ""
}

// Lookup 按条码查询商品信息，查无此码返回nil
func (c *Client) Lookup(ctx context.Context, code string) (*Product, error) {
	if !c.Configured() {
		return nil, fmt.Errorf("未配置MXNZP_APP_ID或MXNZP_APP_SECRET")
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"barcode":    code,
			"app_id":     c.appID,
			"app_secret": c.appSecret,
		}).
		Get(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("请求条码接口失败: %v", err)
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("条码接口返回状态码 %d", resp.StatusCode())
	}

	var body mxnzpResponse
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return nil, fmt.Errorf("解析条码接口响应失败: %v", err)
	}

	first, err := firstItem(body.Data)
	if err != nil {
		return nil, err
	}
	if first == nil {
		return nil, nil
	}

	product := &Product{
		Name:     first.GoodsName,
		Barcode:  first.Barcode,
		Price:    first.Price,
		Brand:    first.Brand,
		Supplier: first.Supplier,
		Standard: first.Standard,
	}
	if product.Barcode == "" {
		product.Barcode = code
	}
	return product, nil
}

// firstItem 兼容data为对象或数组两种返回形态
func firstItem(data json.RawMessage) (*mxnzpItem, error) {
	if len(data) == 0 || string(data) == "null" {
		return nil, nil
	}

	var items []mxnzpItem
	if err := json.Unmarshal(data, &items); err == nil {
		if len(items) == 0 {
			return nil, nil
		}
		return &items[0], nil
	}

	var item mxnzpItem
	if err := json.Unmarshal(data, &item); err != nil {
		return nil, fmt.Errorf("无法识别的条码接口data格式")
	}
	return &item, nil
}
