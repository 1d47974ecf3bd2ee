package redis

import (
	"encoding/json"
	"time"
)

// 缓存相关常量
// 条码到商品信息基本不变，可以缓得久；搜索结果里的价格会变，缓得短
const (
	CacheExpirationBarcode = 24 * time.Hour   // 条码查询缓存24小时
	CacheExpirationSearch  = 10 * time.Minute // 商品搜索缓存10分钟
)

// SetCache 设置缓存
func (c *Client) SetCache(key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.rdb.Set(c.ctx, key, data, expiration).Err()
}

// GetCache 获取缓存
func (c *Client) GetCache(key string, dest interface{}) error {
	data, err := c.rdb.Get(c.ctx, key).Result()
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(data), dest)
}

// DeleteCache 按模式删除缓存
func (c *Client) DeleteCache(pattern string) error {
	keys, err := c.rdb.Keys(c.ctx, pattern).Result()
	if err != nil {
		return err
	}
	if len(keys) > 0 {
		return c.rdb.Del(c.ctx, keys...).Err()
	}
	return nil
}
