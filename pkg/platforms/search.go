package platforms

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/Lounwb/Stockin/models"
	"github.com/Lounwb/Stockin/pkg/platforms/types"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
)

// SearchResult 三个平台的搜索候选，出错的平台降级为空列表
type SearchResult struct {
	JD    []types.Candidate `json:"jd"`
	Tmall []types.Candidate `json:"tmall"`
	PDD   []types.Candidate `json:"pdd"`
}

// Searcher 商品搜索客户端
// 搜索统一走自建价格服务，未配置地址时所有平台返回空列表
type Searcher struct {
	http    *resty.Client
	baseURL string
	apiKey  string
}

// NewSearcher 创建商品搜索客户端
func NewSearcher(baseURL, apiKey string) *Searcher {
	client := resty.New()
	client.SetTimeout(15 * time.Second)

	return &Searcher{
		http:    client,
		baseURL: baseURL,
		apiKey:  apiKey,
	}
}

// searchPlatform 请求价格服务搜索单个平台
func (s *Searcher) searchPlatform(ctx context.Context, platform models.Platform, query types.SearchQuery) ([]types.Candidate, error) {
	if s.baseURL == "" {
		return nil, nil
	}

	payload := map[string]string{
		"platform": string(platform),
	}
	if query.Name != "" {
		payload["name"] = query.Name
	}
	if query.Barcode != "" {
		payload["barcode"] = query.Barcode
	}

	req := s.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(payload)
	if s.apiKey != "" {
		req.SetAuthToken(s.apiKey)
	}

	resp, err := req.Post(s.baseURL + "/search")
	if err != nil {
		return nil, fmt.Errorf("请求价格服务失败: %v", err)
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("价格服务返回状态码 %d", resp.StatusCode())
	}

	var candidates []types.Candidate
	if err := json.Unmarshal(resp.Body(), &candidates); err != nil {
		return nil, fmt.Errorf("解析价格服务响应失败: %v", err)
	}
	return candidates, nil
}

// Search 并发搜索三个平台，单个平台失败只记日志不影响其余平台
func (s *Searcher) Search(ctx context.Context, query types.SearchQuery) *SearchResult {
	result := &SearchResult{
		JD:    []types.Candidate{},
		Tmall: []types.Candidate{},
		PDD:   []types.Candidate{},
	}

	var wg sync.WaitGroup
	var mu sync.Mutex

	for _, platform := range models.AllPlatforms {
		wg.Add(1)
		go func(p models.Platform) {
			defer wg.Done()

			candidates, err := s.searchPlatform(ctx, p, query)
			if err != nil {
				logrus.Warnf("平台 %s 商品搜索失败: %v", p, err)
				return
			}
			if len(candidates) == 0 {
				return
			}

			mu.Lock()
			defer mu.Unlock()
			switch p {
			case models.PlatformJD:
				result.JD = candidates
			case models.PlatformTmall:
				result.Tmall = candidates
			case models.PlatformPDD:
				result.PDD = candidates
			}
		}(platform)
	}
	wg.Wait()

	return result
}
