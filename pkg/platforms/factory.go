package platforms

import (
	"github.com/Lounwb/Stockin/models"
	"github.com/Lounwb/Stockin/pkg/platforms/jd"
	"github.com/Lounwb/Stockin/pkg/platforms/pdd"
	"github.com/Lounwb/Stockin/pkg/platforms/tmall"
	"github.com/Lounwb/Stockin/pkg/platforms/types"
)

// SourceProvider 按平台查找价格数据源
type SourceProvider interface {
	Source(p models.Platform) (types.PriceSource, bool)
}

// Registry 平台客户端注册表，集中持有三个平台的价格数据源和商品搜索
type Registry struct {
	sources  map[models.Platform]types.PriceSource
	searcher *Searcher
}

// NewRegistry 创建注册表并接入全部平台客户端
func NewRegistry(searcher *Searcher) *Registry {
	return &Registry{
		sources: map[models.Platform]types.PriceSource{
			models.PlatformJD:    jd.NewClient(),
			models.PlatformTmall: tmall.NewClient(),
			models.PlatformPDD:   pdd.NewClient(),
		},
		searcher: searcher,
	}
}

// Source 取指定平台的价格数据源
func (r *Registry) Source(p models.Platform) (types.PriceSource, bool) {
	source, ok := r.sources[p]
	return source, ok
}

// Searcher 取商品搜索客户端
func (r *Registry) Searcher() *Searcher {
	return r.searcher
}
