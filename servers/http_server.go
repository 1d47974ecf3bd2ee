package servers

import (
	"fmt"

	"github.com/Lounwb/Stockin/apis"
	"github.com/Lounwb/Stockin/core"
	"github.com/Lounwb/Stockin/pkg/barcode"
	"github.com/Lounwb/Stockin/pkg/config"
	"github.com/Lounwb/Stockin/pkg/database"
	"github.com/Lounwb/Stockin/pkg/middleware"
	"github.com/Lounwb/Stockin/pkg/platforms"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type HTTPServer struct {
	engine *gin.Engine
	port   string
}

// NewHTTPServer 创建HTTP服务器
func NewHTTPServer(repo *database.Repository, registry *platforms.Registry, fetcher *core.PriceFetcher, barcodeClient *barcode.Client) *HTTPServer {
	// 设置Gin模式
	if config.GlobalConfig.LogLevel == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.Default()
	engine.Use(middleware.Cors())

	// 设置路由
	apis.SetupRoutes(engine, repo, registry, fetcher, barcodeClient)

	return &HTTPServer{
		engine: engine,
		port:   config.GlobalConfig.Port,
	}
}

// Start 启动HTTP服务器
func (s *HTTPServer) Start() {
	addr := fmt.Sprintf(":%s", s.port)
	logrus.Infof("HTTP服务器启动在端口 %s", s.port)

	if err := s.engine.Run(addr); err != nil {
		logrus.Fatalf("HTTP服务器启动失败: %v", err)
	}
}
