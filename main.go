package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Lounwb/Stockin/core"
	"github.com/Lounwb/Stockin/pkg/barcode"
	"github.com/Lounwb/Stockin/pkg/config"
	"github.com/Lounwb/Stockin/pkg/database"
	"github.com/Lounwb/Stockin/pkg/platforms"
	"github.com/Lounwb/Stockin/pkg/redis"
	"github.com/Lounwb/Stockin/pkg/telegram"
	"github.com/Lounwb/Stockin/servers"

	"github.com/sirupsen/logrus"
)

func main() {
	// 设置日志级别
	logrus.SetLevel(logrus.InfoLevel)
	logrus.Info("启动Stockin...")

	// 加载配置
	config.LoadConfig()

	// 初始化MySQL
	database.InitMySQL(config.GlobalConfig)
	repo := database.NewRepository(database.GetDB())

	// 初始化Redis
	if err := redis.InitRedis(); err != nil {
		// 发送错误通知
		if telegram.GlobalTelegramClient != nil {
			telegram.GlobalTelegramClient.SendServiceStatus("error", fmt.Sprintf("Redis初始化失败\n错误: %v\n服务即将停止", err))
		}
		logrus.Fatalf("Redis init fail: %v", err)
	}

	// 初始化Telegram客户端
	if err := telegram.InitTelegram(); err != nil {
		logrus.Errorf("Telegram init fail: %v", err)
	}

	// 确保图片目录存在
	if err := os.MkdirAll(config.GlobalConfig.UploadDir, 0o755); err != nil {
		logrus.Fatalf("创建图片目录失败: %v", err)
	}

	// 初始化平台客户端
	searcher := platforms.NewSearcher(
		config.GlobalConfig.PriceServiceURL,
		config.GlobalConfig.PriceServiceAPIKey,
	)
	registry := platforms.NewRegistry(searcher)

	// 初始化条码查询客户端
	barcodeClient := barcode.NewClient(
		config.GlobalConfig.MxnzpAppID,
		config.GlobalConfig.MxnzpAppSecret,
	)

	// 启动定时价格抓取
	fetcher := core.NewPriceFetcher(repo, repo, registry, config.GlobalConfig.PriceFetchInterval)
	if err := fetcher.Start(); err != nil {
		logrus.Errorf("启动价格抓取器失败: %v", err)
	}

	// 创建HTTP服务器
	server := servers.NewHTTPServer(repo, registry, fetcher, barcodeClient)
	go func() {
		server.Start()
	}()

	logrus.Info("Stockin启动完成!")

	// 优雅关闭
	gracefulShutdown(fetcher)
}

// gracefulShutdown 优雅关闭
func gracefulShutdown(fetcher *core.PriceFetcher) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("正在关闭Stockin...")

	// 停止定时价格抓取
	if fetcher != nil {
		fetcher.Stop()
	}

	// 发送服务停止的Telegram通知
	if telegram.GlobalTelegramClient != nil {
		if err := telegram.GlobalTelegramClient.SendServiceStatus("stopped", "Stockin已关闭"); err != nil {
			logrus.Errorf("发送关闭完成通知失败: %v", err)
		}
	}

	logrus.Info("Stockin已关闭")
}
