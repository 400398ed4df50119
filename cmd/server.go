package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/spidersno1/job-accelerator/internal/agent"
	"github.com/spidersno1/job-accelerator/internal/config"
	"github.com/spidersno1/job-accelerator/internal/database"
	"github.com/spidersno1/job-accelerator/internal/logger"
	"github.com/spidersno1/job-accelerator/internal/quota"
	"github.com/spidersno1/job-accelerator/internal/server"
	"github.com/spidersno1/job-accelerator/internal/service"
)

// serverCmd 启动 HTTP API 服务
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "启动 HTTP API 服务",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer()
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)
}

func runServer() error {
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		return err
	}

	if err := logger.Init(cfg.Log.JSON, cfg.Log.Debug); err != nil {
		return err
	}
	defer logger.Sync()

	database.SetPath(cfg.Database.Path)
	defer func() { _ = database.Close() }()

	// 用量计数存储:默认内存,生产可切 Redis
	var store quota.Store
	if cfg.Cache.Type == "redis" {
		redisStore, err := quota.NewRedisStore(cfg.Cache.Addr, cfg.Cache.Password, cfg.Cache.DB)
		if err != nil {
			return err
		}
		store = redisStore
		logger.Info("Usage store: redis, addr %s", cfg.Cache.Addr)
	} else {
		store = quota.NewMemoryStore()
		logger.Info("Usage store: in-memory")
	}

	// 只有云端模型吃免费额度,本地模型和规则引擎不限制
	tracker := quota.NewTracker(store, map[string]quota.Limit{
		agent.SourceCloudModel: {Daily: cfg.AI.Quota.CloudDaily, Minute: cfg.AI.Quota.CloudMinute},
		agent.SourceLocalModel: {Daily: quota.Unlimited, Minute: quota.Unlimited},
		agent.SourceRuleBased:  {Daily: quota.Unlimited, Minute: quota.Unlimited},
	})

	// 分级回复路由器
	rules := agent.NewRuleEngine(agent.NewConversationMemory(), nil)
	local := agent.NewLocalClient(cfg.AI.Local.BaseURL)
	cloud := agent.NewCloudClient(cfg.AI.Cloud.APIKey, cfg.AI.Cloud.BaseURL, tracker)
	profile := service.NewProfileService(
		service.NewUserService(),
		service.NewSkillService(),
		service.NewLearningService(),
	)
	router := agent.NewRouter(rules, local, cloud, tracker, profile)

	if !cloud.IsConfigured() {
		logger.Warn("Cloud model API key not configured, fallback chain is local -> rules only")
	}

	httpServer := server.NewHTTPGinServer(cfg, router, tracker)

	// 优雅退出
	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		logger.Info("Received signal %s, shutting down", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpServer.Stop(ctx)
}
