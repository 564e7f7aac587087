package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	appConfig "github.com/Xushengqwer/community_service/config"
	"github.com/Xushengqwer/community_service/constant"
	"github.com/Xushengqwer/community_service/controller"
	"github.com/Xushengqwer/community_service/dependencies"
	"github.com/Xushengqwer/community_service/mq/consumer"
	"github.com/Xushengqwer/community_service/mq/producer"
	"github.com/Xushengqwer/community_service/pkg/cleanup"
	"github.com/Xushengqwer/community_service/repo/mysql"
	redisrepo "github.com/Xushengqwer/community_service/repo/redis"
	"github.com/Xushengqwer/community_service/router"
	"github.com/Xushengqwer/community_service/service"
	"github.com/Xushengqwer/community_service/tasks"

	sharedCore "github.com/Xushengqwer/go-common/core"
	sharedTracing "github.com/Xushengqwer/go-common/core/tracing"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

// @title           Community Service API
// @version         1.0
// @description     社区服务，提供帖子、评论、点赞收藏关注、计数维护与浏览去重等功能。
// @termsOfService  http://swagger.io/terms/

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:8084
// @BasePath  /api/v1/community

// @schemes http https
func main() {
	// --- 配置和基础设置 ---
	var configFile string
	flag.StringVar(&configFile, "config", "config/config.development.yaml", "Path to configuration file")
	flag.Parse()

	// 1. 加载配置
	var cfg appConfig.CommunityConfig
	if err := sharedCore.LoadConfig(configFile, &cfg); err != nil {
		log.Fatalf("FATAL: 加载配置失败 (%s): %v", configFile, err)
	}

	configBytes, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		log.Fatalf("无法序列化配置以进行打印: %v", err)
	}
	log.Printf("✅ 配置加载成功！最终生效的配置如下:\n%s\n", string(configBytes))

	// 2. 初始化 Logger
	logger, loggerErr := sharedCore.NewZapLogger(cfg.ZapConfig)
	if loggerErr != nil {
		log.Fatalf("FATAL: 初始化 ZapLogger 失败: %v", loggerErr)
	}
	defer func() {
		logger.Info("正在同步日志...")
		if err := logger.Logger().Sync(); err != nil {
			log.Printf("WARN: ZapLogger Sync 失败: %v\n", err)
		}
	}()
	logger.Info("Logger 初始化成功")

	// 3. 初始化 TracerProvider
	if cfg.TracerConfig.Enabled {
		tracerShutdown, err := sharedTracing.InitTracerProvider(
			constant.ServiceName,
			constant.ServiceVersion,
			cfg.TracerConfig,
		)
		if err != nil {
			logger.Fatal("初始化 TracerProvider 失败", zap.Error(err))
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			logger.Info("正在关闭 TracerProvider...")
			if err := tracerShutdown(ctx); err != nil {
				logger.Error("关闭 TracerProvider 失败", zap.Error(err))
			}
		}()
		logger.Info("分布式追踪已初始化")
		// TODO: otelTransport 给需要追踪的出站 HTTP Client 用，目前服务没有出站请求
		_ = otelhttp.NewTransport(http.DefaultTransport)
	} else {
		logger.Info("分布式追踪已禁用")
	}

	// --- 4. 初始化核心依赖 ---
	// 4.1 数据库 (MySQL)
	db, dbErr := dependencies.InitMySQL(&cfg, logger)
	if dbErr != nil {
		logger.Fatal("初始化 MySQL 数据库失败", zap.Error(dbErr))
	}
	logger.Info("MySQL 数据库连接成功")

	// 4.2 Redis
	rdb, redisErr := dependencies.InitRedis(&cfg.RedisConfig, logger)
	if redisErr != nil {
		logger.Fatal("初始化 Redis 失败", zap.Error(redisErr))
	}
	logger.Info("Redis 连接成功")

	// 4.3 COS 客户端 (删帖时清理图片对象)
	cos, cosErr := dependencies.InitCOS(&cfg.COSConfig, logger)
	if cosErr != nil {
		logger.Fatal("初始化 COS 客户端失败", zap.Error(cosErr))
	}
	logger.Info("COS 客户端初始化成功")

	// 4.4 Kafka 生产者
	// 删除事件是下游（搜索、推送）对账的唯一来源，没有 broker 服务不允许启动
	if len(cfg.KafkaConfig.Brokers) == 0 {
		logger.Fatal("Kafka brokers 未配置")
	}
	kafkaProducer := producer.NewKafkaProducer(cfg.KafkaConfig, logger)
	defer func() {
		if err := kafkaProducer.Close(); err != nil {
			logger.Error("关闭 Kafka 生产者失败", zap.Error(err))
		}
	}()
	logger.Info("Kafka 生产者已初始化")

	// --- 5. 初始化数据仓库层 (Repositories) ---
	txManager := mysql.NewTxManager(db)
	postRepo := mysql.NewPostRepository(db, logger)
	commentRepo := mysql.NewCommentRepository(db, logger)
	counterRepo := mysql.NewCounterRepository(db, logger)
	likeRepo := mysql.NewLikeRepository(db, logger)
	engagementRepo := mysql.NewEngagementRepository(db, logger)
	followRepo := mysql.NewFollowRepository(db, logger)
	topicRepo := mysql.NewTopicRepository(db, logger)
	viewLogRepo := mysql.NewViewLogRepository(db, logger)
	postBatchRepo := mysql.NewPostBatchRepository(db, logger)
	logger.Debug("MySQL Repositories 初始化完成")

	hotRankRepo := redisrepo.NewHotRankRepository(rdb, logger)
	logger.Debug("Redis Repositories 初始化完成")

	// --- 6. 初始化服务层 (Services) ---
	cleaner := cleanup.NewRunner(logger)
	counterService := service.NewCounterService(counterRepo, topicRepo, logger)
	commentService := service.NewCommentService(txManager, commentRepo, postRepo, counterRepo, likeRepo, cleaner, kafkaProducer, logger)
	postService := service.NewPostService(postRepo, commentRepo, likeRepo, engagementRepo, counterService, cleaner, kafkaProducer, cos, logger)
	viewService := service.NewViewService(postRepo, viewLogRepo, counterRepo, hotRankRepo, logger)
	interactionService := service.NewInteractionService(txManager, postRepo, commentRepo, likeRepo, engagementRepo, followRepo, counterRepo, logger)
	hotPostService := service.NewHotPostService(hotRankRepo, postBatchRepo, logger)
	logger.Debug("Services 初始化完成")

	// --- 7. 初始化控制器层 (Controllers) ---
	postController := controller.NewPostController(postService)
	commentController := controller.NewCommentController(commentService)
	statsController := controller.NewStatsController(counterService, viewService)
	interactionController := controller.NewInteractionController(interactionService)
	hotPostController := controller.NewHotPostController(hotPostService)
	logger.Debug("Controllers 初始化完成")

	// --- 8. 初始化 Kafka 消费者 ---
	var consumers []*consumer.Consumer
	var consumerWg sync.WaitGroup
	consumerCtx, consumerCancel := context.WithCancel(context.Background())

	groupID := cfg.KafkaConfig.ConsumerGroupID
	if groupID == "" {
		logger.Warn("Kafka ConsumerGroupID 未在配置中设置，将使用默认值 'community_service_group'")
		groupID = "community_service_group"
	}

	postDeletedTopic := cfg.KafkaConfig.Topics.PostDeleted
	if postDeletedTopic != "" {
		postDeletedHandler := consumer.NewPostDeletedHandler(logger, hotRankRepo)
		postDeletedConsumer, err := consumer.NewConsumer(
			&cfg.KafkaConfig,
			groupID,
			postDeletedTopic,
			postDeletedHandler,
			logger,
		)
		if err != nil {
			logger.Fatal("初始化 PostDeleted Kafka 消费者失败", zap.Error(err))
		}
		consumers = append(consumers, postDeletedConsumer)
		logger.Info("PostDeleted Kafka 消费者已准备就绪", zap.String("topic", postDeletedTopic))
	} else {
		logger.Warn("PostDeleted topic 未配置，跳过消费者创建")
	}

	for _, c := range consumers {
		consumerWg.Add(1)
		go func(cons *consumer.Consumer) {
			defer consumerWg.Done()
			cons.Start(consumerCtx)
		}(c)
	}

	// --- 9. 初始化定时任务 ---
	hotRankTask := tasks.NewHotRankSyncTask(postBatchRepo, hotRankRepo, cfg.TasksConfig.HotRankTopN, logger)
	orphanTask := tasks.NewOrphanLikeGCTask(likeRepo, cfg.TasksConfig.OrphanLikeBatchSize, logger)
	logger.Info("后台定时任务已初始化并启动")

	// --- 10. 设置 Gin 路由器 ---
	ginRouter := router.SetupRouter(logger, &cfg, postController, commentController, statsController, interactionController, hotPostController)
	logger.Info("Gin 路由器已设置")

	// --- 11. 启动 HTTP 服务器 ---
	serverAddr := fmt.Sprintf(":%s", cfg.ServerConfig.Port)
	httpServer := &http.Server{
		Addr:    serverAddr,
		Handler: ginRouter,
	}

	go func() {
		logger.Info("HTTP 服务器开始监听", zap.String("address", serverAddr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP 服务器启动失败", zap.Error(err))
		}
		logger.Info("HTTP 服务器已停止监听")
	}()

	// --- 12. 优雅关停 ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	receivedSignal := <-quit
	logger.Info("收到关停信号，开始优雅退出...", zap.String("signal", receivedSignal.String()))

	shutdownCtx, shutdownCancelFunc := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancelFunc()

	// a. 停止 HTTP 服务器 (允许处理完当前请求)
	logger.Info("正在关闭 HTTP 服务器...")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("关闭 HTTP 服务器失败", zap.Error(err))
	} else {
		logger.Info("HTTP 服务器已成功关闭")
	}

	// b. 关闭 Kafka 消费者
	consumerCancel()
	logger.Info("等待 Kafka 消费者停止...")
	consumerWg.Wait()
	for _, c := range consumers {
		if err := c.Close(); err != nil {
			logger.Error("关闭 Kafka 消费者时出错", zap.Error(err))
		}
	}
	logger.Info("所有 Kafka 消费者已停止")

	// c. 停止定时任务调度器 (等待在跑任务结束)
	logger.Info("正在停止定时任务...")
	for name, stopCtx := range map[string]context.Context{
		"hotRankSync":  hotRankTask.Stop(),
		"orphanLikeGC": orphanTask.Stop(),
	} {
		select {
		case <-stopCtx.Done():
			logger.Info("定时任务已停止", zap.String("task", name))
		case <-shutdownCtx.Done():
			logger.Error("等待定时任务停止超时", zap.String("task", name), zap.Error(shutdownCtx.Err()))
		}
	}
	logger.Info("所有定时任务已停止")

	// d. 释放 Redis 连接
	if err := rdb.Close(); err != nil {
		logger.Error("关闭 Redis 连接失败", zap.Error(err))
	}

	logger.Info("服务已成功关闭")
}
