package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"sync"

	"github.com/Xushengqwer/go-common/core"
	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"go.uber.org/zap"

	appConfig "github.com/Xushengqwer/community_service/config"
	"github.com/Xushengqwer/community_service/dependencies"
	"github.com/Xushengqwer/community_service/models/dto"
	"github.com/Xushengqwer/community_service/models/events"
	"github.com/Xushengqwer/community_service/pkg/cleanup"
	"github.com/Xushengqwer/community_service/repo/mysql"
	"github.com/Xushengqwer/community_service/service"
)

// noopProducer 让种子数据写入不依赖 Kafka。
type noopProducer struct{}

func (noopProducer) SendPostDeletedEvent(context.Context, string, string, int64) error { return nil }
func (noopProducer) SendCommentDeletedEvent(context.Context, events.CommentDeletedEvent) error {
	return nil
}

func main() {
	var configFile string
	var numPosts int
	flag.StringVar(&configFile, "config", "config/config.development.yaml", "Path to configuration file")
	flag.IntVar(&numPosts, "posts", 50, "Number of fake posts to create")
	flag.Parse()

	var cfg appConfig.CommunityConfig
	if err := core.LoadConfig(configFile, &cfg); err != nil {
		log.Fatalf("FATAL: 加载配置失败 (%s): %v", configFile, err)
	}

	logger, err := core.NewZapLogger(cfg.ZapConfig)
	if err != nil {
		log.Fatalf("FATAL: 初始化 ZapLogger 失败: %v", err)
	}
	defer func() { _ = logger.Logger().Sync() }()

	db, err := dependencies.InitMySQL(&cfg, logger)
	if err != nil {
		logger.Fatal("初始化 MySQL 数据库失败", zap.Error(err))
	}

	// 只接数据库写路径；COS / Redis / Kafka 对填充假数据没有意义。
	txManager := mysql.NewTxManager(db)
	postRepo := mysql.NewPostRepository(db, logger)
	commentRepo := mysql.NewCommentRepository(db, logger)
	counterRepo := mysql.NewCounterRepository(db, logger)
	likeRepo := mysql.NewLikeRepository(db, logger)
	engagementRepo := mysql.NewEngagementRepository(db, logger)
	topicRepo := mysql.NewTopicRepository(db, logger)
	cleaner := cleanup.NewRunner(logger)

	counterSvc := service.NewCounterService(counterRepo, topicRepo, logger)
	postSvc := service.NewPostService(postRepo, commentRepo, likeRepo, engagementRepo, counterSvc, cleaner, noopProducer{}, nil, logger)
	commentSvc := service.NewCommentService(txManager, commentRepo, postRepo, counterRepo, likeRepo, cleaner, noopProducer{}, logger)

	Seed(context.Background(), postSvc, commentSvc, logger, numPosts)
}

// Seed 通过服务层写入假数据，保证计数和实体走同一套业务规则。
func Seed(ctx context.Context, postSvc service.PostService, commentSvc service.CommentService, logger *core.ZapLogger, numPosts int) {
	logger.Info("开始填充测试数据 (通过服务层)...", zap.Int("数量", numPosts))

	var wg sync.WaitGroup
	concurrencyLimit := 10
	semaphore := make(chan struct{}, concurrencyLimit)

	topicPool := []string{"数码", "二手交易", "求助", "失物招领", "拼车", "吐槽"}

	for i := 0; i < numPosts; i++ {
		wg.Add(1)
		semaphore <- struct{}{}

		go func(itemIndex int) {
			defer wg.Done()
			defer func() { <-semaphore }()

			ownerID := uuid.New().String()
			tagCount := gofakeit.Number(0, 3)
			tags := make([]string, 0, tagCount)
			for t := 0; t < tagCount; t++ {
				tags = append(tags, topicPool[gofakeit.Number(0, len(topicPool)-1)])
			}

			createReq := &dto.CreatePostRequest{
				Title:   gofakeit.Sentence(gofakeit.Number(5, 15)),
				Content: gofakeit.Paragraph(3, 5, 20, "\n\n"),
				Tags:    tags,
				Private: gofakeit.Number(0, 9) == 0,
			}

			post, err := postSvc.CreatePost(ctx, ownerID, createReq)
			if err != nil {
				logger.Error(fmt.Sprintf("创建帖子 %d/%d 失败", itemIndex+1, numPosts),
					zap.Error(err),
					zap.String("title", createReq.Title))
				return
			}
			logger.Info(fmt.Sprintf("成功创建帖子 %d/%d", itemIndex+1, numPosts),
				zap.String("post_id", post.ID),
				zap.String("title", post.Title))

			// 给一部分帖子挂几条一级评论
			for c := 0; c < gofakeit.Number(0, 4); c++ {
				commentReq := &dto.CreateCommentRequest{
					PostID:  post.ID,
					Content: gofakeit.Sentence(gofakeit.Number(3, 20)),
				}
				if _, err := commentSvc.CreateComment(ctx, uuid.New().String(), commentReq); err != nil {
					logger.Error("创建评论失败", zap.Error(err), zap.String("post_id", post.ID))
				}
			}
		}(i)
	}

	wg.Wait()
	logger.Info("测试数据填充完毕 (通过服务层)。")
}
