package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/jfuerlinger/DrugManagement/internal/dto"
	"github.com/jfuerlinger/DrugManagement/pkg/logger"
)

const syncTimeout = time.Minute

// HorizonSyncer 补齐未来若干天的时间段（service.SlotService 满足该接口）
type HorizonSyncer interface {
	SyncHorizon(ctx context.Context, days int) (*dto.SeedResponse, error)
}

// NewScheduler 创建定时任务调度器
// spec 为空时不注册任何任务
func NewScheduler(spec string, days int, syncer HorizonSyncer, log *zap.Logger) (*cron.Cron, error) {
	cronLogger := logger.NewCronLogger(log)
	c := cron.New(
		cron.WithLogger(cronLogger),
		cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
	)
	if spec == "" {
		return c, nil
	}

	if _, err := c.AddFunc(spec, syncJob(syncer, days, log)); err != nil {
		return nil, fmt.Errorf("注册时间段同步任务失败: %w", err)
	}
	return c, nil
}

func syncJob(syncer HorizonSyncer, days int, log *zap.Logger) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), syncTimeout)
		defer cancel()

		result, err := syncer.SyncHorizon(ctx, days)
		if err != nil {
			log.Error("同步时间段失败", zap.Error(err))
			return
		}
		if result.Inserted > 0 {
			log.Info("已补齐时间段",
				zap.String("from", result.From),
				zap.String("to", result.To),
				zap.Int64("inserted", result.Inserted),
			)
		}
	}
}
