package worker

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/jfuerlinger/DrugManagement/config"
	"github.com/jfuerlinger/DrugManagement/internal/service"
	"github.com/jfuerlinger/DrugManagement/pkg/logger"
	"github.com/jfuerlinger/DrugManagement/pkg/queue"
)

// Worker 后台进程：asynq 任务消费 + cron 定时同步
type Worker struct {
	server    *asynq.Server
	mux       *asynq.ServeMux
	scheduler *cron.Cron
	logger    *zap.Logger
}

// New 根据配置组装 Worker
// queue.enabled=false 时只运行定时任务
func New(cfg *config.Config, svc *service.Service, log *zap.Logger) (*Worker, error) {
	scheduler, err := NewScheduler(cfg.Worker.SyncCron, cfg.Seed.HorizonDays, svc.Slot, log.Named("cron"))
	if err != nil {
		return nil, err
	}

	w := &Worker{scheduler: scheduler, logger: log}
	if !cfg.Queue.Enabled {
		return w, nil
	}

	w.server = asynq.NewServer(queue.RedisOpt(&cfg.Redis, &cfg.Queue), asynq.Config{
		Concurrency: cfg.Queue.Concurrency,
		Queues:      map[string]int{"default": 1},
		Logger:      logger.NewAsynqLogger(log),
		ErrorHandler: asynq.ErrorHandlerFunc(func(_ context.Context, t *asynq.Task, err error) {
			log.Warn("任务执行失败", zap.String("type", t.Type()), zap.Error(err))
		}),
	})
	w.mux = NewServeMux(
		NewBookingHandler(NewCRMClient(cfg.Worker.CRMWebhookURL, cfg.Worker.CRMTimeout), log.Named("booking")),
		NewReportHandler(svc.Report, log.Named("report")),
	)
	return w, nil
}

// Run 启动并阻塞到 ctx 取消，随后优雅退出
func (w *Worker) Run(ctx context.Context) error {
	if w.server != nil {
		if err := w.server.Start(w.mux); err != nil {
			return fmt.Errorf("启动任务消费失败: %w", err)
		}
		w.logger.Info("任务消费已启动")
	}
	w.scheduler.Start()
	w.logger.Info("定时任务已启动")

	<-ctx.Done()

	w.logger.Info("正在关闭 Worker...")
	<-w.scheduler.Stop().Done()
	if w.server != nil {
		w.server.Shutdown()
	}
	w.logger.Info("Worker 已退出")
	return nil
}
