package queue

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"github.com/jfuerlinger/DrugManagement/config"
)

// RedisOpt 由配置生成 asynq 连接参数（与限流共用地址，DB 独立）
func RedisOpt(redisCfg *config.RedisConfig, queueCfg *config.QueueConfig) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     redisCfg.Addr,
		Password: redisCfg.Password,
		DB:       queueCfg.DB,
	}
}

// Publisher 异步任务发布者
type Publisher struct {
	client   *asynq.Client
	maxRetry int
	logger   *zap.Logger
}

// NewPublisher 创建任务发布者
func NewPublisher(redisCfg *config.RedisConfig, queueCfg *config.QueueConfig, logger *zap.Logger) *Publisher {
	return &Publisher{
		client:   asynq.NewClient(RedisOpt(redisCfg, queueCfg)),
		maxRetry: queueCfg.MaxRetry,
		logger:   logger,
	}
}

// NotifyBooked 发布预约成功通知
func (p *Publisher) NotifyBooked(ctx context.Context, payload BookingPayload) error {
	task, err := NewBookingTask(payload, p.maxRetry)
	if err != nil {
		return err
	}
	info, err := p.client.EnqueueContext(ctx, task)
	if err != nil {
		return fmt.Errorf("预约通知入队失败: %w", err)
	}
	p.logger.Debug("预约通知已入队",
		zap.String("task_id", info.ID),
		zap.String("booking_id", payload.BookingID),
	)
	return nil
}

// EnqueueDrugReport 发布报表生成任务
func (p *Publisher) EnqueueDrugReport(ctx context.Context, reportID string) error {
	task, err := NewReportTask(reportID, p.maxRetry)
	if err != nil {
		return err
	}
	if _, err := p.client.EnqueueContext(ctx, task); err != nil {
		return fmt.Errorf("报表任务入队失败: %w", err)
	}
	return nil
}

// Close 关闭连接
func (p *Publisher) Close() error {
	return p.client.Close()
}
