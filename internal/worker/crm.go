package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/jfuerlinger/DrugManagement/pkg/queue"
)

// CRMClient 将预约转发给外部 CRM 的 Webhook
type CRMClient struct {
	client *resty.Client
	url    string
}

// NewCRMClient 创建 CRM 客户端；url 为空时返回 nil
func NewCRMClient(url string, timeout time.Duration) *CRMClient {
	if url == "" {
		return nil
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &CRMClient{
		client: resty.New().
			SetTimeout(timeout).
			SetHeader("Content-Type", "application/json").
			SetHeader("User-Agent", "drugmanagement-worker"),
		url: url,
	}
}

// ForwardBooking 转发预约；非 2xx 视为失败，由 asynq 重试
func (c *CRMClient) ForwardBooking(ctx context.Context, p queue.BookingPayload) error {
	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("Idempotency-Key", p.BookingID).
		SetBody(p).
		Post(c.url)
	if err != nil {
		return fmt.Errorf("请求 CRM 失败: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("CRM 返回异常状态 %d", resp.StatusCode())
	}
	return nil
}
