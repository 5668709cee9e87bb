package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jinzhu/now"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/jfuerlinger/DrugManagement/internal/dto"
	"github.com/jfuerlinger/DrugManagement/internal/model"
	"github.com/jfuerlinger/DrugManagement/internal/repository"
	pkgerrors "github.com/jfuerlinger/DrugManagement/pkg/errors"
	"github.com/jfuerlinger/DrugManagement/pkg/queue"
)

// ── 预约模块业务错误 ──

var (
	ErrSlotNotFound      = errors.New("预约时间段不存在")
	ErrSlotAlreadyBooked = errors.New("该时间段已被预约")
	ErrRangeTooLarge     = errors.New("查询范围超出允许天数")
	ErrBookingNotFound   = errors.New("预约记录不存在")
	ErrInvalidRequester  = errors.New("预约人信息必须是合法 JSON")
	ErrSeedRangeTooLarge = errors.New("批量生成范围超出允许天数")
)

const (
	seedBatchSize   = 500
	maxSeedDays     = 3 * 366
	notifyTimeout   = 5 * time.Second
	defaultMaxQuery = 366
)

// BookingNotifier 预约成功通知通道（投递失败不影响预约结果）
type BookingNotifier interface {
	NotifyBooked(ctx context.Context, payload queue.BookingPayload) error
}

// SlotService 预约时间段业务接口
type SlotService interface {
	QueryAvailability(ctx context.Context, from, to time.Time) ([]dto.DaySlotsResponse, error)
	QueryDay(ctx context.Context, day time.Time) (*dto.DaySlotsResponse, error)
	BookSlot(ctx context.Context, key SlotKey, requester json.RawMessage) (*dto.BookingResponse, error)
	GetBooking(ctx context.Context, id string) (*dto.BookingResponse, error)
	BookingCalendar(ctx context.Context, id string) ([]byte, error)

	SeedSlots(ctx context.Context, from, to time.Time) (*dto.SeedResponse, error)
	SeedCurrentYear(ctx context.Context) (*dto.SeedResponse, error)
	SyncHorizon(ctx context.Context, days int) (*dto.SeedResponse, error)
	ClearSlots(ctx context.Context) (*dto.ClearResponse, error)
}

// SlotServiceOptions 预约服务参数
type SlotServiceOptions struct {
	Policy       SlotPolicy
	SeedPolicy   SlotPolicy
	MaxQueryDays int
	Notifier     BookingNotifier // 可为 nil
	Now          func() time.Time
}

type slotService struct {
	repo         *repository.Repository
	policy       SlotPolicy
	seedPolicy   SlotPolicy
	maxQueryDays int
	notifier     BookingNotifier
	now          func() time.Time
	logger       *zap.Logger
}

// NewSlotService 创建 SlotService 实例
func NewSlotService(repo *repository.Repository, opts SlotServiceOptions, logger *zap.Logger) SlotService {
	if opts.MaxQueryDays <= 0 {
		opts.MaxQueryDays = defaultMaxQuery
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.SeedPolicy.DurationMinutes != opts.SeedPolicy.StepMinutes {
		logger.Warn("批量生成的时间段时长与间隔不一致",
			zap.Int("seed_duration_minutes", opts.SeedPolicy.DurationMinutes),
			zap.Int("step_minutes", opts.SeedPolicy.StepMinutes),
		)
	}
	return &slotService{
		repo:         repo,
		policy:       opts.Policy,
		seedPolicy:   opts.SeedPolicy,
		maxQueryDays: opts.MaxQueryDays,
		notifier:     opts.Notifier,
		now:          opts.Now,
		logger:       logger,
	}
}

// ────────────────────── QueryAvailability ──────────────────────

func (s *slotService) QueryAvailability(ctx context.Context, from, to time.Time) ([]dto.DaySlotsResponse, error) {
	days := calendarDays(from, to)
	if days <= 0 {
		return []dto.DaySlotsResponse{}, nil
	}
	if days > s.maxQueryDays {
		return nil, ErrRangeTooLarge
	}

	booked, err := s.repo.Slot.ListBookedKeys(ctx,
		civilDate(from).Format(DateLayout),
		civilDate(to).Format(DateLayout),
	)
	if err != nil {
		s.logger.Error("查询已预约时间段失败", zap.Error(err))
		return nil, err
	}
	bookedSet := make(map[SlotKey]struct{}, len(booked))
	for _, k := range booked {
		bookedSet[SlotKey{Date: k.SlotDate, StartTime: k.StartClock}] = struct{}{}
	}

	result := make([]dto.DaySlotsResponse, 0, days)
	for day := range GenerateSlots(from, to, s.policy) {
		resp := dto.DaySlotsResponse{
			Date:  day.Date,
			Slots: make([]dto.SlotResponse, 0, len(day.Slots)),
		}
		for _, slot := range day.Slots {
			_, taken := bookedSet[slot.Key]
			resp.Slots = append(resp.Slots, dto.SlotResponse{
				Date:         slot.Key.Date,
				StartTime:    slot.Key.StartTime,
				StartTimeUTC: slot.Start,
				EndTimeUTC:   slot.End,
				IsAvailable:  !taken,
			})
		}
		result = append(result, resp)
	}
	return result, nil
}

// ────────────────────── QueryDay ──────────────────────

// QueryDay 单日查询；该日不开放时返回空列表
func (s *slotService) QueryDay(ctx context.Context, day time.Time) (*dto.DaySlotsResponse, error) {
	list, err := s.QueryAvailability(ctx, day, day)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return &dto.DaySlotsResponse{
			Date:  civilDate(day).Format(DateLayout),
			Slots: []dto.SlotResponse{},
		}, nil
	}
	return &list[0], nil
}

// ────────────────────── BookSlot ──────────────────────

func (s *slotService) BookSlot(ctx context.Context, key SlotKey, requester json.RawMessage) (*dto.BookingResponse, error) {
	generated, ok := s.policy.Contains(key)
	if !ok {
		return nil, ErrSlotNotFound
	}
	if len(requester) == 0 || !json.Valid(requester) {
		return nil, ErrInvalidRequester
	}

	slot := &model.Slot{
		SlotDate:     key.Date,
		StartClock:   key.StartTime,
		StartTimeUTC: generated.Start,
		EndTimeUTC:   generated.End,
		IsAvailable:  true,
	}
	booking := &model.Booking{
		BookingID:    uuid.NewString(),
		SlotDate:     key.Date,
		StartClock:   key.StartTime,
		StartTimeUTC: generated.Start,
		EndTimeUTC:   generated.End,
		Payload:      datatypes.JSON(requester),
	}

	if err := s.repo.Slot.Book(ctx, slot, booking); err != nil {
		if errors.Is(err, pkgerrors.ErrOptimisticLock) || errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrSlotAlreadyBooked
		}
		s.logger.Error("预约失败", zap.String("slot", key.String()), zap.Error(err))
		return nil, err
	}

	s.logger.Info("预约成功",
		zap.String("booking_id", booking.BookingID),
		zap.String("slot", key.String()),
	)
	s.notifyBooked(ctx, booking)

	return toBookingResponse(booking), nil
}

// notifyBooked 投递预约通知，失败仅记录日志
func (s *slotService) notifyBooked(ctx context.Context, b *model.Booking) {
	if s.notifier == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
	defer cancel()

	err := s.notifier.NotifyBooked(ctx, queue.BookingPayload{
		BookingID:    b.BookingID,
		SlotDate:     b.SlotDate,
		StartClock:   b.StartClock,
		StartTimeUTC: b.StartTimeUTC,
		EndTimeUTC:   b.EndTimeUTC,
		Requester:    json.RawMessage(b.Payload),
	})
	if err != nil {
		s.logger.Warn("预约通知投递失败", zap.String("booking_id", b.BookingID), zap.Error(err))
	}
}

// ────────────────────── GetBooking ──────────────────────

func (s *slotService) GetBooking(ctx context.Context, id string) (*dto.BookingResponse, error) {
	b, err := s.getBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	return toBookingResponse(b), nil
}

func (s *slotService) BookingCalendar(ctx context.Context, id string) ([]byte, error) {
	b, err := s.getBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	return BuildBookingCalendar(b, s.now()), nil
}

func (s *slotService) getBooking(ctx context.Context, id string) (*model.Booking, error) {
	b, err := s.repo.Slot.GetBooking(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		s.logger.Error("查询预约失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return b, nil
}

// ────────────────────── Seed / Clear ──────────────────────

// SeedSlots 按批量生成策略写入 [from, to] 的时间段，已存在的跳过
func (s *slotService) SeedSlots(ctx context.Context, from, to time.Time) (*dto.SeedResponse, error) {
	resp := &dto.SeedResponse{
		From: civilDate(from).Format(DateLayout),
		To:   civilDate(to).Format(DateLayout),
	}
	days := calendarDays(from, to)
	if days <= 0 {
		return resp, nil
	}
	if days > maxSeedDays {
		return nil, ErrSeedRangeTooLarge
	}

	batch := make([]model.Slot, 0, seedBatchSize)
	flush := func() error {
		n, err := s.repo.Slot.BulkInsert(ctx, batch, seedBatchSize)
		if err != nil {
			return err
		}
		resp.Inserted += n
		batch = batch[:0]
		return nil
	}

	for day := range GenerateSlots(from, to, s.seedPolicy) {
		for _, slot := range day.Slots {
			batch = append(batch, model.Slot{
				SlotDate:     slot.Key.Date,
				StartClock:   slot.Key.StartTime,
				StartTimeUTC: slot.Start,
				EndTimeUTC:   slot.End,
				IsAvailable:  true,
			})
			if len(batch) == seedBatchSize {
				if err := flush(); err != nil {
					s.logger.Error("批量写入时间段失败", zap.Error(err))
					return nil, err
				}
			}
		}
	}
	if len(batch) > 0 {
		if err := flush(); err != nil {
			s.logger.Error("批量写入时间段失败", zap.Error(err))
			return nil, err
		}
	}

	s.logger.Info("批量生成时间段完成",
		zap.String("from", resp.From),
		zap.String("to", resp.To),
		zap.Int64("inserted", resp.Inserted),
	)
	return resp, nil
}

// SeedCurrentYear 生成当年全部时间段
func (s *slotService) SeedCurrentYear(ctx context.Context) (*dto.SeedResponse, error) {
	n := now.With(s.now().In(s.seedPolicy.location()))
	return s.SeedSlots(ctx, n.BeginningOfYear(), n.EndOfYear())
}

// SyncHorizon 保证从今天起 days 天内的时间段已落库
func (s *slotService) SyncHorizon(ctx context.Context, days int) (*dto.SeedResponse, error) {
	if days <= 0 {
		days = 1
	}
	today := now.With(s.now().In(s.seedPolicy.location())).BeginningOfDay()
	return s.SeedSlots(ctx, today, today.AddDate(0, 0, days-1))
}

func (s *slotService) ClearSlots(ctx context.Context) (*dto.ClearResponse, error) {
	bookings, slots, err := s.repo.Slot.Clear(ctx)
	if err != nil {
		s.logger.Error("清空时间段失败", zap.Error(err))
		return nil, err
	}
	s.logger.Warn("已清空全部预约与时间段",
		zap.Int64("bookings", bookings),
		zap.Int64("slots", slots),
	)
	return &dto.ClearResponse{Bookings: bookings, Slots: slots}, nil
}

// ── 内部辅助方法 ──

// civilDate 取年月日，忽略时区与时刻
func civilDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// calendarDays [from, to] 包含的自然日数；to 早于 from 时为 0 或负数
func calendarDays(from, to time.Time) int {
	return int(civilDate(to).Sub(civilDate(from)).Hours()/24) + 1
}

func toBookingResponse(b *model.Booking) *dto.BookingResponse {
	return &dto.BookingResponse{
		ID:           b.BookingID,
		Date:         b.SlotDate,
		StartTime:    b.StartClock,
		StartTimeUTC: b.StartTimeUTC,
		EndTimeUTC:   b.EndTimeUTC,
		Requester:    json.RawMessage(b.Payload),
		CreatedAt:    b.CreatedAt,
	}
}
