package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/jfuerlinger/DrugManagement/internal/model"
	pkgerrors "github.com/jfuerlinger/DrugManagement/pkg/errors"
)

// BookedKey 已预约时间段的标识
type BookedKey struct {
	SlotDate   string
	StartClock string
}

// SlotRepository 预约时间段数据访问接口
type SlotRepository interface {
	// BulkInsert 批量写入时间段，已存在的 (slot_date, start_clock) 跳过，返回实际写入条数
	BulkInsert(ctx context.Context, slots []model.Slot, batchSize int) (int64, error)
	// ListBookedKeys 查询 [fromDate, toDate] 内已有预约的时间段
	ListBookedKeys(ctx context.Context, fromDate, toDate string) ([]BookedKey, error)
	// Book 在同一事务内占用时间段并写入预约记录
	// 时间段已被占用时返回 ErrOptimisticLock 或 gorm.ErrDuplicatedKey
	Book(ctx context.Context, slot *model.Slot, booking *model.Booking) error
	GetBooking(ctx context.Context, id string) (*model.Booking, error)
	// Clear 清空全部预约与时间段
	Clear(ctx context.Context) (bookings int64, slots int64, err error)
}

type slotRepo struct {
	db *gorm.DB
}

// NewSlotRepo 创建 SlotRepository 实例
func NewSlotRepo(db *gorm.DB) SlotRepository {
	return &slotRepo{db: db}
}

var slotKeyColumns = []clause.Column{{Name: "slot_date"}, {Name: "start_clock"}}

func (r *slotRepo) BulkInsert(ctx context.Context, slots []model.Slot, batchSize int) (int64, error) {
	if len(slots) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: slotKeyColumns, DoNothing: true}).
		CreateInBatches(&slots, batchSize)
	return result.RowsAffected, result.Error
}

func (r *slotRepo) ListBookedKeys(ctx context.Context, fromDate, toDate string) ([]BookedKey, error) {
	var keys []BookedKey
	err := r.db.WithContext(ctx).
		Model(&model.Booking{}).
		Select("slot_date, start_clock").
		Where("slot_date BETWEEN ? AND ?", fromDate, toDate).
		Order("slot_date ASC, start_clock ASC").
		Scan(&keys).Error
	return keys, err
}

func (r *slotRepo) Book(ctx context.Context, slot *model.Slot, booking *model.Booking) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 时间段按需落库：批量生成只是预热，不是预约的前提
		candidate := *slot
		candidate.SlotID = ""
		candidate.IsAvailable = true
		if err := tx.Clauses(clause.OnConflict{Columns: slotKeyColumns, DoNothing: true}).
			Create(&candidate).Error; err != nil {
			return err
		}

		var current model.Slot
		if err := tx.Where("slot_date = ? AND start_clock = ?", slot.SlotDate, slot.StartClock).
			First(&current).Error; err != nil {
			return err
		}

		// 条件更新：并发请求中只有一个能把 is_available 从 true 改为 false
		result := tx.Model(&model.Slot{}).
			Where("slot_id = ? AND is_available = ?", current.SlotID, true).
			Updates(map[string]interface{}{
				"is_available": false,
				"version":      gorm.Expr("version + 1"),
				"updated_at":   gorm.Expr("NOW()"),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return pkgerrors.ErrOptimisticLock
		}

		booking.SlotID = current.SlotID
		if err := tx.Omit(clause.Associations).Create(booking).Error; err != nil {
			return err
		}

		current.IsAvailable = false
		current.Version++
		*slot = current
		return nil
	})
}

func (r *slotRepo) GetBooking(ctx context.Context, id string) (*model.Booking, error) {
	var booking model.Booking
	err := r.db.WithContext(ctx).
		Where("booking_id = ?", id).
		First(&booking).Error
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *slotRepo) Clear(ctx context.Context) (int64, int64, error) {
	var bookings, slots int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&model.Booking{})
		if res.Error != nil {
			return res.Error
		}
		bookings = res.RowsAffected

		res = tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&model.Slot{})
		if res.Error != nil {
			return res.Error
		}
		slots = res.RowsAffected
		return nil
	})
	return bookings, slots, err
}
