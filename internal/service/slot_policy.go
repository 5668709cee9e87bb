package service

import (
	"fmt"
	"iter"
	"slices"
	"time"

	"github.com/jfuerlinger/DrugManagement/config"
)

// 时间段标识格式（策略时区下的本地日期与时刻）
const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04"
)

// HourRange 半开小时区间 [Start, End)
type HourRange struct {
	Start int
	End   int
}

// Contains 判断小时是否落在区间内
func (r HourRange) Contains(hour int) bool {
	return hour >= r.Start && hour < r.End
}

// SlotPolicy 时间段生成策略
//
// 查询与批量生成共用同一结构；批量生成通过 WithSeedOverrides 派生，
// 不在调用处散落字面量。
type SlotPolicy struct {
	Location         *time.Location
	WorkStartHour    int
	WorkEndHour      int // 不含
	StepMinutes      int
	DurationMinutes  int
	ExcludedWeekdays []time.Weekday
	ExcludedHours    []HourRange
}

// DefaultSlotPolicy 默认策略：工作日 08:00-17:00，30 分钟一档，午休 12:00-13:00 不开放
func DefaultSlotPolicy() SlotPolicy {
	return SlotPolicy{
		Location:         time.UTC,
		WorkStartHour:    8,
		WorkEndHour:      17,
		StepMinutes:      30,
		DurationMinutes:  30,
		ExcludedWeekdays: []time.Weekday{time.Saturday, time.Sunday},
		ExcludedHours:    []HourRange{{Start: 12, End: 13}},
	}
}

// NewSlotPolicy 由配置构造策略
func NewSlotPolicy(cfg *config.SlotConfig) (SlotPolicy, error) {
	if err := cfg.Validate(); err != nil {
		return SlotPolicy{}, err
	}
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return SlotPolicy{}, fmt.Errorf("加载时区失败: %w", err)
	}

	p := SlotPolicy{
		Location:        loc,
		WorkStartHour:   cfg.WorkStartHour,
		WorkEndHour:     cfg.WorkEndHour,
		StepMinutes:     cfg.StepMinutes,
		DurationMinutes: cfg.DurationMinutes,
	}
	for _, name := range cfg.ExcludedWeekdays {
		wd, err := config.ParseWeekday(name)
		if err != nil {
			return SlotPolicy{}, err
		}
		p.ExcludedWeekdays = append(p.ExcludedWeekdays, wd)
	}
	for _, raw := range cfg.ExcludedHours {
		start, end, err := config.ParseHourRange(raw)
		if err != nil {
			return SlotPolicy{}, err
		}
		p.ExcludedHours = append(p.ExcludedHours, HourRange{Start: start, End: end})
	}
	return p, nil
}

// WithSeedOverrides 派生批量生成策略
// 非正数参数表示沿用原值
func (p SlotPolicy) WithSeedOverrides(workEndHour, durationMinutes int) SlotPolicy {
	seed := p
	seed.ExcludedWeekdays = slices.Clone(p.ExcludedWeekdays)
	seed.ExcludedHours = slices.Clone(p.ExcludedHours)
	if workEndHour > 0 {
		seed.WorkEndHour = workEndHour
	}
	if durationMinutes > 0 {
		seed.DurationMinutes = durationMinutes
	}
	return seed
}

func (p SlotPolicy) location() *time.Location {
	if p.Location == nil {
		return time.UTC
	}
	return p.Location
}

func (p SlotPolicy) isExcludedDay(wd time.Weekday) bool {
	return slices.Contains(p.ExcludedWeekdays, wd)
}

func (p SlotPolicy) isExcludedHour(hour int) bool {
	for _, r := range p.ExcludedHours {
		if r.Contains(hour) {
			return true
		}
	}
	return false
}

// ── 时间段 ──

// SlotKey 时间段标识
type SlotKey struct {
	Date      string // 2006-01-02
	StartTime string // 15:04
}

// String 形如 2025-09-01-09:00
func (k SlotKey) String() string {
	return k.Date + "-" + k.StartTime
}

// GeneratedSlot 生成的时间段；Start/End 为 UTC
type GeneratedSlot struct {
	Key         SlotKey
	Start       time.Time
	End         time.Time
	IsAvailable bool
}

// DaySlots 某日的时间段，按开始时间升序
type DaySlots struct {
	Date  string
	Slots []GeneratedSlot
}

// GenerateSlots 生成 [from, to] 内每个开放日的时间段
//
// 只取 from/to 的年月日，在策略时区下解释。返回的序列惰性求值、可重复遍历，
// 没有开放时间段的日期不出现；to 早于 from 时序列为空。
func GenerateSlots(from, to time.Time, p SlotPolicy) iter.Seq[DaySlots] {
	loc := p.location()
	first := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, loc)
	last := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, loc)

	return func(yield func(DaySlots) bool) {
		if p.StepMinutes <= 0 {
			return
		}
		for day := first; !day.After(last); day = day.AddDate(0, 0, 1) {
			if p.isExcludedDay(day.Weekday()) {
				continue
			}
			slots := p.daySlots(day)
			if len(slots) == 0 {
				continue
			}
			if !yield(DaySlots{Date: day.Format(DateLayout), Slots: slots}) {
				return
			}
		}
	}
}

// daySlots 枚举某日的全部时间段（day 为策略时区零点）
func (p SlotPolicy) daySlots(day time.Time) []GeneratedSlot {
	duration := time.Duration(p.DurationMinutes) * time.Minute
	date := day.Format(DateLayout)

	var slots []GeneratedSlot
	for m := p.WorkStartHour * 60; m < p.WorkEndHour*60; m += p.StepMinutes {
		if p.isExcludedHour(m / 60) {
			continue
		}
		start := time.Date(day.Year(), day.Month(), day.Day(), m/60, m%60, 0, 0, day.Location())
		slots = append(slots, GeneratedSlot{
			Key:         SlotKey{Date: date, StartTime: fmt.Sprintf("%02d:%02d", m/60, m%60)},
			Start:       start.UTC(),
			End:         start.Add(duration).UTC(),
			IsAvailable: true,
		})
	}
	return slots
}

// Contains 判断标识是否对应策略生成的某个时间段
func (p SlotPolicy) Contains(key SlotKey) (GeneratedSlot, bool) {
	day, err := time.ParseInLocation(DateLayout, key.Date, p.location())
	if err != nil {
		return GeneratedSlot{}, false
	}
	if _, err := time.Parse(ClockLayout, key.StartTime); err != nil {
		return GeneratedSlot{}, false
	}
	if p.isExcludedDay(day.Weekday()) {
		return GeneratedSlot{}, false
	}
	for _, s := range p.daySlots(day) {
		if s.Key == key {
			return s, true
		}
	}
	return GeneratedSlot{}, false
}

// CollectDaySlots 展开序列
func CollectDaySlots(seq iter.Seq[DaySlots]) []DaySlots {
	return slices.Collect(seq)
}

// CountSlots 统计序列中的时间段总数
func CountSlots(seq iter.Seq[DaySlots]) int {
	n := 0
	for d := range seq {
		n += len(d.Slots)
	}
	return n
}
