package service

import (
	"go.uber.org/zap"

	"github.com/jfuerlinger/DrugManagement/config"
	"github.com/jfuerlinger/DrugManagement/internal/repository"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Slot         SlotService
	Drug         DrugService
	DrugMetadata DrugMetadataService
	PackageSize  PackageSizeService
	Person       PersonService
	Shop         ShopService
	Report       ReportService
}

// Dependencies 外部协作方（未启用队列时均为 nil）
type Dependencies struct {
	Notifier    BookingNotifier
	ReportQueue ReportEnqueuer
}

// NewService 创建 Service 聚合
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	deps Dependencies,
	logger *zap.Logger,
) (*Service, error) {
	policy, err := NewSlotPolicy(&cfg.Slot)
	if err != nil {
		return nil, err
	}

	return &Service{
		Slot: NewSlotService(repo, SlotServiceOptions{
			Policy:       policy,
			SeedPolicy:   policy.WithSeedOverrides(cfg.Seed.WorkEndHour, cfg.Seed.DurationMinutes),
			MaxQueryDays: cfg.Slot.MaxQueryDays,
			Notifier:     deps.Notifier,
		}, logger.Named("slot")),
		Drug:         NewDrugService(repo, logger),
		DrugMetadata: NewDrugMetadataService(repo, logger),
		PackageSize:  NewPackageSizeService(repo, logger),
		Person:       NewPersonService(repo, logger),
		Shop:         NewShopService(repo, logger),
		Report:       NewReportService(repo, deps.ReportQueue, logger.Named("report")),
	}, nil
}
