package repository

import "gorm.io/gorm"

// Repository 所有 Repository 的聚合入口
type Repository struct {
	DrugMetadata DrugMetadataRepository
	PackageSize  PackageSizeRepository
	Drug         DrugRepository
	Person       PersonRepository
	Shop         ShopRepository
	Slot         SlotRepository
	Report       ReportRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		DrugMetadata: NewDrugMetadataRepo(db),
		PackageSize:  NewPackageSizeRepo(db),
		Drug:         NewDrugRepo(db),
		Person:       NewPersonRepo(db),
		Shop:         NewShopRepo(db),
		Slot:         NewSlotRepo(db),
		Report:       NewReportRepo(db),
	}
}
