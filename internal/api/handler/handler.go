package handler

import "github.com/jfuerlinger/DrugManagement/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Slot         *SlotHandler
	Drug         *DrugHandler
	DrugMetadata *DrugMetadataHandler
	PackageSize  *PackageSizeHandler
	Person       *PersonHandler
	Shop         *ShopHandler
	Report       *ReportHandler
	Management   *ManagementHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service, migrate Migrator) *Handler {
	return &Handler{
		Slot:         NewSlotHandler(svc.Slot),
		Drug:         NewDrugHandler(svc.Drug),
		DrugMetadata: NewDrugMetadataHandler(svc.DrugMetadata),
		PackageSize:  NewPackageSizeHandler(svc.PackageSize),
		Person:       NewPersonHandler(svc.Person),
		Shop:         NewShopHandler(svc.Shop),
		Report:       NewReportHandler(svc.Report),
		Management:   NewManagementHandler(svc.Slot, migrate),
	}
}
