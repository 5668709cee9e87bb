package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/jfuerlinger/DrugManagement/internal/dto"
	"github.com/jfuerlinger/DrugManagement/internal/model"
)

// ── 测试辅助 ──

func setupTestDrugService() (DrugService, *testRepos) {
	repos := newTestRepos()
	repos.metadata.items["meta-1"] = &model.DrugMetadata{DrugMetadataID: "meta-1", Name: "Ibuprofen"}
	repos.metadata.items["meta-2"] = &model.DrugMetadata{DrugMetadataID: "meta-2", Name: "Paracetamol"}
	repos.packageSize.items["size-1"] = &model.DrugPackageSize{PackageSizeID: "size-1", DrugMetadataID: "meta-1", BundleSize: 20}
	repos.shop.shops["shop-1"] = &model.Shop{ShopID: "shop-1", Name: "Apotheke am Platz"}
	repos.person.persons["person-1"] = &model.Person{PersonID: "person-1", Firstname: "Anna", Lastname: "Huber"}
	return NewDrugService(repos.repository(), zap.NewNop()), repos
}

func ptr[T any](v T) *T { return &v }

func validCreateDrugRequest() *dto.CreateDrugRequest {
	return &dto.CreateDrugRequest{
		MetadataID:             "meta-1",
		PackageSizeID:          "size-1",
		ShopID:                 "shop-1",
		BoughtBy:               ptr("person-1"),
		PalatableUntil:         ptr(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)),
		AmountLeftInPercentage: ptr(80.0),
	}
}

// ── Create 测试 ──

func TestDrugService_Create_Success(t *testing.T) {
	svc, repos := setupTestDrugService()

	result, err := svc.Create(context.Background(), validCreateDrugRequest())
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}
	if result.ID == "" || result.Version != 1 {
		t.Errorf("期望生成 ID 且 version=1，实际 %+v", result)
	}
	if len(repos.drug.drugs) != 1 {
		t.Errorf("期望 1 条药品记录，实际 %d", len(repos.drug.drugs))
	}
}

func TestDrugService_Create_MissingReferences(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*dto.CreateDrugRequest)
		want   error
	}{
		{"主数据不存在", func(r *dto.CreateDrugRequest) { r.MetadataID = "missing" }, ErrDrugMetadataNotFound},
		{"包装规格不存在", func(r *dto.CreateDrugRequest) { r.PackageSizeID = "missing" }, ErrPackageSizeNotFound},
		{"包装规格不匹配", func(r *dto.CreateDrugRequest) { r.MetadataID = "meta-2" }, ErrPackageSizeMismatch},
		{"药店不存在", func(r *dto.CreateDrugRequest) { r.ShopID = "missing" }, ErrShopNotFound},
		{"购买人不存在", func(r *dto.CreateDrugRequest) { r.BoughtBy = ptr("missing") }, ErrPersonNotFound},
		{"用药人不存在", func(r *dto.CreateDrugRequest) { r.PersonConcerned = ptr("missing") }, ErrPersonNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repos := setupTestDrugService()
			req := validCreateDrugRequest()
			tt.mutate(req)

			_, err := svc.Create(context.Background(), req)
			if !errors.Is(err, tt.want) {
				t.Errorf("期望 %v，实际: %v", tt.want, err)
			}
			if len(repos.drug.drugs) != 0 {
				t.Error("校验失败时不应写入")
			}
		})
	}
}

// ── List 测试 ──

func TestDrugService_List_OrderedByPalatableUntil(t *testing.T) {
	svc, _ := setupTestDrugService()
	ctx := context.Background()

	dates := []*time.Time{
		ptr(time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)),
		nil,
		ptr(time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)),
	}
	for _, d := range dates {
		req := validCreateDrugRequest()
		req.PalatableUntil = d
		if _, err := svc.Create(ctx, req); err != nil {
			t.Fatalf("Create 应成功: %v", err)
		}
	}

	list, total, err := svc.List(ctx, &dto.DrugListRequest{})
	if err != nil {
		t.Fatalf("List 应成功: %v", err)
	}
	if total != 3 || len(list) != 3 {
		t.Fatalf("期望 3 条，实际 total=%d len=%d", total, len(list))
	}
	if list[0].PalatableUntil == nil || list[0].PalatableUntil.Year() != 2025 {
		t.Errorf("最早过期的应排第一: %+v", list[0].PalatableUntil)
	}
	if list[2].PalatableUntil != nil {
		t.Error("无有效期的应排最后")
	}

	page, _, err := svc.List(ctx, &dto.DrugListRequest{PaginationRequest: dto.PaginationRequest{Page: 2, PageSize: 2}})
	if err != nil {
		t.Fatalf("List 应成功: %v", err)
	}
	if len(page) != 1 {
		t.Errorf("第 2 页期望 1 条，实际 %d", len(page))
	}
}

// ── Update 测试 ──

func TestDrugService_Update_Success(t *testing.T) {
	svc, _ := setupTestDrugService()
	ctx := context.Background()
	created, err := svc.Create(ctx, validCreateDrugRequest())
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}

	updated, err := svc.Update(ctx, created.ID, &dto.UpdateDrugRequest{
		Version:                created.Version,
		AmountLeftInPercentage: ptr(25.0),
	})
	if err != nil {
		t.Fatalf("Update 应成功: %v", err)
	}
	if updated.Version != created.Version+1 {
		t.Errorf("version 应递增，实际 %d", updated.Version)
	}
	if updated.AmountLeftInPercentage == nil || *updated.AmountLeftInPercentage != 25 {
		t.Errorf("剩余百分比未更新: %v", updated.AmountLeftInPercentage)
	}
}

func TestDrugService_Update_StaleVersion(t *testing.T) {
	svc, _ := setupTestDrugService()
	ctx := context.Background()
	created, _ := svc.Create(ctx, validCreateDrugRequest())

	if _, err := svc.Update(ctx, created.ID, &dto.UpdateDrugRequest{Version: created.Version}); err != nil {
		t.Fatalf("第一次更新应成功: %v", err)
	}
	_, err := svc.Update(ctx, created.ID, &dto.UpdateDrugRequest{Version: created.Version})
	if !errors.Is(err, ErrDrugVersionConflict) {
		t.Errorf("期望 ErrDrugVersionConflict，实际: %v", err)
	}
}

func TestDrugService_Update_NotFound(t *testing.T) {
	svc, _ := setupTestDrugService()

	_, err := svc.Update(context.Background(), "missing", &dto.UpdateDrugRequest{Version: 1})
	if !errors.Is(err, ErrDrugNotFound) {
		t.Errorf("期望 ErrDrugNotFound，实际: %v", err)
	}
}

// ── Delete 测试 ──

func TestDrugService_Delete(t *testing.T) {
	svc, repos := setupTestDrugService()
	ctx := context.Background()
	created, _ := svc.Create(ctx, validCreateDrugRequest())

	if err := svc.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete 应成功: %v", err)
	}
	if len(repos.drug.drugs) != 0 {
		t.Error("药品应已删除")
	}
	if err := svc.Delete(ctx, created.ID); !errors.Is(err, ErrDrugNotFound) {
		t.Errorf("期望 ErrDrugNotFound，实际: %v", err)
	}
}
