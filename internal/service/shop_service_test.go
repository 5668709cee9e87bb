package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/jfuerlinger/DrugManagement/internal/dto"
)

func TestShopService_CRUD(t *testing.T) {
	repos := newTestRepos()
	svc := NewShopService(repos.repository(), zap.NewNop())
	ctx := context.Background()

	created, err := svc.Create(ctx, &dto.CreateShopRequest{Name: "Apotheke am Platz", City: ptr("Linz")})
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}

	updated, err := svc.Update(ctx, created.ID, &dto.UpdateShopRequest{City: ptr("Wels")})
	if err != nil {
		t.Fatalf("Update 应成功: %v", err)
	}
	if updated.City == nil || *updated.City != "Wels" {
		t.Errorf("City 未更新: %v", updated.City)
	}
	if updated.Name != "Apotheke am Platz" {
		t.Error("未提供的字段不应被修改")
	}

	list, err := svc.List(ctx)
	if err != nil || len(list) != 1 {
		t.Fatalf("List 期望 1 条，实际 %d (%v)", len(list), err)
	}

	if err := svc.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete 应成功: %v", err)
	}
	if _, err := svc.GetByID(ctx, created.ID); !errors.Is(err, ErrShopNotFound) {
		t.Errorf("期望 ErrShopNotFound，实际: %v", err)
	}
}

func TestPersonService_NormalizesPhone(t *testing.T) {
	repos := newTestRepos()
	svc := NewPersonService(repos.repository(), zap.NewNop())
	ctx := context.Background()

	created, err := svc.Create(ctx, &dto.CreatePersonRequest{
		Firstname: "Anna",
		Lastname:  "Huber",
		Phone:     ptr("+43 (664) 123-4567"),
	})
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}
	if created.Phone == nil || *created.Phone != "+436641234567" {
		t.Errorf("电话号码应去除格式字符，实际 %v", created.Phone)
	}

	if _, err := svc.GetByID(ctx, "missing"); !errors.Is(err, ErrPersonNotFound) {
		t.Errorf("期望 ErrPersonNotFound，实际: %v", err)
	}
}
