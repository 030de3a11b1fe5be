package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"telar/backend/internal/dto"
	"telar/backend/internal/model"
	"telar/backend/internal/repository"
)

// ── 测试辅助 ──

// setupRecordService 预置：模块1、款式1（标准工时600）、款式分配1、上岗分配1、时间段1
func setupRecordService() (ProductionRecordService, *repository.Repository) {
	repo := newMockRepository()
	ctx := context.Background()

	repo.Module.Create(ctx, &model.Module{Name: "缝制一组", IsActive: true})
	repo.Person.Create(ctx, &model.Person{Name: "张三", Document: "1001", IsActive: true})
	repo.Reference.Create(ctx, &model.Reference{Code: "REF-001", EstimatedMinutes: 600, IsActive: true})
	repo.TimeSlot.Create(ctx, &model.TimeSlot{Name: "早班", StartTime: "07:00", EndTime: "12:00", IsActive: true})
	repo.ModuleAssignment.Create(ctx, &model.ModuleAssignment{
		PersonID:  1,
		ModuleID:  1,
		StartDate: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		IsActive:  true,
	})

	ra := &model.ReferenceAssignment{
		ModuleID:     1,
		ReferenceID:  1,
		AssignedDate: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		Status:       model.AssignmentStatusActive,
	}
	ra.Recompute(600)
	repo.ReferenceAssignment.Create(ctx, ra)

	svc := NewProductionRecordService(repo, zap.NewNop())
	return svc, repo
}

func ledgerState(t *testing.T, repo *repository.Repository, id uint) *model.ReferenceAssignment {
	t.Helper()
	a, err := repo.ReferenceAssignment.GetByID(context.Background(), id)
	if err != nil {
		t.Fatalf("读取台账失败: %v", err)
	}
	return a
}

// ── Create 测试 ──

func TestProductionRecordService_Create_UpdatesLedger(t *testing.T) {
	svc, repo := setupRecordService()

	rec, err := svc.Create(context.Background(), &dto.CreateProductionRecordRequest{
		ModuleAssignmentID:    1,
		ReferenceAssignmentID: 1,
		TimeSlotID:            1,
		WorkDate:              "2026-08-02",
		MinutesProduced:       20,
	})
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}
	if rec.MinutesProduced != 20 {
		t.Errorf("期望记录20分钟，实际=%d", rec.MinutesProduced)
	}

	ledger := ledgerState(t, repo, 1)
	if ledger.MinutesProduced != 20 || ledger.MinutesRemaining != 580 {
		t.Errorf("台账应同步为20/580，实际=%d/%d", ledger.MinutesProduced, ledger.MinutesRemaining)
	}
	if ledger.PercentComplete != 3.33 {
		t.Errorf("期望完成率3.33，实际=%v", ledger.PercentComplete)
	}
	if ledger.StartedAt == nil {
		t.Error("首条记录应写入台账 StartedAt")
	}
}

func TestProductionRecordService_Create_ZeroMinutesDoesNotStart(t *testing.T) {
	svc, repo := setupRecordService()

	_, err := svc.Create(context.Background(), &dto.CreateProductionRecordRequest{
		ModuleAssignmentID:    1,
		ReferenceAssignmentID: 1,
		TimeSlotID:            1,
		WorkDate:              "2026-08-02",
		MinutesProduced:       0,
	})
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}

	ledger := ledgerState(t, repo, 1)
	if ledger.StartedAt != nil {
		t.Error("0 分钟记录不应写入台账 StartedAt")
	}
	if ledger.MinutesProduced != 0 {
		t.Errorf("累计产出应为0，实际=%d", ledger.MinutesProduced)
	}
}

func TestProductionRecordService_Create_InvalidForeignKeys(t *testing.T) {
	svc, _ := setupRecordService()
	ctx := context.Background()

	base := dto.CreateProductionRecordRequest{
		ModuleAssignmentID:    1,
		ReferenceAssignmentID: 1,
		TimeSlotID:            1,
		WorkDate:              "2026-08-02",
		MinutesProduced:       20,
	}

	bad := base
	bad.ReferenceAssignmentID = 99
	if _, err := svc.Create(ctx, &bad); !errors.Is(err, ErrRecordReferenceAssignmentInvalid) {
		t.Errorf("期望 ErrRecordReferenceAssignmentInvalid，实际: %v", err)
	}

	bad = base
	bad.ModuleAssignmentID = 99
	if _, err := svc.Create(ctx, &bad); !errors.Is(err, ErrRecordModuleAssignmentInvalid) {
		t.Errorf("期望 ErrRecordModuleAssignmentInvalid，实际: %v", err)
	}

	bad = base
	bad.TimeSlotID = 99
	if _, err := svc.Create(ctx, &bad); !errors.Is(err, ErrRecordTimeSlotInvalid) {
		t.Errorf("期望 ErrRecordTimeSlotInvalid，实际: %v", err)
	}
}

func TestProductionRecordService_Create_CompletedParentRejected(t *testing.T) {
	svc, repo := setupRecordService()

	parent := ledgerState(t, repo, 1)
	parent.ForceComplete(time.Now())
	repo.ReferenceAssignment.Update(context.Background(), parent)

	_, err := svc.Create(context.Background(), &dto.CreateProductionRecordRequest{
		ModuleAssignmentID:    1,
		ReferenceAssignmentID: 1,
		TimeSlotID:            1,
		WorkDate:              "2026-08-02",
		MinutesProduced:       20,
	})
	if !errors.Is(err, ErrAssignmentCompleted) {
		t.Errorf("期望 ErrAssignmentCompleted，实际: %v", err)
	}
}

func TestProductionRecordService_Create_NoAutoComplete(t *testing.T) {
	svc, repo := setupRecordService()

	// 生产记录写入只重算派生字段，即使达到100%也不自动完工
	_, err := svc.Create(context.Background(), &dto.CreateProductionRecordRequest{
		ModuleAssignmentID:    1,
		ReferenceAssignmentID: 1,
		TimeSlotID:            1,
		WorkDate:              "2026-08-02",
		MinutesProduced:       600,
	})
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}

	ledger := ledgerState(t, repo, 1)
	if ledger.PercentComplete != 100 {
		t.Errorf("期望完成率100，实际=%v", ledger.PercentComplete)
	}
	if ledger.Status != model.AssignmentStatusActive {
		t.Errorf("记录写入不应自动完工，实际=%s", ledger.Status)
	}
}

// ── Update 测试 ──

func TestProductionRecordService_Update_AdjustsLedgerByDelta(t *testing.T) {
	svc, repo := setupRecordService()
	ctx := context.Background()

	rec, _ := svc.Create(ctx, &dto.CreateProductionRecordRequest{
		ModuleAssignmentID:    1,
		ReferenceAssignmentID: 1,
		TimeSlotID:            1,
		WorkDate:              "2026-08-02",
		MinutesProduced:       20,
	})

	minutes := 5
	updated, err := svc.Update(ctx, rec.ID, &dto.UpdateProductionRecordRequest{MinutesProduced: &minutes})
	if err != nil {
		t.Fatalf("Update 应成功: %v", err)
	}
	if updated.MinutesProduced != 5 {
		t.Errorf("期望记录5分钟，实际=%d", updated.MinutesProduced)
	}

	ledger := ledgerState(t, repo, 1)
	if ledger.MinutesProduced != 5 || ledger.MinutesRemaining != 595 {
		t.Errorf("台账应按差额修正为5/595，实际=%d/%d", ledger.MinutesProduced, ledger.MinutesRemaining)
	}
}

func TestProductionRecordService_Update_NoopReturnsUnchanged(t *testing.T) {
	svc, repo := setupRecordService()
	ctx := context.Background()

	rec, _ := svc.Create(ctx, &dto.CreateProductionRecordRequest{
		ModuleAssignmentID:    1,
		ReferenceAssignmentID: 1,
		TimeSlotID:            1,
		WorkDate:              "2026-08-02",
		MinutesProduced:       20,
	})

	result, err := svc.Update(ctx, rec.ID, &dto.UpdateProductionRecordRequest{})
	if err != nil {
		t.Fatalf("空操作更新应成功: %v", err)
	}
	if result.MinutesProduced != 20 || result.WorkDate != "2026-08-02" {
		t.Errorf("空操作应返回未变更记录，实际=%d/%s", result.MinutesProduced, result.WorkDate)
	}

	ledger := ledgerState(t, repo, 1)
	if ledger.MinutesProduced != 20 {
		t.Errorf("空操作不应改变台账，实际=%d", ledger.MinutesProduced)
	}
}

func TestProductionRecordService_Update_Reparent(t *testing.T) {
	svc, repo := setupRecordService()
	ctx := context.Background()

	// 第二条款式分配（款式2，标准工时300）
	repo.Reference.Create(ctx, &model.Reference{Code: "REF-002", EstimatedMinutes: 300, IsActive: true})
	second := &model.ReferenceAssignment{
		ModuleID:     1,
		ReferenceID:  2,
		AssignedDate: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		Status:       model.AssignmentStatusActive,
	}
	second.Recompute(300)
	repo.ReferenceAssignment.Create(ctx, second)

	rec, _ := svc.Create(ctx, &dto.CreateProductionRecordRequest{
		ModuleAssignmentID:    1,
		ReferenceAssignmentID: 1,
		TimeSlotID:            1,
		WorkDate:              "2026-08-02",
		MinutesProduced:       60,
	})

	// 记录迁移到第二条分配并改为90分钟
	newParent := uint(2)
	minutes := 90
	_, err := svc.Update(ctx, rec.ID, &dto.UpdateProductionRecordRequest{
		ReferenceAssignmentID: &newParent,
		MinutesProduced:       &minutes,
	})
	if err != nil {
		t.Fatalf("Update 应成功: %v", err)
	}

	oldLedger := ledgerState(t, repo, 1)
	if oldLedger.MinutesProduced != 0 || oldLedger.MinutesRemaining != 600 {
		t.Errorf("旧台账应扣回为0/600，实际=%d/%d", oldLedger.MinutesProduced, oldLedger.MinutesRemaining)
	}

	newLedger := ledgerState(t, repo, 2)
	if newLedger.MinutesProduced != 90 || newLedger.MinutesRemaining != 210 {
		t.Errorf("新台账应累加为90/210，实际=%d/%d", newLedger.MinutesProduced, newLedger.MinutesRemaining)
	}
	if newLedger.PercentComplete != 30 {
		t.Errorf("新台账完成率期望30，实际=%v", newLedger.PercentComplete)
	}
}

func TestProductionRecordService_Update_ReparentToTerminalRejected(t *testing.T) {
	svc, repo := setupRecordService()
	ctx := context.Background()

	repo.Reference.Create(ctx, &model.Reference{Code: "REF-002", EstimatedMinutes: 300, IsActive: true})
	second := &model.ReferenceAssignment{
		ModuleID:     1,
		ReferenceID:  2,
		AssignedDate: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		Status:       model.AssignmentStatusCancelled,
	}
	second.Recompute(300)
	repo.ReferenceAssignment.Create(ctx, second)

	rec, _ := svc.Create(ctx, &dto.CreateProductionRecordRequest{
		ModuleAssignmentID:    1,
		ReferenceAssignmentID: 1,
		TimeSlotID:            1,
		WorkDate:              "2026-08-02",
		MinutesProduced:       60,
	})

	newParent := uint(2)
	_, err := svc.Update(ctx, rec.ID, &dto.UpdateProductionRecordRequest{ReferenceAssignmentID: &newParent})
	if !errors.Is(err, ErrAssignmentTerminal) {
		t.Errorf("迁移到终态分配应被拒绝，实际: %v", err)
	}

	// 拒绝后两侧台账不变
	oldLedger := ledgerState(t, repo, 1)
	if oldLedger.MinutesProduced != 60 {
		t.Errorf("拒绝的迁移不应改变旧台账，实际=%d", oldLedger.MinutesProduced)
	}
}

// ── Delete 测试 ──

func TestProductionRecordService_Delete_RestoresLedger(t *testing.T) {
	svc, repo := setupRecordService()
	ctx := context.Background()

	rec, _ := svc.Create(ctx, &dto.CreateProductionRecordRequest{
		ModuleAssignmentID:    1,
		ReferenceAssignmentID: 1,
		TimeSlotID:            1,
		WorkDate:              "2026-08-02",
		MinutesProduced:       20,
	})

	if err := svc.Delete(ctx, rec.ID); err != nil {
		t.Fatalf("Delete 应成功: %v", err)
	}

	ledger := ledgerState(t, repo, 1)
	if ledger.MinutesProduced != 0 || ledger.MinutesRemaining != 600 || ledger.PercentComplete != 0 {
		t.Errorf("删除后台账应回到0/600/0，实际=%d/%d/%v",
			ledger.MinutesProduced, ledger.MinutesRemaining, ledger.PercentComplete)
	}
}

func TestProductionRecordService_Delete_NotFound(t *testing.T) {
	svc, _ := setupRecordService()

	err := svc.Delete(context.Background(), 42)
	if !errors.Is(err, ErrProductionRecordNotFound) {
		t.Errorf("期望 ErrProductionRecordNotFound，实际: %v", err)
	}
}

// ── 一致性校验 ──

func TestProductionRecordService_SumMatchesLedger(t *testing.T) {
	svc, repo := setupRecordService()
	ctx := context.Background()

	for _, minutes := range []int{30, 40, 30} {
		if _, err := svc.Create(ctx, &dto.CreateProductionRecordRequest{
			ModuleAssignmentID:    1,
			ReferenceAssignmentID: 1,
			TimeSlotID:            1,
			WorkDate:              "2026-08-02",
			MinutesProduced:       minutes,
		}); err != nil {
			t.Fatalf("Create 应成功: %v", err)
		}
	}

	sum, err := repo.ProductionRecord.SumMinutesByAssignment(ctx, 1)
	if err != nil {
		t.Fatalf("汇总失败: %v", err)
	}
	ledger := ledgerState(t, repo, 1)
	if sum != int64(ledger.MinutesProduced) {
		t.Errorf("明细合计(%d)应等于台账累计(%d)", sum, ledger.MinutesProduced)
	}
	if ledger.MinutesProduced != 100 {
		t.Errorf("期望累计100，实际=%d", ledger.MinutesProduced)
	}
}
