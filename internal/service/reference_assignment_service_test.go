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

func setupAssignmentService(estimatedMinutes int) (ReferenceAssignmentService, *repository.Repository) {
	repo := newMockRepository()

	repo.Module.Create(context.Background(), &model.Module{Name: "缝制一组", IsActive: true})
	repo.Reference.Create(context.Background(), &model.Reference{
		Code:             "REF-001",
		EstimatedMinutes: estimatedMinutes,
		IsActive:         true,
	})

	svc := NewReferenceAssignmentService(repo, zap.NewNop())
	return svc, repo
}

func createAssignment(t *testing.T, svc ReferenceAssignmentService) *dto.ReferenceAssignmentResponse {
	t.Helper()
	result, err := svc.Create(context.Background(), &dto.CreateReferenceAssignmentRequest{
		ModuleID:     1,
		ReferenceID:  1,
		AssignedDate: "2026-08-01",
	})
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}
	return result
}

// ── Create 测试 ──

func TestReferenceAssignmentService_Create_Success(t *testing.T) {
	svc, _ := setupAssignmentService(600)

	result := createAssignment(t, svc)

	if result.Status != model.AssignmentStatusActive {
		t.Errorf("期望初始状态 active，实际=%s", result.Status)
	}
	if result.MinutesProduced != 0 || result.MinutesRemaining != 600 {
		t.Errorf("期望产出0/剩余600，实际=%d/%d", result.MinutesProduced, result.MinutesRemaining)
	}
	if result.PercentComplete != 0 {
		t.Errorf("期望完成率0，实际=%v", result.PercentComplete)
	}
}

func TestReferenceAssignmentService_Create_ModuleNotFound(t *testing.T) {
	svc, _ := setupAssignmentService(600)

	_, err := svc.Create(context.Background(), &dto.CreateReferenceAssignmentRequest{
		ModuleID:     99,
		ReferenceID:  1,
		AssignedDate: "2026-08-01",
	})
	if !errors.Is(err, ErrModuleNotFound) {
		t.Errorf("期望 ErrModuleNotFound，实际: %v", err)
	}
}

func TestReferenceAssignmentService_Create_ReferenceNotFound(t *testing.T) {
	svc, _ := setupAssignmentService(600)

	_, err := svc.Create(context.Background(), &dto.CreateReferenceAssignmentRequest{
		ModuleID:     1,
		ReferenceID:  99,
		AssignedDate: "2026-08-01",
	})
	if !errors.Is(err, ErrReferenceNotFound) {
		t.Errorf("期望 ErrReferenceNotFound，实际: %v", err)
	}
}

func TestReferenceAssignmentService_Create_PairTaken(t *testing.T) {
	svc, _ := setupAssignmentService(600)
	createAssignment(t, svc)

	_, err := svc.Create(context.Background(), &dto.CreateReferenceAssignmentRequest{
		ModuleID:     1,
		ReferenceID:  1,
		AssignedDate: "2026-08-02",
	})
	if !errors.Is(err, ErrAssignmentPairTaken) {
		t.Errorf("期望 ErrAssignmentPairTaken，实际: %v", err)
	}
}

func TestReferenceAssignmentService_Create_PairFreeAfterCompletion(t *testing.T) {
	svc, _ := setupAssignmentService(600)
	first := createAssignment(t, svc)

	if _, err := svc.Complete(context.Background(), first.ID); err != nil {
		t.Fatalf("Complete 应成功: %v", err)
	}

	// 旧分配完结后同一 (模块, 款式) 对可再次分配
	_, err := svc.Create(context.Background(), &dto.CreateReferenceAssignmentRequest{
		ModuleID:     1,
		ReferenceID:  1,
		AssignedDate: "2026-08-10",
	})
	if err != nil {
		t.Errorf("完结后重新分配应成功: %v", err)
	}
}

// ── AddProgress 测试 ──

func TestReferenceAssignmentService_AddProgress_Accumulates(t *testing.T) {
	svc, _ := setupAssignmentService(600)
	a := createAssignment(t, svc)

	result, err := svc.AddProgress(context.Background(), a.ID, &dto.AddProgressRequest{Minutes: 150})
	if err != nil {
		t.Fatalf("AddProgress 应成功: %v", err)
	}
	if result.MinutesProduced != 150 || result.MinutesRemaining != 450 {
		t.Errorf("期望产出150/剩余450，实际=%d/%d", result.MinutesProduced, result.MinutesRemaining)
	}
	if result.PercentComplete != 25 {
		t.Errorf("期望完成率25，实际=%v", result.PercentComplete)
	}
	if result.StartedAt == nil {
		t.Error("首次录入进度后 StartedAt 应被写入")
	}
	if result.Status != model.AssignmentStatusActive {
		t.Errorf("未到100%%不应改变状态，实际=%s", result.Status)
	}
}

func TestReferenceAssignmentService_AddProgress_Rounding(t *testing.T) {
	svc, _ := setupAssignmentService(700)
	a := createAssignment(t, svc)

	result, err := svc.AddProgress(context.Background(), a.ID, &dto.AddProgressRequest{Minutes: 233})
	if err != nil {
		t.Fatalf("AddProgress 应成功: %v", err)
	}
	// 233/700 = 33.2857... → 33.29
	if result.PercentComplete != 33.29 {
		t.Errorf("期望完成率33.29，实际=%v", result.PercentComplete)
	}
}

func TestReferenceAssignmentService_AddProgress_ExactlyFullCompletes(t *testing.T) {
	svc, _ := setupAssignmentService(100)
	a := createAssignment(t, svc)

	svc.AddProgress(context.Background(), a.ID, &dto.AddProgressRequest{Minutes: 30})
	svc.AddProgress(context.Background(), a.ID, &dto.AddProgressRequest{Minutes: 40})

	mid, err := svc.GetByID(context.Background(), a.ID)
	if err != nil {
		t.Fatalf("GetByID 应成功: %v", err)
	}
	if mid.PercentComplete != 70 || mid.Status != model.AssignmentStatusActive {
		t.Errorf("期望70%%且仍为active，实际=%v/%s", mid.PercentComplete, mid.Status)
	}

	// 最后30分钟在同一调用内达到100%并完工
	result, err := svc.AddProgress(context.Background(), a.ID, &dto.AddProgressRequest{Minutes: 30})
	if err != nil {
		t.Fatalf("AddProgress 应成功: %v", err)
	}
	if result.Status != model.AssignmentStatusCompleted {
		t.Errorf("达到100%%应转入completed，实际=%s", result.Status)
	}
	if result.PercentComplete != 100 || result.MinutesRemaining != 0 {
		t.Errorf("完工后应为100%%/剩余0，实际=%v/%d", result.PercentComplete, result.MinutesRemaining)
	}
	if result.CompletedAt == nil {
		t.Error("完工后 CompletedAt 应被写入")
	}
}

func TestReferenceAssignmentService_AddProgress_OverflowCapsAt100(t *testing.T) {
	svc, _ := setupAssignmentService(100)
	a := createAssignment(t, svc)

	result, err := svc.AddProgress(context.Background(), a.ID, &dto.AddProgressRequest{Minutes: 250})
	if err != nil {
		t.Fatalf("AddProgress 应成功: %v", err)
	}
	if result.PercentComplete != 100 {
		t.Errorf("完成率上限应为100，实际=%v", result.PercentComplete)
	}
	if result.MinutesProduced != 250 {
		t.Errorf("累计产出应如实记录250，实际=%d", result.MinutesProduced)
	}
	if result.MinutesRemaining != 0 {
		t.Errorf("剩余分钟下限应为0，实际=%d", result.MinutesRemaining)
	}
	if result.Status != model.AssignmentStatusCompleted {
		t.Errorf("超过100%%应转入completed，实际=%s", result.Status)
	}
}

func TestReferenceAssignmentService_AddProgress_ZeroDeltaNoop(t *testing.T) {
	svc, _ := setupAssignmentService(600)
	a := createAssignment(t, svc)
	svc.AddProgress(context.Background(), a.ID, &dto.AddProgressRequest{Minutes: 100})

	result, err := svc.AddProgress(context.Background(), a.ID, &dto.AddProgressRequest{Minutes: 0})
	if err != nil {
		t.Fatalf("0分钟增量应被接受: %v", err)
	}
	if result.MinutesProduced != 100 {
		t.Errorf("0增量不应改变累计值，实际=%d", result.MinutesProduced)
	}
}

func TestReferenceAssignmentService_AddProgress_ZeroDeltaMarksStarted(t *testing.T) {
	svc, _ := setupAssignmentService(600)
	a := createAssignment(t, svc)

	// 显式进度操作即视为开工，0 分钟增量也写入开工时间
	result, err := svc.AddProgress(context.Background(), a.ID, &dto.AddProgressRequest{Minutes: 0})
	if err != nil {
		t.Fatalf("0分钟增量应被接受: %v", err)
	}
	if result.StartedAt == nil {
		t.Error("0增量的显式进度操作也应写入 StartedAt")
	}
}

func TestReferenceAssignmentService_AddProgress_CompletedRejected(t *testing.T) {
	svc, repo := setupAssignmentService(100)
	a := createAssignment(t, svc)
	svc.AddProgress(context.Background(), a.ID, &dto.AddProgressRequest{Minutes: 100})

	_, err := svc.AddProgress(context.Background(), a.ID, &dto.AddProgressRequest{Minutes: 10})
	if !errors.Is(err, ErrAssignmentCompleted) {
		t.Errorf("期望 ErrAssignmentCompleted，实际: %v", err)
	}

	// 拒绝后台账不变
	stored, _ := repo.ReferenceAssignment.GetByID(context.Background(), a.ID)
	if stored.MinutesProduced != 100 {
		t.Errorf("拒绝的调用不应改变累计值，实际=%d", stored.MinutesProduced)
	}
}

func TestReferenceAssignmentService_AddProgress_CancelledRejected(t *testing.T) {
	svc, repo := setupAssignmentService(600)
	a := createAssignment(t, svc)

	stored, _ := repo.ReferenceAssignment.GetByID(context.Background(), a.ID)
	stored.Status = model.AssignmentStatusCancelled
	repo.ReferenceAssignment.Update(context.Background(), stored)

	_, err := svc.AddProgress(context.Background(), a.ID, &dto.AddProgressRequest{Minutes: 10})
	if !errors.Is(err, ErrAssignmentTerminal) {
		t.Errorf("期望 ErrAssignmentTerminal，实际: %v", err)
	}
}

func TestReferenceAssignmentService_AddProgress_NegativeRejected(t *testing.T) {
	svc, _ := setupAssignmentService(600)
	a := createAssignment(t, svc)

	_, err := svc.AddProgress(context.Background(), a.ID, &dto.AddProgressRequest{Minutes: -5})
	if !errors.Is(err, ErrNegativeMinutes) {
		t.Errorf("期望 ErrNegativeMinutes，实际: %v", err)
	}
}

func TestReferenceAssignmentService_AddProgress_ZeroEstimate(t *testing.T) {
	svc, _ := setupAssignmentService(0)
	a := createAssignment(t, svc)

	result, err := svc.AddProgress(context.Background(), a.ID, &dto.AddProgressRequest{Minutes: 120})
	if err != nil {
		t.Fatalf("AddProgress 应成功: %v", err)
	}
	// 无标准工时基准时不计进度，也不会自动完工
	if result.PercentComplete != 0 {
		t.Errorf("标准工时为0时完成率应为0，实际=%v", result.PercentComplete)
	}
	if result.Status != model.AssignmentStatusActive {
		t.Errorf("标准工时为0时不应自动完工，实际=%s", result.Status)
	}
	if result.MinutesProduced != 120 {
		t.Errorf("累计产出应正常记录，实际=%d", result.MinutesProduced)
	}
}

// ── Complete 测试 ──

func TestReferenceAssignmentService_Complete_Unconditional(t *testing.T) {
	svc, _ := setupAssignmentService(600)
	a := createAssignment(t, svc)
	svc.AddProgress(context.Background(), a.ID, &dto.AddProgressRequest{Minutes: 200})

	// 未达标也允许手工完工
	result, err := svc.Complete(context.Background(), a.ID)
	if err != nil {
		t.Fatalf("Complete 应成功: %v", err)
	}
	if result.Status != model.AssignmentStatusCompleted {
		t.Errorf("期望completed，实际=%s", result.Status)
	}
	if result.MinutesRemaining != 0 || result.PercentComplete != 100 {
		t.Errorf("完工后应为剩余0/100%%，实际=%d/%v", result.MinutesRemaining, result.PercentComplete)
	}
	if result.MinutesProduced != 200 {
		t.Errorf("手工完工不应篡改累计产出，实际=%d", result.MinutesProduced)
	}
	if result.CompletedAt == nil {
		t.Error("完工后 CompletedAt 应被写入")
	}
}

func TestReferenceAssignmentService_Complete_AlreadyCompleted(t *testing.T) {
	svc, _ := setupAssignmentService(600)
	a := createAssignment(t, svc)
	svc.Complete(context.Background(), a.ID)

	_, err := svc.Complete(context.Background(), a.ID)
	if !errors.Is(err, ErrAssignmentCompleted) {
		t.Errorf("期望 ErrAssignmentCompleted，实际: %v", err)
	}
}

func TestReferenceAssignmentService_Complete_CancelledRejected(t *testing.T) {
	svc, repo := setupAssignmentService(600)
	a := createAssignment(t, svc)

	stored, _ := repo.ReferenceAssignment.GetByID(context.Background(), a.ID)
	stored.Status = model.AssignmentStatusCancelled
	repo.ReferenceAssignment.Update(context.Background(), stored)

	_, err := svc.Complete(context.Background(), a.ID)
	if !errors.Is(err, ErrAssignmentTerminal) {
		t.Errorf("已取消的分配不可完工，实际: %v", err)
	}
}

// ── Update 测试 ──

func TestReferenceAssignmentService_Update_Partial(t *testing.T) {
	svc, _ := setupAssignmentService(600)
	a := createAssignment(t, svc)

	comments := "加急单"
	status := model.AssignmentStatusPaused
	result, err := svc.Update(context.Background(), a.ID, &dto.UpdateReferenceAssignmentRequest{
		Comments: &comments,
		Status:   &status,
	})
	if err != nil {
		t.Fatalf("Update 应成功: %v", err)
	}
	if result.Comments != "加急单" || result.Status != model.AssignmentStatusPaused {
		t.Errorf("部分更新结果不符，实际=%s/%s", result.Comments, result.Status)
	}
	// 未提交的字段保留原值
	if result.AssignedDate != "2026-08-01" {
		t.Errorf("未提交字段应保留原值，实际=%s", result.AssignedDate)
	}
}

func TestReferenceAssignmentService_Update_InvalidStatus(t *testing.T) {
	svc, _ := setupAssignmentService(600)
	a := createAssignment(t, svc)

	bad := "archived"
	_, err := svc.Update(context.Background(), a.ID, &dto.UpdateReferenceAssignmentRequest{Status: &bad})
	if !errors.Is(err, ErrInvalidStatus) {
		t.Errorf("期望 ErrInvalidStatus，实际: %v", err)
	}
}

func TestReferenceAssignmentService_Update_TerminalRejected(t *testing.T) {
	svc, _ := setupAssignmentService(600)
	a := createAssignment(t, svc)
	svc.Complete(context.Background(), a.ID)

	comments := "x"
	_, err := svc.Update(context.Background(), a.ID, &dto.UpdateReferenceAssignmentRequest{Comments: &comments})
	if !errors.Is(err, ErrAssignmentTerminal) {
		t.Errorf("终态分配不可编辑，实际: %v", err)
	}
}

func TestReferenceAssignmentService_Update_StatusToCompleted(t *testing.T) {
	svc, _ := setupAssignmentService(600)
	a := createAssignment(t, svc)
	svc.AddProgress(context.Background(), a.ID, &dto.AddProgressRequest{Minutes: 100})

	status := model.AssignmentStatusCompleted
	result, err := svc.Update(context.Background(), a.ID, &dto.UpdateReferenceAssignmentRequest{Status: &status})
	if err != nil {
		t.Fatalf("Update 应成功: %v", err)
	}
	if result.Status != model.AssignmentStatusCompleted || result.PercentComplete != 100 {
		t.Errorf("置为completed应按完工处理，实际=%s/%v", result.Status, result.PercentComplete)
	}
}

func TestReferenceAssignmentService_Update_PairConflictOnMove(t *testing.T) {
	svc, repo := setupAssignmentService(600)
	repo.Reference.Create(context.Background(), &model.Reference{
		Code:             "REF-002",
		EstimatedMinutes: 300,
		IsActive:         true,
	})

	first := createAssignment(t, svc)
	second, err := svc.Create(context.Background(), &dto.CreateReferenceAssignmentRequest{
		ModuleID:     1,
		ReferenceID:  2,
		AssignedDate: "2026-08-02",
	})
	if err != nil {
		t.Fatalf("第二条分配创建应成功: %v", err)
	}

	// 把第二条迁移到第一条占用的 (模块, 款式) 对
	refID := uint(1)
	_, err = svc.Update(context.Background(), second.ID, &dto.UpdateReferenceAssignmentRequest{ReferenceID: &refID})
	if !errors.Is(err, ErrAssignmentPairTaken) {
		t.Errorf("期望 ErrAssignmentPairTaken，实际: %v", err)
	}
	_ = first
}

func TestReferenceAssignmentService_Update_ReferenceChangeRecomputes(t *testing.T) {
	svc, repo := setupAssignmentService(600)
	repo.Reference.Create(context.Background(), &model.Reference{
		Code:             "REF-002",
		EstimatedMinutes: 200,
		IsActive:         true,
	})

	a := createAssignment(t, svc)
	svc.AddProgress(context.Background(), a.ID, &dto.AddProgressRequest{Minutes: 100})

	refID := uint(2)
	result, err := svc.Update(context.Background(), a.ID, &dto.UpdateReferenceAssignmentRequest{ReferenceID: &refID})
	if err != nil {
		t.Fatalf("Update 应成功: %v", err)
	}
	// 100/200 = 50%
	if result.PercentComplete != 50 || result.MinutesRemaining != 100 {
		t.Errorf("款式变更后应按新标准工时重算，实际=%v/%d", result.PercentComplete, result.MinutesRemaining)
	}
}

func TestReferenceAssignmentService_Update_DateOrder(t *testing.T) {
	svc, _ := setupAssignmentService(600)
	a := createAssignment(t, svc)

	started := "2026-08-10"
	completed := "2026-08-05"
	_, err := svc.Update(context.Background(), a.ID, &dto.UpdateReferenceAssignmentRequest{
		StartedAt:   &started,
		CompletedAt: &completed,
	})
	if !errors.Is(err, ErrProgressDateOrder) {
		t.Errorf("期望 ErrProgressDateOrder，实际: %v", err)
	}
}

// ── Delete 测试 ──

func TestReferenceAssignmentService_Delete_Success(t *testing.T) {
	svc, _ := setupAssignmentService(600)
	a := createAssignment(t, svc)

	if err := svc.Delete(context.Background(), a.ID); err != nil {
		t.Fatalf("Delete 应成功: %v", err)
	}
	if _, err := svc.GetByID(context.Background(), a.ID); !errors.Is(err, ErrReferenceAssignmentNotFound) {
		t.Errorf("删除后应查不到记录，实际: %v", err)
	}
}

func TestReferenceAssignmentService_Delete_WithRecordsRejected(t *testing.T) {
	svc, repo := setupAssignmentService(600)
	a := createAssignment(t, svc)

	repo.ProductionRecord.Create(context.Background(), &model.ProductionRecord{
		ModuleAssignmentID:    1,
		ReferenceAssignmentID: a.ID,
		TimeSlotID:            1,
		WorkDate:              time.Date(2026, 8, 2, 0, 0, 0, 0, time.UTC),
		MinutesProduced:       60,
	})

	err := svc.Delete(context.Background(), a.ID)
	if !errors.Is(err, ErrAssignmentHasRecords) {
		t.Errorf("期望 ErrAssignmentHasRecords，实际: %v", err)
	}
}

func TestReferenceAssignmentService_Delete_NotFound(t *testing.T) {
	svc, _ := setupAssignmentService(600)

	err := svc.Delete(context.Background(), 42)
	if !errors.Is(err, ErrReferenceAssignmentNotFound) {
		t.Errorf("期望 ErrReferenceAssignmentNotFound，实际: %v", err)
	}
}
