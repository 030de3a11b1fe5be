package service

import (
	"context"
	"time"

	"gorm.io/gorm"

	"telar/backend/internal/model"
	"telar/backend/internal/repository"
)

// ── Mock TxRunner ──
//
// 单测中没有真实数据库事务，直接在同一组 Mock 仓储上执行 fn；
// 行锁语义由 GetByIDForUpdate 直接复用 GetByID 模拟

type mockTxRunner struct {
	repo *repository.Repository
}

func (m *mockTxRunner) Atomic(_ context.Context, fn func(txRepo *repository.Repository) error) error {
	return fn(m.repo)
}

// ── Mock ModuleRepository ──

type mockModuleRepo struct {
	modules map[uint]*model.Module
	nextID  uint
}

func newMockModuleRepo() *mockModuleRepo {
	return &mockModuleRepo{modules: make(map[uint]*model.Module), nextID: 1}
}

func (m *mockModuleRepo) Create(_ context.Context, mod *model.Module) error {
	if mod.ModuleID == 0 {
		mod.ModuleID = m.nextID
		m.nextID++
	}
	m.modules[mod.ModuleID] = mod
	return nil
}

func (m *mockModuleRepo) GetByID(_ context.Context, id uint) (*model.Module, error) {
	if mod, ok := m.modules[id]; ok {
		return mod, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockModuleRepo) List(_ context.Context, includeInactive bool) ([]model.Module, error) {
	var result []model.Module
	for _, mod := range m.modules {
		if !includeInactive && !mod.IsActive {
			continue
		}
		result = append(result, *mod)
	}
	return result, nil
}

func (m *mockModuleRepo) Update(_ context.Context, mod *model.Module) error {
	m.modules[mod.ModuleID] = mod
	return nil
}

func (m *mockModuleRepo) Delete(_ context.Context, id uint) error {
	if _, ok := m.modules[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.modules, id)
	return nil
}

// ── Mock PersonRepository ──

type mockPersonRepo struct {
	people map[uint]*model.Person
	nextID uint
}

func newMockPersonRepo() *mockPersonRepo {
	return &mockPersonRepo{people: make(map[uint]*model.Person), nextID: 1}
}

func (m *mockPersonRepo) Create(_ context.Context, p *model.Person) error {
	if p.PersonID == 0 {
		p.PersonID = m.nextID
		m.nextID++
	}
	m.people[p.PersonID] = p
	return nil
}

func (m *mockPersonRepo) GetByID(_ context.Context, id uint) (*model.Person, error) {
	if p, ok := m.people[id]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockPersonRepo) GetByDocument(_ context.Context, document string) (*model.Person, error) {
	for _, p := range m.people {
		if p.Document == document {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockPersonRepo) List(_ context.Context, includeInactive bool) ([]model.Person, error) {
	var result []model.Person
	for _, p := range m.people {
		if !includeInactive && !p.IsActive {
			continue
		}
		result = append(result, *p)
	}
	return result, nil
}

func (m *mockPersonRepo) Update(_ context.Context, p *model.Person) error {
	m.people[p.PersonID] = p
	return nil
}

func (m *mockPersonRepo) Delete(_ context.Context, id uint) error {
	if _, ok := m.people[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.people, id)
	return nil
}

// ── Mock ReferenceRepository ──

type mockReferenceRepo struct {
	references map[uint]*model.Reference
	nextID     uint
}

func newMockReferenceRepo() *mockReferenceRepo {
	return &mockReferenceRepo{references: make(map[uint]*model.Reference), nextID: 1}
}

func (m *mockReferenceRepo) Create(_ context.Context, ref *model.Reference) error {
	if ref.ReferenceID == 0 {
		ref.ReferenceID = m.nextID
		m.nextID++
	}
	m.references[ref.ReferenceID] = ref
	return nil
}

func (m *mockReferenceRepo) GetByID(_ context.Context, id uint) (*model.Reference, error) {
	if ref, ok := m.references[id]; ok {
		return ref, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockReferenceRepo) GetByCode(_ context.Context, code string) (*model.Reference, error) {
	for _, ref := range m.references {
		if ref.Code == code {
			return ref, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockReferenceRepo) List(_ context.Context, includeInactive bool) ([]model.Reference, error) {
	var result []model.Reference
	for _, ref := range m.references {
		if !includeInactive && !ref.IsActive {
			continue
		}
		result = append(result, *ref)
	}
	return result, nil
}

func (m *mockReferenceRepo) Update(_ context.Context, ref *model.Reference) error {
	m.references[ref.ReferenceID] = ref
	return nil
}

func (m *mockReferenceRepo) Delete(_ context.Context, id uint) error {
	if _, ok := m.references[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.references, id)
	return nil
}

// ── Mock TimeSlotRepository ──

type mockTimeSlotRepo struct {
	slots  map[uint]*model.TimeSlot
	nextID uint
}

func newMockTimeSlotRepo() *mockTimeSlotRepo {
	return &mockTimeSlotRepo{slots: make(map[uint]*model.TimeSlot), nextID: 1}
}

func (m *mockTimeSlotRepo) Create(_ context.Context, slot *model.TimeSlot) error {
	if slot.TimeSlotID == 0 {
		slot.TimeSlotID = m.nextID
		m.nextID++
	}
	m.slots[slot.TimeSlotID] = slot
	return nil
}

func (m *mockTimeSlotRepo) GetByID(_ context.Context, id uint) (*model.TimeSlot, error) {
	if slot, ok := m.slots[id]; ok {
		return slot, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTimeSlotRepo) List(_ context.Context, includeInactive bool) ([]model.TimeSlot, error) {
	var result []model.TimeSlot
	for _, slot := range m.slots {
		if !includeInactive && !slot.IsActive {
			continue
		}
		result = append(result, *slot)
	}
	return result, nil
}

func (m *mockTimeSlotRepo) Update(_ context.Context, slot *model.TimeSlot) error {
	m.slots[slot.TimeSlotID] = slot
	return nil
}

func (m *mockTimeSlotRepo) Delete(_ context.Context, id uint) error {
	if _, ok := m.slots[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.slots, id)
	return nil
}

// ── Mock ModuleAssignmentRepository ──

type mockModuleAssignmentRepo struct {
	assignments map[uint]*model.ModuleAssignment
	nextID      uint
}

func newMockModuleAssignmentRepo() *mockModuleAssignmentRepo {
	return &mockModuleAssignmentRepo{assignments: make(map[uint]*model.ModuleAssignment), nextID: 1}
}

func (m *mockModuleAssignmentRepo) Create(_ context.Context, a *model.ModuleAssignment) error {
	if a.ModuleAssignmentID == 0 {
		a.ModuleAssignmentID = m.nextID
		m.nextID++
	}
	m.assignments[a.ModuleAssignmentID] = a
	return nil
}

func (m *mockModuleAssignmentRepo) GetByID(_ context.Context, id uint) (*model.ModuleAssignment, error) {
	if a, ok := m.assignments[id]; ok {
		return a, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockModuleAssignmentRepo) List(_ context.Context, moduleID, personID uint, onlyActive bool) ([]model.ModuleAssignment, error) {
	var result []model.ModuleAssignment
	for _, a := range m.assignments {
		if moduleID != 0 && a.ModuleID != moduleID {
			continue
		}
		if personID != 0 && a.PersonID != personID {
			continue
		}
		if onlyActive && !a.IsActive {
			continue
		}
		result = append(result, *a)
	}
	return result, nil
}

func (m *mockModuleAssignmentRepo) FindActiveByPerson(_ context.Context, personID, excludeID uint) (*model.ModuleAssignment, error) {
	for _, a := range m.assignments {
		if a.PersonID == personID && a.IsActive && a.ModuleAssignmentID != excludeID {
			return a, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockModuleAssignmentRepo) Update(_ context.Context, a *model.ModuleAssignment) error {
	m.assignments[a.ModuleAssignmentID] = a
	return nil
}

func (m *mockModuleAssignmentRepo) Delete(_ context.Context, id uint) error {
	if _, ok := m.assignments[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.assignments, id)
	return nil
}

// ── Mock ReferenceAssignmentRepository ──

type mockReferenceAssignmentRepo struct {
	assignments map[uint]*model.ReferenceAssignment
	nextID      uint
}

func newMockReferenceAssignmentRepo() *mockReferenceAssignmentRepo {
	return &mockReferenceAssignmentRepo{assignments: make(map[uint]*model.ReferenceAssignment), nextID: 1}
}

func (m *mockReferenceAssignmentRepo) Create(_ context.Context, a *model.ReferenceAssignment) error {
	if a.ReferenceAssignmentID == 0 {
		a.ReferenceAssignmentID = m.nextID
		m.nextID++
	}
	m.assignments[a.ReferenceAssignmentID] = a
	return nil
}

func (m *mockReferenceAssignmentRepo) GetByID(_ context.Context, id uint) (*model.ReferenceAssignment, error) {
	if a, ok := m.assignments[id]; ok {
		return a, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockReferenceAssignmentRepo) GetByIDForUpdate(ctx context.Context, id uint) (*model.ReferenceAssignment, error) {
	return m.GetByID(ctx, id)
}

func (m *mockReferenceAssignmentRepo) List(_ context.Context, moduleID uint, status string) ([]model.ReferenceAssignment, error) {
	var result []model.ReferenceAssignment
	for _, a := range m.assignments {
		if moduleID != 0 && a.ModuleID != moduleID {
			continue
		}
		if status != "" && a.Status != status {
			continue
		}
		result = append(result, *a)
	}
	return result, nil
}

func (m *mockReferenceAssignmentRepo) FindOpenByPair(_ context.Context, moduleID, referenceID, excludeID uint) (*model.ReferenceAssignment, error) {
	for _, a := range m.assignments {
		if a.ModuleID != moduleID || a.ReferenceID != referenceID {
			continue
		}
		if a.ReferenceAssignmentID == excludeID {
			continue
		}
		if a.Status == model.AssignmentStatusActive || a.Status == model.AssignmentStatusPaused {
			return a, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockReferenceAssignmentRepo) Update(_ context.Context, a *model.ReferenceAssignment) error {
	m.assignments[a.ReferenceAssignmentID] = a
	return nil
}

func (m *mockReferenceAssignmentRepo) Delete(_ context.Context, id uint) error {
	if _, ok := m.assignments[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.assignments, id)
	return nil
}

// ── Mock ProductionRecordRepository ──

type mockProductionRecordRepo struct {
	records map[uint]*model.ProductionRecord
	nextID  uint
	// 父款式分配，用于模块过滤（真实实现 JOIN reference_assignments）
	assignments *mockReferenceAssignmentRepo
}

func newMockProductionRecordRepo(assignments *mockReferenceAssignmentRepo) *mockProductionRecordRepo {
	return &mockProductionRecordRepo{
		records:     make(map[uint]*model.ProductionRecord),
		nextID:      1,
		assignments: assignments,
	}
}

func (m *mockProductionRecordRepo) Create(_ context.Context, rec *model.ProductionRecord) error {
	if rec.ProductionRecordID == 0 {
		rec.ProductionRecordID = m.nextID
		m.nextID++
	}
	m.records[rec.ProductionRecordID] = rec
	return nil
}

func (m *mockProductionRecordRepo) GetByID(_ context.Context, id uint) (*model.ProductionRecord, error) {
	if rec, ok := m.records[id]; ok {
		return rec, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockProductionRecordRepo) GetByIDForUpdate(ctx context.Context, id uint) (*model.ProductionRecord, error) {
	return m.GetByID(ctx, id)
}

func (m *mockProductionRecordRepo) List(_ context.Context, filter *repository.ProductionRecordFilter) ([]model.ProductionRecord, int64, error) {
	var matched []model.ProductionRecord
	for _, rec := range m.records {
		if filter.ModuleID != 0 {
			parent, ok := m.assignments.assignments[rec.ReferenceAssignmentID]
			if !ok || parent.ModuleID != filter.ModuleID {
				continue
			}
		}
		if filter.ModuleAssignmentID != 0 && rec.ModuleAssignmentID != filter.ModuleAssignmentID {
			continue
		}
		if filter.ReferenceAssignmentID != 0 && rec.ReferenceAssignmentID != filter.ReferenceAssignmentID {
			continue
		}
		if filter.TimeSlotID != 0 && rec.TimeSlotID != filter.TimeSlotID {
			continue
		}
		if filter.DateFrom != nil && rec.WorkDate.Before(*filter.DateFrom) {
			continue
		}
		if filter.DateTo != nil && rec.WorkDate.After(*filter.DateTo) {
			continue
		}
		matched = append(matched, *rec)
	}

	total := int64(len(matched))
	start := (filter.Page - 1) * filter.PageSize
	if start >= len(matched) {
		return nil, total, nil
	}
	end := start + filter.PageSize
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (m *mockProductionRecordRepo) SumMinutesByAssignment(_ context.Context, referenceAssignmentID uint) (int64, error) {
	var sum int64
	for _, rec := range m.records {
		if rec.ReferenceAssignmentID == referenceAssignmentID {
			sum += int64(rec.MinutesProduced)
		}
	}
	return sum, nil
}

func (m *mockProductionRecordRepo) Update(_ context.Context, rec *model.ProductionRecord) error {
	if _, ok := m.records[rec.ProductionRecordID]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.records[rec.ProductionRecordID] = rec
	return nil
}

func (m *mockProductionRecordRepo) Delete(_ context.Context, id uint) error {
	if _, ok := m.records[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.records, id)
	return nil
}

// ── Mock AbsenceRepository ──

type mockAbsenceRepo struct {
	absences map[uint]*model.Absence
	nextID   uint
}

func newMockAbsenceRepo() *mockAbsenceRepo {
	return &mockAbsenceRepo{absences: make(map[uint]*model.Absence), nextID: 1}
}

func (m *mockAbsenceRepo) Create(_ context.Context, a *model.Absence) error {
	if a.AbsenceID == 0 {
		a.AbsenceID = m.nextID
		m.nextID++
	}
	m.absences[a.AbsenceID] = a
	return nil
}

func (m *mockAbsenceRepo) GetByID(_ context.Context, id uint) (*model.Absence, error) {
	if a, ok := m.absences[id]; ok {
		return a, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAbsenceRepo) List(_ context.Context, personID uint, dateFrom, dateTo *time.Time) ([]model.Absence, error) {
	var result []model.Absence
	for _, a := range m.absences {
		if personID != 0 && a.PersonID != personID {
			continue
		}
		if dateFrom != nil && a.AbsenceDate.Before(*dateFrom) {
			continue
		}
		if dateTo != nil && a.AbsenceDate.After(*dateTo) {
			continue
		}
		result = append(result, *a)
	}
	return result, nil
}

func (m *mockAbsenceRepo) Update(_ context.Context, a *model.Absence) error {
	m.absences[a.AbsenceID] = a
	return nil
}

func (m *mockAbsenceRepo) Delete(_ context.Context, id uint) error {
	if _, ok := m.absences[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.absences, id)
	return nil
}

// ── 组装 Mock Repository ──

func newMockRepository() *repository.Repository {
	referenceAssignments := newMockReferenceAssignmentRepo()
	repo := &repository.Repository{
		Module:              newMockModuleRepo(),
		Person:              newMockPersonRepo(),
		Reference:           newMockReferenceRepo(),
		TimeSlot:            newMockTimeSlotRepo(),
		ModuleAssignment:    newMockModuleAssignmentRepo(),
		ReferenceAssignment: referenceAssignments,
		ProductionRecord:    newMockProductionRecordRepo(referenceAssignments),
		Absence:             newMockAbsenceRepo(),
	}
	repo.Tx = &mockTxRunner{repo: repo}
	return repo
}
