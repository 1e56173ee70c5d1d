package project

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/Brezzyslide/MORTIAN-NGN-sub002/internal/audit"
	"github.com/Brezzyslide/MORTIAN-NGN-sub002/internal/cache"
)

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) Create(ctx context.Context, p *Project) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *mockRepo) GetByID(ctx context.Context, tenantID, id string) (*Project, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Project), args.Error(1)
}

func (m *mockRepo) Update(ctx context.Context, p *Project) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *mockRepo) Delete(ctx context.Context, tenantID, id string) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

func (m *mockRepo) ListByTenant(ctx context.Context, tenantID, status string, limit, offset int) ([]*Project, error) {
	args := m.Called(ctx, tenantID, status, limit, offset)
	return args.Get(0).([]*Project), args.Error(1)
}

type mockBudgetRepo struct {
	mock.Mock
}

func (m *mockBudgetRepo) Upsert(ctx context.Context, b *Budget) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}

func (m *mockBudgetRepo) GetByProject(ctx context.Context, projectID string) (*Budget, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Budget), args.Error(1)
}

type mockAudit struct {
	mock.Mock
}

func (m *mockAudit) Log(ctx context.Context, event audit.Event) {
	m.Called(ctx, event)
}

func noopCache() *cache.Cache {
	return cache.New(context.Background(), cache.Config{Enabled: false})
}

func TestProject_Service_Create(t *testing.T) {
	repo := new(mockRepo)
	auditLogger := new(mockAudit)
	service := NewService(repo, new(mockBudgetRepo), noopCache(), auditLogger)

	ctx := context.Background()

	repo.On("Create", ctx, mock.MatchedBy(func(p *Project) bool {
		_, err := uuid.Parse(p.ID)
		return err == nil && p.Status == StatusDraft && p.TenantID == "tenant-1"
	})).Return(nil)
	auditLogger.On("Log", ctx, mock.Anything).Return()

	p, err := service.Create(ctx, "tenant-1", "actor-1", CreateInput{Name: "Lekki Phase 2 Duplex", Client: "Adeyemi Estates"})
	assert.NoError(t, err)
	assert.Equal(t, StatusDraft, p.Status)
	repo.AssertExpectations(t)
}

func TestProject_Service_Create_RequiresName(t *testing.T) {
	service := NewService(new(mockRepo), new(mockBudgetRepo), noopCache(), new(mockAudit))

	_, err := service.Create(context.Background(), "tenant-1", "actor-1", CreateInput{})
	assert.Error(t, err)
}

func TestProject_Service_Update_InvalidStatus(t *testing.T) {
	repo := new(mockRepo)
	service := NewService(repo, new(mockBudgetRepo), noopCache(), new(mockAudit))

	ctx := context.Background()
	repo.On("GetByID", ctx, "tenant-1", "proj-1").Return(&Project{ID: "proj-1", TenantID: "tenant-1", Status: StatusDraft}, nil)

	_, err := service.Update(ctx, "tenant-1", "actor-1", "proj-1", UpdateInput{Status: "demolished"})
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestProject_Service_Update(t *testing.T) {
	repo := new(mockRepo)
	auditLogger := new(mockAudit)
	service := NewService(repo, new(mockBudgetRepo), noopCache(), auditLogger)

	ctx := context.Background()
	existing := &Project{ID: "proj-1", TenantID: "tenant-1", Name: "Old Name", Status: StatusDraft}
	repo.On("GetByID", ctx, "tenant-1", "proj-1").Return(existing, nil)
	repo.On("Update", ctx, mock.MatchedBy(func(p *Project) bool {
		return p.Name == "New Name" && p.Status == StatusActive
	})).Return(nil)
	auditLogger.On("Log", ctx, mock.Anything).Return()

	p, err := service.Update(ctx, "tenant-1", "actor-1", "proj-1", UpdateInput{Name: "New Name", Status: StatusActive})
	assert.NoError(t, err)
	assert.Equal(t, StatusActive, p.Status)
	repo.AssertExpectations(t)
}

func TestProject_Service_Update_NotFound(t *testing.T) {
	repo := new(mockRepo)
	service := NewService(repo, new(mockBudgetRepo), noopCache(), new(mockAudit))

	ctx := context.Background()
	repo.On("GetByID", ctx, "tenant-1", "missing").Return(nil, ErrProjectNotFound)

	_, err := service.Update(ctx, "tenant-1", "actor-1", "missing", UpdateInput{Name: "x"})
	assert.ErrorIs(t, err, ErrProjectNotFound)
}

func TestProject_Service_SetBudget(t *testing.T) {
	repo := new(mockRepo)
	budgets := new(mockBudgetRepo)
	auditLogger := new(mockAudit)
	service := NewService(repo, budgets, noopCache(), auditLogger)

	ctx := context.Background()
	repo.On("GetByID", ctx, "tenant-1", "proj-1").Return(&Project{ID: "proj-1", TenantID: "tenant-1"}, nil)
	budgets.On("Upsert", ctx, mock.MatchedBy(func(b *Budget) bool {
		return b.ProjectID == "proj-1" && b.TotalMinor == 50_000_000_00 && b.Currency == "NGN"
	})).Return(nil)
	auditLogger.On("Log", ctx, mock.Anything).Return()

	lines := []BudgetLine{
		{Category: CategoryLabour, AmountMinor: 20_000_000_00},
		{Category: CategoryMaterials, AmountMinor: 25_000_000_00},
	}
	b, err := service.SetBudget(ctx, "tenant-1", "actor-1", "proj-1", 50_000_000_00, "", lines)
	assert.NoError(t, err)
	assert.Equal(t, "NGN", b.Currency, "currency defaults to naira")
	budgets.AssertExpectations(t)
}

func TestProject_Service_SetBudget_LinesExceedTotal(t *testing.T) {
	service := NewService(new(mockRepo), new(mockBudgetRepo), noopCache(), new(mockAudit))

	lines := []BudgetLine{
		{Category: CategoryLabour, AmountMinor: 800},
		{Category: CategoryEquipment, AmountMinor: 300},
	}
	_, err := service.SetBudget(context.Background(), "tenant-1", "actor-1", "proj-1", 1000, "NGN", lines)
	assert.Error(t, err)
}

func TestProject_Service_SetBudget_RejectsNonPositiveTotal(t *testing.T) {
	service := NewService(new(mockRepo), new(mockBudgetRepo), noopCache(), new(mockAudit))

	_, err := service.SetBudget(context.Background(), "tenant-1", "actor-1", "proj-1", 0, "NGN", nil)
	assert.Error(t, err)

	_, err = service.SetBudget(context.Background(), "tenant-1", "actor-1", "proj-1", -100, "NGN", nil)
	assert.Error(t, err)
}

func TestProject_Service_GetBudget_ProjectScoped(t *testing.T) {
	repo := new(mockRepo)
	budgets := new(mockBudgetRepo)
	service := NewService(repo, budgets, noopCache(), new(mockAudit))

	ctx := context.Background()

	// The project lookup gates the budget read, so a budget can never
	// leak across tenants.
	repo.On("GetByID", ctx, "tenant-2", "proj-1").Return(nil, ErrProjectNotFound)
	_, err := service.GetBudget(ctx, "tenant-2", "proj-1")
	assert.ErrorIs(t, err, ErrProjectNotFound)

	repo.On("GetByID", ctx, "tenant-1", "proj-1").Return(&Project{ID: "proj-1"}, nil)
	budgets.On("GetByProject", ctx, "proj-1").Return(&Budget{ProjectID: "proj-1", TotalMinor: 500}, nil)
	b, err := service.GetBudget(ctx, "tenant-1", "proj-1")
	assert.NoError(t, err)
	assert.EqualValues(t, 500, b.TotalMinor)
}

func TestProject_Service_List_PassesFilter(t *testing.T) {
	repo := new(mockRepo)
	service := NewService(repo, new(mockBudgetRepo), noopCache(), new(mockAudit))

	ctx := context.Background()
	repo.On("ListByTenant", ctx, "tenant-1", StatusActive, 50, 0).Return([]*Project{{ID: "proj-1"}}, nil)

	out, err := service.List(ctx, "tenant-1", StatusActive, 50, 0)
	assert.NoError(t, err)
	assert.Len(t, out, 1)
	repo.AssertExpectations(t)
}

func TestProject_ValidStatus(t *testing.T) {
	for _, s := range []string{StatusDraft, StatusActive, StatusOnHold, StatusCompleted, StatusArchived} {
		assert.True(t, ValidStatus(s), s)
	}
	assert.False(t, ValidStatus(""))
	assert.False(t, ValidStatus("demolished"))
}

func TestProject_Service_Create_SetsTimestamps(t *testing.T) {
	repo := new(mockRepo)
	auditLogger := new(mockAudit)
	service := NewService(repo, new(mockBudgetRepo), noopCache(), auditLogger)

	ctx := context.Background()
	repo.On("Create", ctx, mock.Anything).Return(nil)
	auditLogger.On("Log", ctx, mock.Anything).Return()

	before := time.Now()
	p, err := service.Create(ctx, "tenant-1", "actor-1", CreateInput{Name: "Warehouse Extension"})
	assert.NoError(t, err)
	assert.False(t, p.CreatedAt.Before(before))
	assert.Equal(t, p.CreatedAt, p.UpdatedAt)
}
