package drivers

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/postin54-boop/mani-me-sub002/pkg/db/models"
	"github.com/postin54-boop/mani-me-sub002/pkg/enums"
	pkgerrors "github.com/postin54-boop/mani-me-sub002/pkg/errors"
)

type fakeRepository struct {
	byID map[uuid.UUID]*models.Driver
}

func newFakeRepository(drivers ...*models.Driver) *fakeRepository {
	f := &fakeRepository{byID: map[uuid.UUID]*models.Driver{}}
	for _, d := range drivers {
		if d.ID == uuid.Nil {
			d.ID = uuid.New()
		}
		f.byID[d.ID] = d
	}
	return f
}

func (f *fakeRepository) WithTx(tx *gorm.DB) Repository { return f }

func (f *fakeRepository) Create(ctx context.Context, driver *models.Driver) error {
	driver.ID = uuid.New()
	f.byID[driver.ID] = driver
	return nil
}

func (f *fakeRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Driver, error) {
	if d, ok := f.byID[id]; ok {
		return d, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepository) List(ctx context.Context, filter ListFilter) ([]models.Driver, error) {
	var out []models.Driver
	for _, d := range f.byID {
		if filter.Scope != nil && d.RegionScope != *filter.Scope {
			continue
		}
		if filter.Active != nil && d.Active != *filter.Active {
			continue
		}
		out = append(out, *d)
	}
	return out, nil
}

func (f *fakeRepository) Deactivate(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	d, ok := f.byID[id]
	if !ok || !d.Active {
		return false, nil
	}
	d.Active = false
	d.DeactivatedAt = &at
	return true, nil
}

func TestService_Register(t *testing.T) {
	repo := newFakeRepository()
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("unexpected service error: %v", err)
	}

	driver, err := svc.Register(context.Background(), RegisterInput{
		FullName:    "  Kwame Mensah ",
		Phone:       "+233201234567",
		RegionScope: enums.RegionScopeDestinationDelivery,
	})
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}
	if driver.FullName != "Kwame Mensah" {
		t.Fatalf("expected trimmed name, got %q", driver.FullName)
	}
	if !driver.Active {
		t.Fatal("new driver should be active")
	}
}

func TestService_RegisterValidation(t *testing.T) {
	svc, err := NewService(newFakeRepository())
	if err != nil {
		t.Fatalf("unexpected service error: %v", err)
	}

	tests := []struct {
		name  string
		input RegisterInput
	}{
		{name: "missing name", input: RegisterInput{Phone: "+44", RegionScope: enums.RegionScopeOriginPickup}},
		{name: "missing phone", input: RegisterInput{FullName: "A", RegionScope: enums.RegionScopeOriginPickup}},
		{name: "bad scope", input: RegisterInput{FullName: "A", Phone: "+44", RegionScope: "everywhere"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Register(context.Background(), tc.input); err == nil {
				t.Fatalf("expected validation error for %s", tc.name)
			}
		})
	}
}

func TestService_ListByScope(t *testing.T) {
	origin := &models.Driver{FullName: "A", Phone: "1", RegionScope: enums.RegionScopeOriginPickup, Active: true}
	dest := &models.Driver{FullName: "B", Phone: "2", RegionScope: enums.RegionScopeDestinationDelivery, Active: true}
	repo := newFakeRepository(origin, dest)
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("unexpected service error: %v", err)
	}

	scope := enums.RegionScopeOriginPickup
	got, err := svc.List(context.Background(), ListFilter{Scope: &scope})
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(got) != 1 || got[0].FullName != "A" {
		t.Fatalf("unexpected list result: %+v", got)
	}
}

func TestService_DeactivateOnce(t *testing.T) {
	driver := &models.Driver{FullName: "A", Phone: "1", RegionScope: enums.RegionScopeOriginPickup, Active: true}
	repo := newFakeRepository(driver)
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("unexpected service error: %v", err)
	}

	got, err := svc.Deactivate(context.Background(), driver.ID)
	if err != nil {
		t.Fatalf("Deactivate error: %v", err)
	}
	if got.Active || got.DeactivatedAt == nil {
		t.Fatalf("driver should be deactivated with timestamp: %+v", got)
	}

	_, err = svc.Deactivate(context.Background(), driver.ID)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict on repeat deactivation, got %v", err)
	}
}

func TestService_GetNotFound(t *testing.T) {
	svc, err := NewService(newFakeRepository())
	if err != nil {
		t.Fatalf("unexpected service error: %v", err)
	}

	_, err = svc.Get(context.Background(), uuid.New())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
