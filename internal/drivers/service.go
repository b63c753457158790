package drivers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/postin54-boop/mani-me-sub002/pkg/db/models"
	"github.com/postin54-boop/mani-me-sub002/pkg/enums"
	pkgerrors "github.com/postin54-boop/mani-me-sub002/pkg/errors"
)

// Service is the system of record for couriers. Drivers are registered on
// exactly one side of the corridor and deactivated rather than deleted.
type Service interface {
	Register(ctx context.Context, input RegisterInput) (*models.Driver, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Driver, error)
	List(ctx context.Context, filter ListFilter) ([]models.Driver, error)
	Deactivate(ctx context.Context, id uuid.UUID) (*models.Driver, error)
}

type service struct {
	repo Repository
}

// RegisterInput carries a new driver registration.
type RegisterInput struct {
	FullName    string
	Phone       string
	RegionScope enums.RegionScope
}

// NewService wires a driver service with the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("drivers repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Register(ctx context.Context, input RegisterInput) (*models.Driver, error) {
	if strings.TrimSpace(input.FullName) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "full name is required")
	}
	if strings.TrimSpace(input.Phone) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "phone is required")
	}
	if !input.RegionScope.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown region scope %q", input.RegionScope))
	}

	driver := &models.Driver{
		FullName:    strings.TrimSpace(input.FullName),
		Phone:       strings.TrimSpace(input.Phone),
		RegionScope: input.RegionScope,
		Active:      true,
	}
	if err := s.repo.Create(ctx, driver); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create driver")
	}
	return driver, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Driver, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "driver id required")
	}
	driver, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "driver not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load driver")
	}
	return driver, nil
}

func (s *service) List(ctx context.Context, filter ListFilter) ([]models.Driver, error) {
	if filter.Scope != nil && !filter.Scope.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown region scope %q", *filter.Scope))
	}
	out, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list drivers")
	}
	return out, nil
}

func (s *service) Deactivate(ctx context.Context, id uuid.UUID) (*models.Driver, error) {
	driver, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !driver.Active {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "driver already deactivated")
	}

	now := time.Now()
	flipped, err := s.repo.Deactivate(ctx, id, now)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deactivate driver")
	}
	if !flipped {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "driver already deactivated")
	}
	driver.Active = false
	driver.DeactivatedAt = &now
	return driver, nil
}
