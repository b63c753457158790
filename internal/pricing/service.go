package pricing

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/postin54-boop/mani-me-sub002/pkg/db/models"
	"github.com/postin54-boop/mani-me-sub002/pkg/enums"
	pkgerrors "github.com/postin54-boop/mani-me-sub002/pkg/errors"
)

// Service exposes the price catalog. Every parcel type has exactly one entry;
// quotes are lookups, never formulas, so a catalog change can never alter a
// shipment that was already booked.
type Service interface {
	Catalog(ctx context.Context) ([]models.PriceEntry, error)
	Quote(ctx context.Context, parcelType enums.ParcelType) (*models.PriceEntry, error)
	UpsertEntry(ctx context.Context, input UpsertEntryInput) (*models.PriceEntry, error)
}

type service struct {
	repo Repository
}

// UpsertEntryInput carries an admin catalog write.
type UpsertEntryInput struct {
	ParcelType  enums.ParcelType
	Label       string
	AmountPence int64
	Currency    enums.Currency
}

// NewService wires a catalog service with the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("pricing repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Catalog(ctx context.Context) ([]models.PriceEntry, error) {
	entries, err := s.repo.ListEntries(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list price catalog")
	}
	return entries, nil
}

func (s *service) Quote(ctx context.Context, parcelType enums.ParcelType) (*models.PriceEntry, error) {
	if !parcelType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown parcel type %q", parcelType))
	}
	entry, err := s.repo.FindByParcelType(ctx, parcelType)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no price for parcel type")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "look up price entry")
	}
	return entry, nil
}

func (s *service) UpsertEntry(ctx context.Context, input UpsertEntryInput) (*models.PriceEntry, error) {
	if !input.ParcelType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown parcel type %q", input.ParcelType))
	}
	if input.Label == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "label is required")
	}
	if input.AmountPence <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount must be positive")
	}
	if !input.Currency.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown currency %q", input.Currency))
	}

	entry := &models.PriceEntry{
		ParcelType:  input.ParcelType,
		Label:       input.Label,
		AmountPence: input.AmountPence,
		Currency:    input.Currency,
	}
	if err := s.repo.Upsert(ctx, entry); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "upsert price entry")
	}
	return entry, nil
}
