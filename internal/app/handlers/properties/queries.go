package properties

import (
	"context"
	"errors"

	"rentify/internal/app/dto"
	"rentify/internal/app/handlers/support"
	"rentify/internal/app/queries"
	"rentify/internal/app/uow"
	domainproperty "rentify/internal/domain/property"
	domainuser "rentify/internal/domain/user"
)

const (
	getPropertyKey       = "properties.get"
	listOwnerPropsKey    = "properties.list_by_owner"
	isPropertyOwnerKey   = "properties.is_owner"
	propertyAvailableKey = "properties.is_available"
)

type GetPropertyQuery struct {
	PropertyID string
}

func (q GetPropertyQuery) Key() string { return getPropertyKey }

type GetPropertyHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *GetPropertyHandler) Handle(ctx context.Context, q GetPropertyQuery) (dto.Property, error) {
	unit, execCtx, cleanup, err := support.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.Property{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	prop, err := unit.Properties().ByID(execCtx, domainproperty.PropertyID(q.PropertyID))
	if err != nil {
		return dto.Property{}, err
	}
	return dto.MapProperty(prop), nil
}

type ListOwnerPropertiesQuery struct {
	OwnerID string
}

func (q ListOwnerPropertiesQuery) Key() string { return listOwnerPropsKey }

type ListOwnerPropertiesHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *ListOwnerPropertiesHandler) Handle(ctx context.Context, q ListOwnerPropertiesQuery) (dto.PropertyCollection, error) {
	unit, execCtx, cleanup, err := support.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.PropertyCollection{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	items, err := unit.Properties().ListByOwner(execCtx, q.OwnerID)
	if err != nil {
		return dto.PropertyCollection{}, err
	}
	return dto.MapPropertyCollection(items), nil
}

type IsPropertyOwnerQuery struct {
	PropertyID string
	Username   string
}

func (q IsPropertyOwnerQuery) Key() string { return isPropertyOwnerKey }

type IsPropertyOwnerHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *IsPropertyOwnerHandler) Handle(ctx context.Context, q IsPropertyOwnerQuery) (bool, error) {
	unit, execCtx, cleanup, err := support.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return false, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	prop, err := unit.Properties().ByID(execCtx, domainproperty.PropertyID(q.PropertyID))
	if err != nil {
		return false, err
	}
	owner, err := unit.Users().ByUsername(execCtx, q.Username)
	if err != nil {
		if errors.Is(err, domainuser.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return prop.IsOwner(string(owner.ID)), nil
}

// IsPropertyAvailableQuery reports the listing toggle, not calendar freedom.
type IsPropertyAvailableQuery struct {
	PropertyID string
}

func (q IsPropertyAvailableQuery) Key() string { return propertyAvailableKey }

type IsPropertyAvailableHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *IsPropertyAvailableHandler) Handle(ctx context.Context, q IsPropertyAvailableQuery) (bool, error) {
	unit, execCtx, cleanup, err := support.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return false, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	prop, err := unit.Properties().ByID(execCtx, domainproperty.PropertyID(q.PropertyID))
	if err != nil {
		return false, err
	}
	return prop.Available, nil
}

var _ queries.Handler[GetPropertyQuery, dto.Property] = (*GetPropertyHandler)(nil)
var _ queries.Handler[ListOwnerPropertiesQuery, dto.PropertyCollection] = (*ListOwnerPropertiesHandler)(nil)
var _ queries.Handler[IsPropertyOwnerQuery, bool] = (*IsPropertyOwnerHandler)(nil)
var _ queries.Handler[IsPropertyAvailableQuery, bool] = (*IsPropertyAvailableHandler)(nil)
