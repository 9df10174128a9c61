package resource

import (
	"fmt"
	"log"

	"backoffice/internal/domain"
	"backoffice/internal/domain/models"
	"backoffice/internal/pagination"
	"backoffice/internal/validation"
)

// Definition declares how one resource table is handled by the engine.
type Definition struct {
	Table             string
	Schema            validation.Schema
	SearchFields      []string
	AllowedSortFields []string
	DefaultSort       string
	SoftDelete        bool
	Policy            Policy
}

func (d Definition) policy() Policy {
	if d.Policy != nil {
		return d.Policy
	}
	return BasePolicy{}
}

// Engine is the generic CRUD/bulk engine. It never branches on resource
// identity; everything resource-specific lives in the Definition.
type Engine struct {
	Store           Store
	DefaultPageSize int
	MaxPageSize     int
}

// ListResult is one resolved page of records.
type ListResult struct {
	Data []map[string]any
	Meta pagination.Meta
}

// List resolves pagination, rejects disallowed sort fields before touching
// storage, and returns one page plus derived metadata.
func (e Engine) List(def Definition, q pagination.Query, search string, where map[string]any) (ListResult, error) {
	opts, err := pagination.Resolve(q, pagination.Defaults{
		PageSize:          e.DefaultPageSize,
		MaxPageSize:       e.MaxPageSize,
		SortBy:            def.DefaultSort,
		AllowedSortFields: def.AllowedSortFields,
	})
	if err != nil {
		return ListResult{}, err
	}

	items, total, err := e.Store.List(def.Table, ListQuery{
		Search:       search,
		SearchFields: def.SearchFields,
		Where:        where,
		SortBy:       opts.SortBy,
		SortOrder:    opts.SortOrder,
		Limit:        opts.Limit,
		Offset:       opts.Offset,
	})
	if err != nil {
		return ListResult{}, err
	}

	return ListResult{Data: items, Meta: pagination.MetaFor(opts, total)}, nil
}

func (e Engine) Get(def Definition, id string) (map[string]any, error) {
	return e.Store.Get(def.Table, id)
}

// Create validates, runs the before hook (which may derive server-owned
// fields), persists, then fires the after hook. A hook failure after the
// write does not roll it back.
func (e Engine) Create(def Definition, data map[string]any, user models.AdminUser) (map[string]any, error) {
	if err := validation.ValidateOrError(data, def.Schema); err != nil {
		return nil, err
	}

	data, err := def.policy().BeforeCreate(data, user)
	if err != nil {
		return nil, hookError(err)
	}

	item, err := e.Store.Insert(def.Table, data)
	if err != nil {
		return nil, err
	}

	def.policy().AfterCreate(item, user)
	return item, nil
}

func (e Engine) Update(def Definition, id string, data map[string]any, user models.AdminUser) (map[string]any, error) {
	if err := validation.ValidateOrError(data, def.Schema); err != nil {
		return nil, err
	}

	existing, err := e.Store.Get(def.Table, id)
	if err != nil {
		return nil, err
	}

	data, err = def.policy().BeforeUpdate(data, existing, user)
	if err != nil {
		return nil, hookError(err)
	}

	item, err := e.Store.Update(def.Table, id, data)
	if err != nil {
		return nil, err
	}

	def.policy().AfterUpdate(item, user)
	return item, nil
}

func (e Engine) Delete(def Definition, id string, user models.AdminUser) error {
	existing, err := e.Store.Get(def.Table, id)
	if err != nil {
		return err
	}

	if err := def.policy().BeforeDelete(existing, user); err != nil {
		return hookError(err)
	}

	if def.SoftDelete {
		err = e.Store.SoftDelete(def.Table, id)
	} else {
		err = e.Store.Delete(def.Table, id)
	}
	if err != nil {
		return err
	}

	def.policy().AfterDelete(id, user)
	return nil
}

// BulkCreate validates every item up front; a single invalid item rejects the
// whole batch with index-prefixed field names. Persistence is all-or-nothing.
func (e Engine) BulkCreate(def Definition, items []map[string]any, user models.AdminUser) ([]map[string]any, error) {
	if len(items) == 0 {
		return nil, domain.NewValidationError("body", "empty batch")
	}

	var all []domain.FieldError
	for i, item := range items {
		for _, fe := range validation.Validate(item, def.Schema) {
			all = append(all, domain.FieldError{
				Field:   fmt.Sprintf("[%d].%s", i, fe.Field),
				Message: fe.Message,
			})
		}
	}
	if len(all) > 0 {
		return nil, domain.ValidationError{Fields: all}
	}

	prepared := make([]map[string]any, 0, len(items))
	for _, item := range items {
		data, err := def.policy().BeforeCreate(item, user)
		if err != nil {
			return nil, hookError(err)
		}
		prepared = append(prepared, data)
	}

	return e.Store.InsertMany(def.Table, prepared)
}

// BulkDelete is a best-effort, idempotent cleanup: missing ids are silently
// ignored and only the count of rows actually removed is reported.
func (e Engine) BulkDelete(def Definition, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, domain.NewValidationError("ids", "ids is required")
	}
	return e.Store.DeleteMany(def.Table, ids)
}

// hookError keeps typed domain errors intact and wraps everything else as an
// internal failure, so a policy bug surfaces as 500 rather than leaking.
func hookError(err error) error {
	switch {
	case domain.IsValidation(err), domain.IsNotFound(err), domain.IsConflict(err),
		domain.IsForbidden(err), domain.IsUnauthorized(err):
		return err
	default:
		log.Printf("[RESOURCE] hook error: %v", err)
		return domain.InternalError{Msg: "resource hook failed", Err: err}
	}
}
