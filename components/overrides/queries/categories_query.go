package queries

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-overrides/components/overrides"
)

// CategoriesInput optionally narrows the result to one category.
type CategoriesInput struct {
	Code string `json:"code"`
}

type categoryService interface {
	Categories() []overrides.CategoryDefinition
}

// CategoriesQuery lists registered override categories.
type CategoriesQuery struct {
	service categoryService
}

// NewCategoriesQuery builds the query.
func NewCategoriesQuery(service categoryService) *CategoriesQuery {
	return &CategoriesQuery{service: service}
}

var _ gocommand.Querier[CategoriesInput, []overrides.CategoryDefinition] = (*CategoriesQuery)(nil)

// Query returns the categories, or the single matching one when Code is set.
func (q *CategoriesQuery) Query(_ context.Context, input CategoriesInput) ([]overrides.CategoryDefinition, error) {
	defs := q.service.Categories()
	if input.Code == "" {
		return defs, nil
	}
	for _, def := range defs {
		if def.Code == input.Code {
			return []overrides.CategoryDefinition{def}, nil
		}
	}
	return nil, overrides.ErrUnknownCategory
}
