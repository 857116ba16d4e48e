package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
)

type CategoryUsecase struct {
	categories repo.CategoryRepository
}

func NewCategoryUsecase(categories repo.CategoryRepository) *CategoryUsecase {
	return &CategoryUsecase{categories: categories}
}

type CategoryInput struct {
	Name        string
	Slug        string
	Description string
}

func (u *CategoryUsecase) List(ctx context.Context) ([]model.Category, error) {
	cs, err := u.categories.List(ctx)
	if err != nil {
		return nil, dbError()
	}
	return cs, nil
}

func (u *CategoryUsecase) Get(ctx context.Context, id int64) (model.Category, error) {
	if id <= 0 {
		return model.Category{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	c, err := u.categories.FindByID(ctx, id)
	if err != nil {
		return model.Category{}, findError(err)
	}
	return c, nil
}

func (u *CategoryUsecase) Create(ctx context.Context, in CategoryInput) (model.Category, error) {
	if strings.TrimSpace(in.Name) == "" {
		return model.Category{}, NewValidationError(map[string]string{"name": "is required"})
	}

	c, err := u.categories.Create(ctx, model.Category{
		Name:        strings.TrimSpace(in.Name),
		Slug:        slugOrName(in.Slug, in.Name),
		Description: in.Description,
	})
	if errors.Is(err, repo.ErrConflict) {
		return model.Category{}, NewHTTPError(http.StatusConflict, "slug already exists")
	}
	if err != nil {
		return model.Category{}, dbError()
	}
	return c, nil
}

func (u *CategoryUsecase) Update(ctx context.Context, id int64, in CategoryInput) (model.Category, error) {
	if id <= 0 {
		return model.Category{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if strings.TrimSpace(in.Name) == "" {
		return model.Category{}, NewValidationError(map[string]string{"name": "is required"})
	}

	c, err := u.categories.FindByID(ctx, id)
	if err != nil {
		return model.Category{}, findError(err)
	}
	c.Name = strings.TrimSpace(in.Name)
	c.Slug = slugOrName(in.Slug, in.Name)
	c.Description = in.Description

	err = u.categories.Update(ctx, c)
	if errors.Is(err, repo.ErrConflict) {
		return model.Category{}, NewHTTPError(http.StatusConflict, "slug already exists")
	}
	if err != nil {
		return model.Category{}, findError(err)
	}
	return c, nil
}

// 商品側の category_id は NULL になる
func (u *CategoryUsecase) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := u.categories.Delete(ctx, id); err != nil {
		return findError(err)
	}
	return nil
}
