package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"github.com/shopspring/decimal"
)

type PackUsecase struct {
	packs    repo.PackRepository
	products repo.ProductRepository
}

func NewPackUsecase(packs repo.PackRepository, products repo.ProductRepository) *PackUsecase {
	return &PackUsecase{packs: packs, products: products}
}

type PackItemInput struct {
	ProductID int64
	Quantity  int64
}

type PackInput struct {
	Name        string
	Slug        string
	Description string
	Price       decimal.Decimal
	IsActive    bool
	Items       []PackItemInput
}

// 公開中のパック一覧
func (u *PackUsecase) ListPublic(ctx context.Context) ([]model.Pack, error) {
	ps, err := u.packs.List(ctx, false)
	if err != nil {
		return nil, dbError()
	}
	return ps, nil
}

func (u *PackUsecase) AdminList(ctx context.Context) ([]model.Pack, error) {
	ps, err := u.packs.List(ctx, true)
	if err != nil {
		return nil, dbError()
	}
	return ps, nil
}

// slugでもidでも引ける。非公開は404。
func (u *PackUsecase) GetPublic(ctx context.Context, idOrSlug string) (model.Pack, error) {
	var (
		p   model.Pack
		err error
	)
	if id, perr := strconv.ParseInt(idOrSlug, 10, 64); perr == nil {
		p, err = u.packs.FindByID(ctx, id)
	} else {
		p, err = u.packs.FindBySlug(ctx, idOrSlug)
	}
	if err != nil {
		return model.Pack{}, findError(err)
	}
	if !p.IsActive {
		return model.Pack{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	return p, nil
}

func (u *PackUsecase) validate(ctx context.Context, in PackInput) ([]model.PackItem, error) {
	fields := map[string]string{}
	if strings.TrimSpace(in.Name) == "" {
		fields["name"] = "is required"
	}
	if in.Price.IsNegative() {
		fields["price"] = "must be >= 0"
	}
	if len(in.Items) == 0 {
		fields["items"] = "at least one item is required"
	}
	ids := make([]int64, 0, len(in.Items))
	for i, it := range in.Items {
		if it.Quantity < 1 {
			fields[fmt.Sprintf("items[%d].quantity", i)] = "must be >= 1"
		}
		ids = append(ids, it.ProductID)
	}
	if len(fields) > 0 {
		return nil, NewValidationError(fields)
	}

	found, err := u.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, dbError()
	}

	items := make([]model.PackItem, 0, len(in.Items))
	for i, it := range in.Items {
		if _, ok := found[it.ProductID]; !ok {
			fields[fmt.Sprintf("items[%d].product_id", i)] = "product not found"
			continue
		}
		items = append(items, model.PackItem{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	if len(fields) > 0 {
		return nil, NewValidationError(fields)
	}
	return items, nil
}

func (u *PackUsecase) Create(ctx context.Context, in PackInput) (model.Pack, error) {
	items, err := u.validate(ctx, in)
	if err != nil {
		return model.Pack{}, err
	}

	p, err := u.packs.Create(ctx, model.Pack{
		Name:        strings.TrimSpace(in.Name),
		Slug:        slugOrName(in.Slug, in.Name),
		Description: in.Description,
		Price:       in.Price.Round(2),
		IsActive:    in.IsActive,
		Items:       items,
	})
	if errors.Is(err, repo.ErrConflict) {
		return model.Pack{}, NewHTTPError(http.StatusConflict, "slug already exists")
	}
	if err != nil {
		return model.Pack{}, dbError()
	}
	return p, nil
}

func (u *PackUsecase) Update(ctx context.Context, id int64, in PackInput) (model.Pack, error) {
	if id <= 0 {
		return model.Pack{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	items, err := u.validate(ctx, in)
	if err != nil {
		return model.Pack{}, err
	}

	p, err := u.packs.FindByID(ctx, id)
	if err != nil {
		return model.Pack{}, findError(err)
	}
	p.Name = strings.TrimSpace(in.Name)
	p.Slug = slugOrName(in.Slug, in.Name)
	p.Description = in.Description
	p.Price = in.Price.Round(2)
	p.IsActive = in.IsActive
	p.Items = items

	err = u.packs.Update(ctx, p)
	if errors.Is(err, repo.ErrConflict) {
		return model.Pack{}, NewHTTPError(http.StatusConflict, "slug already exists")
	}
	if err != nil {
		return model.Pack{}, findError(err)
	}
	return p, nil
}

func (u *PackUsecase) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := u.packs.SoftDelete(ctx, id); err != nil {
		return findError(err)
	}
	return nil
}
