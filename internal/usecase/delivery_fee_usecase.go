package usecase

import (
	"context"
	"net/http"
	"strings"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"github.com/shopspring/decimal"
)

type DeliveryFeeUsecase struct {
	fees repo.DeliveryFeeRepository
}

func NewDeliveryFeeUsecase(fees repo.DeliveryFeeRepository) *DeliveryFeeUsecase {
	return &DeliveryFeeUsecase{fees: fees}
}

type DeliveryFeeInput struct {
	Name     string
	Amount   decimal.Decimal
	IsActive bool
}

func validateDeliveryFee(in DeliveryFeeInput) error {
	fields := map[string]string{}
	if strings.TrimSpace(in.Name) == "" {
		fields["name"] = "is required"
	}
	if in.Amount.IsNegative() {
		fields["amount"] = "must be >= 0"
	}
	if len(fields) > 0 {
		return NewValidationError(fields)
	}
	return nil
}

// 今適用される配送料（無ければ404）
func (u *DeliveryFeeUsecase) Active(ctx context.Context) (model.DeliveryFee, error) {
	fee, err := u.fees.FindActive(ctx)
	if err != nil {
		return model.DeliveryFee{}, findError(err)
	}
	return fee, nil
}

func (u *DeliveryFeeUsecase) List(ctx context.Context) ([]model.DeliveryFee, error) {
	fees, err := u.fees.List(ctx)
	if err != nil {
		return nil, dbError()
	}
	return fees, nil
}

func (u *DeliveryFeeUsecase) Get(ctx context.Context, id int64) (model.DeliveryFee, error) {
	if id <= 0 {
		return model.DeliveryFee{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	fee, err := u.fees.FindByID(ctx, id)
	if err != nil {
		return model.DeliveryFee{}, findError(err)
	}
	return fee, nil
}

func (u *DeliveryFeeUsecase) Create(ctx context.Context, in DeliveryFeeInput) (model.DeliveryFee, error) {
	if err := validateDeliveryFee(in); err != nil {
		return model.DeliveryFee{}, err
	}
	fee, err := u.fees.Create(ctx, model.DeliveryFee{
		Name:     strings.TrimSpace(in.Name),
		Amount:   in.Amount.Round(2),
		IsActive: in.IsActive,
	})
	if err != nil {
		return model.DeliveryFee{}, dbError()
	}
	return fee, nil
}

func (u *DeliveryFeeUsecase) Update(ctx context.Context, id int64, in DeliveryFeeInput) (model.DeliveryFee, error) {
	if id <= 0 {
		return model.DeliveryFee{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := validateDeliveryFee(in); err != nil {
		return model.DeliveryFee{}, err
	}

	fee, err := u.fees.FindByID(ctx, id)
	if err != nil {
		return model.DeliveryFee{}, findError(err)
	}
	fee.Name = strings.TrimSpace(in.Name)
	fee.Amount = in.Amount.Round(2)
	fee.IsActive = in.IsActive

	if err := u.fees.Update(ctx, fee); err != nil {
		return model.DeliveryFee{}, findError(err)
	}
	return fee, nil
}

func (u *DeliveryFeeUsecase) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := u.fees.Delete(ctx, id); err != nil {
		return findError(err)
	}
	return nil
}
