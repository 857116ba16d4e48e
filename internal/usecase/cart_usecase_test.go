package usecase_test

import (
	"context"
	"net/http"
	"testing"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
	"storefront/internal/usecase"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type cartFixture struct {
	carts    *CartRepoMock
	items    *CartItemRepoMock
	products *ProductRepoMock
	packs    *PackRepoMock
	fees     *DeliveryFeeRepoMock
	uc       *usecase.CartUsecase
}

func newCartFixture() cartFixture {
	f := cartFixture{
		carts:    new(CartRepoMock),
		items:    new(CartItemRepoMock),
		products: new(ProductRepoMock),
		packs:    new(PackRepoMock),
		fees:     new(DeliveryFeeRepoMock),
	}
	f.uc = usecase.NewCartUsecase(f.carts, f.items, f.products, f.packs, f.fees)
	return f
}

func TestCartUsecase_GetCart_Empty_NoDeliveryFee(t *testing.T) {
	f := newCartFixture()
	owner := model.SessionOwner("sess-1")

	f.carts.On("GetOrCreateActive", mock.Anything, owner).Return(model.Cart{ID: 1, Owner: owner}, nil)
	f.items.On("ListByCartID", mock.Anything, int64(1)).Return([]model.CartItem{}, nil)
	f.products.On("FindByIDs", mock.Anything, []int64{}).Return(map[int64]model.Product{}, nil)

	out, err := f.uc.GetCart(context.Background(), owner)
	require.NoError(t, err)
	assert.Empty(t, out.Items)
	assert.True(t, out.TotalWithDelivery.IsZero())
	f.fees.AssertNotCalled(t, "FindActive", mock.Anything)
}

func TestCartUsecase_GetCart_TotalsWithDelivery(t *testing.T) {
	f := newCartFixture()
	owner := model.UserOwner(5)

	f.carts.On("GetOrCreateActive", mock.Anything, owner).Return(model.Cart{ID: 1, Owner: owner}, nil)
	f.items.On("ListByCartID", mock.Anything, int64(1)).Return([]model.CartItem{
		{ID: 1, ProductID: int64Ptr(100), Quantity: 3, UnitPriceSnapshot: decimal.RequireFromString("2.10")},
		{ID: 2, PackID: int64Ptr(7), Quantity: 1, UnitPriceSnapshot: decimal.RequireFromString("15")},
	}, nil)
	f.products.On("FindByIDs", mock.Anything, []int64{100}).Return(map[int64]model.Product{
		100: {ID: 100, Name: "Tea", IsActive: true},
	}, nil)
	f.packs.On("FindByID", mock.Anything, int64(7)).Return(model.Pack{ID: 7, Name: "Tea box", IsActive: true}, nil)
	f.fees.On("FindActive", mock.Anything).Return(model.DeliveryFee{Amount: decimal.RequireFromString("3.50")}, nil)

	out, err := f.uc.GetCart(context.Background(), owner)
	require.NoError(t, err)
	require.Len(t, out.Items, 2)
	assert.Equal(t, "6.3", out.Items[0].TotalPrice.String())
	assert.Equal(t, "21.3", out.Total.String())
	assert.Equal(t, "3.5", out.DeliveryFee.String())
	assert.Equal(t, "24.8", out.TotalWithDelivery.String())
}

func TestCartUsecase_AddToCart_RequiresExactlyOneItemKind(t *testing.T) {
	f := newCartFixture()

	_, err := f.uc.AddToCart(context.Background(), model.SessionOwner("s"), usecase.AddCartInput{Quantity: 1})
	assert.Equal(t, http.StatusUnprocessableEntity, statusOf(t, err))

	_, err = f.uc.AddToCart(context.Background(), model.SessionOwner("s"), usecase.AddCartInput{
		ProductID: int64Ptr(1), PackID: int64Ptr(2), Quantity: 1,
	})
	assert.Equal(t, http.StatusUnprocessableEntity, statusOf(t, err))
}

func TestCartUsecase_AddToCart_StockExceeded(t *testing.T) {
	f := newCartFixture()
	owner := model.SessionOwner("s")

	f.carts.On("GetOrCreateActive", mock.Anything, owner).Return(model.Cart{ID: 1}, nil)
	f.items.On("ListByCartID", mock.Anything, int64(1)).Return([]model.CartItem{
		{ProductID: int64Ptr(100), Quantity: 4},
	}, nil)
	f.products.On("FindByID", mock.Anything, int64(100)).Return(model.Product{ID: 100, Stock: 5, IsActive: true}, nil)

	_, err := f.uc.AddToCart(context.Background(), owner, usecase.AddCartInput{ProductID: int64Ptr(100), Quantity: 2})
	assertErrContains(t, err, "stock exceeded")
	f.items.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestCartUsecase_AddToCart_PackSnapshotsPrice(t *testing.T) {
	f := newCartFixture()
	owner := model.SessionOwner("s")
	pack := model.Pack{ID: 7, Name: "Box", Price: decimal.RequireFromString("19.90"), IsActive: true,
		Items: []model.PackItem{{ProductID: 100, Quantity: 2}}}

	f.carts.On("GetOrCreateActive", mock.Anything, owner).Return(model.Cart{ID: 1}, nil)
	f.items.On("ListByCartID", mock.Anything, int64(1)).Return([]model.CartItem{}, nil).Once()
	f.packs.On("FindByID", mock.Anything, int64(7)).Return(pack, nil)
	f.products.On("FindByIDs", mock.Anything, []int64{100}).Return(map[int64]model.Product{100: {ID: 100, Stock: 10}}, nil)
	f.items.On("Upsert", mock.Anything, mock.MatchedBy(func(it model.CartItem) bool {
		return it.PackID != nil && *it.PackID == 7 && it.ProductID == nil && it.UnitPriceSnapshot.Equal(pack.Price)
	})).Return(nil)
	f.items.On("ListByCartID", mock.Anything, int64(1)).Return([]model.CartItem{
		{ID: 1, PackID: int64Ptr(7), Quantity: 1, UnitPriceSnapshot: pack.Price},
	}, nil)
	f.products.On("FindByIDs", mock.Anything, []int64{}).Return(map[int64]model.Product{}, nil)
	f.fees.On("FindActive", mock.Anything).Return(model.DeliveryFee{}, repo.ErrNotFound)

	out, err := f.uc.AddToCart(context.Background(), owner, usecase.AddCartInput{PackID: int64Ptr(7), Quantity: 1})
	require.NoError(t, err)
	require.Len(t, out.Items, 1)
	assert.Equal(t, "Box", out.Items[0].Name)
	assert.Equal(t, "19.9", out.TotalWithDelivery.String())
}

func TestCartUsecase_UpdateCartItem_NotOwned(t *testing.T) {
	f := newCartFixture()
	owner := model.SessionOwner("s")
	f.items.On("IsOwnedBy", mock.Anything, int64(3), owner).Return(false, nil)

	_, err := f.uc.UpdateCartItem(context.Background(), owner, 3, usecase.UpdateCartItemInput{Quantity: 2})
	assert.Equal(t, http.StatusNotFound, statusOf(t, err))
}

func TestCartUsecase_DeleteCartItem(t *testing.T) {
	f := newCartFixture()
	owner := model.SessionOwner("s")

	f.items.On("IsOwnedBy", mock.Anything, int64(3), owner).Return(true, nil)
	f.items.On("FindByID", mock.Anything, int64(3)).Return(model.CartItem{ID: 3, CartID: 1}, nil)
	f.items.On("DeleteByID", mock.Anything, int64(3)).Return(nil)
	f.items.On("ListByCartID", mock.Anything, int64(1)).Return([]model.CartItem{}, nil)
	f.products.On("FindByIDs", mock.Anything, []int64{}).Return(map[int64]model.Product{}, nil)

	out, err := f.uc.DeleteCartItem(context.Background(), owner, 3)
	require.NoError(t, err)
	assert.Empty(t, out.Items)
	f.items.AssertExpectations(t)
}
