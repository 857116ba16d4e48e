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

type CategoryRepoMock struct{ mock.Mock }

func (m *CategoryRepoMock) List(ctx context.Context) ([]model.Category, error) {
	args := m.Called(ctx)
	cs, _ := args.Get(0).([]model.Category)
	return cs, args.Error(1)
}

func (m *CategoryRepoMock) FindByID(ctx context.Context, id int64) (model.Category, error) {
	args := m.Called(ctx, id)
	c, _ := args.Get(0).(model.Category)
	return c, args.Error(1)
}

func (m *CategoryRepoMock) FindBySlug(ctx context.Context, slug string) (model.Category, error) {
	panic("not used in usecase tests")
}

func (m *CategoryRepoMock) Create(ctx context.Context, c model.Category) (model.Category, error) {
	args := m.Called(ctx, c)
	out, _ := args.Get(0).(model.Category)
	return out, args.Error(1)
}

func (m *CategoryRepoMock) Update(ctx context.Context, c model.Category) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *CategoryRepoMock) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func TestProductUsecase_ListPublic_Validation(t *testing.T) {
	uc := usecase.NewProductUsecase(new(ProductRepoMock), new(CategoryRepoMock), new(TxManagerMock))
	lo := decimal.RequireFromString("10")
	hi := decimal.RequireFromString("5")

	cases := []struct {
		name string
		in   usecase.ListProductsInput
		want string
	}{
		{"page", usecase.ListProductsInput{Page: 0, Limit: 10}, "invalid page"},
		{"limit", usecase.ListProductsInput{Page: 1, Limit: 0}, "invalid limit"},
		{"sort", usecase.ListProductsInput{Page: 1, Limit: 10, Sort: "name"}, "invalid sort"},
		{"range", usecase.ListProductsInput{Page: 1, Limit: 10, MinPrice: &lo, MaxPrice: &hi}, "min_price must be <= max_price"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := uc.ListPublicProducts(context.Background(), tc.in)
			assertErrContains(t, err, tc.want)
		})
	}
}

func TestProductUsecase_ListPublic_PassesCategoryAndHidesInactive(t *testing.T) {
	products := new(ProductRepoMock)
	products.On("List", mock.Anything, repo.ProductListQuery{
		Page: 2, Limit: 5, Q: "mug", CategorySlug: "kitchen", Sort: "price_asc",
	}).Return([]model.Product{{ID: 1}}, int64(6), nil)

	uc := usecase.NewProductUsecase(products, new(CategoryRepoMock), new(TxManagerMock))
	out, err := uc.ListPublicProducts(context.Background(), usecase.ListProductsInput{
		Page: 2, Limit: 5, Q: " mug ", CategorySlug: "kitchen", Sort: "price_asc",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(6), out.Total)
	assert.Equal(t, 2, out.Page)
}

func TestProductUsecase_GetProductDetail_InactiveIsNotFound(t *testing.T) {
	products := new(ProductRepoMock)
	products.On("FindByID", mock.Anything, int64(1)).Return(model.Product{ID: 1, IsActive: false}, nil)

	uc := usecase.NewProductUsecase(products, new(CategoryRepoMock), new(TxManagerMock))
	_, err := uc.GetProductDetail(context.Background(), 1)
	assert.Equal(t, http.StatusNotFound, statusOf(t, err))
}

func TestProductUsecase_AdminCreate_SlugFromName(t *testing.T) {
	products := new(ProductRepoMock)
	products.On("Create", mock.Anything, mock.MatchedBy(func(p model.Product) bool {
		return p.Slug == "blue-mug-350ml" && p.Price.String() == "9.99"
	})).Return(model.Product{ID: 8, Slug: "blue-mug-350ml"}, nil)

	uc := usecase.NewProductUsecase(products, new(CategoryRepoMock), new(TxManagerMock))
	p, err := uc.AdminCreateProduct(context.Background(), 1, usecase.AdminProductInput{
		Name: "Blue Mug (350ml)", Price: decimal.RequireFromString("9.989"), Stock: 3,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(8), p.ID)
}

func TestProductUsecase_AdminCreate_Conflict(t *testing.T) {
	products := new(ProductRepoMock)
	products.On("Create", mock.Anything, mock.Anything).Return(model.Product{}, repo.ErrConflict)

	uc := usecase.NewProductUsecase(products, new(CategoryRepoMock), new(TxManagerMock))
	_, err := uc.AdminCreateProduct(context.Background(), 1, usecase.AdminProductInput{Name: "Mug", Price: decimal.NewFromInt(1)})
	assert.Equal(t, http.StatusConflict, statusOf(t, err))
}

func TestProductUsecase_AdminCreate_UnknownCategory(t *testing.T) {
	categories := new(CategoryRepoMock)
	categories.On("FindByID", mock.Anything, int64(9)).Return(model.Category{}, repo.ErrNotFound)

	uc := usecase.NewProductUsecase(new(ProductRepoMock), categories, new(TxManagerMock))
	_, err := uc.AdminCreateProduct(context.Background(), 1, usecase.AdminProductInput{
		Name: "Mug", Price: decimal.NewFromInt(1), CategoryID: int64Ptr(9),
	})
	he, ok := usecase.AsHTTPError(err)
	require.True(t, ok)
	assert.Equal(t, "category not found", he.Fields["category_id"])
}

func TestProductUsecase_AdminUpdateInventory_AdjustmentAndAudit(t *testing.T) {
	tx := new(TxManagerMock)
	inventory := new(InventoryRepoMock)
	audit := new(AuditRepoMock)
	tx.Repos = &TxReposMock{inventory: inventory, auditLogs: audit}
	tx.On("WithinTx", mock.Anything).Return(nil)

	inventory.On("SetStock", mock.Anything, int64(5), int64(12)).Return(int64(20), nil)
	inventory.On("CreateAdjustment", mock.Anything, mock.MatchedBy(func(a model.InventoryAdjustment) bool {
		return a.StockBefore == 20 && a.StockAfter == 12 && a.Delta == -8 && a.Reason == "inventory count"
	})).Return(nil)

	var logged model.AuditLog
	audit.On("Create", mock.Anything, mock.AnythingOfType("model.AuditLog")).
		Run(func(args mock.Arguments) { logged = args.Get(1).(model.AuditLog) }).
		Return(nil)

	uc := usecase.NewProductUsecase(new(ProductRepoMock), new(CategoryRepoMock), tx)
	adj, err := uc.AdminUpdateInventory(context.Background(), 2, 5, 12, " inventory count ")
	require.NoError(t, err)
	assert.Equal(t, int64(-8), adj.Delta)

	assert.Equal(t, model.AuditActionUpdateStock, logged.Action)
	assert.JSONEq(t, `{"stock":20}`, logged.BeforeJSON)
	assert.JSONEq(t, `{"stock":12}`, logged.AfterJSON)
	inventory.AssertExpectations(t)
}

func TestProductUsecase_AdminUpdateInventory_Validation(t *testing.T) {
	uc := usecase.NewProductUsecase(new(ProductRepoMock), new(CategoryRepoMock), new(TxManagerMock))

	_, err := uc.AdminUpdateInventory(context.Background(), 1, 5, -1, "x")
	assert.Equal(t, http.StatusUnprocessableEntity, statusOf(t, err))

	_, err = uc.AdminUpdateInventory(context.Background(), 1, 5, 1, "  ")
	assert.Equal(t, http.StatusUnprocessableEntity, statusOf(t, err))
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "hello-world", usecase.Slugify("  Hello, World! "))
	assert.Equal(t, "a-b", usecase.Slugify("a---b"))
	assert.Equal(t, "", usecase.Slugify("!!!"))
}

func TestCategoryUsecase_Create_Conflict(t *testing.T) {
	categories := new(CategoryRepoMock)
	categories.On("Create", mock.Anything, model.Category{Name: "Kitchen", Slug: "kitchen"}).Return(model.Category{}, repo.ErrConflict)

	_, err := usecase.NewCategoryUsecase(categories).Create(context.Background(), usecase.CategoryInput{Name: "Kitchen"})
	assert.Equal(t, http.StatusConflict, statusOf(t, err))
}

func TestPackUsecase_Create_ValidatesItems(t *testing.T) {
	products := new(ProductRepoMock)
	products.On("FindByIDs", mock.Anything, []int64{1, 2}).Return(map[int64]model.Product{1: {ID: 1}}, nil)

	uc := usecase.NewPackUsecase(new(PackRepoMock), products)
	_, err := uc.Create(context.Background(), usecase.PackInput{
		Name:  "Box",
		Price: decimal.NewFromInt(10),
		Items: []usecase.PackItemInput{{ProductID: 1, Quantity: 1}, {ProductID: 2, Quantity: 1}},
	})
	he, ok := usecase.AsHTTPError(err)
	require.True(t, ok)
	assert.Equal(t, "product not found", he.Fields["items[1].product_id"])
}

func TestPackUsecase_GetPublic_BySlugOrID(t *testing.T) {
	packs := new(PackRepoMock)
	packs.On("FindByID", mock.Anything, int64(3)).Return(model.Pack{ID: 3, IsActive: true}, nil)
	packs.On("FindBySlug", mock.Anything, "tea-box").Return(model.Pack{ID: 4, IsActive: false}, nil)

	uc := usecase.NewPackUsecase(packs, new(ProductRepoMock))

	p, err := uc.GetPublic(context.Background(), "3")
	require.NoError(t, err)
	assert.Equal(t, int64(3), p.ID)

	_, err = uc.GetPublic(context.Background(), "tea-box")
	assert.Equal(t, http.StatusNotFound, statusOf(t, err))
}

func TestDeliveryFeeUsecase_Active_None(t *testing.T) {
	fees := new(DeliveryFeeRepoMock)
	fees.On("FindActive", mock.Anything).Return(model.DeliveryFee{}, repo.ErrNotFound)

	_, err := usecase.NewDeliveryFeeUsecase(fees).Active(context.Background())
	assert.Equal(t, http.StatusNotFound, statusOf(t, err))
}

func TestDeliveryFeeUsecase_Create_NegativeAmount(t *testing.T) {
	_, err := usecase.NewDeliveryFeeUsecase(new(DeliveryFeeRepoMock)).Create(context.Background(), usecase.DeliveryFeeInput{
		Name: "Standard", Amount: decimal.RequireFromString("-1"),
	})
	he, ok := usecase.AsHTTPError(err)
	require.True(t, ok)
	assert.Equal(t, "must be >= 0", he.Fields["amount"])
}
