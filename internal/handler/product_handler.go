package handler

import (
	"net/http"

	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// /products, /categories, /packs の公開API
type ProductHandler struct {
	products   *usecase.ProductUsecase
	categories *usecase.CategoryUsecase
	packs      *usecase.PackUsecase
}

// DI
func NewProductHandler(products *usecase.ProductUsecase, categories *usecase.CategoryUsecase, packs *usecase.PackUsecase) *ProductHandler {
	return &ProductHandler{products: products, categories: categories, packs: packs}
}

// 公開カタログのルートを登録
func (h *ProductHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/products", h.list)
	e.GET("/products/:id", h.detail)
	e.GET("/categories", h.listCategories)
	e.GET("/packs", h.listPacks)
	e.GET("/packs/:id", h.packDetail)
}

// 一覧の共通クエリ（管理画面でも使う）
func parseListProductsInput(c echo.Context) (usecase.ListProductsInput, error) {
	// limit（default 20）
	page, limit, err := parsePaging(c, 20)
	if err != nil {
		return usecase.ListProductsInput{}, err
	}

	var minPrice *decimal.Decimal
	if v := c.QueryParam("min_price"); v != "" {
		x, err := decimal.NewFromString(v)
		if err != nil {
			return usecase.ListProductsInput{}, usecase.NewHTTPError(http.StatusBadRequest, "invalid min_price")
		}
		minPrice = &x
	}

	var maxPrice *decimal.Decimal
	if v := c.QueryParam("max_price"); v != "" {
		x, err := decimal.NewFromString(v)
		if err != nil {
			return usecase.ListProductsInput{}, usecase.NewHTTPError(http.StatusBadRequest, "invalid max_price")
		}
		maxPrice = &x
	}

	return usecase.ListProductsInput{
		Page:         page,
		Limit:        limit,
		Q:            c.QueryParam("q"),
		CategorySlug: c.QueryParam("category"),
		MinPrice:     minPrice,
		MaxPrice:     maxPrice,
		Sort:         c.QueryParam("sort"),
	}, nil
}

func (h *ProductHandler) list(c echo.Context) error {
	in, err := parseListProductsInput(c)
	if err != nil {
		return writeError(c, err)
	}

	out, err := h.products.ListPublicProducts(c.Request().Context(), in)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *ProductHandler) detail(c echo.Context) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	p, err := h.products.GetProductDetail(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, p)
}

func (h *ProductHandler) listCategories(c echo.Context) error {
	cs, err := h.categories.List(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, cs)
}

func (h *ProductHandler) listPacks(c echo.Context) error {
	ps, err := h.packs.ListPublic(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, ps)
}

// :id は数値IDでもslugでもよい
func (h *ProductHandler) packDetail(c echo.Context) error {
	p, err := h.packs.GetPublic(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, p)
}
