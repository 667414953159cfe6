package api

import (
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/openkicks/storefront/internal/domain"
	"github.com/openkicks/storefront/internal/service"
)

// ProductHandler serves the read-only catalog routes.
type ProductHandler struct {
	products service.ProductService
}

// NewProductHandler creates a new product handler.
func NewProductHandler(products service.ProductService) *ProductHandler {
	return &ProductHandler{products: products}
}

// List handles GET /api/products
func (h *ProductHandler) List(c echo.Context) error {
	filter := domain.ProductFilter{
		Tag:      c.QueryParam("tag"),
		Category: c.QueryParam("category"),
		Brand:    c.QueryParam("brand"),
	}

	if raw := c.QueryParam("size"); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil {
			return respondError(c, domain.Errorf(domain.EINVALID, "product.list", "Invalid size filter"))
		}
		filter.Size = size
	}

	min, err := priceParam(c, "price_min")
	if err != nil {
		return respondError(c, err)
	}
	filter.PriceMin = min

	max, err := priceParam(c, "price_max")
	if err != nil {
		return respondError(c, err)
	}
	filter.PriceMax = max

	products, err := h.products.ListProducts(c.Request().Context(), filter)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, products)
}

// Get handles GET /api/products/:productId
func (h *ProductHandler) Get(c echo.Context) error {
	product, err := h.products.GetProduct(c.Request().Context(), c.Param("productId"))
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, product)
}

func priceParam(c echo.Context, name string) (*int64, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, domain.Errorf(domain.EINVALID, "product.list", "Invalid %s filter", name)
	}
	return &v, nil
}
