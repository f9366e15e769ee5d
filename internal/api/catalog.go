package api

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"craftstore/internal/entity"
	"craftstore/internal/service"
)

type CatalogHandler struct {
	catalog *service.CatalogService
}

func NewCatalogHandler(catalog *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// ListCategories --> GET /categories (storefront: active only)
func (h *CatalogHandler) ListCategories(c echo.Context) error {
	activeOnly := c.QueryParam("all") != "true"
	categories, err := h.catalog.ListCategories(c.Request().Context(), activeOnly)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, categories)
}

// GetCategory --> GET /categories/:id (works for deactivated categories too)
func (h *CatalogHandler) GetCategory(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid ID"})
	}
	category, err := h.catalog.GetCategory(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, category)
}

// CreateCategory --> POST /admin/categories
func (h *CatalogHandler) CreateCategory(c echo.Context) error {
	req := struct {
		Name string `json:"name"`
	}{}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request payload"})
	}
	category, err := h.catalog.CreateCategory(c.Request().Context(), req.Name)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, category)
}

// RenameCategory --> PUT /admin/categories/:id
func (h *CatalogHandler) RenameCategory(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid ID"})
	}
	req := struct {
		Name string `json:"name"`
	}{}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request payload"})
	}
	category, err := h.catalog.RenameCategory(c.Request().Context(), id, req.Name)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, category)
}

// SetCategoryActive --> PUT /admin/categories/:id/active
func (h *CatalogHandler) SetCategoryActive(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid ID"})
	}
	req := struct {
		Active bool `json:"active"`
	}{}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request payload"})
	}
	ctx := c.Request().Context()
	if req.Active {
		err = h.catalog.ActivateCategory(ctx, id)
	} else {
		err = h.catalog.DeactivateCategory(ctx, id)
	}
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Category updated"})
}

// ListProducts --> GET /categories/:id/products
func (h *CatalogHandler) ListProducts(c echo.Context) error {
	categoryID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid ID"})
	}
	products, err := h.catalog.ListProductsByCategory(c.Request().Context(), categoryID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, products)
}

// GetProduct --> GET /products/:id (cached product detail with variants)
func (h *CatalogHandler) GetProduct(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid ID"})
	}
	detail, err := h.catalog.GetProduct(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, detail)
}

// CreateProduct --> POST /admin/products
func (h *CatalogHandler) CreateProduct(c echo.Context) error {
	product := entity.Product{}
	if err := c.Bind(&product); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request payload"})
	}
	created, err := h.catalog.CreateProduct(c.Request().Context(), &product)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, created)
}

// UpdateProduct --> PUT /admin/products/:id
func (h *CatalogHandler) UpdateProduct(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid ID"})
	}
	product := entity.Product{}
	if err := c.Bind(&product); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request payload"})
	}
	product.ID = id
	updated, err := h.catalog.UpdateProduct(c.Request().Context(), &product)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, updated)
}

// SetProductActive --> PUT /admin/products/:id/active
func (h *CatalogHandler) SetProductActive(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid ID"})
	}
	req := struct {
		Active bool `json:"active"`
	}{}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request payload"})
	}
	ctx := c.Request().Context()
	if req.Active {
		err = h.catalog.ActivateProduct(ctx, id)
	} else {
		err = h.catalog.DeactivateProduct(ctx, id)
	}
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Product updated"})
}

// CreateVariant --> POST /admin/variants
func (h *CatalogHandler) CreateVariant(c echo.Context) error {
	variant := entity.Variant{}
	if err := c.Bind(&variant); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request payload"})
	}
	created, err := h.catalog.CreateVariant(c.Request().Context(), &variant)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, created)
}

// UpdateVariant --> PUT /admin/variants/:id
func (h *CatalogHandler) UpdateVariant(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid ID"})
	}
	variant := entity.Variant{}
	if err := c.Bind(&variant); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request payload"})
	}
	variant.ID = id
	updated, err := h.catalog.UpdateVariant(c.Request().Context(), &variant)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, updated)
}

// ListPromotions --> GET /admin/promotions
func (h *CatalogHandler) ListPromotions(c echo.Context) error {
	promotions, err := h.catalog.ListPromotions(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, promotions)
}

// CreatePromotion --> POST /admin/promotions
func (h *CatalogHandler) CreatePromotion(c echo.Context) error {
	promotion := entity.Promotion{}
	if err := c.Bind(&promotion); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request payload"})
	}
	created, err := h.catalog.CreatePromotion(c.Request().Context(), &promotion)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, created)
}

// UpdatePromotion --> PUT /admin/promotions/:id
func (h *CatalogHandler) UpdatePromotion(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid ID"})
	}
	promotion := entity.Promotion{}
	if err := c.Bind(&promotion); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request payload"})
	}
	promotion.ID = id
	updated, err := h.catalog.UpdatePromotion(c.Request().Context(), &promotion)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, updated)
}

// SetPromotionActive --> PUT /admin/promotions/:id/active
func (h *CatalogHandler) SetPromotionActive(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid ID"})
	}
	req := struct {
		Active bool `json:"active"`
	}{}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request payload"})
	}
	if err := h.catalog.SetPromotionActive(c.Request().Context(), id, req.Active); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Promotion updated"})
}

// AttachPromotion --> POST /admin/promotions/:id/variants/:variantId
func (h *CatalogHandler) AttachPromotion(c echo.Context) error {
	promotionID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid ID"})
	}
	variantID, err := strconv.Atoi(c.Param("variantId"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid variant ID"})
	}
	if err := h.catalog.AttachPromotion(c.Request().Context(), promotionID, variantID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Promotion attached"})
}

// DetachPromotion --> DELETE /admin/promotions/:id/variants/:variantId
func (h *CatalogHandler) DetachPromotion(c echo.Context) error {
	promotionID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid ID"})
	}
	variantID, err := strconv.Atoi(c.Param("variantId"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid variant ID"})
	}
	if err := h.catalog.DetachPromotion(c.Request().Context(), promotionID, variantID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Promotion detached"})
}
