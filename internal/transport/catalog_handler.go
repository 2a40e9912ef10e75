package transport

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"wonder-electronics/internal/domain"
	"wonder-electronics/internal/middleware"
	"wonder-electronics/internal/repository"
	"wonder-electronics/internal/service"
)

// ProductRequest represents the admin create/edit product payload
type ProductRequest struct {
	Name        string   `json:"name" validate:"required"`
	Price       float64  `json:"price" validate:"required,gt=0"`
	Category    string   `json:"category" validate:"required"`
	Description string   `json:"description"`
	Brand       string   `json:"brand"`
	Image       string   `json:"image"`
	Images      []string `json:"images"`
	Stock       int      `json:"stock" validate:"gte=0"`
	Colors      []string `json:"colors"`
}

// DiscountRequest represents the set-discount payload
type DiscountRequest struct {
	Discount int `json:"discount" validate:"gte=0,lte=100"`
}

// CategoryRequest represents the add-category payload
type CategoryRequest struct {
	DisplayName string `json:"displayName" validate:"required"`
	Icon        string `json:"icon"`
	Description string `json:"description"`
}

// RenameCategoryRequest represents the rename-category payload
type RenameCategoryRequest struct {
	DisplayName string `json:"displayName" validate:"required"`
}

// ProductView is a product decorated with converted display prices in
// the requested currency. Stock is zeroed when the stock-visibility
// setting is off and the requester is not an admin; InStock survives so
// the storefront can still show availability.
type ProductView struct {
	domain.Product
	InStock                 bool    `json:"inStock"`
	EffectivePrice          float64 `json:"effectivePrice"`
	FormattedPrice          string  `json:"formattedPrice"`
	FormattedEffectivePrice string  `json:"formattedEffectivePrice"`
}

// CatalogHandler handles HTTP requests for products and categories
type CatalogHandler struct {
	catalog  service.CatalogService
	currency *service.CurrencyService
	settings repository.SettingsRepository
	logger   *zap.Logger
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(catalog service.CatalogService, currency *service.CurrencyService, settings repository.SettingsRepository, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalog:  catalog,
		currency: currency,
		settings: settings,
		logger:   logger,
	}
}

// RegisterRoutes registers catalog routes
func (h *CatalogHandler) RegisterRoutes(r chi.Router, optionalAuth, authMiddleware, adminMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/products", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(optionalAuth)
			r.Get("/", h.ListProducts)
			r.Get("/search", h.SearchProducts)
			r.Get("/{id}", h.GetProduct)
		})

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware, adminMiddleware)
			r.Post("/", h.AddProduct)
			r.Put("/{id}", h.EditProduct)
			r.Delete("/{id}", h.DeleteProduct)
			r.Put("/{id}/discount", h.SetDiscount)
			r.Post("/{id}/toggle-condition", h.ToggleCondition)
			r.Get("/export", h.ExportProducts)
			r.Post("/import", h.ImportProducts)
		})
	})

	r.Route("/api/categories", func(r chi.Router) {
		r.Get("/", h.ListCategories)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware, adminMiddleware)
			r.Post("/", h.AddCategory)
			r.Put("/{id}", h.RenameCategory)
			r.Delete("/{id}", h.DeleteCategory)
		})
	})
}

// productViews decorates products with display prices in the currency
// named by the ?currency= query parameter, defaulting to the site
// currency from settings.
func (h *CatalogHandler) productViews(r *http.Request, products []domain.Product) ([]ProductView, error) {
	currency, rates, err := h.currency.Resolve(r.Context(), r.URL.Query().Get("currency"))
	if err != nil {
		return nil, err
	}

	settings, err := h.settings.Get(r.Context())
	if err != nil {
		return nil, err
	}
	role, _ := middleware.GetUserRole(r.Context())
	hideStock := !settings.ShowStockQuantity && role != domain.RoleAdmin

	views := make([]ProductView, 0, len(products))
	for _, p := range products {
		formatted, err := service.Format(p.Price, currency, rates)
		if err != nil {
			return nil, err
		}
		formattedEffective, err := service.Format(p.EffectivePrice(), currency, rates)
		if err != nil {
			return nil, err
		}
		view := ProductView{
			Product:                 p,
			InStock:                 p.Stock > 0,
			EffectivePrice:          p.EffectivePrice(),
			FormattedPrice:          formatted,
			FormattedEffectivePrice: formattedEffective,
		}
		if hideStock {
			view.Product.Stock = 0
		}
		views = append(views, view)
	}
	return views, nil
}

// ListProducts returns the catalog, optionally filtered by ?category=
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.ListProducts(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		h.logger.Error("Failed to list products", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list products")
		return
	}

	views, err := h.productViews(r, products)
	if err != nil {
		h.logger.Error("Failed to build product views", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list products")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, views)
}

// SearchProducts returns products matching ?q= across name, description,
// category and brand
func (h *CatalogHandler) SearchProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.SearchProducts(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		h.logger.Error("Failed to search products", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to search products")
		return
	}

	views, err := h.productViews(r, products)
	if err != nil {
		h.logger.Error("Failed to build product views", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to search products")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, views)
}

// GetProduct returns a single product
func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product ID")
		return
	}

	product, err := h.catalog.GetProduct(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
			return
		}
		h.logger.Error("Failed to get product", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to get product")
		return
	}

	views, err := h.productViews(r, []domain.Product{*product})
	if err != nil {
		h.logger.Error("Failed to build product view", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to get product")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, views[0])
}

func productFromRequest(req ProductRequest) domain.Product {
	return domain.Product{
		Name:        req.Name,
		Price:       req.Price,
		Category:    req.Category,
		Description: req.Description,
		Brand:       req.Brand,
		Image:       req.Image,
		Images:      req.Images,
		Stock:       req.Stock,
		Colors:      req.Colors,
	}
}

// AddProduct creates a product
func (h *CatalogHandler) AddProduct(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	product := productFromRequest(req)
	product.ID = uuid.New()
	if err := h.catalog.AddProduct(r.Context(), &product); err != nil {
		h.logger.Error("Failed to add product", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to add product")
		return
	}

	h.logger.Info("Product added", zap.String("product_id", product.ID.String()), zap.String("name", product.Name))
	middleware.RespondWithJSON(w, http.StatusCreated, product)
}

// EditProduct updates a product's form fields, preserving discount,
// condition and colors
func (h *CatalogHandler) EditProduct(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product ID")
		return
	}

	var req ProductRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	product := productFromRequest(req)
	product.ID = id
	if err := h.catalog.EditProduct(r.Context(), &product); err != nil {
		h.logger.Error("Failed to edit product", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to edit product")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "product updated"})
}

// DeleteProduct removes a product
func (h *CatalogHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product ID")
		return
	}

	if err := h.catalog.DeleteProduct(r.Context(), id); err != nil {
		h.logger.Error("Failed to delete product", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to delete product")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "product deleted"})
}

// SetDiscount sets a product's discount percentage
func (h *CatalogHandler) SetDiscount(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product ID")
		return
	}

	var req DiscountRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.catalog.SetDiscount(r.Context(), id, req.Discount); err != nil {
		if errors.Is(err, service.ErrInvalidDiscount) {
			middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("Failed to set discount", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to set discount")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "discount updated"})
}

// ToggleCondition flips a product between new and second-hand
func (h *CatalogHandler) ToggleCondition(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product ID")
		return
	}

	if err := h.catalog.ToggleCondition(r.Context(), id); err != nil {
		h.logger.Error("Failed to toggle condition", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to toggle condition")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "condition toggled"})
}

// ExportProducts returns the raw catalog for backup
func (h *CatalogHandler) ExportProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.ExportProducts(r.Context())
	if err != nil {
		h.logger.Error("Failed to export products", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to export products")
		return
	}

	w.Header().Set("Content-Disposition", `attachment; filename="products.json"`)
	middleware.RespondWithJSON(w, http.StatusOK, products)
}

// ImportProducts replaces the catalog with an uploaded backup
func (h *CatalogHandler) ImportProducts(w http.ResponseWriter, r *http.Request) {
	var products []domain.Product
	if err := json.NewDecoder(r.Body).Decode(&products); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.catalog.ImportProducts(r.Context(), products); err != nil {
		if errors.Is(err, service.ErrInvalidImportData) {
			middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("Failed to import products", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to import products")
		return
	}

	h.logger.Info("Catalog imported", zap.Int("products", len(products)))
	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "catalog imported"})
}

// ListCategories returns categories with product counts
func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalog.ListCategories(r.Context())
	if err != nil {
		h.logger.Error("Failed to list categories", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list categories")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, categories)
}

// AddCategory creates a category
func (h *CatalogHandler) AddCategory(w http.ResponseWriter, r *http.Request) {
	var req CategoryRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	category, err := h.catalog.AddCategory(r.Context(), req.DisplayName, req.Icon, req.Description)
	if err != nil {
		if errors.Is(err, repository.ErrCategoryAlreadyExists) {
			middleware.RespondWithError(w, http.StatusConflict, "category already exists")
			return
		}
		h.logger.Error("Failed to add category", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to add category")
		return
	}

	middleware.RespondWithJSON(w, http.StatusCreated, category)
}

// RenameCategory changes a category's display name
func (h *CatalogHandler) RenameCategory(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid category ID")
		return
	}

	var req RenameCategoryRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.catalog.RenameCategory(r.Context(), id, req.DisplayName); err != nil {
		h.logger.Error("Failed to rename category", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to rename category")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "category renamed"})
}

// DeleteCategory removes a category if it is deletable
func (h *CatalogHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid category ID")
		return
	}

	if err := h.catalog.DeleteCategory(r.Context(), id); err != nil {
		if errors.Is(err, service.ErrDefaultCategory) || errors.Is(err, service.ErrCategoryInUse) {
			middleware.RespondWithError(w, http.StatusConflict, err.Error())
			return
		}
		h.logger.Error("Failed to delete category", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to delete category")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "category deleted"})
}
