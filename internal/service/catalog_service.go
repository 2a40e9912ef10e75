package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"wonder-electronics/internal/domain"
	"wonder-electronics/internal/repository"
)

var (
	ErrInvalidDiscount   = errors.New("discount must be between 0 and 100")
	ErrDefaultCategory   = errors.New("cannot delete a default category")
	ErrCategoryInUse     = errors.New("cannot delete a category that still has products")
	ErrInvalidImportData = errors.New("import data is not a valid product list")
)

// CategorySummary is the admin category card: the category plus the
// number of products currently referencing it.
type CategorySummary struct {
	domain.Category
	ProductCount int `json:"productCount"`
}

// CatalogService owns products and categories and the business rules
// guarding their mutation. Admin mutations on unknown ids are silent
// no-ops, matching the storefront's original contract.
type CatalogService interface {
	ListProducts(ctx context.Context, category string) ([]domain.Product, error)
	SearchProducts(ctx context.Context, query string) ([]domain.Product, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	AddProduct(ctx context.Context, product *domain.Product) error
	EditProduct(ctx context.Context, product *domain.Product) error
	SetDiscount(ctx context.Context, id uuid.UUID, discount int) error
	ToggleCondition(ctx context.Context, id uuid.UUID) error
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	ExportProducts(ctx context.Context) ([]domain.Product, error)
	ImportProducts(ctx context.Context, products []domain.Product) error

	ListCategories(ctx context.Context) ([]CategorySummary, error)
	AddCategory(ctx context.Context, displayName, icon, description string) (*domain.Category, error)
	RenameCategory(ctx context.Context, id uuid.UUID, displayName string) error
	DeleteCategory(ctx context.Context, id uuid.UUID) error
}

type catalogService struct {
	products   repository.ProductRepository
	categories repository.CategoryRepository
}

// NewCatalogService creates a new instance of CatalogService.
func NewCatalogService(products repository.ProductRepository, categories repository.CategoryRepository) CatalogService {
	return &catalogService{products: products, categories: categories}
}

func (s *catalogService) ListProducts(ctx context.Context, category string) ([]domain.Product, error) {
	return s.products.ListByCategory(ctx, category)
}

func (s *catalogService) SearchProducts(ctx context.Context, query string) ([]domain.Product, error) {
	return s.products.Search(ctx, query)
}

func (s *catalogService) GetProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	return s.products.FindByID(ctx, id)
}

func (s *catalogService) AddProduct(ctx context.Context, product *domain.Product) error {
	if product.Discount < 0 || product.Discount > 100 {
		return ErrInvalidDiscount
	}
	if product.Condition == "" {
		product.Condition = domain.ConditionNew
	}
	if err := s.products.Create(ctx, product); err != nil {
		return fmt.Errorf("failed to add product: %w", err)
	}
	return nil
}

// EditProduct replaces the stored record. The edit form does not carry
// discount, condition or colors, so those are preserved from the current
// record rather than reset.
func (s *catalogService) EditProduct(ctx context.Context, product *domain.Product) error {
	current, err := s.products.FindByID(ctx, product.ID)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil
		}
		return err
	}

	product.Discount = current.Discount
	product.Condition = current.Condition
	if product.Colors == nil {
		product.Colors = current.Colors
	}
	if product.Images == nil {
		product.Images = current.Images
	}
	return s.products.Update(ctx, product)
}

func (s *catalogService) SetDiscount(ctx context.Context, id uuid.UUID, discount int) error {
	if discount < 0 || discount > 100 {
		return ErrInvalidDiscount
	}
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil
		}
		return err
	}
	product.Discount = discount
	return s.products.Update(ctx, product)
}

func (s *catalogService) ToggleCondition(ctx context.Context, id uuid.UUID) error {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil
		}
		return err
	}
	product.Condition = product.Condition.Toggle()
	return s.products.Update(ctx, product)
}

func (s *catalogService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	err := s.products.Delete(ctx, id)
	if errors.Is(err, repository.ErrProductNotFound) {
		return nil
	}
	return err
}

func (s *catalogService) ExportProducts(ctx context.Context) ([]domain.Product, error) {
	return s.products.List(ctx)
}

// ImportProducts replaces the catalog with an admin-supplied list, after
// checking every record carries the required fields.
func (s *catalogService) ImportProducts(ctx context.Context, products []domain.Product) error {
	for i := range products {
		p := &products[i]
		if p.Name == "" || p.Price < 0 {
			return ErrInvalidImportData
		}
		if p.ID == uuid.Nil {
			p.ID = uuid.New()
		}
		if p.Condition == "" {
			p.Condition = domain.ConditionNew
		}
		if p.Discount < 0 || p.Discount > 100 {
			return ErrInvalidImportData
		}
	}
	return s.products.Replace(ctx, products)
}

func (s *catalogService) ListCategories(ctx context.Context) ([]CategorySummary, error) {
	categories, err := s.categories.List(ctx)
	if err != nil {
		return nil, err
	}
	products, err := s.products.List(ctx)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	for _, p := range products {
		counts[p.Category]++
	}

	summaries := make([]CategorySummary, 0, len(categories))
	for _, c := range categories {
		summaries = append(summaries, CategorySummary{Category: c, ProductCount: counts[c.Name]})
	}
	return summaries, nil
}

func (s *catalogService) AddCategory(ctx context.Context, displayName, icon, description string) (*domain.Category, error) {
	category := &domain.Category{
		ID:          uuid.New(),
		Name:        domain.Slugify(displayName),
		DisplayName: displayName,
		Icon:        icon,
		Description: description,
	}
	if err := s.categories.Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *catalogService) RenameCategory(ctx context.Context, id uuid.UUID, displayName string) error {
	category, err := s.categories.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return nil
		}
		return err
	}
	category.DisplayName = displayName
	return s.categories.Update(ctx, category)
}

// DeleteCategory runs the business guards before removal: default
// categories and categories still referenced by products are rejected.
func (s *catalogService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	category, err := s.categories.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return nil
		}
		return err
	}
	if category.IsDefault {
		return ErrDefaultCategory
	}

	products, err := s.products.List(ctx)
	if err != nil {
		return err
	}
	for _, p := range products {
		if p.Category == category.Name {
			return fmt.Errorf("%w: %s", ErrCategoryInUse, category.DisplayName)
		}
	}

	return s.categories.Delete(ctx, id)
}
