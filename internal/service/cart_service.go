package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"wonder-electronics/internal/domain"
	"wonder-electronics/internal/metrics"
	"wonder-electronics/internal/repository"
)

var (
	ErrOutOfStock        = errors.New("product is out of stock")
	ErrStockLimitReached = errors.New("stock limit reached")
	ErrInvalidColor      = errors.New("color is not offered for this product")
)

// CartLineView is a cart row resolved against the live catalog: name,
// price and discount come from the current product record, not the
// snapshot captured at add time. Lines whose product was deleted fall
// back to the snapshot and are marked unavailable.
type CartLineView struct {
	ProductID      uuid.UUID `json:"productId"`
	Name           string    `json:"name"`
	Image          string    `json:"image"`
	Color          string    `json:"color,omitempty"`
	Quantity       int       `json:"quantity"`
	Price          float64   `json:"price"`
	Discount       int       `json:"discount"`
	EffectivePrice float64   `json:"effectivePrice"`
	LineTotal      float64   `json:"lineTotal"`
	Stock          int       `json:"stock"`
	Unavailable    bool      `json:"unavailable,omitempty"`
}

// CartView is the rendered cart: resolved lines plus totals in USD.
type CartView struct {
	Lines     []CartLineView `json:"lines"`
	ItemCount int            `json:"itemCount"`
	Subtotal  float64        `json:"subtotal"`
	TaxRate   float64        `json:"taxRate"`
	Tax       float64        `json:"tax"`
	Total     float64        `json:"total"`
}

// CartService owns one cart per owner. Every operation reloads the cart
// from the store first; the persisted cart is the only source of truth.
type CartService interface {
	AddLine(ctx context.Context, owner string, productID uuid.UUID, color string) error
	SetQuantity(ctx context.Context, owner string, productID uuid.UUID, color string, quantity int) error
	RemoveLine(ctx context.Context, owner string, productID uuid.UUID, color string) error
	View(ctx context.Context, owner string) (*CartView, error)
	Clear(ctx context.Context, owner string) error
}

type cartService struct {
	carts    repository.CartRepository
	products repository.ProductRepository
	settings repository.SettingsRepository
}

// NewCartService creates a new instance of CartService.
func NewCartService(
	carts repository.CartRepository,
	products repository.ProductRepository,
	settings repository.SettingsRepository,
) CartService {
	return &cartService{carts: carts, products: products, settings: settings}
}

func lineMatches(line domain.CartLine, productID uuid.UUID, color string) bool {
	return line.ProductID == productID && line.Color == color
}

// AddLine puts one unit in the cart. An existing (product, color) line is
// incremented up to the product's current stock; otherwise a new line is
// appended with a snapshot of the product fields.
func (s *cartService) AddLine(ctx context.Context, owner string, productID uuid.UUID, color string) error {
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return err
	}
	if product.Stock <= 0 {
		return ErrOutOfStock
	}
	if color != "" && !product.HasColor(color) {
		return ErrInvalidColor
	}

	lines, err := s.carts.Get(ctx, owner)
	if err != nil {
		return err
	}

	for i := range lines {
		if lineMatches(lines[i], productID, color) {
			if lines[i].Quantity >= product.Stock {
				return ErrStockLimitReached
			}
			lines[i].Quantity++
			metrics.CartMutationsTotal.WithLabelValues("add").Inc()
			return s.carts.Save(ctx, owner, lines)
		}
	}

	lines = append(lines, domain.CartLine{
		ProductID: product.ID,
		Quantity:  1,
		Color:     color,
		Name:      product.Name,
		Price:     product.Price,
		Image:     product.Image,
		Discount:  product.Discount,
	})
	metrics.CartMutationsTotal.WithLabelValues("add").Inc()
	return s.carts.Save(ctx, owner, lines)
}

// SetQuantity updates a line in place. Zero or negative removes the line;
// exceeding the product's current stock is rejected with the quantity
// unchanged.
func (s *cartService) SetQuantity(ctx context.Context, owner string, productID uuid.UUID, color string, quantity int) error {
	if quantity <= 0 {
		return s.RemoveLine(ctx, owner, productID, color)
	}

	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return err
	}
	if quantity > product.Stock {
		return ErrStockLimitReached
	}

	lines, err := s.carts.Get(ctx, owner)
	if err != nil {
		return err
	}
	for i := range lines {
		if lineMatches(lines[i], productID, color) {
			lines[i].Quantity = quantity
			metrics.CartMutationsTotal.WithLabelValues("set_quantity").Inc()
			return s.carts.Save(ctx, owner, lines)
		}
	}
	// Unknown line: nothing to update.
	return nil
}

func (s *cartService) RemoveLine(ctx context.Context, owner string, productID uuid.UUID, color string) error {
	lines, err := s.carts.Get(ctx, owner)
	if err != nil {
		return err
	}
	for i := range lines {
		if lineMatches(lines[i], productID, color) {
			lines = append(lines[:i], lines[i+1:]...)
			metrics.CartMutationsTotal.WithLabelValues("remove").Inc()
			return s.carts.Save(ctx, owner, lines)
		}
	}
	return nil
}

// View resolves every line against the live catalog and computes totals:
// subtotal over effective prices, tax at the configured rate, total as
// their sum.
func (s *cartService) View(ctx context.Context, owner string) (*CartView, error) {
	lines, err := s.carts.Get(ctx, owner)
	if err != nil {
		return nil, err
	}
	settings, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}

	view := &CartView{Lines: []CartLineView{}, TaxRate: settings.TaxRate}
	for _, line := range lines {
		resolved := CartLineView{
			ProductID: line.ProductID,
			Name:      line.Name,
			Image:     line.Image,
			Color:     line.Color,
			Quantity:  line.Quantity,
			Price:     line.Price,
			Discount:  line.Discount,
		}

		product, err := s.products.FindByID(ctx, line.ProductID)
		switch {
		case err == nil:
			resolved.Name = product.Name
			resolved.Image = product.Image
			resolved.Price = product.Price
			resolved.Discount = product.Discount
			resolved.Stock = product.Stock
		case errors.Is(err, repository.ErrProductNotFound):
			resolved.Unavailable = true
		default:
			return nil, err
		}

		resolved.EffectivePrice = resolved.Price * (1 - float64(resolved.Discount)/100)
		resolved.LineTotal = resolved.EffectivePrice * float64(resolved.Quantity)

		view.Lines = append(view.Lines, resolved)
		view.ItemCount += resolved.Quantity
		view.Subtotal += resolved.LineTotal
	}

	view.Tax = view.Subtotal * settings.TaxRate / 100
	view.Total = view.Subtotal + view.Tax
	return view, nil
}

func (s *cartService) Clear(ctx context.Context, owner string) error {
	return s.carts.Clear(ctx, owner)
}
