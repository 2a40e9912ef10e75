package service

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/google/uuid"

	"wonder-electronics/internal/domain"
	"wonder-electronics/internal/events"
	"wonder-electronics/internal/repository"
	"wonder-electronics/internal/store"
)

func newTestCartService(t *testing.T) (CartService, repository.ProductRepository, repository.SettingsRepository) {
	t.Helper()
	s := store.NewMemory()
	bus := events.NewBus()
	products := repository.NewProductRepository(s, bus)
	settings := repository.NewSettingsRepository(s, bus)
	carts := repository.NewCartRepository(s, bus)
	return NewCartService(carts, products, settings), products, settings
}

func createProduct(t *testing.T, products repository.ProductRepository, p domain.Product) domain.Product {
	t.Helper()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.Condition == "" {
		p.Condition = domain.ConditionNew
	}
	if err := products.Create(context.Background(), &p); err != nil {
		t.Fatalf("creating product: %v", err)
	}
	return p
}

func TestAddLineStockChecks(t *testing.T) {
	svc, products, _ := newTestCartService(t)
	ctx := context.Background()

	soldOut := createProduct(t, products, domain.Product{Name: "Sold Out Speaker", Price: 40, Stock: 0})
	if err := svc.AddLine(ctx, "guest_a", soldOut.ID, ""); !errors.Is(err, ErrOutOfStock) {
		t.Errorf("expected ErrOutOfStock, got %v", err)
	}

	scarce := createProduct(t, products, domain.Product{Name: "Limited Keyboard", Price: 90, Stock: 2})
	if err := svc.AddLine(ctx, "guest_a", scarce.ID, ""); err != nil {
		t.Fatalf("first add: %v", err)
	}
	if err := svc.AddLine(ctx, "guest_a", scarce.ID, ""); err != nil {
		t.Fatalf("second add: %v", err)
	}
	if err := svc.AddLine(ctx, "guest_a", scarce.ID, ""); !errors.Is(err, ErrStockLimitReached) {
		t.Errorf("expected ErrStockLimitReached, got %v", err)
	}

	view, err := svc.View(ctx, "guest_a")
	if err != nil {
		t.Fatalf("viewing cart: %v", err)
	}
	if view.ItemCount != 2 {
		t.Errorf("item count %d, want 2", view.ItemCount)
	}
}

func TestAddLineRejectsUnknownColor(t *testing.T) {
	svc, products, _ := newTestCartService(t)
	ctx := context.Background()

	phone := createProduct(t, products, domain.Product{
		Name: "Colorway Phone", Price: 700, Stock: 5,
		Colors: []string{"black", "silver"},
	})

	if err := svc.AddLine(ctx, "guest_b", phone.ID, "magenta"); !errors.Is(err, ErrInvalidColor) {
		t.Errorf("expected ErrInvalidColor, got %v", err)
	}
	if err := svc.AddLine(ctx, "guest_b", phone.ID, "silver"); err != nil {
		t.Errorf("offered color should be accepted, got %v", err)
	}
}

func TestSetQuantity(t *testing.T) {
	svc, products, _ := newTestCartService(t)
	ctx := context.Background()

	p := createProduct(t, products, domain.Product{Name: "Desk Lamp", Price: 30, Stock: 4})
	if err := svc.AddLine(ctx, "guest_c", p.ID, ""); err != nil {
		t.Fatalf("adding line: %v", err)
	}

	if err := svc.SetQuantity(ctx, "guest_c", p.ID, "", 9); !errors.Is(err, ErrStockLimitReached) {
		t.Errorf("quantity above stock: expected ErrStockLimitReached, got %v", err)
	}
	view, err := svc.View(ctx, "guest_c")
	if err != nil {
		t.Fatalf("viewing cart: %v", err)
	}
	if view.Lines[0].Quantity != 1 {
		t.Errorf("rejected update must leave quantity unchanged, got %d", view.Lines[0].Quantity)
	}

	if err := svc.SetQuantity(ctx, "guest_c", p.ID, "", 3); err != nil {
		t.Fatalf("setting quantity: %v", err)
	}
	view, _ = svc.View(ctx, "guest_c")
	if view.Lines[0].Quantity != 3 {
		t.Errorf("quantity %d, want 3", view.Lines[0].Quantity)
	}

	if err := svc.SetQuantity(ctx, "guest_c", p.ID, "", 0); err != nil {
		t.Fatalf("zero quantity: %v", err)
	}
	view, _ = svc.View(ctx, "guest_c")
	if len(view.Lines) != 0 {
		t.Errorf("zero quantity should remove the line, %d lines remain", len(view.Lines))
	}

	if err := svc.SetQuantity(ctx, "guest_c", p.ID, "", 2); err != nil {
		t.Errorf("updating an absent line should be a no-op, got %v", err)
	}
}

func TestViewResolvesLiveCatalog(t *testing.T) {
	svc, products, settings := newTestCartService(t)
	ctx := context.Background()

	p := createProduct(t, products, domain.Product{Name: "Monitor", Price: 200, Stock: 10})
	if err := svc.AddLine(ctx, "guest_d", p.ID, ""); err != nil {
		t.Fatalf("adding line: %v", err)
	}
	if err := svc.SetQuantity(ctx, "guest_d", p.ID, "", 2); err != nil {
		t.Fatalf("setting quantity: %v", err)
	}

	// Admin cuts the price and adds a discount after the add.
	p.Price = 150
	p.Discount = 10
	if err := products.Update(ctx, &p); err != nil {
		t.Fatalf("updating product: %v", err)
	}

	view, err := svc.View(ctx, "guest_d")
	if err != nil {
		t.Fatalf("viewing cart: %v", err)
	}
	line := view.Lines[0]
	if line.Price != 150 || line.Discount != 10 {
		t.Errorf("line not resolved against live catalog: %+v", line)
	}
	wantEffective := 150 * 0.9
	if math.Abs(line.EffectivePrice-wantEffective) > 1e-9 {
		t.Errorf("effective price %v, want %v", line.EffectivePrice, wantEffective)
	}
	wantSubtotal := wantEffective * 2
	if math.Abs(view.Subtotal-wantSubtotal) > 1e-9 {
		t.Errorf("subtotal %v, want %v", view.Subtotal, wantSubtotal)
	}

	stored, err := settings.Get(ctx)
	if err != nil {
		t.Fatalf("reading settings: %v", err)
	}
	wantTax := wantSubtotal * stored.TaxRate / 100
	if math.Abs(view.Tax-wantTax) > 1e-9 {
		t.Errorf("tax %v, want %v at rate %v", view.Tax, wantTax, stored.TaxRate)
	}
	if math.Abs(view.Total-(wantSubtotal+wantTax)) > 1e-9 {
		t.Errorf("total %v, want %v", view.Total, wantSubtotal+wantTax)
	}
}

func TestViewMarksDeletedProductsUnavailable(t *testing.T) {
	svc, products, _ := newTestCartService(t)
	ctx := context.Background()

	p := createProduct(t, products, domain.Product{Name: "Discontinued Hub", Price: 25, Stock: 3})
	if err := svc.AddLine(ctx, "guest_e", p.ID, ""); err != nil {
		t.Fatalf("adding line: %v", err)
	}
	if err := products.Delete(ctx, p.ID); err != nil {
		t.Fatalf("deleting product: %v", err)
	}

	view, err := svc.View(ctx, "guest_e")
	if err != nil {
		t.Fatalf("viewing cart: %v", err)
	}
	line := view.Lines[0]
	if !line.Unavailable {
		t.Error("line for deleted product should be marked unavailable")
	}
	if line.Name != "Discontinued Hub" || line.Price != 25 {
		t.Errorf("unavailable line should keep its snapshot, got %+v", line)
	}
}

func TestClearEmptiesCart(t *testing.T) {
	svc, products, _ := newTestCartService(t)
	ctx := context.Background()

	p := createProduct(t, products, domain.Product{Name: "Cable", Price: 5, Stock: 50})
	if err := svc.AddLine(ctx, "guest_f", p.ID, ""); err != nil {
		t.Fatalf("adding line: %v", err)
	}
	if err := svc.Clear(ctx, "guest_f"); err != nil {
		t.Fatalf("clearing cart: %v", err)
	}

	view, err := svc.View(ctx, "guest_f")
	if err != nil {
		t.Fatalf("viewing cart: %v", err)
	}
	if len(view.Lines) != 0 || view.ItemCount != 0 {
		t.Errorf("cart not empty after clear: %+v", view)
	}
}
