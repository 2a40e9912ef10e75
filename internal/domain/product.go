package domain

import (
	"strings"

	"github.com/google/uuid"
)

// Condition of a product, new or second-hand.
type Condition string

const (
	ConditionNew        Condition = "new"
	ConditionSecondHand Condition = "second-hand"
)

// Toggle flips between the two conditions.
func (c Condition) Toggle() Condition {
	if c == ConditionSecondHand {
		return ConditionNew
	}
	return ConditionSecondHand
}

// Product is one catalog entry. Price is always stored in USD; display
// currencies are derived at read time. Discount is a whole percentage in
// [0,100] applied on top of Price.
type Product struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Price       float64   `json:"price"`
	Category    string    `json:"category"` // Category.Name slug
	Description string    `json:"description"`
	Brand       string    `json:"brand"`
	Image       string    `json:"image"`
	Images      []string  `json:"images,omitempty"`
	Stock       int       `json:"stock"`
	Discount    int       `json:"discount"`
	Condition   Condition `json:"condition"`
	Colors      []string  `json:"colors,omitempty"`
}

// EffectivePrice is the USD price after applying the discount percentage.
func (p Product) EffectivePrice() float64 {
	return p.Price * (1 - float64(p.Discount)/100)
}

// HasColor reports whether color is one of the product's offered colors.
func (p Product) HasColor(color string) bool {
	for _, c := range p.Colors {
		if c == color {
			return true
		}
	}
	return false
}

// Category groups products. Name is a unique lowercase-hyphenated slug
// derived from DisplayName; default categories cannot be deleted.
type Category struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	DisplayName string    `json:"displayName"`
	Icon        string    `json:"icon"`
	Description string    `json:"description"`
	IsDefault   bool      `json:"isDefault"`
}

// Slugify derives the stored category name from its display name.
func Slugify(displayName string) string {
	return strings.Join(strings.Fields(strings.ToLower(displayName)), "-")
}

// DefaultProducts seeds the catalog on first start.
func DefaultProducts() []Product {
	return []Product{
		{
			ID:          uuid.New(),
			Name:        "iPhone 15 Pro",
			Price:       999.99,
			Category:    "smartphones",
			Description: "The latest iPhone with A17 Pro chip and titanium design",
			Brand:       "Apple",
			Image:       "https://images.unsplash.com/photo-1592750475338-74b7b21085ab?w=400",
			Stock:       50,
			Condition:   ConditionNew,
		},
		{
			ID:          uuid.New(),
			Name:        "MacBook Pro M3",
			Price:       1999.99,
			Category:    "laptops",
			Description: "Powerful laptop with M3 chip for professionals",
			Brand:       "Apple",
			Image:       "https://images.unsplash.com/photo-1517336714731-489689fd1ca8?w=400",
			Stock:       25,
			Condition:   ConditionNew,
		},
		{
			ID:          uuid.New(),
			Name:        "Sony WH-1000XM5",
			Price:       399.99,
			Category:    "audio",
			Description: "Industry-leading noise canceling headphones",
			Brand:       "Sony",
			Image:       "https://images.unsplash.com/photo-1583394838336-acd977736f90?w=400",
			Stock:       30,
			Condition:   ConditionNew,
		},
		{
			ID:          uuid.New(),
			Name:        "PlayStation 5",
			Price:       499.99,
			Category:    "gaming",
			Description: "Next-generation gaming console",
			Brand:       "Sony",
			Image:       "https://images.unsplash.com/photo-1606813907291-d86efa9b94db?w=400",
			Stock:       15,
			Condition:   ConditionNew,
		},
		{
			ID:          uuid.New(),
			Name:        "Samsung Galaxy S24",
			Price:       799.99,
			Category:    "smartphones",
			Description: "Android flagship with AI-powered features",
			Brand:       "Samsung",
			Image:       "https://images.unsplash.com/photo-1511707171631-9ed0a79bea82?w=400",
			Stock:       40,
			Condition:   ConditionNew,
		},
		{
			ID:          uuid.New(),
			Name:        "Dell XPS 13",
			Price:       1299.99,
			Category:    "laptops",
			Description: "Ultrabook with stunning display and performance",
			Brand:       "Dell",
			Image:       "https://images.unsplash.com/photo-1496181133206-80ce9b88a853?w=400",
			Stock:       20,
			Condition:   ConditionNew,
		},
	}
}

// DefaultCategories seeds the four built-in categories.
func DefaultCategories() []Category {
	return []Category{
		{
			ID:          uuid.New(),
			Name:        "smartphones",
			DisplayName: "Smartphones",
			Icon:        "fas fa-mobile-alt",
			Description: "Latest smartphones and mobile devices",
			IsDefault:   true,
		},
		{
			ID:          uuid.New(),
			Name:        "laptops",
			DisplayName: "Laptops",
			Icon:        "fas fa-laptop",
			Description: "Laptops and portable computers",
			IsDefault:   true,
		},
		{
			ID:          uuid.New(),
			Name:        "audio",
			DisplayName: "Audio",
			Icon:        "fas fa-headphones",
			Description: "Audio equipment and accessories",
			IsDefault:   true,
		},
		{
			ID:          uuid.New(),
			Name:        "gaming",
			DisplayName: "Gaming",
			Icon:        "fas fa-gamepad",
			Description: "Gaming consoles and accessories",
			IsDefault:   true,
		},
	}
}
