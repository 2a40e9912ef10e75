package domain

import "github.com/google/uuid"

// Slide is one storefront carousel entry. Sequence order in the slot is
// display order, for both the admin grid and the carousel.
type Slide struct {
	ID          uuid.UUID `json:"id"`
	Image       string    `json:"image"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
}

// DefaultSlides seeds the carousel on first start.
func DefaultSlides() []Slide {
	return []Slide{
		{
			ID:          uuid.New(),
			Image:       "https://images.unsplash.com/photo-1550009158-9ebf69173e03?w=1200",
			Title:       "Welcome to Wonder Electronics",
			Description: "Your trusted electronics store",
		},
		{
			ID:          uuid.New(),
			Image:       "https://images.unsplash.com/photo-1505740420928-5e560c06d30e?w=1200",
			Title:       "Latest Electronics",
			Description: "Discover amazing deals",
		},
		{
			ID:          uuid.New(),
			Image:       "https://images.unsplash.com/photo-1491933382434-500287f9b54b?w=1200",
			Title:       "Quality Products",
			Description: "Best prices guaranteed",
		},
	}
}
