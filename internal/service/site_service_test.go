package service

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"wonder-electronics/internal/events"
	"wonder-electronics/internal/repository"
	"wonder-electronics/internal/store"
)

func newTestSiteService() SiteService {
	s := store.NewMemory()
	bus := events.NewBus()
	return NewSiteService(repository.NewSettingsRepository(s, bus), repository.NewSlideRepository(s, bus))
}

func strPtr(s string) *string { return &s }

func floatPtr(f float64) *float64 { return &f }

func TestUpdateGeneralAppliesOnlyProvidedFields(t *testing.T) {
	svc := newTestSiteService()
	ctx := context.Background()

	before, err := svc.Settings(ctx)
	if err != nil {
		t.Fatalf("reading settings: %v", err)
	}

	after, err := svc.UpdateGeneral(ctx, GeneralSettingsUpdate{
		TaxRate:  floatPtr(12),
		USDToRWF: floatPtr(1400),
	})
	if err != nil {
		t.Fatalf("updating settings: %v", err)
	}

	if after.TaxRate != 12 {
		t.Errorf("tax rate %v, want 12", after.TaxRate)
	}
	if after.USDToRWF != 1400 {
		t.Errorf("RWF rate %v, want 1400", after.USDToRWF)
	}
	if after.SiteTitle != before.SiteTitle {
		t.Errorf("site title changed without being set: %q -> %q", before.SiteTitle, after.SiteTitle)
	}
	if after.Currency != before.Currency {
		t.Errorf("currency changed without being set: %q -> %q", before.Currency, after.Currency)
	}

	// The update is persisted, not just returned.
	stored, err := svc.Settings(ctx)
	if err != nil {
		t.Fatalf("re-reading settings: %v", err)
	}
	if stored.TaxRate != 12 {
		t.Errorf("stored tax rate %v, want 12", stored.TaxRate)
	}
}

func TestUpdateSectionsAreIndependent(t *testing.T) {
	svc := newTestSiteService()
	ctx := context.Background()

	if _, err := svc.UpdateHero(ctx, HeroSettingsUpdate{HeroTitle: strPtr("Big Sale")}); err != nil {
		t.Fatalf("updating hero: %v", err)
	}
	settings, err := svc.UpdateContact(ctx, ContactSettingsUpdate{ContactEmail: strPtr("help@wonderelectronics.com")})
	if err != nil {
		t.Fatalf("updating contact: %v", err)
	}

	if settings.HeroTitle != "Big Sale" {
		t.Errorf("hero update lost by contact update: %q", settings.HeroTitle)
	}
	if settings.ContactEmail != "help@wonderelectronics.com" {
		t.Errorf("contact email %q", settings.ContactEmail)
	}
}

func TestSlideLifecycle(t *testing.T) {
	svc := newTestSiteService()
	ctx := context.Background()

	initial, err := svc.ListSlides(ctx)
	if err != nil {
		t.Fatalf("listing slides: %v", err)
	}

	slide, err := svc.AddSlide(ctx, "/img/sale.jpg", "Summer Sale", "Up to 40% off")
	if err != nil {
		t.Fatalf("adding slide: %v", err)
	}
	if slide.ID == uuid.Nil {
		t.Error("slide was not assigned an ID")
	}

	slides, err := svc.ListSlides(ctx)
	if err != nil {
		t.Fatalf("listing slides: %v", err)
	}
	if len(slides) != len(initial)+1 {
		t.Errorf("got %d slides, want %d", len(slides), len(initial)+1)
	}

	if err := svc.DeleteSlide(ctx, slide.ID); err != nil {
		t.Fatalf("deleting slide: %v", err)
	}
	if err := svc.DeleteSlide(ctx, slide.ID); err != nil {
		t.Errorf("deleting an unknown slide should be a no-op, got %v", err)
	}

	slides, _ = svc.ListSlides(ctx)
	if len(slides) != len(initial) {
		t.Errorf("got %d slides after delete, want %d", len(slides), len(initial))
	}
}
