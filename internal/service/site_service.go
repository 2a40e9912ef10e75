package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"wonder-electronics/internal/domain"
	"wonder-electronics/internal/repository"
)

// GeneralSettingsUpdate covers the general tab of the admin settings
// page. Pointers distinguish "leave unchanged" from zero values.
type GeneralSettingsUpdate struct {
	SiteTitle         *string  `json:"siteTitle"`
	SiteDescription   *string  `json:"siteDescription"`
	Currency          *string  `json:"currency"`
	TaxRate           *float64 `json:"taxRate" validate:"omitempty,gte=0,lte=100"`
	USDToRWF          *float64 `json:"usdToRwf" validate:"omitempty,gt=0"`
	USDToEUR          *float64 `json:"usdToEur" validate:"omitempty,gt=0"`
	USDToGBP          *float64 `json:"usdToGbp" validate:"omitempty,gt=0"`
	ShowStockQuantity *bool    `json:"showStockQuantity"`
	DeliveryFee       *float64 `json:"deliveryFee" validate:"omitempty,gte=0"`
}

type SocialSettingsUpdate struct {
	InstagramName *string `json:"instagramName"`
	FacebookName  *string `json:"facebookName"`
	TiktokName    *string `json:"tiktokName"`
}

type HeroSettingsUpdate struct {
	HeroTitle      *string `json:"heroTitle"`
	HeroSubtitle   *string `json:"heroSubtitle"`
	HeroButtonText *string `json:"heroButtonText"`
}

type AboutSettingsUpdate struct {
	AboutTitle   *string `json:"aboutTitle"`
	AboutContent *string `json:"aboutContent"`
}

type ContactSettingsUpdate struct {
	ContactPhone   *string `json:"contactPhone"`
	ContactEmail   *string `json:"contactEmail" validate:"omitempty,email"`
	ContactAddress *string `json:"contactAddress"`
}

type PaymentSettingsUpdate struct {
	PaymentPhone        *string `json:"paymentPhone"`
	PaymentInstructions *string `json:"paymentInstructions"`
}

// SiteService manages the settings record and the homepage slideshow.
type SiteService interface {
	Settings(ctx context.Context) (domain.Settings, error)
	UpdateGeneral(ctx context.Context, update GeneralSettingsUpdate) (domain.Settings, error)
	UpdateSocial(ctx context.Context, update SocialSettingsUpdate) (domain.Settings, error)
	UpdateHero(ctx context.Context, update HeroSettingsUpdate) (domain.Settings, error)
	UpdateAbout(ctx context.Context, update AboutSettingsUpdate) (domain.Settings, error)
	UpdateContact(ctx context.Context, update ContactSettingsUpdate) (domain.Settings, error)
	UpdatePayment(ctx context.Context, update PaymentSettingsUpdate) (domain.Settings, error)

	ListSlides(ctx context.Context) ([]domain.Slide, error)
	AddSlide(ctx context.Context, image, title, description string) (*domain.Slide, error)
	DeleteSlide(ctx context.Context, id uuid.UUID) error
}

type siteService struct {
	settings repository.SettingsRepository
	slides   repository.SlideRepository
}

// NewSiteService creates a new instance of SiteService.
func NewSiteService(settings repository.SettingsRepository, slides repository.SlideRepository) SiteService {
	return &siteService{settings: settings, slides: slides}
}

func (s *siteService) Settings(ctx context.Context) (domain.Settings, error) {
	return s.settings.Get(ctx)
}

func (s *siteService) update(ctx context.Context, apply func(*domain.Settings)) (domain.Settings, error) {
	current, err := s.settings.Get(ctx)
	if err != nil {
		return domain.Settings{}, err
	}
	apply(&current)
	if err := s.settings.Save(ctx, current); err != nil {
		return domain.Settings{}, err
	}
	return current, nil
}

func (s *siteService) UpdateGeneral(ctx context.Context, update GeneralSettingsUpdate) (domain.Settings, error) {
	return s.update(ctx, func(cfg *domain.Settings) {
		setString(&cfg.SiteTitle, update.SiteTitle)
		setString(&cfg.SiteDescription, update.SiteDescription)
		setString(&cfg.Currency, update.Currency)
		setFloat(&cfg.TaxRate, update.TaxRate)
		setFloat(&cfg.USDToRWF, update.USDToRWF)
		setFloat(&cfg.USDToEUR, update.USDToEUR)
		setFloat(&cfg.USDToGBP, update.USDToGBP)
		setFloat(&cfg.DeliveryFee, update.DeliveryFee)
		if update.ShowStockQuantity != nil {
			cfg.ShowStockQuantity = *update.ShowStockQuantity
		}
	})
}

func (s *siteService) UpdateSocial(ctx context.Context, update SocialSettingsUpdate) (domain.Settings, error) {
	return s.update(ctx, func(cfg *domain.Settings) {
		setString(&cfg.InstagramName, update.InstagramName)
		setString(&cfg.FacebookName, update.FacebookName)
		setString(&cfg.TiktokName, update.TiktokName)
	})
}

func (s *siteService) UpdateHero(ctx context.Context, update HeroSettingsUpdate) (domain.Settings, error) {
	return s.update(ctx, func(cfg *domain.Settings) {
		setString(&cfg.HeroTitle, update.HeroTitle)
		setString(&cfg.HeroSubtitle, update.HeroSubtitle)
		setString(&cfg.HeroButtonText, update.HeroButtonText)
	})
}

func (s *siteService) UpdateAbout(ctx context.Context, update AboutSettingsUpdate) (domain.Settings, error) {
	return s.update(ctx, func(cfg *domain.Settings) {
		setString(&cfg.AboutTitle, update.AboutTitle)
		setString(&cfg.AboutContent, update.AboutContent)
	})
}

func (s *siteService) UpdateContact(ctx context.Context, update ContactSettingsUpdate) (domain.Settings, error) {
	return s.update(ctx, func(cfg *domain.Settings) {
		setString(&cfg.ContactPhone, update.ContactPhone)
		setString(&cfg.ContactEmail, update.ContactEmail)
		setString(&cfg.ContactAddress, update.ContactAddress)
	})
}

func (s *siteService) UpdatePayment(ctx context.Context, update PaymentSettingsUpdate) (domain.Settings, error) {
	return s.update(ctx, func(cfg *domain.Settings) {
		setString(&cfg.PaymentPhone, update.PaymentPhone)
		setString(&cfg.PaymentInstructions, update.PaymentInstructions)
	})
}

func (s *siteService) ListSlides(ctx context.Context) ([]domain.Slide, error) {
	return s.slides.List(ctx)
}

func (s *siteService) AddSlide(ctx context.Context, image, title, description string) (*domain.Slide, error) {
	slide := &domain.Slide{
		ID:          uuid.New(),
		Image:       image,
		Title:       title,
		Description: description,
	}
	if err := s.slides.Create(ctx, slide); err != nil {
		return nil, err
	}
	return slide, nil
}

// DeleteSlide removes a slide; unknown ids are ignored.
func (s *siteService) DeleteSlide(ctx context.Context, id uuid.UUID) error {
	err := s.slides.Delete(ctx, id)
	if errors.Is(err, repository.ErrSlideNotFound) {
		return nil
	}
	return err
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func setFloat(dst *float64, src *float64) {
	if src != nil {
		*dst = *src
	}
}
