package domain

// Settings is the single site configuration record. Exchange rates are
// USD-based; taxRate is a percentage applied to order subtotals.
type Settings struct {
	SiteTitle           string  `json:"siteTitle"`
	SiteDescription     string  `json:"siteDescription"`
	Currency            string  `json:"currency"`
	TaxRate             float64 `json:"taxRate"`
	USDToRWF            float64 `json:"usdToRwf"`
	USDToEUR            float64 `json:"usdToEur"`
	USDToGBP            float64 `json:"usdToGbp"`
	ShowStockQuantity   bool    `json:"showStockQuantity"`
	InstagramName       string  `json:"instagramName"`
	FacebookName        string  `json:"facebookName"`
	TiktokName          string  `json:"tiktokName"`
	HeroTitle           string  `json:"heroTitle"`
	HeroSubtitle        string  `json:"heroSubtitle"`
	HeroButtonText      string  `json:"heroButtonText"`
	AboutTitle          string  `json:"aboutTitle"`
	AboutContent        string  `json:"aboutContent"`
	ContactPhone        string  `json:"contactPhone"`
	ContactEmail        string  `json:"contactEmail"`
	ContactAddress      string  `json:"contactAddress"`
	PaymentPhone        string  `json:"paymentPhone"`
	PaymentInstructions string  `json:"paymentInstructions"`
	DeliveryFee         float64 `json:"deliveryFee"`
}

// DefaultSettings seeds the settings slot on first start.
func DefaultSettings() Settings {
	return Settings{
		SiteTitle:           "WONDER ELECTRONICS",
		SiteDescription:     "Discover the latest in consumer electronics with unbeatable prices and quality",
		Currency:            "USD",
		TaxRate:             5,
		USDToRWF:            1300,
		USDToEUR:            0.85,
		USDToGBP:            0.73,
		ShowStockQuantity:   true,
		HeroTitle:           "Welcome to WONDER ELECTRONICS",
		HeroSubtitle:        "Discover the latest in consumer electronics with unbeatable prices and quality",
		HeroButtonText:      "Shop Now",
		AboutTitle:          "About WONDER ELECTRONICS",
		AboutContent:        "We are your trusted partner for premium consumer electronics. With years of experience in the industry, we bring you the latest technology at competitive prices. Our commitment to quality and customer satisfaction makes us the preferred choice for electronics enthusiasts.",
		ContactPhone:        "+1 (555) 123-4567",
		ContactEmail:        "info@wonderelectronics.com",
		ContactAddress:      "123 Electronics Street, Tech City, TC 12345",
		PaymentPhone:        "+250787070049",
		PaymentInstructions: "Please include your order number in the payment reference when making payment via Mobile Money.",
		DeliveryFee:         0,
	}
}
