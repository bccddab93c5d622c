package catalog

// Tool is one rentable inventory item.
type Tool struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	DailyPrice   int    `json:"daily_price"`
	WeekendPrice int    `json:"weekend_price"`
	Deposit      int    `json:"deposit"`
	Availability string `json:"availability"`
	Quantity     int    `json:"quantity"`
}

// Review is a customer review shown on the landing page.
type Review struct {
	Author   string `json:"author"`
	Platform string `json:"platform"`
	Text     string `json:"text"`
	URL      string `json:"url"`
	Date     string `json:"date"`
}

// SampleInventory is the fixed fallback served when no store is configured
// or the inventory query fails or comes back empty.
func SampleInventory() []Tool {
	return []Tool{
		{
			ID:           "rotary-hammer",
			Name:         "Перфоратор SDS-Plus",
			DailyPrice:   1200,
			WeekendPrice: 2000,
			Deposit:      5000,
			Availability: "in_stock",
			Quantity:     3,
		},
		{
			ID:           "space-heater",
			Name:         "Тепловая пушка 5 кВт",
			DailyPrice:   1800,
			WeekendPrice: 3000,
			Deposit:      7000,
			Availability: "limited",
			Quantity:     1,
		},
	}
}

// SampleReviews is the fixed fallback for the reviews endpoint.
func SampleReviews(nowISO string) []Review {
	return []Review{
		{
			Author:   "Андрей",
			Platform: "avito",
			Text:     "Брал тепловую пушку на выходные — всё отлично, инструмент в идеале.",
			URL:      "https://example.com/review/1",
			Date:     nowISO,
		},
		{
			Author:   "Мария",
			Platform: "avito",
			Text:     "Выдали перфоратор с полной комплектацией, помогли с доставкой.",
			URL:      "https://example.com/review/2",
			Date:     nowISO,
		},
	}
}

// FallbackToolName resolves a tool id against the sample inventory. Returns
// the empty string when the id is unknown.
func FallbackToolName(id string) string {
	for _, tool := range SampleInventory() {
		if tool.ID == id {
			return tool.Name
		}
	}
	return ""
}
