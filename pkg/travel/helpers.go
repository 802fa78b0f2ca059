package travel

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"
)

type Flight struct {
	Provider   string `json:"provider"`
	Route      string `json:"route"`
	Price      string `json:"price"`
	DetailsURL string `json:"details_url"`
}

type Hotel struct {
	Provider   string `json:"provider"`
	Name       string `json:"name"`
	Area       string `json:"area,omitempty"`
	Price      string `json:"price"`
	Source     string `json:"source,omitempty"`
	DetailsURL string `json:"details_url"`
}

type FlightHelper interface {
	Name() string
	SearchFlights(ctx context.Context, destination, when string) ([]Flight, error)
}

type HotelHelper interface {
	Name() string
	SearchHotels(ctx context.Context, destination, when string) ([]Hotel, error)
}

// simulateLatency waits d or until ctx is done.
func simulateLatency(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// MockAir is the mocked flight search.
type MockAir struct {
	Delay time.Duration
}

func (MockAir) Name() string { return "MockAir" }

func (m MockAir) SearchFlights(ctx context.Context, destination, when string) ([]Flight, error) {
	if err := simulateLatency(ctx, m.Delay); err != nil {
		return nil, err
	}
	return []Flight{{
		Provider:   m.Name(),
		Route:      "Jakarta -> " + destination,
		Price:      "Rp 3.200.000",
		DetailsURL: "https://travel.example/flights?" + url.Values{"to": {destination}, "when": {when}}.Encode(),
	}}, nil
}

// MockLodging is the mocked single-offer hotel search.
type MockLodging struct {
	Delay time.Duration
}

func (MockLodging) Name() string { return "MockLodging" }

func (m MockLodging) SearchHotels(ctx context.Context, destination, when string) ([]Hotel, error) {
	if err := simulateLatency(ctx, m.Delay); err != nil {
		return nil, err
	}
	return []Hotel{{
		Provider:   m.Name(),
		Name:       destination + " Seaside Hotel",
		Area:       destination,
		Price:      "Rp 1.650.000 / malam",
		DetailsURL: "https://travel.example/hotels?" + url.Values{"at": {destination}, "when": {when}}.Encode(),
	}}, nil
}

// Offer is one catalog entry of a lodging platform. PriceUSD is per night.
type Offer struct {
	Name      string  `json:"name"`
	Area      string  `json:"area"`
	PriceUSD  float64 `json:"price_usd"`
	MaxGuests int     `json:"max_guests"`
	Link      string  `json:"link"`
	Source    string  `json:"source"`
	Platform  string  `json:"platform"`
}

// RupiahPerUSD is the fixed conversion used for displayed prices.
const RupiahPerUSD = 28000

// PriceIDR converts the nightly price to rupiah.
func (o Offer) PriceIDR() int64 {
	return int64(o.PriceUSD * RupiahPerUSD)
}

func (o Offer) PriceText() string {
	return FormatRupiah(o.PriceIDR()) + " / malam"
}

type offerTemplate struct {
	name      string
	area      string
	priceUSD  float64
	maxGuests int
}

// Platform is a mocked lodging marketplace with a fixed catalog.
type Platform struct {
	name    string
	source  string
	host    string
	catalog []offerTemplate
	Delay   time.Duration
}

// PlatformA lists through Booking.com.
func PlatformA(delay time.Duration) *Platform {
	return &Platform{
		name:   "PlatformA",
		source: "Booking.com",
		host:   "https://platforma.example",
		catalog: []offerTemplate{
			{"%s Seaside Resort", "", 85, 2},
			{"Ubud Jungle Villas", "Ubud", 140, 4},
			{"Seminyak Beach Suites", "Seminyak", 110, 3},
		},
		Delay: delay,
	}
}

// PlatformB lists through Agoda.
func PlatformB(delay time.Duration) *Platform {
	return &Platform{
		name:   "PlatformB",
		source: "Agoda",
		host:   "https://platformb.example",
		catalog: []offerTemplate{
			{"%s Garden Inn", "", 45, 2},
			{"Canggu Surf Lodge", "Canggu", 60, 6},
			{"Nusa Dua Bay Hotel", "Nusa Dua", 180, 4},
		},
		Delay: delay,
	}
}

func (p *Platform) Name() string { return p.name }

// Offers returns the catalog for destination. Entries without a fixed area are placed in destination.
func (p *Platform) Offers(destination string) []Offer {
	offers := make([]Offer, 0, len(p.catalog))
	for _, tpl := range p.catalog {
		name := tpl.name
		if strings.Contains(name, "%s") {
			name = fmt.Sprintf(name, destination)
		}
		area := tpl.area
		if area == "" {
			area = destination
		}
		offers = append(offers, Offer{
			Name:      name,
			Area:      area,
			PriceUSD:  tpl.priceUSD,
			MaxGuests: tpl.maxGuests,
			Link:      p.host + "/hotels/" + slug(name) + "?" + url.Values{"city": {destination}}.Encode(),
			Source:    p.source,
			Platform:  p.name,
		})
	}
	return offers
}

func (p *Platform) SearchHotels(ctx context.Context, destination, _ string) ([]Hotel, error) {
	if err := simulateLatency(ctx, p.Delay); err != nil {
		return nil, err
	}
	offers := p.Offers(destination)
	hotels := make([]Hotel, 0, len(offers))
	for _, o := range offers {
		hotels = append(hotels, Hotel{
			Provider:   p.name,
			Name:       o.Name,
			Area:       o.Area,
			Price:      o.PriceText(),
			Source:     o.Source,
			DetailsURL: o.Link,
		})
	}
	return hotels, nil
}

// FormatRupiah renders 3200000 as "Rp 3.200.000".
func FormatRupiah(amount int64) string {
	neg := amount < 0
	if neg {
		amount = -amount
	}
	digits := fmt.Sprintf("%d", amount)
	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	if neg {
		return "Rp -" + b.String()
	}
	return "Rp " + b.String()
}

func slug(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), " ", "-")
}
