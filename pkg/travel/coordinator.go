package travel

import (
	"context"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

var decimalPattern = regexp.MustCompile(`\d+(?:[.,]\d+)?`)

type CoordinatorRequest struct {
	Message     string
	UserName    string
	Destination string
	Area        string
	Budget      string
	Guests      int
}

type CoordinatorPage struct {
	UserName     string
	Destination  string
	When         string
	Questions    []string
	Offers       []CoordinatorOffer
	Filtered     bool
	NoExactMatch bool
}

type CoordinatorOffer struct {
	Offer
	Description  string
	DisplayPrice string
}

// Coordinator proposes hotels from several platforms and asks for whatever
// detail (area, budget, guests) the caller did not give yet.
type Coordinator struct {
	platforms []*Platform
}

func NewCoordinator(platforms ...*Platform) *Coordinator {
	return &Coordinator{platforms: platforms}
}

func (c *Coordinator) Plan(_ context.Context, req CoordinatorRequest) CoordinatorPage {
	dest, ok := MatchDestination(req.Message)
	if !ok {
		dest = req.Destination
		if dest == "" {
			dest = DefaultDestination
		}
	}
	name := strings.TrimSpace(req.UserName)
	if name == "" {
		name = "Pengguna"
	}

	page := CoordinatorPage{
		UserName:    name,
		Destination: dest,
		When:        ParseIntent(req.Message).When,
		Questions:   clarifyingQuestions(req),
	}

	var all []Offer
	for _, p := range c.platforms {
		all = append(all, p.Offers(dest)...)
	}

	budget := ParseBudget(req.Budget)
	page.Filtered = req.Area != "" || budget > 0 || req.Guests > 0

	selected := filterOffers(all, req.Area, budget, req.Guests)
	if page.Filtered && len(selected) == 0 {
		page.NoExactMatch = true
		selected = all
	}

	for _, o := range selected {
		page.Offers = append(page.Offers, CoordinatorOffer{
			Offer:        o,
			Description:  describe(o),
			DisplayPrice: o.PriceText(),
		})
	}
	return page
}

func clarifyingQuestions(req CoordinatorRequest) []string {
	var qs []string
	if strings.TrimSpace(req.Area) == "" {
		qs = append(qs, "Area mana di Bali yang paling Anda minati (misalnya Seminyak, Ubud, Canggu, Nusa Dua)?")
	}
	if ParseBudget(req.Budget) == 0 {
		qs = append(qs, "Berapa perkiraan anggaran Anda per malam?")
	}
	if req.Guests <= 0 {
		qs = append(qs, "Untuk berapa orang penginapan ini?")
	}
	return qs
}

func filterOffers(offers []Offer, area string, budgetIDR int64, guests int) []Offer {
	area = strings.ToLower(strings.TrimSpace(area))
	out := make([]Offer, 0, len(offers))
	for _, o := range offers {
		if area != "" && strings.ToLower(o.Area) != area {
			continue
		}
		if budgetIDR > 0 && o.PriceIDR() > budgetIDR {
			continue
		}
		if guests > 0 && o.MaxGuests < guests {
			continue
		}
		out = append(out, o)
	}
	return out
}

// ParseBudget reads "Rp 1.500.000", "1500000", "800rb" or "1,5 juta" as rupiah. Unparseable input is 0.
func ParseBudget(s string) int64 {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return 0
	}
	multiplier := int64(1)
	switch {
	case strings.Contains(s, "juta"):
		multiplier = 1_000_000
	case strings.Contains(s, "rb"), strings.Contains(s, "ribu"):
		multiplier = 1_000
	}

	if multiplier > 1 {
		n, err := strconv.ParseFloat(strings.ReplaceAll(decimalPattern.FindString(s), ",", "."), 64)
		if err != nil {
			return 0
		}
		return int64(n * float64(multiplier))
	}

	digits := strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, s)
	if digits == "" {
		return 0
	}
	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

func describe(o Offer) string {
	if strings.Contains(o.Name, "Ubud") || strings.Contains(o.Name, "Seaside") {
		return "Pilihan populer untuk relaksasi dan kenyamanan."
	}
	return "Hotel modern dengan akses mudah ke area wisata."
}
