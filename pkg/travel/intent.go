package travel

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const DefaultDestination = "Bali"

var (
	flightKeywords = []string{"flight", "pesawat", "terbang"}
	hotelKeywords  = []string{"hotel", "penginapan", "kamar", "booking"}
	expertTriggers = []string{"expert", "ai expert", "find 3"}

	destinationPattern = regexp.MustCompile(`bali|ubud|kuta|seminyak|canggu|nusa dua`)
	titleCaser         = cases.Title(language.Und)
)

type Intent struct {
	WantsFlight bool   `json:"wants_flight"`
	WantsHotel  bool   `json:"wants_hotel"`
	Destination string `json:"destination"`
	When        string `json:"when"`
}

// ParseIntent is plain keyword matching over the lowercased message.
func ParseIntent(message string) Intent {
	m := strings.ToLower(message)

	dest, ok := MatchDestination(m)
	if !ok {
		dest = DefaultDestination
	}

	return Intent{
		WantsFlight: containsAny(m, flightKeywords),
		WantsHotel:  containsAny(m, hotelKeywords),
		Destination: dest,
		When:        parseWhen(m),
	}
}

// MatchDestination returns the first whitelisted place in message, title-cased.
func MatchDestination(message string) (string, bool) {
	found := destinationPattern.FindString(strings.ToLower(message))
	if found == "" {
		return "", false
	}
	return titleCaser.String(found), true
}

// WantsExperts reports whether the message also asks for an expert search.
func WantsExperts(message string) bool {
	return containsAny(strings.ToLower(message), expertTriggers)
}

func parseWhen(m string) string {
	switch {
	case strings.Contains(m, "besok"):
		return "besok"
	case strings.Contains(m, "next week"), strings.Contains(m, "minggu depan"):
		return "next week"
	default:
		return "soon"
	}
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}
