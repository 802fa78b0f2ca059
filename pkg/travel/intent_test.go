package travel

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseIntent(t *testing.T) {
	tests := []struct {
		message string
		want    Intent
	}{
		{"cari hotel di ubud besok", Intent{WantsHotel: true, Destination: "Ubud", When: "besok"}},
		{"Book a FLIGHT and hotel to Nusa Dua next week", Intent{WantsFlight: true, WantsHotel: true, Destination: "Nusa Dua", When: "next week"}},
		{"tiket pesawat ke kuta minggu depan", Intent{WantsFlight: true, Destination: "Kuta", When: "next week"}},
		{"mau terbang", Intent{WantsFlight: true, Destination: "Bali", When: "soon"}},
		{"penginapan murah di canggu", Intent{WantsHotel: true, Destination: "Canggu", When: "soon"}},
		{"halo", Intent{Destination: "Bali", When: "soon"}},
	}

	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseIntent(tt.message))
		})
	}
}

func TestWantsExperts(t *testing.T) {
	assert.True(t, WantsExperts("find 3 people"))
	assert.True(t, WantsExperts("cari AI Expert"))
	assert.False(t, WantsExperts("cari hotel"))
}

func TestFormatRupiah(t *testing.T) {
	assert.Equal(t, "Rp 3.200.000", FormatRupiah(3200000))
	assert.Equal(t, "Rp 999", FormatRupiah(999))
	assert.Equal(t, "Rp 1.000", FormatRupiah(1000))
	assert.Equal(t, "Rp 0", FormatRupiah(0))
}

func TestParseBudget(t *testing.T) {
	assert.Equal(t, int64(1500000), ParseBudget("Rp 1.500.000"))
	assert.Equal(t, int64(2000000), ParseBudget("2 juta"))
	assert.Equal(t, int64(800000), ParseBudget("800rb"))
	assert.Equal(t, int64(0), ParseBudget("murah saja"))
	assert.Equal(t, int64(0), ParseBudget(""))
}
