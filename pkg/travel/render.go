package travel

import (
	"bytes"
	"html/template"
	"io"
)

const resultTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Super Agent Result</title>
<style>
body { font-family: Arial, Helvetica, sans-serif; padding: 20px; }
.card { border: 1px solid #ddd; padding: 12px; margin-bottom: 10px; border-radius: 6px; }
.cta { background: #007acc; color: #fff; padding: 10px 14px; border-radius: 6px; text-decoration: none; }
</style>
</head>
<body>
<h2>{{.Coordinator}}: Hasil untuk {{.Message}}</h2>
<p>Koordinator: <strong>{{.Coordinator}}</strong></p>
<p>Berikut ringkasan yang saya temukan. Klik tombol untuk membuka detail di platform eksternal.</p>
{{- if .Summary}}
<p class="summary">{{.Summary}}</p>
{{- end}}
<p><strong>Spawned helper agents:</strong></p>
<ul>
{{- range .Helpers}}
<li><strong>{{.Name}}</strong>: {{.Role}}</li>
{{- end}}
</ul>
{{- range .Flights}}
<div class="card flight-card" data-provider="{{.Provider}}">
<h3>Penerbangan: {{.Route}}</h3>
<p>Harga estimasi: {{.Price}}</p>
<p><a href="{{.DetailsURL}}" target="_blank" rel="noopener">Lihat detail &amp; booking</a></p>
</div>
{{- end}}
{{- range .Hotels}}
<div class="card hotel-card" data-provider="{{.Provider}}">
<h3>Hotel: {{.Name}}</h3>
<p>Harga: {{.Price}}</p>
{{- if .Source}}
<p><em>Source: {{.Source}}</em></p>
{{- end}}
<p><a href="{{.DetailsURL}}" target="_blank" rel="noopener">Lihat Ketersediaan &amp; Booking</a></p>
</div>
{{- end}}
{{- if .HelperErrors}}
<p class="helper-errors">Sebagian pencarian tidak berhasil:
{{- range .HelperErrors}} {{.Helper}}{{end}}</p>
{{- end}}
{{- if .Experts}}
<h3>Ahli yang ditemukan</h3>
<ul class="experts">
{{- range .Experts}}
<li><a href="{{.Link}}" target="_blank" rel="noopener">{{.Title}}</a>{{if .Snippet}}: {{.Snippet}}{{end}}</li>
{{- end}}
</ul>
{{- end}}
<p><a class="cta" href="{{.CTA}}" target="_blank" rel="noopener">Open itinerary &amp; confirmation</a></p>
</body>
</html>
`

const coordinatorTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Rekomendasi Hotel: Coordinator</title>
<style>
body { font-family: Arial, Helvetica, sans-serif; line-height: 1.5; padding: 24px; }
.intro { margin-bottom: 16px; }
.questions { background: #f4f6fb; padding: 12px; border-radius: 6px; margin-bottom: 18px; }
.card { border: 1px solid #eee; padding: 12px; border-radius: 6px; margin-bottom: 12px; }
</style>
</head>
<body>
<div class="intro"><h2>Halo {{.UserName}}, saya akan bantu cari penginapan di {{.Destination}} untuk {{.When}}</h2></div>
{{- if .Questions}}
<p>Sebelum saya memberikan rekomendasi yang paling sesuai, boleh saya tahu beberapa detail?</p>
<div class="questions"><ol>
{{- range .Questions}}
<li>{{.}}</li>
{{- end}}
</ol></div>
<p>Sambil menunggu jawaban Anda, berikut adalah beberapa pilihan populer yang tersedia di berbagai area dan rentang harga, berdasarkan pencarian cepat yang saya lakukan.</p>
{{- end}}
{{- if .NoExactMatch}}
<p class="no-match">Belum ada pilihan yang cocok persis dengan kriteria Anda, berikut semua pilihan yang tersedia.</p>
{{- end}}
<h3>Pilihan Hotel di {{.Destination}}</h3>
{{- range .Offers}}
<div class="card hotel-card offer" data-platform="{{.Platform}}">
<h3>{{.Name}}</h3>
<p><strong>Lokasi:</strong> {{.Area}}</p>
<p>{{.Description}}</p>
<p><strong>Mulai dari</strong> {{.DisplayPrice}}</p>
<p><em>Source: {{.Source}}</em></p>
<p><a href="{{.Link}}" target="_blank" rel="noopener">Lihat Ketersediaan</a></p>
</div>
{{- end}}
<p>Jika Anda ingin, saya bisa cek ketersediaan dan mengamankan opsi terbaik setelah Anda memberi detail area, anggaran, dan jumlah tamu.</p>
</body>
</html>
`

var (
	resultPage      = template.Must(template.New("result").Parse(resultTemplate))
	coordinatorPage = template.Must(template.New("coordinator").Parse(coordinatorTemplate))
)

// RenderHTML writes the orchestrator result page. Untrusted text is escaped by html/template.
func RenderHTML(w io.Writer, res *Result) error {
	return resultPage.Execute(w, res)
}

func RenderCoordinatorHTML(w io.Writer, page CoordinatorPage) error {
	return coordinatorPage.Execute(w, page)
}

// RenderString is a convenience for handlers that need the page as a string.
func RenderString(res *Result) (string, error) {
	var buf bytes.Buffer
	if err := RenderHTML(&buf, res); err != nil {
		return "", err
	}
	return buf.String(), nil
}
