package usecase

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var rupiahPrinter = message.NewPrinter(language.Indonesian)

// FormatRupiah renders a price with Indonesian digit grouping, e.g.
// "Rp 1.250.000".
func FormatRupiah(value int64) string {
	return rupiahPrinter.Sprintf("Rp %d", value)
}

// FormatDelta renders a signed price delta with its band label, the
// form the result sheets use: "Rp 0 (Basis)" for the query row itself,
// otherwise "Rp -50.000 (Lebih Murah)" and so on.
func FormatDelta(delta int64, isSelf bool) string {
	if isSelf {
		return "Rp 0 (Basis)"
	}
	if delta == 0 {
		return "Rp 0 (Sama)"
	}
	band := " (Lebih Mahal)"
	if delta < 0 {
		band = " (Lebih Murah)"
	}
	return rupiahPrinter.Sprintf("Rp %d", delta) + band
}
