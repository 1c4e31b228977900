// Package format renders reward amounts and labels for display.
package format

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/osse101/SpinWheel_Go/internal/domain"
)

var (
	printer    = message.NewPrinter(language.English)
	titleCaser = cases.Title(language.English)
)

// Amount renders an amount with thousands separators, dropping a zero fraction
func Amount(amount float64) string {
	if amount == float64(int64(amount)) {
		return printer.Sprintf("%d", int64(amount))
	}
	return printer.Sprintf("%.2f", amount)
}

// RewardLabel renders the segment label of a reward, e.g. "1,000 GC"
func RewardLabel(r domain.Reward) string {
	return Amount(r.Amount) + " " + string(r.Type)
}

// RarityName renders a rarity tier for display, e.g. "Top Reward"
func RarityName(r domain.Rarity) string {
	return titleCaser.String(strings.ReplaceAll(string(r), "_", " "))
}
