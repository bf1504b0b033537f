package common

import (
	"fmt"

	"github.com/ternarybob/banner"
)

// BannerLine is one key/value row of the startup banner
type BannerLine struct {
	Key   string
	Value string
}

// BannerLines lists the settings shown at startup: where the service listens,
// which upstream it reads financials from, and how sessions and directory
// lookups are kept.
func BannerLines(version string, config *Config) []BannerLine {
	sessions := config.Storage.Type
	if sessions == "badger" {
		sessions = fmt.Sprintf("badger (%s)", config.Storage.Badger.Path)
	}

	cache := "disabled"
	if ttl, err := config.APICacheTTL(); err == nil && ttl > 0 {
		cache = ttl.String()
	}

	return []BannerLine{
		{"Version", version},
		{"Environment", config.Environment},
		{"Listening", fmt.Sprintf("http://%s:%d", config.Server.Host, config.Server.Port)},
		{"Upstream", config.API.BaseURL},
		{"Sessions", sessions},
		{"Dir cache", cache},
		{"Analytics", config.Analytics.Sink},
	}
}

// PrintBanner displays the application banner
func PrintBanner(version string, config *Config) {
	b := banner.New().
		SetStyle(banner.StyleDouble).
		SetBorderColor(banner.ColorCyan).
		SetBold(true)

	b.PrintTopLine()
	b.PrintCenteredText("MULTIPLES")
	b.PrintCenteredText("Company financials and valuation multiples")
	b.PrintSeparatorLine()
	for _, line := range BannerLines(version, config) {
		b.PrintKeyValue(line.Key, line.Value, 12)
	}
	b.PrintBottomLine()
}
