package service

import (
	"strings"

	"github.com/dtroode/linkverify-server/internal/model"
)

// browserMarkers are checked in priority order.
var browserMarkers = []struct {
	marker  string
	browser model.Browser
}{
	{marker: "telegram", browser: model.BrowserTelegram},
	{marker: "chrome", browser: model.BrowserChrome},
	{marker: "firefox", browser: model.BrowserFirefox},
}

// ClassifyBrowser derives a coarse client class from a User-Agent header value.
func ClassifyBrowser(userAgent string) model.Browser {
	ua := strings.ToLower(userAgent)
	for _, m := range browserMarkers {
		if strings.Contains(ua, m.marker) {
			return m.browser
		}
	}
	return model.BrowserUnknown
}
