package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dtroode/linkverify-server/internal/model"
)

func TestClassifyBrowser(t *testing.T) {
	tests := []struct {
		ua   string
		want model.Browser
	}{
		{ua: "Mozilla/5.0 (Linux; Android 13) AppleWebKit/537.36 Chrome/120.0 Mobile Safari/537.36 Telegram-Android/10.5.0", want: model.BrowserTelegram},
		{ua: "TelegramBot (like TwitterBot)", want: model.BrowserTelegram},
		{ua: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36", want: model.BrowserChrome},
		{ua: "Mozilla/5.0 (X11; Linux x86_64; rv:121.0) Gecko/20100101 Firefox/121.0", want: model.BrowserFirefox},
		{ua: "Mozilla/5.0 (Macintosh; Intel Mac OS X 14_2) AppleWebKit/605.1.15 Version/17.2 Safari/605.1.15", want: model.BrowserUnknown},
		{ua: "curl/8.4.0", want: model.BrowserUnknown},
		{ua: "", want: model.BrowserUnknown},
	}

	for _, tt := range tests {
		t.Run(string(tt.want)+"/"+tt.ua, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyBrowser(tt.ua))
		})
	}
}
