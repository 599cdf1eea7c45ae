package util

import (
	"fmt"
	"time"
	"unicode/utf8"
)

const (
	// DisplayLimit is the longest message the chat surface will post
	DisplayLimit   = 1900
	DisplayEllipse = "…"
)

// TruncateDisplay cuts text to DisplayLimit characters and appends an
// ellipsis when anything was dropped. Counting is by rune so multi-byte
// pt-BR text never gets split mid-character.
func TruncateDisplay(text string) string {
	if utf8.RuneCountInString(text) <= DisplayLimit {
		return text
	}

	count := 0
	for i := range text {
		if count == DisplayLimit {
			return text[:i] + DisplayEllipse
		}
		count++
	}
	return text
}

// FormatUptime renders d as "Xh Ym Zs"
func FormatUptime(d time.Duration) string {
	totalSec := int64(d / time.Second)
	h := totalSec / 3600
	m := (totalSec % 3600) / 60
	s := totalSec % 60
	return fmt.Sprintf("%dh %dm %ds", h, m, s)
}
