package telegram

import "strings"

// EscapeHTML escapes the characters Telegram's HTML parse mode treats as
// markup. User-authored text goes through this before being embedded in a
// formatted message.
func EscapeHTML(s string) string {
	replacer := strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
	)
	return replacer.Replace(s)
}
