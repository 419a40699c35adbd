package layout

import "unicode/utf8"

// Truncate shortens text to maxWidth runes, ending in the ellipsis when cut.
// Returns the text and whether it was cut.
func Truncate(text string, maxWidth int, cfg TextConfig) (string, bool) {
	if maxWidth <= 0 {
		return "", true
	}
	if utf8.RuneCountInString(text) <= maxWidth {
		return text, false
	}

	ellipsis := []rune(cfg.Ellipsis)
	if maxWidth <= len(ellipsis) {
		return string(ellipsis[:maxWidth]), true
	}
	return string([]rune(text)[:maxWidth-len(ellipsis)]) + cfg.Ellipsis, true
}

// TruncateAround truncates text while keeping prefix and suffix intact.
// Example: TruncateAround("Development", 12, "* ", "/", cfg) -> "* Develo.../"
func TruncateAround(text string, maxWidth int, prefix, suffix string, cfg TextConfig) (string, bool) {
	if maxWidth <= 0 {
		return "", true
	}
	combined := prefix + text + suffix
	if utf8.RuneCountInString(combined) <= maxWidth {
		return combined, false
	}

	overhead := utf8.RuneCountInString(prefix) + utf8.RuneCountInString(suffix) + utf8.RuneCountInString(cfg.Ellipsis)
	if overhead >= maxWidth {
		return Truncate(combined, maxWidth, cfg)
	}
	return prefix + string([]rune(text)[:maxWidth-overhead]) + cfg.Ellipsis + suffix, true
}
