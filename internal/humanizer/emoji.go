package humanizer

import (
	"strings"
	"unicode"
)

// emojiTable covers the pictograph blocks replies typically carry:
// miscellaneous symbols and dingbats, regional indicators, pictographs,
// emoticons and transport symbols.
var emojiTable = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: 0x2600, Hi: 0x26FF, Stride: 1},
		{Lo: 0x2700, Hi: 0x27BF, Stride: 1},
	},
	R32: []unicode.Range32{
		{Lo: 0x1F1E0, Hi: 0x1F1FF, Stride: 1},
		{Lo: 0x1F300, Hi: 0x1F5FF, Stride: 1},
		{Lo: 0x1F600, Hi: 0x1F64F, Stride: 1},
		{Lo: 0x1F680, Hi: 0x1F6FF, Stride: 1},
	},
}

func isEmoji(r rune) bool {
	return unicode.Is(emojiTable, r)
}

// CountEmojis counts emoji code points in text.
func CountEmojis(text string) int {
	n := 0
	for _, r := range text {
		if isEmoji(r) {
			n++
		}
	}
	return n
}

// LimitEmojis keeps the first emoji in text and deletes the rest.
func LimitEmojis(text string) string {
	if CountEmojis(text) <= 1 {
		return text
	}
	seen := false
	return strings.Map(func(r rune) rune {
		if !isEmoji(r) {
			return r
		}
		if seen {
			return -1
		}
		seen = true
		return r
	}, text)
}
