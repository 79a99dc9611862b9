package alert

import "strings"

// reservedChars is the set Telegram MarkdownV2 requires escaping outside entities.
const reservedChars = "_*[]()~`>#+-=|{}.!\\"

var markdownReplacer = func() *strings.Replacer {
	pairs := make([]string, 0, 2*len(reservedChars))
	for _, c := range reservedChars {
		pairs = append(pairs, string(c), "\\"+string(c))
	}
	return strings.NewReplacer(pairs...)
}()

var linkURLReplacer = strings.NewReplacer(
	"\\", "\\\\",
	")", "\\)",
)

// Escape escapes every MarkdownV2 reserved character in text, including the backslash.
func Escape(text string) string {
	return markdownReplacer.Replace(text)
}

// EscapeLinkURL escapes the URL part of an inline link, where only ')' and '\' are special.
func EscapeLinkURL(url string) string {
	return linkURLReplacer.Replace(url)
}

// IsReserved reports whether r must be escaped in MarkdownV2 text.
func IsReserved(r rune) bool {
	return strings.ContainsRune(reservedChars, r)
}
