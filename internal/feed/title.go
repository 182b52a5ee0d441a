package feed

import (
	"path/filepath"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var separatorReplacer = strings.NewReplacer(
	"|", " ",
	"｜", " ", // fullwidth vertical bar
	"：", ":", // fullwidth colon
)

var multiSpacePattern = regexp.MustCompile(` {2,}`)

// NormalizeTitle collapses vertical-bar variants into spaces and converts the
// fullwidth colon to ASCII. The operation is idempotent.
func NormalizeTitle(title string) string {
	return separatorReplacer.Replace(title)
}

// TitleFromFilename strips the extension and normalizes separators, yielding
// the display title for a scanned file.
func TitleFromFilename(filename string) string {
	name := strings.TrimSuffix(filename, filepath.Ext(filename))
	return NormalizeTitle(name)
}

// ThemeKey returns the leading segment of a title used for theme grouping:
// everything before the first run of two or more spaces, colon, ellipsis, or
// vertical bar. A title with no separator is its own theme.
func ThemeKey(title string) string {
	cut := len(title)
	if loc := multiSpacePattern.FindStringIndex(title); loc != nil {
		cut = loc[0]
	}
	for _, sep := range []string{":", "…", "...", "|"} {
		if idx := strings.Index(title, sep); idx >= 0 && idx < cut {
			cut = idx
		}
	}
	theme := strings.TrimSpace(title[:cut])
	if theme == "" {
		theme = strings.TrimSpace(title)
	}
	return theme
}

var accentStripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// foldKey lowers and strips accents so theme matching is case- and
// accent-insensitive.
func foldKey(s string) string {
	stripped, _, err := transform.String(accentStripper, s)
	if err != nil {
		stripped = s
	}
	return strings.ToLower(stripped)
}
