package markdown

import (
	"fmt"
	"html"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// emojiCDN hosts the EmojiOne SVG assets referenced by generated images.
const emojiCDN = "https://cdn.jsdelivr.net/emojione/assets/4.5/svg/"

// EmojiGenerator is the callback the emoji extension uses to turn a shortcode
// into markup. It serialises as a python/name reference so the composed
// configuration remains loadable by the host.
type EmojiGenerator struct {
	ref    string
	render func(shortcode, codepoints string) string
}

// ToSVG renders emoji as EmojiOne SVG images.
var ToSVG = EmojiGenerator{ref: "pymdownx.emoji.to_svg", render: renderSVG}

// Ref returns the host reference of the generator.
func (g EmojiGenerator) Ref() string { return g.ref }

// Render returns the markup for shortcode (e.g. ":smile:") whose codepoints
// are given as dash-separated hex (e.g. "1f604").
func (g EmojiGenerator) Render(shortcode, codepoints string) string {
	if g.render == nil {
		return shortcode
	}
	return g.render(shortcode, codepoints)
}

// MarshalYAML implements yaml.Marshaler.
func (g EmojiGenerator) MarshalYAML() (any, error) {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!python/name:" + g.ref, Value: ""}, nil
}

func renderSVG(shortcode, codepoints string) string {
	alt, err := codepointsToString(codepoints)
	if err != nil {
		alt = shortcode
	}
	return fmt.Sprintf(`<img alt="%s" class="emojione" src="%s%s.svg" title="%s" />`,
		html.EscapeString(alt), emojiCDN, strings.ToLower(codepoints), html.EscapeString(shortcode))
}

func codepointsToString(codepoints string) (string, error) {
	var b strings.Builder
	for _, part := range strings.Split(codepoints, "-") {
		r, err := strconv.ParseUint(part, 16, 32)
		if err != nil {
			return "", fmt.Errorf("invalid codepoint %q: %w", part, err)
		}
		b.WriteRune(rune(r))
	}
	return b.String(), nil
}
