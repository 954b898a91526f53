package pipeline

import (
	"strconv"
	"strings"

	"github.com/alnah/go-storage2md/internal/storage"
)

// emojiShortnames maps ":shortname:" codes to emoji. It is never written
// after package initialization, so concurrent reads need no locking.
var emojiShortnames = map[string]string{
	":+1:":                 "👍",
	":-1:":                 "👎",
	":bulb:":               "💡",
	":check_mark:":         "✔️",
	":clap:":               "👏",
	":confused:":           "😕",
	":cross_mark:":         "❌",
	":cry:":                "😢",
	":eyes:":               "👀",
	":fire:":               "🔥",
	":grin:":               "😁",
	":grinning:":           "😀",
	":heart:":              "❤️",
	":heavy_check_mark:":   "✔️",
	":heavy_minus_sign:":   "➖",
	":heavy_plus_sign:":    "➕",
	":information_source:": "ℹ️",
	":joy:":                "😂",
	":laughing:":           "😆",
	":lock:":               "🔒",
	":memo:":               "📝",
	":no_entry:":           "⛔",
	":ok_hand:":            "👌",
	":pencil:":             "📝",
	":pushpin:":            "📌",
	":question:":           "❓",
	":rocket:":             "🚀",
	":slight_frown:":       "🙁",
	":slight_smile:":       "🙂",
	":smile:":              "😄",
	":smiley:":             "😃",
	":star:":               "⭐",
	":stuck_out_tongue:":   "😛",
	":tada:":               "🎉",
	":thinking:":           "🤔",
	":thumbsdown:":         "👎",
	":thumbsup:":           "👍",
	":warning:":            "⚠️",
	":wave:":               "👋",
	":white_check_mark:":   "✅",
	":wink:":               "😉",
	":x:":                  "❌",
}

// emoticonNames maps the legacy ac:emoticon names to emoji.
var emoticonNames = map[string]string{
	"blue-star":    "⭐",
	"broken-heart": "💔",
	"cheeky":       "😛",
	"cross":        "❌",
	"green-star":   "⭐",
	"heart":        "❤️",
	"information":  "ℹ️",
	"laugh":        "😆",
	"light-off":    "💡",
	"light-on":     "💡",
	"minus":        "➖",
	"plus":         "➕",
	"question":     "❓",
	"red-star":     "⭐",
	"sad":          "🙁",
	"smile":        "🙂",
	"thumbs-down":  "👎",
	"thumbs-up":    "👍",
	"tick":         "✅",
	"warning":      "⚠️",
	"wink":         "😉",
	"yellow-star":  "⭐",
}

// emojiRef holds every way an emoji can be written in storage format.
type emojiRef struct {
	id        string
	shortname string
	name      string
	shortcut  string
	fallback  string
}

// resolve tries the code point id first, then the lookup tables, then
// the literal fallbacks. Unknown shortnames pass through unchanged.
func (e emojiRef) resolve() string {
	if s := decodeEmojiID(e.id); s != "" {
		return s
	}
	if s, ok := lookupShortname(e.shortname); ok {
		return s
	}
	if s, ok := emoticonNames[strings.ToLower(e.name)]; ok {
		return s
	}
	for _, literal := range []string{e.fallback, e.shortcut, e.shortname} {
		if literal != "" {
			return literal
		}
	}
	if e.name != "" {
		return ":" + e.name + ":"
	}
	return ""
}

// lookupShortname accepts codes with or without the surrounding colons.
func lookupShortname(code string) (string, bool) {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		return "", false
	}
	if !strings.HasPrefix(code, ":") {
		code = ":" + code + ":"
	}
	s, ok := emojiShortnames[code]
	return s, ok
}

// decodeEmojiID turns hex code points such as "1f44b" or "1f469-200d-1f4bb"
// into the emoji they spell. Anything that is not a valid code point
// sequence yields "".
func decodeEmojiID(id string) string {
	id = strings.TrimSpace(id)
	id = strings.TrimPrefix(id, "emoji-")
	id = strings.TrimPrefix(id, "emoji/")
	if id == "" {
		return ""
	}

	var b strings.Builder
	for _, part := range strings.FieldsFunc(id, func(r rune) bool { return r == '-' || r == '_' }) {
		code, err := strconv.ParseUint(part, 16, 32)
		if err != nil || code > 0x10FFFF || (code >= 0xD800 && code <= 0xDFFF) {
			return ""
		}
		b.WriteRune(rune(code))
	}
	return b.String()
}

// emoticon renders ac:emoticon and ac:emoji elements.
func emoticon(_ *Conversion, n *storage.Node) string {
	ref := emojiRef{
		id:        n.AttrValue("ac:emoji-id"),
		shortname: firstNonEmpty(n.AttrValue("ac:emoji-shortname"), n.AttrValue("ac:shortname")),
		name:      n.AttrValue("ac:name"),
		shortcut:  n.AttrValue("ac:shortcut"),
		fallback:  n.AttrValue("ac:emoji-fallback"),
	}
	if s := ref.resolve(); s != "" {
		return s
	}
	return strings.TrimSpace(n.TextContent())
}

// span keeps its children, unless it carries emoji metadata.
func span(c *Conversion, n *storage.Node) string {
	ref := emojiRef{
		id:        n.AttrValue("data-emoji-id"),
		shortname: n.AttrValue("data-emoji-shortname"),
		fallback:  n.AttrValue("data-emoji-fallback"),
	}
	if ref == (emojiRef{}) {
		return c.RenderChildren(n)
	}
	if s := decodeEmojiID(ref.id); s != "" {
		return s
	}
	if text := strings.TrimSpace(n.TextContent()); text != "" {
		return text
	}
	return ref.resolve()
}

func emojiMacro(_ *Conversion, m *Macro) string {
	ref := emojiRef{
		id:        m.Param("emoji-id"),
		shortname: m.Param("shortname", "emoji", "name", ""),
		fallback:  m.Param("fallback"),
	}
	return ref.resolve()
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
