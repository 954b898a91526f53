package pipeline

import "testing"

func TestDecodeEmojiID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		id, want string
	}{
		{"1f44b", "\U0001F44B"},
		{"emoji-1f469-200d-1f4bb", "\U0001F469\u200d\U0001F4BB"},
		{"emoji/1f600", "\U0001F600"},
		{"1F600_1F601", "\U0001F600\U0001F601"},
		{"", ""},
		{"zz", ""},
		{"d800", ""},
		{"110000", ""},
	}
	for _, tt := range tests {
		if got := decodeEmojiID(tt.id); got != tt.want {
			t.Errorf("decodeEmojiID(%q) = %q, want %q", tt.id, got, tt.want)
		}
	}
}

func TestEmojiRef_Resolve(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		ref  emojiRef
		want string
	}{
		{"id wins", emojiRef{id: "1f600", shortname: ":tada:"}, "\U0001F600"},
		{"shortname", emojiRef{shortname: ":tada:"}, "\U0001F389"},
		{"shortname without colons", emojiRef{shortname: "SMILE"}, "\U0001F604"},
		{"legacy name", emojiRef{name: "cross"}, "❌"},
		{"fallback text", emojiRef{shortname: ":unheard-of:", fallback: ":-)"}, ":-)"},
		{"shortcut", emojiRef{name: "unheard-of", shortcut: ";)"}, ";)"},
		{"unknown shortname kept", emojiRef{shortname: ":unheard-of:"}, ":unheard-of:"},
		{"unknown name", emojiRef{name: "unheard-of"}, ":unheard-of:"},
		{"empty", emojiRef{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tt.ref.resolve(); got != tt.want {
				t.Errorf("resolve() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEmoji_Elements(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"emoticon name", `<p>ok <ac:emoticon ac:name="cross" /></p>`, "ok ❌\n"},
		{"emoticon id", `<p><ac:emoticon ac:name="blue-star" ac:emoji-id="1f44b" /></p>`, "\U0001F44B\n"},
		{"emoji element", `<p><ac:emoji ac:emoji-shortname=":tada:" /></p>`, "\U0001F389\n"},
		{"span emoji", `<p><span data-emoji-id="1f600" data-emoji-shortname=":grinning:">x</span></p>`, "\U0001F600\n"},
		{"span text fallback", `<p><span data-emoji-shortname=":unheard-of:">:)</span></p>`, ":)\n"},
		{"plain span", `<p><span>just text</span></p>`, "just text\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := convertDoc(t, tt.input, defaultOpts()).Markdown
			if got != tt.want {
				t.Errorf("Markdown = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEmojiShortnames_Wellformed(t *testing.T) {
	t.Parallel()

	for code, emoji := range emojiShortnames {
		if len(code) < 3 || code[0] != ':' || code[len(code)-1] != ':' {
			t.Errorf("shortname %q is not wrapped in colons", code)
		}
		if emoji == "" {
			t.Errorf("shortname %q maps to empty string", code)
		}
	}
}
