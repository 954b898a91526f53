package pipeline

import (
	"strings"
	"testing"
)

// policyFunc records every lookup and answers from a fixed table.
type policyFunc struct {
	answers map[string]string
	calls   []string
}

func (p *policyFunc) resolve(target string, kind TargetKind) string {
	p.calls = append(p.calls, kind.String()+":"+target)
	return p.answers[target]
}

// ---------------------------------------------------------------------------
// TestLinks - Anchors, ac:link and resource identifiers
// ---------------------------------------------------------------------------

func TestLinks(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"external", `<p><a href="https://example.com">site</a></p>`, "[site](https://example.com)\n"},
		{"external without text", `<p><a href="https://example.com"></a></p>`, "[https://example.com](https://example.com)\n"},
		{"fragment", `<p><a href="#Top">up</a></p>`, "[up](#Top)\n"},
		{"no href", `<p><a>plain</a></p>`, "plain\n"},
		{"page without policy", `<p><ac:link><ri:page ri:content-title="Other Page" /><ac:plain-text-link-body><![CDATA[see]]></ac:plain-text-link-body></ac:link></p>`, "[see](<Other Page>)\n"},
		{"page title as text", `<p><ac:link><ri:page ri:content-title="Guide" /></ac:link></p>`, "[Guide](Guide)\n"},
		{"page in space", `<p><ac:link><ri:page ri:space-key="DEV" ri:content-title="Guide" /></ac:link></p>`, "[Guide](DEV:Guide)\n"},
		{"colon title without policy", `<p><ac:link><ri:page ri:content-title="Release: 1.0" /></ac:link></p>`, "[Release: 1.0](<Release: 1.0>)\n"},
		{"page with anchor", `<p><ac:link ac:anchor="Step One"><ri:page ri:content-title="Guide" /></ac:link></p>`, "[Guide](Guide#step-one)\n"},
		{"same document anchor", `<p><ac:link ac:anchor="Step One"><ac:plain-text-link-body><![CDATA[jump]]></ac:plain-text-link-body></ac:link></p>`, "[jump](#step-one)\n"},
		{"rich link body", `<p><ac:link><ri:page ri:content-title="Guide" /><ac:link-body><strong>bold</strong></ac:link-body></ac:link></p>`, "[**bold**](Guide)\n"},
		{"attachment", `<p><ac:link><ri:attachment ri:filename="runbook.pdf" /></ac:link></p>`, "[runbook.pdf](runbook.pdf)\n"},
		{"url resource", `<p><ac:link><ri:url ri:value="https://example.com/x" /></ac:link></p>`, "[https://example.com/x](https://example.com/x)\n"},
		{"space", `<p><ac:link><ri:space ri:space-key="DEV" /></ac:link></p>`, "[DEV](DEV:)\n"},
		{"user without policy", `<p><ac:link><ri:user ri:account-id="abc123" /></ac:link></p>`, "@abc123\n"},
		{"user with text", `<p><ac:link><ri:user ri:username="jdoe" /><ac:plain-text-link-body><![CDATA[Jane]]></ac:plain-text-link-body></ac:link></p>`, "@Jane\n"},
		{"anonymous user", `<p><ac:link><ri:user /></ac:link></p>`, "@user\n"},
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

func TestPageTarget(t *testing.T) {
	t.Parallel()

	tests := []struct {
		space string
		title string
		want  string
	}{
		{"", "Guide", "Guide"},
		{"DEV", "Guide", "DEV:Guide"},
		{"", "Release: 1.0", ":Release: 1.0"},
		{"DEV", "Release: 1.0", "DEV:Release: 1.0"},
		{"DEV", "", "DEV:"},
	}
	for _, tt := range tests {
		if got := pageTarget(tt.space, tt.title); got != tt.want {
			t.Errorf("pageTarget(%q, %q) = %q, want %q", tt.space, tt.title, got, tt.want)
		}
	}
}

func TestLinks_Policy(t *testing.T) {
	t.Parallel()

	policy := &policyFunc{answers: map[string]string{
		"Other Page":          "other-page.md",
		"abc123":              "https://people.example.com/abc123",
		"runbook.pdf":         "files/runbook.pdf",
		"https://example.com": "https://example.org",
	}}
	opts := defaultOpts()
	opts.LinkPolicy = policy.resolve

	input := `<p>` +
		`<ac:link><ri:page ri:content-title="Other Page" /></ac:link> ` +
		`<ac:link><ri:user ri:account-id="abc123" /></ac:link> ` +
		`<ac:link><ri:attachment ri:filename="runbook.pdf" /></ac:link> ` +
		`<a href="https://example.com">site</a> ` +
		`<ac:link><ri:page ri:content-title="Missing" /></ac:link>` +
		`</p>`
	out := convertDoc(t, input, opts)

	want := "[Other Page](other-page.md) " +
		"[@abc123](https://people.example.com/abc123) " +
		"[runbook.pdf](files/runbook.pdf) " +
		"[site](https://example.org) " +
		"Missing\n"
	if out.Markdown != want {
		t.Errorf("Markdown = %q, want %q", out.Markdown, want)
	}

	wantCalls := []string{"page:Other Page", "user:abc123", "attachment:runbook.pdf", "external:https://example.com", "page:Missing"}
	if strings.Join(policy.calls, "|") != strings.Join(wantCalls, "|") {
		t.Errorf("policy calls = %v, want %v", policy.calls, wantCalls)
	}

	if !hasWarning(out, WarningUnresolvedReference) {
		t.Errorf("Warnings = %v, want unresolved_reference for Missing", out.Warnings)
	}
}

// ---------------------------------------------------------------------------
// TestImages - Image syntax and asset collection
// ---------------------------------------------------------------------------

func TestImages(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		input      string
		emitImages bool
		want       string
	}{
		{"attachment", `<ac:image><ri:attachment ri:filename="diagram.png" /></ac:image>`, true, "![diagram.png](diagram.png)\n"},
		{"attachment with alt", `<ac:image ac:alt="Flow"><ri:attachment ri:filename="diagram.png" /></ac:image>`, true, "![Flow](diagram.png)\n"},
		{"url", `<ac:image ac:title="Logo"><ri:url ri:value="https://cdn.example.com/img/logo.svg" /></ac:image>`, true, "![Logo](https://cdn.example.com/img/logo.svg)\n"},
		{"html img", `<p><img src="https://cdn.example.com/a%20b.png" alt="ab" /></p>`, true, "![ab](https://cdn.example.com/a%20b.png)\n"},
		{"data uri", `<p><img src="data:image/png;base64,AAAA" alt="dot" /></p>`, true, "![dot](data:image/png;base64,AAAA)\n"},
		{"images disabled", `<ac:image ac:alt="Flow"><ri:attachment ri:filename="diagram.png" /></ac:image>`, false, "Flow\n"},
		{"missing resource", `<p>x <ac:image ac:alt="Lost" /></p>`, true, "x Lost\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			opts := defaultOpts()
			opts.EmitImages = tt.emitImages
			got := convertDoc(t, tt.input, opts).Markdown
			if got != tt.want {
				t.Errorf("Markdown = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAssets_DeduplicatedAndUnique(t *testing.T) {
	t.Parallel()

	input := `<ac:image><ri:attachment ri:filename="diagram.png" /></ac:image>` +
		`<ac:image><ri:url ri:value="https://CDN.example.com/x/diagram.png#v1" /></ac:image>` +
		`<p><img src="https://cdn.example.com/x/diagram.png" /></p>` +
		`<ac:image><ri:attachment ri:filename="diagram.png" /></ac:image>` +
		`<p><ac:link><ri:attachment ri:filename="notes.txt" /></ac:link></p>`
	out := convertDoc(t, input, defaultOpts())

	want := []Asset{
		{SourceURL: "diagram.png", SuggestedLocalName: "diagram.png", Kind: AssetAttachment},
		{SourceURL: "https://CDN.example.com/x/diagram.png#v1", SuggestedLocalName: "diagram-1.png", Kind: AssetImage},
		{SourceURL: "notes.txt", SuggestedLocalName: "notes.txt", Kind: AssetAttachment},
	}
	if len(out.Assets) != len(want) {
		t.Fatalf("Assets = %+v, want %d entries", out.Assets, len(want))
	}
	for i := range want {
		if out.Assets[i] != want[i] {
			t.Errorf("Assets[%d] = %+v, want %+v", i, out.Assets[i], want[i])
		}
	}
	assertContains(t, out.Markdown, []string{"![diagram-1.png](https://CDN.example.com/x/diagram.png#v1)"}, nil)
}

func TestAssets_CollectedWhenImagesDisabled(t *testing.T) {
	t.Parallel()

	opts := defaultOpts()
	opts.EmitImages = false
	out := convertDoc(t, `<ac:image><ri:attachment ri:filename="a.png" /></ac:image>`, opts)
	if len(out.Assets) != 1 {
		t.Errorf("Assets = %+v, want the image recorded", out.Assets)
	}
}

func TestSanitizeFilename(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in, want string
	}{
		{"plain.png", "plain.png"},
		{`a/b\c:d.png`, "a_b_c_d.png"},
		{"what?.txt", "what_.txt"},
		{"tab\there", "tab_here"},
		{"  ", "asset"},
		{"..", "asset"},
	}
	for _, tt := range tests {
		if got := SanitizeFilename(tt.in); got != tt.want {
			t.Errorf("SanitizeFilename(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestUniqueName(t *testing.T) {
	t.Parallel()

	a := newAssetCollector()
	got := []string{
		a.uniqueName("x.png"),
		a.uniqueName("x.png"),
		a.uniqueName("x-1.png"),
		a.uniqueName("x.png"),
		a.uniqueName("README"),
		a.uniqueName("README"),
	}
	want := []string{"x.png", "x-1.png", "x-1-1.png", "x-2.png", "README", "README-1"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("uniqueName #%d = %q, want %q", i, got[i], want[i])
		}
	}
}
