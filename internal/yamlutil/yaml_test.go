package yamlutil_test

// Notes:
// - Marshal error branch: not tested because yaml.Marshal only fails with
//   unmarshalable types (channels, functions) which never reach it here.
// - TestInputSizeLimit mutates MaxInputSize and therefore does not run in
//   parallel.

import (
	"errors"
	"strings"
	"testing"

	"github.com/alnah/go-storage2md/internal/yamlutil"
)

type manifestEntry struct {
	Name   string `yaml:"name"`
	Kind   string `yaml:"kind"`
	Source string `yaml:"source"`
}

// ---------------------------------------------------------------------------
// TestUnmarshalStrict - Parses YAML and rejects unknown fields
// ---------------------------------------------------------------------------

func TestUnmarshalStrict(t *testing.T) {
	t.Parallel()

	t.Run("empty input", func(t *testing.T) {
		t.Parallel()

		var got manifestEntry
		if err := yamlutil.UnmarshalStrict(nil, &got); !errors.Is(err, yamlutil.ErrNilData) {
			t.Errorf("error = %v, want ErrNilData", err)
		}
	})

	t.Run("nil destination", func(t *testing.T) {
		t.Parallel()

		if err := yamlutil.UnmarshalStrict([]byte("name: x"), nil); !errors.Is(err, yamlutil.ErrNilDestination) {
			t.Errorf("error = %v, want ErrNilDestination", err)
		}
	})

	t.Run("unicode content", func(t *testing.T) {
		t.Parallel()

		var got manifestEntry
		if err := yamlutil.UnmarshalStrict([]byte("name: 図.png"), &got); err != nil || got.Name != "図.png" {
			t.Errorf("decoded = %+v, err = %v", got, err)
		}
	})

	t.Run("known fields decode", func(t *testing.T) {
		t.Parallel()

		var got manifestEntry
		if err := yamlutil.UnmarshalStrict([]byte("name: x.png\nkind: image"), &got); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Name != "x.png" || got.Kind != "image" {
			t.Errorf("decoded = %+v", got)
		}
	})

	t.Run("unknown field rejected with prefix", func(t *testing.T) {
		t.Parallel()

		var got manifestEntry
		err := yamlutil.UnmarshalStrict([]byte("name: x\nsize: 3"), &got)
		if err == nil {
			t.Fatal("expected error, got nil")
		}
		if !strings.HasPrefix(err.Error(), "yamlutil:") {
			t.Errorf("error = %q, want prefix 'yamlutil:'", err)
		}
	})

	t.Run("syntax error rejected", func(t *testing.T) {
		t.Parallel()

		var got manifestEntry
		if err := yamlutil.UnmarshalStrict([]byte("name: [unclosed"), &got); err == nil {
			t.Fatal("expected error, got nil")
		}
	})
}

// ---------------------------------------------------------------------------
// TestMarshal - Serializes Go values to YAML
// ---------------------------------------------------------------------------

func TestMarshal(t *testing.T) {
	t.Parallel()

	data, err := yamlutil.Marshal([]manifestEntry{
		{Name: "diagram.png", Kind: "image", Source: "diagram.png"},
		{Name: "notes.txt", Kind: "attachment", Source: "notes.txt"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	s := string(data)
	for _, want := range []string{"name: diagram.png", "kind: attachment", "source: notes.txt"} {
		if !strings.Contains(s, want) {
			t.Errorf("output missing %q, got:\n%s", want, s)
		}
	}
	if strings.Index(s, "diagram.png") > strings.Index(s, "notes.txt") {
		t.Errorf("slice order not kept:\n%s", s)
	}
}

// ---------------------------------------------------------------------------
// TestFrontMatter - Ordered "---" delimited blocks
// ---------------------------------------------------------------------------

func TestFrontMatter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		fields       []yamlutil.Field
		wantErr      error
		wantEmpty    bool
		wantContains []string
		wantOrder    []string
		wantExcludes []string
	}{
		{
			name: "ordered keys",
			fields: []yamlutil.Field{
				{Key: "title", Value: "Release Notes"},
				{Key: "source", Value: "release.xml"},
				{Key: "warnings", Value: 2},
			},
			wantContains: []string{"title: Release Notes", "source: release.xml", "warnings: 2"},
			wantOrder:    []string{"title:", "source:", "warnings:"},
		},
		{
			name: "nil values skipped",
			fields: []yamlutil.Field{
				{Key: "title", Value: "Intro"},
				{Key: "date", Value: nil},
			},
			wantContains: []string{"title: Intro"},
			wantExcludes: []string{"date"},
		},
		{
			name: "list value",
			fields: []yamlutil.Field{
				{Key: "headings", Value: []string{"setup", "usage"}},
			},
			wantContains: []string{"headings:", "- setup", "- usage"},
		},
		{
			name: "value needing quotes stays valid",
			fields: []yamlutil.Field{
				{Key: "title", Value: "Notes: part 1"},
			},
			wantContains: []string{"title:", "Notes: part 1"},
		},
		{
			name:      "no fields",
			fields:    nil,
			wantEmpty: true,
		},
		{
			name:      "only nil values",
			fields:    []yamlutil.Field{{Key: "date", Value: nil}},
			wantEmpty: true,
		},
		{
			name:    "empty key",
			fields:  []yamlutil.Field{{Key: "", Value: "x"}},
			wantErr: yamlutil.ErrEmptyKey,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := yamlutil.FrontMatter(tt.fields)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.wantEmpty {
				if got != "" {
					t.Errorf("FrontMatter() = %q, want empty", got)
				}
				return
			}
			if !strings.HasPrefix(got, "---\n") || !strings.HasSuffix(got, "\n---\n") {
				t.Errorf("FrontMatter() = %q, want --- delimiters", got)
			}
			for _, want := range tt.wantContains {
				if !strings.Contains(got, want) {
					t.Errorf("missing %q in:\n%s", want, got)
				}
			}
			for _, exclude := range tt.wantExcludes {
				if strings.Contains(got, exclude) {
					t.Errorf("unexpected %q in:\n%s", exclude, got)
				}
			}
			last := -1
			for _, key := range tt.wantOrder {
				idx := strings.Index(got, key)
				if idx < last {
					t.Errorf("key %q out of order in:\n%s", key, got)
				}
				last = idx
			}
		})
	}
}

func TestFrontMatter_ParsesBack(t *testing.T) {
	t.Parallel()

	block, err := yamlutil.FrontMatter([]yamlutil.Field{
		{Key: "title", Value: "Notes: part 1"},
		{Key: "source", Value: "notes.xml"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	body := strings.TrimSuffix(strings.TrimPrefix(block, "---\n"), "---\n")
	var got struct {
		Title  string `yaml:"title"`
		Source string `yaml:"source"`
	}
	if err := yamlutil.UnmarshalStrict([]byte(body), &got); err != nil {
		t.Fatalf("front matter does not parse back: %v", err)
	}
	if got.Title != "Notes: part 1" || got.Source != "notes.xml" {
		t.Errorf("parsed = %+v", got)
	}
}

// ---------------------------------------------------------------------------
// TestInputSizeLimit - Verifies MaxInputSize enforcement
// ---------------------------------------------------------------------------

func TestInputSizeLimit(t *testing.T) {
	originalMax := yamlutil.MaxInputSize
	t.Cleanup(func() { yamlutil.MaxInputSize = originalMax })

	t.Run("input exceeding limit fails", func(t *testing.T) {
		yamlutil.MaxInputSize = 100
		data := []byte("name: " + strings.Repeat("x", 100))
		var got manifestEntry
		err := yamlutil.UnmarshalStrict(data, &got)
		if !errors.Is(err, yamlutil.ErrInputTooLarge) {
			t.Errorf("errors.Is(err, ErrInputTooLarge) = false, got: %v", err)
		}
		if err != nil && !strings.Contains(err.Error(), "max 100") {
			t.Errorf("error should contain max size, got: %s", err)
		}
	})
}
