package dateutil

import (
	"errors"
	"strings"
	"testing"
	"time"
)

// 2024-03-05 09:07:04 UTC, single-digit month/day/hour to exercise padding.
var fixedTime = time.Date(2024, 3, 5, 9, 7, 4, 0, time.UTC)

func TestFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		format  string
		want    string
		wantErr error
	}{
		{name: "YYYY", format: "YYYY", want: "2024"},
		{name: "YY", format: "YY", want: "24"},
		{name: "MMMM", format: "MMMM", want: "March"},
		{name: "MMM", format: "MMM", want: "Mar"},
		{name: "MM is zero-padded", format: "MM", want: "03"},
		{name: "M is not padded", format: "M", want: "3"},
		{name: "DD is zero-padded", format: "DD", want: "05"},
		{name: "D is not padded", format: "D", want: "5"},
		{name: "time tokens", format: "HH:mm:ss", want: "09:07:04"},
		{name: "month and minute stay distinct", format: "MM-mm", want: "03-07"},
		{name: "ISO", format: "YYYY-MM-DD", want: "2024-03-05"},
		{name: "long", format: "MMMM D, YYYY", want: "March 5, 2024"},
		{name: "bracket literal", format: "[Exported] YYYY", want: "Exported 2024"},
		{name: "bracket literal with layout digits", format: "[v2] YYYY", want: "v2 2024"},
		{name: "plain digits stay literal", format: "Q1 YYYY", want: "Q1 2024"},
		{name: "only literal characters", format: "---", want: "---"},
		{name: "empty brackets", format: "[]YYYY", want: "2024"},
		{name: "empty format", format: "", wantErr: ErrInvalidDateFormat},
		{name: "unclosed bracket", format: "[Date YYYY", wantErr: ErrInvalidDateFormat},
		{
			name:    "format exceeding max length",
			format:  strings.Repeat("-", MaxDateFormatLength+1),
			wantErr: ErrInvalidDateFormat,
		},
		{
			name:   "format at max length",
			format: strings.Repeat("-", MaxDateFormatLength),
			want:   strings.Repeat("-", MaxDateFormatLength),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Format(tt.format, fixedTime)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Format(%q) error = %v, want %v", tt.format, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Format(%q) unexpected error: %v", tt.format, err)
			}
			if got != tt.want {
				t.Errorf("Format(%q) = %q, want %q", tt.format, got, tt.want)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	for _, value := range []string{"", "2024-01-02", "auto", "Modified", "auto:DD/MM/YYYY", "modified:iso"} {
		if err := Validate(value); err != nil {
			t.Errorf("Validate(%q) = %v, want nil", value, err)
		}
	}
	for _, value := range []string{"auto:[oops", "auto:", "automatic"} {
		if err := Validate(value); !errors.Is(err, ErrInvalidDateFormat) {
			t.Errorf("Validate(%q) = %v, want ErrInvalidDateFormat", value, err)
		}
	}
}

func TestResolve(t *testing.T) {
	t.Parallel()

	modified := time.Date(2023, 12, 31, 23, 59, 0, 0, time.UTC)

	tests := []struct {
		name    string
		value   string
		want    string
		wantErr error
	}{
		{name: "empty passthrough", value: "", want: ""},
		{name: "literal date passthrough", value: "2024-01-01", want: "2024-01-01"},
		{name: "arbitrary text passthrough", value: "Q1 2024", want: "Q1 2024"},
		{name: "auto default format", value: "auto", want: "2024-03-05"},
		{name: "AUTO case insensitive", value: "AUTO", want: "2024-03-05"},
		{name: "auto custom format", value: "auto:DD/MM/YYYY", want: "05/03/2024"},
		{name: "auto preset", value: "auto:long", want: "March 5, 2024"},
		{name: "auto preset case insensitive", value: "auto:European", want: "05/03/2024"},
		{name: "auto datetime preset", value: "auto:datetime", want: "2024-03-05 09:07"},
		{name: "modified default format", value: "modified", want: "2023-12-31"},
		{name: "modified custom format", value: "Modified:MMM YYYY", want: "Dec 2023"},
		{name: "auto bracket literal", value: "auto:[Date]: YYYY", want: "Date: 2024"},
		{name: "auto with empty format", value: "auto:", wantErr: ErrInvalidDateFormat},
		{name: "autoX invalid", value: "autoX", wantErr: ErrInvalidDateFormat},
		{name: "modified123 invalid", value: "modified123", wantErr: ErrInvalidDateFormat},
		{name: "auto with unclosed bracket", value: "auto:[x", wantErr: ErrInvalidDateFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Resolve(tt.value, fixedTime, modified)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Resolve(%q) error = %v, want %v", tt.value, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Resolve(%q) unexpected error: %v", tt.value, err)
			}
			if got != tt.want {
				t.Errorf("Resolve(%q) = %q, want %q", tt.value, got, tt.want)
			}
		})
	}
}

func TestDatePresets_Valid(t *testing.T) {
	t.Parallel()

	for name, format := range DatePresets {
		if _, err := Format(format, time.Now()); err != nil {
			t.Errorf("preset %q: %v", name, err)
		}
	}
}
