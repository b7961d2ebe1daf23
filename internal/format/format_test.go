package format

import "testing"

func TestDateDisplays(t *testing.T) {
	t.Parallel()

	if got := EraDate("昭和", "31年", "10月", "5日"); got != "昭和31年10月5日" {
		t.Fatalf("unexpected era display %q", got)
	}
	if got := EraDate("昭和", "", "10月", "5日"); got != "" {
		t.Fatalf("expected empty display for incomplete era date, got %q", got)
	}
	if got := WesternDate("1998年", "9月", "12日"); got != "1998年9月12日" {
		t.Fatalf("unexpected western display %q", got)
	}
	if got := BirthCaption("1998年9月12日"); got != "1998年9月12日生" {
		t.Fatalf("unexpected caption %q", got)
	}
	if got := BirthCaption(""); got != "" {
		t.Fatalf("expected empty caption, got %q", got)
	}
}

func TestExpiryCaption(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		year string
		lang string
		want string
	}{
		{name: "japanese", year: "2025", lang: "ja", want: "2025年01月01日まで"},
		{name: "english", year: "2031", lang: "en", want: "Valid until Jan 1, 2031"},
		{name: "not a number", year: "20a5", lang: "ja", want: ""},
		{name: "empty", year: "", lang: "ja", want: ""},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := ExpiryCaption(tc.year, tc.lang); got != tc.want {
				t.Fatalf("ExpiryCaption(%q, %q) = %q, want %q", tc.year, tc.lang, got, tc.want)
			}
		})
	}
}

func TestMaskAndGroup(t *testing.T) {
	t.Parallel()

	if got := Mask("1234"); got != "••••" {
		t.Fatalf("unexpected mask %q", got)
	}
	if got := Mask(""); got != "" {
		t.Fatalf("expected empty mask, got %q", got)
	}
	if got := GroupDigits("31100520251234"); got != "311005 2025 1234" {
		t.Fatalf("unexpected grouping %q", got)
	}
	if got := GroupDigits("3110"); got != "3110" {
		t.Fatalf("expected short values unchanged, got %q", got)
	}
}
