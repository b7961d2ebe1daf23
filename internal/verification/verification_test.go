package verification

import "testing"

func TestEncodeEraDate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name                  string
		era, year, month, day string
		want                  string
	}{
		{name: "showa", era: "昭和", year: "31年", month: "10月", day: "5日", want: "311005"},
		{name: "first year", era: "明治", year: "元年", month: "1月", day: "1日", want: "010101"},
		{name: "heisei double digits", era: "平成", year: "10年", month: "12月", day: "31日", want: "101231"},
		{name: "full width input", era: "令和", year: "５年", month: "３月", day: "９日", want: "050309"},
		{name: "missing era", era: "", year: "31年", month: "10月", day: "5日", want: ""},
		{name: "missing year", era: "昭和", year: "", month: "10月", day: "5日", want: ""},
		{name: "missing month", era: "昭和", year: "31年", month: "", day: "5日", want: ""},
		{name: "missing day", era: "昭和", year: "31年", month: "10月", day: "", want: ""},
		{name: "garbage day", era: "昭和", year: "31年", month: "10月", day: "五日", want: ""},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := EncodeEraDate(tc.era, tc.year, tc.month, tc.day); got != tc.want {
				t.Fatalf("EncodeEraDate(%q, %q, %q, %q) = %q, want %q", tc.era, tc.year, tc.month, tc.day, got, tc.want)
			}
		})
	}
}

func TestEncodeEraDateWrapsLargeYears(t *testing.T) {
	t.Parallel()

	if got := EncodeEraDate("昭和", "164年", "1月", "1日"); got != "640101" {
		t.Fatalf("expected year to wrap to two digits, got %q", got)
	}
}

func TestEncodeWesternDate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		year, month, day string
		want             string
	}{
		{year: "1998年", month: "9月", day: "12日", want: "980912"},
		{year: "2024年", month: "2月", day: "29日", want: "240229"},
		{year: "1900年", month: "1月", day: "1日", want: "000101"},
		{year: "2005年", month: "11月", day: "3日", want: "051103"},
		{year: "", month: "9月", day: "12日", want: ""},
		{year: "1998年", month: "", day: "12日", want: ""},
		{year: "1998年", month: "9月", day: "", want: ""},
	}
	for _, tc := range tests {
		if got := EncodeWesternDate(tc.year, tc.month, tc.day); got != tc.want {
			t.Errorf("EncodeWesternDate(%q, %q, %q) = %q, want %q", tc.year, tc.month, tc.day, got, tc.want)
		}
	}
}

func TestEncodersAreDeterministic(t *testing.T) {
	t.Parallel()

	first := EncodeEraDate("昭和", "31年", "10月", "5日")
	second := EncodeEraDate("昭和", "31年", "10月", "5日")
	if first != second {
		t.Fatalf("expected identical output, got %q and %q", first, second)
	}
	if EncodeWesternDate("1998年", "9月", "12日") != EncodeWesternDate("1998年", "9月", "12日") {
		t.Fatalf("expected identical western output")
	}
}

func TestCompose(t *testing.T) {
	t.Parallel()

	got := Compose("311005", "2025", "1234")
	if got != "31100520251234" {
		t.Fatalf("unexpected number %q", got)
	}
	if len(got) != NumberLength {
		t.Fatalf("expected length %d, got %d", NumberLength, len(got))
	}
	if got := Compose("", "", ""); got != "" {
		t.Fatalf("expected empty concatenation, got %q", got)
	}
}

func TestNewNumber(t *testing.T) {
	t.Parallel()

	n := NewNumber("980912", "1998年9月12日", "2030", "0042")
	if n.Digits != "98091220300042" || n.IsZero() {
		t.Fatalf("unexpected number %+v", n)
	}
	if !(Number{}).IsZero() {
		t.Fatalf("zero number should report IsZero")
	}
}

func TestIsFourDigits(t *testing.T) {
	t.Parallel()

	cases := map[string]bool{
		"2025":  true,
		"0000":  true,
		"202":   false,
		"20255": false,
		"20a5":  false,
		"２０２５":  false,
		"":      false,
	}
	for in, want := range cases {
		if got := IsFourDigits(in); got != want {
			t.Errorf("IsFourDigits(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNormalizeDigits(t *testing.T) {
	t.Parallel()

	if got := NormalizeDigits(" 12-3a4 "); got != "1234" {
		t.Fatalf("expected 1234, got %q", got)
	}
	if got := NormalizeDigits("１２３４"); got != "1234" {
		t.Fatalf("expected folded digits, got %q", got)
	}
	if got := FoldDigits(" ２０２５ "); got != "2025" {
		t.Fatalf("expected folded expiry, got %q", got)
	}
	if got := FoldDigits("20a5"); got != "20a5" {
		t.Fatalf("expected letters to survive folding, got %q", got)
	}
}
