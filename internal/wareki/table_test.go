package wareki

import (
	"reflect"
	"testing"
)

func TestWesternYearFor(t *testing.T) {
	t.Parallel()

	table := New()
	tests := []struct {
		name   string
		era    string
		label  string
		want   int
		wantOK bool
	}{
		{name: "meiji first year", era: Meiji, label: "元年", want: 1868, wantOK: true},
		{name: "meiji last year", era: Meiji, label: "45年", want: 1912, wantOK: true},
		{name: "taisho first year", era: Taisho, label: "元年", want: 1912, wantOK: true},
		{name: "showa 31", era: Showa, label: "31年", want: 1956, wantOK: true},
		{name: "showa 64", era: Showa, label: "64年", want: 1989, wantOK: true},
		{name: "heisei 10", era: Heisei, label: "10年", want: 1998, wantOK: true},
		{name: "reiwa 10", era: Reiwa, label: "10年", want: 2028, wantOK: true},
		{name: "trims input", era: " 平成 ", label: " 2年 ", want: 1990, wantOK: true},
		{name: "unknown era", era: "慶応", label: "元年"},
		{name: "label outside era", era: Taisho, label: "16年"},
		{name: "numeric first year is not a label", era: Showa, label: "1年"},
		{name: "empty", era: "", label: ""},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, ok := table.WesternYearFor(tc.era, tc.label)
			if ok != tc.wantOK || got != tc.want {
				t.Fatalf("WesternYearFor(%q, %q) = (%d, %v), want (%d, %v)", tc.era, tc.label, got, ok, tc.want, tc.wantOK)
			}
		})
	}
}

func TestEraYearFor(t *testing.T) {
	t.Parallel()

	table := New()
	tests := []struct {
		year   int
		want   EraYear
		wantOK bool
	}{
		{year: 1868, want: EraYear{Era: Meiji, Label: "元年"}, wantOK: true},
		{year: 1911, want: EraYear{Era: Meiji, Label: "44年"}, wantOK: true},
		{year: 1912, want: EraYear{Era: Taisho, Label: "元年"}, wantOK: true},
		{year: 1926, want: EraYear{Era: Showa, Label: "元年"}, wantOK: true},
		{year: 1956, want: EraYear{Era: Showa, Label: "31年"}, wantOK: true},
		{year: 1989, want: EraYear{Era: Heisei, Label: "元年"}, wantOK: true},
		{year: 2019, want: EraYear{Era: Reiwa, Label: "元年"}, wantOK: true},
		{year: 2028, want: EraYear{Era: Reiwa, Label: "10年"}, wantOK: true},
		{year: 1867},
		{year: 2029},
	}
	for _, tc := range tests {
		got, ok := table.EraYearFor(tc.year)
		if ok != tc.wantOK || got != tc.want {
			t.Errorf("EraYearFor(%d) = (%+v, %v), want (%+v, %v)", tc.year, got, ok, tc.want, tc.wantOK)
		}
	}
}

func TestRoundTripPrefersIncomingEraAtTransitions(t *testing.T) {
	t.Parallel()

	table := New()
	transitions := map[int]bool{1912: true, 1926: true, 1989: true, 2019: true}
	for _, era := range table.Eras() {
		for _, label := range table.YearLabels(era) {
			western, ok := table.WesternYearFor(era, label)
			if !ok {
				t.Fatalf("missing western year for %s%s", era, label)
			}
			back, ok := table.EraYearFor(western)
			if !ok {
				t.Fatalf("missing era year for %d", western)
			}
			again, _ := table.WesternYearFor(back.Era, back.Label)
			if again != western {
				t.Fatalf("round trip of %s%s drifted: %d -> %s -> %d", era, label, western, back, again)
			}
			if transitions[western] {
				if back.Label != FirstYearLabel {
					t.Fatalf("transition year %d should resolve to 元年, got %s", western, back)
				}
				continue
			}
			if back.Era != era || back.Label != label {
				t.Fatalf("round trip of %s%s returned %s", era, label, back)
			}
		}
	}
}

func TestYearLabelsOrder(t *testing.T) {
	t.Parallel()

	table := New()
	labels := table.YearLabels(Taisho)
	want := []string{"元年", "2年", "3年", "4年", "5年", "6年", "7年", "8年", "9年", "10年", "11年", "12年", "13年", "14年", "15年"}
	if !reflect.DeepEqual(labels, want) {
		t.Fatalf("unexpected taisho labels: %v", labels)
	}
	if got := table.YearLabels("不明"); got != nil {
		t.Fatalf("expected nil labels for unknown era, got %v", got)
	}
	if got := len(table.YearLabels(Showa)); got != 64 {
		t.Fatalf("expected 64 showa labels, got %d", got)
	}
}

func TestErasOrder(t *testing.T) {
	t.Parallel()

	want := []string{Meiji, Taisho, Showa, Heisei, Reiwa}
	if got := New().Eras(); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestDefinitionIsACopy(t *testing.T) {
	t.Parallel()

	table := New()
	def, ok := table.Definition(Heisei)
	if !ok {
		t.Fatalf("expected heisei definition")
	}
	if def.FirstYear() != 1989 || def.LastYear() != 2019 {
		t.Fatalf("unexpected span %d-%d", def.FirstYear(), def.LastYear())
	}
	def.Years[0].WesternYear = 1
	if got, _ := table.WesternYearFor(Heisei, "元年"); got != 1989 {
		t.Fatalf("table mutated through definition copy: %d", got)
	}
	if label, ok := def.Label(31); !ok || label != "31年" {
		t.Fatalf("unexpected label for 31: %q %v", label, ok)
	}
	if _, ok := def.Label(32); ok {
		t.Fatalf("expected no label past the end of the era")
	}
}

func TestDisplayForWesternYear(t *testing.T) {
	t.Parallel()

	table := New()
	if got := table.DisplayForWesternYear(1998); got != "平成10年" {
		t.Fatalf("expected 平成10年, got %q", got)
	}
	if got := table.DisplayForWesternYear(1900); got != "明治33年" {
		t.Fatalf("expected 明治33年, got %q", got)
	}
	if got := table.DisplayForWesternYear(1800); got != "" {
		t.Fatalf("expected empty display, got %q", got)
	}
}
