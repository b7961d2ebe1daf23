package wareki

import (
	"strconv"
	"strings"
)

// FirstYearLabel is the label of an era's first year.
const FirstYearLabel = "元年"

// Era names in table order.
const (
	Meiji  = "明治"
	Taisho = "大正"
	Showa  = "昭和"
	Heisei = "平成"
	Reiwa  = "令和"
)

// EraDefinition maps the year labels of a single era to Western years.
type EraDefinition struct {
	Name   string
	Years  []EraYearEntry
	byYear map[string]int
}

// EraYearEntry is one row of an era definition.
type EraYearEntry struct {
	Label       string
	WesternYear int
}

// EraYear identifies a year in the era calendar.
type EraYear struct {
	Era   string
	Label string
}

// String renders the pair the way it is printed on cards, e.g. "昭和31年".
func (y EraYear) String() string {
	return y.Era + y.Label
}

// Table is the read-only set of era definitions plus the derived Western year index.
// It is safe for concurrent use once returned by New.
type Table struct {
	eras    []EraDefinition
	byName  map[string]*EraDefinition
	reverse map[int]EraYear
}

type eraSpan struct {
	name      string
	firstYear int
	years     int
}

// spans lists the eras supported by the form. Reiwa stops at 10年.
var spans = []eraSpan{
	{name: Meiji, firstYear: 1868, years: 45},
	{name: Taisho, firstYear: 1912, years: 15},
	{name: Showa, firstYear: 1926, years: 64},
	{name: Heisei, firstYear: 1989, years: 31},
	{name: Reiwa, firstYear: 2019, years: 10},
}

// New builds the era table and its reverse index.
func New() *Table {
	t := &Table{
		eras:    make([]EraDefinition, 0, len(spans)),
		byName:  make(map[string]*EraDefinition, len(spans)),
		reverse: make(map[int]EraYear),
	}
	for _, span := range spans {
		def := EraDefinition{
			Name:   span.name,
			Years:  make([]EraYearEntry, 0, span.years),
			byYear: make(map[string]int, span.years),
		}
		for n := 1; n <= span.years; n++ {
			label := yearLabel(n)
			western := span.firstYear + n - 1
			def.Years = append(def.Years, EraYearEntry{Label: label, WesternYear: western})
			def.byYear[label] = western
		}
		t.eras = append(t.eras, def)
	}
	for i := range t.eras {
		def := &t.eras[i]
		t.byName[def.Name] = def
		// Later eras overwrite earlier ones, so a transition year resolves to the new era's 元年.
		for _, entry := range def.Years {
			t.reverse[entry.WesternYear] = EraYear{Era: def.Name, Label: entry.Label}
		}
	}
	return t
}

func yearLabel(n int) string {
	if n == 1 {
		return FirstYearLabel
	}
	return strconv.Itoa(n) + "年"
}

// Eras returns the era names in table order.
func (t *Table) Eras() []string {
	out := make([]string, 0, len(t.eras))
	for _, def := range t.eras {
		out = append(out, def.Name)
	}
	return out
}

// Definition returns a copy of the named era definition.
func (t *Table) Definition(era string) (EraDefinition, bool) {
	def, ok := t.byName[strings.TrimSpace(era)]
	if !ok {
		return EraDefinition{}, false
	}
	years := make([]EraYearEntry, len(def.Years))
	copy(years, def.Years)
	return EraDefinition{Name: def.Name, Years: years, byYear: def.byYear}, true
}

// WesternYearFor resolves an era year label to its Western year.
func (t *Table) WesternYearFor(era, label string) (int, bool) {
	def, ok := t.byName[strings.TrimSpace(era)]
	if !ok {
		return 0, false
	}
	year, ok := def.byYear[strings.TrimSpace(label)]
	return year, ok
}

// EraYearFor resolves a Western year to an era year. Transition years
// (1912, 1926, 1989, 2019) return the incoming era's 元年.
func (t *Table) EraYearFor(westernYear int) (EraYear, bool) {
	y, ok := t.reverse[westernYear]
	return y, ok
}

// YearLabels returns the year labels of era in table order, or nil when the era is unknown.
func (t *Table) YearLabels(era string) []string {
	def, ok := t.byName[strings.TrimSpace(era)]
	if !ok {
		return nil
	}
	out := make([]string, 0, len(def.Years))
	for _, entry := range def.Years {
		out = append(out, entry.Label)
	}
	return out
}

// HasYearLabel reports whether label exists in era.
func (t *Table) HasYearLabel(era, label string) bool {
	_, ok := t.WesternYearFor(era, label)
	return ok
}

// Label returns the year label for the given era-relative number (1 -> 元年).
func (d EraDefinition) Label(n int) (string, bool) {
	if n < 1 || n > len(d.Years) {
		return "", false
	}
	return d.Years[n-1].Label, true
}

// FirstYear returns the Western year of 元年.
func (d EraDefinition) FirstYear() int {
	if len(d.Years) == 0 {
		return 0
	}
	return d.Years[0].WesternYear
}

// LastYear returns the Western year of the last label in the table.
func (d EraDefinition) LastYear() int {
	if len(d.Years) == 0 {
		return 0
	}
	return d.Years[len(d.Years)-1].WesternYear
}

// DisplayForWesternYear renders the era form of a Western year ("平成10年"), or "" when out of range.
func (t *Table) DisplayForWesternYear(westernYear int) string {
	y, ok := t.EraYearFor(westernYear)
	if !ok {
		return ""
	}
	return y.String()
}
