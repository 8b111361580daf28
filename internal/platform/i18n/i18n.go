package i18n

import "golang.org/x/text/language"

type Locale string

const (
	LocaleEnglish  Locale = "en"
	LocaleGujarati Locale = "gu"
)

var matcher = language.NewMatcher([]language.Tag{
	language.Gujarati, // first entry is the fallback
	language.English,
})

// ParseLocale maps an arbitrary BCP-47 tag ("en-IN", "gu", ...) onto the
// two locales the application supports.
func ParseLocale(s string) Locale {
	tag, err := language.Parse(s)
	if err != nil {
		return LocaleGujarati
	}
	_, idx, _ := matcher.Match(tag)
	if idx == 1 {
		return LocaleEnglish
	}
	return LocaleGujarati
}

var english = map[string]string{
	"doc.title.issue":    "Udhar Challan",
	"doc.title.return":   "Jama Challan",
	"doc.challan_no":     "Challan No",
	"doc.date":           "Date",
	"doc.client":         "Client",
	"doc.site":           "Site",
	"doc.mobile":         "Mobile",
	"doc.plate_size":     "Plate Size",
	"doc.quantity":       "Qty",
	"doc.total":          "Total",
	"doc.note":           "Note",
	"ledger.no_activity": "No Activity",
}

var gujarati = map[string]string{
	"doc.title.issue":    "ઉધાર ચલણ",
	"doc.title.return":   "જમા ચલણ",
	"doc.challan_no":     "ચલણ નં",
	"doc.date":           "તારીખ",
	"doc.client":         "ગ્રાહક",
	"doc.site":           "સાઇટ",
	"doc.mobile":         "મોબાઇલ",
	"doc.plate_size":     "પ્લેટ સાઇઝ",
	"doc.quantity":       "નંગ",
	"doc.total":          "કુલ",
	"doc.note":           "નોંધ",
	"ledger.no_activity": "No Activity",
}

// Resolver looks strings up for one fixed locale. It is passed explicitly
// into rendering code so the formatting layer carries no hidden state.
type Resolver struct {
	table map[string]string
}

func NewResolver(loc Locale) *Resolver {
	if loc == LocaleEnglish {
		return &Resolver{table: english}
	}
	return &Resolver{table: gujarati}
}

// T returns the localized string. Unknown keys pass through as their own
// literal value.
func (r *Resolver) T(key string) string {
	if v, ok := r.table[key]; ok {
		return v
	}
	return key
}
