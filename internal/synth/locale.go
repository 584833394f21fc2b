package synth

import "math/rand"

// DefaultLocale is used when a country's languages have no overlap with the
// supported pool.
const DefaultLocale = "en_US"

// DefaultLocalePool is the full set of locales the default vocabulary can
// serve.
var DefaultLocalePool = []string{
	"cs_CZ", "da_DK", "de_AT", "de_CH", "de_DE", "en_GB", "en_IE", "en_IN",
	"en_NZ", "en_TH", "en_US", "es_AR", "es_CL", "es_CO", "es_ES", "es_MX",
	"et_EE", "fi_FI", "fr_BE", "fr_CH", "fr_FR", "ga_IE", "hr_HR", "hu_HU",
	"id_ID", "it_IT", "lt_LT", "lv_LV", "nl_BE", "nl_NL", "no_NO", "pl_PL",
	"pt_BR", "pt_PT", "ro_RO", "sl_SI", "sv_SE", "tr_TR",
}

// ChooseLocale intersects the supported locale pool with a country's declared
// languages and picks one uniformly. An empty intersection falls back to
// DefaultLocale.
func ChooseLocale(pool, countryLanguages []string, rng *rand.Rand) string {
	supported := make(map[string]struct{}, len(pool))
	for _, l := range pool {
		supported[l] = struct{}{}
	}
	var overlap []string
	for _, l := range countryLanguages {
		if _, ok := supported[l]; ok {
			overlap = append(overlap, l)
		}
	}
	if len(overlap) == 0 {
		return DefaultLocale
	}
	return overlap[rng.Intn(len(overlap))]
}
