// Package geo maps GA4 country names to ISO 3166-1 alpha-3 codes for the
// choropleth layer. Unrecognized names are reported, not errored; the
// caller omits those rows from the map.
package geo

import "strings"

// iso3 covers the country names GA4 emits. Keys are lower-cased.
var iso3 = map[string]string{
	"afghanistan":            "AFG",
	"albania":                "ALB",
	"algeria":                "DZA",
	"argentina":              "ARG",
	"armenia":                "ARM",
	"australia":              "AUS",
	"austria":                "AUT",
	"azerbaijan":             "AZE",
	"bahrain":                "BHR",
	"bangladesh":             "BGD",
	"belarus":                "BLR",
	"belgium":                "BEL",
	"bolivia":                "BOL",
	"bosnia & herzegovina":   "BIH",
	"brazil":                 "BRA",
	"bulgaria":               "BGR",
	"cambodia":               "KHM",
	"cameroon":               "CMR",
	"canada":                 "CAN",
	"chile":                  "CHL",
	"china":                  "CHN",
	"colombia":               "COL",
	"costa rica":             "CRI",
	"croatia":                "HRV",
	"cyprus":                 "CYP",
	"czechia":                "CZE",
	"denmark":                "DNK",
	"dominican republic":     "DOM",
	"ecuador":                "ECU",
	"egypt":                  "EGY",
	"el salvador":            "SLV",
	"estonia":                "EST",
	"ethiopia":               "ETH",
	"finland":                "FIN",
	"france":                 "FRA",
	"georgia":                "GEO",
	"germany":                "DEU",
	"ghana":                  "GHA",
	"greece":                 "GRC",
	"guatemala":              "GTM",
	"honduras":               "HND",
	"hong kong":              "HKG",
	"hungary":                "HUN",
	"iceland":                "ISL",
	"india":                  "IND",
	"indonesia":              "IDN",
	"iraq":                   "IRQ",
	"ireland":                "IRL",
	"israel":                 "ISR",
	"italy":                  "ITA",
	"jamaica":                "JAM",
	"japan":                  "JPN",
	"jordan":                 "JOR",
	"kazakhstan":             "KAZ",
	"kenya":                  "KEN",
	"kuwait":                 "KWT",
	"latvia":                 "LVA",
	"lebanon":                "LBN",
	"lithuania":              "LTU",
	"luxembourg":             "LUX",
	"malaysia":               "MYS",
	"malta":                  "MLT",
	"mexico":                 "MEX",
	"moldova":                "MDA",
	"mongolia":               "MNG",
	"morocco":                "MAR",
	"myanmar (burma)":        "MMR",
	"nepal":                  "NPL",
	"netherlands":            "NLD",
	"new zealand":            "NZL",
	"nicaragua":              "NIC",
	"nigeria":                "NGA",
	"north macedonia":        "MKD",
	"norway":                 "NOR",
	"oman":                   "OMN",
	"pakistan":               "PAK",
	"panama":                 "PAN",
	"paraguay":               "PRY",
	"peru":                   "PER",
	"philippines":            "PHL",
	"poland":                 "POL",
	"portugal":               "PRT",
	"puerto rico":            "PRI",
	"qatar":                  "QAT",
	"romania":                "ROU",
	"russia":                 "RUS",
	"saudi arabia":           "SAU",
	"senegal":                "SEN",
	"serbia":                 "SRB",
	"singapore":              "SGP",
	"slovakia":               "SVK",
	"slovenia":               "SVN",
	"south africa":           "ZAF",
	"south korea":            "KOR",
	"spain":                  "ESP",
	"sri lanka":              "LKA",
	"sweden":                 "SWE",
	"switzerland":            "CHE",
	"taiwan":                 "TWN",
	"tanzania":               "TZA",
	"thailand":               "THA",
	"trinidad & tobago":      "TTO",
	"tunisia":                "TUN",
	"turkey":                 "TUR",
	"türkiye":                "TUR",
	"uganda":                 "UGA",
	"ukraine":                "UKR",
	"united arab emirates":   "ARE",
	"united kingdom":         "GBR",
	"united states":          "USA",
	"uruguay":                "URY",
	"uzbekistan":             "UZB",
	"venezuela":              "VEN",
	"vietnam":                "VNM",
	"zambia":                 "ZMB",
	"zimbabwe":               "ZWE",
}

// aliases cover spellings seen in exports that differ from the canonical
// GA4 names above.
var aliases = map[string]string{
	"usa":                      "united states",
	"us":                       "united states",
	"united states of america": "united states",
	"uk":                       "united kingdom",
	"great britain":            "united kingdom",
	"uae":                      "united arab emirates",
	"czech republic":           "czechia",
	"bosnia and herzegovina":   "bosnia & herzegovina",
	"trinidad and tobago":      "trinidad & tobago",
	"myanmar":                  "myanmar (burma)",
	"republic of korea":        "south korea",
	"viet nam":                 "vietnam",
	"russian federation":       "russia",
}

// ISO3 resolves a country name to its alpha-3 code. Matching is
// case-insensitive and whitespace-trimmed.
func ISO3(name string) (string, bool) {
	key := strings.ToLower(strings.TrimSpace(name))
	if canon, ok := aliases[key]; ok {
		key = canon
	}
	code, ok := iso3[key]
	return code, ok
}
