package locale

// Country is one entry in the canonical country table. Aliases cover the
// spellings guests actually type: codes, abbreviations, local names.
type Country struct {
	Code    string
	Name    string
	Aliases []string
}

var Countries = map[string]Country{
	"IN": {
		Code:    "IN",
		Name:    "India",
		Aliases: []string{"in", "ind", "bharat", "republic of india"},
	},
	"US": {
		Code:    "US",
		Name:    "United States",
		Aliases: []string{"us", "usa", "america", "united states of america"},
	},
	"GB": {
		Code:    "GB",
		Name:    "United Kingdom",
		Aliases: []string{"gb", "uk", "great britain", "england"},
	},
	"FR": {
		Code:    "FR",
		Name:    "France",
		Aliases: []string{"fr", "française", "republique francaise"},
	},
	"IT": {
		Code:    "IT",
		Name:    "Italy",
		Aliases: []string{"it", "italia"},
	},
	"ES": {
		Code:    "ES",
		Name:    "Spain",
		Aliases: []string{"es", "españa", "espana"},
	},
	"CH": {
		Code:    "CH",
		Name:    "Switzerland",
		Aliases: []string{"ch", "schweiz", "suisse"},
	},
	"IS": {
		Code:    "IS",
		Name:    "Iceland",
		Aliases: []string{"is", "ísland", "island"},
	},
	"NO": {
		Code:    "NO",
		Name:    "Norway",
		Aliases: []string{"no", "norge"},
	},
	"JP": {
		Code:    "JP",
		Name:    "Japan",
		Aliases: []string{"jp", "nippon"},
	},
	"TH": {
		Code:    "TH",
		Name:    "Thailand",
		Aliases: []string{"th", "siam"},
	},
	"ID": {
		Code:    "ID",
		Name:    "Indonesia",
		Aliases: []string{"id"},
	},
	"AE": {
		Code:    "AE",
		Name:    "United Arab Emirates",
		Aliases: []string{"ae", "uae", "emirates"},
	},
}
