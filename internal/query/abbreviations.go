package query

// DefaultAbbreviations maps collector shorthand to the phrases catalogs use.
// Keys are lower-case single tokens; values are appended as extra tokens.
var DefaultAbbreviations = map[string][]string{
	// sealed product
	"etb":     {"elite trainer box"},
	"bb":      {"booster box"},
	"upc":     {"ultra premium collection"},
	"spc":     {"super premium collection"},
	"pc":      {"premium collection"},
	"bdl":     {"booster bundle"},
	"blister": {"blister pack"},

	// franchises
	"pkmn":  {"pokemon"},
	"poke":  {"pokemon"},
	"ygo":   {"yugioh"},
	"yugi":  {"yugioh"},
	"mtg":   {"magic the gathering"},
	"optcg": {"one piece"},
	"dbs":   {"dragon ball super"},

	// pokemon eras and sets
	"sv":   {"scarlet violet"},
	"swsh": {"sword shield"},
	"sm":   {"sun moon"},
	"bs":   {"base set"},
	"wotc": {"wizards of the coast"},
	"pgo":  {"pokemon go"},
	"crz":  {"crown zenith"},

	// printing and rarity
	"1st":  {"1st edition", "first edition"},
	"fa":   {"full art"},
	"aa":   {"alternate art"},
	"alt":  {"alternate art"},
	"sir":  {"special illustration rare"},
	"ir":   {"illustration rare"},
	"sr":   {"secret rare"},
	"hr":   {"hyper rare"},
	"ssp":  {"super short print"},
	"tg":   {"trainer gallery"},
	"gg":   {"galarian gallery"},
	"rh":   {"reverse holo"},
	"holo": {"holofoil"},

	// nicknames
	"zard":  {"charizard"},
	"pika":  {"pikachu"},
	"rayq":  {"rayquaza"},
	"umbry": {"umbreon"},

	// sports
	"rc":   {"rookie card"},
	"auto": {"autograph"},
	"rpa":  {"rookie patch autograph"},
}

// StopWords are dropped from the expanded token set only.
var StopWords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "of": {}, "in": {}, "for": {}, "and": {}, "or": {},
}
