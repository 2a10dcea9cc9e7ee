package classifier

// Keyword tables. Entries are lower-case, diacritic-free and matched on word
// boundaries against the normalized and expanded query.

var athletes = []string{
	// baseball
	"mike trout", "shohei ohtani", "ohtani", "aaron judge", "derek jeter", "jeter",
	"ken griffey", "griffey", "mickey mantle", "mantle", "babe ruth", "jackie robinson",
	"hank aaron", "roberto clemente", "juan soto", "ronald acuna", "julio rodriguez",
	"bobby witt", "elly de la cruz", "paul skenes", "gunnar henderson", "jackson holliday",
	// basketball
	"michael jordan", "lebron james", "kobe bryant", "stephen curry", "luka doncic", "doncic",
	"victor wembanyama", "wembanyama", "wemby", "giannis antetokounmpo", "giannis",
	"ja morant", "zion williamson", "anthony edwards", "caitlin clark", "nikola jokic",
	// football
	"tom brady", "patrick mahomes", "mahomes", "josh allen", "joe burrow", "justin herbert",
	"cj stroud", "jerry rice", "joe montana", "peyton manning", "caleb williams",
	// hockey
	"wayne gretzky", "gretzky", "connor mcdavid", "mcdavid", "sidney crosby", "connor bedard",
	// soccer
	"lionel messi", "messi", "cristiano ronaldo", "kylian mbappe", "erling haaland",
}

var teams = []string{
	"yankees", "dodgers", "red sox", "cubs", "mets", "braves", "angels", "mariners", "giants",
	"lakers", "celtics", "bulls", "warriors", "knicks", "mavericks", "spurs",
	"chiefs", "cowboys", "patriots", "packers", "eagles", "bills", "49ers", "steelers", "bengals",
	"oilers", "maple leafs", "canadiens", "penguins", "blackhawks",
	"real madrid", "barcelona", "manchester united", "inter miami",
}

var cardBrands = []string{
	"topps", "panini", "upper deck", "bowman", "donruss", "fleer", "prizm", "optic",
	"mosaic", "select", "chrome", "national treasures", "flawless", "stadium club",
	"heritage", "leaf", "score", "contenders", "immaculate",
}

var sportsKeywords = []string{
	"rookie", "rookie card", "rc", "autograph", "auto", "rpa", "patch", "jersey", "relic",
	"refractor", "parallel", "numbered", "baseball", "basketball", "football", "hockey",
	"soccer", "nba", "nfl", "mlb", "nhl", "draft", "prospect", "hobby box", "blaster",
}

// tcgTerms suppress sports classification when present.
var tcgTerms = []string{
	"pokemon", "mtg", "magic gathering", "yugioh", "yu-gi-oh", "one piece", "lorcana",
	"digimon", "weiss schwarz", "tcg", "booster box", "elite trainer box", "holofoil",
	"vmax", "vstar", "gx", "full art", "illustration rare", "trainer gallery",
}

// onePieceStrong indicators weigh 2, onePieceWeak weigh 1.
var onePieceStrong = []string{
	"one piece", "onepiece", "optcg", "straw hat", "monkey d luffy", "roronoa zoro",
	"romance dawn", "paramount war", "pillars of strength", "kingdoms of intrigue",
	"awakening of the new era", "wings of the captain", "500 years in the future",
	"two legends", "emperors in the new world", "boa hancock", "trafalgar law",
	"portgas d ace",
}

var onePieceWeak = []string{
	"luffy", "zoro", "nami", "sanji", "usopp", "chopper", "shanks", "ace", "kaido",
	"yamato", "whitebeard", "buggy", "law", "leader", "don", "manga",
}

var otherFamilies = []struct {
	family     Family
	indicators []string
}{
	{FamilyYugioh, []string{
		"yugioh", "yu-gi-oh", "yu gi oh", "ygo", "blue-eyes", "blue eyes white dragon",
		"dark magician", "exodia", "konami", "starlight rare", "ghost rare", "ultimate rare",
	}},
	{FamilyMagic, []string{
		"mtg", "magic gathering", "planeswalker", "black lotus", "mox", "commander",
		"foil etched", "borderless", "secret lair",
	}},
	{FamilyLorcana, []string{
		"lorcana", "disney lorcana", "the first chapter", "rise of the floodborn",
		"into the inklands", "ursula's return", "shimmering skies", "azurite sea",
	}},
	{FamilyDigimon, []string{
		"digimon", "agumon", "gabumon", "omnimon", "wargreymon",
	}},
	{FamilyWeissSchwarz, []string{
		"weiss schwarz", "weiss", "schwarz", "bushiroad",
	}},
}

var pokemonTerms = []string{
	"pokemon", "pikachu", "charizard", "eevee", "umbreon", "espeon", "sylveon", "mewtwo",
	"mew", "lugia", "rayquaza", "gengar", "blastoise", "venusaur", "gardevoir", "greninja",
	"scarlet violet", "sword shield", "sun moon", "base set", "evolving skies", "151",
	"prismatic evolutions", "crown zenith", "paldea", "obsidian flames", "paradox rift",
	"temporal forces", "surging sparks", "stellar crown", "journey together", "vmax",
	"vstar", "gx", "elite trainer box", "trainer gallery", "illustration rare",
}
