package classifier

import (
	"math"
	"regexp"
)

// Family is a trading card game.
type Family string

const (
	FamilyPokemon      Family = "pokemon"
	FamilyOnePiece     Family = "one_piece"
	FamilyYugioh       Family = "yugioh"
	FamilyMagic        Family = "magic"
	FamilyLorcana      Family = "lorcana"
	FamilyDigimon      Family = "digimon"
	FamilyWeissSchwarz Family = "weiss_schwarz"
	FamilyUnknown      Family = "unknown"
)

const (
	onePieceStrongWeight = 2.0
	onePieceWeakWeight   = 1.0
	onePieceThreshold    = 2.0

	otherFamilyConfidence = 0.9
	pokemonConfidence     = 0.95
)

// onePieceCardCode matches printed codes like OP05-119, ST10-001 and EB01.
var onePieceCardCode = regexp.MustCompile(`\b(op|st|eb|prb)-?\d{2}(-\d{3})?\b`)

// FamilyResult names the detected game and how sure the detector is.
type FamilyResult struct {
	Family     Family  `json:"family"`
	Confidence float64 `json:"confidence"`
}

// ClassifyFamily detects the game family of a raw query string.
func ClassifyFamily(q string) FamilyResult {
	return classifyFamily(newMatchTextString(q))
}

// classifyFamily checks One Piece first by weighted score, then the other
// non-Pokémon games by any single hit, then Pokémon-specific terms.
func classifyFamily(text matchText) FamilyResult {
	score := onePieceStrongWeight*float64(len(text.hits(onePieceStrong))) +
		onePieceWeakWeight*float64(len(text.hits(onePieceWeak)))
	if onePieceCardCode.MatchString(text.padded) {
		score += onePieceStrongWeight
	}
	if score >= onePieceThreshold {
		return FamilyResult{
			Family:     FamilyOnePiece,
			Confidence: math.Min(score/(2*onePieceThreshold), 1),
		}
	}

	for _, f := range otherFamilies {
		if len(text.hits(f.indicators)) > 0 {
			return FamilyResult{Family: f.family, Confidence: otherFamilyConfidence}
		}
	}

	if len(text.hits(pokemonTerms)) > 0 {
		return FamilyResult{Family: FamilyPokemon, Confidence: pokemonConfidence}
	}
	return FamilyResult{Family: FamilyUnknown}
}
