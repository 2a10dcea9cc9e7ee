package services

import (
	"net/url"
	"sort"
	"strings"

	"github.com/codyseavey/cardledger/backend/internal/models"
)

// Image authority tiers, lower is better.
const (
	authorityGrader = iota
	authorityMarketplace
	authorityOther
)

var graderImageDomains = []string{
	"psacard.com", "beckett.com", "cgccards.com", "sgccard.com", "tagrading.com",
}

var marketplaceImageDomains = []string{
	"ebay.com", "ebayimg.com", "tcgplayer.com", "tcgplayer-cdn.tcgplayer.com",
	"pricecharting.com", "goldin.co", "pwccmarketplace.com", "fanaticscollect.com",
	"130point.com", "comc.com",
}

func hostMatches(host string, domains []string) bool {
	for _, d := range domains {
		if host == d || strings.HasSuffix(host, "."+d) {
			return true
		}
	}
	return false
}

// imageAuthority ranks an image URL by who hosts it: grading companies,
// then marketplaces and auction houses, then anything else.
func imageAuthority(raw string) int {
	u, err := url.Parse(raw)
	if err != nil {
		return authorityOther
	}
	host := strings.ToLower(u.Hostname())
	switch {
	case hostMatches(host, graderImageDomains):
		return authorityGrader
	case hostMatches(host, marketplaceImageDomains):
		return authorityMarketplace
	default:
		return authorityOther
	}
}

// RankImages drops placeholders and non-http URLs and orders the rest by
// authority, keeping provider order within a tier.
func RankImages(urls []string) []string {
	ranked := make([]string, 0, len(urls))
	seen := make(map[string]struct{}, len(urls))
	for _, raw := range urls {
		raw = strings.TrimSpace(raw)
		if models.IsPlaceholderImage(raw) {
			continue
		}
		if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
			continue
		}
		if _, dup := seen[raw]; dup {
			continue
		}
		seen[raw] = struct{}{}
		ranked = append(ranked, raw)
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return imageAuthority(ranked[i]) < imageAuthority(ranked[j])
	})
	return ranked
}

// BestImage returns the highest-authority usable image, or "".
func BestImage(urls []string) string {
	ranked := RankImages(urls)
	if len(ranked) == 0 {
		return ""
	}
	return ranked[0]
}
