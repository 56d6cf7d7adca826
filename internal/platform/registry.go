// Package platform maps content URLs onto the fixed set of platforms the
// scoring pipeline understands. Detection is an ordered first-match walk
// over a registry; the order is the tie-break policy for ambiguous URLs
// (a TikTok Shop link also matches the generic TikTok pattern), so new
// entries must be appended with care.
package platform

import (
	"regexp"

	"effortnet/internal/domain"
)

// Entry describes one detectable platform: how to recognize its URLs, which
// scrape target the metadata provider expects, and whether scoring content
// from it requires a wallet for risk-intelligence lookups.
type Entry struct {
	Tag            domain.Platform
	Pattern        *regexp.Regexp
	ScrapeTarget   string
	RequiresWallet bool
}

// registry order is load-bearing: first match wins.
var registry = []Entry{
	{
		Tag:          domain.PlatformInstagram,
		Pattern:      regexp.MustCompile(`(?i)instagram\.com/`),
		ScrapeTarget: "instagram_post",
	},
	{
		Tag:          domain.PlatformAmazon,
		Pattern:      regexp.MustCompile(`(?i)amazon\.[a-z.]{2,10}/`),
		ScrapeTarget: "amazon_product",
	},
	{
		Tag:          domain.PlatformTikTokShop,
		Pattern:      regexp.MustCompile(`(?i)(shop\.tiktok\.com/|tiktok\.com/shop/|tiktok\.com/view/product/)`),
		ScrapeTarget: "tiktok_shop_product",
	},
	{
		Tag:          domain.PlatformTikTok,
		Pattern:      regexp.MustCompile(`(?i)tiktok\.com/`),
		ScrapeTarget: "tiktok_post",
	},
	{
		Tag:          domain.PlatformReddit,
		Pattern:      regexp.MustCompile(`(?i)reddit\.com/`),
		ScrapeTarget: "reddit_post",
	},
	{
		Tag:          domain.PlatformYouTube,
		Pattern:      regexp.MustCompile(`(?i)(youtube\.com/|youtu\.be/)`),
		ScrapeTarget: "youtube_video",
	},
	{
		Tag:          domain.PlatformTwitter,
		Pattern:      regexp.MustCompile(`(?i)(twitter\.com/|//x\.com/)`),
		ScrapeTarget: "twitter_post",
	},
	{
		Tag:            domain.PlatformWeb3,
		Pattern:        regexp.MustCompile(`(?i)(opensea\.io/|etherscan\.io/|blur\.io/)`),
		ScrapeTarget:   "web3_listing",
		RequiresWallet: true,
	},
}

// Detect returns the platform the URL belongs to, or PlatformUnknown. It is
// deterministic and side-effect free.
func Detect(rawURL string) domain.Platform {
	for _, e := range registry {
		if e.Pattern.MatchString(rawURL) {
			return e.Tag
		}
	}
	return domain.PlatformUnknown
}

// Lookup returns the registry entry for a platform tag.
func Lookup(tag domain.Platform) (Entry, bool) {
	for _, e := range registry {
		if e.Tag == tag {
			return e, true
		}
	}
	return Entry{}, false
}

// Entries returns a copy of the registry in detection order.
func Entries() []Entry {
	out := make([]Entry, len(registry))
	copy(out, registry)
	return out
}
