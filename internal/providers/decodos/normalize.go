package decodos

import (
	"encoding/json"
	"fmt"
	"time"

	"effortnet/internal/domain"
)

// The provider nests metrics under different blocks per platform. Each
// normalizer below states its fallback chain explicitly instead of
// optional-chaining through whatever happens to be present, and fails
// loudly when the platform's primary block is missing.

type scrapeContent struct {
	Post    *postBlock    `json:"post"`
	Video   *videoBlock   `json:"video"`
	Product *productBlock `json:"product"`
	Listing *listingBlock `json:"listing"`
	Profile *profileBlock `json:"profile"`
	Seller  *sellerBlock  `json:"seller"`
	Channel *channelBlock `json:"channel"`
	Risk    *riskBlock    `json:"risk"`
}

type postBlock struct {
	Caption     string  `json:"caption"`
	Comments    int64   `json:"comments"`
	Views       int64   `json:"views"`
	Engagement  float64 `json:"engagement_rate"`
	PublishedAt string  `json:"published_at"`
	Title       string  `json:"title"`
	SelfText    string  `json:"selftext"`
	NumComments int64   `json:"num_comments"`
	UpvoteRatio float64 `json:"upvote_ratio"`
}

type videoBlock struct {
	Description string  `json:"description"`
	Views       int64   `json:"play_count"`
	Comments    int64   `json:"comment_count"`
	Engagement  float64 `json:"engagement_rate"`
	CreateTime  string  `json:"create_time"`
}

type productBlock struct {
	Description string `json:"description"`
	Reviews     int64  `json:"reviews_count"`
	Sales       int64  `json:"sales_count"`
	ListedAt    string `json:"listed_at"`
}

type listingBlock struct {
	Description string `json:"description"`
	Views       int64  `json:"views"`
	Offers      int64  `json:"offers"`
	ListedAt    string `json:"listed_at"`
	Wallet      string `json:"creator_wallet"`
}

type profileBlock struct {
	Followers  int64   `json:"followers"`
	Engagement float64 `json:"engagement_rate"`
}

type sellerBlock struct {
	Followers int64   `json:"followers"`
	Rating    float64 `json:"rating"`
}

type channelBlock struct {
	Subscribers int64 `json:"subscribers"`
}

type riskBlock struct {
	Wallet            string   `json:"wallet"`
	BlockchainSignals []string `json:"blockchain_signals"`
	IdentitySignals   []string `json:"identity_signals"`
}

type normalizeFunc func(raw scrapeContent, url string) (*domain.ContentMetadata, error)

var normalizers = map[domain.Platform]normalizeFunc{
	domain.PlatformInstagram:  normalizeSocialPost(domain.PlatformInstagram),
	domain.PlatformTikTok:     normalizeVideo(domain.PlatformTikTok),
	domain.PlatformYouTube:    normalizeVideo(domain.PlatformYouTube),
	domain.PlatformReddit:     normalizeReddit,
	domain.PlatformTwitter:    normalizeSocialPost(domain.PlatformTwitter),
	domain.PlatformAmazon:     normalizeProduct(domain.PlatformAmazon),
	domain.PlatformTikTokShop: normalizeProduct(domain.PlatformTikTokShop),
	domain.PlatformWeb3:       normalizeWeb3,
}

func normalize(tag domain.Platform, url string, content json.RawMessage) (*domain.ContentMetadata, error) {
	fn, ok := normalizers[tag]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedPlatform, tag)
	}
	var raw scrapeContent
	if err := json.Unmarshal(content, &raw); err != nil {
		return nil, fmt.Errorf("%w: %s: malformed content payload: %v", domain.ErrUpstreamFetch, providerName, err)
	}
	meta, err := fn(raw, url)
	if err != nil {
		return nil, err
	}
	attachRisk(meta, raw.Risk)
	return meta, nil
}

func normalizeSocialPost(tag domain.Platform) normalizeFunc {
	return func(raw scrapeContent, url string) (*domain.ContentMetadata, error) {
		if raw.Post == nil {
			return nil, missingBlock(tag, "post")
		}
		meta := &domain.ContentMetadata{
			Platform:       tag,
			URL:            url,
			FollowerCount:  firstCount(profileFollowers(raw.Profile), sellerFollowers(raw.Seller)),
			EngagementRate: firstRate(raw.Post.Engagement, profileEngagement(raw.Profile)),
			CommentCount:   raw.Post.Comments,
			ViewCount:      raw.Post.Views,
			UploadDate:     parseProviderTime(raw.Post.PublishedAt),
			Description:    raw.Post.Caption,
		}
		return meta, nil
	}
}

func normalizeVideo(tag domain.Platform) normalizeFunc {
	return func(raw scrapeContent, url string) (*domain.ContentMetadata, error) {
		if raw.Video == nil {
			return nil, missingBlock(tag, "video")
		}
		meta := &domain.ContentMetadata{
			Platform:       tag,
			URL:            url,
			FollowerCount:  firstCount(profileFollowers(raw.Profile), channelSubscribers(raw.Channel)),
			EngagementRate: firstRate(raw.Video.Engagement, profileEngagement(raw.Profile)),
			CommentCount:   raw.Video.Comments,
			ViewCount:      raw.Video.Views,
			UploadDate:     parseProviderTime(raw.Video.CreateTime),
			Description:    raw.Video.Description,
		}
		return meta, nil
	}
}

func normalizeReddit(raw scrapeContent, url string) (*domain.ContentMetadata, error) {
	if raw.Post == nil {
		return nil, missingBlock(domain.PlatformReddit, "post")
	}
	description := raw.Post.SelfText
	if description == "" {
		description = raw.Post.Title
	}
	meta := &domain.ContentMetadata{
		Platform:       domain.PlatformReddit,
		URL:            url,
		FollowerCount:  profileFollowers(raw.Profile),
		EngagementRate: firstRate(raw.Post.UpvoteRatio, raw.Post.Engagement),
		CommentCount:   firstCount(raw.Post.NumComments, raw.Post.Comments),
		ViewCount:      raw.Post.Views,
		UploadDate:     parseProviderTime(raw.Post.PublishedAt),
		Description:    description,
	}
	return meta, nil
}

func normalizeProduct(tag domain.Platform) normalizeFunc {
	return func(raw scrapeContent, url string) (*domain.ContentMetadata, error) {
		if raw.Product == nil {
			return nil, missingBlock(tag, "product")
		}
		meta := &domain.ContentMetadata{
			Platform:      tag,
			URL:           url,
			FollowerCount: sellerFollowers(raw.Seller),
			CommentCount:  raw.Product.Reviews,
			ViewCount:     raw.Product.Sales,
			UploadDate:    parseProviderTime(raw.Product.ListedAt),
			Description:   raw.Product.Description,
		}
		return meta, nil
	}
}

func normalizeWeb3(raw scrapeContent, url string) (*domain.ContentMetadata, error) {
	if raw.Listing == nil {
		return nil, missingBlock(domain.PlatformWeb3, "listing")
	}
	meta := &domain.ContentMetadata{
		Platform:     domain.PlatformWeb3,
		URL:          url,
		CommentCount: raw.Listing.Offers,
		ViewCount:    raw.Listing.Views,
		UploadDate:   parseProviderTime(raw.Listing.ListedAt),
		Description:  raw.Listing.Description,
	}
	if raw.Listing.Wallet != "" {
		meta.ArkhamData = &domain.ArkhamData{Wallet: raw.Listing.Wallet}
	}
	return meta, nil
}

func attachRisk(meta *domain.ContentMetadata, risk *riskBlock) {
	if risk == nil {
		return
	}
	if len(risk.BlockchainSignals) > 0 || risk.Wallet != "" {
		if meta.ArkhamData == nil {
			meta.ArkhamData = &domain.ArkhamData{}
		}
		if meta.ArkhamData.Wallet == "" {
			meta.ArkhamData.Wallet = risk.Wallet
		}
		meta.ArkhamData.BlockchainSignals = append(meta.ArkhamData.BlockchainSignals, risk.BlockchainSignals...)
	}
	if len(risk.IdentitySignals) > 0 {
		meta.PlaidData = &domain.PlaidData{IdentitySignals: risk.IdentitySignals}
	}
}

func missingBlock(tag domain.Platform, block string) error {
	return fmt.Errorf("%w: %s response for %s is missing the %s block", domain.ErrUpstreamFetch, providerName, tag, block)
}

func firstCount(values ...int64) int64 {
	for _, v := range values {
		if v != 0 {
			return v
		}
	}
	return 0
}

func firstRate(values ...float64) float64 {
	for _, v := range values {
		if v != 0 {
			return v
		}
	}
	return 0
}

func profileFollowers(p *profileBlock) int64 {
	if p == nil {
		return 0
	}
	return p.Followers
}

func profileEngagement(p *profileBlock) float64 {
	if p == nil {
		return 0
	}
	return p.Engagement
}

func sellerFollowers(s *sellerBlock) int64 {
	if s == nil {
		return 0
	}
	return s.Followers
}

func channelSubscribers(c *channelBlock) int64 {
	if c == nil {
		return 0
	}
	return c.Subscribers
}

func parseProviderTime(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	return time.Time{}
}
