package domain

import "time"

// Platform identifies the content source a URL belongs to.
type Platform string

const (
	PlatformInstagram  Platform = "instagram"
	PlatformAmazon     Platform = "amazon"
	PlatformTikTokShop Platform = "tiktok_shop"
	PlatformTikTok     Platform = "tiktok"
	PlatformReddit     Platform = "reddit"
	PlatformYouTube    Platform = "youtube"
	PlatformTwitter    Platform = "twitter"
	PlatformWeb3       Platform = "web3"
	PlatformUnknown    Platform = "unknown"
)

// ContentMetadata is the flat, platform-independent shape every scrape
// normalizes into. It is produced fresh per request and never persisted as
// an entity, only logged.
type ContentMetadata struct {
	Platform       Platform    `json:"platform"`
	URL            string      `json:"url"`
	FollowerCount  int64       `json:"followerCount"`
	EngagementRate float64     `json:"engagementRate"`
	CommentCount   int64       `json:"commentCount"`
	ViewCount      int64       `json:"viewCount"`
	UploadDate     time.Time   `json:"uploadDate,omitzero"`
	Description    string      `json:"description"`
	ArkhamData     *ArkhamData `json:"arkhamData,omitempty"`
	PlaidData      *PlaidData  `json:"plaidData,omitempty"`
}

// ArkhamData carries blockchain risk-intelligence signals attached to
// web3-linked content.
type ArkhamData struct {
	Wallet            string   `json:"wallet"`
	BlockchainSignals []string `json:"blockchainSignals"`
}

// PlaidData carries financial identity-risk signals.
type PlaidData struct {
	IdentitySignals []string `json:"identitySignals"`
}

// Blockchain signal labels emitted by the risk-intelligence provider.
const (
	SignalSybilCluster   = "sybil_cluster"
	SignalWashTrading    = "wash_trading"
	SignalScamAddress    = "known_scam_address_interaction"
	SignalIDMismatch     = "identity_mismatch"
	SignalHighRisk       = "high_risk_score"
	SignalKnownFraudster = "known_fraudster"
)
