// Package scoring implements the effort-score heuristic: an ordered list of
// independent, capped penalty rules applied to normalized content metadata.
// Calculate is a pure function; the AI-text verdict and the reference time
// are inputs, never looked up internally.
package scoring

import (
	"fmt"
	"math"
	"time"

	"effortnet/internal/domain"
)

// Result is the outcome of scoring one piece of content.
type Result struct {
	Score       int      `json:"score"`
	FraudSignal bool     `json:"fraudSignal"`
	Tags        []string `json:"tags"`
	Reasons     []string `json:"reasons"`
}

// AIVerdict is the output of the injected text classifier. Checked is false
// when no classifier ran, which must score identically to a human verdict.
type AIVerdict struct {
	Probability float64
	Checked     bool
}

// FraudThreshold is the score below which content carries a fraud signal.
const FraudThreshold = 70

// Penalty caps and fixed deductions, in rule order.
const (
	maxEngagementPenalty    = 20
	syntheticReachPenalty   = 30
	commentGapPenalty       = 10
	aiTextPenalty           = 25
	missingDescPenalty      = 5
	rapidSpikePenalty       = 20
	sybilClusterPenalty     = 30
	washTradingPenalty      = 40
	scamAddressPenalty      = 60
	identityMismatchPenalty = 30
	highRiskScorePenalty    = 40
	knownFraudsterPenalty   = 60
)

// Rule trigger thresholds.
const (
	engagementFollowerFloor = 1000
	lowEngagementRate       = 0.01
	syntheticViewFloor      = 10_000
	syntheticFollowerCeil   = 100
	syntheticCommentCeil    = 10
	commentGapViewFloor     = 10_000
	rapidSpikeWindow        = 72 * time.Hour
	rapidSpikeViewFloor     = 50_000
	aiProbabilityCutoff     = 0.5
)

// Tags appended by the rules.
const (
	TagLowEngagement  = "low_engagement"
	TagSyntheticReach = "synthetic_reach_inflation"
	TagCommentGap     = "comment_gap"
	TagAIText         = "ai_generated_text"
	TagMissingDesc    = "missing_description"
	TagRapidSpike     = "rapid_view_spike"
	TagWeb3Sybil      = "web3_sybil_cluster"
	TagWeb3Wash       = "web3_wash_trading"
	TagWeb3Scam       = "web3_scam_interaction"
	TagIDMismatch     = "identity_mismatch"
	TagIDHighRisk     = "identity_high_risk"
	TagIDFraudster    = "identity_known_fraudster"
	TagFraud          = "low_effort_or_fraud"
	TagHuman          = "human_effort_detected"
)

// Calculate scores the metadata. now anchors the rapid-spike window so the
// function stays deterministic for a fixed input.
func Calculate(meta domain.ContentMetadata, ai AIVerdict, now time.Time) Result {
	score := 100
	var tags []string
	var reasons []string

	deduct := func(points int, tag, reason string) {
		score -= points
		tags = append(tags, tag)
		reasons = append(reasons, reason)
	}

	// 1. Engagement rate out of line with audience size, scaled by how far
	// below the floor it sits.
	if meta.FollowerCount > engagementFollowerFloor && meta.EngagementRate < lowEngagementRate {
		penalty := int(math.Round((lowEngagementRate - meta.EngagementRate) / lowEngagementRate * maxEngagementPenalty))
		if penalty > maxEngagementPenalty {
			penalty = maxEngagementPenalty
		}
		if penalty < 1 {
			penalty = 1
		}
		deduct(penalty, TagLowEngagement,
			fmt.Sprintf("engagement rate %.4f is unusually low for %d followers", meta.EngagementRate, meta.FollowerCount))
	}

	// 2. Views without an audience to supply them.
	if meta.ViewCount > syntheticViewFloor && meta.FollowerCount < syntheticFollowerCeil && meta.CommentCount < syntheticCommentCeil {
		deduct(syntheticReachPenalty, TagSyntheticReach,
			fmt.Sprintf("%d views with only %d followers and %d comments suggests purchased reach", meta.ViewCount, meta.FollowerCount, meta.CommentCount))
	}

	// 3. Views without conversation.
	if meta.ViewCount > commentGapViewFloor && meta.CommentCount < meta.ViewCount/1000 {
		deduct(commentGapPenalty, TagCommentGap,
			fmt.Sprintf("%d comments is far below what %d views normally produce", meta.CommentCount, meta.ViewCount))
	}

	// 4. AI-pattern text, judged by the injected classifier.
	if ai.Checked && ai.Probability >= aiProbabilityCutoff {
		deduct(aiTextPenalty, TagAIText,
			fmt.Sprintf("description matches AI-generated text patterns (p=%.2f)", ai.Probability))
	}

	// 5. No description at all.
	if meta.Description == "" {
		deduct(missingDescPenalty, TagMissingDesc, "content has no description")
	}

	// 6. View spike inside the first 72 hours with no matching engagement.
	if !meta.UploadDate.IsZero() && now.Sub(meta.UploadDate) < rapidSpikeWindow &&
		meta.ViewCount > rapidSpikeViewFloor && meta.EngagementRate < lowEngagementRate {
		deduct(rapidSpikePenalty, TagRapidSpike,
			fmt.Sprintf("%d views within 72h of upload with low engagement", meta.ViewCount))
	}

	// 7. Blockchain risk intelligence.
	if meta.ArkhamData != nil {
		for _, signal := range meta.ArkhamData.BlockchainSignals {
			switch signal {
			case domain.SignalSybilCluster:
				deduct(sybilClusterPenalty, TagWeb3Sybil, "wallet belongs to a sybil cluster")
			case domain.SignalWashTrading:
				deduct(washTradingPenalty, TagWeb3Wash, "wallet shows wash-trading activity")
			case domain.SignalScamAddress:
				deduct(scamAddressPenalty, TagWeb3Scam, "wallet interacted with a known scam address")
			}
		}
	}

	// 8. Financial identity risk.
	if meta.PlaidData != nil {
		for _, signal := range meta.PlaidData.IdentitySignals {
			switch signal {
			case domain.SignalIDMismatch:
				deduct(identityMismatchPenalty, TagIDMismatch, "identity details do not match financial records")
			case domain.SignalHighRisk:
				deduct(highRiskScorePenalty, TagIDHighRisk, "identity carries a high financial risk score")
			case domain.SignalKnownFraudster:
				deduct(knownFraudsterPenalty, TagIDFraudster, "identity is linked to known fraud")
			}
		}
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	fraud := score < FraudThreshold
	if fraud {
		tags = append(tags, TagFraud)
	} else {
		tags = append(tags, TagHuman)
	}
	if len(reasons) == 0 {
		reasons = []string{"no red flags detected"}
	}

	return Result{Score: score, FraudSignal: fraud, Tags: tags, Reasons: reasons}
}
