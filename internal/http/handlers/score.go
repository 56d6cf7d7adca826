package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"effortnet/internal/domain"
	"effortnet/internal/middleware"
	"effortnet/internal/platform"
	"effortnet/internal/providers/decodos"
	"effortnet/internal/scoring"
)

type scoreRequest struct {
	URL                string `json:"url"`
	SourceType         string `json:"sourceType"`
	Wallet             string `json:"wallet"`
	SubscriptionItemID string `json:"subscriptionItemId"`
}

type scoreResponse struct {
	Score               int                     `json:"score"`
	FraudSignal         bool                    `json:"fraudSignal"`
	Message             string                  `json:"message"`
	Reasons             []string                `json:"reasons"`
	Tags                []string                `json:"tags"`
	Metadata            *domain.ContentMetadata `json:"metadata"`
	FreeChecksRemaining *int                    `json:"freeChecksRemaining"`
}

// ScoreContent runs the full pipeline: resolve platform, gate on quota,
// fetch + normalize metadata, score, then log and meter as side effects.
func (a *App) ScoreContent(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req scoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "invalid payload")
		return
	}
	req.URL = strings.TrimSpace(req.URL)
	req.Wallet = strings.TrimSpace(req.Wallet)
	if req.URL == "" {
		a.error(w, http.StatusBadRequest, "url is required")
		return
	}

	entry, err := decodos.Resolve(decodos.FetchRequest{URL: req.URL, SourceType: req.SourceType})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrPlatformMismatch):
			a.error(w, http.StatusBadRequest, err.Error())
		default:
			a.error(w, http.StatusUnprocessableEntity, err.Error())
		}
		return
	}
	if entry.RequiresWallet && req.Wallet == "" {
		a.error(w, http.StatusUnprocessableEntity, "wallet is required for web3 content")
		return
	}

	user, err := a.resolveCaller(r, req.Wallet)
	if err != nil {
		a.error(w, http.StatusUnprocessableEntity, "wallet is required")
		return
	}

	// The quota gate runs before any outbound fetch. The increment and the
	// limit check are a single statement in the repository.
	user, err = a.Users.ConsumeCheck(r.Context(), user.ID, a.Cfg.FreeCheckLimit)
	if err != nil {
		if errors.Is(err, domain.ErrQuotaExceeded) {
			a.error(w, http.StatusPaymentRequired, "free check limit reached, upgrade at "+a.Cfg.UpgradeURL)
			return
		}
		a.Logger.Error().Err(err).Msg("consume check failed")
		a.error(w, http.StatusInternalServerError, "failed to check quota")
		return
	}

	meta, err := a.fetchMetadata(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrPlatformMismatch):
			a.error(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, domain.ErrUnsupportedPlatform):
			a.error(w, http.StatusUnprocessableEntity, err.Error())
		default:
			a.Logger.Error().Err(err).Str("url", req.URL).Msg("metadata fetch failed")
			a.error(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	verdict := a.classifyText(r.Context(), meta.Description)
	result := scoring.Calculate(*meta, verdict, time.Now())
	latency := int(time.Since(start).Milliseconds())

	a.recordScore(r, user, meta, result, latency)
	a.meterUsage(r.Context(), user, req.SubscriptionItemID)

	a.json(w, http.StatusOK, scoreResponse{
		Score:               result.Score,
		FraudSignal:         result.FraudSignal,
		Message:             scoreMessage(meta.Platform, result),
		Reasons:             result.Reasons,
		Tags:                result.Tags,
		Metadata:            meta,
		FreeChecksRemaining: user.FreeChecksRemaining(a.Cfg.FreeCheckLimit),
	})
}

// resolveCaller prefers an authenticated session and falls back to the
// wallet in the request body, creating the account lazily.
func (a *App) resolveCaller(r *http.Request, wallet string) (*domain.User, error) {
	if userID := a.currentUserID(r); userID != "" {
		return a.Users.GetByID(r.Context(), userID)
	}
	if wallet == "" {
		return nil, domain.ErrWalletRequired
	}
	return a.Users.UpsertByWallet(r.Context(), wallet)
}

func (a *App) fetchMetadata(ctx context.Context, req scoreRequest) (*domain.ContentMetadata, error) {
	if cached, err := a.Cache.Get(ctx, req.URL); err != nil {
		a.Logger.Warn().Err(err).Msg("metadata cache read failed")
	} else if cached != nil {
		return cached, nil
	}
	meta, err := a.Fetcher.Fetch(ctx, decodos.FetchRequest{URL: req.URL, SourceType: req.SourceType})
	if err != nil {
		return nil, err
	}
	if err := a.Cache.Set(ctx, req.URL, meta); err != nil {
		a.Logger.Warn().Err(err).Msg("metadata cache write failed")
	}
	return meta, nil
}

func (a *App) classifyText(ctx context.Context, text string) scoring.AIVerdict {
	if a.Classifier == nil || strings.TrimSpace(text) == "" {
		return scoring.AIVerdict{}
	}
	probability, err := a.Classifier.DetectGenerated(ctx, text)
	if err != nil {
		a.Logger.Warn().Err(err).Msg("ai text classification failed")
		return scoring.AIVerdict{}
	}
	return scoring.AIVerdict{Probability: probability, Checked: true}
}

func (a *App) recordScore(r *http.Request, user *domain.User, meta *domain.ContentMetadata, result scoring.Result, latencyMS int) {
	ev := &domain.ScoreEvent{
		UserID:    user.ID,
		URL:       meta.URL,
		Platform:  meta.Platform,
		Score:     result.Score,
		Fraud:     result.FraudSignal,
		Tags:      result.Tags,
		Country:   middleware.CountryFromContext(r.Context()),
		LatencyMS: latencyMS,
	}
	if err := a.Scores.Insert(r.Context(), ev); err != nil {
		a.Logger.Error().Err(err).Msg("score event insert failed")
	}
	observeScore(meta.Platform, result, latencyMS)
}

// meterUsage reports a billable check for pro users. Best-effort: a billing
// failure never changes the scoring response.
func (a *App) meterUsage(ctx context.Context, user *domain.User, subscriptionItemID string) {
	if a.Meter == nil || user.IsFree() {
		return
	}
	itemID := strings.TrimSpace(subscriptionItemID)
	if itemID == "" {
		itemID = user.SubscriptionItemID
	}
	if itemID == "" {
		a.Logger.Warn().Str("user_id", user.ID).Msg("pro user without subscription item, usage not metered")
		return
	}
	if err := a.Meter.RecordUsage(ctx, itemID, 1); err != nil {
		a.Logger.Error().Err(err).Str("user_id", user.ID).Msg("usage metering failed")
	}
}

var titleCaser = cases.Title(language.English)

func scoreMessage(p domain.Platform, result scoring.Result) string {
	display := titleCaser.String(strings.ReplaceAll(string(p), "_", " "))
	if result.FraudSignal {
		return "Low effort or fraud signals detected on " + display
	}
	return "Human effort detected on " + display
}

// Platforms lists the detection registry in match order.
func (a *App) Platforms(w http.ResponseWriter, r *http.Request) {
	type platformDTO struct {
		Tag            string `json:"tag"`
		RequiresWallet bool   `json:"requiresWallet"`
	}
	entries := platform.Entries()
	out := make([]platformDTO, 0, len(entries))
	for _, e := range entries {
		out = append(out, platformDTO{Tag: string(e.Tag), RequiresWallet: e.RequiresWallet})
	}
	a.json(w, http.StatusOK, map[string]any{"platforms": out})
}
