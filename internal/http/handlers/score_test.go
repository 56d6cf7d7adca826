package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"effortnet/internal/domain"
	"effortnet/internal/infra"
	"effortnet/internal/middleware"
	"effortnet/internal/providers/decodos"
)

type fakeUsers struct {
	mu    sync.Mutex
	users map[string]*domain.User
}

func newFakeUsers(seed ...*domain.User) *fakeUsers {
	f := &fakeUsers{users: make(map[string]*domain.User)}
	for _, u := range seed {
		f.users[u.ID] = u
	}
	return f
}

func (f *fakeUsers) UpsertByWallet(ctx context.Context, wallet string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Wallet == wallet {
			copied := *u
			return &copied, nil
		}
	}
	u := &domain.User{ID: "user-" + wallet, Wallet: wallet, Plan: domain.UserPlanFree}
	f.users[u.ID] = u
	copied := *u
	return &copied, nil
}

func (f *fakeUsers) GetByID(ctx context.Context, id string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (f *fakeUsers) GetByWallet(ctx context.Context, wallet string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Wallet == wallet {
			copied := *u
			return &copied, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeUsers) ConsumeCheck(ctx context.Context, userID string, freeLimit int) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if u.Plan == domain.UserPlanFree && u.FreeChecksUsed >= freeLimit {
		return nil, domain.ErrQuotaExceeded
	}
	u.FreeChecksUsed++
	copied := *u
	return &copied, nil
}

func (f *fakeUsers) ApplyWorkout(ctx context.Context, userID string, p domain.Progress) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	u.XP += p.XPGain
	u.RewardPoints += p.RewardGain
	u.EvolutionLevel = domain.EvolutionLevelFor(u.XP)
	copied := *u
	return &copied, nil
}

func (f *fakeUsers) SetPlan(ctx context.Context, userID string, plan domain.UserPlan, resetChecks bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[userID]
	if !ok {
		return domain.ErrNotFound
	}
	u.Plan = plan
	if resetChecks {
		u.FreeChecksUsed = 0
	}
	return nil
}

func (f *fakeUsers) checksUsed(userID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[userID]; ok {
		return u.FreeChecksUsed
	}
	return -1
}

type fakeScores struct {
	mu     sync.Mutex
	events []*domain.ScoreEvent
}

func (f *fakeScores) Insert(ctx context.Context, ev *domain.ScoreEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, ev)
	return nil
}

func (f *fakeScores) Summary(ctx context.Context) (*domain.ScoreStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	stats := &domain.ScoreStats{TotalChecks: int64(len(f.events))}
	for _, ev := range f.events {
		if ev.Fraud {
			stats.FraudCount++
		}
	}
	return stats, nil
}

type fakeFetcher struct {
	meta  *domain.ContentMetadata
	err   error
	calls int
}

func (f *fakeFetcher) Fetch(ctx context.Context, req decodos.FetchRequest) (*domain.ContentMetadata, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	copied := *f.meta
	copied.URL = req.URL
	return &copied, nil
}

type fakeMeter struct {
	mu      sync.Mutex
	itemIDs []string
}

func (f *fakeMeter) RecordUsage(ctx context.Context, subscriptionItemID string, quantity int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.itemIDs = append(f.itemIDs, subscriptionItemID)
	return nil
}

func cleanMetadata() *domain.ContentMetadata {
	return &domain.ContentMetadata{
		Platform:       domain.PlatformTikTok,
		FollowerCount:  10000,
		EngagementRate: 0.3,
		CommentCount:   200,
		ViewCount:      50000,
		Description:    "well written analysis",
	}
}

func newTestApp(users *fakeUsers, fetcher *fakeFetcher) (*App, *fakeScores, *fakeMeter) {
	scores := &fakeScores{}
	meter := &fakeMeter{}
	app := &App{
		Logger:  zerolog.Nop(),
		Cfg:     &infra.Config{FreeCheckLimit: 5, UpgradeURL: "https://effortnet.example/upgrade"},
		Users:   users,
		Scores:  scores,
		Fetcher: fetcher,
		Meter:   meter,
	}
	return app, scores, meter
}

func postScore(t *testing.T, app *App, body map[string]any, userID string) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/v1/score", bytes.NewReader(payload))
	if userID != "" {
		req = req.WithContext(middleware.ContextWithUserID(req.Context(), userID))
	}
	rec := httptest.NewRecorder()
	app.ScoreContent(rec, req)
	return rec
}

func decodeScore(t *testing.T, rec *httptest.ResponseRecorder) scoreResponse {
	t.Helper()
	var resp scoreResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v (body %s)", err, rec.Body.String())
	}
	return resp
}

func TestScoreContentHappyPath(t *testing.T) {
	users := newFakeUsers()
	fetcher := &fakeFetcher{meta: cleanMetadata()}
	app, scores, _ := newTestApp(users, fetcher)

	rec := postScore(t, app, map[string]any{
		"url":    "https://www.tiktok.com/@coach/video/71234",
		"wallet": "0xabc",
	}, "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	resp := decodeScore(t, rec)
	if resp.Score != 100 || resp.FraudSignal {
		t.Fatalf("score = %d fraud = %v, want 100/false", resp.Score, resp.FraudSignal)
	}
	if resp.Message != "Human effort detected on Tiktok" {
		t.Fatalf("message = %q", resp.Message)
	}
	if resp.FreeChecksRemaining == nil || *resp.FreeChecksRemaining != 4 {
		t.Fatalf("freeChecksRemaining = %v, want 4", resp.FreeChecksRemaining)
	}
	if len(scores.events) != 1 || scores.events[0].Platform != domain.PlatformTikTok {
		t.Fatalf("score events = %+v, want one tiktok event", scores.events)
	}
	if fetcher.calls != 1 {
		t.Fatalf("fetcher calls = %d, want 1", fetcher.calls)
	}
}

func TestScoreContentQuotaExhausted(t *testing.T) {
	user := &domain.User{ID: "user-1", Wallet: "0xabc", Plan: domain.UserPlanFree, FreeChecksUsed: 5}
	users := newFakeUsers(user)
	fetcher := &fakeFetcher{meta: cleanMetadata()}
	app, _, _ := newTestApp(users, fetcher)

	rec := postScore(t, app, map[string]any{
		"url":    "https://www.tiktok.com/@coach/video/71234",
		"wallet": "0xabc",
	}, "")

	if rec.Code != http.StatusPaymentRequired {
		t.Fatalf("status = %d, want 402 (body %s)", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), app.Cfg.UpgradeURL) {
		t.Fatalf("body %q should carry the upgrade url", rec.Body.String())
	}
	if fetcher.calls != 0 {
		t.Fatalf("fetcher calls = %d, quota gate must run before any fetch", fetcher.calls)
	}
}

func TestScoreContentConsumesLastCheck(t *testing.T) {
	user := &domain.User{ID: "user-1", Wallet: "0xabc", Plan: domain.UserPlanFree, FreeChecksUsed: 4}
	users := newFakeUsers(user)
	app, _, _ := newTestApp(users, &fakeFetcher{meta: cleanMetadata()})

	rec := postScore(t, app, map[string]any{
		"url":    "https://www.tiktok.com/@coach/video/71234",
		"wallet": "0xabc",
	}, "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	resp := decodeScore(t, rec)
	if resp.FreeChecksRemaining == nil || *resp.FreeChecksRemaining != 0 {
		t.Fatalf("freeChecksRemaining = %v, want 0", resp.FreeChecksRemaining)
	}
	if got := users.checksUsed("user-1"); got != 5 {
		t.Fatalf("checks used = %d, want 5", got)
	}

	// The very next request must be rejected.
	rec = postScore(t, app, map[string]any{
		"url":    "https://www.tiktok.com/@coach/video/71234",
		"wallet": "0xabc",
	}, "")
	if rec.Code != http.StatusPaymentRequired {
		t.Fatalf("follow-up status = %d, want 402", rec.Code)
	}
}

func TestScoreContentProUserIsMetered(t *testing.T) {
	user := &domain.User{
		ID:                 "user-pro",
		Wallet:             "0xpro",
		Plan:               domain.UserPlanPro,
		FreeChecksUsed:     40,
		SubscriptionItemID: "si_abc",
	}
	users := newFakeUsers(user)
	app, _, meter := newTestApp(users, &fakeFetcher{meta: cleanMetadata()})

	rec := postScore(t, app, map[string]any{
		"url": "https://www.tiktok.com/@coach/video/71234",
	}, "user-pro")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	resp := decodeScore(t, rec)
	if resp.FreeChecksRemaining != nil {
		t.Fatalf("freeChecksRemaining = %v, want null for pro", *resp.FreeChecksRemaining)
	}
	if len(meter.itemIDs) != 1 || meter.itemIDs[0] != "si_abc" {
		t.Fatalf("metered items = %v, want [si_abc]", meter.itemIDs)
	}
}

func TestScoreContentValidation(t *testing.T) {
	users := newFakeUsers()
	app, _, _ := newTestApp(users, &fakeFetcher{meta: cleanMetadata()})

	tests := []struct {
		name     string
		body     map[string]any
		wantCode int
	}{
		{
			name:     "missing url",
			body:     map[string]any{"wallet": "0xabc"},
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "declared platform mismatch",
			body:     map[string]any{"url": "https://www.instagram.com/p/abc/", "sourceType": "tiktok", "wallet": "0xabc"},
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "unsupported url",
			body:     map[string]any{"url": "https://example.com/post", "wallet": "0xabc"},
			wantCode: http.StatusUnprocessableEntity,
		},
		{
			name:     "web3 without wallet",
			body:     map[string]any{"url": "https://opensea.io/assets/ethereum/0xabc/1"},
			wantCode: http.StatusUnprocessableEntity,
		},
		{
			name:     "no session and no wallet",
			body:     map[string]any{"url": "https://www.tiktok.com/@coach/video/71234"},
			wantCode: http.StatusUnprocessableEntity,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := postScore(t, app, tc.body, "")
			if rec.Code != tc.wantCode {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tc.wantCode, rec.Body.String())
			}
		})
	}
}

func TestScoreContentFraudResponse(t *testing.T) {
	users := newFakeUsers()
	meta := &domain.ContentMetadata{
		Platform:      domain.PlatformTikTok,
		FollowerCount: 10,
		ViewCount:     50000,
		CommentCount:  1,
	}
	app, scores, _ := newTestApp(users, &fakeFetcher{meta: meta})

	rec := postScore(t, app, map[string]any{
		"url":    "https://www.tiktok.com/@bot/video/1",
		"wallet": "0xbot",
	}, "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	resp := decodeScore(t, rec)
	if !resp.FraudSignal {
		t.Fatalf("fraudSignal = false, want true (score %d)", resp.Score)
	}
	if !strings.HasPrefix(resp.Message, "Low effort or fraud signals detected") {
		t.Fatalf("message = %q", resp.Message)
	}
	if len(scores.events) != 1 || !scores.events[0].Fraud {
		t.Fatalf("score events = %+v, want one fraud event", scores.events)
	}
}

func TestScoreContentUpstreamFailure(t *testing.T) {
	users := newFakeUsers()
	app, _, _ := newTestApp(users, &fakeFetcher{err: domain.ErrUpstreamFetch})

	rec := postScore(t, app, map[string]any{
		"url":    "https://www.tiktok.com/@coach/video/71234",
		"wallet": "0xabc",
	}, "")

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500 (body %s)", rec.Code, rec.Body.String())
	}
}

func TestPlatformsHandler(t *testing.T) {
	app, _, _ := newTestApp(newFakeUsers(), &fakeFetcher{meta: cleanMetadata()})

	req := httptest.NewRequest(http.MethodGet, "/v1/platforms", nil)
	rec := httptest.NewRecorder()
	app.Platforms(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp struct {
		Platforms []struct {
			Tag            string `json:"tag"`
			RequiresWallet bool   `json:"requiresWallet"`
		} `json:"platforms"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Platforms) == 0 {
		t.Fatalf("platforms list is empty")
	}
	if resp.Platforms[0].Tag != "instagram" {
		t.Fatalf("first platform = %q, want instagram", resp.Platforms[0].Tag)
	}
}
