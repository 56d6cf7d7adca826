package decodos

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"effortnet/internal/domain"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client, err := NewClient(Options{
		Token:      "test-token",
		BaseURL:    server.URL,
		HTTPClient: server.Client(),
	})
	if err != nil {
		t.Fatalf("NewClient() error: %v", err)
	}
	return client, server
}

func envelope(content map[string]any) map[string]any {
	return map[string]any{
		"results": []any{
			map[string]any{"content": content},
		},
	}
}

func TestFetchTikTokVideo(t *testing.T) {
	var captured scrapeRequest
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Basic test-token" {
			t.Errorf("Authorization = %q, want basic token", got)
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_ = json.NewEncoder(w).Encode(envelope(map[string]any{
			"video": map[string]any{
				"description":     "day 40 of training",
				"play_count":      120000,
				"comment_count":   450,
				"engagement_rate": 0.042,
				"create_time":     "2025-05-20T08:00:00Z",
			},
			"profile": map[string]any{
				"followers": 34000,
			},
		}))
	})

	meta, err := client.Fetch(context.Background(), FetchRequest{
		URL: "https://www.tiktok.com/@coach/video/71234",
	})
	if err != nil {
		t.Fatalf("Fetch() error: %v", err)
	}
	if captured.Target != "tiktok_post" {
		t.Fatalf("scrape target = %q, want tiktok_post", captured.Target)
	}
	if meta.Platform != domain.PlatformTikTok {
		t.Fatalf("Platform = %q, want tiktok", meta.Platform)
	}
	if meta.FollowerCount != 34000 || meta.ViewCount != 120000 || meta.CommentCount != 450 {
		t.Fatalf("counts = %d/%d/%d, want 34000/120000/450", meta.FollowerCount, meta.ViewCount, meta.CommentCount)
	}
	if meta.EngagementRate != 0.042 {
		t.Fatalf("EngagementRate = %v, want 0.042", meta.EngagementRate)
	}
	if meta.Description != "day 40 of training" {
		t.Fatalf("Description = %q", meta.Description)
	}
	want := time.Date(2025, 5, 20, 8, 0, 0, 0, time.UTC)
	if !meta.UploadDate.Equal(want) {
		t.Fatalf("UploadDate = %v, want %v", meta.UploadDate, want)
	}
}

func TestFetchRedditCommentFallback(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(envelope(map[string]any{
			"post": map[string]any{
				"title":        "What worked for my marathon block",
				"num_comments": 87,
				"upvote_ratio": 0.93,
				"published_at": "2025-05-19",
			},
		}))
	})

	meta, err := client.Fetch(context.Background(), FetchRequest{
		URL: "https://www.reddit.com/r/running/comments/abc/post/",
	})
	if err != nil {
		t.Fatalf("Fetch() error: %v", err)
	}
	if meta.CommentCount != 87 {
		t.Fatalf("CommentCount = %d, want 87 via num_comments", meta.CommentCount)
	}
	if meta.Description != "What worked for my marathon block" {
		t.Fatalf("Description = %q, want title fallback", meta.Description)
	}
	if meta.EngagementRate != 0.93 {
		t.Fatalf("EngagementRate = %v, want upvote ratio", meta.EngagementRate)
	}
}

func TestFetchAttachesRiskBlocks(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(envelope(map[string]any{
			"listing": map[string]any{
				"description":    "limited mint",
				"views":          900,
				"offers":         3,
				"creator_wallet": "0xfeed",
			},
			"risk": map[string]any{
				"blockchain_signals": []string{domain.SignalScamAddress},
				"identity_signals":   []string{domain.SignalIDMismatch},
			},
		}))
	})

	meta, err := client.Fetch(context.Background(), FetchRequest{
		URL: "https://opensea.io/assets/ethereum/0xabc/1",
	})
	if err != nil {
		t.Fatalf("Fetch() error: %v", err)
	}
	if meta.ArkhamData == nil || meta.ArkhamData.Wallet != "0xfeed" {
		t.Fatalf("ArkhamData = %+v, want wallet 0xfeed", meta.ArkhamData)
	}
	if len(meta.ArkhamData.BlockchainSignals) != 1 || meta.ArkhamData.BlockchainSignals[0] != domain.SignalScamAddress {
		t.Fatalf("BlockchainSignals = %v", meta.ArkhamData.BlockchainSignals)
	}
	if meta.PlaidData == nil || len(meta.PlaidData.IdentitySignals) != 1 {
		t.Fatalf("PlaidData = %+v", meta.PlaidData)
	}
}

func TestFetchUpstreamStatusError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := client.Fetch(context.Background(), FetchRequest{
		URL: "https://www.tiktok.com/@coach/video/71234",
	})
	if !errors.Is(err, domain.ErrUpstreamFetch) {
		t.Fatalf("err = %v, want ErrUpstreamFetch", err)
	}
}

func TestFetchMissingBlockFailsLoudly(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(envelope(map[string]any{
			"profile": map[string]any{"followers": 10},
		}))
	})

	_, err := client.Fetch(context.Background(), FetchRequest{
		URL: "https://www.tiktok.com/@coach/video/71234",
	})
	if !errors.Is(err, domain.ErrUpstreamFetch) {
		t.Fatalf("err = %v, want ErrUpstreamFetch for missing video block", err)
	}
}

func TestFetchEmptyResults(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"results": []any{}})
	})

	_, err := client.Fetch(context.Background(), FetchRequest{
		URL: "https://www.tiktok.com/@coach/video/71234",
	})
	if !errors.Is(err, domain.ErrUpstreamFetch) {
		t.Fatalf("err = %v, want ErrUpstreamFetch for empty results", err)
	}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name    string
		req     FetchRequest
		wantTag domain.Platform
		wantErr error
	}{
		{
			name:    "inferred from url",
			req:     FetchRequest{URL: "https://www.instagram.com/p/abc/"},
			wantTag: domain.PlatformInstagram,
		},
		{
			name:    "declared matches",
			req:     FetchRequest{URL: "https://www.instagram.com/p/abc/", SourceType: "instagram"},
			wantTag: domain.PlatformInstagram,
		},
		{
			name:    "unknown declaration falls back to detection",
			req:     FetchRequest{URL: "https://youtu.be/xyz", SourceType: "unknown"},
			wantTag: domain.PlatformYouTube,
		},
		{
			name:    "declared mismatch",
			req:     FetchRequest{URL: "https://www.instagram.com/p/abc/", SourceType: "tiktok"},
			wantErr: domain.ErrPlatformMismatch,
		},
		{
			name:    "unsupported declaration",
			req:     FetchRequest{URL: "https://www.instagram.com/p/abc/", SourceType: "myspace"},
			wantErr: domain.ErrUnsupportedPlatform,
		},
		{
			name:    "undetectable url",
			req:     FetchRequest{URL: "https://example.com/post"},
			wantErr: domain.ErrUnsupportedPlatform,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			entry, err := Resolve(tc.req)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("Resolve() err = %v, want %v", err, tc.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Resolve() error: %v", err)
			}
			if entry.Tag != tc.wantTag {
				t.Fatalf("Resolve() tag = %q, want %q", entry.Tag, tc.wantTag)
			}
		})
	}
}
