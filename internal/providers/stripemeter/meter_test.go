package stripemeter

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRecordUsage(t *testing.T) {
	var gotPath, gotAuth string
	var gotForm map[string][]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		gotForm = r.PostForm
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	meter, err := New(Options{APIKey: "sk_live_x", BaseURL: server.URL, HTTPClient: server.Client()})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if err := meter.RecordUsage(context.Background(), "si_123", 1); err != nil {
		t.Fatalf("RecordUsage() error: %v", err)
	}
	if gotPath != "/subscription_items/si_123/usage_records" {
		t.Fatalf("path = %q", gotPath)
	}
	if gotAuth != "Bearer sk_live_x" {
		t.Fatalf("Authorization = %q", gotAuth)
	}
	if got := gotForm["quantity"]; len(got) != 1 || got[0] != "1" {
		t.Fatalf("quantity = %v, want [1]", got)
	}
	if got := gotForm["action"]; len(got) != 1 || got[0] != "increment" {
		t.Fatalf("action = %v, want [increment]", got)
	}
	if got := gotForm["timestamp"]; len(got) != 1 || got[0] == "" {
		t.Fatalf("timestamp = %v, want one value", got)
	}
}

func TestRecordUsageRequiresSubscriptionItem(t *testing.T) {
	meter, err := New(Options{APIKey: "sk_live_x"})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if err := meter.RecordUsage(context.Background(), "  ", 1); err == nil {
		t.Fatalf("RecordUsage() should reject a blank subscription item id")
	}
}

func TestRecordUsageStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
	}))
	defer server.Close()

	meter, err := New(Options{APIKey: "sk_live_x", BaseURL: server.URL, HTTPClient: server.Client()})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if err := meter.RecordUsage(context.Background(), "si_123", 1); err == nil {
		t.Fatalf("RecordUsage() should fail on non-2xx status")
	}
}
