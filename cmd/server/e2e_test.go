package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/Team-NaBang/Bang-Backend/pkg/app"
	"github.com/Team-NaBang/Bang-Backend/pkg/config"
)

const code = "e2e-code"

func TestIntegration(t *testing.T) {
	// 1. Setup config the way Load would produce it
	cfg := &config.Config{
		Port:               "0",
		DatabaseURL:        filepath.Join(t.TempDir(), "blog.sqlite"),
		AppEnv:             "test",
		AuthenticationCode: code,
		ClientDomain:       "http://localhost:3000",
		SessionTTL:         time.Hour,
		Location:           time.UTC,
		LogLevel:           "debug",
		RateLimits:         config.DefaultRateLimits(),
	}

	// 2. Setup app
	a, err := app.New(cfg, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("Failed to init app: %v", err)
	}
	defer a.Close()

	server := httptest.NewServer(a.Handler)
	defer server.Close()
	client := server.Client()

	// TEST 1: Create Post
	payload := map[string]string{
		"title":               "Hello",
		"summary":             "First post",
		"content":             "Body",
		"category":            "Develop",
		"authentication_code": code,
	}
	body, _ := json.Marshal(payload)
	resp, err := client.Post(server.URL+"/api/v1/posts", "application/json", bytes.NewBuffer(body))
	if err != nil {
		t.Fatalf("Failed JSON POST: %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("Expected 201, got %d", resp.StatusCode)
	}
	var created struct {
		ID    string `json:"id"`
		Likes int64  `json:"likes_count"`
	}
	json.NewDecoder(resp.Body).Decode(&created)
	resp.Body.Close()
	if created.ID == "" {
		t.Fatal("Post id is empty")
	}

	// TEST 2: Like it
	resp, err = client.Post(server.URL+"/api/v1/posts/"+created.ID+"/likes", "application/json", nil)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("Like expected 204, got %d", resp.StatusCode)
	}

	// TEST 3: Blog main page
	resp, err = client.Get(server.URL + "/api/v1/blog")
	if err != nil {
		t.Fatal(err)
	}
	var page struct {
		AllPosts     []json.RawMessage `json:"all_posts"`
		PopularPosts []struct {
			ID    string `json:"id"`
			Likes int64  `json:"likes_count"`
		} `json:"popular_posts"`
		VisitorStats []struct {
			Today int64 `json:"today_visitor"`
			Total int64 `json:"total_visitor"`
		} `json:"visitor_stats"`
	}
	json.NewDecoder(resp.Body).Decode(&page)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Blog expected 200, got %d", resp.StatusCode)
	}
	if len(page.AllPosts) != 1 || len(page.PopularPosts) != 1 || page.PopularPosts[0].Likes != 1 {
		t.Errorf("Unexpected blog page: %+v", page)
	}
	if len(page.VisitorStats) != 1 || page.VisitorStats[0].Today != 1 || page.VisitorStats[0].Total != 1 {
		t.Errorf("Unexpected visitor stats: %+v", page.VisitorStats)
	}

	// TEST 4: Delete
	req, _ := http.NewRequest(http.MethodDelete, server.URL+"/api/v1/posts/"+created.ID, nil)
	req.Header.Set("authentication-code", code)
	resp, err = client.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("Delete expected 204, got %d", resp.StatusCode)
	}

	// TEST 5: Security headers on every response
	resp, err = client.Get(server.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.Header.Get("X-Frame-Options") != "DENY" {
		t.Error("X-Frame-Options missing")
	}
}
