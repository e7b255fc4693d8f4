package e2e

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/sanctuarysound/api/internal/model"
)

func TestGenerate_Success(t *testing.T) {
	ta := setupApp(t)

	resp, err := doAuthRequest(t, ta.app, http.MethodPost, "/api/recommendations/generate", `{"service":`+sundayServiceJSON+`}`)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	assertStatus(t, resp, http.StatusOK)

	var rec model.MixerSettingRecommendation
	decodeJSON(t, resp, &rec)

	if len(rec.Channels) != 3 {
		t.Fatalf("expected 3 active channels, got %d", len(rec.Channels))
	}
	if rec.Channels[0].Compressor == nil {
		t.Error("expected a compressor suggestion at full detail on an X32")
	}
	var warnings int
	for _, ch := range rec.Channels {
		warnings += len(ch.KeyWarnings)
	}
	if warnings == 0 {
		t.Error("expected kick/bass key warnings for a driving song in C")
	}
}

func TestGenerate_ValidationError(t *testing.T) {
	ta := setupApp(t)

	cases := map[string]string{
		"bad json":       `{"service":`,
		"unknown source": `{"service":{"console":"generic","channels":[{"label":"x","source":"theremin","active":true}]}}`,
		"bad room":       `{"service":{"console":"generic","room":{"size":"stadium","surface":"mixed"}}}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			resp, err := doAuthRequest(t, ta.app, http.MethodPost, "/api/recommendations/generate", body)
			if err != nil {
				t.Fatalf("request failed: %v", err)
			}
			assertStatus(t, resp, http.StatusBadRequest)
			if code := errorCode(t, resp); code != "VALIDATION_ERROR" {
				t.Errorf("expected VALIDATION_ERROR, got %s", code)
			}
		})
	}
}

func TestRecommendationJob_LastCallWins(t *testing.T) {
	ta := setupApp(t)

	start := func() map[string]interface{} {
		resp, err := doAuthRequest(t, ta.app, http.MethodPost, "/api/recommendations/jobs", `{"service":`+sundayServiceJSON+`}`)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		assertStatus(t, resp, http.StatusAccepted)
		return parseJSON(t, resp)
	}
	first := start()
	second := start()

	if first["generation"].(float64) >= second["generation"].(float64) {
		t.Fatalf("expected increasing generations, got %v then %v", first["generation"], second["generation"])
	}

	// Result before the worker ran
	resp, err := doAuthRequest(t, ta.app, http.MethodGet, "/api/recommendations/result/"+second["jobId"].(string), "")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	assertStatus(t, resp, http.StatusBadRequest)
	if code := errorCode(t, resp); code != "JOB_NOT_READY" {
		t.Errorf("expected JOB_NOT_READY, got %s", code)
	}

	for _, task := range ta.queue.drain() {
		if err := ta.worker.ProcessTask(context.Background(), task); err != nil {
			t.Fatalf("worker failed: %v", err)
		}
	}

	resp, err = doAuthRequest(t, ta.app, http.MethodGet, "/api/recommendations/status/"+first["jobId"].(string), "")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	assertStatus(t, resp, http.StatusOK)
	if status := parseJSON(t, resp)["status"]; status != "superseded" {
		t.Errorf("expected first job superseded, got %v", status)
	}

	resp, err = doAuthRequest(t, ta.app, http.MethodGet, "/api/recommendations/result/"+first["jobId"].(string), "")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	assertStatus(t, resp, http.StatusConflict)

	resp, err = doAuthRequest(t, ta.app, http.MethodGet, "/api/recommendations/result/"+second["jobId"].(string), "")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	assertStatus(t, resp, http.StatusOK)
	var rec model.MixerSettingRecommendation
	decodeJSON(t, resp, &rec)
	if len(rec.Channels) != 3 {
		t.Errorf("expected 3 channels, got %d", len(rec.Channels))
	}
}

func TestRecommendationJob_NotFound(t *testing.T) {
	ta := setupApp(t)

	for _, path := range []string{"/api/recommendations/status/missing", "/api/recommendations/result/missing"} {
		resp, err := doAuthRequest(t, ta.app, http.MethodGet, path, "")
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		assertStatus(t, resp, http.StatusNotFound)
	}
}

func TestRecommendationJob_Redis(t *testing.T) {
	app := setupRedisApp(t)

	resp, err := doAuthRequest(t, app, http.MethodPost, "/api/recommendations/jobs", `{"service":`+sundayServiceJSON+`}`)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	assertStatus(t, resp, http.StatusAccepted)
	job := parseJSON(t, resp)

	resp, err = doAuthRequest(t, app, http.MethodGet, "/api/recommendations/status/"+job["jobId"].(string), "")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	assertStatus(t, resp, http.StatusOK)
	body := readBody(t, resp)
	if !strings.Contains(body, `"serviceId":"sunday-am"`) {
		t.Errorf("expected serviceId in status, got %s", body)
	}
}
