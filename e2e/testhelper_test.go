package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/sanctuarysound/api/internal/analysis"
	"github.com/sanctuarysound/api/internal/auth"
	"github.com/sanctuarysound/api/internal/handler"
	"github.com/sanctuarysound/api/internal/middleware"
	"github.com/sanctuarysound/api/internal/model"
	"github.com/sanctuarysound/api/internal/recommend"
	"github.com/sanctuarysound/api/internal/service"
	"github.com/sanctuarysound/api/internal/worker"
)

const (
	testJWTSecret = "test-secret-for-e2e"
	testRedisAddr = "localhost:6379"
	testRedisDB   = 15 // use DB 15 for tests to avoid collision
)

// testApp holds all components needed for testing
type testApp struct {
	app    *fiber.App
	queue  *memoryQueue
	worker *worker.RecommendWorker
}

// memoryQueue captures enqueued tasks so tests can run the worker inline.
type memoryQueue struct {
	mu    sync.Mutex
	tasks []*asynq.Task
}

func (q *memoryQueue) Enqueue(task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.tasks = append(q.tasks, task)
	return &asynq.TaskInfo{Type: task.Type()}, nil
}

func (q *memoryQueue) drain() []*asynq.Task {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.tasks
	q.tasks = nil
	return out
}

type nopNotifier struct{}

func (nopNotifier) BroadcastProgress(string, int, model.JobStatus, string) {}
func (nopNotifier) BroadcastComplete(string, interface{})                  {}
func (nopNotifier) BroadcastSuperseded(string, int64, int64)               {}
func (nopNotifier) BroadcastError(string, string, string)                  {}

type appDeps struct {
	jobs  service.JobStore
	gens  service.Generations
	queue service.Enqueuer
}

// setupApp creates a Fiber app wired like main.go, with in-memory job
// storage and an inline queue so no Redis is needed.
func setupApp(t *testing.T) *testApp {
	t.Helper()
	q := &memoryQueue{}
	app, recs := buildApp(t, appDeps{
		jobs:  service.NewMemoryJobStore(),
		gens:  service.NewMemoryGenerations(),
		queue: q,
	})
	return &testApp{app: app, queue: q, worker: worker.NewRecommendWorker(recs, nopNotifier{}, nil)}
}

// setupRedisApp wires the Redis-backed job store and asynq client, and
// skips the test when Redis is not running.
func setupRedisApp(t *testing.T) *fiber.App {
	t.Helper()
	redisClient := newTestRedis()
	t.Cleanup(func() { redisClient.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		t.Skipf("redis not available: %v", err)
	}

	asynqClient := asynq.NewClient(asynq.RedisClientOpt{Addr: testRedisAddr, DB: testRedisDB})
	t.Cleanup(func() { asynqClient.Close() })

	app, _ := buildApp(t, appDeps{
		jobs:  service.NewRedisJobStore(redisClient),
		gens:  service.NewRedisGenerations(redisClient),
		queue: asynqClient,
	})
	return app
}

func newTestRedis() *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:       testRedisAddr,
		DB:         testRedisDB,
		MaxRetries: -1,
	})
}

func buildApp(t *testing.T, deps appDeps) (*fiber.App, *service.RecommendationService) {
	t.Helper()

	redisClient := newTestRedis()
	t.Cleanup(func() { redisClient.Close() })

	validate, err := handler.NewValidator()
	if err != nil {
		t.Fatalf("failed to create validator: %v", err)
	}

	recs := service.NewRecommendationService(recommend.DefaultTuning(), deps.jobs, deps.gens, deps.queue, nil)
	analyses := service.NewAnalysisService(analysis.DefaultTolerances())
	snapshots := service.NewSnapshotService(nil, nil) // no archive

	recommendationHandler := handler.NewRecommendationHandler(recs, validate)
	analysisHandler := handler.NewAnalysisHandler(analyses, validate)
	snapshotHandler := handler.NewSnapshotHandler(snapshots)

	authenticator := auth.NewAuthenticator(nil, testJWTSecret)
	authHandler := handler.NewAuthHandler(authenticator)
	authMiddleware := middleware.NewAuthMiddleware(authenticator)

	// Rate limiting fails open when Redis is down
	rateLimiter := middleware.NewRateLimiter(redisClient, nil)

	app := fiber.New(fiber.Config{
		BodyLimit: 4 * 1024 * 1024,
	})

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"timestamp": 1234567890})
	})
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
			"services": fiber.Map{
				"redis":   false,
				"archive": false,
				"auth":    authenticator.Configured(),
			},
		})
	})
	app.Get("/auth/verify", authHandler.Verify)

	api := app.Group("/api", authMiddleware.Authenticate())

	// Use very high rate limits so tests don't get blocked
	api.Get("/consoles", analysisHandler.Consoles)

	r := api.Group("/recommendations")
	r.Post("/generate", rateLimiter.RecommendLimit(10000), recommendationHandler.Generate)
	r.Post("/jobs", rateLimiter.RecommendLimit(10000), recommendationHandler.StartJob)
	r.Get("/status/:jobId", recommendationHandler.Status)
	r.Get("/result/:jobId", recommendationHandler.Result)

	api.Post("/analysis", rateLimiter.AnalyzeLimit(10000), analysisHandler.Analyze)
	api.Post("/inference", rateLimiter.AnalyzeLimit(10000), analysisHandler.Infer)
	api.Post("/snapshots/import", rateLimiter.ImportLimit(10000), snapshotHandler.Import)

	return app, recs
}

// generateToken creates an HMAC operator token for test requests.
func generateToken(t *testing.T) string {
	t.Helper()
	token, err := auth.IssueOperatorToken(testJWTSecret, "test-operator-123", "test@example.com", "team-1", time.Hour)
	if err != nil {
		t.Fatalf("failed to generate test token: %v", err)
	}
	return token
}

// doRequest is a helper to perform HTTP requests against the test app.
func doRequest(app *fiber.App, method, path string, body string, headers map[string]string) (*http.Response, error) {
	var bodyReader io.Reader
	if body != "" {
		bodyReader = strings.NewReader(body)
	}

	req, err := http.NewRequest(method, path, bodyReader)
	if err != nil {
		return nil, err
	}

	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return app.Test(req, -1)
}

// doAuthRequest performs an authenticated request.
func doAuthRequest(t *testing.T, app *fiber.App, method, path, body string) (*http.Response, error) {
	t.Helper()
	token := generateToken(t)
	return doRequest(app, method, path, body, map[string]string{
		"Authorization": "Bearer " + token,
	})
}

// multipartRequest builds a multipart/form-data request with one file part.
func multipartRequest(t *testing.T, path string, fields map[string]string, filename, contentType string, file []byte) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for k, v := range fields {
		_ = writer.WriteField(k, v)
	}

	if filename != "" {
		partHeader := make(textproto.MIMEHeader)
		partHeader.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
		partHeader.Set("Content-Type", contentType)
		part, err := writer.CreatePart(partHeader)
		if err != nil {
			t.Fatalf("failed to create form file: %v", err)
		}
		_, _ = part.Write(file)
	}
	writer.Close()

	req, err := http.NewRequest(http.MethodPost, path, &buf)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

// readBody reads and returns the response body as a string.
func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read response body: %v", err)
	}
	return string(b)
}

// parseJSON parses response body into a map.
func parseJSON(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	body := readBody(t, resp)
	var result map[string]interface{}
	if err := json.Unmarshal([]byte(body), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, body)
	}
	return result
}

// decodeJSON parses the response body into v.
func decodeJSON(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	body := readBody(t, resp)
	if err := json.Unmarshal([]byte(body), v); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, body)
	}
}

// assertStatus checks the HTTP status code.
func assertStatus(t *testing.T, resp *http.Response, expected int) {
	t.Helper()
	if resp.StatusCode != expected {
		t.Errorf("expected status %d, got %d", expected, resp.StatusCode)
	}
}

// errorCode extracts error.code from an error envelope.
func errorCode(t *testing.T, resp *http.Response) string {
	t.Helper()
	body := parseJSON(t, resp)
	e, ok := body["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error envelope, got %v", body)
	}
	code, _ := e["code"].(string)
	return code
}

// sundayServiceJSON is a small worship service used across tests.
const sundayServiceJSON = `{
  "id": "sunday-am",
  "console": "behringer_x32",
  "room": {"size": "medium", "surface": "mixed"},
  "band": "small",
  "drums": "acoustic",
  "detail": "full",
  "channels": [
    {"label": "WL Vox", "source": "lead_vocal", "active": true,
     "vocalProfile": {"range": "tenor", "style": "powerful", "mic": "dynamic"}},
    {"label": "Kick", "source": "kick", "active": true},
    {"label": "Bass", "source": "bass_di", "active": true},
    {"label": "Keys", "source": "keys", "active": false}
  ],
  "setlist": [
    {"title": "Opener", "key": "C", "intensity": "driving"},
    {"title": "Response", "key": "G", "intensity": "soft"}
  ]
}`
