package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/developerskull/codePVG-sub000/internal/domain"
	mockpub "github.com/developerskull/codePVG-sub000/internal/publisher/mock"
	mockrepo "github.com/developerskull/codePVG-sub000/internal/repository/mock"
	"github.com/developerskull/codePVG-sub000/internal/usecase"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testEnv struct {
	router   *gin.Engine
	subs     *mockrepo.SubmissionRepository
	problems *mockrepo.ProblemRepository
	lb       *mockrepo.LeaderboardRepository
	pub      *mockpub.MockPublisher
}

func setupTestRouter() *testEnv {
	env := &testEnv{
		subs:     mockrepo.NewSubmissionRepository(),
		problems: mockrepo.NewProblemRepository(),
		lb:       mockrepo.NewLeaderboardRepository(),
		pub:      mockpub.NewMockPublisher(),
	}
	logger := zap.NewNop()

	submitUC := usecase.NewSubmitSubmissionUsecase(env.subs, env.problems, env.pub, logger)
	getSubUC := usecase.NewGetSubmissionUsecase(env.subs, logger)

	router := gin.New()
	subHandler := NewSubmissionHandler(submitUC, getSubUC, logger)
	router.POST("/api/v1/submissions", subHandler.Submit)
	router.GET("/api/v1/submissions/:id", subHandler.GetByID)

	problemHandler := NewProblemHandler(env.problems, logger)
	router.GET("/api/v1/problems", problemHandler.List)
	router.GET("/api/v1/problems/:id", problemHandler.GetByID)

	lbHandler := NewLeaderboardHandler(env.lb, logger)
	router.GET("/api/v1/leaderboard", lbHandler.List)
	router.GET("/api/v1/leaderboard/:user_id", lbHandler.GetByUser)

	langHandler := NewLanguageHandler()
	router.GET("/api/v1/languages", langHandler.List)

	env.router = router
	return env
}

func (env *testEnv) seedProblem() *domain.Problem {
	p := &domain.Problem{ID: uuid.New(), Title: "Two Sum", Difficulty: "easy"}
	env.problems.AddProblem(p, []domain.TestCase{
		{ID: uuid.New(), ProblemID: p.ID, Position: 0, Input: "1 2", ExpectedOutput: "3"},
	})
	return p
}

func postJSON(router *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	jsonBody, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func get(router *gin.Engine, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestSubmitHandler_Success(t *testing.T) {
	env := setupTestRouter()
	p := env.seedProblem()

	w := postJSON(env.router, "/api/v1/submissions", map[string]any{
		"user_id":     uuid.New(),
		"problem_id":  p.ID,
		"language":    "python",
		"source_code": "print('hello')",
	})

	if w.Code != http.StatusAccepted {
		t.Errorf("expected status 202, got %d: %s", w.Code, w.Body.String())
	}

	var resp domain.SubmitResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if resp.ID == uuid.Nil {
		t.Error("expected non-empty submission ID")
	}
	if resp.Status != "pending" {
		t.Errorf("expected pending status, got %s", resp.Status)
	}
	if len(env.pub.Published) != 1 {
		t.Errorf("expected 1 published submission, got %d", len(env.pub.Published))
	}
}

func TestSubmitHandler_InvalidLanguage(t *testing.T) {
	env := setupTestRouter()
	p := env.seedProblem()

	w := postJSON(env.router, "/api/v1/submissions", map[string]any{
		"user_id":     uuid.New(),
		"problem_id":  p.ID,
		"language":    "ruby",
		"source_code": "puts 'hello'",
	})

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}
}

func TestSubmitHandler_UnknownProblem(t *testing.T) {
	env := setupTestRouter()

	w := postJSON(env.router, "/api/v1/submissions", map[string]any{
		"user_id":     uuid.New(),
		"problem_id":  uuid.New(),
		"language":    "python",
		"source_code": "print('hello')",
	})

	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", w.Code)
	}
}

func TestSubmitHandler_MissingFields(t *testing.T) {
	env := setupTestRouter()

	w := postJSON(env.router, "/api/v1/submissions", map[string]any{
		"language": "python",
	})

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}
}

func TestSubmitHandler_PublishFailure(t *testing.T) {
	env := setupTestRouter()
	p := env.seedProblem()
	env.pub.PublishFn = func(ctx context.Context, sub *domain.Submission) error {
		return domain.ErrPublishFailed
	}

	w := postJSON(env.router, "/api/v1/submissions", map[string]any{
		"user_id":     uuid.New(),
		"problem_id":  p.ID,
		"language":    "python",
		"source_code": "print('hello')",
	})

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("expected status 503, got %d", w.Code)
	}
}

func TestGetSubmission_Success(t *testing.T) {
	env := setupTestRouter()
	owner := uuid.New()
	sub := &domain.Submission{
		ID:       uuid.New(),
		UserID:   owner,
		Language: domain.LangCpp,
		Status:   domain.StatusAccepted,
	}
	env.subs.Create(context.Background(), sub)

	w := get(env.router, "/api/v1/submissions/"+sub.ID.String()+"?user_id="+owner.String())

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	var got domain.Submission
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if got.ID != sub.ID || got.Status != domain.StatusAccepted {
		t.Errorf("unexpected submission in response: %+v", got)
	}
}

func TestGetSubmission_OtherUserIsNotFound(t *testing.T) {
	env := setupTestRouter()
	sub := &domain.Submission{ID: uuid.New(), UserID: uuid.New(), Status: domain.StatusPending}
	env.subs.Create(context.Background(), sub)

	w := get(env.router, "/api/v1/submissions/"+sub.ID.String()+"?user_id="+uuid.New().String())

	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", w.Code)
	}
}

func TestGetSubmission_InvalidID(t *testing.T) {
	env := setupTestRouter()

	w := get(env.router, "/api/v1/submissions/not-a-uuid?user_id="+uuid.New().String())

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}
}

func TestGetSubmission_MissingUserID(t *testing.T) {
	env := setupTestRouter()

	w := get(env.router, "/api/v1/submissions/"+uuid.New().String())

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}
}

func TestProblemHandler_List(t *testing.T) {
	env := setupTestRouter()
	env.seedProblem()

	w := get(env.router, "/api/v1/problems")

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	var resp struct {
		Problems []*domain.Problem `json:"problems"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if len(resp.Problems) != 1 {
		t.Errorf("expected 1 problem, got %d", len(resp.Problems))
	}
}

func TestProblemHandler_NotFound(t *testing.T) {
	env := setupTestRouter()

	w := get(env.router, "/api/v1/problems/"+uuid.New().String())

	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", w.Code)
	}
}

func TestLeaderboardHandler_List(t *testing.T) {
	env := setupTestRouter()
	user := uuid.New()
	env.lb.ApplyAccepted(context.Background(), user, uuid.New(), uuid.New(), time.Now())

	w := get(env.router, "/api/v1/leaderboard")

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	var resp struct {
		Entries []*domain.LeaderboardEntry `json:"entries"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if len(resp.Entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(resp.Entries))
	}
	if resp.Entries[0].Rank != 1 || resp.Entries[0].TotalSolved != 1 {
		t.Errorf("unexpected entry: %+v", resp.Entries[0])
	}
}

func TestLeaderboardHandler_EmptyList(t *testing.T) {
	env := setupTestRouter()

	w := get(env.router, "/api/v1/leaderboard")

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if !bytes.Contains(w.Body.Bytes(), []byte(`"entries":[]`)) {
		t.Errorf("expected empty entries array, got %s", w.Body.String())
	}
}

func TestLeaderboardHandler_InvalidLimit(t *testing.T) {
	env := setupTestRouter()

	w := get(env.router, "/api/v1/leaderboard?limit=9999")

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}
}

func TestLeaderboardHandler_UserNotRanked(t *testing.T) {
	env := setupTestRouter()

	w := get(env.router, "/api/v1/leaderboard/"+uuid.New().String())

	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", w.Code)
	}
}

func TestLanguageHandler_List(t *testing.T) {
	env := setupTestRouter()

	w := get(env.router, "/api/v1/languages")

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	var resp struct {
		Languages []domain.LanguageInfo `json:"languages"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if len(resp.Languages) != 5 {
		t.Errorf("expected 5 languages, got %d", len(resp.Languages))
	}
}
