package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"skill-eval/internal/delivery/http/middleware"
	"skill-eval/internal/delivery/http/routes"
	v1 "skill-eval/internal/delivery/http/routes/v1"
	"skill-eval/internal/domain/assessment"
	"skill-eval/internal/domain/skill"
	"skill-eval/internal/domain/user"
	"skill-eval/internal/pkg/validate"
	"skill-eval/internal/usecase"
	useruc "skill-eval/internal/usecase/user"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

var testUserID = uuid.MustParse("7b0e8c2a-3f4d-4c1e-9a57-0d2b6f1e8a10")

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Details map[string]any `json:"details"`
	} `json:"error"`
	Timestamp string `json:"timestamp"`
}

// testAuth stands in for JWT auth: X-Test-Role picks the role, and a
// missing header leaves the request anonymous.
func testAuth(c fiber.Ctx) error {
	role := c.Get("X-Test-Role")
	if role == "" {
		return middleware.NewAppError(fiber.StatusUnauthorized, "authentication required", nil, nil)
	}
	c.Locals(middleware.CtxUserIDKey, testUserID)
	c.Locals(middleware.CtxRoleKey, role)
	return c.Next()
}

func newTestApp(d v1.Deps) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler:    middleware.ErrorHandler,
		StructValidator: validate.New(),
	})
	app.Use(middleware.NewErrorMiddleware(log.New(io.Discard, "", 0)).Middleware())
	if d.AuthMiddleware == nil {
		d.AuthMiddleware = testAuth
	}
	routes.NewRegistry(d).Register(app)
	return app
}

type request struct {
	method string
	path   string
	body   any
	role   string
	header map[string]string
}

func do(t *testing.T, app *fiber.App, r request) (*http.Response, envelope) {
	t.Helper()

	var rdr io.Reader
	if r.body != nil {
		switch b := r.body.(type) {
		case string:
			rdr = bytes.NewBufferString(b)
		default:
			raw, err := json.Marshal(b)
			if err != nil {
				t.Fatalf("marshal: %v", err)
			}
			rdr = bytes.NewReader(raw)
		}
	}
	req := httptest.NewRequest(r.method, r.path, rdr)
	if r.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if r.role != "" {
		req.Header.Set("X-Test-Role", r.role)
	}
	for k, v := range r.header {
		req.Header.Set(k, v)
	}

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("%s %s: %v", r.method, r.path, err)
	}
	t.Cleanup(func() { _ = resp.Body.Close() })

	var env envelope
	raw, _ := io.ReadAll(resp.Body)
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &env); err != nil {
			t.Fatalf("%s %s: decode %q: %v", r.method, r.path, raw, err)
		}
	}
	return resp, env
}

func expectError(t *testing.T, resp *http.Response, env envelope, status int, code string) {
	t.Helper()
	if resp.StatusCode != status {
		t.Fatalf("expected status %d, got %d (%+v)", status, resp.StatusCode, env.Error)
	}
	if env.Success || env.Error == nil || env.Error.Code != code {
		t.Fatalf("expected error code %s, got %+v", code, env.Error)
	}
}

type fakeSkillUC struct {
	skills     map[uuid.UUID]skill.Skill
	lastList   usecase.ListSkillsParams
	lastCreate usecase.CreateSkillInput
	lastUpdate usecase.UpdateSkillInput
	err        error
}

func newFakeSkillUC(items ...skill.Skill) *fakeSkillUC {
	f := &fakeSkillUC{skills: map[uuid.UUID]skill.Skill{}}
	for _, s := range items {
		f.skills[s.ID] = s
	}
	return f
}

func (f *fakeSkillUC) ListSkills(_ context.Context, _ uuid.UUID, p usecase.ListSkillsParams) (usecase.SkillPage, error) {
	f.lastList = p
	if f.err != nil {
		return usecase.SkillPage{}, f.err
	}
	items := make([]skill.Skill, 0, len(f.skills))
	for _, s := range f.skills {
		items = append(items, s)
	}
	limit := p.Limit
	if limit == 0 {
		limit = usecase.DefaultPageLimit
	}
	return usecase.SkillPage{Items: items, Total: len(items), Limit: limit, Offset: p.Offset}, nil
}

func (f *fakeSkillUC) GetSkill(_ context.Context, _ uuid.UUID, id uuid.UUID) (skill.Skill, error) {
	s, ok := f.skills[id]
	if !ok {
		return skill.Skill{}, usecase.ErrSkillNotFound
	}
	return s, nil
}

func (f *fakeSkillUC) CreateSkill(_ context.Context, userID uuid.UUID, in usecase.CreateSkillInput) (skill.Skill, error) {
	f.lastCreate = in
	if f.err != nil {
		return skill.Skill{}, f.err
	}
	s := skill.Skill{
		ID:                uuid.New(),
		UserID:            userID,
		CategoryID:        in.CategoryID,
		Name:              in.Name,
		Proficiency:       in.Proficiency,
		TargetProficiency: in.TargetProficiency,
	}
	f.skills[s.ID] = s
	return s, nil
}

func (f *fakeSkillUC) UpdateSkill(_ context.Context, _ uuid.UUID, id uuid.UUID, in usecase.UpdateSkillInput) (skill.Skill, error) {
	f.lastUpdate = in
	s, ok := f.skills[id]
	if !ok {
		return skill.Skill{}, usecase.ErrSkillNotFound
	}
	if in.Proficiency != nil {
		s.Proficiency = *in.Proficiency
	}
	f.skills[id] = s
	return s, nil
}

func (f *fakeSkillUC) DeleteSkill(_ context.Context, _ uuid.UUID, id uuid.UUID) error {
	if _, ok := f.skills[id]; !ok {
		return usecase.ErrSkillNotFound
	}
	delete(f.skills, id)
	return nil
}

func (f *fakeSkillUC) ListHistory(_ context.Context, _ uuid.UUID, id uuid.UUID, _, _ int) ([]skill.History, error) {
	if _, ok := f.skills[id]; !ok {
		return nil, usecase.ErrSkillNotFound
	}
	return []skill.History{{ID: uuid.New(), SkillID: id, NewProficiency: 5, Source: skill.SourceCreated, CreatedAt: time.Now()}}, nil
}

type fakeAssessmentUC struct {
	result usecase.AssessmentResult
	err    error
}

func (f *fakeAssessmentUC) ListAssessments(context.Context, uuid.UUID, usecase.ListAssessmentsParams) (usecase.AssessmentPage, error) {
	return usecase.AssessmentPage{Items: []assessment.Assessment{f.result.Assessment}, Total: 1, Limit: 20}, f.err
}

func (f *fakeAssessmentUC) GetAssessment(context.Context, uuid.UUID, uuid.UUID) (assessment.Assessment, error) {
	return f.result.Assessment, f.err
}

func (f *fakeAssessmentUC) CreateAssessment(_ context.Context, _ uuid.UUID, in usecase.CreateAssessmentInput) (usecase.AssessmentResult, error) {
	if f.err != nil {
		return usecase.AssessmentResult{}, f.err
	}
	res := f.result
	res.Assessment.SkillID = in.SkillID
	res.Assessment.Type = assessment.Type(in.Type)
	res.Assessment.Score = in.Score
	return res, nil
}

func (f *fakeAssessmentUC) UpdateAssessment(context.Context, uuid.UUID, uuid.UUID, usecase.UpdateAssessmentInput) (usecase.AssessmentResult, error) {
	return f.result, f.err
}

func (f *fakeAssessmentUC) DeleteAssessment(context.Context, uuid.UUID, uuid.UUID) error {
	return f.err
}

type fakeCategoryUC struct {
	cats      []skill.Category
	deleteErr error
	deleted   []uuid.UUID
}

func (f *fakeCategoryUC) ListCategories(context.Context, uuid.UUID) ([]skill.Category, error) {
	return f.cats, nil
}

func (f *fakeCategoryUC) GetCategory(_ context.Context, _ uuid.UUID, id uuid.UUID) (skill.Category, error) {
	for _, c := range f.cats {
		if c.ID == id {
			return c, nil
		}
	}
	return skill.Category{}, usecase.ErrCategoryNotFound
}

func (f *fakeCategoryUC) CreateCategory(_ context.Context, _ uuid.UUID, in usecase.CreateCategoryInput) (skill.Category, error) {
	c := skill.Category{ID: uuid.New(), Name: in.Name, Slug: skill.Slugify(in.Name), Color: in.Color}
	f.cats = append(f.cats, c)
	return c, nil
}

func (f *fakeCategoryUC) UpdateCategory(_ context.Context, userID uuid.UUID, id uuid.UUID, _ usecase.UpdateCategoryInput) (skill.Category, error) {
	return f.GetCategory(context.Background(), userID, id)
}

func (f *fakeCategoryUC) DeleteCategory(_ context.Context, id uuid.UUID) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeAnalyticsUC struct {
	days int
}

func (f *fakeAnalyticsUC) Overview(context.Context, uuid.UUID) (usecase.Overview, error) {
	return usecase.Overview{TotalSkills: 3, AverageProficiency: 6.3}, nil
}

func (f *fakeAnalyticsUC) Progress(_ context.Context, _ uuid.UUID, days int) (usecase.Progress, error) {
	f.days = days
	if days < 1 || days > usecase.MaxProgressDays {
		return usecase.Progress{}, usecase.ErrInvalidInput
	}
	return usecase.Progress{Days: days, Series: []usecase.ProgressDay{}}, nil
}

func (f *fakeAnalyticsUC) TopSkills(context.Context, uuid.UUID, int) (usecase.TopSkills, error) {
	return usecase.TopSkills{}, nil
}

type fakeUserUC struct {
	usr user.User
}

func (f *fakeUserUC) GetMe(context.Context, uuid.UUID) (user.User, error) {
	return f.usr, nil
}

func (f *fakeUserUC) UpdateMe(_ context.Context, _ uuid.UUID, in useruc.UpdateMeInput) (user.User, error) {
	if in.Name != nil {
		f.usr.Name = *in.Name
	}
	return f.usr, nil
}

type fakeSystemUC struct {
	health usecase.HealthReport
}

func (f fakeSystemUC) Health(context.Context) usecase.HealthReport { return f.health }

func (f fakeSystemUC) Metrics(context.Context) (usecase.Metrics, error) {
	return usecase.Metrics{WSClients: 2}, nil
}

func (f fakeSystemUC) Status() usecase.Status {
	return usecase.Status{App: "SkillEval", Goroutines: 4}
}

type fakeAuthUC struct {
	authURL   string
	state     string
	beginErr  error
	result    usecase.AuthResult
	gotState  string
	gotCode   string
	gotCookie string
}

func (f *fakeAuthUC) BeginGoogleLogin(context.Context) (string, string, error) {
	return f.authURL, f.state, f.beginErr
}

func (f *fakeAuthUC) CompleteGoogleLogin(_ context.Context, code, state, cookieState string) (usecase.AuthResult, error) {
	f.gotCode, f.gotState, f.gotCookie = code, state, cookieState
	if state == "" || state != cookieState {
		return usecase.AuthResult{}, usecase.ErrInvalidOAuthState
	}
	return f.result, nil
}

func (f *fakeAuthUC) Refresh(_ context.Context, tok string) (usecase.AuthResult, error) {
	if tok != "good-refresh" {
		return usecase.AuthResult{}, usecase.ErrInvalidRefreshToken
	}
	return f.result, nil
}
