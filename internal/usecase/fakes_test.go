package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"skill-eval/internal/domain/assessment"
	"skill-eval/internal/domain/skill"
	"skill-eval/internal/domain/user"
	"skill-eval/internal/repository"
	"skill-eval/internal/ws"

	"github.com/google/uuid"
)

type fakeCategoryRepo struct {
	items map[uuid.UUID]skill.Category
	inUse map[uuid.UUID]bool
	err   error
}

func newFakeCategoryRepo(cats ...skill.Category) *fakeCategoryRepo {
	r := &fakeCategoryRepo{items: map[uuid.UUID]skill.Category{}, inUse: map[uuid.UUID]bool{}}
	for _, c := range cats {
		r.items[c.ID] = c
	}
	return r
}

func (r *fakeCategoryRepo) ListCategories(context.Context, uuid.UUID) ([]skill.Category, error) {
	if r.err != nil {
		return nil, r.err
	}
	out := make([]skill.Category, 0, len(r.items))
	for _, c := range r.items {
		out = append(out, c)
	}
	return out, nil
}

func (r *fakeCategoryRepo) GetCategoryByID(_ context.Context, _ uuid.UUID, id uuid.UUID) (skill.Category, error) {
	c, ok := r.items[id]
	if !ok {
		return skill.Category{}, repository.ErrCategoryNotFound
	}
	return c, nil
}

func (r *fakeCategoryRepo) CategoryExists(_ context.Context, id uuid.UUID) (bool, error) {
	if r.err != nil {
		return false, r.err
	}
	_, ok := r.items[id]
	return ok, nil
}

func (r *fakeCategoryRepo) CreateCategory(_ context.Context, c skill.Category) (skill.Category, error) {
	for _, existing := range r.items {
		if strings.EqualFold(existing.Name, c.Name) || existing.Slug == c.Slug {
			return skill.Category{}, repository.ErrDuplicateCategory
		}
	}
	c.ID = uuid.New()
	r.items[c.ID] = c
	return c, nil
}

func (r *fakeCategoryRepo) UpdateCategory(_ context.Context, c skill.Category) (skill.Category, error) {
	if _, ok := r.items[c.ID]; !ok {
		return skill.Category{}, repository.ErrCategoryNotFound
	}
	c.SkillCount = 0
	r.items[c.ID] = c
	return c, nil
}

func (r *fakeCategoryRepo) DeleteCategory(_ context.Context, id uuid.UUID) error {
	if _, ok := r.items[id]; !ok {
		return repository.ErrCategoryNotFound
	}
	if r.inUse[id] {
		return repository.ErrCategoryInUse
	}
	delete(r.items, id)
	return nil
}

// fakeSkillRepo mirrors the history bookkeeping of the Postgres repository.
// onLock runs where the Postgres repository takes the row lock, standing in
// for a writer that committed just before it.
type fakeSkillRepo struct {
	skills  map[uuid.UUID]skill.Skill
	history []skill.History
	filter  repository.SkillFilter
	err     error
	onLock  func(id uuid.UUID)
}

func newFakeSkillRepo() *fakeSkillRepo {
	return &fakeSkillRepo{skills: map[uuid.UUID]skill.Skill{}}
}

func (r *fakeSkillRepo) ListSkills(_ context.Context, f repository.SkillFilter) ([]skill.Skill, int, error) {
	r.filter = f
	if r.err != nil {
		return nil, 0, r.err
	}
	out := make([]skill.Skill, 0)
	for _, s := range r.skills {
		if s.UserID == f.UserID {
			out = append(out, s)
		}
	}
	return out, len(out), nil
}

func (r *fakeSkillRepo) GetSkillByID(_ context.Context, userID uuid.UUID, id uuid.UUID) (skill.Skill, error) {
	s, ok := r.skills[id]
	if !ok || s.UserID != userID {
		return skill.Skill{}, repository.ErrSkillNotFound
	}
	return s, nil
}

func (r *fakeSkillRepo) CreateSkill(_ context.Context, s skill.Skill) (skill.Skill, error) {
	if r.err != nil {
		return skill.Skill{}, r.err
	}
	for _, existing := range r.skills {
		if existing.UserID == s.UserID && strings.EqualFold(existing.Name, s.Name) {
			return skill.Skill{}, repository.ErrDuplicateSkill
		}
	}
	s.ID = uuid.New()
	r.skills[s.ID] = s
	r.history = append(r.history, skill.History{SkillID: s.ID, UserID: s.UserID, NewProficiency: s.Proficiency, Source: skill.SourceCreated})
	return s, nil
}

func (r *fakeSkillRepo) UpdateSkill(_ context.Context, userID uuid.UUID, id uuid.UUID, mutate repository.SkillMutator, note string) (skill.Skill, error) {
	if r.onLock != nil {
		r.onLock(id)
	}
	current, ok := r.skills[id]
	if !ok || current.UserID != userID {
		return skill.Skill{}, repository.ErrSkillNotFound
	}
	next := current
	if err := mutate(&next); err != nil {
		return skill.Skill{}, err
	}
	if current.Proficiency != next.Proficiency {
		prev := current.Proficiency
		r.history = append(r.history, skill.History{
			SkillID: id, UserID: userID, PreviousProficiency: &prev,
			NewProficiency: next.Proficiency, Source: skill.SourceManual, Note: note,
		})
	}
	r.skills[id] = next
	return next, nil
}

func (r *fakeSkillRepo) DeleteSkill(_ context.Context, userID uuid.UUID, id uuid.UUID) error {
	s, ok := r.skills[id]
	if !ok || s.UserID != userID {
		return repository.ErrSkillNotFound
	}
	delete(r.skills, id)
	return nil
}

func (r *fakeSkillRepo) ListHistory(_ context.Context, userID uuid.UUID, skillID uuid.UUID, limit, offset int) ([]skill.History, error) {
	if _, err := r.GetSkillByID(context.Background(), userID, skillID); err != nil {
		return nil, err
	}
	out := make([]skill.History, 0)
	for _, h := range r.history {
		if h.SkillID == skillID {
			out = append(out, h)
		}
	}
	return out, nil
}

// fakeAssessmentRepo shares skill state with a fakeSkillRepo so blending can
// be observed.
type fakeAssessmentRepo struct {
	skills *fakeSkillRepo
	items  map[uuid.UUID]assessment.Assessment
	filter repository.AssessmentFilter
	blends int
	onLock func(id uuid.UUID)
}

func newFakeAssessmentRepo(skills *fakeSkillRepo) *fakeAssessmentRepo {
	return &fakeAssessmentRepo{skills: skills, items: map[uuid.UUID]assessment.Assessment{}}
}

func (r *fakeAssessmentRepo) ListAssessments(_ context.Context, f repository.AssessmentFilter) ([]assessment.Assessment, int, error) {
	r.filter = f
	out := make([]assessment.Assessment, 0)
	for _, a := range r.items {
		if a.UserID == f.UserID {
			out = append(out, a)
		}
	}
	return out, len(out), nil
}

func (r *fakeAssessmentRepo) GetAssessmentByID(_ context.Context, userID uuid.UUID, id uuid.UUID) (assessment.Assessment, error) {
	a, ok := r.items[id]
	if !ok || a.UserID != userID {
		return assessment.Assessment{}, repository.ErrAssessmentNotFound
	}
	return a, nil
}

func (r *fakeAssessmentRepo) apply(a assessment.Assessment, blend repository.BlendFunc) (skill.Skill, error) {
	s, err := r.skills.GetSkillByID(context.Background(), a.UserID, a.SkillID)
	if err != nil {
		return skill.Skill{}, err
	}
	if blend == nil {
		return s, nil
	}
	r.blends++
	next := skill.ClampProficiency(blend(s.Proficiency))
	if next != s.Proficiency {
		prev := s.Proficiency
		id := a.ID
		r.skills.history = append(r.skills.history, skill.History{
			SkillID: s.ID, UserID: s.UserID, PreviousProficiency: &prev,
			NewProficiency: next, Source: skill.SourceAssessment, AssessmentID: &id,
		})
		s.Proficiency = next
		r.skills.skills[s.ID] = s
	}
	return s, nil
}

func (r *fakeAssessmentRepo) CreateAssessment(_ context.Context, a assessment.Assessment, blend repository.BlendFunc) (assessment.Assessment, skill.Skill, error) {
	a.ID = uuid.New()
	s, err := r.apply(a, blend)
	if err != nil {
		return assessment.Assessment{}, skill.Skill{}, err
	}
	r.items[a.ID] = a
	return a, s, nil
}

func (r *fakeAssessmentRepo) UpdateAssessment(_ context.Context, userID uuid.UUID, id uuid.UUID, mutate repository.AssessmentMutator) (assessment.Assessment, skill.Skill, error) {
	if r.onLock != nil {
		r.onLock(id)
	}
	locked, ok := r.items[id]
	if !ok || locked.UserID != userID {
		return assessment.Assessment{}, skill.Skill{}, repository.ErrAssessmentNotFound
	}
	a := locked
	blend, err := mutate(&a)
	if err != nil {
		return assessment.Assessment{}, skill.Skill{}, err
	}
	s, err := r.apply(a, blend)
	if err != nil {
		return assessment.Assessment{}, skill.Skill{}, err
	}
	r.items[id] = a
	return a, s, nil
}

func (r *fakeAssessmentRepo) DeleteAssessment(_ context.Context, userID uuid.UUID, id uuid.UUID) error {
	a, ok := r.items[id]
	if !ok || a.UserID != userID {
		return repository.ErrAssessmentNotFound
	}
	delete(r.items, id)
	return nil
}

type fakeCache struct {
	mu      sync.Mutex
	data    map[string]any
	deleted []string
	gets    int
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: map[string]any{}}
}

func (c *fakeCache) GetJSON(_ context.Context, key string, out any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	v, ok := c.data[key]
	if !ok {
		return false, nil
	}
	if o, ok := out.(*Overview); ok {
		*o = v.(Overview)
		return true, nil
	}
	return false, errors.New("unsupported type")
}

func (c *fakeCache) SetJSON(_ context.Context, key string, value any, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	return nil
}

func (c *fakeCache) DeleteByPattern(_ context.Context, pattern string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deleted = append(c.deleted, pattern)
	prefix := strings.TrimSuffix(pattern, "*")
	for k := range c.data {
		if strings.HasPrefix(k, prefix) {
			delete(c.data, k)
		}
	}
	return nil
}

type fakePublisher struct {
	events []ws.Event
}

func (p *fakePublisher) Publish(_ uuid.UUID, evt ws.Event) {
	p.events = append(p.events, evt)
}

type fakeUserRepo struct {
	byID map[uuid.UUID]user.User
}

func newFakeUserRepo(users ...user.User) *fakeUserRepo {
	r := &fakeUserRepo{byID: map[uuid.UUID]user.User{}}
	for _, u := range users {
		r.byID[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) CreateUser(_ context.Context, u user.User) (user.User, error) {
	for _, existing := range r.byID {
		if existing.Email == u.Email {
			return user.User{}, user.ErrEmailConflict
		}
	}
	u.ID = uuid.New()
	r.byID[u.ID] = u
	return u, nil
}

func (r *fakeUserRepo) GetUserByID(_ context.Context, id uuid.UUID) (user.User, error) {
	u, ok := r.byID[id]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) GetUserByEmail(_ context.Context, email string) (user.User, error) {
	for _, u := range r.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (r *fakeUserRepo) GetUserByGoogleSub(_ context.Context, sub string) (user.User, error) {
	for _, u := range r.byID {
		if u.GoogleSub != nil && *u.GoogleSub == sub {
			return u, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (r *fakeUserRepo) UpdateUser(_ context.Context, u user.User) (user.User, error) {
	if _, ok := r.byID[u.ID]; !ok {
		return user.User{}, user.ErrNotFound
	}
	r.byID[u.ID] = u
	return u, nil
}
