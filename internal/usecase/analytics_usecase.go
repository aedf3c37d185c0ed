package usecase

import (
	"context"
	"log"
	"math"
	"time"

	"skill-eval/internal/domain/skill"
	"skill-eval/internal/repository"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultProgressDays = 30
	MaxProgressDays     = 365
	DefaultTopLimit     = 5
	MaxTopLimit         = 50
	recentHistoryLimit  = 10
)

type CategoryBreakdown struct {
	CategoryID         uuid.UUID `json:"category_id"`
	Name               string    `json:"name"`
	Color              string    `json:"color,omitempty"`
	SkillCount         int       `json:"skill_count"`
	AverageProficiency float64   `json:"average_proficiency"`
}

type HistoryItem struct {
	ID                  uuid.UUID  `json:"id"`
	SkillID             uuid.UUID  `json:"skill_id"`
	SkillName           string     `json:"skill_name"`
	PreviousProficiency *int       `json:"previous_proficiency"`
	NewProficiency      int        `json:"new_proficiency"`
	Source              string     `json:"source"`
	AssessmentID        *uuid.UUID `json:"assessment_id,omitempty"`
	Note                string     `json:"note,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
}

type Overview struct {
	TotalSkills        int                 `json:"total_skills"`
	AverageProficiency float64             `json:"average_proficiency"`
	SkillsWithTarget   int                 `json:"skills_with_target"`
	SkillsAtTarget     int                 `json:"skills_at_target"`
	TotalAssessments   int                 `json:"total_assessments"`
	Categories         []CategoryBreakdown `json:"categories"`
	AssessmentsByType  map[string]int      `json:"assessments_by_type"`
	RecentHistory      []HistoryItem       `json:"recent_history"`
	GeneratedAt        time.Time           `json:"generated_at"`
}

type ProgressDay struct {
	Date                  string  `json:"date"`
	Changes               int     `json:"changes"`
	NetChange             int     `json:"net_change"`
	AverageNewProficiency float64 `json:"average_new_proficiency"`
}

type Progress struct {
	Days   int           `json:"days"`
	Series []ProgressDay `json:"series"`
}

type RankedSkill struct {
	SkillID      uuid.UUID `json:"skill_id"`
	Name         string    `json:"name"`
	CategoryName string    `json:"category_name,omitempty"`
	Proficiency  int       `json:"proficiency"`
	Delta        int       `json:"delta,omitempty"`
}

type TopSkills struct {
	Top          []RankedSkill `json:"top"`
	MostImproved []RankedSkill `json:"most_improved"`
	WindowDays   int           `json:"window_days"`
}

type AnalyticsUsecase interface {
	Overview(ctx context.Context, userID uuid.UUID) (Overview, error)
	Progress(ctx context.Context, userID uuid.UUID, days int) (Progress, error)
	TopSkills(ctx context.Context, userID uuid.UUID, limit int) (TopSkills, error)
}

type Analytics struct {
	repo   repository.AnalyticsRepository
	cache  Cache
	ttl    time.Duration
	logger *log.Logger
	now    func() time.Time
}

func NewAnalyticsUsecase(repo repository.AnalyticsRepository, cache Cache, ttl time.Duration, logger *log.Logger) *Analytics {
	if logger == nil {
		logger = log.Default()
	}
	return &Analytics{repo: repo, cache: cache, ttl: ttl, logger: logger, now: time.Now}
}

// Overview serves from the per-user cache when possible. The aggregates run
// concurrently and any failure fails the whole overview.
func (u *Analytics) Overview(ctx context.Context, userID uuid.UUID) (Overview, error) {
	key := analyticsKey(userID, "overview")
	if u.cache != nil {
		var cached Overview
		if found, err := u.cache.GetJSON(ctx, key, &cached); err == nil && found {
			return cached, nil
		}
	}

	var (
		summary repository.SkillSummary
		cats    []repository.CategoryStat
		byType  map[string]int
		recent  []skill.History
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		summary, err = u.repo.Summary(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		cats, err = u.repo.CategoryBreakdown(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		byType, err = u.repo.AssessmentCountsByType(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		recent, err = u.repo.RecentHistory(gctx, userID, recentHistoryLimit)
		return err
	})
	if err := g.Wait(); err != nil {
		return Overview{}, internal(err)
	}

	out := Overview{
		TotalSkills:        summary.TotalSkills,
		AverageProficiency: round1(summary.AverageProficiency),
		SkillsWithTarget:   summary.WithTarget,
		SkillsAtTarget:     summary.AtTarget,
		TotalAssessments:   summary.TotalAssessments,
		Categories:         make([]CategoryBreakdown, 0, len(cats)),
		AssessmentsByType:  byType,
		RecentHistory:      make([]HistoryItem, 0, len(recent)),
		GeneratedAt:        u.now().UTC(),
	}
	for _, c := range cats {
		out.Categories = append(out.Categories, CategoryBreakdown{
			CategoryID:         c.CategoryID,
			Name:               c.Name,
			Color:              c.Color,
			SkillCount:         c.SkillCount,
			AverageProficiency: round1(c.AverageProficiency),
		})
	}
	for _, h := range recent {
		out.RecentHistory = append(out.RecentHistory, NewHistoryItem(h))
	}

	if u.cache != nil {
		if err := u.cache.SetJSON(ctx, key, out, u.ttl); err != nil {
			u.logger.Printf("Analytics cache write failed | user_id=%s err=%v", userID, err)
		}
	}
	return out, nil
}

// Progress returns one entry per UTC day of the window, oldest first, with
// zero entries for days without changes.
func (u *Analytics) Progress(ctx context.Context, userID uuid.UUID, days int) (Progress, error) {
	if days == 0 {
		days = DefaultProgressDays
	}
	if days < 1 || days > MaxProgressDays {
		return Progress{}, ErrInvalidInput
	}

	today := truncateDay(u.now())
	since := today.AddDate(0, 0, -(days - 1))

	points, err := u.repo.ProgressSeries(ctx, userID, since)
	if err != nil {
		return Progress{}, internal(err)
	}
	byDay := make(map[string]repository.ProgressPoint, len(points))
	for _, p := range points {
		byDay[p.Date.Format(time.DateOnly)] = p
	}

	series := make([]ProgressDay, 0, days)
	for d := since; !d.After(today); d = d.AddDate(0, 0, 1) {
		k := d.Format(time.DateOnly)
		p := byDay[k]
		series = append(series, ProgressDay{
			Date:                  k,
			Changes:               p.Changes,
			NetChange:             p.NetChange,
			AverageNewProficiency: round1(p.AverageNewProficiency),
		})
	}
	return Progress{Days: days, Series: series}, nil
}

func (u *Analytics) TopSkills(ctx context.Context, userID uuid.UUID, limit int) (TopSkills, error) {
	if limit == 0 {
		limit = DefaultTopLimit
	}
	if limit < 1 || limit > MaxTopLimit {
		return TopSkills{}, ErrInvalidInput
	}
	since := truncateDay(u.now()).AddDate(0, 0, -(DefaultProgressDays - 1))

	var (
		top      []skill.Skill
		improved []repository.SkillImprovement
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		top, err = u.repo.TopSkills(gctx, userID, limit)
		return err
	})
	g.Go(func() error {
		var err error
		improved, err = u.repo.MostImproved(gctx, userID, since, limit)
		return err
	})
	if err := g.Wait(); err != nil {
		return TopSkills{}, internal(err)
	}

	out := TopSkills{
		Top:          make([]RankedSkill, 0, len(top)),
		MostImproved: make([]RankedSkill, 0, len(improved)),
		WindowDays:   DefaultProgressDays,
	}
	for _, s := range top {
		out.Top = append(out.Top, RankedSkill{SkillID: s.ID, Name: s.Name, CategoryName: s.CategoryName, Proficiency: s.Proficiency})
	}
	for _, s := range improved {
		out.MostImproved = append(out.MostImproved, RankedSkill{SkillID: s.SkillID, Name: s.Name, Proficiency: s.Proficiency, Delta: s.Delta})
	}
	return out, nil
}

func NewHistoryItem(h skill.History) HistoryItem {
	return HistoryItem{
		ID:                  h.ID,
		SkillID:             h.SkillID,
		SkillName:           h.SkillName,
		PreviousProficiency: h.PreviousProficiency,
		NewProficiency:      h.NewProficiency,
		Source:              string(h.Source),
		AssessmentID:        h.AssessmentID,
		Note:                h.Note,
		CreatedAt:           h.CreatedAt,
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func truncateDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
