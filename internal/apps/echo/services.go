package echo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/ahmetcoskunkizilkaya/echo-journal/internal/analytics"
	"github.com/ahmetcoskunkizilkaya/echo-journal/internal/journal"
)

var (
	ErrInvalidWindow = errors.New("window must be between 1 and 365 days")
	ErrInvalidMonth  = errors.New("month must be between 1 and 12")
)

const maxWindowDays = 365

// SessionStore keeps one capture controller per user. Controllers are never shared
// between users.
type SessionStore struct {
	repo journal.Repository
	now  func() time.Time

	mu       sync.Mutex
	sessions map[uuid.UUID]*session
}

type session struct {
	ctrl     *journal.Controller
	lastSeen time.Time
}

func NewSessionStore(repo journal.Repository, now func() time.Time) *SessionStore {
	if now == nil {
		now = time.Now
	}
	return &SessionStore{
		repo:     repo,
		now:      now,
		sessions: make(map[uuid.UUID]*session),
	}
}

// Enter returns the user's controller with a fresh draft, creating it if needed.
func (s *SessionStore) Enter(userID uuid.UUID) *journal.Controller {
	ctrl := s.Get(userID)
	ctrl.Reset()
	return ctrl
}

// Get returns the user's controller, creating one on first use.
func (s *SessionStore) Get(userID uuid.UUID) *journal.Controller {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[userID]
	if !ok {
		sess = &session{ctrl: journal.NewController(userID, s.repo)}
		s.sessions[userID] = sess
	}
	sess.lastSeen = s.now()
	return sess.ctrl
}

// Leave drops the user's controller and its draft.
func (s *SessionStore) Leave(userID uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.sessions[userID]
	delete(s.sessions, userID)
	return ok
}

func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// SweepIdle drops sessions not used within idle and returns how many were removed.
func (s *SessionStore) SweepIdle(idle time.Duration) int {
	cutoff := s.now().Add(-idle)

	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, sess := range s.sessions {
		if sess.lastSeen.Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// InsightsService reads an owner's finalized entries and runs the analytics over
// them.
type InsightsService struct {
	repo       journal.Repository
	windowDays int
	loc        *time.Location
	now        func() time.Time
}

func NewInsightsService(repo journal.Repository, windowDays int, loc *time.Location, now func() time.Time) *InsightsService {
	if loc == nil {
		loc = time.UTC
	}
	if now == nil {
		now = time.Now
	}
	return &InsightsService{repo: repo, windowDays: windowDays, loc: loc, now: now}
}

func (s *InsightsService) today() time.Time {
	return s.now().In(s.loc)
}

// Summary computes the insights view. A zero windowDays uses the configured window.
func (s *InsightsService) Summary(ctx context.Context, userID uuid.UUID, windowDays int) (analytics.Summary, error) {
	if windowDays == 0 {
		windowDays = s.windowDays
	}
	if windowDays < 1 || windowDays > maxWindowDays {
		return analytics.Summary{}, ErrInvalidWindow
	}

	entries, err := s.repo.QueryByOwner(ctx, userID, false)
	if err != nil {
		return analytics.Summary{}, &journal.PersistenceError{Op: "query entries", Err: err}
	}
	return analytics.Summarize(entries, s.today(), windowDays), nil
}

// Calendar builds the mood calendar. A zero month or year means the current one.
func (s *InsightsService) Calendar(ctx context.Context, userID uuid.UUID, month, year int) (CalendarResponse, error) {
	today := s.today()
	if month == 0 {
		month = int(today.Month())
	}
	if year == 0 {
		year = today.Year()
	}
	if month < 1 || month > 12 {
		return CalendarResponse{}, ErrInvalidMonth
	}

	entries, err := s.repo.QueryByOwner(ctx, userID, false)
	if err != nil {
		return CalendarResponse{}, &journal.PersistenceError{Op: "query entries", Err: err}
	}

	grid := analytics.MoodCalendar(entries, time.Month(month), year, s.loc)
	return CalendarResponse{Month: month, Year: year, Cells: grid[:]}, nil
}

// ListEntries pages through an owner's entries, newest first.
func (s *InsightsService) ListEntries(ctx context.Context, userID uuid.UUID, drafts bool, limit, offset int) (EntryListResponse, error) {
	entries, err := s.repo.QueryByOwner(ctx, userID, drafts)
	if err != nil {
		return EntryListResponse{}, &journal.PersistenceError{Op: "query entries", Err: err}
	}

	total := len(entries)
	start := min(offset, total)
	end := min(start+limit, total)
	page := entries[start:end]
	if page == nil {
		page = []journal.Entry{}
	}
	return EntryListResponse{Entries: page, Total: total, Limit: limit, Offset: offset}, nil
}

// AttachInsights recomputes the annotation for one of the owner's finalized entries
// and stores it on the entry.
func (s *InsightsService) AttachInsights(ctx context.Context, userID, entryID uuid.UUID) (*EntryInsights, error) {
	entries, err := s.repo.QueryByOwner(ctx, userID, false)
	if err != nil {
		return nil, &journal.PersistenceError{Op: "query entries", Err: err}
	}

	i := slices.IndexFunc(entries, func(e journal.Entry) bool { return e.ID == entryID })
	if i < 0 {
		return nil, journal.ErrEntryNotFound
	}

	insights := s.buildInsights(entries, entries[i])
	raw, err := json.Marshal(insights)
	if err != nil {
		return nil, fmt.Errorf("encode insights: %w", err)
	}
	if err := s.repo.PatchInsights(ctx, entryID, datatypes.JSON(raw)); err != nil {
		if errors.Is(err, journal.ErrEntryNotFound) {
			return nil, err
		}
		return nil, &journal.PersistenceError{Op: "patch insights", Err: err}
	}
	return insights, nil
}

func (s *InsightsService) buildInsights(all []journal.Entry, entry journal.Entry) *EntryInsights {
	now := s.today()
	all = analytics.InLocation(all, s.loc)
	period := analytics.InWindow(all, s.windowDays, now)

	var taxonomy journal.Taxonomy
	var categories []journal.Category
	for _, label := range entry.Emotions {
		if c, ok := taxonomy.CategoryOf(label); ok && !slices.Contains(categories, c) {
			categories = append(categories, c)
		}
	}
	if categories == nil {
		categories = []journal.Category{}
	}

	return &EntryInsights{
		Sentiment:   entry.Sentiment,
		Categories:  categories,
		WordCount:   entry.WordCount(),
		Streak:      analytics.Streak(all, now),
		AverageMood: analytics.AverageMood(period),
		Consistency: analytics.ConsistencyScore(period, s.windowDays, now),
		Messages:    analytics.GenerateInsights(period, analytics.DayOfWeekPatterns(period, s.loc)),
		GeneratedAt: now,
	}
}
