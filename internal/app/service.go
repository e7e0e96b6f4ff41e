// Package service composes cached platform pulls with the pure scoring
// pipelines. It is the single dependency of the HTTP API and the report CLI.
package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/okian/worthboard/internal/adapters/cache"
	"github.com/okian/worthboard/internal/adapters/circle"
	"github.com/okian/worthboard/internal/domain/filter"
	"github.com/okian/worthboard/internal/domain/model"
	"github.com/okian/worthboard/internal/domain/normalize"
	"github.com/okian/worthboard/internal/domain/scoring"
	"github.com/okian/worthboard/internal/domain/stats"
	"github.com/okian/worthboard/internal/domain/types"
	"github.com/okian/worthboard/pkg/logger"
	"github.com/okian/worthboard/pkg/metrics"
)

// Cache query names. Scored results are never cached, only pulls.
const (
	queryAuth    = "auth"
	queryPosts   = "posts"
	queryEvents  = "events"
	queryMembers = "member_count"
)

// quickTopN is the size of every quick leaderboard.
const quickTopN = 5

// Source is the community platform. *circle.Client satisfies it.
type Source interface {
	Authenticate(ctx context.Context, preToken, email string) (circle.Credential, error)
	Spaces(ctx context.Context, cred circle.Credential) ([]circle.Space, error)
	SpacePosts(ctx context.Context, cred circle.Credential, spaceID int64) ([]normalize.PostRecord, error)
	Events(ctx context.Context, cred circle.Credential) ([]normalize.EventRecord, error)
	MemberCount(ctx context.Context, cred circle.Credential) (int, error)
}

// Service answers leaderboard and statistics requests.
type Service struct {
	source        Source
	cache         *cache.TTLCache
	now           func() time.Time
	excludedSpace string
	postWeights   scoring.PostWeights
	eventWeights  scoring.EventWeights
	logger        logger.Logger
}

// New constructs a Service over src.
func New(src Source, opts ...Option) *Service {
	s := &Service{
		source:        src,
		now:           time.Now,
		excludedSpace: normalize.DefaultExcludedSpace,
		postWeights:   scoring.DefaultPostWeights(),
		eventWeights:  scoring.DefaultEventWeights(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.cache == nil {
		s.cache = cache.New()
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	return s
}

// DefaultPostWeights returns the weights applied when a caller sends none.
func (s *Service) DefaultPostWeights() scoring.PostWeights { return s.postWeights }

// DefaultEventWeights returns the event weights applied when a caller sends none.
func (s *Service) DefaultEventWeights() scoring.EventWeights { return s.eventWeights }

// Authenticate exchanges a pre-token and email for a credential. Successful
// exchanges are cached for the cache TTL.
func (s *Service) Authenticate(ctx context.Context, preToken, email string) (circle.Credential, error) {
	preToken, email = strings.TrimSpace(preToken), strings.TrimSpace(email)
	key := cache.NewKey(preToken+"\x00"+email, queryAuth)
	cred, _, err := cache.GetOrLoad(ctx, s.cache, key, func(ctx context.Context) (circle.Credential, error) {
		return s.source.Authenticate(ctx, preToken, email)
	})
	if err != nil {
		s.logger.Warn(ctx, "authentication failed", logger.Error(err))
		return "", err
	}
	s.logger.Info(ctx, "authenticated")
	return cred, nil
}

// Posts returns every post of every space, newest first.
func (s *Service) Posts(ctx context.Context, cred circle.Credential) ([]model.Post, error) {
	if !cred.Valid() {
		return nil, circle.ErrInvalidCredentials
	}
	posts, hit, err := cache.GetOrLoad(ctx, s.cache, cache.NewKey(string(cred), queryPosts), func(ctx context.Context) ([]model.Post, error) {
		return s.pullPosts(ctx, cred)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Debug(ctx, "posts ready", logger.Int("posts", len(posts)), logger.Bool("cached", hit))
	return posts, nil
}

func (s *Service) pullPosts(ctx context.Context, cred circle.Credential) ([]model.Post, error) {
	start := time.Now()
	spaces, err := s.source.Spaces(ctx, cred)
	if err != nil {
		s.logger.Error(ctx, "listing spaces failed", logger.Error(err))
		return nil, err
	}
	perSpace := make([][]model.Post, 0, len(spaces))
	for _, sp := range spaces {
		records, err := s.source.SpacePosts(ctx, cred, sp.ID)
		if err != nil {
			s.logger.Error(ctx, "pulling space posts failed",
				logger.Int("space_id", int(sp.ID)),
				logger.String("space", sp.Name),
				logger.Error(err),
			)
			return nil, err
		}
		perSpace = append(perSpace, normalize.Posts(records))
	}
	posts := normalize.CombineSpaces(perSpace...)
	metrics.RecordPipeline("pull_posts", len(posts), float64(time.Since(start).Milliseconds()))
	s.logger.Info(ctx, "posts pulled",
		logger.Int("spaces", len(spaces)),
		logger.Int("posts", len(posts)),
		logger.Duration("took", time.Since(start)),
	)
	return posts, nil
}

// Events returns the community's events with excluded spaces removed.
func (s *Service) Events(ctx context.Context, cred circle.Credential) ([]model.Event, error) {
	if !cred.Valid() {
		return nil, circle.ErrInvalidCredentials
	}
	events, _, err := cache.GetOrLoad(ctx, s.cache, cache.NewKey(string(cred), queryEvents), func(ctx context.Context) ([]model.Event, error) {
		start := time.Now()
		records, err := s.source.Events(ctx, cred)
		if err != nil {
			s.logger.Error(ctx, "pulling events failed", logger.Error(err))
			return nil, err
		}
		events := normalize.Events(records, s.excludedSpace)
		metrics.RecordPipeline("pull_events", len(events), float64(time.Since(start).Milliseconds()))
		s.logger.Info(ctx, "events pulled",
			logger.Int("records", len(records)),
			logger.Int("events", len(events)),
		)
		return events, nil
	})
	return events, err
}

// MemberCount returns the community's total member count.
func (s *Service) MemberCount(ctx context.Context, cred circle.Credential) (int, error) {
	if !cred.Valid() {
		return 0, circle.ErrInvalidCredentials
	}
	n, _, err := cache.GetOrLoad(ctx, s.cache, cache.NewKey(string(cred), queryMembers), func(ctx context.Context) (int, error) {
		return s.source.MemberCount(ctx, cred)
	})
	return n, err
}

// PostsTable returns the newest limit posts. A non-positive limit returns
// all of them.
func (s *Service) PostsTable(ctx context.Context, cred circle.Credential, limit int) (types.Table[types.PostRow], error) {
	posts, err := s.Posts(ctx, cred)
	if err != nil {
		return types.Table[types.PostRow]{}, err
	}
	if limit > 0 && limit < len(posts) {
		posts = posts[:limit]
	}
	return types.Table[types.PostRow]{Rows: types.PostTable(posts)}, nil
}

// TopPosts ranks posts for q.
func (s *Service) TopPosts(ctx context.Context, cred circle.Credential, q PostQuery) (types.Table[types.ScoredPostRow], error) {
	var out types.Table[types.ScoredPostRow]
	if err := q.validate(); err != nil {
		return out, err
	}
	posts, err := s.Posts(ctx, cred)
	if err != nil {
		return out, err
	}
	start := time.Now()
	ranked, warnings, err := RankPosts(posts, q, s.now())
	if err != nil {
		return out, err
	}
	s.observe(ctx, "top_posts", len(ranked), start, warnings)
	out.Rows, out.Warnings = types.ScoredPostTable(ranked), warnings
	return out, nil
}

// TopPeople ranks authors for q. When q.Amount is positive each row also
// carries its rounded payment.
func (s *Service) TopPeople(ctx context.Context, cred circle.Credential, q PeopleQuery) (types.Table[types.PersonRow], error) {
	var out types.Table[types.PersonRow]
	if err := q.validate(); err != nil {
		return out, err
	}
	posts, err := s.Posts(ctx, cred)
	if err != nil {
		return out, err
	}
	start := time.Now()
	people, payouts, warnings, err := RankPeople(posts, q, s.now())
	if err != nil {
		return out, err
	}
	s.observe(ctx, "top_people", len(people), start, warnings)
	if payouts != nil {
		out.Rows = types.PayoutTable(payouts)
	} else {
		out.Rows = types.PeopleTable(people)
	}
	out.Warnings = warnings
	return out, nil
}

// TopEvents ranks events for q.
func (s *Service) TopEvents(ctx context.Context, cred circle.Credential, q EventQuery) (types.Table[types.EventRow], error) {
	var out types.Table[types.EventRow]
	if err := q.validate(); err != nil {
		return out, err
	}
	events, err := s.Events(ctx, cred)
	if err != nil {
		return out, err
	}
	start := time.Now()
	ranked, warnings, err := RankEvents(events, q)
	if err != nil {
		return out, err
	}
	s.observe(ctx, "top_events", len(ranked), start, warnings)
	out.Rows, out.Warnings = types.EventTable(ranked), warnings
	return out, nil
}

// MostAttendedEvents returns the limit best-attended events, worth under
// the default event weights.
func (s *Service) MostAttendedEvents(ctx context.Context, cred circle.Credential, limit int) (types.Table[types.EventRow], error) {
	var out types.Table[types.EventRow]
	events, err := s.Events(ctx, cred)
	if err != nil {
		return out, err
	}
	start := time.Now()
	top, warnings, err := MostAttended(events, limit, s.eventWeights)
	if err != nil {
		return out, err
	}
	s.observe(ctx, "most_attended", len(top), start, warnings)
	out.Rows, out.Warnings = types.EventTable(top), warnings
	return out, nil
}

// Stats summarizes posts, events and membership. A failed member count
// leaves MemberCount at zero rather than failing the summary.
func (s *Service) Stats(ctx context.Context, cred circle.Credential) (stats.Summary, error) {
	posts, err := s.Posts(ctx, cred)
	if err != nil {
		return stats.Summary{}, err
	}
	events, err := s.Events(ctx, cred)
	if err != nil {
		return stats.Summary{}, err
	}
	members, err := s.MemberCount(ctx, cred)
	if err != nil {
		if errors.Is(err, circle.ErrInvalidCredentials) {
			return stats.Summary{}, err
		}
		s.logger.Warn(ctx, "member count unavailable", logger.Error(err))
		members = 0
	}
	return stats.Summarize(posts, events, members), nil
}

// quickFilter excludes admins and moderators.
func quickFilter(w filter.WindowKind) filter.Options {
	return filter.Options{
		ExcludeAdmins:     true,
		ExcludeModerators: true,
		Window:            filter.Window{Kind: w},
	}
}

// QuickPosts is the top five posts of the current month.
func (s *Service) QuickPosts(ctx context.Context, cred circle.Credential) (types.Table[types.ScoredPostRow], error) {
	return s.TopPosts(ctx, cred, PostQuery{
		TopN:    quickTopN,
		Filter:  quickFilter(filter.ThisMonth),
		Weights: s.postWeights,
	})
}

// QuickPeople is the top five people of all time.
func (s *Service) QuickPeople(ctx context.Context, cred circle.Credential) (types.Table[types.PersonRow], error) {
	return s.TopPeople(ctx, cred, PeopleQuery{PostQuery: PostQuery{
		TopN:    quickTopN,
		Filter:  quickFilter(filter.AllTime),
		Weights: s.postWeights,
	}})
}

// QuickEvents is the five best-attended events.
func (s *Service) QuickEvents(ctx context.Context, cred circle.Credential) (types.Table[types.EventRow], error) {
	return s.MostAttendedEvents(ctx, cred, quickTopN)
}

func (s *Service) observe(ctx context.Context, kind string, rows int, start time.Time, warnings []model.Warning) {
	metrics.RecordPipeline(kind, rows, float64(time.Since(start).Milliseconds()))
	for _, w := range warnings {
		metrics.RecordWarning(string(w.Code))
	}
	s.logger.Debug(ctx, "leaderboard computed",
		logger.String("kind", kind),
		logger.Int("rows", rows),
		logger.Int("warnings", len(warnings)),
	)
}
