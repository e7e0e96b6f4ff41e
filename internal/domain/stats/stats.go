// Package stats computes descriptive summaries over normalized posts.
// Nothing here feeds back into scoring.
package stats

import (
	"sort"
	"time"

	"github.com/okian/worthboard/internal/domain/model"
)

// Count is a label with the number of rows carrying it.
type Count struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// KindShare is the count and percentage of posts of one kind.
type KindShare struct {
	Kind       string  `json:"kind"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// MonthlyAverage holds per-day averages for one calendar month, over the
// days that had at least one post.
type MonthlyAverage struct {
	Month          string  `json:"month"` // YYYY-MM
	ActiveDays     int     `json:"active_days"`
	Posts          int     `json:"posts"`
	PostsPerDay    float64 `json:"posts_per_day"`
	LikesPerDay    float64 `json:"likes_per_day"`
	CommentsPerDay float64 `json:"comments_per_day"`
}

// Summary is the community overview.
type Summary struct {
	TotalPosts      int              `json:"total_posts"`
	TotalEvents     int              `json:"total_events"`
	TopPoster       string           `json:"top_poster"`
	TopPosterPosts  int              `json:"top_poster_posts"`
	ActivePosters   int              `json:"active_posters"`
	MemberCount     int              `json:"member_count"`
	BySpace         []Count          `json:"by_space"`
	ByKind          []KindShare      `json:"by_kind"`
	MonthlyAverages []MonthlyAverage `json:"monthly_averages"`
}

// countBy groups rows by key, keeping first-seen order, then orders the
// groups by count descending. Equal counts keep first-seen order.
func countBy(posts []model.Post, key func(model.Post) string) []Count {
	index := make(map[string]int)
	var out []Count
	for _, p := range posts {
		k := key(p)
		i, ok := index[k]
		if !ok {
			i = len(out)
			index[k] = i
			out = append(out, Count{Label: k})
		}
		out[i].Count++
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}

// CountByAuthor counts posts per author name, most prolific first.
func CountByAuthor(posts []model.Post) []Count {
	return countBy(posts, func(p model.Post) string { return p.Author })
}

// CountBySpace counts posts per space name, largest first.
func CountBySpace(posts []model.Post) []Count {
	return countBy(posts, func(p model.Post) string { return p.Space })
}

// TopPoster returns the author with the most posts. Ties go to the author
// encountered first. ok is false for an empty input.
func TopPoster(posts []model.Post) (author string, count int, ok bool) {
	counts := CountByAuthor(posts)
	if len(counts) == 0 {
		return "", 0, false
	}
	return counts[0].Label, counts[0].Count, true
}

// KindBreakdown returns the count and share of each raw post type.
func KindBreakdown(posts []model.Post) []KindShare {
	counts := countBy(posts, func(p model.Post) string { return p.RawType })
	out := make([]KindShare, len(counts))
	for i, c := range counts {
		out[i] = KindShare{
			Kind:       c.Label,
			Count:      c.Count,
			Percentage: float64(c.Count) / float64(len(posts)) * 100,
		}
	}
	return out
}

// MonthlyDailyAverages returns, for each calendar month with posts, the
// monthly totals divided by the number of distinct active days. Posts with
// unknown dates are skipped. Months are returned oldest first.
func MonthlyDailyAverages(posts []model.Post) []MonthlyAverage {
	type acc struct {
		days                   map[int]struct{}
		posts, likes, comments int
	}
	months := make(map[string]*acc)
	for _, p := range posts {
		if !p.HasDate() {
			continue
		}
		key := monthOf(p.CreatedAt)
		a, ok := months[key]
		if !ok {
			a = &acc{days: make(map[int]struct{})}
			months[key] = a
		}
		a.days[p.CreatedAt.Day()] = struct{}{}
		a.posts++
		a.likes += p.Likes
		a.comments += p.Comments
	}

	keys := make([]string, 0, len(months))
	for k := range months {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]MonthlyAverage, 0, len(keys))
	for _, k := range keys {
		a := months[k]
		days := float64(len(a.days))
		out = append(out, MonthlyAverage{
			Month:          k,
			ActiveDays:     len(a.days),
			Posts:          a.posts,
			PostsPerDay:    float64(a.posts) / days,
			LikesPerDay:    float64(a.likes) / days,
			CommentsPerDay: float64(a.comments) / days,
		})
	}
	return out
}

// Summarize builds the community overview. memberCount comes from the
// platform's member listing and is passed through unchanged.
func Summarize(posts []model.Post, events []model.Event, memberCount int) Summary {
	s := Summary{
		TotalPosts:      len(posts),
		TotalEvents:     len(events),
		ActivePosters:   len(CountByAuthor(posts)),
		MemberCount:     memberCount,
		BySpace:         CountBySpace(posts),
		ByKind:          KindBreakdown(posts),
		MonthlyAverages: MonthlyDailyAverages(posts),
	}
	if author, n, ok := TopPoster(posts); ok {
		s.TopPoster, s.TopPosterPosts = author, n
	}
	return s
}

func monthOf(t time.Time) string { return t.Format("2006-01") }
