// Package model contains domain models passed between layers.
package model

import (
	"strings"
	"time"
)

// PostKind is the closed set of content types that carry a kind weight.
type PostKind int

// Known post kinds. KindUnknown covers every type the platform may add later.
const (
	KindUnknown PostKind = iota
	KindBasic
	KindImage
)

// ParsePostKind maps the platform's post_type string to a PostKind.
func ParsePostKind(s string) PostKind {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "basic":
		return KindBasic
	case "image":
		return KindImage
	default:
		return KindUnknown
	}
}

func (k PostKind) String() string {
	switch k {
	case KindBasic:
		return "basic"
	case KindImage:
		return "image"
	default:
		return "unknown"
	}
}

// Post is one normalized content item.
type Post struct {
	Title       string
	Author      string
	AuthorRoles []string
	AuthorID    *int64
	PostID      *int64
	Kind        PostKind
	RawType     string    // post_type as received, kept for display
	CreatedAt   time.Time // UTC; zero when the source timestamp was unparseable
	Likes       int
	Comments    int
	Space       string
}

// HasDate reports whether CreatedAt holds a parsed timestamp.
func (p Post) HasDate() bool { return !p.CreatedAt.IsZero() }

// AuthorName, Roles and When let filters treat posts and events uniformly.
func (p Post) AuthorName() string { return p.Author }
func (p Post) Roles() []string     { return p.AuthorRoles }
func (p Post) When() time.Time     { return p.CreatedAt }
