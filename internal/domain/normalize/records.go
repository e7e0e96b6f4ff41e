package normalize

import (
	"encoding/json"
	"sort"
	"strings"
)

// Author is the nested author object shared by posts and events.
type Author struct {
	ID    *int64 `json:"id"`
	Name  string `json:"name"`
	Roles Roles  `json:"roles"`
}

// SpaceRef is the nested space object on a record.
type SpaceRef struct {
	ID   *int64 `json:"id"`
	Name string `json:"name"`
}

// PostRecord is a raw post as returned by the spaces/{id}/posts endpoint.
type PostRecord struct {
	ID             *int64   `json:"id"`
	PostType       string   `json:"post_type"`
	DisplayTitle   string   `json:"display_title"`
	CommentCount   int      `json:"comment_count"`
	UserLikesCount int      `json:"user_likes_count"`
	CreatedAt      string   `json:"created_at"`
	Author         Author   `json:"author"`
	Space          SpaceRef `json:"space"`
}

// EventRecord is a raw event as returned by the community_events endpoint.
type EventRecord struct {
	ID             *int64   `json:"id"`
	Name           string   `json:"name"`
	CommentCount   int      `json:"comment_count"`
	UserLikesCount int      `json:"user_likes_count"`
	CreatedAt      string   `json:"created_at"`
	Author         Author   `json:"author"`
	Space          SpaceRef `json:"space"`
	EventAttendees struct {
		Count int `json:"count"`
	} `json:"event_attendees"`
	EventSettingAttributes struct {
		DurationInSeconds *float64 `json:"duration_in_seconds"`
	} `json:"event_setting_attributes"`
}

// Roles is the author's role set. The API has shipped it as a list of
// strings, a single string and an object of role flags; all decode here.
type Roles []string

// UnmarshalJSON accepts a list, a string, an object or null.
func (r *Roles) UnmarshalJSON(b []byte) error {
	var list []string
	if err := json.Unmarshal(b, &list); err == nil {
		*r = list
		return nil
	}
	var single string
	if err := json.Unmarshal(b, &single); err == nil {
		if single == "" {
			*r = nil
		} else {
			*r = Roles{single}
		}
		return nil
	}
	var flags map[string]any
	if err := json.Unmarshal(b, &flags); err != nil {
		return err
	}
	out := make(Roles, 0, len(flags))
	for name, v := range flags {
		if on, ok := v.(bool); ok && !on {
			continue
		}
		if v == nil {
			continue
		}
		out = append(out, name)
	}
	sort.Strings(out)
	*r = out
	return nil
}

func cleanRoles(r Roles) []string {
	out := make([]string, 0, len(r))
	for _, role := range r {
		if role = strings.TrimSpace(role); role != "" {
			out = append(out, role)
		}
	}
	return out
}
