package github

import (
	"net/url"
	"strconv"
	"strings"
)

// RepoQuery describes which repositories to show.
// In manual mode only Repos is used; otherwise the user's repositories are
// searched, sorted and limited.
type RepoQuery struct {
	Username     string
	Manual       bool
	Repos        []string // manual mode: "owner/name"
	SortBy       string   // "stars" or "updated"
	Limit        int
	ExcludeForks bool
	Exclude      []string // "owner/name" entries to hide
}

// Values renders the search API query string.
func (q RepoQuery) Values() url.Values {
	v := url.Values{}
	var terms []string

	if q.Manual {
		for _, r := range q.Repos {
			terms = append(terms, "repo:"+r)
		}
		terms = append(terms, "fork:true")
		v.Set("q", strings.Join(terms, " "))
		v.Set("type", "Repositories")
		if len(q.Repos) > 0 {
			v.Set("per_page", strconv.Itoa(len(q.Repos)))
		}
		return v
	}

	for _, r := range q.Exclude {
		terms = append(terms, "-repo:"+r)
	}
	terms = append(terms, "fork:"+strconv.FormatBool(!q.ExcludeForks), "user:"+q.Username)
	v.Set("q", strings.Join(terms, " "))
	if q.SortBy != "" {
		v.Set("sort", q.SortBy)
	}
	if q.Limit > 0 {
		v.Set("per_page", strconv.Itoa(q.Limit))
	}
	v.Set("type", "Repositories")
	return v
}
