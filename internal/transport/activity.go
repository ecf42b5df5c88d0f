package transport

import (
	"net/http"
	"strconv"

	"github.com/bugpen/bugpen/internal/domain/activity"
)

// activityOptions parses the optional feed filters from the query
// string. Bad numbers fall back to the service defaults.
func activityOptions(r *http.Request, projectID string) activity.ListOptions {
	opts := activity.ListOptions{ProjectID: projectID}

	q := r.URL.Query()
	if v := q.Get("bug_id"); v != "" {
		opts.BugID = &v
	}
	if v := q.Get("type"); v != "" {
		typ := activity.EntryType(v)
		opts.Type = &typ
	}
	if n, err := strconv.Atoi(q.Get("limit")); err == nil && n > 0 {
		opts.Limit = n
	}
	if n, err := strconv.Atoi(q.Get("offset")); err == nil && n > 0 {
		opts.Offset = n
	}
	return opts
}
