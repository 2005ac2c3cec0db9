package utils

import (
	"net/url"
	"strconv"
)

// QueryInt reads an integer query parameter, falling back to def when the
// parameter is absent or not a number. Listing endpoints treat bad paging
// input as "use the default", never as an error.
func QueryInt(q url.Values, key string, def int) int {
	n, err := strconv.Atoi(q.Get(key))
	if err != nil {
		return def
	}
	return n
}
