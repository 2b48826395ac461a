package store

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Key layout. Usernames are query-escaped so a username containing ':'
// cannot reach into another user's favorites partition. Record IDs are
// zero-padded so lexical key order matches numeric order.
const (
	userPrefix       = "user:"
	colorPrefix      = "color:"
	favoritePrefix   = "fav:"
	colorSequenceKey = "seq:colors"
)

func userKey(username string) string {
	return userPrefix + url.QueryEscape(username)
}

func colorKey(id int64) string {
	return colorPrefix + formatID(id)
}

func favoritePartition(username string) string {
	return favoritePrefix + url.QueryEscape(username) + ":"
}

func favoriteKey(username string, id int64) string {
	return favoritePartition(username) + formatID(id)
}

func formatID(id int64) string {
	return fmt.Sprintf("%020d", id)
}

func parseIDSuffix(key, prefix string) (int64, bool) {
	raw, ok := strings.CutPrefix(key, prefix)
	if !ok || raw == "" {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}
