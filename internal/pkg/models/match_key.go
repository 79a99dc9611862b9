package models

import (
	"crypto/md5"
	"encoding/hex"
)

// MatchKey builds the dedup identity of a fixture.
//
// Only the team pair is hashed, so score, minute and corner changes between
// polls map to the same key. The format is md5(home + "_" + away) in lowercase
// hex and is shared with the history maintenance tool; do not change it without
// resetting the persisted history.
func MatchKey(homeTeam, awayTeam string) string {
	sum := md5.Sum([]byte(homeTeam + "_" + awayTeam))
	return hex.EncodeToString(sum[:])
}
