package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Post is a placeholder record fetched verbatim from the upstream API.
// It is never created or mutated here and lives for a single render.
type Post struct {
	UserId UserId    `json:"userId"`
	Id     PostId    `json:"id"`
	Title  PostTitle `json:"title"`
	Body   PostBody  `json:"body"`
}

// UserId is kept as a string. Upstream sends a number, older fixtures a string.
type UserId string

func (u *UserId) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*u = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*u = UserId(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("userId: %w", err)
	}
	*u = UserId(n.String())
	return nil
}

func (u UserId) MarshalJSON() ([]byte, error) {
	if _, err := strconv.ParseInt(string(u), 10, 64); err == nil {
		return []byte(u), nil
	}
	return json.Marshal(string(u))
}

// CachePolicy selects how an upstream response may be reused.
type CachePolicy int

const (
	// CacheBypass revalidates on every call ("no-store").
	CacheBypass CachePolicy = iota
	// CacheRetain keeps the first successful response for the process lifetime ("force-cache").
	CacheRetain
)

func (p CachePolicy) String() string {
	switch p {
	case CacheBypass:
		return "no-store"
	case CacheRetain:
		return "force-cache"
	default:
		return "unknown"
	}
}
