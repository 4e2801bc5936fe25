package instagram

import "time"

// Source tags which acquisition strategy produced a Profile.
type Source string

const (
	SourceStructured Source = "structured"
	SourceRendered   Source = "rendered"
	SourceCombined   Source = "combined"
)

// Profile is the canonical record for one acquisition call.
type Profile struct {
	Username        string `json:"username"`
	FullName        string `json:"fullName,omitempty"`
	Biography       string `json:"biography"`
	ProfileImageURL string `json:"profileImageUrl,omitempty"`
	IsPrivate       bool   `json:"isPrivate"`
	IsVerified      bool   `json:"isVerified"`
	ExternalURL     string `json:"externalUrl,omitempty"`
	FollowersCount  int    `json:"followersCount"`
	FollowingCount  int    `json:"followingCount"`
	PostsCount      int    `json:"postsCount"`
	Posts           []Post `json:"posts"`
	Source          Source `json:"source"`
}

// Post is a post summary as shown on the profile grid. Detail is set only
// when per-post enrichment succeeded for this post.
type Post struct {
	Shortcode    string `json:"shortcode"`
	PostURL      string `json:"postUrl"`
	ThumbnailURL string `json:"thumbnailUrl,omitempty"`
	IsVideo      bool   `json:"isVideo"`
	Caption      string `json:"caption"`

	*PostDetail
}

// PostDetail holds the fields read from a post's own page.
type PostDetail struct {
	LikesCount    int     `json:"likesCount"`
	CommentsCount int     `json:"commentsCount"`
	Timestamp     int64   `json:"timestamp,omitempty"`
	Images        []Image `json:"images"`
	Location      string  `json:"location,omitempty"`
}

type Image struct {
	URL     string `json:"url"`
	AltText string `json:"altText"`
}

// Strategy selects how Acquire obtains a profile.
type Strategy string

const (
	StrategyAPI     Strategy = "api"
	StrategyBrowser Strategy = "browser"
	StrategyAuto    Strategy = "auto"
)

// Result is what Acquire hands back. Exactly one of Data and Error is set.
type Result struct {
	Success   bool         `json:"success"`
	Data      *Profile     `json:"data,omitempty"`
	Method    Source       `json:"method,omitempty"`
	Timestamp time.Time    `json:"timestamp,omitzero"`
	Error     *ResultError `json:"error,omitempty"`
}

type ResultError struct {
	Message   string    `json:"message"`
	Context   string    `json:"context"`
	Timestamp time.Time `json:"timestamp"`
}
