package instagram

import (
	"net/url"
	"strings"
	"time"
)

// normalizeStructured converts the embedded user record into a Profile.
// Posts are kept in feed order; those without a shortcode are dropped.
func normalizeStructured(raw rawUser, baseURL string) Profile {
	pic := raw.ProfilePicURLHD
	if pic == "" {
		pic = raw.ProfilePicURL
	}

	posts := make([]Post, 0, len(raw.Timeline.Edges))
	for _, edge := range raw.Timeline.Edges {
		node := edge.Node
		if node.Shortcode == "" {
			continue
		}
		thumb := node.ThumbnailSrc
		if thumb == "" {
			thumb = node.DisplayURL
		}
		var caption string
		if len(node.Caption.Edges) > 0 {
			caption = node.Caption.Edges[0].Node.Text
		}
		posts = append(posts, Post{
			Shortcode:    node.Shortcode,
			PostURL:      postURL(baseURL, node.Shortcode),
			ThumbnailURL: thumb,
			IsVideo:      node.IsVideo,
			Caption:      caption,
		})
	}

	return Profile{
		Username:        raw.Username,
		FullName:        strings.TrimSpace(raw.FullName),
		Biography:       raw.Biography,
		ProfileImageURL: pic,
		IsPrivate:       raw.IsPrivate,
		IsVerified:      raw.IsVerified,
		ExternalURL:     raw.ExternalURL,
		FollowersCount:  nonNegative(raw.EdgeFollowedBy.Count),
		FollowingCount:  nonNegative(raw.EdgeFollow.Count),
		PostsCount:      nonNegative(raw.Timeline.Count),
		Posts:           posts,
		Source:          SourceStructured,
	}
}

// normalizeRendered converts DOM-extracted values into a Profile. The
// requested username stands in when the page did not expose a handle.
func normalizeRendered(requested string, raw rawRenderedProfile, rawPosts []rawRenderedPost, kw CountKeywords) Profile {
	username := strings.TrimPrefix(strings.TrimSpace(raw.Username), "@")
	if username == "" {
		username = requested
	}

	p := Profile{
		Username:        username,
		FullName:        strings.TrimSpace(raw.FullName),
		Biography:       strings.TrimSpace(raw.Biography),
		ProfileImageURL: raw.ProfileImageURL,
		IsPrivate:       raw.IsPrivate,
		IsVerified:      raw.IsVerified,
		ExternalURL:     strings.TrimSpace(raw.ExternalURL),
		Posts:           make([]Post, 0, len(rawPosts)),
		Source:          SourceRendered,
	}
	p.PostsCount, p.FollowersCount, p.FollowingCount = parseCountItems(raw.Counts, kw)

	for _, rp := range rawPosts {
		code := shortcodeFromURL(rp.Href)
		if code == "" {
			continue
		}
		p.Posts = append(p.Posts, Post{
			Shortcode:    code,
			PostURL:      rp.Href,
			ThumbnailURL: rp.ThumbnailURL,
			IsVideo:      rp.IsVideo,
			Caption:      rp.Alt,
		})
	}
	return p
}

// parseCountItems matches each list item ("1,234 posts", "5.6K followers")
// against the keyword fragments and parses its leading number.
func parseCountItems(items []string, kw CountKeywords) (posts, followers, following int) {
	for _, item := range items {
		text := strings.ToLower(strings.TrimSpace(item))
		if text == "" {
			continue
		}
		n := leadingCount(text)
		// "following" is checked before "follower" so the two cannot collide
		// when keyword fragments overlap.
		switch {
		case kw.Following != "" && strings.Contains(text, kw.Following):
			following = n
		case kw.Followers != "" && strings.Contains(text, kw.Followers):
			followers = n
		case kw.Posts != "" && strings.Contains(text, kw.Posts):
			posts = n
		}
	}
	return posts, followers, following
}

// leadingCount parses the first word of labelled text such as "5.6K likes".
func leadingCount(text string) int {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return 0
	}
	return ParseCount(fields[0])
}

// applyDetail merges a post page's values into its summary.
func applyDetail(p Post, raw rawPostDetail, profilePicMarker string) Post {
	if c := strings.TrimSpace(raw.Caption); c != "" {
		p.Caption = c
	}
	p.IsVideo = p.IsVideo || raw.IsVideo

	d := &PostDetail{
		LikesCount:    leadingCount(raw.Likes),
		CommentsCount: nonNegative(raw.CommentItems - 1), // first item is the caption
		Location:      strings.TrimSpace(raw.Location),
		Images:        make([]Image, 0, len(raw.Images)),
	}
	if raw.Datetime != "" {
		if t, err := time.Parse(time.RFC3339, raw.Datetime); err == nil {
			d.Timestamp = t.Unix()
		}
	}
	for _, img := range raw.Images {
		if img.URL == "" || (profilePicMarker != "" && strings.Contains(img.URL, profilePicMarker)) {
			continue
		}
		d.Images = append(d.Images, img)
	}
	p.PostDetail = d
	return p
}

// shortcodeFromURL returns the path segment after /p/ (or /reel/, /tv/).
func shortcodeFromURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	segs := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i := 0; i+1 < len(segs); i++ {
		switch segs[i] {
		case "p", "reel", "tv":
			return segs[i+1]
		}
	}
	return ""
}

func postURL(baseURL, shortcode string) string {
	return strings.TrimRight(baseURL, "/") + "/p/" + shortcode + "/"
}

func truncatePosts(posts []Post, max int) []Post {
	if max >= 0 && len(posts) > max {
		return posts[:max]
	}
	return posts
}
