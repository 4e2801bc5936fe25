package instagram

// Structured data embedded as window._sharedData on the profile page.

type sharedData struct {
	EntryData struct {
		ProfilePage []rawProfilePage `json:"ProfilePage"`
	} `json:"entry_data"`
}

type rawProfilePage struct {
	GraphQL struct {
		User *rawUser `json:"user"`
	} `json:"graphql"`
}

type rawUser struct {
	ID              string      `json:"id"`
	Username        string      `json:"username"`
	FullName        string      `json:"full_name"`
	Biography       string      `json:"biography"`
	ProfilePicURL   string      `json:"profile_pic_url"`
	ProfilePicURLHD string      `json:"profile_pic_url_hd"`
	IsPrivate       bool        `json:"is_private"`
	IsVerified      bool        `json:"is_verified"`
	ExternalURL     string      `json:"external_url"`
	EdgeFollowedBy  rawCount    `json:"edge_followed_by"`
	EdgeFollow      rawCount    `json:"edge_follow"`
	Timeline        rawTimeline `json:"edge_owner_to_timeline_media"`
}

type rawCount struct {
	Count int `json:"count"`
}

type rawTimeline struct {
	Count int `json:"count"`
	Edges []struct {
		Node rawMedia `json:"node"`
	} `json:"edges"`
}

type rawMedia struct {
	ID           string `json:"id"`
	Shortcode    string `json:"shortcode"`
	ThumbnailSrc string `json:"thumbnail_src"`
	DisplayURL   string `json:"display_url"`
	IsVideo      bool   `json:"is_video"`
	Caption      struct {
		Edges []struct {
			Node struct {
				Text string `json:"text"`
			} `json:"node"`
		} `json:"edges"`
	} `json:"edge_media_to_caption"`
}

// Values returned by the DOM evaluation scripts in scripts.go.

type rawRenderedProfile struct {
	Username        string   `json:"username"`
	FullName        string   `json:"fullName"`
	Biography       string   `json:"biography"`
	ProfileImageURL string   `json:"profileImageUrl"`
	ExternalURL     string   `json:"externalUrl"`
	Counts          []string `json:"counts"`
	IsVerified      bool     `json:"isVerified"`
	IsPrivate       bool     `json:"isPrivate"`
}

type rawRenderedPost struct {
	Href         string `json:"href"`
	ThumbnailURL string `json:"thumbnailUrl"`
	IsVideo      bool   `json:"isVideo"`
	Alt          string `json:"alt"`
}

type rawPostDetail struct {
	Caption      string  `json:"caption"`
	Likes        string  `json:"likes"`
	CommentItems int     `json:"commentItems"`
	Datetime     string  `json:"datetime"`
	IsVideo      bool    `json:"isVideo"`
	Images       []Image `json:"images"`
	Location     string  `json:"location"`
}
