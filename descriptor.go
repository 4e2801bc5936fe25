package instagram

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strings"
)

// Descriptor names every page locator and keyword the rendered client relies
// on. Markup changes on the site should only require a new descriptor, never
// code changes, so it is plain data and can be loaded from JSON.
//
// The JSON field names are also the property names seen by the evaluation
// scripts.
type Descriptor struct {
	// Profile page.
	ProfileReady   string `json:"profileReady"`
	ProfileImage   string `json:"profileImage"`
	Handle         string `json:"handle"`
	DisplayName    string `json:"displayName"`
	Biography      string `json:"biography"`
	CountItems     string `json:"countItems"`
	ExternalLink   string `json:"externalLink"`
	VerifiedMarker string `json:"verifiedMarker"`
	PrivateText    string `json:"privateText"`

	// Profile grid.
	PostLink    string `json:"postLink"`
	VideoMarker string `json:"videoMarker"`

	// Obstructions.
	ConsentButton   string   `json:"consentButton"`
	ConsentKeywords []string `json:"consentKeywords"`
	LoginDismiss    string   `json:"loginDismiss"`

	// Post detail page.
	DetailReady       string `json:"detailReady"`
	DetailCaption     string `json:"detailCaption"`
	DetailLikes       string `json:"detailLikes"`
	DetailComments    string `json:"detailComments"`
	DetailTime        string `json:"detailTime"`
	DetailVideoMarker string `json:"detailVideoMarker"`
	DetailImages      string `json:"detailImages"`
	DetailLocation    string `json:"detailLocation"`
	ProfilePicMarker  string `json:"profilePicMarker"`

	Counts CountKeywords `json:"counts"`
}

// CountKeywords are the fragments that identify each header count item.
type CountKeywords struct {
	Posts     string `json:"posts"`
	Followers string `json:"followers"`
	Following string `json:"following"`
}

// DefaultDescriptor matches the profile and post markup served to logged-out
// desktop browsers.
func DefaultDescriptor() Descriptor {
	return Descriptor{
		ProfileReady:   "header section",
		ProfileImage:   "header img",
		Handle:         "header section h2",
		DisplayName:    "header section h1",
		Biography:      "header section h1 + div",
		CountItems:     "header section ul li",
		ExternalLink:   `header a[href^="https://l.instagram.com"]`,
		VerifiedMarker: `header section svg[aria-label="Verified"]`,
		PrivateText:    "This account is private",

		PostLink:    `article a[href*="/p/"]`,
		VideoMarker: `span[aria-label="Video"]`,

		ConsentButton:   `button[tabindex="0"][type="button"]`,
		ConsentKeywords: []string{"accept", "allow"},
		LoginDismiss:    `button[type="button"] > svg[aria-label="Close"]`,

		DetailReady:       "article",
		DetailCaption:     `div[data-testid="post-comment-root"] ul > div > li > div > div > div:nth-child(2)`,
		DetailLikes:       "section span button span",
		DetailComments:    `div[data-testid="post-comment-root"] ul > div > li`,
		DetailTime:        "time",
		DetailVideoMarker: `div[role="button"][aria-label*="play"]`,
		DetailImages:      "article img[srcset]",
		DetailLocation:    `a[href*="/explore/locations/"]`,
		ProfilePicMarker:  "profile_pic",

		Counts: CountKeywords{
			Posts:     "post",
			Followers: "follower",
			Following: "following",
		},
	}
}

// LoadDescriptor reads a JSON descriptor from path. Fields missing from the
// file keep their DefaultDescriptor values.
func LoadDescriptor(path string) (Descriptor, error) {
	d := DefaultDescriptor()
	data, err := os.ReadFile(path)
	if err != nil {
		return d, fmt.Errorf("read descriptor: %w", err)
	}
	if err := json.Unmarshal(data, &d); err != nil {
		return d, fmt.Errorf("%w: parse descriptor %s: %v", ErrValidation, path, err)
	}
	return d, nil
}

// consentPattern builds the case-insensitive JS regex used to pick the
// consent button by its text, e.g. /accept|allow/i.
func (d Descriptor) consentPattern() string {
	if len(d.ConsentKeywords) == 0 {
		return ""
	}
	quoted := make([]string, 0, len(d.ConsentKeywords))
	for _, kw := range d.ConsentKeywords {
		if kw = strings.TrimSpace(kw); kw != "" {
			quoted = append(quoted, regexp.QuoteMeta(kw))
		}
	}
	if len(quoted) == 0 {
		return ""
	}
	return "/" + strings.Join(quoted, "|") + "/i"
}
