package instagram

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// sharedDataMarker opens the inline script carrying the profile's
// server-rendered state.
const sharedDataMarker = "window._sharedData = "

// extractSharedData finds the window._sharedData script in the profile page
// and parses its JSON payload.
func extractSharedData(htmlBody []byte) (sharedData, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(htmlBody))
	if err != nil {
		return sharedData{}, fmt.Errorf("%w: parse html: %v", ErrExtraction, err)
	}

	var payload string
	doc.Find("script").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		text := strings.TrimSpace(sel.Text())
		if !strings.HasPrefix(text, sharedDataMarker) {
			return true
		}
		payload = strings.TrimSuffix(strings.TrimSpace(strings.TrimPrefix(text, sharedDataMarker)), ";")
		return false
	})
	if payload == "" {
		return sharedData{}, fmt.Errorf("%w: shared data script not found", ErrExtraction)
	}

	var data sharedData
	if err := json.Unmarshal([]byte(payload), &data); err != nil {
		return sharedData{}, fmt.Errorf("%w: unmarshal shared data: %v", ErrExtraction, err)
	}
	return data, nil
}

// extractUserFromSharedData pulls the profile's user record from parsed
// shared data.
func extractUserFromSharedData(data sharedData) (rawUser, error) {
	pages := data.EntryData.ProfilePage
	if len(pages) == 0 || pages[0].GraphQL.User == nil || pages[0].GraphQL.User.Username == "" {
		return rawUser{}, fmt.Errorf("%w: user data missing in shared data", ErrExtraction)
	}
	return *pages[0].GraphQL.User, nil
}
