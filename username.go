package instagram

import (
	"fmt"
	"regexp"
	"strings"
)

const maxUsernameLen = 30

var usernameChars = regexp.MustCompile(`^[A-Za-z0-9_][A-Za-z0-9_.]*$`)

// ValidateUsername checks the profile identifier grammar: letters, digits,
// periods and underscores, no leading or trailing period, no consecutive
// periods, at most 30 characters.
func ValidateUsername(username string) error {
	switch {
	case username == "":
		return fmt.Errorf("%w: username is required", ErrValidation)
	case len(username) > maxUsernameLen:
		return fmt.Errorf("%w: username %q longer than %d characters", ErrValidation, username, maxUsernameLen)
	case !usernameChars.MatchString(username):
		return fmt.Errorf("%w: username %q has invalid characters", ErrValidation, username)
	case strings.Contains(username, ".."):
		return fmt.Errorf("%w: username %q has consecutive periods", ErrValidation, username)
	case strings.HasSuffix(username, "."):
		return fmt.Errorf("%w: username %q ends with a period", ErrValidation, username)
	}
	return nil
}
