package youtube

import (
	"errors"
	"regexp"
)

// ErrNoURLMatch is returned when a string matches none of the known channel
// URL shapes. Callers surface this as a client input error.
var ErrNoURLMatch = errors.New("unsupported YouTube channel URL")

// channelURLPatterns are tried in order; the first capturing match wins.
var channelURLPatterns = []*regexp.Regexp{
	regexp.MustCompile(`youtube\.com/channel/([a-zA-Z0-9_-]+)`),
	regexp.MustCompile(`youtube\.com/c/([a-zA-Z0-9_-]+)`),
	regexp.MustCompile(`youtube\.com/user/([a-zA-Z0-9_-]+)`),
	regexp.MustCompile(`youtube\.com/@([a-zA-Z0-9_-]+)`),
	regexp.MustCompile(`youtu\.be/([a-zA-Z0-9_-]+)`),
}

// ExtractChannelIdentifier pulls a channel ID, custom name, username or handle
// out of the supported YouTube URL shapes. The identifier is opaque to the
// caller; the channel locator decides how to resolve it.
func ExtractChannelIdentifier(url string) (string, error) {
	for _, pattern := range channelURLPatterns {
		if m := pattern.FindStringSubmatch(url); m != nil {
			return m[1], nil
		}
	}
	return "", ErrNoURLMatch
}
