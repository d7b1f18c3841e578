package youtube

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractChannelIdentifier(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{
			name: "canonical channel ID URL",
			url:  "https://www.youtube.com/channel/UC_x5XG1OV2P6uZZ5FSM9Ttw",
			want: "UC_x5XG1OV2P6uZZ5FSM9Ttw",
		},
		{
			name: "custom URL",
			url:  "https://www.youtube.com/c/GoogleDevelopers",
			want: "GoogleDevelopers",
		},
		{
			name: "legacy user URL",
			url:  "https://www.youtube.com/user/GoogleDevelopers",
			want: "GoogleDevelopers",
		},
		{
			name: "handle URL",
			url:  "https://www.youtube.com/@GoogleDevelopers",
			want: "GoogleDevelopers",
		},
		{
			name: "short link",
			url:  "https://youtu.be/GoogleDevelopers",
			want: "GoogleDevelopers",
		},
		{
			name: "no scheme",
			url:  "youtube.com/@somecreator",
			want: "somecreator",
		},
		{
			name: "trailing path segments ignored",
			url:  "https://www.youtube.com/channel/UC_x5XG1OV2P6uZZ5FSM9Ttw/videos",
			want: "UC_x5XG1OV2P6uZZ5FSM9Ttw",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractChannelIdentifier(tt.url)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractChannelIdentifierNoMatch(t *testing.T) {
	for _, url := range []string{
		"",
		"https://example.com/channel/UC_x5XG1OV2P6uZZ5FSM9Ttw",
		"https://www.youtube.com/watch?v=dQw4w9WgXcQ",
		"not a url at all",
	} {
		_, err := ExtractChannelIdentifier(url)
		assert.ErrorIs(t, err, ErrNoURLMatch, "url %q", url)
	}
}
