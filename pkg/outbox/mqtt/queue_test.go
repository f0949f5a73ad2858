package mqtt

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMatchTopic(t *testing.T) {
	testCases := []struct {
		topic   string
		pattern string
		match   bool
	}{
		{"dev/a/frames", "dev/a/frames", true},
		{"dev/a/frames", "dev/+/frames", true},
		{"dev/a/frames", "+/+/frames", true},
		{"dev/a/frames", "#", true},
		{"dev/a/frames", "dev/#", true},
		{"dev/a/frames", "dev/+", false},
		{"dev/a", "dev/+/frames", false},
		{"dev/a/stats", "dev/+/frames", false},
		{"dev/a/frames/x", "dev/+/frames", false},
	}
	for _, tc := range testCases {
		require.Equalf(t, tc.match, MatchTopic(tc.topic, tc.pattern), "%q ~ %q", tc.topic, tc.pattern)
	}
}

func TestClientOptionsFromURL(t *testing.T) {
	testCases := []struct {
		name     string
		url      string
		broker   string
		prefix   string
		user     string
		clientID string
	}{
		{"default scheme", "mqtt://localhost:1883/accstream/", "tcp://localhost:1883", "accstream/", "", ""},
		{"no trailing slash", "mqtt://localhost:1883/accstream", "tcp://localhost:1883", "accstream/", "", ""},
		{"no prefix", "mqtt://broker:1883", "tcp://broker:1883", "", "", ""},
		{"ssl with user", "ssl://u:p@broker:8883/x/y/?client-id=watch", "ssl://broker:8883", "x/y/", "u", "watch"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			opts, prefix, err := ClientOptionsFromURL(tc.url)
			require.NoError(t, err)
			require.Equal(t, tc.prefix, prefix)
			require.Len(t, opts.Servers, 1)
			require.Equal(t, tc.broker, opts.Servers[0].String())
			require.Equal(t, tc.user, opts.Username)
			require.Equal(t, tc.clientID, opts.ClientID)
		})
	}
}
