package render

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/fragments-ui/internal/client/models"
)

func TestFragmentList_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, FragmentList(&buf, nil, time.UTC))
	assert.Equal(t, "No fragments found.\n", buf.String())
}

func TestFragmentList_Entries(t *testing.T) {
	ts := time.Date(2021, 11, 2, 15, 9, 50, 403e6, time.UTC)
	frags := []models.Fragment{
		{ID: "a", OwnerID: "o1", Type: "text/plain", Created: ts, Updated: ts.Add(time.Hour), Size: 5},
		{ID: "b", OwnerID: "o1", Type: "image/png", Created: ts, Updated: ts, Size: 42},
	}

	var buf bytes.Buffer
	require.NoError(t, FragmentList(&buf, frags, time.FixedZone("EST", -5*3600)))

	want := "ID: a\nType: text/plain\nCreated: 2021-11-02 10:09:50\nUpdated: 2021-11-02 11:09:50\nSize: 5\nOwner ID: o1\n" +
		"\n" +
		"ID: b\nType: image/png\nCreated: 2021-11-02 10:09:50\nUpdated: 2021-11-02 10:09:50\nSize: 42\nOwner ID: o1\n"
	assert.Equal(t, want, buf.String())
}

func TestContent(t *testing.T) {
	tests := []struct {
		name string
		in   models.Content
		want string
	}{
		{"text", models.Content{Kind: models.KindText, MediaType: "text/plain", Text: "hello"}, "hello\n"},
		{"markdown verbatim", models.Content{Kind: models.KindText, MediaType: "text/markdown", Text: "# Hi\n"}, "# Hi\n"},
		{"html stripped", models.Content{Kind: models.KindText, MediaType: "text/html", Text: "<h1>Hi</h1>\n<p>a &amp; b<script>x()</script></p>"}, "Hi\na & b\n"},
		{"json pretty", models.Content{Kind: models.KindJSON, JSON: map[string]any{"a": float64(1)}}, "{\n  \"a\": 1\n}\n"},
		{"json keeps markup", models.Content{Kind: models.KindJSON, JSON: map[string]any{"h": "<b>"}}, "{\n  \"h\": \"<b>\"\n}\n"},
		{"binary", models.Content{Kind: models.KindBinary, MediaType: "image/png", Ref: "file:///tmp/x.png", Size: 3}, "[image/png, 3 bytes] saved to " + filepath.FromSlash("/tmp/x.png") + "\n"},
		{"binary with foreign ref", models.Content{Kind: models.KindBinary, MediaType: "image/png", Ref: "https://cdn/x.png", Size: 3}, "[image/png, 3 bytes] saved to https://cdn/x.png\n"},
		{"unsupported", models.Content{Kind: models.KindUnsupported, MediaType: "audio/ogg", Size: 7}, "[audio/ogg, 7 bytes] can not be displayed\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Content(&buf, tt.in))
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestStored(t *testing.T) {
	s := Stored("Created", &models.Fragment{ID: "abc", Type: "text/plain", Size: 5})
	assert.True(t, strings.HasPrefix(s, "Created fragment abc"))
	assert.Contains(t, s, "5 bytes")
}
