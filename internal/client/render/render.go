// Package render formats fragments and their content for the terminal.
package render

import (
	"encoding/json"
	"fmt"
	"html"
	"io"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"

	"github.com/dmitrijs2005/fragments-ui/internal/client/blobs"
	"github.com/dmitrijs2005/fragments-ui/internal/client/models"
)

const NoFragments = "No fragments found."

const timeLayout = "2006-01-02 15:04:05"

var strict = bluemonday.StrictPolicy()

// FragmentList writes one block per fragment, in the order given, with
// timestamps in loc.
func FragmentList(w io.Writer, fragments []models.Fragment, loc *time.Location) error {
	if len(fragments) == 0 {
		_, err := fmt.Fprintln(w, NoFragments)
		return err
	}

	for i, f := range fragments {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if err := fragment(w, f, loc); err != nil {
			return err
		}
	}
	return nil
}

func fragment(w io.Writer, f models.Fragment, loc *time.Location) error {
	_, err := fmt.Fprintf(w, "ID: %s\nType: %s\nCreated: %s\nUpdated: %s\nSize: %d\nOwner ID: %s\n",
		f.ID, f.Type, localTime(f.Created, loc), localTime(f.Updated, loc), f.Size, f.OwnerID)
	return err
}

func localTime(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return "-"
	}
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(timeLayout)
}

// Content writes a decoded fragment body.
func Content(w io.Writer, c models.Content) error {
	var out string
	switch c.Kind {
	case models.KindText:
		out = Text(c.MediaType, c.Text)
	case models.KindJSON:
		var b strings.Builder
		enc := json.NewEncoder(&b)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		if err := enc.Encode(c.JSON); err != nil {
			return fmt.Errorf("format json: %w", err)
		}
		out = b.String()
	case models.KindBinary:
		out = fmt.Sprintf("[%s, %d bytes] saved to %s", c.MediaType, c.Size, location(c.Ref))
	default:
		out = fmt.Sprintf("[%s, %d bytes] can not be displayed", c.MediaType, c.Size)
	}

	if !strings.HasSuffix(out, "\n") {
		out += "\n"
	}
	_, err := io.WriteString(w, out)
	return err
}

// location shows a blob reference as a file path when it is one.
func location(ref string) string {
	if path, err := blobs.PathFromRef(ref); err == nil {
		return path
	}
	return ref
}

// Text returns s ready for the terminal. HTML is reduced to its text.
func Text(mediaType, s string) string {
	if mediaType != "text/html" {
		return s
	}
	return html.UnescapeString(strings.TrimSpace(strict.Sanitize(s)))
}

// Stored is the confirmation printed after a fragment was created or
// updated.
func Stored(verb string, f *models.Fragment) string {
	return fmt.Sprintf("%s fragment %s (%s, %d bytes)", verb, f.ID, f.Type, f.Size)
}
