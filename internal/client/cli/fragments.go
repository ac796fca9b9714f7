package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/fragments-ui/internal/client/client"
	"github.com/dmitrijs2005/fragments-ui/internal/client/render"
	"github.com/dmitrijs2005/fragments-ui/internal/client/services"
)

// fail logs err with its context and shows msg to the user. A rejected
// session gets an extra hint.
func (a *App) fail(ctx context.Context, op string, err error, msg string) error {
	a.log.Error(ctx, op+" failed", "error", err)
	a.alert(msg)
	if errors.Is(err, client.ErrUnauthorized) {
		fmt.Fprintln(a.out, "Your session was rejected. Please logout and login again.")
	}
	return err
}

// List fetches the user's fragments and renders them, replacing the
// previous list.
func (a *App) List(ctx context.Context) error {
	fragments, err := a.fragmentService.List(ctx, a.user)
	if err != nil {
		return a.fail(ctx, "list fragments", err, "Failed to retrieve fragments. Please try again.")
	}

	a.fragments = fragments
	return render.FragmentList(a.out, fragments, a.loc)
}

// IDs prints only the ids of the user's fragments.
func (a *App) IDs(ctx context.Context) error {
	ids, err := a.fragmentService.IDs(ctx, a.user)
	if err != nil {
		return a.fail(ctx, "list fragment ids", err, "Failed to retrieve fragments. Please try again.")
	}

	if len(ids) == 0 {
		fmt.Fprintln(a.out, render.NoFragments)
		return nil
	}
	for _, id := range ids {
		fmt.Fprintln(a.out, id)
	}
	return nil
}

// Create reads content and a media type and stores a new fragment.
func (a *App) Create(ctx context.Context) error {
	content, guessed, err := a.readContent()
	if err != nil {
		return a.fail(ctx, "read content", err, "Could not read the fragment content.")
	}

	mediaType, err := a.readMediaType(guessed)
	if err != nil {
		return err
	}

	f, err := a.fragmentService.Create(ctx, a.user, content, mediaType)
	if err != nil {
		return a.fail(ctx, "create fragment", err, "Failed to create fragment. Please try again.")
	}

	fmt.Fprintln(a.out, render.Stored("Created", f))
	return a.List(ctx)
}

// View prints the content of fragment id.
func (a *App) View(ctx context.Context, id string) error {
	data, err := a.fragmentService.View(ctx, a.user, id)
	if err != nil {
		return a.fail(ctx, "view fragment", err, "Failed to retrieve fragment. Please try again.")
	}

	fmt.Fprintf(a.out, "Type: %s\n", data.FragmentType)
	return render.Content(a.out, data.Data)
}

// Update replaces the content of fragment id. The media type defaults to
// the fragment's current type.
func (a *App) Update(ctx context.Context, id string) error {
	content, guessed, err := a.readContent()
	if err != nil {
		return a.fail(ctx, "read content", err, "Could not read the fragment content.")
	}

	current := a.knownType(id)
	if current == "" {
		current = guessed
	}
	mediaType, err := a.readMediaType(current)
	if err != nil {
		return err
	}

	f, err := a.fragmentService.Update(ctx, a.user, id, content, mediaType)
	if err != nil {
		return a.fail(ctx, "update fragment", err, "Failed to update fragment. Please try again.")
	}

	fmt.Fprintln(a.out, render.Stored("Updated", f))
	return a.List(ctx)
}

// Delete removes fragment id.
func (a *App) Delete(ctx context.Context, id string) error {
	if err := a.fragmentService.Delete(ctx, a.user, id); err != nil {
		return a.fail(ctx, "delete fragment", err, "Failed to delete fragment. Please try again.")
	}

	fmt.Fprintf(a.out, "Deleted fragment %s\n", id)
	return a.List(ctx)
}

// Convert prints fragment id converted to the format named by ext.
func (a *App) Convert(ctx context.Context, id, ext string) error {
	converted, err := a.fragmentService.Convert(ctx, a.user, id, ext)
	if err != nil {
		if errors.Is(err, client.ErrUnsupportedExtension) {
			return a.fail(ctx, "convert fragment", err,
				fmt.Sprintf("Unsupported extension %q. Use one of: %s.", ext, strings.Join(client.Extensions(), ", ")))
		}
		return a.fail(ctx, "convert fragment", err, "Failed to convert fragment. Please try again.")
	}

	return render.Content(a.out, converted.Data)
}

// readContent reads typed content, or the file named by a single "@path"
// line. The second result is the media type guessed from the file name.
func (a *App) readContent() ([]byte, string, error) {
	text, err := getMultiline(a.reader, "Enter content, or @path to load a file", a.out)
	if err != nil {
		return nil, "", err
	}

	if path, ok := strings.CutPrefix(text, "@"); ok && !strings.Contains(path, "\n") {
		return services.ReadContentFile(path)
	}
	return []byte(text), "", nil
}

func (a *App) readMediaType(def string) (string, error) {
	if def == "" {
		def = services.DefaultMediaType
	}
	prompt := fmt.Sprintf("Fragment type [%s] (%s)", def, strings.Join(services.SupportedTypes, ", "))

	mt, err := getSimpleText(a.reader, prompt, a.out)
	if err != nil {
		return "", err
	}
	if mt == "" {
		return def, nil
	}
	return mt, nil
}

func (a *App) knownType(id string) string {
	for _, f := range a.fragments {
		if f.ID == id {
			return f.Type
		}
	}
	return ""
}
