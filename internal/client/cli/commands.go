package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophnotes/internal/client/models"
	"github.com/dmitrijs2005/gophnotes/internal/timex"
)

// getSimpleText, getMultiline and getSecret are swapped in tests.
var (
	getSimpleText = GetSimpleText
	getMultiline  = GetMultiline
	getSecret     = GetSecret
)

const snapshotTimeout = 2 * time.Second

// firstSnapshot takes the current value of a live query.
func firstSnapshot[T any](ctx context.Context, watch func(context.Context) <-chan T) (T, error) {
	ctx, cancel := context.WithTimeout(ctx, snapshotTimeout)
	defer cancel()

	var zero T
	select {
	case v, ok := <-watch(ctx):
		if !ok {
			return zero, ctx.Err()
		}
		return v, nil
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

// SignIn reads an identity token without echo and makes its user current.
func (a *App) SignIn(ctx context.Context, _ []string) error {
	token, err := getSecret("Paste sign-in token", a.out)
	if err != nil {
		return err
	}
	u, err := a.repo.SignIn(ctx, token)
	if err != nil {
		return err
	}
	if err := a.repo.SelectUser(ctx, u.ID); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Signed in as %s (%s)\n", u.DisplayName, u.ID)
	return nil
}

func (a *App) Users(ctx context.Context, _ []string) error {
	users, err := firstSnapshot(ctx, a.repo.Users)
	if err != nil {
		return err
	}
	if len(users) == 0 {
		fmt.Fprintln(a.out, "No users yet, use 'signin'")
		return nil
	}
	current, _ := a.repo.SelectedUser()
	for _, u := range users {
		marker := " "
		if u.ID == current {
			marker = "*"
		}
		fmt.Fprintf(a.out, "%s %s  %s <%s>\n", marker, u.ID, u.DisplayName, u.Email)
	}
	return nil
}

func (a *App) Use(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usageError("use <userId>")
	}
	if err := a.repo.SelectUser(ctx, args[0]); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Now using %s\n", args[0])
	return nil
}

// New creates a note. The title comes from args or a prompt, the content
// always from a multi-line prompt.
func (a *App) New(ctx context.Context, args []string) error {
	title := strings.Join(args, " ")
	if title == "" {
		var err error
		if title, err = getSimpleText(a.reader, "Title", a.out); err != nil {
			return err
		}
	}
	content, err := getMultiline(a.reader, "Content", a.out)
	if err != nil {
		return err
	}

	n, err := a.repo.CreateNote(ctx, title, content, nil, "")
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Created %s\n", n.ID)
	return nil
}

// Edit replaces a note's title and content. An empty title keeps the old
// one.
func (a *App) Edit(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usageError("edit <noteId>")
	}
	n, err := a.note(ctx, args[0])
	if err != nil {
		return err
	}

	title, err := getSimpleText(a.reader, fmt.Sprintf("Title [%s]", n.Title), a.out)
	if err != nil {
		return err
	}
	if title != "" {
		n.Title = title
	}
	content, err := getMultiline(a.reader, "Content", a.out)
	if err != nil {
		return err
	}
	n.Content = content

	if err := a.repo.UpdateNote(ctx, n); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Saved")
	return nil
}

func (a *App) Remove(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usageError("rm <noteId>")
	}
	if err := a.repo.DeleteNote(ctx, args[0]); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Deleted")
	return nil
}

func (a *App) List(ctx context.Context, _ []string) error {
	notes, err := a.repo.SearchNotes(ctx, "")
	if err != nil {
		return err
	}
	a.printNotes(notes)
	return nil
}

func (a *App) Find(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usageError("find <query>")
	}
	notes, err := a.repo.SearchNotes(ctx, strings.Join(args, " "))
	if err != nil {
		return err
	}
	a.printNotes(notes)
	return nil
}

func (a *App) printNotes(notes []*models.Note) {
	if len(notes) == 0 {
		fmt.Fprintln(a.out, "No notes")
		return
	}
	for _, n := range notes {
		fmt.Fprintf(a.out, "%s  %-30s  %s%s\n", n.ID, n.Title,
			timex.FromMillis(n.UpdatedAt).Format(time.DateTime), syncMarker(n))
	}
}

func syncMarker(n *models.Note) string {
	if n.IsSynced {
		return ""
	}
	return "  (pending)"
}

func (a *App) Show(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usageError("show <noteId>")
	}
	n, err := a.note(ctx, args[0])
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "%s%s\n", n.Title, syncMarker(n))
	fmt.Fprintf(a.out, "updated %s\n\n", timex.FromMillis(n.UpdatedAt).Format(time.DateTime))
	if n.Content != "" {
		fmt.Fprintln(a.out, n.Content)
	}

	tags, err := a.repo.TagsForNote(ctx, n.ID)
	if err != nil {
		return err
	}
	if len(tags) > 0 {
		names := make([]string, 0, len(tags))
		for _, t := range tags {
			names = append(names, "#"+t.Name)
		}
		fmt.Fprintf(a.out, "\ntags: %s\n", strings.Join(names, " "))
	}

	atts, err := a.repo.AttachmentsForNote(ctx, n.ID)
	if err != nil {
		return err
	}
	for _, at := range atts {
		fmt.Fprintf(a.out, "attachment: %s (%s)\n", at.URI, at.MimeType)
	}
	return nil
}

func (a *App) Tags(ctx context.Context, _ []string) error {
	tags, err := firstSnapshot(ctx, a.repo.Tags)
	if err != nil {
		return err
	}
	if len(tags) == 0 {
		fmt.Fprintln(a.out, "No tags")
		return nil
	}
	for _, t := range tags {
		fmt.Fprintf(a.out, "%s  %s  %s\n", t.ID, t.Name, t.Color)
	}
	return nil
}

// Tag links a note to the tag with the given name, creating the tag first
// when needed.
func (a *App) Tag(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return usageError("tag <noteId> <name>")
	}
	n, err := a.note(ctx, args[0])
	if err != nil {
		return err
	}
	t, err := a.repo.CreateTag(ctx, strings.Join(args[1:], " "), "")
	if err != nil {
		return err
	}
	if err := a.repo.AddTagToNote(ctx, n.ID, t.ID); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Tagged #%s\n", t.Name)
	return nil
}

func (a *App) Untag(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return usageError("untag <noteId> <name>")
	}
	name := strings.Join(args[1:], " ")
	tags, err := a.repo.TagsForNote(ctx, args[0])
	if err != nil {
		return err
	}
	for _, t := range tags {
		if models.TagNameKey(t.Name) == models.TagNameKey(name) {
			if err := a.repo.RemoveTagFromNote(ctx, args[0], t.ID); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Removed #%s\n", t.Name)
			return nil
		}
	}
	return fmt.Errorf("note %s has no tag %q", args[0], name)
}

func (a *App) Attach(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return usageError("attach <noteId> <uri>")
	}
	n, err := a.note(ctx, args[0])
	if err != nil {
		return err
	}
	at, err := a.repo.AddAttachment(ctx, n.ID, args[1])
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Attached %s\n", at.ID)
	return nil
}

func (a *App) Sync(ctx context.Context, _ []string) error {
	r, err := a.repo.SyncNow(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, r.String())
	return nil
}

func (a *App) Status(context.Context, []string) error {
	user, ok := a.repo.SelectedUser()
	if !ok {
		user = "none"
	}
	fmt.Fprintf(a.out, "user: %s\nconnection: %s\n", user, a.mode())
	return nil
}

func (a *App) note(ctx context.Context, id string) (*models.Note, error) {
	n, err := a.repo.GetNote(ctx, id)
	if err != nil {
		return nil, err
	}
	if n == nil {
		return nil, fmt.Errorf("note %s not found", id)
	}
	return n, nil
}
