package workspace_test

import (
	"context"
	"testing"

	"github.com/marknote/marknote/internal/domain/workspace"
	"github.com/stretchr/testify/require"
)

func TestInsertColor(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t, workspace.Options{})

	n, err := svc.CreateNote(ctx, workspace.CreateNoteRequest{Content: "hello"})
	require.NoError(t, err)

	updated, err := svc.InsertColor(ctx, workspace.InsertColorRequest{NoteID: n.ID, Color: workspace.TextColors[0]})
	require.NoError(t, err)
	require.Equal(t, "hello\n<span style=\"color: #ff6b6b\">彩色文字</span>\n", updated.Content)

	res, err := svc.RenderNote(n.ID)
	require.NoError(t, err)
	require.Contains(t, res.HTML, `<span style="color: #ff6b6b">彩色文字</span>`)
	require.NotContains(t, res.HTML, "raw HTML omitted")
}

func TestInsertColor_EscapesText(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t, workspace.Options{})

	n, err := svc.CreateNote(ctx, workspace.CreateNoteRequest{})
	require.NoError(t, err)

	updated, err := svc.InsertColor(ctx, workspace.InsertColorRequest{NoteID: n.ID, Color: "blue", Text: "<b>x</b>"})
	require.NoError(t, err)
	require.Contains(t, updated.Content, `<span style="color: blue">&lt;b&gt;x&lt;/b&gt;</span>`)

	res, err := svc.RenderNote(n.ID)
	require.NoError(t, err)
	require.NotContains(t, res.HTML, "<b>")
}

func TestInsertColor_Validation(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t, workspace.Options{})

	n, err := svc.CreateNote(ctx, workspace.CreateNoteRequest{})
	require.NoError(t, err)

	for _, color := range []string{"", "#12", "red; position: fixed", `red" onclick="x`} {
		_, err = svc.InsertColor(ctx, workspace.InsertColorRequest{NoteID: n.ID, Color: color})
		require.ErrorIs(t, err, workspace.ErrInvalidInput, color)
	}

	_, err = svc.InsertColor(ctx, workspace.InsertColorRequest{NoteID: n.ID, Color: "red", Text: "two\nlines"})
	require.ErrorIs(t, err, workspace.ErrInvalidInput)

	_, err = svc.InsertColor(ctx, workspace.InsertColorRequest{NoteID: "missing", Color: "red"})
	require.ErrorIs(t, err, workspace.ErrNoteNotFound)
}

func TestInsertColor_KeepsPendingEdit(t *testing.T) {
	ctx := context.Background()
	svc, h := newService(t, workspace.Options{})

	n, err := svc.CreateNote(ctx, workspace.CreateNoteRequest{})
	require.NoError(t, err)
	require.NoError(t, svc.EditNote(ctx, workspace.UpdateNoteRequest{ID: n.ID, Content: strPtr("typed")}))

	updated, err := svc.InsertColor(ctx, workspace.InsertColorRequest{NoteID: n.ID, Color: "#4d96ff", Text: "blue"})
	require.NoError(t, err)
	require.Equal(t, "typed\n<span style=\"color: #4d96ff\">blue</span>\n", updated.Content)

	h.elapse()
	got, err := svc.Note(n.ID)
	require.NoError(t, err)
	require.Equal(t, updated.Content, got.Content)
}
