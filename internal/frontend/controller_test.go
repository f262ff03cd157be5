package frontend

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"personalblog/internal/models"
)

func TestController_LoginLogout(t *testing.T) {
	ctx := context.Background()
	srv := newServer(t)
	sessions := tempSessions(t)

	c, dialog := newTestController(t, srv.URL, sessions)
	assert.Equal(t, Anonymous, c.AuthState())
	assert.Nil(t, c.User())

	require.NoError(t, c.Register(ctx, "alice", "secret123"))
	assert.Equal(t, AuthenticatedAdmin, c.AuthState())
	assert.Equal(t, "alice", c.User().Username)

	// a fresh controller picks the stored session up without asking the server
	restored, _ := newTestController(t, srv.URL, sessions)
	assert.Equal(t, AuthenticatedAdmin, restored.AuthState())

	require.NoError(t, c.Logout())
	assert.Equal(t, Anonymous, c.AuthState())
	_, err := sessions.Load()
	assert.ErrorIs(t, err, ErrNoSession)

	err = c.Login(ctx, "alice", "wrong")
	require.Error(t, err)
	assert.Equal(t, Anonymous, c.AuthState())
	assert.Equal(t, "Login failed", dialog.last().title)
	assert.Equal(t, "invalid username or password", dialog.last().message)

	require.NoError(t, c.Register(ctx, "bob", "secret123"))
	assert.Equal(t, Authenticated, c.AuthState())
}

func TestController_LoadPosts(t *testing.T) {
	ctx := context.Background()
	srv := newServer(t)

	c, _ := newTestController(t, srv.URL, tempSessions(t))
	require.NoError(t, c.Register(ctx, "alice", "secret123"))

	for _, title := range []string{"first", "second"} {
		require.NoError(t, c.OpenCreate())
		_, err := c.Submit(ctx, models.PostFields{
			Title:   ptr(title),
			Content: ptr("body"),
			Excerpt: ptr("short"),
			Tags:    ptr([]string{title, "shared"}),
		})
		require.NoError(t, err)
	}

	c.LoadPosts(ctx)
	assert.Equal(t, ListLoaded, c.ListState())

	posts := c.Posts()
	require.Len(t, posts, 2)
	assert.Equal(t, "second", posts[0].Title)
	assert.Equal(t, []string{"first", "second", "shared"}, c.Tags())

	c.SetTag("first")
	require.Len(t, c.Posts(), 1)
	assert.Equal(t, "first", c.Posts()[0].Title)

	c.SetTag("")
	assert.Equal(t, AllTags, c.Tag())
	assert.Len(t, c.Posts(), 2)
}

func TestController_LoadPostsFallback(t *testing.T) {
	c, dialog := newTestController(t, deadURL(t), tempSessions(t))

	c.LoadPosts(context.Background())

	assert.Equal(t, ListFallback, c.ListState())
	assert.Equal(t, models.SamplePosts(), c.Posts())
	assert.Empty(t, dialog.shown)

	c.SetTag("teknologi")
	require.Len(t, c.Posts(), 1)
	assert.Equal(t, "1", c.Posts()[0].PostID)
}

func TestController_Modal(t *testing.T) {
	ctx := context.Background()
	srv := newServer(t)

	c, dialog := newTestController(t, srv.URL, tempSessions(t))

	err := c.OpenCreate()
	assert.ErrorIs(t, err, ErrNotAdmin)
	assert.Equal(t, ModalClosed, c.Modal().Mode)
	assert.Equal(t, "admin access required", dialog.last().message)

	_, err = c.Submit(ctx, models.PostFields{})
	assert.ErrorIs(t, err, ErrModalClosed)

	require.NoError(t, c.Register(ctx, "alice", "secret123"))

	require.NoError(t, c.OpenCreate())
	assert.Equal(t, Modal{Mode: ModalCreate}, c.Modal())

	// a rejected submit keeps the form open
	_, err = c.Submit(ctx, models.PostFields{Title: ptr("no body")})
	require.Error(t, err)
	assert.Equal(t, ModalCreate, c.Modal().Mode)
	assert.Equal(t, "Saving post failed", dialog.last().title)

	created, err := c.Submit(ctx, models.PostFields{Title: ptr("Hi"), Content: ptr("c"), Excerpt: ptr("e")})
	require.NoError(t, err)
	assert.Equal(t, ModalClosed, c.Modal().Mode)
	assert.Equal(t, "alice", created.Author)

	assert.ErrorIs(t, c.OpenEdit("missing"), ErrUnknownPost)

	require.NoError(t, c.OpenEdit(created.PostID))
	assert.Equal(t, Modal{Mode: ModalEdit, PostID: created.PostID}, c.Modal())

	updated, err := c.Submit(ctx, models.PostFields{Title: ptr("Hello")})
	require.NoError(t, err)
	assert.Equal(t, created.PostID, updated.PostID)
	assert.Equal(t, "Hello", updated.Title)
	assert.Equal(t, "c", updated.Content)
	assert.Equal(t, "Hello", c.Posts()[0].Title)

	require.NoError(t, c.OpenEdit(created.PostID))
	c.CloseModal()
	assert.Equal(t, ModalClosed, c.Modal().Mode)

	require.NoError(t, c.Delete(ctx, created.PostID))
	assert.Empty(t, c.Posts())

	require.Error(t, c.Delete(ctx, created.PostID))
	assert.Equal(t, "Deleting post failed", dialog.last().title)
}

func TestController_StaleSession(t *testing.T) {
	ctx := context.Background()
	srv := newServer(t)
	sessions := tempSessions(t)

	require.NoError(t, sessions.Save(&Session{
		Token: "not-a-real-token",
		User:  models.User{UserID: "u1", Username: "ghost", IsAdmin: true},
	}))

	c, dialog := newTestController(t, srv.URL, sessions)
	assert.Equal(t, AuthenticatedAdmin, c.AuthState())

	require.NoError(t, c.OpenCreate())
	_, err := c.Submit(ctx, models.PostFields{Title: ptr("t"), Content: ptr("c"), Excerpt: ptr("e")})
	require.Error(t, err)

	assert.Equal(t, Anonymous, c.AuthState())
	assert.Equal(t, ModalClosed, c.Modal().Mode)
	assert.Equal(t, "Saving post failed", dialog.last().title)

	_, err = sessions.Load()
	assert.ErrorIs(t, err, ErrNoSession)
}
