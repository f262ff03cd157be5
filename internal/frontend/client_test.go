package frontend

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"personalblog/internal/models"
)

func TestClient_PostLifecycle(t *testing.T) {
	ctx := context.Background()
	srv := newServer(t)
	client := NewClient(srv.URL+"/", nil)

	auth, err := client.Register(ctx, "alice", "secret123")
	require.NoError(t, err)
	assert.NotEmpty(t, auth.Token)
	assert.Equal(t, "alice", auth.User.Username)
	assert.True(t, auth.User.IsAdmin)

	client.SetToken(auth.Token)

	me, err := client.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, auth.User.UserID, me.UserID)

	created, err := client.CreatePost(ctx, models.PostFields{
		Title:   ptr("Hi"),
		Content: ptr("**hello**"),
		Excerpt: ptr("hello"),
		Tags:    ptr([]string{"go"}),
	})
	require.NoError(t, err)
	assert.Equal(t, "alice", created.Author)

	updated, err := client.UpdatePost(ctx, created.PostID, models.PostFields{Title: ptr("Hello")})
	require.NoError(t, err)
	assert.Equal(t, "Hello", updated.Title)
	assert.Equal(t, "hello", updated.Excerpt)

	posts, err := client.ListPosts(ctx, "go")
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, created.PostID, posts[0].PostID)

	posts, err = client.ListPosts(ctx, "rust")
	require.NoError(t, err)
	assert.Empty(t, posts)

	got, err := client.GetPost(ctx, created.PostID)
	require.NoError(t, err)
	assert.Equal(t, "Hello", got.Title)

	require.NoError(t, client.DeletePost(ctx, created.PostID))

	_, err = client.GetPost(ctx, created.PostID)
	assert.True(t, HasStatus(err, http.StatusNotFound))

	err = client.DeletePost(ctx, created.PostID)
	assert.True(t, HasStatus(err, http.StatusNotFound))
}

func TestClient_Errors(t *testing.T) {
	ctx := context.Background()
	srv := newServer(t)
	client := NewClient(srv.URL, nil)

	_, err := client.Register(ctx, "alice", "secret123")
	require.NoError(t, err)

	_, err = client.Register(ctx, "alice", "other")
	assert.True(t, HasStatus(err, http.StatusConflict))

	_, err = client.Login(ctx, "alice", "wrong")
	require.Error(t, err)
	assert.True(t, HasStatus(err, http.StatusUnauthorized))

	_, err = client.CreatePost(ctx, models.PostFields{Title: ptr("x"), Content: ptr("x"), Excerpt: ptr("x")})
	assert.True(t, HasStatus(err, http.StatusUnauthorized))

	reader, err := client.Register(ctx, "bob", "secret123")
	require.NoError(t, err)
	client.SetToken(reader.Token)

	_, err = client.CreatePost(ctx, models.PostFields{Title: ptr("x"), Content: ptr("x"), Excerpt: ptr("x")})
	assert.True(t, HasStatus(err, http.StatusForbidden))
}

func TestClient_NonJSONError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, nil).ListPosts(context.Background(), "")
	assert.True(t, HasStatus(err, http.StatusBadGateway))
}

func TestClient_Unreachable(t *testing.T) {
	_, err := NewClient(deadURL(t), nil).ListPosts(context.Background(), "")
	require.Error(t, err)

	var apiErr *APIError
	assert.NotErrorAs(t, err, &apiErr)
}
