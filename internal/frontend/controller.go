package frontend

import (
	"context"
	"errors"
	"net/http"
	"slices"
	"sort"

	"github.com/sirupsen/logrus"
	"personalblog/internal/models"
)

// AllTags disables the tag filter.
const AllTags = "all"

type AuthState int

const (
	Anonymous AuthState = iota
	Authenticated
	AuthenticatedAdmin
)

func (s AuthState) String() string {
	switch s {
	case Authenticated:
		return "authenticated"
	case AuthenticatedAdmin:
		return "admin"
	default:
		return "anonymous"
	}
}

type ListState int

const (
	ListLoading ListState = iota
	ListLoaded
	// ListFallback means the API could not be reached and the built-in
	// sample posts are shown instead.
	ListFallback
)

type ModalMode int

const (
	ModalClosed ModalMode = iota
	ModalCreate
	ModalEdit
)

// Modal is the post form. PostID is set only in ModalEdit.
type Modal struct {
	Mode   ModalMode
	PostID string
}

var (
	ErrNotAdmin    = errors.New("admin access required")
	ErrModalClosed = errors.New("no form is open")
	ErrUnknownPost = errors.New("post is not in the current list")
)

// Dialog shows a failure and blocks until the reader acknowledges it.
type Dialog interface {
	Acknowledge(title, message string)
}

// Controller holds the UI state of one reader. It is not safe for
// concurrent use.
type Controller struct {
	client   *Client
	sessions *SessionStore
	dialog   Dialog
	logger   logrus.FieldLogger

	session   *Session
	listState ListState
	posts     []models.Post
	tag       string
	modal     Modal
}

// NewController restores the previous session from sessions, if any.
func NewController(client *Client, sessions *SessionStore, dialog Dialog, logger logrus.FieldLogger) *Controller {
	c := &Controller{
		client:   client,
		sessions: sessions,
		dialog:   dialog,
		logger:   logger,
		tag:      AllTags,
	}

	session, err := sessions.Load()
	switch {
	case err == nil:
		c.session = session
		client.SetToken(session.Token)
	case !errors.Is(err, ErrNoSession):
		logger.WithError(err).Warn("ignoring unreadable session")
	}

	return c
}

func (c *Controller) AuthState() AuthState {
	switch {
	case c.session == nil:
		return Anonymous
	case c.session.User.IsAdmin:
		return AuthenticatedAdmin
	default:
		return Authenticated
	}
}

// User is the logged-in user, or nil.
func (c *Controller) User() *models.User {
	if c.session == nil {
		return nil
	}
	u := c.session.User
	return &u
}

func (c *Controller) Login(ctx context.Context, username, password string) error {
	result, err := c.client.Login(ctx, username, password)
	if err != nil {
		c.fail("Login failed", err)
		return err
	}
	return c.startSession(result)
}

func (c *Controller) Register(ctx context.Context, username, password string) error {
	result, err := c.client.Register(ctx, username, password)
	if err != nil {
		c.fail("Registration failed", err)
		return err
	}
	return c.startSession(result)
}

func (c *Controller) startSession(result *AuthResponse) error {
	session := &Session{Token: result.Token, User: result.User, SavedAt: timeNow()}
	if err := c.sessions.Save(session); err != nil {
		c.fail("Could not save session", err)
		return err
	}

	c.session = session
	c.client.SetToken(session.Token)
	return nil
}

func (c *Controller) Logout() error {
	c.session = nil
	c.client.SetToken("")
	c.modal = Modal{}
	return c.sessions.Clear()
}

// LoadPosts fetches every post. Any failure silently switches the list to
// the sample posts.
func (c *Controller) LoadPosts(ctx context.Context) {
	c.listState = ListLoading

	posts, err := c.client.ListPosts(ctx, "")
	if err != nil {
		c.logger.WithError(err).Debug("falling back to sample posts")
		c.posts = models.SamplePosts()
		c.listState = ListFallback
		return
	}

	c.posts = posts
	c.listState = ListLoaded
}

func (c *Controller) ListState() ListState {
	return c.listState
}

// Posts returns the loaded posts that match the current tag filter.
func (c *Controller) Posts() []models.Post {
	if c.tag == AllTags {
		return slices.Clone(c.posts)
	}

	var out []models.Post
	for _, p := range c.posts {
		if p.HasTag(c.tag) {
			out = append(out, p)
		}
	}
	return out
}

// Tags lists the distinct tags of the loaded posts, sorted.
func (c *Controller) Tags() []string {
	seen := map[string]bool{}
	var tags []string
	for _, p := range c.posts {
		for _, t := range p.Tags {
			if !seen[t] {
				seen[t] = true
				tags = append(tags, t)
			}
		}
	}
	sort.Strings(tags)
	return tags
}

// SetTag filters by one tag. An empty tag or AllTags clears the filter.
func (c *Controller) SetTag(tag string) {
	if tag == "" {
		tag = AllTags
	}
	c.tag = tag
}

func (c *Controller) Tag() string {
	return c.tag
}

func (c *Controller) Modal() Modal {
	return c.modal
}

func (c *Controller) OpenCreate() error {
	if c.AuthState() != AuthenticatedAdmin {
		c.fail("Cannot create post", ErrNotAdmin)
		return ErrNotAdmin
	}
	c.modal = Modal{Mode: ModalCreate}
	return nil
}

func (c *Controller) OpenEdit(postID string) error {
	if c.AuthState() != AuthenticatedAdmin {
		c.fail("Cannot edit post", ErrNotAdmin)
		return ErrNotAdmin
	}
	if !slices.ContainsFunc(c.posts, func(p models.Post) bool { return p.PostID == postID }) {
		c.fail("Cannot edit post", ErrUnknownPost)
		return ErrUnknownPost
	}
	c.modal = Modal{Mode: ModalEdit, PostID: postID}
	return nil
}

func (c *Controller) CloseModal() {
	c.modal = Modal{}
}

// Submit sends the open form. On success the form closes and the list is
// reloaded; on failure the form stays open.
func (c *Controller) Submit(ctx context.Context, fields models.PostFields) (*models.Post, error) {
	var (
		post *models.Post
		err  error
	)

	switch c.modal.Mode {
	case ModalCreate:
		post, err = c.client.CreatePost(ctx, fields)
	case ModalEdit:
		post, err = c.client.UpdatePost(ctx, c.modal.PostID, fields)
	default:
		c.fail("Cannot save post", ErrModalClosed)
		return nil, ErrModalClosed
	}

	if err != nil {
		c.writeFailed("Saving post failed", err)
		return nil, err
	}

	c.modal = Modal{}
	c.LoadPosts(ctx)
	return post, nil
}

func (c *Controller) Delete(ctx context.Context, postID string) error {
	if c.AuthState() != AuthenticatedAdmin {
		c.fail("Cannot delete post", ErrNotAdmin)
		return ErrNotAdmin
	}

	if err := c.client.DeletePost(ctx, postID); err != nil {
		c.writeFailed("Deleting post failed", err)
		return err
	}

	c.LoadPosts(ctx)
	return nil
}

// writeFailed reports a failed write. A rejected token ends the stored
// session, since the snapshot is only checked when writing.
func (c *Controller) writeFailed(title string, err error) {
	if HasStatus(err, http.StatusUnauthorized) {
		if clearErr := c.Logout(); clearErr != nil {
			c.logger.WithError(clearErr).Warn("could not clear session")
		}
	}
	c.fail(title, err)
}

func (c *Controller) fail(title string, err error) {
	message := err.Error()
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		message = apiErr.Message
	}
	c.dialog.Acknowledge(title, message)
}
