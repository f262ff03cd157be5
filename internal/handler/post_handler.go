package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"personalblog/internal/models"
)

type CreatePostRequest struct {
	Title         *string   `json:"title" validate:"required"`
	Content       *string   `json:"content" validate:"required"`
	Excerpt       *string   `json:"excerpt" validate:"required"`
	Tags          *[]string `json:"tags"`
	FeaturedImage *string   `json:"featuredImage" validate:"omitempty,url"`
}

type UpdatePostRequest struct {
	Title         *string   `json:"title"`
	Content       *string   `json:"content"`
	Excerpt       *string   `json:"excerpt"`
	Author        *string   `json:"author"`
	Tags          *[]string `json:"tags"`
	FeaturedImage *string   `json:"featuredImage" validate:"omitempty,url"`
}

func (h *Handlers) GetPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.PostService.List(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	// optional single-tag filter
	if tag := r.URL.Query().Get("tag"); tag != "" && tag != "all" {
		filtered := make([]models.Post, 0, len(posts))
		for _, post := range posts {
			if post.HasTag(tag) {
				filtered = append(filtered, post)
			}
		}
		posts = filtered
	}

	WriteSuccess(w, posts, http.StatusOK)
}

func (h *Handlers) GetPost(w http.ResponseWriter, r *http.Request) {
	post, err := h.PostService.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	WriteSuccess(w, post, http.StatusOK)
}

func (h *Handlers) CreatePost(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		WriteError(w, "authentication required", http.StatusUnauthorized)
		return
	}

	var req CreatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.Validate.Struct(req); err != nil {
		WriteError(w, "title, content and excerpt are required; featuredImage must be a URL", http.StatusBadRequest)
		return
	}

	fields := models.PostFields{
		Title:         req.Title,
		Content:       req.Content,
		Excerpt:       req.Excerpt,
		Tags:          req.Tags,
		FeaturedImage: req.FeaturedImage,
	}

	post, err := h.PostService.Create(r.Context(), fields, user.Username)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	h.Logger.WithField("post_id", post.PostID).WithField("author", post.Author).Info("post created")
	WriteSuccess(w, post, http.StatusCreated)
}

func (h *Handlers) UpdatePost(w http.ResponseWriter, r *http.Request) {
	var req UpdatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.Validate.Struct(req); err != nil {
		WriteError(w, "featuredImage must be a URL", http.StatusBadRequest)
		return
	}

	fields := models.PostFields{
		Title:         req.Title,
		Content:       req.Content,
		Excerpt:       req.Excerpt,
		Author:        req.Author,
		Tags:          req.Tags,
		FeaturedImage: req.FeaturedImage,
	}

	post, err := h.PostService.Update(r.Context(), mux.Vars(r)["id"], fields)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	WriteSuccess(w, post, http.StatusOK)
}

func (h *Handlers) DeletePost(w http.ResponseWriter, r *http.Request) {
	postID := mux.Vars(r)["id"]

	if err := h.PostService.Delete(r.Context(), postID); err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	h.Logger.WithField("post_id", postID).Info("post deleted")
	writeMessage(w, "post deleted", http.StatusOK)
}

// UploadPostImage accepts a multipart form with the file in the "image" field.
func (h *Handlers) UploadPostImage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.Cfg.MaxUploadSize)

	if err := r.ParseMultipartForm(h.Cfg.MaxUploadSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			WriteError(w, "image is too large", http.StatusRequestEntityTooLarge)
			return
		}
		WriteError(w, "invalid multipart form", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		WriteError(w, "image file is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	// sniff the real content type instead of trusting the client
	head := make([]byte, 512)
	n, err := io.ReadFull(file, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		WriteError(w, "failed to read image", http.StatusBadRequest)
		return
	}
	if !strings.HasPrefix(http.DetectContentType(head[:n]), "image/") {
		WriteError(w, "file is not an image", http.StatusBadRequest)
		return
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		WriteError(w, "failed to read image", http.StatusBadRequest)
		return
	}

	post, err := h.PostService.AttachImage(r.Context(), mux.Vars(r)["id"], header.Filename, file, header.Size)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	WriteSuccess(w, post, http.StatusOK)
}
