package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/quillhub/quillhub-backend/authz"
	"github.com/quillhub/quillhub-backend/database"
	"github.com/quillhub/quillhub-backend/errs"
	"github.com/quillhub/quillhub-backend/models"
	"github.com/quillhub/quillhub-backend/slug"
)

// maxSlugAttempts bounds insert retries when concurrent creations race for
// the same slug.
const maxSlugAttempts = 3

type postHandler struct {
	responder Responder
	logger    zerolog.Logger
	postRepo  *database.PostRepo
	blogRepo  *database.BlogRepo
	tagRepo   *database.TagRepo

	// slugExists and insertPost default to the repo methods; tests swap
	// them to simulate insert races.
	slugExists func(string) (bool, error)
	insertPost func(*models.Post) error
}

func newPostHandler(postRepo *database.PostRepo, blogRepo *database.BlogRepo, tagRepo *database.TagRepo) postHandler {
	logger := log.With().Str("handlerName", "postHandler").Logger()

	return postHandler{
		responder:  NewResponder(logger),
		logger:     logger,
		postRepo:   postRepo,
		blogRepo:   blogRepo,
		tagRepo:    tagRepo,
		slugExists: postRepo.SlugExists,
		insertPost: postRepo.Add,
	}
}

// postRequest is the client-writable surface of a post. Id, slug,
// timestamps and the owning blog are never accepted from the client.
type postRequest struct {
	Title       *string      `json:"title"`
	Content     *string      `json:"content"`
	Excerpt     *string      `json:"excerpt"`
	Cover       *string      `json:"cover"`
	IsPublished *bool        `json:"is_published"`
	PublishedAt *time.Time   `json:"published_at"`
	Tags        *[]uuid.UUID `json:"tags"`
}

// listPosts returns a page of all posts. Every authenticated principal sees
// every post; ownership only gates writes.
func (h postHandler) listPosts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p := parsePage(r)
		posts, total, err := h.postRepo.FindPage(p.offset(), p.size)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find posts", "posts", err))
			return
		}
		if posts == nil {
			posts = []*models.Post{}
		}
		h.responder.WriteJSON(w, newPaginatedResponse(r, p, total, posts))
	}
}

func (h postHandler) getPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		post, ok := h.loadPost(w, r)
		if !ok {
			return
		}
		h.responder.WriteJSON(w, post)
	}
}

// createPost creates a post in the principal's blog, provisioning the blog
// first if they have none yet, and derives a unique slug from the title.
func (h postHandler) createPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal := ctxGetUser(r.Context())

		var req postRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.logger.Error().Err(err).Msg("Failed to decode post request body")
			h.responder.WriteError(w, errs.NewBadRequestError("malformed request body"))
			return
		}

		if req.Title == nil || *req.Title == "" {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("title"))
			return
		}
		if req.Content == nil || *req.Content == "" {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("content"))
			return
		}

		blog, err := h.blogRepo.FindByUserID(principal.ID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find blog", "blog", err))
			return
		}
		if blog == nil {
			// Lazy provisioning for users that somehow have no blog yet
			blog = &models.Blog{
				UserID: principal.ID,
				Title:  DefaultBlogTitle(principal.Username),
			}
			if err := h.blogRepo.Add(blog); err != nil {
				h.responder.WriteError(w, wrapDatabaseError("create blog", "blog", err))
				return
			}
		}

		var tags []models.Tag
		if req.Tags != nil && len(*req.Tags) > 0 {
			tags, err = h.tagRepo.FindByIDs(*req.Tags)
			if err != nil {
				h.responder.WriteError(w, wrapDatabaseError("find tags", "tags", err))
				return
			}
			if len(tags) != len(*req.Tags) {
				h.responder.WriteError(w, errs.NewInvalidFieldError("tags", "one or more tags do not exist"))
				return
			}
		}

		post := models.Post{
			BlogID:  blog.ID,
			Title:   *req.Title,
			Content: *req.Content,
		}
		if req.Excerpt != nil {
			post.Excerpt = *req.Excerpt
		}
		if req.Cover != nil {
			post.Cover = *req.Cover
		}
		if req.IsPublished != nil {
			post.IsPublished = *req.IsPublished
		}
		if req.PublishedAt != nil {
			post.PublishedAt = req.PublishedAt
		}

		// The optimistic slug check can race another create with the same
		// title; the slug's unique constraint is the final authority, so a
		// collision at insert time is retried with the next candidate.
		inserted := false
		for attempt := 0; attempt < maxSlugAttempts; attempt++ {
			candidate, err := slug.Assign(post.Title, h.slugExists)
			if err != nil {
				h.responder.WriteError(w, wrapDatabaseError("check slug", "post", err))
				return
			}
			post.Slug = candidate

			err = h.insertPost(&post)
			if err == nil {
				inserted = true
				break
			}
			if errs.IsUniqueViolation(err) {
				h.logger.Warn().Str("slug", candidate).Msg("slug collision on insert, retrying")
				continue
			}
			h.responder.WriteError(w, wrapDatabaseError("create post", "post", err))
			return
		}
		if !inserted {
			h.responder.WriteError(w, errs.NewConflictError("could not assign a unique slug"))
			return
		}

		if len(tags) > 0 {
			if err := h.postRepo.ReplaceTags(&post, tags); err != nil {
				h.responder.WriteError(w, wrapDatabaseError("attach tags", "post", err))
				return
			}
		}

		created, err := h.postRepo.FindByID(post.ID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find created post", "post", err))
			return
		}

		h.responder.WriteJSONStatus(w, http.StatusCreated, created)
	}
}

// updatePost handles both PUT and PATCH. The slug survives title changes;
// it is derived once at creation and never again.
func (h postHandler) updatePost(partial bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal := ctxGetUser(r.Context())

		post, ok := h.loadPost(w, r)
		if !ok {
			return
		}

		if !authz.Allowed(principal, authz.ActionUpdate, authz.KindPost, post) {
			h.responder.WriteError(w, errs.NewForbiddenError("you do not own this post"))
			return
		}

		var req postRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.logger.Error().Err(err).Msg("Failed to decode post request body")
			h.responder.WriteError(w, errs.NewBadRequestError("malformed request body"))
			return
		}

		if !partial {
			if req.Title == nil || *req.Title == "" {
				h.responder.WriteError(w, errs.NewMissingRequiredFieldError("title"))
				return
			}
			if req.Content == nil || *req.Content == "" {
				h.responder.WriteError(w, errs.NewMissingRequiredFieldError("content"))
				return
			}
		}

		if req.Title != nil {
			post.Title = *req.Title
		}
		if req.Content != nil {
			post.Content = *req.Content
		}
		if req.Excerpt != nil {
			post.Excerpt = *req.Excerpt
		}
		if req.Cover != nil {
			post.Cover = *req.Cover
		}
		if req.IsPublished != nil {
			post.IsPublished = *req.IsPublished
		}
		if req.PublishedAt != nil {
			post.PublishedAt = req.PublishedAt
		}

		if err := h.postRepo.Update(post); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update post", "post", err))
			return
		}

		if req.Tags != nil {
			tags, err := h.tagRepo.FindByIDs(*req.Tags)
			if err != nil {
				h.responder.WriteError(w, wrapDatabaseError("find tags", "tags", err))
				return
			}
			if len(tags) != len(*req.Tags) {
				h.responder.WriteError(w, errs.NewInvalidFieldError("tags", "one or more tags do not exist"))
				return
			}
			if err := h.postRepo.ReplaceTags(post, tags); err != nil {
				h.responder.WriteError(w, wrapDatabaseError("attach tags", "post", err))
				return
			}
		}

		updated, err := h.postRepo.FindByID(post.ID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find updated post", "post", err))
			return
		}

		h.responder.WriteJSON(w, updated)
	}
}

func (h postHandler) deletePost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal := ctxGetUser(r.Context())

		post, ok := h.loadPost(w, r)
		if !ok {
			return
		}

		if !authz.Allowed(principal, authz.ActionDelete, authz.KindPost, post) {
			h.responder.WriteError(w, errs.NewForbiddenError("you do not own this post"))
			return
		}

		if err := h.postRepo.Delete(post.ID); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete post", "post", err))
			return
		}

		h.responder.WriteJSON(w, map[string]string{
			"status":  "success",
			"message": "post deleted successfully",
		})
	}
}

// publishedPosts returns exactly the posts with is_published set.
func (h postHandler) publishedPosts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		posts, err := h.postRepo.FindPublished()
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find published posts", "posts", err))
			return
		}
		if posts == nil {
			posts = []*models.Post{}
		}
		h.responder.WriteJSON(w, posts)
	}
}

// postsByTag filters the global post set by a case-insensitive tag name
// fragment. Without a tag parameter it returns every post.
func (h postHandler) postsByTag() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tagName := r.URL.Query().Get("tag")

		var posts []*models.Post
		var err error
		if tagName == "" {
			posts, err = h.postRepo.FindAll()
		} else {
			posts, err = h.postRepo.FindByTagName(tagName)
		}
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find posts", "posts", err))
			return
		}
		if posts == nil {
			posts = []*models.Post{}
		}
		h.responder.WriteJSON(w, posts)
	}
}

// loadPost resolves the {postID} URL parameter to a post, writing the 400
// or 404 itself when it cannot.
func (h postHandler) loadPost(w http.ResponseWriter, r *http.Request) (*models.Post, bool) {
	postIDStr := chi.URLParam(r, "postID")
	postID, err := uuid.Parse(postIDStr)
	if err != nil {
		h.responder.WriteError(w, errs.NewBadRequestError("invalid postID"))
		return nil, false
	}

	post, err := h.postRepo.FindByID(postID)
	if err != nil {
		h.responder.WriteError(w, wrapDatabaseError("find post", "post", err))
		return nil, false
	}
	if post == nil {
		h.responder.WriteError(w, errs.NewNotFound("post"))
		return nil, false
	}
	return post, true
}
