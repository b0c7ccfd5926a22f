package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/quillhub/quillhub-backend/authz"
	"github.com/quillhub/quillhub-backend/database"
	"github.com/quillhub/quillhub-backend/errs"
	"github.com/quillhub/quillhub-backend/models"
)

type blogHandler struct {
	responder Responder
	logger    zerolog.Logger
	blogRepo  *database.BlogRepo
}

func newBlogHandler(blogRepo *database.BlogRepo) blogHandler {
	logger := log.With().Str("handlerName", "blogHandler").Logger()

	return blogHandler{
		responder: NewResponder(logger),
		logger:    logger,
		blogRepo:  blogRepo,
	}
}

type blogRequest struct {
	Title *string `json:"title"`
	Bio   *string `json:"bio"`
}

// listBlogs returns all blogs. Reads are global; only writes are
// owner-scoped.
func (h blogHandler) listBlogs() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		blogs, err := h.blogRepo.FindAll()
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find blogs", "blogs", err))
			return
		}
		if blogs == nil {
			blogs = []*models.Blog{}
		}
		h.responder.WriteJSON(w, blogs)
	}
}

func (h blogHandler) getBlog() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		blog, ok := h.loadBlog(w, r)
		if !ok {
			return
		}
		h.responder.WriteJSON(w, blog)
	}
}

// createBlog creates a blog owned by the principal. The store's unique
// constraint on the owner turns a second attempt into a 409.
func (h blogHandler) createBlog() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal := ctxGetUser(r.Context())

		var req blogRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.logger.Error().Err(err).Msg("Failed to decode blog request body")
			h.responder.WriteError(w, errs.NewBadRequestError("malformed request body"))
			return
		}

		if req.Title == nil || *req.Title == "" {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("title"))
			return
		}

		blog := models.Blog{
			UserID: principal.ID,
			Title:  *req.Title,
		}
		if req.Bio != nil {
			blog.Bio = *req.Bio
		}

		if err := h.blogRepo.Add(&blog); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create blog", "blog", err))
			return
		}

		created, err := h.blogRepo.FindByID(blog.ID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find created blog", "blog", err))
			return
		}

		h.responder.WriteJSONStatus(w, http.StatusCreated, created)
	}
}

// updateBlog handles both PUT and PATCH; partial controls whether missing
// fields are errors or left untouched.
func (h blogHandler) updateBlog(partial bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal := ctxGetUser(r.Context())

		blog, ok := h.loadBlog(w, r)
		if !ok {
			return
		}

		if !authz.Allowed(principal, authz.ActionUpdate, authz.KindBlog, blog) {
			h.responder.WriteError(w, errs.NewForbiddenError("you do not own this blog"))
			return
		}

		var req blogRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.logger.Error().Err(err).Msg("Failed to decode blog request body")
			h.responder.WriteError(w, errs.NewBadRequestError("malformed request body"))
			return
		}

		if !partial && (req.Title == nil || *req.Title == "") {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("title"))
			return
		}

		if req.Title != nil {
			blog.Title = *req.Title
		}
		if req.Bio != nil {
			blog.Bio = *req.Bio
		}

		if err := h.blogRepo.Update(blog); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update blog", "blog", err))
			return
		}

		h.responder.WriteJSON(w, blog)
	}
}

func (h blogHandler) deleteBlog() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal := ctxGetUser(r.Context())

		blog, ok := h.loadBlog(w, r)
		if !ok {
			return
		}

		if !authz.Allowed(principal, authz.ActionDelete, authz.KindBlog, blog) {
			h.responder.WriteError(w, errs.NewForbiddenError("you do not own this blog"))
			return
		}

		if err := h.blogRepo.Delete(blog.ID); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete blog", "blog", err))
			return
		}

		h.responder.WriteJSON(w, map[string]string{
			"status":  "success",
			"message": "blog deleted successfully",
		})
	}
}

// loadBlog resolves the {blogID} URL parameter to a blog, writing the 400
// or 404 itself when it cannot.
func (h blogHandler) loadBlog(w http.ResponseWriter, r *http.Request) (*models.Blog, bool) {
	blogIDStr := chi.URLParam(r, "blogID")
	blogID, err := uuid.Parse(blogIDStr)
	if err != nil {
		h.responder.WriteError(w, errs.NewBadRequestError("invalid blogID"))
		return nil, false
	}

	blog, err := h.blogRepo.FindByID(blogID)
	if err != nil {
		h.responder.WriteError(w, wrapDatabaseError("find blog", "blog", err))
		return nil, false
	}
	if blog == nil {
		h.responder.WriteError(w, errs.NewNotFound("blog"))
		return nil, false
	}
	return blog, true
}
