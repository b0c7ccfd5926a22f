// Package web serves the browsable front end: published posts rendered as
// HTML, addressed by slug.
package web

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/quillhub/quillhub-backend/database"
)

//go:embed templates/*.html
var templateFS embed.FS

type Handler struct {
	logger   zerolog.Logger
	postRepo *database.PostRepo
	tmpl     *template.Template
}

func NewHandler(postRepo *database.PostRepo) Handler {
	logger := log.With().Str("handlerName", "webHandler").Logger()

	return Handler{
		logger:   logger,
		postRepo: postRepo,
		tmpl:     template.Must(template.ParseFS(templateFS, "templates/*.html")),
	}
}

// PostList renders all published posts, newest first.
func (h Handler) PostList() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		posts, err := h.postRepo.FindPublished()
		if err != nil {
			h.logger.Error().Err(err).Msg("failed to load published posts")
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}

		h.render(w, "post_list.html", map[string]any{
			"Posts": posts,
		})
	}
}

// PostDetail renders a single post addressed by slug. Unpublished posts are
// still reachable by slug holders, matching the API's global read rule.
func (h Handler) PostDetail() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug := chi.URLParam(r, "slug")

		post, err := h.postRepo.FindBySlug(slug)
		if err != nil {
			h.logger.Error().Err(err).Str("slug", slug).Msg("failed to load post")
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}
		if post == nil {
			http.NotFound(w, r)
			return
		}

		h.render(w, "post_detail.html", map[string]any{
			"Post": post,
			// Post content is authored HTML; render it as-is
			"Content": template.HTML(post.Content),
		})
	}
}

func (h Handler) render(w http.ResponseWriter, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.tmpl.ExecuteTemplate(w, name, data); err != nil {
		h.logger.Error().Err(err).Str("template", name).Msg("template execution failed")
	}
}
