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

type tagHandler struct {
	responder Responder
	logger    zerolog.Logger
	tagRepo   *database.TagRepo
}

func newTagHandler(tagRepo *database.TagRepo) tagHandler {
	logger := log.With().Str("handlerName", "tagHandler").Logger()

	return tagHandler{
		responder: NewResponder(logger),
		logger:    logger,
		tagRepo:   tagRepo,
	}
}

type tagRequest struct {
	Name string `json:"name"`
}

func (h tagHandler) listTags() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tags, err := h.tagRepo.FindAll()
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find tags", "tags", err))
			return
		}
		if tags == nil {
			tags = []*models.Tag{}
		}
		h.responder.WriteJSON(w, tags)
	}
}

func (h tagHandler) getTag() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tag, ok := h.loadTag(w, r)
		if !ok {
			return
		}
		h.responder.WriteJSON(w, tag)
	}
}

// createTag creates a global tag. Tags are shared vocabulary, so only
// superusers may write them.
func (h tagHandler) createTag() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal := ctxGetUser(r.Context())
		if !authz.Allowed(principal, authz.ActionCreate, authz.KindTag, nil) {
			h.responder.WriteError(w, errs.NewForbiddenError("only superusers can create tags"))
			return
		}

		var req tagRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.logger.Error().Err(err).Msg("Failed to decode tag request body")
			h.responder.WriteError(w, errs.NewBadRequestError("malformed request body"))
			return
		}

		if req.Name == "" {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("name"))
			return
		}

		tag := models.Tag{Name: req.Name}
		if err := h.tagRepo.Add(&tag); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create tag", "tag", err))
			return
		}

		h.responder.WriteJSONStatus(w, http.StatusCreated, tag)
	}
}

func (h tagHandler) updateTag() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal := ctxGetUser(r.Context())

		tag, ok := h.loadTag(w, r)
		if !ok {
			return
		}

		if !authz.Allowed(principal, authz.ActionUpdate, authz.KindTag, tag) {
			h.responder.WriteError(w, errs.NewForbiddenError("only superusers can modify tags"))
			return
		}

		var req tagRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.logger.Error().Err(err).Msg("Failed to decode tag request body")
			h.responder.WriteError(w, errs.NewBadRequestError("malformed request body"))
			return
		}

		if req.Name == "" {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("name"))
			return
		}

		tag.Name = req.Name
		if err := h.tagRepo.Update(tag); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update tag", "tag", err))
			return
		}

		h.responder.WriteJSON(w, tag)
	}
}

func (h tagHandler) deleteTag() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal := ctxGetUser(r.Context())

		tag, ok := h.loadTag(w, r)
		if !ok {
			return
		}

		if !authz.Allowed(principal, authz.ActionDelete, authz.KindTag, tag) {
			h.responder.WriteError(w, errs.NewForbiddenError("only superusers can delete tags"))
			return
		}

		if err := h.tagRepo.Delete(tag.ID); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete tag", "tag", err))
			return
		}

		h.responder.WriteJSON(w, map[string]string{
			"status":  "success",
			"message": "tag deleted successfully",
		})
	}
}

func (h tagHandler) loadTag(w http.ResponseWriter, r *http.Request) (*models.Tag, bool) {
	tagIDStr := chi.URLParam(r, "tagID")
	tagID, err := uuid.Parse(tagIDStr)
	if err != nil {
		h.responder.WriteError(w, errs.NewBadRequestError("invalid tagID"))
		return nil, false
	}

	tag, err := h.tagRepo.FindByID(tagID)
	if err != nil {
		h.responder.WriteError(w, wrapDatabaseError("find tag", "tag", err))
		return nil, false
	}
	if tag == nil {
		h.responder.WriteError(w, errs.NewNotFound("tag"))
		return nil, false
	}
	return tag, true
}
