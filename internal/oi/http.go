// Copyright (c) 2026 Inkdex. All rights reserved.
// Author: thanh.phamduy.vn@gmail.com

package oi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/inkdex/inkdex/internal/display"
	"github.com/inkdex/inkdex/internal/platform/apperr"
	requestutil "github.com/inkdex/inkdex/internal/platform/request"
	"github.com/inkdex/inkdex/internal/platform/respond"
	"github.com/inkdex/inkdex/pkg/pagination"
)

// Handler implements the HTTP layer for the revision workflow. It
// translates web requests into engine calls; every invariant lives in the
// engine, never here.
type Handler struct {
	engine  *Engine
	store   display.Store
	data    Store
	recents *RedisRecents
}

// NewHandler constructs a revision [Handler]. recents may be nil when no
// feed backend is configured; the feed endpoint then returns empty.
func NewHandler(engine *Engine, store display.Store, data Store, recents *RedisRecents) *Handler {
	return &Handler{engine: engine, store: store, data: data, recents: recents}
}

// Routes returns a [chi.Router] configured with the revision workflow
// endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// # Changeset Lifecycle
	router.Post("/changesets", handler.createChangeset)
	router.Get("/changesets/{id}", handler.getChangeset)
	router.Post("/changesets/{id}/submit", handler.submitChangeset)
	router.Post("/changesets/{id}/review", handler.reviewChangeset)
	router.Post("/changesets/{id}/release", handler.releaseChangeset)
	router.Post("/changesets/{id}/approve", handler.approveChangeset)
	router.Post("/changesets/{id}/discard", handler.discardChangeset)

	// # Revision Staging
	router.Post("/changesets/{id}/revisions", handler.stageRevision)
	router.Patch("/revisions/{kind}/{id}", handler.updateRevision)

	// # Feeds
	router.Get("/recents", handler.recentlyIndexed)

	return router
}

// translateErr maps engine errors onto the API error vocabulary.
// Preconditions are the submitter's to repair; faults are ours.
func translateErr(err error) error {
	switch {
	case errors.Is(err, ErrChangesetNotFound):
		return apperr.NotFound("Changeset")
	case errors.Is(err, ErrRevisionNotFound):
		return apperr.NotFound("Revision")
	case errors.Is(err, display.ErrNotFound):
		return apperr.NotFound("Display row")
	case IsPrecondition(err):
		return apperr.Unprocessable(err.Error())
	case IsFault(err):
		return apperr.Internal(err)
	default:
		return err
	}
}

// stageTarget names one display row a new changeset reserves. ID 0 stages
// a brand-new row of the kind; Delete marks the staged revision deleting.
type stageTarget struct {
	Kind   string `json:"kind"`
	ID     int64  `json:"id"`
	Delete bool   `json:"delete"`
}

// stage reserves one target row and persists its pending revision.
func (handler *Handler) stage(r *http.Request, changeset *Changeset, target stageTarget) (EntityRevision, error) {
	kind := display.Kind(target.Kind)
	rev, err := newRevisionFor(kind)
	if err != nil {
		return nil, apperr.ValidationError("unknown revision kind: " + target.Kind)
	}
	rev.Base().Deleted = target.Delete

	if target.ID == 0 {
		if target.Delete {
			return nil, apperr.ValidationError("a deletion needs an existing row id")
		}
		if err := handler.engine.Add(r.Context(), rev, changeset); err != nil {
			return nil, translateErr(err)
		}
		return rev, nil
	}

	src, err := handler.store.Get(r.Context(), kind, target.ID)
	if err != nil {
		return nil, translateErr(err)
	}
	if err := handler.engine.Clone(r.Context(), rev, src, changeset); err != nil {
		return nil, translateErr(err)
	}
	return rev, nil
}

/*
POST /api/v1/oi/changesets.

Description: Opens an editing session, reserving every named display row
and staging one pending revision per target.

Request:
  - change_type: string
  - targets: []stageTarget

Response:
  - 201: Changeset id and staged revisions
  - 404: ErrNotFound: A target row does not exist
  - 422: Unprocessable: A target row is reserved by another changeset
*/
func (handler *Handler) createChangeset(writer http.ResponseWriter, request *http.Request) {

	// Identify the submitting editor
	indexer, err := requestutil.RequiredIndexer(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var body struct {
		ChangeType string        `json:"change_type"`
		Targets    []stageTarget `json:"targets"`
	}
	if err := requestutil.DecodeJSON(request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}
	if body.ChangeType == "" {
		respond.Error(writer, request, apperr.ValidationError("change_type is required"))
		return
	}

	// Open the session
	changeset, err := handler.engine.NewChangeset(request.Context(), indexer, ChangeType(body.ChangeType))
	if err != nil {
		respond.Error(writer, request, translateErr(err))
		return
	}

	// Reserve and stage each target. A failed target leaves the changeset
	// open so the editor can discard or retry.
	revisions := make([]EntityRevision, 0, len(body.Targets))
	for _, target := range body.Targets {
		rev, err := handler.stage(request, changeset, target)
		if err != nil {
			respond.Error(writer, request, err)
			return
		}
		revisions = append(revisions, rev)
	}

	respond.Created(writer, map[string]any{
		"changeset": changeset,
		"revisions": revisions,
	})
}

/*
GET /api/v1/oi/changesets/{id}.

Description: Returns a changeset with its review trail, staged revisions,
and the display action approving it would take.

Response:
  - 200: Changeset detail
  - 404: ErrNotFound: Changeset not found
*/
func (handler *Handler) getChangeset(writer http.ResponseWriter, request *http.Request) {

	id, err := requestutil.Int64Param(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	changeset, err := handler.data.Changesets().Get(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, translateErr(err))
		return
	}

	revisions, err := handler.data.Revisions().ByChangeset(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, translateErr(err))
		return
	}

	action, err := handler.engine.ChangesetAction(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, translateErr(err))
		return
	}

	respond.OK(writer, map[string]any{
		"changeset": changeset,
		"revisions": revisions,
		"action":    action,
	})
}

/*
POST /api/v1/oi/changesets/{id}/submit.

Description: Moves an open changeset into the review queue.

Request:
  - comment: string

Response:
  - 200: Updated changeset
  - 422: Unprocessable: Wrong state
*/
func (handler *Handler) submitChangeset(writer http.ResponseWriter, request *http.Request) {
	handler.transition(writer, request, func(cs *Changeset, _, comment string) error {
		return cs.Submit(comment)
	})
}

/*
POST /api/v1/oi/changesets/{id}/review.

Description: Assigns the calling editor as approver and moves the
changeset under review.

Request:
  - comment: string

Response:
  - 200: Updated changeset
  - 422: Unprocessable: Wrong state
*/
func (handler *Handler) reviewChangeset(writer http.ResponseWriter, request *http.Request) {
	handler.transition(writer, request, func(cs *Changeset, caller, comment string) error {
		return cs.Review(caller, comment)
	})
}

/*
POST /api/v1/oi/changesets/{id}/release.

Description: Returns a changeset under review to the queue.

Request:
  - comment: string

Response:
  - 200: Updated changeset
  - 422: Unprocessable: Wrong state
*/
func (handler *Handler) releaseChangeset(writer http.ResponseWriter, request *http.Request) {
	handler.transition(writer, request, func(cs *Changeset, _, comment string) error {
		return cs.Release(comment)
	})
}

// transition runs one state machine move on a changeset and persists it.
func (handler *Handler) transition(writer http.ResponseWriter, request *http.Request, move func(cs *Changeset, caller, comment string) error) {
	caller, err := requestutil.RequiredIndexer(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	id, err := requestutil.Int64Param(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var body struct {
		Comment string `json:"comment"`
	}
	if err := requestutil.DecodeJSON(request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	changeset, err := handler.data.Changesets().Get(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, translateErr(err))
		return
	}
	if err := move(changeset, caller, body.Comment); err != nil {
		respond.Error(writer, request, translateErr(err))
		return
	}
	if err := handler.data.Changesets().Save(request.Context(), changeset); err != nil {
		respond.Error(writer, request, translateErr(err))
		return
	}
	respond.OK(writer, changeset)
}

/*
POST /api/v1/oi/changesets/{id}/approve.

Description: Commits every revision of a changeset to display.

Request:
  - comment: string

Response:
  - 200: Approved changeset
  - 422: Unprocessable: Wrong state or a repairable precondition
  - 500: Internal: Structural inconsistency during commit
*/
func (handler *Handler) approveChangeset(writer http.ResponseWriter, request *http.Request) {
	approver, err := requestutil.RequiredIndexer(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	id, err := requestutil.Int64Param(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var body struct {
		Comment string `json:"comment"`
	}
	if err := requestutil.DecodeJSON(request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.engine.Approve(request.Context(), id, approver, body.Comment); err != nil {
		respond.Error(writer, request, translateErr(err))
		return
	}

	changeset, err := handler.data.Changesets().Get(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, translateErr(err))
		return
	}
	respond.OK(writer, changeset)
}

/*
POST /api/v1/oi/changesets/{id}/discard.

Description: Abandons a changeset. Open revisions are marked discarded,
reservations clear, and every row lock releases.

Request:
  - comment: string

Response:
  - 200: Discarded changeset
  - 422: Unprocessable: Wrong state
*/
func (handler *Handler) discardChangeset(writer http.ResponseWriter, request *http.Request) {
	author, err := requestutil.RequiredIndexer(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	id, err := requestutil.Int64Param(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var body struct {
		Comment string `json:"comment"`
	}
	if err := requestutil.DecodeJSON(request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.engine.Discard(request.Context(), id, author, body.Comment); err != nil {
		respond.Error(writer, request, translateErr(err))
		return
	}

	changeset, err := handler.data.Changesets().Get(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, translateErr(err))
		return
	}
	respond.OK(writer, changeset)
}

/*
POST /api/v1/oi/changesets/{id}/revisions.

Description: Reserves one more display row for an open changeset and
stages its pending revision.

Request:
  - stageTarget

Response:
  - 201: The staged revision
  - 422: Unprocessable: Wrong state or row already reserved
*/
func (handler *Handler) stageRevision(writer http.ResponseWriter, request *http.Request) {
	if _, err := requestutil.RequiredIndexer(request); err != nil {
		respond.Error(writer, request, err)
		return
	}
	id, err := requestutil.Int64Param(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var target stageTarget
	if err := requestutil.DecodeJSON(request, &target); err != nil {
		respond.Error(writer, request, err)
		return
	}

	changeset, err := handler.data.Changesets().Get(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, translateErr(err))
		return
	}
	if changeset.State != StateOpen {
		respond.Error(writer, request, apperr.Unprocessable("changeset is not open for editing"))
		return
	}

	rev, err := handler.stage(request, changeset, target)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, rev)
}

/*
PATCH /api/v1/oi/revisions/{kind}/{id}.

Description: Updates the editable fields of a staged revision. Only open
revisions of open changesets accept edits; bookkeeping fields in the body
are ignored.

Request:
  - Partial revision document

Response:
  - 200: The updated revision
  - 404: ErrNotFound: Revision not found
  - 422: Unprocessable: Revision or changeset no longer open
*/
func (handler *Handler) updateRevision(writer http.ResponseWriter, request *http.Request) {
	if _, err := requestutil.RequiredIndexer(request); err != nil {
		respond.Error(writer, request, err)
		return
	}
	kind := display.Kind(requestutil.Param(request, "kind"))
	id, err := requestutil.Int64Param(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	rev, err := handler.data.Revisions().Get(request.Context(), kind, id)
	if err != nil {
		respond.Error(writer, request, translateErr(err))
		return
	}
	if !rev.Base().Open() {
		respond.Error(writer, request, apperr.Unprocessable("revision is no longer open"))
		return
	}
	changeset, err := handler.data.Changesets().Get(request.Context(), rev.Base().ChangesetID)
	if err != nil {
		respond.Error(writer, request, translateErr(err))
		return
	}
	if changeset.State != StateOpen {
		respond.Error(writer, request, apperr.Unprocessable("changeset is not open for editing"))
		return
	}

	// Snapshot the bookkeeping, overlay the body, restore the bookkeeping.
	// The document only ever edits field values.
	snapshot := *rev.Base()
	if err := json.NewDecoder(request.Body).Decode(rev); err != nil {
		respond.Error(writer, request, apperr.ValidationError("invalid JSON payload"))
		return
	}
	*rev.Base() = snapshot

	if err := handler.data.Revisions().Save(request.Context(), rev); err != nil {
		respond.Error(writer, request, translateErr(err))
		return
	}
	respond.OK(writer, rev)
}

/*
GET /api/v1/oi/recents.

Description: Returns the ids of recently indexed issues, newest first.
Supports page/limit query parameters over the capped feed.

Response:
  - 200: Paginated []int64
*/
func (handler *Handler) recentlyIndexed(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)

	ids := []int64{}
	if handler.recents != nil {
		var err error
		ids, err = handler.recents.Recent(request.Context())
		if err != nil {
			respond.Error(writer, request, translateErr(err))
			return
		}
	}

	total := len(ids)
	from := params.Offset()
	if from > total {
		from = total
	}
	to := from + params.Limit
	if to > total {
		to = total
	}

	respond.Paginated(writer, ids[from:to], pagination.NewMeta(params.Page, params.Limit, total))
}
