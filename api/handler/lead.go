package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/dinehub/backend/api/transport"
	"github.com/dinehub/backend/domain"
	"github.com/dinehub/backend/pkg/httpcontext"
	leadUC "github.com/dinehub/backend/usecase/lead"
)

type LeadHandler struct {
	baseHandler
	uc *leadUC.UseCase
}

func NewLeadHandler(uc *leadUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *LeadHandler {
	return &LeadHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary List leads
// @Tags leads
// @Router /api/v1/leads [get]
func (h *LeadHandler) ListLeads(ctx *fasthttp.RequestCtx) {
	actor := h.actor(ctx)
	if actor == nil {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	leads, err := h.uc.List(stdCtx, actor, criteriaFromQuery(ctx))
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, leads)
}

// @Summary Get a single lead
// @Tags leads
// @Router /api/v1/leads/{id} [get]
func (h *LeadHandler) GetLead(ctx *fasthttp.RequestCtx) {
	actor := h.actor(ctx)
	if actor == nil {
		return
	}
	id, _ := ctx.UserValue("id").(string)

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	lead, err := h.uc.Get(stdCtx, actor, id)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, lead)
}

// @Summary Create lead
// @Tags leads
// @Router /api/v1/leads [post]
func (h *LeadHandler) CreateLead(ctx *fasthttp.RequestCtx) {
	actor := h.actor(ctx)
	if actor == nil {
		return
	}

	var req transport.LeadCreateRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondError(ctx, domain.ErrInvalidPayload)
		return
	}

	lead := &domain.Lead{
		FranchiseID: req.FranchiseID,
		Name:        req.Name,
		Phone:       req.Phone,
		Email:       req.Email,
		Source:      req.Source,
		Status:      domain.LeadStatus(req.Status),
		AssignedTo:  req.AssignedTo,
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	created, err := h.uc.Create(stdCtx, actor, lead)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, created)
}

// @Summary Update lead status
// @Tags leads
// @Router /api/v1/leads/{id}/status [put]
func (h *LeadHandler) UpdateStatus(ctx *fasthttp.RequestCtx) {
	actor := h.actor(ctx)
	if actor == nil {
		return
	}
	id, _ := ctx.UserValue("id").(string)

	var req transport.StatusRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondError(ctx, domain.ErrInvalidPayload)
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	lead, err := h.uc.UpdateStatus(stdCtx, actor, id, domain.LeadStatus(req.Status))
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, lead)
}

// @Summary Reassign lead
// @Tags leads
// @Router /api/v1/leads/{id}/assignee [put]
func (h *LeadHandler) Reassign(ctx *fasthttp.RequestCtx) {
	actor := h.actor(ctx)
	if actor == nil {
		return
	}
	id, _ := ctx.UserValue("id").(string)

	var req transport.ReassignRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondError(ctx, domain.ErrInvalidPayload)
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	lead, err := h.uc.Reassign(stdCtx, actor, id, req.AssignedTo)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, lead)
}

// @Summary Add a note to a lead
// @Tags leads
// @Router /api/v1/leads/{id}/notes [post]
func (h *LeadHandler) AddNote(ctx *fasthttp.RequestCtx) {
	actor := h.actor(ctx)
	if actor == nil {
		return
	}
	id, _ := ctx.UserValue("id").(string)

	var req transport.NoteRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondError(ctx, domain.ErrInvalidPayload)
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.AddNote(stdCtx, actor, id, req.Text); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, nil)
}

// @Summary Schedule a follow-up
// @Tags leads
// @Router /api/v1/leads/{id}/follow-ups [post]
func (h *LeadHandler) AddFollowUp(ctx *fasthttp.RequestCtx) {
	actor := h.actor(ctx)
	if actor == nil {
		return
	}
	id, _ := ctx.UserValue("id").(string)

	var req transport.FollowUpRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondError(ctx, domain.ErrInvalidPayload)
		return
	}
	scheduledFor, err := time.Parse(time.RFC3339, req.ScheduledFor)
	if err != nil {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "scheduled_for must be RFC3339", nil))
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	followUp, err := h.uc.AddFollowUp(stdCtx, actor, id, req.Notes, scheduledFor)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, followUp)
}

// @Summary Complete a follow-up
// @Tags leads
// @Router /api/v1/follow-ups/{id}/complete [post]
func (h *LeadHandler) CompleteFollowUp(ctx *fasthttp.RequestCtx) {
	actor := h.actor(ctx)
	if actor == nil {
		return
	}
	id, _ := ctx.UserValue("id").(string)

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.CompleteFollowUp(stdCtx, actor, id); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, nil)
}

// @Summary Convert lead to booking
// @Tags leads
// @Router /api/v1/leads/{id}/convert [post]
func (h *LeadHandler) Convert(ctx *fasthttp.RequestCtx) {
	actor := h.actor(ctx)
	if actor == nil {
		return
	}
	id, _ := ctx.UserValue("id").(string)

	var req transport.ConvertRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil || req.BookingID == "" {
		h.respondError(ctx, domain.ErrInvalidPayload)
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	lead, err := h.uc.ConvertToBooking(stdCtx, actor, id, req.BookingID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, lead)
}

// @Summary Lead activity history
// @Tags leads
// @Router /api/v1/leads/{id}/activities [get]
func (h *LeadHandler) Activities(ctx *fasthttp.RequestCtx) {
	actor := h.actor(ctx)
	if actor == nil {
		return
	}
	id, _ := ctx.UserValue("id").(string)

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	activities, err := h.uc.Activities(stdCtx, actor, id)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, activities)
}

// @Summary Apply a bulk operation to selected leads
// @Tags leads
// @Router /api/v1/leads/bulk [post]
func (h *LeadHandler) Bulk(ctx *fasthttp.RequestCtx) {
	actor := h.actor(ctx)
	if actor == nil {
		return
	}

	var req transport.BulkRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil || len(req.IDs) == 0 || req.Operation == "" {
		h.respondError(ctx, domain.ErrInvalidPayload)
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	result, err := h.uc.BulkApply(stdCtx, actor, req.IDs, leadUC.BulkOperation(req.Operation), leadUC.BulkParams{
		FranchiseID: req.FranchiseID,
		Status:      domain.LeadStatus(req.Status),
		Filename:    req.Filename,
	})
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, result)
}
