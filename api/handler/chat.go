package handler

import (
	"encoding/json"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/dinehub/backend/api/transport"
	"github.com/dinehub/backend/domain"
	"github.com/dinehub/backend/pkg/httpcontext"
	chatUC "github.com/dinehub/backend/usecase/chat"
)

type ChatHandler struct {
	baseHandler
	uc *chatUC.UseCase
}

func NewChatHandler(uc *chatUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary List conversations
// @Tags conversations
// @Router /api/v1/conversations [get]
func (h *ChatHandler) ListConversations(ctx *fasthttp.RequestCtx) {
	actor := h.actor(ctx)
	if actor == nil {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	convs, err := h.uc.List(stdCtx, actor, criteriaFromQuery(ctx))
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, convs)
}

// @Summary Get a single conversation
// @Tags conversations
// @Router /api/v1/conversations/{id} [get]
func (h *ChatHandler) GetConversation(ctx *fasthttp.RequestCtx) {
	actor := h.actor(ctx)
	if actor == nil {
		return
	}
	id, _ := ctx.UserValue("id").(string)

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	conv, err := h.uc.Get(stdCtx, actor, id)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, conv)
}

// @Summary Conversation message thread
// @Tags conversations
// @Router /api/v1/conversations/{id}/messages [get]
func (h *ChatHandler) Messages(ctx *fasthttp.RequestCtx) {
	actor := h.actor(ctx)
	if actor == nil {
		return
	}
	id, _ := ctx.UserValue("id").(string)

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	messages, err := h.uc.Messages(stdCtx, actor, id)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, messages)
}

// @Summary Send a message
// @Tags conversations
// @Router /api/v1/conversations/{id}/messages [post]
func (h *ChatHandler) SendMessage(ctx *fasthttp.RequestCtx) {
	actor := h.actor(ctx)
	if actor == nil {
		return
	}
	id, _ := ctx.UserValue("id").(string)

	var req transport.SendMessageRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondError(ctx, domain.ErrInvalidPayload)
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	msg, err := h.uc.SendMessage(stdCtx, actor, id, req.Content, domain.Channel(req.Channel))
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, msg)
}

// @Summary Update conversation status
// @Tags conversations
// @Router /api/v1/conversations/{id}/status [put]
func (h *ChatHandler) UpdateStatus(ctx *fasthttp.RequestCtx) {
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

	conv, err := h.uc.UpdateStatus(stdCtx, actor, id, domain.LeadStatus(req.Status))
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, conv)
}

// @Summary Reassign conversation
// @Tags conversations
// @Router /api/v1/conversations/{id}/assignee [put]
func (h *ChatHandler) Reassign(ctx *fasthttp.RequestCtx) {
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

	conv, err := h.uc.Reassign(stdCtx, actor, id, req.AssignedTo)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, conv)
}

// @Summary Archive conversation
// @Tags conversations
// @Router /api/v1/conversations/{id} [delete]
func (h *ChatHandler) Archive(ctx *fasthttp.RequestCtx) {
	actor := h.actor(ctx)
	if actor == nil {
		return
	}
	id, _ := ctx.UserValue("id").(string)

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.Archive(stdCtx, actor, id); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusNoContent, nil)
}
