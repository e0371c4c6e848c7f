package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/dinehub/backend/api/transport"
	"github.com/dinehub/backend/domain"
	"github.com/dinehub/backend/pkg/httpcontext"
	"github.com/dinehub/backend/usecase/access"
)

type baseHandler struct {
	adapter *httpcontext.Adapter
	logger  *zap.Logger
}

func newBaseHandler(adapter *httpcontext.Adapter, logger *zap.Logger) baseHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return baseHandler{adapter: adapter, logger: logger}
}

func (h baseHandler) requestContext(ctx *fasthttp.RequestCtx) (context.Context, context.CancelFunc) {
	if h.adapter != nil {
		return h.adapter.Attach(ctx)
	}
	return context.WithCancel(context.Background())
}

func (h baseHandler) respondJSON(ctx *fasthttp.RequestCtx, status int, payload transport.Envelope) {
	ctx.Response.Header.SetContentType("application/json")
	ctx.SetStatusCode(status)
	body, _ := json.Marshal(payload)
	ctx.SetBody(body)
}

func (h baseHandler) respondSuccess(ctx *fasthttp.RequestCtx, status int, data interface{}) {
	h.respondJSON(ctx, status, transport.NewSuccess(data, nil))
}

func (h baseHandler) respondError(ctx *fasthttp.RequestCtx, err error) {
	status, code := mapError(err)
	h.respondJSON(ctx, status, transport.NewError(code, err.Error(), nil))
}

// actor rebuilds the acting identity from the headers the auth middleware set.
func (h baseHandler) actor(ctx *fasthttp.RequestCtx) *domain.Actor {
	id := string(ctx.Request.Header.Peek("X-Actor-ID"))
	if id == "" {
		h.respondJSON(ctx, http.StatusUnauthorized, transport.NewError(string(domain.ErrCodeUnauthorized), "missing actor identity", nil))
		return nil
	}
	return &domain.Actor{
		ID:          id,
		Role:        domain.NormalizeRole(string(ctx.Request.Header.Peek("X-Actor-Role"))),
		FranchiseID: string(ctx.Request.Header.Peek("X-Franchise-ID")),
	}
}

func criteriaFromQuery(ctx *fasthttp.RequestCtx) access.Criteria {
	args := ctx.QueryArgs()
	return access.Criteria{
		Search:          string(args.Peek("search")),
		Source:          string(args.Peek("source")),
		Platform:        string(args.Peek("platform")),
		FranchiseID:     string(args.Peek("franchise_id")),
		Status:          string(args.Peek("status")),
		AssignedTo:      string(args.Peek("assigned_to")),
		MinResponseTime: parseInt(string(args.Peek("min_response_time")), 0),
		SortField:       string(args.Peek("sort")),
		SortDesc:        string(args.Peek("order")) == "desc",
	}
}

func parseInt(value string, fallback int) int {
	if v, err := strconv.Atoi(value); err == nil {
		return v
	}
	return fallback
}

func mapError(err error) (int, string) {
	switch {
	case domain.IsDomainError(err, domain.ErrCodeUnauthorized):
		return http.StatusUnauthorized, string(domain.ErrCodeUnauthorized)
	case domain.IsDomainError(err, domain.ErrCodeForbidden):
		return http.StatusForbidden, string(domain.ErrCodeForbidden)
	case domain.IsDomainError(err, domain.ErrCodeInvalid):
		return http.StatusBadRequest, string(domain.ErrCodeInvalid)
	case domain.IsDomainError(err, domain.ErrCodeNotFound):
		return http.StatusNotFound, string(domain.ErrCodeNotFound)
	case domain.IsDomainError(err, domain.ErrCodeConflict):
		return http.StatusConflict, string(domain.ErrCodeConflict)
	case domain.IsDomainError(err, domain.ErrCodeUnavailable):
		return http.StatusServiceUnavailable, string(domain.ErrCodeUnavailable)
	default:
		return http.StatusInternalServerError, string(domain.ErrCodeInternal)
	}
}
