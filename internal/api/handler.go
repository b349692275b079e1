package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/funnelkit/leadmail/internal/catalog"
	"github.com/funnelkit/leadmail/internal/leads"
	"github.com/funnelkit/leadmail/internal/mailer"
	"github.com/funnelkit/leadmail/internal/mailtmpl"
	"github.com/funnelkit/leadmail/pkg/binder"
	"github.com/funnelkit/leadmail/pkg/environment"
	"github.com/funnelkit/leadmail/pkg/logger"
	"github.com/funnelkit/leadmail/pkg/validator"
)

// Handler serves the lead capture endpoints.
type Handler struct {
	catalog    *catalog.Catalog
	recorder   *leads.Recorder
	resolver   *mailtmpl.Resolver
	dispatcher *mailer.Dispatcher
	env        environment.Environment
	log        *slog.Logger
}

// NewHandler assembles the handler from its collaborators.
func NewHandler(
	cat *catalog.Catalog,
	recorder *leads.Recorder,
	resolver *mailtmpl.Resolver,
	dispatcher *mailer.Dispatcher,
	env environment.Environment,
	log *slog.Logger,
) *Handler {
	return &Handler{
		catalog:    cat,
		recorder:   recorder,
		resolver:   resolver,
		dispatcher: dispatcher,
		env:        env,
		log:        log.With(logger.Component("api")),
	}
}

type submitRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	ProductSlug string `json:"productSlug"`
}

// SubmitEmail handles POST /api/submit-email: validate the lead, append it to
// the product's lead log, then deliver the ebook email. The lead is recorded
// before the send is attempted, so a delivery failure never loses the lead.
func (h *Handler) SubmitEmail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req submitRequest
	if err := binder.JSON(r, &req); err != nil {
		h.log.WarnContext(ctx, "rejected request body", logger.Error(err))
		respondError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	if err := validator.Apply(
		validator.Required("name", req.Name),
		validator.Required("email", req.Email),
		validator.Required("productSlug", req.ProductSlug),
	); err != nil {
		respondError(w, http.StatusBadRequest, msgMissingFields)
		return
	}

	product, ok := h.catalog.Lookup(req.ProductSlug)
	if !ok {
		respondError(w, http.StatusBadRequest, msgInvalidProduct)
		return
	}

	if err := validator.Apply(validator.ValidEmail("email", req.Email)); err != nil {
		respondError(w, http.StatusBadRequest, msgInvalidEmail)
		return
	}

	if err := h.recorder.Record(ctx, product.Slug, req.Name, req.Email); err != nil {
		h.log.ErrorContext(ctx, "failed to record lead",
			logger.Error(err), logger.Product(product.Slug))
		respondError(w, http.StatusInternalServerError, msgInternalError)
		return
	}

	htmlBody := h.resolver.Resolve(product, req.Name)
	if err := h.dispatcher.Dispatch(ctx, product, req.Name, req.Email, htmlBody); err != nil {
		respondError(w, http.StatusInternalServerError, msgInternalError)
		return
	}

	respondJSON(w, http.StatusOK, envelope{
		Success: true,
		Message: msgSent,
		Product: product.Name,
	})
}

type healthResponse struct {
	Status      string   `json:"status"`
	Timestamp   string   `json:"timestamp"`
	Products    []string `json:"products"`
	Environment string   `json:"environment"`
}

// Health handles GET /health.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, healthResponse{
		Status:      "ok",
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
		Products:    h.catalog.Slugs(),
		Environment: string(h.env),
	})
}

type productsResponse struct {
	Success  bool            `json:"success"`
	Products []catalog.Entry `json:"products"`
}

// ListProducts handles GET /api/products.
func (h *Handler) ListProducts(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, productsResponse{
		Success:  true,
		Products: h.catalog.List(),
	})
}
