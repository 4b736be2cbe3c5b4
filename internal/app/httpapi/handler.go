// Package httpapi exposes the REST surface of the service.
package httpapi

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	app "github.com/shopstack/commerce-core/internal/app"
	"github.com/shopstack/commerce-core/internal/app/domain/product"
	"github.com/shopstack/commerce-core/internal/app/domain/user"
	"github.com/shopstack/commerce-core/internal/app/services/catalog"
	"github.com/shopstack/commerce-core/internal/errors"
	"github.com/shopstack/commerce-core/internal/middleware"
)

// handler bundles HTTP endpoints for the application services.
type handler struct {
	app *app.Application
}

// route binds an operation to its path and required-role set. A nil policy is
// public; an empty policy admits any authenticated identity.
type route struct {
	method  string
	path    string
	policy  *middleware.RolePolicy
	handler http.HandlerFunc
}

var (
	anyAuthenticated = &middleware.RolePolicy{}
	adminOnly        = &middleware.RolePolicy{Required: []user.Role{user.RoleAdmin}}
)

// NewHandler returns a router exposing the REST API. Protected routes run the
// identity guard and then the role guard for their declared policy.
func NewHandler(application *app.Application, authmw *middleware.AuthMiddleware, audit *AuditLog) http.Handler {
	h := &handler{app: application}

	routes := []route{
		{http.MethodPost, "/auth/register", nil, h.register},
		{http.MethodPost, "/auth/login", nil, h.login},
		{http.MethodGet, "/healthz", nil, h.health},
		{http.MethodGet, "/products", nil, h.listProducts},
		{http.MethodGet, "/products/{id}", nil, h.getProduct},
		{http.MethodPost, "/products", adminOnly, h.createProduct},
		{http.MethodPut, "/products/{id}", adminOnly, h.updateProduct},
		{http.MethodDelete, "/products/{id}", adminOnly, h.deleteProduct},
		{http.MethodPost, "/orders", anyAuthenticated, h.createOrder},
		{http.MethodGet, "/orders", anyAuthenticated, h.listOrders},
		{http.MethodGet, "/orders/{id}", adminOnly, h.getOrder},
	}

	r := mux.NewRouter()
	for _, rt := range routes {
		var endpoint http.Handler = rt.handler
		if rt.policy != nil {
			endpoint = middleware.RequireRoles(*rt.policy)(endpoint)
			if audit != nil {
				// Runs inside the identity guard so the resolved identity is
				// visible in the request context.
				endpoint = wrapWithAudit(endpoint, audit)
			}
			endpoint = authmw.Handler(endpoint)
		}
		r.Handle(rt.path, endpoint).Methods(rt.method)
	}
	return r
}

func (h *handler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// --- auth -------------------------------------------------------------------

func (h *handler) register(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Role     string `json:"role"`
	}
	if err := decodeJSON(r.Body, &payload); err != nil {
		writeError(w, errors.Validation("invalid request body"))
		return
	}

	created, token, err := h.app.Accounts.Register(r.Context(), payload.Email, payload.Password, user.Role(payload.Role))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, struct {
		User        user.User `json:"user"`
		AccessToken string    `json:"accessToken"`
	}{User: created, AccessToken: token})
}

func (h *handler) login(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r.Body, &payload); err != nil {
		writeError(w, errors.Validation("invalid request body"))
		return
	}

	token, err := h.app.Accounts.Login(r.Context(), payload.Email, payload.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"accessToken": token})
}

// --- products ---------------------------------------------------------------

func (h *handler) listProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	products, err := h.app.Catalog.List(r.Context(), catalog.ListParams{
		Skip:     q.Get("skip"),
		Take:     q.Get("take"),
		Category: q.Get("category"),
		MaxPrice: q.Get("price"),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

func (h *handler) getProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.app.Catalog.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *handler) createProduct(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Name        string  `json:"name"`
		Description string  `json:"description"`
		Price       float64 `json:"price"`
		Category    string  `json:"category"`
		Stock       int     `json:"stock"`
	}
	if err := decodeJSON(r.Body, &payload); err != nil {
		writeError(w, errors.Validation("invalid request body"))
		return
	}

	created, err := h.app.Catalog.Create(r.Context(), product.Product{
		Name:        payload.Name,
		Description: payload.Description,
		Price:       payload.Price,
		Category:    payload.Category,
		Stock:       payload.Stock,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *handler) updateProduct(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Name        *string  `json:"name"`
		Description *string  `json:"description"`
		Price       *float64 `json:"price"`
		Category    *string  `json:"category"`
		Stock       *int     `json:"stock"`
	}
	if err := decodeJSON(r.Body, &payload); err != nil {
		writeError(w, errors.Validation("invalid request body"))
		return
	}

	updated, err := h.app.Catalog.Update(r.Context(), mux.Vars(r)["id"], product.Update{
		Name:        payload.Name,
		Description: payload.Description,
		Price:       payload.Price,
		Category:    payload.Category,
		Stock:       payload.Stock,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *handler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.app.Catalog.Delete(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, deleted)
}

// --- orders -----------------------------------------------------------------

func (h *handler) createOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		writeError(w, errors.Unauthorized("missing identity"))
		return
	}

	var payload struct {
		ProductIDs []string `json:"productIds"`
		TotalPrice float64  `json:"totalPrice"`
	}
	if err := decodeJSON(r.Body, &payload); err != nil {
		writeError(w, errors.Validation("invalid request body"))
		return
	}

	created, err := h.app.Orders.Create(r.Context(), id.UserID, payload.ProductIDs, payload.TotalPrice)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *handler) listOrders(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		writeError(w, errors.Unauthorized("missing identity"))
		return
	}

	out, err := h.app.Orders.FindAllForOwner(r.Context(), id.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *handler) getOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		writeError(w, errors.Unauthorized("missing identity"))
		return
	}

	o, err := h.app.Orders.FindOne(r.Context(), mux.Vars(r)["id"], id.UserID, user.Role(id.Role))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

// --- helpers ----------------------------------------------------------------

func decodeJSON(body io.ReadCloser, dst interface{}) error {
	defer body.Close()
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, err error) {
	middleware.RespondError(w, err)
}
