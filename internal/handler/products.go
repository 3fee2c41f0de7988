package handler

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"go.uber.org/zap"

	"github.com/vyrodovalexey/inventory-api/internal/lifecycle"
	"github.com/vyrodovalexey/inventory-api/internal/model"
)

// ProductsPath is the collection path for products.
const ProductsPath = "/products"

//go:embed schema/product.schema.json
var productSchemaSource string

var productSchema = jsonschema.MustCompileString("product.schema.json", productSchemaSource)

// ProductHandler handles REST API requests for products (JSON).
type ProductHandler struct {
	ctrl     *lifecycle.TypedController[model.Product]
	resource *resourceHandler[model.Product]
	logger   *zap.Logger
}

// NewProductHandler creates a new ProductHandler instance.
func NewProductHandler(ctrl *lifecycle.TypedController[model.Product], logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		ctrl: ctrl,
		resource: &resourceHandler[model.Product]{
			ctrl:     ctrl.Controller,
			codec:    jsonCodec{},
			basePath: ProductsPath,
			logger:   logger,
			decode:   decodeProduct,
			listBody: func(items []model.Product) any { return items },
		},
		logger: logger,
	}
}

// RegisterRoutes registers the product routes with the router.
func (h *ProductHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc(ProductsPath, h.ListProducts).Methods(http.MethodGet)
	h.resource.register(router, true)
}

// ListProducts handles GET /products, optionally filtered by repeated
// type query parameters.
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	rawTypes, filtered := r.URL.Query()["type"]
	if !filtered {
		h.resource.list(w, r)
		return
	}

	types := make([]string, 0, len(rawTypes))
	for _, raw := range rawTypes {
		t, err := model.ParseProductType(raw)
		if err != nil {
			h.logger.Warn("invalid product type filter", zap.String("type", raw))
			writeError(w, h.logger, jsonCodec{}, http.StatusBadRequest, err.Error())
			return
		}
		types = append(types, string(t))
	}

	items, err := h.ctrl.ListByTypes(r.Context(), types)
	if err != nil {
		h.resource.handleError(w, err, lifecycle.OpList)
		return
	}

	h.resource.writeList(w, items)
}

// decodeProduct checks the body against the product schema before decoding it.
func decodeProduct(r *http.Request) (model.Product, error) {
	var product model.Product

	body, err := io.ReadAll(r.Body)
	if err != nil {
		return product, fmt.Errorf("read body: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var doc any
	if err := dec.Decode(&doc); err != nil {
		return product, fmt.Errorf("decode body: %w", err)
	}

	if err := productSchema.Validate(doc); err != nil {
		return product, fmt.Errorf("%w: %s", errInvalidBody, schemaMessage(err))
	}

	if err := json.Unmarshal(body, &product); err != nil {
		return product, fmt.Errorf("decode body: %w", err)
	}

	return product, nil
}

// schemaMessage flattens a schema validation error into one line.
func schemaMessage(err error) string {
	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		return err.Error()
	}

	var parts []string
	collectSchemaErrors(verr, &parts)

	return strings.Join(parts, "; ")
}

func collectSchemaErrors(verr *jsonschema.ValidationError, parts *[]string) {
	if len(verr.Causes) == 0 {
		location := verr.InstanceLocation
		if location == "" {
			location = "/"
		}
		*parts = append(*parts, location+": "+verr.Message)
		return
	}

	for _, cause := range verr.Causes {
		collectSchemaErrors(cause, parts)
	}
}
