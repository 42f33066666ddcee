package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/boypaida12/kidsjourneyhub/internal/logger"
	"github.com/boypaida12/kidsjourneyhub/internal/product"
	"github.com/boypaida12/kidsjourneyhub/internal/utils"

	"go.uber.org/zap"
)

type ProductHandler struct {
	productSvc product.Service
}

func NewProductHandler(productSvc product.Service) *ProductHandler {
	return &ProductHandler{productSvc: productSvc}
}

func (h *ProductHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	opts := product.ProductQueryOptions{
		OnlyActive: r.URL.Query().Get("all") == "",
		Limit:      queryInt32(r, "limit", 50),
		Page:       queryInt32(r, "page", 1),
	}
	if c := r.URL.Query().Get("category"); c != "" {
		opts.CategoryID = &c
	}
	if r.URL.Query().Get("featured") == "true" {
		opts.FeaturedOnly = true
	}

	products, err := h.productSvc.GetList(ctx, opts)
	if err != nil {
		logger.FromCtx(ctx).Error("failed to list products", zap.Error(err))
		utils.WriteJSONError(w, "Failed to fetch products", http.StatusInternalServerError)
		return
	}

	if products == nil {
		products = []*product.Product{}
	}
	utils.WriteJSON(w, products, http.StatusOK)
}

func (h *ProductHandler) HandleDetail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	p, err := h.productSvc.GetByID(ctx, r.PathValue("id"))
	if err != nil {
		if errors.Is(err, product.ErrProductNotFound) {
			utils.WriteJSONError(w, "Product not found", http.StatusNotFound)
			return
		}
		logger.FromCtx(ctx).Error("failed to get product", zap.Error(err))
		utils.WriteJSONError(w, "Failed to fetch product", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, p, http.StatusOK)
}

func (h *ProductHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var input product.NewProduct
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.WriteJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	p, err := h.productSvc.Create(ctx, input)
	if err != nil {
		if errors.Is(err, product.ErrMissingFields) {
			utils.WriteJSONError(w, err.Error(), http.StatusBadRequest)
			return
		}
		logger.FromCtx(ctx).Error("failed to create product", zap.Error(err))
		utils.WriteJSONError(w, "Failed to create product", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, p, http.StatusCreated)
}

func (h *ProductHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var input product.UpdateProduct
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.WriteJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	p, err := h.productSvc.Update(ctx, r.PathValue("id"), input)
	if err != nil {
		if errors.Is(err, product.ErrProductNotFound) {
			utils.WriteJSONError(w, "Product not found", http.StatusNotFound)
			return
		}
		logger.FromCtx(ctx).Error("failed to update product", zap.Error(err))
		utils.WriteJSONError(w, "Failed to update product", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, p, http.StatusOK)
}

func (h *ProductHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.productSvc.Delete(ctx, r.PathValue("id")); err != nil {
		if errors.Is(err, product.ErrProductNotFound) {
			utils.WriteJSONError(w, "Product not found", http.StatusNotFound)
			return
		}
		logger.FromCtx(ctx).Error("failed to delete product", zap.Error(err))
		utils.WriteJSONError(w, "Failed to delete product", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, map[string]bool{"deleted": true}, http.StatusOK)
}
