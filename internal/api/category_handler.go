package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/boypaida12/kidsjourneyhub/internal/category"
	"github.com/boypaida12/kidsjourneyhub/internal/logger"
	"github.com/boypaida12/kidsjourneyhub/internal/utils"

	"go.uber.org/zap"
)

type CategoryHandler struct {
	categorySvc category.Service
}

func NewCategoryHandler(categorySvc category.Service) *CategoryHandler {
	return &CategoryHandler{categorySvc: categorySvc}
}

type categoryRequest struct {
	Name        string  `json:"name"`
	Slug        string  `json:"slug"`
	Description *string `json:"description"`
}

func (h *CategoryHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	categories, err := h.categorySvc.GetCategories(ctx)
	if err != nil {
		logger.FromCtx(ctx).Error("failed to list categories", zap.Error(err))
		utils.WriteJSONError(w, "Failed to fetch categories", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, categories, http.StatusOK)
}

func (h *CategoryHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req categoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	c, err := h.categorySvc.AddCategory(ctx, req.Name, req.Slug, req.Description)
	if err != nil {
		if errors.Is(err, category.ErrMissingName) {
			utils.WriteJSONError(w, err.Error(), http.StatusBadRequest)
			return
		}
		logger.FromCtx(ctx).Error("failed to create category", zap.Error(err))
		utils.WriteJSONError(w, "Failed to create category", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, c, http.StatusCreated)
}

func (h *CategoryHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req categoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	c := &category.Category{
		ID:          r.PathValue("id"),
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
	}

	if err := h.categorySvc.UpdateCategory(ctx, c); err != nil {
		switch {
		case errors.Is(err, category.ErrMissingName):
			utils.WriteJSONError(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, category.ErrCategoryNotFound):
			utils.WriteJSONError(w, "Category not found", http.StatusNotFound)
		default:
			logger.FromCtx(ctx).Error("failed to update category", zap.Error(err))
			utils.WriteJSONError(w, "Failed to update category", http.StatusInternalServerError)
		}
		return
	}

	utils.WriteJSON(w, c, http.StatusOK)
}

func (h *CategoryHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.categorySvc.DeleteCategory(ctx, r.PathValue("id")); err != nil {
		switch {
		case errors.Is(err, category.ErrCategoryInUse):
			utils.WriteJSONError(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, category.ErrCategoryNotFound):
			utils.WriteJSONError(w, "Category not found", http.StatusNotFound)
		default:
			logger.FromCtx(ctx).Error("failed to delete category", zap.Error(err))
			utils.WriteJSONError(w, "Failed to delete category", http.StatusInternalServerError)
		}
		return
	}

	utils.WriteJSON(w, map[string]bool{"deleted": true}, http.StatusOK)
}
