package handlers

import (
	"coursehub/internal/logger"
	"coursehub/internal/models"
	"coursehub/internal/services"
	helpers "coursehub/internal/utils/helpers"
	"coursehub/internal/validator"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type CategoryHandler struct {
	service  *services.CategoryService
	validate *validator.Validator
}

func NewCategoryHandler(service *services.CategoryService, validate *validator.Validator) *CategoryHandler {
	return &CategoryHandler{service: service, validate: validate}
}

type categoryRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

// List godoc
// @Summary Список категорий
// @Tags categories
// @Produce json
// @Success 200 {array} models.Category
// @Router /api/categories [get]
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.List(r.Context())
	if err != nil {
		logger.Log.Error("Ошибка получения категорий", zap.Error(err))
		helpers.Error(w, http.StatusInternalServerError, "Ошибка получения категорий")
		return
	}
	helpers.JSON(w, http.StatusOK, categories)
}

// Create godoc
// @Summary Создание категории
// @Tags categories
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param input body categoryRequest true "Данные категории"
// @Success 201 {object} models.Category
// @Failure 400 {string} string "Категория уже существует"
// @Router /api/admin/categories [post]
func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		helpers.Error(w, http.StatusBadRequest, "Невалидный JSON")
		return
	}
	if err := h.validate.Validate(req); err != nil {
		helpers.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	category, err := h.service.Create(r.Context(), req.Name, req.Description)
	if err != nil {
		if errors.Is(err, services.ErrCategoryExists) {
			helpers.Error(w, http.StatusBadRequest, err.Error())
			return
		}
		logger.WithCtx(r.Context()).Error("Ошибка создания категории", zap.Error(err))
		helpers.Error(w, http.StatusInternalServerError, "Ошибка создания категории")
		return
	}

	helpers.JSON(w, http.StatusCreated, category)
}

// Update godoc
// @Summary Обновление категории
// @Tags categories
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "ID категории"
// @Param input body categoryRequest true "Новые данные"
// @Success 200 {string} string "Категория обновлена"
// @Router /api/admin/categories/{id} [put]
func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		helpers.Error(w, http.StatusBadRequest, "Неверный ID")
		return
	}

	var req categoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		helpers.Error(w, http.StatusBadRequest, "Невалидный JSON")
		return
	}
	if err := h.validate.Validate(req); err != nil {
		helpers.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	category := &models.Category{
		ID:          id,
		Name:        req.Name,
		Slug:        services.Slugify(req.Name),
		Description: req.Description,
	}
	if err := h.service.Update(r.Context(), category); err != nil {
		logger.WithCtx(r.Context()).Error("Ошибка обновления категории", zap.Error(err))
		helpers.Error(w, http.StatusInternalServerError, "Ошибка обновления категории")
		return
	}

	helpers.JSON(w, http.StatusOK, "Категория обновлена")
}

// Delete godoc
// @Summary Удаление категории
// @Tags categories
// @Security ApiKeyAuth
// @Param id path int true "ID категории"
// @Success 200 {string} string "Категория удалена"
// @Router /api/admin/categories/{id} [delete]
func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		helpers.Error(w, http.StatusBadRequest, "Неверный ID")
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		logger.WithCtx(r.Context()).Error("Ошибка удаления категории", zap.Error(err))
		helpers.Error(w, http.StatusInternalServerError, "Ошибка удаления категории")
		return
	}

	helpers.JSON(w, http.StatusOK, "Категория удалена")
}
