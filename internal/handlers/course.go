package handlers

import (
	"coursehub/internal/logger"
	"coursehub/internal/middleware"
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

type CourseHandler struct {
	service  *services.CourseService
	validate *validator.Validator
}

func NewCourseHandler(service *services.CourseService, validate *validator.Validator) *CourseHandler {
	return &CourseHandler{service: service, validate: validate}
}

// List godoc
// @Summary Список опубликованных курсов
// @Tags courses
// @Produce json
// @Success 200 {array} models.Course
// @Router /api/courses [get]
func (h *CourseHandler) List(w http.ResponseWriter, r *http.Request) {
	courses, err := h.service.ListPublished(r.Context())
	if err != nil {
		logger.Log.Error("Ошибка получения списка курсов", zap.Error(err))
		helpers.Error(w, http.StatusInternalServerError, "Ошибка получения курсов")
		return
	}
	helpers.JSON(w, http.StatusOK, courses)
}

// ListAll godoc
// @Summary Все курсы, включая черновики (админ)
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {array} models.Course
// @Router /api/admin/courses [get]
func (h *CourseHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	courses, err := h.service.ListAll(r.Context())
	if err != nil {
		logger.WithCtx(r.Context()).Error("Ошибка получения списка курсов", zap.Error(err))
		helpers.Error(w, http.StatusInternalServerError, "Ошибка получения курсов")
		return
	}
	helpers.JSON(w, http.StatusOK, courses)
}

// Get godoc
// @Summary Курс по ID
// @Tags courses
// @Produce json
// @Param id path int true "ID курса"
// @Success 200 {object} models.Course
// @Failure 404 {string} string "Курс не найден"
// @Router /api/courses/{id} [get]
func (h *CourseHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		helpers.Error(w, http.StatusBadRequest, "Неверный ID")
		return
	}

	course, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrCourseNotFound) {
			helpers.Error(w, http.StatusNotFound, "Курс не найден")
			return
		}
		logger.Log.Error("Ошибка получения курса", zap.Int("id", id), zap.Error(err))
		helpers.Error(w, http.StatusInternalServerError, "Ошибка получения курса")
		return
	}

	helpers.JSON(w, http.StatusOK, course)
}

// Create godoc
// @Summary Создание курса
// @Tags courses
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param input body models.CreateCourseRequest true "Данные курса"
// @Success 201 {object} models.Course
// @Failure 400 {string} string "Ошибка валидации или несуществующая категория"
// @Router /api/courses [post]
func (h *CourseHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateCourseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		helpers.Error(w, http.StatusBadRequest, "Невалидный JSON")
		return
	}
	if err := h.validate.Validate(req); err != nil {
		helpers.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	// Курс, созданный администратором, не привязывается к инструктору.
	var instructorID *int
	if role, _ := r.Context().Value(middleware.ContextRole).(string); role != "admin" {
		if uid, ok := r.Context().Value(middleware.ContextUserID).(int); ok {
			instructorID = &uid
		}
	}

	course, err := h.service.Create(r.Context(), &req, instructorID)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCategory) {
			helpers.Error(w, http.StatusBadRequest, err.Error())
			return
		}
		logger.WithCtx(r.Context()).Error("Ошибка создания курса", zap.Error(err))
		helpers.Error(w, http.StatusInternalServerError, "Ошибка создания курса")
		return
	}

	logger.WithCtx(r.Context()).Info("Курс создан", zap.Int("course_id", course.ID))
	helpers.JSON(w, http.StatusCreated, course)
}

// Update godoc
// @Summary Частичное обновление курса
// @Tags courses
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "ID курса"
// @Param input body models.UpdateCourseRequest true "Поля для изменения"
// @Success 200 {string} string "Курс обновлён"
// @Failure 404 {string} string "Курс не найден"
// @Router /api/courses/{id} [patch]
func (h *CourseHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		helpers.Error(w, http.StatusBadRequest, "Неверный ID")
		return
	}

	var req models.UpdateCourseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		helpers.Error(w, http.StatusBadRequest, "Невалидный JSON")
		return
	}

	if err := h.service.Update(r.Context(), id, &req); err != nil {
		switch {
		case errors.Is(err, services.ErrCourseNotFound):
			helpers.Error(w, http.StatusNotFound, "Курс не найден")
		case errors.Is(err, services.ErrInvalidCategory):
			helpers.Error(w, http.StatusBadRequest, err.Error())
		default:
			logger.WithCtx(r.Context()).Error("Ошибка обновления курса", zap.Error(err))
			helpers.Error(w, http.StatusInternalServerError, "Ошибка обновления курса")
		}
		return
	}

	helpers.JSON(w, http.StatusOK, "Курс обновлён")
}

// Delete godoc
// @Summary Удаление курса
// @Tags courses
// @Security ApiKeyAuth
// @Param id path int true "ID курса"
// @Success 200 {string} string "Курс удалён"
// @Failure 404 {string} string "Курс не найден"
// @Router /api/courses/{id} [delete]
func (h *CourseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		helpers.Error(w, http.StatusBadRequest, "Неверный ID")
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		if errors.Is(err, services.ErrCourseNotFound) {
			helpers.Error(w, http.StatusNotFound, "Курс не найден")
			return
		}
		logger.WithCtx(r.Context()).Error("Ошибка удаления курса", zap.Error(err))
		helpers.Error(w, http.StatusInternalServerError, "Ошибка удаления курса")
		return
	}

	logger.WithCtx(r.Context()).Info("Курс удалён", zap.Int("course_id", id))
	helpers.JSON(w, http.StatusOK, "Курс удалён")
}
