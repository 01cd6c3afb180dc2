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

// SupportHandler — тикеты поддержки, вопросы-ответы и менторство.
// Списки и смена статусов доступны только администраторам.
type SupportHandler struct {
	service  *services.SupportService
	validate *validator.Validator
}

func NewSupportHandler(service *services.SupportService, validate *validator.Validator) *SupportHandler {
	return &SupportHandler{service: service, validate: validate}
}

type updateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type addMessageRequest struct {
	Content string `json:"content" validate:"required"`
}

func (h *SupportHandler) senderFromContext(r *http.Request) models.Message {
	m := models.Message{SenderType: "user"}
	if uid, ok := r.Context().Value(middleware.ContextUserID).(int); ok {
		m.SenderID = uid
	}
	if role, ok := r.Context().Value(middleware.ContextRole).(string); ok && role == "admin" {
		m.SenderType = "admin"
	}
	return m
}

// Tickets godoc
// @Summary Тикеты поддержки с сообщениями
// @Tags support
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {array} models.SupportTicket
// @Router /api/admin/support/tickets [get]
func (h *SupportHandler) Tickets(w http.ResponseWriter, r *http.Request) {
	tickets, err := h.service.ListTickets(r.Context())
	if err != nil {
		logger.WithCtx(r.Context()).Error("Ошибка получения тикетов", zap.Error(err))
		helpers.Error(w, http.StatusInternalServerError, "Ошибка получения тикетов")
		return
	}
	helpers.JSON(w, http.StatusOK, tickets)
}

// UpdateTicketStatus godoc
// @Summary Смена статуса тикета
// @Tags support
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "ID тикета"
// @Param input body updateStatusRequest true "Новый статус"
// @Success 200 {string} string "Статус обновлён"
// @Failure 400 {string} string "Недопустимый статус"
// @Failure 404 {string} string "Тикет не найден"
// @Router /api/admin/support/tickets/{id} [patch]
func (h *SupportHandler) UpdateTicketStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		helpers.Error(w, http.StatusBadRequest, "Неверный ID")
		return
	}

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		helpers.Error(w, http.StatusBadRequest, "Невалидный JSON")
		return
	}

	if err := h.service.UpdateTicketStatus(r.Context(), id, req.Status); err != nil {
		switch {
		case errors.Is(err, services.ErrTicketNotFound):
			helpers.Error(w, http.StatusNotFound, "Тикет не найден")
		case errors.Is(err, services.ErrBadStatus):
			helpers.Error(w, http.StatusBadRequest, err.Error())
		default:
			logger.WithCtx(r.Context()).Error("Ошибка обновления тикета", zap.Error(err))
			helpers.Error(w, http.StatusInternalServerError, "Ошибка обновления тикета")
		}
		return
	}

	helpers.JSON(w, http.StatusOK, "Статус обновлён")
}

// AddTicketMessage godoc
// @Summary Ответ в тикете поддержки
// @Tags support
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "ID тикета"
// @Param input body addMessageRequest true "Текст сообщения"
// @Success 201 {string} string "Сообщение добавлено"
// @Failure 404 {string} string "Тикет не найден"
// @Router /api/admin/support/tickets/{id}/messages [post]
func (h *SupportHandler) AddTicketMessage(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		helpers.Error(w, http.StatusBadRequest, "Неверный ID")
		return
	}

	var req addMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		helpers.Error(w, http.StatusBadRequest, "Невалидный JSON")
		return
	}
	if err := h.validate.Validate(req); err != nil {
		helpers.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	m := h.senderFromContext(r)
	m.Content = req.Content
	if err := h.service.AddTicketMessage(r.Context(), id, &m); err != nil {
		if errors.Is(err, services.ErrTicketNotFound) {
			helpers.Error(w, http.StatusNotFound, "Тикет не найден")
			return
		}
		logger.WithCtx(r.Context()).Error("Ошибка добавления сообщения", zap.Error(err))
		helpers.Error(w, http.StatusInternalServerError, "Ошибка добавления сообщения")
		return
	}

	helpers.JSON(w, http.StatusCreated, "Сообщение добавлено")
}

// Threads godoc
// @Summary Треды вопросов и ответов
// @Tags support
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {array} models.QAThread
// @Router /api/admin/support/qa [get]
func (h *SupportHandler) Threads(w http.ResponseWriter, r *http.Request) {
	threads, err := h.service.ListThreads(r.Context())
	if err != nil {
		logger.WithCtx(r.Context()).Error("Ошибка получения тредов", zap.Error(err))
		helpers.Error(w, http.StatusInternalServerError, "Ошибка получения тредов")
		return
	}
	helpers.JSON(w, http.StatusOK, threads)
}

// AddThreadMessage godoc
// @Summary Ответ в треде вопросов и ответов
// @Tags support
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "ID треда"
// @Param input body addMessageRequest true "Текст сообщения"
// @Success 201 {string} string "Сообщение добавлено"
// @Failure 404 {string} string "Тред не найден"
// @Router /api/admin/support/qa/{id}/messages [post]
func (h *SupportHandler) AddThreadMessage(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		helpers.Error(w, http.StatusBadRequest, "Неверный ID")
		return
	}

	var req addMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		helpers.Error(w, http.StatusBadRequest, "Невалидный JSON")
		return
	}
	if err := h.validate.Validate(req); err != nil {
		helpers.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	// Ответ администратора переводит тред в answered
	m := h.senderFromContext(r)
	m.Content = req.Content
	if err := h.service.AddThreadMessage(r.Context(), id, &m); err != nil {
		if errors.Is(err, services.ErrThreadNotFound) {
			helpers.Error(w, http.StatusNotFound, "Тред не найден")
			return
		}
		logger.WithCtx(r.Context()).Error("Ошибка добавления сообщения", zap.Error(err))
		helpers.Error(w, http.StatusInternalServerError, "Ошибка добавления сообщения")
		return
	}

	helpers.JSON(w, http.StatusCreated, "Сообщение добавлено")
}

// Mentorships godoc
// @Summary Запросы на менторство
// @Tags support
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {array} models.Mentorship
// @Router /api/admin/support/mentorship [get]
func (h *SupportHandler) Mentorships(w http.ResponseWriter, r *http.Request) {
	mentorships, err := h.service.ListMentorships(r.Context())
	if err != nil {
		logger.WithCtx(r.Context()).Error("Ошибка получения запросов на менторство", zap.Error(err))
		helpers.Error(w, http.StatusInternalServerError, "Ошибка получения запросов на менторство")
		return
	}
	helpers.JSON(w, http.StatusOK, mentorships)
}

// UpdateMentorshipStatus godoc
// @Summary Смена статуса менторства
// @Tags support
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "ID запроса"
// @Param input body updateStatusRequest true "Новый статус"
// @Success 200 {string} string "Статус обновлён"
// @Failure 400 {string} string "Недопустимый статус"
// @Failure 404 {string} string "Запрос не найден"
// @Router /api/admin/support/mentorship/{id} [patch]
func (h *SupportHandler) UpdateMentorshipStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		helpers.Error(w, http.StatusBadRequest, "Неверный ID")
		return
	}

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		helpers.Error(w, http.StatusBadRequest, "Невалидный JSON")
		return
	}

	if err := h.service.UpdateMentorshipStatus(r.Context(), id, req.Status); err != nil {
		switch {
		case errors.Is(err, services.ErrMentorshipNotFound):
			helpers.Error(w, http.StatusNotFound, "Запрос не найден")
		case errors.Is(err, services.ErrBadStatus):
			helpers.Error(w, http.StatusBadRequest, err.Error())
		default:
			logger.WithCtx(r.Context()).Error("Ошибка обновления менторства", zap.Error(err))
			helpers.Error(w, http.StatusInternalServerError, "Ошибка обновления менторства")
		}
		return
	}

	helpers.JSON(w, http.StatusOK, "Статус обновлён")
}

// AddMentorshipMessage godoc
// @Summary Сообщение в переписке менторства
// @Tags support
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "ID запроса"
// @Param input body addMessageRequest true "Текст сообщения"
// @Success 201 {string} string "Сообщение добавлено"
// @Failure 404 {string} string "Запрос не найден"
// @Router /api/admin/support/mentorship/{id}/messages [post]
func (h *SupportHandler) AddMentorshipMessage(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		helpers.Error(w, http.StatusBadRequest, "Неверный ID")
		return
	}

	var req addMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		helpers.Error(w, http.StatusBadRequest, "Невалидный JSON")
		return
	}
	if err := h.validate.Validate(req); err != nil {
		helpers.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	m := h.senderFromContext(r)
	m.Content = req.Content
	if err := h.service.AddMentorshipMessage(r.Context(), id, &m); err != nil {
		if errors.Is(err, services.ErrMentorshipNotFound) {
			helpers.Error(w, http.StatusNotFound, "Запрос не найден")
			return
		}
		logger.WithCtx(r.Context()).Error("Ошибка добавления сообщения", zap.Error(err))
		helpers.Error(w, http.StatusInternalServerError, "Ошибка добавления сообщения")
		return
	}

	helpers.JSON(w, http.StatusCreated, "Сообщение добавлено")
}
