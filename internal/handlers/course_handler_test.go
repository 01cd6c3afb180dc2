package handlers

import (
	"bytes"
	"context"
	"coursehub/internal/logger"
	"coursehub/internal/middleware"
	"coursehub/internal/models"
	"coursehub/internal/services"
	"coursehub/internal/validator"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	logger.Log = zap.NewNop()
	os.Exit(m.Run())
}

type stubCourseRepo struct {
	courses map[int]*models.Course
	nextID  int
}

func (s *stubCourseRepo) Create(_ context.Context, c *models.Course) (int, error) {
	s.nextID++
	s.courses[s.nextID] = c
	return s.nextID, nil
}

func (s *stubCourseRepo) GetByID(_ context.Context, id int) (*models.Course, error) {
	c, ok := s.courses[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return c, nil
}

func (s *stubCourseRepo) ListPublished(_ context.Context) ([]*models.Course, error) {
	return nil, nil
}

func (s *stubCourseRepo) ListAll(_ context.Context) ([]*models.Course, error) {
	return nil, nil
}

func (s *stubCourseRepo) Update(_ context.Context, id int, input *models.UpdateCourseRequest) error {
	return nil
}

func (s *stubCourseRepo) Delete(_ context.Context, id int) error {
	delete(s.courses, id)
	return nil
}

type stubCategoryLookup struct{}

func (stubCategoryLookup) Exists(_ context.Context, id int) (bool, error) {
	return id == 1, nil
}

func (stubCategoryLookup) GetDefaultID(_ context.Context) (int, error) {
	return 1, nil
}

func newCourseHandlerForTest() (*CourseHandler, *stubCourseRepo) {
	repo := &stubCourseRepo{courses: make(map[int]*models.Course)}
	service := services.NewCourseService(repo, stubCategoryLookup{})
	return NewCourseHandler(service, validator.New()), repo
}

func authedRequest(method, target string, body []byte, userID int, role string) *http.Request {
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	ctx := context.WithValue(req.Context(), middleware.ContextUserID, userID)
	ctx = context.WithValue(ctx, middleware.ContextRole, role)
	return req.WithContext(ctx)
}

func TestCourseCreate_InstructorAssigned(t *testing.T) {
	handler, repo := newCourseHandlerForTest()

	body, _ := json.Marshal(map[string]interface{}{
		"title":       "Go с нуля",
		"description": "Вводный курс",
		"price":       49.99,
	})
	rec := httptest.NewRecorder()
	handler.Create(rec, authedRequest(http.MethodPost, "/api/courses", body, 7, "user"))

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		Data models.Course `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, 1, resp.Data.CategoryID)
	assert.Equal(t, models.CourseStatusDraft, resp.Data.Status)
	require.NotNil(t, repo.courses[resp.Data.ID].InstructorID)
	assert.Equal(t, 7, *repo.courses[resp.Data.ID].InstructorID)
}

// Создание из админки без category_id: категория по умолчанию,
// инструктор не привязывается.
func TestCourseCreate_AdminDefaultCategory(t *testing.T) {
	handler, repo := newCourseHandlerForTest()

	body, _ := json.Marshal(map[string]interface{}{
		"title":       "Платформа",
		"description": "Курс от администрации",
	})
	rec := httptest.NewRecorder()
	handler.Create(rec, authedRequest(http.MethodPost, "/api/admin/courses", body, 1, "admin"))

	require.Equal(t, http.StatusCreated, rec.Code)
	var resp struct {
		Data models.Course `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, 1, resp.Data.CategoryID)
	assert.Equal(t, models.CourseStatusDraft, resp.Data.Status)
	assert.Nil(t, repo.courses[resp.Data.ID].InstructorID)
}

func TestCourseCreate_ValidationError(t *testing.T) {
	handler, _ := newCourseHandlerForTest()

	body, _ := json.Marshal(map[string]interface{}{"price": 10})
	rec := httptest.NewRecorder()
	handler.Create(rec, authedRequest(http.MethodPost, "/api/courses", body, 7, "user"))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var resp struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.NotEmpty(t, resp.Error)
}

func TestCourseGet_NotFound(t *testing.T) {
	handler, _ := newCourseHandlerForTest()

	req := httptest.NewRequest(http.MethodGet, "/api/courses/42", nil)
	req = mux.SetURLVars(req, map[string]string{"id": "42"})
	rec := httptest.NewRecorder()
	handler.Get(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
