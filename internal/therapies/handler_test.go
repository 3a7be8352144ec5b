package therapies

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) *chi.Mux {
	t.Helper()
	h := NewHandler(NewInMemoryRepository(), nil)

	r := chi.NewRouter()
	r.Route("/terapias", func(r chi.Router) {
		r.Post("/", h.Create)
		r.Get("/", h.List)
		r.Get("/{id}", h.Get)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})
	return r
}

func createTherapy(t *testing.T, r http.Handler, req CreateRequest) Therapy {
	t.Helper()
	body, err := json.Marshal(req)
	require.NoError(t, err)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/terapias", bytes.NewReader(body)))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created Therapy
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	return created
}

func TestHandlerCreate(t *testing.T) {
	r := newTestRouter(t)

	created := createTherapy(t, r, validCreate())
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Quiromasaje", created.Name)
	assert.Equal(t, CategoryRelaxing, created.Category)
	assert.Equal(t, "Descontracturante", created.MassageKind)
	assert.NotNil(t, created.Comments)
}

func TestHandlerCreateGatesSubAttributes(t *testing.T) {
	r := newTestRouter(t)

	req := validCreate()
	req.Name = "Entrenamiento personal"
	req.Category = CategoryFitness
	req.MassageKind = "Relajante"
	req.BodyZone = "Espalda"

	created := createTherapy(t, r, req)
	assert.Empty(t, created.MassageKind)
	assert.Empty(t, created.BodyZone)
}

func TestHandlerCreateValidation(t *testing.T) {
	r := newTestRouter(t)

	req := validCreate()
	req.Price = nil
	body, err := json.Marshal(req)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/terapias", bytes.NewReader(body)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp["error"], "price")
}

func TestHandlerList(t *testing.T) {
	r := newTestRouter(t)

	t.Run("empty list is an array", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/terapias", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "[]\n", rec.Body.String())
	})

	createTherapy(t, r, validCreate())
	osteo := validCreate()
	osteo.Name = "Osteopatía"
	osteo.Category = CategoryTherapeutic
	createTherapy(t, r, osteo)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/terapias", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var list []Therapy
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Len(t, list, 2)
}

func TestHandlerUpdate(t *testing.T) {
	r := newTestRouter(t)
	created := createTherapy(t, r, validCreate())

	t.Run("price change", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/terapias/"+created.ID, bytes.NewBufferString(`{"price":55}`)))
		require.Equal(t, http.StatusOK, rec.Code)

		var got Therapy
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, 55.0, got.Price)
		assert.Equal(t, created.Name, got.Name)
	})

	t.Run("category change re-gates attributes", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/terapias/"+created.ID, bytes.NewBufferString(`{"type":"fitness"}`)))
		require.Equal(t, http.StatusOK, rec.Code)

		var got Therapy
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, CategoryFitness, got.Category)
		assert.Empty(t, got.MassageKind)
	})

	t.Run("empty body rejected", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/terapias/"+created.ID, bytes.NewBufferString(`{}`)))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown id", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/terapias/missing", bytes.NewBufferString(`{"price":10}`)))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestHandlerGetDelete(t *testing.T) {
	r := newTestRouter(t)
	created := createTherapy(t, r, validCreate())

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/terapias/"+created.ID, nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/terapias/"+created.ID, nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/terapias/"+created.ID, nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
