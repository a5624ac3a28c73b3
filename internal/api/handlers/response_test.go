package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeJSON(t *testing.T) {
	var v struct {
		Name string `json:"name"`
	}

	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"ok"}`))
	require.NoError(t, DecodeJSON(r, &v))
	assert.Equal(t, "ok", v.Name)

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(``))
	assert.Error(t, DecodeJSON(r, &v))

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"a"}{"name":"b"}`))
	assert.Error(t, DecodeJSON(r, &v))

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":`))
	assert.Error(t, DecodeJSON(r, &v))
}

func TestRespondError(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondNotFound(rec, "não encontrado")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, ErrorResponse{Code: 404, Message: "não encontrado"}, body)
}

func TestQueryList(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/?agencies=SEFIN,%20IPHAN&agencies=SMAS&agencies=", nil)
	assert.Equal(t, []string{"SEFIN", "IPHAN", "SMAS"}, QueryList(r, "agencies"))
	assert.Nil(t, QueryList(r, "missing"))

	assert.Nil(t, QueryOptional(r, "time"))
	r = httptest.NewRequest(http.MethodGet, "/?time=14:00", nil)
	require.NotNil(t, QueryOptional(r, "time"))
	assert.Equal(t, "14:00", *QueryOptional(r, "time"))
}
