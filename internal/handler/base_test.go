package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type echoRequest struct {
	Value string `json:"value"`
}

func (r *echoRequest) Validate() error { return nil }

func TestNewRequestAllocatesFreshValue(t *testing.T) {
	proto := &echoRequest{Value: "prototype"}

	req := newRequest(proto)

	require.NotNil(t, req)
	assert.NotSame(t, proto, req)
	assert.Empty(t, req.Value)
}

func TestHandleDoesNotShareRequestsAcrossCalls(t *testing.T) {
	e := echo.New()
	proto := &echoRequest{}

	h := Handle(Handler{}, func(c echo.Context, req *echoRequest) (map[string]string, error) {
		return map[string]string{"value": req.Value}, nil
	}, http.StatusOK, proto)

	var wg sync.WaitGroup
	for _, v := range []string{"a", "b", "c", "d"} {
		wg.Add(1)
		go func(v string) {
			defer wg.Done()
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"value":"`+v+`"}`))
			req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			rec := httptest.NewRecorder()

			assert.NoError(t, h(e.NewContext(req, rec)))
			assert.JSONEq(t, `{"value":"`+v+`"}`, rec.Body.String())
		}(v)
	}
	wg.Wait()

	assert.Empty(t, proto.Value)
}

func TestHandleString(t *testing.T) {
	e := echo.New()
	h := HandleString(Handler{}, func(c echo.Context, req *echoRequest) (string, error) {
		return "done", nil
	}, http.StatusCreated, &echoRequest{})

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	require.NoError(t, h(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "done", rec.Body.String())
}
