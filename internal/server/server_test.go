package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/feipenta/penta-web/internal/generator"
	"github.com/feipenta/penta-web/internal/logger"
	"github.com/feipenta/penta-web/internal/model"
	"github.com/feipenta/penta-web/internal/stub"
	"github.com/feipenta/penta-web/internal/submission"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPageRouter(t *testing.T, endpoint string) (*gin.Engine, *submission.Handler) {
	gin.SetMode(gin.TestMode)
	alerts := submission.NewAlertQueue()
	h := submission.NewHandler(generator.NewClient(endpoint, 5*time.Second), alerts,
		submission.WithLogger(logger.NewNopLogger()))
	return InitRouter(Deps{Submissions: h, Alerts: alerts}), h
}

func getState(t *testing.T, router *gin.Engine) model.StateResponse {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/state", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var state model.StateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &state))
	return state
}

func postPrompt(router *gin.Engine, prompt string) *httptest.ResponseRecorder {
	body, _ := json.Marshal(model.PromptSubmitRequest{Prompt: prompt})
	req := httptest.NewRequest(http.MethodPost, "/api/prompt", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCreatePrompt_EmptyPrompt(t *testing.T) {
	router, _ := newPageRouter(t, "http://127.0.0.1:1/generate")

	w := postPrompt(router, "   ")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), submission.EmptyPromptMessage)
	state := getState(t, router)
	assert.Equal(t, "idle", state.Status)
	assert.False(t, state.LoaderVisible)
	assert.Equal(t, []string{submission.EmptyPromptMessage}, state.Alerts)
}

func TestCreatePrompt_HappyPath(t *testing.T) {
	remote := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req model.GenerationRequest
		json.NewDecoder(r.Body).Decode(&req)
		assert.Equal(t, "a red fox", req.Prompt)
		w.Write([]byte(`{"image":"https://example.com/fox.png"}`))
	}))
	defer remote.Close()
	router, _ := newPageRouter(t, remote.URL)

	w := postPrompt(router, " a red fox ")
	require.Equal(t, http.StatusAccepted, w.Code)

	var state model.StateResponse
	require.Eventually(t, func() bool {
		state = getState(t, router)
		return state.Status == "success"
	}, 2*time.Second, 10*time.Millisecond)
	assert.True(t, state.ResultVisible)
	assert.False(t, state.LoaderVisible)
	assert.Equal(t, "https://example.com/fox.png", state.Image)
	assert.Empty(t, state.Alerts)
}

func TestCreatePrompt_RemoteFailure(t *testing.T) {
	remote := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer remote.Close()
	router, _ := newPageRouter(t, remote.URL)

	require.Equal(t, http.StatusAccepted, postPrompt(router, "x").Code)

	var alerts []string
	require.Eventually(t, func() bool {
		state := getState(t, router)
		alerts = append(alerts, state.Alerts...)
		return state.Status == "failed"
	}, 2*time.Second, 10*time.Millisecond)
	alerts = append(alerts, getState(t, router).Alerts...)
	require.Len(t, alerts, 1)
	assert.Equal(t, "Falha ao gerar imagem: Erro na geração da imagem", alerts[0])
}

func TestCreatePrompt_InFlight(t *testing.T) {
	release := make(chan struct{})
	remote := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
		w.Write([]byte(`{"image":"img"}`))
	}))
	defer remote.Close()
	defer close(release)
	router, _ := newPageRouter(t, remote.URL)

	assert.Equal(t, http.StatusAccepted, postPrompt(router, "one").Code)
	assert.Equal(t, http.StatusTooManyRequests, postPrompt(router, "two").Code)
	assert.True(t, getState(t, router).LoaderVisible)
}

func TestSubmitForm_RendersResult(t *testing.T) {
	remote := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"image":"https://example.com/fox.png"}`))
	}))
	defer remote.Close()
	router, _ := newPageRouter(t, remote.URL)

	form := url.Values{"prompt": {"fox"}}
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusSeeOther, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, w.Code)
	page := w.Body.String()
	assert.Contains(t, page, `src="https://example.com/fox.png"`)
	assert.Contains(t, page, `id="loader" class="hidden"`)
	assert.Contains(t, page, `id="result-section" class=""`)
}

func TestSubmitForm_ClientGoneDoesNotCancelGeneration(t *testing.T) {
	remote := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
		w.Write([]byte(`{"image":"https://example.com/fox.png"}`))
	}))
	defer remote.Close()
	router, h := newPageRouter(t, remote.URL)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("prompt=fox")).WithContext(ctx)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, submission.StatusSuccess, h.State().Status)
	state := getState(t, router)
	assert.Equal(t, "success", state.Status)
	assert.Empty(t, state.Alerts)
}

func TestAPI_RequiresKeyWhenConfigured(t *testing.T) {
	gin.SetMode(gin.TestMode)
	alerts := submission.NewAlertQueue()
	h := submission.NewHandler(generator.NewClient("http://127.0.0.1:1/generate", 0), alerts,
		submission.WithLogger(logger.NewNopLogger()))
	router := InitRouter(Deps{Submissions: h, Alerts: alerts, APIKey: "secret"})

	w := postPrompt(router, "fox")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, submission.StatusIdle, h.State().Status)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/state", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/state", nil)
	req.Header.Set("API-KEY", "secret")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSubmitForm_EmptyPromptAlertsOnPage(t *testing.T) {
	router, _ := newPageRouter(t, "http://127.0.0.1:1/generate")

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("prompt=+++"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	router.ServeHTTP(httptest.NewRecorder(), req)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Contains(t, w.Body.String(), "Por favor, digite um pedido!")
	assert.Contains(t, w.Body.String(), `id="result-section" class="hidden"`)
}

func TestStubEndpoint_EndToEnd(t *testing.T) {
	gin.SetMode(gin.TestMode)
	responder, err := stub.NewResponder(t.TempDir())
	require.NoError(t, err)
	defer responder.Close()
	remote := httptest.NewServer(InitRouter(Deps{
		Submissions: submission.NewHandler(generator.NewClient("http://127.0.0.1:1", 0), submission.NewAlertQueue()),
		Alerts:      submission.NewAlertQueue(),
		Responder:   responder,
	}))
	defer remote.Close()

	router, _ := newPageRouter(t, remote.URL+"/generate")
	require.Equal(t, http.StatusAccepted, postPrompt(router, "teste").Code)

	var state model.StateResponse
	require.Eventually(t, func() bool {
		state = getState(t, router)
		return state.Status == "success"
	}, 2*time.Second, 10*time.Millisecond)
	assert.True(t, strings.HasPrefix(state.Image, "data:image/svg+xml;base64,"))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Contains(t, w.Body.String(), `src="data:image/svg+xml;base64,`)
}

func TestStubEndpoint_EmptyPrompt(t *testing.T) {
	gin.SetMode(gin.TestMode)
	responder, err := stub.NewResponder(t.TempDir())
	require.NoError(t, err)
	defer responder.Close()
	router := InitRouter(Deps{
		Submissions: submission.NewHandler(generator.NewClient("", 0), submission.NewAlertQueue()),
		Alerts:      submission.NewAlertQueue(),
		Responder:   responder,
	})

	req := httptest.NewRequest(http.MethodPost, "/generate", strings.NewReader(`{"prompt":""}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), stub.EmptyPromptDetail)
}

func TestPermissionCheckMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tests := []struct {
		name     string
		apiKey   string
		header   string
		expected int
	}{
		{"no key configured", "", "", http.StatusOK},
		{"valid key", "secret", "secret", http.StatusOK},
		{"missing key", "secret", "", http.StatusUnauthorized},
		{"wrong key", "secret", "nope", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.GET("/ping", PermissionCheckMiddleware(tt.apiKey), func(c *gin.Context) {
				c.String(http.StatusOK, "pong")
			})
			req := httptest.NewRequest(http.MethodGet, "/ping", nil)
			if tt.header != "" {
				req.Header.Set("API-KEY", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			assert.Equal(t, tt.expected, w.Code)
		})
	}
}
