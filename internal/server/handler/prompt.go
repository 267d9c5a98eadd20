package handler

import (
	"context"
	"errors"
	"html/template"
	"net/http"
	"strings"

	"github.com/feipenta/penta-web/internal/model"
	"github.com/feipenta/penta-web/internal/submission"
	"github.com/feipenta/penta-web/internal/utils"
	"github.com/gin-gonic/gin"
)

// PromptHandler exposes one form's submission handler over http.
type PromptHandler struct {
	Submissions *submission.Handler
	Alerts      *submission.AlertQueue
}

type pageData struct {
	View     submission.View
	ImageSrc interface{}
	Alerts   []string
}

// ShowPage renders the form with the current state and any pending alerts.
func (h *PromptHandler) ShowPage(c *gin.Context) {
	view := h.Submissions.State().View()
	var imageSrc interface{} = view.ImageSrc
	if strings.HasPrefix(view.ImageSrc, "data:image/") {
		imageSrc = template.URL(view.ImageSrc)
	}
	c.HTML(http.StatusOK, "index.html", pageData{
		View:     view,
		ImageSrc: imageSrc,
		Alerts:   h.Alerts.Drain(),
	})
}

// SubmitForm handles a plain form post and waits for the generation.
func (h *PromptHandler) SubmitForm(c *gin.Context) {
	// the outcome reaches the user through state and alerts; a client that
	// goes away does not cancel the generation
	h.Submissions.Submit(context.Background(), c.PostForm("prompt"))
	c.Redirect(http.StatusSeeOther, "/")
}

// CreatePrompt starts a generation and returns while it is loading.
func (h *PromptHandler) CreatePrompt(c *gin.Context) {
	var req model.PromptSubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.GinFailedWithMessage(c, http.StatusBadRequest, err.Error())
		return
	}
	state, err := h.Submissions.Start(req.Prompt)
	if err != nil {
		if errors.Is(err, submission.ErrEmptyPrompt) {
			utils.GinFailedWithMessage(c, http.StatusBadRequest, submission.EmptyPromptMessage)
		} else if errors.Is(err, submission.ErrInFlight) {
			utils.GinFailedWithMessage(c, http.StatusTooManyRequests, err.Error())
		} else {
			utils.GinFailedWithMessage(c, http.StatusInternalServerError, err.Error())
		}
		return
	}
	c.JSON(http.StatusAccepted, stateResponse(state, nil))
}

// GetState returns the current state and drains pending alerts.
func (h *PromptHandler) GetState(c *gin.Context) {
	c.JSON(http.StatusOK, stateResponse(h.Submissions.State(), h.Alerts.Drain()))
}

func stateResponse(state submission.State, alerts []string) model.StateResponse {
	if alerts == nil {
		alerts = []string{}
	}
	view := state.View()
	return model.StateResponse{
		SubmissionId:  state.SubmissionId,
		Status:        state.Status.String(),
		LoaderVisible: view.LoaderVisible,
		ResultVisible: view.ResultVisible,
		Image:         view.ImageSrc,
		Message:       state.Message,
		Alerts:        alerts,
	}
}
