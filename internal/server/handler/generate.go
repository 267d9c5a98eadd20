package handler

import (
	"errors"
	"net/http"

	"github.com/feipenta/penta-web/internal/model"
	"github.com/feipenta/penta-web/internal/stub"
	"github.com/feipenta/penta-web/internal/utils"
	"github.com/gin-gonic/gin"
)

// StubGenerateHandler serves the local stand-in for the generation endpoint.
type StubGenerateHandler struct {
	Responder *stub.Responder
}

func (h *StubGenerateHandler) Generate(c *gin.Context) {
	var req model.StubGenerationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.GinFailedWithMessage(c, http.StatusUnprocessableEntity, err.Error())
		return
	}
	resp, err := h.Responder.Respond(req)
	if err != nil {
		if errors.Is(err, stub.ErrEmptyPrompt) {
			c.JSON(http.StatusBadRequest, gin.H{"detail": stub.EmptyPromptDetail})
			return
		}
		utils.GinFailedWithMessage(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusOK, resp)
}

func StubRoot(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "API Fei PENTA rodando com modelo fake realista!"})
}
