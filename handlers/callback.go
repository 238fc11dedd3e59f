package handlers

import (
	"net/http"

	"poolchill/services/verification"
	"poolchill/services/wizard"
	"poolchill/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const returnPage = `<!doctype html><html><body style="font-family:sans-serif;text-align:center;padding-top:4rem">
<h2>Pool &amp; Chill</h2><p>%s</p><p>You can close this window and return to the app.</p>
</body></html>`

// CallbackHandler receives the redirects external flows send back to the app:
// the e-mail confirmation (encrypted token bundle), the identity provider's
// session callback, and error reports. Parameters are consumed exactly once;
// the response page carries no state.
type CallbackHandler struct {
	Controller *wizard.Controller
	Verifier   *verification.Manager
}

// NewCallbackHandler builds the handler around the wizard controller.
func NewCallbackHandler(controller *wizard.Controller, verifier *verification.Manager) *CallbackHandler {
	return &CallbackHandler{Controller: controller, Verifier: verifier}
}

// HandleCallback dispatches on which redirect parameters are present.
func (h *CallbackHandler) HandleCallback(c *gin.Context) {
	logger := utils.GetLogger()

	if data := c.Query("data"); data != "" {
		if err := h.Controller.HandleTokenRedirect(c.Request.Context(), data); err != nil {
			logger.Warn("Token redirect rejected", zap.Error(err))
			h.renderPage(c, "We could not confirm your email. Please start over in the app.")
			return
		}
		h.renderPage(c, "Email confirmed.")
		return
	}

	if sessionID := c.Query("verificationSessionId"); sessionID != "" {
		status := c.Query("status")
		h.Controller.HandleVerificationRedirect(c.Request.Context(), sessionID, status)
		h.renderPage(c, "Thanks! The app will pick up your verification result.")
		return
	}

	if c.Query("status") == "error" {
		h.Controller.HandleErrorRedirect(c.Query("message"))
		h.renderPage(c, "Something went wrong. Please return to the app and try again.")
		return
	}

	utils.JSONError(c, http.StatusBadRequest, "Unrecognized callback", "no known redirect parameters present")
}

// WizardState exposes a read-only snapshot for the hosted pages that poll the
// local listener (popup-blocked fallback).
func (h *CallbackHandler) WizardState(c *gin.Context) {
	state := gin.H{
		"step":             h.Controller.Step().String(),
		"returningUser":    h.Controller.ReturningUser(),
		"identityVerified": h.Controller.IdentityVerified(),
		"identityDeferred": h.Controller.IdentityDeferred(),
		"loading":          h.Controller.Loading(),
		"submitted":        h.Controller.Submitted(),
	}
	if h.Verifier != nil {
		state["verification"] = gin.H{
			"state":        h.Verifier.State().String(),
			"popupBlocked": h.Verifier.PopupBlocked(),
			"sessionUrl":   h.Verifier.SessionURL(),
		}
	}
	c.JSON(http.StatusOK, state)
}

func (h *CallbackHandler) renderPage(c *gin.Context, message string) {
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.String(http.StatusOK, returnPage, message)
}
