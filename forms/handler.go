package forms

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
)

// SessionName is the cookie session that carries flash messages after a
// non-JS form post.
const SessionName = "eatery_session"

const flashKey = "form"

// SuccessMessage is flashed after a delivered non-JS submission.
const SuccessMessage = "Thanks! We received your message and will be in touch soon."

// Handler exposes a Relay over HTTP.
type Handler struct {
	relay *Relay
}

// NewHandler creates a Handler for relay.
func NewHandler(relay *Relay) *Handler {
	return &Handler{relay: relay}
}

// RegisterRoutes mounts the JSON API used by forms.js and the
// form-encoded fallback used without JavaScript.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.POST("/api/forms/:kind", h.SubmitJSON)
	e.POST("/forms/:kind/", h.SubmitForm)
}

type apiResponse struct {
	OK    bool   `json:"ok"`
	ID    string `json:"id,omitempty"`
	Error string `json:"error,omitempty"`
}

// SubmitJSON relays a JSON body and answers with JSON.
func (h *Handler) SubmitJSON(c echo.Context) error {
	kind, ok := ParseKind(c.Param("kind"))
	if !ok || !h.relay.Enabled(kind) {
		return c.JSON(http.StatusNotFound, apiResponse{Error: GenericError})
	}
	payload, _ := NewPayload(kind)
	if err := c.Bind(payload); err != nil {
		return c.JSON(http.StatusBadRequest, apiResponse{Error: GenericError})
	}
	sub, err := h.relay.Submit(c.Request().Context(), kind, c.RealIP(), payload)
	if err != nil {
		return c.JSON(statusFor(err), apiResponse{Error: GenericError})
	}
	return c.JSON(http.StatusOK, apiResponse{OK: true, ID: sub.ID})
}

// SubmitForm relays a form-encoded post and redirects back with a flash.
func (h *Handler) SubmitForm(c echo.Context) error {
	kind, ok := ParseKind(c.Param("kind"))
	if !ok || !h.relay.Enabled(kind) {
		return echo.NewHTTPError(http.StatusNotFound)
	}
	back := returnPath(c.FormValue("_return"))
	payload, _ := NewPayload(kind)
	msg := SuccessMessage
	if err := c.Bind(payload); err != nil {
		msg = GenericError
	} else if _, err := h.relay.Submit(c.Request().Context(), kind, c.RealIP(), payload); err != nil {
		msg = GenericError
	}
	if err := addFlash(c, msg); err != nil {
		c.Logger().Errorf("form flash: %v", err)
	}
	return c.Redirect(http.StatusSeeOther, back)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrUnknownKind):
		return http.StatusNotFound
	case errors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, ErrInvalid):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrUpstream):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// returnPath only allows same-site absolute paths.
func returnPath(raw string) string {
	if raw == "" || !strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, "//") || strings.HasPrefix(raw, "/\\") {
		return "/"
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host != "" || u.Scheme != "" {
		return "/"
	}
	return u.RequestURI()
}

func addFlash(c echo.Context, msg string) error {
	sess, err := session.Get(SessionName, c)
	if err != nil {
		return err
	}
	sess.AddFlash(msg, flashKey)
	return sess.Save(c.Request(), c.Response())
}

// PopFlash returns and clears the pending form flash, if any.
func PopFlash(c echo.Context) string {
	sess, err := session.Get(SessionName, c)
	if err != nil {
		return ""
	}
	flashes := sess.Flashes(flashKey)
	if len(flashes) == 0 {
		return ""
	}
	if err := sess.Save(c.Request(), c.Response()); err != nil {
		return ""
	}
	msg, _ := flashes[0].(string)
	return msg
}
