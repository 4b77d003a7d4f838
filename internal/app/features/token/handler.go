package token

import (
	"errors"
	"net/http"

	uierrors "github.com/dalemusser/mindfulness/internal/app/features/errors"
	"github.com/dalemusser/mindfulness/internal/app/system/jsonutil"
	"github.com/dalemusser/mindfulness/internal/app/system/jwtutil"
	"go.uber.org/zap"
)

// Handler issues bearer tokens. The caller's identity is taken from the
// request body as-is; the client is trusted to have authenticated the user.
type Handler struct {
	Issuer *jwtutil.Issuer
	ErrLog *uierrors.ErrorLogger
	Log    *zap.Logger
}

func NewHandler(issuer *jwtutil.Issuer, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{Issuer: issuer, ErrLog: errLog, Log: logger}
}

type tokenResponse struct {
	Token string `json:"token"`
}

// Issue handles POST /jwt: the JSON body becomes the token's claims.
func (h *Handler) Issue(w http.ResponseWriter, r *http.Request) {
	var payload map[string]any
	if err := jsonutil.Decode(r, &payload); err != nil || payload == nil {
		h.ErrLog.LogBadRequest(w, r, "decode token payload failed", err, uierrors.MsgBadBody)
		return
	}

	tok, err := h.Issuer.Sign(payload)
	switch {
	case errors.Is(err, jwtutil.ErrMissingEmail):
		jsonutil.Error(w, http.StatusBadRequest, "email is required")
		return
	case err != nil:
		h.ErrLog.LogServerError(w, r, "sign token failed", err)
		return
	}

	h.Log.Debug("token issued", zap.Any("email", payload["email"]))
	jsonutil.OK(w, tokenResponse{Token: tok})
}
