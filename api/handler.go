// Package api exposes the transcript resolver over HTTP.
package api

import (
	"context"
	stderrors "errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/ytranscript/errors"
	"github.com/kbukum/ytranscript/logger"
	"github.com/kbukum/ytranscript/server"
	"github.com/kbukum/ytranscript/transcript"
	"github.com/kbukum/ytranscript/validation"
)

// ExtractPath is the transcript endpoint.
const ExtractPath = "/extract-transcript"

// Resolver is the part of transcript.Resolver the handler needs.
type Resolver interface {
	Resolve(ctx context.Context, url, language string) (*transcript.Result, error)
}

// ExtractRequest is the request body. Language is optional and falls back
// to the resolver's configured language.
type ExtractRequest struct {
	YoutubeURL string `json:"youtube_url" validate:"required,url,httpurl,max=2048"`
	Language   string `json:"language,omitempty" validate:"omitempty,bcp47"`
}

// Handler serves the transcript endpoint.
type Handler struct {
	resolver Resolver
	log      *logger.Logger
}

// NewHandler creates a Handler. A nil logger discards output.
func NewHandler(resolver Resolver, log *logger.Logger) *Handler {
	if log == nil {
		log = logger.NewNop()
	}
	return &Handler{resolver: resolver, log: log.WithComponent("api")}
}

// Register mounts the endpoint on r behind the given middleware.
func (h *Handler) Register(r gin.IRouter, mws ...gin.HandlerFunc) {
	handlers := append(append([]gin.HandlerFunc{}, mws...), h.Extract)
	r.POST(ExtractPath, handlers...)
}

// Extract resolves the transcript for the requested video. Success is 200
// with {source, transcript}; a video without any usable source is 400 with
// the caption-unavailable detail.
func (h *Handler) Extract(c *gin.Context) {
	var req ExtractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		server.RespondWithError(c, bindError(err))
		return
	}
	if err := validation.Validate(req); err != nil {
		server.RespondWithError(c, err)
		return
	}

	ctx := c.Request.Context()
	result, err := h.resolver.Resolve(ctx, req.YoutubeURL, req.Language)
	if err != nil {
		if appErr, ok := errors.AsAppError(err); !ok || appErr.HTTPStatus >= http.StatusInternalServerError {
			h.log.WithContext(ctx).Error("transcript extraction failed", logger.Fields(
				logger.FieldURL, req.YoutubeURL,
				logger.FieldError, err.Error(),
			))
		}
		server.RespondWithError(c, err)
		return
	}
	server.RespondOK(c, result)
}

func bindError(err error) *errors.AppError {
	var maxErr *http.MaxBytesError
	switch {
	case stderrors.As(err, &maxErr):
		return errors.Validation("request body is too large")
	case stderrors.Is(err, io.EOF):
		return errors.MissingField("youtube_url")
	default:
		return errors.Validation("request body must be a JSON object")
	}
}
