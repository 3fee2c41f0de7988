package handler

import (
	"encoding/json"
	"encoding/xml"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/vyrodovalexey/inventory-api/internal/model"
)

// Content types served by the API.
const (
	ContentTypeJSON = "application/json"
	ContentTypeXML  = "application/xml"
)

// codec encodes response bodies for one resource kind.
type codec interface {
	ContentType() string
	Encode(w io.Writer, v any) error
}

type jsonCodec struct{}

func (jsonCodec) ContentType() string { return ContentTypeJSON }

func (jsonCodec) Encode(w io.Writer, v any) error {
	return json.NewEncoder(w).Encode(v)
}

type xmlCodec struct{}

func (xmlCodec) ContentType() string { return ContentTypeXML }

func (xmlCodec) Encode(w io.Writer, v any) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	return xml.NewEncoder(w).Encode(v)
}

// writeBody writes v with the given status code using c.
func writeBody(w http.ResponseWriter, logger *zap.Logger, c codec, status int, v any) {
	w.Header().Set("Content-Type", c.ContentType())
	w.WriteHeader(status)

	if v == nil {
		return
	}

	if err := c.Encode(w, v); err != nil {
		logger.Error("failed to encode response", zap.Error(err))
	}
}

// writeError writes an error response with the given status code and message.
func writeError(w http.ResponseWriter, logger *zap.Logger, c codec, status int, message string) {
	response := model.ErrorResponse{
		Code:    status,
		Message: message,
	}
	writeBody(w, logger, c, status, response)
}
