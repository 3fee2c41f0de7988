package handler

import (
	"encoding/xml"
	"fmt"
	"io"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/vyrodovalexey/inventory-api/internal/lifecycle"
	"github.com/vyrodovalexey/inventory-api/internal/model"
)

// RecordsPath is the collection path for records.
const RecordsPath = "/records"

// RecordHandler handles REST API requests for records (application/xml).
type RecordHandler struct {
	resource *resourceHandler[model.Record]
}

// NewRecordHandler creates a new RecordHandler instance.
func NewRecordHandler(ctrl *lifecycle.Controller[model.Record], logger *zap.Logger) *RecordHandler {
	return &RecordHandler{
		resource: &resourceHandler[model.Record]{
			ctrl:     ctrl,
			codec:    xmlCodec{},
			basePath: RecordsPath,
			logger:   logger,
			decode:   decodeRecord,
			listBody: func(items []model.Record) any {
				return model.RecordList{Records: items}
			},
		},
	}
}

// RegisterRoutes registers the record routes with the router.
func (h *RecordHandler) RegisterRoutes(router *mux.Router) {
	h.resource.register(router, false)
}

// decodeRecord reads a record body. An empty id element (<id/>) counts as
// no id at all; <id>0</id> is kept so that it is rejected on create.
func decodeRecord(r *http.Request) (model.Record, error) {
	var record model.Record

	body, err := io.ReadAll(r.Body)
	if err != nil {
		return record, fmt.Errorf("read body: %w", err)
	}

	if err := xml.Unmarshal(body, &record); err != nil {
		return record, fmt.Errorf("decode body: %w", err)
	}

	if record.ID != nil && *record.ID == 0 && emptyID(body) {
		record.ID = nil
	}

	return record, nil
}

func emptyID(body []byte) bool {
	var raw struct {
		ID *string `xml:"id"`
	}
	if err := xml.Unmarshal(body, &raw); err != nil {
		return false
	}
	return raw.ID != nil && *raw.ID == ""
}
