package client

import (
	"context"

	"github.com/vyrodovalexey/inventory-api/internal/model"
)

// RecordService manages records over the XML API.
type RecordService struct {
	rest resourceClient
}

// RetrieveAllRecords returns every record.
func (s *RecordService) RetrieveAllRecords(ctx context.Context) ([]model.Record, error) {
	var list model.RecordList
	if err := s.rest.list(ctx, nil, &list); err != nil {
		return nil, err
	}
	if list.Records == nil {
		return []model.Record{}, nil
	}
	return list.Records, nil
}

// RetrieveRecord returns the record with id. A missing record yields *NotFoundError.
func (s *RecordService) RetrieveRecord(ctx context.Context, id int) (model.Record, error) {
	var record model.Record
	err := s.rest.get(ctx, id, &record)
	return record, err
}

// StoreNewRecord creates r, which must not carry an id, and returns the assigned id.
func (s *RecordService) StoreNewRecord(ctx context.Context, r model.Record) (int, error) {
	return s.rest.create(ctx, r)
}

// UpdateRecord replaces the record identified by r's id.
func (s *RecordService) UpdateRecord(ctx context.Context, r model.Record) error {
	id, ok := r.Identity()
	if !ok {
		return ErrMissingID
	}
	return s.rest.replace(ctx, id, r)
}

// DeleteRecord removes the record with id.
func (s *RecordService) DeleteRecord(ctx context.Context, id int) error {
	return s.rest.delete(ctx, id)
}
