package model

import (
	"encoding/xml"
	"errors"
)

// Validation errors for Record.
var (
	ErrEmptyTitle    = errors.New("title cannot be empty")
	ErrTitleTooLong  = errors.New("title cannot exceed 255 characters")
	ErrEmptyArtist   = errors.New("artist cannot be empty")
	ErrArtistTooLong = errors.New("artist cannot exceed 255 characters")
	ErrInvalidYear   = errors.New("year must be between 1900 and 2100")
)

// Accepted release years. Zero means unknown.
const (
	MinRecordYear = 1900
	MaxRecordYear = 2100
)

// Record is served as application/xml under /records.
type Record struct {
	XMLName xml.Name `json:"-" xml:"record"`
	ID      *int     `json:"id" xml:"id,omitempty"`
	Title   string   `json:"title" xml:"title"`
	Artist  string   `json:"artist" xml:"artist"`
	Genre   string   `json:"genre,omitempty" xml:"genre,omitempty"`
	Year    int      `json:"year,omitempty" xml:"year,omitempty"`
}

// RecordList is the XML envelope for GET /records.
type RecordList struct {
	XMLName xml.Name `xml:"records"`
	Records []Record `xml:"record"`
}

// Identity returns the record id and whether it is set.
func (r Record) Identity() (int, bool) {
	if r.ID == nil {
		return 0, false
	}
	return *r.ID, true
}

// WithIdentity returns a copy of r carrying the given id.
func (r Record) WithIdentity(id int) Record {
	r.ID = &id
	return r
}

// Validate checks if the Record has valid field values.
func (r Record) Validate() error {
	switch {
	case r.Title == "":
		return ErrEmptyTitle
	case len(r.Title) > MaxNameLength:
		return ErrTitleTooLong
	case r.Artist == "":
		return ErrEmptyArtist
	case len(r.Artist) > MaxNameLength:
		return ErrArtistTooLong
	case r.Year != 0 && (r.Year < MinRecordYear || r.Year > MaxRecordYear):
		return ErrInvalidYear
	}

	return nil
}
