package storage

import (
	"errors"

	"travel-planner/models"
)

// MultiSink fans every record out to several sinks
type MultiSink struct {
	sinks []RecordSink
}

// NewMultiSink creates a MultiSink, ignoring nil sinks
func NewMultiSink(sinks ...RecordSink) *MultiSink {
	m := &MultiSink{}
	for _, s := range sinks {
		if s != nil {
			m.sinks = append(m.sinks, s)
		}
	}
	return m
}

// WriteRecord writes to every sink, even after one fails
func (m *MultiSink) WriteRecord(rec models.HotelRecord) error {
	var errs []error
	for _, s := range m.sinks {
		if err := s.WriteRecord(rec); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close closes every sink
func (m *MultiSink) Close() error {
	var errs []error
	for _, s := range m.sinks {
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
