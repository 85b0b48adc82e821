// Copyright (C) 2020 Markus L. Noga
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package gaia

import (
	"errors"
	"fmt"
)

// Kind of record level failure
type Kind int

const (
	KindUnknown Kind = iota
	MissingParallax
	InvalidNumeric
	MissingPhotometricIndex
	TemperatureOutOfRange
	InvalidDesignation
	InvalidMetadataField
)

var kindNames = [...]string{
	"Unknown",
	"MissingParallax",
	"InvalidNumeric",
	"MissingPhotometricIndex",
	"TemperatureOutOfRange",
	"InvalidDesignation",
	"InvalidMetadataField",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// A record which could not be transformed. All record errors are recoverable,
// the record is skipped and the rest of the file continues.
type RecordError struct {
	Kind  Kind
	Field string // name of the offending column, if any
	Value string // raw text of the offending field, if any
	Err   error  // underlying cause, if any
}

func (e *RecordError) Error() string {
	msg := e.Kind.String()
	if e.Field != "" {
		msg += fmt.Sprintf(" in %s='%s'", e.Field, e.Value)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *RecordError) Unwrap() error { return e.Err }

// Returns the kind of a record error, or KindUnknown if err is not one
func KindOf(err error) Kind {
	var re *RecordError
	if errors.As(err, &re) {
		return re.Kind
	}
	return KindUnknown
}

func recordError(kind Kind, field, value string, err error) *RecordError {
	return &RecordError{Kind: kind, Field: field, Value: value, Err: err}
}

// Returned for a header which lacks columns the transform needs. This is file scoped
var ErrMissingColumns = errors.New("missing required columns")
