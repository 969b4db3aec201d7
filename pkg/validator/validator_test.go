package validator

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type itemRequest struct {
	PartNumber string `validate:"required"`
	Name       string `validate:"required,max=20"`
	Quantity   int    `validate:"gte=1,lte=999"`
}

func TestValidate_Success(t *testing.T) {
	assert.NoError(t, Validate(itemRequest{PartNumber: "PS123", Name: "Door Shelf Bin", Quantity: 2}))
}

func TestValidate_MissingRequired(t *testing.T) {
	err := Validate(itemRequest{Name: "Door Shelf Bin", Quantity: 1})
	require.Error(t, err)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "is required", valErr.Fields()["PartNumber"])
}

func TestValidate_OutOfRange(t *testing.T) {
	err := Validate(itemRequest{PartNumber: "PS1", Name: "Valve", Quantity: 1000})
	require.Error(t, err)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Contains(t, valErr.Fields()["Quantity"], "999")
}

func TestValidate_MultipleErrors(t *testing.T) {
	err := Validate(itemRequest{Quantity: 1})
	require.Error(t, err)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	fields := valErr.Fields()
	assert.Contains(t, fields, "PartNumber")
	assert.Contains(t, fields, "Name")
}

func TestValidationError_ErrorString(t *testing.T) {
	err := Validate(itemRequest{Name: "Valve", Quantity: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "field 'PartNumber'")
	assert.Contains(t, err.Error(), "is required")
}

func TestValidate_StringMax(t *testing.T) {
	err := Validate(itemRequest{PartNumber: "PS1", Name: strings.Repeat("x", 21), Quantity: 1})
	require.Error(t, err)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "must be at most 20 characters", valErr.Fields()["Name"])
}

type metadataRequest struct {
	Metadata map[string]string `validate:"required,min=1,max=2"`
}

func TestValidate_MapBounds(t *testing.T) {
	err := Validate(metadataRequest{Metadata: map[string]string{"a": "1", "b": "2", "c": "3"}})
	require.Error(t, err)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "must contain at most 2 entries", valErr.Fields()["Metadata"])
}

type addrStruct struct {
	Broker string `validate:"hostname_port"`
	Key    string `validate:"excludesall=:"`
}

func TestValidate_HostPortAndExcludes(t *testing.T) {
	err := Validate(addrStruct{Broker: "kafka", Key: "a:b"})
	require.Error(t, err)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	fields := valErr.Fields()
	assert.Equal(t, "must be a host:port address", fields["Broker"])
	assert.Contains(t, fields["Key"], "must not contain")

	assert.NoError(t, Validate(addrStruct{Broker: "kafka:9092", Key: "ab"}))
}

type uuidStruct struct {
	ID string `validate:"uuid"`
}

func TestValidate_UUID(t *testing.T) {
	err := Validate(uuidStruct{ID: "not-a-uuid"})
	require.Error(t, err)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "must be a valid UUID", valErr.Fields()["ID"])

	assert.NoError(t, Validate(uuidStruct{ID: "550e8400-e29b-41d4-a716-446655440000"}))
}

type oneofStruct struct {
	Env string `validate:"oneof=development production"`
}

func TestValidate_OneOf(t *testing.T) {
	err := Validate(oneofStruct{Env: "staging"})
	require.Error(t, err)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "must be one of: development, production", valErr.Fields()["Env"])
}

type touchRequest struct {
	SessionID string            `json:"session_id,omitempty" validate:"max=8"`
	Metadata  map[string]string `json:"metadata" validate:"max=1,dive,keys,min=1,endkeys"`
	Internal  string            `json:"-" validate:"max=1"`
}

func TestValidate_ReportsJSONFieldNames(t *testing.T) {
	err := Validate(touchRequest{SessionID: strings.Repeat("s", 9), Metadata: map[string]string{"a": "1", "b": "2"}})
	require.Error(t, err)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	fields := valErr.Fields()
	assert.Equal(t, "must be at most 8 characters", fields["session_id"])
	assert.Equal(t, "must be at most 1 entries", fields["metadata"])
	assert.NotContains(t, fields, "SessionID")
	assert.Contains(t, err.Error(), "field 'session_id'")
}

func TestValidate_EmptyMapKey(t *testing.T) {
	err := Validate(touchRequest{Metadata: map[string]string{"": "x"}})
	require.Error(t, err)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	require.Len(t, valErr.Errors, 1)
	assert.Equal(t, "min", valErr.Errors[0].Tag())
}

func TestValidate_NotAStruct(t *testing.T) {
	err := Validate("plain string")
	require.Error(t, err)
	var valErr *ValidationError
	assert.False(t, errors.As(err, &valErr))
}

func TestDecodeAndValidate_Success(t *testing.T) {
	body := `{"PartNumber":"PS11752778","Name":"Door Shelf Bin","Quantity":2}`
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(body))

	var s itemRequest
	require.NoError(t, DecodeAndValidate(req, &s))
	assert.Equal(t, "PS11752778", s.PartNumber)
	assert.Equal(t, 2, s.Quantity)
}

func TestDecodeAndValidate_InvalidJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{invalid"))

	var s itemRequest
	err := DecodeAndValidate(req, &s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode request body")
}

func TestDecodeAndValidate_ValidationFails(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(`{"Name":"","Quantity":0}`))

	var s itemRequest
	err := DecodeAndValidate(req, &s)
	require.Error(t, err)
	var valErr *ValidationError
	assert.ErrorAs(t, err, &valErr)
}

func TestDecodeAndValidate_EmptyBodyWrapsEOF(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", http.NoBody)

	var s itemRequest
	err := DecodeAndValidate(req, &s)
	assert.ErrorIs(t, err, io.EOF)
}

func TestDecodeAndValidate_TrailingData(t *testing.T) {
	body := `{"PartNumber":"PS1","Name":"Valve","Quantity":1} {"PartNumber":"PS2"}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))

	var s itemRequest
	err := DecodeAndValidate(req, &s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected data after JSON value")
}
