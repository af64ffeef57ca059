package homework

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, raw string) Homework {
	t.Helper()
	var hw Homework
	require.NoError(t, json.Unmarshal([]byte(raw), &hw))
	return hw
}

func TestVerdict_RecognizedStatuses(t *testing.T) {
	tests := []struct {
		name   string
		status string
		want   string
	}{
		{name: "reviewing", status: "reviewing", want: "Project X accepted for review."},
		{name: "rejected", status: "rejected", want: "Review complete: issues found in Project X."},
		{name: "approved", status: "approved", want: "Project X has been accepted! :)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hw := decode(t, `{"homework_name": "Project X", "status": "`+tt.status+`"}`)

			got, err := Verdict(hw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Contains(t, got, "Project X")
		})
	}
}

func TestVerdict_ReviewingDoesNotReuseOtherVerdicts(t *testing.T) {
	approved, err := Verdict(decode(t, `{"homework_name": "a", "status": "approved"}`))
	require.NoError(t, err)

	reviewing, err := Verdict(decode(t, `{"homework_name": "a", "status": "reviewing"}`))
	require.NoError(t, err)

	assert.NotEqual(t, approved, reviewing)
	assert.Equal(t, "a accepted for review.", reviewing)
}

func TestVerdict_UnknownStatus(t *testing.T) {
	for _, raw := range []string{
		`{"homework_name": "hw", "status": "lost"}`,
		`{"homework_name": "hw", "status": ""}`,
		`{"homework_name": "hw", "status": null}`,
		`{"homework_name": "hw", "status": 7}`,
	} {
		t.Run(raw, func(t *testing.T) {
			got, err := Verdict(decode(t, raw))
			assert.Empty(t, got)

			var notFound *StatusNotFoundError
			require.ErrorAs(t, err, &notFound)
			assert.Equal(t, "hw", notFound.Homework)
		})
	}
}

func TestVerdict_MissingField(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		field string
	}{
		{name: "no name", raw: `{"status": "approved"}`, field: FieldName},
		{name: "null name", raw: `{"homework_name": null, "status": "approved"}`, field: FieldName},
		{name: "no status", raw: `{"homework_name": "hw"}`, field: FieldStatus},
		{name: "empty record", raw: `{}`, field: FieldName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Verdict(decode(t, tt.raw))
			assert.Empty(t, got)

			var missing *MissingFieldError
			require.ErrorAs(t, err, &missing)
			assert.Equal(t, tt.field, missing.Field)
			assert.Contains(t, err.Error(), tt.field)

			var notFound *StatusNotFoundError
			assert.False(t, errors.As(err, &notFound))
		})
	}
}
