package model_test

import (
	"testing"

	"tourbook/shared/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringList_Value(t *testing.T) {
	v, err := model.StringList{"Accommodation", "Breakfast"}.Value()
	require.NoError(t, err)
	assert.Equal(t, `["Accommodation","Breakfast"]`, v)

	v, err = model.StringList(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, "[]", v)
}

func TestStringList_Scan(t *testing.T) {
	tests := []struct {
		name    string
		src     any
		want    model.StringList
		wantErr bool
	}{
		{name: "text column", src: `["cultural","beach"]`, want: model.StringList{"cultural", "beach"}},
		{name: "bytes column", src: []byte(`["wildlife"]`), want: model.StringList{"wildlife"}},
		{name: "null column", src: nil, want: model.StringList{}},
		{name: "empty text", src: "", want: model.StringList{}},
		{name: "not json", src: "cultural,beach", wantErr: true},
		{name: "wrong type", src: 42, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got model.StringList
			err := got.Scan(tt.src)

			if tt.wantErr {
				assert.Error(t, err)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStringList_Contains(t *testing.T) {
	l := model.StringList{"cultural", "adventure"}

	assert.True(t, l.Contains("adventure"))
	assert.False(t, l.Contains("Adventure"))
	assert.False(t, model.StringList(nil).Contains("cultural"))
}

func TestJSONText_RoundTrip(t *testing.T) {
	type contact struct {
		Phone string `json:"phone"`
	}

	doc, err := model.Encode(contact{Phone: "+94 77 123 4567"})
	require.NoError(t, err)

	var out contact
	require.NoError(t, doc.Decode(&out))
	assert.Equal(t, "+94 77 123 4567", out.Phone)

	var scanned model.JSONText
	require.NoError(t, scanned.Scan(nil))
	assert.Equal(t, model.JSONText("{}"), scanned)
}
