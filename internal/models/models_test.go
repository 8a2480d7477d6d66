package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSON_ScanAndValue(t *testing.T) {
	var j JSON
	require.NoError(t, j.Scan([]byte(`{"title":"Hero"}`)))
	assert.JSONEq(t, `{"title":"Hero"}`, string(j))

	require.NoError(t, j.Scan(`[1,2,3]`))
	v, err := j.Value()
	require.NoError(t, err)
	assert.Equal(t, "[1,2,3]", v)

	require.NoError(t, j.Scan(nil))
	v, err = j.Value()
	require.NoError(t, err)
	assert.Nil(t, v)

	assert.Error(t, j.Scan(42))
}

func TestJSON_EmbedsVerbatimInParent(t *testing.T) {
	section := ContentSection{Section: "faq", Data: JSON(`{"questions":[]}`)}

	out, err := json.Marshal(section)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.Equal(t, "faq", decoded["section"])
	assert.Equal(t, map[string]interface{}{"questions": []interface{}{}}, decoded["data"])
}

func TestJSON_IsNull(t *testing.T) {
	tests := []struct {
		name string
		in   JSON
		want bool
	}{
		{name: "empty", in: nil, want: true},
		{name: "literal null", in: JSON(" null "), want: true},
		{name: "object", in: JSON(`{}`), want: false},
		{name: "string", in: JSON(`"x"`), want: false},
		{name: "false", in: JSON(`false`), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.in.IsNull())
		})
	}
}

func TestBaseModel_BeforeCreateAssignsULID(t *testing.T) {
	b := &BaseModel{}
	require.NoError(t, b.BeforeCreate(nil))
	assert.Len(t, b.ID, 26)

	b2 := &BaseModel{ID: "fixed"}
	require.NoError(t, b2.BeforeCreate(nil))
	assert.Equal(t, "fixed", b2.ID)
}

func TestSession_Expired(t *testing.T) {
	now := time.Now()
	s := &Session{ExpiresAt: now.Add(time.Minute)}
	assert.False(t, s.Expired(now))
	assert.True(t, s.Expired(now.Add(time.Minute)))
}
