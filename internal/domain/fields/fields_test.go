package fields

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSavedFlagUnmarshal(t *testing.T) {
	testCases := []struct {
		name    string
		input   string
		want    SavedFlag
		wantErr bool
	}{
		{name: "zero", input: `{"is_saved": 0}`, want: NotSaved},
		{name: "one", input: `{"is_saved": 1}`, want: Saved},
		{name: "true", input: `{"is_saved": true}`, want: Saved},
		{name: "false", input: `{"is_saved": false}`, want: NotSaved},
		{name: "null", input: `{"is_saved": null}`, want: NotSaved},
		{name: "missing", input: `{}`, want: NotSaved},
		{name: "out of range", input: `{"is_saved": 2}`, wantErr: true},
		{name: "string", input: `{"is_saved": "yes"}`, wantErr: true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var dst struct {
				IsSaved SavedFlag `json:"is_saved"`
			}
			err := json.Unmarshal([]byte(tc.input), &dst)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, dst.IsSaved)
		})
	}
}

func TestSavedFlagMarshal(t *testing.T) {
	out, err := json.Marshal(map[string]SavedFlag{"a": Saved, "b": NotSaved})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a": 1, "b": 0}`, string(out))
}
