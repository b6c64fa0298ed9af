package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseID(t *testing.T) {
	tests := []struct {
		name    string
		arg     string
		want    int64
		wantErr bool
	}{
		{name: "plain number", arg: "12", want: 12},
		{name: "large id", arg: "9007199254740993", want: 9007199254740993},
		{name: "trailing junk", arg: "12abc", wantErr: true},
		{name: "not a number", arg: "abc", wantErr: true},
		{name: "empty", arg: "", wantErr: true},
		{name: "zero", arg: "0", wantErr: true},
		{name: "negative", arg: "-3", wantErr: true},
		{name: "leading space", arg: " 12", wantErr: true},
		{name: "float", arg: "1.5", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := parseID(tt.arg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, id)
		})
	}
}
