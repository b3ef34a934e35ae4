package buildinfo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContext_Getters(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		ctx           *Context
		wantVersion   string
		wantBuildDate string
	}{
		{name: "nil context", ctx: nil, wantVersion: UnknownValue, wantBuildDate: UnknownValue},
		{name: "empty values", ctx: NewContext("", ""), wantVersion: UnknownValue, wantBuildDate: UnknownValue},
		{name: "release", ctx: NewContext("1.2.0", "2026-01-05"), wantVersion: "1.2.0", wantBuildDate: "2026-01-05"},
		{name: "pre-release tag", ctx: NewContext("1.3.0-beta.1", ""), wantVersion: "1.3.0-beta.1", wantBuildDate: UnknownValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.wantVersion, tt.ctx.GetVersion())
			assert.Equal(t, tt.wantBuildDate, tt.ctx.GetBuildDate())
		})
	}
}

func TestContext_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "lifelist 1.2.0 (built 2026-01-05)", NewContext("1.2.0", "2026-01-05").String())
	assert.Equal(t, "lifelist unknown (built unknown)", (*Context)(nil).String())
}
