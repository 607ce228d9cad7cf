package logsvc

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/oiorda/orda/core"
)

func TestReportingEnabled(t *testing.T) {
	tests := []struct {
		name  string
		token string
		debug bool
		test  bool
		want  bool
	}{
		{name: "no token", want: false},
		{name: "token in debug", token: "tok", debug: true, want: false},
		{name: "token in test mode", token: "tok", test: true, want: false},
		{name: "token in production", token: "tok", want: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			conf := &core.Config{RollbarToken: tc.token, Debug: tc.debug, TestMode: tc.test}
			assert.Equal(t, tc.want, reportingEnabled(conf))
		})
	}
}
