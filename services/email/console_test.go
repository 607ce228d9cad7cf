package emailsvc

import (
	"bytes"
	"log"
	"net/mail"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oiorda/orda/core"
	"github.com/oiorda/orda/tests"
)

func TestConsoleService_sendMessage(t *testing.T) {
	conf := core.NewTestConfig()
	var buf bytes.Buffer
	svc := NewConsoleService(conf, testutil.NewLogger(conf), log.New(&buf, "", 0)).(*consoleService)

	to := []mail.Address{{Name: "Psy", Address: "psy@test.kz"}}
	tests := []struct {
		name     string
		msg      core.EmailMessage
		wantSent bool
		wantBody []string
	}{
		{name: "no recipients", msg: core.EmailMessage{Subject: "Hi", BodyStr: "hello"}},
		{name: "no content", msg: core.EmailMessage{To: to, Subject: "Hi"}},
		{
			name:     "plain body",
			msg:      core.EmailMessage{To: to, Subject: "Hi", BodyStr: "hello"},
			wantSent: true,
			wantBody: []string{"Subject: [Oi-Orda] Hi", "To: \"Psy\" <psy@test.kz>", "hello"},
		},
		{
			name: "risk alert template",
			msg: core.EmailMessage{
				To:           to,
				Subject:      "Screening result needs attention",
				TemplateName: "risk_alert",
				TemplateData: map[string]interface{}{
					"StudentID":   7,
					"StudentName": "Aruzhan",
					"TestTitle":   "CDI",
					"AttemptID":   42,
					"Label":       "High",
					"Reason":      "score 20 ≥ 19",
				},
			},
			wantSent: true,
			wantBody: []string{"Student: Aruzhan (#7)", "/psych/students/7/attempts/42", "text/html"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf.Reset()
			msg := tt.msg
			svc.sendMessage(&msg)
			if !tt.wantSent {
				assert.Empty(t, buf.String())
				return
			}
			out := buf.String()
			for _, want := range tt.wantBody {
				assert.Contains(t, out, want)
			}
		})
	}
	assert.Len(t, svc.sent, 2)
}

func TestConsoleServiceMock_SentMessages(t *testing.T) {
	conf := core.NewTestConfig()
	svc := NewConsoleServiceMock(conf, testutil.NewLogger(conf))

	svc.SendMessages(
		&core.EmailMessage{To: []mail.Address{{Address: "a@test.kz"}}, BodyStr: "one"},
		&core.EmailMessage{BodyStr: "nobody to send to"},
		&core.EmailMessage{To: []mail.Address{{Address: "b@test.kz"}}, TemplateName: "risk_alert", TemplateData: struct{}{}},
	)
	sent := svc.SentMessages()
	require.Len(t, sent, 1, "unrenderable and unaddressed messages are dropped")
	assert.Equal(t, "one", strings.TrimSpace(sent[0].TextContent))
}

func TestNewService(t *testing.T) {
	conf := core.NewTestConfig()
	logger := testutil.NewLogger(conf)

	_, ok := NewService(conf, logger, log.New(&bytes.Buffer{}, "", 0)).(*consoleService)
	assert.True(t, ok, "console service without an API key")

	conf.SendgridAPIKey = "SG.key"
	_, ok = NewService(conf, logger, log.New(&bytes.Buffer{}, "", 0)).(*sendgridService)
	assert.True(t, ok, "sendgrid service with an API key")
}
