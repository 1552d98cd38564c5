package mailControllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/castledepotsmail-cyber/castle-depots-sub000/mailer"
	"github.com/castledepotsmail-cyber/castle-depots-sub000/middleware"
)

type stubSender struct {
	sent []mailer.Message
	err  error
}

func (s *stubSender) Send(_ context.Context, msg mailer.Message) (string, error) {
	if err := msg.Validate(); err != nil {
		return "", err
	}
	if s.err != nil {
		return "", s.err
	}
	s.sent = append(s.sent, msg)
	return "<id-1@castledepots.co.ke>", nil
}

func send(sender mailer.Sender, auth, body string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/send-email", middleware.RequireBearerSecret("mail-secret"), SendEmail(sender))

	req := httptest.NewRequest(http.MethodPost, "/api/send-email", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSendEmail(t *testing.T) {
	sender := &stubSender{}
	w := send(sender, "Bearer mail-secret", `{"to":"jane@example.com","subject":"Order received","html":"<p>Thanks</p>"}`)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp struct {
		Success   bool   `json:"success"`
		MessageID string `json:"messageId"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "<id-1@castledepots.co.ke>", resp.MessageID)
	require.Len(t, sender.sent, 1)
	assert.Equal(t, "Order received", sender.sent[0].Subject)
}

func TestSendEmailAuth(t *testing.T) {
	sender := &stubSender{}
	body := `{"to":"jane@example.com","subject":"Hi","text":"hello"}`

	assert.Equal(t, http.StatusUnauthorized, send(sender, "", body).Code)
	assert.Equal(t, http.StatusUnauthorized, send(sender, "Bearer wrong", body).Code)
	assert.Empty(t, sender.sent)
}

func TestSendEmailMissingFields(t *testing.T) {
	sender := &stubSender{}
	for _, body := range []string{
		`{"subject":"Hi","text":"hello"}`,
		`{"to":"jane@example.com","text":"hello"}`,
		`{"to":"jane@example.com","subject":"Hi"}`,
		`not json`,
	} {
		w := send(sender, "Bearer mail-secret", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
		assert.Contains(t, w.Body.String(), "Missing required fields")
	}
}

func TestSendEmailFailure(t *testing.T) {
	sender := &stubSender{err: errors.New("dial tcp: connection refused")}
	w := send(sender, "Bearer mail-secret", `{"to":"jane@example.com","subject":"Hi","text":"hello"}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "connection refused")
}
