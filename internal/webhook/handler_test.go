package webhook

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/atiendebot/atiendebot/internal/logger"
	"github.com/atiendebot/atiendebot/internal/transport"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeDispatcher records enqueued messages.
type fakeDispatcher struct {
	mu     sync.Mutex
	msgs   []transport.InboundMessage
	reject bool
}

func (f *fakeDispatcher) Enqueue(msg transport.InboundMessage) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.reject {
		return false
	}
	f.msgs = append(f.msgs, msg)
	return true
}

func newWebhookRouter(d Dispatcher) *gin.Engine {
	h := NewHandler(HandlerConfig{
		Dispatcher: d,
		Logger:     logger.NewWithWriter("error", io.Discard),
	})
	r := gin.New()
	r.POST("/webhook/whatsapp", h.HandleWhatsApp)
	return r
}

func postForm(router *gin.Engine, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/webhook/whatsapp", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHandleWhatsAppAcksAndEnqueues(t *testing.T) {
	t.Parallel()

	d := &fakeDispatcher{}
	router := newWebhookRouter(d)

	form := url.Values{}
	form.Set("From", "whatsapp:+5215550123")
	form.Set("To", "whatsapp:+5215550100")
	form.Set("Body", "hola")
	form.Set("MessageSid", "SMabc")

	w := postForm(router, form)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), "<Response></Response>") {
		t.Errorf("body = %q, want empty TwiML", w.Body.String())
	}

	if len(d.msgs) != 1 {
		t.Fatalf("enqueued %d messages, want 1", len(d.msgs))
	}
	if d.msgs[0].From != "whatsapp:+5215550123" || d.msgs[0].Body != "hola" {
		t.Errorf("enqueued = %+v", d.msgs[0])
	}
}

func TestHandleWhatsAppAcksEvenWhenQueueFull(t *testing.T) {
	t.Parallel()

	d := &fakeDispatcher{reject: true}
	router := newWebhookRouter(d)

	form := url.Values{}
	form.Set("From", "whatsapp:+5215550123")
	form.Set("Body", "hola")
	form.Set("To", "whatsapp:+5215550100")

	if w := postForm(router, form); w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200 even when the message is dropped", w.Code)
	}
}

func TestHandleWhatsAppMissingSenderStillAcked(t *testing.T) {
	t.Parallel()

	d := &fakeDispatcher{}
	router := newWebhookRouter(d)

	form := url.Values{}
	form.Set("Body", "hola")

	w := postForm(router, form)
	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
	if len(d.msgs) != 0 {
		t.Errorf("enqueued %d messages, want 0", len(d.msgs))
	}
}
