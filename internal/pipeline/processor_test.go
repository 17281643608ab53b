package pipeline

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/atiendebot/atiendebot/internal/debounce"
	domerrors "github.com/atiendebot/atiendebot/internal/errors"
	"github.com/atiendebot/atiendebot/internal/genai"
	"github.com/atiendebot/atiendebot/internal/intent"
	"github.com/atiendebot/atiendebot/internal/logger"
	"github.com/atiendebot/atiendebot/internal/registry"
	"github.com/atiendebot/atiendebot/internal/reply"
	"github.com/atiendebot/atiendebot/internal/transport"
)

const (
	testChannel = "whatsapp:+5215550100"
	testSender  = "whatsapp:+5215550123"
)

// fakeRegistry serves a single profile for one channel.
type fakeRegistry struct {
	profile *registry.ClientProfile
}

func (f *fakeRegistry) LookupByChannel(_ context.Context, channelID string) (*registry.ClientProfile, error) {
	if f.profile != nil && f.profile.ChannelID == channelID {
		return f.profile, nil
	}
	return nil, domerrors.ErrNotFound
}

// fakeSender records outbound sends.
type fakeSender struct {
	mu     sync.Mutex
	sent   []sentMessage
	failAt int // 1-based index of the send that fails; 0 means never
}

type sentMessage struct {
	From, To, Body string
}

func (f *fakeSender) Send(_ context.Context, from, to, body string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAt > 0 && len(f.sent)+1 == f.failAt {
		return "", domerrors.NewDeliveryError(to, 500, errors.New("provider down"))
	}
	f.sent = append(f.sent, sentMessage{From: from, To: to, Body: body})
	return "SMtest", nil
}

func (f *fakeSender) messages() []sentMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]sentMessage(nil), f.sent...)
}

// fakeCompleter returns a fixed reply and counts invocations.
type fakeCompleter struct {
	mu     sync.Mutex
	reply  string
	err    error
	calls  int
	prompt string
}

func (f *fakeCompleter) Complete(_ context.Context, prompt string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.prompt = prompt
	return f.reply, f.err
}

func (f *fakeCompleter) Provider() genai.Provider { return genai.ProviderOpenAI }
func (f *fakeCompleter) Close() error             { return nil }

func (f *fakeCompleter) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func completeProfile() *registry.ClientProfile {
	return &registry.ClientProfile{
		BusinessName:   "Estudio Luna",
		OwnerName:      "Mariana",
		ChannelID:      testChannel,
		ServiceCatalog: "Yoga, pilates y meditación guiada.",
		OpeningHours:   "Lunes a viernes de 9 a 18",
		ContactEmail:   "info@estudioluna.mx",
		ContactPhone:   "+52 55 5555 0100",
	}
}

type testEnv struct {
	processor *Processor
	sender    *fakeSender
	completer *fakeCompleter
	clock     *fakeClock
	store     *debounce.MemoryStore
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (fc *fakeClock) Now() time.Time {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	return fc.now
}

func (fc *fakeClock) Advance(d time.Duration) {
	fc.mu.Lock()
	fc.now = fc.now.Add(d)
	fc.mu.Unlock()
}

func newTestEnv(t *testing.T, profile *registry.ClientProfile) *testEnv {
	t.Helper()

	clock := &fakeClock{now: time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)}
	store := debounce.NewMemoryStore(debounce.MemoryStoreConfig{
		Window:   60 * time.Second,
		EntryTTL: time.Hour,
		Clock:    clock.Now,
	})
	t.Cleanup(store.Stop)

	sender := &fakeSender{}
	completer := &fakeCompleter{reply: "Claro, tenemos clases por la tarde."}

	processor := NewProcessor(ProcessorConfig{
		Registry:     &fakeRegistry{profile: profile},
		Completer:    completer,
		Sender:       sender,
		Debounce:     store,
		Logger:       logger.NewWithWriter("error", io.Discard),
		MaxChunkSize: 300,
	})

	return &testEnv{
		processor: processor,
		sender:    sender,
		completer: completer,
		clock:     clock,
		store:     store,
	}
}

func inbound(body string) transport.InboundMessage {
	return transport.InboundMessage{
		From:       testSender,
		To:         testChannel,
		Body:       body,
		MessageSID: "SMinbound01",
	}
}

func TestPriceQuestionGetsCannedReply(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, completeProfile())

	if err := env.processor.Process(context.Background(), inbound("cuánto cuesta el programa")); err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	sent := env.sender.messages()
	if len(sent) != 1 {
		t.Fatalf("sent %d messages, want 1", len(sent))
	}
	want, _ := reply.Canned(intent.Price, false)
	if sent[0].Body != want {
		t.Errorf("Body = %q, want canned price reply", sent[0].Body)
	}
	if sent[0].From != testChannel || sent[0].To != testSender {
		t.Errorf("routing = from %q to %q", sent[0].From, sent[0].To)
	}
	if env.completer.callCount() != 0 {
		t.Error("canned reply must not invoke the completion service")
	}
}

func TestGreetingDebounce(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, completeProfile())
	ctx := context.Background()

	if err := env.processor.Process(ctx, inbound("hola")); err != nil {
		t.Fatalf("first greeting: %v", err)
	}

	env.clock.Advance(10 * time.Second)
	err := env.processor.Process(ctx, inbound("hola"))
	if !errors.Is(err, domerrors.ErrSuppressed) {
		t.Fatalf("second greeting 10s later: error = %v, want ErrSuppressed", err)
	}
	if got := len(env.sender.messages()); got != 1 {
		t.Fatalf("sent %d messages after suppressed greeting, want 1", got)
	}

	env.clock.Advance(60 * time.Second)
	if err := env.processor.Process(ctx, inbound("hola")); err != nil {
		t.Fatalf("greeting 70s later: %v", err)
	}
	if got := len(env.sender.messages()); got != 2 {
		t.Errorf("sent %d messages after window elapsed, want 2", got)
	}
}

func TestFullCatalogRequestIsChunked(t *testing.T) {
	t.Parallel()

	profile := completeProfile()
	var b strings.Builder
	for range 30 {
		b.WriteString("Clase de yoga restaurativo con enfoque en respiración y postura.\n")
	}
	profile.ServiceCatalog = strings.TrimRight(b.String(), "\n")

	env := newTestEnv(t, profile)

	if err := env.processor.Process(context.Background(), inbound("quiero saber todo sobre sus servicios")); err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	sent := env.sender.messages()
	if len(sent) < 2 {
		t.Fatalf("sent %d messages, want chunked delivery", len(sent))
	}
	if !strings.HasPrefix(sent[0].Body, reply.CatalogHeader(false)) {
		t.Error("first chunk missing catalog header")
	}
	if !strings.HasSuffix(sent[len(sent)-1].Body, reply.CatalogFooter(false)) {
		t.Error("last chunk missing catalog footer")
	}
	if env.completer.callCount() != 0 {
		t.Error("catalog path must not invoke the completion service")
	}

	// Concatenating the bodies minus framing reproduces the catalog.
	var rebuilt strings.Builder
	for _, m := range sent {
		rebuilt.WriteString(m.Body)
	}
	joined := rebuilt.String()
	joined = strings.TrimPrefix(joined, reply.CatalogHeader(false)+"\n\n")
	joined = strings.TrimSuffix(joined, "\n\n"+reply.CatalogFooter(false))
	if joined != profile.ServiceCatalog {
		t.Error("chunk bodies do not reconstruct the catalog")
	}
}

func TestGenerativeReplyIsSanitized(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, completeProfile())
	ctx := context.Background()

	// Establish prior contact so greeting stripping applies.
	if err := env.processor.Process(ctx, inbound("hola")); err != nil {
		t.Fatalf("greeting: %v", err)
	}

	env.completer.reply = "Hola, tenemos clases de pilates a las 17h. Para más información, contáctanos en info@estudioluna.mx."
	if err := env.processor.Process(ctx, inbound("¿tienen pilates por la tarde?")); err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	sent := env.sender.messages()
	if len(sent) != 2 {
		t.Fatalf("sent %d messages, want 2", len(sent))
	}
	got := sent[1].Body
	if got != "Tenemos clases de pilates a las 17h." {
		t.Errorf("sanitized reply = %q", got)
	}
	if env.completer.callCount() != 1 {
		t.Errorf("completer called %d times, want 1", env.completer.callCount())
	}
}

func TestOversizedGenerativeReplySplitsWithoutFraming(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, completeProfile())
	ctx := context.Background()

	// Well past the 300-rune test chunk size, single paragraph.
	long := strings.TrimSpace(strings.Repeat("Las clases de yoga restaurativa duran una hora completa. ", 10))
	env.completer.reply = long

	if err := env.processor.Process(ctx, inbound("¿me cuentas más sobre la yoga restaurativa?")); err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	sent := env.sender.messages()
	if len(sent) < 2 {
		t.Fatalf("sent %d messages, want the reply chunked", len(sent))
	}

	var joined strings.Builder
	for _, m := range sent {
		joined.WriteString(m.Body)
	}
	if joined.String() != long {
		t.Errorf("chunks do not rejoin to the reply:\n%q", joined.String())
	}
	if strings.HasPrefix(sent[0].Body, reply.CatalogHeader(false)) {
		t.Error("generative chunks must not carry the catalog header")
	}
	if strings.HasSuffix(sent[len(sent)-1].Body, reply.CatalogFooter(false)) {
		t.Error("generative chunks must not carry the catalog footer")
	}
}

func TestGenerativeReplyDroppedWhenNothingRemains(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, completeProfile())
	ctx := context.Background()

	if err := env.processor.Process(ctx, inbound("hola")); err != nil {
		t.Fatalf("greeting: %v", err)
	}

	env.completer.reply = "Hola. Para más información, contáctanos en x@y.com."
	err := env.processor.Process(ctx, inbound("¿qué onda con las clases?"))
	if !errors.Is(err, domerrors.ErrReplyDropped) {
		t.Fatalf("Process() error = %v, want ErrReplyDropped", err)
	}
	if got := len(env.sender.messages()); got != 1 {
		t.Errorf("sent %d messages, want 1 (dropped reply must not be sent)", got)
	}
}

func TestGenerationFailureSendsNothing(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, completeProfile())
	env.completer.err = errors.New("401 invalid api key")
	env.completer.reply = ""

	err := env.processor.Process(context.Background(), inbound("¿hacen eventos privados?"))
	if !errors.Is(err, domerrors.ErrGenerationFailed) {
		t.Fatalf("Process() error = %v, want ErrGenerationFailed", err)
	}
	if got := len(env.sender.messages()); got != 0 {
		t.Errorf("sent %d messages, want 0", got)
	}
}

func TestUnregisteredChannelGetsNotConfiguredReply(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, nil)

	err := env.processor.Process(context.Background(), inbound("hola, ¿cuánto cuesta?"))
	if !errors.Is(err, domerrors.ErrUnregisteredChannel) {
		t.Fatalf("Process() error = %v, want ErrUnregisteredChannel", err)
	}

	sent := env.sender.messages()
	if len(sent) != 1 {
		t.Fatalf("sent %d messages, want 1", len(sent))
	}
	if sent[0].Body != reply.NotConfiguredReply(false) {
		t.Errorf("Body = %q, want not-configured notice", sent[0].Body)
	}
}

func TestIncompleteProfileGetsMisconfiguredReply(t *testing.T) {
	t.Parallel()

	profile := completeProfile()
	profile.ContactEmail = ""
	env := newTestEnv(t, profile)

	err := env.processor.Process(context.Background(), inbound("¿hacen clases a domicilio?"))
	if !errors.Is(err, domerrors.ErrIncompleteProfile) {
		t.Fatalf("Process() error = %v, want ErrIncompleteProfile", err)
	}

	sent := env.sender.messages()
	if len(sent) != 1 {
		t.Fatalf("sent %d messages, want 1", len(sent))
	}
	if sent[0].Body != reply.MisconfiguredReply(false) {
		t.Errorf("Body = %q, want misconfigured notice", sent[0].Body)
	}
	if env.completer.callCount() != 0 {
		t.Error("incomplete profile must not reach the completion service")
	}
}

func TestBadChannelSendsNothing(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, completeProfile())

	msg := inbound("hola")
	msg.To = ""
	err := env.processor.Process(context.Background(), msg)
	if !errors.Is(err, domerrors.ErrBadChannel) {
		t.Fatalf("Process() error = %v, want ErrBadChannel", err)
	}
	if got := len(env.sender.messages()); got != 0 {
		t.Errorf("sent %d messages, want 0", got)
	}

	msg.To = "not-a-channel"
	if err := env.processor.Process(context.Background(), msg); !errors.Is(err, domerrors.ErrBadChannel) {
		t.Errorf("malformed channel: error = %v, want ErrBadChannel", err)
	}
}

func TestFailedChunkAbandonsRemainder(t *testing.T) {
	t.Parallel()

	profile := completeProfile()
	var b strings.Builder
	for range 30 {
		b.WriteString("Sesión de meditación guiada para principiantes y avanzados.\n")
	}
	profile.ServiceCatalog = b.String()

	env := newTestEnv(t, profile)
	env.sender.failAt = 2

	if err := env.processor.Process(context.Background(), inbound("quiero saber todo")); err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if got := len(env.sender.messages()); got != 1 {
		t.Errorf("sent %d chunks, want 1 before the failure stops delivery", got)
	}
}

func TestGratitudeGetsAck(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, completeProfile())

	if err := env.processor.Process(context.Background(), inbound("muchas gracias")); err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	sent := env.sender.messages()
	if len(sent) != 1 {
		t.Fatalf("sent %d messages, want 1", len(sent))
	}
	if sent[0].Body != reply.GratitudeReply(false) {
		t.Errorf("Body = %q, want gratitude ack", sent[0].Body)
	}
}

func TestEnglishMessageGetsEnglishTemplate(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, completeProfile())

	if err := env.processor.Process(context.Background(), inbound("hello, how much is the program?")); err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	sent := env.sender.messages()
	if len(sent) != 1 {
		t.Fatalf("sent %d messages, want 1", len(sent))
	}
	want, _ := reply.Canned(intent.Price, true)
	if sent[0].Body != want {
		t.Errorf("Body = %q, want English canned price reply", sent[0].Body)
	}
}
