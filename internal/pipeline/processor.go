// Package pipeline implements inbound message processing: classification,
// reply selection, sanitization, debouncing, and chunked delivery.
package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/atiendebot/atiendebot/internal/chunk"
	"github.com/atiendebot/atiendebot/internal/debounce"
	domerrors "github.com/atiendebot/atiendebot/internal/errors"
	"github.com/atiendebot/atiendebot/internal/genai"
	"github.com/atiendebot/atiendebot/internal/intent"
	"github.com/atiendebot/atiendebot/internal/logger"
	"github.com/atiendebot/atiendebot/internal/metrics"
	"github.com/atiendebot/atiendebot/internal/registry"
	"github.com/atiendebot/atiendebot/internal/reply"
	"github.com/atiendebot/atiendebot/internal/sanitize"
	"github.com/atiendebot/atiendebot/internal/textutil"
	"github.com/atiendebot/atiendebot/internal/transport"
)

// Reply path labels for duration metrics.
const (
	pathTemplate   = "template"
	pathGenerative = "generative"
	pathCatalog    = "catalog"
)

// ProfileLookup resolves the client profile owning a channel.
type ProfileLookup interface {
	LookupByChannel(ctx context.Context, channelID string) (*registry.ClientProfile, error)
}

var generateWrap = domerrors.NewWrapper("pipeline", "generate_reply")

// Processor orchestrates the reply pipeline for one inbound message at a
// time. It is safe for concurrent use across senders; per-sender ordering
// is the dispatcher's job.
type Processor struct {
	registry  ProfileLookup
	completer genai.Completer
	sender    transport.Sender
	debounce  debounce.Store
	logger    *logger.Logger
	metrics   *metrics.Metrics

	maxChunkSize      int
	generationTimeout time.Duration
}

// ProcessorConfig holds configuration for creating a new Processor.
type ProcessorConfig struct {
	Registry          ProfileLookup
	Completer         genai.Completer
	Sender            transport.Sender
	Debounce          debounce.Store
	Logger            *logger.Logger
	Metrics           *metrics.Metrics
	MaxChunkSize      int
	GenerationTimeout time.Duration
}

// NewProcessor creates a new message processor.
func NewProcessor(cfg ProcessorConfig) *Processor {
	maxChunkSize := cfg.MaxChunkSize
	if maxChunkSize <= 0 {
		maxChunkSize = 1500
	}
	generationTimeout := cfg.GenerationTimeout
	if generationTimeout <= 0 {
		generationTimeout = 30 * time.Second
	}

	return &Processor{
		registry:          cfg.Registry,
		completer:         cfg.Completer,
		sender:            cfg.Sender,
		debounce:          cfg.Debounce,
		logger:            cfg.Logger.WithModule("pipeline"),
		metrics:           cfg.Metrics,
		maxChunkSize:      maxChunkSize,
		generationTimeout: generationTimeout,
	}
}

// Process runs one inbound message through the pipeline. The returned
// error is one of the pipeline's terminal outcomes; all of them are
// recoverable and none warrants a crash.
func (p *Processor) Process(ctx context.Context, msg transport.InboundMessage) error {
	log := p.logger.
		WithField("sender_id", msg.From).
		WithField("channel_id", msg.To).
		WithField("message_id", msg.MessageSID)

	if !validChannel(msg.To) {
		log.Warnf("Inbound message with missing or malformed channel")
		p.recordOutcome(string(intent.None), "bad_channel")
		return fmt.Errorf("%w: %q", domerrors.ErrBadChannel, msg.To)
	}

	profile, err := p.registry.LookupByChannel(ctx, msg.To)
	english := intent.IsEnglish(msg.Body)
	if err != nil {
		if domerrors.IsNotFound(err) {
			log.Warnf("No client registered for channel")
			p.recordOutcome(string(intent.None), "unregistered")
			p.deliver(ctx, msg, pathTemplate, []string{reply.NotConfiguredReply(english)})
			return domerrors.ErrUnregisteredChannel
		}
		log.WithError(err).Errorf("Profile lookup failed")
		return fmt.Errorf("profile lookup: %w", err)
	}

	normalized := textutil.Normalize(msg.Body)
	it := intent.Classify(normalized)
	lang := "es"
	if english {
		lang = "en"
	}
	if p.metrics != nil {
		p.metrics.RecordIntent(string(it), lang)
	}

	// First contact is decided before this message is recorded.
	firstMessage := !p.debounce.Seen(msg.From)
	p.debounce.Touch(msg.From)

	log = log.WithField("intent", string(it)).WithField("lang", lang)
	log.Infof("Processing inbound message")

	switch {
	case intent.WantsFullCatalog(msg.Body) && strings.TrimSpace(profile.ServiceCatalog) != "":
		return p.sendCatalog(ctx, msg, profile, english, it)

	case it.IsCanned():
		text, ok := reply.Canned(it, english)
		if !ok {
			return fmt.Errorf("no canned reply for intent %s", it)
		}
		p.recordOutcome(string(it), "delivered")
		p.deliver(ctx, msg, pathTemplate, []string{text})
		return nil

	case it == intent.Greeting:
		return p.sendGreeting(ctx, msg, english)

	case it == intent.Gratitude:
		p.recordOutcome(string(it), "delivered")
		p.deliver(ctx, msg, pathTemplate, []string{reply.GratitudeReply(english)})
		return nil

	default:
		return p.sendGenerative(ctx, msg, profile, english, firstMessage, it)
	}
}

// sendGreeting replies with the greeting template unless the sender was
// greeted inside the debounce window.
func (p *Processor) sendGreeting(ctx context.Context, msg transport.InboundMessage, english bool) error {
	if p.debounce.ShouldSuppressGreeting(msg.From) {
		p.logger.WithField("sender_id", msg.From).Infof("Greeting suppressed by debounce window")
		if p.metrics != nil {
			p.metrics.RecordDebounceSuppressed()
		}
		p.recordOutcome(string(intent.Greeting), "suppressed")
		return domerrors.ErrSuppressed
	}

	p.debounce.RecordGreeting(msg.From)
	p.recordOutcome(string(intent.Greeting), "delivered")
	p.deliver(ctx, msg, pathTemplate, []string{reply.GreetingReply(english)})
	return nil
}

// sendCatalog delivers the full service catalog, chunked and framed.
func (p *Processor) sendCatalog(ctx context.Context, msg transport.InboundMessage, profile *registry.ClientProfile, english bool, it intent.Intent) error {
	chunks := chunk.Split(profile.ServiceCatalog, p.maxChunkSize)
	framed := chunk.Frame(chunks, reply.CatalogHeader(english), reply.CatalogFooter(english))

	if p.metrics != nil && len(chunks) > 1 {
		p.metrics.RecordChunkedReply(len(chunks))
	}
	p.recordOutcome(string(it), "delivered")
	p.deliver(ctx, msg, pathCatalog, framed)
	return nil
}

// sendGenerative builds the prompt, calls the completion service, and
// sanitizes the output before delivery.
func (p *Processor) sendGenerative(ctx context.Context, msg transport.InboundMessage, profile *registry.ClientProfile, english, firstMessage bool, it intent.Intent) error {
	log := p.logger.WithField("sender_id", msg.From).WithField("channel_id", msg.To)

	if !profile.Complete() {
		log.WithField("missing_fields", profile.MissingFields()).
			Warnf("Client profile incomplete; sending misconfigured notice")
		p.recordOutcome(string(it), "misconfigured")
		p.deliver(ctx, msg, pathTemplate, []string{reply.MisconfiguredReply(english)})
		return domerrors.ErrIncompleteProfile
	}

	purchaseIntent := intent.HasPurchaseIntent(msg.Body)
	prompt := genai.BuildReplyPrompt(genai.PromptInput{
		BusinessName:   profile.BusinessName,
		ServiceCatalog: profile.ServiceCatalog,
		OpeningHours:   profile.OpeningHours,
		ContactEmail:   profile.ContactEmail,
		ContactPhone:   profile.ContactPhone,
		UserMessage:    msg.Body,
		English:        english,
		FirstMessage:   firstMessage,
		PurchaseIntent: purchaseIntent,
	})

	genCtx, cancel := context.WithTimeout(ctx, p.generationTimeout)
	defer cancel()

	start := time.Now()
	raw, err := p.completer.Complete(genCtx, prompt)
	genDuration := time.Since(start).Seconds()

	if p.metrics != nil {
		status := "ok"
		if err != nil {
			status = "error"
		}
		p.metrics.RecordGeneration(string(p.completer.Provider()), status, genDuration)
	}
	if err != nil {
		log.WithError(err).Errorf("Completion service failed; no reply sent")
		p.recordOutcome(string(it), "generation_failed")
		return generateWrap.Wrap(
			fmt.Errorf("%w: %v", domerrors.ErrGenerationFailed, err),
			"could not generate a reply")
	}

	sanitized, err := sanitize.Run(raw, sanitize.Input{
		UserMessage:    msg.Body,
		English:        english,
		FirstMessage:   firstMessage,
		PurchaseIntent: purchaseIntent,
	})
	if err != nil {
		log.Infof("Generated reply dropped by sanitizer")
		p.recordOutcome(string(it), "dropped")
		return err
	}

	p.recordOutcome(string(it), "delivered")
	p.deliver(ctx, msg, pathGenerative, p.splitIfOversized(sanitized))
	return nil
}

// splitIfOversized chunks replies exceeding the transport limit. Framing
// is reserved for the catalog path; regular replies stay bare.
func (p *Processor) splitIfOversized(text string) []string {
	chunks := chunk.Split(text, p.maxChunkSize)
	if p.metrics != nil && len(chunks) > 1 {
		p.metrics.RecordChunkedReply(len(chunks))
	}
	return chunks
}

// deliver sends chunks in strict order. A failed send abandons the
// remaining chunks; there is no resend.
func (p *Processor) deliver(ctx context.Context, msg transport.InboundMessage, path string, chunks []string) {
	start := time.Now()

	for i, c := range chunks {
		sendStart := time.Now()
		deliveryID, err := p.sender.Send(ctx, msg.To, msg.From, c)
		if p.metrics != nil {
			status := "ok"
			if err != nil {
				status = "error"
			}
			p.metrics.RecordDelivery(status, time.Since(sendStart).Seconds())
		}
		if err != nil {
			p.logger.WithError(err).
				WithField("sender_id", msg.From).
				WithField("chunk", i).
				WithField("chunks_total", len(chunks)).
				Errorf("Delivery failed; abandoning remaining chunks")
			return
		}
		p.logger.WithField("sender_id", msg.From).
			WithField("delivery_id", deliveryID).
			Debugf("Chunk %d/%d delivered", i+1, len(chunks))
	}

	if p.metrics != nil {
		p.metrics.RecordPipelineDuration(path, time.Since(start).Seconds())
	}
}

func (p *Processor) recordOutcome(intentName, outcome string) {
	if p.metrics != nil {
		p.metrics.RecordPipelineOutcome(intentName, outcome)
	}
}

// validChannel accepts the provider's channel format ("whatsapp:+E164").
func validChannel(channelID string) bool {
	rest, ok := strings.CutPrefix(channelID, "whatsapp:")
	return ok && strings.HasPrefix(rest, "+") && len(rest) > 1
}
