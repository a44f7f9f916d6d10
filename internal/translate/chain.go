package translate

import (
	"context"
	"strings"

	"github.com/miyakawa-h/jimaku/internal/logging"
	"github.com/miyakawa-h/jimaku/internal/subtitle"
)

// Chain tries an ordered list of translators per segment and guarantees a
// terminal result: either a translation or the original text. Every provider
// failure is recoverable; exhausting the chain keeps the source text.
type Chain struct {
	providers []Translator
	logger    *logging.Logger
}

// NewChain builds a fallback chain over the given providers, tried in order.
func NewChain(logger *logging.Logger, providers ...Translator) *Chain {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Chain{providers: providers, logger: logger}
}

// NewChainFor assembles a chain that tries the named providers in the given
// order, using each provider's credential. A provider with no key is simply
// left out, which is equivalent to it failing immediately.
func NewChainFor(ctx context.Context, order []Provider, creds Credentials, logger *logging.Logger) *Chain {
	if logger == nil {
		logger = logging.NewNop()
	}

	var providers []Translator
	for _, provider := range order {
		tr, err := Factory(ctx, provider, creds.KeyFor(provider))
		if err != nil {
			logger.Warnw("Translation provider unavailable",
				"provider", provider,
				"error", err,
			)
			continue
		}
		providers = append(providers, tr)
	}

	return NewChain(logger, providers...)
}

// NewDefaultChain assembles the standard DeepL-then-Gemini chain from the
// available credentials.
func NewDefaultChain(ctx context.Context, creds Credentials, logger *logging.Logger) *Chain {
	return NewChainFor(ctx, DefaultProviderOrder(), creds, logger)
}

// TranslateText runs the chain for one text. It returns the final text, the
// provider that produced it (ProviderNone when no provider succeeded), and
// whether the chain was exhausted without a translation.
func (c *Chain) TranslateText(ctx context.Context, text, sourceLang, targetLang string) (string, Provider, bool) {
	if strings.TrimSpace(text) == "" {
		return "", ProviderNone, false
	}

	for _, tr := range c.providers {
		translated, err := tr.Translate(ctx, text, sourceLang, targetLang)
		if err == nil {
			return translated, tr.Name(), false
		}
		c.logger.Warnw("Translation provider failed, falling back",
			"provider", tr.Name(),
			"error", err,
		)
	}

	return text, ProviderNone, true
}

// TranslateSegments translates a sequence of segments into the target
// language, returning a new slice with the same order and count plus the
// number of segments for which every provider failed. When source and target
// languages match, the input is returned as a copy with no provider calls.
func (c *Chain) TranslateSegments(
	ctx context.Context,
	segments []subtitle.Segment,
	sourceLang, targetLang string,
) ([]subtitle.Segment, int) {
	out := make([]subtitle.Segment, len(segments))
	copy(out, segments)

	if strings.EqualFold(strings.TrimSpace(sourceLang), strings.TrimSpace(targetLang)) {
		return out, 0
	}

	failures := 0
	for i, seg := range out {
		text, provider, exhausted := c.TranslateText(ctx, seg.Text, sourceLang, targetLang)
		if exhausted {
			failures++
			continue // keep the original text
		}
		out[i].Text = text
		c.logger.Debugw("Translated segment",
			"index", i,
			"provider", provider,
		)
	}

	if failures > 0 {
		c.logger.Warnw("Some segments kept their original text",
			"failed", failures,
			"total", len(segments),
		)
	}

	return out, failures
}
