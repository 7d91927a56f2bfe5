// Package classifier decides which form page is currently rendered.
package classifier

import (
	"context"

	"apply-autofill/internal/application/port/output"
	"apply-autofill/internal/domain/entity"
)

var _ output.PageClassifier = (*Classifier)(nil)

// DefaultSignatures is the probe order used in production. The sign-in link
// can linger behind the account form, so it is checked first. The review
// heading comes before the section headers because the review page repeats
// every section.
var DefaultSignatures = []entity.Signature{
	{Kind: entity.PageSignIn, Probe: `//button[@data-automation-id="signInLink"]`},
	{Kind: entity.PageReview, Probe: `//h2[contains(text(),"Review")]`},
	{Kind: entity.PagePersonalInfo, Probe: `//h2[contains(text(),"My Information")]`},
	{Kind: entity.PageWorkExperience, Probe: `//div[@aria-labelledby="Work-Experience-section"]`},
	{Kind: entity.PageEducationExperience, Probe: `//div[@aria-labelledby="Education-section"]`},
	{Kind: entity.PageAdditionalInfo, Probe: `//h2[contains(text(),"Self Identify")]`},
	{Kind: entity.PageAccountCreation, Probe: `//input[@data-automation-id="email"]`},
}

type Classifier struct {
	probe      output.PageProbe
	signatures []entity.Signature
	logger     output.LoggerPort
	metrics    output.MetricsPort
}

func New(probe output.PageProbe, logger output.LoggerPort, metrics output.MetricsPort, signatures ...entity.Signature) *Classifier {
	if len(signatures) == 0 {
		signatures = DefaultSignatures
	}
	if metrics == nil {
		metrics = output.NopMetrics{}
	}
	return &Classifier{
		probe:      probe,
		signatures: signatures,
		logger:     logger.Named("classifier"),
		metrics:    metrics,
	}
}

// Classify returns the kind of the first signature whose probe matches, or
// PageUnknown. A failing probe counts as "absent".
func (c *Classifier) Classify(ctx context.Context) entity.PageKind {
	kind := c.classify(ctx)
	c.metrics.PageClassified(kind)
	return kind
}

func (c *Classifier) classify(ctx context.Context) entity.PageKind {
	for _, sig := range c.signatures {
		if ctx.Err() != nil {
			return entity.PageUnknown
		}
		ok, err := c.probe.Exists(ctx, sig.Probe)
		if err != nil {
			c.logger.Warn("Probe failed", "kind", sig.Kind.String(), "probe", sig.Probe.String(), "error", err)
			continue
		}
		if ok {
			c.logger.Debug("Page classified", "kind", sig.Kind.String())
			return sig.Kind
		}
	}
	c.logger.Debug("No signature matched")
	return entity.PageUnknown
}

// Signatures returns the probe order in use.
func (c *Classifier) Signatures() []entity.Signature {
	out := make([]entity.Signature, len(c.signatures))
	copy(out, c.signatures)
	return out
}
