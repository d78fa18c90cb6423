// Package security implements the pluggable secret check the bundle
// pipeline consults per file. The default checker wraps gitleaks with
// its bundled default ruleset; anything satisfying Checker can replace
// it.
package security

import (
	"context"
	"sync"

	"github.com/zricethezav/gitleaks/v8/detect"

	"github.com/arthur-debert/onefile/pkg/errors"
	"github.com/arthur-debert/onefile/pkg/logging"
	"github.com/arthur-debert/onefile/pkg/types"
)

// Finding is a single secret hit inside a file's content.
type Finding struct {
	// RuleID identifies the matched detection rule, e.g. "aws-access-key-id"
	RuleID string

	// Description is the rule's human-readable summary
	Description string

	// Line is the 1-based line number of the hit
	Line int

	// Secret is the matched value, kept only for redaction decisions
	// upstream and never logged
	Secret string
}

// Checker scans one file's content for secrets.
type Checker interface {
	Name() string
	Check(ctx context.Context, path string, content []byte) ([]Finding, error)
}

// GitleaksChecker runs the gitleaks detector with its default config.
// The detector builds lazily on first use and is shared afterwards;
// DetectBytes is safe for concurrent callers.
type GitleaksChecker struct {
	once     sync.Once
	detector *detect.Detector
	initErr  error
}

// NewGitleaksChecker returns the default secret checker.
func NewGitleaksChecker() *GitleaksChecker {
	return &GitleaksChecker{}
}

// Name identifies the checker in logs and diagnostics.
func (c *GitleaksChecker) Name() string { return "gitleaks" }

// Check scans content and returns one Finding per hit.
func (c *GitleaksChecker) Check(ctx context.Context, path string, content []byte) ([]Finding, error) {
	c.once.Do(func() {
		detector, err := detect.NewDetectorDefaultConfig()
		if err != nil {
			c.initErr = errors.Wrap(err, errors.ErrInternal, "cannot build gitleaks detector")
			return
		}
		c.detector = detector
	})
	if c.initErr != nil {
		return nil, c.initErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	hits := c.detector.DetectBytes(content)
	if len(hits) == 0 {
		return nil, nil
	}
	findings := make([]Finding, 0, len(hits))
	for _, h := range hits {
		findings = append(findings, Finding{
			RuleID:      h.RuleID,
			Description: h.Description,
			Line:        h.StartLine + 1, // gitleaks is 0-indexed
			Secret:      h.Secret,
		})
	}
	return findings, nil
}

// Evaluate applies the file's resolved security mode to the check
// outcome: skip never calls the checker, warn logs and keeps the file,
// error fails the file with SECURITY_VIOLATION.
func Evaluate(ctx context.Context, checker Checker, mode types.SecurityMode, file types.FileEntry, content []byte) error {
	if mode == types.SecuritySkip || checker == nil {
		return nil
	}

	findings, err := checker.Check(ctx, file.Path, content)
	if err != nil {
		return errors.Wrapf(err, errors.ErrInternal, "secret check failed for %s", file.Path).
			WithDetail("file", file.Path).
			WithDetail("checker", checker.Name())
	}
	if len(findings) == 0 {
		return nil
	}

	log := logging.GetLogger("security")
	for _, f := range findings {
		log.Warn().
			Str("file", file.Path).
			Str("rule", f.RuleID).
			Int("line", f.Line).
			Msg("possible secret detected")
	}

	if mode == types.SecurityError {
		first := findings[0]
		return errors.Newf(errors.ErrSecurityViolation,
			"%s contains a possible secret (%s, line %d)", file.Path, first.RuleID, first.Line).
			WithDetail("file", file.Path).
			WithDetail("findings", len(findings)).
			WithDetail("rule", first.RuleID).
			WithDetail("line", first.Line)
	}
	return nil
}
