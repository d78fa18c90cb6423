// pkg/security/security_test.go
// TEST TYPE: Unit Tests
// DEPENDENCIES: None
// PURPOSE: Test security-mode evaluation and the gitleaks checker on
// clean content

package security_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/onefile/pkg/errors"
	"github.com/arthur-debert/onefile/pkg/security"
	"github.com/arthur-debert/onefile/pkg/types"
)

// stubChecker reports fixed findings and records whether it ran.
type stubChecker struct {
	findings []security.Finding
	err      error
	called   bool
}

func (s *stubChecker) Name() string { return "stub" }

func (s *stubChecker) Check(_ context.Context, _ string, _ []byte) ([]security.Finding, error) {
	s.called = true
	return s.findings, s.err
}

func TestEvaluate_SkipNeverRunsChecker(t *testing.T) {
	stub := &stubChecker{findings: []security.Finding{{RuleID: "x"}}}
	err := security.Evaluate(context.Background(), stub, types.SecuritySkip,
		types.FileEntry{Path: "a.txt"}, []byte("content"))
	require.NoError(t, err)
	assert.False(t, stub.called)
}

func TestEvaluate_WarnKeepsFile(t *testing.T) {
	stub := &stubChecker{findings: []security.Finding{
		{RuleID: "aws-access-key-id", Line: 3},
	}}
	err := security.Evaluate(context.Background(), stub, types.SecurityWarn,
		types.FileEntry{Path: "a.txt"}, []byte("content"))
	assert.NoError(t, err)
	assert.True(t, stub.called)
}

func TestEvaluate_ErrorFailsFile(t *testing.T) {
	stub := &stubChecker{findings: []security.Finding{
		{RuleID: "aws-access-key-id", Line: 3},
	}}
	err := security.Evaluate(context.Background(), stub, types.SecurityError,
		types.FileEntry{Path: "cfg/.env"}, []byte("content"))
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrSecurityViolation))

	details := errors.GetErrorDetails(err)
	assert.Equal(t, "cfg/.env", details["file"])
	assert.Equal(t, 1, details["findings"])
}

func TestEvaluate_CleanContent(t *testing.T) {
	stub := &stubChecker{}
	err := security.Evaluate(context.Background(), stub, types.SecurityError,
		types.FileEntry{Path: "a.txt"}, []byte("nothing here"))
	assert.NoError(t, err)
}

func TestEvaluate_NilChecker(t *testing.T) {
	err := security.Evaluate(context.Background(), nil, types.SecurityError,
		types.FileEntry{Path: "a.txt"}, []byte("content"))
	assert.NoError(t, err)
}

func TestGitleaksChecker_CleanContent(t *testing.T) {
	checker := security.NewGitleaksChecker()
	assert.Equal(t, "gitleaks", checker.Name())

	findings, err := checker.Check(context.Background(), "main.go",
		[]byte("package main\n\nfunc main() {}\n"))
	require.NoError(t, err)
	assert.Empty(t, findings)
}
