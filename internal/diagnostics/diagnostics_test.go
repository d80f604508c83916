package diagnostics_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zenith9320/rcompiler-go/internal/diagnostics"
	"github.com/zenith9320/rcompiler-go/internal/token"
)

func TestError_RendersPositionCodeAndMessage(t *testing.T) {
	pos := token.Token{Kind: token.IDENTIFIER, Text: "y", Line: 3, Column: 14}
	err := diagnostics.New(diagnostics.PhaseAnalyzer, diagnostics.ErrA001, pos, "y")
	assert.Equal(t, `3:14: error[A001]: undeclared name "y"`, err.Error())
}

func TestError_OmitsPositionWhenUnknown(t *testing.T) {
	err := diagnostics.New(diagnostics.PhaseParser, diagnostics.ErrP005, token.Token{})
	assert.Equal(t, "error[P005]: expected an item, statement, or expression", err.Error())
}

func TestError_OnlyExtraTraitItemIsAWarning(t *testing.T) {
	pos := token.Token{Line: 1, Column: 1}
	warn := diagnostics.New(diagnostics.PhaseAnalyzer, diagnostics.WarnA101, pos, "extra", "Greet")
	assert.True(t, warn.IsWarning())

	err := diagnostics.New(diagnostics.PhaseAnalyzer, diagnostics.ErrA007, pos, "P", "hello", "Greet")
	assert.False(t, err.IsWarning())
}
