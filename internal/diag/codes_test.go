package diag

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryConsistency(t *testing.T) {
	validPhases := map[Phase]bool{
		PhaseLex: true, PhaseParse: true, PhaseCanon: true, PhaseType: true,
		PhaseMutability: true, PhaseExtern: true, PhaseCodegen: true,
		PhaseRuntime: true, PhaseCLI: true,
	}

	for code, info := range Registry {
		assert.Equal(t, code, info.Code, "registry key does not match info.Code")
		assert.True(t, validPhases[info.Phase], "%s has invalid phase %q", code, info.Phase)
		assert.NotEmpty(t, info.Description, "%s has empty description", code)
	}
}

func TestRegistryHasAtLeastFiftyCodes(t *testing.T) {
	assert.GreaterOrEqual(t, len(Registry), 50, "registry has too few codes")
}

func TestSpecScenarioCodesExist(t *testing.T) {
	// Codes named explicitly by spec.md §8's worked scenarios.
	for _, code := range []string{
		CanonRecursionAccumulator,
		CanonRecursionCPS,
		CanonMatchBoolean,
		TypeNonexhaustive,
		CLIImportCycle,
	} {
		_, ok := Lookup(code)
		assert.True(t, ok, "scenario code %s missing from registry", code)
	}
}

func TestDiagnosticWrapRoundTrip(t *testing.T) {
	d := New(CanonMatchBoolean, PhaseCanon, "match scrutinee is 𝔹").
		WithLocation(Location{File: "m.sigil", Line: 2, Column: 1}).
		WithFixits(Fixit{File: "m.sigil", Offset: 10, EndOffset: 20, Replacement: "if cond { } else { }"})

	err := Wrap(d)
	got, ok := AsDiagnostic(err)
	require.True(t, ok, "expected diagnostic to round-trip through Wrap/AsDiagnostic")
	assert.Equal(t, CanonMatchBoolean, got.Code)
	assert.Len(t, got.Fixits, 1)
}

func TestDiagnosticWithDetailsRoundTrip(t *testing.T) {
	d := New(TypeNonexhaustive, PhaseType, "match is not exhaustive").
		WithDetails([]string{"Circle", "Square"})

	err := Wrap(d)
	got, ok := AsDiagnostic(err)
	require.True(t, ok)
	assert.Equal(t, []string{"Circle", "Square"}, got.Details)
}

func TestEnvelopeRoundTrip(t *testing.T) {
	okEnv := OKEnvelope("lex", map[string]int{"tokens": 3})
	assert.True(t, okEnv.OK)
	assert.Equal(t, "lex", okEnv.Command)

	d := New(TypeUnboundName, PhaseType, "unbound name: x")
	errEnv := ErrEnvelope("compile", d)
	assert.False(t, errEnv.OK)
	assert.Equal(t, PhaseType, errEnv.Phase)

	raw, err := errEnv.ToJSON()
	require.NoError(t, err, "ToJSON failed")
	assert.NotEmpty(t, raw)
}
