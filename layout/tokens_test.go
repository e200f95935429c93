package layout

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ByLCY/brick/block"
)

func TestDefaultTokensValidate(t *testing.T) {
	require.NoError(t, DefaultTokens().Validate())
	require.NotSame(t, DefaultTokens(), DefaultTokens(), "each call returns a fresh copy")
}

func TestTokensValidateRejects(t *testing.T) {
	cases := map[string]func(*Tokens){
		"negative":        func(t *Tokens) { t.TabWidth = -1 },
		"nan":             func(t *Tokens) { t.SpacerHeight = math.NaN() },
		"inf":             func(t *Tokens) { t.HatWidth = math.Inf(1) },
		"radius too big":  func(t *Tokens) { t.CornerRadius = 20 },
		"notch in corner": func(t *Tokens) { t.NotchOffsetLeft = 4 },
		"tab too tall":    func(t *Tokens) { t.TabHeight = 30 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			tk := DefaultTokens()
			mutate(tk)
			require.Error(t, tk.Validate())
		})
	}
	var nilTokens *Tokens
	require.Error(t, nilTokens.Validate())
}

func TestMeasurableSizes(t *testing.T) {
	tk := DefaultTokens()

	round := NewCorner(tk, false, true)
	require.Equal(t, KindLeftRoundCorner, round.Kind())
	require.Equal(t, Box{Width: tk.CornerRadius, Height: tk.CornerRadius / 2}, round.Extent())
	require.Equal(t, KindRightSquareCorner, NewCorner(tk, true, false).Kind())
	require.Equal(t, Box{}, NewCorner(tk, true, false).Extent())

	hat := NewHat(tk)
	require.Equal(t, tk.HatHeight, hat.AscenderHeight)

	ext := NewExternalInput(nil, Box{}, tk)
	require.Equal(t, tk.TabWidth, ext.Width)
	require.Equal(t, tk.TabOffsetFromTop+tk.TabHeight, ext.Height)

	stmt := NewStatementInput(nil, Box{Width: 300, Height: math.NaN()}, tk)
	require.Equal(t, tk.NotchOffsetLeft+tk.NotchWidth, stmt.Width, "the connected stack hangs outside the body")
	require.Equal(t, tk.EmptyStatementInputHeight, stmt.Height)

	require.Equal(t, KindNextConnection, NewConnection(tk, true).Kind())
	require.Equal(t, KindPreviousConnection, NewConnection(tk, false).Kind())
	require.Equal(t, Box{}, NewInRowSpacer(-4).Extent())

	icon := NewIconMeasurable(stubIcon{w: 10, h: 10, hidden: true}, tk)
	require.False(t, icon.IsVisible)
	require.Equal(t, Box{}, icon.Extent())

	f := NewFieldMeasurable(&stubField{kind: block.FieldText, w: 10, h: 10, editable: true}, tk)
	require.True(t, f.Nudge)
	f = NewFieldMeasurable(&stubField{kind: block.FieldCheckbox, w: 10, h: 10, editable: true}, tk)
	require.False(t, f.Nudge, "checkboxes are not nudged")
}

func TestKindNames(t *testing.T) {
	require.Equal(t, "statement-input", KindStatementInput.String())
	require.Equal(t, "unknown", Kind(99).String())
	text, err := KindHat.MarshalText()
	require.NoError(t, err)
	require.Equal(t, "hat", string(text))
}
