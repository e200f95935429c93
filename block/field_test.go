package block

import "testing"

func TestNewFieldSizes(t *testing.T) {
	m := EstimateMeasurer{FontSize: 10}
	tw, th := m.MeasureText("abc")

	label := NewField(FieldLabel, "abc", m, 0, 0)
	if label.Width != tw || label.Height != th || label.Editable() {
		t.Fatalf("label = %+v", label)
	}
	text := NewField(FieldText, "abc", m, 0, 0)
	if text.Width != tw+2*fieldPaddingX || text.Height != th+2*fieldPaddingY || !text.Editable() {
		t.Fatalf("text = %+v", text)
	}
	dd := NewField(FieldDropdown, "abc", m, 0, 0)
	if dd.Width != text.Width+dropdownArrowWidth {
		t.Fatalf("dropdown width = %g", dd.Width)
	}
	cb := NewField(FieldCheckbox, "", m, 0, 0)
	if cb.Width != checkboxSize || cb.Height != checkboxSize {
		t.Fatalf("checkbox = %+v", cb)
	}
	img := NewField(FieldImage, "", m, 32, 0)
	if img.Width != 32 || img.Height != defaultImageSize {
		t.Fatalf("image = %+v", img)
	}
}

func TestEstimateMeasurerEmptyText(t *testing.T) {
	w, h := EstimateMeasurer{}.MeasureText("")
	if w != 0 || h != DefaultFontSize*1.25 {
		t.Fatalf("empty text = %gx%g", w, h)
	}
}

func TestParseFieldKind(t *testing.T) {
	for k, name := range fieldKindNames {
		got, ok := ParseFieldKind(name)
		if !ok || got != k {
			t.Fatalf("ParseFieldKind(%q) = %v, %v", name, got, ok)
		}
	}
	if _, ok := ParseFieldKind("slider"); ok {
		t.Fatalf("slider should not parse")
	}
}

func TestPositioner(t *testing.T) {
	f := &BasicField{}
	f.MoveTo(3, 4)
	if !f.Placed || f.X != 3 || f.Y != 4 {
		t.Fatalf("MoveTo did not record position: %+v", f)
	}
	if f.String() != "" {
		t.Fatalf("String() = %q", f.String())
	}
}
