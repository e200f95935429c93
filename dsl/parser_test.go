package dsl_test

import (
	"strings"
	"testing"

	"github.com/ByLCY/brick/dsl"
)

const sampleDSL = `
// 一个带语句输入与外部值输入的块
block controls_if (prev next colour="#5b80a5") {
  icon warning (width=16 height=16)
  input value "IF0" {
    label "if"
    block logic_compare (output) {
      input value "A" (inline)
      input value "B" (inline) {
        dropdown "=" (noflip)
      }
    }
  }
  input statement "DO0" {
    label "do"
    block text_print (prev next) {
      input dummy { label "print ${user.name}" }
    }
  }
  next block text_print (prev) {}
}

block when_started (hat next, x=20 y=-4.5) {
  input dummy { label "when started" }
}
`

func TestParseWorkspace(t *testing.T) {
	ws, err := dsl.ParseString(sampleDSL)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(ws.Blocks) != 2 {
		t.Fatalf("expected 2 top-level blocks, got %d", len(ws.Blocks))
	}

	root := ws.Blocks[0]
	if root.Type != "controls_if" {
		t.Fatalf("expected controls_if, got %s", root.Type)
	}
	if !root.Attrs.Flag("prev") || !root.Attrs.Flag("next") || root.Attrs.Flag("output") {
		t.Fatalf("unexpected connection flags: %+v", root.Attrs)
	}
	if colour, ok := root.Attrs.String("colour"); !ok || colour != "#5b80a5" {
		t.Fatalf("expected colour #5b80a5, got %q", colour)
	}
	if len(root.Items) != 4 {
		t.Fatalf("expected 4 items, got %d", len(root.Items))
	}

	icon := root.Items[0].Icon
	if icon == nil || icon.Name != "warning" {
		t.Fatalf("expected warning icon, got %+v", root.Items[0])
	}
	if w, err := icon.Attrs.Number("width"); err != nil || w != 16 {
		t.Fatalf("expected icon width 16, got %g (%v)", w, err)
	}

	cond := root.Items[1].Input
	if cond == nil || cond.Kind != "value" || cond.Name != "IF0" {
		t.Fatalf("expected value input IF0, got %+v", root.Items[1])
	}
	if len(cond.Items) != 2 || cond.Items[0].Field == nil || cond.Items[1].Block == nil {
		t.Fatalf("expected label + block in IF0, got %+v", cond.Items)
	}
	if got := string(*cond.Items[0].Field.Text); got != "if" {
		t.Fatalf("expected label text if, got %q", got)
	}
	compare := cond.Items[1].Block
	if !compare.Items[0].Input.Attrs.Flag("inline") {
		t.Fatalf("expected input A to be inline")
	}
	dropdown := compare.Items[1].Input.Items[0].Field
	if dropdown.Kind != "dropdown" || !dropdown.Attrs.Flag("noflip") {
		t.Fatalf("unexpected dropdown field: %+v", dropdown)
	}

	if next := root.Items[3].Next; next == nil || next.Type != "text_print" {
		t.Fatalf("expected next block text_print, got %+v", root.Items[3])
	}

	hat := ws.Blocks[1]
	if !hat.Attrs.Flag("hat") {
		t.Fatalf("expected hat flag")
	}
	if y, err := hat.Attrs.Number("y"); err != nil || y != -4.5 {
		t.Fatalf("expected y=-4.5, got %g (%v)", y, err)
	}
}

func TestParseReaderAndComments(t *testing.T) {
	src := "# 注释\nblock empty {}\n/* 块注释 */ block other () {}"
	ws, err := dsl.Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(ws.Blocks) != 2 {
		t.Fatalf("expected 2 blocks, got %d", len(ws.Blocks))
	}
	if ws.Blocks[0].Attrs != nil {
		t.Fatalf("expected nil attrs for bare block")
	}
	if ws.Blocks[0].Attrs.Flag("prev") {
		t.Fatalf("nil attr list must report no flags")
	}
}

func TestFlagFalseValues(t *testing.T) {
	ws, err := dsl.ParseString(`block b (prev=false next=no output=yes) {}`)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	attrs := ws.Blocks[0].Attrs
	if attrs.Flag("prev") || attrs.Flag("next") || !attrs.Flag("output") {
		t.Fatalf("unexpected flags: prev=%v next=%v output=%v", attrs.Flag("prev"), attrs.Flag("next"), attrs.Flag("output"))
	}
}

func TestParseErrors(t *testing.T) {
	cases := []string{
		`block {}`,
		`block b { input bogus }`,
		`block b (prev`,
	}
	for _, src := range cases {
		if _, err := dsl.ParseString(src); err == nil {
			t.Fatalf("expected parse error for %q", src)
		}
	}
}

func TestNumberAttrRejectsText(t *testing.T) {
	ws, err := dsl.ParseString(`block b (x=abc) {}`)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if _, err := ws.Blocks[0].Attrs.Number("x"); err == nil {
		t.Fatalf("expected error for non-numeric x")
	}
}
