package parser

import (
	"strings"
	"testing"
)

func TestTextParser_HeadingsFromFormatterRules(t *testing.T) {
	input := strings.Join([]string{
		"Foreword line.",
		"",
		"PROJECT MANAGEMENT PRINCIPLES",
		"Stewardship means acting responsibly.",
		"• Integrity",
		"• Care",
		"",
		"Section 2 Team",
		"Build a collaborative team.",
	}, "\n")

	tree, err := (&TextParser{}).Parse(strings.NewReader(input), "pmbok.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tree.Title != "pmbok" {
		t.Errorf("expected title %q, got %q", "pmbok", tree.Title)
	}
	if len(tree.Children) != 2 {
		t.Fatalf("expected lead node and one chapter, got %d", len(tree.Children))
	}
	if tree.Children[0].Text != "Foreword line." {
		t.Errorf("lead text: got %q", tree.Children[0].Text)
	}

	ch := tree.Children[1]
	if ch.Title != "PROJECT MANAGEMENT PRINCIPLES" {
		t.Errorf("chapter title: got %q", ch.Title)
	}
	wantBody := "Stewardship means acting responsibly.\n• Integrity\n• Care"
	if ch.Text != wantBody {
		t.Errorf("chapter body:\nwant %q\ngot  %q", wantBody, ch.Text)
	}
	if len(ch.Children) != 1 || ch.Children[0].Title != "Section 2 Team" {
		t.Fatalf("expected nested Section 2, got %+v", ch.Children)
	}
	if ch.Children[0].Text != "Build a collaborative team." {
		t.Errorf("section body: got %q", ch.Children[0].Text)
	}
}

func TestTextParser_DropsTableOfContents(t *testing.T) {
	input := "Introduction ........ 1\nScope … 4\n\nReal text."
	tree, err := (&TextParser{}).Parse(strings.NewReader(input), "toc.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tree.Children) != 1 || tree.Children[0].Text != "Real text." {
		t.Fatalf("expected only body text, got %+v", tree.Children)
	}
}

func TestTextParser_EmptyInput(t *testing.T) {
	tree, err := (&TextParser{}).Parse(strings.NewReader(""), "empty.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tree.Title != "empty" {
		t.Errorf("expected title %q, got %q", "empty", tree.Title)
	}
	if len(tree.Children) != 0 {
		t.Errorf("expected 0 children for empty input, got %d", len(tree.Children))
	}
}

func TestTextParser_ParagraphGaps(t *testing.T) {
	input := "Para one.\n   \n\n\nPara two."
	tree, err := (&TextParser{}).Parse(strings.NewReader(input), "gaps.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tree.Children) != 1 {
		t.Fatalf("expected 1 child, got %d", len(tree.Children))
	}
	if tree.Children[0].Text != "Para one.\n\nPara two." {
		t.Errorf("got %q", tree.Children[0].Text)
	}
}

func TestOutlinePages_KeepsPageNumbers(t *testing.T) {
	pages := []string{
		"INTRODUCTION TO THE METHOD\nPRINCE2 is a method.",
		"",
		"Chapter 3 Themes\nThemes are aspects.\nAPPENDIX MATERIAL\nTemplates.",
	}
	tree := outlinePages("prince2", pages)
	if tree.Pages != 3 {
		t.Errorf("expected 3 pages, got %d", tree.Pages)
	}
	if len(tree.Children) != 2 {
		t.Fatalf("expected 2 top-level nodes, got %d", len(tree.Children))
	}
	intro := tree.Children[0]
	if intro.Page != 1 || intro.Text != "PRINCE2 is a method." {
		t.Errorf("intro: %+v", intro)
	}
	if len(intro.Children) != 1 || intro.Children[0].Page != 3 {
		t.Fatalf("expected Chapter 3 on page 3 under intro, got %+v", intro.Children)
	}
	if tree.Children[1].Title != "APPENDIX MATERIAL" || tree.Children[1].Page != 3 {
		t.Errorf("appendix: %+v", tree.Children[1])
	}
}
