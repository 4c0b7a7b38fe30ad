package parser

import (
	"errors"
	"strings"
	"testing"
)

func TestCollectPages_SkipsFailingPages(t *testing.T) {
	errBroken := errors.New("broken xref")
	read := func(num int) (string, error) {
		switch num {
		case 2:
			panic("index out of range")
		case 3:
			return "", errBroken
		case 4:
			return "   ", nil
		}
		return "page " + strings.Repeat("x", num), nil
	}

	pages, skipped := collectPages(5, read)

	if len(pages) != 2 || pages[0] != "page x" || pages[1] != "page xxxxx" {
		t.Fatalf("pages = %q", pages)
	}
	if len(skipped) != 2 {
		t.Fatalf("expected 2 skipped pages, got %v", skipped)
	}
	if skipped[0].Page != 2 || !strings.Contains(skipped[0].Err.Error(), "panic") {
		t.Errorf("skipped[0] = %v", skipped[0])
	}
	if skipped[1].Page != 3 || !errors.Is(skipped[1], errBroken) {
		t.Errorf("skipped[1] = %v", skipped[1])
	}
}

func TestCollectPages_NoPages(t *testing.T) {
	pages, skipped := collectPages(0, func(int) (string, error) {
		t.Fatal("read called for an empty document")
		return "", nil
	})
	if pages != nil || skipped != nil {
		t.Errorf("expected nothing, got %q %v", pages, skipped)
	}
}
