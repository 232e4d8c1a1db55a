package tui

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestWrapTextBreaksOnWords(t *testing.T) {
	got := wrapText("take a slow breath and relax", 10)
	want := []string{"take a", "slow", "breath and", "relax"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected lines (-want +got):\n%s", diff)
	}
}

func TestWrapTextSplitsLongWords(t *testing.T) {
	got := wrapText("hi abcdefghij", 4)
	want := []string{"hi", "abcd", "efgh", "ij"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected lines (-want +got):\n%s", diff)
	}
}

func TestWrapTextWideRunes(t *testing.T) {
	got := wrapText("日本語です", 4)
	want := []string{"日本", "語で", "す"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected lines (-want +got):\n%s", diff)
	}
}

func TestWrapTextKeepsParagraphs(t *testing.T) {
	got := wrapText("one\n\ntwo", 10)
	want := []string{"one", "", "two"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected lines (-want +got):\n%s", diff)
	}
}
