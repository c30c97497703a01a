package conversation

import (
	"errors"
	"reflect"
	"testing"
)

func TestDeleteTaskFlowDeletesListedIDs(t *testing.T) {
	h := newHarness()
	h.store.seed(1, 3, 5, 7)

	if err := h.text(menuLabelDeleteTasks); err != nil {
		t.Fatalf("start error: %v", err)
	}
	if err := h.text("3,5"); err != nil {
		t.Fatalf("advance error: %v", err)
	}
	if got := h.store.ids(); !reflect.DeepEqual(got, []uint{1, 7}) {
		t.Fatalf("remaining ids = %v, want [1 7]", got)
	}
	if h.session() != nil {
		t.Fatal("session should be cleared")
	}
	if got := h.transport.text(h.transport.sent[0].id); got != textTasksDeleted {
		t.Fatalf("anchor text = %q", got)
	}
}

func TestDeleteTaskFlowRejectsBadList(t *testing.T) {
	h := newHarness()
	h.store.seed(1, 3, 5, 7)

	_ = h.text(menuLabelDeleteTasks)
	if err := h.text("3,x"); err != nil {
		t.Fatalf("advance error: %v", err)
	}
	if got := h.store.ids(); !reflect.DeepEqual(got, []uint{1, 3, 5, 7}) {
		t.Fatalf("store modified: %v", got)
	}
	s := h.session()
	if s == nil || s.Step != deleteStepIDs {
		t.Fatalf("flow should stay at step %d, session %+v", deleteStepIDs, s)
	}
	if got := h.transport.text(s.AnchorID); got != textBadIDs {
		t.Fatalf("anchor text = %q, want re-prompt", got)
	}

	_ = h.text(" 3 , 5 ")
	if got := h.store.ids(); !reflect.DeepEqual(got, []uint{1, 7}) {
		t.Fatalf("remaining ids = %v, want [1 7]", got)
	}
}

func TestParseIDs(t *testing.T) {
	t.Parallel()
	tests := []struct {
		raw  string
		want []uint
		err  bool
	}{
		{raw: "3,5", want: []uint{3, 5}},
		{raw: " 7 ", want: []uint{7}},
		{raw: "2,2,4", want: []uint{2, 4}},
		{raw: "3,x", err: true},
		{raw: "3,,5", err: true},
		{raw: "-1", err: true},
		{raw: "0", err: true},
		{raw: "", err: true},
	}
	for _, tt := range tests {
		got, err := parseIDs(tt.raw)
		if tt.err {
			if !errors.Is(err, ErrInvalidIDs) {
				t.Fatalf("parseIDs(%q) error = %v, want ErrInvalidIDs", tt.raw, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("parseIDs(%q) error: %v", tt.raw, err)
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Fatalf("parseIDs(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}
