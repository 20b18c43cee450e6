package notify

import "testing"

func TestRecorderReplacesByTag(t *testing.T) {
	rec := NewRecorder(true)
	if !rec.Authorized() {
		t.Fatalf("recorder should report authorized")
	}

	_ = rec.Send(Notification{Tag: 1, Title: "first", Body: "a"})
	_ = rec.Send(Notification{Tag: 2, Title: "other", Body: "b"})
	_ = rec.Send(Notification{Tag: 1, Title: "second", Body: "c"})

	sent := rec.Sent()
	if len(sent) != 2 {
		t.Fatalf("expected 2 distinct tags, got %d", len(sent))
	}
	if sent[0].Tag != 1 || sent[0].Title != "second" {
		t.Fatalf("tag 1 not replaced: %#v", sent[0])
	}
	if sent[1].Tag != 2 {
		t.Fatalf("unexpected second notification: %#v", sent[1])
	}
}

func TestNoopIsUnauthorized(t *testing.T) {
	var n Noop
	if n.Authorized() {
		t.Fatalf("noop notifier must not claim authorization")
	}
	if err := n.Send(Notification{Tag: 1}); err != nil {
		t.Fatalf("noop send: %v", err)
	}
}
