package bot

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/mirrenhall/chronicler/internal/dice"
	"github.com/mirrenhall/chronicler/internal/merit"
	"github.com/mirrenhall/chronicler/internal/random"
	"github.com/mirrenhall/chronicler/internal/render"
)

// scripted pins the handler's randomness to a fixed face sequence.
func scripted(h *Handler, faces ...int) {
	h.seed = func() (int64, error) { return 1, nil }
	h.source = func(int64) dice.Source { return random.Script(faces...) }
}

func newTestHandler(t *testing.T) *Handler {
	t.Helper()
	return New(merit.NewCatalog(t.TempDir()), zerolog.Nop())
}

func TestHandleRoll(t *testing.T) {
	h := newTestHandler(t)
	scripted(h, 8, 3, 10, 10, 5, 7, 2)

	reply, err := h.Handle(context.Background(), "@roller", "!roll 5")
	if err != nil {
		t.Fatalf("Handle returned error: %v", err)
	}
	want := "@roller rolled 5 dice and got 3 successes: 8, 3, 10, 10, 5, (7), (2)"
	if reply.Text != want {
		t.Fatalf("reply = %q, want %q", reply.Text, want)
	}
	if reply.Attachment != nil {
		t.Fatal("roll reply should not carry an attachment")
	}
}

func TestHandleChanceRoll(t *testing.T) {
	h := newTestHandler(t)
	scripted(h, 1)

	reply, err := h.Handle(context.Background(), "@roller", "!roll chance")
	if err != nil {
		t.Fatalf("Handle returned error: %v", err)
	}
	if !strings.Contains(reply.Text, "botched") {
		t.Fatalf("expected botch callout, got %q", reply.Text)
	}
}

func TestHandleParseErrorIsUserVisible(t *testing.T) {
	h := newTestHandler(t)

	reply, err := h.Handle(context.Background(), "@roller", "!roll five")
	if err != nil {
		t.Fatalf("parse failures must not be fatal: %v", err)
	}
	if !strings.Contains(reply.Text, "Could not read that command") {
		t.Fatalf("expected parse error reply, got %q", reply.Text)
	}
}

func TestHandleHelp(t *testing.T) {
	h := newTestHandler(t)

	reply, err := h.Handle(context.Background(), "@roller", "!help")
	if err != nil {
		t.Fatalf("Handle returned error: %v", err)
	}
	if reply.Text != render.Help() {
		t.Fatal("expected help text reply")
	}
}

func TestHandleMerit(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "common_sense.png")
	if err := os.WriteFile(path, []byte("png"), 0o600); err != nil {
		t.Fatalf("write image: %v", err)
	}
	h := New(merit.NewCatalog(dir), zerolog.Nop())

	reply, err := h.Handle(context.Background(), "@roller", "!merit common sense")
	if err != nil {
		t.Fatalf("Handle returned error: %v", err)
	}
	if reply.Text != "Common Sense" {
		t.Fatalf("reply = %q, want canonical merit name", reply.Text)
	}
	if reply.Attachment == nil || reply.Attachment.Path != path {
		t.Fatalf("attachment = %+v, want path %q", reply.Attachment, path)
	}
}

func TestHandleMeritNotFound(t *testing.T) {
	h := newTestHandler(t)

	reply, err := h.Handle(context.Background(), "@roller", "!merit flight")
	if err != nil {
		t.Fatalf("Handle returned error: %v", err)
	}
	if reply.Text != "Could not find merit." {
		t.Fatalf("reply = %q", reply.Text)
	}
}

// TestHandleSeedFaultIsFatal ensures a randomness fault propagates instead
// of becoming a chat reply.
func TestHandleSeedFaultIsFatal(t *testing.T) {
	h := newTestHandler(t)
	seedErr := errors.New("entropy source failed")
	h.seed = func() (int64, error) { return 0, seedErr }

	_, err := h.Handle(context.Background(), "@roller", "!roll 3")
	if !errors.Is(err, seedErr) {
		t.Fatalf("error = %v, want %v", err, seedErr)
	}
}

func TestHandleSourceFaultIsFatal(t *testing.T) {
	h := newTestHandler(t)
	scripted(h, 5) // one face for a two-die pool

	_, err := h.Handle(context.Background(), "@roller", "!roll 2")
	if !errors.Is(err, random.ErrExhausted) {
		t.Fatalf("error = %v, want %v", err, random.ErrExhausted)
	}
}
