// Package bot dispatches parsed chat commands to the dice engine.
package bot

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/mirrenhall/chronicler/internal/command"
	"github.com/mirrenhall/chronicler/internal/dice"
	"github.com/mirrenhall/chronicler/internal/merit"
	"github.com/mirrenhall/chronicler/internal/random"
	"github.com/mirrenhall/chronicler/internal/render"
)

// Attachment is a file to send alongside a reply.
type Attachment struct {
	// Name is the display title, e.g. the canonical merit name.
	Name string
	// Stub is the normalized file stub used to build a public URL.
	Stub string
	// Path is the file location on disk.
	Path string
}

// Reply is the bot's answer to one command.
type Reply struct {
	Text       string
	Attachment *Attachment
}

// Handler resolves chat commands.
//
// Parse failures become user-visible reply text; they never reach the
// engine. A randomness fault is the one fatal path: it is returned as an
// error rather than a reply, and the caller is expected to stop.
type Handler struct {
	merits *merit.Catalog
	log    zerolog.Logger
	tracer trace.Tracer

	// seed and source are swapped out by tests for deterministic rolls.
	seed   func() (int64, error)
	source func(seed int64) dice.Source
}

// New creates a command handler.
func New(merits *merit.Catalog, log zerolog.Logger) *Handler {
	return &Handler{
		merits: merits,
		log:    log.With().Str("component", "bot").Logger(),
		tracer: otel.Tracer("chronicler/bot"),
		seed:   random.NewSeed,
		source: random.Seeded,
	}
}

// Handle resolves one command from the named author.
func (h *Handler) Handle(ctx context.Context, author, content string) (Reply, error) {
	ctx, span := h.tracer.Start(ctx, "bot.handle")
	defer span.End()

	cmd, err := command.Parse(content)
	if err != nil {
		h.log.Debug().Err(err).Str("content", content).Msg("rejected command")
		return Reply{Text: fmt.Sprintf("Could not read that command: %v.", err)}, nil
	}

	switch cmd.Kind {
	case command.KindHelp:
		return Reply{Text: render.Help()}, nil
	case command.KindMerit:
		return h.handleMerit(cmd.Merit), nil
	default:
		return h.handleRoll(ctx, span, author, cmd.Roll)
	}
}

func (h *Handler) handleMerit(name string) Reply {
	image, err := h.merits.Lookup(name)
	if err != nil {
		h.log.Debug().Err(err).Str("merit", name).Msg("merit lookup failed")
		return Reply{Text: "Could not find merit."}
	}
	return Reply{
		Text: image.Name,
		Attachment: &Attachment{
			Name: image.Name,
			Stub: image.Stub,
			Path: image.Path,
		},
	}
}

func (h *Handler) handleRoll(ctx context.Context, span trace.Span, author string, request dice.Request) (Reply, error) {
	seed, err := h.seed()
	if err != nil {
		return Reply{}, fmt.Errorf("generate roll seed: %w", err)
	}

	result, err := dice.Resolve(request, h.source(seed))
	if err != nil {
		return Reply{}, fmt.Errorf("resolve pool: %w", err)
	}

	span.SetAttributes(
		attribute.Int("roll.pool", request.Pool),
		attribute.Int("roll.successes", result.Successes),
		attribute.Bool("roll.chance", result.IsChanceDie),
	)

	// The seed is the audit handle: replaying it with the same request
	// reproduces the roll exactly.
	h.log.Info().
		Int64("seed", seed).
		Int("pool", request.Pool).
		Int("dice", len(result.Dice)).
		Int("successes", result.Successes).
		Int("exploded", result.ExplodedCount).
		Bool("chance", result.IsChanceDie).
		Bool("botch", result.IsBotch).
		Msg("resolved roll")

	return Reply{Text: render.Roll(author, result)}, nil
}
