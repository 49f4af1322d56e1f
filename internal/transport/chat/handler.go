package chat

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/wordguess/internal/domain"
	"github.com/kailas-cloud/wordguess/internal/domain/chunk"
	"github.com/kailas-cloud/wordguess/internal/domain/search/result"
	logpkg "github.com/kailas-cloud/wordguess/internal/logger"
	"github.com/kailas-cloud/wordguess/internal/metrics"
	searchuc "github.com/kailas-cloud/wordguess/internal/usecase/search"
)

// Command outcomes recorded in metrics.
const (
	outcomeOK         = "ok"
	outcomeDenied     = "denied"
	outcomeIgnored    = "ignored"
	outcomeUsage      = "usage"
	outcomeNotFound   = "not_found"
	outcomeError      = "error"
	outcomeSendFailed = "send_failed"
)

// Sayer posts a message to a channel.
type Sayer interface {
	Say(ctx context.Context, channel, text string) error
}

// Searcher runs word searches.
type Searcher interface {
	Search(ctx context.Context, p searchuc.Params, capBytes int) (result.Result, []chunk.Segment, error)
	Lists(ctx context.Context) ([]string, error)
}

// HandlerConfig controls command parsing and replies.
type HandlerConfig struct {
	Prefix        string
	AllowedBadges []string
	CapBytes      int
	NotifyErrors  bool
	EmptyReply    string // sent for an empty result; "" sends nothing
}

type command struct {
	usage string
	run   func(ctx context.Context, h *CommandHandler, msg Privmsg, args []string) string
}

// CommandHandler answers prefixed commands from privileged chat users.
type CommandHandler struct {
	cfg      HandlerConfig
	search   Searcher
	say      Sayer
	logger   *zap.Logger
	commands map[string]command
}

var _ Handler = (*CommandHandler)(nil)

// NewCommandHandler creates a handler with the guess and lists commands.
func NewCommandHandler(cfg HandlerConfig, search Searcher, say Sayer, logger *zap.Logger) *CommandHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Prefix == "" {
		cfg.Prefix = "!"
	}
	if len(cfg.AllowedBadges) == 0 {
		cfg.AllowedBadges = []string{"moderator", "broadcaster"}
	}
	h := &CommandHandler{cfg: cfg, search: search, say: say, logger: logger}
	h.commands = map[string]command{
		"guess": {usage: "<letters> <list> [min] [max] [bonus]", run: cmdGuess},
		"lists": {usage: "", run: cmdLists},
	}
	return h
}

// HandlePrivmsg logs msg and runs the command it carries, if any.
func (h *CommandHandler) HandlePrivmsg(ctx context.Context, msg Privmsg) {
	h.logger.Info("#"+msg.Channel+" -> "+msg.DisplayName+": "+msg.Text,
		zap.String("channel", msg.Channel),
		zap.String("sender", msg.Sender),
	)

	if !strings.HasPrefix(msg.Text, h.cfg.Prefix) {
		return
	}
	fields := strings.Fields(msg.Text)
	name := strings.ToLower(strings.TrimPrefix(fields[0], h.cfg.Prefix))
	cmd, ok := h.commands[name]
	if !ok {
		return
	}

	if !msg.HasBadge(h.cfg.AllowedBadges...) {
		metrics.ChatCommandsTotal.WithLabelValues(name, outcomeDenied).Inc()
		return
	}

	ctx = logpkg.ContextWithLogger(ctx, h.logger.With(
		zap.String("channel", msg.Channel),
		zap.String("sender", msg.Sender),
		zap.String("command", name),
	))
	outcome := cmd.run(ctx, h, msg, fields[1:])
	metrics.ChatCommandsTotal.WithLabelValues(name, outcome).Inc()
}

func cmdGuess(ctx context.Context, h *CommandHandler, msg Privmsg, args []string) string {
	if len(args) < 2 {
		return outcomeIgnored
	}

	p := searchuc.Params{Pool: args[0], List: args[1]}
	targets := []**int{&p.MinLength, &p.MaxLength, &p.Bonus}
	for i, raw := range args[2:] {
		if i == len(targets) {
			break
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return h.usage(ctx, msg.Channel, "guess", fmt.Sprintf("%q is not a number", raw))
		}
		*targets[i] = &n
	}

	_, segments, err := h.search.Search(ctx, p, h.cfg.CapBytes)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrInvalidRequest):
		return h.usage(ctx, msg.Channel, "guess", strings.TrimPrefix(err.Error(), domain.ErrInvalidRequest.Error()+": "))
	case errors.Is(err, domain.ErrDictionaryNotFound):
		h.logger.Warn("Unknown word list", zap.String("list", p.List), zap.String("channel", msg.Channel))
		h.notify(ctx, msg.Channel, fmt.Sprintf("unknown word list %q", p.List))
		return outcomeNotFound
	default:
		h.logger.Error("Search failed", zap.Error(err), zap.String("list", p.List))
		h.notify(ctx, msg.Channel, "search failed")
		return outcomeError
	}

	if !h.send(ctx, msg.Channel, chunk.Render(segments)) {
		return outcomeSendFailed
	}
	return outcomeOK
}

func cmdLists(ctx context.Context, h *CommandHandler, msg Privmsg, _ []string) string {
	names, err := h.search.Lists(ctx)
	if errors.Is(err, domain.ErrListingNotSupported) {
		return outcomeIgnored
	}
	if err != nil {
		h.logger.Error("Listing word lists failed", zap.Error(err))
		h.notify(ctx, msg.Channel, "could not list word lists")
		return outcomeError
	}

	if !h.send(ctx, msg.Channel, chunk.Render(chunk.Split(names, h.cfg.CapBytes))) {
		return outcomeSendFailed
	}
	return outcomeOK
}

// send posts each line in order, replacing an empty line with EmptyReply or
// skipping it. It stops at the first failed send.
func (h *CommandHandler) send(ctx context.Context, channel string, lines []string) bool {
	for _, line := range lines {
		if line == "" {
			if h.cfg.EmptyReply == "" {
				continue
			}
			line = h.cfg.EmptyReply
		}
		if err := h.say.Say(ctx, channel, line); err != nil {
			h.logger.Error("Chat send failed", zap.Error(err), zap.String("channel", channel))
			return false
		}
	}
	return true
}

func (h *CommandHandler) usage(ctx context.Context, channel, name, reason string) string {
	text := "usage: " + h.cfg.Prefix + name + " " + h.commands[name].usage
	if reason != "" {
		text = reason + "; " + text
	}
	if err := h.say.Say(ctx, channel, text); err != nil {
		h.logger.Error("Chat send failed", zap.Error(err), zap.String("channel", channel))
	}
	return outcomeUsage
}

func (h *CommandHandler) notify(ctx context.Context, channel, text string) {
	if !h.cfg.NotifyErrors {
		return
	}
	if err := h.say.Say(ctx, channel, text); err != nil {
		h.logger.Error("Chat send failed", zap.Error(err), zap.String("channel", channel))
	}
}
