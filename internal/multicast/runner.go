package multicast

import (
	"fmt"
	"io"
	"time"

	"multicast-sender/internal/config"
	"multicast-sender/internal/logger"
	"multicast-sender/internal/message"
)

// MessageSender is satisfied by *Sender.
type MessageSender interface {
	SendOnce(payload []byte, t Target) error
}

// Summary counts successful attempts. Sent <= Total always holds.
type Summary struct {
	Sent  int
	Total int
}

func (s Summary) OK() bool {
	return s.Sent == s.Total
}

func (s Summary) String() string {
	return fmt.Sprintf("%d/%d", s.Sent, s.Total)
}

// Runner issues the configured number of sends, one after another.
type Runner struct {
	Builder *message.Builder
	Sender  MessageSender
	Sleep   func(time.Duration)
	Out     io.Writer
	Logger  *logger.Logger
}

func NewRunner(sender MessageSender, builder *message.Builder, out io.Writer, log *logger.Logger) *Runner {
	if out == nil {
		out = io.Discard
	}
	if log == nil {
		log = logger.Discard()
	}
	if builder == nil {
		builder = message.NewBuilder(nil)
	}
	return &Runner{
		Builder: builder,
		Sender:  sender,
		Sleep:   time.Sleep,
		Out:     out,
		Logger:  log,
	}
}

// Run sends cfg.Count messages, pausing cfg.Interval between consecutive
// sends. A failed attempt does not stop the loop.
func (r *Runner) Run(cfg config.SendConfig) Summary {
	target := Target{
		Addr:      cfg.Addr,
		Port:      cfg.Port,
		TTL:       cfg.TTL,
		Interface: cfg.Interface,
	}
	summary := Summary{Total: cfg.Count}

	for i := 1; i <= cfg.Count; i++ {
		if i > 1 {
			r.Sleep(cfg.Interval)
		}
		if cfg.Count > 1 {
			fmt.Fprintf(r.Out, "Sending message %d/%d...\n", i, cfg.Count)
		}

		var id *int
		if cfg.JSON {
			seq := i
			id = &seq
		}
		payload := r.Builder.Build(cfg.Message, cfg.JSON, cfg.JSON, id)

		if err := r.Sender.SendOnce([]byte(payload), target); err != nil {
			r.Logger.Info("attempt %d/%d failed: %v", i, cfg.Count, err)
		} else {
			summary.Sent++
		}

		if cfg.Count > 1 && i < cfg.Count {
			fmt.Fprintln(r.Out)
		}
	}

	r.Logger.Info("finished: %s messages sent to %s", summary, target)
	return summary
}
