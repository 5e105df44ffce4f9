package cli

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"multicast-sender/internal/config"
	"multicast-sender/internal/logger"
	"multicast-sender/internal/message"
	"multicast-sender/internal/multicast"
	"multicast-sender/internal/netutil"
)

const (
	exitOK     = 0
	exitFailed = 1
	exitUsage  = 2
)

// Run parses args for the variant, performs the sends and returns the process
// exit code: 0 when every attempt succeeded, 1 otherwise, 2 for bad usage.
func Run(v config.Variant, args []string, stdout, stderr io.Writer) int {
	opts, err := config.Parse(v, args, stderr, message.SystemClock{})
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return exitOK
		}
		fmt.Fprintln(stderr, "Error:", err)
		return exitUsage
	}

	log := logger.NewWithWriter(stderr, opts.LogLevel)
	log.Debug("config %+v", opts.SendConfig)
	if ip, err := netutil.ParseIPv4(opts.Addr); err == nil && !ip.IsMulticast() {
		log.Warn("%s is not a multicast address, datagrams will be sent unicast", ip)
	}

	printBanner(stdout, opts.SendConfig, log.RunID().String())

	sender := multicast.NewSender(stdout, log)
	runner := multicast.NewRunner(sender, message.NewBuilder(message.SystemClock{}), stdout, log)
	summary := runner.Run(opts.SendConfig)

	fmt.Fprintln(stdout)
	fmt.Fprintf(stdout, "Summary: %s messages sent successfully\n", summary)

	if !summary.OK() {
		return exitFailed
	}
	return exitOK
}

func printBanner(w io.Writer, cfg config.SendConfig, runID string) {
	rule := strings.Repeat("=", 60)
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, "UDP Multicast Message Sender")
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "Run: %s\n", runID)
	fmt.Fprintf(w, "Target: %s:%d\n", cfg.Addr, cfg.Port)
	fmt.Fprintf(w, "Message: %s\n", cfg.Message)
	fmt.Fprintf(w, "Count: %d\n", cfg.Count)
	if cfg.Count > 1 {
		fmt.Fprintf(w, "Interval: %ss\n", formatSeconds(cfg.Interval))
	}
	if cfg.Interface != "" {
		fmt.Fprintf(w, "Interface: %s\n", cfg.Interface)
	}
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w)
}

// formatSeconds always keeps a fractional part, so one second reads "1.0".
func formatSeconds(d time.Duration) string {
	s := strconv.FormatFloat(d.Seconds(), 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
