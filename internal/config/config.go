package config

import (
	"fmt"
	"io"
	"math"
	"time"

	"github.com/spf13/pflag"

	"multicast-sender/internal/logger"
	"multicast-sender/internal/message"
	"multicast-sender/internal/netutil"
)

const (
	DefaultAddr     = "239.255.0.1"
	DefaultTTL      = 2
	DefaultCount    = 1
	DefaultInterval = 1.0
)

// Variant is a preset of the sender. Variants differ only in their default
// port and in the command token of the default JSON message.
type Variant struct {
	Name    string
	Port    int
	Command string
}

var (
	Start = Variant{Name: "multicast_sender", Port: 5555, Command: "start-detect-recording"}
	Stop  = Variant{Name: "multicast_stop_sender", Port: 6000, Command: "stop-detect-recording"}
)

// SendConfig describes one invocation. It is not modified after Parse.
type SendConfig struct {
	Addr      string
	Port      int
	TTL       int
	Interface string // empty selects the system default
	Count     int
	Interval  time.Duration
	Message   string
	JSON      bool
}

type Options struct {
	SendConfig
	LogLevel logger.Level
}

// Parse reads the command line for the given variant. Usage and flag errors
// are written to out. A --help request is reported as pflag.ErrHelp.
func Parse(v Variant, args []string, out io.Writer, clock message.Clock) (*Options, error) {
	fs := pflag.NewFlagSet(v.Name, pflag.ContinueOnError)
	fs.SetOutput(out)
	fs.SortFlags = false

	var (
		opts     Options
		interval float64
		level    string
		command  string
		file     string
	)
	fs.StringVar(&opts.Addr, "addr", DefaultAddr, "Multicast address")
	fs.IntVar(&opts.Port, "port", v.Port, "Port number")
	fs.StringVarP(&opts.Message, "message", "m", "", "Message to send")
	fs.BoolVarP(&opts.JSON, "json", "j", false, "Send as JSON")
	fs.IntVarP(&opts.Count, "count", "c", DefaultCount, "Number of times to send")
	fs.Float64VarP(&interval, "interval", "i", DefaultInterval, "Interval between sends in seconds")
	fs.IntVar(&opts.TTL, "ttl", DefaultTTL, "TTL (Time To Live) for multicast")
	fs.StringVar(&opts.Interface, "interface", "", "Network interface address (e.g., 192.168.1.100). Empty for system default.")
	fs.StringVar(&command, "command", v.Command, "Command field of the default JSON message")
	fs.StringVar(&file, "config", "", "Bridge config.json supplying addr, port and interface defaults")
	fs.StringVar(&level, "log-level", logger.WARN.String(), "Diagnostic log level (DEBUG, INFO, WARN, ERROR)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	if file != "" {
		d, err := LoadFileDefaults(file)
		if err != nil {
			return nil, err
		}
		d.apply(&opts.SendConfig, fs.Changed)
	}

	lvl, err := logger.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	opts.LogLevel = lvl

	d, err := secondsToDuration(interval)
	if err != nil {
		return nil, err
	}
	opts.Interval = d

	if !fs.Changed("message") {
		if opts.JSON {
			opts.Message = message.DefaultJSON(command, clock)
		} else {
			opts.Message = message.DefaultText
		}
	}

	if err := opts.SendConfig.Validate(); err != nil {
		return nil, err
	}
	return &opts, nil
}

// Validate checks ranges and address syntax. Whether the interface address
// exists on this host is only known when sending.
func (c SendConfig) Validate() error {
	if _, err := netutil.ParseIPv4(c.Addr); err != nil {
		return fmt.Errorf("addr: %w", err)
	}
	if err := netutil.ValidatePort(c.Port); err != nil {
		return fmt.Errorf("port: %w", err)
	}
	if err := netutil.ValidateTTL(c.TTL); err != nil {
		return fmt.Errorf("ttl: %w", err)
	}
	if c.Interface != "" {
		if _, err := netutil.ParseIPv4(c.Interface); err != nil {
			return fmt.Errorf("interface: %w", err)
		}
	}
	if c.Count < 1 {
		return fmt.Errorf("count must be at least 1, got %d", c.Count)
	}
	if c.Interval < 0 {
		return fmt.Errorf("interval must not be negative, got %s", c.Interval)
	}
	return nil
}

func secondsToDuration(s float64) (time.Duration, error) {
	if math.IsNaN(s) || math.IsInf(s, 0) {
		return 0, fmt.Errorf("interval must be a finite number of seconds, got %v", s)
	}
	if s < 0 {
		return 0, fmt.Errorf("interval must not be negative, got %v", s)
	}
	if s > math.MaxInt64/float64(time.Second) {
		return 0, fmt.Errorf("interval too large: %v", s)
	}
	return time.Duration(s * float64(time.Second)), nil
}
