package multicast

import (
	"context"
	"fmt"
	"io"
	"net"
	"syscall"

	"golang.org/x/net/ipv4"
	"golang.org/x/sys/unix"

	"multicast-sender/internal/logger"
	"multicast-sender/internal/message"
	"multicast-sender/internal/netutil"
)

// Target is where and how a datagram is sent.
type Target struct {
	Addr      string
	Port      int
	TTL       int
	Interface string // empty selects the system default
}

func (t Target) String() string {
	return netutil.FormatAddress(t.Addr, t.Port)
}

// Sender transmits each payload on a socket of its own.
type Sender struct {
	out    io.Writer
	logger *logger.Logger
}

func NewSender(out io.Writer, log *logger.Logger) *Sender {
	if out == nil {
		out = io.Discard
	}
	if log == nil {
		log = logger.Discard()
	}
	return &Sender{out: out, logger: log}
}

// SendOnce opens a UDP socket, applies the multicast options, writes payload
// as one datagram and closes the socket. A nil result only means the local
// stack accepted the datagram.
//
// Failing to select the outbound interface is not an error: the socket keeps
// the system default and the send goes ahead.
func (s *Sender) SendOnce(payload []byte, t Target) error {
	err := s.send(payload, t)
	if err != nil {
		s.logger.Error("send to %s failed: %v", t, err)
		fmt.Fprintf(s.out, "✗ Failed to send message: %v\n", err)
		return err
	}

	s.logger.Debug("sent %d bytes to %s ttl=%d digest=%016x", len(payload), t, t.TTL, message.Digest(payload))
	fmt.Fprintf(s.out, "✓ Message sent to %s\n", t)
	fmt.Fprintf(s.out, "  Content: %s\n", payload)
	return nil
}

func (s *Sender) send(payload []byte, t Target) error {
	dest, err := netutil.ResolveUDP4Addr(t.Addr, t.Port)
	if err != nil {
		return &SendError{Op: "resolve", Addr: t.String(), Err: err}
	}

	lc := net.ListenConfig{Control: s.interfaceControl(t.Interface)}
	pc, err := lc.ListenPacket(context.Background(), "udp4", ":0")
	if err != nil {
		return &SendError{Op: "socket", Err: err}
	}
	defer pc.Close()

	if err := ipv4.NewPacketConn(pc).SetMulticastTTL(t.TTL); err != nil {
		return &SendError{Op: "ttl", Addr: t.String(), Err: fmt.Errorf("set multicast ttl %d: %w", t.TTL, err)}
	}

	n, err := pc.WriteTo(payload, dest)
	if err != nil {
		return &SendError{Op: "send", Addr: dest.String(), Err: err}
	}
	if n != len(payload) {
		return &SendError{Op: "send", Addr: dest.String(), Err: fmt.Errorf("partial write: %d/%d bytes", n, len(payload))}
	}
	return nil
}

// interfaceControl selects the outbound multicast interface by address
// before the socket is bound.
func (s *Sender) interfaceControl(iface string) func(network, address string, c syscall.RawConn) error {
	return func(network, address string, c syscall.RawConn) error {
		if iface == "" {
			fmt.Fprintln(s.out, "  Using system default interface")
			return nil
		}

		ip, err := netutil.ParseIPv4(iface)
		if err != nil {
			s.interfaceFallback(iface, err)
			return nil
		}

		var setErr error
		if err := c.Control(func(fd uintptr) {
			setErr = unix.SetsockoptInet4Addr(int(fd), unix.IPPROTO_IP, unix.IP_MULTICAST_IF, [4]byte(ip))
		}); err != nil {
			return err
		}
		if setErr != nil {
			s.interfaceFallback(iface, setErr)
			return nil
		}

		if ifi, _, err := netutil.FindInterfaceByIP(iface); err == nil {
			s.logger.Debug("multicast interface %s (%s)", iface, ifi.Name)
		}
		fmt.Fprintf(s.out, "  Using network interface: %s\n", iface)
		return nil
	}
}

func (s *Sender) interfaceFallback(iface string, err error) {
	s.logger.Warn("failed to set multicast interface %s, using system default: %v", iface, err)
	fmt.Fprintf(s.out, "  Warning: Failed to set interface %s: %v\n", iface, err)
	fmt.Fprintln(s.out, "  Using system default interface")
}
