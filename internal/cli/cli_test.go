package cli

import (
	"bytes"
	"net"
	"strconv"
	"strings"
	"testing"
	"time"

	"golang.org/x/net/nettest"

	"multicast-sender/internal/config"
)

func TestRunSendsAndExitsZero(t *testing.T) {
	pc, err := nettest.NewLocalPacketListener("udp4")
	if err != nil {
		t.Skipf("udp4 loopback not available: %v", err)
	}
	defer pc.Close()
	addr := pc.LocalAddr().(*net.UDPAddr)

	var stdout, stderr bytes.Buffer
	code := Run(config.Start, []string{
		"--addr", addr.IP.String(),
		"--port", strconv.Itoa(addr.Port),
		"-m", "hello",
		"-c", "2",
		"-i", "0",
	}, &stdout, &stderr)

	if code != 0 {
		t.Fatalf("exit code = %d\nstdout:\n%s\nstderr:\n%s", code, stdout.String(), stderr.String())
	}
	for _, want := range []string{
		"UDP Multicast Message Sender",
		"Target: " + addr.String(),
		"Count: 2",
		"Run: ",
		"Interval: 0.0s",
		"Sending message 1/2...",
		"Summary: 2/2 messages sent successfully",
	} {
		if !strings.Contains(stdout.String(), want) {
			t.Errorf("stdout missing %q:\n%s", want, stdout.String())
		}
	}

	buf := make([]byte, 1024)
	for i := 0; i < 2; i++ {
		_ = pc.SetReadDeadline(time.Now().Add(2 * time.Second))
		n, _, err := pc.ReadFrom(buf)
		if err != nil {
			t.Fatalf("datagram %d: %v", i+1, err)
		}
		if string(buf[:n]) != "hello" {
			t.Fatalf("datagram %d = %q", i+1, buf[:n])
		}
	}
}

func TestRunUsageError(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := Run(config.Stop, []string{"--count", "0"}, &stdout, &stderr)

	if code != 2 {
		t.Fatalf("exit code = %d, want 2", code)
	}
	if !strings.Contains(stderr.String(), "count must be at least 1") {
		t.Fatalf("stderr = %q", stderr.String())
	}
	if stdout.Len() != 0 {
		t.Fatalf("nothing should be sent on bad usage, stdout:\n%s", stdout.String())
	}
}

func TestRunHelp(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := Run(config.Stop, []string{"-h"}, &stdout, &stderr); code != 0 {
		t.Fatalf("exit code = %d, want 0", code)
	}
	if !strings.Contains(stderr.String(), "--interface") {
		t.Fatalf("usage missing --interface:\n%s", stderr.String())
	}
}

func TestFormatSeconds(t *testing.T) {
	cases := map[time.Duration]string{
		0:                       "0.0",
		time.Second:             "1.0",
		1500 * time.Millisecond: "1.5",
		250 * time.Millisecond:  "0.25",
		10 * time.Second:        "10.0",
	}
	for d, want := range cases {
		if got := formatSeconds(d); got != want {
			t.Errorf("formatSeconds(%s) = %q, want %q", d, got, want)
		}
	}
}

func TestBannerShowsRunID(t *testing.T) {
	var out bytes.Buffer
	printBanner(&out, config.SendConfig{Addr: "239.255.0.1", Port: 5555, Count: 1, Message: "x"}, "0f8fad5b-d9cb-469f-a165-70867728950e")

	if !strings.Contains(out.String(), "Run: 0f8fad5b-d9cb-469f-a165-70867728950e\n") {
		t.Fatalf("banner missing run id:\n%s", out.String())
	}
	if strings.Contains(out.String(), "Interval:") {
		t.Fatalf("single send should not print an interval:\n%s", out.String())
	}
}
