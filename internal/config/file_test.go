package config

import (
	"io"
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

const bridgeConfig = `{
	"mqtt": {"broker": "tcp://localhost", "port": 1883, "topic": "detect"},
	"udp": {"multicast_addr": "239.1.1.1", "multicast_port": 7000, "interface": "127.0.0.1"}
}`

func TestParseUsesBridgeConfig(t *testing.T) {
	path := writeConfig(t, bridgeConfig)

	opts := parse(t, Start, "--config", path)

	if opts.Addr != "239.1.1.1" || opts.Port != 7000 || opts.Interface != "127.0.0.1" {
		t.Fatalf("SendConfig = %+v, want values from %s", opts.SendConfig, path)
	}
}

func TestFlagsOverrideBridgeConfig(t *testing.T) {
	path := writeConfig(t, bridgeConfig)

	opts := parse(t, Stop, "--config", path, "--port", "6001", "--interface", "")

	if opts.Addr != "239.1.1.1" {
		t.Errorf("Addr = %q, want value from file", opts.Addr)
	}
	if opts.Port != 6001 {
		t.Errorf("Port = %d, want flag value 6001", opts.Port)
	}
	if opts.Interface != "" {
		t.Errorf("Interface = %q, want flag value", opts.Interface)
	}
}

func TestMulticastSectionWinsOverUDP(t *testing.T) {
	d, err := parseFileDefaults([]byte(`{
		"udp": {"multicast_addr": "239.1.1.1", "multicast_port": 7000, "interface": "10.0.0.5"},
		"multicast": {"addr": "239.2.2.2", "port": 8000}
	}`))
	if err != nil {
		t.Fatalf("parseFileDefaults: %v", err)
	}
	if *d.Addr != "239.2.2.2" || *d.Port != 8000 {
		t.Fatalf("addr/port = %s/%d, want multicast section", *d.Addr, *d.Port)
	}
	if *d.Interface != "10.0.0.5" {
		t.Fatalf("Interface = %q", *d.Interface)
	}
}

func TestBridgeConfigWithoutUDPSections(t *testing.T) {
	d, err := parseFileDefaults([]byte(`{"mqtt": {"broker": "b", "topic": "t"}, "udp": "ignored"}`))
	if err != nil {
		t.Fatalf("parseFileDefaults: %v", err)
	}
	if d.Addr != nil || d.Port != nil || d.Interface != nil {
		t.Fatalf("expected no defaults, got %+v", d)
	}

	opts := parse(t, Start, "--config", writeConfig(t, `{}`))
	if opts.Addr != DefaultAddr || opts.Port != Start.Port {
		t.Fatalf("variant defaults should stay, got %+v", opts.SendConfig)
	}
}

func TestBadBridgeConfig(t *testing.T) {
	cases := map[string]string{
		"missing":    filepath.Join(t.TempDir(), "absent.json"),
		"not json":   writeConfig(t, `{udp`),
		"bad port":   writeConfig(t, `{"udp": {"multicast_port": "x"}}`),
		"bad addr":   writeConfig(t, `{"multicast": {"addr": "nowhere"}}`),
		"port range": writeConfig(t, `{"multicast": {"port": 0}}`),
	}
	for name, path := range cases {
		if _, err := Parse(Start, []string{"--config", path}, io.Discard, testClock); err == nil {
			t.Errorf("%s: Parse should fail", name)
		}
	}
}
