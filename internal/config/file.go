package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// FileDefaults holds the destination settings read from a UDP-to-MQTT bridge
// config.json. Nil fields were absent from the file.
type FileDefaults struct {
	Addr      *string
	Port      *int
	Interface *string
}

type udpSection struct {
	MulticastAddr *string `json:"multicast_addr"`
	MulticastPort *int    `json:"multicast_port"`
	Interface     *string `json:"interface"`
}

type multicastSection struct {
	Addr *string `json:"addr"`
	Port *int    `json:"port"`
}

// LoadFileDefaults reads the "udp" and "multicast" sections of a bridge
// config. A section that is not an object is ignored. When both sections set
// the address or port, "multicast" wins. Other sections such as "mqtt" are
// not used by the sender.
func LoadFileDefaults(path string) (*FileDefaults, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	return parseFileDefaults(data)
}

func parseFileDefaults(data []byte) (*FileDefaults, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return nil, fmt.Errorf("failed to parse JSON config: %w", err)
	}

	d := &FileDefaults{}

	if raw, ok := top["udp"]; ok && isObject(raw) {
		var u udpSection
		if err := json.Unmarshal(raw, &u); err != nil {
			return nil, fmt.Errorf("config udp section: %w", err)
		}
		d.Addr, d.Port, d.Interface = u.MulticastAddr, u.MulticastPort, u.Interface
	}

	if raw, ok := top["multicast"]; ok && isObject(raw) {
		var m multicastSection
		if err := json.Unmarshal(raw, &m); err != nil {
			return nil, fmt.Errorf("config multicast section: %w", err)
		}
		if m.Addr != nil {
			d.Addr = m.Addr
		}
		if m.Port != nil {
			d.Port = m.Port
		}
	}

	return d, nil
}

// apply fills cfg from d for every setting not given on the command line.
func (d *FileDefaults) apply(cfg *SendConfig, changed func(name string) bool) {
	if d.Addr != nil && !changed("addr") {
		cfg.Addr = *d.Addr
	}
	if d.Port != nil && !changed("port") {
		cfg.Port = *d.Port
	}
	if d.Interface != nil && !changed("interface") {
		cfg.Interface = *d.Interface
	}
}

func isObject(raw json.RawMessage) bool {
	return strings.HasPrefix(strings.TrimSpace(string(raw)), "{")
}
