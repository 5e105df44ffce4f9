package netutil

import (
	"fmt"
	"net"
	"strconv"
)

type IPv4 [4]byte

func (ip IPv4) String() string {
	return fmt.Sprintf("%d.%d.%d.%d", ip[0], ip[1], ip[2], ip[3])
}

func (ip IPv4) IsMulticast() bool {
	return ip[0] >= 224 && ip[0] <= 239
}

// ParseIPv4 accepts only dotted-quad IPv4 text.
func ParseIPv4(ipStr string) (IPv4, error) {
	ip := net.ParseIP(ipStr)
	if ip == nil {
		return IPv4{}, fmt.Errorf("invalid IP address: %q", ipStr)
	}

	ip4 := ip.To4()
	if ip4 == nil {
		return IPv4{}, fmt.Errorf("not a valid IPv4 address: %q", ipStr)
	}

	return IPv4(ip4), nil
}

// FindInterfaceByIP returns the local interface that has ipStr assigned.
// Loopback is included: multicast on lo is a common local test setup.
func FindInterfaceByIP(ipStr string) (*net.Interface, IPv4, error) {
	addr4, err := ParseIPv4(ipStr)
	if err != nil {
		return nil, IPv4{}, err
	}
	ip := net.IP(addr4[:])

	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, IPv4{}, fmt.Errorf("failed to get network interfaces: %w", err)
	}

	for _, iface := range ifaces {
		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}

		for _, addr := range addrs {
			var ifaceIP net.IP
			switch v := addr.(type) {
			case *net.IPNet:
				ifaceIP = v.IP
			case *net.IPAddr:
				ifaceIP = v.IP
			}

			if ifaceIP != nil && ifaceIP.Equal(ip) {
				return &iface, addr4, nil
			}
		}
	}

	return nil, IPv4{}, fmt.Errorf("IP %s not found on any interface", ipStr)
}

func ValidatePort(port int) error {
	if port <= 0 || port > 65535 {
		return fmt.Errorf("port must be in 1-65535, got %d", port)
	}
	return nil
}

func ValidateTTL(ttl int) error {
	if ttl < 0 || ttl > 255 {
		return fmt.Errorf("ttl must be in 0-255, got %d", ttl)
	}
	return nil
}

func FormatAddress(host string, port int) string {
	return net.JoinHostPort(host, strconv.Itoa(port))
}

func ResolveUDP4Addr(host string, port int) (*net.UDPAddr, error) {
	return net.ResolveUDPAddr("udp4", FormatAddress(host, port))
}
