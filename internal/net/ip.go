package net

import (
	"log"
	"net"
)

// linkHost picks the host put into share links. A configured host wins;
// otherwise the address LAN peers can reach us on.
func linkHost(configured string) string {
	if configured != "" {
		return configured
	}
	return GetOutgoingIP()
}

// GetOutgoingIP returns the local address of the default route, falling back
// to the first LAN interface and finally to loopback.
func GetOutgoingIP() string {
	// UDP dial sends nothing; it only asks the kernel for a route
	if conn, err := net.Dial("udp", "8.8.8.8:80"); err == nil {
		defer conn.Close()
		return conn.LocalAddr().(*net.UDPAddr).IP.String()
	}

	addrs, err := net.InterfaceAddrs()
	if err != nil {
		log.Printf("[SHARE] Could not list interfaces: %v", err)
		addrs = nil
	}
	if ip := lanIPv4(addrs); ip != nil {
		return ip.String()
	}
	log.Println("[SHARE] No LAN address found, share links will use loopback")
	return "127.0.0.1"
}

// lanIPv4 returns the first non-loopback IPv4 address in addrs.
func lanIPv4(addrs []net.Addr) net.IP {
	for _, a := range addrs {
		ipnet, ok := a.(*net.IPNet)
		if !ok || ipnet.IP.IsLoopback() {
			continue
		}
		if v4 := ipnet.IP.To4(); v4 != nil {
			return v4
		}
	}
	return nil
}
