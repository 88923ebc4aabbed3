package net

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
)

func ipNet(s string) *net.IPNet {
	ip, n, err := net.ParseCIDR(s)
	if err != nil {
		panic(err)
	}
	n.IP = ip
	return n
}

func TestLanIPv4(t *testing.T) {
	addrs := []net.Addr{
		ipNet("127.0.0.1/8"),
		ipNet("fe80::1/64"),
		&net.IPAddr{IP: net.ParseIP("10.0.0.9")},
		ipNet("192.168.1.20/24"),
		ipNet("10.0.0.5/24"),
	}
	assert.Equal(t, "192.168.1.20", lanIPv4(addrs).String())
	assert.Nil(t, lanIPv4(addrs[:3]))
	assert.Nil(t, lanIPv4(nil))
}

func TestLinkHostPrefersConfigured(t *testing.T) {
	assert.Equal(t, "canvas.local", linkHost("canvas.local"))
	assert.NotEmpty(t, linkHost(""))
}
