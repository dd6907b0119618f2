package net

import (
	"log"
	"net"
	"strconv"
)

// OutgoingIP finds the address other machines on the network should use to
// reach this backend. No packets are sent: dialing UDP only picks a route.
func OutgoingIP() (string, error) {
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err != nil {
		return localIPFallback()
	}
	defer conn.Close()
	return conn.LocalAddr().(*net.UDPAddr).IP.String(), nil
}

// localIPFallback picks the first IPv4 address of an interface that is up
// and not a loopback. Used on networks without a default route.
func localIPFallback() (string, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return "", err
	}
	for _, ifc := range ifaces {
		if ifc.Flags&net.FlagUp == 0 || ifc.Flags&net.FlagLoopback != 0 {
			continue
		}
		addrs, err := ifc.Addrs()
		if err != nil {
			continue
		}
		for _, a := range addrs {
			if ipnet, ok := a.(*net.IPNet); ok {
				if v4 := ipnet.IP.To4(); v4 != nil {
					return v4.String(), nil
				}
			}
		}
	}
	log.Println("[NET] No suitable local IP found, advertised URLs will use loopback")
	return "127.0.0.1", nil
}

// BackendURL is the API root other machines can use for a backend on port.
func BackendURL(port int) string {
	ip, err := OutgoingIP()
	if err != nil {
		ip = "127.0.0.1"
	}
	return "http://" + net.JoinHostPort(ip, strconv.Itoa(port)) + APIPrefix
}
