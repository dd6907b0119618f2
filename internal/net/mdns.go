package net

import (
	"context"
	"fmt"
	"log"
	"net"
	"os"
	"strings"
	"time"

	"github.com/hashicorp/mdns"
)

const serviceType = "_whiteboard._tcp"

// Advertise announces a backend listening on port to the local network.
func Advertise(port int) (*mdns.Server, error) {
	host, err := os.Hostname()
	if err != nil {
		return nil, fmt.Errorf("could not get hostname: %w", err)
	}

	info := []string{"path=" + APIPrefix}
	service, err := mdns.NewMDNSService(host, serviceType, "", "", port, nil, info)
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS service: %w", err)
	}
	server, err := mdns.NewServer(&mdns.Config{Zone: service})
	if err != nil {
		return nil, fmt.Errorf("failed to start mDNS server: %w", err)
	}
	log.Printf("[MDNS] Advertising %s on port %d", serviceType, port)
	return server, nil
}

// Backend is a whiteboard backend found on the network.
type Backend struct {
	Name string
	URL  string
}

// backendOf turns a service entry into a Backend. Entries without an IPv4
// address or port are skipped.
func backendOf(e *mdns.ServiceEntry) (Backend, bool) {
	if e.AddrV4 == nil || e.Port == 0 {
		return Backend{}, false
	}
	path := APIPrefix
	for _, field := range e.InfoFields {
		if v, ok := strings.CutPrefix(field, "path="); ok {
			path = v
		}
	}
	name := strings.TrimSuffix(e.Name, "."+serviceType+".local.")
	return Backend{
		Name: name,
		URL:  fmt.Sprintf("http://%s%s", net.JoinHostPort(e.AddrV4.String(), fmt.Sprint(e.Port)), path),
	}, true
}

// Browse looks for backends for up to timeout, calling found for each one.
func Browse(ctx context.Context, timeout time.Duration, found func(Backend)) error {
	entries := make(chan *mdns.ServiceEntry, 8)
	done := make(chan struct{})
	go func() {
		defer close(done)
		seen := map[string]bool{}
		for e := range entries {
			b, ok := backendOf(e)
			if !ok || seen[b.URL] {
				continue
			}
			seen[b.URL] = true
			found(b)
		}
	}()

	params := mdns.DefaultParams(serviceType)
	params.Entries = entries
	params.Timeout = timeout
	params.DisableIPv6 = true
	err := mdns.QueryContext(ctx, params)
	close(entries)
	<-done
	if err != nil {
		return fmt.Errorf("browsing for %s: %w", serviceType, err)
	}
	return nil
}
