package session

import (
	"fmt"
	"os"

	"github.com/hashicorp/mdns"
)

const serviceType = "_doodlz._tcp"

// Advertise announces a Doodlz server on the local network so clients
// on the same LAN can find it without typing an address. Close the
// returned server to stop.
func Advertise(port int) (*mdns.Server, error) {
	host, err := os.Hostname()
	if err != nil {
		return nil, fmt.Errorf("could not get hostname: %w", err)
	}

	service, err := mdns.NewMDNSService(
		host,
		serviceType,
		"", // domain defaults to .local
		"", // hostname from the OS
		port,
		nil, // auto-detect IPs
		[]string{"Doodlz"},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS service: %w", err)
	}

	server, err := mdns.NewServer(&mdns.Config{Zone: service})
	if err != nil {
		return nil, fmt.Errorf("failed to start mDNS server: %w", err)
	}
	return server, nil
}

// Discover browses the LAN for advertised Doodlz servers, invoking
// found for each host:port it sees.
func Discover(found func(addr string)) error {
	entries := make(chan *mdns.ServiceEntry, 8)
	go func() {
		for e := range entries {
			if e.AddrV4 == nil || e.Port == 0 {
				continue
			}
			found(fmt.Sprintf("%s:%d", e.AddrV4.String(), e.Port))
		}
	}()
	return mdns.Lookup(serviceType, entries)
}
