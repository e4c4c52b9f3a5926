package feed

import (
	"fmt"
	"net"
	"os"
	"time"

	"github.com/hashicorp/mdns"
)

// ServiceType is the DNS-SD type the feed is announced under.
const ServiceType = "_polyshot._tcp"

// Advertiser announces a running feed on the local network.
type Advertiser struct {
	server *mdns.Server
}

// Advertise registers the feed on port. instance defaults to the host name.
func Advertise(instance string, port int, info ...string) (*Advertiser, error) {
	if instance == "" {
		host, err := os.Hostname()
		if err != nil {
			return nil, fmt.Errorf("could not get hostname: %w", err)
		}
		instance = host
	}
	txt := append([]string{"path=/feed"}, info...)
	service, err := mdns.NewMDNSService(instance, ServiceType, "", "", port, nil, txt)
	if err != nil {
		return nil, fmt.Errorf("create mDNS service: %w", err)
	}
	server, err := mdns.NewServer(&mdns.Config{Zone: service})
	if err != nil {
		return nil, fmt.Errorf("start mDNS server: %w", err)
	}
	return &Advertiser{server: server}, nil
}

// Shutdown stops answering queries.
func (a *Advertiser) Shutdown() error {
	if a == nil || a.server == nil {
		return nil
	}
	return a.server.Shutdown()
}

// Browse reports the websocket URL of every feed that answers within
// timeout. A zero timeout uses the mdns default.
func Browse(timeout time.Duration, found func(url string)) error {
	entries := make(chan *mdns.ServiceEntry, 8)
	done := make(chan struct{})
	go func() {
		defer close(done)
		seen := map[string]bool{}
		for e := range entries {
			if e.AddrV4 == nil || e.Port == 0 {
				continue
			}
			url := fmt.Sprintf("ws://%s/feed", net.JoinHostPort(e.AddrV4.String(), fmt.Sprint(e.Port)))
			if seen[url] {
				continue
			}
			seen[url] = true
			found(url)
		}
	}()
	params := mdns.DefaultParams(ServiceType)
	params.Entries = entries
	if timeout > 0 {
		params.Timeout = timeout
	}
	err := mdns.Query(params)
	close(entries)
	<-done
	return err
}
