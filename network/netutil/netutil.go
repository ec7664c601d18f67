// Package netutil holds bootstrap and test helpers: finding unused TCP ports
// and ranking candidate endpoints by observed latency. Nothing in here is
// used by the state machine itself.
package netutil

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sort"
	"syscall"
	"time"

	"golang.org/x/time/rate"
)

const maxPort = 65535

// FreePort returns an unused TCP port on the loopback interface. When
// initial is non-zero the search starts there and walks upward past ports
// already in use, so callers spinning up a cluster get predictable, adjacent
// ports. With initial zero the OS picks any unused port.
func FreePort(initial int) (int, error) {
	if initial <= 0 {
		listener, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			return 0, err
		}
		defer listener.Close()
		return listener.Addr().(*net.TCPAddr).Port, nil
	}

	for port := initial; port <= maxPort; port++ {
		listener, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", port))
		if err != nil {
			if errors.Is(err, syscall.EADDRINUSE) {
				continue
			}
			return 0, err
		}
		listener.Close()
		return port, nil
	}
	return 0, fmt.Errorf("netutil: no unused port at or above %d", initial)
}

// FreePorts returns n distinct unused TCP ports. The listeners are held open
// until all ports are allocated, so the same port is never returned twice.
func FreePorts(n int) ([]int, error) {
	listeners := make([]net.Listener, 0, n)
	defer func() {
		for _, l := range listeners {
			l.Close()
		}
	}()

	ports := make([]int, 0, n)
	for i := 0; i < n; i++ {
		listener, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			return nil, fmt.Errorf("netutil: allocating port %d of %d: %w", i+1, n, err)
		}
		listeners = append(listeners, listener)
		ports = append(ports, listener.Addr().(*net.TCPAddr).Port)
	}
	return ports, nil
}

// Endpoint is a probed URL together with its mean response latency.
type Endpoint struct {
	URL     string
	Latency time.Duration
}

// probeInterval spaces out the requests against one endpoint so the probe
// itself does not skew the measured latency.
const probeInterval = 125 * time.Millisecond

// RankEndpoints issues `samples` HEAD requests against every URL and returns
// the endpoints that answered every probe, fastest mean latency first.
// Endpoints that fail or time out are dropped from the result.
func RankEndpoints(ctx context.Context, urls []string, samples int, timeout time.Duration) []Endpoint {
	if samples <= 0 {
		samples = 3
	}
	client := &http.Client{Timeout: timeout}

	ranked := make([]Endpoint, 0, len(urls))
	for _, url := range urls {
		latency, err := probe(ctx, client, url, samples)
		if err != nil {
			continue
		}
		ranked = append(ranked, Endpoint{URL: url, Latency: latency})
	}

	sort.Slice(ranked, func(i, j int) bool {
		return ranked[i].Latency < ranked[j].Latency
	})
	return ranked
}

func probe(ctx context.Context, client *http.Client, url string, samples int) (time.Duration, error) {
	limiter := rate.NewLimiter(rate.Every(probeInterval), 1)

	var total time.Duration
	for i := 0; i < samples; i++ {
		if err := limiter.Wait(ctx); err != nil {
			return 0, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
		if err != nil {
			return 0, err
		}
		start := time.Now()
		resp, err := client.Do(req)
		if err != nil {
			return 0, err
		}
		resp.Body.Close()
		if resp.StatusCode >= 400 {
			return 0, fmt.Errorf("netutil: %s answered %d", url, resp.StatusCode)
		}
		total += time.Since(start)
	}
	return total / time.Duration(samples), nil
}
