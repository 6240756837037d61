// Package rosnet implements the ROS transport core from spec.md §4.4/§4.5:
// persistent and ephemeral TCPROS service clients with per-socket call
// serialization and transparent reconnect, and long-lived topic
// subscribers with reset-and-reconnect loops. It is grounded on the
// teacher's internal/k8s/watcher.go (a workgroup-supervised, reconnect-on-
// error watch loop) generalized from Kubernetes list/watch to TCPROS.
package rosnet

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/valetudo-ecovacs/roscore/internal/roserr"
	"github.com/valetudo-ecovacs/roscore/internal/xmlrpc"
	"github.com/valetudo-ecovacs/roscore/model"
)

// ResolveService iterates desc.CandidateNames, calling lookupService on
// master for each, and returns the first candidate name that resolves
// along with its host:port. Per spec.md §3, "first success wins and is
// remembered until next connect" — callers are responsible for caching
// the returned name across calls.
func ResolveService(ctx context.Context, master *xmlrpc.MasterClient, desc model.EndpointDescriptor) (name, hostPort string, err error) {
	var lastErr error
	for _, candidate := range desc.CandidateNames {
		uri, err := master.LookupService(ctx, candidate)
		if err != nil {
			lastErr = err
			continue
		}
		hp, err := parseROSRPCURI(uri)
		if err != nil {
			lastErr = err
			continue
		}
		return candidate, hp, nil
	}
	if lastErr == nil {
		lastErr = roserr.New(roserr.KindServiceUnavailable, "no candidate names configured for %s", desc.Path)
	}
	return "", "", roserr.Wrap(roserr.KindServiceUnavailable, lastErr, "resolve service %s: all %d candidates failed", desc.Path, len(desc.CandidateNames))
}

// parseROSRPCURI parses a "rosrpc://host:port" or "rosrpc://host:port/"
// URI into a dialable "host:port" string.
func parseROSRPCURI(uri string) (string, error) {
	const prefix = "rosrpc://"
	if !strings.HasPrefix(uri, prefix) {
		return "", roserr.New(roserr.KindProtocolError, "unexpected service URI scheme: %s", uri)
	}
	rest := strings.TrimPrefix(uri, prefix)
	rest = strings.TrimSuffix(rest, "/")
	host, portStr, found := strings.Cut(rest, ":")
	if !found {
		return "", roserr.New(roserr.KindProtocolError, "service URI missing port: %s", uri)
	}
	if _, err := strconv.Atoi(portStr); err != nil {
		return "", roserr.New(roserr.KindProtocolError, "service URI has non-numeric port: %s", uri)
	}
	return fmt.Sprintf("%s:%s", host, portStr), nil
}
