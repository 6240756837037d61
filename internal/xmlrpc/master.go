package xmlrpc

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/valetudo-ecovacs/roscore/internal/roserr"
)

// MasterClient speaks the subset of the ROS master XML-RPC API named in
// spec.md §4.3.
type MasterClient struct {
	baseURI    string
	callerID   string
	httpClient *http.Client
}

// NewMasterClient returns a client for the master at baseURI (e.g.
// "http://127.0.0.1:11311"), identifying itself as callerID.
func NewMasterClient(baseURI, callerID string, timeout time.Duration) *MasterClient {
	return &MasterClient{
		baseURI:  baseURI,
		callerID: callerID,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// call issues method with args against the master and returns the raw
// three-element master response array: [statusCode, statusMessage, value].
func (m *MasterClient) call(ctx context.Context, method string, args ...Value) (Value, error) {
	body := encodeCall(method, args)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.baseURI, strings.NewReader(body))
	if err != nil {
		return Value{}, roserr.Wrap(roserr.KindProtocolError, err, "build xmlrpc request")
	}
	req.Header.Set("Content-Type", "text/xml")

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return Value{}, roserr.Wrap(roserr.KindServiceUnavailable, err, "xmlrpc call %s", method)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Value{}, roserr.Wrap(roserr.KindTransportClosed, err, "read xmlrpc response for %s", method)
	}

	result, err := decodeMethodResponse(raw)
	if err != nil {
		return Value{}, err
	}

	triplet, err := result.AsArray()
	if err != nil || len(triplet) != 3 {
		return Value{}, roserr.New(roserr.KindProtocolError, "xmlrpc %s: expected [code,msg,value] triplet", method)
	}
	code, err := triplet[0].AsInt()
	if err != nil {
		return Value{}, roserr.New(roserr.KindProtocolError, "xmlrpc %s: status code not an int", method)
	}
	if code != 1 {
		msg, _ := triplet[1].AsString()
		return Value{}, roserr.New(roserr.KindProtocolError, "xmlrpc %s: master returned status %d: %s", method, code, msg)
	}
	return triplet[2], nil
}

// LookupService resolves the TCPROS URI of service, or returns
// ServiceUnavailable if the master has no such service registered.
func (m *MasterClient) LookupService(ctx context.Context, service string) (string, error) {
	v, err := m.call(ctx, "lookupService", StringValue(m.callerID), StringValue(service))
	if err != nil {
		return "", roserr.Wrap(roserr.KindServiceUnavailable, err, "lookupService(%s)", service)
	}
	uri, err := v.AsString()
	if err != nil {
		return "", roserr.Wrap(roserr.KindProtocolError, err, "lookupService(%s) value", service)
	}
	return uri, nil
}

// LookupNode resolves the XML-RPC URI of a node.
func (m *MasterClient) LookupNode(ctx context.Context, node string) (string, error) {
	v, err := m.call(ctx, "lookupNode", StringValue(m.callerID), StringValue(node))
	if err != nil {
		return "", roserr.Wrap(roserr.KindServiceUnavailable, err, "lookupNode(%s)", node)
	}
	return v.AsString()
}

// SystemState is the decoded result of getSystemState: publishers,
// subscribers, and services, each a map from name to list of node names.
type SystemState struct {
	Publishers  map[string][]string
	Subscribers map[string][]string
	Services    map[string][]string
}

// GetSystemState enumerates every publisher/subscriber/service registered
// with the master, used by the safeResolve topic resolution path (spec.md
// §4.5) to avoid registerSubscriber.
func (m *MasterClient) GetSystemState(ctx context.Context) (SystemState, error) {
	v, err := m.call(ctx, "getSystemState", StringValue(m.callerID))
	if err != nil {
		return SystemState{}, err
	}
	arr, err := v.AsArray()
	if err != nil || len(arr) != 3 {
		return SystemState{}, roserr.New(roserr.KindProtocolError, "getSystemState: expected 3-tuple")
	}
	pubs, err := decodeStateSection(arr[0])
	if err != nil {
		return SystemState{}, err
	}
	subs, err := decodeStateSection(arr[1])
	if err != nil {
		return SystemState{}, err
	}
	svcs, err := decodeStateSection(arr[2])
	if err != nil {
		return SystemState{}, err
	}
	return SystemState{Publishers: pubs, Subscribers: subs, Services: svcs}, nil
}

func decodeStateSection(v Value) (map[string][]string, error) {
	entries, err := v.AsArray()
	if err != nil {
		return nil, roserr.New(roserr.KindProtocolError, "getSystemState: section not an array")
	}
	out := map[string][]string{}
	for _, e := range entries {
		pair, err := e.AsArray()
		if err != nil || len(pair) != 2 {
			return nil, roserr.New(roserr.KindProtocolError, "getSystemState: entry not a [name,nodes] pair")
		}
		name, err := pair[0].AsString()
		if err != nil {
			return nil, err
		}
		nodeVals, err := pair[1].AsArray()
		if err != nil {
			return nil, err
		}
		var nodes []string
		for _, nv := range nodeVals {
			n, err := nv.AsString()
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, n)
		}
		out[name] = nodes
	}
	return out, nil
}

// RegisterSubscriber registers this node as a subscriber of topic with the
// given message type, returning the current publisher URI list.
func (m *MasterClient) RegisterSubscriber(ctx context.Context, topic, msgType, callerAPI string) ([]string, error) {
	v, err := m.call(ctx, "registerSubscriber",
		StringValue(m.callerID), StringValue(topic), StringValue(msgType), StringValue(callerAPI))
	if err != nil {
		return nil, err
	}
	return decodeStringArray(v)
}

// UnregisterSubscriber unregisters this node as a subscriber of topic.
func (m *MasterClient) UnregisterSubscriber(ctx context.Context, topic, callerAPI string) error {
	_, err := m.call(ctx, "unregisterSubscriber", StringValue(m.callerID), StringValue(topic), StringValue(callerAPI))
	return err
}

// RequestTopic asks publisherURI's node (reached via its own XML-RPC API)
// which transport/host/port to connect to for topic. The caller is expected
// to have already resolved publisherURI via LookupNode; this method issues
// the requestTopic call directly to that node's XML-RPC endpoint, not the
// master.
func RequestTopic(ctx context.Context, nodeURI, callerID, topic string, timeout time.Duration) (host string, port int, err error) {
	client := &MasterClient{baseURI: nodeURI, callerID: callerID, httpClient: &http.Client{Timeout: timeout}}
	protocols := ArrayValue([]Value{ArrayValue([]Value{StringValue("TCPROS")})})
	v, err := client.call(ctx, "requestTopic", StringValue(callerID), StringValue(topic), protocols)
	if err != nil {
		return "", 0, roserr.Wrap(roserr.KindServiceUnavailable, err, "requestTopic(%s) on %s", topic, nodeURI)
	}
	triplet, err := v.AsArray()
	if err != nil || len(triplet) != 3 {
		return "", 0, roserr.New(roserr.KindProtocolError, "requestTopic: expected [protocol,host,port]")
	}
	host, err = triplet[1].AsString()
	if err != nil {
		return "", 0, err
	}
	port, err = triplet[2].AsInt()
	if err != nil {
		return "", 0, err
	}
	return host, port, nil
}

func decodeStringArray(v Value) ([]string, error) {
	arr, err := v.AsArray()
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(arr))
	for _, e := range arr {
		s, err := e.AsString()
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}
