package rosnet

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/valetudo-ecovacs/roscore/internal/rlog"
	"github.com/valetudo-ecovacs/roscore/internal/roserr"
	"github.com/valetudo-ecovacs/roscore/internal/transport"
	"github.com/valetudo-ecovacs/roscore/internal/xmlrpc"
	"github.com/valetudo-ecovacs/roscore/model"
)

// Reconnect backoff bounds (spec.md §4.5: "10 s for safe-resolve topics,
// exponential from 1 s to 10 s otherwise"). The two resolution modes have
// distinct policies: safeResolve always waits the fixed safeResolveBackoff,
// normal topics back off exponentially between normalMinBackoff and
// normalMaxBackoff.
const (
	normalMinBackoff   = 1 * time.Second
	normalMaxBackoff   = 10 * time.Second
	safeResolveBackoff = 10 * time.Second
)

// unusedCallerAPI is supplied to registerSubscriber as this node's XML-RPC
// callback URI. This subscriber never runs an XML-RPC server of its own, so
// it can never receive a publisherUpdate callback; it instead re-resolves
// the publisher list on every (re)connect, which this placeholder URI does
// not need to be reachable for.
const unusedCallerAPI = "http://0.0.0.0:0"

// Decoder turns one raw topic message payload into a value of type T.
type Decoder[T any] func(payload []byte) (T, error)

// TopicSubscriber maintains the single most recent decoded value received
// on a ROS topic, reconnecting with backoff whenever the publisher link
// drops (spec.md §4.5). Call Run under a workgroup.Group via AddContext;
// read the current value with Latest from any goroutine.
type TopicSubscriber[T any] struct {
	master         *xmlrpc.MasterClient
	desc           model.EndpointDescriptor
	callerID       string
	connectTimeout time.Duration
	readTimeout    time.Duration
	decode         Decoder[T]
	safeResolve    bool
	log            rlog.Logger

	mu         sync.Mutex
	value      T
	haveValue  bool
	receivedAt time.Time
}

// NewTopicSubscriber builds a subscriber for desc. Every (re)connect attempt
// tries desc's candidate names in order, whatever the mode. When safeResolve
// is true, each candidate is resolved through getSystemState and lookupNode
// instead of registerSubscriber, and reconnects wait the fixed
// safeResolveBackoff rather than backing off exponentially.
func NewTopicSubscriber[T any](master *xmlrpc.MasterClient, desc model.EndpointDescriptor, callerID string, connectTimeout, readTimeout time.Duration, decode Decoder[T], safeResolve bool, log rlog.Logger) *TopicSubscriber[T] {
	return &TopicSubscriber[T]{
		master:         master,
		desc:           desc,
		callerID:       callerID,
		connectTimeout: connectTimeout,
		readTimeout:    readTimeout,
		decode:         decode,
		safeResolve:    safeResolve,
		log:            log,
	}
}

// Latest returns the most recently decoded value, and whether one has ever
// been received and is not older than staleAfter. staleAfter <= 0 disables
// the staleness check.
func (s *TopicSubscriber[T]) Latest(staleAfter time.Duration) (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.haveValue {
		var zero T
		return zero, false
	}
	if staleAfter > 0 && time.Since(s.receivedAt) > staleAfter {
		var zero T
		return zero, false
	}
	return s.value, true
}

func (s *TopicSubscriber[T]) store(v T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.value = v
	s.haveValue = true
	s.receivedAt = time.Now()
}

// Run connects, subscribes, and reads messages until ctx is canceled,
// reconnecting with backoff on every transport or protocol error.
func (s *TopicSubscriber[T]) Run(ctx context.Context) error {
	backoff := s.initialBackoff()
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		conn, name, err := s.connectOnce(ctx)
		if err != nil {
			s.log.Errorf("subscribe %s: %v (retrying in %s)", s.desc.Path, err, backoff)
			if !sleepOrDone(ctx, backoff) {
				return ctx.Err()
			}
			backoff = s.nextBackoff(backoff)
			continue
		}
		backoff = s.initialBackoff()
		s.log.Infof("subscribed to %s as %s", s.desc.Path, name)

		err = s.readLoop(ctx, conn)
		conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		s.log.Errorf("topic %s link lost: %v (reconnecting in %s)", s.desc.Path, err, backoff)
		if !sleepOrDone(ctx, backoff) {
			return ctx.Err()
		}
		backoff = s.nextBackoff(backoff)
	}
}

// initialBackoff returns the first retry delay for this subscriber's
// resolution mode (spec.md §4.5).
func (s *TopicSubscriber[T]) initialBackoff() time.Duration {
	if s.safeResolve {
		return safeResolveBackoff
	}
	return normalMinBackoff
}

// nextBackoff advances cur per this subscriber's resolution mode:
// safeResolve topics always wait the same fixed interval, normal topics
// double up to normalMaxBackoff (spec.md §4.5).
func (s *TopicSubscriber[T]) nextBackoff(cur time.Duration) time.Duration {
	if s.safeResolve {
		return safeResolveBackoff
	}
	next := cur * 2
	if next > normalMaxBackoff {
		return normalMaxBackoff
	}
	return next
}

// connectOnce resolves one of desc.CandidateNames to a TCPROS endpoint and
// performs the client handshake, trying each candidate in turn. Resolution
// itself follows one of two distinct protocols per spec.md §4.5: Normal
// registers with the master via registerSubscriber; safeResolve instead
// enumerates publishers via getSystemState + lookupNode, never calling
// registerSubscriber (whose publisherUpdate callback crashes a vendor
// daemon for this topic).
func (s *TopicSubscriber[T]) connectOnce(ctx context.Context) (*transport.Conn, string, error) {
	var lastErr error
	for _, name := range s.desc.CandidateNames {
		var host string
		var port int
		var err error
		if s.safeResolve {
			host, port, err = s.resolveSafe(ctx, name)
		} else {
			host, port, err = s.resolveNormal(ctx, name)
		}
		if err != nil {
			lastErr = err
			continue
		}

		conn, err := transport.Dial(fmt.Sprintf("%s:%d", host, port), s.connectTimeout, s.readTimeout)
		if err != nil {
			lastErr = err
			continue
		}
		_, err = transport.PerformClientHandshake(conn, transport.HandshakeHeader{
			CallerID: s.callerID,
			Service:  name,
			MD5Sum:   s.desc.MD5Sum,
			Type:     s.desc.TypeName,
		}, true)
		if err != nil {
			conn.Close()
			lastErr = err
			continue
		}
		return conn, name, nil
	}
	if lastErr == nil {
		lastErr = roserr.New(roserr.KindServiceUnavailable, "no candidate names configured for %s", s.desc.Path)
	}
	return nil, "", roserr.Wrap(roserr.KindServiceUnavailable, lastErr, "resolve topic %s: all candidates failed", s.desc.Path)
}

// resolveNormal implements spec.md §4.5's Normal resolution: register with
// the master to learn the topic's publisher node URIs, then requestTopic
// each node directly until one succeeds.
func (s *TopicSubscriber[T]) resolveNormal(ctx context.Context, topic string) (host string, port int, err error) {
	nodeURIs, err := s.master.RegisterSubscriber(ctx, topic, s.desc.TypeName, unusedCallerAPI)
	if err != nil {
		return "", 0, err
	}
	return requestTopicFromAny(ctx, nodeURIs, s.callerID, topic, s.connectTimeout)
}

// resolveSafe implements spec.md §4.5's safeResolve resolution: enumerate
// every registered publisher via getSystemState, resolve each publishing
// node's XML-RPC URI via lookupNode, then requestTopic each until one
// succeeds. This never calls registerSubscriber.
func (s *TopicSubscriber[T]) resolveSafe(ctx context.Context, topic string) (host string, port int, err error) {
	state, err := s.master.GetSystemState(ctx)
	if err != nil {
		return "", 0, err
	}
	nodeNames := state.Publishers[topic]
	if len(nodeNames) == 0 {
		return "", 0, roserr.New(roserr.KindServiceUnavailable, "no publishers registered for topic %s", topic)
	}
	var lastErr error
	nodeURIs := make([]string, 0, len(nodeNames))
	for _, n := range nodeNames {
		uri, err := s.master.LookupNode(ctx, n)
		if err != nil {
			lastErr = err
			continue
		}
		nodeURIs = append(nodeURIs, uri)
	}
	if len(nodeURIs) == 0 {
		return "", 0, roserr.Wrap(roserr.KindServiceUnavailable, lastErr, "lookupNode failed for every publisher of %s", topic)
	}
	return requestTopicFromAny(ctx, nodeURIs, s.callerID, topic, s.connectTimeout)
}

// requestTopicFromAny calls requestTopic against each node in nodeURIs,
// in order, returning the first successful host/port.
func requestTopicFromAny(ctx context.Context, nodeURIs []string, callerID, topic string, timeout time.Duration) (string, int, error) {
	var lastErr error
	for _, uri := range nodeURIs {
		host, port, err := xmlrpc.RequestTopic(ctx, uri, callerID, topic, timeout)
		if err != nil {
			lastErr = err
			continue
		}
		return host, port, nil
	}
	if lastErr == nil {
		lastErr = roserr.New(roserr.KindServiceUnavailable, "no publishers to request topic %s from", topic)
	}
	return "", 0, roserr.Wrap(roserr.KindServiceUnavailable, lastErr, "requestTopic %s: all publishers failed", topic)
}

func (s *TopicSubscriber[T]) readLoop(ctx context.Context, conn *transport.Conn) error {
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		payload, err := conn.ReadLengthPrefixedMessage()
		if err != nil {
			return err
		}
		v, err := s.decode(payload)
		if err != nil {
			s.log.V(1).Infof("discarding unparsable %s message: %v", s.desc.Path, err)
			continue
		}
		s.store(v)
	}
}

func sleepOrDone(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
