package inspector

import "errors"

var (
	// ErrDisconnectedPair two odd degree nodes have no connecting path. The
	// working graph is supposed to be one connected component, so hitting this
	// means the extraction stage shipped a broken graph.
	ErrDisconnectedPair = errors.New("odd degree nodes are not connected")
	// ErrNoPerfectMatching the odd node set cannot be fully paired
	ErrNoPerfectMatching = errors.New("no perfect matching over the odd degree nodes")
	// ErrNotEulerian a node has odd degree when the circuit is built
	ErrNotEulerian = errors.New("graph is not eulerian")
	// ErrGeometryExhausted a walk step asks for more geometry instances than the edge has
	ErrGeometryExhausted = errors.New("edge geometry instances exhausted")
)
