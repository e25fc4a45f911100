package models

import (
	"net"
	"strconv"

	"github.com/pkg/errors"
)

// Node is a DHT bootstrap node as stored in the "nodes" list.
type Node struct {
	Host string
	Port int64
}

func (n Node) String() string {
	return net.JoinHostPort(n.Host, strconv.FormatInt(n.Port, 10))
}

var ErrInvalidNode = errors.New("invalid node address")

// ParseNode reads "host:port", with IPv6 hosts in brackets.
func ParseNode(s string) (Node, error) {
	host, port, err := net.SplitHostPort(s)
	if err != nil {
		return Node{}, errors.Wrap(ErrInvalidNode, err.Error())
	}
	p, err := strconv.ParseInt(port, 10, 64)
	if err != nil || p < 0 || p > 65535 || host == "" {
		return Node{}, errors.Wrapf(ErrInvalidNode, "%q", s)
	}
	return Node{Host: host, Port: p}, nil
}
