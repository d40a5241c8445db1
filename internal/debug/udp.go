package debug

import (
	"fmt"
	"net"
)

type udpConn interface {
	Write(p []byte) (int, error)
	Close() error
}

type resolveFunc func(network, address string) (*net.UDPAddr, error)

type dialFunc func(network string, laddr, raddr *net.UDPAddr) (udpConn, error)

// UDPSink sends each debug line as one datagram, e.g. to `nc -ul 5555`.
type UDPSink struct {
	dest string
	conn udpConn
}

func NewUDPSink(dest string) (*UDPSink, error) {
	return newUDPSink(dest, net.ResolveUDPAddr, func(network string, laddr, raddr *net.UDPAddr) (udpConn, error) {
		return net.DialUDP(network, laddr, raddr)
	})
}

func newUDPSink(dest string, resolve resolveFunc, dial dialFunc) (*UDPSink, error) {
	addr, err := resolve("udp", dest)
	if err != nil {
		return nil, fmt.Errorf("debug: resolve %s: %w", dest, err)
	}
	conn, err := dial("udp", nil, addr)
	if err != nil {
		return nil, fmt.Errorf("debug: dial udp %s: %w", dest, err)
	}
	return &UDPSink{dest: dest, conn: conn}, nil
}

func (s *UDPSink) Dest() string { return s.dest }

// Write implements io.Writer. Empty writes send nothing.
func (s *UDPSink) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if s.conn == nil {
		return 0, fmt.Errorf("debug: udp sink closed")
	}
	return s.conn.Write(p)
}

func (s *UDPSink) Close() error {
	if s.conn == nil {
		return nil
	}
	err := s.conn.Close()
	s.conn = nil
	return err
}
