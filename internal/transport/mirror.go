package transport

import "github.com/relabs-tech/motion_udp/internal/motion"

// Publisher forwards samples to a secondary consumer next to the UDP stream.
type Publisher interface {
	Publish(s motion.Sample) error
	Close() error
}
