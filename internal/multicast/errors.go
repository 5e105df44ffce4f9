package multicast

import "fmt"

// SendError reports why a single send attempt failed.
type SendError struct {
	Op   string // resolve, socket, ttl, send
	Addr string
	Err  error
}

func (e *SendError) Error() string {
	if e.Addr == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Addr, e.Err)
}

func (e *SendError) Unwrap() error {
	return e.Err
}
