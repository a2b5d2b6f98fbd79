package datastore

import (
	"fmt"
	"net"
	"sync"

	"github.com/playforge/core/pkg/wire"
)

// Client is a bounded pool of persistent TCP connections to a data store
// server, used by the lobby and developer services in place of dialing
// a fresh connection per request. Each pooled connection is
// single-flighted (guarded by its own mutex) to preserve the
// request/response ordering guarantee of §5: a connection is never
// handed a second request before the first's response has been read.
type Client struct {
	address string
	slots   chan *pooledConn
}

type pooledConn struct {
	mu   sync.Mutex
	conn net.Conn
}

// NewClient creates poolSize connection slots for address without dialing.
// Each slot dials on its first use and redials on its next use after a
// transport failure has dropped its connection.
func NewClient(address string, poolSize int) (*Client, error) {
	if poolSize < 1 {
		poolSize = 1
	}
	c := &Client{address: address, slots: make(chan *pooledConn, poolSize)}
	for i := 0; i < poolSize; i++ {
		c.slots <- &pooledConn{}
	}
	return c, nil
}

// Close drops every pooled connection.
func (c *Client) Close() error {
	close(c.slots)
	var firstErr error
	for pc := range c.slots {
		pc.mu.Lock()
		if pc.conn != nil {
			if err := pc.conn.Close(); err != nil && firstErr == nil {
				firstErr = err
			}
		}
		pc.mu.Unlock()
	}
	return firstErr
}

// Call sends {collection, action, data} and decodes the response into
// out (if non-nil). It returns an error for both transport failures and
// a {status:"error"} reply (wrapping the latter's message).
func (c *Client) Call(collection, action string, data interface{}, out interface{}) error {
	pc := <-c.slots
	defer func() { c.slots <- pc }()

	pc.mu.Lock()
	defer pc.mu.Unlock()

	if pc.conn == nil {
		conn, err := net.Dial("tcp", c.address)
		if err != nil {
			return fmt.Errorf("datastore client: dialing %s: %w", c.address, err)
		}
		pc.conn = conn
	}

	req := Envelope{Collection: collection, Action: action}
	if data != nil {
		req.Data = toDataMap(data)
	}

	if err := wire.WriteJSON(pc.conn, req); err != nil {
		pc.conn.Close()
		pc.conn = nil
		return fmt.Errorf("datastore client: sending request: %w", err)
	}

	var resp map[string]interface{}
	if err := wire.ReadJSON(pc.conn, &resp); err != nil {
		pc.conn.Close()
		pc.conn = nil
		return fmt.Errorf("datastore client: reading response: %w", err)
	}

	if resp["status"] == "error" {
		message, _ := resp["message"].(string)
		return fmt.Errorf("datastore: %s", message)
	}

	if out != nil {
		if err := decodeData(resp, out); err != nil {
			return err
		}
	}
	return nil
}

func toDataMap(v interface{}) map[string]interface{} {
	fields := toResponseFields("_", v)["_"]
	m, _ := fields.(map[string]interface{})
	return m
}
