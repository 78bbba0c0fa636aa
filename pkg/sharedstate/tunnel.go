package sharedstate

import (
	"fmt"

	"github.com/gocircum/tunnelcore/core/config"
	"github.com/gocircum/tunnelcore/core/datacount"
	"github.com/gocircum/tunnelcore/core/tunnelerr"
	"gopkg.in/yaml.v3"
)

const (
	keyDataCount           = "DataCount"
	keyLastError           = "LastError"
	keyServerConfiguration = "ServerConfiguration"
)

// Tunnel reads and writes the values of one tunnel, namespaced by its
// stable identifier.
type Tunnel struct {
	id    string
	store Store
}

// ForTunnel returns the accessor for the tunnel with the given id.
func ForTunnel(store Store, id string) *Tunnel {
	return &Tunnel{id: id, store: store}
}

// ID returns the tunnel identifier.
func (t *Tunnel) ID() string {
	return t.id
}

func (t *Tunnel) key(name string) string {
	return fmt.Sprintf("%s.%s", t.id, name)
}

func (t *Tunnel) put(name string, v any) error {
	if v == nil {
		return t.store.Delete(t.key(name))
	}
	buf, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", name, err)
	}
	return t.store.Set(t.key(name), buf)
}

func (t *Tunnel) get(name string, v any) (bool, error) {
	buf, ok, err := t.store.Get(t.key(name))
	if err != nil || !ok {
		return false, err
	}
	if err := yaml.Unmarshal(buf, v); err != nil {
		return false, fmt.Errorf("failed to decode %s: %w", name, err)
	}
	return true, nil
}

// SetDataCount publishes the counters. nil removes them.
func (t *Tunnel) SetDataCount(dc *datacount.DataCount) error {
	if dc == nil {
		return t.put(keyDataCount, nil)
	}
	return t.put(keyDataCount, dc)
}

// DataCount returns the published counters, if any.
func (t *Tunnel) DataCount() (datacount.DataCount, bool, error) {
	var dc datacount.DataCount
	ok, err := t.get(keyDataCount, &dc)
	return dc, ok, err
}

// SetLastError records the kind of the last link-tearing error. nil
// clears the slot.
func (t *Tunnel) SetLastError(kind *tunnelerr.Kind) error {
	if kind == nil {
		return t.store.Delete(t.key(keyLastError))
	}
	return t.store.Set(t.key(keyLastError), []byte(*kind))
}

// LastError returns the recorded error kind, if any.
func (t *Tunnel) LastError() (tunnelerr.Kind, bool, error) {
	buf, ok, err := t.store.Get(t.key(keyLastError))
	if err != nil || !ok {
		return "", false, err
	}
	return tunnelerr.Kind(buf), true, nil
}

// SetServerConfiguration publishes the options the server pushed in the
// last negotiation. nil removes them.
func (t *Tunnel) SetServerConfiguration(cfg *config.Configuration) error {
	if cfg == nil {
		return t.put(keyServerConfiguration, nil)
	}
	return t.put(keyServerConfiguration, cfg)
}

// ServerConfiguration returns the published server configuration, if any.
func (t *Tunnel) ServerConfiguration() (*config.Configuration, error) {
	var cfg config.Configuration
	ok, err := t.get(keyServerConfiguration, &cfg)
	if err != nil || !ok {
		return nil, err
	}
	return &cfg, nil
}
