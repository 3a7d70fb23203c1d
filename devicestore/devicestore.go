// Package devicestore is the device-scoped key/value storage the cart and
// the "my orders" records persist to.
package devicestore

import (
	"context"
	"sync"
	"time"
)

// Keys used by the ordering flow.
const (
	KeyCart      = "cart"
	KeyLastOrder = "lastOrder"
	KeyMyOrders  = "myOrders"
)

// Storage mirrors a browser's localStorage for a single device.
// GetItem reports ok=false when the key is absent.
type Storage interface {
	GetItem(ctx context.Context, key string) (value string, ok bool, err error)
	SetItem(ctx context.Context, key, value string) error
	RemoveItem(ctx context.Context, key string) error
}

// Memory is an in-process Storage.
type Memory struct {
	mu    sync.Mutex
	items map[string]string
}

func NewMemory() *Memory {
	return &Memory{items: make(map[string]string)}
}

func (m *Memory) GetItem(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.items[key]
	return v, ok, nil
}

func (m *Memory) SetItem(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = value
	return nil
}

func (m *Memory) RemoveItem(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, key)
	return nil
}

// DefaultDeviceIdleTTL is how long MemoryDevices keeps a device nobody has
// touched.
const DefaultDeviceIdleTTL = 24 * time.Hour

// MemoryDevices keeps one Memory per device ID and forgets devices idle for
// longer than its TTL.
type MemoryDevices struct {
	mu        sync.Mutex
	devices   map[string]*memoryDevice
	idleTTL   time.Duration
	now       func() time.Time
	lastSweep time.Time
}

type memoryDevice struct {
	storage  *Memory
	lastSeen time.Time
}

func NewMemoryDevices() *MemoryDevices {
	return &MemoryDevices{
		devices: make(map[string]*memoryDevice),
		idleTTL: DefaultDeviceIdleTTL,
		now:     time.Now,
	}
}

func (d *MemoryDevices) DeviceStorage(deviceID string) Storage {
	d.mu.Lock()
	defer d.mu.Unlock()
	now := d.now()
	d.sweep(now)
	dev, ok := d.devices[deviceID]
	if !ok {
		dev = &memoryDevice{storage: NewMemory()}
		d.devices[deviceID] = dev
	}
	dev.lastSeen = now
	return dev.storage
}

func (d *MemoryDevices) sweep(now time.Time) {
	if now.Sub(d.lastSweep) < d.idleTTL/24 {
		return
	}
	d.lastSweep = now
	for id, dev := range d.devices {
		if now.Sub(dev.lastSeen) > d.idleTTL {
			delete(d.devices, id)
		}
	}
}
