package translation

import (
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

const (
	KindMicrophone = "microphone"
	KindHeadphones = "headphones"

	TypeBuiltIn   = "Built-in"
	TypeBluetooth = "Bluetooth"
	TypeUSB       = "USB"

	StatusAvailable = "available"
	StatusPairing   = "pairing"
	StatusConnected = "connected"
)

var ErrUnknownDevice = errors.New("Unknown audio device")

type Device struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Type   string `json:"type"`
	Kind   string `json:"kind"`
	Status string `json:"status"`
}

var Microphones = []Device{
	{ID: "default", Name: "System Default", Type: TypeBuiltIn, Kind: KindMicrophone},
	{ID: "airpods", Name: "AirPods Pro", Type: TypeBluetooth, Kind: KindMicrophone},
	{ID: "yeti", Name: "Blue Yeti X", Type: TypeUSB, Kind: KindMicrophone},
	{ID: "rode", Name: "Rode NT-USB", Type: TypeUSB, Kind: KindMicrophone},
}

var Headphones = []Device{
	{ID: "default", Name: "System Default", Type: TypeBuiltIn, Kind: KindHeadphones},
	{ID: "airpods", Name: "AirPods Pro", Type: TypeBluetooth, Kind: KindHeadphones},
	{ID: "sony", Name: "Sony WH-1000XM5", Type: TypeBluetooth, Kind: KindHeadphones},
	{ID: "speakers", Name: "External Speakers", Type: TypeUSB, Kind: KindHeadphones},
}

func catalogFor(kind string) []Device {
	switch kind {
	case KindMicrophone:
		return Microphones
	case KindHeadphones:
		return Headphones
	default:
		return nil
	}
}

type deviceKey struct {
	userID string
	kind   string
	id     string
}

// Devices tracks simulated Bluetooth pairing per user. Wired devices are always connected.
type Devices struct {
	mu          sync.Mutex
	paired      map[deviceKey]string
	timers      map[deviceKey]*time.Timer
	delay       time.Duration
	logger      *log.Logger
	onConnected func(userID string, dev Device)
}

func NewDevices(pairingDelay time.Duration, logger *log.Logger) *Devices {
	if logger == nil {
		logger = log.Default()
	}
	return &Devices{
		paired: make(map[deviceKey]string),
		timers: make(map[deviceKey]*time.Timer),
		delay:  pairingDelay,
		logger: logger.With("component", "devices"),
	}
}

// OnConnected registers fn to run, outside the lock, whenever a pairing completes.
func (d *Devices) OnConnected(fn func(userID string, dev Device)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.onConnected = fn
}

func (d *Devices) statusLocked(key deviceKey, dev Device) string {
	if dev.Type != TypeBluetooth {
		return StatusConnected
	}
	if s, ok := d.paired[key]; ok {
		return s
	}
	return StatusAvailable
}

// List returns both catalogs with the caller's pairing state.
func (d *Devices) List(userID string) map[string][]Device {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make(map[string][]Device, 2)
	for _, kind := range []string{KindMicrophone, KindHeadphones} {
		catalog := catalogFor(kind)
		devices := make([]Device, len(catalog))
		for i, dev := range catalog {
			dev.Status = d.statusLocked(deviceKey{userID, kind, dev.ID}, dev)
			devices[i] = dev
		}
		out[kind] = devices
	}
	return out
}

// Pair returns at once. A Bluetooth device reports pairing until the delay has passed.
func (d *Devices) Pair(userID, kind, id string) (Device, error) {
	var dev Device
	found := false
	for _, candidate := range catalogFor(kind) {
		if candidate.ID == id {
			dev, found = candidate, true
			break
		}
	}
	if !found {
		return Device{}, ErrUnknownDevice
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	key := deviceKey{userID, kind, id}
	dev.Status = d.statusLocked(key, dev)
	if dev.Status != StatusAvailable {
		return dev, nil
	}

	d.paired[key] = StatusPairing
	dev.Status = StatusPairing
	d.timers[key] = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		if _, pending := d.timers[key]; !pending {
			d.mu.Unlock()
			return
		}
		delete(d.timers, key)
		d.paired[key] = StatusConnected
		ready := d.onConnected
		d.mu.Unlock()

		d.logger.Debug("device connected", "user", userID, "device", id)
		if ready != nil {
			connected := dev
			connected.Status = StatusConnected
			ready(userID, connected)
		}
	})
	return dev, nil
}

// Close stops pending pairing timers. Devices still pairing stay in that state.
func (d *Devices) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	for key, t := range d.timers {
		t.Stop()
		delete(d.timers, key)
	}
}
