package lamp

// Response is the raw reply to a lamp command. The lamp acknowledges a
// successful command with a single "ok" element.
type Response []string

// AckOK is the acknowledgment returned by a lamp for a successful command.
var AckOK = Response{"ok"}

// OK reports whether the response is the success acknowledgment.
func (r Response) OK() bool {
	return len(r) == 1 && r[0] == AckOK[0]
}

// Info is the static information returned by the connection handshake.
type Info struct {
	Model           string `json:"model"`
	FirmwareVersion string `json:"fw_ver"`
	HardwareVersion string `json:"hw_ver"`
}

// Status is the lamp state returned by a status read.
type Status struct {
	IsOn       bool `json:"is_on"`
	Brightness int  `json:"brightness"` // percent, 0-100
}

// Client is the capability set of a lamp reachable over the local network.
// Every call blocks on network I/O and may fail with a device
// communication error.
type Client interface {
	Info() (Info, error)
	On() (Response, error)
	Off() (Response, error)
	SetBrightness(percent int) (Response, error)
	Status() (Status, error)
}

// ClientFactory creates a Client for the lamp at host, authenticated by token.
type ClientFactory func(host, token string) (Client, error)

// Drivers maps a driver name to the factory that builds its clients.
type Drivers map[string]ClientFactory

// DriverSimulated is the name of the in-memory lamp driver.
const DriverSimulated = "simulated"

// DefaultDrivers returns the drivers built into this module.
func DefaultDrivers() Drivers {
	return Drivers{
		DriverSimulated: NewSimulatedClient,
	}
}
