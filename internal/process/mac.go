package process

import (
	"net"

	"github.com/google/uuid"

	"github.com/provide-io/slimplayer/internal/config"
)

// MachineMAC returns the hardware address of the first usable network
// interface. Hosts without one fall back to the uuid node id, which is
// random but stable for the life of the process.
func MachineMAC() config.MAC {
	if ifaces, err := net.Interfaces(); err == nil {
		if mac, ok := pickInterfaceMAC(ifaces); ok {
			return mac
		}
	}
	return nodeMAC(uuid.NodeID())
}

func pickInterfaceMAC(ifaces []net.Interface) (config.MAC, bool) {
	for _, iface := range ifaces {
		if iface.Flags&net.FlagLoopback != 0 || len(iface.HardwareAddr) != len(config.MAC{}) {
			continue
		}
		var mac config.MAC
		copy(mac[:], iface.HardwareAddr)
		if mac == (config.MAC{}) || mac.IsReserved() {
			continue
		}
		return mac, true
	}
	return config.MAC{}, false
}

// nodeMAC turns a node id into a locally administered unicast address.
func nodeMAC(node []byte) config.MAC {
	var mac config.MAC
	copy(mac[:], node)
	mac[0] = (mac[0] | 0x02) &^ 0x01
	return mac
}
