package wifi

import "fmt"

// Open returns the radio for a configured driver name.
func Open(driver, iface, command string) (Radio, error) {
	switch driver {
	case "nmcli":
		return NewNMCLI(iface, command)
	case "host":
		return NewHost(""), nil
	case "sim":
		return NewSim(2), nil
	default:
		return nil, fmt.Errorf("unknown wifi driver %q", driver)
	}
}
