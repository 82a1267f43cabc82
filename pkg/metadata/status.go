package metadata

import "fmt"

// MovementStatus is the lifecycle state of an inventory movement.
// A movement is created in transit and transitions exactly once to completed.
type MovementStatus string

const (
	MovementInTransit MovementStatus = "in_transit"
	MovementCompleted MovementStatus = "completed"
)

func NewMovementStatus(value string) (MovementStatus, error) {
	status := MovementStatus(value)
	if !status.isValid() {
		return "", fmt.Errorf("invalid movement status: %s", value)
	}
	return status, nil
}

func (s MovementStatus) isValid() bool {
	switch s {
	case MovementInTransit, MovementCompleted:
		return true
	default:
		return false
	}
}

func (s MovementStatus) IsTerminal() bool {
	return s == MovementCompleted
}

func (s MovementStatus) String() string {
	return string(s)
}

// RegistryStatus marks warehouses and bins as active or retired. Registry rows
// are never deleted because movements and products reference them historically.
type RegistryStatus string

const (
	RegistryActive   RegistryStatus = "active"
	RegistryInactive RegistryStatus = "inactive"
)

func NewRegistryStatus(value string) (RegistryStatus, error) {
	status := RegistryStatus(value)
	switch status {
	case RegistryActive, RegistryInactive:
		return status, nil
	default:
		return "", fmt.Errorf("invalid registry status: %s", value)
	}
}

func (s RegistryStatus) String() string {
	return string(s)
}
