package models

import (
	"encoding/json"
	"fmt"
)

// Lifecycle is the soft-delete state of a catalog record. Records are never
// physically removed; Deleted records only drop out of reads.
type Lifecycle uint8

const (
	Live Lifecycle = iota
	Deleted
)

// LifecycleFromDeleted maps the persisted isDeleted flag onto a Lifecycle.
func LifecycleFromDeleted(isDeleted bool) Lifecycle {
	if isDeleted {
		return Deleted
	}
	return Live
}

func (l Lifecycle) IsLive() bool {
	return l == Live
}

// IsDeleted is the value persisted in the isDeleted column/field.
func (l Lifecycle) IsDeleted() bool {
	return l == Deleted
}

func (l Lifecycle) String() string {
	switch l {
	case Live:
		return "live"
	case Deleted:
		return "deleted"
	default:
		return fmt.Sprintf("lifecycle(%d)", uint8(l))
	}
}

func (l Lifecycle) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.String())
}

func (l *Lifecycle) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "live":
		*l = Live
	case "deleted":
		*l = Deleted
	default:
		return fmt.Errorf("unknown lifecycle %q", s)
	}
	return nil
}
