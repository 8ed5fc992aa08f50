package coinbase

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrConfig matches every *ConfigError via errors.Is
	ErrConfig = errors.New("configuration error")

	ErrNoSession         = errors.New("no streaming session, call Connect first")
	ErrNotYetImplemented = errors.New("not yet implemented")
	ErrConnectSuperseded = errors.New("connect superseded by a later Connect or Disconnect")
)

type ConfigErrorKind int

const (
	MissingSubscription ConfigErrorKind = iota
	InvalidSubscription
	InvalidOrderBookMode
	ConflictingOrderBookModeConfig
	UnknownParameter
	InvalidParameter
	InvalidSpecification
)

func (k ConfigErrorKind) String() string {
	switch k {
	case MissingSubscription:
		return "MissingSubscription"
	case InvalidSubscription:
		return "InvalidSubscription"
	case InvalidOrderBookMode:
		return "InvalidOrderBookMode"
	case ConflictingOrderBookModeConfig:
		return "ConflictingOrderBookModeConfig"
	case UnknownParameter:
		return "UnknownParameter"
	case InvalidParameter:
		return "InvalidParameter"
	case InvalidSpecification:
		return "InvalidSpecification"
	default:
		return fmt.Sprintf("ConfigErrorKind(%d)", int(k))
	}
}

// ConfigError is returned synchronously, before any network activity
type ConfigError struct {
	Kind    ConfigErrorKind
	Value   string
	Valid   []string
	Message string
	Err     error
}

func (e *ConfigError) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.String())
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Value != "" {
		fmt.Fprintf(&b, " (got %q)", e.Value)
	}
	if len(e.Valid) > 0 {
		fmt.Fprintf(&b, ", use one of [%s]", strings.Join(e.Valid, ", "))
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *ConfigError) Is(target error) bool {
	return target == ErrConfig
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// IsConfigKind reports whether err is a *ConfigError of kind
func IsConfigKind(err error, kind ConfigErrorKind) bool {
	var cfgErr *ConfigError
	return errors.As(err, &cfgErr) && cfgErr.Kind == kind
}
