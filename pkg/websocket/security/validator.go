package security

import (
	"fmt"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type ValidationConfig struct {
	MaxMessageSize int
	AllowedTypes   map[string]bool
	RequiredFields map[string][]string
	TypeField      string // defaults to "type"
}

type messageValidator struct {
	config ValidationConfig
}

func NewMessageValidator(config ValidationConfig) MessageValidator {
	return &messageValidator{config: config}
}

func (mv *messageValidator) ValidateMessage(message []byte) error {
	if mv.config.MaxMessageSize > 0 && len(message) > mv.config.MaxMessageSize {
		return fmt.Errorf("message too large: %d bytes (max: %d)",
			len(message), mv.config.MaxMessageSize)
	}

	var baseMsg map[string]jsoniter.RawMessage
	if err := json.Unmarshal(message, &baseMsg); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}

	typeField := mv.config.TypeField
	if typeField == "" {
		typeField = "type"
	}

	var msgType string
	raw, ok := baseMsg[typeField]
	if !ok || json.Unmarshal(raw, &msgType) != nil || msgType == "" {
		return fmt.Errorf("missing or invalid message %s field", typeField)
	}

	if mv.config.AllowedTypes != nil && !mv.config.AllowedTypes[msgType] {
		return fmt.Errorf("invalid message type: %s", msgType)
	}

	for _, field := range mv.config.RequiredFields[msgType] {
		if _, exists := baseMsg[field]; !exists {
			return fmt.Errorf("missing required field '%s' for type '%s'", field, msgType)
		}
	}

	return nil
}
