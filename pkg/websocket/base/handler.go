package base

import (
	"context"
	"fmt"
	"sync"

	"github.com/backtesting-org/coinbase-streaming/pkg/logging"
)

// MessageHandler processes decoded feed messages
type MessageHandler interface {
	// Handle processes a decoded message
	Handle(ctx context.Context, msg Message) error

	// GetMessageTypes returns the message types this handler can process
	GetMessageTypes() []string
}

// HandlerRegistry fans each message out to the handlers registered for its type,
// in registration order.
type HandlerRegistry struct {
	mu       sync.RWMutex
	handlers map[string][]MessageHandler
	fallback MessageHandler
	logger   logging.ApplicationLogger
}

func NewHandlerRegistry(logger logging.ApplicationLogger) *HandlerRegistry {
	if logger == nil {
		logger = logging.NewNoOpLogger()
	}
	return &HandlerRegistry{
		handlers: make(map[string][]MessageHandler),
		logger:   logger,
	}
}

// RegisterHandler registers a handler for each of its message types
func (hr *HandlerRegistry) RegisterHandler(handler MessageHandler) error {
	types := handler.GetMessageTypes()
	if len(types) == 0 {
		return fmt.Errorf("handler %T declares no message types", handler)
	}

	hr.mu.Lock()
	defer hr.mu.Unlock()

	for _, msgType := range types {
		for _, existing := range hr.handlers[msgType] {
			if existing == handler {
				return fmt.Errorf("handler already registered for message type '%s': %T", msgType, handler)
			}
		}
		hr.handlers[msgType] = append(hr.handlers[msgType], handler)
		hr.logger.Debug("Registered handler for message type: %s", msgType)
	}

	return nil
}

// SetFallback receives messages no registered handler accepts
func (hr *HandlerRegistry) SetFallback(handler MessageHandler) {
	hr.mu.Lock()
	defer hr.mu.Unlock()
	hr.fallback = handler
}

// RouteMessage decodes raw and hands it to every matching handler. The first
// handler error is returned after all handlers ran.
func (hr *HandlerRegistry) RouteMessage(ctx context.Context, raw []byte) error {
	msg, err := DecodeMessage(raw)
	if err != nil {
		return fmt.Errorf("failed to parse message envelope: %w", err)
	}
	return hr.Dispatch(ctx, msg)
}

func (hr *HandlerRegistry) Dispatch(ctx context.Context, msg Message) error {
	hr.mu.RLock()
	handlers := hr.handlers[msg.Type]
	fallback := hr.fallback
	hr.mu.RUnlock()

	if len(handlers) == 0 {
		if fallback != nil {
			return fallback.Handle(ctx, msg)
		}
		hr.logger.Debug("No handler found for message type: %s", msg.Type)
		return nil
	}

	var firstErr error
	for _, handler := range handlers {
		if err := handler.Handle(ctx, msg); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// GetRegisteredTypes returns all registered message types
func (hr *HandlerRegistry) GetRegisteredTypes() []string {
	hr.mu.RLock()
	defer hr.mu.RUnlock()
	types := make([]string, 0, len(hr.handlers))
	for msgType := range hr.handlers {
		types = append(types, msgType)
	}
	return types
}

// HandlerFunc adapts a function to MessageHandler
type HandlerFunc struct {
	messageTypes []string
	fn           func(ctx context.Context, msg Message) error
}

func NewHandlerFunc(messageTypes []string, fn func(ctx context.Context, msg Message) error) *HandlerFunc {
	return &HandlerFunc{messageTypes: messageTypes, fn: fn}
}

func (hf *HandlerFunc) Handle(ctx context.Context, msg Message) error {
	return hf.fn(ctx, msg)
}

func (hf *HandlerFunc) GetMessageTypes() []string {
	return hf.messageTypes
}

// TypedHandler decodes the raw frame into T before calling fn
type TypedHandler[T any] struct {
	messageTypes []string
	fn           func(ctx context.Context, env Envelope, payload T) error
}

func NewTypedHandler[T any](messageTypes []string, fn func(ctx context.Context, env Envelope, payload T) error) *TypedHandler[T] {
	return &TypedHandler[T]{messageTypes: messageTypes, fn: fn}
}

func (th *TypedHandler[T]) Handle(ctx context.Context, msg Message) error {
	var payload T
	if err := json.Unmarshal(msg.Raw, &payload); err != nil {
		return fmt.Errorf("failed to decode %s message: %w", msg.Type, err)
	}
	return th.fn(ctx, msg.Envelope, payload)
}

func (th *TypedHandler[T]) GetMessageTypes() []string {
	return th.messageTypes
}
