package mocks

import "tourbook/infras/otel"

// scopeImpl discards every call.
type scopeImpl struct{}

func NewScope() otel.Scope {
	return scopeImpl{}
}

func (scopeImpl) End() {}
func (scopeImpl) TraceError(error) {}
func (scopeImpl) TraceIfError(error) {}
func (scopeImpl) AddEvent(string) {}
func (scopeImpl) SetAttribute(string, any) {}
func (scopeImpl) SetAttributes(map[string]any) {}
