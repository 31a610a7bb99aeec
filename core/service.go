package core

import (
	"context"
	"fmt"
	"log"
)

// Interface defines a common interface for all services
type Interface interface {
	Start(ctx context.Context) error
	Stop()
}

// Registry starts services in registration order and stops them in reverse
type Registry struct {
	services []Interface
	started  int
}

// NewRegistry creates a new core registry
func NewRegistry() *Registry {
	return &Registry{
		services: make([]Interface, 0),
	}
}

// Register adds a service to the registry
func (sr *Registry) Register(service Interface) {
	sr.services = append(sr.services, service)
}

// Len is the number of registered services
func (sr *Registry) Len() int {
	return len(sr.services)
}

// StartAll starts every registered service. If one fails, the services
// already started are stopped again and the error is returned.
func (sr *Registry) StartAll(ctx context.Context) error {
	for sr.started < len(sr.services) {
		service := sr.services[sr.started]
		if err := service.Start(ctx); err != nil {
			index := sr.started
			log.Printf("Registry: %T failed to start, stopping %d started services", service, index)
			sr.StopAll()
			return fmt.Errorf("start service %d (%T): %w", index, service, err)
		}
		sr.started++
	}
	return nil
}

// StopAll stops the started services in reverse order
func (sr *Registry) StopAll() {
	for i := sr.started - 1; i >= 0; i-- {
		sr.services[i].Stop()
	}
	sr.started = 0
}
