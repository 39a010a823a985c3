package usecase

import (
	"context"
	"sort"
	"sync"

	"github.com/fastygo/contracts/domain"
)

type CommandHandler func(ctx context.Context, payload interface{}) (interface{}, error)

// Dispatcher routes named commands to their handlers. Inbound integrations
// such as the signature webhook reach the contract engine through it.
type Dispatcher struct {
	mu       sync.RWMutex
	handlers map[string]CommandHandler
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{handlers: make(map[string]CommandHandler)}
}

// RegisterCommand binds name to handler. Registering a name twice panics.
func (d *Dispatcher) RegisterCommand(name string, handler CommandHandler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, exists := d.handlers[name]; exists {
		panic("usecase: command " + name + " registered twice")
	}
	d.handlers[name] = handler
}

func (d *Dispatcher) ExecuteCommand(ctx context.Context, name string, payload interface{}) (interface{}, error) {
	d.mu.RLock()
	handler, ok := d.handlers[name]
	d.mu.RUnlock()
	if !ok {
		return nil, domain.NewError(domain.ErrCodeInternal, "command handler "+name+" not registered")
	}
	return handler(ctx, payload)
}

// Commands lists registered command names in order.
func (d *Dispatcher) Commands() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	names := make([]string, 0, len(d.handlers))
	for name := range d.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
