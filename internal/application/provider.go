package application

import (
	"sync"

	"github.com/azdopanel/azdopanel/internal/domain/port/driven"
)

// RemoteClientProvider enables runtime hot-swap of the remote client. It
// holds a mutex-protected reference to the current driven.RemoteClient,
// allowing credential or connection updates to take effect without
// restarting the application.
type RemoteClientProvider struct {
	mu     sync.RWMutex
	client driven.RemoteClient
}

// NewRemoteClientProvider creates a provider with the given initial client.
// client may be nil if no credentials are available at startup.
func NewRemoteClientProvider(client driven.RemoteClient) *RemoteClientProvider {
	return &RemoteClientProvider{client: client}
}

// Get returns the current remote client, or nil when unconfigured.
func (p *RemoteClientProvider) Get() driven.RemoteClient {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.client
}

// Replace swaps the current client. The next caller of Get receives the new
// value.
func (p *RemoteClientProvider) Replace(client driven.RemoteClient) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.client = client
}

// HasClient returns true if a non-nil client is currently held.
func (p *RemoteClientProvider) HasClient() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.client != nil
}
