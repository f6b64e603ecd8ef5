package session

import (
	"context"
	"fmt"

	"github.com/valkey-io/valkey-go"
)

// ValkeyPersister keeps the session record in a Valkey-compatible database,
// so several terminals on a shared machine see the same login.
type ValkeyPersister struct {
	client valkey.Client
	prefix string
}

// NewValkeyPersister constructs a persister backed by Valkey.
func NewValkeyPersister(client valkey.Client, prefix string) *ValkeyPersister {
	if prefix == "" {
		prefix = "healthmate"
	}
	return &ValkeyPersister{client: client, prefix: prefix}
}

// DialValkey connects to addr, which may be host:port or a redis:// URL
func DialValkey(ctx context.Context, addr string) (valkey.Client, error) {
	opt, err := valkey.ParseURL(addr)
	if err != nil {
		opt = valkey.ClientOption{InitAddress: []string{addr}}
	}
	client, err := valkey.NewClient(opt)
	if err != nil {
		return nil, fmt.Errorf("create valkey client: %w", err)
	}
	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		client.Close()
		return nil, fmt.Errorf("valkey ping: %w", err)
	}
	return client, nil
}

func (p *ValkeyPersister) Load(ctx context.Context, key string) (string, bool, error) {
	payload, err := p.client.Do(ctx, p.client.B().Get().Key(p.recordKey(key)).Build()).ToString()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return "", false, nil
		}
		return "", false, err
	}
	return payload, true, nil
}

func (p *ValkeyPersister) Save(ctx context.Context, key, payload string) error {
	return p.client.Do(ctx, p.client.B().Set().Key(p.recordKey(key)).Value(payload).Build()).Error()
}

func (p *ValkeyPersister) Delete(ctx context.Context, key string) error {
	return p.client.Do(ctx, p.client.B().Del().Key(p.recordKey(key)).Build()).Error()
}

func (p *ValkeyPersister) recordKey(key string) string {
	return fmt.Sprintf("%s:%s", p.prefix, key)
}

var _ Persister = (*ValkeyPersister)(nil)
