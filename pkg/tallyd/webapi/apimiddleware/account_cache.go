package apimiddleware

import (
	"sync"

	"github.com/tallyhq/tally/pkg/accounts"
)

// AccountCache remembers which identity keys the account service has
// confirmed. Only positive answers are cached; a key that didn't exist a
// moment ago may exist on the next request.
type AccountCache struct {
	accountCacheMu sync.RWMutex
	cache          map[string]bool
	client         accounts.Client
}

func NewAccountCache(client accounts.Client) *AccountCache {
	return &AccountCache{
		cache:  make(map[string]bool),
		client: client,
	}
}

func (c *AccountCache) Exists(email string) (bool, error) {
	c.accountCacheMu.RLock()

	if c.cache[email] {
		c.accountCacheMu.RUnlock()
		return true, nil
	}

	// Need to upgrade to a Write Lock
	c.accountCacheMu.RUnlock()
	c.accountCacheMu.Lock()
	defer c.accountCacheMu.Unlock()

	// Now that we've upgraded check again. A different thread may have
	// resolved the same key in between us releasing the read lock and
	// acquiring the write lock.
	if c.cache[email] {
		return true, nil
	}

	exists, err := c.client.Exists(email)
	if err != nil {
		return false, err
	}

	if exists {
		c.cache[email] = true
	}

	return exists, nil
}

func (c *AccountCache) Forget(email string) {
	c.accountCacheMu.Lock()
	defer c.accountCacheMu.Unlock()
	delete(c.cache, email)
}
