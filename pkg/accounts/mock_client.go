package accounts

type MockClient struct {
	err      error
	accounts map[string]bool
}

func NewMockClient() *MockClient {
	return &MockClient{accounts: make(map[string]bool)}
}

func (c *MockClient) SetError(err error) {
	c.err = err
}

func (c *MockClient) AddAccount(email string) {
	c.accounts[email] = true
}

func (c *MockClient) RemoveAccount(email string) {
	delete(c.accounts, email)
}

func (c *MockClient) Exists(email string) (bool, error) {
	if c.err != nil {
		return false, c.err
	}

	return c.accounts[email], nil
}
