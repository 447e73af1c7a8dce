// Package accounts is the client for the account service. The collaboration
// core treats user identity as an opaque key it doesn't own; the only thing
// it ever asks the account service is whether a key names a real account.
package accounts

type Client interface {
	Exists(email string) (bool, error)
}
