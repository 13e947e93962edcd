// Package backend is a small client for the storefront REST API.
//
// Only the calls the session layer needs are implemented: the credential
// exchange behind the login form and the customer profile lookup that
// authenticated views perform with the stored token. [Client] satisfies
// goSession.Authenticator.
package backend
