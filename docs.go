// stormpath provides a collection of related packages for authenticating end
// users against a Stormpath-style identity management service and managing
// the resulting credentials: hosted "ID Site" login via signed redirect
// tokens (idsite), OAuth2 token grants (oauth), direct credential
// authentication (authc), the shared HS256 token codec (jwt), and the
// service's error model (apierror).
//
// See README.md
package stormpath
