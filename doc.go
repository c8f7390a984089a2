// Package auth is the session layer of the travel web client. The remote API
// issues a bearer credential, this package stores it, reads facts from it and
// decides what every page navigation and API call is allowed to do.
//
// Credential store:
//   - CredentialStore holds a single opaque token. CookieStore binds it to the
//     request cookie of a browser session, MemoryStore keeps it in process for
//     commands and tests.
//
// Session facts:
//   - SessionOracle decodes the claims without verifying the signature. It
//     answers presence, expiry and the admin claim from the store alone and
//     never fails: a credential it can not read is expired and not admin.
//
// Route guard:
//   - Evaluate maps a RouteRequirement and a SessionSnapshot to render or
//     redirect. Guard and RouteTable run it in front of every page. Expiry is
//     not checked here, the gateway discovers it on the first API call.
//
// Request gateway:
//   - Gateway attaches the credential to outbound calls, clears it when it is
//     expired or rejected with a 401, and hands the redirect to a Navigator so
//     the page currently rendering decides when to leave.
package auth
