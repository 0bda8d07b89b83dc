// Package todoable provides an HTTP client for the Todoable to-do list API.
//
// # Overview
//
// The API is a small REST service: exchange a username and password for a
// token, then create, read, rename and delete lists and their items. This
// package owns the parts with real decisions in them: the session and token
// lifecycle, the mapping from API payloads to List and ListItem, and the
// error taxonomy every call goes through.
//
// # Architecture
//
//   - types.go: Credentials, List, ListItem, Status and request bodies
//   - mapper.go: payload structs and the response-to-domain mapping
//   - errors.go: error taxonomy and the status classifier
//   - session.go: token state and lazy re-authentication
//   - client.go: Client, options and the request template
//   - lists.go, items.go: one method per endpoint
//
// # Client Usage
//
//	client, err := todoable.Build(ctx, todoable.DefaultBaseURL, todoable.Credentials{
//		Username: "user",
//		Password: "secret",
//	})
//	if err != nil {
//		log.Fatalf("authenticate: %v", err)
//	}
//
//	list, err := client.CreateList(ctx, "Urgent Tasks")
//	item, err := client.CreateItem(ctx, list.ID, "Take out the trash")
//	_, err = client.FinishItem(ctx, list.ID, item.ID)
//
// NewClient returns an unauthenticated client; every operation on it fails
// with ErrNotAuthenticated until Authenticate succeeds.
//
// # Request Template
//
// Each operation:
//
//  1. Validates required ids (ErrInvalidArgument, no request sent)
//  2. Ensures the session (ErrNotAuthenticated, or one lazy re-authentication)
//  3. Sends one request with "Authorization: Token token=<token>"
//  4. Classifies the status code
//  5. Maps the body to a List or ListItem, or returns true
//
// RenameList, DeleteList, FinishItem and DeleteItem return true on any 2xx.
// Rename in particular is not followed by a fetch: the endpoint answers with
// plain text.
//
// # Token Lifetime
//
// Tokens are trusted for TokenLifetime (20 minutes) after issuance, measured
// on the client clock. There is no background refresh: the first call after
// expiry re-authenticates, and concurrent callers share that single
// authenticate request. A server-side lifetime change or clock skew shows up
// as ErrUnauthorized, which is returned to the caller and not retried.
//
// # Error Handling
//
//   - ErrNotAuthenticated: no successful Authenticate yet
//   - *AuthenticationError: the authenticate endpoint rejected the credentials
//   - ErrUnauthorized: 401 on a token-bearing call
//   - ErrContentNotFound: 404
//   - *UnprocessableError: 422 with field messages, e.g. "name has already been taken."
//   - *StatusError: any other non-2xx, carrying the status code
//
// Match them with errors.Is and errors.As; the client wraps them with the
// method and path of the failing call.
//
// # Missing Location Header
//
// Create endpoints report the new id through the Location header. When the
// header is absent or unusable the id is set to MissingID instead of failing
// the call, and a warning is logged.
//
// # Thread Safety
//
// Client and Session are safe for concurrent use.
package todoable
