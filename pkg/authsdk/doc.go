/*
Package authsdk provides a client SDK and the shared wire types for the edit
token service.

# Overview

The service hands out short-lived HS256 edit tokens. A caller asks for a token
for a record, the service checks with the metadata service that the caller may
update that record, and only then signs a token for them.

The service trusts the user id the SSO proxy puts in a request header
(X-Remote-User by default). SDKClient sets that header itself, so it is meant
for callers that already sit behind the proxy, for operators and for tests.

	client := authsdk.NewSDKClient("https://editauth.example.com")

	// Check service health
	health, err := client.GetLiveness(ctx)

	// Ask for an edit token for a record
	tok, err := client.EditToken(ctx, "bob", "ark:/88434/mds2-1234")

	// Check a token the service issued
	info, err := client.Introspect(ctx, tok.Token)

# Errors

Every failing endpoint answers with a JSON body of the form

	{"error": "access_denied", "error_description": "..."}

which the client returns as an *APIError. The predefined values compare with
errors.Is on status and code:

	_, err := client.EditToken(ctx, "bob", "rec001")
	switch {
	case errors.Is(err, authsdk.ErrAccessDenied):
		// the metadata service said no
	case errors.Is(err, authsdk.ErrTemporarilyUnavailable):
		// the metadata service could not be reached, retry later
	}

The same values are used by the server to write its responses, so the two
sides cannot drift apart.
*/
package authsdk
