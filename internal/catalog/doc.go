// Package catalog provides an HTTP client for the character catalog API.
//
// # Endpoints
//
//   - GET <base>/character?name&status&gender&species&page: one page of results
//   - GET <base>/character/<id>: a single record
//   - GET <base>/character/<id>,<id>,...: several records at once
//
// # Errors
//
// Failures fall into two types. *RemoteError covers non-2xx responses and
// transport failures (StatusCode 0, cause in Err); its message reads
// "API error: 500". *CancelledError means the caller's context was
// cancelled; callers drop it silently. A 404 from the list endpoint is not
// an error and yields EmptyPage.
//
// # Requests
//
// Every request waits on a client-side rate limiter, carries
// Accept: application/json, a User-Agent and, when the context was issued by
// a request.Slot, an X-Request-ID header for log correlation.
//
//	client, err := catalog.NewClient(catalog.DefaultBaseURL, catalog.Options{RateLimit: 5})
//	if err != nil {
//		return err
//	}
//	page, err := client.ListResources(ctx, catalog.Filter{Status: "alive"}, 2)
//
// The Client is safe for concurrent use.
package catalog
