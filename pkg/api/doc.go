// Package api provides the HTTP client for the TrustGraph backend.
//
// # Overview
//
// [Client] is the single point of contact with the backend. It issues GET
// requests against four fixed resources and decodes the JSON bodies into the
// types of [github.com/matzehuels/trustgraph/pkg/trustgraph]:
//
//	GET /                                  -> Health
//	GET /graph                             -> GraphData
//	GET /profile/{profileId}               -> ProfileDetail
//	GET /verify/{username}/{repositoryName} -> VerificationResult
//
// Construct one Client at application start and pass it to whatever needs it:
//
//	client := api.NewClient(cfg.APIURL, api.WithLogger(logger))
//	graph, err := client.Graph(ctx)
//
// # Errors
//
// Failures are returned as [errors.Error] values with a uniform shape:
//
//   - Non-success status: code HTTP_STATUS, message "HTTP <status>: <reason>",
//     and the status available through [errors.Status]
//   - Transport failure: code NETWORK_ERROR with the transport's message
//   - Malformed body: code DECODE_ERROR with the decoder's message
//
// Cancelling ctx returns the context's error unwrapped. Every other failure is
// logged once where it is detected. The client never retries, caches, or
// deduplicates requests; retry policy belongs to the caller.
//
// [errors.Error]: github.com/matzehuels/trustgraph/pkg/errors.Error
// [errors.Status]: github.com/matzehuels/trustgraph/pkg/errors.Status
package api
