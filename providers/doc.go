// Package providers lists marketplace providers from the upstream API and
// serves them through the query cache.
//
// The upstream wraps every answer in a {statusCode, data} envelope. Client
// turns that envelope into a provider slice or a typed error, Policy holds
// the freshness and retry rules for the listing, and Service combines both
// into the Listing view the web layer renders.
package providers
