// Package rest is a JSON client on top of httpclient.
//
//	c, err := rest.New(httpclient.Config{BaseURL: "https://api.example.com"})
//	resp, err := rest.Get[Envelope](ctx, c, "/providers", rest.WithQuery(q))
//
// Bodies that fail to decode yield *DecodeError with the status and raw bytes.
package rest
