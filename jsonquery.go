// Package jsonquery provides a typed, mutable JSON document model and an
// asynchronous HTTP client that posts such documents (optionally with an
// attached file) to a remote endpoint and reports the parsed JSON response.
//
// # Overview
//
// A [Document] is a JSON object: a set of uniquely named fields, each holding
// a [Value]. Values are a closed set of variants ([Null], [Bool], [Int],
// [Float], [String], [Array] and [*Document]) so nested objects and arrays of
// any kind can be represented without resorting to `any`.
//
// Documents are built with chaining setters and read with getters that report
// whether the field was found with the requested kind:
//
//	doc := jsonquery.New().
//		SetString("name", "gopher").
//		SetInt("age", 13).
//		SetFloatArray("scores", []float64{1.5, 2.25})
//
//	if name, ok := doc.GetString("name"); ok {
//		fmt.Println(name)
//	}
//
// [Document.ToString] serializes a document and [FromString], [FromBytes] and
// [Loader.FromFile] parse one back. Any document built with the setters
// survives a serialize/parse round-trip unchanged.
//
// # Requests
//
// [Client] turns a document into an HTTP request. Dispatch never blocks: each
// of [Client.PostRequest], [Client.PostRequestWithFile] and [Client.GetRequest]
// returns a [*Call] immediately, and the outcome is delivered exactly once as
// a [Result] carrying a success flag, the response document and a [Status]:
//
//	client, err := jsonquery.NewClient(jsonquery.ClientConfig{})
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer client.Close()
//
//	call := client.PostRequest(ctx, doc, "example.com/api")
//	call.OnComplete(func(r jsonquery.Result) {
//		if !r.Success {
//			log.Printf("request failed: %s (%v)", r.Status, r.Err)
//			return
//		}
//		log.Println(r.Document.ToString())
//	})
//
// # JSON engine
//
// Encoding and decoding are built on github.com/json-iterator/go. The
// [JSONAPI] variable selects the frozen configuration used to borrow streams
// and iterators and may be replaced *at startup*.
package jsonquery

import (
	jsoniter "github.com/json-iterator/go"
)

// JSONAPI is the json-iterator configuration used by the serializer and the
// parser. Applications may replace it *at startup*, for example to share the
// caches of a configuration used elsewhere:
//
//	func init() {
//		jsonquery.JSONAPI = jsoniter.ConfigCompatibleWithStandardLibrary
//	}
//
// Replacing it while documents are being encoded or decoded is a data race.
var JSONAPI = jsoniter.Config{
	EscapeHTML:             false,
	SortMapKeys:            true,
	ValidateJsonRawMessage: true,
}.Froze()
