package jsonquery

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"path/filepath"

	"go.uber.org/multierr"
)

// Form field names of a request built by [Client.PostRequestWithFile].
const (
	MultipartDataField = "data" // The serialized document, sent as application/json.
	MultipartFileField = "file" // The attached file, sent as application/octet-stream.
)

const contentTypeJSON = "application/json"

// Transport sends HTTP requests on behalf of a [Client]. [*http.Client]
// implements it; tests and applications may supply their own.
//
// Do must be safe for concurrent use.
type Transport interface {
	Do(req *http.Request) (*http.Response, error)
}

// newMultipartBody builds a multipart/form-data body holding the serialized
// document and the whole content of the file at path.
func newMultipartBody(doc *Document, path string) ([]byte, string, error) {
	payload, err := Marshal(doc)
	if err != nil {
		return nil, "", err
	}

	content, err := readWholeFile(path)
	if err != nil {
		return nil, "", err
	}

	var buf bytes.Buffer

	mw := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q`, MultipartDataField))
	header.Set("Content-Type", contentTypeJSON)

	dataPart, err := mw.CreatePart(header)
	if err != nil {
		return nil, "", err
	}

	_, err = dataPart.Write(payload)

	filePart, ferr := mw.CreateFormFile(MultipartFileField, filepath.Base(path))
	if ferr != nil {
		return nil, "", multierr.Append(err, ferr)
	}

	_, ferr = filePart.Write(content)

	if err = multierr.Combine(err, ferr, mw.Close()); err != nil {
		return nil, "", err
	}

	return buf.Bytes(), mw.FormDataContentType(), nil
}

// readBody reads the whole response body into buf and closes it.
// A nil body reads as empty.
func readBody(resp *http.Response, buf *bytes.Buffer) error {
	if resp.Body == nil {
		return nil
	}

	_, err := buf.ReadFrom(resp.Body)
	return multierr.Append(err, resp.Body.Close())
}
