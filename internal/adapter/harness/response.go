package harness

import (
	"bytes"
	"encoding/json"
	"strconv"
)

var emptyObject = []byte("{}")

// EncodeBody serializes resp as compact JSON. Map keys come out sorted. A value
// that cannot be encoded degrades the whole body to {}.
func EncodeBody(resp map[string]any) []byte {
	if resp == nil {
		return emptyObject
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(resp); err != nil {
		return emptyObject
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n"))
}

// EncodeResponse frames resp as a complete HTTP/1.1 200 response. The
// connection is always closed after it.
func EncodeResponse(resp map[string]any) []byte {
	body := EncodeBody(resp)

	var buf bytes.Buffer
	buf.Grow(160 + len(body))
	buf.WriteString("HTTP/1.1 200 OK\r\n")
	buf.WriteString("Content-Type: application/json\r\n")
	buf.WriteString("Content-Length: ")
	buf.WriteString(strconv.Itoa(len(body)))
	buf.WriteString("\r\n")
	buf.WriteString("Connection: close\r\n")
	buf.WriteString("Access-Control-Allow-Origin: *\r\n")
	buf.WriteString("\r\n")
	buf.Write(body)
	return buf.Bytes()
}
