package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
)

func printResult(w io.Writer, raw []byte) error {
	out, err := render(raw, fieldPath, rawOutput, !color.NoColor)
	if err != nil {
		return err
	}
	_, err = w.Write(out)
	return err
}

// render selects and formats the response body. A --field path that matches
// nothing is an error so scripts notice typos.
func render(raw []byte, field string, asRaw, colored bool) ([]byte, error) {
	if field != "" {
		v := gjson.GetBytes(raw, field)
		if !v.Exists() {
			return nil, fmt.Errorf("field %q not found in response", field)
		}
		if v.IsObject() || v.IsArray() {
			raw = []byte(v.Raw)
		} else {
			return []byte(v.String() + "\n"), nil
		}
	}
	if asRaw {
		return append(append([]byte{}, raw...), '\n'), nil
	}
	out := pretty.Pretty(raw)
	if colored {
		out = pretty.Color(out, nil)
	}
	return out, nil
}
