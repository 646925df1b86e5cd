package app

import (
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"
	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
	"gopkg.in/yaml.v3"
)

// Output encodings accepted by Config.Output.
const (
	OutputJSON = "json"
	OutputYAML = "yaml"
	OutputCBOR = "cbor"
)

// cborMode encodes with Core Deterministic Encoding: sorted map keys and
// the smallest integer encodings.
var cborMode cbor.EncMode

func init() {
	var err error
	if cborMode, err = cbor.CoreDetEncOptions().EncMode(); err != nil {
		panic("app: CBOR encoder initialization failed: " + err.Error())
	}
}

// encode writes v to w in the given output encoding. Map keys are emitted in
// sorted order by every encoding.
func encode(w io.Writer, output string, v any) error {
	switch output {
	case OutputJSON:
		enc := jsontext.NewEncoder(w, jsontext.WithIndent("  "))
		return json.MarshalEncode(enc, v, json.Deterministic(true))
	case OutputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	case OutputCBOR:
		return cborMode.NewEncoder(w).Encode(v)
	default:
		return fmt.Errorf("unsupported output encoding %q", output)
	}
}
