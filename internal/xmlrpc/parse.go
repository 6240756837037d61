package xmlrpc

import (
	"encoding/xml"
	"io"
	"strconv"
	"strings"
)

// decodeMethodResponse parses an XML-RPC methodResponse body into a Value,
// or returns a ProtocolError if the document is a <fault> or malformed.
func decodeMethodResponse(body []byte) (Value, error) {
	dec := xml.NewDecoder(strings.NewReader(string(body)))
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return Value{}, protocolErrf("methodResponse: no <params> or <fault> found")
		}
		if err != nil {
			return Value{}, protocolErrf("methodResponse: xml parse error: %v", err)
		}
		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		switch start.Name.Local {
		case "fault":
			v, err := decodeValueElement(dec)
			if err != nil {
				return Value{}, err
			}
			return Value{}, protocolErrf("methodResponse fault: %+v", v)
		case "params":
			return decodeParams(dec)
		}
	}
}

func decodeParams(dec *xml.Decoder) (Value, error) {
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return Value{}, protocolErrf("params: missing <param><value>")
		}
		if err != nil {
			return Value{}, protocolErrf("params: xml parse error: %v", err)
		}
		if end, ok := tok.(xml.EndElement); ok && end.Name.Local == "params" {
			return Value{}, protocolErrf("params: empty response")
		}
		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "param" {
			continue
		}
		return decodeParamValue(dec)
	}
}

func decodeParamValue(dec *xml.Decoder) (Value, error) {
	for {
		tok, err := dec.Token()
		if err != nil {
			return Value{}, protocolErrf("param: xml parse error: %v", err)
		}
		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "value" {
			continue
		}
		return decodeValueBody(dec)
	}
}

// decodeValueElement consumes one <value>...</value> where the decoder has
// just produced the <value> start element's sibling structure (used for the
// fault struct, which is itself a <value>).
func decodeValueElement(dec *xml.Decoder) (Value, error) {
	for {
		tok, err := dec.Token()
		if err != nil {
			return Value{}, protocolErrf("value: xml parse error: %v", err)
		}
		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "value" {
			continue
		}
		return decodeValueBody(dec)
	}
}

// decodeValueBody decodes the contents of a <value> element, given that the
// <value> start tag has already been consumed.
func decodeValueBody(dec *xml.Decoder) (Value, error) {
	var chardata strings.Builder
	for {
		tok, err := dec.Token()
		if err != nil {
			return Value{}, protocolErrf("value body: xml parse error: %v", err)
		}
		switch t := tok.(type) {
		case xml.CharData:
			chardata.Write(t)
		case xml.StartElement:
			switch t.Name.Local {
			case "int", "i4":
				return decodeIntLeaf(dec, "int")
			case "string":
				return decodeStringLeaf(dec)
			case "array":
				return decodeArray(dec)
			case "struct":
				return decodeStruct(dec)
			case "boolean":
				return decodeIntLeaf(dec, "boolean")
			default:
				// unknown scalar type: treat contents as string.
				return decodeStringLeafNamed(dec, t.Name.Local)
			}
		case xml.EndElement:
			if t.Name.Local == "value" {
				// bare string value with no child element, e.g. <value>foo</value>.
				return StringValue(strings.TrimSpace(chardata.String())), nil
			}
		}
	}
}

func decodeIntLeaf(dec *xml.Decoder, tag string) (Value, error) {
	var text strings.Builder
	for {
		tok, err := dec.Token()
		if err != nil {
			return Value{}, protocolErrf("%s: xml parse error: %v", tag, err)
		}
		switch t := tok.(type) {
		case xml.CharData:
			text.Write(t)
		case xml.EndElement:
			if t.Name.Local == tag {
				n, err := strconv.Atoi(strings.TrimSpace(text.String()))
				if err != nil {
					return Value{}, protocolErrf("%s: not an integer: %q", tag, text.String())
				}
				return IntValue(n), nil
			}
		}
	}
}

func decodeStringLeaf(dec *xml.Decoder) (Value, error) {
	return decodeStringLeafNamed(dec, "string")
}

func decodeStringLeafNamed(dec *xml.Decoder, tag string) (Value, error) {
	var text strings.Builder
	depth := 0
	for {
		tok, err := dec.Token()
		if err != nil {
			return Value{}, protocolErrf("%s: xml parse error: %v", tag, err)
		}
		switch t := tok.(type) {
		case xml.CharData:
			text.Write(t)
		case xml.StartElement:
			if t.Name.Local == tag {
				depth++
			}
		case xml.EndElement:
			if t.Name.Local == tag {
				if depth > 0 {
					depth--
					continue
				}
				return StringValue(text.String()), nil
			}
		}
	}
}

func decodeArray(dec *xml.Decoder) (Value, error) {
	var elems []Value
	for {
		tok, err := dec.Token()
		if err != nil {
			return Value{}, protocolErrf("array: xml parse error: %v", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "value" {
				v, err := decodeValueBody(dec)
				if err != nil {
					return Value{}, err
				}
				elems = append(elems, v)
			}
		case xml.EndElement:
			if t.Name.Local == "array" {
				return ArrayValue(elems), nil
			}
		}
	}
}

func decodeStruct(dec *xml.Decoder) (Value, error) {
	m := map[string]Value{}
	var curName string
	for {
		tok, err := dec.Token()
		if err != nil {
			return Value{}, protocolErrf("struct: xml parse error: %v", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "name":
				name, err := readCharData(dec, "name")
				if err != nil {
					return Value{}, err
				}
				curName = name
			case "value":
				v, err := decodeValueBody(dec)
				if err != nil {
					return Value{}, err
				}
				m[curName] = v
			}
		case xml.EndElement:
			if t.Name.Local == "struct" {
				return StructValue(m), nil
			}
		}
	}
}

func readCharData(dec *xml.Decoder, endTag string) (string, error) {
	var text strings.Builder
	for {
		tok, err := dec.Token()
		if err != nil {
			return "", protocolErrf("%s: xml parse error: %v", endTag, err)
		}
		switch t := tok.(type) {
		case xml.CharData:
			text.Write(t)
		case xml.EndElement:
			if t.Name.Local == endTag {
				return text.String(), nil
			}
		}
	}
}
