// Package xmlrpc implements the minimal XML-RPC client described in
// spec.md §4.3: only the value types and master methods the ROS master
// protocol actually needs (int, string, array, struct), hand-written
// rather than pulled from a general XML-RPC library, per the spec's
// explicit instruction.
package xmlrpc

import (
	"strconv"
	"strings"

	"github.com/valetudo-ecovacs/roscore/internal/roserr"
)

// Value is a decoded XML-RPC value. Exactly one of the fields is
// meaningful, selected by Kind.
type Value struct {
	Kind   ValueKind
	Int    int
	Str    string
	Array  []Value
	Struct map[string]Value
}

// ValueKind discriminates the Value union.
type ValueKind int

const (
	KindInt ValueKind = iota
	KindString
	KindArray
	KindStruct
)

func IntValue(i int) Value           { return Value{Kind: KindInt, Int: i} }
func StringValue(s string) Value     { return Value{Kind: KindString, Str: s} }
func ArrayValue(v []Value) Value     { return Value{Kind: KindArray, Array: v} }
func StructValue(m map[string]Value) Value { return Value{Kind: KindStruct, Struct: m} }

// AsString returns the string payload, or an error if Kind isn't KindString.
func (v Value) AsString() (string, error) {
	if v.Kind != KindString {
		return "", roserr.New(roserr.KindProtocolError, "expected string value, got kind %d", v.Kind)
	}
	return v.Str, nil
}

// AsInt returns the int payload, or an error if Kind isn't KindInt.
func (v Value) AsInt() (int, error) {
	if v.Kind != KindInt {
		return 0, roserr.New(roserr.KindProtocolError, "expected int value, got kind %d", v.Kind)
	}
	return v.Int, nil
}

// AsArray returns the array payload, or an error if Kind isn't KindArray.
func (v Value) AsArray() ([]Value, error) {
	if v.Kind != KindArray {
		return nil, roserr.New(roserr.KindProtocolError, "expected array value, got kind %d", v.Kind)
	}
	return v.Array, nil
}

// AsStruct returns the struct payload, or an error if Kind isn't KindStruct.
func (v Value) AsStruct() (map[string]Value, error) {
	if v.Kind != KindStruct {
		return nil, roserr.New(roserr.KindProtocolError, "expected struct value, got kind %d", v.Kind)
	}
	return v.Struct, nil
}

// encodeValue renders v as an XML-RPC <value> element.
func encodeValue(v Value) string {
	var b strings.Builder
	b.WriteString("<value>")
	switch v.Kind {
	case KindInt:
		b.WriteString("<int>")
		b.WriteString(strconv.Itoa(v.Int))
		b.WriteString("</int>")
	case KindString:
		b.WriteString("<string>")
		b.WriteString(escapeXML(v.Str))
		b.WriteString("</string>")
	case KindArray:
		b.WriteString("<array><data>")
		for _, e := range v.Array {
			b.WriteString(encodeValue(e))
		}
		b.WriteString("</data></array>")
	case KindStruct:
		b.WriteString("<struct>")
		for k, e := range v.Struct {
			b.WriteString("<member><name>")
			b.WriteString(escapeXML(k))
			b.WriteString("</name>")
			b.WriteString(encodeValue(e))
			b.WriteString("</member>")
		}
		b.WriteString("</struct>")
	}
	b.WriteString("</value>")
	return b.String()
}

func escapeXML(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	return r.Replace(s)
}

// encodeCall renders a full XML-RPC methodCall request body.
func encodeCall(method string, args []Value) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0"?><methodCall><methodName>`)
	b.WriteString(escapeXML(method))
	b.WriteString(`</methodName><params>`)
	for _, a := range args {
		b.WriteString("<param>")
		b.WriteString(encodeValue(a))
		b.WriteString("</param>")
	}
	b.WriteString(`</params></methodCall>`)
	return b.String()
}

func protocolErrf(format string, args ...interface{}) error {
	return roserr.New(roserr.KindProtocolError, format, args...)
}
