package xmlrpc

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func lookupServiceResponse(uri string) string {
	return `<?xml version="1.0"?><methodResponse><params><param><value><array><data>` +
		`<value><int>1</int></value>` +
		`<value><string>lookupService OK</string></value>` +
		`<value><string>` + uri + `</string></value>` +
		`</data></array></value></param></params></methodResponse>`
}

func TestLookupServiceSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/xml")
		_, _ = w.Write([]byte(lookupServiceResponse("rosrpc://127.0.0.1:12345")))
	}))
	defer srv.Close()

	c := NewMasterClient(srv.URL, "/valetudo_ecovacs", time.Second)
	uri, err := c.LookupService(context.Background(), "/spot_area/get")
	if err != nil {
		t.Fatalf("LookupService: %v", err)
	}
	if uri != "rosrpc://127.0.0.1:12345" {
		t.Fatalf("unexpected uri: %s", uri)
	}
}

func TestLookupServiceMasterErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := `<?xml version="1.0"?><methodResponse><params><param><value><array><data>` +
			`<value><int>-1</int></value><value><string>no such service</string></value><value><string></string></value>` +
			`</data></array></value></param></params></methodResponse>`
		_, _ = w.Write([]byte(resp))
	}))
	defer srv.Close()

	c := NewMasterClient(srv.URL, "/valetudo_ecovacs", time.Second)
	if _, err := c.LookupService(context.Background(), "/missing"); err == nil {
		t.Fatalf("expected error for master status -1")
	}
}

func TestGetSystemStateDecodesThreeSections(t *testing.T) {
	body := `<?xml version="1.0"?><methodResponse><params><param><value><array><data>` +
		`<value><int>1</int></value><value><string>ok</string></value>` +
		`<value><array><data>` +
		`<value><array><data>` + // publishers
		`<value><array><data><value><string>/prediction/Pose</string></value><value><array><data><value><string>/pose_node</string></value></data></array></value></data></array></value>` +
		`</data></array></value>` +
		`<value><array><data></data></array></value>` + // subscribers
		`<value><array><data></data></array></value>` + // services
		`</data></array></value>` +
		`</data></array></value></param></params></methodResponse>`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(body))
	}))
	defer srv.Close()

	c := NewMasterClient(srv.URL, "/valetudo_ecovacs", time.Second)
	state, err := c.GetSystemState(context.Background())
	if err != nil {
		t.Fatalf("GetSystemState: %v", err)
	}
	if nodes, ok := state.Publishers["/prediction/Pose"]; !ok || len(nodes) != 1 || nodes[0] != "/pose_node" {
		t.Fatalf("unexpected publishers: %+v", state.Publishers)
	}
}

func TestEncodeCallEscapesXML(t *testing.T) {
	body := encodeCall("lookupService", []Value{StringValue("/a&b<c>")})
	if !strings.Contains(body, "/a&amp;b&lt;c&gt;") {
		t.Fatalf("expected escaped payload, got %s", body)
	}
}
