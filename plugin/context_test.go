package plugin

import (
	"testing"

	"github.com/zernjs/kernel/proxy"
	"github.com/zernjs/kernel/store"
)

func TestContext_Get(t *testing.T) {
	deps := map[string]proxy.PluginHandle{
		"logger": {API: proxy.API{"log": 1}},
	}
	ctx := NewContext("p", nil, store.New(nil), deps)

	h, ok := ctx.Get("logger")
	if !ok {
		t.Fatal("expected to find logger dependency")
	}
	if h.API["log"] != 1 {
		t.Errorf("handle API = %+v, unexpected", h.API)
	}

	if _, ok := ctx.Get("missing"); ok {
		t.Error("Get(missing) should report not found")
	}
}

func TestContext_WithAPI(t *testing.T) {
	ctx := NewContext("p", nil, store.New(nil), nil)
	withAPI := ctx.WithAPI("my-api")
	if withAPI.API != "my-api" {
		t.Errorf("API = %v, want my-api", withAPI.API)
	}
	if ctx.API != nil {
		t.Error("original context should be unaffected by WithAPI")
	}
}
