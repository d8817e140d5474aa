package logger

import (
	"sort"
	"testing"

	"github.com/philipp01105/tracelog/handler/handlertest"
)

func TestRegistry_HierarchicalLookup(t *testing.T) {
	defer Reset()

	rootRec, appRec, dbRec := handlertest.New(), handlertest.New(), handlertest.New()
	SetRoot(NewBuilder().WithHandler(rootRec).WithLevel(WarnLevel).Build())
	Register("app", NewBuilder().WithHandler(appRec).WithLevel(InfoLevel).Build())
	Register("app.db", NewBuilder().WithHandler(dbRec).WithLevel(DebugLevel).Build())

	tests := []struct {
		name  string
		level Level
		rec   *handlertest.Recorder
	}{
		{"app", InfoLevel, appRec},
		{"app.http", InfoLevel, appRec},
		{"app.db", DebugLevel, dbRec},
		{"app.db.pool", DebugLevel, dbRec},
		{"application", WarnLevel, rootRec},
		{"other", WarnLevel, rootRec},
		{"", WarnLevel, rootRec},
	}
	for _, tt := range tests {
		l := Get(tt.name)
		if l.Name() != tt.name {
			t.Errorf("Get(%q).Name() = %q", tt.name, l.Name())
		}
		if l.Level() != tt.level {
			t.Errorf("Get(%q).Level() = %v, want %v", tt.name, l.Level(), tt.level)
		}
		if l.Handler() != tt.rec {
			t.Errorf("Get(%q) uses the wrong handler", tt.name)
		}
	}

	Get("app.db.pool").Debug("query")
	e := dbRec.Entries()[0]
	if e.LoggerName != "app.db.pool" {
		t.Errorf("LoggerName = %q", e.LoggerName)
	}

	names := Registered()
	sort.Strings(names)
	if len(names) != 2 || names[0] != "app" || names[1] != "app.db" {
		t.Errorf("Registered() = %v", names)
	}
}

func TestRegistry_NamesAreCaseInsensitive(t *testing.T) {
	defer Reset()

	rec := handlertest.New()
	Register("shop", NewBuilder().WithHandler(rec).Build())
	Register("Billing.API", NewBuilder().WithHandler(rec).Build())

	for _, name := range []string{"Shop", "SHOP.db", "billing.api", "Billing.API.v2"} {
		l := Get(name)
		if l.Handler() != rec {
			t.Errorf("Get(%q) did not find the registered logger", name)
		}
		if l.Name() != name {
			t.Errorf("Get(%q).Name() = %q", name, l.Name())
		}
	}
	if Get("Billing.API") != Get("Billing.API") {
		t.Error("exact registered name should return the stored logger")
	}
}

func TestRegistry_SetRootKeepsUnnamedLogger(t *testing.T) {
	defer Reset()

	root := NewBuilder().WithHandler(handlertest.New()).Build()
	SetRoot(root)
	if Root() != root {
		t.Error("SetRoot should store an unnamed logger as is")
	}

	SetRoot(root.WithName("named"))
	if Root().Name() != "" {
		t.Errorf("root name = %q", Root().Name())
	}
}

func TestRegistry_Reset(t *testing.T) {
	rec := handlertest.New()
	Register("svc", NewBuilder().WithHandler(rec).Build())
	SetRoot(NewBuilder().WithHandler(rec).Build())

	Reset()

	if Get("svc").Handler() == rec {
		t.Error("Reset should drop registered loggers")
	}
	if Default().Handler() == rec {
		t.Error("Reset should restore the default root")
	}
	if Default().Name() != "" {
		t.Errorf("root name = %q", Default().Name())
	}
}
