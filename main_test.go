package main

import "testing"

func TestNewApp_Commands(t *testing.T) {
	app := newApp()

	for _, name := range []string{"list", "clicks", "klik", "serve", "accesses", "quickstart"} {
		if app.Command(name) == nil {
			t.Errorf("command %q is not registered", name)
		}
	}
}
