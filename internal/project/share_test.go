package project

import (
	"net/url"
	"strings"
	"testing"

	"github.com/piwi3910/drawerfit/internal/model"
	"github.com/piwi3910/drawerfit/internal/normalize"
)

func TestShareRoundTrip(t *testing.T) {
	orig := sampleLayout()

	link, err := ShareURL("https://drawerfit.app/", orig)
	if err != nil {
		t.Fatalf("ShareURL failed: %v", err)
	}
	if !strings.HasPrefix(link, "https://drawerfit.app/?layout=") {
		t.Fatalf("unexpected share link %s", link)
	}

	param := ShareParamFromURL(link)
	state, err := normalize.FromShareParam(param, model.DefaultCatalog(), model.DefaultLimits())
	if err != nil {
		t.Fatalf("FromShareParam failed: %v", err)
	}
	if state.LayoutTitle != orig.LayoutTitle {
		t.Errorf("expected title %q, got %q", orig.LayoutTitle, state.LayoutTitle)
	}
	if len(state.Placements) != len(orig.Placements) {
		t.Fatalf("expected %d placements, got %d", len(orig.Placements), len(state.Placements))
	}
	for i := range orig.Placements {
		if state.Placements[i].ID != orig.Placements[i].ID || state.Placements[i].X != orig.Placements[i].X {
			t.Errorf("placement %d differs: %+v vs %+v", i, state.Placements[i], orig.Placements[i])
		}
	}
}

func TestShareURLKeepsExistingQuery(t *testing.T) {
	link, err := ShareURL("https://example.com/app?theme=dark&layout=old", sampleLayout())
	if err != nil {
		t.Fatal(err)
	}
	u, err := url.Parse(link)
	if err != nil {
		t.Fatal(err)
	}
	if u.Query().Get("theme") != "dark" {
		t.Errorf("expected theme parameter to survive, got %s", link)
	}
	if u.Query().Get("layout") == "old" {
		t.Error("layout parameter should be replaced")
	}
}

func TestShareParamFromURL(t *testing.T) {
	param, err := EncodeShare(sampleLayout())
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare param", param, param},
		{"bare param with spaces", "  " + param + "\n", param},
		{"escaped link", "https://drawerfit.app/?layout=" + url.QueryEscape(param), param},
		{"unescaped link", "https://drawerfit.app/?x=1&layout=" + param, param},
		{"no layout param", "https://drawerfit.app/?x=1", "https://drawerfit.app/?x=1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ShareParamFromURL(tt.in); got != tt.want {
				t.Errorf("ShareParamFromURL() = %q, want %q", got, tt.want)
			}
		})
	}
}
