package utils

import "testing"

func TestDetermineLocale(t *testing.T) {
	sup := []string{"en", "es"}

	cases := []struct {
		name     string
		explicit string
		accept   string
		want     string
	}{
		{"explicit wins", "es", "en-US,en;q=0.9", "es"},
		{"explicit region normalized", "es-MX", "", "es"},
		{"accept header q order", "", "fr;q=0.9,es;q=0.8,en;q=0.7", "es"},
		{"accept region base match", "", "en-GB,fr;q=0.5", "en"},
		{"unsupported everywhere falls to default", "de", "ja,zh;q=0.9", "en"},
		{"empty inputs fall to default", "", "", "en"},
		{"zero q ignored", "", "es;q=0,en;q=0.5", "en"},
	}
	for _, tc := range cases {
		if got := DetermineLocale(tc.explicit, tc.accept, sup, "en"); got != tc.want {
			t.Errorf("%s: got %q want %q", tc.name, got, tc.want)
		}
	}

	if got := DetermineLocale("", "", []string{"es"}, "de"); got != "es" {
		t.Errorf("default outside supported set should pick first supported, got %q", got)
	}
}
