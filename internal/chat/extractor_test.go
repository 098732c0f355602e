package chat

import "testing"

func TestExtractIdentifiers(t *testing.T) {
	cases := []struct {
		name      string
		text      string
		wantOrder string
		wantICCID string
	}{
		{"order in sentence", "my order is 15622", "15622", ""},
		{"bare order number", "15622", "15622", ""},
		{"iccid length run", "iccid 893720401618", "", "893720401618"},
		{"longest run wins", "code 1234 order 156220 pin 56789", "156220", ""},
		{"longest run is iccid", "order 15622, sim 8937204016180003021", "", "8937204016180003021"},
		{"too short", "pin 1234", "", ""},
		{"no digits", "hello there", "", ""},
		{"tie keeps first", "12345 and 67890", "12345", ""},
		{"garbage input", "\x00\xff ---", "", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			order, iccid := ExtractIdentifiers(tc.text)
			if order != tc.wantOrder || iccid != tc.wantICCID {
				t.Errorf("ExtractIdentifiers(%q) = (%q, %q), want (%q, %q)",
					tc.text, order, iccid, tc.wantOrder, tc.wantICCID)
			}
		})
	}
}

func TestExtractDevice(t *testing.T) {
	cases := []struct {
		text      string
		wantMake  string
		wantModel string
	}{
		{"I have an iPhone 15 Pro", "Apple", "iPhone 15 PRO"},
		{"у меня айфон 13", "Apple", "iPhone 13"},
		{"samsung galaxy s23 ultra", "Samsung", "Galaxy S23 ULTRA"},
		{"google pixel 8 pro", "Google", "Pixel 8 PRO"},
		{"xiaomi redmi note", "Xiaomi", ""},
		{"huawei p30", "Huawei", ""},
		{"just a question about roaming", "", ""},
	}

	for _, tc := range cases {
		d := ExtractDevice(tc.text)
		if d.Make != tc.wantMake || d.Model != tc.wantModel {
			t.Errorf("ExtractDevice(%q) = %+v, want make=%q model=%q",
				tc.text, d, tc.wantMake, tc.wantModel)
		}
	}
}
