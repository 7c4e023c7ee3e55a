package scores

import "testing"

func TestPayload_Extract(t *testing.T) {
	payload := Payload{
		"acne":           map[string]any{"raw_score": 45.2, "ui_score": 50.0},
		"wrinkle":        map[string]any{"raw_score": 62.8},
		"pore":           map[string]any{"whole": map[string]any{"ui_score": 33.0}},
		"oiliness":       42,
		"radiance":       68.9,
		"dark_circle_v2": map[string]any{"ui_score": 48.3},
		"hd_redness":     map[string]any{"ui_score": 73.5},
		"texture":        map[string]any{"ui_score": 0.0, "raw_score": 80.0},
		"firmness":       "n/a",
		"eye_bag":        "n/a",
		"eye_bag_v2":     map[string]any{"note": "pending"},
		"hd_eye_bag":     55,
		"moisture":       nil,
	}
	tests := []struct {
		concern string
		want    *float64
	}{
		{"acne", ptr(50)},
		{"wrinkle", ptr(62.8)},
		{"pore", ptr(33)},
		{"oiliness", ptr(42)},
		{"radiance", ptr(68.9)},
		{"dark_circle", ptr(48.3)},
		{"redness", ptr(73.5)},
		{"texture", ptr(0)},
		{"firmness", nil},
		{"moisture", nil},
		{"eye_bag", ptr(55)},
		{"skin_age", nil},
	}
	for _, tt := range tests {
		t.Run(tt.concern, func(t *testing.T) {
			got := payload.Extract(tt.concern)
			if (got == nil) != (tt.want == nil) {
				t.Fatalf("Extract(%q) = %v, want %v", tt.concern, got, tt.want)
			}
			if got != nil && *got != *tt.want {
				t.Errorf("Extract(%q) = %v, want %v", tt.concern, *got, *tt.want)
			}
		})
	}
}

func TestParse(t *testing.T) {
	p, err := Parse([]byte(`{"acne":{"raw_score":45.2,"ui_score":45},"all":{"score":78.0},"skin_age":28}`))
	if err != nil {
		t.Fatal(err)
	}
	if got := p.Extract("acne"); got == nil || *got != 45 {
		t.Errorf("acne = %v", got)
	}
	if got := p.Extract("skin_age"); got == nil || *got != 28 {
		t.Errorf("skin_age = %v", got)
	}
	if _, err := Parse([]byte(`[1,2`)); err == nil {
		t.Error("expected an error for broken JSON")
	}
}

func ptr(f float64) *float64 {
	return &f
}
