package bundle

import (
	"archive/zip"
	"bytes"
	"errors"
	"testing"

	"skinviz/mockdata"
)

func TestBuildParse(t *testing.T) {
	masks := mockdata.Masks(32, 24)
	data, err := Build(mockdata.Scores(), masks)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Parse(data)
	if err != nil {
		t.Fatal(err)
	}
	if len(b.Masks) != len(masks) {
		t.Errorf("%d masks, want %d", len(b.Masks), len(masks))
	}
	if !bytes.Equal(b.Masks["sd_acne_output_all.png"], masks["sd_acne_output_all.png"]) {
		t.Error("acne mask content changed")
	}
	if s := b.Scores.Extract("acne"); s == nil || *s != 45.2 {
		t.Errorf("acne score %v", s)
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
		masks int
		err   error
	}{
		{
			"nested masks and noise",
			map[string]string{
				ScoreFile:                         `{"acne":{"ui_score":40}}`,
				Dir + "sub/sd_pore.png":           "png",
				"other/sd_acne.png":               "png",
				Dir + "notes.txt":                 "txt",
				Dir + "sd_wrinkle_output_all.png": "png",
			},
			2,
			nil,
		},
		{
			"no scores",
			map[string]string{Dir + "sd_pore.png": "png"},
			0,
			ErrNoScores,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := bytes.Buffer{}
			zw := zip.NewWriter(&buf)
			for name, content := range tt.files {
				w, _ := zw.Create(name)
				w.Write([]byte(content))
			}
			zw.Close()

			b, err := Parse(buf.Bytes())
			if !errors.Is(err, tt.err) {
				t.Fatalf("error %v, want %v", err, tt.err)
			}
			if err == nil && len(b.Masks) != tt.masks {
				t.Errorf("masks %v", b.Masks)
			}
		})
	}
	if _, err := Parse([]byte("not a zip")); err == nil {
		t.Error("expected error")
	}
}
