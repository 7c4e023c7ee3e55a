package bundle

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"

	"skinviz/scores"

	jsoniter "github.com/json-iterator/go"
)

const (
	Dir       = "skinanalysisResult/"
	ScoreFile = Dir + "score_info.json"
)

var ErrNoScores = errors.New(ScoreFile + " not found in bundle")

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Bundle is the content of a provider result archive
type Bundle struct {
	Scores scores.Payload
	Masks  map[string][]byte // keyed by base file name
}

// Parse reads a provider ZIP. The score file is required, masks are every PNG
// below the result directory.
func Parse(data []byte) (*Bundle, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("cannot open bundle: %w", err)
	}
	result := &Bundle{Masks: map[string][]byte{}}
	for _, f := range zr.File {
		switch {
		case f.Name == ScoreFile:
			content, err := readFile(f)
			if err != nil {
				return nil, err
			}
			if result.Scores, err = scores.Parse(content); err != nil {
				return nil, err
			}
		case strings.HasSuffix(f.Name, ".png") && strings.Contains(f.Name, Dir):
			content, err := readFile(f)
			if err != nil {
				return nil, err
			}
			result.Masks[path.Base(f.Name)] = content
		}
	}
	if result.Scores == nil {
		return nil, ErrNoScores
	}
	return result, nil
}

func readFile(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("cannot open %s: %w", f.Name, err)
	}
	defer rc.Close()
	content, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", f.Name, err)
	}
	return content, nil
}

// Build writes a bundle in the provider layout
func Build(payload map[string]any, masks map[string][]byte) ([]byte, error) {
	buf := bytes.Buffer{}
	zw := zip.NewWriter(&buf)
	w, err := zw.Create(ScoreFile)
	if err != nil {
		return nil, err
	}
	if err = json.NewEncoder(w).Encode(payload); err != nil {
		return nil, err
	}
	names := make([]string, 0, len(masks))
	for name := range masks {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if w, err = zw.Create(Dir + name); err != nil {
			return nil, err
		}
		if _, err = w.Write(masks[name]); err != nil {
			return nil, err
		}
	}
	if err = zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
