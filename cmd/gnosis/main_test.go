package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ChicagoDave/gnosis/pkg/scene2d"
)

const exampleProject = "../../examples/first-city"

func TestRunGenerate(t *testing.T) {
	var buf bytes.Buffer
	if err := runGenerate(&buf, exampleProject, cityFlags{}, 0, 0); err != nil {
		t.Fatalf("runGenerate: %v", err)
	}

	var scene scene2d.Scene
	if err := json.Unmarshal(buf.Bytes(), &scene); err != nil {
		t.Fatalf("output is not scene JSON: %v", err)
	}
	if scene.Metadata.City != "first" {
		t.Errorf("city = %q, want first", scene.Metadata.City)
	}
	if scene.Display != nil {
		t.Error("display set without a window size")
	}
}

func TestRunGenerateDeterministic(t *testing.T) {
	flags := cityFlags{city: "downtown", seed: 9, seedSet: true}
	var a, b bytes.Buffer
	if err := runGenerate(&a, exampleProject, flags, 1280, 720); err != nil {
		t.Fatal(err)
	}
	if err := runGenerate(&b, exampleProject, flags, 1280, 720); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a.Bytes(), b.Bytes()) {
		t.Error("same seed produced different output")
	}
	if !strings.Contains(a.String(), `"seed": 9`) {
		t.Error("seed override missing from output")
	}
}

func TestRunGenerateUnknownCity(t *testing.T) {
	err := runGenerate(&bytes.Buffer{}, exampleProject, cityFlags{city: "atlantis"}, 0, 0)
	if err == nil || !strings.Contains(err.Error(), "atlantis") {
		t.Errorf("err = %v, want city not found", err)
	}
}

func TestRunValidate(t *testing.T) {
	var buf bytes.Buffer
	if err := runValidate(&buf, exampleProject); err != nil {
		t.Fatalf("runValidate: %v\n%s", err, buf.String())
	}
	if !strings.Contains(buf.String(), "Result: VALID") {
		t.Errorf("output = %q, want VALID result", buf.String())
	}
}

func TestRunValidateInvalid(t *testing.T) {
	dir := t.TempDir()
	yaml := `title: broken
cities:
  - name: bad
    city: {length: 100, height: 50}
    buildings: {min_height: 10, max_height: 5, min_width: 0, max_width: 4, average_room_population: 1}
    subway: {height: 5, onramp_distance: 20}
    fov: {width: 50, height: 50}
`
	if err := os.WriteFile(filepath.Join(dir, "city.yaml"), []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	err := runValidate(&buf, dir)
	if !errors.Is(err, errInvalid) {
		t.Fatalf("err = %v, want errInvalid", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Result: INVALID") {
		t.Errorf("output missing INVALID: %q", out)
	}
	if !strings.Contains(out, "cities.bad.buildings.min_width") {
		t.Errorf("output missing prefixed path: %q", out)
	}
}

func TestRunStats(t *testing.T) {
	var buf bytes.Buffer
	if err := runStats(&buf, exampleProject, cityFlags{}); err != nil {
		t.Fatalf("runStats: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"City first (seed 1, 500x140)", "Buildings:", "Onramps:"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRootCommandWiring(t *testing.T) {
	root := newRootCmd()
	for _, name := range []string{"generate", "validate", "stats", "serve"} {
		if cmd, _, err := root.Find([]string{name}); err != nil || cmd.Name() != name {
			t.Errorf("subcommand %s not registered", name)
		}
	}
}
