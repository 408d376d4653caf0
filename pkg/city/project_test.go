package city

import (
	"errors"
	"testing"

	"github.com/ChicagoDave/gnosis/pkg/spec"
	"github.com/ChicagoDave/gnosis/pkg/validation"
)

func testProject() *spec.Project {
	a := defaultConfig()
	a.Name = "a"
	b := defaultConfig()
	b.Name = "b"
	return &spec.Project{Title: "test", InitialCity: "a", Cities: []spec.CityConfig{a, b}}
}

func hasPath(results []validation.Result, path string) bool {
	for _, r := range results {
		if r.Path == path {
			return true
		}
	}
	return false
}

func TestValidateProjectValid(t *testing.T) {
	r := ValidateProject(testProject(), nil)
	if !r.Valid {
		t.Errorf("expected valid project, got %+v", r.Errors)
	}
}

func TestValidateProjectPrefixesPaths(t *testing.T) {
	p := testProject()
	p.Cities[1].Buildings.MinWidth = 0

	r := ValidateProject(p, nil)
	if r.Valid {
		t.Fatal("expected invalid project")
	}
	if !hasPath(r.Errors, "cities.b.buildings.min_width") {
		t.Errorf("missing prefixed error, got %+v", r.Errors)
	}
	if hasPath(r.Errors, "cities.a.buildings.min_width") {
		t.Error("valid city a reported an error")
	}
}

func TestValidateProjectStructure(t *testing.T) {
	p := testProject()
	p.InitialCity = "nowhere"
	p.Cities[1].Name = "a"

	r := ValidateProject(p, nil)
	if !hasPath(r.Errors, "initial_city") {
		t.Errorf("missing initial_city error: %+v", r.Errors)
	}
	if !hasPath(r.Errors, "cities") {
		t.Errorf("missing duplicate name error: %+v", r.Errors)
	}

	if r := ValidateProject(&spec.Project{}, nil); r.Valid {
		t.Error("empty project should be invalid")
	}
}

func TestValidateProjectUsesBuildFunc(t *testing.T) {
	calls := 0
	build := func(cfg spec.CityConfig) (*Layout, error) {
		calls++
		return nil, errors.New("boom")
	}
	r := ValidateProject(testProject(), build)
	if calls != 2 {
		t.Errorf("build calls = %d, want 2", calls)
	}
	if !hasPath(r.Errors, "cities.a.layout") {
		t.Errorf("build failure not reported: %+v", r.Errors)
	}
}
