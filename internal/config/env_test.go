package config

import (
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
)

type envTarget struct {
	Name    string        `env:"NAME"`
	Count   int32         `env:"COUNT"`
	Enabled bool          `env:"ENABLED"`
	Wait    time.Duration `env:"WAIT"`
	Hosts   []string      `env:"HOSTS"`
	Nested  struct {
		Level string `env:"NESTED_LEVEL"`
		Plain string
	}
}

func mapLookup(m map[string]string) LookupFunc {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestApplyEnv(t *testing.T) {
	c := qt.New(t)

	target := envTarget{Name: "keep", Count: 1}
	target.Nested.Plain = "untouched"
	err := applyEnv(&target, mapLookup(map[string]string{
		"COUNT":        " 42 ",
		"ENABLED":      "true",
		"WAIT":         "1m30s",
		"HOSTS":        "a.example, ,b.example",
		"NESTED_LEVEL": "debug",
	}))
	c.Assert(err, qt.IsNil)
	c.Assert(target.Name, qt.Equals, "keep")
	c.Assert(target.Count, qt.Equals, int32(42))
	c.Assert(target.Enabled, qt.IsTrue)
	c.Assert(target.Wait, qt.Equals, 90*time.Second)
	c.Assert(target.Hosts, qt.DeepEquals, []string{"a.example", "b.example"})
	c.Assert(target.Nested.Level, qt.Equals, "debug")
	c.Assert(target.Nested.Plain, qt.Equals, "untouched")
}

func TestApplyEnvErrors(t *testing.T) {
	c := qt.New(t)

	var target envTarget
	c.Assert(applyEnv(target, mapLookup(nil)), qt.ErrorMatches, `env target must be a struct pointer, got config.envTarget`)
	c.Assert(applyEnv(&target, mapLookup(map[string]string{"COUNT": "99999999999"})), qt.ErrorMatches, `COUNT \(Count\): .*value out of range`)
	c.Assert(applyEnv(&target, mapLookup(map[string]string{"WAIT": "soon"})), qt.ErrorMatches, `WAIT \(Wait\): .*invalid duration.*`)
	c.Assert(applyEnv(&target, mapLookup(map[string]string{"NESTED_LEVEL": "x", "ENABLED": "maybe"})), qt.ErrorMatches, `ENABLED \(Enabled\): .*invalid syntax`)
}
