package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_FlagOverrides(t *testing.T) {
	cfg := Load(Flags{Course: "RH124", Workers: 8, Cycles: 2, CacheDir: "/tmp/cache", MaxAge: time.Hour})

	if cfg.CourseCode != "RH124" {
		t.Errorf("CourseCode = %q, want RH124", cfg.CourseCode)
	}
	if cfg.Workers != 8 {
		t.Errorf("Workers = %d, want 8", cfg.Workers)
	}
	if cfg.IdempotencyCycles != 2 {
		t.Errorf("IdempotencyCycles = %d, want 2", cfg.IdempotencyCycles)
	}
	if cfg.CacheDir != "/tmp/cache" {
		t.Errorf("CacheDir = %q", cfg.CacheDir)
	}
	if cfg.CacheMaxAge != time.Hour {
		t.Errorf("CacheMaxAge = %v, want 1h", cfg.CacheMaxAge)
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg := Load(Flags{})

	if cfg.Workers != DefaultWorkers {
		t.Errorf("Workers = %d, want default %d", cfg.Workers, DefaultWorkers)
	}
	if cfg.IdempotencyCycles != DefaultIdempotencyCycles {
		t.Errorf("IdempotencyCycles = %d, want default %d", cfg.IdempotencyCycles, DefaultIdempotencyCycles)
	}
	if cfg.CommandTimeout != DefaultCommandTimeout {
		t.Errorf("CommandTimeout = %v, want default %v", cfg.CommandTimeout, DefaultCommandTimeout)
	}
	if cfg.RemoteUser != DefaultRemoteUser {
		t.Errorf("RemoteUser = %q, want default %q", cfg.RemoteUser, DefaultRemoteUser)
	}
}

func TestResolveMaterials(t *testing.T) {
	dir := t.TempDir()
	coursesPath := filepath.Join(dir, "courses.yaml")
	content := "courses:\n  RH124: /materials/rh124\n  DO180: /materials/do180\n"
	if err := os.WriteFile(coursesPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	t.Run("explicit materials root wins", func(t *testing.T) {
		cfg := &Config{MaterialsRoot: "/explicit", CourseCode: "RH124", CoursesFile: coursesPath}
		root, err := cfg.ResolveMaterials()
		if err != nil {
			t.Fatalf("ResolveMaterials() error = %v", err)
		}
		if root != "/explicit" {
			t.Errorf("root = %q, want /explicit", root)
		}
	})

	t.Run("course code resolves through mapping", func(t *testing.T) {
		cfg := &Config{CourseCode: "DO180", CoursesFile: coursesPath}
		root, err := cfg.ResolveMaterials()
		if err != nil {
			t.Fatalf("ResolveMaterials() error = %v", err)
		}
		if root != "/materials/do180" {
			t.Errorf("root = %q, want /materials/do180", root)
		}
	})

	t.Run("unknown course is an error", func(t *testing.T) {
		cfg := &Config{CourseCode: "NOPE", CoursesFile: coursesPath}
		if _, err := cfg.ResolveMaterials(); err == nil {
			t.Error("expected an error for an unmapped course")
		}
	})

	t.Run("missing courses file is an error", func(t *testing.T) {
		cfg := &Config{CourseCode: "RH124", CoursesFile: filepath.Join(dir, "absent.yaml")}
		if _, err := cfg.ResolveMaterials(); err == nil {
			t.Error("expected an error for a missing courses file")
		}
	})

	t.Run("neither course nor materials is an error", func(t *testing.T) {
		cfg := &Config{CoursesFile: coursesPath}
		if _, err := cfg.ResolveMaterials(); err == nil {
			t.Error("expected an error when nothing identifies the course")
		}
	})
}

func TestLoadCourses_EmptyMapping(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "courses.yaml")
	if err := os.WriteFile(path, []byte("courses: {}\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadCourses(path); err == nil {
		t.Error("expected an error for an empty mapping")
	}
}

func TestGetRunPath(t *testing.T) {
	cfg := &Config{OutputDir: "/out", ResultsFile: "latest.json"}
	if got := cfg.GetRunPath("abc123"); got != "/out/run-abc123.json" {
		t.Errorf("GetRunPath() = %q", got)
	}
	if got := cfg.GetResultsPath(); got != "/out/latest.json" {
		t.Errorf("GetResultsPath() = %q", got)
	}
}
