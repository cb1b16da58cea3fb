package config

import (
	"os"
	"reflect"
	"testing"
)

func setEnv(t *testing.T, env map[string]string) {
	t.Helper()
	for k, v := range env {
		os.Setenv(k, v)
		t.Cleanup(func(key string) func() {
			return func() { os.Unsetenv(key) }
		}(k))
	}
}

func TestLoadConfig_ReadsEnvVars(t *testing.T) {
	setEnv(t, map[string]string{
		"DB_HOST":                "localhost",
		"DB_PORT":                "5432",
		"DB_USER":                "user1",
		"DB_PASSWORD":            "pass1",
		"DB_NAME":                "school_db",
		"LOADER_EXCEL_DIR":       "/tmp/sheets",
		"LOADER_SEED":            "7",
		"LOADER_ABORT_THRESHOLD": "3",
		"LOADER_SCHOOLS":         "2",
		"LOADER_PAYSLIP_MONTHS":  "2025-01, 2025-02",
		"REQUIRE_EMPTY":          "false",
		"CASE_INSENSITIVE_KEYS":  "true",
	})

	cfg := LoadConfig()

	if cfg.DBHost != "localhost" || cfg.DBPort != "5432" || cfg.DBUser != "user1" ||
		cfg.DBPassword != "pass1" || cfg.DBName != "school_db" {
		t.Fatalf("db config not read: %+v", cfg)
	}
	if cfg.ExcelDir != "/tmp/sheets" {
		t.Fatalf("ExcelDir=%q", cfg.ExcelDir)
	}
	if cfg.Seed != 7 {
		t.Fatalf("Seed=%d want 7", cfg.Seed)
	}
	if cfg.AbortThreshold != 3 {
		t.Fatalf("AbortThreshold=%d want 3", cfg.AbortThreshold)
	}
	if cfg.Schools != 2 {
		t.Fatalf("Schools=%d want 2", cfg.Schools)
	}
	if !reflect.DeepEqual(cfg.PayslipMonths, []string{"2025-01", "2025-02"}) {
		t.Fatalf("PayslipMonths=%v", cfg.PayslipMonths)
	}
	if cfg.RequireEmpty {
		t.Fatalf("RequireEmpty should be false")
	}
	if !cfg.CaseInsensitiveKeys {
		t.Fatalf("CaseInsensitiveKeys should be true")
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	for _, k := range []string{
		"LOADER_EXCEL_DIR", "LOADER_SEED", "LOADER_ABORT_THRESHOLD",
		"LOADER_SCHOOLS", "LOADER_GRADES_PER_SCHOOL", "LOADER_SECTIONS_PER_GRADE",
		"LOADER_STUDENTS_PER_SECTION", "LOADER_TEACHERS", "LOADER_PAYSLIP_MONTHS",
		"LOADER_ATTENDANCE_TARGET", "REQUIRE_EMPTY", "CASE_INSENSITIVE_KEYS",
	} {
		os.Unsetenv(k)
	}

	cfg := LoadConfig()

	if cfg.ExcelDir != "sample_excels" {
		t.Fatalf("ExcelDir default=%q", cfg.ExcelDir)
	}
	if cfg.Seed != 42 {
		t.Fatalf("Seed default=%d", cfg.Seed)
	}
	if cfg.Schools != 1 || cfg.GradesPerSchool != 3 || cfg.SectionsPerGrade != 2 ||
		cfg.StudentsPerSection != 10 || cfg.Teachers != 8 {
		t.Fatalf("cardinality defaults wrong: %+v", cfg)
	}
	if cfg.AttendanceTarget != 0.80 {
		t.Fatalf("AttendanceTarget default=%v", cfg.AttendanceTarget)
	}
	if !reflect.DeepEqual(cfg.PayslipMonths, []string{"2025-06", "2025-07"}) {
		t.Fatalf("PayslipMonths default=%v", cfg.PayslipMonths)
	}
	if !cfg.RequireEmpty {
		t.Fatalf("RequireEmpty should default to true")
	}
	if cfg.CaseInsensitiveKeys {
		t.Fatalf("CaseInsensitiveKeys should default to false")
	}
}

func TestLoadConfig_BadNumbersFallBack(t *testing.T) {
	setEnv(t, map[string]string{
		"LOADER_SEED":            "not-a-number",
		"LOADER_ABORT_THRESHOLD": "??",
	})

	cfg := LoadConfig()

	if cfg.Seed != 42 {
		t.Fatalf("Seed=%d want default 42", cfg.Seed)
	}
	if cfg.AbortThreshold != 25 {
		t.Fatalf("AbortThreshold=%d want default 25", cfg.AbortThreshold)
	}
}

func TestDSN(t *testing.T) {
	cfg := Config{DBHost: "h", DBPort: "5432", DBUser: "u", DBPassword: "p", DBName: "d"}
	want := "host=h user=u password=p dbname=d port=5432 sslmode=disable"
	if got := cfg.DSN(); got != want {
		t.Fatalf("DSN=%q want %q", got, want)
	}
}
