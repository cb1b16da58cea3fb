package config

import (
	"os"
	"strconv"
	"strings"
)

type Config struct {
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// ExcelDir is where input workbooks live; missing workbooks are
	// substituted with synthesized data.
	ExcelDir string

	// ExportDir, when non-empty, receives sample template workbooks
	// generated from the synthesizer before the run starts.
	ExportDir string

	// Seed drives every random choice the synthesizer makes, so a given
	// seed always produces the same rows. Default 42.
	Seed int64

	// AbortThreshold is the number of skipped rows a single stage may
	// accumulate before the whole run fails with a stage abort.
	AbortThreshold int

	// RequireEmpty fails the run up front if the target schools table
	// already holds rows. Turning it off re-inserts fresh rows on every
	// run and accepts duplicate natural keys across runs.
	RequireEmpty bool

	// CaseInsensitiveKeys lower-folds natural-key components before
	// cache lookups.
	CaseInsensitiveKeys bool

	// Synthesized-data cardinalities.
	Schools            int
	GradesPerSchool    int
	SectionsPerGrade   int
	StudentsPerSection int
	Teachers           int
	SectionsPerTeacher int
	AttendanceDays     int
	AttendanceTarget   float64
	DiaryPerTeacher    int
	PayslipMonths      []string
	FeeAmount          float64
	PaymentAmount      float64
	BasicPay           float64
	HRA                float64
	OtherAllowances    float64
	Deductions         float64
	AcademicYear       string
}

func LoadConfig() Config {
	return Config{
		DBHost:     os.Getenv("DB_HOST"),
		DBPort:     os.Getenv("DB_PORT"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),

		ExcelDir:  getString("LOADER_EXCEL_DIR", "sample_excels"),
		ExportDir: os.Getenv("LOADER_EXPORT_DIR"),

		Seed:                getInt64("LOADER_SEED", 42),
		AbortThreshold:      getInt("LOADER_ABORT_THRESHOLD", 25),
		RequireEmpty:        getBool("REQUIRE_EMPTY", true),
		CaseInsensitiveKeys: getBool("CASE_INSENSITIVE_KEYS", false),

		Schools:            getInt("LOADER_SCHOOLS", 1),
		GradesPerSchool:    getInt("LOADER_GRADES_PER_SCHOOL", 3),
		SectionsPerGrade:   getInt("LOADER_SECTIONS_PER_GRADE", 2),
		StudentsPerSection: getInt("LOADER_STUDENTS_PER_SECTION", 10),
		Teachers:           getInt("LOADER_TEACHERS", 8),
		SectionsPerTeacher: getInt("LOADER_SECTIONS_PER_TEACHER", 2),
		AttendanceDays:     getInt("LOADER_ATTENDANCE_DAYS", 20),
		AttendanceTarget:   getFloat("LOADER_ATTENDANCE_TARGET", 0.80),
		DiaryPerTeacher:    getInt("LOADER_DIARY_PER_TEACHER", 2),
		PayslipMonths:      getList("LOADER_PAYSLIP_MONTHS", []string{"2025-06", "2025-07"}),
		FeeAmount:          getFloat("LOADER_FEE_AMOUNT", 1000),
		PaymentAmount:      getFloat("LOADER_PAYMENT_AMOUNT", 500),
		BasicPay:           getFloat("LOADER_BASIC_PAY", 30000),
		HRA:                getFloat("LOADER_HRA", 5000),
		OtherAllowances:    getFloat("LOADER_OTHER_ALLOWANCES", 2000),
		Deductions:         getFloat("LOADER_DEDUCTIONS", 1000),
		AcademicYear:       getString("LOADER_ACADEMIC_YEAR", "2024-25"),
	}
}

// DSN assembles the Postgres connection string the way the server does.
func (c Config) DSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=disable"
}

func getString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getInt64(key string, def int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return def
}

func getFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func getList(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
