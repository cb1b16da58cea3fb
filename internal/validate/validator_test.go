package validate

import (
	"testing"
	"time"

	"github.com/rajmukherjee207/SQL-Student-Loader/internal/refcache"
	"github.com/rajmukherjee207/SQL-Student-Loader/internal/schema"
)

func seededCache(t *testing.T) *refcache.Cache {
	t.Helper()
	c := refcache.New(false)
	must := func(err error) {
		if err != nil {
			t.Fatalf("seed cache: %v", err)
		}
	}
	must(c.Register(refcache.School, "Demo", 1))
	must(c.Register(refcache.Grade, refcache.Key("1", "Grade 6"), 1))
	must(c.Register(refcache.Section, refcache.Key("1", "A"), 1))
	must(c.Register(refcache.Subject, refcache.Key("1", "Math"), 1))
	must(c.Register(refcache.Teacher, refcache.Key("1", "Teacher 01"), 1))
	must(c.Register(refcache.Student, refcache.Key("1", "Student 001"), 1))
	return c
}

func TestCheck_Valid(t *testing.T) {
	cache := seededCache(t)
	res := Check(schema.Specs["ss_t_homework_details"], map[string]any{
		"school_id":     uint(1),
		"grade_id":      uint(1),
		"section_id":    uint(1),
		"subject_id":    uint(1),
		"teacher_id":    uint(1),
		"homework_date": time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
		"status":        "Pending",
	}, cache)
	if !res.OK {
		t.Fatalf("want valid, got %+v", res)
	}
}

func TestCheck_MissingRequired(t *testing.T) {
	cache := seededCache(t)
	cases := []struct {
		name   string
		fields map[string]any
		field  string
	}{
		{"empty string", map[string]any{"name": "", "school_id": uint(1)}, "name"},
		{"zero id", map[string]any{"name": "T", "school_id": uint(0)}, "school_id"},
		{"absent key", map[string]any{"school_id": uint(1)}, "name"},
	}
	for _, tc := range cases {
		res := Check(schema.Specs["ss_t_teacher"], tc.fields, cache)
		if res.OK || res.Code != CodeMissingRequired || res.Field != tc.field {
			t.Fatalf("%s: got %+v", tc.name, res)
		}
	}
}

func TestCheck_BadReference(t *testing.T) {
	cache := seededCache(t)
	res := Check(schema.Specs["ss_t_section"], map[string]any{
		"grade_id":     uint(99),
		"section_name": "A",
	}, cache)
	if res.OK || res.Code != CodeBadReference || res.Field != "grade_id" {
		t.Fatalf("got %+v", res)
	}
}

func TestCheck_OptionalReferenceUnset(t *testing.T) {
	cache := seededCache(t)
	res := Check(schema.Specs["ss_t_class_timetable"], map[string]any{
		"school_id":     uint(1),
		"grade_id":      uint(1),
		"section_id":    uint(1),
		"subject_id":    (*uint)(nil),
		"teacher_id":    (*uint)(nil),
		"day_of_week":   "Monday",
		"period_number": 3,
		"period_type":   "Break",
	}, cache)
	if !res.OK {
		t.Fatalf("break period without subject/teacher must pass, got %+v", res)
	}
}

func TestCheck_BadEnum(t *testing.T) {
	cache := seededCache(t)
	res := Check(schema.Specs["ss_t_attendance_register"], map[string]any{
		"student_id":      uint(1),
		"attendance_date": time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
		"status":          "Vanished",
	}, cache)
	if res.OK || res.Code != CodeBadEnum || res.Field != "status" {
		t.Fatalf("got %+v", res)
	}
}

func TestCheck_OutOfRange(t *testing.T) {
	cache := seededCache(t)

	res := Check(schema.Specs["ss_t_student_fee_structure"], map[string]any{
		"student_id": uint(1),
		"fee_amount": -10.0,
	}, cache)
	if res.OK || res.Code != CodeOutOfRange || res.Field != "fee_amount" {
		t.Fatalf("negative amount: got %+v", res)
	}

	sub := uint(1)
	res = Check(schema.Specs["ss_t_class_timetable"], map[string]any{
		"school_id":     uint(1),
		"grade_id":      uint(1),
		"section_id":    uint(1),
		"subject_id":    &sub,
		"teacher_id":    &sub,
		"day_of_week":   "Monday",
		"period_number": 13,
		"period_type":   "Class",
	}, cache)
	if res.OK || res.Code != CodeOutOfRange || res.Field != "period_number" {
		t.Fatalf("period 13: got %+v", res)
	}
}
