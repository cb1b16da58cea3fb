package schema

import (
	"github.com/rajmukherjee207/SQL-Student-Loader/internal/refcache"
	"github.com/rajmukherjee207/SQL-Student-Loader/internal/sheet"
)

// Sheet base names, one workbook per entity type. school_income has no
// sheet: its rows derive from the fee payments inserted in the same run.
const (
	SheetSchools           = "schools"
	SheetGrades            = "grades"
	SheetSections          = "sections"
	SheetSubjects          = "subjects"
	SheetTeachers          = "teachers"
	SheetTeacherSectionMap = "teacher_section_map"
	SheetStudents          = "students"
	SheetAttendance        = "attendance"
	SheetClassDiary        = "class_diary"
	SheetHomework          = "homework"
	SheetTimetable         = "timetable"
	SheetFees              = "fees"
	SheetFeePayments       = "fee_payments"
	SheetSalaryStructure   = "teacher_salary_structure"
	SheetPayslips          = "teacher_payslips"
)

// SheetOrder is the dependency order sheets are generated and loaded in.
var SheetOrder = []string{
	SheetSchools, SheetGrades, SheetSections, SheetSubjects, SheetTeachers,
	SheetTeacherSectionMap, SheetStudents, SheetAttendance, SheetClassDiary,
	SheetHomework, SheetTimetable, SheetFees, SheetFeePayments,
	SheetSalaryStructure, SheetPayslips,
}

// Contracts fixes the column-name contract of every input sheet. References
// are carried as natural names (school_name, grade_name, ...) and resolved
// to surrogate ids during the run.
var Contracts = map[string]sheet.Contract{
	SheetSchools: {Sheet: SheetSchools, Columns: []sheet.Column{
		{Name: "name"},
		{Name: "type", Optional: true},
		{Name: "contact_details", Optional: true},
		{Name: "location", Optional: true},
	}},
	SheetGrades: {Sheet: SheetGrades, Columns: []sheet.Column{
		{Name: "school_name"},
		{Name: "grade_name"},
		{Name: "display_order", Type: sheet.TypeInt, Optional: true},
	}},
	SheetSections: {Sheet: SheetSections, Columns: []sheet.Column{
		{Name: "school_name"},
		{Name: "grade_name"},
		{Name: "section_name"},
	}},
	SheetSubjects: {Sheet: SheetSubjects, Columns: []sheet.Column{
		{Name: "school_name"},
		{Name: "subject_name"},
	}},
	SheetTeachers: {Sheet: SheetTeachers, Columns: []sheet.Column{
		{Name: "school_name"},
		{Name: "name"},
		{Name: "contact_info", Optional: true},
		{Name: "gender", Optional: true},
		{Name: "qualification", Optional: true},
	}},
	SheetTeacherSectionMap: {Sheet: SheetTeacherSectionMap, Columns: []sheet.Column{
		{Name: "school_name"},
		{Name: "teacher_name"},
		{Name: "grade_name"},
		{Name: "section_name"},
		{Name: "subject_name"},
	}},
	SheetStudents: {Sheet: SheetStudents, Columns: []sheet.Column{
		{Name: "school_name"},
		{Name: "name"},
		{Name: "date_of_birth", Type: sheet.TypeDate, Optional: true},
		{Name: "gender", Optional: true},
		{Name: "grade_name"},
		{Name: "section_name"},
		{Name: "academic_year"},
	}},
	SheetAttendance: {Sheet: SheetAttendance, Columns: []sheet.Column{
		{Name: "school_name"},
		{Name: "student_name"},
		{Name: "attendance_date", Type: sheet.TypeDate},
		{Name: "status"},
		{Name: "remarks", Optional: true},
	}},
	SheetClassDiary: {Sheet: SheetClassDiary, Columns: []sheet.Column{
		{Name: "school_name"},
		{Name: "grade_name"},
		{Name: "section_name"},
		{Name: "subject_name"},
		{Name: "teacher_name"},
		{Name: "diary_date", Type: sheet.TypeDate},
		{Name: "activity", Optional: true},
	}},
	SheetHomework: {Sheet: SheetHomework, Columns: []sheet.Column{
		{Name: "school_name"},
		{Name: "grade_name"},
		{Name: "section_name"},
		{Name: "subject_name"},
		{Name: "teacher_name"},
		{Name: "homework_date", Type: sheet.TypeDate},
		{Name: "status"},
		{Name: "description", Optional: true},
	}},
	SheetTimetable: {Sheet: SheetTimetable, Columns: []sheet.Column{
		{Name: "school_name"},
		{Name: "grade_name"},
		{Name: "section_name"},
		{Name: "subject_name", Optional: true},
		{Name: "teacher_name", Optional: true},
		{Name: "day_of_week"},
		{Name: "period_number", Type: sheet.TypeInt},
		{Name: "period_type"},
	}},
	SheetFees: {Sheet: SheetFees, Columns: []sheet.Column{
		{Name: "school_name"},
		{Name: "student_name"},
		{Name: "fee_amount", Type: sheet.TypeFloat},
	}},
	SheetFeePayments: {Sheet: SheetFeePayments, Columns: []sheet.Column{
		{Name: "school_name"},
		{Name: "student_name"},
		{Name: "amount_paid", Type: sheet.TypeFloat},
		{Name: "payment_date", Type: sheet.TypeDate},
		{Name: "payment_method", Optional: true},
	}},
	SheetSalaryStructure: {Sheet: SheetSalaryStructure, Columns: []sheet.Column{
		{Name: "school_name"},
		{Name: "teacher_name"},
		{Name: "basic_pay", Type: sheet.TypeFloat},
		{Name: "hra", Type: sheet.TypeFloat, Optional: true},
		{Name: "other_allowances", Type: sheet.TypeFloat, Optional: true},
	}},
	SheetPayslips: {Sheet: SheetPayslips, Columns: []sheet.Column{
		{Name: "school_name"},
		{Name: "teacher_name"},
		{Name: "month_year"},
		{Name: "gross_salary", Type: sheet.TypeFloat},
		{Name: "deductions", Type: sheet.TypeFloat, Optional: true},
	}},
}

type Range struct {
	Min float64
	Max float64 // 0 means no upper bound
}

// TableSpec drives the pre-insert integrity checks for one target table.
type TableSpec struct {
	NotNull []string
	Enums   map[string][]string
	Refs    map[string]refcache.Entity
	Ranges  map[string]Range
}

var (
	attendanceStatuses = []string{"Present", "Absent", "Late"}
	homeworkStatuses   = []string{"Pending", "Submitted", "Completed"}
	periodTypes        = []string{"Class", "Break", "Free"}
	weekdays           = []string{
		"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
	}
)

var Specs = map[string]TableSpec{
	"ss_t_schools": {
		NotNull: []string{"name"},
	},
	"ss_t_grade": {
		NotNull: []string{"school_id", "grade_name"},
		Refs:    map[string]refcache.Entity{"school_id": refcache.School},
		Ranges:  map[string]Range{"display_order": {Min: 0}},
	},
	"ss_t_section": {
		NotNull: []string{"grade_id", "section_name"},
		Refs:    map[string]refcache.Entity{"grade_id": refcache.Grade},
	},
	"ss_t_subject": {
		NotNull: []string{"school_id", "subject_name"},
		Refs:    map[string]refcache.Entity{"school_id": refcache.School},
	},
	"ss_t_teacher": {
		NotNull: []string{"school_id", "name"},
		Refs:    map[string]refcache.Entity{"school_id": refcache.School},
	},
	"ss_t_teacher_section_map": {
		NotNull: []string{"teacher_id", "grade_id", "section_id", "subject_id"},
		Refs: map[string]refcache.Entity{
			"teacher_id": refcache.Teacher,
			"grade_id":   refcache.Grade,
			"section_id": refcache.Section,
			"subject_id": refcache.Subject,
		},
	},
	"ss_t_student": {
		NotNull: []string{"school_id", "name"},
		Refs:    map[string]refcache.Entity{"school_id": refcache.School},
	},
	"ss_t_student_academic_map": {
		NotNull: []string{"student_id", "grade_id", "section_id", "academic_year"},
		Refs: map[string]refcache.Entity{
			"student_id": refcache.Student,
			"grade_id":   refcache.Grade,
			"section_id": refcache.Section,
		},
	},
	"ss_t_attendance_register": {
		NotNull: []string{"student_id", "attendance_date", "status"},
		Refs:    map[string]refcache.Entity{"student_id": refcache.Student},
		Enums:   map[string][]string{"status": attendanceStatuses},
	},
	"ss_t_class_diary": {
		NotNull: []string{"grade_id", "section_id", "subject_id", "teacher_id", "diary_date"},
		Refs: map[string]refcache.Entity{
			"grade_id":   refcache.Grade,
			"section_id": refcache.Section,
			"subject_id": refcache.Subject,
			"teacher_id": refcache.Teacher,
		},
	},
	"ss_t_homework_details": {
		NotNull: []string{
			"school_id", "grade_id", "section_id", "subject_id", "teacher_id",
			"homework_date", "status",
		},
		Refs: map[string]refcache.Entity{
			"school_id":  refcache.School,
			"grade_id":   refcache.Grade,
			"section_id": refcache.Section,
			"subject_id": refcache.Subject,
			"teacher_id": refcache.Teacher,
		},
		Enums: map[string][]string{"status": homeworkStatuses},
	},
	"ss_t_class_timetable": {
		NotNull: []string{
			"school_id", "grade_id", "section_id", "day_of_week",
			"period_number", "period_type",
		},
		Refs: map[string]refcache.Entity{
			"school_id":  refcache.School,
			"grade_id":   refcache.Grade,
			"section_id": refcache.Section,
			"subject_id": refcache.Subject,
			"teacher_id": refcache.Teacher,
		},
		Enums: map[string][]string{
			"day_of_week": weekdays,
			"period_type": periodTypes,
		},
		Ranges: map[string]Range{"period_number": {Min: 1, Max: 12}},
	},
	"ss_t_student_fee_structure": {
		NotNull: []string{"student_id", "fee_amount"},
		Refs:    map[string]refcache.Entity{"student_id": refcache.Student},
		Ranges:  map[string]Range{"fee_amount": {Min: 0}},
	},
	"ss_t_fee_payment_installment": {
		NotNull: []string{"student_id", "fee_structure_id", "amount_paid", "payment_date"},
		Refs: map[string]refcache.Entity{
			"student_id":       refcache.Student,
			"fee_structure_id": refcache.FeeStructure,
		},
		Ranges: map[string]Range{"amount_paid": {Min: 0}},
	},
	"ss_t_school_income": {
		NotNull: []string{"fee_payment_id"},
		Refs:    map[string]refcache.Entity{"fee_payment_id": refcache.FeePayment},
	},
	"ss_t_teacher_salary_structure": {
		NotNull: []string{"teacher_id", "basic_pay"},
		Refs:    map[string]refcache.Entity{"teacher_id": refcache.Teacher},
		Ranges: map[string]Range{
			"basic_pay": {Min: 0},
			"hra":       {Min: 0},
		},
	},
	"ss_t_teacher_salary_payslip": {
		NotNull: []string{"teacher_id", "month_year", "gross_salary", "net_salary"},
		Refs:    map[string]refcache.Entity{"teacher_id": refcache.Teacher},
		Ranges: map[string]Range{
			"gross_salary": {Min: 0},
			"deductions":   {Min: 0},
			"net_salary":   {Min: 0},
		},
	},
}
