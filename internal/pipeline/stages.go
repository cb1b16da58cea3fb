package pipeline

import (
	"strconv"

	"github.com/rajmukherjee207/SQL-Student-Loader/internal/refcache"
	"github.com/rajmukherjee207/SQL-Student-Loader/internal/schema"
	"github.com/rajmukherjee207/SQL-Student-Loader/internal/sheet"
)

// A stage turns one sheet's records into rows for one table. Stages run in
// dependency order: a stage only resolves surrogate ids registered by
// earlier stages. build resolves references and constructs the row; key
// yields the row's own natural key, checked before the insert so a second
// definition for a bound key never reaches the store; register covers the
// stages with bookkeeping beyond a plain key binding.
type stage struct {
	name      string
	sheetName string // "" for derived stages with no source sheet
	table     string
	build     func(p *Pipeline, rec sheet.Record) (schema.Row, error)
	key       func(p *Pipeline, rec sheet.Record) (refcache.Entity, string, error)
	register  func(p *Pipeline, rec sheet.Record, id uint) error
	derive    func(p *Pipeline) []schema.Row
}

func utoa(id uint) string { return strconv.FormatUint(uint64(id), 10) }

func (p *Pipeline) school(rec sheet.Record) (uint, error) {
	return p.cache.Resolve(refcache.School, rec.Get("school_name").S())
}

func (p *Pipeline) grade(schoolID uint, name string) (uint, error) {
	return p.cache.Resolve(refcache.Grade, refcache.Key(utoa(schoolID), name))
}

func (p *Pipeline) section(gradeID uint, name string) (uint, error) {
	return p.cache.Resolve(refcache.Section, refcache.Key(utoa(gradeID), name))
}

func (p *Pipeline) subject(schoolID uint, name string) (uint, error) {
	return p.cache.Resolve(refcache.Subject, refcache.Key(utoa(schoolID), name))
}

func (p *Pipeline) teacher(schoolID uint, name string) (uint, error) {
	return p.cache.Resolve(refcache.Teacher, refcache.Key(utoa(schoolID), name))
}

func (p *Pipeline) student(schoolID uint, name string) (uint, error) {
	return p.cache.Resolve(refcache.Student, refcache.Key(utoa(schoolID), name))
}

// gradeSection resolves the grade and section named by the usual column
// pair, scoped to the record's school.
func (p *Pipeline) gradeSection(rec sheet.Record, schoolID uint) (uint, uint, error) {
	gradeID, err := p.grade(schoolID, rec.Get("grade_name").S())
	if err != nil {
		return 0, 0, err
	}
	sectionID, err := p.section(gradeID, rec.Get("section_name").S())
	if err != nil {
		return 0, 0, err
	}
	return gradeID, sectionID, nil
}

func stages() []stage {
	return []stage{
		{
			name:      "schools",
			sheetName: schema.SheetSchools,
			table:     "ss_t_schools",
			build: func(p *Pipeline, rec sheet.Record) (schema.Row, error) {
				return &schema.School{
					Name:           rec.Get("name").S(),
					Type:           rec.Get("type").S(),
					ContactDetails: rec.Get("contact_details").S(),
					Location:       rec.Get("location").S(),
				}, nil
			},
			key: func(p *Pipeline, rec sheet.Record) (refcache.Entity, string, error) {
				return refcache.School, rec.Get("name").S(), nil
			},
		},
		{
			name:      "grades",
			sheetName: schema.SheetGrades,
			table:     "ss_t_grade",
			build: func(p *Pipeline, rec sheet.Record) (schema.Row, error) {
				schoolID, err := p.school(rec)
				if err != nil {
					return nil, err
				}
				return &schema.Grade{
					SchoolID:     schoolID,
					GradeName:    rec.Get("grade_name").S(),
					DisplayOrder: int(rec.Get("display_order").I()),
					IsActive:     true,
				}, nil
			},
			key: func(p *Pipeline, rec sheet.Record) (refcache.Entity, string, error) {
				schoolID, err := p.school(rec)
				if err != nil {
					return "", "", err
				}
				return refcache.Grade, refcache.Key(utoa(schoolID), rec.Get("grade_name").S()), nil
			},
		},
		{
			name:      "sections",
			sheetName: schema.SheetSections,
			table:     "ss_t_section",
			build: func(p *Pipeline, rec sheet.Record) (schema.Row, error) {
				schoolID, err := p.school(rec)
				if err != nil {
					return nil, err
				}
				gradeID, err := p.grade(schoolID, rec.Get("grade_name").S())
				if err != nil {
					return nil, err
				}
				return &schema.Section{
					GradeID:     gradeID,
					SectionName: rec.Get("section_name").S(),
				}, nil
			},
			key: func(p *Pipeline, rec sheet.Record) (refcache.Entity, string, error) {
				schoolID, err := p.school(rec)
				if err != nil {
					return "", "", err
				}
				gradeID, err := p.grade(schoolID, rec.Get("grade_name").S())
				if err != nil {
					return "", "", err
				}
				return refcache.Section, refcache.Key(utoa(gradeID), rec.Get("section_name").S()), nil
			},
		},
		{
			name:      "subjects",
			sheetName: schema.SheetSubjects,
			table:     "ss_t_subject",
			build: func(p *Pipeline, rec sheet.Record) (schema.Row, error) {
				schoolID, err := p.school(rec)
				if err != nil {
					return nil, err
				}
				return &schema.Subject{
					SchoolID:    schoolID,
					SubjectName: rec.Get("subject_name").S(),
				}, nil
			},
			key: func(p *Pipeline, rec sheet.Record) (refcache.Entity, string, error) {
				schoolID, err := p.school(rec)
				if err != nil {
					return "", "", err
				}
				return refcache.Subject, refcache.Key(utoa(schoolID), rec.Get("subject_name").S()), nil
			},
		},
		{
			name:      "teachers",
			sheetName: schema.SheetTeachers,
			table:     "ss_t_teacher",
			build: func(p *Pipeline, rec sheet.Record) (schema.Row, error) {
				schoolID, err := p.school(rec)
				if err != nil {
					return nil, err
				}
				return &schema.Teacher{
					SchoolID:      schoolID,
					Name:          rec.Get("name").S(),
					ContactInfo:   rec.Get("contact_info").S(),
					Gender:        rec.Get("gender").S(),
					Qualification: rec.Get("qualification").S(),
				}, nil
			},
			key: func(p *Pipeline, rec sheet.Record) (refcache.Entity, string, error) {
				schoolID, err := p.school(rec)
				if err != nil {
					return "", "", err
				}
				return refcache.Teacher, refcache.Key(utoa(schoolID), rec.Get("name").S()), nil
			},
		},
		{
			name:      "teacher_section_map",
			sheetName: schema.SheetTeacherSectionMap,
			table:     "ss_t_teacher_section_map",
			build: func(p *Pipeline, rec sheet.Record) (schema.Row, error) {
				schoolID, err := p.school(rec)
				if err != nil {
					return nil, err
				}
				teacherID, err := p.teacher(schoolID, rec.Get("teacher_name").S())
				if err != nil {
					return nil, err
				}
				gradeID, sectionID, err := p.gradeSection(rec, schoolID)
				if err != nil {
					return nil, err
				}
				subjectID, err := p.subject(schoolID, rec.Get("subject_name").S())
				if err != nil {
					return nil, err
				}
				return &schema.TeacherSectionMap{
					TeacherID: teacherID,
					GradeID:   gradeID,
					SectionID: sectionID,
					SubjectID: subjectID,
				}, nil
			},
		},
		{
			name:      "students",
			sheetName: schema.SheetStudents,
			table:     "ss_t_student",
			build: func(p *Pipeline, rec sheet.Record) (schema.Row, error) {
				schoolID, err := p.school(rec)
				if err != nil {
					return nil, err
				}
				return &schema.Student{
					SchoolID: schoolID,
					Name:     rec.Get("name").S(),
					DOB:      rec.Get("date_of_birth").T(),
					Gender:   rec.Get("gender").S(),
				}, nil
			},
			key: func(p *Pipeline, rec sheet.Record) (refcache.Entity, string, error) {
				schoolID, err := p.school(rec)
				if err != nil {
					return "", "", err
				}
				return refcache.Student, refcache.Key(utoa(schoolID), rec.Get("name").S()), nil
			},
		},
		{
			// Second pass over the students sheet: one active academic
			// mapping per student and year.
			name:      "student_academic_map",
			sheetName: schema.SheetStudents,
			table:     "ss_t_student_academic_map",
			build: func(p *Pipeline, rec sheet.Record) (schema.Row, error) {
				schoolID, err := p.school(rec)
				if err != nil {
					return nil, err
				}
				studentID, err := p.student(schoolID, rec.Get("name").S())
				if err != nil {
					return nil, err
				}
				gradeID, sectionID, err := p.gradeSection(rec, schoolID)
				if err != nil {
					return nil, err
				}
				return &schema.StudentAcademicMap{
					StudentID:    studentID,
					GradeID:      gradeID,
					SectionID:    sectionID,
					AcademicYear: rec.Get("academic_year").S(),
				}, nil
			},
		},
		{
			name:      "attendance",
			sheetName: schema.SheetAttendance,
			table:     "ss_t_attendance_register",
			build: func(p *Pipeline, rec sheet.Record) (schema.Row, error) {
				schoolID, err := p.school(rec)
				if err != nil {
					return nil, err
				}
				studentID, err := p.student(schoolID, rec.Get("student_name").S())
				if err != nil {
					return nil, err
				}
				return &schema.AttendanceRecord{
					StudentID:      studentID,
					AttendanceDate: rec.Get("attendance_date").T(),
					Status:         rec.Get("status").S(),
					Remarks:        rec.Get("remarks").S(),
				}, nil
			},
		},
		{
			name:      "class_diary",
			sheetName: schema.SheetClassDiary,
			table:     "ss_t_class_diary",
			build: func(p *Pipeline, rec sheet.Record) (schema.Row, error) {
				schoolID, err := p.school(rec)
				if err != nil {
					return nil, err
				}
				gradeID, sectionID, err := p.gradeSection(rec, schoolID)
				if err != nil {
					return nil, err
				}
				subjectID, err := p.subject(schoolID, rec.Get("subject_name").S())
				if err != nil {
					return nil, err
				}
				teacherID, err := p.teacher(schoolID, rec.Get("teacher_name").S())
				if err != nil {
					return nil, err
				}
				return &schema.ClassDiaryEntry{
					GradeID:   gradeID,
					SectionID: sectionID,
					SubjectID: subjectID,
					TeacherID: teacherID,
					DiaryDate: rec.Get("diary_date").T(),
					Activity:  rec.Get("activity").S(),
				}, nil
			},
		},
		{
			name:      "homework",
			sheetName: schema.SheetHomework,
			table:     "ss_t_homework_details",
			build: func(p *Pipeline, rec sheet.Record) (schema.Row, error) {
				schoolID, err := p.school(rec)
				if err != nil {
					return nil, err
				}
				gradeID, sectionID, err := p.gradeSection(rec, schoolID)
				if err != nil {
					return nil, err
				}
				subjectID, err := p.subject(schoolID, rec.Get("subject_name").S())
				if err != nil {
					return nil, err
				}
				teacherID, err := p.teacher(schoolID, rec.Get("teacher_name").S())
				if err != nil {
					return nil, err
				}
				return &schema.HomeworkRecord{
					SchoolID:     schoolID,
					GradeID:      gradeID,
					SectionID:    sectionID,
					SubjectID:    subjectID,
					TeacherID:    teacherID,
					HomeworkDate: rec.Get("homework_date").T(),
					Status:       rec.Get("status").S(),
					Description:  rec.Get("description").S(),
				}, nil
			},
		},
		{
			name:      "timetable",
			sheetName: schema.SheetTimetable,
			table:     "ss_t_class_timetable",
			build: func(p *Pipeline, rec sheet.Record) (schema.Row, error) {
				schoolID, err := p.school(rec)
				if err != nil {
					return nil, err
				}
				gradeID, sectionID, err := p.gradeSection(rec, schoolID)
				if err != nil {
					return nil, err
				}
				slot := &schema.TimetableSlot{
					SchoolID:     schoolID,
					GradeID:      gradeID,
					SectionID:    sectionID,
					DayOfWeek:    rec.Get("day_of_week").S(),
					PeriodNumber: int(rec.Get("period_number").I()),
					PeriodType:   rec.Get("period_type").S(),
				}
				// subject and teacher are optional: a blank cell stays
				// unset (Break/Free periods), a named one must resolve
				if v := rec.Get("subject_name"); !v.Absent {
					id, err := p.subject(schoolID, v.S())
					if err != nil {
						return nil, err
					}
					slot.SubjectID = &id
				}
				if v := rec.Get("teacher_name"); !v.Absent {
					id, err := p.teacher(schoolID, v.S())
					if err != nil {
						return nil, err
					}
					slot.TeacherID = &id
				}
				return slot, nil
			},
		},
		{
			name:      "fees",
			sheetName: schema.SheetFees,
			table:     "ss_t_student_fee_structure",
			build: func(p *Pipeline, rec sheet.Record) (schema.Row, error) {
				schoolID, err := p.school(rec)
				if err != nil {
					return nil, err
				}
				studentID, err := p.student(schoolID, rec.Get("student_name").S())
				if err != nil {
					return nil, err
				}
				return &schema.FeeStructure{
					StudentID: studentID,
					FeeAmount: rec.Get("fee_amount").F(),
				}, nil
			},
			register: func(p *Pipeline, rec sheet.Record, id uint) error {
				schoolID, err := p.school(rec)
				if err != nil {
					return err
				}
				studentID, err := p.student(schoolID, rec.Get("student_name").S())
				if err != nil {
					return err
				}
				// a student may hold several fee structures; payments
				// resolve against the first one, later ids are only
				// tracked for integrity checks
				key := utoa(studentID)
				if _, ok := p.cache.TryResolve(refcache.FeeStructure, key); ok {
					p.cache.Track(refcache.FeeStructure, id)
					return nil
				}
				return p.cache.Register(refcache.FeeStructure, key, id)
			},
		},
		{
			name:      "fee_payments",
			sheetName: schema.SheetFeePayments,
			table:     "ss_t_fee_payment_installment",
			build: func(p *Pipeline, rec sheet.Record) (schema.Row, error) {
				schoolID, err := p.school(rec)
				if err != nil {
					return nil, err
				}
				studentID, err := p.student(schoolID, rec.Get("student_name").S())
				if err != nil {
					return nil, err
				}
				structID, err := p.cache.Resolve(refcache.FeeStructure, utoa(studentID))
				if err != nil {
					return nil, err
				}
				return &schema.FeePayment{
					StudentID:      studentID,
					FeeStructureID: structID,
					AmountPaid:     rec.Get("amount_paid").F(),
					PaymentDate:    rec.Get("payment_date").T(),
					PaymentMethod:  rec.Get("payment_method").S(),
				}, nil
			},
			register: func(p *Pipeline, rec sheet.Record, id uint) error {
				p.cache.Track(refcache.FeePayment, id)
				p.paymentIDs = append(p.paymentIDs, id)
				return nil
			},
		},
		{
			// Derived: one income row per fee payment committed this run.
			name:  "school_income",
			table: "ss_t_school_income",
			derive: func(p *Pipeline) []schema.Row {
				rows := make([]schema.Row, 0, len(p.paymentIDs))
				for _, pid := range p.paymentIDs {
					rows = append(rows, &schema.SchoolIncome{FeePaymentID: pid})
				}
				return rows
			},
		},
		{
			name:      "teacher_salary_structure",
			sheetName: schema.SheetSalaryStructure,
			table:     "ss_t_teacher_salary_structure",
			build: func(p *Pipeline, rec sheet.Record) (schema.Row, error) {
				schoolID, err := p.school(rec)
				if err != nil {
					return nil, err
				}
				teacherID, err := p.teacher(schoolID, rec.Get("teacher_name").S())
				if err != nil {
					return nil, err
				}
				return &schema.SalaryStructure{
					TeacherID:       teacherID,
					BasicPay:        rec.Get("basic_pay").F(),
					HRA:             rec.Get("hra").F(),
					OtherAllowances: rec.Get("other_allowances").F(),
				}, nil
			},
		},
		{
			name:      "teacher_payslips",
			sheetName: schema.SheetPayslips,
			table:     "ss_t_teacher_salary_payslip",
			build: func(p *Pipeline, rec sheet.Record) (schema.Row, error) {
				schoolID, err := p.school(rec)
				if err != nil {
					return nil, err
				}
				teacherID, err := p.teacher(schoolID, rec.Get("teacher_name").S())
				if err != nil {
					return nil, err
				}
				gross := rec.Get("gross_salary").F()
				deductions := rec.Get("deductions").F()
				// net is always derived, never read from the sheet
				return &schema.Payslip{
					TeacherID:   teacherID,
					MonthYear:   rec.Get("month_year").S(),
					GrossSalary: gross,
					Deductions:  deductions,
					NetSalary:   gross - deductions,
				}, nil
			},
		},
	}
}
