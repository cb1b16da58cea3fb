// Package synth generates in-memory sheet records for any input workbook
// that is absent, honoring the cardinality rules configured for the run
// (schools × grades × sections × students, teachers covering at least two
// sections, attendance at or above the configured present ratio). All
// randomness flows from the configured seed, so equal seeds produce equal
// rows. Generation follows the loader's dependency order because child rows
// reference parent natural keys.
package synth

import (
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/rajmukherjee207/SQL-Student-Loader/config"
	"github.com/rajmukherjee207/SQL-Student-Loader/internal/schema"
	"github.com/rajmukherjee207/SQL-Student-Loader/internal/sheet"
)

// anchor is the fixed first school day synthesized dates count from.
var anchor = time.Date(2025, time.June, 2, 0, 0, 0, 0, time.UTC)

var (
	subjectNames   = []string{"Math", "Science", "English"}
	locations      = []string{"Mumbai", "Pune", "Nagpur", "Nashik"}
	qualifications = []string{"BEd", "MEd", "MSc"}
	absentRemarks  = []string{"Sick leave", "Family function", "Travel"}
)

type sectionRef struct {
	school  string
	grade   string
	section string
}

type assignment struct {
	school  string
	teacher string
	grade   string
	section string
	subject string
}

type studentRef struct {
	school  string
	name    string
	grade   string
	section string
}

type Synthesizer struct {
	cfg config.Config
	rng *rand.Rand

	tables map[string][]sheet.Record

	schools     []string
	sections    []sectionRef
	teachers    map[string][]string // school → teacher names
	assignments []assignment
	students    []studentRef
}

func New(cfg config.Config) *Synthesizer {
	s := &Synthesizer{
		cfg:      cfg,
		rng:      rand.New(rand.NewSource(cfg.Seed)),
		tables:   make(map[string][]sheet.Record),
		teachers: make(map[string][]string),
	}
	s.generate()
	return s
}

// Records returns the synthesized rows for one sheet name.
func (s *Synthesizer) Records(name string) ([]sheet.Record, bool) {
	recs, ok := s.tables[name]
	return recs, ok
}

func (s *Synthesizer) generate() {
	s.genSchools()
	s.genGrades()
	s.genSections()
	s.genSubjects()
	s.genTeachers()
	s.genTeacherSectionMap()
	s.genStudents()
	s.genAttendance()
	s.genClassDiary()
	s.genHomework()
	s.genTimetable()
	s.genFees()
	s.genFeePayments()
	s.genSalaryStructure()
	s.genPayslips()
}

func (s *Synthesizer) add(name string, cells map[string]sheet.Value) {
	s.tables[name] = append(s.tables[name], sheet.Record{
		Row:   len(s.tables[name]) + 1,
		Cells: cells,
	})
}

func (s *Synthesizer) genSchools() {
	for i := 0; i < s.cfg.Schools; i++ {
		name := fmt.Sprintf("Demo School %d", i+1)
		kind := "Private"
		if i%2 == 1 {
			kind = "Public"
		}
		s.schools = append(s.schools, name)
		s.add(schema.SheetSchools, map[string]sheet.Value{
			"name":            sheet.Str(name),
			"type":            sheet.Str(kind),
			"contact_details": sheet.Str(fmt.Sprintf("99999%05d", i+1)),
			"location":        sheet.Str(locations[i%len(locations)]),
		})
	}
}

func gradeName(g int) string { return fmt.Sprintf("Grade %d", 6+g) }

func (s *Synthesizer) genGrades() {
	for _, school := range s.schools {
		for g := 0; g < s.cfg.GradesPerSchool; g++ {
			s.add(schema.SheetGrades, map[string]sheet.Value{
				"school_name":   sheet.Str(school),
				"grade_name":    sheet.Str(gradeName(g)),
				"display_order": sheet.Int(int64(g + 1)),
			})
		}
	}
}

func (s *Synthesizer) genSections() {
	for _, school := range s.schools {
		for g := 0; g < s.cfg.GradesPerSchool; g++ {
			for sec := 0; sec < s.cfg.SectionsPerGrade; sec++ {
				name := string(rune('A' + sec))
				s.sections = append(s.sections, sectionRef{school, gradeName(g), name})
				s.add(schema.SheetSections, map[string]sheet.Value{
					"school_name":  sheet.Str(school),
					"grade_name":   sheet.Str(gradeName(g)),
					"section_name": sheet.Str(name),
				})
			}
		}
	}
}

func (s *Synthesizer) genSubjects() {
	for _, school := range s.schools {
		for _, subj := range subjectNames {
			s.add(schema.SheetSubjects, map[string]sheet.Value{
				"school_name":  sheet.Str(school),
				"subject_name": sheet.Str(subj),
			})
		}
	}
}

func (s *Synthesizer) genTeachers() {
	for i := 0; i < s.cfg.Teachers; i++ {
		school := s.schools[i%len(s.schools)]
		name := fmt.Sprintf("Teacher %02d", i+1)
		gender := "F"
		if s.rng.Intn(2) == 0 {
			gender = "M"
		}
		s.teachers[school] = append(s.teachers[school], name)
		s.add(schema.SheetTeachers, map[string]sheet.Value{
			"school_name":   sheet.Str(school),
			"name":          sheet.Str(name),
			"contact_info":  sheet.Str(fmt.Sprintf("88888%05d", i+1)),
			"gender":        sheet.Str(gender),
			"qualification": sheet.Str(qualifications[i%len(qualifications)]),
		})
	}
}

// genTeacherSectionMap round-robins each teacher over the sections of their
// own school, SectionsPerTeacher consecutive sections apiece, so every
// teacher covers at least that many distinct sections.
func (s *Synthesizer) genTeacherSectionMap() {
	bySchool := make(map[string][]sectionRef)
	for _, sec := range s.sections {
		bySchool[sec.school] = append(bySchool[sec.school], sec)
	}
	for _, school := range s.schools {
		secs := bySchool[school]
		if len(secs) == 0 {
			continue
		}
		idx := 0
		for _, teacher := range s.teachers[school] {
			for k := 0; k < s.cfg.SectionsPerTeacher; k++ {
				sec := secs[idx%len(secs)]
				idx++
				a := assignment{
					school:  school,
					teacher: teacher,
					grade:   sec.grade,
					section: sec.section,
					subject: subjectNames[k%len(subjectNames)],
				}
				s.assignments = append(s.assignments, a)
				s.add(schema.SheetTeacherSectionMap, map[string]sheet.Value{
					"school_name":  sheet.Str(a.school),
					"teacher_name": sheet.Str(a.teacher),
					"grade_name":   sheet.Str(a.grade),
					"section_name": sheet.Str(a.section),
					"subject_name": sheet.Str(a.subject),
				})
			}
		}
	}
}

func (s *Synthesizer) genStudents() {
	counter := make(map[string]int)
	for _, sec := range s.sections {
		for n := 0; n < s.cfg.StudentsPerSection; n++ {
			counter[sec.school]++
			name := fmt.Sprintf("Student %03d", counter[sec.school])
			dob := time.Date(2012, time.January, 1, 0, 0, 0, 0, time.UTC).
				AddDate(0, 0, s.rng.Intn(365*3))
			gender := "F"
			if s.rng.Intn(2) == 0 {
				gender = "M"
			}
			s.students = append(s.students, studentRef{sec.school, name, sec.grade, sec.section})
			s.add(schema.SheetStudents, map[string]sheet.Value{
				"school_name":   sheet.Str(sec.school),
				"name":          sheet.Str(name),
				"date_of_birth": sheet.Date(dob),
				"gender":        sheet.Str(gender),
				"grade_name":    sheet.Str(sec.grade),
				"section_name":  sheet.Str(sec.section),
				"academic_year": sheet.Str(s.cfg.AcademicYear),
			})
		}
	}
}

// schoolDays yields n consecutive weekdays from the anchor date.
func schoolDays(n int) []time.Time {
	days := make([]time.Time, 0, n)
	d := anchor
	for len(days) < n {
		if wd := d.Weekday(); wd != time.Saturday && wd != time.Sunday {
			days = append(days, d)
		}
		d = d.AddDate(0, 0, 1)
	}
	return days
}

// genAttendance draws each day at roughly 85% present, then repairs any
// student below the configured target ratio by flipping their earliest
// non-present days, so the floor holds for every student rather than in
// expectation.
func (s *Synthesizer) genAttendance() {
	days := schoolDays(s.cfg.AttendanceDays)
	need := int(math.Ceil(s.cfg.AttendanceTarget * float64(len(days))))
	for _, st := range s.students {
		statuses := make([]string, len(days))
		remarks := make([]string, len(days))
		present := 0
		for i := range days {
			switch {
			case s.rng.Float64() <= 0.85:
				statuses[i] = "Present"
				present++
			case s.rng.Intn(2) == 0:
				statuses[i] = "Late"
			default:
				statuses[i] = "Absent"
				remarks[i] = absentRemarks[s.rng.Intn(len(absentRemarks))]
			}
		}
		for i := range statuses {
			if present >= need {
				break
			}
			if statuses[i] != "Present" {
				statuses[i] = "Present"
				remarks[i] = ""
				present++
			}
		}
		for i, d := range days {
			cells := map[string]sheet.Value{
				"school_name":     sheet.Str(st.school),
				"student_name":    sheet.Str(st.name),
				"attendance_date": sheet.Date(d),
				"status":          sheet.Str(statuses[i]),
				"remarks":         sheet.Absent(sheet.TypeString),
			}
			if remarks[i] != "" {
				cells["remarks"] = sheet.Str(remarks[i])
			}
			s.add(schema.SheetAttendance, cells)
		}
	}
}

func (s *Synthesizer) firstAssignment(school, teacher string) (assignment, bool) {
	for _, a := range s.assignments {
		if a.school == school && a.teacher == teacher {
			return a, true
		}
	}
	return assignment{}, false
}

func (s *Synthesizer) genClassDiary() {
	for _, school := range s.schools {
		for _, teacher := range s.teachers[school] {
			a, ok := s.firstAssignment(school, teacher)
			if !ok {
				continue
			}
			for i := 0; i < s.cfg.DiaryPerTeacher; i++ {
				s.add(schema.SheetClassDiary, map[string]sheet.Value{
					"school_name":  sheet.Str(school),
					"grade_name":   sheet.Str(a.grade),
					"section_name": sheet.Str(a.section),
					"subject_name": sheet.Str(a.subject),
					"teacher_name": sheet.Str(teacher),
					"diary_date":   sheet.Date(anchor.AddDate(0, 0, i)),
					"activity":     sheet.Str(fmt.Sprintf("Activity %d", i+1)),
				})
			}
		}
	}
}

func (s *Synthesizer) genHomework() {
	statuses := []string{"Pending", "Submitted", "Completed"}
	for _, school := range s.schools {
		for _, teacher := range s.teachers[school] {
			a, ok := s.firstAssignment(school, teacher)
			if !ok {
				continue
			}
			for i, status := range statuses {
				s.add(schema.SheetHomework, map[string]sheet.Value{
					"school_name":   sheet.Str(school),
					"grade_name":    sheet.Str(a.grade),
					"section_name":  sheet.Str(a.section),
					"subject_name":  sheet.Str(a.subject),
					"teacher_name":  sheet.Str(teacher),
					"homework_date": sheet.Date(anchor.AddDate(0, 0, i)),
					"status":        sheet.Str(status),
					"description":   sheet.Str(fmt.Sprintf("HW %s", status)),
				})
			}
		}
	}
}

// genTimetable lays out Monday..Friday, four periods per section; the third
// period is a break with no subject or teacher attached.
func (s *Synthesizer) genTimetable() {
	weekdays := []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"}
	for _, sec := range s.sections {
		var covering []assignment
		for _, a := range s.assignments {
			if a.school == sec.school && a.grade == sec.grade && a.section == sec.section {
				covering = append(covering, a)
			}
		}
		slot := 0
		for _, day := range weekdays {
			for period := 1; period <= 4; period++ {
				cells := map[string]sheet.Value{
					"school_name":   sheet.Str(sec.school),
					"grade_name":    sheet.Str(sec.grade),
					"section_name":  sheet.Str(sec.section),
					"day_of_week":   sheet.Str(day),
					"period_number": sheet.Int(int64(period)),
					"subject_name":  sheet.Absent(sheet.TypeString),
					"teacher_name":  sheet.Absent(sheet.TypeString),
				}
				if period == 3 || len(covering) == 0 {
					cells["period_type"] = sheet.Str("Break")
				} else {
					a := covering[slot%len(covering)]
					slot++
					cells["period_type"] = sheet.Str("Class")
					cells["subject_name"] = sheet.Str(a.subject)
					cells["teacher_name"] = sheet.Str(a.teacher)
				}
				s.add(schema.SheetTimetable, cells)
			}
		}
	}
}

func (s *Synthesizer) genFees() {
	for _, st := range s.students {
		s.add(schema.SheetFees, map[string]sheet.Value{
			"school_name":  sheet.Str(st.school),
			"student_name": sheet.Str(st.name),
			"fee_amount":   sheet.Float(s.cfg.FeeAmount),
		})
	}
}

func (s *Synthesizer) genFeePayments() {
	for i, st := range s.students {
		method := "Online"
		if i%2 == 1 {
			method = "Offline"
		}
		s.add(schema.SheetFeePayments, map[string]sheet.Value{
			"school_name":    sheet.Str(st.school),
			"student_name":   sheet.Str(st.name),
			"amount_paid":    sheet.Float(s.cfg.PaymentAmount),
			"payment_date":   sheet.Date(anchor),
			"payment_method": sheet.Str(method),
		})
	}
}

func (s *Synthesizer) genSalaryStructure() {
	for _, school := range s.schools {
		for _, teacher := range s.teachers[school] {
			s.add(schema.SheetSalaryStructure, map[string]sheet.Value{
				"school_name":      sheet.Str(school),
				"teacher_name":     sheet.Str(teacher),
				"basic_pay":        sheet.Float(s.cfg.BasicPay),
				"hra":              sheet.Float(s.cfg.HRA),
				"other_allowances": sheet.Float(s.cfg.OtherAllowances),
			})
		}
	}
}

func (s *Synthesizer) genPayslips() {
	gross := s.cfg.BasicPay + s.cfg.HRA + s.cfg.OtherAllowances
	for _, school := range s.schools {
		for _, teacher := range s.teachers[school] {
			for _, month := range s.cfg.PayslipMonths {
				s.add(schema.SheetPayslips, map[string]sheet.Value{
					"school_name":  sheet.Str(school),
					"teacher_name": sheet.Str(teacher),
					"month_year":   sheet.Str(month),
					"gross_salary": sheet.Float(gross),
					"deductions":   sheet.Float(s.cfg.Deductions),
				})
			}
		}
	}
}

// WriteTemplates exports every synthesized sheet as a real workbook under
// dir, so users can inspect the expected formats and fill in their own data.
func (s *Synthesizer) WriteTemplates(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create template dir: %w", err)
	}
	for _, name := range schema.SheetOrder {
		contract := schema.Contracts[name]
		f := excelize.NewFile()
		sheetName := f.GetSheetName(0)

		header := make([]any, len(contract.Columns))
		for i, col := range contract.Columns {
			header[i] = col.Name
		}
		if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
			return err
		}
		for i, rec := range s.tables[name] {
			row := make([]any, len(contract.Columns))
			for j, col := range contract.Columns {
				row[j] = rec.Get(col.Name).String()
			}
			cell, err := excelize.CoordinatesToCellName(1, i+2)
			if err != nil {
				return err
			}
			if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
				return err
			}
		}
		path := filepath.Join(dir, name+".xlsx")
		if err := f.SaveAs(path); err != nil {
			return fmt.Errorf("save template %s: %w", path, err)
		}
		_ = f.Close()
	}
	return nil
}
