// Package schema declares the GORM models for the school-operations tables
// the loader populates, mirroring the externally supplied DDL contract
// (ss_t_* tables, auto-increment surrogate keys, audit timestamps owned by
// the store layer).
package schema

import "time"

// Row is any insertable model: the gateway creates it and reads back the
// generated surrogate key, the validator checks its column map.
type Row interface {
	TableName() string
	PK() uint
	Fields() map[string]any
}

type School struct {
	SchoolID       uint      `gorm:"primaryKey;autoIncrement;column:school_id"`
	Name           string    `gorm:"size:255;not null;column:name"`
	Type           string    `gorm:"size:50;column:type"`
	ContactDetails string    `gorm:"size:255;column:contact_details"`
	Location       string    `gorm:"size:255;column:location"`
	CreatedAt      time.Time `gorm:"autoCreateTime"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime"`
}

func (School) TableName() string { return "ss_t_schools" }
func (s *School) PK() uint       { return s.SchoolID }
func (s *School) Fields() map[string]any {
	return map[string]any{
		"name":            s.Name,
		"type":            s.Type,
		"contact_details": s.ContactDetails,
		"location":        s.Location,
	}
}

type Grade struct {
	GradeID      uint      `gorm:"primaryKey;autoIncrement;column:grade_id"`
	SchoolID     uint      `gorm:"not null;index;column:school_id"`
	GradeName    string    `gorm:"size:100;not null;column:grade_name"`
	DisplayOrder int       `gorm:"column:display_order"`
	IsActive     bool      `gorm:"default:true;column:is_active"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

func (Grade) TableName() string { return "ss_t_grade" }
func (g *Grade) PK() uint       { return g.GradeID }
func (g *Grade) Fields() map[string]any {
	return map[string]any{
		"school_id":     g.SchoolID,
		"grade_name":    g.GradeName,
		"display_order": g.DisplayOrder,
	}
}

type Section struct {
	SectionID   uint      `gorm:"primaryKey;autoIncrement;column:section_id"`
	GradeID     uint      `gorm:"not null;index;column:grade_id"`
	SectionName string    `gorm:"size:50;not null;column:section_name"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

func (Section) TableName() string { return "ss_t_section" }
func (s *Section) PK() uint       { return s.SectionID }
func (s *Section) Fields() map[string]any {
	return map[string]any{
		"grade_id":     s.GradeID,
		"section_name": s.SectionName,
	}
}

type Subject struct {
	SubjectID   uint      `gorm:"primaryKey;autoIncrement;column:subject_id"`
	SchoolID    uint      `gorm:"not null;index;column:school_id"`
	SubjectName string    `gorm:"size:100;not null;column:subject_name"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

func (Subject) TableName() string { return "ss_t_subject" }
func (s *Subject) PK() uint       { return s.SubjectID }
func (s *Subject) Fields() map[string]any {
	return map[string]any{
		"school_id":    s.SchoolID,
		"subject_name": s.SubjectName,
	}
}

type Teacher struct {
	TeacherID     uint      `gorm:"primaryKey;autoIncrement;column:teacher_id"`
	SchoolID      uint      `gorm:"not null;index;column:school_id"`
	Name          string    `gorm:"size:255;not null;column:name"`
	ContactInfo   string    `gorm:"size:255;column:contact_info"`
	Gender        string    `gorm:"size:10;column:gender"`
	Qualification string    `gorm:"size:255;column:qualification"`
	CreatedAt     time.Time `gorm:"autoCreateTime"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime"`
}

func (Teacher) TableName() string { return "ss_t_teacher" }
func (t *Teacher) PK() uint       { return t.TeacherID }
func (t *Teacher) Fields() map[string]any {
	return map[string]any{
		"school_id": t.SchoolID,
		"name":      t.Name,
	}
}

type TeacherSectionMap struct {
	ID        uint      `gorm:"primaryKey;autoIncrement;column:id"`
	TeacherID uint      `gorm:"not null;index;column:teacher_id"`
	GradeID   uint      `gorm:"not null;column:grade_id"`
	SectionID uint      `gorm:"not null;column:section_id"`
	SubjectID uint      `gorm:"not null;column:subject_id"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (TeacherSectionMap) TableName() string { return "ss_t_teacher_section_map" }
func (m *TeacherSectionMap) PK() uint       { return m.ID }
func (m *TeacherSectionMap) Fields() map[string]any {
	return map[string]any{
		"teacher_id": m.TeacherID,
		"grade_id":   m.GradeID,
		"section_id": m.SectionID,
		"subject_id": m.SubjectID,
	}
}

type Student struct {
	StudentID uint      `gorm:"primaryKey;autoIncrement;column:student_id"`
	SchoolID  uint      `gorm:"not null;index;column:school_id"`
	Name      string    `gorm:"size:255;not null;column:name"`
	DOB       time.Time `gorm:"column:dob"`
	Gender    string    `gorm:"size:10;column:gender"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (Student) TableName() string { return "ss_t_student" }
func (s *Student) PK() uint       { return s.StudentID }
func (s *Student) Fields() map[string]any {
	return map[string]any{
		"school_id": s.SchoolID,
		"name":      s.Name,
	}
}

type StudentAcademicMap struct {
	ID           uint      `gorm:"primaryKey;autoIncrement;column:id"`
	StudentID    uint      `gorm:"not null;index;column:student_id"`
	GradeID      uint      `gorm:"not null;column:grade_id"`
	SectionID    uint      `gorm:"not null;column:section_id"`
	AcademicYear string    `gorm:"size:20;not null;column:academic_year"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

func (StudentAcademicMap) TableName() string { return "ss_t_student_academic_map" }
func (m *StudentAcademicMap) PK() uint       { return m.ID }
func (m *StudentAcademicMap) Fields() map[string]any {
	return map[string]any{
		"student_id":    m.StudentID,
		"grade_id":      m.GradeID,
		"section_id":    m.SectionID,
		"academic_year": m.AcademicYear,
	}
}

type AttendanceRecord struct {
	AttendanceID   uint      `gorm:"primaryKey;autoIncrement;column:attendance_id"`
	StudentID      uint      `gorm:"not null;index;column:student_id"`
	AttendanceDate time.Time `gorm:"not null;column:attendance_date"`
	Status         string    `gorm:"size:20;not null;column:status"`
	Remarks        string    `gorm:"size:255;column:remarks"`
	CreatedAt      time.Time `gorm:"autoCreateTime"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime"`
}

func (AttendanceRecord) TableName() string { return "ss_t_attendance_register" }
func (a *AttendanceRecord) PK() uint       { return a.AttendanceID }
func (a *AttendanceRecord) Fields() map[string]any {
	return map[string]any{
		"student_id":      a.StudentID,
		"attendance_date": a.AttendanceDate,
		"status":          a.Status,
	}
}

type ClassDiaryEntry struct {
	DiaryID   uint      `gorm:"primaryKey;autoIncrement;column:diary_id"`
	GradeID   uint      `gorm:"not null;column:grade_id"`
	SectionID uint      `gorm:"not null;column:section_id"`
	SubjectID uint      `gorm:"not null;column:subject_id"`
	TeacherID uint      `gorm:"not null;index;column:teacher_id"`
	DiaryDate time.Time `gorm:"not null;column:diary_date"`
	Activity  string    `gorm:"type:text;column:activity"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (ClassDiaryEntry) TableName() string { return "ss_t_class_diary" }
func (d *ClassDiaryEntry) PK() uint       { return d.DiaryID }
func (d *ClassDiaryEntry) Fields() map[string]any {
	return map[string]any{
		"grade_id":   d.GradeID,
		"section_id": d.SectionID,
		"subject_id": d.SubjectID,
		"teacher_id": d.TeacherID,
		"diary_date": d.DiaryDate,
	}
}

type HomeworkRecord struct {
	HomeworkID   uint      `gorm:"primaryKey;autoIncrement;column:homework_id"`
	SchoolID     uint      `gorm:"not null;column:school_id"`
	GradeID      uint      `gorm:"not null;column:grade_id"`
	SectionID    uint      `gorm:"not null;column:section_id"`
	SubjectID    uint      `gorm:"not null;column:subject_id"`
	TeacherID    uint      `gorm:"not null;index;column:teacher_id"`
	HomeworkDate time.Time `gorm:"not null;column:homework_date"`
	Status       string    `gorm:"size:20;not null;column:status"`
	Description  string    `gorm:"type:text;column:description"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

func (HomeworkRecord) TableName() string { return "ss_t_homework_details" }
func (h *HomeworkRecord) PK() uint       { return h.HomeworkID }
func (h *HomeworkRecord) Fields() map[string]any {
	return map[string]any{
		"school_id":     h.SchoolID,
		"grade_id":      h.GradeID,
		"section_id":    h.SectionID,
		"subject_id":    h.SubjectID,
		"teacher_id":    h.TeacherID,
		"homework_date": h.HomeworkDate,
		"status":        h.Status,
	}
}

type TimetableSlot struct {
	TimetableID  uint      `gorm:"primaryKey;autoIncrement;column:timetable_id"`
	SchoolID     uint      `gorm:"not null;column:school_id"`
	GradeID      uint      `gorm:"not null;column:grade_id"`
	SectionID    uint      `gorm:"not null;index;column:section_id"`
	SubjectID    *uint     `gorm:"column:subject_id"`
	TeacherID    *uint     `gorm:"column:teacher_id"`
	DayOfWeek    string    `gorm:"size:10;not null;column:day_of_week"`
	PeriodNumber int       `gorm:"not null;column:period_number"`
	PeriodType   string    `gorm:"size:10;not null;column:period_type"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

func (TimetableSlot) TableName() string { return "ss_t_class_timetable" }
func (s *TimetableSlot) PK() uint       { return s.TimetableID }
func (s *TimetableSlot) Fields() map[string]any {
	return map[string]any{
		"school_id":     s.SchoolID,
		"grade_id":      s.GradeID,
		"section_id":    s.SectionID,
		"subject_id":    s.SubjectID,
		"teacher_id":    s.TeacherID,
		"day_of_week":   s.DayOfWeek,
		"period_number": s.PeriodNumber,
		"period_type":   s.PeriodType,
	}
}

type FeeStructure struct {
	FeeStructureID uint      `gorm:"primaryKey;autoIncrement;column:fee_structure_id"`
	StudentID      uint      `gorm:"not null;index;column:student_id"`
	FeeAmount      float64   `gorm:"not null;column:fee_amount"`
	CreatedAt      time.Time `gorm:"autoCreateTime"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime"`
}

func (FeeStructure) TableName() string { return "ss_t_student_fee_structure" }
func (f *FeeStructure) PK() uint       { return f.FeeStructureID }
func (f *FeeStructure) Fields() map[string]any {
	return map[string]any{
		"student_id": f.StudentID,
		"fee_amount": f.FeeAmount,
	}
}

type FeePayment struct {
	FeePaymentID   uint      `gorm:"primaryKey;autoIncrement;column:fee_payment_id"`
	StudentID      uint      `gorm:"not null;index;column:student_id"`
	FeeStructureID uint      `gorm:"not null;column:fee_structure_id"`
	AmountPaid     float64   `gorm:"not null;column:amount_paid"`
	PaymentDate    time.Time `gorm:"not null;column:payment_date"`
	PaymentMethod  string    `gorm:"size:20;column:payment_method"`
	CreatedAt      time.Time `gorm:"autoCreateTime"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime"`
}

func (FeePayment) TableName() string { return "ss_t_fee_payment_installment" }
func (p *FeePayment) PK() uint       { return p.FeePaymentID }
func (p *FeePayment) Fields() map[string]any {
	return map[string]any{
		"student_id":       p.StudentID,
		"fee_structure_id": p.FeeStructureID,
		"amount_paid":      p.AmountPaid,
		"payment_date":     p.PaymentDate,
	}
}

type SchoolIncome struct {
	IncomeID     uint      `gorm:"primaryKey;autoIncrement;column:income_id"`
	FeePaymentID uint      `gorm:"not null;index;column:fee_payment_id"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

func (SchoolIncome) TableName() string { return "ss_t_school_income" }
func (i *SchoolIncome) PK() uint       { return i.IncomeID }
func (i *SchoolIncome) Fields() map[string]any {
	return map[string]any{
		"fee_payment_id": i.FeePaymentID,
	}
}

type SalaryStructure struct {
	SalaryStructureID uint      `gorm:"primaryKey;autoIncrement;column:salary_structure_id"`
	TeacherID         uint      `gorm:"not null;index;column:teacher_id"`
	BasicPay          float64   `gorm:"not null;column:basic_pay"`
	HRA               float64   `gorm:"column:hra"`
	OtherAllowances   float64   `gorm:"column:other_allowances"`
	CreatedAt         time.Time `gorm:"autoCreateTime"`
	UpdatedAt         time.Time `gorm:"autoUpdateTime"`
}

func (SalaryStructure) TableName() string { return "ss_t_teacher_salary_structure" }
func (s *SalaryStructure) PK() uint       { return s.SalaryStructureID }
func (s *SalaryStructure) Fields() map[string]any {
	return map[string]any{
		"teacher_id": s.TeacherID,
		"basic_pay":  s.BasicPay,
		"hra":        s.HRA,
	}
}

type Payslip struct {
	PayslipID   uint      `gorm:"primaryKey;autoIncrement;column:payslip_id"`
	TeacherID   uint      `gorm:"not null;index;column:teacher_id"`
	MonthYear   string    `gorm:"size:10;not null;column:month_year"`
	GrossSalary float64   `gorm:"not null;column:gross_salary"`
	Deductions  float64   `gorm:"column:deductions"`
	NetSalary   float64   `gorm:"not null;column:net_salary"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

func (Payslip) TableName() string { return "ss_t_teacher_salary_payslip" }
func (p *Payslip) PK() uint       { return p.PayslipID }
func (p *Payslip) Fields() map[string]any {
	return map[string]any{
		"teacher_id":   p.TeacherID,
		"month_year":   p.MonthYear,
		"gross_salary": p.GrossSalary,
		"deductions":   p.Deductions,
		"net_salary":   p.NetSalary,
	}
}

// All lists every target model in dependency order, for migrations in tests.
func All() []any {
	return []any{
		&School{}, &Grade{}, &Section{}, &Subject{}, &Teacher{},
		&TeacherSectionMap{}, &Student{}, &StudentAcademicMap{},
		&AttendanceRecord{}, &ClassDiaryEntry{}, &HomeworkRecord{},
		&TimetableSlot{}, &FeeStructure{}, &FeePayment{}, &SchoolIncome{},
		&SalaryStructure{}, &Payslip{},
	}
}
